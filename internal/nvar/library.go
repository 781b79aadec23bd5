package nvar

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/ebitengine/purego"
)

// nativeLibrary is an opened shared library.
type nativeLibrary interface {
	lookup(name string) (uintptr, error)
	close() error
}

// Library exposes the SDK entry points as typed func fields.
//
// A Library returned by Open is fully bound: every field is non-nil and
// never changes afterwards, so it is safe for concurrent use. Thread safety
// of the calls themselves is up to the SDK.
type Library struct {
	native   nativeLibrary
	path     string
	modelDir string
	platform platformState

	closeOnce sync.Once
	closeErr  error

	GetVersion func(version *uint32) Result

	Create  func(feature Feature, handle *Handle) Result
	Destroy func(handle Handle) Result
	Run     func(handle Handle) Result
	Load    func(handle Handle) Result

	GetS32        func(handle Handle, param Parameter, value *int32) Result
	SetS32        func(handle Handle, param Parameter, value int32) Result
	GetU32        func(handle Handle, param Parameter, value *uint32) Result
	SetU32        func(handle Handle, param Parameter, value uint32) Result
	GetU64        func(handle Handle, param Parameter, value *uint64) Result
	SetU64        func(handle Handle, param Parameter, value uint64) Result
	GetF32        func(handle Handle, param Parameter, value *float32) Result
	SetF32        func(handle Handle, param Parameter, value float32) Result
	GetF64        func(handle Handle, param Parameter, value *float64) Result
	SetF64        func(handle Handle, param Parameter, value float64) Result
	GetString     func(handle Handle, param Parameter, value **byte) Result
	SetString     func(handle Handle, param Parameter, value *byte) Result
	GetCudaStream func(handle Handle, param Parameter, value *Stream) Result
	SetCudaStream func(handle Handle, param Parameter, value Stream) Result
	GetObject     func(handle Handle, param Parameter, value *Object, size uint32) Result
	SetObject     func(handle Handle, param Parameter, value Object, size uint32) Result
	GetF32Array   func(handle Handle, param Parameter, values **float32, size *int32) Result
	SetF32Array   func(handle Handle, param Parameter, values *float32, size int32) Result
}

// entryPoint pairs an exported symbol with the func field it binds to.
type entryPoint struct {
	symbol string
	fn     any
}

func (l *Library) entryPoints() []entryPoint {
	return []entryPoint{
		{"NvAR_GetVersion", &l.GetVersion},
		{"NvAR_Create", &l.Create},
		{"NvAR_Destroy", &l.Destroy},
		{"NvAR_Run", &l.Run},
		{"NvAR_Load", &l.Load},
		{"NvAR_GetS32", &l.GetS32},
		{"NvAR_SetS32", &l.SetS32},
		{"NvAR_GetU32", &l.GetU32},
		{"NvAR_SetU32", &l.SetU32},
		{"NvAR_GetU64", &l.GetU64},
		{"NvAR_SetU64", &l.SetU64},
		{"NvAR_GetF32", &l.GetF32},
		{"NvAR_SetF32", &l.SetF32},
		{"NvAR_GetF64", &l.GetF64},
		{"NvAR_SetF64", &l.SetF64},
		{"NvAR_GetString", &l.GetString},
		{"NvAR_SetString", &l.SetString},
		{"NvAR_GetCudaStream", &l.GetCudaStream},
		{"NvAR_SetCudaStream", &l.SetCudaStream},
		{"NvAR_GetObject", &l.GetObject},
		{"NvAR_SetObject", &l.SetObject},
		{"NvAR_GetF32Array", &l.GetF32Array},
		{"NvAR_SetF32Array", &l.SetF32Array},
	}
}

// Symbols returns the exported names the SDK library must provide.
func Symbols() []string {
	var l Library
	eps := l.entryPoints()
	names := make([]string, len(eps))
	for i, ep := range eps {
		names[i] = ep.symbol
	}
	return names
}

// Open locates the SDK, loads its shared library and binds every entry point.
// If any symbol is missing the library is released and a *SymbolError
// naming it is returned.
func Open(cfg Config) (*Library, error) {
	return open(cfg, openNative)
}

func open(cfg Config, openFn func(path string) (nativeLibrary, error)) (*Library, error) {
	loc, err := cfg.locate()
	if err != nil {
		return nil, err
	}

	l := &Library{
		path:     loc.library,
		modelDir: loc.modelDir,
	}

	if l.platform, err = enterPlatform(loc.searchDir()); err != nil {
		return nil, err
	}

	native, err := openFn(loc.library)
	if err != nil {
		l.platform.release()
		return nil, fmt.Errorf("failed to load %s: %w", loc.library, err)
	}
	l.native = native

	if err := l.bind(native); err != nil {
		l.Close()
		return nil, err
	}

	return l, nil
}

// bind resolves all symbols first and registers them only when every one
// was found.
func (l *Library) bind(native nativeLibrary) error {
	eps := l.entryPoints()
	addrs := make([]uintptr, len(eps))

	for i, ep := range eps {
		addr, err := native.lookup(ep.symbol)
		if err == nil && addr == 0 {
			err = errors.New("symbol resolved to nil")
		}
		if err != nil {
			return &SymbolError{Symbol: ep.symbol, Library: l.path, Err: err}
		}
		addrs[i] = addr
	}

	for i, ep := range eps {
		if err := register(ep.fn, addrs[i]); err != nil {
			return &SymbolError{Symbol: ep.symbol, Library: l.path, Err: err}
		}
	}

	return nil
}

// register wraps purego.RegisterFunc, which panics on signatures the
// current platform cannot call.
func register(fptr any, addr uintptr) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("register: %v", r)
		}
	}()
	purego.RegisterFunc(fptr, addr)
	return nil
}

// Detached returns a Library that is not backed by a shared library.
// The caller assigns the func fields; Check reports any left unset.
func Detached(libraryPath, modelDir string) *Library {
	return &Library{path: libraryPath, modelDir: modelDir}
}

// Check returns a *SymbolError for the first unbound entry point.
func (l *Library) Check() error {
	for _, ep := range l.entryPoints() {
		if reflect.ValueOf(ep.fn).Elem().IsNil() {
			return &SymbolError{Symbol: ep.symbol, Library: l.path, Err: errors.New("not bound")}
		}
	}
	return nil
}

// ModelPath returns the directory holding the SDK models.
func (l *Library) ModelPath() string {
	return l.modelDir
}

// LibraryPath returns the path the shared library was loaded from.
func (l *Library) LibraryPath() string {
	return l.path
}

// Version queries the SDK version.
func (l *Library) Version() (Version, Result) {
	var v uint32
	r := l.GetVersion(&v)
	return Version(v), r
}

// Close releases the shared library. Entry points must not be called
// afterwards. Close is idempotent.
func (l *Library) Close() error {
	l.closeOnce.Do(func() {
		var errs []error
		if l.native != nil {
			if err := l.native.close(); err != nil {
				errs = append(errs, fmt.Errorf("failed to unload %s: %w", l.path, err))
			}
		}
		if err := l.platform.release(); err != nil {
			errs = append(errs, err)
		}
		l.closeErr = errors.Join(errs...)
	})
	return l.closeErr
}
