package nvar

import (
	"runtime"
	"sync"
	"unsafe"
)

// FeatureHandle wraps a handle created by NvAR_Create.
//
// Setters that hand Go memory to the SDK (strings, objects, arrays) pin it
// until Destroy, since the SDK may keep the pointer for later Run calls.
type FeatureHandle struct {
	lib     *Library
	feature Feature

	mu        sync.Mutex
	handle    Handle
	destroyed bool
	pinner    runtime.Pinner
}

// NewFeature creates a handle for feature f.
func (l *Library) NewFeature(f Feature) (*FeatureHandle, error) {
	var h Handle
	if r := l.Create(f, &h); !r.OK() {
		return nil, &CallError{Func: "NvAR_Create", Feature: f, Result: r}
	}
	return &FeatureHandle{lib: l, feature: f, handle: h}, nil
}

// Feature returns the feature this handle was created for.
func (f *FeatureHandle) Feature() Feature {
	return f.feature
}

// Handle returns the raw SDK handle.
func (f *FeatureHandle) Handle() Handle {
	return f.handle
}

func (f *FeatureHandle) call(fn string, p Parameter, c func(h Handle) Result) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.destroyed {
		return ErrDestroyed
	}
	if r := c(f.handle); !r.OK() {
		return &CallError{Func: fn, Feature: f.feature, Param: p, Result: r}
	}
	return nil
}

// pin keeps ptr reachable and unmovable until Destroy. Callers hold f.mu.
func (f *FeatureHandle) pin(ptr any) {
	f.pinner.Pin(ptr)
}

// Pin keeps Go memory reachable through an object handed to SetObject,
// such as the rectangle array behind a Bounds, pinned until Destroy.
func (f *FeatureHandle) Pin(ptr any) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.destroyed {
		return ErrDestroyed
	}
	f.pin(ptr)
	return nil
}

// Load loads the models for the configured feature.
func (f *FeatureHandle) Load() error {
	return f.call("NvAR_Load", "", f.lib.Load)
}

// Run executes the feature on the current inputs.
func (f *FeatureHandle) Run() error {
	return f.call("NvAR_Run", "", f.lib.Run)
}

// Destroy releases the SDK handle and unpins memory passed to setters.
// Calling it again returns ErrDestroyed.
func (f *FeatureHandle) Destroy() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.destroyed {
		return ErrDestroyed
	}
	f.destroyed = true
	r := f.lib.Destroy(f.handle)
	f.pinner.Unpin()
	if !r.OK() {
		return &CallError{Func: "NvAR_Destroy", Feature: f.feature, Result: r}
	}
	return nil
}

func (f *FeatureHandle) SetS32(p Parameter, v int32) error {
	return f.call("NvAR_SetS32", p, func(h Handle) Result { return f.lib.SetS32(h, p, v) })
}

func (f *FeatureHandle) GetS32(p Parameter) (int32, error) {
	var v int32
	err := f.call("NvAR_GetS32", p, func(h Handle) Result { return f.lib.GetS32(h, p, &v) })
	return v, err
}

func (f *FeatureHandle) SetU32(p Parameter, v uint32) error {
	return f.call("NvAR_SetU32", p, func(h Handle) Result { return f.lib.SetU32(h, p, v) })
}

func (f *FeatureHandle) GetU32(p Parameter) (uint32, error) {
	var v uint32
	err := f.call("NvAR_GetU32", p, func(h Handle) Result { return f.lib.GetU32(h, p, &v) })
	return v, err
}

func (f *FeatureHandle) SetU64(p Parameter, v uint64) error {
	return f.call("NvAR_SetU64", p, func(h Handle) Result { return f.lib.SetU64(h, p, v) })
}

func (f *FeatureHandle) GetU64(p Parameter) (uint64, error) {
	var v uint64
	err := f.call("NvAR_GetU64", p, func(h Handle) Result { return f.lib.GetU64(h, p, &v) })
	return v, err
}

func (f *FeatureHandle) SetF32(p Parameter, v float32) error {
	return f.call("NvAR_SetF32", p, func(h Handle) Result { return f.lib.SetF32(h, p, v) })
}

func (f *FeatureHandle) GetF32(p Parameter) (float32, error) {
	var v float32
	err := f.call("NvAR_GetF32", p, func(h Handle) Result { return f.lib.GetF32(h, p, &v) })
	return v, err
}

func (f *FeatureHandle) SetF64(p Parameter, v float64) error {
	return f.call("NvAR_SetF64", p, func(h Handle) Result { return f.lib.SetF64(h, p, v) })
}

func (f *FeatureHandle) GetF64(p Parameter) (float64, error) {
	var v float64
	err := f.call("NvAR_GetF64", p, func(h Handle) Result { return f.lib.GetF64(h, p, &v) })
	return v, err
}

// SetBool stores b as a U32 of 0 or 1, the SDK's boolean convention.
func (f *FeatureHandle) SetBool(p Parameter, b bool) error {
	var v uint32
	if b {
		v = 1
	}
	return f.SetU32(p, v)
}

// SetString passes a NUL-terminated copy of v that lives until Destroy.
func (f *FeatureHandle) SetString(p Parameter, v string) error {
	ptr, err := bytePtrFromString(v)
	if err != nil {
		return err
	}
	return f.call("NvAR_SetString", p, func(h Handle) Result {
		f.pin(ptr)
		return f.lib.SetString(h, p, ptr)
	})
}

// GetString returns a copy of an SDK-owned string.
func (f *FeatureHandle) GetString(p Parameter) (string, error) {
	var ptr *byte
	if err := f.call("NvAR_GetString", p, func(h Handle) Result { return f.lib.GetString(h, p, &ptr) }); err != nil {
		return "", err
	}
	return CString(ptr), nil
}

func (f *FeatureHandle) SetCudaStream(p Parameter, s Stream) error {
	return f.call("NvAR_SetCudaStream", p, func(h Handle) Result { return f.lib.SetCudaStream(h, p, s) })
}

func (f *FeatureHandle) GetCudaStream(p Parameter) (Stream, error) {
	var s Stream
	err := f.call("NvAR_GetCudaStream", p, func(h Handle) Result { return f.lib.GetCudaStream(h, p, &s) })
	return s, err
}

// SetObject passes the struct at ptr. Go memory is pinned until Destroy;
// pointers to SDK or C memory are passed as they are.
func (f *FeatureHandle) SetObject(p Parameter, ptr unsafe.Pointer, size uint32) error {
	return f.call("NvAR_SetObject", p, func(h Handle) Result {
		if ptr != nil {
			f.pin(ptr)
		}
		return f.lib.SetObject(h, p, Object(ptr), size)
	})
}

// GetObject returns the object stored under p.
func (f *FeatureHandle) GetObject(p Parameter, size uint32) (Object, error) {
	var obj Object
	err := f.call("NvAR_GetObject", p, func(h Handle) Result { return f.lib.GetObject(h, p, &obj, size) })
	return obj, err
}

// SetF32Array passes values, which the SDK may write into on Run.
// The slice is pinned until Destroy.
func (f *FeatureHandle) SetF32Array(p Parameter, values []float32) error {
	return f.call("NvAR_SetF32Array", p, func(h Handle) Result {
		var ptr *float32
		if len(values) > 0 {
			ptr = &values[0]
			f.pin(ptr)
		}
		return f.lib.SetF32Array(h, p, ptr, int32(len(values)))
	})
}

// GetF32Array returns a view of the SDK-owned array stored under p.
func (f *FeatureHandle) GetF32Array(p Parameter) ([]float32, error) {
	var ptr *float32
	var n int32
	if err := f.call("NvAR_GetF32Array", p, func(h Handle) Result { return f.lib.GetF32Array(h, p, &ptr, &n) }); err != nil {
		return nil, err
	}
	if ptr == nil || n <= 0 {
		return nil, nil
	}
	return unsafe.Slice(ptr, n), nil
}
