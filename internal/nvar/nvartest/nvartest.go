// Package nvartest provides an in-memory stand-in for the AR SDK.
//
// SDK.Library returns a *nvar.Library whose entry points are Go closures
// over per-handle parameter maps, so code built on nvar can be tested
// without the native library or a GPU.
package nvartest

import (
	"slices"
	"sync"
	"unsafe"

	"github.com/ayusman/nvar/internal/nvar"
)

// Status codes returned by the fake. They follow the SDK's numbering.
const (
	StatusGeneral         nvar.Result = -1
	StatusSelector        nvar.Result = -5
	StatusParameter       nvar.Result = -7
	StatusMismatch        nvar.Result = -8
	StatusInitialization  nvar.Result = -12
	StatusFeatureNotFound nvar.Result = -14
)

// Call records one entry point invocation.
type Call struct {
	Func   string
	Handle nvar.Handle
	Param  nvar.Parameter
}

// HandleState is the fake's view of one feature handle.
type HandleState struct {
	Feature nvar.Feature
	Loaded  bool
	Runs    int

	// Values holds scalars by parameter: int32, uint32, uint64, float32,
	// float64, string, nvar.Stream or unsafe.Pointer (objects).
	Values map[nvar.Parameter]any
	Sizes  map[nvar.Parameter]uint32
	Arrays map[nvar.Parameter][]float32

	cstrings map[nvar.Parameter][]byte
}

// Object returns the object pointer stored under p.
func (st *HandleState) Object(p nvar.Parameter) (unsafe.Pointer, bool) {
	obj, ok := st.Values[p].(unsafe.Pointer)
	return obj, ok
}

// SDK is an in-memory AR SDK. The zero value is not usable; call New.
type SDK struct {
	mu          sync.Mutex
	version     uint32
	next        nvar.Handle
	handles     map[nvar.Handle]*HandleState
	calls       []Call
	fail        map[string]nvar.Result
	unsupported map[nvar.Feature]bool
	defaults    map[nvar.Feature]map[nvar.Parameter]any
	runHooks    map[nvar.Feature]func(*HandleState) nvar.Result
	modelDir    string
}

// New returns an SDK reporting version 0.8.2.0.
func New() *SDK {
	return &SDK{
		version:     0x00080200,
		next:        0x1000,
		handles:     make(map[nvar.Handle]*HandleState),
		fail:        make(map[string]nvar.Result),
		unsupported: make(map[nvar.Feature]bool),
		defaults:    make(map[nvar.Feature]map[nvar.Parameter]any),
		runHooks:    make(map[nvar.Feature]func(*HandleState) nvar.Result),
		modelDir:    "/nvartest/models",
	}
}

// SetVersion sets the value returned by NvAR_GetVersion.
func (s *SDK) SetVersion(v uint32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.version = v
}

// SetModelDir sets the model path reported by the returned Library.
func (s *SDK) SetModelDir(dir string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.modelDir = dir
}

// Fail forces entry point fn (e.g. "NvAR_Load") to return r.
// Passing nvar.Success clears it.
func (s *SDK) Fail(fn string, r nvar.Result) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r.OK() {
		delete(s.fail, fn)
		return
	}
	s.fail[fn] = r
}

// Unsupported makes NvAR_Create fail for f.
func (s *SDK) Unsupported(f nvar.Feature) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.unsupported[f] = true
}

// Default presets a value on every handle created for f.
func (s *SDK) Default(f nvar.Feature, p nvar.Parameter, v any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.defaults[f] == nil {
		s.defaults[f] = make(map[nvar.Parameter]any)
	}
	s.defaults[f][p] = v
}

// OnRun installs a hook called by NvAR_Run for handles of feature f.
// The hook runs with the SDK locked and must not call back into it.
func (s *SDK) OnRun(f nvar.Feature, hook func(*HandleState) nvar.Result) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runHooks[f] = hook
}

// Calls returns a copy of the recorded calls.
func (s *SDK) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Call(nil), s.calls...)
}

// Handles returns the number of live handles.
func (s *SDK) Handles() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.handles)
}

// State returns the state of handle h, or nil.
func (s *SDK) State(h nvar.Handle) *HandleState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.handles[h]
}

// begin records the call and resolves h. Callers hold s.mu.
func (s *SDK) begin(fn string, h nvar.Handle, p nvar.Parameter) (*HandleState, nvar.Result) {
	s.calls = append(s.calls, Call{Func: fn, Handle: h, Param: p})
	if r, ok := s.fail[fn]; ok {
		return nil, r
	}
	st, ok := s.handles[h]
	if !ok {
		return nil, StatusParameter
	}
	return st, nvar.Success
}

// Library returns a fully bound Library backed by s.
func (s *SDK) Library() *nvar.Library {
	s.mu.Lock()
	lib := nvar.Detached("nvartest", s.modelDir)
	s.mu.Unlock()

	lib.GetVersion = func(v *uint32) nvar.Result {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.calls = append(s.calls, Call{Func: "NvAR_GetVersion"})
		if r, ok := s.fail["NvAR_GetVersion"]; ok {
			return r
		}
		if v == nil {
			return StatusParameter
		}
		*v = s.version
		return nvar.Success
	}

	lib.Create = func(f nvar.Feature, h *nvar.Handle) nvar.Result {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.calls = append(s.calls, Call{Func: "NvAR_Create", Param: nvar.Parameter(f)})
		if r, ok := s.fail["NvAR_Create"]; ok {
			return r
		}
		if h == nil {
			return StatusParameter
		}
		if s.unsupported[f] || !slices.Contains(nvar.Features(), f) {
			return StatusFeatureNotFound
		}
		st := &HandleState{
			Feature:  f,
			Values:   make(map[nvar.Parameter]any),
			Sizes:    make(map[nvar.Parameter]uint32),
			Arrays:   make(map[nvar.Parameter][]float32),
			cstrings: make(map[nvar.Parameter][]byte),
		}
		for p, v := range s.defaults[f] {
			st.Values[p] = v
		}
		s.next++
		s.handles[s.next] = st
		*h = s.next
		return nvar.Success
	}

	lib.Destroy = func(h nvar.Handle) nvar.Result {
		s.mu.Lock()
		defer s.mu.Unlock()
		if _, r := s.begin("NvAR_Destroy", h, ""); !r.OK() {
			return r
		}
		delete(s.handles, h)
		return nvar.Success
	}

	lib.Load = func(h nvar.Handle) nvar.Result {
		s.mu.Lock()
		defer s.mu.Unlock()
		st, r := s.begin("NvAR_Load", h, "")
		if !r.OK() {
			return r
		}
		st.Loaded = true
		return nvar.Success
	}

	lib.Run = func(h nvar.Handle) nvar.Result {
		s.mu.Lock()
		defer s.mu.Unlock()
		st, r := s.begin("NvAR_Run", h, "")
		if !r.OK() {
			return r
		}
		if !st.Loaded {
			return StatusInitialization
		}
		st.Runs++
		if hook := s.runHooks[st.Feature]; hook != nil {
			return hook(st)
		}
		return nvar.Success
	}

	lib.GetS32 = getter[int32](s, "NvAR_GetS32")
	lib.SetS32 = setter[int32](s, "NvAR_SetS32")
	lib.GetU32 = getter[uint32](s, "NvAR_GetU32")
	lib.SetU32 = setter[uint32](s, "NvAR_SetU32")
	lib.GetU64 = getter[uint64](s, "NvAR_GetU64")
	lib.SetU64 = setter[uint64](s, "NvAR_SetU64")
	lib.GetF32 = getter[float32](s, "NvAR_GetF32")
	lib.SetF32 = setter[float32](s, "NvAR_SetF32")
	lib.GetF64 = getter[float64](s, "NvAR_GetF64")
	lib.SetF64 = setter[float64](s, "NvAR_SetF64")
	lib.GetCudaStream = getter[nvar.Stream](s, "NvAR_GetCudaStream")
	lib.SetCudaStream = setter[nvar.Stream](s, "NvAR_SetCudaStream")

	lib.SetString = func(h nvar.Handle, p nvar.Parameter, v *byte) nvar.Result {
		s.mu.Lock()
		defer s.mu.Unlock()
		st, r := s.begin("NvAR_SetString", h, p)
		if !r.OK() {
			return r
		}
		st.Values[p] = nvar.CString(v)
		return nvar.Success
	}

	lib.GetString = func(h nvar.Handle, p nvar.Parameter, v **byte) nvar.Result {
		s.mu.Lock()
		defer s.mu.Unlock()
		st, r := s.begin("NvAR_GetString", h, p)
		if !r.OK() {
			return r
		}
		str, ok := st.Values[p].(string)
		if !ok {
			return StatusSelector
		}
		buf := append([]byte(str), 0)
		st.cstrings[p] = buf
		*v = &buf[0]
		return nvar.Success
	}

	lib.SetObject = func(h nvar.Handle, p nvar.Parameter, v nvar.Object, size uint32) nvar.Result {
		s.mu.Lock()
		defer s.mu.Unlock()
		st, r := s.begin("NvAR_SetObject", h, p)
		if !r.OK() {
			return r
		}
		st.Values[p] = unsafe.Pointer(v)
		st.Sizes[p] = size
		return nvar.Success
	}

	lib.GetObject = func(h nvar.Handle, p nvar.Parameter, v *nvar.Object, size uint32) nvar.Result {
		s.mu.Lock()
		defer s.mu.Unlock()
		st, r := s.begin("NvAR_GetObject", h, p)
		if !r.OK() {
			return r
		}
		obj, ok := st.Values[p].(unsafe.Pointer)
		if !ok {
			return StatusSelector
		}
		if st.Sizes[p] != size {
			return StatusMismatch
		}
		*v = nvar.Object(obj)
		return nvar.Success
	}

	lib.SetF32Array = func(h nvar.Handle, p nvar.Parameter, values *float32, size int32) nvar.Result {
		s.mu.Lock()
		defer s.mu.Unlock()
		st, r := s.begin("NvAR_SetF32Array", h, p)
		if !r.OK() {
			return r
		}
		if values == nil || size <= 0 {
			delete(st.Arrays, p)
			return nvar.Success
		}
		st.Arrays[p] = unsafe.Slice(values, size)
		return nvar.Success
	}

	lib.GetF32Array = func(h nvar.Handle, p nvar.Parameter, values **float32, size *int32) nvar.Result {
		s.mu.Lock()
		defer s.mu.Unlock()
		st, r := s.begin("NvAR_GetF32Array", h, p)
		if !r.OK() {
			return r
		}
		arr, ok := st.Arrays[p]
		if !ok {
			return StatusSelector
		}
		*values = unsafe.SliceData(arr)
		*size = int32(len(arr))
		return nvar.Success
	}

	return lib
}

func getter[T any](s *SDK, fn string) func(nvar.Handle, nvar.Parameter, *T) nvar.Result {
	return func(h nvar.Handle, p nvar.Parameter, v *T) nvar.Result {
		s.mu.Lock()
		defer s.mu.Unlock()
		st, r := s.begin(fn, h, p)
		if !r.OK() {
			return r
		}
		raw, ok := st.Values[p]
		if !ok {
			return StatusSelector
		}
		val, ok := raw.(T)
		if !ok {
			return StatusMismatch
		}
		*v = val
		return nvar.Success
	}
}

func setter[T any](s *SDK, fn string) func(nvar.Handle, nvar.Parameter, T) nvar.Result {
	return func(h nvar.Handle, p nvar.Parameter, v T) nvar.Result {
		s.mu.Lock()
		defer s.mu.Unlock()
		st, r := s.begin(fn, h, p)
		if !r.OK() {
			return r
		}
		st.Values[p] = v
		return nvar.Success
	}
}
