//go:build !windows && !darwin && !freebsd && !linux

package nvar

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
	"unsafe"
)

// There is no dynamic loader here, so Open always fails and the service
// reports the SDK as unavailable.
func openNative(path string) (nativeLibrary, error) {
	return nil, fmt.Errorf("cannot load %s on %s: %w", path, runtime.GOOS, errors.ErrUnsupported)
}

// CString copies the NUL-terminated string at p.
func CString(p *byte) string {
	if p == nil {
		return ""
	}
	n := 0
	for *(*byte)(unsafe.Add(unsafe.Pointer(p), n)) != 0 {
		n++
	}
	return string(unsafe.Slice(p, n))
}

func bytePtrFromString(s string) (*byte, error) {
	if strings.IndexByte(s, 0) >= 0 {
		return nil, fmt.Errorf("string %q contains a NUL byte", s)
	}
	b := append([]byte(s), 0)
	return &b[0], nil
}
