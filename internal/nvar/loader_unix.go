//go:build darwin || freebsd || linux

package nvar

import (
	"github.com/ebitengine/purego"
	"golang.org/x/sys/unix"
)

// dlLibrary is a library opened with dlopen.
type dlLibrary struct {
	handle uintptr
}

func openNative(path string) (nativeLibrary, error) {
	h, err := purego.Dlopen(path, purego.RTLD_NOW|purego.RTLD_LOCAL)
	if err != nil {
		return nil, err
	}
	return &dlLibrary{handle: h}, nil
}

func (l *dlLibrary) lookup(name string) (uintptr, error) {
	return purego.Dlsym(l.handle, name)
}

func (l *dlLibrary) close() error {
	if l.handle == 0 {
		return nil
	}
	err := purego.Dlclose(l.handle)
	l.handle = 0
	return err
}

// CString copies the NUL-terminated string at p. p is typically a
// value returned through NvAR_GetString and stays owned by the SDK.
func CString(p *byte) string {
	if p == nil {
		return ""
	}
	return unix.BytePtrToString(p)
}

func bytePtrFromString(s string) (*byte, error) {
	return unix.BytePtrFromString(s)
}
