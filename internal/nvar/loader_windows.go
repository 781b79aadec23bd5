package nvar

import (
	"path/filepath"

	"golang.org/x/sys/windows"
)

// winLibrary is a library opened with LoadLibraryEx.
type winLibrary struct {
	handle windows.Handle
}

func openNative(path string) (nativeLibrary, error) {
	flags := uintptr(windows.LOAD_LIBRARY_SEARCH_DEFAULT_DIRS)
	if filepath.IsAbs(path) {
		flags |= windows.LOAD_LIBRARY_SEARCH_DLL_LOAD_DIR
	}
	h, err := windows.LoadLibraryEx(path, 0, flags)
	if err != nil {
		return nil, err
	}
	return &winLibrary{handle: h}, nil
}

func (l *winLibrary) lookup(name string) (uintptr, error) {
	return windows.GetProcAddress(l.handle, name)
}

func (l *winLibrary) close() error {
	if l.handle == 0 {
		return nil
	}
	err := windows.FreeLibrary(l.handle)
	l.handle = 0
	return err
}

// CString copies the NUL-terminated string at p. p is typically a
// value returned through NvAR_GetString and stays owned by the SDK.
func CString(p *byte) string {
	if p == nil {
		return ""
	}
	return windows.BytePtrToString(p)
}

func bytePtrFromString(s string) (*byte, error) {
	return windows.BytePtrFromString(s)
}
