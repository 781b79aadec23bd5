package nvar

import (
	"fmt"

	"golang.org/x/sys/windows"
)

// platformState holds the DLL directory cookie registered for the SDK so
// its dependent DLLs resolve from the install directory.
type platformState struct {
	cookie uintptr
}

func enterPlatform(dir string) (platformState, error) {
	if dir == "" {
		return platformState{}, nil
	}
	p, err := windows.UTF16PtrFromString(dir)
	if err != nil {
		return platformState{}, fmt.Errorf("invalid SDK path %q: %w", dir, err)
	}
	cookie, err := windows.AddDllDirectory(p)
	if err != nil {
		return platformState{}, fmt.Errorf("failed to add DLL directory %s: %w", dir, err)
	}
	return platformState{cookie: cookie}, nil
}

func (s *platformState) release() error {
	if s.cookie == 0 {
		return nil
	}
	err := windows.RemoveDllDirectory(s.cookie)
	s.cookie = 0
	return err
}
