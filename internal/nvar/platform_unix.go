//go:build !windows

package nvar

// platformState is empty outside Windows; dlopen needs no extra state.
type platformState struct{}

func enterPlatform(string) (platformState, error) {
	return platformState{}, nil
}

func (*platformState) release() error {
	return nil
}
