package nvar

import (
	"errors"
	"fmt"
)

var (
	// ErrUnavailable is returned by Shared when the SDK could not be loaded.
	ErrUnavailable = errors.New("nvar: AR SDK unavailable")

	// ErrSDKNotFound is returned when the SDK directory does not exist.
	ErrSDKNotFound = errors.New("nvar: AR SDK directory not found")

	// ErrDestroyed is returned by FeatureHandle methods after Destroy.
	ErrDestroyed = errors.New("nvar: feature handle destroyed")
)

// SymbolError reports an entry point that could not be resolved.
type SymbolError struct {
	Symbol  string
	Library string
	Err     error
}

func (e *SymbolError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("failed to load '%s' from '%s'", e.Symbol, e.Library)
	}
	return fmt.Sprintf("failed to load '%s' from '%s': %v", e.Symbol, e.Library, e.Err)
}

func (e *SymbolError) Unwrap() error {
	return e.Err
}

// CallError carries a non-success status returned by an entry point.
// Result is the SDK's code, unchanged.
type CallError struct {
	Func    string
	Feature Feature
	Param   Parameter
	Result  Result
}

func (e *CallError) Error() string {
	if e.Param != "" {
		return fmt.Sprintf("%s(%s, %s) failed: %s", e.Func, e.Feature, e.Param, e.Result)
	}
	return fmt.Sprintf("%s(%s) failed: %s", e.Func, e.Feature, e.Result)
}

// ResultOf returns the SDK status carried by err, if any.
func ResultOf(err error) (Result, bool) {
	var ce *CallError
	if errors.As(err, &ce) {
		return ce.Result, true
	}
	return Success, false
}
