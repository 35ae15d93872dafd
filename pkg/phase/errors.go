package phase

import (
	"errors"
	"fmt"
)

var (
	// ErrConfig is matched by every *ConfigError.
	ErrConfig = errors.New("invalid configuration")
	// ErrData is matched by every *DataError.
	ErrData = errors.New("invalid phase data")

	ErrPropertyUnavailable = errors.New("property unavailable")
	ErrSingleComponent     = errors.New("method not valid for a single component")
	ErrCompositionLength   = errors.New("composition length does not match component count")
	ErrNoRoot              = errors.New("no root in bracket")
	ErrBetaLength          = errors.New("beta count does not match phase count")
	ErrComponentIndex      = errors.New("component index out of range")
)

// ConfigError reports a setting that does not name a supported method or mode.
type ConfigError struct {
	Setting string
	Value   string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("unsupported %s: %q", e.Setting, e.Value)
}

func (e *ConfigError) Is(target error) bool {
	return target == ErrConfig
}

// DataError reports a phase that could not be scored or sorted.
// Index is the phase position in the list handed to the failing call, -1 if not tied to one.
type DataError struct {
	Index  int
	Method string
	Err    error
}

func (e *DataError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("%s: %v", e.Method, e.Err)
	}
	return fmt.Sprintf("%s: phase %d: %v", e.Method, e.Index, e.Err)
}

func (e *DataError) Unwrap() error {
	return e.Err
}

func (e *DataError) Is(target error) bool {
	return target == ErrData
}

func dataErr(idx int, method fmt.Stringer, err error) error {
	return &DataError{Index: idx, Method: method.String(), Err: err}
}
