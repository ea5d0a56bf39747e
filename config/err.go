package config

import (
	"github.com/ezrec/jamvm/translate"
)

var f = translate.From

// ErrMemorySize is a machine memory size outside the supported range.
type ErrMemorySize int

func (err ErrMemorySize) Error() string {
	return f("memory_kb %d outside of %d..%d", int(err), MEMORY_KB_MIN, MEMORY_KB_MAX)
}

// Is matches any ErrMemorySize.
func (err ErrMemorySize) Is(target error) (ok bool) {
	_, ok = target.(ErrMemorySize)
	return
}

// ErrSignalDuplicate is a signal id assigned to more than one standard signal.
type ErrSignalDuplicate uint8

func (err ErrSignalDuplicate) Error() string {
	return f("signal 0x%02X assigned more than once", uint8(err))
}

// ErrUnknownKey is a key that is not part of the configuration.
type ErrUnknownKey string

func (err ErrUnknownKey) Error() string {
	return f("unknown key '%v'", string(err))
}

// ErrConfig locates a configuration error.
type ErrConfig struct {
	Path string
	Err  error
}

func (err *ErrConfig) Error() string {
	return f("%v: %v", err.Path, err.Err)
}

func (err *ErrConfig) Unwrap() error {
	return err.Err
}
