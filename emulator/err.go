package emulator

import (
	"errors"

	"github.com/ezrec/jamvm/translate"
)

var f = translate.From

var (
	ErrQuit = errors.New(f("quit"))
)

// ErrRuntime indicates the location of a runtime error.
type ErrRuntime struct {
	LineNo int
	Err    error
}

func (err *ErrRuntime) Error() string {
	if err.LineNo == 0 {
		return err.Err.Error()
	}
	return f("line %d %v", err.LineNo, err.Err)
}

func (err *ErrRuntime) Unwrap() error {
	return err.Err
}

// ErrTickLimit is a program that did not halt in time.
type ErrTickLimit int

func (err ErrTickLimit) Error() string {
	return f("not halted after %d ticks", int(err))
}
