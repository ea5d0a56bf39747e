package memory

import (
	"github.com/ezrec/jamvm/translate"
)

var f = translate.From

// ErrOutOfBounds is an access outside of the addressable range.
// The address may lie past the 16-bit space when a multi-byte access wraps.
type ErrOutOfBounds int

func (err ErrOutOfBounds) Error() string {
	return f("out of bounds @ 0x%X", int(err))
}

// Is matches any ErrOutOfBounds, regardless of address.
func (err ErrOutOfBounds) Is(target error) (ok bool) {
	_, ok = target.(ErrOutOfBounds)
	return
}
