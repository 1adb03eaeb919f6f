package encoder

import (
	"errors"
	"fmt"
	"strings"
)

// SortKeyWidth is the fixed width of every sort key.
const SortKeyWidth = 30

// ErrKeyOverflow is returned when an encoded key holds more digits than a
// sort key can carry.
var ErrKeyOverflow = errors.New("encoder: encoded key exceeds sort key width")

// OverflowError identifies the input that did not fit in SortKeyWidth digits.
type OverflowError struct {
	Input  string
	Digits int
}

func (e *OverflowError) Error() string {
	return fmt.Sprintf("encoder: %q has %d digits, sort key holds %d", e.Input, e.Digits, SortKeyWidth)
}

func (e *OverflowError) Unwrap() error { return ErrKeyOverflow }

// SortKey keeps only the ASCII digits of an encoded key and left-pads them
// with zeros to SortKeyWidth. Two sort keys compare as strings exactly as
// their zero-padded values compare as numbers.
func SortKey(encoded string) (string, error) {
	var b strings.Builder
	b.Grow(SortKeyWidth)
	digits := 0
	for i := 0; i < len(encoded); i++ {
		if encoded[i] >= '0' && encoded[i] <= '9' {
			digits++
		}
	}
	if digits > SortKeyWidth {
		return "", &OverflowError{Input: encoded, Digits: digits}
	}

	b.WriteString(strings.Repeat("0", SortKeyWidth-digits))
	for i := 0; i < len(encoded); i++ {
		if encoded[i] >= '0' && encoded[i] <= '9' {
			b.WriteByte(encoded[i])
		}
	}
	return b.String(), nil
}
