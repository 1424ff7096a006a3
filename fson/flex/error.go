package flex

import (
	"fmt"
)

type (
	ErrUnexpectedByte struct {
		Offset int
		Byte   byte
	}
	ErrUnterminatedString struct {
		Offset int
	}
	ErrInvalidEscape struct {
		Offset int
		Byte   byte
	}
	ErrMalformedNumber struct {
		Offset  int
		Literal string
	}
)

func (r ErrUnexpectedByte) Error() string {
	return fmt.Sprintf("unexpected byte %q at offset %d", r.Byte, r.Offset)
}

func (r ErrUnterminatedString) Error() string {
	return fmt.Sprintf("unterminated string starting at offset %d", r.Offset)
}

func (r ErrInvalidEscape) Error() string {
	return fmt.Sprintf(`invalid escape sequence "\%c" at offset %d`, r.Byte, r.Offset)
}

func (r ErrMalformedNumber) Error() string {
	return fmt.Sprintf("malformed number %q at offset %d", r.Literal, r.Offset)
}
