package fflat

import (
	"fmt"
)

type (
	ErrUnexpectedToken struct {
		Offset   int
		Token    string
		Expected string
	}
	ErrTrailingContent struct {
		Offset int
	}
	ErrPointerNotFound struct {
		Pointer string
	}
)

func (r ErrUnexpectedToken) Error() string {
	return fmt.Sprintf("unexpected %s at offset %d; expected %s", r.Token, r.Offset, r.Expected)
}

func (r ErrTrailingContent) Error() string {
	return fmt.Sprintf("trailing content after the document root at offset %d", r.Offset)
}

func (r ErrPointerNotFound) Error() string {
	return fmt.Sprintf("pointer %q does not address a value in the document", r.Pointer)
}
