package fson

import (
	"fmt"

	"jsonflat/fson/fflat"
)

type (
	ErrRootNotArray struct {
		Actual fflat.ValueType
	}
	ErrDepthReduction struct {
		From int
		To   int
	}
)

func (r ErrRootNotArray) Error() string {
	return fmt.Sprintf("parsed json root is not an array; got %s", r.Actual)
}

func (r ErrDepthReduction) Error() string {
	return fmt.Sprintf("reducing the parsing depth from %d to %d is not supported", r.From, r.To)
}
