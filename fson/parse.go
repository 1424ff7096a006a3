// Package fson flattens JSON documents into ordered lists of
// (pointer, value) entries and reorganizes flattened array documents into
// row/column form.
package fson

import (
	"github.com/pkg/errors"
	"jsonflat/fson/fflat"
	"jsonflat/fson/flex"
)

// Parse flattens one JSON document held in memory.
func Parse(input []byte, options fflat.ParseOptions) (*fflat.ParseResult, error) {
	parser := fflat.NewParser(flex.NewLexer(input))
	result, err := parser.Parse(options, 1, "")
	if err != nil {
		return nil, errors.Wrap(err, "fson.Parse error")
	}
	return result, nil
}
