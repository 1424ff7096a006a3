package fson

import (
	"github.com/pkg/errors"
	"jsonflat/fson/fflat"
	"jsonflat/fson/flex"
)

// ChangeDepth re-expands the opaque object entries of a previous parse up
// to a greater maximum depth, without re-parsing the entries that were
// already expanded. Each stub's stored raw text is parsed as a private
// sub-document rooted at the stub's pointer and spliced in place of it;
// everything else passes through unchanged. The previous result is
// consumed and must not be reused.
//
// Opaque arrays are left alone: with ParseArray enabled they never exist,
// and with ParseArray disabled they have to stay opaque.
//
// Reducing the depth below the previously applied maximum is not
// supported and fails with ErrDepthReduction.
func ChangeDepth(previous *fflat.ParseResult, options fflat.ParseOptions) (*fflat.ParseResult, error) {
	if options.MaxDepth < previous.ParsingMaxDepth {
		return nil, ErrDepthReduction{From: previous.ParsingMaxDepth, To: options.MaxDepth}
	}
	if options.MaxDepth == previous.ParsingMaxDepth {
		return previous, nil
	}

	previousLen := len(previous.Json)
	newEntries := make(
		[]fflat.FlatJsonValue,
		0,
		previousLen+(options.MaxDepth-previous.ParsingMaxDepth)*(previousLen/3),
	)
	for _, entry := range previous.Json {
		key := entry.Pointer
		if key.ValueType != fflat.ValueTypeObject || entry.Value == nil || key.Depth >= options.MaxDepth {
			newEntries = append(newEntries, entry)
			continue
		}
		subOptions := options
		// the raw text is the sub-root itself, there is nothing to seek
		subOptions.StartParseAt = ""
		subParser := fflat.NewParser(flex.NewLexer([]byte(*entry.Value)))
		subResult, err := subParser.Parse(subOptions, key.Depth+1, key.Pointer)
		if err != nil {
			return nil, errors.Wrap(err, "fson.ChangeDepth error")
		}
		// spliced entries inherit the stub's enclosing array index unless
		// an array inside the stub assigned their own
		for i := range subResult.Json {
			if subResult.Json[i].Pointer.Index == -1 {
				subResult.Json[i].Pointer.Index = key.Index
			}
		}
		newEntries = append(newEntries, subResult.Json...)
	}
	return &fflat.ParseResult{
		Json:             newEntries,
		MaxJsonDepth:     previous.MaxJsonDepth,
		ParsingMaxDepth:  options.MaxDepth,
		RootValueType:    previous.RootValueType,
		RootArrayLen:     previous.RootArrayLen,
		StartedParsingAt: previous.StartedParsingAt,
	}, nil
}
