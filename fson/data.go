package fson

import (
	"jsonflat/fson/fflat"
)

type (
	// ArrayRow groups the flat entries belonging to one element of an
	// array document. Entries appear in the order the backward partition
	// discovered them, which is the reverse of parse order within the row.
	ArrayRow struct {
		Entries []fflat.FlatJsonValue
		Index   int
	}

	// Column identifies one field discovered across the elements of an
	// array document. Identity is (Name, Depth) only.
	Column struct {
		Name  string
		Depth int
	}
)

// PseudoColumnIndex is the synthesized column holding each row's array
// index, retrievable like any other field.
const PseudoColumnIndex = "#"
