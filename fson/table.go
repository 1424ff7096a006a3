package fson

import (
	"strconv"
	"strings"

	"github.com/emirpasic/gods/sets/hashset"
	"github.com/samber/lo"
	"jsonflat/ds"
	"jsonflat/fson/fflat"
)

// AsArray reorganizes a flattened array document into rows and a discovered
// column schema. Entries are assigned to rows by scanning the flat list
// from its tail one contiguous block at a time, which relies on array
// element blocks appearing in parse order. The previous result is consumed:
// entries are moved out of it as they are claimed.
//
// Every row additionally receives one synthesized entry under the "#"
// pseudo-column carrying the row's array index.
func AsArray(previous *fflat.ParseResult) ([]ArrayRow, []Column, error) {
	if previous.RootValueType != fflat.ValueTypeArray {
		return nil, nil, ErrRootNotArray{Actual: previous.RootValueType}
	}

	uniqueColumns := make([]Column, 0, 64)
	seenColumns := hashset.New()
	rows := make([]ArrayRow, 0, previous.RootArrayLen)
	entries := previous.Json
	j := len(entries) - 1
	estimatedCapacity := 1
	for i := previous.RootArrayLen - 1; i >= 0; i-- {
		rowEntries := make([]fflat.FlatJsonValue, 0, estimatedCapacity)
		prefix := ds.ConcatStrings(previous.StartedParsingAt, "/", strconv.Itoa(i))
		firstEntry := true
		for j >= 0 {
			key := entries[j].Pointer
			if !strings.HasPrefix(key.Pointer, prefix) {
				break
			}
			name := key.Pointer[len(prefix):]
			if name != "" {
				column := Column{Name: name, Depth: key.Depth}
				if !seenColumns.Contains(column) {
					seenColumns.Add(column)
					uniqueColumns = append(uniqueColumns, column)
				}
			}
			if firstEntry {
				firstEntry = false
				indexValue := strconv.Itoa(i)
				pseudoPointer := ds.ConcatStrings(prefix, "/", PseudoColumnIndex)
				rowEntries = append(rowEntries, fflat.FlatJsonValue{
					Pointer: fflat.PointerKey{
						Pointer:   pseudoPointer,
						ValueType: fflat.ValueTypeNumber,
						Depth:     key.Depth,
						ColumnID:  fflat.ColumnIDFor(pseudoPointer),
						Index:     i,
						ArrayLen:  -1,
					},
					Value: &indexValue,
				})
			}
			entry := entries[j]
			entry.Pointer.Index = i
			rowEntries = append(rowEntries, entry)
			entries = entries[:j]
			j--
		}
		rows = append(rows, ArrayRow{Entries: rowEntries, Index: i})

		// re-estimate the per-row capacity once ten rows have been seen
		if i == 10 {
			estimatedCapacity = (j + 1) / 10
		}
	}
	previous.Json = entries
	rows = lo.Reverse(rows)
	return rows, uniqueColumns, nil
}

// FilterNonNullColumn keeps only the rows where every given column pointer
// is present with a non-null value. A column absent from a row excludes the
// row exactly like a present-but-null value does.
func FilterNonNullColumn(rows []ArrayRow, prefix string, nonNullColumns []string) []ArrayRow {
	return lo.Filter(rows, func(row ArrayRow, _ int) bool {
		for _, pointer := range nonNullColumns {
			target := ds.ConcatStrings(prefix, "/", strconv.Itoa(row.Index), pointer)
			entry, found := lo.Find(row.Entries, func(entry fflat.FlatJsonValue) bool {
				return entry.Pointer.Pointer == target
			})
			if !found || entry.Value == nil {
				return false
			}
		}
		return true
	})
}
