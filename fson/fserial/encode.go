// Package fserial rebuilds JSON text from a contiguous subsequence of flat
// entries, the primitive used when an edited value inside a flattened array
// element forces the array's opaque representation to be regenerated.
package fserial

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"jsonflat/ds"
	"jsonflat/fson/fflat"
)

type (
	ErrMissingMarker      struct{}
	ErrConflictingPointer struct {
		Pointer string
	}
)

func (r ErrMissingMarker) Error() string {
	return "the last entry must be a structural marker describing the container"
}

func (r ErrConflictingPointer) Error() string {
	return fmt.Sprintf("pointer %q conflicts with an already placed value", r.Pointer)
}

// Serialize rebuilds a JSON text from an ordered subsequence of flat
// entries. The final entry is a structural marker describing the container
// being rebuilt (empty pointer, container value type); depthBias is the
// number of leading pointer segments shared by every entry, stripped before
// insertion; 0 when serializing a whole document.
//
// Entries under the "#" pseudo-column are synthetic and skipped. Object key
// order follows entry order, so a reversed row serializes with reversed
// keys; the result is structurally equal to the source either way.
func Serialize(entries []fflat.FlatJsonValue, depthBias int) ([]byte, error) {
	if len(entries) == 0 {
		return nil, ErrMissingMarker{}
	}
	marker := entries[len(entries)-1]
	root, err := newContainer(marker.Pointer.ValueType)
	if err != nil {
		return nil, err
	}
	for _, entry := range entries[:len(entries)-1] {
		segments := strings.Split(strings.TrimPrefix(entry.Pointer.Pointer, "/"), "/")
		if entry.Pointer.Pointer == "" || len(segments) == depthBias {
			// the entry is the rebuilt value itself, stored opaque
			value, write, err := leafValue(entry)
			if err != nil {
				return nil, err
			}
			if write {
				bs, err := json.Marshal(value)
				if err != nil {
					return nil, errors.Wrap(err, "fserial.Serialize error")
				}
				return bs, nil
			}
			continue
		}
		if len(segments) < depthBias {
			continue
		}
		segments = segments[depthBias:]
		if segments[len(segments)-1] == "#" {
			continue
		}
		if err := place(root, segments, entry); err != nil {
			return nil, err
		}
	}
	bs, err := json.Marshal(root)
	if err != nil {
		return nil, errors.Wrap(err, "fserial.Serialize error")
	}
	return bs, nil
}

func newContainer(valueType fflat.ValueType) (any, error) {
	switch valueType {
	case fflat.ValueTypeObject:
		return ds.NewLinkedHashMap[string, any](), nil
	case fflat.ValueTypeArray:
		return &arrayNode{}, nil
	}
	return nil, ErrMissingMarker{}
}

func place(container any, segments []string, entry fflat.FlatJsonValue) error {
	head := segments[0]
	if len(segments) == 1 {
		return setLeaf(container, head, entry)
	}
	child, err := childContainer(container, head, segments[1], entry.Pointer.Pointer)
	if err != nil {
		return err
	}
	return place(child, segments[1:], entry)
}

// setLeaf writes one entry's value into its parent container. Marker
// entries (container type, nil value) only materialize the container and
// never overwrite children already placed under it.
func setLeaf(container any, key string, entry fflat.FlatJsonValue) error {
	value, write, err := leafValue(entry)
	if err != nil {
		return err
	}
	switch parent := container.(type) {
	case *ds.LinkedHashMap[string, any]:
		if !write {
			if _, ok := parent.Get(key); !ok {
				fresh, err := newContainer(entry.Pointer.ValueType)
				if err != nil {
					return err
				}
				parent.Put(key, fresh)
			}
			return nil
		}
		parent.Put(key, value)
		return nil
	case *arrayNode:
		index, err := strconv.Atoi(key)
		if err != nil || index < 0 {
			return ErrConflictingPointer{Pointer: entry.Pointer.Pointer}
		}
		if !write {
			if parent.get(index) == nil {
				fresh, err := newContainer(entry.Pointer.ValueType)
				if err != nil {
					return err
				}
				parent.set(index, fresh)
			}
			return nil
		}
		parent.set(index, value)
		return nil
	}
	return ds.ErrUnreachableCode{Caller: "fserial.setLeaf"}
}

// leafValue converts one entry into the value to splice into the output.
// The second return is false for container markers, which carry no value.
func leafValue(entry fflat.FlatJsonValue) (any, bool, error) {
	switch entry.Pointer.ValueType {
	case fflat.ValueTypeNull:
		return nil, true, nil
	case fflat.ValueTypeString:
		if entry.Value == nil {
			return nil, true, nil
		}
		return *entry.Value, true, nil
	case fflat.ValueTypeNumber, fflat.ValueTypeBool:
		if entry.Value == nil {
			return nil, true, nil
		}
		return json.RawMessage(*entry.Value), true, nil
	case fflat.ValueTypeObject, fflat.ValueTypeArray:
		if entry.Value == nil {
			return nil, false, nil
		}
		// opaque containers re-enter verbatim
		return json.RawMessage(*entry.Value), true, nil
	}
	return nil, false, ds.ErrUnreachableCode{Caller: "fserial.leafValue"}
}

// childContainer fetches or creates the container holding the next path
// segment. A fresh container's kind is inferred from that segment: decimal
// segments address arrays, anything else objects.
func childContainer(container any, head string, next string, pointer string) (any, error) {
	switch parent := container.(type) {
	case *ds.LinkedHashMap[string, any]:
		if existing, ok := parent.Get(head); ok {
			return assertContainer(existing, pointer)
		}
		fresh := freshContainerFor(next)
		parent.Put(head, fresh)
		return fresh, nil
	case *arrayNode:
		index, err := strconv.Atoi(head)
		if err != nil || index < 0 {
			return nil, ErrConflictingPointer{Pointer: pointer}
		}
		if existing := parent.get(index); existing != nil {
			return assertContainer(existing, pointer)
		}
		fresh := freshContainerFor(next)
		parent.set(index, fresh)
		return fresh, nil
	}
	return nil, ds.ErrUnreachableCode{Caller: "fserial.childContainer"}
}

func freshContainerFor(segment string) any {
	if fflat.IsArrayIndex(segment) {
		return &arrayNode{}
	}
	return ds.NewLinkedHashMap[string, any]()
}

func assertContainer(value any, pointer string) (any, error) {
	switch value.(type) {
	case *ds.LinkedHashMap[string, any], *arrayNode:
		return value, nil
	}
	return nil, ErrConflictingPointer{Pointer: pointer}
}

// arrayNode is an index-addressed array under construction; unset slots
// serialize as null.
type arrayNode struct {
	items []any
}

func (r *arrayNode) set(index int, value any) {
	for len(r.items) <= index {
		r.items = append(r.items, nil)
	}
	r.items[index] = value
}

func (r *arrayNode) get(index int) any {
	if index < 0 || index >= len(r.items) {
		return nil
	}
	return r.items[index]
}

func (r *arrayNode) MarshalJSON() ([]byte, error) {
	if r.items == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(r.items)
}
