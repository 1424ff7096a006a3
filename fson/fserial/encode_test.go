package fserial

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"jsonflat/fson"
	"jsonflat/fson/fflat"
)

func marker(valueType fflat.ValueType) fflat.FlatJsonValue {
	return fflat.FlatJsonValue{
		Pointer: fflat.PointerKey{
			ValueType: valueType,
			Index:     -1,
			ArrayLen:  -1,
		},
	}
}

func structurally(t *testing.T, bs []byte) any {
	var value any
	require.NoError(t, json.Unmarshal(bs, &value))
	return value
}

func TestSerializeRoundTripObject(t *testing.T) {
	input := `{"name":"ab\"c","count":3,"tags":["x",null,true],"meta":{"inner":{"deep":1}},"empty":{}}`
	result, err := fson.Parse([]byte(input), fflat.DefaultParseOptions())
	require.NoError(t, err)

	entries := append(result.Json, marker(result.RootValueType))
	bs, err := Serialize(entries, 0)
	require.NoError(t, err)
	assert.Equal(t, structurally(t, []byte(input)), structurally(t, bs))
}

func TestSerializeRoundTripRootArray(t *testing.T) {
	input := `[{"a": 1}, [2, 3], null, "last"]`
	result, err := fson.Parse([]byte(input), fflat.DefaultParseOptions())
	require.NoError(t, err)

	entries := append(result.Json, marker(result.RootValueType))
	bs, err := Serialize(entries, 0)
	require.NoError(t, err)
	assert.Equal(t, structurally(t, []byte(input)), structurally(t, bs))
}

func TestSerializeRoundTripOpaqueContainers(t *testing.T) {
	input := `{"values": [10, {"a": 20}], "plain": true}`
	options := fflat.DefaultParseOptions()
	options.ParseArray = false
	result, err := fson.Parse([]byte(input), options)
	require.NoError(t, err)

	entries := append(result.Json, marker(result.RootValueType))
	bs, err := Serialize(entries, 0)
	require.NoError(t, err)
	assert.Equal(t, structurally(t, []byte(input)), structurally(t, bs))
}

func TestSerializeRoundTripTruncated(t *testing.T) {
	input := `{"x": {"y": {"z": 1}}, "w": 2}`
	options := fflat.DefaultParseOptions()
	options.MaxDepth = 1
	result, err := fson.Parse([]byte(input), options)
	require.NoError(t, err)

	entries := append(result.Json, marker(result.RootValueType))
	bs, err := Serialize(entries, 0)
	require.NoError(t, err)
	assert.Equal(t, structurally(t, []byte(input)), structurally(t, bs))
}

func TestSerializeRow(t *testing.T) {
	result, err := fson.Parse([]byte(`[{"a":1,"b":null},{"a":2,"b":3}]`), fflat.DefaultParseOptions())
	require.NoError(t, err)
	rows, _, err := fson.AsArray(result)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	entries := append(rows[1].Entries, marker(fflat.ValueTypeObject))
	bs, err := Serialize(entries, 1)
	require.NoError(t, err)
	assert.Equal(t, structurally(t, []byte(`{"a":2,"b":3}`)), structurally(t, bs))
	assert.NotContains(t, string(bs), "#")
}

func TestSerializeValueAtBiasDepth(t *testing.T) {
	value := "42"
	entries := []fflat.FlatJsonValue{
		{
			Pointer: fflat.PointerKey{Pointer: "/2", ValueType: fflat.ValueTypeNumber, Index: 2, ArrayLen: -1},
			Value:   &value,
		},
		marker(fflat.ValueTypeObject),
	}
	bs, err := Serialize(entries, 1)
	require.NoError(t, err)
	assert.Equal(t, "42", string(bs))
}

func TestSerializeFillsArrayHoles(t *testing.T) {
	value := "x"
	entries := []fflat.FlatJsonValue{
		{
			Pointer: fflat.PointerKey{Pointer: "/1", ValueType: fflat.ValueTypeString, Index: 1, ArrayLen: -1},
			Value:   &value,
		},
		marker(fflat.ValueTypeArray),
	}
	bs, err := Serialize(entries, 0)
	require.NoError(t, err)
	assert.Equal(t, `[null,"x"]`, string(bs))
}

func TestSerializeNoMarker(t *testing.T) {
	_, err := Serialize(nil, 0)
	assert.Equal(t, ErrMissingMarker{}, err)
}

func TestSerializeConflictingPointer(t *testing.T) {
	leaf := "1"
	entries := []fflat.FlatJsonValue{
		{
			Pointer: fflat.PointerKey{Pointer: "/a", ValueType: fflat.ValueTypeNumber, Index: -1, ArrayLen: -1},
			Value:   &leaf,
		},
		{
			Pointer: fflat.PointerKey{Pointer: "/a/b", ValueType: fflat.ValueTypeNumber, Index: -1, ArrayLen: -1},
			Value:   &leaf,
		},
		marker(fflat.ValueTypeObject),
	}
	_, err := Serialize(entries, 0)
	assert.Equal(t, ErrConflictingPointer{Pointer: "/a/b"}, err)
}
