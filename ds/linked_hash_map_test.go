package ds

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLinkedHashMap_Keys(t *testing.T) {
	lhm := NewLinkedHashMap[string, int]()

	assert.True(t, len(lhm.Keys()) == 0)

	lhm.Put("a", 1)
	lhm.Put("b", 2)
	lhm.Put("a", 1)

	assert.Equal(t, []string{"a", "b"}, lhm.Keys())
}

func TestLinkedHashMap_Put(t *testing.T) {
	lhm := NewLinkedHashMap[string, any]()
	lhm.Put("abc", 1)
	lhm.Put("abc", 2)

	assert.Equal(t, 1, lhm.Len())
	value, ok := lhm.Get("abc")
	assert.True(t, ok)
	assert.Equal(t, 2, value)
}

func TestLinkedHashMap_MarshalJSON(t *testing.T) {
	lhm := NewLinkedHashMap[string, any]()
	lhm.Put("def", 2)
	lhm.Put("abc", 1)

	bs, err := json.Marshal(lhm)
	assert.NoError(t, err)

	assert.Equal(t, []byte(`{"def":2,"abc":1}`), bs)
}

func TestLinkedHashMap_MarshalJSONNested(t *testing.T) {
	inner := NewLinkedHashMap[string, any]()
	inner.Put("b", json.RawMessage("1"))
	outer := NewLinkedHashMap[string, any]()
	outer.Put("a", inner)

	bs, err := json.Marshal(outer)
	assert.NoError(t, err)

	assert.Equal(t, []byte(`{"a":{"b":1}}`), bs)
}
