package fhash

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHashKey(t *testing.T) {
	expectedValues := map[string]int32{
		"":   0,
		"a":  97,
		"ab": 5239,
	}
	for s, i := range expectedValues {
		assert.Equal(t, i, HashKey(s))
	}
	assert.Equal(t, HashKey("/items/name"), HashKey("/items/name"))
	assert.NotEqual(t, HashKey("/items/name"), HashKey("/items/id"))
}
