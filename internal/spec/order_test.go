package spec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildKeyOrder(t *testing.T) {
	t.Parallel()
	order, err := BuildKeyOrder([]byte(`
paths:
  /b: {}
  /a/{id}: {}
list:
  - z: 1
    y: 2
`))
	require.NoError(t, err)
	assert.Equal(t, []string{"paths", "list"}, order[""])
	assert.Equal(t, []string{"/b", "/a/{id}"}, order["/paths"])
	assert.Equal(t, []string{"z", "y"}, order["/list/0"])
}

func TestKeys(t *testing.T) {
	t.Parallel()
	order := KeyOrder{"/m": {"c", "a", "missing"}}
	m := map[string]int{"a": 1, "b": 2, "c": 3, "d": 4}
	assert.Equal(t, []string{"c", "a", "b", "d"}, Keys(order, "/m", m))
	assert.Equal(t, []string{"a", "b", "c", "d"}, Keys(nil, "/m", m), "unindexed keys sort lexically")
}

func TestPointer(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "/paths/~1pets~1{id}/get", Pointer("/paths", "/pets/{id}", "get"))
	assert.Equal(t, "/a~0b", Pointer("", "a~b"))
}
