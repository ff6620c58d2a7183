package video

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRotatorCycles(t *testing.T) {
	r := New([]string{"a", "b", "c"})

	assert.Equal(t, "a", r.Current())
	assert.Equal(t, "b", r.Next())
	assert.Equal(t, "c", r.Next())
	assert.Equal(t, "a", r.Next()) // wraps forward
	assert.Equal(t, "c", r.Prev()) // wraps backward
	assert.Equal(t, "b", r.Prev())
	assert.Equal(t, "b", r.Current())
}

func TestRotatorEmpty(t *testing.T) {
	r := New(nil)

	assert.Equal(t, "", r.Current())
	assert.Equal(t, "", r.Next())
	assert.Equal(t, "", r.Prev())
}
