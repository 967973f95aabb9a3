package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFixedIDGenerator_InOrder(t *testing.T) {
	gen := NewFixedIDGenerator("b-1", "b-2")

	assert.Equal(t, "b-1", gen.Generate())
	assert.Equal(t, "b-2", gen.Generate())
	assert.Equal(t, "build-3", gen.Generate())
}

func TestFixedIDGenerator_Empty(t *testing.T) {
	gen := NewFixedIDGenerator()

	assert.Equal(t, "build-1", gen.Generate())
	assert.Equal(t, "build-2", gen.Generate())
}

func TestFixedIDGenerator_Deterministic(t *testing.T) {
	a := NewFixedIDGenerator("x")
	b := NewFixedIDGenerator("x")

	for i := 0; i < 5; i++ {
		assert.Equal(t, a.Generate(), b.Generate())
	}
}
