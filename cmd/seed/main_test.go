package main

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"bookstock/internal/slug"
)

func TestGenerate(t *testing.T) {
	books := generate(rand.New(rand.NewSource(1)), 50)

	assert.Len(t, books, 50)
	seen := make(map[string]bool)
	for _, b := range books {
		assert.False(t, seen[b.ISBN], "duplicate isbn %s", b.ISBN)
		seen[b.ISBN] = true
		assert.Len(t, b.ISBN, 13)
		assert.Equal(t, slug.Make(b.Title), b.Slug)
		assert.GreaterOrEqual(t, b.Quantity, 1)
		if b.Price != nil {
			assert.GreaterOrEqual(t, *b.Price, 5.0)
		}
	}
}
