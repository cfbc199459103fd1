package search_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/elektrokombinacija/trajectory/search"
)

func TestSetDefaultRNGSourceOverridesNewRNG(t *testing.T) {
	defer search.ResetDefaultRNGSource()

	fixed := rand.New(rand.NewSource(42))
	search.SetDefaultRNGSource(func() *rand.Rand { return fixed })

	assert.Same(t, fixed, search.NewRNG())
	assert.Same(t, fixed, search.NewRNG(), "every call draws from the overridden factory until reset")
}

func TestResetDefaultRNGSourceRestoresAnIndependentGeneratorPerCall(t *testing.T) {
	defer search.ResetDefaultRNGSource()

	search.SetDefaultRNGSource(func() *rand.Rand { return rand.New(rand.NewSource(1)) })
	search.ResetDefaultRNGSource()

	a, b := search.NewRNG(), search.NewRNG()
	assert.NotSame(t, a, b, "the thread-local default must hand out a fresh generator each call")
}
