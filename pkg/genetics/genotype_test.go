package genetics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewAlphabetCollapsesDuplicates(t *testing.T) {
	a := NewAlphabet("none", "skip_connect", "none", "nor_conv_1x1", "skip_connect")

	assert.Equal(t, 3, a.Size())
	assert.Equal(t, []Gene{"none", "skip_connect", "nor_conv_1x1"}, a.Genes())
	assert.True(t, a.Contains("nor_conv_1x1"))
	assert.False(t, a.Contains("avg_pool_3x3"))
}

func TestAlphabetGenesReturnsCopy(t *testing.T) {
	a := NewAlphabet("a", "b")
	genes := a.Genes()
	genes[0] = "z"

	assert.Equal(t, []Gene{"a", "b"}, a.Genes())
}

func TestGenotypeClone(t *testing.T) {
	g := Genotype{"a", "b", "c"}
	clone := g.Clone()
	clone[0] = "z"

	assert.Equal(t, Genotype{"a", "b", "c"}, g)
	assert.Equal(t, Genotype{"z", "b", "c"}, clone)

	var nilGenotype Genotype
	assert.Nil(t, nilGenotype.Clone())
}

func TestGenotypeEqual(t *testing.T) {
	assert.True(t, Genotype{"a", "b"}.Equal(Genotype{"a", "b"}))
	assert.False(t, Genotype{"a", "b"}.Equal(Genotype{"b", "a"}))
	assert.False(t, Genotype{"a"}.Equal(Genotype{"a", "a"}))
}
