package genetics_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/XiaoConstantine/genetics-go/internal/testutil"
	"github.com/XiaoConstantine/genetics-go/pkg/genetics"
)

// buildGenotype turns "abca" into the genotype {a, b, c, a}.
func buildGenotype(s string) genetics.Genotype {
	genotype := make(genetics.Genotype, 0, len(s))
	for _, r := range s {
		genotype = append(genotype, genetics.Gene(r))
	}
	return genotype
}

// newStubIndividual builds an individual over the stub oracle/codec whose
// artifact is consistent with its genotype.
func newStubIndividual(t *testing.T, oracle *testutil.StubOracle, genes string, fitness float64) *genetics.Individual {
	t.Helper()
	genotype := buildGenotype(genes)
	architecture, err := testutil.StubCodec{}.GenotypeToArchitecture(genotype)
	require.NoError(t, err)

	individual := genetics.NewIndividual(genotype,
		&testutil.StubArtifact{Architecture: architecture}, oracle, testutil.StubCodec{})
	individual.SetScore(genetics.FitnessScore, fitness)
	return individual
}

// newStubPopulation builds a population from gene-string/fitness pairs.
func newStubPopulation(t *testing.T, oracle *testutil.StubOracle, members map[string]float64, order []string) *genetics.Population {
	t.Helper()
	individuals := make([]*genetics.Individual, 0, len(order))
	for _, genes := range order {
		individuals = append(individuals, newStubIndividual(t, oracle, genes, members[genes]))
	}
	population, err := genetics.NewPopulation(individuals)
	require.NoError(t, err)
	return population
}

// newGenetic builds a seeded operator set over the stub alphabet.
func newGenetic(t *testing.T, seed int64) *genetics.Genetic {
	t.Helper()
	config := genetics.DefaultGeneticConfig()
	config.Alphabet = testutil.StubAlphabet()
	config.Seed = seed
	operators, err := genetics.NewGenetic(config)
	require.NoError(t, err)
	return operators
}
