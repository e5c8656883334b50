package genetics_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/XiaoConstantine/genetics-go/internal/testutil"
	"github.com/XiaoConstantine/genetics-go/pkg/errors"
	"github.com/XiaoConstantine/genetics-go/pkg/genetics"
)

func TestNewPopulationRejectsNilMembers(t *testing.T) {
	oracle := &testutil.StubOracle{}
	_, err := genetics.NewPopulation([]*genetics.Individual{
		newStubIndividual(t, oracle, "aaaa", 1), nil,
	})
	assert.True(t, errors.HasCode(err, errors.ValidationFailed))
}

func TestGeneratePopulation(t *testing.T) {
	oracle := &testutil.StubOracle{}
	population, err := genetics.GeneratePopulation(context.Background(), oracle, testutil.StubCodec{}, 5)
	require.NoError(t, err)
	assert.Equal(t, 5, population.Size())

	for _, individual := range population.Individuals() {
		architecture, err := individual.Architecture()
		require.NoError(t, err)
		assert.Equal(t, architecture, individual.Artifact().(*testutil.StubArtifact).Architecture)
	}
}

func TestGeneratePopulationDefaultSampleCount(t *testing.T) {
	oracle := &testutil.StubOracle{}
	population, err := genetics.GeneratePopulation(context.Background(), oracle, testutil.StubCodec{}, 0)
	require.NoError(t, err)
	assert.Equal(t, genetics.DefaultSampleCount, population.Size())
}

func TestGeneratePopulationAcceptsShortReturns(t *testing.T) {
	oracle := &testutil.MockOracle{}
	stub := &testutil.StubOracle{}
	artifacts, architectures, err := stub.GenerateRandomSamples(context.Background(), 3)
	require.NoError(t, err)
	oracle.On("GenerateRandomSamples", mock.Anything, 20).Return(artifacts, architectures, nil)

	population, err := genetics.GeneratePopulation(context.Background(), oracle, testutil.StubCodec{}, 20)
	require.NoError(t, err)
	assert.Equal(t, 3, population.Size(), "short oracle returns are not re-sampled")
}

func TestGeneratePopulationOracleFailurePassesThrough(t *testing.T) {
	oracle := &testutil.MockOracle{}
	oracleErr := fmt.Errorf("benchmark archive missing")
	oracle.On("GenerateRandomSamples", mock.Anything, mock.Anything).Return(nil, nil, oracleErr)

	_, err := genetics.GeneratePopulation(context.Background(), oracle, testutil.StubCodec{}, 5)
	assert.ErrorIs(t, err, oracleErr)
}

func TestUpdatePopulationIsAtomic(t *testing.T) {
	oracle := &testutil.StubOracle{}
	population := newStubPopulation(t, oracle,
		map[string]float64{"aaaa": 1, "bbbb": 2}, []string{"aaaa", "bbbb"})

	err := population.UpdatePopulation([]*genetics.Individual{
		newStubIndividual(t, oracle, "cccc", 3), nil,
	})
	assert.True(t, errors.HasCode(err, errors.ValidationFailed))

	// Old membership is fully retained.
	assert.Equal(t, 2, population.Size())
	architecture, err := population.Individuals()[0].Architecture()
	require.NoError(t, err)
	assert.Equal(t, "a-a-a-a", architecture)
}

func TestUpdateRankingAssignsUniqueRanks(t *testing.T) {
	oracle := &testutil.StubOracle{}
	population := newStubPopulation(t, oracle,
		map[string]float64{"aaaa": 0.2, "bbbb": 0.9, "cccc": 0.5, "abab": 0.9},
		[]string{"aaaa", "bbbb", "cccc", "abab"})

	population.UpdateRanking()

	ranks := make(map[int]string)
	for _, individual := range population.Individuals() {
		architecture, err := individual.Architecture()
		require.NoError(t, err)
		_, taken := ranks[individual.Rank()]
		assert.False(t, taken, "ranks must be unique")
		ranks[individual.Rank()] = architecture
	}

	// Rank 0 is the fittest; the 0.9 tie breaks toward input order.
	assert.Equal(t, "b-b-b-b", ranks[0])
	assert.Equal(t, "a-b-a-b", ranks[1])
	assert.Equal(t, "c-c-c-c", ranks[2])
	assert.Equal(t, "a-a-a-a", ranks[3])
}

func TestFittestN(t *testing.T) {
	oracle := &testutil.StubOracle{}
	population := newStubPopulation(t, oracle,
		map[string]float64{"aaaa": 0.2, "bbbb": 0.9, "cccc": 0.5},
		[]string{"aaaa", "bbbb", "cccc"})

	top := population.FittestN(2)
	require.Len(t, top, 2)
	assert.Equal(t, 0.9, top[0].Fitness())
	assert.Equal(t, 0.5, top[1].Fitness())

	// n beyond the population size returns everything, still descending.
	all := population.FittestN(10)
	require.Len(t, all, 3)
	assert.Equal(t, 0.9, all[0].Fitness())
	assert.Equal(t, 0.2, all[2].Fitness())
}

func TestUpdateFitnessAppliesMetric(t *testing.T) {
	oracle := &testutil.StubOracle{}
	population := newStubPopulation(t, oracle,
		map[string]float64{"aaaa": 0, "bbbb": 0}, []string{"aaaa", "bbbb"})

	err := population.UpdateFitness(func(artifact genetics.Artifact) (float64, error) {
		if artifact.(*testutil.StubArtifact).Architecture == "a-a-a-a" {
			return 1.0, nil
		}
		return 2.0, nil
	})
	require.NoError(t, err)

	members := population.Individuals()
	assert.Equal(t, 1.0, members[0].Fitness())
	assert.Equal(t, 2.0, members[1].Fitness())
}

func TestUpdateFitnessIsAllOrNothing(t *testing.T) {
	oracle := &testutil.StubOracle{}
	population := newStubPopulation(t, oracle,
		map[string]float64{"aaaa": 0.1, "bbbb": 0.2}, []string{"aaaa", "bbbb"})

	metricErr := fmt.Errorf("accuracy table corrupted")
	err := population.UpdateFitness(func(artifact genetics.Artifact) (float64, error) {
		if artifact.(*testutil.StubArtifact).Architecture == "b-b-b-b" {
			return 0, metricErr
		}
		return 9.0, nil
	})
	assert.ErrorIs(t, err, metricErr)

	// No member was updated, not even the ones scored before the failure.
	members := population.Individuals()
	assert.Equal(t, 0.1, members[0].Fitness())
	assert.Equal(t, 0.2, members[1].Fitness())
}

func TestApplyOnIndividualsNotInPlace(t *testing.T) {
	oracle := &testutil.StubOracle{}
	population := newStubPopulation(t, oracle,
		map[string]float64{"aaaa": 1, "bbbb": 2}, []string{"aaaa", "bbbb"})

	transformed, err := population.ApplyOnIndividuals(func(individual *genetics.Individual) (*genetics.Individual, error) {
		individual.SetScore(genetics.FitnessScore, individual.Fitness()*10)
		individual.SetAge(individual.Age() + 1)
		return individual, nil
	}, false)
	require.NoError(t, err)
	require.Len(t, transformed, 2)
	assert.Equal(t, 10.0, transformed[0].Fitness())
	assert.Equal(t, 20.0, transformed[1].Fitness())

	// The live population is element-for-element untouched.
	members := population.Individuals()
	assert.Equal(t, 1.0, members[0].Fitness())
	assert.Equal(t, 2.0, members[1].Fitness())
	assert.Equal(t, 0, members[0].Age())
	assert.Equal(t, buildGenotype("aaaa"), members[0].Genotype())
}

func TestApplyOnIndividualsInPlace(t *testing.T) {
	oracle := &testutil.StubOracle{}
	population := newStubPopulation(t, oracle,
		map[string]float64{"aaaa": 1, "bbbb": 2}, []string{"aaaa", "bbbb"})

	transformed, err := population.ApplyOnIndividuals(func(individual *genetics.Individual) (*genetics.Individual, error) {
		individual.SetScore(genetics.FitnessScore, 5)
		return individual, nil
	}, true)
	require.NoError(t, err)
	assert.Nil(t, transformed)

	for _, individual := range population.Individuals() {
		assert.Equal(t, 5.0, individual.Fitness())
	}
}

func TestApplyOnIndividualsFailureLeavesPopulationUntouched(t *testing.T) {
	oracle := &testutil.StubOracle{}
	population := newStubPopulation(t, oracle,
		map[string]float64{"aaaa": 1, "bbbb": 2}, []string{"aaaa", "bbbb"})

	transformErr := fmt.Errorf("transform exploded")
	_, err := population.ApplyOnIndividuals(func(individual *genetics.Individual) (*genetics.Individual, error) {
		if individual.Fitness() > 1 {
			return nil, transformErr
		}
		individual.SetScore(genetics.FitnessScore, 99)
		return individual, nil
	}, true)
	assert.ErrorIs(t, err, transformErr)

	members := population.Individuals()
	assert.Equal(t, 1.0, members[0].Fitness())
	assert.Equal(t, 2.0, members[1].Fitness())
}

func TestNormalizeScoresMinMax(t *testing.T) {
	oracle := &testutil.StubOracle{}
	population := newStubPopulation(t, oracle,
		map[string]float64{"aaaa": 2, "bbbb": 4, "cccc": 6},
		[]string{"aaaa", "bbbb", "cccc"})

	_, err := population.NormalizeScores(genetics.FitnessScore, true)
	require.NoError(t, err)

	members := population.Individuals()
	assert.Equal(t, 0.0, members[0].Fitness())
	assert.Equal(t, 0.5, members[1].Fitness())
	assert.Equal(t, 1.0, members[2].Fitness())
}

func TestNormalizeScoresNotInPlace(t *testing.T) {
	oracle := &testutil.StubOracle{}
	population := newStubPopulation(t, oracle,
		map[string]float64{"aaaa": 2, "bbbb": 6}, []string{"aaaa", "bbbb"})

	normalized, err := population.NormalizeScores(genetics.FitnessScore, false)
	require.NoError(t, err)
	require.Len(t, normalized, 2)
	assert.Equal(t, 0.0, normalized[0].Fitness())
	assert.Equal(t, 1.0, normalized[1].Fitness())

	members := population.Individuals()
	assert.Equal(t, 2.0, members[0].Fitness())
	assert.Equal(t, 6.0, members[1].Fitness())
}

func TestNormalizeScoresDegenerateRange(t *testing.T) {
	oracle := &testutil.StubOracle{}
	population := newStubPopulation(t, oracle,
		map[string]float64{"aaaa": 5, "bbbb": 5}, []string{"aaaa", "bbbb"})

	_, err := population.NormalizeScores(genetics.FitnessScore, true)
	assert.True(t, errors.HasCode(err, errors.DegenerateRange))

	// Rejected, not half-applied.
	for _, individual := range population.Individuals() {
		assert.Equal(t, 5.0, individual.Fitness())
	}
}

func TestNormalizeAuxiliaryScore(t *testing.T) {
	oracle := &testutil.StubOracle{}
	population := newStubPopulation(t, oracle,
		map[string]float64{"aaaa": 0, "bbbb": 0}, []string{"aaaa", "bbbb"})
	members := population.Individuals()
	members[0].SetScore("latency", 10)
	members[1].SetScore("latency", 30)

	_, err := population.NormalizeScores("latency", true)
	require.NoError(t, err)

	members = population.Individuals()
	v, _ := members[0].Score("latency")
	assert.Equal(t, 0.0, v)
	v, _ = members[1].Score("latency")
	assert.Equal(t, 1.0, v)
}

func TestNormalizeScoresMissingScore(t *testing.T) {
	oracle := &testutil.StubOracle{}
	population := newStubPopulation(t, oracle,
		map[string]float64{"aaaa": 0}, []string{"aaaa"})

	_, err := population.NormalizeScores("latency", true)
	assert.True(t, errors.HasCode(err, errors.ValidationFailed))
}

func TestExtremesCachingAndInvalidation(t *testing.T) {
	oracle := &testutil.StubOracle{}
	population := newStubPopulation(t, oracle,
		map[string]float64{"aaaa": 2, "bbbb": 4}, []string{"aaaa", "bbbb"})

	require.NoError(t, population.SetExtremes(genetics.FitnessScore))
	min, max, ok := population.Extremes(genetics.FitnessScore)
	require.True(t, ok)
	assert.Equal(t, 2.0, min)
	assert.Equal(t, 4.0, max)

	// Extremes are not auto-invalidated when a scored attribute changes: a
	// member moving to 6 still normalizes against the cached {2,4} range.
	population.Individuals()[1].SetScore(genetics.FitnessScore, 6)
	normalized, err := population.NormalizeScores(genetics.FitnessScore, false)
	require.NoError(t, err)
	assert.Equal(t, 2.0, normalized[1].Fitness())

	// Explicit invalidation forces recomputation on next use.
	population.InvalidateExtremes(genetics.FitnessScore)
	_, _, ok = population.Extremes(genetics.FitnessScore)
	assert.False(t, ok)

	// Membership replacement clears every cached extreme.
	require.NoError(t, population.SetExtremes(genetics.FitnessScore))
	require.NoError(t, population.UpdatePopulation(population.Individuals()))
	_, _, ok = population.Extremes(genetics.FitnessScore)
	assert.False(t, ok)
}

func TestSetExtremesEmptyPopulation(t *testing.T) {
	population, err := genetics.NewPopulation(nil)
	require.NoError(t, err)
	err = population.SetExtremes(genetics.FitnessScore)
	assert.True(t, errors.HasCode(err, errors.InvalidInput))
}
