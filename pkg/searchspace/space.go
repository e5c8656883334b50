package searchspace

import (
	"context"
	"math/rand"
	"time"

	"github.com/XiaoConstantine/genetics-go/pkg/errors"
	"github.com/XiaoConstantine/genetics-go/pkg/genetics"
)

// CellRecord is the artifact a tabular space resolves architectures to. It
// stands in for a trained network: an opaque handle the engine only ever
// passes to metrics.
type CellRecord struct {
	Index        int
	Architecture string
}

// TabularSpace is an in-memory oracle over the full enumerable cell space:
// every combination of the codec's operations across the six cell edges.
type TabularSpace struct {
	codec  CellCodec
	rng    *rand.Rand
	byArch map[string]*CellRecord
	archs  []string
}

// NewTabularSpace enumerates the full cell space for the codec's alphabet.
// A zero seed falls back to time-based seeding.
func NewTabularSpace(codec CellCodec, seed int64) (*TabularSpace, error) {
	operations := codec.Alphabet().Genes()
	if len(operations) == 0 {
		return nil, errors.New(errors.InvalidConfiguration, "cannot enumerate a space over an empty alphabet")
	}
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	s := &TabularSpace{
		codec:  codec,
		rng:    rand.New(rand.NewSource(seed)),
		byArch: make(map[string]*CellRecord),
	}

	// Odometer enumeration of every operation assignment.
	counters := make([]int, NumEdges)
	genotype := make(genetics.Genotype, NumEdges)
	for {
		for i, c := range counters {
			genotype[i] = operations[c]
		}
		architecture, err := codec.GenotypeToArchitecture(genotype)
		if err != nil {
			return nil, err
		}
		s.byArch[architecture] = &CellRecord{Index: len(s.archs), Architecture: architecture}
		s.archs = append(s.archs, architecture)

		digit := NumEdges - 1
		for digit >= 0 {
			counters[digit]++
			if counters[digit] < len(operations) {
				break
			}
			counters[digit] = 0
			digit--
		}
		if digit < 0 {
			break
		}
	}
	return s, nil
}

// Size returns the number of architectures in the space.
func (s *TabularSpace) Size() int { return len(s.archs) }

// Codec returns the codec the space was enumerated with.
func (s *TabularSpace) Codec() CellCodec { return s.codec }

// GenerateRandomSamples draws n architectures uniformly at random (with
// replacement) and returns their records alongside the architecture strings.
func (s *TabularSpace) GenerateRandomSamples(ctx context.Context, n int) ([]genetics.Artifact, []string, error) {
	if err := errors.CheckContext(ctx, "generate random samples"); err != nil {
		return nil, nil, err
	}
	if n <= 0 {
		return nil, nil, errors.WithFields(
			errors.New(errors.InvalidInput, "sample count must be positive"),
			errors.Fields{"n": n})
	}

	artifacts := make([]genetics.Artifact, 0, n)
	architectures := make([]string, 0, n)
	for i := 0; i < n; i++ {
		architecture := s.archs[s.rng.Intn(len(s.archs))]
		artifacts = append(artifacts, s.byArch[architecture])
		architectures = append(architectures, architecture)
	}
	return artifacts, architectures, nil
}

// QueryWithArchitecture resolves an architecture string to its record.
func (s *TabularSpace) QueryWithArchitecture(ctx context.Context, architecture string) (genetics.Artifact, error) {
	if err := errors.CheckContext(ctx, "query architecture"); err != nil {
		return nil, err
	}
	record, ok := s.byArch[architecture]
	if !ok {
		return nil, errors.WithFields(
			errors.New(errors.ResourceNotFound, "architecture is not in the search space"),
			errors.Fields{"architecture": architecture})
	}
	return record, nil
}
