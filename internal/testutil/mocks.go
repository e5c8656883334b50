// Package testutil provides shared oracle/codec doubles for engine tests.
package testutil

import (
	"context"
	"strings"

	"github.com/stretchr/testify/mock"

	"github.com/XiaoConstantine/genetics-go/pkg/errors"
	"github.com/XiaoConstantine/genetics-go/pkg/genetics"
)

// MockOracle is a testify mock implementation of genetics.Oracle.
type MockOracle struct {
	mock.Mock
}

func (m *MockOracle) GenerateRandomSamples(ctx context.Context, n int) ([]genetics.Artifact, []string, error) {
	args := m.Called(ctx, n)
	var artifacts []genetics.Artifact
	if v := args.Get(0); v != nil {
		artifacts = v.([]genetics.Artifact)
	}
	var architectures []string
	if v := args.Get(1); v != nil {
		architectures = v.([]string)
	}
	return artifacts, architectures, args.Error(2)
}

func (m *MockOracle) QueryWithArchitecture(ctx context.Context, architecture string) (genetics.Artifact, error) {
	args := m.Called(ctx, architecture)
	return args.Get(0), args.Error(1)
}

// MockCodec is a testify mock implementation of genetics.Codec.
type MockCodec struct {
	mock.Mock
}

func (m *MockCodec) ArchitectureToGenotype(architecture string) (genetics.Genotype, error) {
	args := m.Called(architecture)
	var genotype genetics.Genotype
	if v := args.Get(0); v != nil {
		genotype = v.(genetics.Genotype)
	}
	return genotype, args.Error(1)
}

func (m *MockCodec) GenotypeToArchitecture(genotype genetics.Genotype) (string, error) {
	args := m.Called(genotype)
	return args.String(0), args.Error(1)
}

func (m *MockCodec) IsValid(genotype genetics.Genotype) bool {
	args := m.Called(genotype)
	return args.Bool(0)
}

// StubGenotypeLength is the fixed genotype length the stub codec accepts.
const StubGenotypeLength = 4

// StubAlphabet returns the three-gene alphabet the stub collaborators use.
func StubAlphabet() genetics.Alphabet {
	return genetics.NewAlphabet("a", "b", "c")
}

// StubArtifact is the opaque record the stub oracle resolves architectures to.
type StubArtifact struct {
	Architecture string
}

// StubCodec is a deterministic codec over StubAlphabet: an architecture is
// the genes joined with dashes, a genotype is valid iff it has
// StubGenotypeLength genes all drawn from the alphabet.
type StubCodec struct{}

func (StubCodec) ArchitectureToGenotype(architecture string) (genetics.Genotype, error) {
	parts := strings.Split(architecture, "-")
	genotype := make(genetics.Genotype, 0, len(parts))
	for _, part := range parts {
		genotype = append(genotype, genetics.Gene(part))
	}
	if !(StubCodec{}).IsValid(genotype) {
		return nil, errors.WithFields(
			errors.New(errors.ValidationFailed, "architecture does not decode to a valid genotype"),
			errors.Fields{"architecture": architecture})
	}
	return genotype, nil
}

func (StubCodec) GenotypeToArchitecture(genotype genetics.Genotype) (string, error) {
	parts := make([]string, len(genotype))
	for i, gene := range genotype {
		parts[i] = string(gene)
	}
	return strings.Join(parts, "-"), nil
}

func (StubCodec) IsValid(genotype genetics.Genotype) bool {
	if len(genotype) != StubGenotypeLength {
		return false
	}
	alphabet := StubAlphabet()
	for _, gene := range genotype {
		if !alphabet.Contains(gene) {
			return false
		}
	}
	return true
}

// StubOracle deterministically resolves any architecture to a StubArtifact
// and hands out samples by cycling the alphabet.
type StubOracle struct {
	// Queries counts QueryWithArchitecture calls, for artifact-refresh
	// assertions.
	Queries int
}

func (o *StubOracle) GenerateRandomSamples(ctx context.Context, n int) ([]genetics.Artifact, []string, error) {
	genes := StubAlphabet().Genes()
	artifacts := make([]genetics.Artifact, 0, n)
	architectures := make([]string, 0, n)
	for i := 0; i < n; i++ {
		genotype := make(genetics.Genotype, StubGenotypeLength)
		for j := range genotype {
			genotype[j] = genes[(i+j)%len(genes)]
		}
		architecture, _ := StubCodec{}.GenotypeToArchitecture(genotype)
		artifacts = append(artifacts, &StubArtifact{Architecture: architecture})
		architectures = append(architectures, architecture)
	}
	return artifacts, architectures, nil
}

func (o *StubOracle) QueryWithArchitecture(ctx context.Context, architecture string) (genetics.Artifact, error) {
	o.Queries++
	return &StubArtifact{Architecture: architecture}, nil
}
