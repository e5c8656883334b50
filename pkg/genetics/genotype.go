// Package genetics implements a generic evolutionary-search engine: a population
// of fixed-length genotypes over a finite gene alphabet, evolved via tournament
// selection, point mutation and single-point recombination.
//
// The engine never interprets what a genotype means. Resolving a genotype into
// an evaluable artifact is delegated to an injected Oracle/Codec pair, and
// fitness is computed by a caller-supplied Metric.
package genetics

import (
	"context"
)

// Gene is a single discrete symbol occupying one position of a genotype.
type Gene string

// Genotype is a fixed-length ordered sequence of genes representing one
// candidate solution. Length is constant across a population.
type Genotype []Gene

// Clone returns a new genotype backed by its own buffer.
func (g Genotype) Clone() Genotype {
	if g == nil {
		return nil
	}
	out := make(Genotype, len(g))
	copy(out, g)
	return out
}

// Equal reports whether two genotypes carry the same genes in the same order.
func (g Genotype) Equal(other Genotype) bool {
	if len(g) != len(other) {
		return false
	}
	for i := range g {
		if g[i] != other[i] {
			return false
		}
	}
	return true
}

// Alphabet is the immutable set of gene symbols a run draws from. Duplicates
// are collapsed; first-seen order is preserved so that seeded runs sample genes
// deterministically.
type Alphabet struct {
	genes []Gene
	index map[Gene]struct{}
}

// NewAlphabet builds an alphabet from the given genes, collapsing duplicates.
func NewAlphabet(genes ...Gene) Alphabet {
	a := Alphabet{
		genes: make([]Gene, 0, len(genes)),
		index: make(map[Gene]struct{}, len(genes)),
	}
	for _, g := range genes {
		if _, seen := a.index[g]; seen {
			continue
		}
		a.index[g] = struct{}{}
		a.genes = append(a.genes, g)
	}
	return a
}

// Contains reports whether g is a member of the alphabet.
func (a Alphabet) Contains(g Gene) bool {
	_, ok := a.index[g]
	return ok
}

// Size returns the number of distinct genes.
func (a Alphabet) Size() int {
	return len(a.genes)
}

// Genes returns the alphabet members in their deterministic order.
func (a Alphabet) Genes() []Gene {
	out := make([]Gene, len(a.genes))
	copy(out, a.genes)
	return out
}

// Artifact is the externally-resolved object a genotype maps to. It is opaque
// to the engine; only the Metric and the Oracle ever look inside.
type Artifact interface{}

// Metric scores an artifact. Metric failures propagate unchanged to the caller
// of the operation that invoked the metric.
type Metric func(artifact Artifact) (float64, error)

// Oracle resolves architectures into artifacts and produces initial samples.
// It is an injected collaborator; its failures pass through the engine opaque
// and unwrapped.
type Oracle interface {
	// GenerateRandomSamples returns up to n artifact/architecture pairs. The
	// two slices are index-aligned and may be shorter than n.
	GenerateRandomSamples(ctx context.Context, n int) ([]Artifact, []string, error)

	// QueryWithArchitecture resolves a native architecture description into
	// an artifact.
	QueryWithArchitecture(ctx context.Context, architecture string) (Artifact, error)
}

// Codec translates between genotypes and the oracle's native architecture
// description format, and gates genotype replacement via IsValid.
type Codec interface {
	ArchitectureToGenotype(architecture string) (Genotype, error)
	GenotypeToArchitecture(genotype Genotype) (string, error)
	IsValid(genotype Genotype) bool
}
