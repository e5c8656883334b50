package genetics

import (
	"context"

	"github.com/google/uuid"

	"github.com/XiaoConstantine/genetics-go/pkg/errors"
)

// FitnessScore is the reserved score name that resolves to an individual's
// fitness field instead of its auxiliary score map.
const FitnessScore = "fitness"

// Individual is the engine's unit of evolution: a genotype plus the artifact
// it resolves to, a fitness score, a caller-managed age, and a
// population-relative rank (0 = fittest).
//
// The artifact is derived state: it is refreshed through the oracle whenever
// the genotype changes and is never independently settable.
type Individual struct {
	id       string
	genotype Genotype
	artifact Artifact
	fitness  float64
	age      int
	rank     int
	scores   map[string]float64
	oracle   Oracle
	codec    Codec
}

// NewIndividual wraps a genotype and its pre-resolved artifact. The genotype
// is not validated here; validation happens on replacement, where the codec
// gates every change. Age starts at 0 and is caller-managed thereafter.
func NewIndividual(genotype Genotype, artifact Artifact, oracle Oracle, codec Codec) *Individual {
	return &Individual{
		id:       uuid.New().String(),
		genotype: genotype.Clone(),
		artifact: artifact,
		scores:   make(map[string]float64),
		oracle:   oracle,
		codec:    codec,
	}
}

// ID returns the individual's unique identifier.
func (i *Individual) ID() string { return i.id }

// Genotype returns a copy of the genotype. The individual retains exclusive
// ownership of its own buffer.
func (i *Individual) Genotype() Genotype { return i.genotype.Clone() }

// Artifact returns the artifact the current genotype resolves to.
func (i *Individual) Artifact() Artifact { return i.artifact }

// Fitness returns the current fitness score; 0 until UpdateFitness runs.
func (i *Individual) Fitness() float64 { return i.fitness }

// Rank returns the population-relative rank; meaningful only after the owning
// population has computed rankings.
func (i *Individual) Rank() int { return i.rank }

// Age returns the caller-managed age counter.
func (i *Individual) Age() int { return i.age }

// SetAge sets the age counter. The engine never increments age itself.
func (i *Individual) SetAge(age int) { i.age = age }

// Architecture renders the current genotype in the oracle's native format.
func (i *Individual) Architecture() (string, error) {
	if i.codec == nil {
		return "", errors.New(errors.InvalidInput, "individual has no codec")
	}
	return i.codec.GenotypeToArchitecture(i.genotype)
}

// ReplaceGenotype swaps in a new genotype and synchronously re-resolves the
// artifact through the oracle, so there is no observable state where genotype
// and artifact disagree.
//
// Fitness and rank are deliberately not invalidated here: callers re-run
// fitness and ranking in batch after a round of genotype changes.
func (i *Individual) ReplaceGenotype(ctx context.Context, genotype Genotype) error {
	if i.codec == nil || i.oracle == nil {
		return errors.New(errors.InvalidInput, "individual has no oracle/codec to resolve genotypes")
	}
	if !i.codec.IsValid(genotype) {
		return errors.WithFields(
			errors.New(errors.ValidationFailed, "genotype is not a valid replacement"),
			errors.Fields{"length": len(genotype)})
	}

	architecture, err := i.codec.GenotypeToArchitecture(genotype)
	if err != nil {
		return err
	}
	artifact, err := i.oracle.QueryWithArchitecture(ctx, architecture)
	if err != nil {
		// Oracle failures pass through unchanged.
		return err
	}

	i.genotype = genotype.Clone()
	i.artifact = artifact
	return nil
}

// UpdateFitness sets fitness to metric(artifact). Metric failures propagate
// and leave the stored fitness untouched.
func (i *Individual) UpdateFitness(metric Metric) error {
	score, err := metric(i.artifact)
	if err != nil {
		return err
	}
	i.fitness = score
	return nil
}

// UpdateRank overwrites the population-relative rank.
func (i *Individual) UpdateRank(rank int) { i.rank = rank }

// Score returns the named auxiliary score, or the fitness field for the
// reserved name "fitness".
func (i *Individual) Score(name string) (float64, bool) {
	if name == FitnessScore {
		return i.fitness, true
	}
	v, ok := i.scores[name]
	return v, ok
}

// SetScore attaches a named auxiliary score. The reserved name "fitness"
// writes through to the fitness field.
func (i *Individual) SetScore(name string, value float64) {
	if name == FitnessScore {
		i.fitness = value
		return
	}
	i.scores[name] = value
}

// ScoreNames returns the auxiliary score names currently attached.
func (i *Individual) ScoreNames() []string {
	names := make([]string, 0, len(i.scores))
	for name := range i.scores {
		names = append(names, name)
	}
	return names
}

// Clone deep-copies the individual: the genotype buffer and score map are
// fresh, so mutating the copy can never alias the original. The artifact
// reference is carried over as-is; it is opaque, never mutated by the engine,
// and replaced wholesale on the next ReplaceGenotype. The clone keeps the
// source's ID; operators assign fresh IDs to offspring.
func (i *Individual) Clone() *Individual {
	scores := make(map[string]float64, len(i.scores))
	for k, v := range i.scores {
		scores[k] = v
	}
	return &Individual{
		id:       i.id,
		genotype: i.genotype.Clone(),
		artifact: i.artifact,
		fitness:  i.fitness,
		age:      i.age,
		rank:     i.rank,
		scores:   scores,
		oracle:   i.oracle,
		codec:    i.codec,
	}
}
