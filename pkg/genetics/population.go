package genetics

import (
	"context"
	"sort"

	"github.com/XiaoConstantine/genetics-go/pkg/errors"
	"github.com/XiaoConstantine/genetics-go/pkg/logging"
)

// DefaultSampleCount is the number of oracle samples requested when
// generating a population without an explicit override.
const DefaultSampleCount = 20

type extremes struct {
	min float64
	max float64
}

// Population owns an ordered collection of individuals. Order carries no
// meaning except as produced by ranking. Membership is replaced wholesale and
// atomically: bulk operations build and validate the full new collection
// before any of the old state changes.
type Population struct {
	members  []*Individual
	extremes map[string]extremes
}

// Transform produces a replacement individual from an existing one. It is
// applied to deep-copied snapshots, so a transform never observes
// partially-mutated siblings.
type Transform func(*Individual) (*Individual, error)

// NewPopulation wraps a caller-supplied collection. Every element must be a
// non-nil individual; otherwise nothing is retained and ValidationFailed is
// returned.
func NewPopulation(members []*Individual) (*Population, error) {
	if err := validateMembers(members); err != nil {
		return nil, err
	}
	p := &Population{
		members:  append([]*Individual(nil), members...),
		extremes: make(map[string]extremes),
	}
	return p, nil
}

// GeneratePopulation builds an initial population by requesting nSamples
// artifact/architecture pairs from the oracle and decoding each architecture
// into a genotype. nSamples <= 0 falls back to DefaultSampleCount. The
// population size equals whatever the oracle actually returned; short returns
// are not re-sampled.
func GeneratePopulation(ctx context.Context, oracle Oracle, codec Codec, nSamples int) (*Population, error) {
	if err := errors.CheckContext(ctx, "generate population"); err != nil {
		return nil, err
	}
	if nSamples <= 0 {
		nSamples = DefaultSampleCount
	}

	artifacts, architectures, err := oracle.GenerateRandomSamples(ctx, nSamples)
	if err != nil {
		// Oracle failures pass through unchanged.
		return nil, err
	}
	if len(artifacts) != len(architectures) {
		return nil, errors.WithFields(
			errors.New(errors.ValidationFailed, "oracle returned mismatched sample slices"),
			errors.Fields{"artifacts": len(artifacts), "architectures": len(architectures)})
	}

	members := make([]*Individual, 0, len(artifacts))
	for i, architecture := range architectures {
		genotype, err := codec.ArchitectureToGenotype(architecture)
		if err != nil {
			return nil, err
		}
		members = append(members, NewIndividual(genotype, artifacts[i], oracle, codec))
	}

	logging.GetLogger().Info(ctx, "generated population of %d individuals (%d requested)",
		len(members), nSamples)
	return NewPopulation(members)
}

func validateMembers(members []*Individual) error {
	for i, member := range members {
		if member == nil {
			return errors.WithFields(
				errors.New(errors.ValidationFailed, "population member is not an individual"),
				errors.Fields{"position": i})
		}
	}
	return nil
}

// Individuals returns a copy of the member slice. The individuals themselves
// are shared references.
func (p *Population) Individuals() []*Individual {
	return append([]*Individual(nil), p.members...)
}

// Size returns the number of members.
func (p *Population) Size() int { return len(p.members) }

// UpdatePopulation replaces the membership wholesale. The new collection is
// validated in full before the swap; on failure the old membership is left
// untouched. Cached extremes are invalidated since they describe the old
// membership.
func (p *Population) UpdatePopulation(members []*Individual) error {
	if err := validateMembers(members); err != nil {
		return err
	}
	p.members = append([]*Individual(nil), members...)
	p.extremes = make(map[string]extremes)
	return nil
}

// FittestN returns the top-n members by descending fitness. The sort is
// stable, so ties keep their relative input order. n larger than the
// population returns the whole population.
func (p *Population) FittestN(n int) []*Individual {
	sorted := p.sortedByFitness()
	if n > len(sorted) {
		n = len(sorted)
	}
	if n < 0 {
		n = 0
	}
	return sorted[:n]
}

func (p *Population) sortedByFitness() []*Individual {
	sorted := p.Individuals()
	sort.SliceStable(sorted, func(a, b int) bool {
		return sorted[a].Fitness() > sorted[b].Fitness()
	})
	return sorted
}

// UpdateRanking sorts members by descending fitness and assigns every member
// its 0-based position as rank, unconditionally overwriting previous ranks.
// Rank 0 is the fittest; ties break toward input order.
func (p *Population) UpdateRanking() {
	for rank, individual := range p.sortedByFitness() {
		individual.UpdateRank(rank)
	}
}

// UpdateFitness applies the metric to every member's artifact. The operation
// is all-or-nothing: every score is computed before any member is updated, so
// a metric failure leaves all fitness values untouched. Evaluation order is
// unspecified; metrics must not rely on it.
func (p *Population) UpdateFitness(metric Metric) error {
	scores := make([]float64, len(p.members))
	for i, individual := range p.members {
		score, err := metric(individual.Artifact())
		if err != nil {
			// Metric failures pass through unchanged.
			return err
		}
		scores[i] = score
	}
	for i, individual := range p.members {
		individual.SetScore(FitnessScore, scores[i])
	}
	return nil
}

// ApplyOnIndividuals applies transform to a deep-copied snapshot of every
// member. With inPlace the resulting collection atomically replaces the
// population (same validity contract as UpdatePopulation) and a nil slice is
// returned; otherwise the live population is untouched and the transformed
// snapshot is returned to the caller. Any transform failure aborts the whole
// operation with no state change.
func (p *Population) ApplyOnIndividuals(transform Transform, inPlace bool) ([]*Individual, error) {
	transformed := make([]*Individual, 0, len(p.members))
	for _, individual := range p.members {
		out, err := transform(individual.Clone())
		if err != nil {
			return nil, err
		}
		transformed = append(transformed, out)
	}

	if inPlace {
		if err := p.UpdatePopulation(transformed); err != nil {
			return nil, err
		}
		return nil, nil
	}
	return transformed, nil
}

// SetExtremes computes and caches the minimum and maximum of the named score
// across current members. The cache is not auto-invalidated when the scored
// attribute changes; callers recompute (or InvalidateExtremes) after such
// changes. Membership changes clear the cache.
func (p *Population) SetExtremes(name string) error {
	if len(p.members) == 0 {
		return errors.New(errors.InvalidInput, "cannot compute extremes of an empty population")
	}

	values := make([]float64, 0, len(p.members))
	for _, individual := range p.members {
		v, ok := individual.Score(name)
		if !ok {
			return errors.WithFields(
				errors.New(errors.ValidationFailed, "score is not set on every member"),
				errors.Fields{"score": name, "individual": individual.ID()})
		}
		values = append(values, v)
	}
	sort.Float64s(values)

	p.extremes[name] = extremes{min: values[0], max: values[len(values)-1]}
	return nil
}

// InvalidateExtremes drops the cached extremes for the named score.
func (p *Population) InvalidateExtremes(name string) {
	delete(p.extremes, name)
}

// Extremes returns the cached extremes for the named score, if present.
func (p *Population) Extremes(name string) (min, max float64, ok bool) {
	e, ok := p.extremes[name]
	return e.min, e.max, ok
}

// NormalizeScores min-max rescales the named score of every member into
// [0,1], lazily computing extremes on first use. A degenerate range
// (max == min) is rejected with DegenerateRange rather than dividing by
// zero. Copy-then-replace semantics follow ApplyOnIndividuals.
func (p *Population) NormalizeScores(name string, inPlace bool) ([]*Individual, error) {
	if _, ok := p.extremes[name]; !ok {
		if err := p.SetExtremes(name); err != nil {
			return nil, err
		}
	}
	e := p.extremes[name]
	if e.max == e.min {
		return nil, errors.WithFields(
			errors.New(errors.DegenerateRange, "cannot normalize a score with max equal to min"),
			errors.Fields{"score": name, "value": e.min})
	}

	return p.ApplyOnIndividuals(func(individual *Individual) (*Individual, error) {
		v, ok := individual.Score(name)
		if !ok {
			return nil, errors.WithFields(
				errors.New(errors.ValidationFailed, "score is not set on every member"),
				errors.Fields{"score": name, "individual": individual.ID()})
		}
		individual.SetScore(name, (v-e.min)/(e.max-e.min))
		return individual, nil
	}, inPlace)
}
