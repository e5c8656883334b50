package genetics

import (
	"context"
	"math/rand"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/XiaoConstantine/genetics-go/pkg/errors"
	"github.com/XiaoConstantine/genetics-go/pkg/logging"
)

// Strategy tags the offspring-replacement policy. It is carried on the
// operator set for callers assembling the next generation; the operators
// themselves do not consult it.
type Strategy string

const (
	StrategyComma Strategy = "comma"
	StrategyPlus  Strategy = "plus"
)

// GeneticConfig contains configuration options for the operator set.
type GeneticConfig struct {
	// Alphabet must match the gene alphabet of the population's genotypes.
	Alphabet Alphabet

	// TournamentSize is the number of candidates drawn per tournament.
	// Default: 5.
	TournamentSize int

	// CrossoverProbability is the probability that parent1 contributes the
	// prefix during recombination. Must lie in [0,1]. Default: 0.5.
	CrossoverProbability float64

	// Strategy is the reserved offspring-replacement tag. Default: comma.
	Strategy Strategy

	// Seed seeds the operator set's random number generator. Zero means
	// time-based seeding; any other value gives reproducible runs.
	Seed int64
}

// DefaultGeneticConfig returns the default operator configuration, minus the
// alphabet which has no meaningful default.
func DefaultGeneticConfig() GeneticConfig {
	return GeneticConfig{
		TournamentSize:       5,
		CrossoverProbability: 0.5,
		Strategy:             StrategyComma,
	}
}

// Genetic is the operator set: tournament selection, parent selection,
// mutation and recombination. It is stateless except for its configuration
// and its random number generator, which is the single source of randomness
// for every operator so that seeded runs are reproducible.
type Genetic struct {
	alphabet       Alphabet
	tournamentSize int
	crossoverProb  float64
	strategy       Strategy
	rng            *rand.Rand
}

// NewGenetic validates the configuration and builds an operator set.
func NewGenetic(config GeneticConfig) (*Genetic, error) {
	if config.TournamentSize < 1 {
		return nil, errors.WithFields(
			errors.New(errors.InvalidConfiguration, "tournament size must be at least 1"),
			errors.Fields{"tournament_size": config.TournamentSize})
	}
	if config.CrossoverProbability < 0 || config.CrossoverProbability > 1 {
		return nil, errors.WithFields(
			errors.New(errors.InvalidConfiguration, "crossover probability must lie in [0,1]"),
			errors.Fields{"crossover_probability": config.CrossoverProbability})
	}
	if config.Alphabet.Size() == 0 {
		return nil, errors.New(errors.InvalidConfiguration, "alphabet must not be empty")
	}

	strategy := config.Strategy
	if strategy == "" {
		strategy = StrategyComma
	}
	seed := config.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	return &Genetic{
		alphabet:       config.Alphabet,
		tournamentSize: config.TournamentSize,
		crossoverProb:  config.CrossoverProbability,
		strategy:       strategy,
		rng:            rand.New(rand.NewSource(seed)),
	}, nil
}

// Strategy returns the reserved offspring-replacement tag.
func (g *Genetic) Strategy() Strategy { return g.strategy }

// Seed reseeds the operator set. Reseeding to the same value before an
// identical sequence of operator calls reproduces identical outcomes.
func (g *Genetic) Seed(seed int64) {
	g.rng = rand.New(rand.NewSource(seed))
}

// Tournament draws tournamentSize members independently and uniformly at
// random with replacement, so the tournament size may exceed the population
// size.
func (g *Genetic) Tournament(population *Population) ([]*Individual, error) {
	members := population.Individuals()
	if len(members) == 0 {
		return nil, errors.New(errors.InvalidInput, "cannot run a tournament on an empty population")
	}

	tournament := make([]*Individual, g.tournamentSize)
	for i := range tournament {
		tournament[i] = members[g.rng.Intn(len(members))]
	}
	return tournament, nil
}

// ObtainParents selects nParents individuals, each the fittest member of an
// independent tournament. Ties break toward first-encountered order, and the
// same individual may win more than one tournament.
func (g *Genetic) ObtainParents(population *Population, nParents int) ([]*Individual, error) {
	if nParents < 1 {
		return nil, errors.WithFields(
			errors.New(errors.InvalidInput, "parent count must be at least 1"),
			errors.Fields{"n_parents": nParents})
	}

	parents := make([]*Individual, 0, nParents)
	for p := 0; p < nParents; p++ {
		tournament, err := g.Tournament(population)
		if err != nil {
			return nil, err
		}
		sort.SliceStable(tournament, func(a, b int) bool {
			return tournament[a].Fitness() > tournament[b].Fitness()
		})
		parents = append(parents, tournament[0])
	}
	return parents, nil
}

// Mutate returns a mutated copy of individual; the input is never modified.
// Each of nLoci rounds picks a locus uniformly at random and replaces its
// gene with a uniform draw from the alphabet minus the current gene, so the
// replacement always differs from the gene it displaces. The mutant's
// genotype is committed through ReplaceGenotype, refreshing its artifact.
func (g *Genetic) Mutate(ctx context.Context, individual *Individual, nLoci int) (*Individual, error) {
	if g.alphabet.Size() <= 1 {
		return nil, errors.New(errors.InsufficientAlphabet,
			"mutation is impossible with an alphabet of size <= 1")
	}
	if nLoci < 1 {
		return nil, errors.WithFields(
			errors.New(errors.InvalidInput, "mutation needs at least one locus"),
			errors.Fields{"n_loci": nLoci})
	}

	genotype := individual.Genotype()
	if len(genotype) == 0 {
		return nil, errors.New(errors.InvalidInput, "cannot mutate an empty genotype")
	}

	for round := 0; round < nLoci; round++ {
		locus := g.rng.Intn(len(genotype))
		current := genotype[locus]

		// Replacement pool keeps alphabet order for reproducibility.
		pool := make([]Gene, 0, g.alphabet.Size()-1)
		for _, gene := range g.alphabet.Genes() {
			if gene != current {
				pool = append(pool, gene)
			}
		}
		genotype[locus] = pool[g.rng.Intn(len(pool))]
	}

	mutant := individual.Clone()
	mutant.id = uuid.New().String()
	if err := mutant.ReplaceGenotype(ctx, genotype); err != nil {
		return nil, err
	}

	logging.GetLogger().Debug(ctx, "mutated individual %s -> %s (%d loci)",
		individual.ID(), mutant.ID(), nLoci)
	return mutant, nil
}

// Recombine performs single-point crossover on exactly two parents and
// returns the recombinant. A single crossover locus is drawn uniformly in
// [0,L); with probability CrossoverProbability parent1 contributes the prefix
// and parent2 the suffix, otherwise the symmetric swap. The recombinant is a
// copy of parent1 with the new genotype, so non-genotype metadata such as age
// inherits from parent1.
//
// nParts is reserved for future multi-point variants and is not consulted.
func (g *Genetic) Recombine(ctx context.Context, parents []*Individual, nParts int) (*Individual, error) {
	if len(parents) != 2 {
		return nil, errors.WithFields(
			errors.New(errors.InvalidArity, "recombination requires exactly two parents"),
			errors.Fields{"n_parents": len(parents)})
	}
	_ = nParts

	genotype1 := parents[0].Genotype()
	genotype2 := parents[1].Genotype()
	if len(genotype1) != len(genotype2) {
		return nil, errors.WithFields(
			errors.New(errors.ValidationFailed, "parents have mismatched genotype lengths"),
			errors.Fields{"length1": len(genotype1), "length2": len(genotype2)})
	}
	if len(genotype1) == 0 {
		return nil, errors.New(errors.InvalidInput, "cannot recombine empty genotypes")
	}

	locus := g.rng.Intn(len(genotype1))
	genotype := make(Genotype, 0, len(genotype1))
	if g.rng.Float64() < g.crossoverProb {
		genotype = append(append(genotype, genotype1[:locus]...), genotype2[locus:]...)
	} else {
		genotype = append(append(genotype, genotype2[:locus]...), genotype1[locus:]...)
	}

	recombinant := parents[0].Clone()
	recombinant.id = uuid.New().String()
	if err := recombinant.ReplaceGenotype(ctx, genotype); err != nil {
		return nil, err
	}

	logging.GetLogger().Debug(ctx, "recombined %s x %s -> %s at locus %d",
		parents[0].ID(), parents[1].ID(), recombinant.ID(), locus)
	return recombinant, nil
}
