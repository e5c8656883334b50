// Package geneticsgo is an evolutionary-search engine for tabular
// architecture search spaces, written in Go.
//
// Genetics-Go maintains a population of fixed-length genotypes over a finite
// gene alphabet, scores them against a caller-supplied metric, and evolves
// the population across generations via tournament selection, point mutation
// and single-point recombination. It focuses on making it easy to:
//   - Keep selection pressure correct and reproducible (one seedable RNG)
//   - Evolve candidates copy-on-write, so offspring never alias parents
//   - Normalize arbitrary named scores with explicit cached extremes
//   - Plug in any search-space oracle that can resolve genotypes to artifacts
//
// Key Components:
//
//   - genetics: the core engine. Individual (genotype + derived artifact +
//     fitness/age/rank), Genetic (the operator set) and Population (ranking,
//     fitness application, top-k retrieval, bulk transforms, min-max score
//     normalization), plus a bounded-concurrency batch Evaluator.
//
//   - searchspace: a concrete NATS-Bench-style tabular cell space. CellCodec
//     translates between genotypes and architecture strings; TabularSpace is
//     an in-memory oracle over the fully enumerated cell space.
//
//   - archive: a SQLite-backed journal of generations for post-hoc analysis.
//
//   - config: YAML run configuration with declarative validation, feeding
//     the operator set, the evaluator and the logger.
//
// A minimal run wires the pieces together like this:
//
//	space, _ := searchspace.NewTabularSpace(searchspace.NewCellCodec(), seed)
//	population, _ := genetics.GeneratePopulation(ctx, space, space.Codec(), 20)
//
//	operators, _ := genetics.NewGenetic(genetics.GeneticConfig{
//	    Alphabet:             space.Codec().Alphabet(),
//	    TournamentSize:       5,
//	    CrossoverProbability: 0.5,
//	    Seed:                 seed,
//	})
//
//	for generation := 0; generation < maxGenerations; generation++ {
//	    _ = population.UpdateFitness(metric)
//	    population.UpdateRanking()
//
//	    parents, _ := operators.ObtainParents(population, 2)
//	    child, _ := operators.Recombine(ctx, parents, 2)
//	    child, _ = operators.Mutate(ctx, child, 1)
//
//	    next := append(population.FittestN(population.Size()-1), child)
//	    _ = population.UpdatePopulation(next)
//	}
//
// Genetics-Go is released under the MIT License.
package geneticsgo
