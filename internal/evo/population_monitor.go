package evo

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"sync"

	"harmonia/internal/genotype"
)

type GenerationDiagnostics struct {
	Generation        int     `json:"generation"`
	BestFitness       float64 `json:"best_fitness"`
	MeanFitness       float64 `json:"mean_fitness"`
	MinFitness        float64 `json:"min_fitness"`
	UniqueIndividuals int     `json:"unique_individuals"`
}

type RunResult struct {
	BestByGeneration      []float64
	GenerationDiagnostics []GenerationDiagnostics
	// Best is the fittest individual of the final evaluated generation.
	// Survivors pass into the next generation unmutated, so every elite
	// that lasted the run is present there.
	Best            ScoredIndividual
	FinalPopulation []ScoredIndividual
}

type MonitorConfig struct {
	Evaluator      *Evaluator
	PopulationSize int
	Generations    int
	MutationRate   float64
	Workers        int
	Seed           int64
	Octaves        genotype.OctaveRange
}

// PopulationMonitor drives the generational loop: evaluate, halve by
// tournament, breed back to size with crossover plus mutation, repeat.
type PopulationMonitor struct {
	cfg       MonitorConfig
	rng       *rand.Rand
	selection TournamentSelection
	crossover UniformCrossover
	mutation  ResetMutation
}

func NewPopulationMonitor(cfg MonitorConfig) (*PopulationMonitor, error) {
	if cfg.Evaluator == nil {
		return nil, fmt.Errorf("%w: evaluator is required", ErrConfig)
	}
	if cfg.PopulationSize < 2 || cfg.PopulationSize%2 != 0 {
		return nil, fmt.Errorf("%w: population size %d must be even and >= 2", ErrConfig, cfg.PopulationSize)
	}
	if cfg.Generations <= 0 {
		return nil, fmt.Errorf("%w: generations must be > 0", ErrConfig)
	}
	if cfg.MutationRate < 0 || cfg.MutationRate > 1 {
		return nil, fmt.Errorf("%w: mutation rate %v outside [0,1]", ErrConfig, cfg.MutationRate)
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.Octaves == (genotype.OctaveRange{}) {
		cfg.Octaves = genotype.DefaultOctaveRange()
	}

	return &PopulationMonitor{
		cfg:       cfg,
		rng:       rand.New(rand.NewSource(cfg.Seed)),
		selection: TournamentSelection{},
		crossover: UniformCrossover{},
		mutation:  ResetMutation{Rate: cfg.MutationRate, Octaves: cfg.Octaves},
	}, nil
}

// Run evolves a random initial population for the configured number of
// generations. All random draws happen on the monitor goroutine, so a
// fixed seed replays exactly regardless of worker count.
func (m *PopulationMonitor) Run(ctx context.Context) (RunResult, error) {
	slots := m.cfg.Evaluator.Slots()
	population := genotype.NewRandomPopulation(m.rng, m.cfg.PopulationSize, slots, m.cfg.Octaves)

	bestHistory := make([]float64, 0, m.cfg.Generations)
	diagnostics := make([]GenerationDiagnostics, 0, m.cfg.Generations)
	var scored []ScoredIndividual

	for gen := 0; gen < m.cfg.Generations; gen++ {
		if err := ctx.Err(); err != nil {
			return RunResult{}, err
		}

		scored = m.evaluatePopulation(population)
		bestHistory = append(bestHistory, bestOf(scored).Fitness)
		diagnostics = append(diagnostics, summarizeGeneration(scored, gen+1))

		if gen == m.cfg.Generations-1 {
			break
		}

		survivors, err := m.selection.Select(m.rng, scored)
		if err != nil {
			return RunResult{}, err
		}
		population, err = m.breed(survivors)
		if err != nil {
			return RunResult{}, err
		}
	}

	return RunResult{
		BestByGeneration:      bestHistory,
		GenerationDiagnostics: diagnostics,
		Best:                  bestOf(scored),
		FinalPopulation:       scored,
	}, nil
}

// breed refills the population: survivors carry over untouched, and
// pairs of random survivors produce crossed, mutated children until
// the population is back at full size. Parents are distinct whenever
// more than one survivor remains; a lone survivor pairs with itself
// and relies on mutation for variation.
func (m *PopulationMonitor) breed(survivors []ScoredIndividual) ([]genotype.Individual, error) {
	next := make([]genotype.Individual, 0, m.cfg.PopulationSize)
	for _, item := range survivors {
		next = append(next, item.Individual)
	}

	for len(next) < m.cfg.PopulationSize {
		first := m.rng.Intn(len(survivors))
		second := first
		if len(survivors) > 1 {
			second = m.rng.Intn(len(survivors) - 1)
			if second >= first {
				second++
			}
		}

		childA, childB, err := m.crossover.Pair(m.rng, survivors[first].Individual, survivors[second].Individual)
		if err != nil {
			return nil, err
		}
		if childA, err = m.mutation.Apply(m.rng, childA); err != nil {
			return nil, err
		}
		if childB, err = m.mutation.Apply(m.rng, childB); err != nil {
			return nil, err
		}

		next = append(next, childA)
		if len(next) < m.cfg.PopulationSize {
			next = append(next, childB)
		}
	}
	return next, nil
}

// evaluatePopulation scores every individual on a worker pool. Fitness
// is pure, so workers write disjoint indices and need no locking.
func (m *PopulationMonitor) evaluatePopulation(population []genotype.Individual) []ScoredIndividual {
	type job struct {
		idx        int
		individual genotype.Individual
	}

	workerCount := m.cfg.Workers
	if workerCount > len(population) {
		workerCount = len(population)
	}

	scored := make([]ScoredIndividual, len(population))
	jobs := make(chan job)

	var wg sync.WaitGroup
	wg.Add(workerCount)
	for w := 0; w < workerCount; w++ {
		go func() {
			defer wg.Done()
			for j := range jobs {
				scored[j.idx] = ScoredIndividual{
					Individual: j.individual,
					Fitness:    m.cfg.Evaluator.Fitness(j.individual),
				}
			}
		}()
	}

	for i := range population {
		jobs <- job{idx: i, individual: population[i]}
	}
	close(jobs)
	wg.Wait()

	return scored
}

func bestOf(scored []ScoredIndividual) ScoredIndividual {
	best := scored[0]
	for _, item := range scored[1:] {
		if item.Fitness > best.Fitness {
			best = item
		}
	}
	return best
}

func summarizeGeneration(scored []ScoredIndividual, generation int) GenerationDiagnostics {
	if len(scored) == 0 {
		return GenerationDiagnostics{Generation: generation}
	}

	total := 0.0
	best := scored[0].Fitness
	min := scored[0].Fitness
	fingerprints := make(map[string]struct{}, len(scored))
	for _, item := range scored {
		total += item.Fitness
		if item.Fitness > best {
			best = item.Fitness
		}
		if item.Fitness < min {
			min = item.Fitness
		}
		fingerprints[fingerprint(item.Individual)] = struct{}{}
	}

	return GenerationDiagnostics{
		Generation:        generation,
		BestFitness:       best,
		MeanFitness:       total / float64(len(scored)),
		MinFitness:        min,
		UniqueIndividuals: len(fingerprints),
	}
}

func fingerprint(individual genotype.Individual) string {
	var b strings.Builder
	for _, chord := range individual {
		fmt.Fprintf(&b, "%d:%d;", int(chord.Shape), int(chord.Root))
	}
	return b.String()
}
