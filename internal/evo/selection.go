package evo

import (
	"fmt"
	"math/rand"
)

// TournamentSelection halves a population: individuals are shuffled,
// paired off, and the fitter of each pair survives. Equal fitness
// keeps the contestant drawn first.
type TournamentSelection struct{}

func (TournamentSelection) Select(rng *rand.Rand, scored []ScoredIndividual) ([]ScoredIndividual, error) {
	if len(scored) == 0 {
		return nil, fmt.Errorf("%w: empty population", ErrConfig)
	}
	if len(scored)%2 != 0 {
		return nil, fmt.Errorf("%w: population size %d is odd", ErrConfig, len(scored))
	}

	order := rng.Perm(len(scored))
	survivors := make([]ScoredIndividual, 0, len(scored)/2)
	for i := 0; i < len(order); i += 2 {
		winner := scored[order[i]]
		if challenger := scored[order[i+1]]; challenger.Fitness > winner.Fitness {
			winner = challenger
		}
		survivors = append(survivors, winner)
	}
	return survivors, nil
}
