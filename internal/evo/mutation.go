package evo

import (
	"fmt"
	"math/rand"

	"harmonia/internal/genotype"
)

// ResetMutation replaces each slot, independently with probability
// Rate, by a freshly drawn random chord. Rate 0 is the identity (the
// input is still copied, never aliased), and rate 0 draws no random
// numbers so a run's stream stays stable across rates.
type ResetMutation struct {
	Rate    float64
	Octaves genotype.OctaveRange
}

func (m ResetMutation) Apply(rng *rand.Rand, individual genotype.Individual) (genotype.Individual, error) {
	if m.Rate < 0 || m.Rate > 1 {
		return nil, fmt.Errorf("%w: mutation rate %v outside [0,1]", ErrConfig, m.Rate)
	}
	mutated := genotype.Clone(individual)
	for i := range mutated {
		if m.Rate > 0 && rng.Float64() < m.Rate {
			mutated[i] = genotype.RandomChord(rng, m.Octaves)
		}
	}
	return mutated, nil
}
