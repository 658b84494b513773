package evo

import (
	"fmt"
	"math/rand"

	"harmonia/internal/genotype"
)

// UniformCrossover produces two children from two parents by deciding
// each slot independently with probability one half. Parents are never
// written to.
type UniformCrossover struct{}

func (UniformCrossover) Pair(rng *rand.Rand, first, second genotype.Individual) (genotype.Individual, genotype.Individual, error) {
	if len(first) != len(second) {
		return nil, nil, fmt.Errorf("%w: parents have %d and %d slots", genotype.ErrMalformed, len(first), len(second))
	}
	childA := make(genotype.Individual, len(first))
	childB := make(genotype.Individual, len(second))
	for i := range first {
		if rng.Float64() < 0.5 {
			childA[i] = second[i]
			childB[i] = first[i]
		} else {
			childA[i] = first[i]
			childB[i] = second[i]
		}
	}
	return childA, childB, nil
}
