package evo

import (
	"errors"

	"harmonia/internal/genotype"
)

// ErrConfig marks configuration that cannot drive a run: odd or empty
// populations, out-of-range rates, missing evaluators.
var ErrConfig = errors.New("invalid configuration")

// ScoredIndividual pairs an individual with its evaluated fitness.
type ScoredIndividual struct {
	Individual genotype.Individual
	Fitness    float64
}
