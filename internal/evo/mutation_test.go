package evo

import (
	"errors"
	"math/rand"
	"testing"

	"harmonia/internal/genotype"
)

func TestResetMutationRateZeroIsIdentity(t *testing.T) {
	rng := rand.New(rand.NewSource(4))
	original := genotype.NewRandomIndividual(rng, 16, genotype.DefaultOctaveRange())

	m := ResetMutation{Rate: 0, Octaves: genotype.DefaultOctaveRange()}
	mutated, err := m.Apply(rng, original)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	for i := range original {
		if mutated[i] != original[i] {
			t.Fatalf("rate 0 changed slot %d: %v vs %v", i, mutated[i], original[i])
		}
	}

	// Identity still means a fresh copy, not an alias.
	mutated[0] = genotype.RandomChord(rng, genotype.DefaultOctaveRange())
	if mutated[0] == original[0] {
		t.Fatalf("mutation output aliases its input")
	}
}

func TestResetMutationReproducible(t *testing.T) {
	base := genotype.NewRandomIndividual(rand.New(rand.NewSource(8)), 32, genotype.DefaultOctaveRange())
	m := ResetMutation{Rate: 1, Octaves: genotype.DefaultOctaveRange()}

	a, err := m.Apply(rand.New(rand.NewSource(21)), base)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	b, err := m.Apply(rand.New(rand.NewSource(21)), base)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("slot %d differs across identical seeds", i)
		}
	}
}

func TestResetMutationRateBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	base := genotype.Individual{genotype.RandomChord(rng, genotype.DefaultOctaveRange())}
	for _, rate := range []float64{-0.1, 1.1} {
		m := ResetMutation{Rate: rate, Octaves: genotype.DefaultOctaveRange()}
		if _, err := m.Apply(rng, base); !errors.Is(err, ErrConfig) {
			t.Fatalf("rate %v error = %v, want ErrConfig", rate, err)
		}
	}
}
