package genotype

import (
	"errors"
	"fmt"
	"math/rand"

	"harmonia/internal/theory"
)

// ErrMalformed marks structurally invalid individuals: wrong length for
// the melody, or a chord outside the closed shape set.
var ErrMalformed = errors.New("malformed genotype")

// Individual is a candidate accompaniment: one chord per melody slot.
type Individual []theory.Chord

// OctaveRange bounds the octaves random construction draws roots from.
type OctaveRange struct {
	Min int
	Max int
}

// DefaultOctaveRange covers the playable middle of the keyboard.
func DefaultOctaveRange() OctaveRange {
	return OctaveRange{Min: 1, Max: 7}
}

// RandomChord draws a uniform shape and, for sounding shapes, a uniform
// root within the octave range. All randomness comes from rng so runs
// replay under a fixed seed.
func RandomChord(rng *rand.Rand, octaves OctaveRange) theory.Chord {
	shapes := theory.Shapes()
	shape := shapes[rng.Intn(len(shapes))]
	if shape == theory.ShapeRest {
		return theory.RestChord()
	}
	octave := octaves.Min + rng.Intn(octaves.Max-octaves.Min+1)
	pitchClass := rng.Intn(12)
	return theory.NewChord(shape, theory.NoteAt(octave, pitchClass))
}

func NewRandomIndividual(rng *rand.Rand, slots int, octaves OctaveRange) Individual {
	individual := make(Individual, slots)
	for i := range individual {
		individual[i] = RandomChord(rng, octaves)
	}
	return individual
}

func NewRandomPopulation(rng *rand.Rand, size, slots int, octaves OctaveRange) []Individual {
	population := make([]Individual, size)
	for i := range population {
		population[i] = NewRandomIndividual(rng, slots, octaves)
	}
	return population
}

// Clone returns an independent copy. Operators always clone before
// writing so parents survive a generation untouched.
func Clone(individual Individual) Individual {
	copied := make(Individual, len(individual))
	copy(copied, individual)
	return copied
}

// Validate checks the individual against the slot count of the melody
// it accompanies.
func Validate(individual Individual, slots int) error {
	if len(individual) != slots {
		return fmt.Errorf("%w: individual has %d slots, melody has %d", ErrMalformed, len(individual), slots)
	}
	for i, chord := range individual {
		if _, err := theory.ShapeFromName(chord.Shape.String()); err != nil {
			return fmt.Errorf("%w: slot %d: %v", ErrMalformed, i, err)
		}
		if chord.IsRest() {
			continue
		}
		if chord.Root < 0 {
			return fmt.Errorf("%w: slot %d: sounding chord with rest root", ErrMalformed, i)
		}
	}
	return nil
}
