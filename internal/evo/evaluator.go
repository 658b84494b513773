package evo

import (
	"fmt"
	"math"

	"harmonia/internal/genotype"
	"harmonia/internal/theory"
)

// Weights parameterizes the fitness terms. The zero value is replaced
// by DefaultWeights in NewEvaluator.
type Weights struct {
	// SimilarityRadius is the semitone distance beyond which a chord
	// tone earns nothing toward the slot target.
	SimilarityRadius float64
	TonicWeight      float64
	MediantWeight    float64
	DominantWeight   float64
	KeyMemberBonus   float64
	PairReward       float64
	RunPenalty       float64
}

func DefaultWeights() Weights {
	return Weights{
		SimilarityRadius: 10,
		TonicWeight:      5,
		MediantWeight:    10,
		DominantWeight:   5,
		KeyMemberBonus:   100,
		PairReward:       100,
		RunPenalty:       100,
	}
}

// Evaluator scores individuals against a melody's slot targets and a
// key's diatonic chord set. Fitness is a pure function of the
// individual, so evaluation parallelizes without coordination.
type Evaluator struct {
	targets []float64
	chords  theory.KeyChordSet
	weights Weights
}

func NewEvaluator(targets []float64, chords theory.KeyChordSet, weights Weights) (*Evaluator, error) {
	if len(targets) == 0 {
		return nil, fmt.Errorf("%w: no slot targets", ErrConfig)
	}
	if chords.Size() == 0 {
		return nil, fmt.Errorf("%w: empty key chord set", ErrConfig)
	}
	if weights == (Weights{}) {
		weights = DefaultWeights()
	}
	copied := make([]float64, len(targets))
	copy(copied, targets)
	return &Evaluator{targets: copied, chords: chords, weights: weights}, nil
}

func (e *Evaluator) Slots() int {
	return len(e.targets)
}

// Fitness sums three terms per individual: closeness of each sounding
// chord's tones to the slot target, diatonic membership, and a
// repetition term that rewards an exact pair of equal adjacent chords
// but penalizes every extension of a run past two.
func (e *Evaluator) Fitness(individual genotype.Individual) float64 {
	score := 0.0
	for i, chord := range individual {
		if chord.IsRest() {
			continue
		}
		notes := chord.Notes()
		target := e.targets[i]
		score += e.weights.TonicWeight * e.proximity(target, notes[0])
		score += e.weights.MediantWeight * e.proximity(target, notes[1])
		score += e.weights.DominantWeight * e.proximity(target, notes[2])
	}
	for _, chord := range individual {
		if e.chords.Contains(chord) {
			score += e.weights.KeyMemberBonus
		} else {
			score -= e.weights.KeyMemberBonus
		}
	}
	for i := 1; i < len(individual); i++ {
		if individual[i] != individual[i-1] {
			continue
		}
		if i >= 2 && individual[i-1] == individual[i-2] {
			score -= e.weights.RunPenalty
		} else {
			score += e.weights.PairReward
		}
	}
	return score
}

func (e *Evaluator) proximity(target float64, note theory.Note) float64 {
	distance := math.Abs(target - float64(note))
	return math.Max(e.weights.SimilarityRadius-distance, 0)
}
