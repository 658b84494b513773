package evo

import (
	"errors"
	"math"
	"testing"

	"harmonia/internal/genotype"
	"harmonia/internal/theory"
)

func cMajorSet() theory.KeyChordSet {
	return theory.NewKeyChordSet(theory.Key{Tonic: 0, Mode: theory.ModeMajor})
}

func mustEvaluator(t *testing.T, targets []float64) *Evaluator {
	t.Helper()
	e, err := NewEvaluator(targets, cMajorSet(), Weights{})
	if err != nil {
		t.Fatalf("NewEvaluator: %v", err)
	}
	return e
}

func TestNewEvaluatorConfig(t *testing.T) {
	if _, err := NewEvaluator(nil, cMajorSet(), Weights{}); !errors.Is(err, ErrConfig) {
		t.Fatalf("empty targets error = %v, want ErrConfig", err)
	}
	if _, err := NewEvaluator([]float64{36}, theory.KeyChordSet{}, Weights{}); !errors.Is(err, ErrConfig) {
		t.Fatalf("empty chord set error = %v, want ErrConfig", err)
	}
}

func TestFitnessSingleChord(t *testing.T) {
	e := mustEvaluator(t, []float64{36})

	// C3 major against a target of exactly C3: tonic 5*10, mediant
	// 10*(10-4), dominant 5*(10-7), plus the diatonic bonus.
	c := genotype.Individual{theory.NewChord(theory.ShapeMajor, theory.NoteAt(3, 0))}
	if got := e.Fitness(c); math.Abs(got-225) > 1e-9 {
		t.Fatalf("C major fitness = %v, want 225", got)
	}

	// C minor scores its own proximity but loses the diatonic bonus.
	cm := genotype.Individual{theory.NewChord(theory.ShapeMinor, theory.NoteAt(3, 0))}
	if got := e.Fitness(cm); math.Abs(got-35) > 1e-9 {
		t.Fatalf("C minor fitness = %v, want 35", got)
	}
}

func TestFitnessRestSlot(t *testing.T) {
	e := mustEvaluator(t, []float64{36})
	rest := genotype.Individual{theory.RestChord()}
	if got := e.Fitness(rest); math.Abs(got-(-100)) > 1e-9 {
		t.Fatalf("rest fitness = %v, want -100 (no similarity, non-member)", got)
	}
}

func TestFitnessRepetition(t *testing.T) {
	chord := theory.NewChord(theory.ShapeMajor, theory.NoteAt(3, 0))

	pair := genotype.Individual{chord, chord}
	e2 := mustEvaluator(t, []float64{36, 36})
	// Two slots of the 225-point chord plus the pair reward.
	if got := e2.Fitness(pair); math.Abs(got-550) > 1e-9 {
		t.Fatalf("pair fitness = %v, want 550", got)
	}

	triple := genotype.Individual{chord, chord, chord}
	e3 := mustEvaluator(t, []float64{36, 36, 36})
	// The third repeat cancels the pair reward with the run penalty.
	if got := e3.Fitness(triple); math.Abs(got-675) > 1e-9 {
		t.Fatalf("triple fitness = %v, want 675", got)
	}
}

func TestFitnessDeterministic(t *testing.T) {
	e := mustEvaluator(t, []float64{36, 40, 43, 36})
	individual := genotype.Individual{
		theory.NewChord(theory.ShapeMajor, theory.NoteAt(3, 0)),
		theory.RestChord(),
		theory.NewChord(theory.ShapeSus4, theory.NoteAt(3, 7)),
		theory.NewChord(theory.ShapeMinor, theory.NoteAt(3, 9)),
	}
	first := e.Fitness(individual)
	for i := 0; i < 10; i++ {
		if got := e.Fitness(individual); got != first {
			t.Fatalf("fitness changed between calls: %v vs %v", got, first)
		}
	}
}
