package melody

import "errors"

// ErrEmptyMelody is returned when no slot contains a sounding note, so
// no fitness target can be derived.
var ErrEmptyMelody = errors.New("melody has no sounding notes")

// TransposeSemitones shifts slot targets two octaves below the melody,
// putting accompaniment roots under the tune.
const TransposeSemitones = -24

// Targets computes one pitch target per slot: the duration-weighted
// average of the spans sounding in the slot, transposed down. A slot
// with no sounding span borrows the next non-empty slot's target;
// trailing empty slots borrow backward from the last non-empty one.
func Targets(p Profile) ([]float64, error) {
	n := p.SlotCount()
	targets := make([]float64, n)
	filled := make([]bool, n)

	for i, spans := range p.Slots {
		weighted := 0.0
		ticks := 0
		for _, span := range spans {
			weighted += float64(span.Pitch) * float64(span.Ticks)
			ticks += span.Ticks
		}
		if ticks > 0 {
			targets[i] = weighted/float64(ticks) + TransposeSemitones
			filled[i] = true
		}
	}

	sounding := false
	for _, ok := range filled {
		if ok {
			sounding = true
			break
		}
	}
	if !sounding {
		return nil, ErrEmptyMelody
	}

	for i := n - 2; i >= 0; i-- {
		if !filled[i] && filled[i+1] {
			targets[i] = targets[i+1]
			filled[i] = true
		}
	}
	for i := 1; i < n; i++ {
		if !filled[i] {
			targets[i] = targets[i-1]
			filled[i] = true
		}
	}
	return targets, nil
}
