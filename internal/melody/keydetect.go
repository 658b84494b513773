package melody

import (
	"gonum.org/v1/gonum/stat"

	"harmonia/internal/theory"
)

// Krumhansl-Schmuckler key profiles: perceived stability of each scale
// degree relative to the tonic, from the probe-tone experiments.
var (
	majorProfile = [12]float64{6.35, 2.23, 3.48, 2.33, 4.38, 4.09, 2.52, 5.19, 2.39, 3.66, 2.29, 2.88}
	minorProfile = [12]float64{6.33, 2.68, 3.52, 5.38, 2.60, 3.53, 2.54, 4.75, 3.98, 2.69, 3.34, 3.17}
)

// DetectKey correlates the melody's duration-weighted pitch-class
// histogram against the major and minor profiles over all 12 tonics
// and returns the best match. Ties resolve to the lowest tonic, major
// before minor, so detection is deterministic.
func DetectKey(p Profile) (theory.Key, error) {
	var histogram [12]float64
	total := 0.0
	for _, spans := range p.Slots {
		for _, span := range spans {
			if span.Pitch.IsRest() || span.Ticks <= 0 {
				continue
			}
			histogram[span.Pitch.PitchClass()] += float64(span.Ticks)
			total += float64(span.Ticks)
		}
	}
	if total == 0 {
		return theory.Key{}, ErrEmptyMelody
	}

	best := theory.Key{}
	bestScore := 0.0
	found := false
	for tonic := 0; tonic < 12; tonic++ {
		var rotated [12]float64
		for pc := 0; pc < 12; pc++ {
			rotated[pc] = histogram[(tonic+pc)%12]
		}
		for _, mode := range []theory.Mode{theory.ModeMajor, theory.ModeMinor} {
			profile := majorProfile
			if mode == theory.ModeMinor {
				profile = minorProfile
			}
			score := stat.Correlation(rotated[:], profile[:], nil)
			if !found || score > bestScore {
				best = theory.Key{Tonic: tonic, Mode: mode}
				bestScore = score
				found = true
			}
		}
	}
	return best, nil
}
