package theory

import "sort"

// KeyChordSet holds the diatonic triads of one key. Membership ignores
// voicing: a chord is in the set when its three pitch classes match a
// triad built on some scale degree with its diatonic third and fifth.
type KeyChordSet struct {
	key    Key
	triads map[[3]int]struct{}
}

func NewKeyChordSet(key Key) KeyChordSet {
	degrees := key.ScaleDegrees()
	triads := make(map[[3]int]struct{}, 7)
	for i := 0; i < 7; i++ {
		pcs := [3]int{degrees[i], degrees[(i+2)%7], degrees[(i+4)%7]}
		triads[sortedPitchClasses(pcs)] = struct{}{}
	}
	return KeyChordSet{key: key, triads: triads}
}

func (s KeyChordSet) Key() Key {
	return s.key
}

func (s KeyChordSet) Size() int {
	return len(s.triads)
}

// Contains reports whether the chord's pitch classes form one of the
// key's diatonic triads. Rest chords are never members.
func (s KeyChordSet) Contains(c Chord) bool {
	if c.IsRest() {
		return false
	}
	notes := c.Notes()
	pcs := [3]int{notes[0].PitchClass(), notes[1].PitchClass(), notes[2].PitchClass()}
	_, ok := s.triads[sortedPitchClasses(pcs)]
	return ok
}

func sortedPitchClasses(pcs [3]int) [3]int {
	sort.Ints(pcs[:])
	return pcs
}
