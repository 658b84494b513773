package theory

import "fmt"

// Note is a pitch in MIDI-style numbering: octave*12 + pitch class,
// so C5 is 60 and G5 is 67. RestNote marks silence.
type Note int

const RestNote Note = -1

var pitchClassNames = [12]string{
	"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B",
}

// NoteAt builds the note at the given octave and pitch class (0-11).
func NoteAt(octave, pitchClass int) Note {
	return Note(octave*12 + pitchClass)
}

func (n Note) PitchClass() int {
	if n < 0 {
		return -1
	}
	return int(n) % 12
}

func (n Note) Octave() int {
	if n < 0 {
		return -1
	}
	return int(n) / 12
}

func (n Note) IsRest() bool {
	return n < 0
}

func (n Note) String() string {
	if n.IsRest() {
		return "rest"
	}
	return fmt.Sprintf("%s%d", pitchClassNames[n.PitchClass()], n.Octave())
}
