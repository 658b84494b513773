package theory

import "fmt"

// Shape is one of the closed set of chord voicings an individual may
// carry. Chords never hold arbitrary pitch triples: every sounding
// chord is a (root, shape) pair realized through the shape's interval
// template.
type Shape int

const (
	ShapeMajor Shape = iota
	ShapeMinor
	ShapeMajorFirstInversion
	ShapeMinorFirstInversion
	ShapeMajorSecondInversion
	ShapeMinorSecondInversion
	ShapeDiminished
	ShapeSus2
	ShapeSus4
	ShapeRest
)

var shapeNames = map[Shape]string{
	ShapeMajor:                "major",
	ShapeMinor:                "minor",
	ShapeMajorFirstInversion:  "major-1st-inv",
	ShapeMinorFirstInversion:  "minor-1st-inv",
	ShapeMajorSecondInversion: "major-2nd-inv",
	ShapeMinorSecondInversion: "minor-2nd-inv",
	ShapeDiminished:           "diminished",
	ShapeSus2:                 "sus2",
	ShapeSus4:                 "sus4",
	ShapeRest:                 "rest",
}

// Shapes returns every shape, sounding ones first and rest last. The
// order is fixed so seeded random construction is reproducible.
func Shapes() []Shape {
	return []Shape{
		ShapeMajor,
		ShapeMinor,
		ShapeMajorFirstInversion,
		ShapeMinorFirstInversion,
		ShapeMajorSecondInversion,
		ShapeMinorSecondInversion,
		ShapeDiminished,
		ShapeSus2,
		ShapeSus4,
		ShapeRest,
	}
}

func (s Shape) String() string {
	if name, ok := shapeNames[s]; ok {
		return name
	}
	return fmt.Sprintf("shape(%d)", int(s))
}

func ShapeFromName(name string) (Shape, error) {
	for shape, n := range shapeNames {
		if n == name {
			return shape, nil
		}
	}
	return 0, fmt.Errorf("unknown chord shape: %s", name)
}

// Intervals returns the three semitone offsets from the root that
// realize the shape. Inversions raise the displaced tone an octave.
func (s Shape) Intervals() [3]int {
	switch s {
	case ShapeMajor:
		return [3]int{0, 4, 7}
	case ShapeMinor:
		return [3]int{0, 3, 7}
	case ShapeMajorFirstInversion:
		return [3]int{12, 4, 7}
	case ShapeMinorFirstInversion:
		return [3]int{12, 3, 7}
	case ShapeMajorSecondInversion:
		return [3]int{12, 16, 7}
	case ShapeMinorSecondInversion:
		return [3]int{12, 15, 7}
	case ShapeDiminished:
		return [3]int{0, 3, 6}
	case ShapeSus2:
		return [3]int{0, 2, 7}
	case ShapeSus4:
		return [3]int{0, 5, 7}
	case ShapeRest:
		return [3]int{-1, -1, -1}
	default:
		panic(fmt.Sprintf("theory: no interval template for %v", s))
	}
}

// Chord is a root note with a shape. The zero-ish RestChord stands for
// a silent slot. Chords compare with == so operators can test equality
// without helper code.
type Chord struct {
	Shape Shape
	Root  Note
}

func NewChord(shape Shape, root Note) Chord {
	return Chord{Shape: shape, Root: root}
}

func RestChord() Chord {
	return Chord{Shape: ShapeRest, Root: RestNote}
}

func (c Chord) IsRest() bool {
	return c.Shape == ShapeRest
}

// Notes realizes the chord as its three pitches, ordered root, third,
// fifth (inversions keep that slot order with octave displacement).
func (c Chord) Notes() [3]Note {
	if c.IsRest() {
		return [3]Note{RestNote, RestNote, RestNote}
	}
	intervals := c.Shape.Intervals()
	var notes [3]Note
	for i, offset := range intervals {
		notes[i] = c.Root + Note(offset)
	}
	return notes
}

func (c Chord) String() string {
	if c.IsRest() {
		return "rest"
	}
	return fmt.Sprintf("%s %s", c.Root, c.Shape)
}
