package theory

import "fmt"

// Mode distinguishes the two diatonic scale families the search works in.
type Mode int

const (
	ModeMajor Mode = iota
	ModeMinor
)

var (
	majorScale = [7]int{0, 2, 4, 5, 7, 9, 11}
	minorScale = [7]int{0, 2, 3, 5, 7, 8, 10}
)

func (m Mode) String() string {
	switch m {
	case ModeMajor:
		return "major"
	case ModeMinor:
		return "minor"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

func ModeFromName(name string) (Mode, error) {
	switch name {
	case "major":
		return ModeMajor, nil
	case "minor":
		return ModeMinor, nil
	default:
		return 0, fmt.Errorf("unknown mode: %s", name)
	}
}

// Key is a tonic pitch class (0-11, C=0) together with a mode.
type Key struct {
	Tonic int
	Mode  Mode
}

// ScaleDegrees returns the seven pitch classes of the key's scale,
// starting at the tonic.
func (k Key) ScaleDegrees() [7]int {
	intervals := majorScale
	if k.Mode == ModeMinor {
		intervals = minorScale
	}
	var degrees [7]int
	for i, step := range intervals {
		degrees[i] = (k.Tonic + step) % 12
	}
	return degrees
}

func (k Key) String() string {
	return fmt.Sprintf("%s %s", pitchClassNames[((k.Tonic%12)+12)%12], k.Mode)
}
