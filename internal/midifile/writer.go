package midifile

import (
	"fmt"
	"io"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"

	"harmonia/internal/genotype"
)

const (
	// DefaultVelocity matches the soft dynamic the accompaniment is
	// written at so it sits under the melody.
	DefaultVelocity = 50
	chordChannel    = 0
)

// WriteArrangement writes the source melody plus one generated chord
// track, one chord per quarter-note slot.
func WriteArrangement(path string, m Melody, chords genotype.Individual) error {
	s, err := arrangementSMF(m, chords)
	if err != nil {
		return err
	}
	if err := s.WriteFile(path); err != nil {
		return fmt.Errorf("write midi file %s: %w", path, err)
	}
	return nil
}

func WriteArrangementTo(w io.Writer, m Melody, chords genotype.Individual) error {
	s, err := arrangementSMF(m, chords)
	if err != nil {
		return err
	}
	if _, err := s.WriteTo(w); err != nil {
		return fmt.Errorf("write midi stream: %w", err)
	}
	return nil
}

func arrangementSMF(m Melody, chords genotype.Individual) (*smf.SMF, error) {
	if m.TicksPerQuarter <= 0 {
		return nil, fmt.Errorf("invalid ticks per quarter: %d", m.TicksPerQuarter)
	}

	out := smf.New()
	out.TimeFormat = smf.MetricTicks(m.TicksPerQuarter)
	if m.Source != nil {
		for _, track := range m.Source.Tracks {
			copied := make(smf.Track, len(track))
			copy(copied, track)
			if err := out.Add(copied); err != nil {
				return nil, fmt.Errorf("copy melody track: %w", err)
			}
		}
	}

	chordTrack, err := buildChordTrack(chords, m.TicksPerQuarter)
	if err != nil {
		return nil, err
	}
	if err := out.Add(chordTrack); err != nil {
		return nil, fmt.Errorf("add chord track: %w", err)
	}
	return out, nil
}

// buildChordTrack lays chords on a quarter-note grid. Rest chords emit
// nothing; their duration accumulates into the delta of the next
// sounding chord.
func buildChordTrack(chords genotype.Individual, ticksPerSlot int) (smf.Track, error) {
	var track smf.Track
	track.Add(0, smf.MetaTrackSequenceName("accompaniment"))

	restDelta := 0
	for slot, chord := range chords {
		if chord.IsRest() {
			restDelta += ticksPerSlot
			continue
		}

		notes := chord.Notes()
		var keys [3]uint8
		for i, note := range notes {
			if note < 0 || note > 127 {
				return nil, fmt.Errorf("slot %d: note %d outside midi range", slot, int(note))
			}
			keys[i] = uint8(note)
		}

		track.Add(uint32(restDelta), midi.NoteOn(chordChannel, keys[0], DefaultVelocity))
		track.Add(0, midi.NoteOn(chordChannel, keys[1], DefaultVelocity))
		track.Add(0, midi.NoteOn(chordChannel, keys[2], DefaultVelocity))
		track.Add(uint32(ticksPerSlot), midi.NoteOff(chordChannel, keys[0]))
		track.Add(0, midi.NoteOff(chordChannel, keys[1]))
		track.Add(0, midi.NoteOff(chordChannel, keys[2]))
		restDelta = 0
	}
	track.Close(0)
	return track, nil
}
