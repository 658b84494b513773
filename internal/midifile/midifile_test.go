package midifile

import (
	"bytes"
	"testing"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"

	"harmonia/internal/genotype"
	"harmonia/internal/melody"
	"harmonia/internal/theory"
)

// writeTestMelody builds a one-track SMF: C5 for a quarter, a quarter
// rest, then G5 for a quarter, at 384 ticks per quarter.
func writeTestMelody(t *testing.T) []byte {
	t.Helper()
	s := smf.New()
	s.TimeFormat = smf.MetricTicks(384)

	var track smf.Track
	track.Add(0, smf.MetaTrackSequenceName("melody"))
	track.Add(0, midi.NoteOn(0, 60, 90))
	track.Add(384, midi.NoteOff(0, 60))
	track.Add(384, midi.NoteOn(0, 67, 90))
	track.Add(384, midi.NoteOff(0, 67))
	track.Close(0)
	if err := s.Add(track); err != nil {
		t.Fatalf("add melody track: %v", err)
	}

	var buf bytes.Buffer
	if _, err := s.WriteTo(&buf); err != nil {
		t.Fatalf("write test melody: %v", err)
	}
	return buf.Bytes()
}

func TestReadMelodyFrom(t *testing.T) {
	m, err := ReadMelodyFrom(bytes.NewReader(writeTestMelody(t)))
	if err != nil {
		t.Fatalf("ReadMelodyFrom: %v", err)
	}
	if m.TicksPerQuarter != 384 {
		t.Fatalf("ticks per quarter = %d, want 384", m.TicksPerQuarter)
	}

	want := []melody.Event{
		{Pitch: 60, Ticks: 384},
		{Pitch: melody.RestPitch, Ticks: 384},
		{Pitch: 67, Ticks: 384},
	}
	if len(m.Events) != len(want) {
		t.Fatalf("events = %v, want %v", m.Events, want)
	}
	for i, ev := range want {
		if m.Events[i] != ev {
			t.Fatalf("event %d = %v, want %v", i, m.Events[i], ev)
		}
	}
}

func TestReadMelodyProfileRoundTrip(t *testing.T) {
	m, err := ReadMelodyFrom(bytes.NewReader(writeTestMelody(t)))
	if err != nil {
		t.Fatalf("ReadMelodyFrom: %v", err)
	}
	p := melody.BuildProfile(m.Events, m.TicksPerQuarter)
	if p.SlotCount() != 3 {
		t.Fatalf("slot count = %d, want 3", p.SlotCount())
	}
	if len(p.Slots[1]) != 0 {
		t.Fatalf("rest slot has spans: %v", p.Slots[1])
	}
}

func TestWriteArrangementRestDelta(t *testing.T) {
	m, err := ReadMelodyFrom(bytes.NewReader(writeTestMelody(t)))
	if err != nil {
		t.Fatalf("ReadMelodyFrom: %v", err)
	}

	chords := genotype.Individual{
		theory.NewChord(theory.ShapeMajor, theory.NoteAt(3, 0)),
		theory.RestChord(),
		theory.NewChord(theory.ShapeMajor, theory.NoteAt(3, 7)),
	}

	var buf bytes.Buffer
	if err := WriteArrangementTo(&buf, m, chords); err != nil {
		t.Fatalf("WriteArrangementTo: %v", err)
	}

	out, err := smf.ReadFrom(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("read arrangement back: %v", err)
	}
	if len(out.Tracks) != 2 {
		t.Fatalf("track count = %d, want melody plus chords", len(out.Tracks))
	}

	type noteStart struct {
		delta uint32
		key   uint8
	}
	var starts []noteStart
	for _, ev := range out.Tracks[len(out.Tracks)-1] {
		var channel, key, velocity uint8
		if ev.Message.GetNoteStart(&channel, &key, &velocity) {
			if velocity != DefaultVelocity {
				t.Fatalf("chord velocity = %d, want %d", velocity, DefaultVelocity)
			}
			starts = append(starts, noteStart{delta: ev.Delta, key: key})
		}
	}
	if len(starts) != 6 {
		t.Fatalf("note starts = %d, want 6 (two sounding chords)", len(starts))
	}
	if starts[0].delta != 0 || starts[0].key != 36 {
		t.Fatalf("first chord start = %+v, want delta 0 key 36", starts[0])
	}
	// The rest slot's 384 ticks become the second chord's onset delta,
	// measured from the first chord's note offs.
	if starts[3].delta != 384 || starts[3].key != 43 {
		t.Fatalf("second chord start = %+v, want delta 384 key 43", starts[3])
	}
}

func TestWriteArrangementRejectsOutOfRangeNotes(t *testing.T) {
	m := Melody{TicksPerQuarter: 384}
	chords := genotype.Individual{theory.NewChord(theory.ShapeMajor, theory.NoteAt(11, 0))}
	var buf bytes.Buffer
	if err := WriteArrangementTo(&buf, m, chords); err == nil {
		t.Fatalf("expected range error for notes above 127")
	}
}
