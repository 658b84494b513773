package midifile

import (
	"fmt"
	"io"

	"gitlab.com/gomidi/midi/v2/smf"

	"harmonia/internal/melody"
	"harmonia/internal/theory"
)

// Melody is a parsed monophonic melody: its note and rest events in
// order, the file's tick resolution, and the source SMF so the writer
// can carry the original tracks into the arrangement.
type Melody struct {
	Events          []melody.Event
	TicksPerQuarter int
	Source          *smf.SMF
}

func ReadMelody(path string) (Melody, error) {
	s, err := smf.ReadFile(path)
	if err != nil {
		return Melody{}, fmt.Errorf("read midi file %s: %w", path, err)
	}
	m, err := melodyFromSMF(s)
	if err != nil {
		return Melody{}, fmt.Errorf("parse midi file %s: %w", path, err)
	}
	return m, nil
}

func ReadMelodyFrom(r io.Reader) (Melody, error) {
	s, err := smf.ReadFrom(r)
	if err != nil {
		return Melody{}, fmt.Errorf("read midi stream: %w", err)
	}
	return melodyFromSMF(s)
}

// melodyFromSMF walks the first track that carries note events. Time
// between a note's end and the next note's start becomes a rest event,
// so the timeline stays gapless.
func melodyFromSMF(s *smf.SMF) (Melody, error) {
	ticks, ok := s.TimeFormat.(smf.MetricTicks)
	if !ok {
		return Melody{}, fmt.Errorf("unsupported time format %v", s.TimeFormat)
	}
	resolution := int(ticks.Resolution())

	for _, track := range s.Tracks {
		events, sounding := eventsFromTrack(track)
		if !sounding {
			continue
		}
		return Melody{
			Events:          events,
			TicksPerQuarter: resolution,
			Source:          s,
		}, nil
	}
	return Melody{}, fmt.Errorf("no track with note events")
}

func eventsFromTrack(track smf.Track) ([]melody.Event, bool) {
	var events []melody.Event
	sounding := false
	var currentPitch theory.Note = melody.RestPitch

	for _, ev := range track {
		var channel, key, velocity uint8
		delta := int(ev.Delta)

		switch {
		case ev.Message.GetNoteStart(&channel, &key, &velocity):
			if delta > 0 {
				events = append(events, melody.Event{Pitch: currentPitch, Ticks: delta})
			}
			currentPitch = theory.Note(key)
			sounding = true
		case ev.Message.GetNoteEnd(&channel, &key):
			if delta > 0 {
				events = append(events, melody.Event{Pitch: currentPitch, Ticks: delta})
			}
			currentPitch = melody.RestPitch
		default:
			if delta > 0 {
				events = append(events, melody.Event{Pitch: currentPitch, Ticks: delta})
			}
		}
	}
	return events, sounding
}
