package melody

import "harmonia/internal/theory"

// RestPitch marks silence in a melody event stream.
const RestPitch theory.Note = theory.RestNote

// Event is one melody note or rest with its duration in ticks.
type Event struct {
	Pitch theory.Note
	Ticks int
}

// Span is the portion of a note that falls inside one slot.
type Span struct {
	Pitch theory.Note
	Ticks int
}

// Profile is a melody cut into fixed-duration slots. Each slot lists
// the sounding spans that overlap it; rests occupy time but leave no
// span behind.
type Profile struct {
	Slots        [][]Span
	TicksPerSlot int
}

// BuildProfile splits the event stream at slot boundaries. A note that
// crosses a boundary contributes a span to every slot it touches. A
// trailing partial slot is kept, so any sounding tail is profiled.
func BuildProfile(events []Event, ticksPerSlot int) Profile {
	if ticksPerSlot <= 0 {
		return Profile{TicksPerSlot: ticksPerSlot}
	}

	total := 0
	for _, ev := range events {
		if ev.Ticks > 0 {
			total += ev.Ticks
		}
	}
	slotCount := total / ticksPerSlot
	if total%ticksPerSlot != 0 {
		slotCount++
	}
	slots := make([][]Span, slotCount)

	position := 0
	for _, ev := range events {
		remaining := ev.Ticks
		for remaining > 0 {
			slot := position / ticksPerSlot
			boundary := (slot + 1) * ticksPerSlot
			chunk := remaining
			if position+chunk > boundary {
				chunk = boundary - position
			}
			if !ev.Pitch.IsRest() {
				slots[slot] = append(slots[slot], Span{Pitch: ev.Pitch, Ticks: chunk})
			}
			position += chunk
			remaining -= chunk
		}
	}
	return Profile{Slots: slots, TicksPerSlot: ticksPerSlot}
}

// SlotCount returns the number of slots, which is also the length of
// every individual evolved against this profile.
func (p Profile) SlotCount() int {
	return len(p.Slots)
}
