// internal/game/events.go
package game

import "github.com/jason-s-yu/gostop/internal/card"

// IsSweep reports whether the table is empty.
func IsSweep(t Table) bool {
	return t.Count() == 0
}

// TurnEvents builds the tag list for a finished turn. A plain capture with no
// bomb or sweep is tagged single-match; a turn with nothing is tagged none.
func TurnEvents(bomb bool, quads int, sweep bool, single bool) []Event {
	var events []Event
	if bomb {
		events = append(events, EventBomb)
	}
	for i := 0; i < quads; i++ {
		events = append(events, EventQuadMatch)
	}
	if sweep {
		events = append(events, EventSweep)
	}
	if single && !bomb && !sweep {
		events = append(events, EventSingleMatch)
	}
	if len(events) == 0 {
		events = append(events, EventNone)
	}
	return events
}

// PenaltyUnits counts the junk-steal units an event list triggers: one per
// quad match, bomb or sweep.
func PenaltyUnits(events []Event) int {
	n := 0
	for _, e := range events {
		switch e {
		case EventQuadMatch, EventBomb, EventSweep:
			n++
		}
	}
	return n
}

// stealJunk moves up to units junk cards from each other seat to thief,
// taking each victim's most recent junk first. players must already be a
// private copy.
func stealJunk(players []PlayerState, thief, units int) []card.ID {
	var stolen []card.ID
	for i := range players {
		if i == thief {
			continue
		}
		for u := 0; u < units; u++ {
			junk := players[i].Captured.Junk
			if len(junk) == 0 {
				break
			}
			id := junk[len(junk)-1]
			players[i].Captured.Junk = junk[:len(junk)-1]
			players[thief].Captured.Junk = append(players[thief].Captured.Junk, id)
			stolen = append(stolen, id)
		}
	}
	return stolen
}

// headline picks the single event shown to players for a turn.
func headline(events []Event) Event {
	for _, e := range events {
		if e == EventSweep {
			return EventSweep
		}
	}
	if len(events) == 0 {
		return EventNone
	}
	return events[0]
}
