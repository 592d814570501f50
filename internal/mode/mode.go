// Package mode owns which lighting behavior is active and routes each control
// loop tick to it.
package mode

import (
	"time"

	"github.com/sweeney/shelf-lights/internal/light"
	"github.com/sweeney/shelf-lights/internal/logic"
	"github.com/sweeney/shelf-lights/internal/remote"
)

// Kind identifies a lighting mode.
type Kind string

const (
	Proximity  Kind = "PROXIMITY"
	RandomFade Kind = "RANDOM_FADE"
	CrossFade  Kind = "CROSS_FADE"
	ManualPick Kind = "MANUAL_PICK"
)

// kindForCode maps mode-select buttons to modes.
func kindForCode(c remote.Code) (Kind, bool) {
	switch c {
	case remote.Power:
		return Proximity, true
	case remote.A:
		return RandomFade, true
	case remote.B:
		return CrossFade, true
	case remote.C:
		return ManualPick, true
	}
	return "", false
}

// EventType represents a published lighting event.
type EventType string

const (
	EventModeChange EventType = "MODE_CHANGE"
)

// Event is a lighting event for telemetry: a mode change or a range transition.
type Event struct {
	Timestamp time.Time
	Type      EventType
	Mode      Kind
	Range     logic.State
	Distance  int
	Target    *light.Color // fade target of a range transition; nil when none
}

// RangeEvent converts a proximity transition into a lighting event.
func RangeEvent(e logic.Event, state logic.State) Event {
	return Event{
		Timestamp: e.Timestamp,
		Type:      EventType(e.Type),
		Mode:      Proximity,
		Range:     state,
		Distance:  e.Distance,
	}
}

// EventCounts tracks the number of each event type since startup.
type EventCounts struct {
	ModeChanges int
	Medium      int
	Close       int
	Exit        int
	Dim         int
}

func (c *EventCounts) add(e Event) {
	switch e.Type {
	case EventModeChange:
		c.ModeChanges++
	case EventType(logic.EventMedium):
		c.Medium++
	case EventType(logic.EventClose):
		c.Close++
	case EventType(logic.EventExit):
		c.Exit++
	case EventType(logic.EventDim):
		c.Dim++
	}
}

// Input is everything the dispatcher consumes on one tick.
type Input struct {
	Time     time.Time
	Distance int         // millimeters; repeats the previous reading when nothing new arrived
	Code     remote.Code // remote.None when no button was pressed
}
