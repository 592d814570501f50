// Package logic contains the proximity hysteresis state machine that decides
// when the shelves brighten or dim.
// This package has NO external dependencies (no serial, GPIO, MQTT, or time.Sleep).
// Time is always injectable via time.Time parameters.
package logic

import "time"

// Distance thresholds in millimeters.
const (
	// InvalidDistance and below are readings the sensor cannot resolve.
	InvalidDistance = 30
	CloseRange      = 850
	MediumRange     = 1000
)

// Timing and brightness used by every range transition.
const (
	DimDelay     = 500 * time.Millisecond
	FadeDuration = 2 * time.Second

	MediumLevel uint8 = 30
	CloseLevel  uint8 = 255
	OffLevel    uint8 = 0
)

// State is the range band the subject is in.
type State string

const (
	StateOutOfRange State = "OUT_OF_RANGE"
	StateMedium     State = "MEDIUM"
	StateClose      State = "CLOSE"
)

// EventType represents a range transition.
type EventType string

const (
	EventMedium EventType = "RANGE_MEDIUM"
	EventClose  EventType = "RANGE_CLOSE"
	EventExit   EventType = "RANGE_EXIT"
	EventDim    EventType = "DIM"
)

// Event is a range transition produced by Proximity.Process.
type Event struct {
	Timestamp time.Time
	Type      EventType
	Distance  int
}

// Target returns the brightness the shelves should fade to for this event.
// EventExit only arms the dim timer, so ok is false.
func (e Event) Target() (level uint8, ok bool) {
	switch e.Type {
	case EventMedium:
		return MediumLevel, true
	case EventClose:
		return CloseLevel, true
	case EventDim:
		return OffLevel, true
	}
	return 0, false
}

// Reading is a single distance sample.
type Reading struct {
	Distance int // millimeters
	Time     time.Time
}

// HeartbeatData contains information for a heartbeat event.
type HeartbeatData struct {
	Timestamp time.Time
	Uptime    time.Duration
}
