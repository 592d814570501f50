// Package mqtt publishes lighting and lifecycle events, with a fake for tests.
package mqtt

import (
	"encoding/json"
	"time"

	"github.com/sweeney/shelf-lights/internal/mode"
)

// Topic is the MQTT topic for lighting events.
const Topic = "home/shelf/lights/events"

// TopicSystem is the MQTT topic for system lifecycle events.
const TopicSystem = "home/shelf/lights/system"

// Publisher publishes events to MQTT.
type Publisher interface {
	// Publish sends a lighting event. A failure is logged by the caller,
	// never fatal.
	Publish(event mode.Event) error

	// PublishSystem sends a system lifecycle event.
	PublishSystem(event SystemEvent) error

	// Close disconnects from the broker.
	Close() error
}

// ConnectionStatus reports whether the MQTT connection is active.
type ConnectionStatus interface {
	IsConnected() bool
}

// SystemEvent is a lifecycle event: STARTUP, HEARTBEAT or SHUTDOWN.
type SystemEvent struct {
	Timestamp  time.Time
	Event      string
	Reason     string // signal name, SHUTDOWN only
	RawPayload []byte // pre-formatted status snapshot; used verbatim when set
	Retained   bool
}

// Payload is the JSON envelope of a lighting event.
type Payload struct {
	Lights LightsPayload `json:"lights"`
}

// LightsPayload contains the lighting event details.
type LightsPayload struct {
	Timestamp string `json:"timestamp"`
	Event     string `json:"event"`
	Mode      string `json:"mode"`
	Range     string `json:"range,omitempty"`
	Distance  int    `json:"distance_mm,omitempty"`
	Color     string `json:"color,omitempty"`
}

// FormatPayload creates the JSON payload for a lighting event.
func FormatPayload(event mode.Event) ([]byte, error) {
	p := LightsPayload{
		Timestamp: event.Timestamp.UTC().Format(time.RFC3339),
		Event:     string(event.Type),
		Mode:      string(event.Mode),
		Range:     string(event.Range),
		Distance:  event.Distance,
	}
	if event.Target != nil {
		p.Color = event.Target.Hex()
	}
	return json.Marshal(Payload{Lights: p})
}

// SystemPayload is the fallback payload for system events that carry no
// status snapshot.
type SystemPayload struct {
	System SystemPayloadInner `json:"system"`
}

// SystemPayloadInner contains the system event details.
type SystemPayloadInner struct {
	Timestamp string `json:"timestamp"`
	Event     string `json:"event"`
	Reason    string `json:"reason,omitempty"`
}

// FormatSystemPayload creates the JSON payload for a system event.
// If event.RawPayload is set, it is returned directly.
func FormatSystemPayload(event SystemEvent) ([]byte, error) {
	if event.RawPayload != nil {
		return event.RawPayload, nil
	}
	return json.Marshal(SystemPayload{
		System: SystemPayloadInner{
			Timestamp: event.Timestamp.UTC().Format(time.RFC3339),
			Event:     event.Event,
			Reason:    event.Reason,
		},
	})
}
