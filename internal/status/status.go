// Package status provides a thread-safe view of the controller state for the
// HTTP page and the lifecycle events.
package status

import (
	"sync"
	"time"

	"github.com/sweeney/shelf-lights/internal/light"
	"github.com/sweeney/shelf-lights/internal/logic"
	"github.com/sweeney/shelf-lights/internal/mode"
)

// NetworkInfo contains network state as written by pi-helper.
type NetworkInfo struct {
	Type       string
	IP         string
	Status     string
	Gateway    string
	WifiStatus string
	SSID       string
}

// Config contains daemon configuration for display.
type Config struct {
	TickMs      int64
	HeartbeatMs int64
	Shelves     int
	Output      string
	Broker      string
	HTTPAddr    string
}

// Snapshot is a point-in-time view of daemon state.
// It is a value type, safe to use after the lock is released.
type Snapshot struct {
	Mode          mode.Kind
	Range         logic.State // empty outside proximity mode
	Fading        bool
	Colors        []light.Color
	Counts        mode.EventCounts
	StartTime     time.Time
	Now           time.Time
	MQTTConnected bool
	Network       *NetworkInfo
	Config        Config
}

// Uptime returns the duration since the daemon started.
func (s Snapshot) Uptime() time.Duration {
	return s.Now.Sub(s.StartTime)
}

// Tracker holds mutable daemon state behind an RWMutex.
type Tracker struct {
	mu   sync.RWMutex
	snap Snapshot
}

// NewTracker creates a Tracker with the given start time and config.
func NewTracker(startTime time.Time, cfg Config) *Tracker {
	return &Tracker{
		snap: Snapshot{
			StartTime: startTime,
			Config:    cfg,
		},
	}
}

// Source is the dispatcher state the tracker records.
type Source interface {
	Kind() mode.Kind
	Range() logic.State
	Fading() bool
	Counts() mode.EventCounts
}

// Update records the dispatcher state and shelf colors. Called from runLoop
// on every tick.
func (t *Tracker) Update(d Source, colors []light.Color) {
	t.mu.Lock()
	t.snap.Mode = d.Kind()
	t.snap.Range = d.Range()
	t.snap.Fading = d.Fading()
	t.snap.Counts = d.Counts()
	t.snap.Colors = append(t.snap.Colors[:0:0], colors...)
	t.mu.Unlock()
}

// SetMQTTConnected sets the MQTT connection status.
func (t *Tracker) SetMQTTConnected(connected bool) {
	t.mu.Lock()
	t.snap.MQTTConnected = connected
	t.mu.Unlock()
}

// SetNetwork sets the network info.
func (t *Tracker) SetNetwork(info *NetworkInfo) {
	t.mu.Lock()
	t.snap.Network = info
	t.mu.Unlock()
}

// Snapshot returns a copy of the daemon state with Now set to the
// current time.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	s := t.snap
	t.mu.RUnlock()
	s.Now = time.Now()
	return s
}
