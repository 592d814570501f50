package main

import (
	"encoding/json"
	"errors"
	"math/rand/v2"
	"os"
	"syscall"
	"testing"
	"time"

	"github.com/sweeney/shelf-lights/internal/light"
	"github.com/sweeney/shelf-lights/internal/mode"
	"github.com/sweeney/shelf-lights/internal/mqtt"
	"github.com/sweeney/shelf-lights/internal/output"
	"github.com/sweeney/shelf-lights/internal/remote"
	"github.com/sweeney/shelf-lights/internal/sensor"
	"github.com/sweeney/shelf-lights/internal/status"
	"github.com/sweeney/shelf-lights/internal/store"
)

var t0 = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

// TestEnvVarNames verifies the env var constants match what pi-helper writes
// to /run/pi-helper.env.
func TestEnvVarNames(t *testing.T) {
	want := map[string]string{
		"NETWORK_TYPE":        envNetworkType,
		"NETWORK_IP":          envNetworkIP,
		"NETWORK_STATUS":      envNetworkStatus,
		"NETWORK_GATEWAY":     envNetworkGateway,
		"NETWORK_WIFI_STATUS": envNetworkWifiStatus,
		"NETWORK_WIFI_SSID":   envNetworkWifiSSID,
	}
	for canonical, got := range want {
		if got != canonical {
			t.Errorf("env var constant: got %q, want %q", got, canonical)
		}
	}
}

func TestReadNetworkInfoAllSet(t *testing.T) {
	t.Setenv(envNetworkType, "wifi")
	t.Setenv(envNetworkIP, "192.168.1.100")
	t.Setenv(envNetworkStatus, "connected")
	t.Setenv(envNetworkGateway, "192.168.1.1")
	t.Setenv(envNetworkWifiStatus, "connected")
	t.Setenv(envNetworkWifiSSID, "MyNetwork")

	info := readNetworkInfo()
	if info == nil {
		t.Fatal("expected non-nil NetworkInfo")
	}
	want := status.NetworkInfo{
		Type:       "wifi",
		IP:         "192.168.1.100",
		Status:     "connected",
		Gateway:    "192.168.1.1",
		WifiStatus: "connected",
		SSID:       "MyNetwork",
	}
	if *info != want {
		t.Errorf("got %+v, want %+v", *info, want)
	}
}

func TestReadNetworkInfoNoneSet(t *testing.T) {
	t.Setenv(envNetworkStatus, "")
	if info := readNetworkInfo(); info != nil {
		t.Errorf("expected nil when NETWORK_STATUS is unset, got %+v", info)
	}
}

func TestReadNetworkInfoPartial(t *testing.T) {
	t.Setenv(envNetworkStatus, "connected")
	t.Setenv(envNetworkType, "")
	t.Setenv(envNetworkIP, "")

	info := readNetworkInfo()
	if info == nil {
		t.Fatal("expected non-nil NetworkInfo when NETWORK_STATUS is set")
	}
	if info.Status != "connected" || info.Type != "" || info.IP != "" {
		t.Errorf("unexpected info: %+v", info)
	}
}

// --- runLoop tests ---

// fakeClock returns a function that yields start, start+step, start+2*step, ...
// on successive calls. Only called from runLoop's goroutine.
func fakeClock(start time.Time, step time.Duration) func() time.Time {
	n := 0
	return func() time.Time {
		t := start.Add(time.Duration(n) * step)
		n++
		return t
	}
}

type rig struct {
	out     *light.FakeOutput
	matrix  *light.Matrix
	d       *mode.Dispatcher
	sensor  *sensor.FakeReader
	remote  *remote.FakeReader
	pub     *mqtt.FakePublisher
	tracker *status.Tracker
}

func newRig(distances []int, codes ...remote.Code) *rig {
	r := &rig{
		out:     light.NewFakeOutput(),
		sensor:  sensor.NewFakeReader(distances),
		remote:  remote.NewFakeReader(codes...),
		pub:     mqtt.NewFakePublisher(),
		tracker: status.NewTracker(t0, status.Config{Shelves: 4}),
	}
	r.matrix = light.NewMatrix(4, r.out)
	r.d = mode.New(r.matrix, store.NewMemStore(), rand.New(rand.NewPCG(1, 2)), func(time.Duration) {})
	return r
}

// run drives runLoop for nTicks ticks and then delivers signal.
func (r *rig) run(t *testing.T, heartbeat time.Duration, clock func() time.Time, nTicks int, signal os.Signal) {
	t.Helper()
	tick := make(chan time.Time)
	sig := make(chan os.Signal, 1)

	errCh := make(chan error, 1)
	go func() {
		errCh <- runLoop(r.d, r.matrix, r.out, r.sensor, r.remote, r.pub, r.pub, r.tracker, heartbeat, clock, tick, sig)
	}()

	for i := 0; i < nTicks; i++ {
		tick <- time.Time{}
	}
	sig <- signal

	if err := <-errCh; err != nil {
		t.Fatalf("runLoop returned error: %v", err)
	}
}

func eventTypes(events []mode.Event) []mode.EventType {
	var out []mode.EventType
	for _, e := range events {
		out = append(out, e.Type)
	}
	return out
}

func TestRunLoopNoEventsOutOfRange(t *testing.T) {
	r := newRig([]int{2500})
	r.run(t, 0, fakeClock(t0, 100*time.Millisecond), 5, syscall.SIGTERM)

	if len(r.pub.Events) != 0 {
		t.Errorf("expected no lighting events, got %v", eventTypes(r.pub.Events))
	}
	if got := r.pub.SystemEventNames(); len(got) != 1 || got[0] != "SHUTDOWN" {
		t.Errorf("expected only SHUTDOWN, got %v", got)
	}
}

func TestRunLoopProximityEvents(t *testing.T) {
	r := newRig([]int{2000, 900, 700, 1200})
	// Exit at +400ms arms the dim for +900ms.
	r.run(t, 0, fakeClock(t0, 100*time.Millisecond), 10, syscall.SIGTERM)

	want := []string{"RANGE_MEDIUM", "RANGE_CLOSE", "RANGE_EXIT", "DIM"}
	got := eventTypes(r.pub.Events)
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if string(got[i]) != want[i] {
			t.Errorf("event %d: expected %s, got %s", i, want[i], got[i])
		}
	}

	var p mqtt.Payload
	if err := json.Unmarshal(r.pub.Payloads[1], &p); err != nil {
		t.Fatalf("invalid payload: %v", err)
	}
	if p.Lights.Distance != 700 || p.Lights.Color != "#ffffff" {
		t.Errorf("close payload: %+v", p.Lights)
	}

	snap := r.tracker.Snapshot()
	if snap.Counts.Dim != 1 || snap.Range != "OUT_OF_RANGE" {
		t.Errorf("tracker: counts=%+v range=%q", snap.Counts, snap.Range)
	}
}

func TestRunLoopModeChange(t *testing.T) {
	r := newRig([]int{2500}, remote.None, remote.B)
	r.run(t, 0, fakeClock(t0, 100*time.Millisecond), 3, syscall.SIGTERM)

	if len(r.pub.Events) != 1 || r.pub.Events[0].Type != mode.EventModeChange || r.pub.Events[0].Mode != mode.CrossFade {
		t.Fatalf("expected MODE_CHANGE to CROSS_FADE, got %+v", r.pub.Events)
	}
	if snap := r.tracker.Snapshot(); snap.Mode != mode.CrossFade || !snap.Fading {
		t.Errorf("tracker: mode=%s fading=%v", snap.Mode, snap.Fading)
	}
}

func TestRunLoopFlushesEveryTickAndBlanksOnShutdown(t *testing.T) {
	r := newRig([]int{500})
	r.run(t, 0, fakeClock(t0, 500*time.Millisecond), 4, syscall.SIGTERM)

	if r.out.Flushes != 5 {
		t.Errorf("expected a flush per tick plus shutdown, got %d", r.out.Flushes)
	}
	for s := 0; s < 4; s++ {
		for c := 0; c < light.Colors; c++ {
			if v := r.out.Value(s, c); v != 0 {
				t.Errorf("output (%d,%d) = %d after shutdown, want 0", s, c, v)
			}
		}
	}
	// The lights were up before shutdown.
	lit := false
	for _, w := range r.out.Writes {
		if w.Value > 0 {
			lit = true
		}
	}
	if !lit {
		t.Error("expected the close fade to light the shelves")
	}
}

func TestRunLoopOutputErrorContinues(t *testing.T) {
	r := newRig([]int{900})
	r.out.FlushError = errors.New("i2c nack")
	r.run(t, 0, fakeClock(t0, 100*time.Millisecond), 3, syscall.SIGTERM)

	if len(r.pub.Events) != 1 {
		t.Errorf("expected the range event despite output errors, got %d", len(r.pub.Events))
	}
	if got := r.pub.SystemEventNames(); len(got) != 1 || got[0] != "SHUTDOWN" {
		t.Errorf("expected SHUTDOWN, got %v", got)
	}
}

func TestRunLoopPublishError(t *testing.T) {
	r := newRig([]int{900})
	r.pub.PublishError = errors.New("broker unavailable")
	r.run(t, 0, fakeClock(t0, 100*time.Millisecond), 3, syscall.SIGTERM)

	if len(r.pub.Events) != 0 {
		t.Errorf("expected 0 recorded events (publish failed), got %d", len(r.pub.Events))
	}
	if r.tracker.Snapshot().Counts.Medium != 1 {
		t.Error("the transition should still be counted")
	}
	if got := r.pub.SystemEventNames(); len(got) != 1 || got[0] != "SHUTDOWN" {
		t.Errorf("expected SHUTDOWN despite publish errors, got %v", got)
	}
}

func TestRunLoopHeartbeat(t *testing.T) {
	t.Setenv(envNetworkStatus, "connected")
	t.Setenv(envNetworkType, "wifi")
	t.Setenv(envNetworkIP, "192.168.1.42")
	t.Setenv(envNetworkWifiSSID, "HomeNet")

	r := newRig([]int{900})
	// Clock calls: t0 (start), then ticks at +5m, +10m, +15m, +20m.
	r.run(t, 15*time.Minute, fakeClock(t0, 5*time.Minute), 4, syscall.SIGTERM)

	var hb *mqtt.SystemEvent
	n := 0
	for i := range r.pub.SystemEvents {
		if r.pub.SystemEvents[i].Event == "HEARTBEAT" {
			hb = &r.pub.SystemEvents[i]
			n++
		}
	}
	if n != 1 {
		t.Fatalf("expected 1 HEARTBEAT, got %d", n)
	}
	if !hb.Timestamp.Equal(t0.Add(15 * time.Minute)) {
		t.Errorf("heartbeat timestamp: got %v", hb.Timestamp)
	}

	var sj status.StatusJSON
	if err := json.Unmarshal(hb.RawPayload, &sj); err != nil {
		t.Fatalf("invalid heartbeat payload: %v", err)
	}
	if sj.Status.Event != "HEARTBEAT" || sj.Status.Mode != "PROXIMITY" {
		t.Errorf("heartbeat status: event=%q mode=%q", sj.Status.Event, sj.Status.Mode)
	}
	if sj.Status.Counts.Medium != 1 {
		t.Errorf("heartbeat counts: got %+v", sj.Status.Counts)
	}
	if sj.Status.Network == nil || sj.Status.Network.SSID != "HomeNet" {
		t.Errorf("heartbeat network: got %+v", sj.Status.Network)
	}
	if len(sj.Status.Shelves) != 4 {
		t.Errorf("expected 4 shelf colors, got %v", sj.Status.Shelves)
	}
}

func TestRunLoopShutdownSignals(t *testing.T) {
	tests := []struct {
		sig  os.Signal
		want string
	}{
		{syscall.SIGINT, "SIGINT"},
		{syscall.SIGTERM, "SIGTERM"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			r := newRig([]int{2500})
			r.pub.Connected = true
			r.run(t, 0, fakeClock(t0, 100*time.Millisecond), 2, tt.sig)

			if len(r.pub.SystemEvents) != 1 {
				t.Fatalf("expected 1 system event, got %d", len(r.pub.SystemEvents))
			}
			se := r.pub.SystemEvents[0]
			if se.Event != "SHUTDOWN" || se.Reason != tt.want || !se.Retained {
				t.Errorf("unexpected shutdown event: %+v", se)
			}

			var sj status.StatusJSON
			if err := json.Unmarshal(se.RawPayload, &sj); err != nil {
				t.Fatalf("invalid shutdown payload: %v", err)
			}
			if sj.Status.Reason != tt.want || !sj.Status.MQTT.Connected {
				t.Errorf("shutdown status: %+v", sj.Status)
			}
		})
	}
}

func TestStartup(t *testing.T) {
	out := light.NewFakeOutput()
	m := light.NewMatrix(2, out)
	m.SetAll(light.Color{10, 20, 30})

	var sleeps []time.Duration
	startup(m, out, func(d time.Duration) { sleeps = append(sleeps, d) })

	if len(sleeps) != 2 || sleeps[0] != startupPause || sleeps[1] != startupPause {
		t.Errorf("expected two %v pauses, got %v", startupPause, sleeps)
	}
	if out.Flushes != 1 {
		t.Errorf("expected one flush, got %d", out.Flushes)
	}
	for s, c := range m.Colors() {
		if c != (light.Color{}) {
			t.Errorf("shelf %d: expected off, got %v", s, c)
		}
	}
}

func TestOpenOutput(t *testing.T) {
	dev, err := openOutput(config{output: output.KindNone})
	if err != nil {
		t.Fatalf("none: %v", err)
	}
	if _, ok := dev.(output.Discard); !ok {
		t.Errorf("none: expected Discard, got %T", dev)
	}

	if _, err := openOutput(config{output: "dmx"}); err == nil {
		t.Error("expected error for unknown output")
	}
}

func TestOpenPinDisabled(t *testing.T) {
	p, err := openPin(-1, true)
	if err != nil || p != nil {
		t.Errorf("expected nil pin for -1, got %v, %v", p, err)
	}
}

func TestFormatState(t *testing.T) {
	got := formatState(store.State{Select: 1, Colors: [3]uint8{40, 20, 255}})
	want := "select: G, color: 40, 20, 255 (#2814ff)"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestPrintStateLoadError(t *testing.T) {
	st := store.NewMemStore()
	st.LoadError = errors.New("permission denied")
	if err := printState(st); err == nil {
		t.Error("expected load error")
	}
	if err := printState(store.NewMemStore()); err != nil {
		t.Errorf("no saved state should not be an error: %v", err)
	}
}
