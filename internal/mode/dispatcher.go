package mode

import (
	"log"
	"math/rand/v2"
	"time"

	"github.com/sweeney/shelf-lights/internal/light"
	"github.com/sweeney/shelf-lights/internal/logic"
	"github.com/sweeney/shelf-lights/internal/remote"
	"github.com/sweeney/shelf-lights/internal/store"
)

// proximityEntryFade is how long the proximity mode takes to dim on entry.
const proximityEntryFade = time.Second

// Dispatcher runs exactly one mode at a time. Only the working state of the
// active mode is non-nil; switching modes drops it and builds a fresh one.
type Dispatcher struct {
	matrix *light.Matrix
	store  store.Store
	rng    *rand.Rand
	sleep  func(time.Duration)

	kind      Kind
	proximity *logic.Proximity
	random    *randomFade
	cross     *crossFade
	manual    *manualPick

	fading bool
	counts EventCounts
}

// New creates a dispatcher in Proximity mode. sleep is only used for the
// manual-pick blink; rng drives the random fade.
func New(m *light.Matrix, st store.Store, rng *rand.Rand, sleep func(time.Duration)) *Dispatcher {
	d := &Dispatcher{
		matrix: m,
		store:  st,
		rng:    rng,
		sleep:  sleep,
	}
	d.enter(Proximity, time.Time{})
	return d
}

// Tick advances every fade, applies a mode-select code if one arrived, then
// runs the active mode. It returns the events that occurred on this tick.
func (d *Dispatcher) Tick(in Input) []Event {
	d.fading = d.matrix.AdvanceAll(in.Time)

	var events []Event
	code := in.Code
	if k, ok := kindForCode(code); ok {
		log.Printf("mode: start %s", k)
		d.enter(k, in.Time)
		events = append(events, Event{Timestamp: in.Time, Type: EventModeChange, Mode: k})
		code = remote.None
	} else if !code.Known() {
		code = remote.None
	}

	switch d.kind {
	case Proximity:
		events = append(events, d.runProximity(in)...)
	case RandomFade:
		d.random.run(d.matrix, d.rng)
	case CrossFade:
		d.cross.run(d.matrix, code, d.fading)
	case ManualPick:
		d.manual.run(d.matrix, d.store, code, in.Time, d.sleep)
	}

	for _, e := range events {
		d.counts.add(e)
	}
	return events
}

func (d *Dispatcher) enter(k Kind, now time.Time) {
	d.proximity = nil
	d.random = nil
	d.cross = nil
	d.manual = nil
	d.kind = k

	switch k {
	case Proximity:
		d.proximity = logic.NewProximity()
		d.matrix.FadeAllLevel(logic.OffLevel, proximityEntryFade)
	case RandomFade:
		d.random = newRandomFade(d.matrix)
	case CrossFade:
		d.cross = newCrossFade()
	case ManualPick:
		d.manual = newManualPick(d.matrix, d.store, now, d.sleep)
	}
}

func (d *Dispatcher) runProximity(in Input) []Event {
	transitions := d.proximity.Process(logic.Reading{Distance: in.Distance, Time: in.Time})
	if len(transitions) == 0 {
		return nil
	}

	events := make([]Event, 0, len(transitions))
	for _, t := range transitions {
		e := RangeEvent(t, d.proximity.State())
		if level, ok := t.Target(); ok {
			d.matrix.FadeAllLevel(level, logic.FadeDuration)
			c := light.Gray(level)
			e.Target = &c
		}
		log.Printf("proximity: %s at %dmm", t.Type, t.Distance)
		events = append(events, e)
	}
	return events
}

// Kind returns the active mode.
func (d *Dispatcher) Kind() Kind { return d.kind }

// Range returns the proximity band, or "" when another mode is active.
func (d *Dispatcher) Range() logic.State {
	if d.proximity == nil {
		return ""
	}
	return d.proximity.State()
}

// Fading reports whether any channel was still fading at the start of the last tick.
func (d *Dispatcher) Fading() bool { return d.fading }

// Counts returns a copy of the event counters.
func (d *Dispatcher) Counts() EventCounts { return d.counts }
