package logic

import "time"

// Proximity turns distance readings into range transitions.
// A fade is requested only on entering a band, and the lights dim only after
// the subject has been out of range for DimDelay.
type Proximity struct {
	medium bool
	close  bool

	// dimAt is the pending dim deadline; zero when unset.
	dimAt time.Time
}

// NewProximity creates a state machine in StateOutOfRange with no dim pending.
func NewProximity() *Proximity {
	return &Proximity{}
}

// Process takes a new reading and returns any transitions it caused.
// Readings at or below InvalidDistance are ignored entirely.
func (p *Proximity) Process(r Reading) []Event {
	d := r.Distance
	if d <= InvalidDistance {
		return nil
	}

	var events []Event
	emit := func(t EventType) {
		events = append(events, Event{Timestamp: r.Time, Type: t, Distance: d})
	}

	if d > MediumRange {
		if p.medium || p.close {
			p.medium = false
			p.close = false
			p.dimAt = r.Time.Add(DimDelay)
			// Zero means unset.
			if p.dimAt.IsZero() {
				p.dimAt = p.dimAt.Add(1)
			}
			emit(EventExit)
		} else if !p.dimAt.IsZero() && !r.Time.Before(p.dimAt) {
			p.dimAt = time.Time{}
			emit(EventDim)
		}
	}

	if d <= MediumRange && d > CloseRange && !p.medium && !p.close {
		p.medium = true
		p.dimAt = time.Time{}
		emit(EventMedium)
	}

	if d <= CloseRange && !p.close {
		// Medium stays set so leaving Close always counts as leaving range.
		p.close = true
		p.medium = true
		p.dimAt = time.Time{}
		emit(EventClose)
	}

	return events
}

// State returns the current range band.
func (p *Proximity) State() State {
	switch {
	case p.close:
		return StateClose
	case p.medium:
		return StateMedium
	}
	return StateOutOfRange
}

// DimPending returns the dim deadline, if one is armed.
func (p *Proximity) DimPending() (time.Time, bool) {
	return p.dimAt, !p.dimAt.IsZero()
}
