package mode

import (
	"errors"
	"log"
	"time"

	"github.com/sweeney/shelf-lights/internal/light"
	"github.com/sweeney/shelf-lights/internal/remote"
	"github.com/sweeney/shelf-lights/internal/store"
)

const (
	manualStep        = 20
	manualFade        = 100 * time.Millisecond
	manualRestoreFade = 500 * time.Millisecond
	blinkLevel        = 150
	blinkPause        = 400 * time.Millisecond
)

// manualPick lets the user mix a color channel by channel with the remote.
type manualPick struct {
	sel    int
	colors light.Color
}

func newManualPick(m *light.Matrix, st store.Store, now time.Time, sleep func(time.Duration)) *manualPick {
	p := &manualPick{}

	s, err := st.Load()
	switch {
	case err == nil:
		p.sel = int(s.Select)
		p.colors = s.Colors
		m.FadeAll(p.colors, manualRestoreFade)
	case errors.Is(err, store.ErrNoState):
		m.AllOff()
	default:
		log.Printf("manual pick: load color state: %v", err)
		m.AllOff()
	}

	p.blink(m, now, sleep)
	return p
}

// blink flashes the selected channel, then fades back to the mixed color.
func (p *manualPick) blink(m *light.Matrix, now time.Time, sleep func(time.Duration)) {
	var flash light.Color
	flash[p.sel] = blinkLevel
	m.SetAll(flash)
	sleep(blinkPause)
	// The pause is real time: move the fade clock past it so the restore
	// fade starts from here rather than jumping ahead.
	m.AnchorAll(now.Add(blinkPause))
	m.FadeAll(p.colors, manualRestoreFade)
}

func (p *manualPick) run(m *light.Matrix, st store.Store, code remote.Code, now time.Time, sleep func(time.Duration)) {
	v := int(p.colors[p.sel])

	switch code {
	case remote.Select:
		p.colors = light.Color{}
		v = 0
	case remote.Up:
		v += manualStep
	case remote.Down:
		v -= manualStep
	case remote.Right, remote.Left:
		if code == remote.Right {
			p.sel = light.Wrap(p.sel+1, light.Red, light.Blue)
		} else {
			p.sel = light.Wrap(p.sel-1, light.Red, light.Blue)
		}
		v = int(p.colors[p.sel])
		log.Printf("manual pick: select channel %d", p.sel)
		p.blink(m, now, sleep)
	default:
		return
	}

	p.colors[p.sel] = uint8(light.Clamp(v, 0, 255))
	m.FadeAll(p.colors, manualFade)
	log.Printf("manual pick: %s", p.colors)

	if err := st.Save(store.State{Select: uint8(p.sel), Colors: p.colors}); err != nil {
		log.Printf("manual pick: save color state: %v", err)
	}
}
