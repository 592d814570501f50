package mode

import (
	"log"
	"time"

	"github.com/sweeney/shelf-lights/internal/light"
	"github.com/sweeney/shelf-lights/internal/remote"
)

// Cross fade tempo.
const (
	crossFadeSpeed    = 3000 * time.Millisecond
	crossFadeStep     = 100 * time.Millisecond
	crossFadeMinSpeed = 500 * time.Millisecond
)

// crossFade cycles the whole matrix red → green → blue.
type crossFade struct {
	colors light.Color
	index  int
	speed  time.Duration
}

func newCrossFade() *crossFade {
	return &crossFade{index: light.Red, speed: crossFadeSpeed}
}

func (c *crossFade) run(m *light.Matrix, code remote.Code, fading bool) {
	switch code {
	case remote.Down:
		c.speed += crossFadeStep
		m.ChangeGlobalSpeed(crossFadeStep)
		log.Printf("cross fade: slow down to %v", c.speed)
	case remote.Up:
		c.speed -= crossFadeStep
		if c.speed < crossFadeMinSpeed {
			c.speed = crossFadeMinSpeed
		}
		m.ChangeGlobalSpeed(-crossFadeStep)
		log.Printf("cross fade: speed up to %v", c.speed)
	}

	if fading {
		return
	}

	c.colors[c.index] = 0
	c.index = light.Wrap(c.index+1, light.Red, light.Blue)
	c.colors[c.index] = 255
	m.FadeAll(c.colors, c.speed)
}
