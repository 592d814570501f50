package mode

import (
	"log"
	"math/rand/v2"
	"time"

	"github.com/sweeney/shelf-lights/internal/light"
)

// Random fade color and timing bounds.
const (
	randomFloor       = 100 // minimum brightness of the dominant channel
	randomMinDuration = 1000
	randomMaxDuration = 2000 // exclusive, milliseconds
)

// randomFade fades each shelf up to a random color and back to black,
// independently of the other shelves.
type randomFade struct {
	up       []bool
	duration []time.Duration
}

func newRandomFade(m *light.Matrix) *randomFade {
	m.AllOff()
	return &randomFade{
		up:       make([]bool, m.Shelves()),
		duration: make([]time.Duration, m.Shelves()),
	}
}

func (r *randomFade) run(m *light.Matrix, rng *rand.Rand) {
	for s := range r.up {
		if m.IsShelfFading(s) {
			continue
		}

		if r.up[s] {
			m.FadeShelf(s, light.Color{}, r.duration[s])
			r.up[s] = false
			continue
		}

		c := randomColor(rng)
		d := time.Duration(randomMinDuration+rng.IntN(randomMaxDuration-randomMinDuration)) * time.Millisecond
		m.FadeShelf(s, c, d)
		log.Printf("random fade: shelf %d to %s over %v", s, c, d)
		r.duration[s] = d
		r.up[s] = true
	}
}

// randomColor lights two channels picked at random (possibly the same one
// twice): the first at least randomFloor bright, the second anywhere in 0-255.
func randomColor(rng *rand.Rand) light.Color {
	var c light.Color
	c[rng.IntN(light.Colors)] = uint8(randomFloor + rng.IntN(256-randomFloor))
	c[rng.IntN(light.Colors)] = uint8(rng.IntN(256))
	return c
}
