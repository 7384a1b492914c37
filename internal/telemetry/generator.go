package telemetry

import (
	"fmt"
	"math/rand"
	"sync"

	"codeberg.org/mutker/homectl/internal/device"
)

const jitterSpread = 0.2 // multiplicative jitter in [0.9, 1.1]

// Generator produces human-readable telemetry lines. It is stateless
// apart from its random source, so a fixed seed makes it fully
// deterministic.
type Generator struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func NewGenerator(seed int64) *Generator {
	return &Generator{
		rng: rand.New(rand.NewSource(seed)),
	}
}

// Line formats one simulated reading for an appliance. The power
// estimate is derived per kind from the level, with fallbackPower used
// for unknown kinds; on/off state is deliberately ignored, so off and
// offline devices keep reporting.
func (g *Generator) Line(name string, kind device.Kind, level, fallbackPower int) string {
	power := basePower(kind, level, fallbackPower) * g.jitter()

	switch kind {
	case device.KindAC:
		temp := float64(level) * g.jitter()
		return fmt.Sprintf("%s: power draw %.1fW, ambient temperature %.1f°C", name, power, temp)
	case device.KindFan:
		rpm := float64(level*200) * g.jitter()
		return fmt.Sprintf("%s: power draw %.1fW, rotor speed %.0f RPM", name, power, rpm)
	case device.KindSpeaker:
		noise := float64(level) / 2 * g.jitter()
		return fmt.Sprintf("%s: power draw %.1fW, noise level %.1f dB", name, power, noise)
	case device.KindUnknown:
		return fmt.Sprintf("%s: power draw %.1fW", name, power)
	}

	return fmt.Sprintf("%s: power draw %.1fW", name, power)
}

func basePower(kind device.Kind, level, fallbackPower int) float64 {
	switch kind {
	case device.KindAC:
		return float64(800 + (level-17)*50)
	case device.KindFan:
		return float64(20 + level*15)
	case device.KindSpeaker:
		return 30 + float64(level)*2.5
	case device.KindUnknown:
		return float64(fallbackPower)
	}

	return float64(fallbackPower)
}

func (g *Generator) jitter() float64 {
	g.mu.Lock()
	defer g.mu.Unlock()

	return 1 - jitterSpread/2 + g.rng.Float64()*jitterSpread
}
