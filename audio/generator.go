package audio

import (
	"math"
	"time"

	"github.com/gopxl/beep"
)

// chirpAttack is the fraction of the chirp spent ramping up
const chirpAttack = 0.1

// ChirpGenerator is a short sine sweeping linearly from one pitch to another
// under a linear attack/release envelope
type ChirpGenerator struct {
	sr       beep.SampleRate
	from, to float64
	total    int
	pos      int
	phase    float64
}

// NewChirpGenerator creates a chirp lasting d
func NewChirpGenerator(sr beep.SampleRate, from, to float64, d time.Duration) *ChirpGenerator {
	return &ChirpGenerator{
		sr:    sr,
		from:  from,
		to:    to,
		total: max(sr.N(d), 1),
	}
}

// Len is the chirp length in samples
func (g *ChirpGenerator) Len() int {
	return g.total
}

func (g *ChirpGenerator) Stream(samples [][2]float64) (n int, ok bool) {
	if g.pos >= g.total {
		return 0, false
	}
	for i := range samples {
		if g.pos >= g.total {
			return i, true
		}
		p := float64(g.pos) / float64(g.total)
		freq := g.from + (g.to-g.from)*p

		g.phase += 2 * math.Pi * freq / float64(g.sr)
		if g.phase > 2*math.Pi {
			g.phase -= 2 * math.Pi
		}

		sample := 0.3 * chirpEnvelope(p) * math.Sin(g.phase)
		samples[i][0] = sample
		samples[i][1] = sample
		g.pos++
	}
	return len(samples), true
}

func (g *ChirpGenerator) Err() error {
	return nil
}

// chirpEnvelope rises linearly over the attack, then falls linearly to zero
func chirpEnvelope(p float64) float64 {
	if p < chirpAttack {
		return p / chirpAttack
	}
	return math.Max(0, (1-p)/(1-chirpAttack))
}
