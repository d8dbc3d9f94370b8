package audio

import (
	"math"
	"time"

	"github.com/gopxl/beep"
)

// WaveType defines oscillator wave shapes
type WaveType int

const (
	WaveSine WaveType = iota
	WaveSquare
)

// oscillator generates a finite wave with a linear decay envelope
type oscillator struct {
	freq     float64
	phase    float64
	gain     float64
	duration int
	position int
	wave     WaveType
	rate     beep.SampleRate
}

// NewOscillator creates a decaying tone of the given duration
func NewOscillator(freq float64, duration time.Duration, wave WaveType, gain float64, rate beep.SampleRate) beep.Streamer {
	return &oscillator{
		freq:     freq,
		gain:     gain,
		duration: rate.N(duration),
		wave:     wave,
		rate:     rate,
	}
}

func (o *oscillator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if o.position >= o.duration {
			return i, i > 0
		}

		var val float64
		switch o.wave {
		case WaveSine:
			val = math.Sin(2 * math.Pi * o.phase)
		case WaveSquare:
			if o.phase < 0.5 {
				val = 1.0
			} else {
				val = -1.0
			}
		}

		envelope := 1 - float64(o.position)/float64(o.duration)
		val *= o.gain * envelope

		samples[i][0] = val
		samples[i][1] = val

		o.phase += o.freq / float64(o.rate)
		o.phase -= math.Floor(o.phase) // Keep in [0, 1)
		o.position++
	}
	return len(samples), true
}

func (o *oscillator) Err() error { return nil }

// NewThud builds the terminal velocity cue: a low sine with a short square click on top
// intensity scales loudness, capped so many simultaneous clamps do not clip
func NewThud(rate beep.SampleRate, intensity int) beep.Streamer {
	gain := math.Min(0.15+0.05*float64(intensity), 0.5)
	mixer := &beep.Mixer{}
	mixer.Add(
		NewOscillator(70, 120*time.Millisecond, WaveSine, gain, rate),
		NewOscillator(900, 8*time.Millisecond, WaveSquare, gain*0.3, rate),
	)
	// Mixer streams silence forever; bound it to the longest voice
	return beep.Take(rate.N(120*time.Millisecond), mixer)
}
