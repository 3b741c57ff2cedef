// Package pacing sizes the delay between outreach items. A fixed cadence is
// an easy fingerprint for the platform's abuse defenses, so both policies
// vary the delay per item; the policy is an injected value so tests can
// assert bounds without sleeping.
package pacing

import (
	"hash/fnv"
	"math/rand"
	"time"
)

// Policy returns the delay to apply before an item. The orchestrator skips
// the delay for the last item of a run.
type Policy interface {
	Delay(index int, name string) time.Duration
}

// None disables pacing. For tests.
type None struct{}

func (None) Delay(int, string) time.Duration { return 0 }

// NameHash derives a delay of Base plus (fnv(name) mod Spread) whole
// seconds. Deterministic per item name, varied across items.
type NameHash struct {
	Base   time.Duration
	Spread int // number of whole-second steps above Base
}

// DefaultNameHash matches the API strategy's historical 3-7s range.
func DefaultNameHash() NameHash {
	return NameHash{Base: 3 * time.Second, Spread: 5}
}

func (p NameHash) Delay(_ int, name string) time.Duration {
	if p.Spread <= 0 {
		return p.Base
	}
	h := fnv.New32a()
	h.Write([]byte(name))
	return p.Base + time.Duration(h.Sum32()%uint32(p.Spread))*time.Second
}

// Uniform draws a delay uniformly from [Min, Max).
type Uniform struct {
	Min time.Duration
	Max time.Duration
}

// DefaultUniform matches the UI strategy's historical 5-12s range.
func DefaultUniform() Uniform {
	return Uniform{Min: 5 * time.Second, Max: 12 * time.Second}
}

func (p Uniform) Delay(int, string) time.Duration {
	if p.Max <= p.Min {
		return p.Min
	}
	return p.Min + time.Duration(rand.Float64()*float64(p.Max-p.Min))
}
