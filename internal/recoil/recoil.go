// Package recoil produces the per-frame recoil perturbation.
package recoil

import (
	"math/rand"
	"time"

	"github.com/verte-zerg/tuiaim/internal/aim"
	"github.com/verte-zerg/tuiaim/internal/model"
)

// DefaultShake amplifies both recoil axes.
const DefaultShake = 2.0

// Source supplies random draws. *rand.Rand satisfies it.
type Source interface {
	Float64() float64
	Intn(n int) int
}

// Generator produces randomized recoil kicks.
type Generator struct {
	rnd   Source
	shake float64
}

// NewSource returns a Source seeded with seed, or with the current time when
// seed is zero.
func NewSource(seed int64) Source {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

// New returns a Generator drawing from rnd.
func New(rnd Source, shake float64) *Generator {
	return &Generator{rnd: rnd, shake: shake}
}

// Kick draws one frame of recoil for the given level.
func (g *Generator) Kick(p model.LevelParameters) aim.Vec {
	horizontal := uniform(g.rnd, p.RecoilHorizontalLow, p.RecoilHorizontalHigh)
	return aim.Vec{
		X: horizontal * g.shake,
		Y: p.RecoilVertical * g.shake,
	}
}

// Source returns the generator's random source.
func (g *Generator) Source() Source {
	return g.rnd
}

func uniform(rnd Source, lo, hi float64) float64 {
	return lo + (hi-lo)*rnd.Float64()
}
