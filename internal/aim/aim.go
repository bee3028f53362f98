// Package aim integrates pointer motion and recoil into an aim position.
package aim

import "math"

// Vec is a 2D vector in field pixels.
type Vec struct {
	X float64
	Y float64
}

// Add returns v+o.
func (v Vec) Add(o Vec) Vec {
	return Vec{X: v.X + o.X, Y: v.Y + o.Y}
}

// Sub returns v-o.
func (v Vec) Sub(o Vec) Vec {
	return Vec{X: v.X - o.X, Y: v.Y - o.Y}
}

// Len returns the Euclidean norm.
func (v Vec) Len() float64 {
	return math.Hypot(v.X, v.Y)
}

// State is the per-attempt accumulator pair.
type State struct {
	Compensation Vec
	RecoilOffset Vec
}

// Integrator tracks the aim position of one level attempt relative to a fixed
// center point of a width x height field.
type Integrator struct {
	width  float64
	height float64
	center Vec
	state  State
}

// New returns an Integrator centered on the field.
func New(width, height float64) *Integrator {
	return &Integrator{
		width:  width,
		height: height,
		center: Vec{X: math.Floor(width / 2), Y: math.Floor(height / 2)},
	}
}

// Reset zeroes both accumulators.
func (in *Integrator) Reset() {
	in.state = State{}
}

// Compensate adds a raw pointer delta.
func (in *Integrator) Compensate(delta Vec) {
	in.state.Compensation = in.state.Compensation.Add(delta)
}

// AddRecoil adds one frame of recoil. The offset is unbounded.
func (in *Integrator) AddRecoil(kick Vec) {
	in.state.RecoilOffset = in.state.RecoilOffset.Add(kick)
}

// Center returns the fixed target point.
func (in *Integrator) Center() Vec {
	return in.center
}

// Raw returns the unclamped effective position.
func (in *Integrator) Raw() Vec {
	return in.center.Add(in.state.Compensation).Add(in.state.RecoilOffset)
}

// Draw returns the effective position clipped to the visible field.
func (in *Integrator) Draw() Vec {
	raw := in.Raw()
	return Vec{X: clampF(raw.X, 0, in.width), Y: clampF(raw.Y, 0, in.height)}
}

// Distance returns the distance of the unclamped position from the center.
func (in *Integrator) Distance() float64 {
	return in.Raw().Sub(in.center).Len()
}

// State returns a copy of the accumulators.
func (in *Integrator) State() State {
	return in.state
}

func clampF(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
