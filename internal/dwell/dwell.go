// Package dwell tracks consecutive on-target time.
package dwell

// Tracker accumulates time while the aim is inside the tolerance radius with
// the trigger held. Any frame that breaks the condition drops the total to zero.
type Tracker struct {
	target      float64
	accumulated float64
	done        bool
}

// New returns a Tracker for the given target dwell in seconds.
func New(target float64) *Tracker {
	return &Tracker{target: target}
}

// Reset starts a new attempt with a new target.
func (t *Tracker) Reset(target float64) {
	t.target = target
	t.accumulated = 0
	t.done = false
}

// Step advances one frame of dt seconds and reports completion. It returns
// true exactly once per attempt.
func (t *Tracker) Step(distance, tolerance float64, pressed bool, dt float64) bool {
	if t.done {
		return false
	}
	if dt < 0 {
		dt = 0
	}
	if distance <= tolerance && pressed {
		t.accumulated += dt
	} else {
		t.accumulated = 0
	}
	if t.accumulated >= t.target {
		t.done = true
		return true
	}
	return false
}

// Accumulated returns the consecutive on-target seconds.
func (t *Tracker) Accumulated() float64 {
	return t.accumulated
}

// Target returns the dwell needed to complete the attempt.
func (t *Tracker) Target() float64 {
	return t.target
}
