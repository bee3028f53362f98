package recoil

import (
	"math"
	"testing"

	"github.com/verte-zerg/tuiaim/internal/model"
)

type fixedSource struct {
	values []float64
	next   int
}

func (s *fixedSource) Float64() float64 {
	v := s.values[s.next%len(s.values)]
	s.next++
	return v
}

func (s *fixedSource) Intn(n int) int {
	return 0
}

func TestKickUsesInjectedDraws(t *testing.T) {
	params := model.LevelParameters{
		RecoilVertical:       -0.5,
		RecoilHorizontalLow:  -0.4,
		RecoilHorizontalHigh: 0.4,
	}
	gen := New(&fixedSource{values: []float64{0, 0.5, 1}}, DefaultShake)

	want := []float64{-0.8, 0, 0.8}
	for i, w := range want {
		kick := gen.Kick(params)
		if math.Abs(kick.X-w) > 1e-9 {
			t.Fatalf("kick %d: expected x %v, got %v", i, w, kick.X)
		}
		if math.Abs(kick.Y-(-1.0)) > 1e-9 {
			t.Fatalf("kick %d: expected y -1, got %v", i, kick.Y)
		}
	}
}

func TestKickStaysWithinShakenRange(t *testing.T) {
	params := model.LevelParameters{
		RecoilVertical:       -2.5,
		RecoilHorizontalLow:  -1,
		RecoilHorizontalHigh: 1,
	}
	gen := New(NewSource(42), 3)
	for i := 0; i < 1000; i++ {
		kick := gen.Kick(params)
		if kick.X < -3 || kick.X > 3 {
			t.Fatalf("horizontal kick out of range: %v", kick.X)
		}
		if kick.Y != -7.5 {
			t.Fatalf("unexpected vertical kick: %v", kick.Y)
		}
	}
}

func TestSeededSourcesRepeat(t *testing.T) {
	a := NewSource(7)
	b := NewSource(7)
	for i := 0; i < 10; i++ {
		if a.Float64() != b.Float64() {
			t.Fatalf("seeded sources diverged at draw %d", i)
		}
	}
}
