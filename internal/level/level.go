// Package level derives per-level difficulty parameters.
package level

import (
	"errors"
	"fmt"

	"github.com/verte-zerg/tuiaim/internal/model"
)

// DefaultDiameter is the tolerance radius of the first level.
const DefaultDiameter = 12.0

// Difficulty endpoints. Each parameter moves linearly from its first-level
// value to its last-level value.
const (
	finalTolerance = 2.0

	recoilVerticalStart = -0.3
	recoilVerticalSpan  = 2.2

	recoilHorizontalStart = -0.1
	recoilHorizontalSpan  = 0.9

	dwellStart = 2.0
	dwellSpan  = 3.0
)

var (
	// ErrInvalidLevel reports a level index or level count outside the usable range.
	ErrInvalidLevel = errors.New("invalid level")
	// ErrInvalidDiameter reports a non-positive base diameter.
	ErrInvalidDiameter = errors.New("invalid base diameter")
)

// Params computes the parameters for a 1-based level index out of total levels.
// A single-level run uses the first-level values.
func Params(index, total int, baseDiameter float64) (model.LevelParameters, error) {
	if total < 1 {
		return model.LevelParameters{}, fmt.Errorf("%w: total levels %d must be >= 1", ErrInvalidLevel, total)
	}
	if index < 1 || index > total {
		return model.LevelParameters{}, fmt.Errorf("%w: level %d outside 1..%d", ErrInvalidLevel, index, total)
	}
	if baseDiameter <= 0 {
		return model.LevelParameters{}, fmt.Errorf("%w: %g", ErrInvalidDiameter, baseDiameter)
	}
	t := progress(index, total)
	horizontalLow := recoilHorizontalStart - recoilHorizontalSpan*t
	return model.LevelParameters{
		ToleranceRadius:      baseDiameter - (baseDiameter-finalTolerance)*t,
		RecoilVertical:       recoilVerticalStart - recoilVerticalSpan*t,
		RecoilHorizontalLow:  horizontalLow,
		RecoilHorizontalHigh: -horizontalLow,
		TargetDwellSeconds:   dwellStart + dwellSpan*t,
	}, nil
}

// progress maps index in [1, total] onto [0, 1].
func progress(index, total int) float64 {
	if total <= 1 {
		return 0
	}
	return float64(index-1) / float64(total-1)
}
