// Package trainer drives the level progression of a training run.
package trainer

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/verte-zerg/tuiaim/internal/aim"
	"github.com/verte-zerg/tuiaim/internal/asset"
	"github.com/verte-zerg/tuiaim/internal/dwell"
	"github.com/verte-zerg/tuiaim/internal/level"
	"github.com/verte-zerg/tuiaim/internal/model"
	"github.com/verte-zerg/tuiaim/internal/recoil"
	"github.com/verte-zerg/tuiaim/internal/score"
)

// Phase is the controller state.
type Phase int

const (
	PhaseWaitingForAssets Phase = iota
	PhasePlaying
	PhaseTrainingComplete
	PhaseQuit
)

func (p Phase) String() string {
	switch p {
	case PhaseWaitingForAssets:
		return "waiting"
	case PhasePlaying:
		return "playing"
	case PhaseTrainingComplete:
		return "complete"
	case PhaseQuit:
		return "quit"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// Event reports what a Step changed.
type Event int

const (
	EventNone Event = iota
	EventLevelComplete
	EventLevelSkipped
	EventTrainingComplete
	EventQuit
)

// TopScores is the size of the in-game high-score table; the
// training-complete summary shows the first SummaryScores of it.
const (
	TopScores     = 10
	SummaryScores = 5
)

// Settings configures a run.
type Settings struct {
	TotalLevels  int
	BaseDiameter float64
	Width        float64
	Height       float64
}

// Input is one frame of player input. Delta is the raw pointer motion since
// the previous frame; it is ignored unless Captured is set. A non-empty Pool
// replaces the image pool.
type Input struct {
	DT       float64
	Delta    aim.Vec
	Captured bool
	Pressed  bool
	Skip     bool
	Quit     bool
	Pool     []string
}

// Snapshot is everything a frontend renders for one frame.
type Snapshot struct {
	Phase       Phase
	Level       int
	TotalLevels int
	Params      model.LevelParameters
	Center      aim.Vec
	Aim         aim.Vec
	Offsets     aim.State
	Distance    float64
	OnTarget    bool
	Dwell       float64
	DwellTarget float64
	Score       int
	Best        int
	User        string
	Top         []model.ScoreRecord
	AssetPath   string
	Image       image.Image
	PoolSize    int
	NewRecord   bool
}

// Controller advances the level index through completions and skips.
type Controller struct {
	settings Settings
	ledger   *score.Ledger
	loader   asset.Loader
	pool     *asset.Pool
	recoil   *recoil.Generator
	logger   *log.Logger

	phase     Phase
	level     int
	params    model.LevelParameters
	aim       *aim.Integrator
	dwell     *dwell.Tracker
	onTarget  bool
	assetPath string
	image     image.Image

	completed int
	skipped   int
	finished  bool
}

// New validates settings and returns a controller positioned at level 1.
func New(settings Settings, ledger *score.Ledger, loader asset.Loader, pool *asset.Pool, gen *recoil.Generator, logger *log.Logger) (*Controller, error) {
	if settings.TotalLevels < 1 {
		return nil, fmt.Errorf("%w: total levels %d must be >= 1", level.ErrInvalidLevel, settings.TotalLevels)
	}
	if settings.BaseDiameter <= 0 {
		return nil, fmt.Errorf("%w: %g", level.ErrInvalidDiameter, settings.BaseDiameter)
	}
	if settings.Width <= 0 || settings.Height <= 0 {
		return nil, errors.New("field size must be positive")
	}
	if ledger == nil || gen == nil {
		return nil, errors.New("ledger and recoil generator are required")
	}
	if loader == nil {
		loader = asset.FileLoader{}
	}
	if pool == nil {
		pool = asset.NewPool(nil)
	}
	if logger == nil {
		logger = log.Default()
	}
	c := &Controller{
		settings: settings,
		ledger:   ledger,
		loader:   loader,
		pool:     pool,
		recoil:   gen,
		logger:   logger,
		aim:      aim.New(settings.Width, settings.Height),
		dwell:    dwell.New(0),
		level:    1,
	}
	c.enterLevel(context.Background())
	return c, nil
}

// Step advances the simulation by one frame.
func (c *Controller) Step(ctx context.Context, in Input) Event {
	if c.phase == PhaseQuit {
		return EventNone
	}
	if in.Quit {
		c.phase = PhaseQuit
		return EventQuit
	}
	if c.phase == PhaseTrainingComplete {
		return EventNone
	}
	if len(in.Pool) > 0 {
		c.pool.Replace(in.Pool)
		if c.phase == PhaseWaitingForAssets {
			c.startAttempt()
		}
	}

	switch c.phase {
	case PhaseWaitingForAssets:
		if in.Skip {
			return c.advance(ctx, EventLevelSkipped)
		}
	case PhasePlaying:
		if in.Skip {
			return c.advance(ctx, EventLevelSkipped)
		}
		if in.Captured {
			c.aim.Compensate(in.Delta)
		}
		c.aim.AddRecoil(c.recoil.Kick(c.params))
		distance := c.aim.Distance()
		c.onTarget = distance <= c.params.ToleranceRadius && in.Pressed
		if c.dwell.Step(distance, c.params.ToleranceRadius, in.Pressed, in.DT) {
			return c.complete(ctx)
		}
	}
	return EventNone
}

func (c *Controller) complete(ctx context.Context) Event {
	c.level++
	c.completed++
	c.ledger.RecordCompletion(c.level, c.settings.TotalLevels)
	c.ledger.MaybeUpdateBest(ctx)
	if ev := c.enterLevel(ctx); ev != EventNone {
		return ev
	}
	return EventLevelComplete
}

func (c *Controller) advance(ctx context.Context, ev Event) Event {
	c.level++
	c.skipped++
	if next := c.enterLevel(ctx); next != EventNone {
		return next
	}
	return ev
}

// enterLevel derives the parameters for the current level and starts an
// attempt, or finishes the run past the last level.
func (c *Controller) enterLevel(ctx context.Context) Event {
	if c.level > c.settings.TotalLevels {
		c.phase = PhaseTrainingComplete
		c.finished = true
		c.onTarget = false
		c.ledger.MaybeUpdateBest(ctx)
		return EventTrainingComplete
	}
	params, err := level.Params(c.level, c.settings.TotalLevels, c.settings.BaseDiameter)
	if err != nil {
		// Unreachable with settings accepted by New.
		c.logger.Printf("failed to derive level %d: %v", c.level, err)
		params, _ = level.Params(1, 1, level.DefaultDiameter)
	}
	c.params = params
	c.startAttempt()
	return EventNone
}

// startAttempt resets the per-attempt state and loads a reward image,
// evicting images that fail to load.
func (c *Controller) startAttempt() {
	c.aim.Reset()
	c.dwell.Reset(c.params.TargetDwellSeconds)
	c.onTarget = false
	c.assetPath = ""
	c.image = nil
	for !c.pool.Empty() {
		path := c.pool.Pick(c.recoil.Source())
		img, err := c.loader.Load(path)
		if err != nil {
			c.logger.Printf("%v", err)
			c.pool.Remove(path)
			continue
		}
		c.assetPath = path
		c.image = img
		c.phase = PhasePlaying
		return
	}
	c.phase = PhaseWaitingForAssets
}

// Phase returns the current state.
func (c *Controller) Phase() Phase {
	return c.phase
}

// Level returns the 1-based level index; it exceeds the total once training
// is complete.
func (c *Controller) Level() int {
	return c.level
}

// Snapshot returns the render state.
func (c *Controller) Snapshot() Snapshot {
	return Snapshot{
		Phase:       c.phase,
		Level:       c.level,
		TotalLevels: c.settings.TotalLevels,
		Params:      c.params,
		Center:      c.aim.Center(),
		Aim:         c.aim.Draw(),
		Offsets:     c.aim.State(),
		Distance:    c.aim.Distance(),
		OnTarget:    c.onTarget,
		Dwell:       c.dwell.Accumulated(),
		DwellTarget: c.dwell.Target(),
		Score:       c.ledger.Current(),
		Best:        c.ledger.Best(),
		User:        c.ledger.User(),
		Top:         c.ledger.TopN(TopScores),
		AssetPath:   c.assetPath,
		Image:       c.image,
		PoolSize:    c.pool.Len(),
		NewRecord:   c.ledger.NewRecord(),
	}
}

// SummaryTop returns the leading entries of the high-score table shown on
// the training-complete screen.
func (s Snapshot) SummaryTop() []model.ScoreRecord {
	if len(s.Top) > SummaryScores {
		return s.Top[:SummaryScores]
	}
	return s.Top
}

// Summary builds the history record for this run.
func (c *Controller) Summary(startedAt, endedAt time.Time) model.RunRecord {
	lastLevel := c.level
	if lastLevel > c.settings.TotalLevels {
		lastLevel = c.settings.TotalLevels
	}
	return model.RunRecord{
		ID:              uuid.NewString(),
		User:            c.ledger.User(),
		StartedAt:       startedAt,
		EndedAt:         endedAt,
		Score:           c.ledger.Current(),
		LevelsCompleted: c.completed,
		LevelsSkipped:   c.skipped,
		LastLevel:       lastLevel,
		TotalLevels:     c.settings.TotalLevels,
		Finished:        c.finished,
	}
}
