// Package model defines shared data structures.
package model

import "time"

// Config defines training settings.
type Config struct {
	Dir          string
	User         string
	Levels       int
	Diameter     float64
	Shake        float64
	FPS          int
	Seed         int64
	Window       bool
	ScoreBackend string
}

// LevelParameters holds the difficulty derived for one level.
type LevelParameters struct {
	ToleranceRadius      float64
	RecoilVertical       float64
	RecoilHorizontalLow  float64
	RecoilHorizontalHigh float64
	TargetDwellSeconds   float64
}

// ScoreRecord is one row of the high-score table.
type ScoreRecord struct {
	User string
	Best int
}

// RunRecord captures a finished training run.
type RunRecord struct {
	ID              string
	User            string
	StartedAt       time.Time
	EndedAt         time.Time
	Score           int
	LevelsCompleted int
	LevelsSkipped   int
	LastLevel       int
	TotalLevels     int
	Finished        bool
}

// HistoryConfig defines filters for run history output.
type HistoryConfig struct {
	User        string
	Last        int
	CurveWindow int
}
