// Package score keeps the run score and the per-user best scores.
package score

import (
	"context"
	"log"
	"math"

	"github.com/verte-zerg/tuiaim/internal/model"
)

const (
	completionBase  = 100
	completionBonus = 100
)

// Persister loads and rewrites the whole user -> best score mapping.
type Persister interface {
	LoadScores(ctx context.Context) (map[string]int, error)
	SaveScores(ctx context.Context, scores map[string]int) error
}

// Ledger owns the current run score and the best-score table.
type Ledger struct {
	store   Persister
	logger  *log.Logger
	user    string
	current int
	best    map[string]int

	bestAtOpen int
}

// Open loads the best-score table and registers user. A load failure is
// logged and the table starts empty.
func Open(ctx context.Context, store Persister, user string, logger *log.Logger) *Ledger {
	if logger == nil {
		logger = log.Default()
	}
	l := &Ledger{
		store:  store,
		logger: logger,
		user:   user,
		best:   map[string]int{},
	}
	scores, err := store.LoadScores(ctx)
	if err != nil {
		logger.Printf("failed to load scores: %v", err)
	}
	for name, best := range scores {
		if best < 0 {
			best = 0
		}
		l.best[name] = best
	}
	if _, ok := l.best[user]; !ok {
		l.best[user] = 0
	}
	l.bestAtOpen = l.best[user]
	return l
}

// RecordCompletion adds the reward for reaching newLevel out of total levels
// and returns the new run score.
func (l *Ledger) RecordCompletion(newLevel, total int) int {
	if total < 1 {
		total = 1
	}
	bonus := int(math.Floor(completionBonus * float64(newLevel) / float64(total)))
	l.current += completionBase + bonus
	return l.current
}

// MaybeUpdateBest stores the run score as the user's best when it is higher
// and persists the whole table. It reports whether the best changed.
func (l *Ledger) MaybeUpdateBest(ctx context.Context) bool {
	if l.current <= l.best[l.user] {
		return false
	}
	l.best[l.user] = l.current
	if err := l.store.SaveScores(ctx, l.snapshot()); err != nil {
		l.logger.Printf("failed to save scores: %v", err)
	}
	return true
}

// TopN returns up to n records, best first.
func (l *Ledger) TopN(n int) []model.ScoreRecord {
	return Rank(l.best, n)
}

// Current returns the run score.
func (l *Ledger) Current() int {
	return l.current
}

// Best returns the user's best score.
func (l *Ledger) Best() int {
	return l.best[l.user]
}

// User returns the name scores are recorded under.
func (l *Ledger) User() string {
	return l.user
}

// NewRecord reports whether this run beat the best the user had when the
// ledger was opened.
func (l *Ledger) NewRecord() bool {
	return l.current > l.bestAtOpen
}

func (l *Ledger) snapshot() map[string]int {
	out := make(map[string]int, len(l.best))
	for k, v := range l.best {
		out[k] = v
	}
	return out
}
