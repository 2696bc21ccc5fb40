// Package engine provides the turn loop and the chase played on top of it.
package engine

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"
)

// Engine drives a game forward one turn at a time.
type Engine struct {
	Turn     uint64        // Turns played so far
	MaxTurns uint64        // 0 = no limit
	Interval time.Duration // Pause between turns, 0 = as fast as possible

	// OnTurn plays one turn and reports whether the game goes on.
	OnTurn func(turn uint64) bool

	stopped atomic.Bool
}

// NewEngine creates an engine that stops after maxTurns.
func NewEngine(maxTurns uint64) *Engine {
	return &Engine{MaxTurns: maxTurns}
}

// Run plays turns until OnTurn returns false, MaxTurns is reached, Stop is
// called or ctx is done. It returns ctx.Err() only when cancelled.
func (e *Engine) Run(ctx context.Context) error {
	e.stopped.Store(false)
	slog.Debug("engine started", "turn", e.Turn, "max_turns", e.MaxTurns)

	var ticker *time.Ticker
	if e.Interval > 0 {
		ticker = time.NewTicker(e.Interval)
		defer ticker.Stop()
	}

	for !e.stopped.Load() {
		if e.MaxTurns > 0 && e.Turn >= e.MaxTurns {
			break
		}
		if err := ctx.Err(); err != nil {
			slog.Debug("engine cancelled", "turn", e.Turn)
			return err
		}

		e.Turn++
		if e.OnTurn != nil && !e.OnTurn(e.Turn) {
			break
		}

		if ticker != nil {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-ticker.C:
			}
		}
	}

	slog.Debug("engine stopped", "turn", e.Turn)
	return nil
}

// Stop ends Run after the current turn. Safe to call from another goroutine.
func (e *Engine) Stop() {
	e.stopped.Store(true)
}
