// Package poll implements the submit/poll/accumulate/terminate state
// machine shared by every search family. The engine owns the polling
// cadence, the result budget, and the decision of when a session is
// finished; the per-family differences (endpoints, record projection,
// whether rounds are retained) are injected as Bindings.
package poll

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/osintforge/intelx-mcp/intelx"
)

// DefaultInterval is the fixed delay between poll rounds. This is the
// engine's deliberate cadence; the rate gate inside the HTTP client spaces
// the calls themselves independently.
const DefaultInterval = time.Second

// Bindings parameterize one engine run with a family's operations.
type Bindings struct {
	// Submit starts the job and returns its handle. A submit failure is
	// fatal to the whole search; no session is created.
	Submit func(ctx context.Context) (intelx.Handle, error)
	// Poll fetches one round of results, asking for at most wanted records.
	Poll func(ctx context.Context, h intelx.Handle, wanted int) (intelx.Outcome, error)
	// Terminate releases the job upstream. Best effort: errors are logged
	// and swallowed, never surfaced as the search's own failure.
	Terminate func(ctx context.Context, h intelx.Handle) error
	// Normalize projects one round's raw records before accumulation.
	// Optional; raw records are accumulated as-is when nil.
	Normalize func(records []map[string]any) []map[string]any
	// KeepRounds retains every round's raw outcome on the result, for
	// families that need per-round metadata.
	KeepRounds bool
	// Interval overrides DefaultInterval between rounds.
	Interval time.Duration
	// Logger defaults to zap.NewNop().
	Logger *zap.Logger
}

// Cause records why a session finished.
type Cause int

const (
	// CauseComplete: the upstream reported it has no more records.
	CauseComplete Cause = iota
	// CauseExpired: the job handle was no longer valid upstream.
	CauseExpired
	// CauseBudget: the caller's result budget ran out while the job might
	// still have been producing; the engine terminated the job.
	CauseBudget
)

func (c Cause) String() string {
	switch c {
	case CauseComplete:
		return "complete"
	case CauseExpired:
		return "expired"
	case CauseBudget:
		return "budget"
	default:
		return "unknown"
	}
}

// Result is a finished session.
type Result struct {
	Handle      intelx.Handle
	Accumulated []map[string]any
	Rounds      []intelx.Outcome
	Cause       Cause
	RoundCount  int
}

// Run executes one session: submit, then poll until a terminal state or
// budget exhaustion. The budget decreases by the count of records each
// round delivers; when a round overshoots, accumulation is capped at the
// budget and the excess is discarded. A poll failure propagates immediately
// and discards everything gathered so far; the handle may be unrecoverable
// at that point, so no terminate is attempted either.
func Run(ctx context.Context, b Bindings, budget int) (*Result, error) {
	interval := b.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	logger := b.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	handle, err := b.Submit(ctx)
	if err != nil {
		return nil, err
	}

	res := &Result{Handle: handle}
	remaining := budget

	if remaining <= 0 {
		res.Cause = CauseBudget
		terminate(ctx, b, handle, logger)
		return res, nil
	}

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(interval):
		}

		out, err := b.Poll(ctx, handle, remaining)
		if err != nil {
			return nil, err
		}
		res.RoundCount++
		if b.KeepRounds {
			res.Rounds = append(res.Rounds, out)
		}

		if len(out.Records) > 0 {
			records := out.Records
			if b.Normalize != nil {
				records = b.Normalize(records)
			}
			if len(records) > remaining {
				records = records[:remaining]
			}
			res.Accumulated = append(res.Accumulated, records...)
			remaining -= len(out.Records)
		}

		// a still-computing job polls again; everything else decides
		if out.State == intelx.StateContinue && len(out.Records) == 0 {
			continue
		}

		switch {
		case out.State == intelx.StateComplete:
			res.Cause = CauseComplete
		case out.State == intelx.StateExpired:
			res.Cause = CauseExpired
		case remaining <= 0:
			res.Cause = CauseBudget
		default:
			continue
		}

		// the upstream already closed the job on complete/expired; only a
		// budget cut leaves it running
		if res.Cause == CauseBudget {
			terminate(ctx, b, handle, logger)
		}

		logger.Debug("session finished",
			zap.String("handle", handle.ID),
			zap.String("cause", res.Cause.String()),
			zap.Int("records", len(res.Accumulated)),
			zap.Int("rounds", res.RoundCount),
		)
		return res, nil
	}
}

func terminate(ctx context.Context, b Bindings, h intelx.Handle, logger *zap.Logger) {
	if b.Terminate == nil {
		return
	}
	if err := b.Terminate(ctx, h); err != nil {
		logger.Warn("terminate failed", zap.String("handle", h.ID), zap.Error(err))
	}
}
