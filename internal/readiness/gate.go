// Package readiness implements the process-wide state machine guarding access
// to not-yet-initialized inference engines.
package readiness

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/toller892/paraformer-api-server/internal/apperr"
)

type State int32

const (
	StateLoading State = iota
	StateReady
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Gate tracks whether the inference engines have finished loading. It starts
// in Loading and transitions exactly once to Ready or Failed; the transition
// is visible to all subsequent queries. Queries are wait-free and safe from
// any number of concurrent requests.
type Gate struct {
	state atomic.Int32
	once  sync.Once
	done  chan struct{}

	// reason is written before the terminal state store and read only after
	// a Failed load, so the atomic store/load pair orders access to it.
	reason string
}

func NewGate() *Gate {
	return &Gate{done: make(chan struct{})}
}

// Run executes the one-shot model load in the calling goroutine and settles
// the gate from its outcome. Launch it in the background at process start.
func (g *Gate) Run(ctx context.Context, warm func(ctx context.Context) error) {
	if err := warm(ctx); err != nil {
		g.fail(err.Error())
		return
	}
	g.succeed()
}

func (g *Gate) succeed() {
	g.once.Do(func() {
		g.state.Store(int32(StateReady))
		close(g.done)
		slog.Info("model readiness gate settled", "state", StateReady.String())
	})
}

func (g *Gate) fail(reason string) {
	g.once.Do(func() {
		g.reason = reason
		g.state.Store(int32(StateFailed))
		close(g.done)
		slog.Error("model readiness gate settled", "state", StateFailed.String(), "reason", reason)
	})
}

// State returns the current state without blocking.
func (g *Gate) State() State {
	return State(g.state.Load())
}

// FailureReason returns the load failure message, or "" while the gate has
// not settled in Failed.
func (g *Gate) FailureReason() string {
	if g.State() != StateFailed {
		return ""
	}
	return g.reason
}

// EnsureReady admits the caller when the engines are usable. It never waits:
// a Loading gate fails fast with NotReady, a Failed gate with Unavailable
// carrying the preserved load failure reason.
func (g *Gate) EnsureReady() error {
	switch g.State() {
	case StateReady:
		return nil
	case StateFailed:
		return apperr.Unavailable(g.reason)
	default:
		return apperr.NotReady()
	}
}

// Done returns a channel closed once the gate reaches a terminal state.
func (g *Gate) Done() <-chan struct{} {
	return g.done
}
