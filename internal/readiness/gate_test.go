package readiness

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/toller892/paraformer-api-server/internal/apperr"
)

func TestEnsureReady_WhileLoading(t *testing.T) {
	g := NewGate()
	if g.State() != StateLoading {
		t.Fatalf("expected initial state loading, got %v", g.State())
	}
	err := g.EnsureReady()
	if err == nil {
		t.Fatal("expected error while loading")
	}
	if apperr.KindOf(err) != apperr.KindNotReady {
		t.Fatalf("expected not_ready kind, got %v", apperr.KindOf(err))
	}
}

func TestEnsureReady_AfterSuccessfulLoad(t *testing.T) {
	g := NewGate()
	g.Run(context.Background(), func(ctx context.Context) error { return nil })
	<-g.Done()
	if g.State() != StateReady {
		t.Fatalf("expected ready, got %v", g.State())
	}
	for i := 0; i < 3; i++ {
		if err := g.EnsureReady(); err != nil {
			t.Fatalf("expected nil error after ready, got %v", err)
		}
	}
}

func TestEnsureReady_AfterFailedLoad(t *testing.T) {
	g := NewGate()
	g.Run(context.Background(), func(ctx context.Context) error {
		return errors.New("weights checksum mismatch")
	})
	if g.State() != StateFailed {
		t.Fatalf("expected failed, got %v", g.State())
	}
	if g.FailureReason() != "weights checksum mismatch" {
		t.Fatalf("unexpected failure reason: %q", g.FailureReason())
	}
	for i := 0; i < 3; i++ {
		err := g.EnsureReady()
		if apperr.KindOf(err) != apperr.KindUnavailable {
			t.Fatalf("expected unavailable kind, got %v", apperr.KindOf(err))
		}
		if !strings.Contains(err.Error(), "weights checksum mismatch") {
			t.Fatalf("failure reason lost: %v", err)
		}
	}
}

func TestGate_TerminalTransitionHappensOnce(t *testing.T) {
	g := NewGate()
	g.succeed()
	g.fail("too late")
	if g.State() != StateReady {
		t.Fatalf("expected ready to stick, got %v", g.State())
	}
	if g.FailureReason() != "" {
		t.Fatalf("expected no failure reason, got %q", g.FailureReason())
	}
}

func TestGate_ConcurrentQueriesDuringLoad(t *testing.T) {
	g := NewGate()
	start := make(chan struct{})
	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			for j := 0; j < 100; j++ {
				switch g.State() {
				case StateLoading:
					if apperr.KindOf(g.EnsureReady()) != apperr.KindNotReady {
						t.Error("loading gate must fail with not_ready")
						return
					}
				case StateReady:
					if err := g.EnsureReady(); err != nil {
						t.Errorf("ready gate must admit, got %v", err)
						return
					}
				}
			}
		}()
	}
	close(start)
	g.succeed()
	wg.Wait()
}
