package transcript

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"testing"
)

type fakeNormalizer struct {
	duration   float64
	sliceDir   string
	sliceCalls int
	failAll    bool
	failAt     map[int]bool
	thinAt     map[int]bool
}

func (f *fakeNormalizer) Normalize(ctx context.Context, audioPath string) (string, error) {
	return audioPath, nil
}

func (f *fakeNormalizer) Duration(ctx context.Context, audioPath string) float64 {
	return f.duration
}

func (f *fakeNormalizer) Slice(ctx context.Context, audioPath string, startSec, lengthSec float64) (string, bool) {
	call := f.sliceCalls
	f.sliceCalls++
	if f.failAll || f.failAt[call] {
		return "", false
	}
	path := filepath.Join(f.sliceDir, fmt.Sprintf("chunk-%d.wav", call))
	content := make([]byte, 4096)
	if f.thinAt[call] {
		content = content[:16]
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return "", false
	}
	return path, true
}

func TestSegment_ShortInputPassesThrough(t *testing.T) {
	norm := &fakeNormalizer{duration: 120}
	plan := NewSegmenter(norm, 300).Segment(context.Background(), "/audio/in.wav")
	if plan.Fallback {
		t.Fatal("expected non-fallback plan")
	}
	if len(plan.Chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(plan.Chunks))
	}
	c := plan.Chunks[0]
	if c.Path != "/audio/in.wav" || c.StartOffsetSec != 0 || c.DurationSec != 120 {
		t.Fatalf("unexpected chunk: %+v", c)
	}
	if norm.sliceCalls != 0 {
		t.Fatalf("expected no slicing, got %d calls", norm.sliceCalls)
	}
}

func TestSegment_UnknownDurationPassesThrough(t *testing.T) {
	norm := &fakeNormalizer{duration: 0}
	plan := NewSegmenter(norm, 300).Segment(context.Background(), "/audio/in.wav")
	if len(plan.Chunks) != 1 || plan.Chunks[0].Path != "/audio/in.wav" {
		t.Fatalf("expected whole input as single chunk, got %+v", plan.Chunks)
	}
}

func TestSegment_PartitionsLongInput(t *testing.T) {
	norm := &fakeNormalizer{duration: 700, sliceDir: t.TempDir()}
	plan := NewSegmenter(norm, 300).Segment(context.Background(), "/audio/in.wav")
	defer plan.Release()

	if plan.Fallback {
		t.Fatal("expected non-fallback plan")
	}
	if len(plan.Chunks) != 3 {
		t.Fatalf("expected 3 chunks, got %d", len(plan.Chunks))
	}
	wantStarts := []float64{0, 300, 600}
	wantLengths := []float64{300, 300, 100}
	var total float64
	for i, c := range plan.Chunks {
		if c.StartOffsetSec != wantStarts[i] {
			t.Fatalf("chunk %d: start %g, want %g", i, c.StartOffsetSec, wantStarts[i])
		}
		if math.Abs(c.DurationSec-wantLengths[i]) > 1e-9 {
			t.Fatalf("chunk %d: duration %g, want %g", i, c.DurationSec, wantLengths[i])
		}
		total += c.DurationSec
	}
	if math.Abs(total-700) > 1e-9 {
		t.Fatalf("chunk durations sum to %g, want 700", total)
	}
}

func TestSegment_EvenlyDivisibleLastChunk(t *testing.T) {
	norm := &fakeNormalizer{duration: 600, sliceDir: t.TempDir()}
	plan := NewSegmenter(norm, 300).Segment(context.Background(), "/audio/in.wav")
	defer plan.Release()

	if len(plan.Chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(plan.Chunks))
	}
	if plan.Chunks[1].DurationSec != 300 {
		t.Fatalf("last chunk duration %g, want 300", plan.Chunks[1].DurationSec)
	}
}

func TestSegment_DropsFailedAndDegenerateWindows(t *testing.T) {
	norm := &fakeNormalizer{
		duration: 900,
		sliceDir: t.TempDir(),
		failAt:   map[int]bool{0: true},
		thinAt:   map[int]bool{2: true},
	}
	plan := NewSegmenter(norm, 300).Segment(context.Background(), "/audio/in.wav")
	defer plan.Release()

	if plan.Fallback {
		t.Fatal("expected non-fallback plan while one window survives")
	}
	if len(plan.Chunks) != 1 {
		t.Fatalf("expected 1 surviving chunk, got %d", len(plan.Chunks))
	}
	if plan.Chunks[0].StartOffsetSec != 300 {
		t.Fatalf("surviving chunk start %g, want 300", plan.Chunks[0].StartOffsetSec)
	}
}

func TestSegment_AllWindowsFailedFallsBackToWholeInput(t *testing.T) {
	norm := &fakeNormalizer{duration: 700, failAll: true}
	plan := NewSegmenter(norm, 300).Segment(context.Background(), "/audio/in.wav")

	if !plan.Fallback {
		t.Fatal("expected fallback plan")
	}
	if len(plan.Chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(plan.Chunks))
	}
	c := plan.Chunks[0]
	if c.Path != "/audio/in.wav" || c.StartOffsetSec != 0 || c.DurationSec != 700 {
		t.Fatalf("unexpected fallback chunk: %+v", c)
	}
}

func TestPlanRelease_RemovesOnlyMaterializedChunks(t *testing.T) {
	dir := t.TempDir()
	original := filepath.Join(dir, "in.wav")
	if err := os.WriteFile(original, make([]byte, 4096), 0o644); err != nil {
		t.Fatalf("write original: %v", err)
	}
	norm := &fakeNormalizer{duration: 700, sliceDir: dir}
	plan := NewSegmenter(norm, 300).Segment(context.Background(), original)

	plan.Release()
	plan.Release() // idempotent

	for _, c := range plan.Chunks {
		if _, err := os.Stat(c.Path); !os.IsNotExist(err) {
			t.Fatalf("chunk artifact %s not removed", c.Path)
		}
	}
	if _, err := os.Stat(original); err != nil {
		t.Fatalf("original input must survive release: %v", err)
	}
}
