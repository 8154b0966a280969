package transcript

import (
	"testing"

	"github.com/toller892/paraformer-api-server/internal/engine"
)

func TestAssignSpeakers_GreatestAccumulatedOverlapWins(t *testing.T) {
	segments := []engine.Segment{{Start: 10, End: 20, Text: "hello"}}
	turns := []engine.Turn{
		{Start: 0, End: 12, Speaker: "A"},
		{Start: 12, End: 25, Speaker: "B"},
	}
	out := AssignSpeakers(segments, turns)
	if out[0].Speaker != "B" {
		t.Fatalf("expected speaker B (overlap 8 vs 2), got %q", out[0].Speaker)
	}
}

func TestAssignSpeakers_OverlapAccumulatesAcrossTurns(t *testing.T) {
	segments := []engine.Segment{{Start: 0, End: 10, Text: "x"}}
	turns := []engine.Turn{
		{Start: 0, End: 3, Speaker: "A"},
		{Start: 3, End: 9, Speaker: "B"},
		{Start: 9, End: 10, Speaker: "A"},
		{Start: 5, End: 9, Speaker: "A"},
	}
	// A: 3 + 1 + 4 = 8, B: 6.
	out := AssignSpeakers(segments, turns)
	if out[0].Speaker != "A" {
		t.Fatalf("expected speaker A, got %q", out[0].Speaker)
	}
}

func TestAssignSpeakers_TieGoesToFirstSeenSpeaker(t *testing.T) {
	segments := []engine.Segment{{Start: 0, End: 10, Text: "x"}}
	turns := []engine.Turn{
		{Start: 5, End: 10, Speaker: "B"},
		{Start: 0, End: 5, Speaker: "A"},
	}
	out := AssignSpeakers(segments, turns)
	if out[0].Speaker != "B" {
		t.Fatalf("expected tie broken by turn emission order (B first), got %q", out[0].Speaker)
	}
}

func TestAssignSpeakers_NoOverlapYieldsUnknown(t *testing.T) {
	segments := []engine.Segment{{Start: 100, End: 110, Text: "x"}}
	turns := []engine.Turn{
		{Start: 0, End: 50, Speaker: "A"},
		{Start: 110, End: 120, Speaker: "B"},
	}
	out := AssignSpeakers(segments, turns)
	if out[0].Speaker != UnknownSpeaker {
		t.Fatalf("expected %q, got %q", UnknownSpeaker, out[0].Speaker)
	}
}

func TestAssignSpeakers_TouchingBoundaryIsNotOverlap(t *testing.T) {
	segments := []engine.Segment{{Start: 10, End: 20, Text: "x"}}
	turns := []engine.Turn{{Start: 0, End: 10, Speaker: "A"}}
	out := AssignSpeakers(segments, turns)
	if out[0].Speaker != UnknownSpeaker {
		t.Fatalf("expected %q for zero-length overlap, got %q", UnknownSpeaker, out[0].Speaker)
	}
}

func TestAssignSpeakers_EachSegmentLabeledIndependently(t *testing.T) {
	segments := []engine.Segment{
		{Start: 0, End: 5, Text: "a"},
		{Start: 5, End: 10, Text: "b"},
		{Start: 30, End: 31, Text: "c"},
	}
	turns := []engine.Turn{
		{Start: 0, End: 6, Speaker: "A"},
		{Start: 6, End: 10, Speaker: "B"},
	}
	out := AssignSpeakers(segments, turns)
	want := []string{"A", "B", UnknownSpeaker}
	for i, seg := range out {
		if seg.Speaker != want[i] {
			t.Fatalf("segment %d: got %q, want %q", i, seg.Speaker, want[i])
		}
	}
}

func TestAssignSpeakers_InputSegmentsNotMutated(t *testing.T) {
	segments := []engine.Segment{{Start: 0, End: 10, Text: "x"}}
	turns := []engine.Turn{{Start: 0, End: 10, Speaker: "A"}}
	_ = AssignSpeakers(segments, turns)
	if segments[0].Speaker != "" {
		t.Fatalf("input segment mutated: %+v", segments[0])
	}
}
