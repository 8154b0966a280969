// Package transcript implements the audio segmentation, multi-chunk
// stitching, and speaker-alignment engine behind the transcription API.
package transcript

import (
	"context"
	"log/slog"
	"os"

	"github.com/toller892/paraformer-api-server/internal/media"
)

// A sliced window smaller than this is treated as degenerate and dropped;
// a canonical WAV header alone is 44 bytes.
const minChunkArtifactBytes = 128

// Chunk is a bounded-duration slice of the source audio, processed
// independently by the inference engines. Chunks are never mutated after
// creation.
type Chunk struct {
	Path           string
	StartOffsetSec float64
	DurationSec    float64

	// temp marks artifacts materialized by the segmenter; the original
	// input is never temp and never deleted by Release.
	temp bool
}

// Plan is the tagged outcome of segmentation: either a window partition of
// the input or, when every window failed to slice, a fallback carrying the
// whole input as one chunk. The Plan owns the temporary chunk artifacts.
type Plan struct {
	Chunks   []Chunk
	Fallback bool

	released bool
}

// Release deletes every materialized chunk artifact. It is idempotent and
// must run on every exit path of the request that consumed the plan.
func (p *Plan) Release() {
	if p == nil || p.released {
		return
	}
	p.released = true
	for _, c := range p.Chunks {
		if !c.temp {
			continue
		}
		if err := os.Remove(c.Path); err != nil && !os.IsNotExist(err) {
			slog.Warn("failed to remove chunk artifact", "path", c.Path, "error", err)
		}
	}
}

// Segmenter splits canonical audio into bounded-duration chunks when its
// duration exceeds the configured ceiling.
type Segmenter struct {
	media      media.Normalizer
	ceilingSec float64
}

func NewSegmenter(m media.Normalizer, ceilingSec float64) *Segmenter {
	return &Segmenter{media: m, ceilingSec: ceilingSec}
}

// Segment partitions [0, duration) into consecutive windows of the ceiling
// length, the final window truncated to the remainder. Inputs at or below
// the ceiling, and inputs whose duration cannot be probed, pass through
// unchanged as a single chunk. Window slicing is best effort: failed or
// degenerate windows are dropped, and if every window fails the whole input
// is returned as one fallback chunk instead of failing the request.
func (s *Segmenter) Segment(ctx context.Context, audioPath string) *Plan {
	duration := s.media.Duration(ctx, audioPath)
	if duration == 0 || duration <= s.ceilingSec {
		return &Plan{Chunks: []Chunk{{Path: audioPath, StartOffsetSec: 0, DurationSec: duration}}}
	}

	var chunks []Chunk
	for start := 0.0; start < duration; start += s.ceilingSec {
		length := s.ceilingSec
		if remaining := duration - start; remaining < length {
			length = remaining
		}
		path, ok := s.media.Slice(ctx, audioPath, start, length)
		if !ok {
			slog.Warn("chunk slice failed; dropping window", "source", audioPath, "start_sec", start, "length_sec", length)
			continue
		}
		if degenerateArtifact(path) {
			slog.Warn("chunk slice produced degenerate artifact; dropping window", "source", audioPath, "start_sec", start, "path", path)
			if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
				slog.Warn("failed to remove degenerate chunk artifact", "path", path, "error", err)
			}
			continue
		}
		chunks = append(chunks, Chunk{Path: path, StartOffsetSec: start, DurationSec: length, temp: true})
	}

	if len(chunks) == 0 {
		slog.Warn("every chunk slice failed; falling back to whole input", "source", audioPath, "duration_sec", duration)
		return &Plan{
			Chunks:   []Chunk{{Path: audioPath, StartOffsetSec: 0, DurationSec: duration}},
			Fallback: true,
		}
	}
	slog.Info("audio segmented", "source", audioPath, "duration_sec", duration, "chunks", len(chunks))
	return &Plan{Chunks: chunks}
}

func degenerateArtifact(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return true
	}
	return info.Size() < minChunkArtifactBytes
}
