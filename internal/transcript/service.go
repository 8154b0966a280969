package transcript

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/toller892/paraformer-api-server/internal/apperr"
	"github.com/toller892/paraformer-api-server/internal/engine"
	"github.com/toller892/paraformer-api-server/internal/readiness"
	"github.com/toller892/paraformer-api-server/internal/repository"
	"github.com/toller892/paraformer-api-server/internal/webhook"
)

// SynthesizedSpeaker labels the single whole-chunk segment synthesized when
// the engine yields flat text without segment structure while diarizing.
const SynthesizedSpeaker = "speaker_0"

const webhookSendTimeout = 30 * time.Second

// Request describes one transcription request. AudioPath must already be
// canonical audio; Source is a caller-facing label (filename or URL) kept
// for the job record only.
type Request struct {
	AudioPath string
	Source    string
	Language  string
	Diarize   bool
}

// Result is the stitched transcript of one request. Segment timestamps are
// chunk-relative as emitted by the engine: chunk order is preserved but
// offsets are not rebased to the full-length source, so callers needing
// global seek positions must rebase by the owning chunk themselves. Text is
// the authoritative output.
type Result struct {
	Text     string           `json:"text"`
	Segments []engine.Segment `json:"segments"`
	Speakers []string         `json:"speakers,omitempty"`
}

// Service orchestrates segmentation, per-chunk engine calls, speaker
// alignment, and stitching into one transcript. It is safe for concurrent
// use; each request owns its chunk and segment lists exclusively.
type Service struct {
	gate      *readiness.Gate
	segmenter *Segmenter
	stt       engine.Transcriber
	diarizer  engine.Diarizer
	repo      repository.Repository
	webhook   webhook.Sender
}

func NewService(gate *readiness.Gate, segmenter *Segmenter, stt engine.Transcriber, diarizer engine.Diarizer, repo repository.Repository, wh webhook.Sender) *Service {
	return &Service{
		gate:      gate,
		segmenter: segmenter,
		stt:       stt,
		diarizer:  diarizer,
		repo:      repo,
		webhook:   wh,
	}
}

// Transcribe runs one request end to end. Any failure is tagged with its
// apperr kind; no partial result is ever returned.
func (s *Service) Transcribe(ctx context.Context, req Request) (*Result, error) {
	if err := s.gate.EnsureReady(); err != nil {
		return nil, err
	}

	jobID := uuid.NewString()
	startedAt := time.Now()
	diarize := req.Diarize && s.diarizer != nil
	if req.Diarize && s.diarizer == nil {
		slog.Info("diarization requested but no diarization engine is configured", "job_id", jobID)
	}

	result, durationSec, err := s.run(ctx, jobID, req, diarize)
	s.finalize(jobID, req, diarize, result, durationSec, startedAt, err)
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *Service) run(ctx context.Context, jobID string, req Request, diarize bool) (*Result, float64, error) {
	plan := s.segmenter.Segment(ctx, req.AudioPath)
	defer plan.Release()

	var durationSec float64
	for _, c := range plan.Chunks {
		durationSec += c.DurationSec
	}
	slog.Info("transcription started", "job_id", jobID, "source", req.Source, "chunks", len(plan.Chunks), "fallback", plan.Fallback, "diarize", diarize)

	var (
		textBuilder strings.Builder
		segments    []engine.Segment
		speakerSet  = make(map[string]struct{})
	)

	// Chunks are processed strictly in ascending start-offset order; the
	// concatenation order is load-bearing for transcript correctness.
	for i, chunk := range plan.Chunks {
		res, err := s.stt.Transcribe(ctx, engine.TranscribeRequest{
			AudioPath:      chunk.Path,
			Language:       req.Language,
			WithTimestamps: diarize,
		})
		if err != nil {
			slog.Error("chunk transcription failed", "job_id", jobID, "chunk_index", i, "error", err)
			return nil, durationSec, apperr.Processing(err)
		}

		chunkText := res.Text
		chunkSegments := res.Segments
		if chunkText == "" && len(chunkSegments) > 0 {
			chunkText = joinSegmentTexts(chunkSegments)
		}

		switch {
		case len(chunkSegments) == 0 && chunkText != "":
			// Flat text without segment structure: one whole-chunk
			// segment with unknown timing.
			synth := engine.Segment{Start: 0, End: 0, Text: chunkText}
			if diarize {
				synth.Speaker = SynthesizedSpeaker
				speakerSet[SynthesizedSpeaker] = struct{}{}
			}
			chunkSegments = []engine.Segment{synth}
		case diarize && len(chunkSegments) > 0:
			turns, err := s.diarizer.Diarize(ctx, chunk.Path)
			if err != nil {
				slog.Error("chunk diarization failed", "job_id", jobID, "chunk_index", i, "error", err)
				return nil, durationSec, apperr.Processing(err)
			}
			chunkSegments = AssignSpeakers(chunkSegments, turns)
			for _, seg := range chunkSegments {
				if seg.Speaker != UnknownSpeaker {
					speakerSet[seg.Speaker] = struct{}{}
				}
			}
		}

		segments = append(segments, chunkSegments...)
		textBuilder.WriteString(chunkText)
		slog.Debug("chunk transcribed", "job_id", jobID, "chunk_index", i, "segments", len(chunkSegments), "text_len", len(chunkText))
	}

	text := textBuilder.String()
	if text == "" {
		return nil, durationSec, apperr.EmptyResult()
	}

	result := &Result{Text: text, Segments: segments}
	if diarize {
		result.Speakers = sortedSpeakers(speakerSet)
	}
	return result, durationSec, nil
}

// finalize records the job outcome and fires the completion webhook. Neither
// ever fails the request.
func (s *Service) finalize(jobID string, req Request, diarize bool, result *Result, durationSec float64, startedAt time.Time, reqErr error) {
	finishedAt := time.Now()
	job := repository.TranscriptionJob{
		ID:          jobID,
		Source:      req.Source,
		Language:    req.Language,
		Diarize:     diarize,
		Status:      repository.JobStatusCompleted,
		DurationSec: durationSec,
		StartedAt:   startedAt,
		FinishedAt:  finishedAt,
	}
	if reqErr != nil {
		job.Status = repository.JobStatusFailed
		job.ErrorKind = string(apperr.KindOf(reqErr))
	} else {
		job.Text = result.Text
		job.SpeakerCount = len(result.Speakers)
	}

	ctx, cancel := context.WithTimeout(context.Background(), webhookSendTimeout)
	defer cancel()
	if err := s.repo.RecordJob(ctx, job); err != nil {
		slog.Error("failed to record transcription job", "error", err, "job_id", jobID)
	}
	if reqErr != nil {
		return
	}
	if err := s.webhook.SendTranscript(ctx, webhook.TranscriptCompletedPayload{
		SchemaVersion: webhook.TranscriptWebhookSchemaVersion,
		JobID:         jobID,
		Source:        req.Source,
		Language:      req.Language,
		Diarize:       diarize,
		DurationSec:   durationSec,
		Text:          result.Text,
		Speakers:      result.Speakers,
		FinishedAt:    finishedAt.UTC().Format(time.RFC3339),
	}); err != nil {
		slog.Error("failed to send transcript webhook", "error", err, "job_id", jobID)
	}
}

func joinSegmentTexts(segments []engine.Segment) string {
	parts := make([]string, 0, len(segments))
	for _, seg := range segments {
		if seg.Text != "" {
			parts = append(parts, seg.Text)
		}
	}
	return strings.Join(parts, " ")
}

func sortedSpeakers(set map[string]struct{}) []string {
	speakers := make([]string, 0, len(set))
	for id := range set {
		speakers = append(speakers, id)
	}
	sort.Strings(speakers)
	return speakers
}
