package webhook

import "context"

const TranscriptWebhookSchemaVersion = 1

// TranscriptCompletedPayload is posted to the configured webhook after a
// request finishes successfully.
type TranscriptCompletedPayload struct {
	SchemaVersion int      `json:"schema_version"`
	JobID         string   `json:"job_id"`
	Source        string   `json:"source"`
	Language      string   `json:"language"`
	Diarize       bool     `json:"diarize"`
	DurationSec   float64  `json:"duration_seconds"`
	Text          string   `json:"text"`
	Speakers      []string `json:"speakers,omitempty"`
	FinishedAt    string   `json:"finished_at"`
}

type Sender interface {
	SendTranscript(ctx context.Context, payload TranscriptCompletedPayload) error
}
