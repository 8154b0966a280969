package repository

import "time"

type JobStatus string

const (
	JobStatusCompleted JobStatus = "completed"
	JobStatusFailed    JobStatus = "failed"
)

// TranscriptionJob is the persisted record of one transcription request.
// Only the final outcome is stored; per-request chunks and segments are
// working state and are discarded at request completion.
type TranscriptionJob struct {
	ID           string
	Source       string
	Language     string
	Diarize      bool
	Status       JobStatus
	DurationSec  float64
	Text         string
	SpeakerCount int
	ErrorKind    string
	StartedAt    time.Time
	FinishedAt   time.Time
	CreatedAt    time.Time
}
