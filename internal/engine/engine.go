package engine

import "context"

// TranscribeRequest holds parameters for one chunk-level transcription call.
type TranscribeRequest struct {
	// AudioPath is the path to the canonical audio artifact to transcribe.
	AudioPath string
	// Language is the expected language of the audio (e.g. "zh", "en").
	Language string
	// WithTimestamps requests sentence-level timestamps when the engine
	// supports them; engines without segment structure may ignore it.
	WithTimestamps bool
}

// TranscribeResult is the raw output of one engine call. Segment timestamps
// are relative to the start of the submitted audio, which the engine always
// treats as time 0.
type TranscribeResult struct {
	Text     string
	Segments []Segment
}

// Segment is a timestamped span of recognized speech.
type Segment struct {
	Start   float64 `json:"start"`
	End     float64 `json:"end"`
	Text    string  `json:"text"`
	Speaker string  `json:"speaker,omitempty"`
}

// Turn is a time interval during which the diarization engine attributes
// activity to exactly one speaker. Turns may overlap each other.
type Turn struct {
	Start   float64 `json:"start"`
	End     float64 `json:"end"`
	Speaker string  `json:"speaker"`
}

// Transcriber is the speech-to-text engine, consumed as a black box.
type Transcriber interface {
	Transcribe(ctx context.Context, req TranscribeRequest) (*TranscribeResult, error)
}

// Diarizer is the speaker-diarization engine, consumed as a black box.
// A nil Diarizer in the wiring disables diarization for the whole process.
type Diarizer interface {
	Diarize(ctx context.Context, audioPath string) ([]Turn, error)
}

// Warmer performs the one-shot model load executed behind the readiness gate.
// Warm blocks until the underlying engines are usable or returns the load
// failure; it is called exactly once per process.
type Warmer interface {
	Warm(ctx context.Context) error
}
