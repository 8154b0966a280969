package media

import "context"

// Normalizer is the external format/sample-rate canonicalization capability.
// All methods operate on audio file paths and are backed by subprocess
// invocations; they carry their own wall-clock timeouts.
type Normalizer interface {
	// Normalize decodes arbitrary input into the canonical form (mono,
	// fixed sample rate, 16-bit PCM WAV) and returns the path of the new
	// artifact. It fails when the input cannot be decoded at all.
	Normalize(ctx context.Context, audioPath string) (string, error)

	// Duration probes the audio length in seconds. It returns 0 rather
	// than an error when the duration cannot be determined.
	Duration(ctx context.Context, audioPath string) float64

	// Slice materializes the time range [startSec, startSec+lengthSec) as
	// an independent lossless artifact. It returns ok=false rather than an
	// error on failure; slicing is best effort.
	Slice(ctx context.Context, audioPath string, startSec, lengthSec float64) (path string, ok bool)
}
