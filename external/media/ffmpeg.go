package media

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/toller892/paraformer-api-server/internal/apperr"
	"github.com/toller892/paraformer-api-server/internal/media"
)

const (
	canonicalSampleRateHertz = 16000
	canonicalChannelCount    = 1
)

type FFmpegConfig struct {
	ProbeTimeout time.Duration
	SliceTimeout time.Duration
	TempDir      string
}

// FFmpegNormalizer implements the normalize/probe/slice capabilities by
// shelling out to ffmpeg and ffprobe.
type FFmpegNormalizer struct {
	probeTimeout time.Duration
	sliceTimeout time.Duration
	tempDir      string
}

func NewFFmpegNormalizer(cfg FFmpegConfig) media.Normalizer {
	tempDir := cfg.TempDir
	if tempDir == "" {
		tempDir = os.TempDir()
	}
	return &FFmpegNormalizer{
		probeTimeout: cfg.ProbeTimeout,
		sliceTimeout: cfg.SliceTimeout,
		tempDir:      tempDir,
	}
}

// Normalize transcodes arbitrary input to mono 16kHz 16-bit WAV.
func (n *FFmpegNormalizer) Normalize(ctx context.Context, audioPath string) (string, error) {
	out := filepath.Join(n.tempDir, fmt.Sprintf("canonical-%s.wav", uuid.NewString()))
	ctx, cancel := context.WithTimeout(ctx, n.sliceTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "ffmpeg",
		"-y", "-i", audioPath,
		"-ac", strconv.Itoa(canonicalChannelCount),
		"-ar", strconv.Itoa(canonicalSampleRateHertz),
		"-sample_fmt", "s16",
		"-f", "wav",
		out,
	)
	if output, err := cmd.CombinedOutput(); err != nil {
		_ = os.Remove(out)
		slog.Warn("ffmpeg normalize failed", "source", audioPath, "error", err, "output", truncateOutput(output))
		return "", apperr.Wrap(apperr.KindUnsupportedFormat, "input audio could not be decoded", err)
	}
	return out, nil
}

// Duration probes the audio length via ffprobe, returning 0 when it cannot
// be determined.
func (n *FFmpegNormalizer) Duration(ctx context.Context, audioPath string) float64 {
	ctx, cancel := context.WithTimeout(ctx, n.probeTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "ffprobe",
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		audioPath,
	)
	output, err := cmd.Output()
	if err != nil {
		slog.Warn("ffprobe duration failed", "source", audioPath, "error", err)
		return 0
	}
	return parseProbedDuration(string(output))
}

// Slice copies the [startSec, startSec+lengthSec) range into a new artifact
// without re-encoding. Failures are reported via ok=false; slicing is best
// effort.
func (n *FFmpegNormalizer) Slice(ctx context.Context, audioPath string, startSec, lengthSec float64) (string, bool) {
	out := filepath.Join(n.tempDir, fmt.Sprintf("chunk-%s%s", uuid.NewString(), sliceExtension(audioPath)))
	ctx, cancel := context.WithTimeout(ctx, n.sliceTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "ffmpeg",
		"-y",
		"-ss", formatSeconds(startSec),
		"-i", audioPath,
		"-t", formatSeconds(lengthSec),
		"-c", "copy",
		out,
	)
	if output, err := cmd.CombinedOutput(); err != nil {
		_ = os.Remove(out)
		slog.Warn("ffmpeg slice failed", "source", audioPath, "start_sec", startSec, "length_sec", lengthSec, "error", err, "output", truncateOutput(output))
		return "", false
	}
	return out, true
}

func parseProbedDuration(output string) float64 {
	d, err := strconv.ParseFloat(strings.TrimSpace(output), 64)
	if err != nil || d < 0 {
		return 0
	}
	return d
}

func formatSeconds(sec float64) string {
	return strconv.FormatFloat(sec, 'f', 3, 64)
}

func sliceExtension(audioPath string) string {
	if ext := filepath.Ext(audioPath); ext != "" {
		return ext
	}
	return ".wav"
}

func truncateOutput(output []byte) string {
	const max = 512
	s := strings.TrimSpace(string(output))
	if len(s) > max {
		return s[:max]
	}
	return s
}
