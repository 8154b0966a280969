package fetcher

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/toller892/paraformer-api-server/internal/fetcher"
)

var remoteExtensionAllowList = map[string]struct{}{
	".mp3": {}, ".wav": {}, ".m4a": {}, ".mp4": {}, ".flac": {}, ".ogg": {},
}

var gdriveIDPatterns = []*regexp.Regexp{
	regexp.MustCompile(`/file/d/([a-zA-Z0-9_-]+)`),
	regexp.MustCompile(`[?&]id=([a-zA-Z0-9_-]+)`),
}

type HTTPFetcher struct {
	client  *http.Client
	tempDir string
}

func NewHTTPFetcher(timeout time.Duration, tempDir string) fetcher.Fetcher {
	if tempDir == "" {
		tempDir = os.TempDir()
	}
	return &HTTPFetcher{
		client:  &http.Client{Timeout: timeout},
		tempDir: tempDir,
	}
}

// FetchToTemp downloads the audio behind audioURL into a temporary file,
// rewriting Google Drive share links into direct-download form first.
func (f *HTTPFetcher) FetchToTemp(ctx context.Context, audioURL string) (string, error) {
	downloadURL := ConvertGDriveURL(audioURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, downloadURL, nil)
	if err != nil {
		return "", fmt.Errorf("create download request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("download audio: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("download returned status %d", resp.StatusCode)
	}

	dest := path.Join(f.tempDir, fmt.Sprintf("remote-%s%s", uuid.NewString(), remoteExtension(audioURL)))
	out, err := os.Create(dest)
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	written, err := io.Copy(out, resp.Body)
	if closeErr := out.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(dest)
		return "", fmt.Errorf("write downloaded audio: %w", err)
	}
	slog.Info("remote audio fetched", "url", audioURL, "bytes", written)
	return dest, nil
}

// ConvertGDriveURL rewrites a Google Drive share link into its direct
// download form; other URLs pass through unchanged.
func ConvertGDriveURL(rawURL string) string {
	if strings.Contains(rawURL, "export=download") {
		return rawURL
	}
	for _, pattern := range gdriveIDPatterns {
		if m := pattern.FindStringSubmatch(rawURL); m != nil {
			return fmt.Sprintf("https://drive.google.com/uc?export=download&id=%s", m[1])
		}
	}
	return rawURL
}

// remoteExtension picks the temp-file extension from the URL path, falling
// back to .mp3 for unknown or missing extensions.
func remoteExtension(rawURL string) string {
	ext := ".mp3"
	if u, err := url.Parse(rawURL); err == nil {
		if candidate := strings.ToLower(path.Ext(u.Path)); candidate != "" {
			if _, ok := remoteExtensionAllowList[candidate]; ok {
				ext = candidate
			}
		}
	}
	return ext
}
