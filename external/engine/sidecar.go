package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/toller892/paraformer-api-server/internal/engine"
)

const (
	defaultSidecarTimeout   = 30 * time.Minute
	warmupPollInterval      = 2 * time.Second
	warmupHealthProbeWindow = 5 * time.Second
)

type SidecarConfig struct {
	BaseURL string
	Timeout time.Duration
}

// SidecarTranscriber implements engine.Transcriber against a self-hosted
// speech-to-text sidecar (multipart POST /transcribe, GET /health).
type SidecarTranscriber struct {
	baseURL string
	client  *http.Client
}

func NewSidecarTranscriber(cfg SidecarConfig) *SidecarTranscriber {
	if cfg.Timeout == 0 {
		cfg.Timeout = defaultSidecarTimeout
	}
	return &SidecarTranscriber{
		baseURL: cfg.BaseURL,
		client:  &http.Client{Timeout: cfg.Timeout},
	}
}

func (t *SidecarTranscriber) Transcribe(ctx context.Context, req engine.TranscribeRequest) (*engine.TranscribeResult, error) {
	fields := map[string]string{}
	if req.Language != "" {
		fields["language"] = req.Language
	}
	if req.WithTimestamps {
		fields["sentence_timestamp"] = strconv.FormatBool(true)
	}
	body, contentType, err := multipartAudioBody(req.AudioPath, fields)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, t.baseURL+"/transcribe", body)
	if err != nil {
		return nil, fmt.Errorf("create transcribe request: %w", err)
	}
	httpReq.Header.Set("Content-Type", contentType)

	resp, err := t.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("transcribe request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("transcribe engine returned status %d: %s", resp.StatusCode, payload)
	}

	var result transcribeResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode transcribe response: %w", err)
	}
	if result.Error != "" {
		return nil, fmt.Errorf("transcribe engine error: %s", result.Error)
	}
	return &engine.TranscribeResult{Text: result.Text, Segments: result.Segments}, nil
}

// SidecarDiarizer implements engine.Diarizer against a diarization sidecar
// (multipart POST /diarize, GET /health).
type SidecarDiarizer struct {
	baseURL string
	client  *http.Client
}

func NewSidecarDiarizer(cfg SidecarConfig) *SidecarDiarizer {
	if cfg.Timeout == 0 {
		cfg.Timeout = defaultSidecarTimeout
	}
	return &SidecarDiarizer{
		baseURL: cfg.BaseURL,
		client:  &http.Client{Timeout: cfg.Timeout},
	}
}

func (d *SidecarDiarizer) Diarize(ctx context.Context, audioPath string) ([]engine.Turn, error) {
	body, contentType, err := multipartAudioBody(audioPath, nil)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, d.baseURL+"/diarize", body)
	if err != nil {
		return nil, fmt.Errorf("create diarize request: %w", err)
	}
	httpReq.Header.Set("Content-Type", contentType)

	resp, err := d.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("diarize request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("diarize engine returned status %d: %s", resp.StatusCode, payload)
	}

	var result diarizeResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode diarize response: %w", err)
	}
	if result.Error != "" {
		return nil, fmt.Errorf("diarize engine error: %s", result.Error)
	}
	return result.Turns, nil
}

// SidecarWarmer waits for every configured sidecar to finish loading its
// model. The sidecars answer GET /health with 200 once usable.
type SidecarWarmer struct {
	urls   []string
	client *http.Client
}

func NewSidecarWarmer(urls ...string) *SidecarWarmer {
	return &SidecarWarmer{
		urls:   urls,
		client: &http.Client{Timeout: warmupHealthProbeWindow},
	}
}

func (w *SidecarWarmer) Warm(ctx context.Context) error {
	ticker := time.NewTicker(warmupPollInterval)
	defer ticker.Stop()
	for {
		pending := w.pendingSidecars(ctx)
		if len(pending) == 0 {
			slog.Info("all inference sidecars are healthy", "sidecars", len(w.urls))
			return nil
		}
		slog.Debug("waiting for inference sidecars", "pending", pending)
		select {
		case <-ctx.Done():
			return fmt.Errorf("inference sidecars did not become healthy: %w", ctx.Err())
		case <-ticker.C:
		}
	}
}

func (w *SidecarWarmer) pendingSidecars(ctx context.Context) []string {
	var pending []string
	for _, url := range w.urls {
		if !w.healthy(ctx, url) {
			pending = append(pending, url)
		}
	}
	return pending
}

func (w *SidecarWarmer) healthy(ctx context.Context, baseURL string) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"/health", nil)
	if err != nil {
		return false
	}
	resp, err := w.client.Do(req)
	if err != nil {
		return false
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	return resp.StatusCode == http.StatusOK
}

// --- sidecar wire types ---

type transcribeResponse struct {
	Text     string           `json:"text"`
	Segments []engine.Segment `json:"segments"`
	Error    string           `json:"error,omitempty"`
}

type diarizeResponse struct {
	Turns []engine.Turn `json:"turns"`
	Error string        `json:"error,omitempty"`
}

func multipartAudioBody(audioPath string, fields map[string]string) (*bytes.Buffer, string, error) {
	audioData, err := os.ReadFile(audioPath)
	if err != nil {
		return nil, "", fmt.Errorf("read audio file: %w", err)
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filepath.Base(audioPath))
	if err != nil {
		return nil, "", fmt.Errorf("create form file: %w", err)
	}
	if _, err := part.Write(audioData); err != nil {
		return nil, "", fmt.Errorf("write audio data: %w", err)
	}
	for key, value := range fields {
		_ = writer.WriteField(key, value)
	}
	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("finalize multipart body: %w", err)
	}
	return &buf, writer.FormDataContentType(), nil
}
