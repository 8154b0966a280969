package httpapi

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/toller892/paraformer-api-server/internal/apperr"
	"github.com/toller892/paraformer-api-server/internal/config"
	"github.com/toller892/paraformer-api-server/internal/engine"
	"github.com/toller892/paraformer-api-server/internal/fetcher"
	"github.com/toller892/paraformer-api-server/internal/media"
	"github.com/toller892/paraformer-api-server/internal/readiness"
	"github.com/toller892/paraformer-api-server/internal/repository"
	"github.com/toller892/paraformer-api-server/internal/transcript"
)

const (
	serviceName    = "Paraformer ASR API"
	serviceVersion = "2.0.0"

	defaultJobListLimit = 20
	maxJobListLimit     = 200
)

var uploadExtensionAllowList = map[string]struct{}{
	".mp3": {}, ".wav": {}, ".m4a": {}, ".mp4": {}, ".flac": {},
	".ogg": {}, ".webm": {}, ".wma": {}, ".aac": {},
}

// TranscriptionService is the slice of the orchestrator the transport needs.
type TranscriptionService interface {
	Transcribe(ctx context.Context, req transcript.Request) (*transcript.Result, error)
}

type Handler struct {
	cfg        *config.Config
	gate       *readiness.Gate
	service    TranscriptionService
	normalizer media.Normalizer
	fetcher    fetcher.Fetcher
	repo       repository.Repository
}

func NewHandler(cfg *config.Config, gate *readiness.Gate, service TranscriptionService, normalizer media.Normalizer, fetch fetcher.Fetcher, repo repository.Repository) *Handler {
	return &Handler{
		cfg:        cfg,
		gate:       gate,
		service:    service,
		normalizer: normalizer,
		fetcher:    fetch,
		repo:       repo,
	}
}

func (h *Handler) Router() *gin.Engine {
	if !h.cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery(), RequestID(), RequestLogger(), CORS())

	r.GET("/", h.handleRoot)
	r.GET("/health", h.handleHealth)

	authed := r.Group("/", BearerAuth(h.cfg.APIToken))
	authed.POST("/transcribe", h.handleTranscribe)
	authed.POST("/transcribe/url", h.handleTranscribeURL)
	authed.GET("/jobs", h.handleListJobs)
	return r
}

func (h *Handler) handleRoot(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  h.gate.State().String(),
		"service": serviceName,
		"version": serviceVersion,
		"backend": h.cfg.EngineBackend,
	})
}

func (h *Handler) handleHealth(c *gin.Context) {
	switch h.gate.State() {
	case readiness.StateFailed:
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "failed", "reason": h.gate.FailureReason()})
	case readiness.StateLoading:
		c.JSON(http.StatusOK, gin.H{"status": "loading"})
	default:
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	}
}

type transcribeResponse struct {
	Success  bool             `json:"success"`
	Text     string           `json:"text"`
	Segments []engine.Segment `json:"segments"`
	Speakers []string         `json:"speakers,omitempty"`
}

func (h *Handler) handleTranscribe(c *gin.Context) {
	if err := h.gate.EnsureReady(); err != nil {
		writeError(c, err)
		return
	}

	upload, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing file upload"})
		return
	}
	ext := strings.ToLower(filepath.Ext(upload.Filename))
	if _, ok := uploadExtensionAllowList[ext]; !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported file extension: " + ext})
		return
	}

	tmp, err := os.CreateTemp("", "upload-*"+ext)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to buffer upload"})
		return
	}
	tmpPath := tmp.Name()
	_ = tmp.Close()
	defer removeTemp(tmpPath)

	if err := c.SaveUploadedFile(upload, tmpPath); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to buffer upload"})
		return
	}

	h.transcribeLocal(c, tmpPath, upload.Filename)
}

type transcribeURLRequest struct {
	AudioURL string `json:"audio_url" form:"audio_url"`
}

func (h *Handler) handleTranscribeURL(c *gin.Context) {
	if err := h.gate.EnsureReady(); err != nil {
		writeError(c, err)
		return
	}

	var req transcribeURLRequest
	if err := c.ShouldBind(&req); err != nil || req.AudioURL == "" {
		if req.AudioURL = c.Query("audio_url"); req.AudioURL == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "audio_url is required"})
			return
		}
	}

	localPath, err := h.fetcher.FetchToTemp(c.Request.Context(), req.AudioURL)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to download audio: " + err.Error()})
		return
	}
	defer removeTemp(localPath)

	h.transcribeLocal(c, localPath, req.AudioURL)
}

// transcribeLocal normalizes the buffered input and runs the orchestrator.
// Every temporary artifact created here is removed before the handler
// returns, on success and failure alike.
func (h *Handler) transcribeLocal(c *gin.Context, localPath, source string) {
	ctx := c.Request.Context()
	language := c.DefaultQuery("language", h.cfg.DefaultLanguage)
	diarize, _ := strconv.ParseBool(c.DefaultQuery("diarize", "false"))

	canonical, err := h.normalizer.Normalize(ctx, localPath)
	if err != nil {
		writeError(c, err)
		return
	}
	defer removeTemp(canonical)

	result, err := h.service.Transcribe(ctx, transcript.Request{
		AudioPath: canonical,
		Source:    source,
		Language:  language,
		Diarize:   diarize,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, transcribeResponse{
		Success:  true,
		Text:     result.Text,
		Segments: result.Segments,
		Speakers: result.Speakers,
	})
}

type jobListItem struct {
	ID           string  `json:"id"`
	Source       string  `json:"source"`
	Language     string  `json:"language"`
	Diarize      bool    `json:"diarize"`
	Status       string  `json:"status"`
	DurationSec  float64 `json:"duration_seconds"`
	SpeakerCount int     `json:"speaker_count"`
	ErrorKind    string  `json:"error_kind,omitempty"`
	StartedAt    string  `json:"started_at"`
	FinishedAt   string  `json:"finished_at"`
}

func (h *Handler) handleListJobs(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultJobListLimit)))
	if err != nil || limit <= 0 || limit > maxJobListLimit {
		limit = defaultJobListLimit
	}
	jobs, err := h.repo.ListRecentJobs(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list jobs"})
		return
	}
	items := make([]jobListItem, 0, len(jobs))
	for _, j := range jobs {
		items = append(items, jobListItem{
			ID:           j.ID,
			Source:       j.Source,
			Language:     j.Language,
			Diarize:      j.Diarize,
			Status:       string(j.Status),
			DurationSec:  j.DurationSec,
			SpeakerCount: j.SpeakerCount,
			ErrorKind:    j.ErrorKind,
			StartedAt:    j.StartedAt.UTC().Format(time.RFC3339),
			FinishedAt:   j.FinishedAt.UTC().Format(time.RFC3339),
		})
	}
	c.JSON(http.StatusOK, gin.H{"jobs": items})
}

func writeError(c *gin.Context, err error) {
	kind := apperr.KindOf(err)
	if kind == "" {
		kind = apperr.KindProcessing
	}
	c.JSON(kind.HTTPStatus(), gin.H{"error": err.Error(), "kind": string(kind)})
}

func removeTemp(path string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		slog.Warn("failed to remove temp file", "path", path, "error", err)
	}
}
