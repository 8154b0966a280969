package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	internalconfig "github.com/toller892/paraformer-api-server/internal/config"
)

type envConfig struct {
	Env                        string  `env:"ENV" envDefault:"production"`
	Port                       int     `env:"PORT" envDefault:"8000"`
	APIToken                   string  `env:"API_TOKEN,required"`
	DefaultLanguage            string  `env:"DEFAULT_TRANSCRIBE_LANGUAGE" envDefault:"zh"`
	ChunkCeilingSeconds        float64 `env:"CHUNK_CEILING_SECONDS" envDefault:"300"`
	EngineBackend              string  `env:"ENGINE_BACKEND" envDefault:"sidecar"`
	TranscribeEngineURL        string  `env:"TRANSCRIBE_ENGINE_URL" envDefault:"http://localhost:8387"`
	DiarizeEngineURL           string  `env:"DIARIZE_ENGINE_URL"`
	EngineWarmupTimeoutSec     int     `env:"ENGINE_WARMUP_TIMEOUT_SEC" envDefault:"600"`
	MediaProbeTimeoutSec       int     `env:"MEDIA_PROBE_TIMEOUT_SEC" envDefault:"30"`
	MediaSliceTimeoutSec       int     `env:"MEDIA_SLICE_TIMEOUT_SEC" envDefault:"120"`
	RemoteFetchTimeoutSec      int     `env:"REMOTE_FETCH_TIMEOUT_SEC" envDefault:"300"`
	DatabaseURL                string  `env:"DATABASE_URL"`
	TranscriptWebhookURL       string  `env:"TRANSCRIPT_WEBHOOK_URL"`
	GoogleCloudProjectID       string  `env:"GOOGLE_CLOUD_PROJECT_ID"`
	GoogleCloudCredentialsJSON string  `env:"GOOGLE_CLOUD_CREDENTIALS_JSON"`
	GoogleCloudSpeechLocation  string  `env:"GOOGLE_CLOUD_SPEECH_LOCATION" envDefault:"global"`
	GoogleCloudSpeechModel     string  `env:"GOOGLE_CLOUD_SPEECH_MODEL" envDefault:"chirp_3"`
}

func Load() (*internalconfig.Config, error) {
	var raw envConfig
	if err := env.Parse(&raw); err != nil {
		return nil, fmt.Errorf("environment variables are invalid or missing: %w", err)
	}

	cfg := &internalconfig.Config{
		Env:                        raw.Env,
		Port:                       raw.Port,
		APIToken:                   raw.APIToken,
		DefaultLanguage:            raw.DefaultLanguage,
		ChunkCeilingSeconds:        raw.ChunkCeilingSeconds,
		EngineBackend:              raw.EngineBackend,
		TranscribeEngineURL:        raw.TranscribeEngineURL,
		DiarizeEngineURL:           raw.DiarizeEngineURL,
		EngineWarmupTimeoutSec:     raw.EngineWarmupTimeoutSec,
		MediaProbeTimeoutSec:       raw.MediaProbeTimeoutSec,
		MediaSliceTimeoutSec:       raw.MediaSliceTimeoutSec,
		RemoteFetchTimeoutSec:      raw.RemoteFetchTimeoutSec,
		DatabaseURL:                raw.DatabaseURL,
		TranscriptWebhookURL:       raw.TranscriptWebhookURL,
		GoogleCloudProjectID:       raw.GoogleCloudProjectID,
		GoogleCloudCredentialsJSON: raw.GoogleCloudCredentialsJSON,
		GoogleCloudSpeechLocation:  raw.GoogleCloudSpeechLocation,
		GoogleCloudSpeechModel:     raw.GoogleCloudSpeechModel,
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
