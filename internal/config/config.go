package config

import "fmt"

const (
	EngineBackendSidecar     = "sidecar"
	EngineBackendCloudSpeech = "cloud_speech"
)

type Config struct {
	Env                        string
	Port                       int
	APIToken                   string
	DefaultLanguage            string
	ChunkCeilingSeconds        float64
	EngineBackend              string
	TranscribeEngineURL        string
	DiarizeEngineURL           string
	EngineWarmupTimeoutSec     int
	MediaProbeTimeoutSec       int
	MediaSliceTimeoutSec       int
	RemoteFetchTimeoutSec      int
	DatabaseURL                string
	TranscriptWebhookURL       string
	GoogleCloudProjectID       string
	GoogleCloudCredentialsJSON string
	GoogleCloudSpeechLocation  string
	GoogleCloudSpeechModel     string
}

func (c *Config) Validate() error {
	for _, req := range c.requiredFieldChecks() {
		if req.value == "" {
			return fmt.Errorf("%s is required", req.name)
		}
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("PORT must be in 1..65535, got %d", c.Port)
	}
	if c.ChunkCeilingSeconds <= 0 {
		return fmt.Errorf("CHUNK_CEILING_SECONDS must be positive, got %g", c.ChunkCeilingSeconds)
	}
	switch c.EngineBackend {
	case EngineBackendSidecar:
		if c.TranscribeEngineURL == "" {
			return fmt.Errorf("TRANSCRIBE_ENGINE_URL is required when ENGINE_BACKEND=sidecar")
		}
	case EngineBackendCloudSpeech:
		if c.GoogleCloudProjectID == "" {
			return fmt.Errorf("GOOGLE_CLOUD_PROJECT_ID is required when ENGINE_BACKEND=cloud_speech")
		}
		if c.GoogleCloudCredentialsJSON == "" {
			return fmt.Errorf("GOOGLE_CLOUD_CREDENTIALS_JSON is required when ENGINE_BACKEND=cloud_speech")
		}
	default:
		return fmt.Errorf("ENGINE_BACKEND must be %q or %q, got %q", EngineBackendSidecar, EngineBackendCloudSpeech, c.EngineBackend)
	}
	for _, timeout := range c.timeoutFieldChecks() {
		if timeout.value <= 0 {
			return fmt.Errorf("%s must be positive, got %d", timeout.name, timeout.value)
		}
	}
	return nil
}

type requiredEnvField struct {
	name  string
	value string
}

func (c *Config) requiredFieldChecks() []requiredEnvField {
	return []requiredEnvField{
		{name: "API_TOKEN", value: c.APIToken},
		{name: "DEFAULT_TRANSCRIBE_LANGUAGE", value: c.DefaultLanguage},
		{name: "ENGINE_BACKEND", value: c.EngineBackend},
	}
}

type timeoutEnvField struct {
	name  string
	value int
}

func (c *Config) timeoutFieldChecks() []timeoutEnvField {
	return []timeoutEnvField{
		{name: "ENGINE_WARMUP_TIMEOUT_SEC", value: c.EngineWarmupTimeoutSec},
		{name: "MEDIA_PROBE_TIMEOUT_SEC", value: c.MediaProbeTimeoutSec},
		{name: "MEDIA_SLICE_TIMEOUT_SEC", value: c.MediaSliceTimeoutSec},
		{name: "REMOTE_FETCH_TIMEOUT_SEC", value: c.RemoteFetchTimeoutSec},
	}
}

// DiarizationEnabled reports whether a diarization engine is configured.
// Only the sidecar backend carries one; an empty URL disables diarization
// for the whole process.
func (c *Config) DiarizationEnabled() bool {
	return c.EngineBackend == EngineBackendSidecar && c.DiarizeEngineURL != ""
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}
