package config

import "testing"

func validConfig() *Config {
	return &Config{
		Env:                    "development",
		Port:                   8000,
		APIToken:               "secret",
		DefaultLanguage:        "zh",
		ChunkCeilingSeconds:    300,
		EngineBackend:          EngineBackendSidecar,
		TranscribeEngineURL:    "http://localhost:8387",
		DiarizeEngineURL:       "http://localhost:8388",
		EngineWarmupTimeoutSec: 600,
		MediaProbeTimeoutSec:   30,
		MediaSliceTimeoutSec:   120,
		RemoteFetchTimeoutSec:  300,
	}
}

func TestValidate_Valid(t *testing.T) {
	cfg := validConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}

func TestValidate_MissingToken(t *testing.T) {
	cfg := validConfig()
	cfg.APIToken = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error when API_TOKEN is missing")
	}
}

func TestValidate_InvalidChunkCeiling(t *testing.T) {
	cfg := validConfig()
	cfg.ChunkCeilingSeconds = 0
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for non-positive chunk ceiling")
	}
}

func TestValidate_UnknownBackend(t *testing.T) {
	cfg := validConfig()
	cfg.EngineBackend = "onnx"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for unknown engine backend")
	}
}

func TestValidate_CloudSpeechRequiresCredentials(t *testing.T) {
	cfg := validConfig()
	cfg.EngineBackend = EngineBackendCloudSpeech
	cfg.GoogleCloudProjectID = "project-id"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error when cloud_speech credentials are missing")
	}
	cfg.GoogleCloudCredentialsJSON = `{"type":"service_account"}`
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}

func TestDiarizationEnabled(t *testing.T) {
	cfg := validConfig()
	if !cfg.DiarizationEnabled() {
		t.Fatal("expected diarization enabled with sidecar diarize URL")
	}
	cfg.DiarizeEngineURL = ""
	if cfg.DiarizationEnabled() {
		t.Fatal("expected diarization disabled without diarize URL")
	}
	cfg = validConfig()
	cfg.EngineBackend = EngineBackendCloudSpeech
	if cfg.DiarizationEnabled() {
		t.Fatal("expected diarization disabled on cloud_speech backend")
	}
}

func TestIsDevelopment(t *testing.T) {
	cfg := &Config{Env: "development"}
	if !cfg.IsDevelopment() {
		t.Fatal("expected development mode")
	}
	cfg.Env = "production"
	if cfg.IsDevelopment() {
		t.Fatal("expected non-development mode")
	}
}
