package engine

import (
	"github.com/samber/do/v2"
	"github.com/toller892/paraformer-api-server/internal/config"
	"github.com/toller892/paraformer-api-server/internal/engine"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (engine.Transcriber, error) {
		cfg := do.MustInvoke[*config.Config](i)
		if cfg.EngineBackend == config.EngineBackendCloudSpeech {
			return do.MustInvoke[*CloudSpeechTranscriber](i), nil
		}
		return NewSidecarTranscriber(SidecarConfig{BaseURL: cfg.TranscribeEngineURL}), nil
	})
	do.Provide(injector, func(i do.Injector) (engine.Diarizer, error) {
		cfg := do.MustInvoke[*config.Config](i)
		if !cfg.DiarizationEnabled() {
			return nil, nil
		}
		return NewSidecarDiarizer(SidecarConfig{BaseURL: cfg.DiarizeEngineURL}), nil
	})
	do.Provide(injector, func(i do.Injector) (*CloudSpeechTranscriber, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return NewCloudSpeechTranscriber(CloudSpeechConfig{
			ProjectID:       cfg.GoogleCloudProjectID,
			CredentialsJSON: cfg.GoogleCloudCredentialsJSON,
			Location:        cfg.GoogleCloudSpeechLocation,
			Model:           cfg.GoogleCloudSpeechModel,
		}), nil
	})
	do.Provide(injector, func(i do.Injector) (engine.Warmer, error) {
		cfg := do.MustInvoke[*config.Config](i)
		if cfg.EngineBackend == config.EngineBackendCloudSpeech {
			return do.MustInvoke[*CloudSpeechTranscriber](i), nil
		}
		urls := []string{cfg.TranscribeEngineURL}
		if cfg.DiarizationEnabled() {
			urls = append(urls, cfg.DiarizeEngineURL)
		}
		return NewSidecarWarmer(urls...), nil
	})
}
