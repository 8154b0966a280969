package transcript

import (
	"github.com/samber/do/v2"
	"github.com/toller892/paraformer-api-server/internal/config"
	"github.com/toller892/paraformer-api-server/internal/engine"
	"github.com/toller892/paraformer-api-server/internal/media"
	"github.com/toller892/paraformer-api-server/internal/readiness"
	"github.com/toller892/paraformer-api-server/internal/repository"
	"github.com/toller892/paraformer-api-server/internal/webhook"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (*Segmenter, error) {
		cfg := do.MustInvoke[*config.Config](i)
		norm := do.MustInvoke[media.Normalizer](i)
		return NewSegmenter(norm, cfg.ChunkCeilingSeconds), nil
	})
	do.Provide(injector, func(i do.Injector) (*Service, error) {
		gate := do.MustInvoke[*readiness.Gate](i)
		segmenter := do.MustInvoke[*Segmenter](i)
		stt := do.MustInvoke[engine.Transcriber](i)
		diarizer := do.MustInvoke[engine.Diarizer](i)
		repo := do.MustInvoke[repository.Repository](i)
		wh := do.MustInvoke[webhook.Sender](i)
		return NewService(gate, segmenter, stt, diarizer, repo, wh), nil
	})
}
