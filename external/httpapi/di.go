package httpapi

import (
	"github.com/samber/do/v2"
	"github.com/toller892/paraformer-api-server/internal/config"
	"github.com/toller892/paraformer-api-server/internal/fetcher"
	"github.com/toller892/paraformer-api-server/internal/media"
	"github.com/toller892/paraformer-api-server/internal/readiness"
	"github.com/toller892/paraformer-api-server/internal/repository"
	"github.com/toller892/paraformer-api-server/internal/transcript"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (*Handler, error) {
		cfg := do.MustInvoke[*config.Config](i)
		gate := do.MustInvoke[*readiness.Gate](i)
		service := do.MustInvoke[*transcript.Service](i)
		normalizer := do.MustInvoke[media.Normalizer](i)
		fetch := do.MustInvoke[fetcher.Fetcher](i)
		repo := do.MustInvoke[repository.Repository](i)
		return NewHandler(cfg, gate, service, normalizer, fetch, repo), nil
	})
}
