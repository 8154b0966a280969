package fetcher

import (
	"time"

	"github.com/samber/do/v2"
	"github.com/toller892/paraformer-api-server/internal/config"
	"github.com/toller892/paraformer-api-server/internal/fetcher"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (fetcher.Fetcher, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return NewHTTPFetcher(time.Duration(cfg.RemoteFetchTimeoutSec)*time.Second, ""), nil
	})
}
