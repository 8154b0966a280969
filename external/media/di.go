package media

import (
	"time"

	"github.com/samber/do/v2"
	"github.com/toller892/paraformer-api-server/internal/config"
	"github.com/toller892/paraformer-api-server/internal/media"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (media.Normalizer, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return NewFFmpegNormalizer(FFmpegConfig{
			ProbeTimeout: time.Duration(cfg.MediaProbeTimeoutSec) * time.Second,
			SliceTimeout: time.Duration(cfg.MediaSliceTimeoutSec) * time.Second,
		}), nil
	})
}
