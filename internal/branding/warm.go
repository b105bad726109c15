package branding

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// defaultWarmInterval is used when Run is given a non-positive interval.
const defaultWarmInterval = 15 * time.Minute

// Run fetches every logo once, then retries on each tick until ctx is
// cancelled. Successful logos stay cached, so later ticks only retry the
// ones that failed.
func (f *Fetcher) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = defaultWarmInterval
	}

	log := zap.L().With(zap.String("component", "branding.warmer"))
	log.Info("starting logo warmer",
		zap.Duration("interval", interval),
		zap.Int("logos", len(f.names)),
	)

	f.warm(ctx, log)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info("logo warmer stopped")
			return
		case <-ticker.C:
			f.warm(ctx, log)
		}
	}
}

func (f *Fetcher) warm(ctx context.Context, log *zap.Logger) {
	logos, err := f.FetchAll(ctx)
	if err != nil {
		log.Warn("branding: warm incomplete",
			zap.Int("fetched", len(logos)),
			zap.Int("configured", len(f.names)),
			zap.Error(err),
		)
		return
	}
	log.Debug("branding: logos warm", zap.Int("fetched", len(logos)))
}
