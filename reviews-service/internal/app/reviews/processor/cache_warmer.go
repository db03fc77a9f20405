package processor

import (
	"context"

	"mobodokan/pkg/logger"

	"github.com/robfig/cron/v3"
)

// TestimonialsRefresher is implemented by the review service.
type TestimonialsRefresher interface {
	RefreshTestimonials(ctx context.Context) error
}

// CacheWarmer refreshes the testimonials cache on a schedule so the
// storefront home page stays warm even between review submissions.
type CacheWarmer struct {
	cron      *cron.Cron
	refresher TestimonialsRefresher
}

func NewCacheWarmer(refresher TestimonialsRefresher) *CacheWarmer {
	return &CacheWarmer{
		cron:      cron.New(),
		refresher: refresher,
	}
}

// Start registers the schedule and performs one immediate refresh.
func (w *CacheWarmer) Start(ctx context.Context, schedule string) error {
	_, err := w.cron.AddFunc(schedule, func() {
		if err := w.refresher.RefreshTestimonials(ctx); err != nil {
			logger.Warn().Err(err).Msg("scheduled testimonials refresh failed")
		}
	})
	if err != nil {
		return err
	}

	w.cron.Start()
	logger.Info().Str("schedule", schedule).Msg("Testimonials cache warmer started")

	// Warm the cache right away without delaying startup.
	go func() {
		if err := w.refresher.RefreshTestimonials(ctx); err != nil {
			logger.Warn().Err(err).Msg("initial testimonials refresh failed")
		}
	}()

	return nil
}

func (w *CacheWarmer) Stop() {
	ctx := w.cron.Stop()
	<-ctx.Done()
	logger.Info().Msg("Testimonials cache warmer stopped")
}
