package jobs

import (
	"context"
	"os"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"sophia/api/middleware"
	"sophia/api/services"
)

// defaultUptimeSpec runs the sweep every 15 minutes; override with
// UPTIME_CRON_SPEC.
const defaultUptimeSpec = "*/15 * * * *"

// Scheduler runs the periodic uptime sweep over active businesses.
type Scheduler struct {
	cron       *cron.Cron
	businesses *services.BusinessService
	monitoring *services.MonitoringService
}

func NewScheduler(businesses *services.BusinessService, monitoring *services.MonitoringService) *Scheduler {
	return &Scheduler{
		cron:       cron.New(),
		businesses: businesses,
		monitoring: monitoring,
	}
}

// Start registers the sweep job and starts the cron loop.
func (s *Scheduler) Start() error {
	spec := defaultUptimeSpec
	if env := os.Getenv("UPTIME_CRON_SPEC"); env != "" {
		spec = env
	}
	if _, err := s.cron.AddFunc(spec, s.sweepUptime); err != nil {
		return err
	}
	s.cron.Start()
	log.Info().Str("spec", spec).Msg("Uptime sweep scheduled")
	return nil
}

// Stop halts the cron loop and waits for a running sweep to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

// sweepUptime checks every active business that has a website configured.
// Each check gets its own deadline so one slow site cannot stall the sweep.
func (s *Scheduler) sweepUptime() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	businesses, err := s.businesses.GetActiveBusinesses(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Uptime sweep: failed to list active businesses")
		return
	}

	for _, b := range businesses {
		if b.WebsiteURL == nil || *b.WebsiteURL == "" {
			continue
		}
		checkCtx, checkCancel := context.WithTimeout(ctx, time.Minute)
		result := s.monitoring.CheckUptime(checkCtx, *b.WebsiteURL)
		checkCancel()

		outcome := "up"
		if !result.Up {
			outcome = "down"
		} else if result.HasErrors {
			outcome = "degraded"
		}
		middleware.UptimeChecks.WithLabelValues(outcome).Inc()

		if !result.Up {
			log.Warn().
				Str("business_id", b.ID.String()).
				Str("url", *b.WebsiteURL).
				Strs("errors", result.ErrorMessages).
				Msg("Uptime check failed")
		} else {
			log.Debug().
				Str("business_id", b.ID.String()).
				Str("url", *b.WebsiteURL).
				Int64("load_time_ms", result.LoadTimeMs).
				Msg("Uptime check passed")
		}
	}
}
