package scheduler

import (
	"time"

	"github.com/geopin/geopin-backend/internal/app/service"
	"github.com/geopin/geopin-backend/pkg/logger"
	"github.com/robfig/cron/v3"
)

// ArchiveScheduler archives TEMPORARY POIs that have sat untouched longer
// than maxAge. TEMPORARY marks time-limited places, so they eventually age
// out into ARCHIVED instead of lingering in map views forever.
type ArchiveScheduler struct {
	cron       *cron.Cron
	poiService service.POIService
	schedule   string
	maxAge     time.Duration
}

func NewArchiveScheduler(poiService service.POIService, schedule string, maxAge time.Duration) *ArchiveScheduler {
	return &ArchiveScheduler{
		cron:       cron.New(),
		poiService: poiService,
		schedule:   schedule,
		maxAge:     maxAge,
	}
}

// Start registers the cron job and starts the scheduler
func (s *ArchiveScheduler) Start() error {
	_, err := s.cron.AddFunc(s.schedule, func() {
		logger.Info("Starting scheduled temporary POI archiving", nil)

		archived, err := s.poiService.ArchiveStaleTemporaries(s.maxAge)
		if err != nil {
			logger.Error("Failed to archive temporary POIs from scheduler", err)
			return
		}

		logger.Info("Scheduled temporary POI archiving finished", map[string]interface{}{
			"archived": archived,
		})
	})

	if err != nil {
		logger.Error("Failed to add cron job for temporary POI archiving", err)
		return err
	}

	s.cron.Start()
	logger.Info("Temporary POI archive scheduler started", map[string]interface{}{
		"schedule": s.schedule,
		"max_age":  s.maxAge.String(),
	})

	return nil
}

// Stop stops the scheduler
func (s *ArchiveScheduler) Stop() {
	logger.Info("Stopping temporary POI archive scheduler...")
	s.cron.Stop()
	logger.Info("Temporary POI archive scheduler stopped")
}
