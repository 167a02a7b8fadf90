package alert

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/pkg/errors"

	"github.com/trezcool/mahudhurio/core"
	"github.com/trezcool/mahudhurio/core/attendance"
)

// Scheduler runs Notify periodically until its context is done.
type Scheduler struct {
	svc      *Service
	interval time.Duration
	filter   attendance.QueryFilter
	logger   core.Logger
}

func NewScheduler(svc *Service, conf *core.Config, logger core.Logger) *Scheduler {
	return &Scheduler{
		svc:      svc,
		interval: conf.Alerts.Interval,
		logger:   logger,
	}
}

// Run blocks until `ctx` is done.
func (s *Scheduler) Run(ctx context.Context) error {
	if s.interval <= 0 {
		return errors.New("alert interval must be positive")
	}

	scheduler := gocron.NewScheduler(time.UTC)
	// first run happens one interval after start
	if _, err := scheduler.Every(s.interval).WaitForSchedule().Do(s.notify, ctx); err != nil {
		return errors.Wrap(err, "scheduling alerts")
	}
	s.logger.Info(fmt.Sprintf("alerts scheduled every %v", s.interval))

	scheduler.StartAsync()
	<-ctx.Done()
	scheduler.Stop()

	s.logger.Info("alerts scheduler stopped")
	return nil
}

func (s *Scheduler) notify(ctx context.Context) {
	alerts, err := s.svc.Notify(ctx, s.filter)
	if err != nil {
		s.logger.Error(fmt.Sprintf("sending alerts: %v", err), err)
		return
	}
	s.logger.Info(fmt.Sprintf("%d attendance alert(s) sent", len(alerts)))
}
