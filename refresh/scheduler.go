// Package refresh runs proactive background key refreshes so a busy
// service does not pay the refresh latency on a request path.
package refresh

import (
	"context"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Refresher is the subset of verify.TokenVerifier used by the scheduler.
type Refresher interface {
	Refresh(ctx context.Context) bool
}

// Scheduler refreshes the key cache on a cron schedule.
type Scheduler struct {
	c   *cron.Cron
	log logrus.FieldLogger
}

// NewScheduler schedules target.Refresh on the given cron spec, e.g.
// "@every 10m". The scheduled refresh goes through the verifier's normal
// rate limit, so an aggressive schedule degrades to no-ops rather than
// hammering the key server.
func NewScheduler(spec string, target Refresher, log logrus.FieldLogger) (*Scheduler, error) {
	if log == nil {
		log = logrus.StandardLogger()
	}
	c := cron.New()
	if _, err := c.AddFunc(spec, func() {
		if !target.Refresh(context.Background()) {
			log.Debug("verikit: scheduled key refresh skipped")
		}
	}); err != nil {
		return nil, err
	}
	return &Scheduler{c: c, log: log}, nil
}

// Start begins background refreshing.
func (s *Scheduler) Start() { s.c.Start() }

// Stop halts the schedule and waits for a running refresh to finish.
func (s *Scheduler) Stop() {
	ctx := s.c.Stop()
	<-ctx.Done()
}
