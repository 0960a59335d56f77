package scheduler

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/trekweb/trek_web_backend/internal/jobs"
)

// StartStoreMonitorCron runs monitor.Check on the given cron schedule. The
// caller owns the returned scheduler and must Stop it on shutdown.
func StartStoreMonitorCron(schedule string, monitor *jobs.StoreMonitor) (*cron.Cron, error) {
	c := cron.New()

	_, err := c.AddFunc(schedule, func() {
		if err := monitor.Check(context.Background()); err != nil {
			logrus.WithError(err).Warn("Scheduled store check failed")
		}
	})
	if err != nil {
		return nil, fmt.Errorf("invalid store check schedule %q: %w", schedule, err)
	}

	c.Start()
	logrus.WithField("schedule", schedule).Info("Store monitor scheduled")
	return c, nil
}
