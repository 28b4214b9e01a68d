package scheduler

import (
	"context"
	"errors"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/supriya-vit2006/vit-travel-buddy-s/internal/logger"
)

const sweepTimeout = time.Minute

// RequestSweeper deletes travel requests whose departure has passed
type RequestSweeper interface {
	SweepExpired(ctx context.Context) (int, error)
}

// GroupSweeper deletes travel groups whose date is long gone
type GroupSweeper interface {
	SweepOld(ctx context.Context) (int, error)
}

// RunSweeps runs the request expiry sweep and then the old group sweep.
// Both run even if the first fails.
func RunSweeps(ctx context.Context, requests RequestSweeper, groups GroupSweeper) error {
	expired, reqErr := requests.SweepExpired(ctx)
	if reqErr != nil {
		logger.Log.WithError(reqErr).Error("SweepExpired failed")
	}
	old, groupErr := groups.SweepOld(ctx)
	if groupErr != nil {
		logger.Log.WithError(groupErr).Error("SweepOld failed")
	}

	logger.Log.WithFields(logrus.Fields{
		"expired_requests": expired,
		"old_groups":       old,
	}).Debug("Sweeps finished")
	return errors.Join(reqErr, groupErr)
}

// StartSweepCron runs RunSweeps on a cron schedule in loc. Stop the returned cron on shutdown.
func StartSweepCron(schedule string, loc *time.Location, requests RequestSweeper, groups GroupSweeper) (*cron.Cron, error) {
	c := cron.New(cron.WithLocation(loc))

	_, err := c.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), sweepTimeout)
		defer cancel()
		_ = RunSweeps(ctx, requests, groups)
	})
	if err != nil {
		return nil, err
	}

	c.Start()
	logger.Log.WithField("schedule", schedule).Info("Sweep cron started")
	return c, nil
}
