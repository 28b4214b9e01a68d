package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSweeper struct {
	calls atomic.Int32
	err   error
}

func (f *fakeSweeper) SweepExpired(context.Context) (int, error) {
	f.calls.Add(1)
	return 1, f.err
}

func (f *fakeSweeper) SweepOld(context.Context) (int, error) {
	f.calls.Add(1)
	return 2, f.err
}

func TestRunSweepsRunsBothOnFailure(t *testing.T) {
	boom := errors.New("store down")
	requests := &fakeSweeper{err: boom}
	groups := &fakeSweeper{}

	err := RunSweeps(context.Background(), requests, groups)
	assert.ErrorIs(t, err, boom)
	assert.EqualValues(t, 1, requests.calls.Load())
	assert.EqualValues(t, 1, groups.calls.Load())
}

func TestStartSweepCron(t *testing.T) {
	_, err := StartSweepCron("not a schedule", time.UTC, &fakeSweeper{}, &fakeSweeper{})
	assert.Error(t, err)

	requests, groups := &fakeSweeper{}, &fakeSweeper{}
	c, err := StartSweepCron("@every 1s", time.UTC, requests, groups)
	require.NoError(t, err)
	defer c.Stop()

	assert.Eventually(t, func() bool {
		return requests.calls.Load() > 0 && groups.calls.Load() > 0
	}, 3*time.Second, 50*time.Millisecond)
}
