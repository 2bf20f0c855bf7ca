package scheduler

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	mocksdb "github.com/linesmerrill/claim-reports-api/databases/mocks"
	"github.com/linesmerrill/claim-reports-api/lifecycle"
	"github.com/linesmerrill/claim-reports-api/models"
)

type fakeSweeper struct {
	calls int
	res   lifecycle.SweepResult
	err   error
}

func (f *fakeSweeper) Sweep(_ context.Context) (lifecycle.SweepResult, error) {
	f.calls++
	return f.res, f.err
}

func TestNewScheduler_InstanceID(t *testing.T) {
	t.Setenv("DYNO", "web.2")
	s := NewScheduler(&fakeSweeper{}, &mocksdb.SchedulerLockDatabase{}, "@every 1m")
	assert.Equal(t, "web.2", s.instanceID)

	t.Setenv("DYNO", "")
	s = NewScheduler(&fakeSweeper{}, &mocksdb.SchedulerLockDatabase{}, "@every 1m")
	assert.Contains(t, s.instanceID, "instance-")
}

func TestScheduler_RunRetention(t *testing.T) {
	tests := []struct {
		name       string
		acquired   bool
		acquireErr error
		sweepErr   error
		wantRan    bool
		wantSweeps int
		released   bool
	}{
		{name: "lease taken and sweep ran", acquired: true, wantRan: true, wantSweeps: 1, released: true},
		{name: "lease held elsewhere", acquired: false, wantSweeps: 0},
		{name: "lease lookup failed", acquireErr: errors.New("mongo down"), wantSweeps: 0},
		{name: "sweep failed still releases", acquired: true, sweepErr: errors.New("boom"), wantSweeps: 1, released: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("DYNO", "web.1")
			lockDB := &mocksdb.SchedulerLockDatabase{}
			lockDB.On("TryAcquireLock", mock.Anything, RetentionJob, "web.1", leaseTTL).Return(tt.acquired, tt.acquireErr)
			if tt.released {
				lockDB.On("ReleaseLock", mock.Anything, RetentionJob, "web.1").Return(nil)
			}
			sweeper := &fakeSweeper{
				res: lifecycle.SweepResult{HardDeleted: []models.Report{{ID: "r1"}}},
				err: tt.sweepErr,
			}

			s := NewScheduler(sweeper, lockDB, "@every 1m")
			ran := s.RunRetention(context.Background())

			assert.Equal(t, tt.wantRan, ran)
			assert.Equal(t, tt.wantSweeps, sweeper.calls)
			if tt.released {
				lockDB.AssertCalled(t, "ReleaseLock", mock.Anything, RetentionJob, "web.1")
			} else {
				lockDB.AssertNotCalled(t, "ReleaseLock", mock.Anything, mock.Anything, mock.Anything)
			}
		})
	}
}

func TestScheduler_StartRejectsBadSpec(t *testing.T) {
	s := NewScheduler(&fakeSweeper{}, &mocksdb.SchedulerLockDatabase{}, "not a cron spec")
	require.Error(t, s.Start())
}

func TestScheduler_StartStop(t *testing.T) {
	s := NewScheduler(&fakeSweeper{}, &mocksdb.SchedulerLockDatabase{}, "*/15 * * * *")
	require.NoError(t, s.Start())
	s.Stop()
}
