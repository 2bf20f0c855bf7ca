package scheduler

import (
	"context"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/linesmerrill/claim-reports-api/databases"
	"github.com/linesmerrill/claim-reports-api/lifecycle"
	"github.com/linesmerrill/claim-reports-api/logging"
)

// RetentionJob is the lease name guarding the retention sweep
const RetentionJob = "retention_sweep"

const (
	jobTimeout = 5 * time.Minute
	leaseTTL   = 10 * time.Minute
)

// Sweeper runs one retention pass
type Sweeper interface {
	Sweep(ctx context.Context) (lifecycle.SweepResult, error)
}

// Scheduler runs the periodic retention sweep. Every instance schedules it, the
// lease in LockDB makes sure only one of them runs a given tick.
type Scheduler struct {
	cron       *cron.Cron
	Sweeper    Sweeper
	LockDB     databases.SchedulerLockDatabase
	spec       string
	instanceID string
	log        *zap.SugaredLogger
}

// NewScheduler creates a scheduler firing the retention sweep on spec
func NewScheduler(sweeper Sweeper, lockDB databases.SchedulerLockDatabase, spec string) *Scheduler {
	// Heroku sets this to "web.1", "web.2", etc.
	instanceID := os.Getenv("DYNO")
	if instanceID == "" {
		instanceID = "instance-" + uuid.NewString()
	}

	return &Scheduler{
		cron:       cron.New(cron.WithLocation(time.UTC)),
		Sweeper:    sweeper,
		LockDB:     lockDB,
		spec:       spec,
		instanceID: instanceID,
		log:        logging.New("scheduler"),
	}
}

// Start registers the jobs and starts the cron loop
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.spec, s.runRetention); err != nil {
		s.log.Errorw("failed to register retention job", "spec", s.spec, "error", err)
		return err
	}
	s.cron.Start()
	s.log.Infow("scheduler started", "retentionCron", s.spec, "instance", s.instanceID)
	return nil
}

// Stop waits for running jobs to finish
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.log.Info("scheduler stopped")
}

func (s *Scheduler) runRetention() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()
	s.RunRetention(ctx)
}

// RunRetention takes the retention lease and sweeps once. It returns false when the
// lease is held elsewhere or the sweep failed.
func (s *Scheduler) RunRetention(ctx context.Context) bool {
	acquired, err := s.LockDB.TryAcquireLock(ctx, RetentionJob, s.instanceID, leaseTTL)
	if err != nil {
		s.log.Errorw("failed to acquire lock for retention job", "error", err)
		return false
	}
	if !acquired {
		s.log.Debug("retention job already running on another instance, skipping")
		return false
	}
	defer func() {
		if err := s.LockDB.ReleaseLock(ctx, RetentionJob, s.instanceID); err != nil {
			s.log.Warnw("failed to release retention lock", "error", err)
		}
	}()

	start := time.Now()
	res, err := s.Sweeper.Sweep(ctx)
	if err != nil {
		s.log.Errorw("retention sweep failed", "instance", s.instanceID, "error", err)
		return false
	}
	s.log.Infow("retention job complete",
		"instance", s.instanceID,
		"hardDeleted", len(res.HardDeleted),
		"archived", len(res.Archived),
		"duration", time.Since(start))
	return true
}
