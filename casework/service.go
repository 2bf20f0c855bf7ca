// Package casework runs the report lifecycle against persisted state. Every call
// loads the current reports and case folder, takes one clock reading, applies the
// lifecycle rules and writes the result back. Calls are serialised.
package casework

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/linesmerrill/claim-reports-api/databases"
	"github.com/linesmerrill/claim-reports-api/lifecycle"
	"github.com/linesmerrill/claim-reports-api/logging"
	"github.com/linesmerrill/claim-reports-api/models"
	"github.com/linesmerrill/claim-reports-api/notifications"
)

// RoleAdmin may override auto and manual locks
const RoleAdmin = "admin"

// Actor is the caller of an operation as reported by the auth layer
type Actor struct {
	UserID string
	Role   string
	// OverrideReason asks to bypass a lock. Only admins can use it.
	OverrideReason string
}

// Override returns the lock override the actor is entitled to, if any
func (a Actor) Override() *lifecycle.Override {
	if a.Role != RoleAdmin || strings.TrimSpace(a.OverrideReason) == "" {
		return nil
	}
	return &lifecycle.Override{ByID: a.UserID, Reason: strings.TrimSpace(a.OverrideReason)}
}

// Service serialises read-modify-write cycles over a Store
type Service struct {
	Store    databases.Store
	Notifier notifications.Notifier
	Policy   lifecycle.Policy
	Now      func() time.Time
	NewID    func() string

	log *zap.SugaredLogger
	mu  sync.Mutex
}

// NewService returns a Service using the wall clock and uuid report ids
func NewService(store databases.Store, notifier notifications.Notifier, policy lifecycle.Policy) *Service {
	if notifier == nil {
		notifier = notifications.NopNotifier{}
	}
	return &Service{
		Store:    store,
		Notifier: notifier,
		Policy:   policy,
		Now:      func() time.Time { return time.Now().UTC() },
		NewID:    uuid.NewString,
		log:      logging.New("casework"),
	}
}

func (s *Service) logger() *zap.SugaredLogger {
	if s.log == nil {
		s.log = logging.New("casework")
	}
	return s.log
}

// view pairs a report with its lock state and bucket at now
func (s *Service) view(r models.Report, folder *models.CaseFolder, now time.Time) models.ReportWithLock {
	return models.ReportWithLock{
		Report: r,
		Lock:   s.Policy.LockState(&r, folder, now),
		Bucket: string(s.Policy.Classify(&r, now)),
	}
}

// loadReport returns every report plus the index of id and the folder of its case
func (s *Service) loadReport(ctx context.Context, id string) ([]models.Report, int, *models.CaseFolder, error) {
	reports, err := s.Store.LoadReports(ctx)
	if err != nil {
		return nil, -1, nil, err
	}
	idx := indexOf(reports, id)
	if idx < 0 {
		return nil, -1, nil, lifecycle.NotFound("report", id)
	}
	folder, err := s.Store.LoadCaseFolder(ctx, reports[idx].CaseKey)
	if err != nil {
		return nil, -1, nil, err
	}
	return reports, idx, folder, nil
}

// persist writes the folder before the reports. If the report write fails the
// folder entry is found again on retry and the append is a no-op.
func (s *Service) persist(ctx context.Context, reports []models.Report, folder *models.CaseFolder) error {
	if folder != nil {
		if err := s.Store.SaveCaseFolder(ctx, *folder); err != nil {
			return fmt.Errorf("failed to save case folder: %w", err)
		}
	}
	if err := s.Store.SaveReports(ctx, reports); err != nil {
		return fmt.Errorf("failed to save reports: %w", err)
	}
	return nil
}

func indexOf(reports []models.Report, id string) int {
	for i := range reports {
		if reports[i].ID == id {
			return i
		}
	}
	return -1
}
