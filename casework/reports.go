package casework

import (
	"context"
	"strings"
	"time"

	"github.com/linesmerrill/claim-reports-api/casekey"
	"github.com/linesmerrill/claim-reports-api/lifecycle"
	"github.com/linesmerrill/claim-reports-api/models"
	"github.com/linesmerrill/claim-reports-api/notifications"
)

// CreateReportInput is what a caller supplies for a new draft
type CreateReportInput struct {
	CaseNumber      string `json:"caseNumber"`
	ExpensesSheetID string `json:"expensesSheetId"`
	// BasedOnSnapshotID seeds the draft from an earlier sent version
	BasedOnSnapshotID string               `json:"basedOnSnapshotId"`
	Content           models.ReportContent `json:"content"`
}

// ReportPatch holds the editable fields of a report. Nil fields are left alone.
type ReportPatch struct {
	CaseNumber      *string               `json:"caseNumber,omitempty"`
	ExpensesSheetID *string               `json:"expensesSheetId,omitempty"`
	Content         *models.ReportContent `json:"content,omitempty"`
}

// TransitionInput asks for a status change
type TransitionInput struct {
	To       models.ReportStatus `json:"to"`
	FileName string              `json:"fileName"`
}

// CreateReport stores a new draft and makes sure its case has a folder
func (s *Service) CreateReport(ctx context.Context, actor Actor, in CreateReportInput) (models.ReportWithLock, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.Now()
	reports, err := s.Store.LoadReports(ctx)
	if err != nil {
		return models.ReportWithLock{}, err
	}

	params := lifecycle.NewReportParams{
		ID:              s.NewID(),
		CaseNumber:      in.CaseNumber,
		CreatedByID:     actor.UserID,
		ExpensesSheetID: in.ExpensesSheetID,
		Content:         in.Content,
	}

	var snap *models.Snapshot
	if in.BasedOnSnapshotID != "" {
		found, err := s.findSnapshot(ctx, reports, in.BasedOnSnapshotID)
		if err != nil {
			return models.ReportWithLock{}, err
		}
		snap = &found
		if strings.TrimSpace(params.CaseNumber) == "" {
			params.CaseNumber = found.CaseNumber
		}
	}

	folder, err := s.Store.LoadCaseFolder(ctx, casekey.Normalize(params.CaseNumber))
	if err != nil {
		return models.ReportWithLock{}, err
	}

	var r models.Report
	if snap != nil {
		r, err = lifecycle.SeedFromSnapshot(params, *snap, reports, folder, now)
	} else {
		r, err = lifecycle.CreateReport(params, reports, folder, now)
	}
	if err != nil {
		return models.ReportWithLock{}, err
	}

	folder = lifecycle.UpsertFromReport(folder, &r, now)
	reports = append(reports, r)
	if err := s.persist(ctx, reports, folder); err != nil {
		return models.ReportWithLock{}, err
	}

	s.logger().Infow("report created",
		"reportId", r.ID,
		"caseKey", r.CaseKey,
		"basedOn", r.BasedOnSnapshotID,
		"by", actor.UserID)
	return s.view(r, folder, now), nil
}

// GetReport returns a report with its current lock state
func (s *Service) GetReport(ctx context.Context, id string) (models.ReportWithLock, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	reports, idx, folder, err := s.loadReport(ctx, id)
	if err != nil {
		return models.ReportWithLock{}, err
	}
	return s.view(reports[idx], folder, s.Now()), nil
}

// ListReports returns the reports shown in the given view
func (s *Service) ListReports(ctx context.Context, bucket lifecycle.Bucket) ([]models.ReportWithLock, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.Now()
	reports, err := s.Store.LoadReports(ctx)
	if err != nil {
		return nil, err
	}
	folders, err := s.Store.LoadCaseFolders(ctx)
	if err != nil {
		return nil, err
	}

	out := []models.ReportWithLock{}
	for _, r := range reports {
		if s.Policy.Classify(&r, now) != bucket {
			continue
		}
		out = append(out, s.view(r, folders[r.CaseKey], now))
	}
	return out, nil
}

// UpdateReport applies patch if the report's lock state allows it. Moving a draft to
// another case is allowed unless that case is closed.
func (s *Service) UpdateReport(ctx context.Context, actor Actor, id string, patch ReportPatch) (models.ReportWithLock, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.Now()
	reports, idx, folder, err := s.loadReport(ctx, id)
	if err != nil {
		return models.ReportWithLock{}, err
	}

	wasLocked := s.Policy.LockState(&reports[idx], folder, now).IsLocked
	out, err := s.Policy.Mutate(reports[idx], folder, now, actor.Override(), func(r *models.Report) error {
		if patch.CaseNumber != nil {
			r.CaseNumber = strings.TrimSpace(*patch.CaseNumber)
		}
		if patch.ExpensesSheetID != nil {
			r.ExpensesSheetID = *patch.ExpensesSheetID
		}
		if patch.Content != nil {
			r.Content = *patch.Content
		}
		return nil
	})
	if err != nil {
		return models.ReportWithLock{}, err
	}

	if out.CaseKey != reports[idx].CaseKey {
		folder, err = s.Store.LoadCaseFolder(ctx, out.CaseKey)
		if err != nil {
			return models.ReportWithLock{}, err
		}
		if folder.IsClosed() {
			return models.ReportWithLock{}, lifecycle.NewError(lifecycle.CodeCaseClosed, "case is closed", map[string]string{"caseKey": folder.CaseKey})
		}
	}

	folder = lifecycle.UpsertFromReport(folder, &out, now)
	reports[idx] = out
	if err := s.persist(ctx, reports, folder); err != nil {
		return models.ReportWithLock{}, err
	}
	if wasLocked {
		s.logger().Warnw("lock overridden", "reportId", id, "by", actor.UserID, "reason", actor.OverrideReason)
	}
	return s.view(out, folder, now), nil
}

// Transition moves a report to another status. Sending builds a snapshot, appends
// it to the case folder and notifies the recipient once everything is stored.
func (s *Service) Transition(ctx context.Context, actor Actor, id string, in TransitionInput) (models.ReportWithLock, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.Now()
	reports, idx, folder, err := s.loadReport(ctx, id)
	if err != nil {
		return models.ReportWithLock{}, err
	}

	wasLocked := s.Policy.LockState(&reports[idx], folder, now).IsLocked
	res, err := s.Policy.Transition(reports[idx], folder, lifecycle.TransitionRequest{
		To:       in.To,
		Now:      now,
		FileName: in.FileName,
		Override: actor.Override(),
		Reports:  reports,
	})
	if err != nil {
		return models.ReportWithLock{}, err
	}

	from := reports[idx].Status
	reports[idx] = res.Report
	var changed *models.CaseFolder
	if res.Snapshot != nil {
		changed = res.Folder
	}
	if err := s.persist(ctx, reports, changed); err != nil {
		return models.ReportWithLock{}, err
	}

	s.logger().Infow("report transitioned",
		"reportId", id,
		"from", from,
		"to", res.Report.Status,
		"sequenceNumber", res.Report.SequenceNumber,
		"by", actor.UserID)
	if wasLocked {
		s.logger().Warnw("lock overridden", "reportId", id, "by", actor.UserID, "reason", actor.OverrideReason)
	}
	if res.Append.Duplicate {
		s.logger().Infow("snapshot already in case folder", "reportId", id, "signal", res.Append.Signal())
	}
	if res.Snapshot != nil {
		s.notify(ctx, res)
	}
	return s.view(res.Report, res.Folder, now), nil
}

// LockReport applies a manual lock
func (s *Service) LockReport(ctx context.Context, actor Actor, id, reason string) (models.ReportWithLock, error) {
	return s.updateReport(ctx, id, func(r models.Report, folder *models.CaseFolder, now time.Time) (models.Report, error) {
		return lifecycle.ApplyManualLock(r, folder, models.AuditRecord{At: now, ByID: actor.UserID, Reason: reason})
	})
}

// UnlockReport releases a manual lock. Only an admin override can lift it.
func (s *Service) UnlockReport(ctx context.Context, actor Actor, id string) (models.ReportWithLock, error) {
	return s.updateReport(ctx, id, func(r models.Report, folder *models.CaseFolder, now time.Time) (models.Report, error) {
		return s.Policy.ReleaseManualLock(r, folder, now, actor.Override())
	})
}

// ExtendLock pushes the auto-lock horizon of a sent report out by days. A report
// that has already locked needs an admin override.
func (s *Service) ExtendLock(ctx context.Context, actor Actor, id string, days int, reason string) (models.ReportWithLock, error) {
	return s.updateReport(ctx, id, func(r models.Report, folder *models.CaseFolder, now time.Time) (models.Report, error) {
		return s.Policy.ExtendLock(r, folder, models.LockExtension{At: now, ByID: actor.UserID, Days: days, Reason: reason}, actor.Override())
	})
}

// DeleteReport moves a report to the trash
func (s *Service) DeleteReport(ctx context.Context, actor Actor, id string) (models.ReportWithLock, error) {
	return s.updateReport(ctx, id, func(r models.Report, folder *models.CaseFolder, now time.Time) (models.Report, error) {
		return s.Policy.SoftDelete(r, folder, now, actor.UserID, actor.Override())
	})
}

// RestoreReport takes a report out of the trash
func (s *Service) RestoreReport(ctx context.Context, actor Actor, id string) (models.ReportWithLock, error) {
	return s.updateReport(ctx, id, func(r models.Report, folder *models.CaseFolder, now time.Time) (models.Report, error) {
		return lifecycle.Restore(r, folder, now)
	})
}

func (s *Service) updateReport(ctx context.Context, id string, apply func(models.Report, *models.CaseFolder, time.Time) (models.Report, error)) (models.ReportWithLock, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.Now()
	reports, idx, folder, err := s.loadReport(ctx, id)
	if err != nil {
		return models.ReportWithLock{}, err
	}
	out, err := apply(reports[idx], folder, now)
	if err != nil {
		return models.ReportWithLock{}, err
	}
	reports[idx] = out
	if err := s.persist(ctx, reports, nil); err != nil {
		return models.ReportWithLock{}, err
	}
	return s.view(out, folder, now), nil
}

func (s *Service) notify(ctx context.Context, res lifecycle.TransitionResult) {
	notice := notifications.ReportSentNotice{
		Report:     res.Report,
		Snapshot:   *res.Snapshot,
		Supersedes: res.Append.Entry.Supersedes,
	}
	if res.Folder != nil {
		notice.ReTemplate = res.Folder.ReTemplate
	}
	if err := s.Notifier.ReportSent(ctx, notice); err != nil {
		s.logger().Warnw("report sent notification failed",
			"reportId", res.Report.ID,
			"snapshotId", res.Snapshot.ID,
			"error", err)
	}
}

// findSnapshot looks a snapshot up in the case folders first, then in report
// histories so caseless reports can be used as a base too
func (s *Service) findSnapshot(ctx context.Context, reports []models.Report, snapshotID string) (models.Snapshot, error) {
	folders, err := s.Store.LoadCaseFolders(ctx)
	if err != nil {
		return models.Snapshot{}, err
	}
	for _, f := range folders {
		if snap, ok := lifecycle.FindSnapshot(f, snapshotID); ok {
			return snap, nil
		}
	}
	for i := range reports {
		for _, h := range reports[i].History {
			if h.ID == snapshotID {
				return lifecycle.CloneSnapshot(h), nil
			}
		}
	}
	return models.Snapshot{}, lifecycle.NotFound("snapshot", snapshotID)
}
