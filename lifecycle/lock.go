package lifecycle

import (
	"time"

	"github.com/linesmerrill/claim-reports-api/models"
)

// ComputeLockState evaluates r against the default policy
func ComputeLockState(r *models.Report, folder *models.CaseFolder, now time.Time) models.LockState {
	return DefaultPolicy.LockState(r, folder, now)
}

// LockState decides whether r may be mutated at now. First match wins: closed case,
// manual lock, unsent status (never locked), then the auto-lock horizon.
func (p Policy) LockState(r *models.Report, folder *models.CaseFolder, now time.Time) models.LockState {
	if folder.IsClosed() {
		return models.LockState{IsLocked: true, LockType: models.LockCaseClosed, LockAt: cloneTime(folder.ClosedAt)}
	}
	if r.ManualLock != nil {
		at := r.ManualLock.At
		return models.LockState{IsLocked: true, LockType: models.LockManual, LockAt: &at}
	}
	if r.Status != models.StatusSent {
		return models.LockState{LockType: models.LockNone}
	}

	horizon, ok := p.LockHorizon(r, now)
	if !ok {
		return models.LockState{LockType: models.LockNone}
	}
	if now.After(horizon) {
		return models.LockState{IsLocked: true, LockType: models.LockAuto, LockAt: &horizon}
	}
	return models.LockState{LockType: models.LockNone, LockAt: &horizon}
}

// LockHorizon is the instant after which a sent report auto-locks, counting only
// extensions recorded on or before now. ok is false when the report was never sent.
func (p Policy) LockHorizon(r *models.Report, now time.Time) (horizon time.Time, ok bool) {
	start := firstSent(r)
	if start == nil {
		return time.Time{}, false
	}
	horizon = start.Add(p.AutoLockAfter)
	for _, ext := range r.LockExtensions {
		if ext.Days <= 0 || ext.At.After(now) {
			continue
		}
		horizon = horizon.Add(time.Duration(ext.Days) * Day)
	}
	return horizon, true
}

// firstSent falls back to the oldest snapshot for reports persisted before
// FirstSentAt was tracked.
func firstSent(r *models.Report) *time.Time {
	if r.FirstSentAt != nil {
		return r.FirstSentAt
	}
	var earliest *time.Time
	for i := range r.History {
		at := r.History[i].CreatedAt
		if earliest == nil || at.Before(*earliest) {
			earliest = &at
		}
	}
	return earliest
}

// gate checks that r may be mutated at now. When a lock is active and a privileged
// override was supplied it returns the audit record to stamp on the report.
func (p Policy) gate(r *models.Report, folder *models.CaseFolder, now time.Time, o *Override) (*models.AuditRecord, error) {
	if r.DeletedAt != nil {
		return nil, NewError(CodeReportDeleted, "report is in the trash", map[string]string{"reportId": r.ID})
	}
	state := p.LockState(r, folder, now)
	if !state.IsLocked {
		return nil, nil
	}
	if state.LockType == models.LockCaseClosed {
		return nil, NewError(CodeCaseClosed, "case is closed", map[string]string{"caseKey": folder.CaseKey})
	}
	if o == nil || o.ByID == "" {
		return nil, NewError(CodeLocked, "report is locked", state)
	}
	return o.record(now), nil
}
