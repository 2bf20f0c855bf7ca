package lifecycle

import (
	"strings"
	"time"

	"github.com/linesmerrill/claim-reports-api/casekey"
	"github.com/linesmerrill/claim-reports-api/models"
)

// NewReportParams carries what the caller knows about a report being created
type NewReportParams struct {
	ID              string
	CaseNumber      string
	CreatedByID     string
	ExpensesSheetID string
	Content         models.ReportContent
}

// CreateReport builds a new draft. Its sequence number is provisional: it is
// resolved again against the case history on first send.
func CreateReport(params NewReportParams, reports []models.Report, folder *models.CaseFolder, now time.Time) (models.Report, error) {
	if strings.TrimSpace(params.ID) == "" {
		return models.Report{}, NewError(CodeInvalidInput, "report id is required", nil)
	}
	key := casekey.Normalize(params.CaseNumber)
	if key != "" && folder != nil && folder.CaseKey == key && folder.IsClosed() {
		return models.Report{}, NewError(CodeCaseClosed, "case is closed", map[string]string{"caseKey": key})
	}

	return models.Report{
		ID:              params.ID,
		CaseKey:         key,
		CaseNumber:      strings.TrimSpace(params.CaseNumber),
		Status:          models.StatusDraft,
		SequenceNumber:  NextSequenceNumber(key, reports, folder),
		LockExtensions:  []models.LockExtension{},
		History:         []models.Snapshot{},
		ExpensesSheetID: params.ExpensesSheetID,
		Content:         cloneContent(params.Content),
		CreatedByID:     params.CreatedByID,
		CreatedAt:       now,
		UpdatedAt:       now,
	}, nil
}

// SeedFromSnapshot creates the "next report" of a case from a prior snapshot. Fields
// left empty in params are taken from the snapshot.
func SeedFromSnapshot(params NewReportParams, snap models.Snapshot, reports []models.Report, folder *models.CaseFolder, now time.Time) (models.Report, error) {
	if strings.TrimSpace(params.CaseNumber) == "" {
		params.CaseNumber = snap.CaseNumber
	}
	if params.ExpensesSheetID == "" {
		params.ExpensesSheetID = snap.ExpensesSheetID
	}
	params.Content = CloneSnapshot(snap).Content

	r, err := CreateReport(params, reports, folder, now)
	if err != nil {
		return r, err
	}
	r.BasedOnSnapshotID = snap.ID
	return r, nil
}

// ApplyManualLock locks r until the lock is released. Locking an already locked
// report is a no-op.
func ApplyManualLock(r models.Report, folder *models.CaseFolder, rec models.AuditRecord) (models.Report, error) {
	if err := checkWritable(&r, folder); err != nil {
		return r, err
	}
	if r.ManualLock != nil {
		return r, nil
	}
	out := CloneReport(r)
	out.ManualLock = &rec
	out.UpdatedAt = rec.At
	return out, nil
}

// ReleaseManualLock reopens a manually locked report. Lifting a lock is a bypass
// like any other mutation: it needs an override, which is stamped on the report.
// The auto-lock horizon still applies afterwards.
func (p Policy) ReleaseManualLock(r models.Report, folder *models.CaseFolder, now time.Time, o *Override) (models.Report, error) {
	if err := checkWritable(&r, folder); err != nil {
		return r, err
	}
	if r.ManualLock == nil {
		return r, nil
	}
	audit, err := p.gate(&r, folder, now, o)
	if err != nil {
		return r, err
	}
	out := CloneReport(r)
	out.ManualLock = nil
	out.AdminOverride = audit
	out.UpdatedAt = now
	return out, nil
}

// ExtendLock appends ext to the report's extensions. Extensions only ever push the
// horizon forward, so Days must be positive. Anyone may extend a report that is
// still open; once it is locked the extension needs an override.
func (p Policy) ExtendLock(r models.Report, folder *models.CaseFolder, ext models.LockExtension, o *Override) (models.Report, error) {
	if ext.Days < 1 {
		return r, NewError(CodeInvalidInput, "extension must be at least one day", map[string]int{"days": ext.Days})
	}
	if err := checkWritable(&r, folder); err != nil {
		return r, err
	}
	if r.Status != models.StatusSent {
		return r, NewError(CodeInvalidInput, "only sent reports have a lock horizon", map[string]models.ReportStatus{"status": r.Status})
	}
	audit, err := p.gate(&r, folder, ext.At, o)
	if err != nil {
		return r, err
	}
	out := CloneReport(r)
	out.LockExtensions = append(out.LockExtensions, ext)
	if audit != nil {
		out.AdminOverride = audit
	}
	out.UpdatedAt = ext.At
	return out, nil
}

// SoftDelete moves r to the trash. It is a mutation and obeys the lock state.
func (p Policy) SoftDelete(r models.Report, folder *models.CaseFolder, now time.Time, byID string, o *Override) (models.Report, error) {
	if r.DeletedAt != nil {
		return r, nil
	}
	audit, err := p.gate(&r, folder, now, o)
	if err != nil {
		return r, err
	}
	out := CloneReport(r)
	if audit != nil {
		out.AdminOverride = audit
	}
	at := now
	out.DeletedAt = &at
	out.DeletedBy = byID
	out.UpdatedAt = now
	return out, nil
}

// Restore takes r out of the trash
func Restore(r models.Report, folder *models.CaseFolder, now time.Time) (models.Report, error) {
	if r.DeletedAt == nil {
		return r, nil
	}
	if folder.IsClosed() {
		return r, NewError(CodeCaseClosed, "case is closed", map[string]string{"caseKey": folder.CaseKey})
	}
	out := CloneReport(r)
	out.DeletedAt = nil
	out.DeletedBy = ""
	out.UpdatedAt = now
	return out, nil
}

func checkWritable(r *models.Report, folder *models.CaseFolder) error {
	if r.DeletedAt != nil {
		return NewError(CodeReportDeleted, "report is in the trash", map[string]string{"reportId": r.ID})
	}
	if folder.IsClosed() {
		return NewError(CodeCaseClosed, "case is closed", map[string]string{"caseKey": folder.CaseKey})
	}
	return nil
}
