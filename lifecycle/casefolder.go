package lifecycle

import (
	"fmt"
	"time"

	"github.com/linesmerrill/claim-reports-api/casekey"
	"github.com/linesmerrill/claim-reports-api/models"
)

// AppendResult describes what AppendSentReport did
type AppendResult struct {
	Entry models.SentReport
	// Duplicate is set when the snapshot was already in the folder; nothing changed
	Duplicate bool
}

// Signal returns the DUPLICATE_SNAPSHOT code for duplicate appends, "" otherwise
func (a AppendResult) Signal() Code {
	if a.Duplicate {
		return CodeDuplicateSnapshot
	}
	return ""
}

// UpsertFromReport creates the folder for r's case or refreshes its display cache.
// SentReports are never touched. A caseless report, or one belonging to a different
// case, leaves folder as it is.
func UpsertFromReport(folder *models.CaseFolder, r *models.Report, now time.Time) *models.CaseFolder {
	if r.CaseKey == "" {
		return folder
	}
	if folder != nil && folder.CaseKey != r.CaseKey {
		return folder
	}

	var out models.CaseFolder
	changed := folder == nil
	if folder == nil {
		out = models.CaseFolder{
			CaseKey:     r.CaseKey,
			SentReports: []models.SentReport{},
			CreatedAt:   now,
		}
	} else {
		out = CloneFolder(*folder)
	}

	set := func(dst *string, v string) {
		if v != "" && *dst != v {
			*dst = v
			changed = true
		}
	}
	set(&out.CaseNumber, r.CaseNumber)
	set(&out.InsuredName, r.Content.InsuredName)
	set(&out.ClaimantName, r.Content.ClaimantName)
	set(&out.InsurerName, r.Content.InsurerName)
	set(&out.ClaimNumber, r.Content.ClaimNumber)

	if changed {
		out.UpdatedAt = now
	}
	return &out
}

// AppendSentReport records snap in the folder. Re-appending a snapshot id already
// present is a no-op. When the snapshot belongs to a recurring sub-report, the
// current head of that chain is marked superseded by the new entry.
func AppendSentReport(folder models.CaseFolder, snap models.Snapshot) (models.CaseFolder, AppendResult, error) {
	for _, e := range folder.SentReports {
		if e.ID == snap.ID {
			return folder, AppendResult{Entry: e, Duplicate: true}, nil
		}
	}
	if folder.IsClosed() {
		return folder, AppendResult{}, NewError(CodeCaseClosed, "case is closed", map[string]string{"caseKey": folder.CaseKey})
	}
	if snap.CaseKey != folder.CaseKey {
		return folder, AppendResult{}, NewError(CodeInvalidInput, "snapshot belongs to another case", map[string]string{
			"caseKey":         folder.CaseKey,
			"snapshotCaseKey": snap.CaseKey,
		})
	}

	out := CloneFolder(folder)
	entry := models.SentReport{
		ID:             snap.ID,
		ReportID:       snap.ReportID,
		SequenceNumber: snap.SequenceNumber,
		SentAt:         snap.CreatedAt,
		FileName:       snap.FileName,
		IsResend:       snap.IsResend,
		RecurringKey:   snap.ExpensesSheetID,
		Snapshot:       CloneSnapshot(snap),
	}
	if entry.RecurringKey != "" {
		if i := chainHead(out.SentReports, entry.RecurringKey); i >= 0 {
			out.SentReports[i].SupersededBy = entry.ID
			entry.Supersedes = out.SentReports[i].ID
		}
	}
	out.SentReports = append(out.SentReports, entry)
	if snap.CreatedAt.After(out.UpdatedAt) {
		out.UpdatedAt = snap.CreatedAt
	}

	if err := ValidateChain(out.SentReports); err != nil {
		return folder, AppendResult{}, err
	}
	return out, AppendResult{Entry: entry}, nil
}

// ValidateChain checks the supersession links of entries: ids are unique, every link
// is reciprocal, points strictly forward in append order and stays within one
// recurring key, and each recurring key has exactly one unsuperseded head.
func ValidateChain(entries []models.SentReport) error {
	index := make(map[string]int, len(entries))
	for i, e := range entries {
		if _, dup := index[e.ID]; dup {
			return chainError("duplicate entry id %q", e.ID)
		}
		index[e.ID] = i
	}

	heads := make(map[string]int)
	for i, e := range entries {
		if e.Supersedes != "" {
			j, ok := index[e.Supersedes]
			switch {
			case !ok:
				return chainError("%q supersedes unknown entry %q", e.ID, e.Supersedes)
			case j >= i:
				return chainError("%q supersedes a later entry %q", e.ID, e.Supersedes)
			case entries[j].SupersededBy != e.ID:
				return chainError("%q supersedes %q without a back link", e.ID, e.Supersedes)
			case entries[j].RecurringKey != e.RecurringKey:
				return chainError("%q supersedes %q across recurring keys", e.ID, e.Supersedes)
			}
		}
		if e.SupersededBy != "" {
			j, ok := index[e.SupersededBy]
			switch {
			case !ok:
				return chainError("%q superseded by unknown entry %q", e.ID, e.SupersededBy)
			case j <= i:
				return chainError("%q superseded by an earlier entry %q", e.ID, e.SupersededBy)
			case entries[j].Supersedes != e.ID:
				return chainError("%q superseded by %q without a forward link", e.ID, e.SupersededBy)
			}
		} else if e.RecurringKey != "" {
			heads[e.RecurringKey]++
		}
	}
	for key, n := range heads {
		if n > 1 {
			return chainError("recurring key %q has %d heads", key, n)
		}
	}
	return nil
}

// ActiveChainHead returns the newest, unsuperseded entry for a recurring key
func ActiveChainHead(folder *models.CaseFolder, recurringKey string) (models.SentReport, bool) {
	if folder == nil || recurringKey == "" {
		return models.SentReport{}, false
	}
	if i := chainHead(folder.SentReports, recurringKey); i >= 0 {
		return folder.SentReports[i], true
	}
	return models.SentReport{}, false
}

// FindSnapshot looks a snapshot up in the folder's history
func FindSnapshot(folder *models.CaseFolder, snapshotID string) (models.Snapshot, bool) {
	if folder == nil {
		return models.Snapshot{}, false
	}
	for _, e := range folder.SentReports {
		if e.ID == snapshotID {
			return CloneSnapshot(e.Snapshot), true
		}
	}
	return models.Snapshot{}, false
}

// CloseCase marks the case closed. It is refused while any report of the case is
// neither sent nor soft-deleted. Closing a closed case is a no-op.
func CloseCase(folder models.CaseFolder, reports []models.Report, byID string, now time.Time) (models.CaseFolder, error) {
	if folder.IsClosed() {
		return folder, nil
	}
	var open []string
	for i := range reports {
		r := &reports[i]
		if r.DeletedAt != nil || r.Status == models.StatusSent {
			continue
		}
		if casekey.Same(r.CaseKey, folder.CaseKey) {
			open = append(open, r.ID)
		}
	}
	if len(open) > 0 {
		return folder, NewError(CodeOpenDraftsExist, "case has unsent reports", map[string][]string{"reportIds": open})
	}

	out := CloneFolder(folder)
	at := now
	out.ClosedAt = &at
	out.ClosedByUserID = byID
	out.UpdatedAt = now
	return out, nil
}

// ReopenCase clears the closure so reports can be created and edited again
func ReopenCase(folder models.CaseFolder, now time.Time) models.CaseFolder {
	if !folder.IsClosed() {
		return folder
	}
	out := CloneFolder(folder)
	out.ClosedAt = nil
	out.ClosedByUserID = ""
	out.UpdatedAt = now
	return out
}

// SetReTemplate replaces the subject template. It ignores lock state.
func SetReTemplate(folder models.CaseFolder, template string, now time.Time) models.CaseFolder {
	if folder.ReTemplate == template {
		return folder
	}
	out := CloneFolder(folder)
	out.ReTemplate = template
	out.UpdatedAt = now
	return out
}

func chainHead(entries []models.SentReport, recurringKey string) int {
	for i := len(entries) - 1; i >= 0; i-- {
		if entries[i].RecurringKey == recurringKey && entries[i].SupersededBy == "" {
			return i
		}
	}
	return -1
}

func chainError(format string, args ...interface{}) *Error {
	return NewError(CodeBrokenChain, fmt.Sprintf(format, args...), nil)
}
