package lifecycle

import (
	"fmt"
	"time"

	"github.com/linesmerrill/claim-reports-api/models"
)

// SnapshotID is derived from the report and its history length so a retried
// finalize produces the same id and can be detected as a duplicate.
func SnapshotID(reportID string, historyIndex int) string {
	return fmt.Sprintf("%s#%d", reportID, historyIndex+1)
}

// BuildSnapshot copies r at sentAt. The result shares no memory with r.
func BuildSnapshot(r *models.Report, sentAt time.Time, fileName string, isResend bool) models.Snapshot {
	return models.Snapshot{
		ID:              SnapshotID(r.ID, len(r.History)),
		ReportID:        r.ID,
		CreatedAt:       sentAt,
		SequenceNumber:  r.SequenceNumber,
		CaseKey:         r.CaseKey,
		CaseNumber:      r.CaseNumber,
		ExpensesSheetID: r.ExpensesSheetID,
		FileName:        fileName,
		IsResend:        isResend,
		Content:         cloneContent(r.Content),
	}
}

// CloneSnapshot deep-copies s for callers deriving new data from it
func CloneSnapshot(s models.Snapshot) models.Snapshot {
	out := s
	out.Content = cloneContent(s.Content)
	return out
}

// CloneReport deep-copies r
func CloneReport(r models.Report) models.Report {
	out := r
	out.FirstSentAt = cloneTime(r.FirstSentAt)
	out.DeletedAt = cloneTime(r.DeletedAt)
	out.ManualLock = cloneAudit(r.ManualLock)
	out.AdminOverride = cloneAudit(r.AdminOverride)
	out.LockExtensions = append([]models.LockExtension{}, r.LockExtensions...)
	out.History = make([]models.Snapshot, len(r.History))
	for i := range r.History {
		out.History[i] = CloneSnapshot(r.History[i])
	}
	out.Content = cloneContent(r.Content)
	return out
}

// CloneFolder deep-copies f
func CloneFolder(f models.CaseFolder) models.CaseFolder {
	out := f
	out.ClosedAt = cloneTime(f.ClosedAt)
	out.SentReports = make([]models.SentReport, len(f.SentReports))
	for i := range f.SentReports {
		out.SentReports[i] = f.SentReports[i]
		out.SentReports[i].Snapshot = CloneSnapshot(f.SentReports[i].Snapshot)
	}
	return out
}

func cloneContent(c models.ReportContent) models.ReportContent {
	out := c
	out.Sections = cloneStringMap(c.Sections)
	out.Metadata = cloneStringMap(c.Metadata)
	if c.SelectedSections != nil {
		out.SelectedSections = append([]string{}, c.SelectedSections...)
	}
	if c.Attachments != nil {
		out.Attachments = append([]models.Attachment{}, c.Attachments...)
	}
	return out
}

func cloneStringMap(m map[string]string) map[string]string {
	if m == nil {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

func cloneAudit(a *models.AuditRecord) *models.AuditRecord {
	if a == nil {
		return nil
	}
	v := *a
	return &v
}
