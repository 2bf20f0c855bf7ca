package models

import "time"

// ReportStatus is the lifecycle status of a report document
type ReportStatus string

// Report statuses
const (
	StatusDraft              ReportStatus = "DRAFT"
	StatusTaskAssigned       ReportStatus = "TASK_ASSIGNED"
	StatusWaitingForInvoices ReportStatus = "WAITING_FOR_INVOICES"
	StatusReadyToSend        ReportStatus = "READY_TO_SEND"
	StatusSent               ReportStatus = "SENT"
)

// Valid reports whether s is one of the known statuses
func (s ReportStatus) Valid() bool {
	switch s {
	case StatusDraft, StatusTaskAssigned, StatusWaitingForInvoices, StatusReadyToSend, StatusSent:
		return true
	}
	return false
}

// Report represents a working claim report. Everything except History is mutable
// while the report is unlocked.
type Report struct {
	ID                string          `bson:"_id" json:"id"`
	CaseKey           string          `bson:"caseKey,omitempty" json:"caseKey,omitempty"`
	CaseNumber        string          `bson:"caseNumber,omitempty" json:"caseNumber,omitempty"`
	Status            ReportStatus    `bson:"status" json:"status"`
	SequenceNumber    int             `bson:"sequenceNumber" json:"sequenceNumber"`
	FirstSentAt       *time.Time      `bson:"firstSentAt,omitempty" json:"firstSentAt,omitempty"`
	ManualLock        *AuditRecord    `bson:"manualLock,omitempty" json:"manualLock,omitempty"`
	LockExtensions    []LockExtension `bson:"lockExtensions" json:"lockExtensions"`
	AdminOverride     *AuditRecord    `bson:"adminOverride,omitempty" json:"adminOverride,omitempty"`
	History           []Snapshot      `bson:"history" json:"history"`
	DeletedAt         *time.Time      `bson:"deletedAt,omitempty" json:"deletedAt,omitempty"`
	DeletedBy         string          `bson:"deletedBy,omitempty" json:"deletedBy,omitempty"`
	ExpensesSheetID   string          `bson:"expensesSheetId,omitempty" json:"expensesSheetId,omitempty"`
	BasedOnSnapshotID string          `bson:"basedOnSnapshotId,omitempty" json:"basedOnSnapshotId,omitempty"`
	Content           ReportContent   `bson:"content" json:"content"`
	CreatedByID       string          `bson:"createdById,omitempty" json:"createdById,omitempty"`
	CreatedAt         time.Time       `bson:"createdAt" json:"createdAt"`
	UpdatedAt         time.Time       `bson:"updatedAt" json:"updatedAt"`
}

// ReportContent holds the editable body and metadata of a report
type ReportContent struct {
	Title            string            `bson:"title" json:"title"`
	InsuredName      string            `bson:"insuredName,omitempty" json:"insuredName,omitempty"`
	ClaimantName     string            `bson:"claimantName,omitempty" json:"claimantName,omitempty"`
	InsurerName      string            `bson:"insurerName,omitempty" json:"insurerName,omitempty"`
	ClaimNumber      string            `bson:"claimNumber,omitempty" json:"claimNumber,omitempty"`
	RecipientEmail   string            `bson:"recipientEmail,omitempty" json:"recipientEmail,omitempty"`
	Sections         map[string]string `bson:"sections,omitempty" json:"sections,omitempty"`
	SelectedSections []string          `bson:"selectedSections,omitempty" json:"selectedSections,omitempty"`
	Attachments      []Attachment      `bson:"attachments,omitempty" json:"attachments,omitempty"`
	Metadata         map[string]string `bson:"metadata,omitempty" json:"metadata,omitempty"`
}

// Attachment references an uploaded file (invoice, photo, expert opinion)
type Attachment struct {
	Name       string    `bson:"name" json:"name"`
	URL        string    `bson:"url" json:"url"`
	Kind       string    `bson:"kind,omitempty" json:"kind,omitempty"`
	UploadedAt time.Time `bson:"uploadedAt" json:"uploadedAt"`
}

// AuditRecord records who did something to a report and why
type AuditRecord struct {
	At     time.Time `bson:"at" json:"at"`
	ByID   string    `bson:"byId" json:"byId"`
	Reason string    `bson:"reason,omitempty" json:"reason,omitempty"`
}

// LockExtension pushes the auto-lock horizon of a sent report forward by Days
type LockExtension struct {
	At     time.Time `bson:"at" json:"at"`
	ByID   string    `bson:"byId" json:"byId"`
	Days   int       `bson:"days" json:"days"`
	Reason string    `bson:"reason,omitempty" json:"reason,omitempty"`
}

// LockType describes why a report is locked
type LockType string

// Lock types, in decreasing precedence
const (
	LockNone       LockType = "NONE"
	LockAuto       LockType = "AUTO"
	LockManual     LockType = "MANUAL"
	LockCaseClosed LockType = "CASE_CLOSED"
)

// LockState is the computed, never persisted, lock status of a report
type LockState struct {
	IsLocked bool       `json:"isLocked"`
	LockType LockType   `json:"lockType"`
	LockAt   *time.Time `json:"lockAt,omitempty"`
}

// ReportWithLock is the API view of a report with its lock state at request time
type ReportWithLock struct {
	Report
	Lock   LockState `json:"lock"`
	Bucket string    `json:"bucket"`
}
