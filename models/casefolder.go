package models

import "time"

// CaseFolder is the durable identity of a case. Display fields are a cache refreshed
// from the latest report; SentReports is append-only.
type CaseFolder struct {
	CaseKey        string       `bson:"_id" json:"caseKey"`
	CaseNumber     string       `bson:"caseNumber,omitempty" json:"caseNumber,omitempty"`
	InsuredName    string       `bson:"insuredName,omitempty" json:"insuredName,omitempty"`
	ClaimantName   string       `bson:"claimantName,omitempty" json:"claimantName,omitempty"`
	InsurerName    string       `bson:"insurerName,omitempty" json:"insurerName,omitempty"`
	ClaimNumber    string       `bson:"claimNumber,omitempty" json:"claimNumber,omitempty"`
	SentReports    []SentReport `bson:"sentReports" json:"sentReports"`
	ClosedAt       *time.Time   `bson:"closedAt,omitempty" json:"closedAt,omitempty"`
	ClosedByUserID string       `bson:"closedByUserId,omitempty" json:"closedByUserId,omitempty"`
	ReTemplate     string       `bson:"reTemplate,omitempty" json:"reTemplate,omitempty"`
	CreatedAt      time.Time    `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time    `bson:"updatedAt" json:"updatedAt"`
}

// IsClosed reports whether the case no longer accepts report creation or mutation
func (f *CaseFolder) IsClosed() bool {
	return f != nil && f.ClosedAt != nil
}

// SentReport is one finalized send recorded against a case. Only SupersededBy may
// change after the entry is appended.
type SentReport struct {
	ID             string    `bson:"id" json:"id"`
	ReportID       string    `bson:"reportId" json:"reportId"`
	SequenceNumber int       `bson:"sequenceNumber" json:"sequenceNumber"`
	SentAt         time.Time `bson:"sentAt" json:"sentAt"`
	FileName       string    `bson:"fileName" json:"fileName"`
	IsResend       bool      `bson:"isResend" json:"isResend"`
	RecurringKey   string    `bson:"recurringKey,omitempty" json:"recurringKey,omitempty"`
	Supersedes     string    `bson:"supersedes,omitempty" json:"supersedes,omitempty"`
	SupersededBy   string    `bson:"supersededBy,omitempty" json:"supersededBy,omitempty"`
	Snapshot       Snapshot  `bson:"snapshot" json:"snapshot"`
}
