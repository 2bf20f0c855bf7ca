package models

import "time"

// Snapshot is a point-in-time copy of a report taken when it was sent. It is never
// mutated after it is built.
type Snapshot struct {
	ID              string        `bson:"id" json:"id"`
	ReportID        string        `bson:"reportId" json:"reportId"`
	CreatedAt       time.Time     `bson:"createdAt" json:"createdAt"`
	SequenceNumber  int           `bson:"sequenceNumber" json:"sequenceNumber"`
	CaseKey         string        `bson:"caseKey,omitempty" json:"caseKey,omitempty"`
	CaseNumber      string        `bson:"caseNumber,omitempty" json:"caseNumber,omitempty"`
	ExpensesSheetID string        `bson:"expensesSheetId,omitempty" json:"expensesSheetId,omitempty"`
	FileName        string        `bson:"fileName,omitempty" json:"fileName,omitempty"`
	IsResend        bool          `bson:"isResend" json:"isResend"`
	Content         ReportContent `bson:"content" json:"content"`
}
