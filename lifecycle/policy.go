// Package lifecycle holds the report lifecycle and case custody rules: lock state,
// numbering, status transitions, snapshots, case folder aggregation and retention.
//
// Every function here is pure. Callers pass the current persisted state and the
// clock reading explicitly and persist whatever comes back.
package lifecycle

import (
	"time"

	"github.com/linesmerrill/claim-reports-api/models"
)

// Day is the unit lock extensions are expressed in
const Day = 24 * time.Hour

// Policy carries the time thresholds the engine evaluates against
type Policy struct {
	// AutoLockAfter is measured from the first send
	AutoLockAfter time.Duration
	// SoftDeleteRetention is how long a soft-deleted report stays recoverable
	SoftDeleteRetention time.Duration
	// ArchiveAfter moves sent reports into the archived view
	ArchiveAfter time.Duration
	// PurgeSentAfter hard-deletes sent reports that are also locked
	PurgeSentAfter time.Duration
}

// DefaultPolicy is the production policy
var DefaultPolicy = Policy{
	AutoLockAfter:       35 * Day,
	SoftDeleteRetention: 7 * Day,
	ArchiveAfter:        48 * time.Hour,
	PurgeSentAfter:      30 * Day,
}

// Override is a privileged actor's request to bypass an active lock. The role check
// that allows it happens before the engine sees it.
type Override struct {
	ByID   string
	Reason string
}

func (o *Override) record(now time.Time) *models.AuditRecord {
	return &models.AuditRecord{At: now, ByID: o.ByID, Reason: o.Reason}
}
