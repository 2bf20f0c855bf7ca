package lifecycle

import (
	"time"

	"github.com/linesmerrill/claim-reports-api/models"
)

// Bucket is the list view a report is shown in
type Bucket string

// Buckets
const (
	BucketActive   Bucket = "active"
	BucketArchived Bucket = "archived"
	BucketTrash    Bucket = "trash"
)

// SweepResult partitions the report list. Kept is the new live list.
type SweepResult struct {
	Kept        []models.Report
	HardDeleted []models.Report
	// Archived holds ids of kept reports that moved into the archived view
	Archived []string
}

// Sweep applies the retention thresholds at now. The same clock reading drives lock
// evaluation, so a sent report that is unlocked at now (for instance after an
// extension) is never purged out from under an editor. Folders are read, never
// modified: a hard-deleted report's sent entries stay in its case history.
func (p Policy) Sweep(reports []models.Report, folders map[string]*models.CaseFolder, now time.Time) SweepResult {
	res := SweepResult{Kept: make([]models.Report, 0, len(reports))}
	for _, r := range reports {
		if r.DeletedAt != nil {
			if now.Sub(*r.DeletedAt) >= p.SoftDeleteRetention {
				res.HardDeleted = append(res.HardDeleted, r)
				continue
			}
			res.Kept = append(res.Kept, r)
			continue
		}

		if sent := LastSentAt(&r); r.Status == models.StatusSent && sent != nil {
			age := now.Sub(*sent)
			if age > p.PurgeSentAfter && p.LockState(&r, folders[r.CaseKey], now).IsLocked {
				res.HardDeleted = append(res.HardDeleted, r)
				continue
			}
			if age > p.ArchiveAfter {
				res.Archived = append(res.Archived, r.ID)
			}
		}
		res.Kept = append(res.Kept, r)
	}
	return res
}

// Classify returns the list view for r at now. It never changes data.
func (p Policy) Classify(r *models.Report, now time.Time) Bucket {
	if r.DeletedAt != nil {
		return BucketTrash
	}
	if sent := LastSentAt(r); r.Status == models.StatusSent && sent != nil && now.Sub(*sent) > p.ArchiveAfter {
		return BucketArchived
	}
	return BucketActive
}

// LastSentAt is the time of the most recent send or resend
func LastSentAt(r *models.Report) *time.Time {
	var last *time.Time
	for i := range r.History {
		at := r.History[i].CreatedAt
		if last == nil || at.After(*last) {
			last = &at
		}
	}
	if last == nil {
		return cloneTime(r.FirstSentAt)
	}
	return last
}
