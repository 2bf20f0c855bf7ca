package lifecycle

import (
	"time"

	"github.com/linesmerrill/claim-reports-api/casekey"
	"github.com/linesmerrill/claim-reports-api/models"
)

var transitions = map[models.ReportStatus][]models.ReportStatus{
	models.StatusDraft:              {models.StatusTaskAssigned, models.StatusWaitingForInvoices},
	models.StatusWaitingForInvoices: {models.StatusTaskAssigned},
	models.StatusTaskAssigned:       {models.StatusReadyToSend},
	models.StatusReadyToSend:        {models.StatusSent},
	models.StatusSent:               {models.StatusSent},
}

// CanTransition reports whether from -> to is structurally allowed. Role checks are
// the caller's concern.
func CanTransition(from, to models.ReportStatus) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// TransitionRequest describes a status change
type TransitionRequest struct {
	To  models.ReportStatus
	Now time.Time
	// FileName is recorded on the snapshot when sending
	FileName string
	// Override bypasses an auto or manual lock; it never bypasses a closed case
	Override *Override
	// Reports is every persisted report, used to resolve the sequence number on first send
	Reports []models.Report
}

// TransitionResult is the new state to persist. Folder is nil for caseless reports.
type TransitionResult struct {
	Report   models.Report
	Folder   *models.CaseFolder
	Snapshot *models.Snapshot
	Append   AppendResult
}

// Transition applies req to r. On error r and folder are returned untouched.
func (p Policy) Transition(r models.Report, folder *models.CaseFolder, req TransitionRequest) (TransitionResult, error) {
	if !CanTransition(r.Status, req.To) {
		return TransitionResult{}, NewError(CodeInvalidTransition, "transition not allowed", map[string]models.ReportStatus{
			"from": r.Status,
			"to":   req.To,
		})
	}
	audit, err := p.gate(&r, folder, req.Now, req.Override)
	if err != nil {
		return TransitionResult{}, err
	}

	out := CloneReport(r)
	if audit != nil {
		out.AdminOverride = audit
	}
	out.Status = req.To
	out.UpdatedAt = req.Now

	if req.To != models.StatusSent {
		return TransitionResult{Report: out, Folder: folder}, nil
	}
	return p.send(r, out, folder, req)
}

func (p Policy) send(prev, out models.Report, folder *models.CaseFolder, req TransitionRequest) (TransitionResult, error) {
	isResend := prev.Status == models.StatusSent
	if !isResend {
		if out.FirstSentAt == nil {
			at := req.Now
			out.FirstSentAt = &at
		}
		if e, ok := sentEntry(folder, SnapshotID(out.ID, len(out.History))); ok {
			// a previous attempt reached the folder but not the report store
			out.SequenceNumber = e.SequenceNumber
		} else if out.CaseKey != "" {
			out.SequenceNumber = NextSequenceNumber(out.CaseKey, req.Reports, folder)
		} else if out.SequenceNumber < 1 {
			out.SequenceNumber = 1
		}
	}

	snap := BuildSnapshot(&out, req.Now, req.FileName, isResend)
	out.History = append(out.History, snap)
	res := TransitionResult{Report: out, Snapshot: &snap}

	if out.CaseKey == "" {
		return res, nil
	}
	refreshed := UpsertFromReport(folder, &out, req.Now)
	appended, ar, err := AppendSentReport(*refreshed, snap)
	if err != nil {
		return TransitionResult{}, err
	}
	res.Folder = &appended
	res.Append = ar
	return res, nil
}

// Mutate applies edit to a copy of r if the lock state allows it. Identity, status,
// numbering, lock and history fields are restored after edit runs; only content,
// case number and the recurring sub-report key can change here. A sent report cannot
// move to another case.
func (p Policy) Mutate(r models.Report, folder *models.CaseFolder, now time.Time, o *Override, edit func(*models.Report) error) (models.Report, error) {
	audit, err := p.gate(&r, folder, now, o)
	if err != nil {
		return r, err
	}

	out := CloneReport(r)
	if err := edit(&out); err != nil {
		return r, err
	}

	protected := CloneReport(r)
	out.ID = protected.ID
	out.Status = protected.Status
	out.SequenceNumber = protected.SequenceNumber
	out.FirstSentAt = protected.FirstSentAt
	out.ManualLock = protected.ManualLock
	out.LockExtensions = protected.LockExtensions
	out.AdminOverride = protected.AdminOverride
	out.History = protected.History
	out.DeletedAt = protected.DeletedAt
	out.DeletedBy = protected.DeletedBy
	out.BasedOnSnapshotID = protected.BasedOnSnapshotID
	out.CreatedAt = protected.CreatedAt
	out.CreatedByID = protected.CreatedByID

	out.CaseKey = casekey.Normalize(out.CaseNumber)
	if len(r.History) > 0 && out.CaseKey != r.CaseKey {
		return r, NewError(CodeInvalidInput, "a sent report cannot move to another case", map[string]string{
			"caseKey": r.CaseKey,
		})
	}
	if audit != nil {
		out.AdminOverride = audit
	}
	out.UpdatedAt = now
	return out, nil
}

func sentEntry(folder *models.CaseFolder, id string) (models.SentReport, bool) {
	if folder == nil {
		return models.SentReport{}, false
	}
	for _, e := range folder.SentReports {
		if e.ID == id {
			return e, true
		}
	}
	return models.SentReport{}, false
}
