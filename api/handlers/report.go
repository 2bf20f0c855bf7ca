package handlers

import (
	"net/http"

	"github.com/linesmerrill/claim-reports-api/api"
	"github.com/linesmerrill/claim-reports-api/casework"
	"github.com/linesmerrill/claim-reports-api/lifecycle"
)

// Report handles report-related requests
type Report struct {
	Service *casework.Service
}

type lockRequest struct {
	Reason string `json:"reason"`
}

type extensionRequest struct {
	Days   int    `json:"days"`
	Reason string `json:"reason"`
}

// CreateReportHandler creates a new draft report
func (re Report) CreateReportHandler(w http.ResponseWriter, r *http.Request) {
	var in casework.CreateReportInput
	if !decodeBody(w, r, &in) {
		return
	}

	ctx, cancel := api.WithStoreTimeout(r.Context())
	defer cancel()

	actor, _ := api.ActorFromContext(r.Context())
	report, err := re.Service.CreateReport(ctx, actor, in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, report)
}

// ListReportsHandler lists reports in the view given by ?view=, active by default
func (re Report) ListReportsHandler(w http.ResponseWriter, r *http.Request) {
	bucket := lifecycle.Bucket(r.URL.Query().Get("view"))
	switch bucket {
	case "":
		bucket = lifecycle.BucketActive
	case lifecycle.BucketActive, lifecycle.BucketArchived, lifecycle.BucketTrash:
	default:
		writeError(w, lifecycle.NewError(lifecycle.CodeInvalidInput, "unknown view", map[string]string{"view": string(bucket)}))
		return
	}

	ctx, cancel := api.WithStoreTimeout(r.Context())
	defer cancel()

	reports, err := re.Service.ListReports(ctx, bucket)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reports)
}

// ReportHandler returns a report with its lock state
func (re Report) ReportHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := api.WithStoreTimeout(r.Context())
	defer cancel()

	report, err := re.Service.GetReport(ctx, pathVar(r, "report_id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// UpdateReportHandler applies a partial edit to a report
func (re Report) UpdateReportHandler(w http.ResponseWriter, r *http.Request) {
	var patch casework.ReportPatch
	if !decodeBody(w, r, &patch) {
		return
	}

	ctx, cancel := api.WithStoreTimeout(r.Context())
	defer cancel()

	actor, _ := api.ActorFromContext(r.Context())
	report, err := re.Service.UpdateReport(ctx, actor, pathVar(r, "report_id"), patch)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// TransitionReportHandler moves a report to another status
func (re Report) TransitionReportHandler(w http.ResponseWriter, r *http.Request) {
	var in casework.TransitionInput
	if !decodeBody(w, r, &in) {
		return
	}
	if !in.To.Valid() {
		writeError(w, lifecycle.NewError(lifecycle.CodeInvalidInput, "unknown status", map[string]string{"to": string(in.To)}))
		return
	}

	ctx, cancel := api.WithStoreTimeout(r.Context())
	defer cancel()

	actor, _ := api.ActorFromContext(r.Context())
	report, err := re.Service.Transition(ctx, actor, pathVar(r, "report_id"), in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// LockReportHandler places a manual lock on a report
func (re Report) LockReportHandler(w http.ResponseWriter, r *http.Request) {
	var in lockRequest
	if !decodeBody(w, r, &in) {
		return
	}

	ctx, cancel := api.WithStoreTimeout(r.Context())
	defer cancel()

	actor, _ := api.ActorFromContext(r.Context())
	report, err := re.Service.LockReport(ctx, actor, pathVar(r, "report_id"), in.Reason)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// UnlockReportHandler releases a manual lock
func (re Report) UnlockReportHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := api.WithStoreTimeout(r.Context())
	defer cancel()

	actor, _ := api.ActorFromContext(r.Context())
	report, err := re.Service.UnlockReport(ctx, actor, pathVar(r, "report_id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// ExtendLockHandler pushes the auto-lock date of a report out by a number of days
func (re Report) ExtendLockHandler(w http.ResponseWriter, r *http.Request) {
	var in extensionRequest
	if !decodeBody(w, r, &in) {
		return
	}

	ctx, cancel := api.WithStoreTimeout(r.Context())
	defer cancel()

	actor, _ := api.ActorFromContext(r.Context())
	report, err := re.Service.ExtendLock(ctx, actor, pathVar(r, "report_id"), in.Days, in.Reason)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// DeleteReportHandler moves a report to the trash
func (re Report) DeleteReportHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := api.WithStoreTimeout(r.Context())
	defer cancel()

	actor, _ := api.ActorFromContext(r.Context())
	report, err := re.Service.DeleteReport(ctx, actor, pathVar(r, "report_id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// RestoreReportHandler takes a report back out of the trash
func (re Report) RestoreReportHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := api.WithStoreTimeout(r.Context())
	defer cancel()

	actor, _ := api.ActorFromContext(r.Context())
	report, err := re.Service.RestoreReport(ctx, actor, pathVar(r, "report_id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}
