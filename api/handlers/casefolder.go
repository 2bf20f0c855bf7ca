package handlers

import (
	"net/http"

	"github.com/linesmerrill/claim-reports-api/api"
	"github.com/linesmerrill/claim-reports-api/casekey"
	"github.com/linesmerrill/claim-reports-api/casework"
)

// CaseFolder handles case-related requests. {case_key} accepts any spelling of
// the case number.
type CaseFolder struct {
	Service *casework.Service
}

type reTemplateRequest struct {
	ReTemplate string `json:"reTemplate"`
}

// CaseHandler returns the case folder with its live reports
func (c CaseFolder) CaseHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := api.WithStoreTimeout(r.Context())
	defer cancel()

	view, err := c.Service.GetCase(ctx, pathVar(r, "case_key"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// NextNumberHandler returns the sequence number the next sent report will get
func (c CaseFolder) NextNumberHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := api.WithStoreTimeout(r.Context())
	defer cancel()

	raw := pathVar(r, "case_key")
	n, err := c.Service.NextNumber(ctx, raw)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"caseKey":            casekey.Normalize(raw),
		"nextSequenceNumber": n,
	})
}

// CloseCaseHandler closes a case
func (c CaseFolder) CloseCaseHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := api.WithStoreTimeout(r.Context())
	defer cancel()

	actor, _ := api.ActorFromContext(r.Context())
	folder, err := c.Service.CloseCase(ctx, actor, pathVar(r, "case_key"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, folder)
}

// ReopenCaseHandler reopens a closed case
func (c CaseFolder) ReopenCaseHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := api.WithStoreTimeout(r.Context())
	defer cancel()

	actor, _ := api.ActorFromContext(r.Context())
	folder, err := c.Service.ReopenCase(ctx, actor, pathVar(r, "case_key"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, folder)
}

// ReTemplateHandler sets the subject line template of a case
func (c CaseFolder) ReTemplateHandler(w http.ResponseWriter, r *http.Request) {
	var in reTemplateRequest
	if !decodeBody(w, r, &in) {
		return
	}

	ctx, cancel := api.WithStoreTimeout(r.Context())
	defer cancel()

	folder, err := c.Service.SetReTemplate(ctx, pathVar(r, "case_key"), in.ReTemplate)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, folder)
}
