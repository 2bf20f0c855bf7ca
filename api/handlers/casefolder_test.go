package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linesmerrill/claim-reports-api/api"
	"github.com/linesmerrill/claim-reports-api/casework"
	"github.com/linesmerrill/claim-reports-api/lifecycle"
	"github.com/linesmerrill/claim-reports-api/models"
)

func TestCaseFolder_CaseHandlerAcceptsAnySpelling(t *testing.T) {
	a, _ := newTestApp(t)
	sendReport(t, a, "7/42")

	for _, path := range []string{"/api/v1/cases/7%2F42", "/api/v1/cases/7-42", "/api/v1/cases/7%20%2F%2042"} {
		t.Run(path, func(t *testing.T) {
			rr := executeRequest(a, newRequest(t, "GET", path, nil))
			checkResponseCode(t, http.StatusOK, rr.Code)

			var view casework.CaseView
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &view))
			assert.Equal(t, "7/42", view.Folder.CaseKey)
			require.Len(t, view.Folder.SentReports, 1)
			assert.Equal(t, 1, view.Folder.SentReports[0].SequenceNumber)
			assert.Equal(t, 2, view.NextSequenceNumber)
		})
	}
}

func TestCaseFolder_NextNumber(t *testing.T) {
	a, _ := newTestApp(t)

	rr := executeRequest(a, newRequest(t, "GET", "/api/v1/cases/9-1/next-number", nil))
	checkResponseCode(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"caseKey":"9/1","nextSequenceNumber":1}`, rr.Body.String())

	sendReport(t, a, "9 / 1")
	sendReport(t, a, "9-1")

	rr = executeRequest(a, newRequest(t, "GET", "/api/v1/cases/9%2F1/next-number", nil))
	checkResponseCode(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"caseKey":"9/1","nextSequenceNumber":3}`, rr.Body.String())
}

func TestCaseFolder_CloseAndReopen(t *testing.T) {
	a, _ := newTestApp(t)
	sendReport(t, a, "7/42")
	executeRequest(a, newRequest(t, "POST", "/api/v1/reports", casework.CreateReportInput{CaseNumber: "7/42"}))

	rr := executeRequest(a, newRequest(t, "POST", "/api/v1/cases/7-42/close", nil))
	checkResponseCode(t, http.StatusConflict, rr.Code)
	assert.Equal(t, string(lifecycle.CodeOpenDraftsExist), rr.Header().Get(api.HeaderErrorCode))

	rr = executeRequest(a, newRequest(t, "DELETE", "/api/v1/reports/r2", nil))
	checkResponseCode(t, http.StatusOK, rr.Code)

	rr = executeRequest(a, newRequest(t, "POST", "/api/v1/cases/7-42/close", nil))
	checkResponseCode(t, http.StatusOK, rr.Code)
	var folder models.CaseFolder
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &folder))
	require.NotNil(t, folder.ClosedAt)
	assert.Equal(t, "lawyer-1", folder.ClosedByUserID)

	// closed cases refuse edits even to admins
	req := newRequest(t, "PATCH", "/api/v1/reports/r1", casework.ReportPatch{})
	req.Header.Set(api.HeaderUserRole, casework.RoleAdmin)
	req.Header.Set(api.HeaderOverrideReason, "fix typo")
	rr = executeRequest(a, req)
	checkResponseCode(t, http.StatusLocked, rr.Code)
	assert.Equal(t, string(lifecycle.CodeCaseClosed), rr.Header().Get(api.HeaderErrorCode))

	rr = executeRequest(a, newRequest(t, "POST", "/api/v1/cases/7-42/reopen", nil))
	checkResponseCode(t, http.StatusOK, rr.Code)
	folder = models.CaseFolder{}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &folder))
	assert.Nil(t, folder.ClosedAt)
}

func TestCaseFolder_ReTemplate(t *testing.T) {
	a, _ := newTestApp(t)
	executeRequest(a, newRequest(t, "POST", "/api/v1/reports", casework.CreateReportInput{CaseNumber: "7/42"}))

	rr := executeRequest(a, newRequest(t, "PUT", "/api/v1/cases/7%2F42/re-template", reTemplateRequest{ReTemplate: "Re: {insured} / {claimNumber}"}))
	checkResponseCode(t, http.StatusOK, rr.Code)
	var folder models.CaseFolder
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &folder))
	assert.Equal(t, "Re: {insured} / {claimNumber}", folder.ReTemplate)
}

func TestCaseFolder_UnknownCase(t *testing.T) {
	a, _ := newTestApp(t)

	rr := executeRequest(a, newRequest(t, "GET", "/api/v1/cases/404-1", nil))
	checkResponseCode(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, string(lifecycle.CodeNotFound), decodeError(t, rr).Code)
}
