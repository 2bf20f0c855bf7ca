package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"

	"github.com/gorilla/mux"

	"github.com/linesmerrill/claim-reports-api/api"
	"github.com/linesmerrill/claim-reports-api/config"
	"github.com/linesmerrill/claim-reports-api/lifecycle"
)

// statusFor maps an engine refusal to its HTTP status. 423 is used for refusals
// that clear once a lock or closure is lifted.
func statusFor(code lifecycle.Code) int {
	switch code {
	case lifecycle.CodeInvalidInput:
		return http.StatusBadRequest
	case lifecycle.CodeNotFound:
		return http.StatusNotFound
	case lifecycle.CodeInvalidTransition, lifecycle.CodeOpenDraftsExist, lifecycle.CodeReportDeleted:
		return http.StatusConflict
	case lifecycle.CodeLocked, lifecycle.CodeCaseClosed:
		return http.StatusLocked
	default:
		return http.StatusInternalServerError
	}
}

// writeError writes err as a JSON error body. Engine errors keep their code and
// details; anything else is reported as a 500.
func writeError(w http.ResponseWriter, err error) {
	var engineErr *lifecycle.Error
	if !errors.As(err, &engineErr) {
		config.ErrorStatus("failed to process request", http.StatusInternalServerError, w, err)
		return
	}
	w.Header().Set(api.HeaderErrorCode, string(engineErr.Code))
	config.ErrorStatusWithCode(engineErr.Message, string(engineErr.Code), engineErr.Details, statusFor(engineErr.Code), w, err)
}

// decodeBody reads a JSON body into v, writing a 400 on failure. An empty body
// leaves v at its zero value.
func decodeBody(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil && !errors.Is(err, io.EOF) {
		w.Header().Set(api.HeaderErrorCode, string(lifecycle.CodeInvalidInput))
		config.ErrorStatusWithCode("failed to decode request body", string(lifecycle.CodeInvalidInput), nil, http.StatusBadRequest, w, err)
		return false
	}
	return true
}

// pathVar returns an unescaped route variable. The router matches on the encoded
// path so case keys like 7%2F42 reach the handler in one piece.
func pathVar(r *http.Request, name string) string {
	raw := mux.Vars(r)[name]
	v, err := url.PathUnescape(raw)
	if err != nil {
		return raw
	}
	return v
}
