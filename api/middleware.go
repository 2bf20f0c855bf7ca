package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/linesmerrill/claim-reports-api/casework"
	"github.com/linesmerrill/claim-reports-api/config"
)

// Headers set by the gateway in front of the api once the user is authenticated
const (
	HeaderUserID         = "X-User-Id"
	HeaderUserRole       = "X-User-Role"
	HeaderOverrideReason = "X-Override-Reason"
	HeaderRequestID      = "X-Request-Id"
)

// ActorMiddleware reads the caller from the request headers and tags the request
// with an id. Requests without a user id are rejected.
func ActorMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		requestID := r.Header.Get(HeaderRequestID)
		if requestID == "" {
			requestID = uuid.New().String()
		}
		w.Header().Set(HeaderRequestID, requestID)

		actor := casework.Actor{
			UserID:         strings.TrimSpace(r.Header.Get(HeaderUserID)),
			Role:           strings.ToLower(strings.TrimSpace(r.Header.Get(HeaderUserRole))),
			OverrideReason: r.Header.Get(HeaderOverrideReason),
		}
		if actor.UserID == "" {
			zap.S().Errorw("unauthorized",
				"url", r.URL,
				"requestId", requestID)
			config.ErrorStatus("missing user", http.StatusUnauthorized, w, errors.New("the "+HeaderUserID+" header is required"))
			return
		}
		if actor.OverrideReason != "" && actor.Role != casework.RoleAdmin {
			zap.S().Warnw("override reason from non-admin ignored",
				"userId", actor.UserID,
				"role", actor.Role,
				"requestId", requestID)
		}

		ctx := WithActor(r.Context(), actor)
		zap.S().Debugw("request actor", "userId", actor.UserID, "role", actor.Role, "requestId", requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
