package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linesmerrill/claim-reports-api/casework"
	"github.com/linesmerrill/claim-reports-api/models"
)

func TestActorMiddleware(t *testing.T) {
	tests := []struct {
		name       string
		headers    map[string]string
		wantStatus int
		wantActor  casework.Actor
	}{
		{
			name:       "missing user",
			headers:    map[string]string{HeaderUserRole: "admin"},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "lawyer",
			headers:    map[string]string{HeaderUserID: "u1", HeaderUserRole: "Lawyer"},
			wantStatus: http.StatusOK,
			wantActor:  casework.Actor{UserID: "u1", Role: "lawyer"},
		},
		{
			name: "admin override",
			headers: map[string]string{
				HeaderUserID:         " u2 ",
				HeaderUserRole:       "ADMIN",
				HeaderOverrideReason: "typo",
			},
			wantStatus: http.StatusOK,
			wantActor:  casework.Actor{UserID: "u2", Role: casework.RoleAdmin, OverrideReason: "typo"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got casework.Actor
			h := ActorMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got, _ = ActorFromContext(r.Context())
				w.WriteHeader(http.StatusOK)
			}))

			req := httptest.NewRequest("GET", "/api/v1/reports", nil)
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, req)

			assert.Equal(t, tt.wantStatus, rr.Code)
			assert.NotEmpty(t, rr.Header().Get(HeaderRequestID))
			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, tt.wantActor, got)
			}
		})
	}
}

func TestActorMiddleware_KeepsRequestID(t *testing.T) {
	h := ActorMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set(HeaderUserID, "u1")
	req.Header.Set(HeaderRequestID, "req-123")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	assert.Equal(t, "req-123", rr.Header().Get(HeaderRequestID))
}

func TestTimeoutMiddleware(t *testing.T) {
	t.Run("fast handler passes through", func(t *testing.T) {
		h := TimeoutMiddleware(time.Second)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Test", "yes")
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(`{"ok":true}`))
		}))
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest("GET", "/", nil))

		assert.Equal(t, http.StatusCreated, rr.Code)
		assert.Equal(t, "yes", rr.Header().Get("X-Test"))
		assert.JSONEq(t, `{"ok":true}`, rr.Body.String())
	})

	t.Run("slow handler times out", func(t *testing.T) {
		release := make(chan struct{})
		defer close(release)
		h := TimeoutMiddleware(20 * time.Millisecond)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			<-r.Context().Done()
			<-release
			_, _ = w.Write([]byte("late"))
		}))
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest("GET", "/", nil))

		assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
		assert.Equal(t, "TIMEOUT", rr.Header().Get(HeaderErrorCode))
		var body models.ErrorMessageResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
		assert.Equal(t, "TIMEOUT", body.Response.Code)
	})
}

func TestWithStoreTimeout(t *testing.T) {
	ctx, cancel := WithStoreTimeout(context.Background())
	defer cancel()

	deadline, ok := ctx.Deadline()
	require.True(t, ok)
	assert.WithinDuration(t, time.Now().Add(StoreTimeout), deadline, time.Second)
}
