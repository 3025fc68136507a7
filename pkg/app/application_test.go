package app

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/julienschmidt/httprouter"

	"stopshot/pkg/client"
	"stopshot/pkg/config"
	"stopshot/pkg/logger"
	"stopshot/pkg/middleware"
	"stopshot/pkg/model"
)

const testSecret = "test-secret"

type roleEcho struct{}

func (roleEcho) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/whoami", func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		_, _ = io.WriteString(w, string(middleware.RoleFromContext(r.Context())))
	})
}

func newTestApp(t *testing.T) http.Handler {
	t.Helper()
	cfg := &config.Config{
		Log:               logger.New(logger.Config{Output: io.Discard}),
		Client:            client.NewClient(),
		Port:              "8080",
		RateLimitRequests: 100,
		RateLimitWindow:   time.Minute,
		RequestTimeout:    5 * time.Second,
		IdempotencyTTL:    time.Minute,
		MaxRequestSize:    1 << 20,
		ShutdownTimeout:   time.Second,
		JWTSecret:         testSecret,
	}
	a := NewApplication(cfg).SetApp(roleEcho{})
	t.Cleanup(a.gracefulShutdown)
	return a.Handler()
}

func TestApplication_Routing(t *testing.T) {
	h := newTestApp(t)

	staffToken, err := middleware.IssueToken(testSecret, "manager@stopshot.bar", model.RoleBarManager, time.Hour)
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}

	tests := []struct {
		name     string
		path     string
		auth     string
		wantCode int
		wantBody string
	}{
		{name: "health skips auth", path: "/health", auth: "Bearer garbage", wantCode: http.StatusOK},
		{name: "anonymous is guest", path: "/api/v1/whoami", wantCode: http.StatusOK, wantBody: "GUEST"},
		{name: "token carries role", path: "/api/v1/whoami", auth: "Bearer " + staffToken, wantCode: http.StatusOK, wantBody: "BAR_MANAGER"},
		{name: "bad token rejected", path: "/api/v1/whoami", auth: "Bearer garbage", wantCode: http.StatusUnauthorized},
		{name: "unknown route", path: "/api/v1/nope", wantCode: http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.auth != "" {
				req.Header.Set("Authorization", tt.auth)
			}
			rec := httptest.NewRecorder()

			h.ServeHTTP(rec, req)

			if rec.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d (%s)", rec.Code, tt.wantCode, rec.Body.String())
			}
			if tt.wantBody != "" && rec.Body.String() != tt.wantBody {
				t.Errorf("body = %q, want %q", rec.Body.String(), tt.wantBody)
			}
			if rec.Header().Get(middleware.RequestIDHeader) == "" {
				t.Error("response carries no request id")
			}
		})
	}
}
