package server

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/litescript/ls-yantra/internal/astro"
	"github.com/litescript/ls-yantra/internal/instrument"
	"github.com/litescript/ls-yantra/internal/logging"
)

func TestIPRateLimiter(t *testing.T) {
	now := time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)
	l := NewIPRateLimiter(1, 1)
	l.now = func() time.Time { return now }

	if !l.Allow("10.0.0.1") {
		t.Fatal("first request denied")
	}
	if l.Allow("10.0.0.1") {
		t.Error("second request within the same instant allowed")
	}
	if !l.Allow("10.0.0.2") {
		t.Error("other client denied")
	}
	now = now.Add(time.Second)
	if !l.Allow("10.0.0.1") {
		t.Error("request after refill denied")
	}
	if l.GetLimiter("10.0.0.1") != l.GetLimiter("10.0.0.1") {
		t.Error("GetLimiter returned different buckets for one client")
	}
}

func TestIPRateLimiter_Prune(t *testing.T) {
	now := time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)
	l := NewIPRateLimiter(1, 1)
	l.now = func() time.Time { return now }

	for i := 0; i < limiterPruneLen; i++ {
		l.GetLimiter(fmt.Sprintf("10.0.%d.%d", i/256, i%256))
	}
	now = now.Add(limiterIdle + time.Minute)
	l.GetLimiter("192.0.2.1")
	if l.tracked() != 1 {
		t.Errorf("tracked() = %d after prune, want 1", l.tracked())
	}
}

func TestToHTTPError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"format", &astro.FormatError{Field: "date", Value: "x"}, http.StatusBadRequest, CodeFormat},
		{"validation", &astro.ValidationError{Field: "latitude", Message: "bad"}, http.StatusBadRequest, CodeValidation},
		{"domain", fmt.Errorf("rama: %w", &astro.DomainError{Op: "horizontal", Detail: "pole"}), http.StatusUnprocessableEntity, CodeDomain},
		{"lookup", &astro.LookupError{Table: "zodiac", Key: "400"}, http.StatusInternalServerError, CodeLookup},
		{"unknown kind", fmt.Errorf("%w: %q", instrument.ErrUnknownKind, "x"), http.StatusNotFound, CodeUnknownKind},
		{"cancelled", context.Canceled, http.StatusServiceUnavailable, CodeCancelled},
		{"echo not found", echo.ErrNotFound, http.StatusNotFound, CodeNotFound},
		{"echo method", echo.ErrMethodNotAllowed, http.StatusMethodNotAllowed, CodeValidation},
		{"other", errors.New("boom"), http.StatusInternalServerError, CodeInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			he := toHTTPError(tt.err)
			if he.Status != tt.wantStatus || he.Code != tt.wantCode {
				t.Errorf("toHTTPError = %d %s, want %d %s", he.Status, he.Code, tt.wantStatus, tt.wantCode)
			}
			if !errors.Is(he, tt.err) && tt.name != "echo not found" && tt.name != "echo method" {
				t.Errorf("HTTPError does not wrap %v", tt.err)
			}
		})
	}

	if he := toHTTPError(errors.New("secret detail")); he.Message != "internal server error" {
		t.Errorf("internal error message leaked: %q", he.Message)
	}
	if he := toHTTPError(&astro.FormatError{Field: "time", Value: "25:00"}); he.Field != "time" {
		t.Errorf("Field = %q, want time", he.Field)
	}
}

func TestRecover(t *testing.T) {
	var logs bytes.Buffer
	logger := logging.NewWithFormat(logging.LevelInfo, logging.FormatJSON)
	logger.SetOutput(&logs)

	s := newTestServer(t, WithLogger(logger))
	s.Echo().GET("/panic", func(c echo.Context) error {
		panic("dial cracked")
	})
	rec, resp := do(t, s, http.MethodGet, "/panic", "")
	if rec.Code != http.StatusInternalServerError || resp["code"] != CodeInternal {
		t.Errorf("status %d, code %v", rec.Code, resp["code"])
	}

	// The recovered 500 reaches the request log and the HTTP metrics.
	if !strings.Contains(logs.String(), `"message":"request"`) || !strings.Contains(logs.String(), `"status":500`) {
		t.Errorf("request log missing the 500:\n%s", logs.String())
	}
	mrec := httptest.NewRecorder()
	s.ServeHTTP(mrec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if body := mrec.Body.String(); !strings.Contains(body, `route="/panic",status="500"`) {
		t.Errorf("metrics missing the recovered request:\n%s", body)
	}
}
