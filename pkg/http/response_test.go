package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	apperrors "stopshot/pkg/errors"
)

func TestWriteError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
		wantMsg    string
	}{
		{
			name:       "validation error keeps details",
			err:        apperrors.Validation("Reservation validation failed", map[string]any{"errors": []string{"x"}}),
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   apperrors.CodeValidation,
			wantMsg:    "Reservation validation failed",
		},
		{
			name:       "invalid transition is a conflict",
			err:        apperrors.InvalidTransition("CANCELLED", "CONFIRMED"),
			wantStatus: http.StatusConflict,
			wantCode:   apperrors.CodeInvalidTransition,
			wantMsg:    "cannot transition reservation from CANCELLED to CONFIRMED",
		},
		{
			name:       "not found",
			err:        apperrors.NotFoundWithID("Reservation", "abc"),
			wantStatus: http.StatusNotFound,
			wantCode:   apperrors.CodeNotFound,
			wantMsg:    "Reservation not found",
		},
		{
			name:       "plain error is hidden",
			err:        errors.New("mongo exploded"),
			wantStatus: http.StatusInternalServerError,
			wantCode:   apperrors.CodeInternal,
			wantMsg:    "Internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			if err := WriteError(rec, tt.err); err != nil {
				t.Fatalf("WriteError() error = %v", err)
			}
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			var body ErrorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("invalid JSON: %v", err)
			}
			if body.Code != tt.wantCode {
				t.Errorf("code = %q, want %q", body.Code, tt.wantCode)
			}
			if body.Error != tt.wantMsg {
				t.Errorf("error = %q, want %q", body.Error, tt.wantMsg)
			}
		})
	}
}

func TestExtractLimitOffset(t *testing.T) {
	tests := []struct {
		query      string
		wantLimit  int
		wantOffset int64
		wantErr    bool
	}{
		{"", 10, 0, false},
		{"?limit=25&offset=5", 25, 5, false},
		{"?limit=1000", 100, 0, false},
		{"?offset=-3", 10, 0, false},
		{"?limit=abc", 0, 0, true},
	}
	for _, tt := range tests {
		r := httptest.NewRequest(http.MethodGet, "/api/v1/reservations"+tt.query, nil)
		limit, offset, err := ExtractLimitOffset(r)
		if (err != nil) != tt.wantErr {
			t.Fatalf("%q: err = %v, wantErr %v", tt.query, err, tt.wantErr)
		}
		if tt.wantErr {
			continue
		}
		if limit != tt.wantLimit || offset != tt.wantOffset {
			t.Errorf("%q: got (%d, %d), want (%d, %d)", tt.query, limit, offset, tt.wantLimit, tt.wantOffset)
		}
	}
}
