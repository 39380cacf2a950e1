package errors

import (
	"errors"
	"net/http"
	"testing"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name     string
		appErr   *AppError
		expected string
	}{
		{
			name: "without underlying error",
			appErr: &AppError{
				Code:    CodeNotFound,
				Message: "Booking not found",
			},
			expected: "NOT_FOUND: Booking not found",
		},
		{
			name: "with underlying error",
			appErr: &AppError{
				Code:    CodeInternal,
				Message: "Database Error",
				Err:     errors.New("connection refused"),
			},
			expected: "INTERNAL_ERROR: Database Error (caused by: connection refused)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.appErr.Error(); got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	cause := errors.New("original error")
	appErr := Internal("wrapped", cause)

	if unwrapped := errors.Unwrap(appErr); unwrapped != cause {
		t.Errorf("Unwrap() = %v, want original error", unwrapped)
	}
}

func TestNotFound_UsesLegacyBadRequestStatus(t *testing.T) {
	err := NotFound("Booking")

	if err.Code != CodeNotFound {
		t.Errorf("expected code %s, got %s", CodeNotFound, err.Code)
	}
	// The wire contract answers 400 for unknown ids, not 404.
	if err.HTTPStatus != http.StatusBadRequest {
		t.Errorf("expected status %d, got %d", http.StatusBadRequest, err.HTTPStatus)
	}
	if err.Message != "Booking not found" {
		t.Errorf("unexpected message %q", err.Message)
	}
}

func TestNotFoundWithID(t *testing.T) {
	err := NotFoundWithID("Booking", "64b0c5")

	if err.Details["id"] != "64b0c5" {
		t.Errorf("expected id detail, got %v", err.Details["id"])
	}
	if err.HTTPStatus != http.StatusBadRequest {
		t.Errorf("expected status %d, got %d", http.StatusBadRequest, err.HTTPStatus)
	}
}

func TestValidation(t *testing.T) {
	err := Validation("validation failed", map[string]any{"field": "description"})

	if err.HTTPStatus != http.StatusUnprocessableEntity {
		t.Errorf("expected status %d, got %d", http.StatusUnprocessableEntity, err.HTTPStatus)
	}
	if err.Details["field"] != "description" {
		t.Errorf("expected field detail, got %v", err.Details["field"])
	}
}

func TestConflict_UsesBadRequestStatus(t *testing.T) {
	err := Conflict("Overlaps detected")

	if err.Code != CodeConflict {
		t.Errorf("expected code %s, got %s", CodeConflict, err.Code)
	}
	if err.HTTPStatus != http.StatusBadRequest {
		t.Errorf("expected status %d, got %d", http.StatusBadRequest, err.HTTPStatus)
	}
}

func TestUnauthorized(t *testing.T) {
	err := Unauthorized("permission denied")

	if err.HTTPStatus != http.StatusUnauthorized {
		t.Errorf("expected status %d, got %d", http.StatusUnauthorized, err.HTTPStatus)
	}
}

func TestAsAppError(t *testing.T) {
	appErr := NotFound("Booking")
	if got := AsAppError(appErr); got != appErr {
		t.Errorf("AsAppError() should return the same AppError")
	}

	plain := errors.New("cursor decode failed")
	wrapped := AsAppError(plain)
	if wrapped.Code != CodeInternal {
		t.Errorf("expected plain errors wrapped as %s, got %s", CodeInternal, wrapped.Code)
	}
	if wrapped.Message != "Database Error" {
		t.Errorf("expected generic message, got %q", wrapped.Message)
	}
	if wrapped.Err != plain {
		t.Errorf("expected original error preserved")
	}
}

func TestIsAppError(t *testing.T) {
	if !IsAppError(Unauthorized("no")) {
		t.Error("IsAppError() should be true for AppError")
	}
	if IsAppError(errors.New("plain")) {
		t.Error("IsAppError() should be false for plain errors")
	}
}
