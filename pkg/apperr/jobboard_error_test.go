package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestConstructorsStatus(t *testing.T) {
	tests := []struct {
		err  *AppError
		code string
		want int
	}{
		{Unauthorized(""), CodeUnauthorized, http.StatusUnauthorized},
		{InvalidCredentials("Invalid email or password"), CodeInvalidCredentials, http.StatusUnauthorized},
		{Forbidden(""), CodeForbidden, http.StatusForbidden},
		{ValidationFailed(""), CodeValidationFailed, http.StatusBadRequest},
		{NotFound("Job not found"), CodeNotFound, http.StatusNotFound},
		{Conflict("Email already registered"), CodeConflict, http.StatusBadRequest},
		{NotImplemented(), CodeNotImplemented, http.StatusNotImplemented},
		{Internal(""), CodeInternalError, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		if tt.err.Code != tt.code {
			t.Errorf("code = %s, want %s", tt.err.Code, tt.code)
		}
		if got := GetHTTPStatus(tt.err); got != tt.want {
			t.Errorf("%s: status = %d, want %d", tt.code, got, tt.want)
		}
	}
}

func TestWrap(t *testing.T) {
	if Wrap(nil, "Failed") != nil {
		t.Error("Wrap(nil) should be nil")
	}

	cause := errors.New("connection reset")
	err := Wrap(cause, "Failed to apply to job")
	app := AsAppError(err)
	if app.Status != http.StatusInternalServerError || app.Message != "Failed to apply to job" {
		t.Errorf("wrapped = %+v", app)
	}
	if !errors.Is(err, cause) {
		t.Error("wrapped error lost its cause")
	}

	nf := NotFound("Job not found")
	if got := Wrap(fmt.Errorf("lookup: %w", nf), "Failed"); AsAppError(got) != nf {
		t.Errorf("Wrap replaced an AppError: %v", got)
	}
}

func TestAsAppErrorPlainError(t *testing.T) {
	app := AsAppError(errors.New("boom"))
	if app.Code != CodeInternalError || app.Err == nil {
		t.Errorf("AsAppError = %+v", app)
	}
	if IsAppError(errors.New("boom")) {
		t.Error("plain error reported as AppError")
	}
	if !HasCode(InvalidInput("limit", "too big"), CodeValidationFailed) {
		t.Error("HasCode missed validation code")
	}
}

func TestInvalidInputCarriesField(t *testing.T) {
	err := InvalidInput("location", "Location is required for non-remote jobs")
	if len(err.Fields) != 1 || err.Fields[0].Field != "location" {
		t.Errorf("fields = %+v", err.Fields)
	}
}
