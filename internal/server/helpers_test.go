package server

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/bobmcallan/vire-intake/internal/services/intake"
	"github.com/bobmcallan/vire-intake/internal/wizard"
)

func TestPathParam(t *testing.T) {
	tests := []struct {
		path, prefix, want string
	}{
		{"/api/proposals/prop_1234abcd", "/api/proposals/", "prop_1234abcd"},
		{"/api/sessions/abc/profile", "/api/sessions/", "abc"},
		{"/api/proposals/", "/api/proposals/", ""},
		{"/api/other/abc", "/api/proposals/", ""},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, tt.path, nil)
		if got := PathParam(req, tt.prefix); got != tt.want {
			t.Errorf("PathParam(%q, %q) = %q, want %q", tt.path, tt.prefix, got, tt.want)
		}
	}
}

func TestRequireMethod_SetsAllow(t *testing.T) {
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPatch, "/api/sessions", nil)
	if RequireMethod(rr, req, http.MethodGet, http.MethodPost) {
		t.Fatal("PATCH should not be accepted")
	}
	if rr.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected 405, got %d", rr.Code)
	}
	if got := rr.Header().Get("Allow"); got != "GET, POST" {
		t.Errorf("expected Allow header, got %q", got)
	}
}

func TestDecodeJSON_RejectsMalformed(t *testing.T) {
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/sessions/x/profile", strings.NewReader("{not json"))
	var v map[string]interface{}
	if DecodeJSON(rr, req, &v) {
		t.Fatal("expected decode failure")
	}
	if rr.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rr.Code)
	}
}

func TestWriteServiceError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"session", intake.ErrSessionNotFound, http.StatusNotFound, "session_not_found"},
		{"gate", &wizard.GateError{Target: wizard.StepInvestmentProposal, Missing: wizard.StepProductRecommendations}, http.StatusConflict, "step_locked"},
		{"invalid step", fmt.Errorf("%w: 7", wizard.ErrInvalidStep), http.StatusBadRequest, "invalid_step"},
		{"no proposal", intake.ErrNoProposal, http.StatusConflict, "not_ready"},
		{"export", fmt.Errorf("%w: %w", intake.ErrExportFailed, errors.New("render")), http.StatusBadGateway, "export_failed"},
		{"other", errors.New("disk on fire"), http.StatusInternalServerError, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			writeServiceError(rr, tt.err)
			if rr.Code != tt.status {
				t.Errorf("expected %d, got %d", tt.status, rr.Code)
			}
			if tt.code != "" && !strings.Contains(rr.Body.String(), `"code":"`+tt.code+`"`) {
				t.Errorf("expected code %s in %s", tt.code, rr.Body.String())
			}
		})
	}
}
