package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/bobmcallan/vire-intake/internal/models"
	"github.com/bobmcallan/vire-intake/internal/services/intake"
	"github.com/bobmcallan/vire-intake/internal/validation"
	"github.com/bobmcallan/vire-intake/internal/wizard"
)

// ErrorResponse is the standard error format for REST API responses.
type ErrorResponse struct {
	Error  string                  `json:"error"`
	Code   string                  `json:"code,omitempty"`
	Fields []validation.FieldError `json:"fields,omitempty"`
}

// OutcomeResponse wraps a read-through result with where it came from.
type OutcomeResponse struct {
	Data    interface{}   `json:"data"`
	Source  models.Source `json:"source"`
	Warning string        `json:"warning,omitempty"`
}

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

// WriteError writes a JSON error response.
func WriteError(w http.ResponseWriter, statusCode int, message string) {
	WriteJSON(w, statusCode, ErrorResponse{Error: message})
}

// WriteErrorWithCode writes a JSON error response with an error code.
func WriteErrorWithCode(w http.ResponseWriter, statusCode int, message, code string) {
	WriteJSON(w, statusCode, ErrorResponse{Error: message, Code: code})
}

// WriteAttachment writes a downloadable file.
func WriteAttachment(w http.ResponseWriter, contentType, filename string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// RequireMethod validates the HTTP method and returns true if it matches.
// If it doesn't match, it writes a 405 response and returns false.
func RequireMethod(w http.ResponseWriter, r *http.Request, methods ...string) bool {
	for _, m := range methods {
		if r.Method == m {
			return true
		}
	}
	w.Header().Set("Allow", strings.Join(methods, ", "))
	WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
	return false
}

// DecodeJSON reads and decodes JSON from the request body into v.
// Returns false and writes a 400 error if decoding fails.
func DecodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if r.Body == nil {
		WriteError(w, http.StatusBadRequest, "Request body is required")
		return false
	}
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB limit
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid JSON: "+err.Error())
		return false
	}
	return true
}

// PathParam returns the path segment after prefix, e.g. {id} in
// /api/proposals/{id}. It returns "" when the path does not start with prefix.
func PathParam(r *http.Request, prefix string) string {
	rest, ok := strings.CutPrefix(r.URL.Path, prefix)
	if !ok {
		return ""
	}
	segment, _, _ := strings.Cut(rest, "/")
	return segment
}

// writeServiceError maps intake service errors onto HTTP statuses.
func writeServiceError(w http.ResponseWriter, err error) {
	var (
		gateErr    *wizard.GateError
		allocErr   *wizard.AllocationError
		profileErr *validation.ProfileError
	)
	switch {
	case errors.Is(err, intake.ErrSessionNotFound):
		WriteErrorWithCode(w, http.StatusNotFound, err.Error(), "session_not_found")
	case errors.Is(err, intake.ErrProposalNotFound):
		WriteErrorWithCode(w, http.StatusNotFound, err.Error(), "proposal_not_found")
	case errors.As(err, &gateErr):
		WriteErrorWithCode(w, http.StatusConflict, err.Error(), "step_locked")
	case errors.Is(err, wizard.ErrInvalidStep):
		WriteErrorWithCode(w, http.StatusBadRequest, err.Error(), "invalid_step")
	case errors.As(err, &profileErr):
		WriteJSON(w, http.StatusUnprocessableEntity, ErrorResponse{
			Error:  err.Error(),
			Code:   "invalid_profile",
			Fields: profileErr.Fields,
		})
	case errors.As(err, &allocErr):
		WriteErrorWithCode(w, http.StatusUnprocessableEntity, err.Error(), "invalid_allocation")
	case errors.Is(err, intake.ErrUnknownRiskCategory):
		WriteErrorWithCode(w, http.StatusUnprocessableEntity, err.Error(), "unknown_risk_category")
	case errors.Is(err, wizard.ErrDuplicateProduct),
		errors.Is(err, wizard.ErrProductNotFound),
		errors.Is(err, wizard.ErrProductNameMissing):
		WriteErrorWithCode(w, http.StatusUnprocessableEntity, err.Error(), "invalid_product")
	case errors.Is(err, wizard.ErrNoRecommendations),
		errors.Is(err, intake.ErrNoProposal),
		errors.Is(err, intake.ErrNoAllocation):
		WriteErrorWithCode(w, http.StatusConflict, err.Error(), "not_ready")
	case errors.Is(err, intake.ErrExportFailed):
		WriteErrorWithCode(w, http.StatusBadGateway, err.Error(), "export_failed")
	default:
		WriteError(w, http.StatusInternalServerError, err.Error())
	}
}
