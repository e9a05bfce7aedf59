package server

import (
	"net/http"
	"strconv"

	"github.com/bobmcallan/vire-intake/internal/models"
	"github.com/bobmcallan/vire-intake/internal/services/intake"
)

// handleSessionCreate handles POST /api/sessions.
func (s *Server) handleSessionCreate(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}
	WriteJSON(w, http.StatusCreated, s.intake.CreateSession(r.Context()))
}

// handleSession handles GET and DELETE /api/sessions/{id}.
func (s *Server) handleSession(w http.ResponseWriter, r *http.Request, id string) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodDelete) {
		return
	}
	if r.Method == http.MethodDelete {
		if err := s.intake.DeleteSession(r.Context(), id); err != nil {
			writeServiceError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
		return
	}
	snap, err := s.intake.GetSession(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, snap)
}

// writeStep writes the result of a step operation.
func writeStep(w http.ResponseWriter, res *intake.StepResult, err error) {
	if err != nil {
		writeServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, res)
}

// handleNavigate handles POST /api/sessions/{id}/navigate.
func (s *Server) handleNavigate(w http.ResponseWriter, r *http.Request, id string) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}
	var req struct {
		Step int `json:"step"`
	}
	if !DecodeJSON(w, r, &req) {
		return
	}
	res, err := s.intake.Navigate(r.Context(), id, req.Step)
	writeStep(w, res, err)
}

// handleReset handles POST /api/sessions/{id}/reset.
func (s *Server) handleReset(w http.ResponseWriter, r *http.Request, id string) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}
	res, err := s.intake.Reset(r.Context(), id)
	writeStep(w, res, err)
}

// handleProfile handles POST /api/sessions/{id}/profile.
func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request, id string) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}
	var profile models.ClientProfile
	if !DecodeJSON(w, r, &profile) {
		return
	}
	res, err := s.intake.SubmitProfile(r.Context(), id, &profile)
	writeStep(w, res, err)
}

// handleRiskAssessment handles POST (compute) and PUT (manual override)
// /api/sessions/{id}/risk-assessment.
func (s *Server) handleRiskAssessment(w http.ResponseWriter, r *http.Request, id string) {
	if !RequireMethod(w, r, http.MethodPost, http.MethodPut) {
		return
	}
	if r.Method == http.MethodPost {
		res, err := s.intake.AssessRisk(r.Context(), id)
		writeStep(w, res, err)
		return
	}
	var req struct {
		Category string `json:"category"`
	}
	if !DecodeJSON(w, r, &req) {
		return
	}
	res, err := s.intake.OverrideRisk(r.Context(), id, req.Category)
	writeStep(w, res, err)
}

// handleAssetAllocation handles POST (compute) and PUT (edit)
// /api/sessions/{id}/asset-allocation.
func (s *Server) handleAssetAllocation(w http.ResponseWriter, r *http.Request, id string) {
	if !RequireMethod(w, r, http.MethodPost, http.MethodPut) {
		return
	}
	if r.Method == http.MethodPost {
		res, err := s.intake.AllocateAssets(r.Context(), id)
		writeStep(w, res, err)
		return
	}
	var allocation models.AssetAllocation
	if !DecodeJSON(w, r, &allocation) {
		return
	}
	res, err := s.intake.EditAllocation(r.Context(), id, &allocation)
	writeStep(w, res, err)
}

// handleAllocationChart handles GET /api/sessions/{id}/asset-allocation/chart.png.
func (s *Server) handleAllocationChart(w http.ResponseWriter, r *http.Request, id string) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	png, err := s.intake.AllocationChart(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(png)))
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}

// handleProductRecommendations handles POST /api/sessions/{id}/product-recommendations.
func (s *Server) handleProductRecommendations(w http.ResponseWriter, r *http.Request, id string) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}
	res, err := s.intake.RecommendProducts(r.Context(), id)
	writeStep(w, res, err)
}

// handleProducts handles POST (add), PUT (edit) and DELETE (remove)
// /api/sessions/{id}/products.
func (s *Server) handleProducts(w http.ResponseWriter, r *http.Request, id string) {
	if !RequireMethod(w, r, http.MethodPost, http.MethodPut, http.MethodDelete) {
		return
	}
	var edit intake.ProductEdit
	if !DecodeJSON(w, r, &edit) {
		return
	}
	var (
		res *intake.StepResult
		err error
	)
	switch r.Method {
	case http.MethodPost:
		res, err = s.intake.AddProduct(r.Context(), id, edit)
	case http.MethodPut:
		res, err = s.intake.UpdateProduct(r.Context(), id, edit)
	default:
		res, err = s.intake.RemoveProduct(r.Context(), id, edit)
	}
	writeStep(w, res, err)
}

// handleProposal handles POST /api/sessions/{id}/proposal.
func (s *Server) handleProposal(w http.ResponseWriter, r *http.Request, id string) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}
	res, err := s.intake.GenerateProposal(r.Context(), id)
	writeStep(w, res, err)
}

// handleProposalExport handles GET /api/sessions/{id}/proposal.json and proposal.pdf.
func (s *Server) handleProposalExport(w http.ResponseWriter, r *http.Request, id, format string) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	var (
		out *intake.Export
		err error
	)
	if format == "pdf" {
		out, err = s.intake.ExportPDF(r.Context(), id)
	} else {
		out, err = s.intake.ExportJSON(r.Context(), id)
	}
	if err != nil {
		writeServiceError(w, err)
		return
	}
	WriteAttachment(w, out.ContentType, out.Filename, out.Data)
}

// handleManualAllocation handles POST /api/sessions/{id}/manual-allocation.
func (s *Server) handleManualAllocation(w http.ResponseWriter, r *http.Request, id string) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}
	var manual models.ManualAllocation
	if !DecodeJSON(w, r, &manual) {
		return
	}
	res, err := s.intake.SubmitManualAllocation(r.Context(), id, &manual)
	writeStep(w, res, err)
}
