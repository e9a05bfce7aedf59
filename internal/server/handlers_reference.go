package server

import (
	"net/http"
	"strconv"
)

// handleStockCategories handles GET /api/stock-categories.
func (s *Server) handleStockCategories(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	out := s.intake.StockCategories(r.Context())
	WriteJSON(w, http.StatusOK, OutcomeResponse{Data: out.Data, Source: out.Source, Warning: out.Warning()})
}

// handleMarketOutlook handles GET /api/market-outlook.
func (s *Server) handleMarketOutlook(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	out := s.intake.MarketOutlook(r.Context())
	WriteJSON(w, http.StatusOK, OutcomeResponse{Data: out.Data, Source: out.Source, Warning: out.Warning()})
}

// handleProposalList handles GET /api/proposals?client=&limit=.
func (s *Server) handleProposalList(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			WriteError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = n
	}
	records, err := s.intake.ListProposals(r.Context(), r.URL.Query().Get("client"), limit)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"proposals": records,
		"count":     len(records),
	})
}

// handleProposalGet handles GET /api/proposals/{id}.
func (s *Server) handleProposalGet(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	id := PathParam(r, "/api/proposals/")
	if id == "" {
		WriteError(w, http.StatusBadRequest, "proposal id is required in path")
		return
	}
	record, err := s.intake.GetProposal(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, record)
}
