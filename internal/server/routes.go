package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/bobmcallan/vire-intake/internal/common"
)

// handleShutdown handles POST /api/shutdown (dev mode only).
func (s *Server) handleShutdown(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	if s.config.IsProduction() {
		WriteError(w, http.StatusForbidden, "Shutdown endpoint disabled in production")
		return
	}

	s.logger.Info().Msg("Shutdown requested via HTTP endpoint")

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("Shutting down gracefully...\n"))

	if flusher, ok := w.(http.Flusher); ok {
		flusher.Flush()
	}

	if s.shutdownChan != nil {
		go func() {
			time.Sleep(100 * time.Millisecond)
			s.shutdownChan <- struct{}{}
		}()
	}
}

// registerRoutes sets up all REST API routes on the mux.
func (s *Server) registerRoutes(mux *http.ServeMux) {
	// System
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/version", s.handleVersion)
	mux.HandleFunc("/api/shutdown", s.handleShutdown)
	mux.Handle("/metrics", s.metrics.Handler())

	// Auth
	mux.HandleFunc("/api/auth/login", s.handleAuthLogin)

	// Wizard sessions
	mux.HandleFunc("/api/sessions/", s.routeSessions)
	mux.HandleFunc("/api/sessions", s.handleSessionCreate)

	// Reference data
	mux.HandleFunc("/api/stock-categories", s.handleStockCategories)
	mux.HandleFunc("/api/market-outlook", s.handleMarketOutlook)

	// Proposal archive
	mux.HandleFunc("/api/proposals/", s.handleProposalGet)
	mux.HandleFunc("/api/proposals", s.handleProposalList)
}

// routeSessions dispatches /api/sessions/{id}/* to the appropriate handler.
func (s *Server) routeSessions(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/sessions/")
	if path == "" {
		WriteError(w, http.StatusBadRequest, "session id is required in path")
		return
	}

	id, subpath, _ := strings.Cut(path, "/")

	switch subpath {
	case "":
		s.handleSession(w, r, id)
	case "navigate":
		s.handleNavigate(w, r, id)
	case "reset":
		s.handleReset(w, r, id)
	case "profile":
		s.handleProfile(w, r, id)
	case "risk-assessment":
		s.handleRiskAssessment(w, r, id)
	case "asset-allocation":
		s.handleAssetAllocation(w, r, id)
	case "asset-allocation/chart.png":
		s.handleAllocationChart(w, r, id)
	case "product-recommendations":
		s.handleProductRecommendations(w, r, id)
	case "products":
		s.handleProducts(w, r, id)
	case "proposal":
		s.handleProposal(w, r, id)
	case "proposal.json":
		s.handleProposalExport(w, r, id, "json")
	case "proposal.pdf":
		s.handleProposalExport(w, r, id, "pdf")
	case "manual-allocation":
		s.handleManualAllocation(w, r, id)
	default:
		WriteError(w, http.StatusNotFound, "Not found")
	}
}

// --- System handlers ---

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status":   "ok",
		"sessions": s.intake.ActiveSessions(),
	})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{
		"version": common.GetVersion(),
		"build":   common.GetBuild(),
		"commit":  common.GetGitCommit(),
	})
}
