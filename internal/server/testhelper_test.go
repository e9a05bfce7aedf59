package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bobmcallan/vire-intake/internal/app"
	"github.com/bobmcallan/vire-intake/internal/clients/advisory"
	"github.com/bobmcallan/vire-intake/internal/clients/pdfgen"
	"github.com/bobmcallan/vire-intake/internal/common"
	"github.com/bobmcallan/vire-intake/internal/metrics"
	"github.com/bobmcallan/vire-intake/internal/models"
	"github.com/bobmcallan/vire-intake/internal/services/intake"
	"github.com/bobmcallan/vire-intake/internal/storage/memory"
)

// newTestServer builds a server whose advisory backend is unreachable, so
// every step is served by the local calculators. The PDF service always
// fails.
func newTestServer(t *testing.T, config *common.Config) *Server {
	t.Helper()
	if config == nil {
		config = common.NewDefaultConfig()
	}
	logger := common.NewSilentLogger()
	m := metrics.New()

	pdfService := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "renderer offline", http.StatusServiceUnavailable)
	}))
	t.Cleanup(pdfService.Close)

	advisoryClient := advisory.NewClient(
		advisory.WithBaseURL("http://127.0.0.1:1"),
		advisory.WithManualAllocationURL("http://127.0.0.1:1"),
		advisory.WithMetrics(m),
		advisory.WithRateLimit(1000),
	)
	pdfClient := pdfgen.NewClient(pdfgen.WithBaseURL(pdfService.URL), pdfgen.WithRateLimit(1000))
	archive := memory.NewProposalStore(logger)

	a := &app.App{
		Config:    config,
		Logger:    logger,
		Metrics:   m,
		Proposals: archive,
		Advisory:  advisoryClient,
		PDF:       pdfClient,
		Intake:    intake.NewService(advisoryClient, pdfClient, archive, intake.WithMetrics(m), intake.WithLogger(logger)),
	}
	return NewServer(a)
}

// do sends a request through the full middleware stack.
func do(t *testing.T, h http.Handler, method, path string, body interface{}, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func decode(t *testing.T, rr *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(rr.Body.Bytes(), v); err != nil {
		t.Fatalf("decode response %q: %v", rr.Body.String(), err)
	}
}

func testProfile() *models.ClientProfile {
	return &models.ClientProfile{
		Personal: models.PersonalInfo{Name: "Asha Menon", Age: 35},
		Investment: models.InvestmentPreferences{
			Horizon:       models.HorizonLong,
			Style:         models.StyleBalanced,
			InitialAmount: 800000,
		},
		RiskTolerance: models.RiskTolerance{
			MarketDropReaction: models.ReactionHold,
			MaxAcceptableLoss:  15,
		},
	}
}

func createSession(t *testing.T, h http.Handler, headers ...string) string {
	t.Helper()
	rr := do(t, h, http.MethodPost, "/api/sessions", nil, headers...)
	if rr.Code != http.StatusCreated {
		t.Fatalf("create session: expected 201, got %d: %s", rr.Code, rr.Body.String())
	}
	var snap intake.Snapshot
	decode(t, rr, &snap)
	return snap.ID
}
