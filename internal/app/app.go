// Package app wires configuration, clients, storage and services into the
// intake server's shared core.
package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/bobmcallan/vire-intake/internal/clients/advisory"
	"github.com/bobmcallan/vire-intake/internal/clients/gemini"
	"github.com/bobmcallan/vire-intake/internal/clients/pdfgen"
	"github.com/bobmcallan/vire-intake/internal/common"
	"github.com/bobmcallan/vire-intake/internal/interfaces"
	"github.com/bobmcallan/vire-intake/internal/metrics"
	"github.com/bobmcallan/vire-intake/internal/services/intake"
	"github.com/bobmcallan/vire-intake/internal/storage"
)

// App holds all initialized services and clients.
type App struct {
	Config      *common.Config
	Logger      *common.Logger
	Metrics     *metrics.Metrics
	Proposals   interfaces.ProposalStore
	Advisory    interfaces.AdvisoryClient
	PDF         interfaces.PDFRenderer
	Narrator    interfaces.Narrator
	Intake      *intake.Service
	StartupTime time.Time
}

// getBinaryDir returns the directory containing the executable.
func getBinaryDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}

// NewApp initializes the clients, the proposal archive and the intake
// service from a loaded configuration.
func NewApp(ctx context.Context, config *common.Config) (*App, error) {
	startupStart := time.Now()

	// Resolve relative log file path to binary directory
	if config.Logging.FilePath != "" && !filepath.IsAbs(config.Logging.FilePath) {
		config.Logging.FilePath = filepath.Join(getBinaryDir(), config.Logging.FilePath)
	}

	logger := common.NewLoggerFromConfig(config.Logging)
	m := metrics.New()

	proposals, err := storage.NewProposalStore(ctx, config.Storage, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize proposal archive: %w", err)
	}

	advisoryOpts := []advisory.ClientOption{
		advisory.WithBaseURL(config.Clients.Advisory.BaseURL),
		advisory.WithManualAllocationURL(config.Clients.Manual.BaseURL),
		advisory.WithLogger(logger),
		advisory.WithRateLimit(config.Clients.Advisory.RateLimit),
		advisory.WithTimeout(config.Clients.Advisory.GetTimeout()),
		advisory.WithMetrics(m),
		advisory.WithCacheTTL(config.Cache.GetTTL()),
	}

	var narrator interfaces.Narrator
	if key := config.Clients.Gemini.APIKey; key != "" {
		geminiClient, err := gemini.NewClient(ctx, key,
			gemini.WithLogger(logger),
			gemini.WithModel(config.Clients.Gemini.Model),
		)
		if err != nil {
			logger.Warn().Err(err).Msg("Failed to initialize Gemini client")
		} else {
			narrator = geminiClient
			advisoryOpts = append(advisoryOpts, advisory.WithNarrator(geminiClient))
		}
	} else {
		logger.Warn().Msg("Gemini API key not configured - market outlook falls back to static text")
	}

	advisoryClient := advisory.NewClient(advisoryOpts...)

	pdfClient := pdfgen.NewClient(
		pdfgen.WithBaseURL(config.Clients.PDF.BaseURL),
		pdfgen.WithTemplate(config.Clients.PDF.Template),
		pdfgen.WithBlurFunds(config.Clients.PDF.BlurFunds),
		pdfgen.WithTimeout(config.Clients.PDF.GetTimeout()),
		pdfgen.WithLogger(logger),
	)

	intakeService := intake.NewService(advisoryClient, pdfClient, proposals,
		intake.WithMetrics(m),
		intake.WithLogger(logger),
		intake.WithSessionTTL(config.Sessions.GetTTL()),
	)

	a := &App{
		Config:      config,
		Logger:      logger,
		Metrics:     m,
		Proposals:   proposals,
		Advisory:    advisoryClient,
		PDF:         pdfClient,
		Narrator:    narrator,
		Intake:      intakeService,
		StartupTime: startupStart,
	}

	logger.Info().
		Str("advisory", config.Clients.Advisory.BaseURL).
		Str("pdf", config.Clients.PDF.BaseURL).
		Str("archive", storage.Backend(config.Storage)).
		Bool("auth", config.Auth.Enabled()).
		Dur("startup", time.Since(startupStart)).
		Msg("App initialized")

	return a, nil
}

// Close releases all resources held by the App.
func (a *App) Close() {
	if a.Proposals != nil {
		if err := a.Proposals.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("Failed to close proposal archive")
		}
		a.Proposals = nil
	}
}
