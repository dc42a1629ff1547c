// Package app wires configuration, storage, clients, and services into a
// single initialized core shared by cmd/papertrade-server.
package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/bobmcallan/papertrade/internal/clients/broker"
	"github.com/bobmcallan/papertrade/internal/clients/marketdata"
	"github.com/bobmcallan/papertrade/internal/common"
	"github.com/bobmcallan/papertrade/internal/interfaces"
	"github.com/bobmcallan/papertrade/internal/models"
	"github.com/bobmcallan/papertrade/internal/services/education"
	"github.com/bobmcallan/papertrade/internal/services/market"
	"github.com/bobmcallan/papertrade/internal/services/prediction"
	"github.com/bobmcallan/papertrade/internal/services/risk"
	"github.com/bobmcallan/papertrade/internal/services/simulation"
	"github.com/bobmcallan/papertrade/internal/storage"
	"github.com/bobmcallan/papertrade/internal/synth"
)

// App holds all initialized services, clients, and the running simulator.
type App struct {
	Config            *common.Config
	Logger            *common.Logger
	Storage           interfaces.StorageManager
	MarketService     interfaces.MarketService
	EducationService  interfaces.EducationService
	PredictionService interfaces.PredictionService
	RiskService       interfaces.RiskService
	Simulation        *simulation.Controller
	StartupTime       time.Time
}

// getBinaryDir returns the directory containing the executable.
func getBinaryDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}

// NewApp initializes configuration, storage, clients, and services.
// configPath may be empty, in which case the default resolution logic is used.
func NewApp(configPath string) (*App, error) {
	startupStart := time.Now()

	// Load version from .version file (fallback if ldflags not set)
	common.LoadVersionFromFile()

	// Get binary directory for self-contained operation
	binDir := getBinaryDir()

	// Load configuration - check provided path, PAPERTRADE_CONFIG, then binary dir, then fallback
	if configPath == "" {
		configPath = os.Getenv("PAPERTRADE_CONFIG")
	}
	if configPath == "" {
		configPath = filepath.Join(binDir, "papertrade.toml")
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			configPath = "config/papertrade.toml" // fallback for development
		}
	}

	config, err := common.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// Resolve relative storage path to binary directory
	if config.Storage.Path != "" && !filepath.IsAbs(config.Storage.Path) {
		config.Storage.Path = filepath.Join(binDir, config.Storage.Path)
	}

	// Initialize logger
	logger := common.NewLogger(config.Logging.Level)

	// Initialize storage
	storageManager, err := storage.NewManager(logger, config.Storage.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	checkSchemaVersion(storageManager, logger)

	// Initialize API clients. Both are optional: an empty base URL leaves
	// the corresponding collaborator nil and the simulator falls back to
	// synthetic data for that concern.
	var quoteSource interfaces.QuoteSource
	var historySource interfaces.HistorySource
	if config.Clients.MarketData.BaseURL != "" {
		mdClient := marketdata.NewClient(config.Clients.MarketData.BaseURL,
			marketdata.WithAPIKey(config.Clients.MarketData.APIKey),
			marketdata.WithLogger(logger),
			marketdata.WithRateLimit(config.Clients.MarketData.RateLimit),
			marketdata.WithTimeout(config.Clients.MarketData.GetTimeout()),
		)
		quoteSource = mdClient
		historySource = mdClient
	} else {
		logger.Info().Msg("No market data provider configured - running on synthetic prices")
	}

	var tradeBackend interfaces.TradeBackend
	var portfolioBackend interfaces.PortfolioBackend
	if config.Clients.Broker.BaseURL != "" {
		brokerClient := broker.NewClient(config.Clients.Broker.BaseURL,
			broker.WithLogger(logger),
			broker.WithRateLimit(config.Clients.Broker.RateLimit),
			broker.WithTimeout(config.Clients.Broker.GetTimeout()),
		)
		tradeBackend = brokerClient
		portfolioBackend = brokerClient
	}

	// Initialize services
	marketService := market.NewService(quoteSource, historySource, synth.NewGenerator(), logger)
	educationService := education.NewService(storageManager, logger)
	predictionService := prediction.NewService(logger)
	riskService := risk.NewService(logger)

	// The simulator runs one live session for the default symbol so the
	// price feed and ledger cadences are exercised even with no clients.
	sim := simulation.New(simulation.Config{
		Symbol:          config.Simulation.DefaultSymbol,
		Period:          models.ParsePeriod(config.Simulation.DefaultPeriod),
		StartingCash:    config.Simulation.StartingCash,
		TickInterval:    config.Simulation.GetTickInterval(),
		RefreshInterval: config.Simulation.GetRefreshInterval(),
	}, simulation.Collaborators{
		Quotes:    quoteSource,
		History:   historySource,
		Trades:    tradeBackend,
		Portfolio: portfolioBackend,
	}, logger)

	a := &App{
		Config:            config,
		Logger:            logger,
		Storage:           storageManager,
		MarketService:     marketService,
		EducationService:  educationService,
		PredictionService: predictionService,
		RiskService:       riskService,
		Simulation:        sim,
		StartupTime:       startupStart,
	}

	logger.Info().Dur("startup", time.Since(startupStart)).Msg("App initialized")

	return a, nil
}

// schemaVersion tracks the stored-record layout. Bump on incompatible
// changes to the persisted models.
const schemaVersion = "1"

// checkSchemaVersion records the schema version on first run and warns when
// the store was written by a different version.
func checkSchemaVersion(sm interfaces.StorageManager, logger *common.Logger) {
	ctx := context.Background()
	kv := sm.SystemStore()

	stored, err := kv.GetKV(ctx, "schema_version")
	if err != nil || stored == "" {
		if err := kv.SetKV(ctx, "schema_version", schemaVersion); err != nil {
			logger.Warn().Err(err).Msg("Failed to record schema version")
		}
		return
	}
	if stored != schemaVersion {
		logger.Warn().
			Str("stored", stored).
			Str("current", schemaVersion).
			Msg("Schema version mismatch - stored data may need migration")
		if err := kv.SetKV(ctx, "schema_version", schemaVersion); err != nil {
			logger.Warn().Err(err).Msg("Failed to update schema version")
		}
	}
}

// Start launches the simulator's background cadences.
func (a *App) Start() {
	if a.Simulation != nil {
		a.Simulation.Start()
	}
}

// Close releases all resources held by the App.
// Shutdown order: stop the simulator, then close storage.
func (a *App) Close() {
	if a.Simulation != nil {
		a.Simulation.Stop()
	}
	if a.Storage != nil {
		a.Storage.Close()
		a.Storage = nil
	}
}
