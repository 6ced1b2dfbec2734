// Package app wires configuration into the repositories, OCR adapter and
// processing pipeline shared by the binaries.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/joseph-ayodele/po-tracker/internal/common"
	"github.com/joseph-ayodele/po-tracker/internal/export"
	"github.com/joseph-ayodele/po-tracker/internal/extract"
	"github.com/joseph-ayodele/po-tracker/internal/ingest"
	"github.com/joseph-ayodele/po-tracker/internal/ocr"
	"github.com/joseph-ayodele/po-tracker/internal/pipeline"
	repo "github.com/joseph-ayodele/po-tracker/internal/repository"
)

type App struct {
	DB         *repo.DB
	Files      repo.FileRepository
	Jobs       repo.ExtractJobRepository
	Orders     repo.PurchaseOrderRepository
	Deliveries repo.DeliveryRepository
	OCR        *ocr.Adapter
	Extractor  *extract.Extractor
	Processor  *pipeline.Processor
	Ingestor   *ingest.FSIngestor
	Exporter   *export.Service
	Logger     *slog.Logger
}

// ExtractorFromConfig loads the rules file (if any) and applies the env
// overrides on top of it.
func ExtractorFromConfig(cfg common.ExtractConfig, logger *slog.Logger) (*extract.Extractor, error) {
	rules, err := common.LoadRules(cfg.RulesFile)
	if err != nil {
		return nil, err
	}
	rules.GreedyEnd = rules.GreedyEnd || cfg.GreedyEnd
	rules.DropBareRecords = rules.DropBareRecords || cfg.DropBareRecords
	opts, err := extract.OptionsFromRules(rules)
	if err != nil {
		return nil, err
	}
	return extract.NewExtractor(opts, logger), nil
}

// OCRConfig maps the env configuration onto the OCR extractor's.
func OCRConfig(cfg common.OCRConfig) ocr.Config {
	return ocr.Config{
		Engine:              cfg.Engine,
		Tesseract:           cfg.Tesseract,
		TesseractLang:       cfg.TesseractLang,
		DPI:                 cfg.DPI,
		TessdataDir:         cfg.TessdataDir,
		HeicConverter:       cfg.HeicConverter,
		EnableTSVConfidence: true,
		Grayscale:           cfg.Grayscale,
		PSM:                 cfg.PSM,
		ArtifactCacheDir:    cfg.ArtifactCacheDir,
		DropRulerLines:      cfg.DropRulerLines,
	}
}

// Build opens and migrates the database, then wires every service on top of it.
func Build(ctx context.Context, cfg *common.Config, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}
	extractor, err := ExtractorFromConfig(cfg.Extract, logger)
	if err != nil {
		return nil, fmt.Errorf("extraction rules: %w", err)
	}
	ocrExtractor, err := ocr.NewExtractor(OCRConfig(cfg.OCR), logger)
	if err != nil {
		return nil, fmt.Errorf("ocr: %w", err)
	}

	db, err := repo.Open(ctx, repo.Config{
		DSN:              cfg.Database.DSN,
		MaxConns:         cfg.Database.MaxConns,
		MinConns:         cfg.Database.MinConns,
		MaxConnLifetime:  cfg.Database.MaxConnLifetime,
		MaxConnIdleTime:  cfg.Database.MaxConnIdleTime,
		DialTimeout:      cfg.Database.DialTimeout,
		StatementTimeout: cfg.Database.StatementTimeout,
	}, logger)
	if err != nil {
		return nil, err
	}
	if err := repo.Migrate(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	a := &App{
		DB:         db,
		Files:      repo.NewFileRepository(db, logger),
		Jobs:       repo.NewExtractJobRepository(db, logger),
		Orders:     repo.NewPurchaseOrderRepository(db, logger),
		Deliveries: repo.NewDeliveryRepository(db, logger),
		OCR:        ocr.NewAdapter(ocrExtractor, logger),
		Extractor:  extractor,
		Logger:     logger,
	}
	a.Processor = pipeline.NewProcessor(logger,
		pipeline.NewOCRStage(a.Files, a.Jobs, a.OCR, logger),
		pipeline.NewExtractStage(extractor, a.Orders, a.Jobs, logger),
	)
	a.Ingestor = ingest.NewFSIngestor(a.Files, logger)
	a.Exporter = export.NewService(a.Orders, logger)

	logger.Info("app.ready", "dialect", db.Dialect, "ocr_engine", cfg.OCR.Engine, "extract", extractor.Options().String())
	return a, nil
}

func (a *App) Close() {
	if a.DB != nil {
		a.DB.Close()
	}
}
