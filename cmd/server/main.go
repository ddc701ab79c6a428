package main

import (
	"fmt"
	"log"

	"gridbill/internal/config"
	"gridbill/internal/handler"
	"gridbill/internal/parser"
	"gridbill/internal/parser/claude"
	"gridbill/internal/parser/openai"
	"gridbill/internal/pdf"
	"gridbill/internal/port"
	"gridbill/internal/repository/postgres"
	"gridbill/internal/router"
	"gridbill/internal/service"
	s3storage "gridbill/internal/storage/s3"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize storage. An empty bucket disables persistence; uploads are
	// still extracted.
	var storage port.ObjectStorage
	if cfg.S3.Bucket != "" {
		storage, err = s3storage.NewS3Client(&cfg.S3)
		if err != nil {
			return fmt.Errorf("failed to initialize S3 client: %w", err)
		}
	}

	billParser := buildParser(&cfg.Parser)
	if billParser == nil {
		log.Println("no parser API key configured; model extraction disabled, using rules only")
	}

	billSvc := service.NewBillService(storage, pdf.NewExtractor(), billParser, cfg.S3.MaxFileSizeMB)
	billH := handler.NewBillHandler(billSvc)
	healthH := handler.NewHealthHandler()

	// Bill history is optional; the extraction API works without a database.
	var historyH *handler.HistoryHandler
	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		log.Printf("bill history disabled: %v", err)
	} else {
		defer db.Close()
		historySvc := service.NewHistoryService(postgres.NewBillHistoryRepo(db))
		historyH = handler.NewHistoryHandler(historySvc)
	}

	r := router.Setup(cfg, billH, historyH, healthH)

	log.Printf("Server starting on %s", cfg.Server.Port)
	if err := r.Run(cfg.Server.Port); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}

	return nil
}

// buildParser wires the configured LLM providers into a single BillParser.
// Returns nil when no provider has an API key.
func buildParser(cfg *config.ParserConfig) port.BillParser {
	var parsers []port.BillParser
	var names []string

	if p := providerParser(&cfg.Primary, cfg.MaxTokens); p != nil {
		parsers = append(parsers, p)
		names = append(names, cfg.Primary.Provider)
	}
	if sec := cfg.SecondaryConfig(); sec != nil {
		if p := providerParser(sec, cfg.MaxTokens); p != nil {
			parsers = append(parsers, p)
			names = append(names, sec.Provider)
		}
	}

	switch len(parsers) {
	case 0:
		return nil
	case 1:
		return parsers[0]
	default:
		return parser.NewFallbackParser(parsers, names)
	}
}

func providerParser(cfg *config.ParserProviderConfig, maxTokens int) port.BillParser {
	if cfg.APIKey == "" {
		return nil
	}
	switch cfg.Provider {
	case "openai":
		return openai.NewParser(cfg, maxTokens)
	case "claude", "anthropic":
		return claude.NewParser(cfg, maxTokens)
	default:
		log.Printf("unknown parser provider %q; skipping", cfg.Provider)
		return nil
	}
}
