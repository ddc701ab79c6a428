// Command extract runs the bill extraction pipeline on local PDF files and
// prints the resulting records as JSON, or writes them as CSV with -csv.
// Usage: go run ./cmd/extract [-strategy model|rules] [-csv] bill.pdf [bill2.pdf ...]
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"gridbill/internal/config"
	"gridbill/internal/csvexport"
	"gridbill/internal/domain"
	"gridbill/internal/parser/claude"
	"gridbill/internal/parser/openai"
	"gridbill/internal/pdf"
	"gridbill/internal/port"
	"gridbill/internal/service"
)

func main() {
	strategy := flag.String("strategy", "model", "extraction strategy: model or rules")
	asCSV := flag.Bool("csv", false, "write records as CSV to stdout")
	flag.Parse()

	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "Usage: extract [-strategy model|rules] [-csv] bill.pdf [bill2.pdf ...]")
		os.Exit(1)
	}

	if err := run(*strategy, *asCSV, flag.Args()); err != nil {
		log.Fatal(err)
	}
}

func run(strategyArg string, asCSV bool, paths []string) error {
	strategy := domain.ExtractionStrategy(strategyArg)
	if strategy != domain.StrategyModel && strategy != domain.StrategyRules {
		return fmt.Errorf("invalid strategy %q: want model or rules", strategyArg)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	var billParser port.BillParser
	if strategy == domain.StrategyModel {
		billParser = providerParser(&cfg.Parser.Primary, cfg.Parser.MaxTokens)
		if billParser == nil {
			return fmt.Errorf("model strategy requires a parser API key; set GRIDBILL_PARSER_PRIMARY_API_KEY or use -strategy rules")
		}
	}

	svc := service.NewBillService(nil, pdf.NewExtractor(), billParser, cfg.S3.MaxFileSizeMB)
	ctx := context.Background()

	for _, path := range paths {
		content, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}

		result, err := svc.ExtractContent(ctx, content, strategy)
		if err != nil {
			return fmt.Errorf("extracting %s: %w", path, err)
		}

		if asCSV {
			if _, err := os.Stdout.Write(csvexport.BOM); err != nil {
				return err
			}
			w := csvexport.NewWriter(os.Stdout)
			if err := w.WriteRecord(&result.Record); err != nil {
				return fmt.Errorf("writing CSV for %s: %w", path, err)
			}
			w.Flush()
			if err := w.Error(); err != nil {
				return err
			}
			continue
		}

		out, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding result for %s: %w", path, err)
		}
		fmt.Println(string(out))
	}

	return nil
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
		return nil
	}
}
