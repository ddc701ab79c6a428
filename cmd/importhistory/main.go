// Command importhistory loads monthly bill-history CSV files into the
// bill_history table.
// Usage: go run ./cmd/importhistory history.csv [history2.csv ...]
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"gridbill/internal/config"
	"gridbill/internal/history"
	"gridbill/internal/repository/postgres"
	"gridbill/internal/service"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	if len(os.Args) < 2 {
		return fmt.Errorf("usage: importhistory history.csv [history2.csv ...]")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	svc := service.NewHistoryService(postgres.NewBillHistoryRepo(db))
	ctx := context.Background()

	total := 0
	for _, path := range os.Args[1:] {
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("opening %s: %w", path, err)
		}

		bills, err := history.Load(f)
		_ = f.Close()
		if err != nil {
			return fmt.Errorf("loading %s: %w", path, err)
		}

		n, err := svc.Import(ctx, bills)
		if err != nil {
			return fmt.Errorf("importing %s: %w", path, err)
		}
		log.Printf("%s: imported %d rows", path, n)
		total += n
	}

	log.Printf("done: %d rows imported", total)
	return nil
}
