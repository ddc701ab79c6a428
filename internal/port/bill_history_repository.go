package port

import (
	"context"

	"gridbill/internal/domain"
)

// BillHistoryRepository stores imported historical monthly bills.
type BillHistoryRepository interface {
	Accounts(ctx context.Context) ([]string, error)
	MonthlyBills(ctx context.Context, accountNumber string) ([]domain.HistoricalBill, error)
	BulkInsert(ctx context.Context, bills []domain.HistoricalBill) error
}
