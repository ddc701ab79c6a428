package postgres

import (
	"context"

	"github.com/jmoiron/sqlx"

	"gridbill/internal/domain"
	"gridbill/internal/port"
)

type billHistoryRepo struct {
	db *sqlx.DB
}

// NewBillHistoryRepo creates a new PostgreSQL-backed BillHistoryRepository.
func NewBillHistoryRepo(db *sqlx.DB) port.BillHistoryRepository {
	return &billHistoryRepo{db: db}
}

func (r *billHistoryRepo) Accounts(ctx context.Context) ([]string, error) {
	var accounts []string
	err := r.db.SelectContext(ctx, &accounts,
		`SELECT DISTINCT account_number
		 FROM bill_history
		 ORDER BY account_number`)
	if err != nil {
		return nil, err
	}
	return accounts, nil
}

func (r *billHistoryRepo) MonthlyBills(ctx context.Context, accountNumber string) ([]domain.HistoricalBill, error) {
	var bills []domain.HistoricalBill
	err := r.db.SelectContext(ctx, &bills,
		`SELECT account_number, month, usage_kwh, generation_kwh, net_usage_kwh,
		        usage_cost, generation_credit, amount_due
		 FROM bill_history
		 WHERE account_number = $1
		 ORDER BY month`, accountNumber)
	if err != nil {
		return nil, err
	}
	return bills, nil
}

func (r *billHistoryRepo) BulkInsert(ctx context.Context, bills []domain.HistoricalBill) error {
	if len(bills) == 0 {
		return nil
	}
	_, err := r.db.NamedExecContext(ctx,
		`INSERT INTO bill_history
		   (account_number, month, usage_kwh, generation_kwh, net_usage_kwh,
		    usage_cost, generation_credit, amount_due)
		 VALUES
		   (:account_number, :month, :usage_kwh, :generation_kwh, :net_usage_kwh,
		    :usage_cost, :generation_credit, :amount_due)
		 ON CONFLICT (account_number, month) DO UPDATE SET
		   usage_kwh = EXCLUDED.usage_kwh,
		   generation_kwh = EXCLUDED.generation_kwh,
		   net_usage_kwh = EXCLUDED.net_usage_kwh,
		   usage_cost = EXCLUDED.usage_cost,
		   generation_credit = EXCLUDED.generation_credit,
		   amount_due = EXCLUDED.amount_due`, bills)
	return err
}
