package service

import (
	"context"
	"fmt"

	"gridbill/internal/domain"
	"gridbill/internal/port"
)

// HistoryService exposes imported monthly bill history per account.
type HistoryService interface {
	Accounts(ctx context.Context) ([]string, error)
	MonthlyBills(ctx context.Context, accountNumber string) ([]domain.HistoricalBill, error)
	Import(ctx context.Context, bills []domain.HistoricalBill) (int, error)
}

type historyService struct {
	repo port.BillHistoryRepository
}

// NewHistoryService creates a HistoryService backed by the given repository.
func NewHistoryService(repo port.BillHistoryRepository) HistoryService {
	return &historyService{repo: repo}
}

func (s *historyService) Accounts(ctx context.Context) ([]string, error) {
	accounts, err := s.repo.Accounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing accounts: %w", err)
	}
	return accounts, nil
}

func (s *historyService) MonthlyBills(ctx context.Context, accountNumber string) ([]domain.HistoricalBill, error) {
	bills, err := s.repo.MonthlyBills(ctx, accountNumber)
	if err != nil {
		return nil, fmt.Errorf("listing bills for account %s: %w", accountNumber, err)
	}
	if len(bills) == 0 {
		return nil, domain.ErrNotFound
	}
	return bills, nil
}

func (s *historyService) Import(ctx context.Context, bills []domain.HistoricalBill) (int, error) {
	if len(bills) == 0 {
		return 0, nil
	}
	if err := s.repo.BulkInsert(ctx, bills); err != nil {
		return 0, fmt.Errorf("importing %d bills: %w", len(bills), err)
	}
	return len(bills), nil
}
