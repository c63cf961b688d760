// Package records exposes the tenant-scoped reads of orders, wages, expenses
// and employees.
package records

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/mamadbah2/riceledger/internal/domain/models"
	"github.com/mamadbah2/riceledger/internal/repository"
)

// Service reads plain ledger records.
type Service struct {
	store  repository.RecordStore
	logger *zap.Logger
}

// NewService wires a records service.
func NewService(store repository.RecordStore, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, logger: logger}
}

// ListOrders returns orders created inside window, newest first.
func (s *Service) ListOrders(ctx context.Context, clientID string, window models.Window) ([]models.Order, error) {
	if err := requireTenant(clientID); err != nil {
		return nil, err
	}
	orders, err := s.store.ListOrders(ctx, clientID, window)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return nonNil(orders), nil
}

// ListWages returns wages dated inside window, newest first.
func (s *Service) ListWages(ctx context.Context, clientID string, window models.Window) ([]models.Wage, error) {
	if err := requireTenant(clientID); err != nil {
		return nil, err
	}
	wages, err := s.store.ListWages(ctx, clientID, window)
	if err != nil {
		return nil, fmt.Errorf("list wages: %w", err)
	}
	return nonNil(wages), nil
}

// ListExpenses returns expenses dated inside window, newest first.
func (s *Service) ListExpenses(ctx context.Context, clientID string, window models.Window) ([]models.Expense, error) {
	if err := requireTenant(clientID); err != nil {
		return nil, err
	}
	expenses, err := s.store.ListExpenses(ctx, clientID, window)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	return nonNil(expenses), nil
}

// ListEmployees returns the tenant's staff, optionally only the active ones.
func (s *Service) ListEmployees(ctx context.Context, clientID string, activeOnly bool) ([]models.Employee, error) {
	if err := requireTenant(clientID); err != nil {
		return nil, err
	}
	employees, err := s.store.ListEmployees(ctx, clientID, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("list employees: %w", err)
	}
	s.logger.Debug("employees listed",
		zap.String("client_id", clientID),
		zap.Bool("active_only", activeOnly),
		zap.Int("count", len(employees)))
	return nonNil(employees), nil
}

func requireTenant(clientID string) error {
	if strings.TrimSpace(clientID) == "" {
		return models.ErrMissingTenant
	}
	return nil
}

// nonNil keeps JSON responses as [] rather than null.
func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
