package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/mamadbah2/riceledger/internal/domain/models"
)

// ListOrders returns the tenant's orders created inside window, newest first.
func (r *MongoDBRepository) ListOrders(ctx context.Context, clientID string, window models.Window) ([]models.Order, error) {
	orders := []models.Order{}
	if err := r.findAll(ctx, ordersCollection, windowFilter(clientID, "createdAt", window), "createdAt", &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// ListWages returns the tenant's wages dated inside window, newest first.
func (r *MongoDBRepository) ListWages(ctx context.Context, clientID string, window models.Window) ([]models.Wage, error) {
	wages := []models.Wage{}
	if err := r.findAll(ctx, wagesCollection, windowFilter(clientID, "date", window), "date", &wages); err != nil {
		return nil, err
	}
	return wages, nil
}

// ListExpenses returns the tenant's expenses dated inside window, newest first.
func (r *MongoDBRepository) ListExpenses(ctx context.Context, clientID string, window models.Window) ([]models.Expense, error) {
	expenses := []models.Expense{}
	if err := r.findAll(ctx, expensesCollection, windowFilter(clientID, "date", window), "date", &expenses); err != nil {
		return nil, err
	}
	return expenses, nil
}

// ListEmployees returns the tenant's employees, optionally only the active ones.
func (r *MongoDBRepository) ListEmployees(ctx context.Context, clientID string, activeOnly bool) ([]models.Employee, error) {
	filter := bson.M{"clientId": clientID}
	if activeOnly {
		filter["isActive"] = true
	}

	employees := []models.Employee{}
	if err := r.findAll(ctx, employeesCollection, filter, "createdAt", &employees); err != nil {
		return nil, err
	}
	return employees, nil
}

func (r *MongoDBRepository) findAll(ctx context.Context, coll string, filter bson.M, sortField string, out any) error {
	cursor, err := r.collection(coll).Find(ctx, filter, newestFirst(sortField))
	if err != nil {
		return fmt.Errorf("list %s: %w", coll, err)
	}
	if err := cursor.All(ctx, out); err != nil {
		return fmt.Errorf("decode %s: %w", coll, err)
	}
	return nil
}
