package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/mamadbah2/riceledger/internal/domain/models"
)

// OrderTotals sums every order of the window and, separately, the paid ones.
func (r *MongoDBRepository) OrderTotals(ctx context.Context, clientID string, window models.Window) (models.OrderTotals, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: windowFilter(clientID, "createdAt", window)}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "totalBags", Value: sum("$numberOfBags")},
			{Key: "totalCount", Value: sum(1)},
			{Key: "paidAmount", Value: sum(whenPaidOrder("$totalAmount"))},
			{Key: "paidBags", Value: sum(whenPaidOrder("$numberOfBags"))},
			{Key: "paidCount", Value: sum(whenPaidOrder(1))},
		}}},
	}

	var rows []models.OrderTotals
	if err := r.aggregate(ctx, ordersCollection, pipeline, &rows); err != nil {
		return models.OrderTotals{}, err
	}
	if len(rows) == 0 {
		return models.OrderTotals{}, nil
	}
	return rows[0], nil
}

// PaidSaleTotals runs one $facet over the paid sales of the window: the
// revenue total and the line items grouped by their stored label.
func (r *MongoDBRepository) PaidSaleTotals(ctx context.Context, clientID string, window models.Window) (models.SaleTotals, error) {
	match := windowFilter(clientID, "createdAt", window)
	match["paymentStatus"] = models.PaymentPaid

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$facet", Value: bson.D{
			{Key: "totals", Value: bson.A{
				bson.D{{Key: "$group", Value: bson.D{
					{Key: "_id", Value: nil},
					{Key: "paidAmount", Value: sum("$totalAmount")},
					{Key: "paidCount", Value: sum(1)},
				}}},
			}},
			{Key: "items", Value: bson.A{
				bson.D{{Key: "$unwind", Value: "$items"}},
				bson.D{{Key: "$group", Value: bson.D{
					{Key: "_id", Value: bson.D{{Key: "$ifNull", Value: bson.A{"$items.itemType", ""}}}},
					{Key: "quantity", Value: sum("$items.quantity")},
					{Key: "amount", Value: sum("$items.amount")},
				}}},
				bson.D{{Key: "$sort", Value: bson.D{{Key: "_id", Value: 1}}}},
			}},
		}}},
	}

	var rows []struct {
		Totals []struct {
			PaidAmount float64 `bson:"paidAmount"`
			PaidCount  int64   `bson:"paidCount"`
		} `bson:"totals"`
		Items []models.ItemTotals `bson:"items"`
	}
	if err := r.aggregate(ctx, salesCollection, pipeline, &rows); err != nil {
		return models.SaleTotals{}, err
	}

	var totals models.SaleTotals
	if len(rows) == 0 {
		return totals, nil
	}
	if len(rows[0].Totals) > 0 {
		totals.PaidAmount = rows[0].Totals[0].PaidAmount
		totals.PaidCount = rows[0].Totals[0].PaidCount
	}
	totals.Items = rows[0].Items
	return totals, nil
}

// WageTotal sums totalWage of the wages dated inside window.
func (r *MongoDBRepository) WageTotal(ctx context.Context, clientID string, window models.Window) (float64, error) {
	return r.sumField(ctx, wagesCollection, windowFilter(clientID, "date", window), "$totalWage")
}

// ExpenseTotal sums amount of the expenses dated inside window.
func (r *MongoDBRepository) ExpenseTotal(ctx context.Context, clientID string, window models.Window) (float64, error) {
	return r.sumField(ctx, expensesCollection, windowFilter(clientID, "date", window), "$amount")
}

// ActiveSalaryTotal sums the salaries of the tenant's active employees.
func (r *MongoDBRepository) ActiveSalaryTotal(ctx context.Context, clientID string) (float64, error) {
	return r.sumField(ctx, employeesCollection, bson.M{"clientId": clientID, "isActive": true}, "$salary")
}

// StockLevels returns the stored label and quantity of every stock item.
func (r *MongoDBRepository) StockLevels(ctx context.Context, clientID string) ([]models.StockLevel, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"clientId": clientID}}},
		{{Key: "$project", Value: bson.D{
			{Key: "_id", Value: 0},
			{Key: "itemType", Value: 1},
			{Key: "availableQuantity", Value: 1},
		}}},
	}

	levels := []models.StockLevel{}
	if err := r.aggregate(ctx, stockCollection, pipeline, &levels); err != nil {
		return nil, err
	}
	return levels, nil
}

func (r *MongoDBRepository) sumField(ctx context.Context, coll string, match bson.M, field string) (float64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "total", Value: sum(field)},
		}}},
	}

	var rows []struct {
		Total float64 `bson:"total"`
	}
	if err := r.aggregate(ctx, coll, pipeline, &rows); err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, nil
	}
	return rows[0].Total, nil
}

func (r *MongoDBRepository) aggregate(ctx context.Context, coll string, pipeline mongo.Pipeline, out any) error {
	cursor, err := r.collection(coll).Aggregate(ctx, pipeline)
	if err != nil {
		return fmt.Errorf("aggregate %s: %w", coll, err)
	}
	if err := cursor.All(ctx, out); err != nil {
		return fmt.Errorf("decode %s aggregation: %w", coll, err)
	}
	return nil
}

func sum(expr any) bson.D {
	return bson.D{{Key: "$sum", Value: expr}}
}

// whenPaidOrder yields expr for closed-and-paid orders and 0 otherwise.
func whenPaidOrder(expr any) bson.D {
	return bson.D{{Key: "$cond", Value: bson.A{
		bson.D{{Key: "$eq", Value: bson.A{"$status", models.OrderPaidClosed}}},
		expr,
		0,
	}}}
}
