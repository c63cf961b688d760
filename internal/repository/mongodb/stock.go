package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mamadbah2/riceledger/internal/domain/models"
)

// InsertStockItem rejects a pair that already exists under any stored
// spelling, then relies on the unique (clientId, itemType) index for
// concurrent inserts of the canonical label.
func (r *MongoDBRepository) InsertStockItem(ctx context.Context, item models.StockItem) error {
	n, err := r.collection(stockCollection).CountDocuments(ctx, stockKeyFilter(item.ClientID, item.ItemType))
	if err != nil {
		return fmt.Errorf("check stock item %s: %w", item.ItemType, err)
	}
	if n > 0 {
		return &models.ConflictError{Kind: "stock item", Key: string(item.ItemType)}
	}

	_, err = r.collection(stockCollection).InsertOne(ctx, item)
	if mongo.IsDuplicateKeyError(err) {
		return &models.ConflictError{Kind: "stock item", Key: string(item.ItemType)}
	}
	if err != nil {
		return fmt.Errorf("insert stock item: %w", err)
	}
	return nil
}

// FindStockItem looks an item up by its natural key.
func (r *MongoDBRepository) FindStockItem(ctx context.Context, clientID string, itemType models.ItemType) (models.StockItem, error) {
	var item models.StockItem
	err := r.collection(stockCollection).FindOne(ctx, stockKeyFilter(clientID, itemType)).Decode(&item)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.StockItem{}, &models.NotFoundError{Kind: "stock item", ID: string(itemType)}
	}
	if err != nil {
		return models.StockItem{}, fmt.Errorf("find stock item %s: %w", itemType, err)
	}
	item.ItemType = models.NormalizeItemLabel(string(item.ItemType))
	return item, nil
}

// FindStockItemByID looks an item up by id within the tenant.
func (r *MongoDBRepository) FindStockItemByID(ctx context.Context, clientID, id string) (models.StockItem, error) {
	var item models.StockItem
	err := r.collection(stockCollection).FindOne(ctx, idFilter(clientID, id)).Decode(&item)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.StockItem{}, &models.NotFoundError{Kind: "stock item", ID: id}
	}
	if err != nil {
		return models.StockItem{}, fmt.Errorf("find stock item %s: %w", id, err)
	}
	item.ItemType = models.NormalizeItemLabel(string(item.ItemType))
	return item, nil
}

// ListStockItems returns the tenant's items ordered by item type.
func (r *MongoDBRepository) ListStockItems(ctx context.Context, clientID string) ([]models.StockItem, error) {
	cursor, err := r.collection(stockCollection).Find(ctx, bson.M{"clientId": clientID},
		options.Find().SetSort(bson.D{{Key: "itemType", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list stock items: %w", err)
	}

	items := []models.StockItem{}
	if err := cursor.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("decode stock items: %w", err)
	}
	for i := range items {
		items[i].ItemType = models.NormalizeItemLabel(string(items[i].ItemType))
	}
	return items, nil
}

// AdjustStockQuantity increments the quantity with a single conditional
// FindOneAndUpdate. A debit only matches while the stored quantity covers
// it, so concurrent debits can never both pass the check.
func (r *MongoDBRepository) AdjustStockQuantity(ctx context.Context, clientID string, itemType models.ItemType, delta float64, at time.Time) (models.StockItem, error) {
	filter := stockKeyFilter(clientID, itemType)
	if delta < 0 {
		filter["availableQuantity"] = bson.M{"$gte": -delta}
	}

	update := bson.M{
		"$inc": bson.M{"availableQuantity": delta},
		"$set": bson.M{"lastUpdated": at, "updatedAt": at},
	}

	var item models.StockItem
	err := r.collection(stockCollection).
		FindOneAndUpdate(ctx, filter, update, options.FindOneAndUpdate().SetReturnDocument(options.After)).
		Decode(&item)
	if err == nil {
		item.ItemType = models.NormalizeItemLabel(string(item.ItemType))
		return item, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return models.StockItem{}, fmt.Errorf("adjust stock item %s: %w", itemType, err)
	}

	// Nothing matched: either the pair is unknown or the debit is too large.
	current, findErr := r.FindStockItem(ctx, clientID, itemType)
	if findErr != nil {
		return models.StockItem{}, findErr
	}
	return models.StockItem{}, &models.InsufficientStockError{
		ClientID:  clientID,
		ItemType:  itemType,
		Available: current.AvailableQuantity,
		Requested: -delta,
	}
}

// SetStockQuantity overwrites the available quantity.
func (r *MongoDBRepository) SetStockQuantity(ctx context.Context, clientID, id string, quantity float64, at time.Time) (models.StockItem, error) {
	update := bson.M{"$set": bson.M{
		"availableQuantity": quantity,
		"lastUpdated":       at,
		"updatedAt":         at,
	}}

	var item models.StockItem
	err := r.collection(stockCollection).
		FindOneAndUpdate(ctx, idFilter(clientID, id), update,
			options.FindOneAndUpdate().SetReturnDocument(options.After)).
		Decode(&item)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.StockItem{}, &models.NotFoundError{Kind: "stock item", ID: id}
	}
	if err != nil {
		return models.StockItem{}, fmt.Errorf("set stock item %s: %w", id, err)
	}
	item.ItemType = models.NormalizeItemLabel(string(item.ItemType))
	return item, nil
}

// DeleteStockItem removes the item. Sales that reference its type are untouched.
func (r *MongoDBRepository) DeleteStockItem(ctx context.Context, clientID, id string) error {
	res, err := r.collection(stockCollection).DeleteOne(ctx, idFilter(clientID, id))
	if err != nil {
		return fmt.Errorf("delete stock item %s: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return &models.NotFoundError{Kind: "stock item", ID: id}
	}
	return nil
}

// stockKeyFilter matches every stored spelling of itemType within the tenant.
func stockKeyFilter(clientID string, itemType models.ItemType) bson.M {
	return bson.M{
		"clientId": clientID,
		"itemType": bson.M{"$in": itemType.Labels()},
	}
}
