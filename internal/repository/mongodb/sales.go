package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/mamadbah2/riceledger/internal/domain/models"
)

// InsertSale stores a new sale with its line items embedded.
func (r *MongoDBRepository) InsertSale(ctx context.Context, sale models.Sale) error {
	if _, err := r.collection(salesCollection).InsertOne(ctx, sale); err != nil {
		return fmt.Errorf("insert sale: %w", err)
	}
	return nil
}

// FindSale returns the tenant's sale with id.
func (r *MongoDBRepository) FindSale(ctx context.Context, clientID, id string) (models.Sale, error) {
	var sale models.Sale
	err := r.collection(salesCollection).FindOne(ctx, idFilter(clientID, id)).Decode(&sale)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Sale{}, &models.NotFoundError{Kind: "sale", ID: id}
	}
	if err != nil {
		return models.Sale{}, fmt.Errorf("find sale %s: %w", id, err)
	}
	return sale, nil
}

// ReplaceSale overwrites every field but _id, matching only while the stored
// updatedAt equals loadedAt.
func (r *MongoDBRepository) ReplaceSale(ctx context.Context, sale models.Sale, loadedAt time.Time) error {
	fields, err := saleFields(sale)
	if err != nil {
		return err
	}

	filter := idFilter(sale.ClientID, sale.ID)
	filter["updatedAt"] = loadedAt

	res, err := r.collection(salesCollection).UpdateOne(ctx, filter, bson.M{"$set": fields})
	if err != nil {
		return fmt.Errorf("replace sale %s: %w", sale.ID, err)
	}
	if res.MatchedCount > 0 {
		return nil
	}

	// Nothing matched: the sale is gone or was changed since it was loaded.
	n, err := r.collection(salesCollection).CountDocuments(ctx, idFilter(sale.ClientID, sale.ID))
	if err != nil {
		return fmt.Errorf("replace sale %s: %w", sale.ID, err)
	}
	if n == 0 {
		return &models.NotFoundError{Kind: "sale", ID: sale.ID}
	}
	return &models.ConflictError{Kind: "sale", Key: sale.ID}
}

// DeleteSale removes the tenant's sale with id and returns the removed document.
func (r *MongoDBRepository) DeleteSale(ctx context.Context, clientID, id string) (models.Sale, error) {
	var sale models.Sale
	err := r.collection(salesCollection).FindOneAndDelete(ctx, idFilter(clientID, id)).Decode(&sale)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Sale{}, &models.NotFoundError{Kind: "sale", ID: id}
	}
	if err != nil {
		return models.Sale{}, fmt.Errorf("delete sale %s: %w", id, err)
	}
	return sale, nil
}

// ListSales returns the tenant's sales created inside window, newest first.
func (r *MongoDBRepository) ListSales(ctx context.Context, clientID string, window models.Window) ([]models.Sale, error) {
	cursor, err := r.collection(salesCollection).Find(ctx, windowFilter(clientID, "createdAt", window), newestFirst("createdAt"))
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}

	sales := []models.Sale{}
	if err := cursor.All(ctx, &sales); err != nil {
		return nil, fmt.Errorf("decode sales: %w", err)
	}
	return sales, nil
}

// saleFields is the $set document of a sale. _id is left out because legacy
// documents keep their ObjectID.
func saleFields(sale models.Sale) (bson.M, error) {
	raw, err := bson.Marshal(sale)
	if err != nil {
		return nil, fmt.Errorf("encode sale %s: %w", sale.ID, err)
	}
	var fields bson.M
	if err := bson.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("encode sale %s: %w", sale.ID, err)
	}
	delete(fields, "_id")
	return fields, nil
}
