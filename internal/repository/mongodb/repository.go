package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mamadbah2/riceledger/internal/domain/models"
	"github.com/mamadbah2/riceledger/internal/repository"
)

// Collection names follow the ones the records have always been stored under.
const (
	stockCollection     = "stocks"
	salesCollection     = "sales"
	ordersCollection    = "orders"
	wagesCollection     = "wages"
	expensesCollection  = "expenses"
	employeesCollection = "employees"
	snapshotsCollection = "dashboard_snapshots"
)

var _ repository.Store = (*MongoDBRepository)(nil)

// MongoDBRepository implements repository.Store on MongoDB.
type MongoDBRepository struct {
	client *mongo.Client
	db     *mongo.Database
}

// NewMongoDBRepository connects, verifies the connection and makes sure the
// indexes the stores depend on exist.
func NewMongoDBRepository(ctx context.Context, uri string, dbName string) (*MongoDBRepository, error) {
	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	repo := &MongoDBRepository{
		client: client,
		db:     client.Database(dbName),
	}

	if err := repo.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}

	return repo, nil
}

// ensureIndexes creates the unique stock key and the per-tenant date indexes.
func (r *MongoDBRepository) ensureIndexes(ctx context.Context) error {
	_, err := r.collection(stockCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "clientId", Value: 1}, {Key: "itemType", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("client_item_type_unique"),
	})
	if err != nil {
		return fmt.Errorf("create stock index: %w", err)
	}

	dated := map[string]string{
		salesCollection:    "createdAt",
		ordersCollection:   "createdAt",
		wagesCollection:    "date",
		expensesCollection: "date",
	}
	for coll, field := range dated {
		_, err := r.collection(coll).Indexes().CreateOne(ctx, mongo.IndexModel{
			Keys: bson.D{{Key: "clientId", Value: 1}, {Key: field, Value: -1}},
		})
		if err != nil {
			return fmt.Errorf("create %s index: %w", coll, err)
		}
	}

	return nil
}

// SaveDashboardSnapshot stores a monthly summary.
func (r *MongoDBRepository) SaveDashboardSnapshot(ctx context.Context, snapshot models.DashboardSnapshot) error {
	_, err := r.collection(snapshotsCollection).InsertOne(ctx, snapshot)
	if err != nil {
		return fmt.Errorf("failed to insert dashboard snapshot: %w", err)
	}
	return nil
}

// Close closes the MongoDB connection.
func (r *MongoDBRepository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}

func (r *MongoDBRepository) collection(name string) *mongo.Collection {
	return r.db.Collection(name)
}

// windowFilter scopes a query to the tenant and, when bounded, to window on field.
func windowFilter(clientID, field string, window models.Window) bson.M {
	filter := bson.M{"clientId": clientID}

	rng := bson.M{}
	if !window.From.IsZero() {
		rng["$gte"] = window.From
	}
	if !window.To.IsZero() {
		rng["$lte"] = window.To
	}
	if len(rng) > 0 {
		filter[field] = rng
	}

	return filter
}

// idFilter scopes an _id lookup to the tenant. Records created before ids
// became uuid strings carry an ObjectID, so a hex id matches either form.
func idFilter(clientID, id string) bson.M {
	filter := bson.M{"_id": id, "clientId": clientID}
	if oid, err := primitive.ObjectIDFromHex(id); err == nil {
		filter["_id"] = bson.M{"$in": bson.A{id, oid}}
	}
	return filter
}

func newestFirst(field string) *options.FindOptions {
	return options.Find().SetSort(bson.D{{Key: field, Value: -1}})
}
