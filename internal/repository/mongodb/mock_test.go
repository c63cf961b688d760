package mongodb

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

// mockRepo points a repository at the mock deployment of mt.
func mockRepo(mt *mtest.T) *MongoDBRepository {
	return &MongoDBRepository{client: mt.Client, db: mt.DB}
}

func namespace(mt *mtest.T, coll string) string {
	return mt.DB.Name() + "." + coll
}

// document encodes v the way the driver stores it.
func document(t *testing.T, v any) bson.D {
	t.Helper()
	raw, err := bson.Marshal(v)
	require.NoError(t, err)
	var doc bson.D
	require.NoError(t, bson.Unmarshal(raw, &doc))
	return doc
}

// modified is a findAndModify reply; a nil doc means nothing matched.
func modified(doc any) bson.D {
	return bson.D{{Key: "ok", Value: 1}, {Key: "value", Value: doc}}
}

// counted is the aggregate reply CountDocuments reads; zero sends an empty batch.
func counted(mt *mtest.T, coll string, n int32) bson.D {
	if n == 0 {
		return mtest.CreateCursorResponse(0, namespace(mt, coll), mtest.FirstBatch)
	}
	return mtest.CreateCursorResponse(0, namespace(mt, coll), mtest.FirstBatch, bson.D{{Key: "n", Value: n}})
}

func matched(n int32) bson.D {
	return mtest.CreateSuccessResponse(bson.E{Key: "n", Value: n}, bson.E{Key: "nModified", Value: n})
}
