package mongodb

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/mamadbah2/riceledger/internal/domain/models"
)

func TestWindowFilter(t *testing.T) {
	from := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, time.January, 31, 23, 59, 59, 0, time.UTC)

	assert.Equal(t, bson.M{"clientId": "c1"}, windowFilter("c1", "date", models.Window{}))

	assert.Equal(t,
		bson.M{"clientId": "c1", "createdAt": bson.M{"$gte": from}},
		windowFilter("c1", "createdAt", models.Window{From: from}))

	assert.Equal(t,
		bson.M{"clientId": "c1", "date": bson.M{"$gte": from, "$lte": to}},
		windowFilter("c1", "date", models.Window{From: from, To: to}))
}

func TestStockKeyFilter_MatchesLegacyOtherLabel(t *testing.T) {
	assert.Equal(t,
		bson.M{"clientId": "c1", "itemType": bson.M{"$in": []string{"other", "others"}}},
		stockKeyFilter("c1", models.ItemOther))

	assert.Equal(t,
		bson.M{"clientId": "c1", "itemType": bson.M{"$in": []string{"husk"}}},
		stockKeyFilter("c1", models.ItemHusk))
}

func TestWhenPaidOrder(t *testing.T) {
	cond := whenPaidOrder("$totalAmount")
	assert.Equal(t, "$cond", cond[0].Key)
	args := cond[0].Value.(bson.A)
	assert.Equal(t, bson.D{{Key: "$eq", Value: bson.A{"$status", models.OrderPaidClosed}}}, args[0])
	assert.Equal(t, "$totalAmount", args[1])
	assert.Equal(t, 0, args[2])
}
