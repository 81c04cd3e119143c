package mongo

import (
	"testing"
	"time"

	"github.com/Beka01247/brewline/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func orderDocument() bson.M {
	created := time.Date(2024, 3, 12, 10, 0, 0, 0, time.UTC)
	return bson.M{
		"_id":         primitive.NewObjectID(),
		"customer_id": "user-1",
		"customer":    bson.M{"name": "Thandi", "email": "t@example.com", "phone": "082"},
		"items": primitive.A{
			bson.M{
				"cart_item_id": "line-1",
				"menu_item_id": "m1",
				"title":        "Cappuccino",
				"price":        38.0,
				"category":     "hot beverages",
				"quantity":     int32(2),
				"customizations": primitive.D{
					{Key: "size", Value: "Large"},
					{Key: "addons", Value: primitive.A{"Extra shot (+R5)"}},
				},
				"unit_price": 53.0,
				"line_total": 106.0,
			},
		},
		"total":      106.0,
		"order_type": "delivery",
		"status":     "preparing",
		"location":   bson.M{"lat": -33.92, "lon": 18.42},
		"created_at": primitive.NewDateTimeFromTime(created),
	}
}

func TestDecodeDocument(t *testing.T) {
	var o domain.Order
	require.NoError(t, DecodeDocument(orderDocument(), &o, true))

	assert.Equal(t, "user-1", o.CustomerID)
	assert.Equal(t, "Thandi", o.Customer.Name)
	assert.Equal(t, domain.OrderPreparing, o.Status)
	require.Len(t, o.Items, 1)
	assert.Equal(t, 2, o.Items[0].Quantity)
	assert.Equal(t, "Cappuccino", o.Items[0].Title)
	assert.Equal(t, 53.0, o.Items[0].UnitPrice)
	require.NotNil(t, o.Items[0].Customizations)
	assert.Equal(t, "Large", o.Items[0].Customizations.Size)
	assert.Equal(t, []string{"Extra shot (+R5)"}, o.Items[0].Customizations.Addons)
	require.NotNil(t, o.Location)
	assert.Equal(t, 18.42, o.Location.Lon)
	assert.Equal(t, 2024, o.CreatedAt.Year())
	assert.Nil(t, o.DeliveryPerson, "missing optional fields stay empty")
}

func TestDecodeDocumentStrictRejectsUnknownFields(t *testing.T) {
	doc := orderDocument()
	doc["legacy_flag"] = true

	var strict domain.Order
	assert.Error(t, DecodeDocument(doc, &strict, true))

	var lenient domain.Order
	require.NoError(t, DecodeDocument(doc, &lenient, false))
	assert.Equal(t, "user-1", lenient.CustomerID)
}
