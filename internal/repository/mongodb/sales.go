package mongodb

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mamadbah2/ganado/internal/domain/models"
)

// CreateSale inserts an immutable sale record.
func (r *MongoDBRepository) CreateSale(ctx context.Context, sale models.Sale) (models.Sale, error) {
	sale.ID = newID()
	if sale.Timestamp.IsZero() {
		sale.Timestamp = r.now()
	}

	if _, err := r.collection(salesCollection).InsertOne(ctx, sale); err != nil {
		return models.Sale{}, storageErr("insert sale", err)
	}
	return sale, nil
}

// ListSales returns every sale, most recent sale date first.
func (r *MongoDBRepository) ListSales(ctx context.Context) ([]models.Sale, error) {
	opts := options.Find().SetSort(bson.D{{Key: "saleDate", Value: -1}})
	cursor, err := r.collection(salesCollection).Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, storageErr("find sales", err)
	}

	sales := make([]models.Sale, 0)
	if err := cursor.All(ctx, &sales); err != nil {
		return nil, storageErr("decode sales", err)
	}
	return sales, nil
}

// GetSale loads one sale by identity.
func (r *MongoDBRepository) GetSale(ctx context.Context, id string) (models.Sale, error) {
	var sale models.Sale
	if err := r.collection(salesCollection).FindOne(ctx, bson.M{"_id": id}).Decode(&sale); err != nil {
		return models.Sale{}, lookupErr("find sale "+id, err)
	}
	return sale, nil
}
