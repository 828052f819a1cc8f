package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mamadbah2/ganado/internal/domain/models"
)

// ListMovements returns the ledger, newest entry first.
func (r *MongoDBRepository) ListMovements(ctx context.Context) ([]models.CashMovement, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.collection(cashCollection).Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, storageErr("find cash movements", err)
	}

	movements := make([]models.CashMovement, 0)
	if err := cursor.All(ctx, &movements); err != nil {
		return nil, storageErr("decode cash movements", err)
	}
	return movements, nil
}

// GetMovement loads one cash movement by identity.
func (r *MongoDBRepository) GetMovement(ctx context.Context, id string) (models.CashMovement, error) {
	var movement models.CashMovement
	if err := r.collection(cashCollection).FindOne(ctx, bson.M{"_id": id}).Decode(&movement); err != nil {
		return models.CashMovement{}, lookupErr("find cash movement "+id, err)
	}
	return movement, nil
}

// CreateMovement inserts a movement with a fresh identity and timestamps.
func (r *MongoDBRepository) CreateMovement(ctx context.Context, movement models.CashMovement) (models.CashMovement, error) {
	now := r.now()
	movement.ID = newID()
	movement.CreatedAt = now
	movement.UpdatedAt = now

	if _, err := r.collection(cashCollection).InsertOne(ctx, movement); err != nil {
		return models.CashMovement{}, storageErr("insert cash movement", err)
	}
	return movement, nil
}

// UpdateMovement overwrites the editable fields of a movement. Last write wins.
func (r *MongoDBRepository) UpdateMovement(ctx context.Context, movement models.CashMovement) (models.CashMovement, error) {
	movement.UpdatedAt = r.now()
	update := bson.M{"$set": bson.M{
		"category":   movement.Category,
		"concept":    movement.Concept,
		"amount":     movement.Amount,
		"totalBills": movement.TotalBills,
		"totalCoins": movement.TotalCoins,
		"updatedAt":  movement.UpdatedAt,
	}}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated models.CashMovement
	err := r.collection(cashCollection).FindOneAndUpdate(ctx, bson.M{"_id": movement.ID}, update, opts).Decode(&updated)
	if err != nil {
		return models.CashMovement{}, lookupErr("update cash movement "+movement.ID, err)
	}
	return updated, nil
}

// DeleteMovement removes a movement.
func (r *MongoDBRepository) DeleteMovement(ctx context.Context, id string) error {
	res, err := r.collection(cashCollection).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return storageErr("delete cash movement "+id, err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("delete cash movement %s: %w", id, models.ErrNotFound)
	}
	return nil
}
