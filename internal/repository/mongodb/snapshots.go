package mongodb

import (
	"context"

	"github.com/mamadbah2/ganado/internal/domain/models"
)

// SaveSnapshot stores a reconciliation report.
func (r *MongoDBRepository) SaveSnapshot(ctx context.Context, snapshot models.ReconciliationSnapshot) error {
	snapshot.ID = newID()
	if snapshot.CreatedAt.IsZero() {
		snapshot.CreatedAt = r.now()
	}

	if _, err := r.collection(snapshotCollection).InsertOne(ctx, snapshot); err != nil {
		return storageErr("insert reconciliation snapshot", err)
	}
	return nil
}
