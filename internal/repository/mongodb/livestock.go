package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/mamadbah2/ganado/internal/domain/models"
)

// ListListings returns every listing, newest first.
func (r *MongoDBRepository) ListListings(ctx context.Context) ([]models.Listing, error) {
	opts := options.Find().SetSort(bson.D{{Key: "listedDate", Value: -1}})
	cursor, err := r.collection(livestockCollection).Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, storageErr("find listings", err)
	}

	listings := make([]models.Listing, 0)
	if err := cursor.All(ctx, &listings); err != nil {
		return nil, storageErr("decode listings", err)
	}
	return listings, nil
}

// GetListing loads one listing by identity.
func (r *MongoDBRepository) GetListing(ctx context.Context, id string) (models.Listing, error) {
	var listing models.Listing
	err := r.collection(livestockCollection).FindOne(ctx, bson.M{"_id": id}).Decode(&listing)
	if err != nil {
		return models.Listing{}, lookupErr("find listing "+id, err)
	}
	return listing, nil
}

// CreateListing inserts a listing and returns it with identity and timestamps.
func (r *MongoDBRepository) CreateListing(ctx context.Context, listing models.Listing) (models.Listing, error) {
	now := r.now()
	listing.ID = newID()
	listing.CreatedAt = now
	listing.UpdatedAt = now
	if listing.ListedDate.IsZero() {
		listing.ListedDate = now
	}

	if _, err := r.collection(livestockCollection).InsertOne(ctx, listing); err != nil {
		return models.Listing{}, storageErr("insert listing", err)
	}

	r.logger.Debug("listing created", zap.String("id", listing.ID))
	return listing, nil
}

// UpdateListing applies the patch and returns the updated document. Media
// URLs in the patch are appended to the stored lists.
func (r *MongoDBRepository) UpdateListing(ctx context.Context, id string, patch models.ListingPatch) (models.Listing, error) {
	set := listingPatchSet(patch)
	set["updatedAt"] = r.now()

	update := bson.M{"$set": set}
	push := bson.M{}
	if len(patch.AppendImages) > 0 {
		push["images"] = bson.M{"$each": patch.AppendImages}
	}
	if len(patch.AppendVideos) > 0 {
		push["videos"] = bson.M{"$each": patch.AppendVideos}
	}
	if len(push) > 0 {
		update["$push"] = push
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var listing models.Listing
	err := r.collection(livestockCollection).FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&listing)
	if err != nil {
		return models.Listing{}, lookupErr("update listing "+id, err)
	}
	return listing, nil
}

// MarkListingSold flips the availability flag off. It is idempotent.
func (r *MongoDBRepository) MarkListingSold(ctx context.Context, id string) error {
	res, err := r.collection(livestockCollection).UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"available": false, "updatedAt": r.now()}},
	)
	if err != nil {
		return storageErr("mark listing sold "+id, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("mark listing sold %s: %w", id, models.ErrNotFound)
	}
	return nil
}

// DeleteListing removes a listing.
func (r *MongoDBRepository) DeleteListing(ctx context.Context, id string) error {
	res, err := r.collection(livestockCollection).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return storageErr("delete listing "+id, err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("delete listing %s: %w", id, models.ErrNotFound)
	}
	return nil
}

func listingPatchSet(p models.ListingPatch) bson.M {
	set := bson.M{}
	if p.Name != nil {
		set["name"] = *p.Name
	}
	if p.Breed != nil {
		set["breed"] = *p.Breed
	}
	if p.Age != nil {
		set["age"] = *p.Age
	}
	if p.Weight != nil {
		set["weight"] = *p.Weight
	}
	if p.Price != nil {
		set["price"] = *p.Price
	}
	if p.Location != nil {
		set["location"] = *p.Location
	}
	if p.Seller != nil {
		set["seller"] = *p.Seller
	}
	if p.Description != nil {
		set["description"] = *p.Description
	}
	if p.Purpose != nil {
		set["purpose"] = *p.Purpose
	}
	if p.HealthStatus != nil {
		set["healthStatus"] = *p.HealthStatus
	}
	if p.Vaccinations != nil {
		set["vaccinations"] = p.Vaccinations
	}
	if p.Births != nil {
		set["births"] = *p.Births
	}
	if p.MilkYield != nil {
		set["milkYield"] = *p.MilkYield
	}
	if p.GestationTime != nil {
		set["gestationTime"] = *p.GestationTime
	}
	if p.Offspring != nil {
		set["offspring"] = *p.Offspring
	}
	if p.IsLot != nil {
		set["isLot"] = *p.IsLot
	}
	if p.LotSize != nil {
		set["lotSize"] = *p.LotSize
	}
	return set
}
