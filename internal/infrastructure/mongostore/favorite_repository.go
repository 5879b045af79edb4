package mongostore

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/oksasatya/shopease-api/internal/domain/repository"
)

type FavoriteRepository struct {
	coll *mongo.Collection
}

func NewFavoriteRepository(db *mongo.Database) *FavoriteRepository {
	return &FavoriteRepository{coll: db.Collection(favoritesCollection)}
}

func (r *FavoriteRepository) Toggle(ctx context.Context, userID, itemID string) (bool, error) {
	del, err := r.coll.DeleteOne(ctx, bson.M{"user_id": userID, "item_id": itemID})
	if err != nil {
		return false, err
	}
	if del.DeletedCount > 0 {
		return false, nil
	}
	_, err = r.coll.InsertOne(ctx, favoriteDoc{UserID: userID, ItemID: itemID, CreatedAt: time.Now().UTC()})
	if err != nil && !mongo.IsDuplicateKeyError(err) {
		return false, err
	}
	return true, nil
}

func (r *FavoriteRepository) ItemIDs(ctx context.Context, userID string) ([]string, error) {
	cur, err := r.coll.Find(ctx, bson.M{"user_id": userID}, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	var docs []favoriteDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	out := make([]string, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.ItemID)
	}
	return out, nil
}

var _ repository.FavoriteRepository = (*FavoriteRepository)(nil)
