package mongostore

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/oksasatya/shopease-api/internal/domain/entity"
	"github.com/oksasatya/shopease-api/internal/domain/repository"
)

// addLineAttempts bounds the $inc / $push race loop in AddLine.
const addLineAttempts = 3

type CartRepository struct {
	carts *mongo.Collection
	items *mongo.Collection
}

func NewCartRepository(db *mongo.Database) *CartRepository {
	return &CartRepository{carts: db.Collection(cartsCollection), items: db.Collection(itemsCollection)}
}

// resolveItems attaches the current item documents to every line.
func resolveItems(ctx context.Context, items *mongo.Collection, carts ...*entity.Cart) error {
	var ids []string
	for _, c := range carts {
		for _, l := range c.Lines {
			ids = append(ids, l.ItemID)
		}
	}
	byID, err := loadItems(ctx, items, ids)
	if err != nil {
		return err
	}
	for _, c := range carts {
		for i := range c.Lines {
			c.Lines[i].Item = byID[c.Lines[i].ItemID]
		}
	}
	return nil
}

func (r *CartRepository) findOne(ctx context.Context, filter bson.M) (*entity.Cart, error) {
	var d cartDoc
	if err := r.carts.FindOne(ctx, filter).Decode(&d); err != nil {
		return nil, mapErr(err)
	}
	c := d.entity()
	if err := resolveItems(ctx, r.items, c); err != nil {
		return nil, err
	}
	return c, nil
}

// GetOrCreate upserts on the unique user_id index. A losing concurrent
// upsert surfaces as a duplicate key and falls back to a read.
func (r *CartRepository) GetOrCreate(ctx context.Context, userID string) (*entity.Cart, error) {
	now := time.Now().UTC()
	update := bson.M{"$setOnInsert": bson.M{
		"_id":        uuid.NewString(),
		"user_id":    userID,
		"lines":      bson.A{},
		"created_at": now,
		"updated_at": now,
	}}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	var d cartDoc
	err := r.carts.FindOneAndUpdate(ctx, bson.M{"user_id": userID}, update, opts).Decode(&d)
	if mongo.IsDuplicateKeyError(err) {
		return r.GetByUser(ctx, userID)
	}
	if err != nil {
		return nil, mapErr(err)
	}
	c := d.entity()
	if err := resolveItems(ctx, r.items, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (r *CartRepository) GetByUser(ctx context.Context, userID string) (*entity.Cart, error) {
	return r.findOne(ctx, bson.M{"user_id": userID})
}

func (r *CartRepository) GetByID(ctx context.Context, cartID string) (*entity.Cart, error) {
	return r.findOne(ctx, bson.M{"_id": cartID})
}

// AddLine increments the matching line in place, or pushes a new line
// guarded on the item being absent. If both miss, another writer got
// in between and the loop retries.
func (r *CartRepository) AddLine(ctx context.Context, cartID, itemID string, qty int) error {
	for attempt := 0; attempt < addLineAttempts; attempt++ {
		now := time.Now().UTC()
		res, err := r.carts.UpdateOne(ctx,
			bson.M{"_id": cartID, "lines": bson.M{"$elemMatch": bson.M{
				"item_id":  itemID,
				"quantity": bson.M{"$lte": entity.MaxLineQuantity - qty},
			}}},
			bson.M{"$inc": bson.M{"lines.$.quantity": qty}, "$set": bson.M{"updated_at": now}},
		)
		if err != nil {
			return mapErr(err)
		}
		if res.MatchedCount == 1 {
			return nil
		}
		line := cartLineDoc{ID: uuid.NewString(), ItemID: itemID, Quantity: qty, CreatedAt: now}
		res, err = r.carts.UpdateOne(ctx,
			bson.M{"_id": cartID, "lines.item_id": bson.M{"$ne": itemID}},
			bson.M{"$push": bson.M{"lines": line}, "$set": bson.M{"updated_at": now}},
		)
		if err != nil {
			return mapErr(err)
		}
		if res.MatchedCount == 1 {
			return nil
		}
		n, err := r.carts.CountDocuments(ctx, bson.M{"_id": cartID})
		if err != nil {
			return err
		}
		if n == 0 {
			return repository.ErrNotFound
		}
		full, err := r.carts.CountDocuments(ctx, bson.M{"_id": cartID, "lines": bson.M{"$elemMatch": bson.M{
			"item_id":  itemID,
			"quantity": bson.M{"$gt": entity.MaxLineQuantity - qty},
		}}})
		if err != nil {
			return err
		}
		if full > 0 {
			return entity.ErrQuantityExceeded
		}
	}
	return errAddLineContention
}

func (r *CartRepository) SetLineQuantity(ctx context.Context, cartID, lineID string, qty int) error {
	filter := bson.M{"_id": cartID, "lines._id": lineID}
	now := time.Now().UTC()
	var update bson.M
	if qty == 0 {
		update = bson.M{"$pull": bson.M{"lines": bson.M{"_id": lineID}}, "$set": bson.M{"updated_at": now}}
	} else {
		update = bson.M{"$set": bson.M{"lines.$.quantity": qty, "updated_at": now}}
	}
	res, err := r.carts.UpdateOne(ctx, filter, update)
	if err != nil {
		return mapErr(err)
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *CartRepository) RemoveLine(ctx context.Context, cartID, lineID string) error {
	_, err := r.carts.UpdateOne(ctx,
		bson.M{"_id": cartID, "lines._id": lineID},
		bson.M{"$pull": bson.M{"lines": bson.M{"_id": lineID}}, "$set": bson.M{"updated_at": time.Now().UTC()}},
	)
	return mapErr(err)
}

func (r *CartRepository) Clear(ctx context.Context, cartID string) error {
	res, err := r.carts.UpdateOne(ctx, bson.M{"_id": cartID},
		bson.M{"$set": bson.M{"lines": bson.A{}, "updated_at": time.Now().UTC()}})
	if err != nil {
		return mapErr(err)
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *CartRepository) ListAll(ctx context.Context) ([]*entity.Cart, error) {
	cur, err := r.carts.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "updated_at", Value: -1}, {Key: "_id", Value: 1}}))
	if err != nil {
		return nil, err
	}
	var docs []cartDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	out := make([]*entity.Cart, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.entity())
	}
	if err := resolveItems(ctx, r.items, out...); err != nil {
		return nil, err
	}
	return out, nil
}

var _ repository.CartRepository = (*CartRepository)(nil)
