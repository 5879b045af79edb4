package mongostore

import (
	"context"
	"regexp"
	"sort"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/oksasatya/shopease-api/internal/domain/entity"
	"github.com/oksasatya/shopease-api/internal/domain/repository"
)

type ItemRepository struct {
	coll *mongo.Collection
}

func NewItemRepository(db *mongo.Database) *ItemRepository {
	return &ItemRepository{coll: db.Collection(itemsCollection)}
}

func (r *ItemRepository) Create(ctx context.Context, it *entity.Item) error {
	if it.ID == "" {
		it.ID = uuid.NewString()
	}
	_, err := r.coll.InsertOne(ctx, toItemDoc(it))
	return mapErr(err)
}

func (r *ItemRepository) GetByID(ctx context.Context, id string) (*entity.Item, error) {
	var d itemDoc
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&d); err != nil {
		return nil, mapErr(err)
	}
	return d.entity(), nil
}

func (r *ItemRepository) Update(ctx context.Context, it *entity.Item) error {
	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": it.ID}, toItemDoc(it))
	if err != nil {
		return mapErr(err)
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func itemFilter(f entity.ItemFilter) bson.M {
	filter := bson.M{}
	if f.ActiveOnly {
		filter["is_active"] = true
	}
	if f.Category != "" {
		filter["category"] = f.Category
	}
	if f.Search != "" {
		filter["name"] = bson.M{"$regex": regexp.QuoteMeta(f.Search), "$options": "i"}
	}
	return filter
}

func (r *ItemRepository) List(ctx context.Context, f entity.ItemFilter) ([]*entity.Item, int, error) {
	filter := itemFilter(f)
	total, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	if f.Offset < 0 || (f.Offset > 0 && int64(f.Offset) >= total) {
		return []*entity.Item{}, int(total), nil
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: 1}})
	if f.Offset > 0 {
		opts.SetSkip(int64(f.Offset))
	}
	if f.Limit > 0 {
		opts.SetLimit(int64(f.Limit))
	}
	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	var docs []itemDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, 0, err
	}
	out := make([]*entity.Item, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.entity())
	}
	return out, int(total), nil
}

func (r *ItemRepository) Categories(ctx context.Context) ([]string, error) {
	vals, err := r.coll.Distinct(ctx, "category", bson.M{"is_active": true, "category": bson.M{"$ne": ""}})
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(vals))
	for _, v := range vals {
		if s, ok := v.(string); ok && s != "" {
			out = append(out, s)
		}
	}
	sort.Strings(out)
	return out, nil
}

// loadItems loads the given items keyed by id; missing ids are skipped.
func loadItems(ctx context.Context, coll *mongo.Collection, ids []string) (map[string]*entity.Item, error) {
	out := make(map[string]*entity.Item, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	cur, err := coll.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	var docs []itemDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	for _, d := range docs {
		out[d.ID] = d.entity()
	}
	return out, nil
}

var _ repository.ItemRepository = (*ItemRepository)(nil)
