package mongostore

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/oksasatya/shopease-api/internal/domain/entity"
	"github.com/oksasatya/shopease-api/internal/domain/repository"
)

type OrderRepository struct {
	client *mongo.Client
	orders *mongo.Collection
	carts  *mongo.Collection
	items  *mongo.Collection
}

func NewOrderRepository(client *mongo.Client, db *mongo.Database) *OrderRepository {
	return &OrderRepository{
		client: client,
		orders: db.Collection(ordersCollection),
		carts:  db.Collection(cartsCollection),
		items:  db.Collection(itemsCollection),
	}
}

// PlaceFromCart runs inside a multi-document transaction: the order
// insert and the cart reset commit together or not at all.
func (r *OrderRepository) PlaceFromCart(ctx context.Context, userID, cartID string, build repository.OrderBuilder) (*entity.Order, error) {
	sess, err := r.client.StartSession()
	if err != nil {
		return nil, err
	}
	defer sess.EndSession(ctx)

	res, err := sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		var d cartDoc
		if err := r.carts.FindOne(sc, bson.M{"_id": cartID, "user_id": userID}).Decode(&d); err != nil {
			return nil, mapErr(err)
		}
		cart := d.entity()
		if err := resolveItems(sc, r.items, cart); err != nil {
			return nil, err
		}
		o, err := build(cart)
		if err != nil {
			return nil, err
		}
		if _, err := r.orders.InsertOne(sc, toOrderDoc(o)); err != nil {
			return nil, mapErr(err)
		}
		if _, err := r.carts.UpdateOne(sc, bson.M{"_id": cart.ID},
			bson.M{"$set": bson.M{"lines": bson.A{}, "updated_at": time.Now().UTC()}}); err != nil {
			return nil, err
		}
		return o, nil
	})
	if err != nil {
		return nil, err
	}
	return res.(*entity.Order), nil
}

func (r *OrderRepository) find(ctx context.Context, filter bson.M) ([]*entity.Order, error) {
	cur, err := r.orders.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: 1}}))
	if err != nil {
		return nil, err
	}
	var docs []orderDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	out := make([]*entity.Order, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.entity())
	}
	return out, nil
}

func (r *OrderRepository) GetByID(ctx context.Context, id string) (*entity.Order, error) {
	var d orderDoc
	if err := r.orders.FindOne(ctx, bson.M{"_id": id}).Decode(&d); err != nil {
		return nil, mapErr(err)
	}
	return d.entity(), nil
}

func (r *OrderRepository) ListByUser(ctx context.Context, userID string) ([]*entity.Order, error) {
	return r.find(ctx, bson.M{"user_id": userID})
}

func (r *OrderRepository) ListAll(ctx context.Context) ([]*entity.Order, error) {
	return r.find(ctx, bson.M{})
}

func (r *OrderRepository) UpdateStatus(ctx context.Context, id string, status entity.OrderStatus, from ...entity.OrderStatus) (*entity.Order, error) {
	filter := bson.M{"_id": id}
	if len(from) > 0 {
		allowed := make([]string, len(from))
		for i, st := range from {
			allowed[i] = string(st)
		}
		filter["status"] = bson.M{"$in": allowed}
	}
	var d orderDoc
	err := r.orders.FindOneAndUpdate(ctx,
		filter,
		bson.M{"$set": bson.M{"status": string(status), "updated_at": time.Now().UTC()}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&d)
	if errors.Is(err, mongo.ErrNoDocuments) && len(from) > 0 {
		n, cerr := r.orders.CountDocuments(ctx, bson.M{"_id": id})
		if cerr != nil {
			return nil, cerr
		}
		if n > 0 {
			return nil, repository.ErrStateChanged
		}
	}
	if err != nil {
		return nil, mapErr(err)
	}
	return d.entity(), nil
}

var _ repository.OrderRepository = (*OrderRepository)(nil)
