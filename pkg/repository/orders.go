package repository

import (
	"context"
	"errors"
	"time"

	"github.com/duyshop/backend/pkg/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type OrderRepository struct {
	client *mongo.Client
	orders *mongo.Collection
	items  *mongo.Collection
}

func NewOrderRepository(m *MongoRepository) *OrderRepository {
	return &OrderRepository{
		client: m.Client(),
		orders: m.Collection("transactions"),
		items:  m.Collection("transaction_details"),
	}
}

func (r *OrderRepository) CodeExists(ctx context.Context, code string) (bool, error) {
	count, err := r.orders.CountDocuments(ctx, bson.M{"code": code})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Create persists the order header and all of its line items inside a single
// transaction: either the whole order lands or nothing does.
func (r *OrderRepository) Create(ctx context.Context, order *models.Order, items []models.OrderItem) error {
	now := time.Now()
	order.CreatedAt = now
	order.UpdatedAt = now

	session, err := r.client.StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		res, err := r.orders.InsertOne(sc, order)
		if err != nil {
			if mongo.IsDuplicateKeyError(err) {
				return nil, ErrDuplicateCode
			}
			return nil, err
		}
		order.ID = res.InsertedID.(primitive.ObjectID)

		docs := make([]interface{}, 0, len(items))
		for i := range items {
			items[i].TransactionID = order.ID
			items[i].CreatedAt = now
			items[i].UpdatedAt = now
			docs = append(docs, items[i])
		}
		if len(docs) > 0 {
			if _, err := r.items.InsertMany(sc, docs); err != nil {
				return nil, err
			}
		}
		return nil, nil
	})
	return err
}

func (r *OrderRepository) FindByCode(ctx context.Context, code string) (*models.Order, error) {
	var order models.Order
	err := r.orders.FindOne(ctx, bson.M{"code": code}).Decode(&order)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *OrderRepository) List(ctx context.Context, code string, page, limit int64) ([]models.Order, int64, error) {
	filter := bson.M{"code": bson.M{"$regex": code, "$options": "i"}}
	return r.page(ctx, filter, page, limit)
}

func (r *OrderRepository) ListByUser(ctx context.Context, userID primitive.ObjectID, page, limit int64) ([]models.Order, int64, error) {
	return r.page(ctx, bson.M{"userId": userID}, page, limit)
}

func (r *OrderRepository) page(ctx context.Context, filter bson.M, page, limit int64) ([]models.Order, int64, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(skipFor(page, limit)).
		SetLimit(limit)

	cursor, err := r.orders.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	orders := []models.Order{}
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, 0, err
	}

	total, err := r.orders.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

func (r *OrderRepository) Update(ctx context.Context, id primitive.ObjectID, upd *models.OrderUpdate) (*models.Order, error) {
	set, err := setFields(upd)
	if err != nil {
		return nil, err
	}

	var order models.Order
	if len(set) == 0 {
		// nothing allow-listed to write; answer with the current document
		err = r.orders.FindOne(ctx, bson.M{"_id": id}).Decode(&order)
	} else {
		update := bson.M{
			"$set":         set,
			"$currentDate": bson.M{"updatedAt": true},
		}
		opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
		err = r.orders.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&order)
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// Hide soft-deletes: the order stays in the collection with isShow false.
func (r *OrderRepository) Hide(ctx context.Context, id primitive.ObjectID) error {
	update := bson.M{
		"$set":         bson.M{"isShow": false},
		"$currentDate": bson.M{"updatedAt": true},
	}
	res, err := r.orders.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// MarkPaid flips isPaid to true. Re-applying on a duplicate gateway callback
// is a no-op.
func (r *OrderRepository) MarkPaid(ctx context.Context, code string) error {
	update := bson.M{
		"$set":         bson.M{"isPaid": true},
		"$currentDate": bson.M{"updatedAt": true},
	}
	res, err := r.orders.UpdateOne(ctx, bson.M{"code": code}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *OrderRepository) ItemsByOrder(ctx context.Context, orderID primitive.ObjectID) ([]models.OrderItem, error) {
	cursor, err := r.items.Find(ctx, bson.M{"transactionId": orderID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	items := []models.OrderItem{}
	if err := cursor.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}
