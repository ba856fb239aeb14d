package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/duyshop/backend/pkg/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ProductRepository struct {
	products *mongo.Collection
}

func NewProductRepository(m *MongoRepository) *ProductRepository {
	return &ProductRepository{products: m.Collection("products")}
}

// ProductFilter mirrors the storefront's listing query: name search, price
// range on the promotional price, sensor-valve membership and exact
// key-value matches inside the JSON-string feature field.
type ProductFilter struct {
	Search       string
	SortDesc     bool
	MinPrice     *float64
	MaxPrice     *float64
	SensorValves []string
	Features     map[string][]string
	Page         int64
	Limit        int64
}

func (f *ProductFilter) query() bson.M {
	query := bson.M{"name": bson.M{"$regex": f.Search, "$options": "i"}}

	if f.MinPrice != nil || f.MaxPrice != nil {
		price := bson.M{}
		if f.MinPrice != nil {
			price["$gte"] = *f.MinPrice
		}
		if f.MaxPrice != nil {
			price["$lte"] = *f.MaxPrice
		}
		query["promotionalPrice"] = price
	}

	if len(f.SensorValves) > 0 {
		query["sensorValve"] = bson.M{"$in": f.SensorValves}
	}

	if len(f.Features) > 0 {
		var and bson.A
		for key, values := range f.Features {
			for _, val := range values {
				// feature is stored as a JSON string, so an exact pair match
				// is a substring match on its serialized form
				pair := fmt.Sprintf("%q:%q", key, val)
				and = append(and, bson.M{"feature": bson.M{"$regex": pair, "$options": "i"}})
			}
		}
		if len(and) > 0 {
			query["$and"] = and
		}
	}

	return query
}

func (r *ProductRepository) List(ctx context.Context, f ProductFilter) ([]models.Product, int64, error) {
	query := f.query()

	sortDir := 1
	if f.SortDesc {
		sortDir = -1
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "realPrice", Value: sortDir}}).
		SetSkip(skipFor(f.Page, f.Limit)).
		SetLimit(f.Limit)

	cursor, err := r.products.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	products := []models.Product{}
	if err := cursor.All(ctx, &products); err != nil {
		return nil, 0, err
	}

	total, err := r.products.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

func (r *ProductRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	var product models.Product
	err := r.products.FindOne(ctx, bson.M{"_id": id}).Decode(&product)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *ProductRepository) Create(ctx context.Context, product *models.Product) error {
	res, err := r.products.InsertOne(ctx, product)
	if err != nil {
		return err
	}
	product.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *ProductRepository) Update(ctx context.Context, id primitive.ObjectID, upd *models.ProductUpdate) (*models.Product, error) {
	set, err := setFields(upd)
	if err != nil {
		return nil, err
	}
	if len(set) == 0 {
		return r.FindByID(ctx, id)
	}

	update := bson.M{
		"$set":         set,
		"$currentDate": bson.M{"updatedAt": true},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var product models.Product
	err = r.products.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&product)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *ProductRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.products.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
