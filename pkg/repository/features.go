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

type FeatureRepository struct {
	features *mongo.Collection
}

func NewFeatureRepository(m *MongoRepository) *FeatureRepository {
	return &FeatureRepository{features: m.Collection("product_features")}
}

func (r *FeatureRepository) List(ctx context.Context, isShow *int, page, limit int64) ([]models.ProductFeature, int64, error) {
	filter := bson.M{}
	if isShow != nil {
		filter["isShow"] = *isShow
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(skipFor(page, limit)).
		SetLimit(limit)

	cursor, err := r.features.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	features := []models.ProductFeature{}
	if err := cursor.All(ctx, &features); err != nil {
		return nil, 0, err
	}

	total, err := r.features.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	return features, total, nil
}

func (r *FeatureRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.ProductFeature, error) {
	var feature models.ProductFeature
	err := r.features.FindOne(ctx, bson.M{"_id": id}).Decode(&feature)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &feature, nil
}

func (r *FeatureRepository) Create(ctx context.Context, feature *models.ProductFeature) error {
	now := time.Now()
	feature.CreatedAt = now
	feature.UpdatedAt = now

	res, err := r.features.InsertOne(ctx, feature)
	if err != nil {
		return err
	}
	feature.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *FeatureRepository) Update(ctx context.Context, id primitive.ObjectID, upd *models.FeatureUpdate) (*models.ProductFeature, error) {
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

	var feature models.ProductFeature
	err = r.features.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&feature)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &feature, nil
}

func (r *FeatureRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.features.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
