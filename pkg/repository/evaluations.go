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

type EvaluationRepository struct {
	evaluations *mongo.Collection
}

func NewEvaluationRepository(m *MongoRepository) *EvaluationRepository {
	return &EvaluationRepository{evaluations: m.Collection("evaluations")}
}

// ListByProduct returns the visible evaluations of one product, newest first.
func (r *EvaluationRepository) ListByProduct(ctx context.Context, productID primitive.ObjectID) ([]models.Evaluation, error) {
	filter := bson.M{"productID": productID, "isShow": 1}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := r.evaluations.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	evaluations := []models.Evaluation{}
	if err := cursor.All(ctx, &evaluations); err != nil {
		return nil, err
	}
	return evaluations, nil
}

func (r *EvaluationRepository) List(ctx context.Context, starRating, isShow *int, page, limit int64) ([]models.Evaluation, int64, error) {
	filter := bson.M{}
	if starRating != nil {
		filter["starRating"] = *starRating
	}
	if isShow != nil {
		filter["isShow"] = *isShow
	}

	// join the product name the way the old populate('productID', 'name') did
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: filter}},
		{{Key: "$sort", Value: bson.D{{Key: "createdAt", Value: -1}}}},
		{{Key: "$skip", Value: skipFor(page, limit)}},
		{{Key: "$limit", Value: limit}},
		{{Key: "$lookup", Value: bson.M{
			"from":         "products",
			"localField":   "productID",
			"foreignField": "_id",
			"as":           "product",
		}}},
		{{Key: "$addFields", Value: bson.M{
			"productName": bson.M{"$arrayElemAt": bson.A{"$product.name", 0}},
		}}},
		{{Key: "$project", Value: bson.M{"product": 0}}},
	}

	cursor, err := r.evaluations.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	evaluations := []models.Evaluation{}
	if err := cursor.All(ctx, &evaluations); err != nil {
		return nil, 0, err
	}

	total, err := r.evaluations.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	return evaluations, total, nil
}

func (r *EvaluationRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Evaluation, error) {
	var evaluation models.Evaluation
	err := r.evaluations.FindOne(ctx, bson.M{"_id": id}).Decode(&evaluation)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &evaluation, nil
}

func (r *EvaluationRepository) Create(ctx context.Context, evaluation *models.Evaluation) error {
	now := time.Now()
	evaluation.CreatedAt = now
	evaluation.UpdatedAt = now

	res, err := r.evaluations.InsertOne(ctx, evaluation)
	if err != nil {
		return err
	}
	evaluation.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *EvaluationRepository) Update(ctx context.Context, id primitive.ObjectID, upd *models.EvaluationUpdate) (*models.Evaluation, error) {
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

	var evaluation models.Evaluation
	err = r.evaluations.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&evaluation)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &evaluation, nil
}

func (r *EvaluationRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.evaluations.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
