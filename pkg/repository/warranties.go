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

type WarrantyRepository struct {
	warranties *mongo.Collection
}

func NewWarrantyRepository(m *MongoRepository) *WarrantyRepository {
	return &WarrantyRepository{warranties: m.Collection("warranties")}
}

type WarrantyFilter struct {
	UserID       string // empty: all users
	Status       string
	WarrantyCode string
	Phone        string
	Page         int64
	Limit        int64
}

func (r *WarrantyRepository) List(ctx context.Context, f WarrantyFilter) ([]models.Warranty, int64, error) {
	filter := bson.M{}
	if f.UserID != "" {
		filter["userID"] = f.UserID
	}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	if f.WarrantyCode != "" {
		filter["warrantyCode"] = bson.M{"$regex": f.WarrantyCode, "$options": "i"}
	}
	if f.Phone != "" {
		filter["phone"] = bson.M{"$regex": f.Phone, "$options": "i"}
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "TimeCreate", Value: -1}}).
		SetSkip(skipFor(f.Page, f.Limit)).
		SetLimit(f.Limit)

	cursor, err := r.warranties.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	warranties := []models.Warranty{}
	if err := cursor.All(ctx, &warranties); err != nil {
		return nil, 0, err
	}

	total, err := r.warranties.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	return warranties, total, nil
}

func (r *WarrantyRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Warranty, error) {
	var warranty models.Warranty
	err := r.warranties.FindOne(ctx, bson.M{"_id": id}).Decode(&warranty)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &warranty, nil
}

func (r *WarrantyRepository) CodeExists(ctx context.Context, code string) (bool, error) {
	count, err := r.warranties.CountDocuments(ctx, bson.M{"warrantyCode": code})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *WarrantyRepository) Create(ctx context.Context, warranty *models.Warranty) error {
	now := time.Now()
	warranty.TimeCreate = now
	warranty.TimeUpdate = now
	if warranty.Status == "" {
		warranty.Status = models.WarrantyStatusProcessing
	}

	res, err := r.warranties.InsertOne(ctx, warranty)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateCode
		}
		return err
	}
	warranty.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *WarrantyRepository) Update(ctx context.Context, id primitive.ObjectID, upd *models.WarrantyUpdate) (*models.Warranty, error) {
	set, err := setFields(upd)
	if err != nil {
		return nil, err
	}
	if len(set) == 0 {
		return r.FindByID(ctx, id)
	}

	update := bson.M{
		"$set":         set,
		"$currentDate": bson.M{"TimeUpdate": true},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var warranty models.Warranty
	err = r.warranties.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&warranty)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &warranty, nil
}

func (r *WarrantyRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.warranties.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
