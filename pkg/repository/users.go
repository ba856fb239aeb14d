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

type UserRepository struct {
	users *mongo.Collection
}

func NewUserRepository(m *MongoRepository) *UserRepository {
	return &UserRepository{users: m.Collection("users")}
}

func (r *UserRepository) List(ctx context.Context, search, email string, page, limit int64) ([]models.User, int64, error) {
	filter := bson.M{
		"username": bson.M{"$regex": search, "$options": "i"},
		"email":    bson.M{"$regex": email, "$options": "i"},
	}

	opts := options.Find().
		SetProjection(bson.M{"password": 0}).
		SetSkip(skipFor(page, limit)).
		SetLimit(limit)

	cursor, err := r.users.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	users := []models.User{}
	if err := cursor.All(ctx, &users); err != nil {
		return nil, 0, err
	}

	total, err := r.users.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"username": username})
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M) (*models.User, error) {
	var user models.User
	err := r.users.FindOne(ctx, filter).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	res, err := r.users.InsertOne(ctx, user)
	if err != nil {
		return err
	}
	user.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id primitive.ObjectID, passwordHash string) error {
	update := bson.M{
		"$set":         bson.M{"password": passwordHash},
		"$currentDate": bson.M{"updatedAt": true},
	}
	res, err := r.users.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateProfile touches only the self-service fields; empty strings mean
// "leave unchanged", matching the storefront's partial form submits.
func (r *UserRepository) UpdateProfile(ctx context.Context, id primitive.ObjectID, email, phone, address, fullName string) (*models.User, error) {
	set := bson.M{}
	if email != "" {
		set["email"] = email
	}
	if phone != "" {
		set["phone"] = phone
	}
	if address != "" {
		set["address"] = address
	}
	if fullName != "" {
		set["fullName"] = fullName
	}
	if len(set) == 0 {
		return r.FindByID(ctx, id)
	}

	update := bson.M{
		"$set":         set,
		"$currentDate": bson.M{"updatedAt": true},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var user models.User
	err := r.users.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}
