package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Evaluation struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	ProductID       primitive.ObjectID `bson:"productID" json:"productID"`
	FullName        string             `bson:"fullName" json:"fullName"`
	Phone           string             `bson:"phone" json:"phone"`
	Email           string             `bson:"email" json:"email"`
	ContentEvaluate string             `bson:"contentEvaluate" json:"contentEvaluate"`
	StarRating      int                `bson:"starRating" json:"starRating"`
	IsShow          int                `bson:"isShow" json:"isShow"`
	ProductName     string             `bson:"productName,omitempty" json:"productName,omitempty"`
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time          `bson:"updatedAt" json:"updatedAt"`
}

type EvaluationUpdate struct {
	ProductID       *primitive.ObjectID `bson:"productID,omitempty" json:"productID,omitempty"`
	FullName        *string             `bson:"fullName,omitempty" json:"fullName,omitempty"`
	Phone           *string             `bson:"phone,omitempty" json:"phone,omitempty"`
	Email           *string             `bson:"email,omitempty" json:"email,omitempty"`
	ContentEvaluate *string             `bson:"contentEvaluate,omitempty" json:"contentEvaluate,omitempty"`
	StarRating      *int                `bson:"starRating,omitempty" json:"starRating,omitempty"`
	IsShow          *int                `bson:"isShow,omitempty" json:"isShow,omitempty"`
}
