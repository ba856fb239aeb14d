package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ProductFeature struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	NameFeature  string             `bson:"nameFeature" json:"nameFeature"`
	ValueFeature string             `bson:"valueFeature" json:"valueFeature"`
	IsShow       int                `bson:"isShow" json:"isShow"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}

type FeatureUpdate struct {
	NameFeature  *string `bson:"nameFeature,omitempty" json:"nameFeature,omitempty"`
	ValueFeature *string `bson:"valueFeature,omitempty" json:"valueFeature,omitempty"`
	IsShow       *int    `bson:"isShow,omitempty" json:"isShow,omitempty"`
}
