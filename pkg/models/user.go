package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	UserStatusInactive = 0
	UserStatusActive   = 1
)

type User struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	FullName string             `bson:"fullName,omitempty" json:"fullName,omitempty"`
	Role     string             `bson:"role" json:"role"`
	Username string             `bson:"username" json:"username"`
	// Password holds the bcrypt hash and is never serialized to JSON.
	Password  string    `bson:"password" json:"-"`
	Email     string    `bson:"email" json:"email"`
	Phone     string    `bson:"phone,omitempty" json:"phone,omitempty"`
	Address   string    `bson:"address,omitempty" json:"address,omitempty"`
	Status    int       `bson:"status" json:"status"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}
