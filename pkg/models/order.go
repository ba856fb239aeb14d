package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Order status values. Visibility is tracked separately in IsShow so a hidden
// order keeps whatever processing status it had.
const (
	OrderStatusCancelled  = 0
	OrderStatusProcessing = 1
	OrderStatusCompleted  = 2
)

type Order struct {
	ID            primitive.ObjectID  `bson:"_id,omitempty" json:"_id"`
	Code          string              `bson:"code" json:"code"`
	UserID        *primitive.ObjectID `bson:"userId,omitempty" json:"userId,omitempty"`
	Phone         string              `bson:"phone" json:"phone"`
	Address       string              `bson:"address" json:"address"`
	Email         string              `bson:"email" json:"email"`
	PaymentMethod string              `bson:"paymentMethod" json:"paymentMethod"`
	IsPaid        bool                `bson:"isPaid" json:"isPaid"`
	Status        int                 `bson:"status" json:"status"`
	IsShow        bool                `bson:"isShow" json:"isShow"`
	Note          string              `bson:"note,omitempty" json:"note,omitempty"`
	TotalPrice    float64             `bson:"totalPrice" json:"totalPrice"`
	CreatedAt     time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time           `bson:"updatedAt" json:"updatedAt"`
}

type OrderItem struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	TransactionID primitive.ObjectID `bson:"transactionId" json:"transactionId"`
	ProductID     primitive.ObjectID `bson:"productId" json:"productId"`
	Quantity      int                `bson:"quantity" json:"quantity"`
	UnitPrice     float64            `bson:"unitPrice" json:"unitPrice"`
	LineTotal     float64            `bson:"lineTotal" json:"lineTotal"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// OrderUpdate enumerates the fields an administrative update may touch.
// Decoding into this struct drops unknown keys, and code/createdAt are not
// representable here at all.
type OrderUpdate struct {
	Phone         *string  `bson:"phone,omitempty" json:"phone,omitempty"`
	Address       *string  `bson:"address,omitempty" json:"address,omitempty"`
	Email         *string  `bson:"email,omitempty" json:"email,omitempty"`
	PaymentMethod *string  `bson:"paymentMethod,omitempty" json:"paymentMethod,omitempty"`
	IsPaid        *bool    `bson:"isPaid,omitempty" json:"isPaid,omitempty"`
	Status        *int     `bson:"status,omitempty" json:"status,omitempty"`
	IsShow        *bool    `bson:"isShow,omitempty" json:"isShow,omitempty"`
	Note          *string  `bson:"note,omitempty" json:"note,omitempty"`
	TotalPrice    *float64 `bson:"totalPrice,omitempty" json:"totalPrice,omitempty"`
}

// OrderItemView is a line item joined with product fields for the
// get-by-code response.
type OrderItemView struct {
	ID                    primitive.ObjectID `json:"_id"`
	ProductID             primitive.ObjectID `json:"productId"`
	ProductName           string             `json:"productName"`
	ProductImages         string             `json:"productImages"`
	ProductWarrantyPeriod string             `json:"productWarrantyPeriod"`
	Quantity              int                `json:"quantity"`
	UnitPrice             float64            `json:"unitPrice"`
	LineTotal             float64            `json:"lineTotal"`
	CreatedAt             time.Time          `json:"createdAt"`
	UpdatedAt             time.Time          `json:"updatedAt"`
}
