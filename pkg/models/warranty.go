package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Warranty claim statuses, kept as the Vietnamese strings the admin UI shows.
const (
	WarrantyStatusProcessing = "Đang xử lý"
	WarrantyStatusDone       = "Đã hoàn thành"
	WarrantyStatusRejected   = "Từ chối"
)

type Warranty struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	UserID             string             `bson:"userID" json:"userID"`
	ProductName        string             `bson:"productName" json:"productName"`
	NumberProduct      int                `bson:"numberProduct,omitempty" json:"numberProduct,omitempty"`
	SerialNumber       string             `bson:"serialNumber,omitempty" json:"serialNumber,omitempty"`
	PurchaseDate       string             `bson:"purchaseDate,omitempty" json:"purchaseDate,omitempty"`
	WarrantyPeriod     string             `bson:"warrantyPeriod,omitempty" json:"warrantyPeriod,omitempty"`
	WarrantyExpiryDate string             `bson:"warrantyExpiryDate,omitempty" json:"warrantyExpiryDate,omitempty"`
	CustomerName       string             `bson:"customerName,omitempty" json:"customerName,omitempty"`
	Phone              string             `bson:"phone,omitempty" json:"phone,omitempty"`
	Email              string             `bson:"email,omitempty" json:"email,omitempty"`
	Address            string             `bson:"address,omitempty" json:"address,omitempty"`
	CustomerNotes      string             `bson:"customerNotes,omitempty" json:"customerNotes,omitempty"`
	WarrantyCode       string             `bson:"warrantyCode" json:"warrantyCode"`
	IssueDescription   string             `bson:"issueDescription,omitempty" json:"issueDescription,omitempty"`
	ReceivedDate       string             `bson:"receivedDate,omitempty" json:"receivedDate,omitempty"`
	Status             string             `bson:"status" json:"status"`
	ProcessingStaff    string             `bson:"processingStaff,omitempty" json:"processingStaff,omitempty"`
	WarrantyResult     string             `bson:"warrantyResult,omitempty" json:"warrantyResult,omitempty"`
	ReturnDate         string             `bson:"returnDate,omitempty" json:"returnDate,omitempty"`
	StaffNotes         string             `bson:"staffNotes,omitempty" json:"staffNotes,omitempty"`
	// The warranty collection predates the shared timestamp names and the
	// admin tooling still queries these, so they stay.
	TimeCreate time.Time `bson:"TimeCreate" json:"TimeCreate"`
	TimeUpdate time.Time `bson:"TimeUpdate" json:"TimeUpdate"`
}

// WarrantyUpdate enumerates the fields staff may edit on a claim. The
// warranty code and owning user are not representable here.
type WarrantyUpdate struct {
	ProductName        *string `bson:"productName,omitempty" json:"productName,omitempty"`
	NumberProduct      *int    `bson:"numberProduct,omitempty" json:"numberProduct,omitempty"`
	SerialNumber       *string `bson:"serialNumber,omitempty" json:"serialNumber,omitempty"`
	PurchaseDate       *string `bson:"purchaseDate,omitempty" json:"purchaseDate,omitempty"`
	WarrantyPeriod     *string `bson:"warrantyPeriod,omitempty" json:"warrantyPeriod,omitempty"`
	WarrantyExpiryDate *string `bson:"warrantyExpiryDate,omitempty" json:"warrantyExpiryDate,omitempty"`
	CustomerName       *string `bson:"customerName,omitempty" json:"customerName,omitempty"`
	Phone              *string `bson:"phone,omitempty" json:"phone,omitempty"`
	Email              *string `bson:"email,omitempty" json:"email,omitempty"`
	Address            *string `bson:"address,omitempty" json:"address,omitempty"`
	CustomerNotes      *string `bson:"customerNotes,omitempty" json:"customerNotes,omitempty"`
	IssueDescription   *string `bson:"issueDescription,omitempty" json:"issueDescription,omitempty"`
	ReceivedDate       *string `bson:"receivedDate,omitempty" json:"receivedDate,omitempty"`
	Status             *string `bson:"status,omitempty" json:"status,omitempty"`
	ProcessingStaff    *string `bson:"processingStaff,omitempty" json:"processingStaff,omitempty"`
	WarrantyResult     *string `bson:"warrantyResult,omitempty" json:"warrantyResult,omitempty"`
	ReturnDate         *string `bson:"returnDate,omitempty" json:"returnDate,omitempty"`
	StaffNotes         *string `bson:"staffNotes,omitempty" json:"staffNotes,omitempty"`
}
