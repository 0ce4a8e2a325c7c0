package models

import (
	"gorm.io/gorm"
)

// Payment statuses mirror the gateway's lifecycle vocabulary.
const (
	PaymentStatusInitiated = "Initiated"
	PaymentStatusPending   = "Pending"
	PaymentStatusCompleted = "Completed"
	PaymentStatusRefunded  = "Refunded"
	PaymentStatusExpired   = "Expired"
	PaymentStatusFailed    = "Failed"
)

// Payment snapshots one transaction against the external payment gateway.
// Pidx is the gateway's payment handle; Status is whatever the gateway last
// reported via verify/lookup.
type Payment struct {
	gorm.Model
	UserID            uint    `json:"userID" gorm:"index;not null"`
	ListingID         *uint   `json:"listingID,omitempty" gorm:"index"`
	BookingID         *uint   `json:"bookingID,omitempty" gorm:"index"`
	Amount            int64   `json:"amount" gorm:"not null"` // paisa
	Pidx              string  `json:"pidx" gorm:"uniqueIndex;size:64"`
	TransactionID     string  `json:"transactionID" gorm:"size:64;index"`
	Status            string  `json:"status" gorm:"type:varchar(20);default:Initiated;index"`
	PurchaseOrderID   string  `json:"purchaseOrderID" gorm:"size:64"`
	PurchaseOrderName string  `json:"purchaseOrderName" gorm:"size:128"`
	PaymentURL        string  `json:"paymentURL" gorm:"type:text"`
	Fee               int64   `json:"fee"`
	User              User    `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Listing           Listing `json:"listing,omitempty" gorm:"foreignKey:ListingID"`
}
