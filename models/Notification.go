package models

import (
	"gorm.io/gorm"
)

type Notification struct {
	gorm.Model
	UserID  uint   `json:"userID" gorm:"index;not null"`
	Title   string `json:"title"`
	Message string `json:"message"`
	Type    string `json:"type" gorm:"size:50;index"` // booking_request, booking_status, shifting_status, listing_status, payment
	RefID   uint   `json:"refID"`
	RefType string `json:"refType" gorm:"size:50"` // booking, shifting_request, listing, payment
	IsRead  bool   `json:"isRead" gorm:"default:false;index"`
}
