package models

import (
	"time"

	"gorm.io/gorm"
)

// Booking statuses
const (
	BookingStatusPending  = "pending"
	BookingStatusApproved = "approved"
	BookingStatusRejected = "rejected"
)

// Roles recorded on soft delete
const (
	DeletedByUser     = "user"
	DeletedByLandlord = "landlord"
	DeletedByAdmin    = "admin"
)

// Booking is one renter's request to view a listing on a preferred date.
// Soft delete is an explicit flag (not gorm's DeletedAt) because deletions are
// restorable and must record who performed them.
type Booking struct {
	ID            uint       `json:"ID" gorm:"primaryKey"`
	ListingID     uint       `json:"listingID" gorm:"index;not null"`
	UserID        uint       `json:"userID" gorm:"index;not null"`
	Name          string     `json:"name" gorm:"not null"`
	Address       string     `json:"address" gorm:"not null"`
	Contact       string     `json:"contact" gorm:"not null"`
	PreferredDate time.Time  `json:"preferredDate" gorm:"not null;index"`
	Status        string     `json:"status" gorm:"type:varchar(20);default:pending;index"`
	IsDeleted     bool       `json:"isDeleted" gorm:"default:false;index"`
	DeletedAt     *time.Time `json:"deletedAt,omitempty"`
	DeletedBy     string     `json:"deletedBy,omitempty" gorm:"type:varchar(20)"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
	Listing       Listing    `json:"listing,omitempty" gorm:"foreignKey:ListingID"`
	User          User       `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

// IsValidBookingStatus reports whether s is one of the three booking states.
func IsValidBookingStatus(s string) bool {
	return s == BookingStatusPending || s == BookingStatusApproved || s == BookingStatusRejected
}

// IsValidDeletedBy reports whether s is a role allowed to soft-delete bookings.
func IsValidDeletedBy(s string) bool {
	return s == DeletedByUser || s == DeletedByLandlord || s == DeletedByAdmin
}

// Query scopes. Every booking read path goes through one of these so the
// soft-delete filter stays explicit instead of hidden behind query hooks.

// VisibleBookings excludes soft-deleted records; the default for all reads.
func VisibleBookings(db *gorm.DB) *gorm.DB {
	return db.Where("is_deleted = ?", false)
}

// OnlyDeletedBookings returns soft-deleted records only.
func OnlyDeletedBookings(db *gorm.DB) *gorm.DB {
	return db.Where("is_deleted = ?", true)
}

// AllBookings disables the soft-delete filter; callers opt in explicitly.
func AllBookings(db *gorm.DB) *gorm.DB {
	return db
}

// SoftDelete marks the booking hidden and records who hid it.
func (b *Booking) SoftDelete(role string, now time.Time) {
	b.IsDeleted = true
	b.DeletedAt = &now
	b.DeletedBy = role
}

// Restore clears the soft-delete marker. It deliberately does not touch the
// listing's availability; a restored approved booking does not re-occupy its
// date.
func (b *Booking) Restore() {
	b.IsDeleted = false
	b.DeletedAt = nil
	b.DeletedBy = ""
}
