package models

import (
	"time"

	"gorm.io/gorm"
)

// ShiftingRequest is a moving-service booking. It follows the same lifecycle
// as a property booking (pending/approved/rejected plus restorable soft
// delete) but has no availability calendar attached.
type ShiftingRequest struct {
	ID                 uint       `json:"ID" gorm:"primaryKey"`
	UserID             uint       `json:"userID" gorm:"index;not null"`
	WorkerID           *uint      `json:"workerID,omitempty" gorm:"index"`
	Name               string     `json:"name" gorm:"not null"`
	Contact            string     `json:"contact" gorm:"not null"`
	CurrentAddress     string     `json:"currentAddress" gorm:"not null"`
	DestinationAddress string     `json:"destinationAddress" gorm:"not null"`
	ShiftingDate       time.Time  `json:"shiftingDate" gorm:"not null"`
	Note               string     `json:"note"`
	Status             string     `json:"status" gorm:"type:varchar(20);default:pending;index"`
	IsDeleted          bool       `json:"isDeleted" gorm:"default:false;index"`
	DeletedAt          *time.Time `json:"deletedAt,omitempty"`
	DeletedBy          string     `json:"deletedBy,omitempty" gorm:"type:varchar(20)"`
	CreatedAt          time.Time  `json:"createdAt"`
	UpdatedAt          time.Time  `json:"updatedAt"`
	User               User       `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Worker             *Worker    `json:"worker,omitempty" gorm:"foreignKey:WorkerID"`
}

// DeletedByWorker marks shifting requests hidden by the assigned worker.
const DeletedByWorker = "worker"

// SoftDelete marks the request hidden and records who hid it.
func (r *ShiftingRequest) SoftDelete(role string, now time.Time) {
	r.IsDeleted = true
	r.DeletedAt = &now
	r.DeletedBy = role
}

// Restore clears the soft-delete marker.
func (r *ShiftingRequest) Restore() {
	r.IsDeleted = false
	r.DeletedAt = nil
	r.DeletedBy = ""
}

// VisibleShiftingRequests excludes soft-deleted records; the default scope.
func VisibleShiftingRequests(db *gorm.DB) *gorm.DB {
	return db.Where("is_deleted = ?", false)
}

// OnlyDeletedShiftingRequests returns soft-deleted records only.
func OnlyDeletedShiftingRequests(db *gorm.DB) *gorm.DB {
	return db.Where("is_deleted = ?", true)
}
