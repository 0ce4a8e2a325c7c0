package models

import (
	"testing"
	"time"
)

func TestIsValidBookingStatus(t *testing.T) {
	for _, s := range []string{BookingStatusPending, BookingStatusApproved, BookingStatusRejected} {
		if !IsValidBookingStatus(s) {
			t.Fatalf("%q should be a valid status", s)
		}
	}
	for _, s := range []string{"", "cancelled", "APPROVED"} {
		if IsValidBookingStatus(s) {
			t.Fatalf("%q should not be a valid status", s)
		}
	}
}

func TestIsValidDeletedBy(t *testing.T) {
	for _, s := range []string{DeletedByUser, DeletedByLandlord, DeletedByAdmin} {
		if !IsValidDeletedBy(s) {
			t.Fatalf("%q should be a valid deleter role", s)
		}
	}
	if IsValidDeletedBy("renter") {
		t.Fatal("unknown role accepted")
	}
}

func TestSoftDeleteAndRestore(t *testing.T) {
	b := Booking{Status: BookingStatusApproved}
	now := time.Date(2025, time.June, 10, 12, 0, 0, 0, time.UTC)

	b.SoftDelete(DeletedByLandlord, now)

	if !b.IsDeleted {
		t.Fatal("expected IsDeleted after SoftDelete")
	}
	if b.DeletedAt == nil || !b.DeletedAt.Equal(now) {
		t.Fatalf("DeletedAt = %v, want %s", b.DeletedAt, now)
	}
	if b.DeletedBy != DeletedByLandlord {
		t.Fatalf("DeletedBy = %q, want %q", b.DeletedBy, DeletedByLandlord)
	}
	// Soft delete leaves the lifecycle status alone
	if b.Status != BookingStatusApproved {
		t.Fatalf("Status changed to %q on soft delete", b.Status)
	}

	b.Restore()

	if b.IsDeleted || b.DeletedAt != nil || b.DeletedBy != "" {
		t.Fatalf("restore left residue: %+v", b)
	}
	if b.Status != BookingStatusApproved {
		t.Fatalf("Status changed to %q on restore", b.Status)
	}
}
