package routes

import (
	"testing"
	"time"

	"homerental-server/models"
)

func approvedBooking(preferred time.Time) models.Booking {
	return models.Booking{
		Status:        models.BookingStatusApproved,
		PreferredDate: preferred,
	}
}

func TestSummarizeListingBookingsBookedUntilIsSoonestDate(t *testing.T) {
	today := day(2025, time.June, 1)
	approved := []models.Booking{
		approvedBooking(day(2025, time.June, 5)),
		approvedBooking(day(2025, time.June, 20)),
	}

	summary := summarizeListingBookings(approved, nil, today)

	if summary["isBooked"] != true {
		t.Fatal("expected isBooked with upcoming approved bookings")
	}
	bookedUntil, ok := summary["bookedUntil"].(*string)
	if !ok || bookedUntil == nil {
		t.Fatalf("bookedUntil = %v", summary["bookedUntil"])
	}
	if *bookedUntil != "2025-06-05" {
		t.Fatalf("bookedUntil = %q, want the soonest upcoming date 2025-06-05", *bookedUntil)
	}
}

func TestSummarizeListingBookingsAvailabilityFollowsToday(t *testing.T) {
	today := day(2025, time.June, 1)

	// An approved viewing later in the month leaves today available
	future := []models.Booking{approvedBooking(day(2025, time.June, 5))}
	summary := summarizeListingBookings(future, nil, today)
	if summary["isAvailable"] != true {
		t.Fatal("future-only bookings should leave today available")
	}

	// An approved viewing on today blocks it
	occupied := []models.Booking{
		approvedBooking(day(2025, time.June, 1)),
		approvedBooking(day(2025, time.June, 5)),
	}
	summary = summarizeListingBookings(occupied, nil, today)
	if summary["isAvailable"] != false {
		t.Fatal("an approved booking today should make the listing unavailable")
	}
}

func TestSummarizeListingBookingsNoBookings(t *testing.T) {
	summary := summarizeListingBookings(nil, nil, day(2025, time.June, 1))

	if summary["isAvailable"] != true || summary["isBooked"] != false {
		t.Fatalf("empty summary = %v", summary)
	}
	if bookedUntil, _ := summary["bookedUntil"].(*string); bookedUntil != nil {
		t.Fatalf("bookedUntil = %q, want nil", *bookedUntil)
	}
}

func TestSummarizeListingBookingsCallerState(t *testing.T) {
	own := approvedBooking(day(2025, time.June, 5))
	summary := summarizeListingBookings(nil, &own, day(2025, time.June, 1))

	if summary["hasUserBooked"] != true {
		t.Fatal("expected hasUserBooked for the caller's booking")
	}
	if summary["userBookingStatus"] != models.BookingStatusApproved {
		t.Fatalf("userBookingStatus = %v", summary["userBookingStatus"])
	}
}
