package services

import (
	"testing"
	"time"

	"homerental-server/models"
)

func testBooking(id uint, day time.Time) *models.Booking {
	return &models.Booking{
		ID:            id,
		ListingID:     1,
		UserID:        7,
		Name:          "Sita Sharma",
		PreferredDate: day,
		Status:        models.BookingStatusApproved,
	}
}

func TestUpsertBookingRangeAppends(t *testing.T) {
	day := time.Date(2025, time.June, 10, 0, 0, 0, 0, time.UTC)
	ranges := UpsertBookingRange(nil, testBooking(42, day))

	if len(ranges) != 1 {
		t.Fatalf("expected 1 range, got %d", len(ranges))
	}
	r := ranges[0]
	if r.BookingID == nil || *r.BookingID != 42 {
		t.Fatalf("range not tagged with booking ID: %+v", r)
	}
	if r.Reason != models.UnavailableReasonBooking {
		t.Fatalf("reason = %q, want %q", r.Reason, models.UnavailableReasonBooking)
	}
	if !models.SameCalendarDay(r.StartDate, day) || !models.SameCalendarDay(r.EndDate, day) {
		t.Fatalf("range does not cover the preferred date: %+v", r)
	}
	if r.StartDate.Hour() != 0 || r.EndDate.Hour() != 23 {
		t.Fatalf("range should span the whole day: start %s end %s", r.StartDate, r.EndDate)
	}
}

func TestUpsertBookingRangeIsIdempotent(t *testing.T) {
	day := time.Date(2025, time.June, 10, 0, 0, 0, 0, time.UTC)
	b := testBooking(42, day)

	ranges := UpsertBookingRange(nil, b)
	ranges = UpsertBookingRange(ranges, b)
	ranges = UpsertBookingRange(ranges, b)

	if len(ranges) != 1 {
		t.Fatalf("re-approving must not duplicate ranges, got %d", len(ranges))
	}
}

func TestUpsertBookingRangeReplacesOnDateChange(t *testing.T) {
	oldDay := time.Date(2025, time.June, 10, 0, 0, 0, 0, time.UTC)
	newDay := time.Date(2025, time.June, 20, 0, 0, 0, 0, time.UTC)

	ranges := UpsertBookingRange(nil, testBooking(42, oldDay))
	ranges = UpsertBookingRange(ranges, testBooking(42, newDay))

	if len(ranges) != 1 {
		t.Fatalf("expected 1 range after date change, got %d", len(ranges))
	}
	if !models.SameCalendarDay(ranges[0].StartDate, newDay) {
		t.Fatalf("range still covers the old date: %+v", ranges[0])
	}
}

func TestUpsertBookingRangePreservesOtherEntries(t *testing.T) {
	maintenance := models.UnavailableRange{
		StartDate: time.Date(2025, time.July, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2025, time.July, 5, 23, 59, 59, 0, time.UTC),
		Reason:    models.UnavailableReasonMaintenance,
	}
	other := uint(9)
	otherBooking := models.UnavailableRange{
		StartDate: time.Date(2025, time.July, 8, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2025, time.July, 8, 23, 59, 59, 0, time.UTC),
		Reason:    models.UnavailableReasonBooking,
		BookingID: &other,
	}

	day := time.Date(2025, time.June, 10, 0, 0, 0, 0, time.UTC)
	ranges := UpsertBookingRange([]models.UnavailableRange{maintenance, otherBooking}, testBooking(42, day))

	if len(ranges) != 3 {
		t.Fatalf("expected 3 ranges, got %d", len(ranges))
	}
	if ranges[0].Reason != models.UnavailableReasonMaintenance {
		t.Fatal("maintenance range was disturbed")
	}
	if *ranges[1].BookingID != other {
		t.Fatal("unrelated booking range was disturbed")
	}
}

func TestRemoveBookingRange(t *testing.T) {
	day := time.Date(2025, time.June, 10, 0, 0, 0, 0, time.UTC)
	maintenance := models.UnavailableRange{
		StartDate: day,
		EndDate:   day,
		Reason:    models.UnavailableReasonMaintenance,
	}

	ranges := UpsertBookingRange([]models.UnavailableRange{maintenance}, testBooking(42, day))

	kept, removed := RemoveBookingRange(ranges, 42)
	if !removed {
		t.Fatal("expected removal to be reported")
	}
	if len(kept) != 1 || kept[0].Reason != models.UnavailableReasonMaintenance {
		t.Fatalf("maintenance range should survive, got %+v", kept)
	}
}

func TestRemoveBookingRangeMissingIsNoop(t *testing.T) {
	day := time.Date(2025, time.June, 10, 0, 0, 0, 0, time.UTC)
	ranges := UpsertBookingRange(nil, testBooking(42, day))

	kept, removed := RemoveBookingRange(ranges, 999)
	if removed {
		t.Fatal("nothing should have been removed")
	}
	if len(kept) != 1 {
		t.Fatalf("expected ranges untouched, got %d", len(kept))
	}
}
