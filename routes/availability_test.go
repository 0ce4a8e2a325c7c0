package routes

import (
	"testing"
	"time"

	"homerental-server/models"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestCollectUnavailableDatesUnionsEngineAndBookings(t *testing.T) {
	avail := &models.Availability{
		Status: models.AvailabilityStatusAvailable,
		UnavailableRanges: []models.UnavailableRange{
			{
				StartDate: day(2025, time.June, 3),
				EndDate:   time.Date(2025, time.June, 4, 23, 59, 59, 0, time.UTC),
				Reason:    models.UnavailableReasonMaintenance,
			},
		},
	}
	bookingDates := []time.Time{day(2025, time.June, 7)}

	dates := collectUnavailableDates(avail, bookingDates, day(2025, time.June, 1), day(2025, time.June, 10))

	want := []time.Time{
		day(2025, time.June, 3),
		day(2025, time.June, 4),
		day(2025, time.June, 7),
	}
	if len(dates) != len(want) {
		t.Fatalf("got %d dates, want %d: %v", len(dates), len(want), dates)
	}
	for i := range want {
		if !models.SameCalendarDay(dates[i], want[i]) {
			t.Fatalf("dates[%d] = %s, want %s", i, dates[i].Format("2006-01-02"), want[i].Format("2006-01-02"))
		}
	}
}

func TestCollectUnavailableDatesDeduplicatesOverlap(t *testing.T) {
	// Engine already blocks the day an approved booking sits on
	avail := &models.Availability{
		Status: models.AvailabilityStatusAvailable,
		UnavailableRanges: []models.UnavailableRange{
			{
				StartDate: day(2025, time.June, 5),
				EndDate:   time.Date(2025, time.June, 5, 23, 59, 59, 0, time.UTC),
				Reason:    models.UnavailableReasonBooking,
			},
		},
	}
	bookingDates := []time.Time{day(2025, time.June, 5)}

	dates := collectUnavailableDates(avail, bookingDates, day(2025, time.June, 4), day(2025, time.June, 6))

	if len(dates) != 1 {
		t.Fatalf("overlapping day should appear once, got %v", dates)
	}
	if !models.SameCalendarDay(dates[0], day(2025, time.June, 5)) {
		t.Fatalf("dates[0] = %s", dates[0].Format("2006-01-02"))
	}
}

func TestCollectUnavailableDatesClosedListingBlocksWholeWindow(t *testing.T) {
	avail := &models.Availability{Status: models.AvailabilityStatusTempClosed}

	dates := collectUnavailableDates(avail, nil, day(2025, time.June, 1), day(2025, time.June, 5))

	if len(dates) != 5 {
		t.Fatalf("expected every day in the window blocked, got %d", len(dates))
	}
}

func TestApplyAvailabilityInputKeepsOmittedFields(t *testing.T) {
	from := day(2025, time.July, 1)
	avail := &models.Availability{
		Status:        models.AvailabilityStatusAvailable,
		AvailableFrom: &from,
		CustomAvailability: &models.WeeklyPattern{
			Enabled:  true,
			Saturday: false,
			Sunday:   true, Monday: true, Tuesday: true,
			Wednesday: true, Thursday: true, Friday: true,
		},
	}

	// A status-only edit must not wipe the lead-in date or the weekly pattern
	applyAvailabilityInput(avail, UpdateAvailabilityInput{
		Status: models.AvailabilityStatusTempClosed,
	})

	if avail.Status != models.AvailabilityStatusTempClosed {
		t.Fatalf("status = %q", avail.Status)
	}
	if avail.AvailableFrom == nil || !models.SameCalendarDay(*avail.AvailableFrom, from) {
		t.Fatal("omitted availableFrom should keep its stored value")
	}
	if avail.CustomAvailability == nil || !avail.CustomAvailability.Enabled {
		t.Fatal("omitted customAvailability should keep its stored pattern")
	}
}

func TestApplyAvailabilityInputReplacesLandlordRangesKeepsBookingRanges(t *testing.T) {
	bookingID := uint(7)
	avail := &models.Availability{
		Status: models.AvailabilityStatusAvailable,
		UnavailableRanges: []models.UnavailableRange{
			{
				StartDate: day(2025, time.June, 3),
				EndDate:   time.Date(2025, time.June, 3, 23, 59, 59, 0, time.UTC),
				Reason:    models.UnavailableReasonBooking,
				BookingID: &bookingID,
			},
			{
				StartDate: day(2025, time.June, 10),
				EndDate:   time.Date(2025, time.June, 12, 23, 59, 59, 0, time.UTC),
				Reason:    models.UnavailableReasonMaintenance,
			},
		},
	}

	applyAvailabilityInput(avail, UpdateAvailabilityInput{
		UnavailableRanges: []UnavailableRangeInput{
			{
				StartDate: day(2025, time.June, 20),
				EndDate:   day(2025, time.June, 21),
				Reason:    models.UnavailableReasonOther,
				Notes:     "family visit",
			},
		},
	})

	if len(avail.UnavailableRanges) != 2 {
		t.Fatalf("got %d ranges, want booking range + new landlord range", len(avail.UnavailableRanges))
	}
	if avail.UnavailableRanges[0].Reason != models.UnavailableReasonBooking {
		t.Fatal("booking-tagged range should survive a landlord edit")
	}
	replaced := avail.UnavailableRanges[1]
	if replaced.Reason != models.UnavailableReasonOther || replaced.Notes != "family visit" {
		t.Fatalf("landlord range = %+v", replaced)
	}
	if replaced.StartDate.Hour() != 0 || replaced.EndDate.Hour() != 23 {
		t.Fatal("landlord range should be normalized to whole-day bounds")
	}
}

func TestCollectUnavailableDatesEmptyForOpenListing(t *testing.T) {
	avail := &models.Availability{Status: models.AvailabilityStatusAvailable}

	dates := collectUnavailableDates(avail, nil, day(2025, time.June, 1), day(2025, time.June, 10))

	if len(dates) != 0 {
		t.Fatalf("expected no blocked dates, got %v", dates)
	}
}
