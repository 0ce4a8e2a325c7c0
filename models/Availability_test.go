package models

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestIsAvailableOnInclusiveRangeBounds(t *testing.T) {
	avail := Availability{
		Status: AvailabilityStatusAvailable,
		UnavailableRanges: []UnavailableRange{
			{
				StartDate: date(2025, time.June, 10),
				EndDate:   time.Date(2025, time.June, 12, 23, 59, 59, 0, time.UTC),
				Reason:    UnavailableReasonMaintenance,
			},
		},
	}

	cases := []struct {
		day  time.Time
		want bool
	}{
		{date(2025, time.June, 9), true},
		{date(2025, time.June, 10), false},
		{date(2025, time.June, 11), false},
		{date(2025, time.June, 12), false},
		{date(2025, time.June, 13), true},
	}

	for _, c := range cases {
		if got := avail.IsAvailableOn(c.day); got != c.want {
			t.Fatalf("IsAvailableOn(%s) = %v, want %v", c.day.Format("2006-01-02"), got, c.want)
		}
	}
}

func TestIsAvailableOnRangeMatchesByCalendarDay(t *testing.T) {
	avail := Availability{
		Status: AvailabilityStatusAvailable,
		UnavailableRanges: []UnavailableRange{
			{
				StartDate: date(2025, time.June, 10),
				EndDate:   time.Date(2025, time.June, 10, 23, 59, 59, 0, time.UTC),
			},
		},
	}

	// A morning query on the end date is still inside the range
	morning := time.Date(2025, time.June, 10, 8, 30, 0, 0, time.UTC)
	if avail.IsAvailableOn(morning) {
		t.Fatal("expected morning of a blocked day to be unavailable")
	}
}

func TestIsAvailableOnStatusOverridesEverything(t *testing.T) {
	for _, status := range []string{AvailabilityStatusTempClosed, AvailabilityStatusPermaClosed} {
		avail := Availability{Status: status}
		if avail.IsAvailableOn(date(2025, time.June, 10)) {
			t.Fatalf("status %q should make every date unavailable", status)
		}
	}
}

func TestIsAvailableOnAvailableFromBoundary(t *testing.T) {
	from := date(2025, time.July, 1)
	avail := Availability{
		Status:        AvailabilityStatusAvailable,
		AvailableFrom: &from,
	}

	if avail.IsAvailableOn(date(2025, time.June, 30)) {
		t.Fatal("day before availableFrom should be unavailable")
	}
	if !avail.IsAvailableOn(date(2025, time.July, 1)) {
		t.Fatal("availableFrom day itself should be available")
	}
	if !avail.IsAvailableOn(date(2025, time.July, 2)) {
		t.Fatal("day after availableFrom should be available")
	}
}

func TestIsAvailableOnWeeklyPattern(t *testing.T) {
	pattern := &WeeklyPattern{
		Enabled:   true,
		Sunday:    true,
		Monday:    true,
		Tuesday:   true,
		Wednesday: true,
		Thursday:  true,
		Friday:    true,
		Saturday:  false,
	}
	avail := Availability{
		Status:             AvailabilityStatusAvailable,
		CustomAvailability: pattern,
	}

	saturday := date(2025, time.June, 14)
	if saturday.Weekday() != time.Saturday {
		t.Fatalf("test setup: expected Saturday, got %s", saturday.Weekday())
	}
	if avail.IsAvailableOn(saturday) {
		t.Fatal("Saturday should be blocked by the pattern")
	}

	friday := date(2025, time.June, 13)
	if !avail.IsAvailableOn(friday) {
		t.Fatal("Friday should be open per the pattern")
	}
}

func TestIsAvailableOnExceptionsWinOverWeekdayFlags(t *testing.T) {
	openSaturday := date(2025, time.June, 14)
	closedMonday := date(2025, time.June, 16)

	pattern := &WeeklyPattern{
		Enabled:   true,
		Sunday:    true,
		Monday:    true,
		Tuesday:   true,
		Wednesday: true,
		Thursday:  true,
		Friday:    true,
		Saturday:  false,
		Exceptions: []AvailabilityException{
			{Date: openSaturday, IsAvailable: true},
			{Date: closedMonday, IsAvailable: false},
		},
	}
	avail := Availability{
		Status:             AvailabilityStatusAvailable,
		CustomAvailability: pattern,
	}

	if !avail.IsAvailableOn(openSaturday) {
		t.Fatal("exception should open the blocked Saturday")
	}
	if avail.IsAvailableOn(closedMonday) {
		t.Fatal("exception should close the open Monday")
	}
	// The following Saturday has no exception and stays blocked
	if avail.IsAvailableOn(date(2025, time.June, 21)) {
		t.Fatal("Saturday without exception should stay blocked")
	}
}

func TestIsAvailableOnDisabledPatternIsIgnored(t *testing.T) {
	avail := Availability{
		Status: AvailabilityStatusAvailable,
		CustomAvailability: &WeeklyPattern{
			Enabled: false,
			// every weekday flag false, but the pattern is off
		},
	}
	if !avail.IsAvailableOn(date(2025, time.June, 14)) {
		t.Fatal("disabled pattern must not block dates")
	}
}

func TestNextAvailableFromSkipsBlockedRange(t *testing.T) {
	avail := Availability{
		Status: AvailabilityStatusAvailable,
		UnavailableRanges: []UnavailableRange{
			{
				StartDate: date(2025, time.June, 10),
				EndDate:   time.Date(2025, time.June, 12, 23, 59, 59, 0, time.UTC),
			},
		},
	}

	next := avail.NextAvailableFrom(date(2025, time.June, 10))
	if next == nil {
		t.Fatal("expected a next available date")
	}
	if !SameCalendarDay(*next, date(2025, time.June, 13)) {
		t.Fatalf("next available = %s, want 2025-06-13", next.Format("2006-01-02"))
	}
}

func TestNextAvailableFromRespectsAvailableFrom(t *testing.T) {
	from := date(2025, time.August, 1)
	avail := Availability{
		Status:        AvailabilityStatusAvailable,
		AvailableFrom: &from,
	}

	next := avail.NextAvailableFrom(date(2025, time.June, 1))
	if next == nil {
		t.Fatal("expected a next available date")
	}
	if !SameCalendarDay(*next, from) {
		t.Fatalf("next available = %s, want 2025-08-01", next.Format("2006-01-02"))
	}
}

func TestNextAvailableFromPermanentlyClosed(t *testing.T) {
	avail := Availability{Status: AvailabilityStatusPermaClosed}
	if next := avail.NextAvailableFrom(date(2025, time.June, 1)); next != nil {
		t.Fatalf("permanently closed listing returned next available %v", next)
	}
}

func TestNextAvailableFromHorizonExhausted(t *testing.T) {
	// Pattern with every weekday off: nothing opens within the scan horizon
	avail := Availability{
		Status:             AvailabilityStatusAvailable,
		CustomAvailability: &WeeklyPattern{Enabled: true},
	}
	if next := avail.NextAvailableFrom(date(2025, time.June, 1)); next != nil {
		t.Fatalf("expected nil after exhausting the horizon, got %v", next)
	}
}

func TestRecomputeRefreshesDerivedFields(t *testing.T) {
	avail := Availability{Status: AvailabilityStatusAvailable}

	now := date(2025, time.June, 10)
	avail.Recompute(now)

	if avail.NextAvailableDate == nil {
		t.Fatal("expected NextAvailableDate to be set")
	}
	if !SameCalendarDay(*avail.NextAvailableDate, now) {
		t.Fatalf("NextAvailableDate = %s, want same day as now", avail.NextAvailableDate.Format("2006-01-02"))
	}
	if !avail.LastUpdated.Equal(now) {
		t.Fatalf("LastUpdated = %s, want %s", avail.LastUpdated, now)
	}

	avail.Status = AvailabilityStatusPermaClosed
	avail.Recompute(now)
	if avail.NextAvailableDate != nil {
		t.Fatal("recompute on a permanently closed listing should clear NextAvailableDate")
	}
}

func TestSameCalendarDay(t *testing.T) {
	a := time.Date(2025, time.June, 10, 0, 0, 1, 0, time.UTC)
	b := time.Date(2025, time.June, 10, 23, 59, 59, 0, time.UTC)
	if !SameCalendarDay(a, b) {
		t.Fatal("same calendar day with different clock times should match")
	}
	if SameCalendarDay(a, date(2025, time.June, 11)) {
		t.Fatal("different days should not match")
	}
}
