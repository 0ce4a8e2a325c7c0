package utils

import (
	"testing"
	"time"
)

func TestParseDateOnly(t *testing.T) {
	parsed, err := ParseDateOnly("2025-06-10")
	if err != nil {
		t.Fatalf("ParseDateOnly: %v", err)
	}
	if parsed.Year() != 2025 || parsed.Month() != time.June || parsed.Day() != 10 {
		t.Fatalf("parsed = %s", parsed)
	}

	for _, bad := range []string{"", "10-06-2025", "2025-13-01", "2025-06-10T00:00:00Z"} {
		if _, err := ParseDateOnly(bad); err == nil {
			t.Fatalf("expected error for %q", bad)
		}
	}
}

func TestStartAndEndOfDay(t *testing.T) {
	noon := time.Date(2025, time.June, 10, 12, 34, 56, 789, time.UTC)

	start := StartOfDay(noon)
	if start.Hour() != 0 || start.Minute() != 0 || start.Second() != 0 {
		t.Fatalf("StartOfDay = %s", start)
	}

	end := EndOfDay(noon)
	if end.Hour() != 23 || end.Minute() != 59 || end.Second() != 59 {
		t.Fatalf("EndOfDay = %s", end)
	}

	if !start.Before(noon) || !end.After(noon) {
		t.Fatal("noon should sit inside its own day bounds")
	}
	if start.Day() != 10 || end.Day() != 10 {
		t.Fatal("bounds left the calendar day")
	}
}

func TestPhoneNumberValidation(t *testing.T) {
	valid := []string{"9812345678", "9779812345678", "+977 981-234-5678", "9701234567"}
	for _, v := range valid {
		if !ValidatePhoneNumber(v) {
			t.Fatalf("%q should be valid", v)
		}
	}

	invalid := []string{"", "12345", "1812345678", "98123456789"}
	for _, v := range invalid {
		if ValidatePhoneNumber(v) {
			t.Fatalf("%q should be invalid", v)
		}
	}
}

func TestFormatPhoneNumber(t *testing.T) {
	if got := FormatPhoneNumber("981-234-5678"); got != "9779812345678" {
		t.Fatalf("FormatPhoneNumber = %q", got)
	}
	if got := FormatPhoneNumber("9779812345678"); got != "9779812345678" {
		t.Fatalf("already prefixed number changed: %q", got)
	}
	if got := FormatPhoneNumber(""); got != "" {
		t.Fatalf("empty input produced %q", got)
	}
}
