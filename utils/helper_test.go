package utils

import (
	"testing"
	"time"
)

func TestParseBusinessDate(t *testing.T) {
	cases := []struct {
		in      string
		wantErr bool
	}{
		{"2026-08-01", false},
		{"  2026-08-01  ", false},
		{"", true},
		{"08/01/2026", true},
		{"not-a-date", true},
	}
	for _, tc := range cases {
		got, err := ParseBusinessDate(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("ParseBusinessDate(%q) expected error", tc.in)
			}
			continue
		}
		if err != nil {
			t.Fatalf("ParseBusinessDate(%q) error: %v", tc.in, err)
		}
		if FormatBusinessDate(got) != "2026-08-01" {
			t.Fatalf("ParseBusinessDate(%q) round-trip got %s", tc.in, FormatBusinessDate(got))
		}
	}
}

func TestParseDecimalOrZero(t *testing.T) {
	cases := []struct {
		in       string
		expected string
	}{
		{"1234.56", "1234.56"},
		{" 42 ", "42"},
		{"", "0"},
		{"n/a", "0"},
	}
	for _, tc := range cases {
		got := ParseDecimalOrZero(tc.in)
		if got.String() != tc.expected {
			t.Fatalf("ParseDecimalOrZero(%q) expected %s, got %s", tc.in, tc.expected, got)
		}
	}
}

func TestConvertToDate(t *testing.T) {
	in := time.Date(2026, 8, 1, 23, 30, 0, 0, time.UTC)
	got, err := ConvertToDate(in, "UTC")
	if err != nil {
		t.Fatalf("ConvertToDate error: %v", err)
	}
	if got.Hour() != 0 || got.Minute() != 0 || got.Day() != 1 {
		t.Fatalf("expected midnight on the same day, got %s", got)
	}
}
