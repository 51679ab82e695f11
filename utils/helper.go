package utils

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

func NewTrue() *bool {
	b := true
	return &b
}

func NewFalse() *bool {
	b := false
	return &b
}

func UniqueSlice[T comparable](slice []T) []T {
	keys := make(map[T]bool)
	list := []T{}
	for _, entry := range slice {
		if _, value := keys[entry]; !value {
			keys[entry] = true
			list = append(list, entry)
		}
	}
	return list
}

func DereferencePtr[T any](ptr *T, defaults ...T) T {
	if ptr != nil {
		return *ptr
	}
	if len(defaults) > 0 {
		return defaults[0]
	}
	var zero T
	return zero
}

// ConvertToDate truncates a time to midnight in the given timezone.
func ConvertToDate(t time.Time, timezone string) (time.Time, error) {
	if timezone == "" {
		timezone = "America/New_York"
	}
	location, err := time.LoadLocation(timezone)
	if err != nil {
		return t, err
	}
	localTime := t.In(location)
	dateOnly := time.Date(localTime.Year(), localTime.Month(), localTime.Day(), 0, 0, 0, 0, location)
	return dateOnly, nil
}

// ParseBusinessDate parses a YYYY-MM-DD business date string.
func ParseBusinessDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, errors.New("empty date string")
	}
	return time.Parse("2006-01-02", value)
}

// FormatBusinessDate renders the canonical YYYY-MM-DD form.
func FormatBusinessDate(t time.Time) string {
	return t.Format("2006-01-02")
}

// ParseDecimal converts a string to a decimal.Decimal value.
func ParseDecimal(value string) (decimal.Decimal, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return decimal.Zero, errors.New("empty decimal string")
	}
	dec, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, err
	}
	return dec, nil
}

// ParseDecimalOrZero is for tolerant CSV field mapping.
func ParseDecimalOrZero(value string) decimal.Decimal {
	d, err := ParseDecimal(value)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// RoundMoney rounds to 2 places half-up, the resolution we persist money at.
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}
