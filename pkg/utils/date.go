package utils

import (
	"fmt"
	"time"
)

// dateLayouts covers the formats the spreadsheet exports show up in,
// depending on the cell style excelize renders.
var dateLayouts = []string{
	"2006-01-02",
	"02.01.2006",
	"2006-01-02 15:04:05",
	"02.01.2006 15:04:05",
	"01-02-06",
	"2006/01/02",
	"01/02/2006",
}

// ParseDate parses a spreadsheet date cell. An empty cell yields (nil, nil);
// an unparseable cell yields an error so the caller can exclude the row.
func ParseDate(dateStr string) (*time.Time, error) {
	if dateStr == "" {
		return nil, nil
	}

	for _, layout := range dateLayouts {
		if date, err := time.Parse(layout, dateStr); err == nil {
			// Normalize to midnight UTC so day arithmetic stays exact.
			date = time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
			return &date, nil
		}
	}

	return nil, fmt.Errorf("unparseable date: %q", dateStr)
}

// DaysBetween returns the whole days from a to b.
func DaysBetween(a, b time.Time) int {
	return int(b.Sub(a).Hours() / 24)
}
