package usecase

import (
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.AmericanEnglish)

var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

func parseTimestamp(s string) (time.Time, bool) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// FormatDate renders an ISO-8601 timestamp as "Jan 15, 2024". Unparseable input is
// returned unchanged.
func FormatDate(iso string) string {
	t, ok := parseTimestamp(iso)
	if !ok {
		return iso
	}
	return t.Format("Jan 2, 2006")
}

// FormatCurrency renders an amount in US dollars, "-" when absent.
func FormatCurrency(amount *float64) string {
	if amount == nil {
		return "-"
	}
	return printer.Sprintf("$%.2f", *amount)
}
