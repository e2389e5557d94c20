package types

import (
	"time"

	"cloud.google.com/go/civil"
	ierr "github.com/flexprice/invoicely/internal/errors"
)

// DateLayout is the wire format for calendar dates (ISO-8601)
const DateLayout = "2006-01-02"

// BillingFrequency is how often a subscription recurs
type BillingFrequency string

const (
	BillingFrequencyMonthly BillingFrequency = "monthly"
	BillingFrequencyYearly  BillingFrequency = "yearly"
)

func (f BillingFrequency) String() string {
	return string(f)
}

func (f BillingFrequency) Validate() error {
	switch f {
	case BillingFrequencyMonthly, BillingFrequencyYearly:
		return nil
	}
	return ierr.NewError("invalid billing frequency").
		WithHint("Billing frequency must be monthly or yearly").
		WithReportableDetails(map[string]any{
			"frequency": f,
			"allowed":   []BillingFrequency{BillingFrequencyMonthly, BillingFrequencyYearly},
		}).
		Mark(ierr.ErrValidation)
}

// ParseDate parses an ISO-8601 calendar date (YYYY-MM-DD)
func ParseDate(s string) (civil.Date, error) {
	d, err := civil.ParseDate(s)
	if err != nil {
		return civil.Date{}, ierr.WithError(err).
			WithHintf("Invalid date %q, expected format YYYY-MM-DD", s).
			Mark(ierr.ErrValidation)
	}
	return d, nil
}

// MustParseDate is ParseDate for fixtures and tests
func MustParseDate(s string) civil.Date {
	d, err := civil.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

// Today returns the calendar date of now in UTC
func Today(now time.Time) civil.Date {
	return civil.DateOf(now.UTC())
}

// FormatDate renders a date the way the dashboard displays it, e.g. January 15, 2024
func FormatDate(d civil.Date) string {
	return d.In(time.UTC).Format("January 2, 2006")
}

// DaysIn returns the number of days in the given month
func DaysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// ClampedDate builds a date normalising month overflow (month 13 is January of
// the following year) and clamping day to the last day of the resulting month.
func ClampedDate(year int, month time.Month, day int) civil.Date {
	for month > 12 {
		month -= 12
		year++
	}
	for month < 1 {
		month += 12
		year--
	}

	if last := DaysIn(year, month); day > last {
		day = last
	}
	if day < 1 {
		day = 1
	}
	return civil.Date{Year: year, Month: month, Day: day}
}

// AddClampedDate moves a date by whole years and months keeping its day of
// month, clamped to the last valid day of the target month.
// Jan 31 + 1 month = Feb 29 in a leap year, Feb 28 otherwise.
func AddClampedDate(d civil.Date, years, months int) civil.Date {
	return ClampedDate(d.Year+years, d.Month+time.Month(months), d.Day)
}

// NextBillingDate projects the next billing occurrence of a subscription on or
// after asOf.
//
// The candidate is billingDay in asOf's month. When that is already behind
// asOf, monthly subscriptions move to billingDay of the following month while
// yearly subscriptions anchor on the start date's month and day in asOf's year,
// moving one year ahead if that too has passed. A billing day that does not
// exist in the target month is clamped to the month's last day.
func NextBillingDate(start civil.Date, billingDay int, frequency BillingFrequency, asOf civil.Date) civil.Date {
	// anchors may hold a day past the end of their month until clamped
	candidate := civil.Date{Year: asOf.Year, Month: asOf.Month, Day: billingDay}
	if next := AddClampedDate(candidate, 0, 0); !next.Before(asOf) {
		return next
	}

	if frequency == BillingFrequencyYearly {
		anniversary := civil.Date{Year: asOf.Year, Month: start.Month, Day: start.Day}
		if next := AddClampedDate(anniversary, 0, 0); !next.Before(asOf) {
			return next
		}
		return AddClampedDate(anniversary, 1, 0)
	}

	return AddClampedDate(candidate, 0, 1)
}
