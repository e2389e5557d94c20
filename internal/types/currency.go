package types

import (
	"strings"

	"github.com/shopspring/decimal"
)

// DefaultCurrency is the currency invoices are raised in
const DefaultCurrency = "USD"

var currencySymbols = map[string]string{
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
	"INR": "₹",
	"JPY": "¥",
}

// currencyMinorUnits holds the ISO 4217 decimal places for currencies that
// do not use two
var currencyMinorUnits = map[string]int32{
	"JPY": 0,
	"KRW": 0,
	"VND": 0,
	"BHD": 3,
	"KWD": 3,
}

// MinorUnits returns the number of decimal places amounts in currency show
func MinorUnits(currency string) int32 {
	if units, ok := currencyMinorUnits[strings.ToUpper(currency)]; ok {
		return units
	}
	return 2
}

// FormatCurrency renders an amount for display, e.g. $9,072.00 or ¥9,072.
// This is the only place amounts are rounded.
func FormatCurrency(amount decimal.Decimal, currency string) string {
	code := strings.ToUpper(currency)
	if code == "" {
		code = DefaultCurrency
	}

	units := MinorUnits(code)
	fixed := amount.Abs().StringFixed(units)
	whole, frac, _ := strings.Cut(fixed, ".")

	var b strings.Builder
	if amount.Round(units).IsNegative() {
		b.WriteByte('-')
	}
	if symbol, ok := currencySymbols[code]; ok {
		b.WriteString(symbol)
	} else {
		b.WriteString(code)
		b.WriteByte(' ')
	}
	b.WriteString(groupThousands(whole))
	if frac != "" {
		b.WriteByte('.')
		b.WriteString(frac)
	}
	return b.String()
}

func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	head := len(digits) % 3
	if head == 0 {
		head = 3
	}
	var b strings.Builder
	b.WriteString(digits[:head])
	for i := head; i < len(digits); i += 3 {
		b.WriteByte(',')
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
