package invoice

import (
	"fmt"
	"strconv"
	"strings"

	"cloud.google.com/go/civil"
)

// DefaultNumberPrefix is used when no prefix is configured
const DefaultNumberPrefix = "INV"

// YearMonth is the sequence bucket invoice numbers are drawn from, e.g. 202401
func YearMonth(d civil.Date) string {
	return fmt.Sprintf("%04d%02d", d.Year, int(d.Month))
}

// FormatInvoiceNumber renders e.g. INV-202401-0001
func FormatInvoiceNumber(prefix, yearMonth string, seq int64) string {
	if prefix == "" {
		prefix = DefaultNumberPrefix
	}
	return fmt.Sprintf("%s-%s-%04d", prefix, yearMonth, seq)
}

// ParseInvoiceNumber splits a number produced by FormatInvoiceNumber
func ParseInvoiceNumber(number string) (prefix, yearMonth string, seq int64, ok bool) {
	parts := strings.Split(number, "-")
	if len(parts) < 3 {
		return "", "", 0, false
	}

	yearMonth = parts[len(parts)-2]
	if len(yearMonth) != 6 {
		return "", "", 0, false
	}
	if _, err := strconv.Atoi(yearMonth); err != nil {
		return "", "", 0, false
	}

	seq, err := strconv.ParseInt(parts[len(parts)-1], 10, 64)
	if err != nil || seq < 1 {
		return "", "", 0, false
	}

	return strings.Join(parts[:len(parts)-2], "-"), yearMonth, seq, true
}
