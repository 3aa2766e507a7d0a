package payslip

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// FormatINR renders an amount with Indian digit grouping and a currency
// prefix: 1234567.5 → "Rs. 12,34,567.50". The core gofpdf fonts are cp1252
// only, so the rupee sign stays out of the PDF.
func FormatINR(amount float64) string {
	prefix := "Rs. "
	if amount < 0 {
		prefix = "-Rs. "
	}
	fixed := strconv.FormatFloat(math.Abs(amount), 'f', 2, 64)
	whole, frac, _ := strings.Cut(fixed, ".")
	return prefix + groupIndian(whole) + "." + frac
}

// groupIndian applies lakh/crore grouping: the last three digits form one
// group, every group above it has two digits.
func groupIndian(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	head := digits[:len(digits)-3]
	tail := digits[len(digits)-3:]

	var groups []string
	for len(head) > 2 {
		groups = append([]string{head[len(head)-2:]}, groups...)
		head = head[:len(head)-2]
	}
	if head != "" {
		groups = append([]string{head}, groups...)
	}
	return strings.Join(groups, ",") + "," + tail
}

// FormatDate renders day-month(abbrev)-year, e.g. "05-Sep-2025".
func FormatDate(t time.Time) string {
	return t.Format("02-Jan-2006")
}
