package common

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	Lakh  = 100000.0
	Crore = 10000000.0
)

var inrPrinter = message.NewPrinter(language.MustParse("en-IN"))

// FormatINR formats a rupee amount with Indian digit grouping, e.g. ₹12,50,000.
func FormatINR(amount float64) string {
	return "₹" + inrPrinter.Sprintf("%d", int64(math.Round(amount)))
}

// FormatLakhs formats an amount in lakhs with two decimals, e.g. ₹8.00 lakhs.
func FormatLakhs(amount float64) string {
	return fmt.Sprintf("₹%.2f lakhs", amount/Lakh)
}

// FormatCrores formats an amount in crores with two decimals, e.g. ₹2.50 crores.
func FormatCrores(amount float64) string {
	return fmt.Sprintf("₹%.2f crores", amount/Crore)
}

// FormatPortfolioSize picks lakhs up to one crore and crores above it.
func FormatPortfolioSize(amount float64) string {
	if amount <= Crore {
		return FormatLakhs(amount)
	}
	return FormatCrores(amount)
}

var slugStrip = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lowercases s and collapses anything that is not a letter or digit
// into single hyphens.
func Slugify(s string) string {
	slug := slugStrip.ReplaceAllString(strings.ToLower(s), "-")
	return strings.Trim(slug, "-")
}
