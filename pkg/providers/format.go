package providers

import (
	"strconv"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var enPrinter = message.NewPrinter(language.English)

// groupInt formats a numeric string with thousands separators.
// Non-numeric input is returned unchanged.
func groupInt(s string) string {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return s
	}
	return enPrinter.Sprintf("%d", n)
}

// groupFloat formats a float with thousands separators and two
// decimal places.
func groupFloat(f float64) string {
	return enPrinter.Sprintf("%.2f", f)
}
