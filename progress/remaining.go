package progress

import "fmt"

// FormatRemainingHours renders a time-remaining estimate for display.
// Labels follow the shipping UI conventions: "Delivered" once nothing
// is left, "<1h" under an hour, whole hours under a day, then days and
// hours ("2j 5h").
func FormatRemainingHours(hours float64) string {
	if hours <= 0 {
		return "Delivered"
	}
	if hours < 1 {
		return "<1h"
	}
	if hours < 24 {
		return fmt.Sprintf("%dh", int(hours))
	}
	days := int(hours) / 24
	rem := int(hours) % 24
	return fmt.Sprintf("%dj %dh", days, rem)
}
