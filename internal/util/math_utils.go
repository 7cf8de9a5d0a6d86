package util

import "fmt"

// FormatPercent renders a score with one decimal place, e.g. 66.666… -> "66.7%".
func FormatPercent(score float64) string {
	return fmt.Sprintf("%.1f%%", score)
}
