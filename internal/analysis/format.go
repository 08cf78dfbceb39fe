package analysis

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/rickgao/shoprank/internal/model"
)

var printer = message.NewPrinter(language.Korean)

// FormatCount renders a metric as a whole number with thousands separators.
// Fractions are truncated; unknown renders as "-".
func FormatCount(m model.Metric) string {
	if !m.Known {
		return "-"
	}
	return printer.Sprintf("%d", int64(math.Trunc(m.Value)))
}

// FormatRate renders a percentage metric as "12.34%".
func FormatRate(m model.Metric) string {
	if !m.Known {
		return "-"
	}
	return printer.Sprintf("%.2f%%", m.Value)
}

// FormatPrice renders a price in won with thousands separators.
func FormatPrice(p int64) string {
	return printer.Sprintf("%d", p)
}

// FormatText renders an empty string as "-".
func FormatText(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
