package analysis

import (
	"testing"

	"github.com/rickgao/shoprank/internal/model"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name string
		got  string
		want string
	}{
		{"count", FormatCount(model.Known(1234567)), "1,234,567"},
		{"count truncates", FormatCount(model.Known(2100.7)), "2,100"},
		{"count unknown", FormatCount(model.Unknown), "-"},
		{"rate", FormatRate(model.Known(2.4)), "2.40%"},
		{"rate unknown", FormatRate(model.Unknown), "-"},
		{"price", FormatPrice(399000), "399,000"},
		{"text", FormatText(""), "-"},
	}

	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s: got %q, want %q", tt.name, tt.got, tt.want)
		}
	}
}
