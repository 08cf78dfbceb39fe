package model

import (
	"encoding/json"
	"strconv"
)

// Metric is a numeric keyword metric. The zero value is the unknown sentinel,
// used when the source value is absent or not numeric (for example "< 10").
// Unknown values never take part in arithmetic.
type Metric struct {
	Value float64
	Known bool
}

// Unknown is the sentinel for a missing metric.
var Unknown = Metric{}

// Known returns a known metric.
func Known(v float64) Metric {
	return Metric{Value: v, Known: true}
}

// String renders unknown metrics as "-".
func (m Metric) String() string {
	if !m.Known {
		return "-"
	}
	return strconv.FormatFloat(m.Value, 'f', -1, 64)
}

// MarshalJSON encodes unknown metrics as null.
func (m Metric) MarshalJSON() ([]byte, error) {
	if !m.Known {
		return []byte("null"), nil
	}
	return json.Marshal(m.Value)
}

// Add sums two metrics; the result is unknown unless both are known.
func (m Metric) Add(o Metric) Metric {
	if !m.Known || !o.Known {
		return Unknown
	}
	return Known(m.Value + o.Value)
}

// KeywordMetric holds monthly statistics for one related keyword.
type KeywordMetric struct {
	Keyword      string `json:"keyword"`
	PCVolume     Metric `json:"pc_volume"`
	MobileVolume Metric `json:"mobile_volume"`
	PCClicks     Metric `json:"pc_clicks"`
	MobileClicks Metric `json:"mobile_clicks"`
	PCCTR        Metric `json:"pc_ctr"`
	MobileCTR    Metric `json:"mobile_ctr"`
	Competition  string `json:"competition"`
	AdDepth      Metric `json:"ad_depth"`
}

// TotalVolume is PC plus mobile volume, known only when both are.
func (k KeywordMetric) TotalVolume() Metric {
	return k.PCVolume.Add(k.MobileVolume)
}
