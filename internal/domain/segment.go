package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Segment keys as used by the A-share limit table
const (
	SegmentNormal = "normal" // 沪深主板
	SegmentST     = "st"     // ST / *ST
	SegmentKCB    = "kcb"    // 科创板
	SegmentCYB    = "cyb"    // 创业板
	SegmentBJS    = "bjs"    // 北交所

	// DefaultSegmentKey is used when the caller does not name a segment.
	DefaultSegmentKey = "standard"
)

// MarketSegment is one row of the daily price-limit table.
type MarketSegment struct {
	Name              string          `json:"name" yaml:"name"`
	Key               string          `json:"key" yaml:"key"`
	DailyLimitPercent decimal.Decimal `json:"daily_limit_percent" yaml:"daily_limit_percent"`
}

var hundred = decimal.NewFromInt(100)

// DailyLimitRate returns the limit as a fraction (10% -> 0.1).
func (s MarketSegment) DailyLimitRate() decimal.Decimal {
	return s.DailyLimitPercent.Div(hundred)
}

// Multiplier returns 1 + DailyLimitRate.
func (s MarketSegment) Multiplier() decimal.Decimal {
	return decimal.NewFromInt(1).Add(s.DailyLimitRate())
}

// segments is read-only after init. Order is the display order.
var segments = []MarketSegment{
	{Name: "沪深", Key: SegmentNormal, DailyLimitPercent: decimal.NewFromInt(10)},
	{Name: "ST", Key: SegmentST, DailyLimitPercent: decimal.NewFromInt(5)},
	{Name: "科创板", Key: SegmentKCB, DailyLimitPercent: decimal.NewFromInt(20)},
	{Name: "创业板", Key: SegmentCYB, DailyLimitPercent: decimal.NewFromInt(20)},
	{Name: "北交所", Key: SegmentBJS, DailyLimitPercent: decimal.NewFromInt(30)},
}

// segmentAliases maps English names onto table keys.
var segmentAliases = map[string]string{
	"standard": SegmentNormal,
	"main":     SegmentNormal,
	"star":     SegmentKCB,
	"chinext":  SegmentCYB,
	"gem":      SegmentCYB,
	"bse":      SegmentBJS,
}

// NormalizeSegmentKey lower-cases key and resolves aliases.
// Unknown keys are returned lower-cased so callers can still report them.
func NormalizeSegmentKey(key string) string {
	k := strings.ToLower(key)
	if canonical, ok := segmentAliases[k]; ok {
		return canonical
	}
	return k
}

// LookupSegment finds a segment by key, case-insensitively.
func LookupSegment(key string) (MarketSegment, bool) {
	k := NormalizeSegmentKey(key)
	for _, s := range segments {
		if s.Key == k {
			return s, true
		}
	}
	return MarketSegment{}, false
}

// IsKnownSegment reports whether key names a row of the table.
func IsKnownSegment(key string) bool {
	_, ok := LookupSegment(key)
	return ok
}

// Segments returns a copy of the limit table in display order.
func Segments() []MarketSegment {
	out := make([]MarketSegment, len(segments))
	copy(out, segments)
	return out
}
