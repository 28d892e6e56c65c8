// Package calculator computes A-share limit-up price trajectories.
//
// A LimitUpCalculator captures a previous close and a market segment at
// construction and never changes afterwards. Every operation re-validates the
// inputs it needs and returns a *domain.ValidationError instead of a result
// when a check fails.
package calculator

import (
	"log/slog"
	"math"
	"strconv"

	"limitup_go/internal/domain"

	"github.com/shopspring/decimal"
)

// PricePlaces is the number of decimal places returned prices are rounded to.
const PricePlaces = 2

// LimitUpCalculator computes prices reachable by consecutive limit-up days.
type LimitUpCalculator struct {
	previousClose decimal.Decimal
	segmentKey    string
	logger        *slog.Logger
}

// Option configures a LimitUpCalculator
type Option func(*LimitUpCalculator)

// WithLogger sets the logger used for validation diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(c *LimitUpCalculator) {
		if l != nil {
			c.logger = l
		}
	}
}

// New creates a calculator. segmentKey is matched case-insensitively.
// Inputs are not validated here; each operation validates on use.
func New(previousClose decimal.Decimal, segmentKey string, opts ...Option) *LimitUpCalculator {
	c := &LimitUpCalculator{
		previousClose: previousClose,
		segmentKey:    domain.NormalizeSegmentKey(segmentKey),
		logger:        slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewFromFloat creates a calculator from a float close price.
// NaN and ±Inf are stored as zero, which every operation rejects.
func NewFromFloat(previousClose float64, segmentKey string, opts ...Option) *LimitUpCalculator {
	return New(floatToDecimal(previousClose), segmentKey, opts...)
}

// Default returns a calculator with a zero close on the default segment.
func Default(opts ...Option) *LimitUpCalculator {
	return New(decimal.Zero, domain.DefaultSegmentKey, opts...)
}

// PreviousClose returns the close price the calculator was built with.
func (c *LimitUpCalculator) PreviousClose() decimal.Decimal {
	return c.previousClose
}

// SegmentKey returns the normalized segment key.
func (c *LimitUpCalculator) SegmentKey() string {
	return c.segmentKey
}

// DailyLimitRate returns the segment's limit as a fraction, or 0 if the
// segment is unknown.
func (c *LimitUpCalculator) DailyLimitRate() decimal.Decimal {
	seg, ok := domain.LookupSegment(c.segmentKey)
	if !ok {
		return decimal.Zero
	}
	return seg.DailyLimitRate()
}

// Validate checks the close price and the segment key.
func (c *LimitUpCalculator) Validate() error {
	if err := c.validateClose(); err != nil {
		return err
	}
	return c.validateSegment()
}

// LimitUpOnce returns the price after a single limit-up day.
func (c *LimitUpCalculator) LimitUpOnce() (decimal.Decimal, error) {
	if err := c.Validate(); err != nil {
		return decimal.Zero, err
	}
	return c.previousClose.Mul(c.multiplier()).Round(PricePlaces), nil
}

// PriceAfterLimitUps returns the price after n consecutive limit-up days.
// The result is the exact compounded price rounded once at the end; the
// exact product is only formed when a bounded-precision estimate sits too
// close to a rounding boundary.
func (c *LimitUpCalculator) PriceAfterLimitUps(n int) (decimal.Decimal, error) {
	if err := c.Validate(); err != nil {
		return decimal.Zero, err
	}
	if err := c.validateCount(n); err != nil {
		return decimal.Zero, err
	}

	m := c.multiplier()
	sig := sigDigits(intDigits(c.previousClose, m, n))
	approx := c.previousClose.Mul(approxPow(m, n, sig))
	if price, ok := settle(approx, errorBound(approx, n, 2*bitLen(n), sig)); ok {
		return price, nil
	}
	return c.previousClose.Mul(powInt(m, n)).Round(PricePlaces), nil
}

// Trajectory returns the rounded price after each of days 1..n.
// n = 0 yields an empty slice.
func (c *LimitUpCalculator) Trajectory(n int) ([]decimal.Decimal, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if err := c.validateCount(n); err != nil {
		return nil, err
	}

	// Prices only grow, so the precision needed for the last day covers all.
	m := c.multiplier()
	sig := sigDigits(intDigits(c.previousClose, m, n))
	out := make([]decimal.Decimal, 0, n)
	price := c.previousClose
	for day := 1; day <= n; day++ {
		price = roundSig(price.Mul(m), sig)
		p, ok := settle(price, errorBound(price, day, day, sig))
		if !ok {
			p = c.previousClose.Mul(powInt(m, day)).Round(PricePlaces)
		}
		out = append(out, p)
	}
	return out, nil
}

// LimitUpsNeeded returns how many limit-up days it takes for the price to
// reach targetPrice. A target at or below the close needs 0.
func (c *LimitUpCalculator) LimitUpsNeeded(targetPrice decimal.Decimal) (int, error) {
	if err := c.Validate(); err != nil {
		return 0, err
	}
	if !targetPrice.IsPositive() {
		return 0, c.reject(domain.InvalidPrice, "target_price", targetPrice.String())
	}
	if targetPrice.LessThanOrEqual(c.previousClose) {
		return 0, nil
	}

	// The log estimate is only a starting point; the answer is the smallest
	// k with close*(1+rate)^k >= target, decided without rounding.
	m := c.multiplier()
	k := int(math.Ceil((lnDecimal(targetPrice) - lnDecimal(c.previousClose)) / lnDecimal(m)))
	if k < 1 {
		k = 1
	}
	for !c.reaches(m, k, targetPrice) {
		k++
	}
	for k > 1 && c.reaches(m, k-1, targetPrice) {
		k--
	}
	return k, nil
}

// reaches reports whether close*m^k >= target.
func (c *LimitUpCalculator) reaches(m decimal.Decimal, k int, target decimal.Decimal) bool {
	sig := sigDigits(0)
	approx := c.previousClose.Mul(approxPow(m, k, sig))
	if cmp, ok := compare(approx, errorBound(approx, k, 2*bitLen(k), sig), target); ok {
		return cmp > 0
	}
	return c.previousClose.Mul(powInt(m, k)).GreaterThanOrEqual(target)
}

// LimitUpsNeededFloat is LimitUpsNeeded for float input; NaN and ±Inf are rejected.
func (c *LimitUpCalculator) LimitUpsNeededFloat(targetPrice float64) (int, error) {
	return c.LimitUpsNeeded(floatToDecimal(targetPrice))
}

func (c *LimitUpCalculator) multiplier() decimal.Decimal {
	return decimal.NewFromInt(1).Add(c.DailyLimitRate())
}

func (c *LimitUpCalculator) validateClose() error {
	if !c.previousClose.IsPositive() {
		return c.reject(domain.InvalidPrice, "previous_close", c.previousClose.String())
	}
	return nil
}

func (c *LimitUpCalculator) validateSegment() error {
	if !domain.IsKnownSegment(c.segmentKey) {
		return c.reject(domain.InvalidSegment, "segment", c.segmentKey)
	}
	return nil
}

func (c *LimitUpCalculator) validateCount(n int) error {
	if n < 0 {
		return c.reject(domain.InvalidCount, "count", strconv.Itoa(n))
	}
	return nil
}

// reject logs the failed check and returns it as a ValidationError.
func (c *LimitUpCalculator) reject(kind domain.ValidationKind, field, value string) error {
	err := domain.NewValidationError(kind, field, value)
	c.logger.Warn("Limit-up input rejected",
		slog.String("kind", kind.String()),
		slog.String("field", field),
		slog.String("value", value),
	)
	return err
}

// powInt computes base^n exactly by repeated squaring.
func powInt(base decimal.Decimal, n int) decimal.Decimal {
	result := decimal.NewFromInt(1)
	for n > 0 {
		if n&1 == 1 {
			result = result.Mul(base)
		}
		base = base.Mul(base)
		n >>= 1
	}
	return result
}

func floatToDecimal(f float64) decimal.Decimal {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return decimal.Zero
	}
	return decimal.NewFromFloat(f)
}
