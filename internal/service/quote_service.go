package service

import (
	"fmt"
	"log/slog"
	"time"

	"limitup_go/internal/calculator"
	"limitup_go/internal/domain"
	"limitup_go/internal/infra"

	"github.com/shopspring/decimal"
)

// QuoteRequest is one set of user inputs.
type QuoteRequest struct {
	PreviousClose decimal.Decimal
	Segment       string           // Empty means the configured default
	Days          *int             // Optional: price after this many limit-ups
	Target        *decimal.Decimal // Optional: limit-ups needed to reach this price
	Trajectory    bool             // Include day-by-day prices; an error without Days
}

// Quote is the full answer for a QuoteRequest.
type Quote struct {
	Segment        domain.MarketSegment `json:"segment"`
	PreviousClose  decimal.Decimal      `json:"previous_close"`
	DailyLimitRate decimal.Decimal      `json:"daily_limit_rate"`
	LimitUpOnce    decimal.Decimal      `json:"limit_up_once"`

	Days           *int              `json:"days,omitempty"`
	PriceAfterDays *decimal.Decimal  `json:"price_after_days,omitempty"`
	Trajectory     []decimal.Decimal `json:"trajectory,omitempty"`

	Target         *decimal.Decimal `json:"target,omitempty"`
	LimitUpsNeeded *int             `json:"limit_ups_needed,omitempty"`
}

// QuoteService builds calculators from requests and records outcomes.
// Safe for concurrent use; each request gets its own calculator.
type QuoteService struct {
	defaultSegment string
	maxDays        int
	minClose       decimal.Decimal
	maxTarget      decimal.Decimal
	logger         *slog.Logger
	metrics        *infra.Metrics
}

// NewQuoteService creates a QuoteService from config.
// A nil logger or metrics falls back to the process defaults.
func NewQuoteService(cfg *infra.Config, logger *slog.Logger, metrics *infra.Metrics) *QuoteService {
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = infra.GlobalMetrics
	}
	return &QuoteService{
		defaultSegment: cfg.Calculator.DefaultSegment,
		maxDays:        cfg.Calculator.MaxDays,
		minClose:       cfg.Calculator.MinClose,
		maxTarget:      cfg.Calculator.MaxTarget,
		logger:         logger,
		metrics:        metrics,
	}
}

// Segments returns the limit table.
func (s *QuoteService) Segments() []domain.MarketSegment {
	return domain.Segments()
}

// Quote runs every calculation the request asks for.
// Either all requested values are returned or none are.
func (s *QuoteService) Quote(req QuoteRequest) (*Quote, error) {
	start := time.Now()

	q, err := s.quote(req)
	if err != nil {
		s.metrics.RecordError(err)
		return nil, err
	}

	s.metrics.RecordCalculation(time.Since(start).Nanoseconds())
	s.logger.Debug("Quote calculated",
		slog.String("segment", q.Segment.Key),
		slog.String("previous_close", q.PreviousClose.String()),
		slog.String("limit_up_once", q.LimitUpOnce.String()),
	)
	return q, nil
}

func (s *QuoteService) quote(req QuoteRequest) (*Quote, error) {
	segKey := req.Segment
	if segKey == "" {
		segKey = s.defaultSegment
	}
	calc := calculator.New(req.PreviousClose, segKey, calculator.WithLogger(s.logger))

	once, err := calc.LimitUpOnce()
	if err != nil {
		return nil, err
	}
	if req.PreviousClose.LessThan(s.minClose) {
		return nil, fmt.Errorf("%w: close %s below %s", domain.ErrOutOfRange, req.PreviousClose, s.minClose)
	}
	if req.Trajectory && req.Days == nil {
		return nil, fmt.Errorf("trajectory requires days: %w", domain.NewValidationError(domain.InvalidCount, "days", "unset"))
	}
	seg, _ := domain.LookupSegment(calc.SegmentKey())

	q := &Quote{
		Segment:        seg,
		PreviousClose:  calc.PreviousClose(),
		DailyLimitRate: calc.DailyLimitRate(),
		LimitUpOnce:    once,
	}

	if req.Days != nil {
		n := *req.Days
		if n > s.maxDays {
			return nil, fmt.Errorf("%w: days %d exceeds %d", domain.ErrOutOfRange, n, s.maxDays)
		}
		price, err := calc.PriceAfterLimitUps(n)
		if err != nil {
			return nil, err
		}
		q.Days = &n
		q.PriceAfterDays = &price

		if req.Trajectory {
			path, err := calc.Trajectory(n)
			if err != nil {
				return nil, err
			}
			q.Trajectory = path
		}
	}

	if req.Target != nil {
		target := *req.Target
		if target.GreaterThan(s.maxTarget) {
			return nil, fmt.Errorf("%w: target %s exceeds %s", domain.ErrOutOfRange, target, s.maxTarget)
		}
		needed, err := calc.LimitUpsNeeded(target)
		if err != nil {
			return nil, err
		}
		q.Target = &target
		q.LimitUpsNeeded = &needed
	}

	return q, nil
}
