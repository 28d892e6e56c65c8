package calculator

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"math"
	"strings"
	"testing"

	"limitup_go/internal/domain"

	"github.com/shopspring/decimal"
)

var quietLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestLimitUpOnce(t *testing.T) {
	cases := []struct {
		segment string
		want    string
	}{
		{"normal", "5.46"}, // 4.96 * 1.10 = 5.456
		{"st", "5.21"},     // 4.96 * 1.05 = 5.208
		{"kcb", "5.95"},    // 4.96 * 1.20 = 5.952
		{"cyb", "5.95"},
		{"bjs", "6.45"}, // 4.96 * 1.30 = 6.448
	}

	for _, tc := range cases {
		t.Run(tc.segment, func(t *testing.T) {
			calc := New(dec("4.96"), tc.segment, WithLogger(quietLogger))
			got, err := calc.LimitUpOnce()
			if err != nil {
				t.Fatalf("LimitUpOnce failed: %v", err)
			}
			if !got.Equal(dec(tc.want)) {
				t.Errorf("Expected %s, got %s", tc.want, got)
			}
		})
	}
}

func TestPriceAfterLimitUps(t *testing.T) {
	calc := New(dec("4.96"), "normal", WithLogger(quietLogger))

	t.Run("eight days", func(t *testing.T) {
		got, err := calc.PriceAfterLimitUps(8)
		if err != nil {
			t.Fatalf("PriceAfterLimitUps failed: %v", err)
		}
		if !got.Equal(dec("10.63")) {
			t.Errorf("Expected 10.63, got %s", got)
		}
	})

	t.Run("zero days returns close", func(t *testing.T) {
		got, err := New(dec("4.956"), "normal", WithLogger(quietLogger)).PriceAfterLimitUps(0)
		if err != nil {
			t.Fatalf("PriceAfterLimitUps failed: %v", err)
		}
		if !got.Equal(dec("4.96")) {
			t.Errorf("Expected 4.96, got %s", got)
		}
	})

	t.Run("negative count", func(t *testing.T) {
		_, err := calc.PriceAfterLimitUps(-1)
		if !errors.Is(err, domain.ErrInvalidCount) {
			t.Errorf("Expected ErrInvalidCount, got %v", err)
		}
	})

	t.Run("no intermediate rounding", func(t *testing.T) {
		// Rounding each day would give 1.16 -> 1.28; compounded it is 1.2705.
		got, _ := New(dec("1.05"), "normal", WithLogger(quietLogger)).PriceAfterLimitUps(2)
		if !got.Equal(dec("1.27")) {
			t.Errorf("Expected 1.27, got %s", got)
		}
	})
}

func TestOnceEqualsOneDay(t *testing.T) {
	closes := []string{"0.01", "1", "4.96", "13.37", "1999.99"}
	for _, seg := range domain.Segments() {
		for _, c := range closes {
			calc := New(dec(c), seg.Key, WithLogger(quietLogger))
			once, err1 := calc.LimitUpOnce()
			day, err2 := calc.PriceAfterLimitUps(1)
			if err1 != nil || err2 != nil {
				t.Fatalf("%s/%s: unexpected errors %v, %v", seg.Key, c, err1, err2)
			}
			if !once.Equal(day) {
				t.Errorf("%s/%s: LimitUpOnce %s != PriceAfterLimitUps(1) %s", seg.Key, c, once, day)
			}
		}
	}
}

func TestPriceAfterLimitUps_Monotonic(t *testing.T) {
	for _, seg := range domain.Segments() {
		calc := New(dec("3.2"), seg.Key, WithLogger(quietLogger))
		prev, _ := calc.PriceAfterLimitUps(0)
		for n := 1; n <= 20; n++ {
			cur, err := calc.PriceAfterLimitUps(n)
			if err != nil {
				t.Fatalf("%s: PriceAfterLimitUps(%d) failed: %v", seg.Key, n, err)
			}
			if !cur.GreaterThan(prev) {
				t.Errorf("%s: price not increasing at n=%d: %s <= %s", seg.Key, n, cur, prev)
			}
			prev = cur
		}
	}
}

func TestLimitUpsNeeded(t *testing.T) {
	calc := New(dec("4.96"), "normal", WithLogger(quietLogger))

	cases := []struct {
		name   string
		target string
		want   int
	}{
		{"example target", "10.3", 8},
		{"equal to close", "4.96", 0},
		{"below close", "1", 0},
		{"one day", "5.456", 1},
		{"just above one day", "5.4561", 2},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := calc.LimitUpsNeeded(dec(tc.target))
			if err != nil {
				t.Fatalf("LimitUpsNeeded failed: %v", err)
			}
			if got != tc.want {
				t.Errorf("Expected %d, got %d", tc.want, got)
			}
		})
	}

	t.Run("exact boundary", func(t *testing.T) {
		got, err := New(dec("10"), "normal", WithLogger(quietLogger)).LimitUpsNeeded(dec("12.1"))
		if err != nil {
			t.Fatalf("LimitUpsNeeded failed: %v", err)
		}
		if got != 2 {
			t.Errorf("Expected 2, got %d", got)
		}
	})

	t.Run("non-positive target", func(t *testing.T) {
		for _, target := range []string{"0", "-3"} {
			_, err := calc.LimitUpsNeeded(dec(target))
			if domain.KindOf(err) != domain.InvalidPrice {
				t.Errorf("target %s: expected INVALID_PRICE, got %v", target, err)
			}
		}
	})

	t.Run("float target", func(t *testing.T) {
		got, err := calc.LimitUpsNeededFloat(10.3)
		if err != nil || got != 8 {
			t.Errorf("Expected 8, got %d (%v)", got, err)
		}
		if _, err := calc.LimitUpsNeededFloat(math.NaN()); !errors.Is(err, domain.ErrInvalidPrice) {
			t.Errorf("Expected ErrInvalidPrice for NaN, got %v", err)
		}
	})
}

func TestTrajectory(t *testing.T) {
	calc := New(dec("10"), "normal", WithLogger(quietLogger))

	got, err := calc.Trajectory(3)
	if err != nil {
		t.Fatalf("Trajectory failed: %v", err)
	}
	want := []string{"11", "12.1", "13.31"}
	if len(got) != len(want) {
		t.Fatalf("Expected %d prices, got %d", len(want), len(got))
	}
	for i := range want {
		if !got[i].Equal(dec(want[i])) {
			t.Errorf("day %d: expected %s, got %s", i+1, want[i], got[i])
		}
	}

	last, _ := calc.PriceAfterLimitUps(3)
	if !got[2].Equal(last) {
		t.Errorf("Trajectory end %s should match PriceAfterLimitUps %s", got[2], last)
	}

	empty, err := calc.Trajectory(0)
	if err != nil || len(empty) != 0 {
		t.Errorf("Expected empty trajectory, got %v (%v)", empty, err)
	}
}

func TestInvalidInputs(t *testing.T) {
	t.Run("negative close", func(t *testing.T) {
		calc := NewFromFloat(-1, "normal", WithLogger(quietLogger))
		assertAllFail(t, calc, domain.InvalidPrice)
	})

	t.Run("zero close", func(t *testing.T) {
		assertAllFail(t, Default(WithLogger(quietLogger)), domain.InvalidPrice)
	})

	t.Run("NaN close", func(t *testing.T) {
		calc := NewFromFloat(math.NaN(), "normal", WithLogger(quietLogger))
		assertAllFail(t, calc, domain.InvalidPrice)
	})

	t.Run("unknown segment", func(t *testing.T) {
		calc := New(dec("4.96"), "unknown", WithLogger(quietLogger))
		assertAllFail(t, calc, domain.InvalidSegment)
		if !calc.DailyLimitRate().IsZero() {
			t.Errorf("Expected zero rate for unknown segment, got %s", calc.DailyLimitRate())
		}
	})
}

func assertAllFail(t *testing.T, calc *LimitUpCalculator, kind domain.ValidationKind) {
	t.Helper()

	if _, err := calc.LimitUpOnce(); domain.KindOf(err) != kind {
		t.Errorf("LimitUpOnce: expected %s, got %v", kind, err)
	}
	if _, err := calc.PriceAfterLimitUps(3); domain.KindOf(err) != kind {
		t.Errorf("PriceAfterLimitUps: expected %s, got %v", kind, err)
	}
	if _, err := calc.LimitUpsNeeded(dec("10.3")); domain.KindOf(err) != kind {
		t.Errorf("LimitUpsNeeded: expected %s, got %v", kind, err)
	}
	if _, err := calc.Trajectory(3); domain.KindOf(err) != kind {
		t.Errorf("Trajectory: expected %s, got %v", kind, err)
	}
}

func TestValidation_Idempotent(t *testing.T) {
	calc := New(dec("-1"), "NORMAL", WithLogger(quietLogger))

	_, err1 := calc.LimitUpOnce()
	_, err2 := calc.LimitUpOnce()
	if err1 == nil || err2 == nil {
		t.Fatal("Expected both calls to fail")
	}
	if err1.Error() != err2.Error() {
		t.Errorf("Errors differ: %q vs %q", err1, err2)
	}
	if !calc.PreviousClose().Equal(dec("-1")) || calc.SegmentKey() != "normal" {
		t.Error("Calculator state changed after failed call")
	}
}

func TestValidation_LogsDiagnostic(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	calc := New(dec("4.96"), "unknown", WithLogger(logger))
	if _, err := calc.LimitUpOnce(); err == nil {
		t.Fatal("Expected failure for unknown segment")
	}

	out := buf.String()
	if !strings.Contains(out, "INVALID_SEGMENT") || !strings.Contains(out, `"field":"segment"`) {
		t.Errorf("Expected diagnostic with kind and field, got %s", out)
	}
}

func TestDefault(t *testing.T) {
	calc := Default(WithLogger(quietLogger))
	if calc.SegmentKey() != domain.SegmentNormal {
		t.Errorf("Expected default segment normal, got %s", calc.SegmentKey())
	}
	if !calc.DailyLimitRate().Equal(dec("0.1")) {
		t.Errorf("Expected rate 0.1, got %s", calc.DailyLimitRate())
	}
}
