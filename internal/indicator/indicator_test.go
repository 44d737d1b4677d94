package indicator

import (
	"math"
	"testing"
	"time"

	"BhavSentinel/internal/model"
)

func TestRSI_Bounds(t *testing.T) {
	// Alternating gains and losses of varying size
	closes := []float64{100, 102, 99, 104, 101, 103, 98, 105, 102, 104, 100, 106, 103, 105, 101, 107, 104}
	rsi, err := RSI(closes, 14)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rsi < 0 || rsi > 100 {
		t.Errorf("RSI out of [0,100]: %.2f", rsi)
	}
}

func TestRSI_AllGainsIs100(t *testing.T) {
	closes := make([]float64, 20)
	for i := range closes {
		closes[i] = 100 + float64(i)
	}
	rsi, err := RSI(closes, 14)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rsi != 100 {
		t.Errorf("expected RSI 100 with no losses, got %.2f", rsi)
	}
}

func TestRSI_AllLossesNearZero(t *testing.T) {
	closes := make([]float64, 20)
	for i := range closes {
		closes[i] = 100 - float64(i)
	}
	rsi, err := RSI(closes, 14)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rsi != 0 {
		t.Errorf("expected RSI 0 with no gains, got %.2f", rsi)
	}
}

func TestRSI_InsufficientDataNeutral(t *testing.T) {
	rsi, err := RSI([]float64{100, 101, 102}, 14)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rsi != 50 {
		t.Errorf("expected neutral 50 for short series, got %.2f", rsi)
	}
}

func TestRSI_BadPeriod(t *testing.T) {
	if _, err := RSI([]float64{100, 101}, 0); err == nil {
		t.Error("expected error for period 0")
	}
}

func TestRSISeries_AlignmentAndConsistency(t *testing.T) {
	closes := []float64{100, 102, 99, 104, 101, 103, 98, 105, 102, 104, 100, 106, 103, 105, 101, 107, 104, 108}
	series := RSISeries(closes, 14)
	if len(series) != len(closes) {
		t.Fatalf("series length %d != input length %d", len(series), len(closes))
	}
	// Warm-up bars are neutral
	for i := 0; i < 14; i++ {
		if series[i] != 50 {
			t.Errorf("bar %d: expected warm-up value 50, got %.2f", i, series[i])
		}
	}
	// Last value matches the scalar computation over the same data
	scalar, err := RSI(closes, 14)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(series[len(series)-1]-scalar) > 1e-9 {
		t.Errorf("series tail %.6f != scalar RSI %.6f", series[len(series)-1], scalar)
	}
}

func TestSMA(t *testing.T) {
	closes := []float64{1, 2, 3, 4, 5}
	ma, err := SMA(closes, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ma != 4 {
		t.Errorf("expected SMA 4, got %.2f", ma)
	}
	if _, err := SMA(closes, 10); err == nil {
		t.Error("expected error for insufficient data")
	}
}

func TestSMASeries(t *testing.T) {
	closes := []float64{1, 2, 3, 4, 5}
	series := SMASeries(closes, 3)
	if len(series) != len(closes) {
		t.Fatalf("series length %d != input length %d", len(series), len(closes))
	}
	want := []float64{0, 0, 2, 3, 4}
	for i, w := range want {
		if math.Abs(series[i]-w) > 1e-9 {
			t.Errorf("bar %d: expected %.2f, got %.2f", i, w, series[i])
		}
	}
}

func TestRollingHigh(t *testing.T) {
	closes := []float64{5, 3, 8, 6, 2, 9}
	highs := RollingHigh(closes, 3)
	want := []float64{5, 5, 8, 8, 8, 9}
	for i, w := range want {
		if highs[i] != w {
			t.Errorf("bar %d: expected %.0f, got %.0f", i, w, highs[i])
		}
	}
}

func mkBars(closes []float64, start time.Time) []model.PriceBar {
	bars := make([]model.PriceBar, len(closes))
	for i, c := range closes {
		bars[i] = model.PriceBar{
			Symbol: "X",
			Date:   start.AddDate(0, 0, i),
			Open:   c, High: c, Low: c, Close: c,
			Volume: 10,
		}
	}
	return bars
}

func TestResampleWeekly(t *testing.T) {
	// Mon 2024-01-01 .. Fri 2024-01-12: two full trading weeks
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	var bars []model.PriceBar
	c := 100.0
	for d := 0; d < 12; d++ {
		date := start.AddDate(0, 0, d)
		if date.Weekday() == time.Saturday || date.Weekday() == time.Sunday {
			continue
		}
		c += 1
		bars = append(bars, model.PriceBar{Symbol: "X", Date: date, Open: c, High: c, Low: c, Close: c, Volume: 10})
	}

	weekly := ResampleWeekly(bars)
	if len(weekly) != 2 {
		t.Fatalf("expected 2 weekly bars, got %d", len(weekly))
	}
	// Each weekly close is the last daily close of the week
	if weekly[0].Close != 105 || weekly[1].Close != 110 {
		t.Errorf("expected weekly closes 105, 110, got %.0f, %.0f", weekly[0].Close, weekly[1].Close)
	}
	// Volume is summed across the week
	if weekly[0].Volume != 50 {
		t.Errorf("expected weekly volume 50, got %.0f", weekly[0].Volume)
	}
}

func TestResampleMonthly(t *testing.T) {
	start := time.Date(2024, 1, 25, 0, 0, 0, 0, time.UTC)
	bars := mkBars([]float64{100, 101, 102, 103, 104, 105, 106, 107, 108, 109}, start)

	monthly := ResampleMonthly(bars)
	if len(monthly) != 2 {
		t.Fatalf("expected 2 monthly bars, got %d", len(monthly))
	}
	if monthly[0].Date.Month() != time.January || monthly[1].Date.Month() != time.February {
		t.Errorf("unexpected months: %s, %s", monthly[0].Date.Month(), monthly[1].Date.Month())
	}
	if monthly[1].Close != 109 {
		t.Errorf("expected February close 109, got %.0f", monthly[1].Close)
	}
}

func TestCompute_AlignsWithLastBar(t *testing.T) {
	start := time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC)
	closes := make([]float64, 300)
	for i := range closes {
		closes[i] = 100 + float64(i)*0.5
	}
	bars := mkBars(closes, start)

	ind, err := Compute("X", bars)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	last := bars[len(bars)-1]
	if ind.Close != last.Close || !ind.Date.Equal(last.Date) {
		t.Errorf("indicators not anchored to last bar: %+v", ind)
	}
	if ind.DailyRSI != 100 {
		t.Errorf("expected daily RSI 100 for monotone rise, got %.2f", ind.DailyRSI)
	}
	if ind.SMA200 <= 0 || ind.SMA50 <= ind.SMA200 {
		t.Errorf("expected SMA50 > SMA200 > 0 in an uptrend, got %.2f / %.2f", ind.SMA50, ind.SMA200)
	}
	if ind.High52w != last.Close {
		t.Errorf("expected 52w high at last close, got %.2f", ind.High52w)
	}
}

func TestCompute_EmptySeries(t *testing.T) {
	if _, err := Compute("X", nil); err == nil {
		t.Error("expected error for empty series")
	}
}
