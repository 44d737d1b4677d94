package indicator

import "errors"

// SMA computes the simple moving average of the trailing `period` closes.
func SMA(closes []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, errors.New("period must be positive")
	}
	if len(closes) < period {
		return 0, errors.New("not enough data for SMA calculation")
	}
	sum := 0.0
	for i := len(closes) - period; i < len(closes); i++ {
		sum += closes[i]
	}
	return sum / float64(period), nil
}

// SMASeries computes the trailing SMA for every bar, aligned one-to-one with
// the input. Bars inside the warm-up window report 0.
func SMASeries(closes []float64, period int) []float64 {
	out := make([]float64, len(closes))
	if period <= 0 || len(closes) < period {
		return out
	}
	sum := 0.0
	for i, c := range closes {
		sum += c
		if i >= period {
			sum -= closes[i-period]
		}
		if i >= period-1 {
			out[i] = sum / float64(period)
		}
	}
	return out
}

// RollingHigh computes the trailing-window maximum (including the current
// bar) for every bar, aligned one-to-one with the input. Shorter prefixes
// use all bars available.
func RollingHigh(closes []float64, window int) []float64 {
	out := make([]float64, len(closes))
	for i := range closes {
		start := i - window + 1
		if start < 0 {
			start = 0
		}
		high := closes[start]
		for j := start + 1; j <= i; j++ {
			if closes[j] > high {
				high = closes[j]
			}
		}
		out[i] = high
	}
	return out
}
