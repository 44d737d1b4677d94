package indicator

import (
	"errors"

	"BhavSentinel/internal/model"
)

// RSI computes the Wilder-smoothed RSI over the given period for the latest bar.
// Requires at least period+1 closes. Returns 50.0 if data is insufficient.
func RSI(closes []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, errors.New("period must be positive")
	}
	if len(closes) < period+1 {
		return 50.0, nil // neutral when data insufficient
	}

	avgGain, avgLoss := seedAverages(closes, period)
	for i := period + 1; i < len(closes); i++ {
		avgGain, avgLoss = wilderStep(avgGain, avgLoss, closes[i]-closes[i-1], period)
	}
	return rsiFrom(avgGain, avgLoss), nil
}

// RSISeries computes the Wilder RSI for every bar, aligned one-to-one with
// the input. Bars inside the warm-up window report the neutral value 50.
func RSISeries(closes []float64, period int) []float64 {
	out := make([]float64, len(closes))
	for i := range out {
		out[i] = 50.0
	}
	if period <= 0 || len(closes) < period+1 {
		return out
	}

	avgGain, avgLoss := seedAverages(closes, period)
	out[period] = rsiFrom(avgGain, avgLoss)
	for i := period + 1; i < len(closes); i++ {
		avgGain, avgLoss = wilderStep(avgGain, avgLoss, closes[i]-closes[i-1], period)
		out[i] = rsiFrom(avgGain, avgLoss)
	}
	return out
}

// seedAverages builds the initial simple averages over the first `period` changes.
func seedAverages(closes []float64, period int) (avgGain, avgLoss float64) {
	for i := 1; i <= period; i++ {
		change := closes[i] - closes[i-1]
		if change > 0 {
			avgGain += change
		} else {
			avgLoss -= change // make positive
		}
	}
	return avgGain / float64(period), avgLoss / float64(period)
}

func wilderStep(avgGain, avgLoss, change float64, period int) (float64, float64) {
	gain, loss := 0.0, 0.0
	if change > 0 {
		gain = change
	} else {
		loss = -change
	}
	p := float64(period)
	return (avgGain*(p-1) + gain) / p, (avgLoss*(p-1) + loss) / p
}

func rsiFrom(avgGain, avgLoss float64) float64 {
	if avgLoss == 0 {
		return 100.0
	}
	rs := avgGain / avgLoss
	return 100.0 - 100.0/(1.0+rs)
}

// Closes extracts the close prices from a bar series.
func Closes(bars []model.PriceBar) []float64 {
	closes := make([]float64, len(bars))
	for i, b := range bars {
		closes[i] = b.Close
	}
	return closes
}
