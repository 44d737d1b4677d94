package indicator

import (
	"errors"
	"log"

	"BhavSentinel/internal/model"
)

const rsiPeriod = 14

// Compute derives the full indicator set for one symbol from its adjusted
// daily series. Individual indicator failures fall back to neutral values
// with a warning; only an empty series is an error.
func Compute(symbol string, bars []model.PriceBar) (*model.SymbolIndicators, error) {
	if len(bars) == 0 {
		return nil, errors.New("no bars for symbol")
	}

	last := bars[len(bars)-1]
	ind := &model.SymbolIndicators{
		Symbol: symbol,
		Date:   last.Date,
		Close:  last.Close,
	}

	daily := Closes(bars)
	weekly := Closes(ResampleWeekly(bars))
	monthly := Closes(ResampleMonthly(bars))

	if rsi, err := RSI(daily, rsiPeriod); err != nil {
		log.Printf("[WARN] %s: daily RSI failed: %v, defaulting to 50", symbol, err)
		ind.DailyRSI = 50
	} else {
		ind.DailyRSI = rsi
	}
	if rsi, err := RSI(weekly, rsiPeriod); err != nil {
		log.Printf("[WARN] %s: weekly RSI failed: %v, defaulting to 50", symbol, err)
		ind.WeeklyRSI = 50
	} else {
		ind.WeeklyRSI = rsi
	}
	if rsi, err := RSI(monthly, rsiPeriod); err != nil {
		log.Printf("[WARN] %s: monthly RSI failed: %v, defaulting to 50", symbol, err)
		ind.MonthlyRSI = 50
	} else {
		ind.MonthlyRSI = rsi
	}

	if ma, err := SMA(daily, 50); err != nil {
		log.Printf("[WARN] %s: SMA50 failed: %v, using close", symbol, err)
		ind.SMA50 = last.Close
	} else {
		ind.SMA50 = ma
	}
	if ma, err := SMA(daily, 200); err != nil {
		log.Printf("[WARN] %s: SMA200 failed: %v, using close", symbol, err)
		ind.SMA200 = last.Close
	} else {
		ind.SMA200 = ma
	}

	highs := RollingHigh(daily, 252)
	ind.High52w = highs[len(highs)-1]

	return ind, nil
}
