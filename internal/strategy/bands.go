package strategy

import "BhavSentinel/internal/model"

// Band is an inclusive RSI range.
type Band struct {
	Lo float64
	Hi float64
}

// Contains reports whether v lies within the band, bounds included.
func (b Band) Contains(v float64) bool { return v >= b.Lo && v <= b.Hi }

// BandStrategy matches a symbol when its daily, weekly, and monthly RSI all
// sit inside the strategy's bands.
type BandStrategy struct {
	Name    string
	Daily   Band
	Weekly  Band
	Monthly Band
}

// Strategies is the active band-strategy set.
// GFS looks for a daily dip inside a healthy weekly/monthly trend; AGFS is
// the aggressive variant without the daily dip requirement.
var Strategies = []BandStrategy{
	{Name: "GFS", Daily: Band{35, 45}, Weekly: Band{55, 65}, Monthly: Band{55, 65}},
	{Name: "AGFS", Daily: Band{55, 65}, Weekly: Band{55, 65}, Monthly: Band{55, 65}},
}

// Match evaluates all band strategies against one symbol's indicators and
// returns a signal per matching strategy.
func Match(ind *model.SymbolIndicators) []model.StrategySignal {
	var signals []model.StrategySignal
	for _, s := range Strategies {
		if !s.Daily.Contains(ind.DailyRSI) ||
			!s.Weekly.Contains(ind.WeeklyRSI) ||
			!s.Monthly.Contains(ind.MonthlyRSI) {
			continue
		}
		signals = append(signals, model.StrategySignal{
			Symbol:     ind.Symbol,
			Strategy:   s.Name,
			Date:       ind.Date,
			Close:      ind.Close,
			DailyRSI:   ind.DailyRSI,
			WeeklyRSI:  ind.WeeklyRSI,
			MonthlyRSI: ind.MonthlyRSI,
		})
	}
	return signals
}
