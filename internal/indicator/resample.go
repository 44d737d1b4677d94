package indicator

import "BhavSentinel/internal/model"

// ResampleWeekly collapses daily bars into weekly bars keyed by ISO week.
// Each weekly bar keeps the week's open, high, low, last close, and summed
// volume, stamped with the first trading day of the week.
func ResampleWeekly(daily []model.PriceBar) []model.PriceBar {
	return resample(daily, func(b model.PriceBar) int {
		year, week := b.Date.ISOWeek()
		return year*100 + week
	})
}

// ResampleMonthly collapses daily bars into calendar-month bars.
func ResampleMonthly(daily []model.PriceBar) []model.PriceBar {
	return resample(daily, func(b model.PriceBar) int {
		return b.Date.Year()*100 + int(b.Date.Month())
	})
}

func resample(daily []model.PriceBar, keyOf func(model.PriceBar) int) []model.PriceBar {
	if len(daily) == 0 {
		return nil
	}
	var out []model.PriceBar
	var cur model.PriceBar
	curKey := 0
	started := false

	for _, d := range daily {
		key := keyOf(d)
		if !started || key != curKey {
			if started {
				out = append(out, cur)
			}
			cur = d
			curKey = key
			started = true
			continue
		}
		if d.High > cur.High {
			cur.High = d.High
		}
		if d.Low < cur.Low {
			cur.Low = d.Low
		}
		cur.Close = d.Close
		cur.Volume += d.Volume
	}
	out = append(out, cur)
	return out
}
