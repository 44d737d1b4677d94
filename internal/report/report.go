package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"BhavSentinel/internal/model"
)

// Summary is the full output of one daily run. The CSV written from it is
// the source of truth; Telegram delivery is best-effort on top.
type Summary struct {
	Date    time.Time
	Rows    []model.SymbolIndicators
	Signals []model.StrategySignal
}

var reportHeader = []string{
	"symbol", "date", "close",
	"daily_rsi", "weekly_rsi", "monthly_rsi",
	"sma50", "sma200", "high_52w", "signals",
}

// WriteCSV writes the report atomically. It is always called before any
// downstream delivery is attempted.
func WriteCSV(path string, s *Summary) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create report dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, "report.tmp-*")
	if err != nil {
		return fmt.Errorf("create temp: %w", err)
	}
	defer os.Remove(tmp.Name())

	signalsBySymbol := make(map[string][]string)
	for _, sig := range s.Signals {
		signalsBySymbol[sig.Symbol] = append(signalsBySymbol[sig.Symbol], sig.Strategy)
	}

	w := csv.NewWriter(tmp)
	if err := w.Write(reportHeader); err != nil {
		tmp.Close()
		return err
	}
	for _, row := range s.Rows {
		rec := []string{
			row.Symbol,
			row.Date.Format("2006-01-02"),
			f2(row.Close),
			f2(row.DailyRSI), f2(row.WeeklyRSI), f2(row.MonthlyRSI),
			f2(row.SMA50), f2(row.SMA200), f2(row.High52w),
			strings.Join(signalsBySymbol[row.Symbol], "|"),
		}
		if err := w.Write(rec); err != nil {
			tmp.Close()
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

func f2(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
