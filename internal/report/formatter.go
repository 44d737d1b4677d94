package report

import (
	"fmt"
	"strings"

	"BhavSentinel/internal/backtest"
	"BhavSentinel/internal/model"

	"github.com/dustin/go-humanize"
)

// FormatDailySummary formats the run summary into a Telegram message.
func FormatDailySummary(s *Summary) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("📊 <b>BhavSentinel 日报 | Daily Report</b> | %s\n\n", s.Date.Format("2006-01-02")))
	b.WriteString(fmt.Sprintf("Symbols analysed: %d\n", len(s.Rows)))

	if len(s.Signals) == 0 {
		b.WriteString("\nNo NEW signals found for today.\n")
		return b.String()
	}

	headers := []string{"Symbol", "Strat", "Close", "D", "W", "M"}
	rows := make([][]string, 0, len(s.Signals))
	for _, sig := range s.Signals {
		rows = append(rows, []string{
			sig.Symbol,
			sig.Strategy,
			fmt.Sprintf("%.2f", sig.Close),
			fmt.Sprintf("%.0f", sig.DailyRSI),
			fmt.Sprintf("%.0f", sig.WeeklyRSI),
			fmt.Sprintf("%.0f", sig.MonthlyRSI),
		})
	}
	b.WriteString(fmt.Sprintf("\n🔔 <b>Signals (%d):</b>\n", len(s.Signals)))
	b.WriteString("<pre>")
	b.WriteString(formatTable(headers, rows))
	b.WriteString("</pre>")
	return b.String()
}

// FormatBacktestDigest formats scenario results into a Telegram message.
func FormatBacktestDigest(symbol string, results []backtest.ScenarioResult) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("🧮 <b>SIP Backtest</b> | %s\n\n", symbol))
	for _, r := range results {
		b.WriteString(fmt.Sprintf("<b>%s</b>\n", r.Name))
		b.WriteString(fmt.Sprintf("  Invested: ₹%s\n", humanize.CommafWithDigits(r.Invested, 0)))
		b.WriteString(fmt.Sprintf("  Value:    ₹%s (%+.1f%%)\n", humanize.CommafWithDigits(r.FinalValue, 0), r.AbsReturn))
		if r.TriggerDays > 0 {
			b.WriteString(fmt.Sprintf("  Top-up days: %d\n", r.TriggerDays))
		}
		if r.XIRR.Converged {
			b.WriteString(fmt.Sprintf("  XIRR: %+.2f%%\n", r.XIRR.Rate*100))
		} else {
			b.WriteString("  XIRR: undefined (no convergence)\n")
		}
		b.WriteString("\n")
	}
	return b.String()
}

// FormatTradeBook formats the paper trade book for display.
func FormatTradeBook(trades []model.Trade) string {
	var open, closed []model.Trade
	for _, t := range trades {
		if t.Status == model.TradeOpen {
			open = append(open, t)
		} else {
			closed = append(closed, t)
		}
	}

	var b strings.Builder
	b.WriteString("📒 <b>Paper Trade Book</b>\n\n")
	if len(open) == 0 {
		b.WriteString("No open positions.\n")
	} else {
		headers := []string{"Symbol", "Entry", "LTP", "PnL"}
		rows := make([][]string, 0, len(open))
		for _, t := range open {
			rows = append(rows, []string{
				t.Symbol,
				fmt.Sprintf("%.2f", t.EntryPrice),
				fmt.Sprintf("%.2f", t.CurrentPrice),
				fmt.Sprintf("%+.0f", t.UnrealizedPnL),
			})
		}
		b.WriteString("<pre>")
		b.WriteString(formatTable(headers, rows))
		b.WriteString("</pre>\n")
	}

	var realized float64
	for _, t := range closed {
		realized += t.RealizedPnL
	}
	b.WriteString(fmt.Sprintf("\nClosed trades: %d | Realized PnL: ₹%s\n",
		len(closed), humanize.CommafWithDigits(realized, 0)))
	return b.String()
}

// formatTable renders rows as a fixed-width aligned text table.
func formatTable(headers []string, rows [][]string) string {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	var b strings.Builder
	writeRow := func(cells []string) {
		for i, cell := range cells {
			if i > 0 {
				b.WriteString("  ")
			}
			b.WriteString(cell)
			b.WriteString(strings.Repeat(" ", widths[i]-len(cell)))
		}
		b.WriteString("\n")
	}
	writeRow(headers)
	total := 0
	for _, w := range widths {
		total += w
	}
	b.WriteString(strings.Repeat("-", total+2*(len(widths)-1)))
	b.WriteString("\n")
	for _, row := range rows {
		writeRow(row)
	}
	return b.String()
}
