package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"BhavSentinel/internal/adjust"
	"BhavSentinel/internal/backtest"
	"BhavSentinel/internal/bhav"
	"BhavSentinel/internal/config"
	"BhavSentinel/internal/indicator"
	"BhavSentinel/internal/ledger"
	"BhavSentinel/internal/model"
	"BhavSentinel/internal/notifier"
	"BhavSentinel/internal/recorder"
	"BhavSentinel/internal/report"
	"BhavSentinel/internal/strategy"

	"github.com/robfig/cron/v3"
)

// Scheduler manages all cron tasks and the pipeline they drive.
type Scheduler struct {
	Cron     *cron.Cron
	Fetcher  bhav.Fetcher
	Store    *bhav.Store
	Book     *ledger.Book
	Notifier *notifier.TelegramNotifier
	Recorder recorder.Recorder
	Cfg      *config.Config
	Ctx      context.Context
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, cfg *config.Config, fetcher bhav.Fetcher, store *bhav.Store,
	book *ledger.Book, tn *notifier.TelegramNotifier, rec recorder.Recorder) *Scheduler {
	return &Scheduler{
		Cron:     cron.New(cron.WithSeconds()),
		Fetcher:  fetcher,
		Store:    store,
		Book:     book,
		Notifier: tn,
		Recorder: rec,
		Cfg:      cfg,
		Ctx:      ctx,
	}
}

// RegisterAll registers the daily pipeline, weekly backtest, and monthly
// adjustments-refresh tasks.
func (s *Scheduler) RegisterAll(dailyCron, weeklyCron, monthlyCron string) error {
	if _, err := s.Cron.AddFunc(dailyCron, s.dailyTask); err != nil {
		return fmt.Errorf("register daily task: %w", err)
	}
	if _, err := s.Cron.AddFunc(weeklyCron, s.weeklyBacktest); err != nil {
		return fmt.Errorf("register weekly task: %w", err)
	}
	if _, err := s.Cron.AddFunc(monthlyCron, s.monthlyAdjustments); err != nil {
		return fmt.Errorf("register monthly task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	s.Cron.Stop()
	log.Println("[INFO] scheduler stopped")
}

// RunDailyNow executes the daily task immediately (for -once / manual trigger).
func (s *Scheduler) RunDailyNow() {
	s.dailyTask()
}

// dailyTask downloads the day's bhavcopy, updates the per-symbol store, and
// runs the analysis pipeline over whatever history is on disk. A failed or
// absent download degrades the run, it never aborts the analysis.
func (s *Scheduler) dailyTask() {
	log.Println("[INFO] running daily task")
	start := time.Now()
	today := time.Now()

	status := "OK"
	barsRead := 0
	bars, err := s.Fetcher.FetchDay(s.Ctx, today)
	switch {
	case errors.Is(err, bhav.ErrNoData):
		log.Printf("[INFO] no bhavcopy for %s (holiday or not yet published)", today.Format("2006-01-02"))
		status = "NO_DATA"
	case err != nil:
		log.Printf("[ERROR] fetch bhavcopy: %v", err)
		status = "PARTIAL"
	default:
		barsRead = len(bars)
		written, werr := s.Store.AppendDay(bars)
		if werr != nil {
			log.Printf("[ERROR] store bhavcopy: %v", werr)
			status = "PARTIAL"
		} else {
			log.Printf("[INFO] stored %d/%d bars for %s", written, len(bars), today.Format("2006-01-02"))
		}
	}

	summary, err := s.analyze()
	if err != nil {
		log.Printf("[ERROR] daily analysis: %v", err)
		s.trySend(fmt.Sprintf("❌ Daily analysis failed: %v", err))
		return
	}

	// The CSV report is the source of truth and is written before any
	// delivery is attempted.
	if err := report.WriteCSV(s.Cfg.Data.ReportFile, summary); err != nil {
		log.Printf("[ERROR] write report: %v", err)
		status = "PARTIAL"
	}

	s.updateLedger(summary)
	s.trySend(report.FormatDailySummary(summary))

	if err := s.Recorder.RecordRun(&recorder.RunRecord{
		Date:     today,
		Symbols:  len(summary.Rows),
		BarsRead: barsRead,
		Signals:  len(summary.Signals),
		Status:   status,
		Duration: time.Since(start),
	}); err != nil {
		log.Printf("[ERROR] record run: %v", err)
	}
	for i := range summary.Signals {
		if err := s.Recorder.RecordSignal(&summary.Signals[i]); err != nil {
			log.Printf("[ERROR] record signal: %v", err)
		}
	}
}

// analyze loads all stored history, applies corporate-action adjustments,
// and computes indicators and strategy signals per symbol.
func (s *Scheduler) analyze() (*report.Summary, error) {
	rules, err := adjust.LoadRules(s.Cfg.Data.AdjustmentsFile)
	if err != nil {
		return nil, fmt.Errorf("load adjustments: %w", err)
	}

	symbols, err := s.Store.Symbols()
	if err != nil {
		return nil, fmt.Errorf("list symbols: %w", err)
	}

	series := make(map[string][]model.PriceBar, len(symbols))
	for _, sym := range symbols {
		bars, err := s.Store.LoadSymbol(sym)
		if err != nil {
			log.Printf("[WARN] load %s: %v, symbol skipped", sym, err)
			continue
		}
		if len(bars) > 0 {
			series[sym] = bars
		}
	}

	adjusted := adjust.ApplyAll(series, rules)

	summary := &report.Summary{Date: time.Now()}
	for _, sym := range symbols {
		bars, ok := adjusted[sym]
		if !ok {
			continue
		}
		ind, err := indicator.Compute(sym, bars)
		if err != nil {
			log.Printf("[WARN] indicators for %s: %v, symbol skipped", sym, err)
			continue
		}
		summary.Rows = append(summary.Rows, *ind)
		summary.Signals = append(summary.Signals, strategy.Match(ind)...)
	}
	return summary, nil
}

// updateLedger marks open positions to market and opens paper trades for
// today's signals.
func (s *Scheduler) updateLedger(summary *report.Summary) {
	prices := make(map[string]float64, len(summary.Rows))
	for _, row := range summary.Rows {
		prices[row.Symbol] = row.Close
	}

	closed, err := s.Book.MarkToMarket(prices, s.Cfg.Ledger.TargetPct)
	if err != nil {
		log.Printf("[ERROR] mark to market: %v", err)
	}
	for _, t := range closed {
		s.recordTradeEvent(&t, t.ExitReason, t.ExitPrice, t.RealizedPnL)
		s.trySend(fmt.Sprintf("📕 <b>%s</b> closed (%s)\nEntry %.2f → Exit %.2f | PnL ₹%.0f",
			t.Symbol, t.ExitReason, t.EntryPrice, t.ExitPrice, t.RealizedPnL))
	}

	for _, sig := range summary.Signals {
		trade, err := s.Book.OpenTrade(sig, s.Cfg.Ledger.Allocation, s.Cfg.Ledger.StopLossPct)
		if err != nil {
			log.Printf("[ERROR] open trade for %s: %v", sig.Symbol, err)
			continue
		}
		if trade != nil {
			s.recordTradeEvent(trade, "OPEN", trade.EntryPrice, 0)
		}
	}
}

// weeklyBacktest simulates SIP scenarios per configured symbol and sends a digest.
func (s *Scheduler) weeklyBacktest() {
	log.Println("[INFO] running weekly backtest")
	cfg := s.Cfg.Backtest

	rules, err := adjust.LoadRules(s.Cfg.Data.AdjustmentsFile)
	if err != nil {
		log.Printf("[ERROR] load adjustments: %v", err)
		return
	}

	symbols := cfg.Symbols
	if len(symbols) == 0 {
		if symbols, err = s.Store.Symbols(); err != nil {
			log.Printf("[ERROR] list symbols: %v", err)
			return
		}
	}

	for _, sym := range symbols {
		bars, err := s.Store.LoadSymbol(sym)
		if err != nil || len(bars) == 0 {
			log.Printf("[WARN] backtest %s: no usable history, skipped", sym)
			continue
		}
		bars = adjust.Apply(bars, rules)
		closes := indicator.Closes(bars)

		scenarios := []backtest.Scenario{
			{Name: "Baseline SIP", SIPAmount: cfg.SIPAmount},
			{
				Name: "Top-up on RSI dip", SIPAmount: cfg.SIPAmount, TopupAmount: cfg.TopupAmount,
				Trigger: strategy.NewRSIBelow(closes, cfg.RSIPeriod, cfg.RSIThreshold),
			},
			{
				Name: "Top-up below DMA", SIPAmount: cfg.SIPAmount, TopupAmount: cfg.TopupAmount,
				Trigger: strategy.NewPriceBelowSMA(closes, cfg.SMAWindow),
			},
			{
				Name: "Top-up on drawdown", SIPAmount: cfg.SIPAmount, TopupAmount: cfg.TopupAmount,
				Trigger: strategy.NewDropFromHigh(closes, cfg.DropWindow, cfg.DropPct),
			},
		}

		results := backtest.Run(bars, scenarios)
		for _, r := range results {
			if err := s.Recorder.RecordBacktest(&recorder.BacktestRecord{
				Symbol:      sym,
				Scenario:    r.Name,
				Invested:    r.Invested,
				FinalValue:  r.FinalValue,
				Rate:        r.XIRR.Rate,
				Converged:   r.XIRR.Converged,
				TriggerDays: r.TriggerDays,
			}); err != nil {
				log.Printf("[ERROR] record backtest: %v", err)
			}
		}
		s.trySend(report.FormatBacktestDigest(sym, results))
	}
}

// monthlyAdjustments regenerates split/bonus rules from the raw
// corporate-actions feed and merges them into the adjustments file.
// Hand-edited rows (demergers) always win on conflict.
func (s *Scheduler) monthlyAdjustments() {
	log.Println("[INFO] running monthly adjustments refresh")
	if s.Cfg.Data.ActionsFile == "" {
		log.Println("[INFO] no actions_file configured, skipping")
		return
	}

	anns, err := adjust.LoadAnnouncements(s.Cfg.Data.ActionsFile)
	if err != nil {
		log.Printf("[ERROR] load announcements: %v", err)
		return
	}
	if len(anns) == 0 {
		log.Println("[INFO] no corporate-action announcements found")
		return
	}

	existing, err := adjust.LoadRules(s.Cfg.Data.AdjustmentsFile)
	if err != nil {
		log.Printf("[ERROR] load adjustments: %v", err)
		return
	}
	generated := adjust.GenerateRules(anns)
	merged := adjust.MergeRules(existing, generated)
	if err := adjust.SaveRules(s.Cfg.Data.AdjustmentsFile, merged); err != nil {
		log.Printf("[ERROR] save adjustments: %v", err)
		return
	}
	added := len(merged) - len(existing)
	log.Printf("[INFO] adjustments refreshed: %d rules (%d new)", len(merged), added)
	s.trySend(fmt.Sprintf("🛠 Adjustments refreshed: %d rules, %d new from announcements", len(merged), added))
}

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(command string) string {
	switch command {
	case "/report":
		s.dailyTask()
		return ""
	case "/backtest":
		s.weeklyBacktest()
		return ""
	case "/book":
		return report.FormatTradeBook(s.Book.Trades())
	default:
		return "Commands:\n• /report - run daily analysis now\n• /backtest - run SIP backtest digest\n• /book - show paper trade book"
	}
}

func (s *Scheduler) recordTradeEvent(t *model.Trade, eventType string, price, pnl float64) {
	if err := s.Recorder.RecordTradeEvent(&recorder.TradeEvent{
		TradeID:   t.ID,
		Symbol:    t.Symbol,
		EventType: eventType,
		Price:     price,
		Quantity:  t.Quantity,
		PnL:       pnl,
	}); err != nil {
		log.Printf("[ERROR] record trade event: %v", err)
	}
}

func (s *Scheduler) trySend(text string) {
	if err := s.Notifier.SendWithRetry(s.Ctx, text, 3); err != nil {
		log.Printf("[WARN] send notification: %v", err)
	}
}
