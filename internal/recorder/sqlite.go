package recorder

import (
	"database/sql"
	"fmt"
	"log"
	"sync"
	"time"

	"BhavSentinel/internal/model"

	_ "modernc.org/sqlite"
)

// SQLiteRecorder persists historical data to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode so dashboards can read while the bot writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite recorder opened: %s", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp  INTEGER NOT NULL,
			run_date   TEXT,
			symbols    INTEGER,
			bars_read  INTEGER,
			signals    INTEGER,
			status     TEXT,
			duration_ms INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_ts ON runs(timestamp)`,

		`CREATE TABLE IF NOT EXISTS signals (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp   INTEGER NOT NULL,
			signal_date TEXT,
			symbol      TEXT,
			strategy    TEXT,
			close       REAL,
			daily_rsi   REAL,
			weekly_rsi  REAL,
			monthly_rsi REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_signals_ts ON signals(timestamp)`,

		`CREATE TABLE IF NOT EXISTS backtest_results (
			id           INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp    INTEGER NOT NULL,
			symbol       TEXT,
			scenario     TEXT,
			invested     REAL,
			final_value  REAL,
			rate         REAL,
			converged    INTEGER,
			trigger_days INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_backtest_ts ON backtest_results(timestamp)`,

		`CREATE TABLE IF NOT EXISTS trade_events (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp  INTEGER NOT NULL,
			trade_id   TEXT,
			symbol     TEXT,
			event_type TEXT,
			price      REAL,
			quantity   REAL,
			pnl        REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_trade_events_ts ON trade_events(timestamp)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordRun(rec *RunRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO runs
		(timestamp, run_date, symbols, bars_read, signals, status, duration_ms)
		VALUES (?,?,?,?,?,?,?)`,
		time.Now().Unix(), rec.Date.Format("2006-01-02"),
		rec.Symbols, rec.BarsRead, rec.Signals, rec.Status,
		rec.Duration.Milliseconds(),
	)
	return err
}

func (r *SQLiteRecorder) RecordSignal(sig *model.StrategySignal) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO signals
		(timestamp, signal_date, symbol, strategy, close, daily_rsi, weekly_rsi, monthly_rsi)
		VALUES (?,?,?,?,?,?,?,?)`,
		time.Now().Unix(), sig.Date.Format("2006-01-02"),
		sig.Symbol, sig.Strategy, sig.Close,
		sig.DailyRSI, sig.WeeklyRSI, sig.MonthlyRSI,
	)
	return err
}

func (r *SQLiteRecorder) RecordBacktest(rec *BacktestRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	converged := 0
	if rec.Converged {
		converged = 1
	}
	_, err := r.db.Exec(`INSERT INTO backtest_results
		(timestamp, symbol, scenario, invested, final_value, rate, converged, trigger_days)
		VALUES (?,?,?,?,?,?,?,?)`,
		time.Now().Unix(), rec.Symbol, rec.Scenario,
		rec.Invested, rec.FinalValue, rec.Rate, converged, rec.TriggerDays,
	)
	return err
}

func (r *SQLiteRecorder) RecordTradeEvent(evt *TradeEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO trade_events
		(timestamp, trade_id, symbol, event_type, price, quantity, pnl)
		VALUES (?,?,?,?,?,?,?)`,
		time.Now().Unix(), evt.TradeID, evt.Symbol, evt.EventType,
		evt.Price, evt.Quantity, evt.PnL,
	)
	return err
}

func (r *SQLiteRecorder) Close() error {
	log.Println("[INFO] closing sqlite recorder")
	return r.db.Close()
}
