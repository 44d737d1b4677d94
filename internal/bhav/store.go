package bhav

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"BhavSentinel/internal/model"
)

/*
CSV layout, one file per symbol under the data dir:

<SYMBOL>.csv
symbol,date,open,high,low,close,prev_close,volume

- date = "2006-01-02" (day precision), strictly increasing per file
- the whole file is rewritten atomically on every mutation
*/

const storeDateLayout = "2006-01-02"

var storeHeader = []string{"symbol", "date", "open", "high", "low", "close", "prev_close", "volume"}

// Store keeps per-symbol bhavcopy history as CSV files.
// Writes are serialized by an in-process mutex; cron scheduling guarantees
// a single writer per process lifetime.
type Store struct {
	dir string
	mu  sync.Mutex
}

// NewStore creates the data directory if needed.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Symbols lists all symbols with stored history.
func (s *Store) Symbols() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("read data dir: %w", err)
	}
	var syms []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".csv") {
			continue
		}
		syms = append(syms, strings.TrimSuffix(e.Name(), ".csv"))
	}
	sort.Strings(syms)
	return syms, nil
}

// LoadSymbol reads the full price history for one symbol, sorted by date.
// Malformed rows are skipped with a warning; they never abort the load.
func (s *Store) LoadSymbol(symbol string) ([]model.PriceBar, error) {
	f, err := os.Open(s.path(symbol))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("open %s: %w", symbol, err)
	}
	defer f.Close()

	cr := csv.NewReader(f)
	cr.FieldsPerRecord = -1

	if _, err := cr.Read(); err != nil { // header
		if err == io.EOF {
			return nil, nil
		}
		return nil, fmt.Errorf("read %s header: %w", symbol, err)
	}

	var bars []model.PriceBar
	skipped := 0
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil || len(rec) < len(storeHeader) {
			skipped++
			continue
		}
		bar, perr := parseStoreRow(rec)
		if perr != nil {
			skipped++
			continue
		}
		bars = append(bars, bar)
	}
	if skipped > 0 {
		log.Printf("[WARN] %s: skipped %d malformed rows", symbol, skipped)
	}

	sort.Slice(bars, func(i, j int) bool { return bars[i].Date.Before(bars[j].Date) })
	return dedupe(symbol, bars), nil
}

// AppendDay merges one day's bhavcopy into the per-symbol files.
// Bars dated on or before a symbol's last stored date are dropped with a
// warning, preserving the strictly-increasing date invariant.
func (s *Store) AppendDay(bars []model.PriceBar) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	written := 0
	for _, bar := range bars {
		existing, err := s.LoadSymbol(bar.Symbol)
		if err != nil {
			return written, err
		}
		if n := len(existing); n > 0 && !existing[n-1].Date.Before(bar.Date) {
			log.Printf("[WARN] %s: bar for %s not after last stored %s, dropped",
				bar.Symbol, bar.Date.Format(storeDateLayout), existing[n-1].Date.Format(storeDateLayout))
			continue
		}
		existing = append(existing, bar)
		if err := s.writeSymbol(bar.Symbol, existing); err != nil {
			return written, err
		}
		written++
	}
	return written, nil
}

func (s *Store) path(symbol string) string {
	return filepath.Join(s.dir, symbol+".csv")
}

// writeSymbol rewrites one symbol file atomically (temp file + rename).
func (s *Store) writeSymbol(symbol string, bars []model.PriceBar) error {
	tmp, err := os.CreateTemp(s.dir, symbol+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp: %w", err)
	}
	defer os.Remove(tmp.Name())

	w := csv.NewWriter(tmp)
	if err := w.Write(storeHeader); err != nil {
		tmp.Close()
		return err
	}
	for _, b := range bars {
		rec := []string{
			b.Symbol,
			b.Date.Format(storeDateLayout),
			formatPrice(b.Open),
			formatPrice(b.High),
			formatPrice(b.Low),
			formatPrice(b.Close),
			formatPrice(b.PrevClose),
			strconv.FormatFloat(b.Volume, 'f', 0, 64),
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
	return os.Rename(tmp.Name(), s.path(symbol))
}

func parseStoreRow(rec []string) (model.PriceBar, error) {
	date, err := time.Parse(storeDateLayout, rec[1])
	if err != nil {
		return model.PriceBar{}, err
	}
	bar := model.PriceBar{Symbol: rec[0], Date: date}
	for i, dst := range []*float64{&bar.Open, &bar.High, &bar.Low, &bar.Close, &bar.PrevClose, &bar.Volume} {
		v, err := strconv.ParseFloat(rec[i+2], 64)
		if err != nil {
			return model.PriceBar{}, err
		}
		*dst = v
	}
	if bar.Close <= 0 {
		return model.PriceBar{}, fmt.Errorf("non-positive close")
	}
	return bar, nil
}

func dedupe(symbol string, bars []model.PriceBar) []model.PriceBar {
	out := bars[:0]
	for i, b := range bars {
		if i > 0 && !out[len(out)-1].Date.Before(b.Date) {
			log.Printf("[WARN] %s: duplicate date %s dropped", symbol, b.Date.Format(storeDateLayout))
			continue
		}
		out = append(out, b)
	}
	return out
}

func formatPrice(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
