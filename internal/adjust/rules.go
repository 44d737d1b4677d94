package adjust

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"BhavSentinel/internal/model"
)

/*
Adjustments CSV layout:

Symbol,ExDate,AdjustmentFactor,Note

- ExDate = "2006-01-02"
- AdjustmentFactor is a positive decimal: a split N:1 carries 1/N,
  a bonus A:B carries B/(A+B)
- demerger factors have no formula; they are entered by hand with the
  rationale in Note and are never inferred by this package
*/

const exDateLayout = "2006-01-02"

var rulesHeader = []string{"Symbol", "ExDate", "AdjustmentFactor", "Note"}

// LoadRules reads the adjustments CSV. Rows with unparseable dates or
// non-positive factors are skipped with a warning; a missing file yields
// an empty rule set.
func LoadRules(path string) ([]model.AdjustmentRule, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("open adjustments: %w", err)
	}
	defer f.Close()

	cr := csv.NewReader(f)
	cr.FieldsPerRecord = -1

	if _, err := cr.Read(); err != nil { // header
		if err == io.EOF {
			return nil, nil
		}
		return nil, fmt.Errorf("read adjustments header: %w", err)
	}

	var rules []model.AdjustmentRule
	line := 1
	for {
		rec, err := cr.Read()
		line++
		if err == io.EOF {
			break
		}
		if err != nil || len(rec) < 3 {
			log.Printf("[WARN] adjustments line %d: malformed row, skipped", line)
			continue
		}
		exDate, derr := time.Parse(exDateLayout, rec[1])
		if derr != nil {
			log.Printf("[WARN] adjustments line %d: bad ex-date %q, skipped", line, rec[1])
			continue
		}
		factor, ferr := strconv.ParseFloat(rec[2], 64)
		if ferr != nil || factor <= 0 {
			log.Printf("[WARN] adjustments line %d: factor %q must be a positive decimal, skipped", line, rec[2])
			continue
		}
		note := ""
		if len(rec) > 3 {
			note = rec[3]
		}
		rules = append(rules, model.AdjustmentRule{
			Symbol: rec[0],
			ExDate: exDate,
			Factor: factor,
			Note:   note,
		})
	}
	return rules, nil
}

// SaveRules writes the adjustments CSV atomically. Saving and reloading
// yields an identical rule set.
func SaveRules(path string, rules []model.AdjustmentRule) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create adjustments dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, "adjustments.tmp-*")
	if err != nil {
		return fmt.Errorf("create temp: %w", err)
	}
	defer os.Remove(tmp.Name())

	w := csv.NewWriter(tmp)
	if err := w.Write(rulesHeader); err != nil {
		tmp.Close()
		return err
	}
	for _, r := range rules {
		rec := []string{
			r.Symbol,
			r.ExDate.Format(exDateLayout),
			strconv.FormatFloat(r.Factor, 'g', -1, 64),
			r.Note,
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

// MergeRules combines existing and generated rules, deduplicating on
// (symbol, ex-date). Existing rules win so hand-edited factors (demergers)
// survive regeneration.
func MergeRules(existing, generated []model.AdjustmentRule) []model.AdjustmentRule {
	type key struct {
		symbol string
		exDate time.Time
	}
	seen := make(map[key]bool, len(existing))
	merged := make([]model.AdjustmentRule, 0, len(existing)+len(generated))
	for _, r := range existing {
		seen[key{r.Symbol, r.ExDate}] = true
		merged = append(merged, r)
	}
	for _, r := range generated {
		if seen[key{r.Symbol, r.ExDate}] {
			continue
		}
		merged = append(merged, r)
	}
	sort.Slice(merged, func(i, j int) bool {
		if merged[i].Symbol != merged[j].Symbol {
			return merged[i].Symbol < merged[j].Symbol
		}
		return merged[i].ExDate.Before(merged[j].ExDate)
	})
	return merged
}
