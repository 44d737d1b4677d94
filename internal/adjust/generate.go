package adjust

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"regexp"
	"strconv"
	"time"

	"BhavSentinel/internal/model"
)

// Announcement is one parsed row of the NSE corporate-actions feed.
type Announcement struct {
	Symbol  string
	ExDate  time.Time
	Subject string
}

var (
	reBonus       = regexp.MustCompile(`(?i)Bonus\s+(\d+):(\d+)`)
	reSplitFromTo = regexp.MustCompile(`(?i)Split.*From.*?(\d+(?:\.\d+)?).*?To.*?(\d+(?:\.\d+)?)`)
	reSplitRatio  = regexp.MustCompile(`(?i)Split.*?(\d+):(\d+)`)
)

// GenerateRules derives adjustment rules from corporate-action announcements.
// Bonus A:B yields factor B/(A+B); a face-value split from X to Y yields
// factor Y/X (equivalently 1/N for an N:1 split). Subjects matching neither
// pattern are skipped with a warning. Demergers are intentionally not
// handled: their factors depend on the demerged entity's valuation and must
// be supplied by hand in the adjustments CSV.
func GenerateRules(anns []Announcement) []model.AdjustmentRule {
	var rules []model.AdjustmentRule
	for _, a := range anns {
		if m := reBonus.FindStringSubmatch(a.Subject); m != nil {
			bonus, _ := strconv.ParseFloat(m[1], 64)
			held, _ := strconv.ParseFloat(m[2], 64)
			if bonus <= 0 || held <= 0 {
				log.Printf("[WARN] %s: unusable bonus ratio in %q, skipped", a.Symbol, a.Subject)
				continue
			}
			rules = append(rules, model.AdjustmentRule{
				Symbol: a.Symbol,
				ExDate: a.ExDate,
				Factor: held / (bonus + held),
				Note:   fmt.Sprintf("Bonus %s:%s | %s", m[1], m[2], a.Subject),
			})
			continue
		}

		if m := reSplitFromTo.FindStringSubmatch(a.Subject); m != nil {
			oldFV, _ := strconv.ParseFloat(m[1], 64)
			newFV, _ := strconv.ParseFloat(m[2], 64)
			if oldFV <= 0 || newFV <= 0 || newFV >= oldFV {
				log.Printf("[WARN] %s: unusable split face values in %q, skipped", a.Symbol, a.Subject)
				continue
			}
			rules = append(rules, model.AdjustmentRule{
				Symbol: a.Symbol,
				ExDate: a.ExDate,
				Factor: newFV / oldFV,
				Note:   fmt.Sprintf("Split FV %s->%s | %s", m[1], m[2], a.Subject),
			})
			continue
		}

		if m := reSplitRatio.FindStringSubmatch(a.Subject); m != nil {
			from, _ := strconv.ParseFloat(m[1], 64)
			to, _ := strconv.ParseFloat(m[2], 64)
			if from <= 0 || to <= 0 {
				log.Printf("[WARN] %s: unusable split ratio in %q, skipped", a.Symbol, a.Subject)
				continue
			}
			rules = append(rules, model.AdjustmentRule{
				Symbol: a.Symbol,
				ExDate: a.ExDate,
				Factor: to / from,
				Note:   fmt.Sprintf("Split %s:%s | %s", m[1], m[2], a.Subject),
			})
			continue
		}

		log.Printf("[WARN] %s: unrecognized corporate action %q, skipped", a.Symbol, a.Subject)
	}
	return rules
}

// LoadAnnouncements reads the raw corporate-actions CSV
// (symbol,ex_date,subject). Malformed rows are skipped with a warning;
// a missing file yields an empty set.
func LoadAnnouncements(path string) ([]Announcement, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("open announcements: %w", err)
	}
	defer f.Close()

	cr := csv.NewReader(f)
	cr.FieldsPerRecord = -1

	if _, err := cr.Read(); err != nil { // header
		if err == io.EOF {
			return nil, nil
		}
		return nil, fmt.Errorf("read announcements header: %w", err)
	}

	var anns []Announcement
	line := 1
	for {
		rec, err := cr.Read()
		line++
		if err == io.EOF {
			break
		}
		if err != nil || len(rec) < 3 {
			log.Printf("[WARN] announcements line %d: malformed row, skipped", line)
			continue
		}
		exDate, derr := time.Parse(exDateLayout, rec[1])
		if derr != nil {
			log.Printf("[WARN] announcements line %d: bad ex-date %q, skipped", line, rec[1])
			continue
		}
		anns = append(anns, Announcement{Symbol: rec[0], ExDate: exDate, Subject: rec[2]})
	}
	return anns, nil
}
