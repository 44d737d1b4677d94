package bhav

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"BhavSentinel/internal/model"
)

// bhavDateFormat is the DATE1 column format in the full bhavcopy feed.
const bhavDateFormat = "02-Jan-2006"

// NSEFetcher implements Fetcher against the NSE archives full-bhavcopy feed.
type NSEFetcher struct {
	BaseURL string
	Client  *http.Client
}

// NewNSEFetcher creates a fetcher with optional proxy support.
func NewNSEFetcher(baseURL, proxyURL string) *NSEFetcher {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &NSEFetcher{
		BaseURL: baseURL,
		Client: &http.Client{
			Timeout:   60 * time.Second,
			Transport: transport,
		},
	}
}

func (f *NSEFetcher) Name() string { return "nse-archives" }

// FetchDay downloads and parses sec_bhavdata_full for the given date.
// Only EQ and BE series rows are kept. Malformed rows are skipped with a warning.
func (f *NSEFetcher) FetchDay(ctx context.Context, day time.Time) ([]model.PriceBar, error) {
	endpoint := fmt.Sprintf("%s/products/content/sec_bhavdata_full_%s.csv", f.BaseURL, day.Format("02012006"))
	req, err := http.NewRequestWithContext(ctx, "GET", endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch bhavcopy: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNoData
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("fetch bhavcopy: status %d, body: %s", resp.StatusCode, string(body))
	}

	bars, err := parseBhavcopy(resp.Body, day)
	if err != nil {
		return nil, err
	}
	if len(bars) == 0 {
		return nil, ErrNoData
	}
	return bars, nil
}

// parseBhavcopy reads the full-bhavcopy CSV. The feed pads fields with spaces,
// so every cell is trimmed before use.
func parseBhavcopy(r io.Reader, day time.Time) ([]model.PriceBar, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read bhavcopy header: %w", err)
	}
	col := map[string]int{}
	for i, h := range header {
		col[strings.ToUpper(strings.TrimSpace(h))] = i
	}
	for _, required := range []string{"SYMBOL", "SERIES", "DATE1", "CLOSE_PRICE"} {
		if _, ok := col[required]; !ok {
			return nil, fmt.Errorf("bhavcopy missing column %s", required)
		}
	}

	var bars []model.PriceBar
	skipped := 0
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			skipped++
			continue
		}
		field := func(name string) string {
			i, ok := col[name]
			if !ok || i >= len(rec) {
				return ""
			}
			return strings.TrimSpace(rec[i])
		}

		series := field("SERIES")
		if series != "EQ" && series != "BE" {
			continue
		}

		date, err := time.Parse(bhavDateFormat, field("DATE1"))
		if err != nil {
			skipped++
			continue
		}
		// Reject rows from a different trading day (stale feed guard).
		if !sameDay(date, day) {
			skipped++
			continue
		}

		bar := model.PriceBar{Symbol: field("SYMBOL"), Date: date}
		ok := true
		for _, f := range []struct {
			name string
			dst  *float64
		}{
			{"OPEN_PRICE", &bar.Open},
			{"HIGH_PRICE", &bar.High},
			{"LOW_PRICE", &bar.Low},
			{"CLOSE_PRICE", &bar.Close},
			{"PREV_CLOSE", &bar.PrevClose},
			{"TTL_TRD_QNTY", &bar.Volume},
		} {
			v, err := strconv.ParseFloat(field(f.name), 64)
			if err != nil {
				ok = false
				break
			}
			*f.dst = v
		}
		if !ok || bar.Symbol == "" || bar.Close <= 0 {
			skipped++
			continue
		}
		bars = append(bars, bar)
	}
	if skipped > 0 {
		log.Printf("[WARN] bhavcopy %s: skipped %d malformed rows", day.Format("2006-01-02"), skipped)
	}
	sort.Slice(bars, func(i, j int) bool { return bars[i].Symbol < bars[j].Symbol })
	return bars, nil
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}
