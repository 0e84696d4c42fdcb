// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) Lothar May

package barfile

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"candlecube/calendar"
	"candlecube/ohlcv"

	"github.com/ericlagergren/decimal"
)

// Spreadsheet exports name their columns inconsistently.
// Headers are lowercased and trimmed, then mapped through this table.
var columnSynonyms = map[string]string{
	"date":      "date",
	"datetime":  "date",
	"time":      "date",
	"timestamp": "date",
	"dt":        "date",
	"open":      "open",
	"o":         "open",
	"high":      "high",
	"h":         "high",
	"low":       "low",
	"l":         "low",
	"close":     "close",
	"closing":   "close",
	"c":         "close",
	"volume":    "volume",
	"vol":       "volume",
	"v":         "volume",
}

var dateFormats = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"01/02/2006",
}

type Options struct {
	// Drop rows which fall on a non-trading day (weekends, US bank holidays).
	SkipNonTradingDays bool
	// Logger for row diagnostics, nil selects the default logger.
	Logger *log.Logger
}

// Load reads an OHLCV series from a .csv or .json file.
// Rows missing the date or any OHLC value are dropped, bars violating the
// OHLC ordering are clamped into it, and the result is sorted by date.
// An empty result is not an error here; the caller decides whether an
// empty series is fatal.
func Load(path string, opt Options) (ohlcv.Series, error) {
	logger := opt.Logger
	if logger == nil {
		logger = log.Default()
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("unable to open bar file: %v", err)
	}
	defer f.Close()

	var series ohlcv.Series
	var dropped int
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		series, dropped, err = loadCsv(f)
	case ".json":
		series, dropped, err = loadJson(f)
	default:
		return nil, fmt.Errorf("unsupported bar file type %q", filepath.Ext(path))
	}
	if err != nil {
		return nil, fmt.Errorf("unable to load %s: %v", path, err)
	}
	if dropped > 0 {
		logger.Printf("dropped %d invalid rows while loading %s", dropped, path)
	}

	clamped := 0
	for i := range series {
		if series[i].ClampOHLC() {
			clamped++
		}
	}
	if clamped > 0 {
		logger.Printf("adjusted high/low of %d bars while loading %s", clamped, path)
	}

	sort.SliceStable(series, func(i, j int) bool {
		return series[i].Date.Before(series[j].Date)
	})

	if opt.SkipNonTradingDays {
		series = filterTradingDays(series, logger)
	}
	return series, nil
}

func loadCsv(r io.Reader) (ohlcv.Series, int, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	// ragged rows are dropped by the field parser, not a hard error
	reader.FieldsPerRecord = -1
	header, err := reader.Read()
	if err != nil {
		return nil, 0, fmt.Errorf("unable to read header: %v", err)
	}
	columns := make(map[string]int)
	for i, name := range header {
		if canonical, ok := columnSynonyms[normalizeHeader(name)]; ok {
			if _, exists := columns[canonical]; !exists {
				columns[canonical] = i
			}
		}
	}
	for _, required := range []string{"date", "open", "high", "low", "close"} {
		if _, ok := columns[required]; !ok {
			return nil, 0, fmt.Errorf("missing required column %q", required)
		}
	}

	var series ohlcv.Series
	var dropped int
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, 0, err
		}
		field := func(name string) string {
			i, ok := columns[name]
			if !ok || i >= len(record) {
				return ""
			}
			return record[i]
		}
		bar, ok := parseBar(field("date"), field("open"), field("high"),
			field("low"), field("close"), field("volume"))
		if !ok {
			dropped++
			continue
		}
		series = append(series, bar)
	}
	return series, dropped, nil
}

func loadJson(r io.Reader) (ohlcv.Series, int, error) {
	decoder := json.NewDecoder(r)
	decoder.UseNumber()
	var rows []map[string]any
	if err := decoder.Decode(&rows); err != nil {
		return nil, 0, fmt.Errorf("expecting an array of bar objects: %v", err)
	}

	var series ohlcv.Series
	var dropped int
	for _, row := range rows {
		normalized := make(map[string]string, len(row))
		for key, value := range row {
			canonical, ok := columnSynonyms[normalizeHeader(key)]
			if !ok {
				continue
			}
			switch v := value.(type) {
			case string:
				normalized[canonical] = v
			case json.Number:
				normalized[canonical] = v.String()
			}
		}
		bar, ok := parseBar(normalized["date"], normalized["open"], normalized["high"],
			normalized["low"], normalized["close"], normalized["volume"])
		if !ok {
			dropped++
			continue
		}
		series = append(series, bar)
	}
	return series, dropped, nil
}

func normalizeHeader(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func parseBar(date, open, high, low, closing, volume string) (ohlcv.Bar, bool) {
	var bar ohlcv.Bar
	var ok bool
	if bar.Date, ok = parseDate(date); !ok {
		return bar, false
	}
	if bar.Open, ok = parsePrice(open); !ok {
		return bar, false
	}
	if bar.High, ok = parsePrice(high); !ok {
		return bar, false
	}
	if bar.Low, ok = parsePrice(low); !ok {
		return bar, false
	}
	if bar.Close, ok = parsePrice(closing); !ok {
		return bar, false
	}
	// a missing volume is fine, the bar just renders without extrusion
	bar.Volume = parseVolume(volume)
	return bar, true
}

func parseDate(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	for _, format := range dateFormats {
		if t, err := time.Parse(format, value); err == nil {
			return t, true
		}
	}
	// epoch seconds
	if epoch, ok := new(decimal.Big).SetString(value); ok && epoch.IsInt() {
		if sec, valid := epoch.Int64(); valid && sec > 0 {
			return time.Unix(sec, 0).UTC(), true
		}
	}
	return time.Time{}, false
}

// Prices are parsed through decimal like everywhere else in this codebase,
// converting to float only at the very end.
func parsePrice(value string) (float64, bool) {
	d, ok := new(decimal.Big).SetString(strings.TrimSpace(value))
	if !ok {
		return math.NaN(), false
	}
	f, _ := d.Float64()
	if !ohlcv.IsFinite(f) {
		return math.NaN(), false
	}
	return f, true
}

func parseVolume(value string) int64 {
	d, ok := new(decimal.Big).SetString(strings.TrimSpace(value))
	if !ok {
		return 0
	}
	f, _ := d.Float64()
	if !ohlcv.IsFinite(f) || f < 0 {
		return 0
	}
	return int64(math.Round(f))
}

func filterTradingDays(series ohlcv.Series, logger *log.Logger) ohlcv.Series {
	bankCalendar := calendar.NewUSBankCalendar()
	filtered := series[:0]
	skipped := 0
	for i := range series {
		// Dates parse as midnight UTC, which is the previous evening in
		// New York. Noon UTC is the same calendar day in both zones.
		y, m, d := series[i].Date.Date()
		day := time.Date(y, m, d, 12, 0, 0, 0, time.UTC)
		if trading, _ := bankCalendar.IsTradingDay(day); trading {
			filtered = append(filtered, series[i])
		} else {
			skipped++
		}
	}
	if skipped > 0 {
		logger.Printf("skipped %d non-trading days", skipped)
	}
	return filtered
}
