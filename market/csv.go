package market

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// CSVSource reads bars for one symbol/timeframe from a local CSV file.
// Accepted layouts, one bar per line:
//
//	time;open;high;low;close;volume
//	time,open,high,low,close,volume
//
// where time is unix seconds, unix milliseconds, RFC3339, or
// "2006-01-02 15:04:05" (UTC assumed). A header line is skipped.
type CSVSource struct {
	Path string
}

func NewCSVSource(path string) *CSVSource {
	return &CSVSource{Path: path}
}

// GetSeries loads the file, keeps bars inside [start, end], and validates
// ordering. Duplicate timestamps keep the first occurrence.
func (s *CSVSource) GetSeries(_ context.Context, symbol, timeframe string, start, end time.Time) (Series, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return Series{}, fmt.Errorf("open price file: %w", err)
	}
	defer f.Close()

	series := Series{Symbol: symbol, Timeframe: timeframe}

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var lastTs time.Time

	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		sep := ";"
		if !strings.Contains(line, ";") {
			sep = ","
		}
		parts := strings.Split(line, sep)
		if len(parts) < 5 {
			continue
		}
		ts, err := parseBarTime(parts[0])
		if err != nil {
			// header or junk line
			continue
		}

		fields := make([]float64, 0, 5)
		ok := true
		for _, p := range parts[1:] {
			v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
			if err != nil {
				ok = false
				break
			}
			fields = append(fields, v)
		}
		if !ok || len(fields) < 4 {
			continue
		}

		if !lastTs.IsZero() && !ts.After(lastTs) {
			if ts.Equal(lastTs) {
				// keep-first policy for duplicate timestamps
				continue
			}
			return Series{}, Dataf("%s: timestamps not ascending at %s", s.Path, ts.Format(time.RFC3339))
		}
		lastTs = ts

		if ts.Before(start) || ts.After(end) {
			continue
		}

		bar := Bar{Time: ts, Open: fields[0], High: fields[1], Low: fields[2], Close: fields[3]}
		if len(fields) >= 5 {
			bar.Volume = fields[4]
		}
		series.Bars = append(series.Bars, bar)
	}
	if err := sc.Err(); err != nil {
		return Series{}, fmt.Errorf("read price file: %w", err)
	}
	if len(series.Bars) == 0 {
		return Series{}, Dataf("%s: no bars in requested window", s.Path)
	}
	if err := series.Validate(); err != nil {
		return Series{}, err
	}
	return series, nil
}

func parseBarTime(field string) (time.Time, error) {
	field = strings.TrimSpace(field)
	if n, err := strconv.ParseInt(field, 10, 64); err == nil {
		// Heuristic: values past the year ~33658 in seconds are milliseconds.
		if n > 1e12 {
			return time.UnixMilli(n).UTC(), nil
		}
		return time.Unix(n, 0).UTC(), nil
	}
	if t, err := time.Parse(time.RFC3339, field); err == nil {
		return t.UTC(), nil
	}
	if t, err := time.Parse("2006-01-02 15:04:05", field); err == nil {
		return t.UTC(), nil
	}
	if t, err := time.Parse("2006-01-02", field); err == nil {
		return t.UTC(), nil
	}
	return time.Time{}, fmt.Errorf("unparseable timestamp %q", field)
}
