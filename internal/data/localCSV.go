package data

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/contactkeval/option-calc/internal/logger"
)

// localCSVDataProvider reads daily bars from <dir>/<TICKER>.csv with the
// header date,open,high,low,close,volume.
type localCSVDataProvider struct {
	dir       string
	secondary Provider
}

// NewLocalCSVProvider convenience constructor.
func NewLocalCSVProvider(dir string, secondary Provider) *localCSVDataProvider {
	return &localCSVDataProvider{dir: dir, secondary: secondary}
}

func (localCSVDataProv *localCSVDataProvider) Name() string { return "csv" }

func (localCSVDataProv *localCSVDataProvider) Secondary() Provider {
	return localCSVDataProv.secondary
}

func (localCSVDataProv *localCSVDataProvider) GetBars(ctx context.Context, ticker string, fromDate, toDate time.Time) ([]Bar, error) {
	path := filepath.Join(localCSVDataProv.dir, strings.ToUpper(ticker)+".csv")
	bars, err := readBarsCSV(path)
	if err != nil {
		if localCSVDataProv.secondary != nil {
			logger.Debugf("local bars for %s unavailable (%v); using %s", ticker, err, localCSVDataProv.secondary.Name())
			return localCSVDataProv.secondary.GetBars(ctx, ticker, fromDate, toDate)
		}
		return nil, err
	}

	out := bars[:0]
	for _, b := range bars {
		if b.Date.Before(fromDate) || b.Date.After(toDate) {
			continue
		}
		out = append(out, b)
	}
	return out, nil
}

func readBarsCSV(path string) ([]Bar, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open bars file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read header %s: %w", path, err)
	}
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, want := range []string{"date", "open", "high", "low", "close", "volume"} {
		if _, ok := cols[want]; !ok {
			return nil, fmt.Errorf("%s: missing column %q", path, want)
		}
	}

	var out []Bar
	for line := 2; ; line++ {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%s:%d: %w", path, line, err)
		}

		date, err := time.Parse(dateLayout, rec[cols["date"]])
		if err != nil {
			return nil, fmt.Errorf("%s:%d: bad date: %w", path, line, err)
		}
		var vals [5]float64
		for i, name := range []string{"open", "high", "low", "close", "volume"} {
			vals[i], err = strconv.ParseFloat(rec[cols[name]], 64)
			if err != nil {
				return nil, fmt.Errorf("%s:%d: bad %s: %w", path, line, name, err)
			}
		}
		out = append(out, Bar{Date: date, Open: vals[0], High: vals[1], Low: vals[2], Close: vals[3], Vol: vals[4]})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}
