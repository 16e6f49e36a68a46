package erddap

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/rotblauer/drifters/names"
	"github.com/tidwall/gjson"
)

// columns holds the positions of the fields we read, resolved by name.
// Header names may carry units, as in "latitude (degrees_north)".
type columns struct {
	id, time, lat, lon int
}

func resolveColumns(header []string) (columns, error) {
	cols := columns{-1, -1, -1, -1}
	for i, h := range header {
		name := strings.ToLower(strings.TrimSpace(h))
		if j := strings.Index(name, " ("); j >= 0 {
			name = name[:j]
		}
		switch name {
		case "id":
			cols.id = i
		case "time":
			cols.time = i
		case "latitude":
			cols.lat = i
		case "longitude":
			cols.lon = i
		}
	}
	if cols.id < 0 || cols.time < 0 || cols.lat < 0 || cols.lon < 0 {
		return cols, fmt.Errorf("%w: missing columns in header %q", ErrMalformedResponse, header)
	}
	return cols, nil
}

func (c columns) width() int {
	return max(c.id, c.time, c.lat, c.lon) + 1
}

func parseRow(c columns, rec []string) (Row, error) {
	if len(rec) < c.width() {
		return Row{}, fmt.Errorf("%w: short row %q", ErrMalformedResponse, rec)
	}
	t, err := time.Parse(time.RFC3339, strings.TrimSpace(rec[c.time]))
	if err != nil {
		return Row{}, fmt.Errorf("%w: time %q: %v", ErrMalformedResponse, rec[c.time], err)
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(rec[c.lat]), 64)
	if err != nil {
		return Row{}, fmt.Errorf("%w: latitude %q: %v", ErrMalformedResponse, rec[c.lat], err)
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(rec[c.lon]), 64)
	if err != nil {
		return Row{}, fmt.Errorf("%w: longitude %q: %v", ErrMalformedResponse, rec[c.lon], err)
	}
	return Row{
		ID:   names.SanitizeID(rec[c.id]),
		Time: t.UTC(),
		Lat:  lat,
		Lon:  lon,
	}, nil
}

// decodeCSV reads the .csv table: a header row, a units row, then data.
func decodeCSV(r io.Reader) ([]Row, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrEmptyResponse
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	cols, err := resolveColumns(header)
	if err != nil {
		return nil, err
	}
	// Units row.
	if _, err := cr.Read(); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmptyResponse
		}
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	var rows []Row
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
		}
		row, err := parseRow(cols, rec)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	if len(rows) == 0 {
		return nil, ErrEmptyResponse
	}
	return rows, nil
}

// decodeJSON reads the .json table:
// {"table": {"columnNames": [...], "rows": [[...], ...]}}.
func decodeJSON(data []byte) ([]Row, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%w: invalid json", ErrMalformedResponse)
	}
	table := gjson.GetBytes(data, "table")
	if !table.Exists() {
		return nil, fmt.Errorf("%w: missing table", ErrMalformedResponse)
	}
	var header []string
	for _, n := range table.Get("columnNames").Array() {
		header = append(header, n.String())
	}
	cols, err := resolveColumns(header)
	if err != nil {
		return nil, err
	}
	var rows []Row
	var rowErr error
	table.Get("rows").ForEach(func(_, value gjson.Result) bool {
		var rec []string
		for _, v := range value.Array() {
			rec = append(rec, v.String())
		}
		row, err := parseRow(cols, rec)
		if err != nil {
			rowErr = err
			return false
		}
		rows = append(rows, row)
		return true
	})
	if rowErr != nil {
		return nil, rowErr
	}
	if len(rows) == 0 {
		return nil, ErrEmptyResponse
	}
	return rows, nil
}
