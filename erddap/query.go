package erddap

import (
	"strings"
	"time"

	"github.com/rotblauer/drifters/conceptual"
	"github.com/rotblauer/drifters/params"
	"github.com/shopspring/decimal"
)

const (
	queryTimeLayout = "2006-01-02T15:04:05Z"
	queryVariables  = "id,time,latitude,longitude"
)

var constraintEscaper = strings.NewReplacer(
	`"`, "%22",
	"<", "%3C",
	">", "%3E",
	" ", "%20",
)

func queryTime(t time.Time) string {
	return t.UTC().Format(queryTimeLayout)
}

func queryNumber(v float64) string {
	return decimal.NewFromFloat(v).String()
}

func datasetURL(base string, format params.ErddapFormat) string {
	return strings.TrimSuffix(base, "/") + "." + string(format)
}

func build(base string, format params.ErddapFormat, constraints ...string) string {
	var sb strings.Builder
	sb.WriteString(datasetURL(base, format))
	sb.WriteString("?")
	sb.WriteString(queryVariables)
	for _, c := range constraints {
		sb.WriteString("&")
		sb.WriteString(constraintEscaper.Replace(c))
	}
	return sb.String()
}

// RangeURL selects every sample inside the box during the window,
// ordered by id then time.
func RangeURL(base string, format params.ErddapFormat, w params.TimeWindow, g params.GBox) string {
	return build(base, format,
		"time>="+queryTime(w.Start),
		"time<="+queryTime(w.End),
		"latitude>="+queryNumber(g.MinLat),
		"latitude<="+queryNumber(g.MaxLat),
		"longitude>="+queryNumber(g.MinLon),
		"longitude<="+queryNumber(g.MaxLon),
		`orderBy("id,time")`,
	)
}

// IDURL selects one drifter's samples during the window, ordered by time.
func IDURL(base string, format params.ErddapFormat, id conceptual.DrifterID, w params.TimeWindow) string {
	return build(base, format,
		"time>="+queryTime(w.Start),
		"time<="+queryTime(w.End),
		`id="`+id.String()+`"`,
		`orderBy("time")`,
	)
}
