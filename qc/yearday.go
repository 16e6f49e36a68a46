package qc

import (
	"math"
	"time"
)

// unixEpochOrdinal is the proleptic Gregorian ordinal of 1970-01-01.
const unixEpochOrdinal = 719163

const secondsPerDay = 24 * 60 * 60

// OrdinalTime converts a fractional day ordinal (0001-01-01 is day 1) to UTC.
func OrdinalTime(ord float64) time.Time {
	days := math.Floor(ord)
	frac := ord - days
	t := time.Unix((int64(days)-unixEpochOrdinal)*secondsPerDay, 0).UTC()
	return t.Add(time.Duration(math.Round(frac * float64(24*time.Hour))))
}

// TimeOrdinal is the inverse of OrdinalTime.
func TimeOrdinal(t time.Time) float64 {
	t = t.UTC()
	sec := t.Unix()
	days := math.Floor(float64(sec) / secondsPerDay)
	rem := float64(sec) - days*secondsPerDay + float64(t.Nanosecond())/1e9
	return days + unixEpochOrdinal + rem/secondsPerDay
}

// Yeardays returns times relative to the start of the first sample's year,
// so that Jan 1 00:00 is 1.0.
func Yeardays(times []float64) (year int, yd []float64) {
	if len(times) == 0 {
		return 0, nil
	}
	year = OrdinalTime(times[0]).Year()
	t0 := TimeOrdinal(time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC)) - 1
	yd = make([]float64, len(times))
	for i, t := range times {
		yd[i] = t - t0
	}
	return year, yd
}
