package bazi

import (
	"math"
	"time"
)

// ChinaStandardTime is the UTC+8 zone every civil time in this package uses.
var ChinaStandardTime = time.FixedZone("CST", 8*60*60)

var termNames = [termsPerYear]string{
	"小寒", "大寒", "立春", "雨水", "惊蛰", "春分",
	"清明", "谷雨", "立夏", "小满", "芒种", "夏至",
	"小暑", "大暑", "立秋", "处暑", "白露", "秋分",
	"寒露", "霜降", "立冬", "小雪", "大雪", "冬至",
}

// SolarTerm is one of the 24 solar terms of a Gregorian year.
// Principal terms (中气) regulate leap months; the others (节) open the
// solar months used by the Month pillar.
type SolarTerm struct {
	Name      string
	Index     int
	Principal bool
	Time      time.Time
}

// SolarTerms lists the 24 terms of a Gregorian year, 小寒 to 冬至, to the
// nearest second in China Standard Time.
func SolarTerms(year int) ([]SolarTerm, error) {
	if year < 1 {
		return nil, &InvalidDateError{Field: "year", Value: year, Reason: "must be a positive Gregorian year"}
	}
	if year < MinYear || year > MaxYear {
		return nil, &UnsupportedRangeError{Year: year, Month: 1, Day: 1}
	}
	e := table()
	terms := make([]SolarTerm, termsPerYear)
	for j := range terms {
		terms[j] = SolarTerm{
			Name:      termNames[j],
			Index:     j,
			Principal: j%2 == 1,
			Time:      julianToTime(e.term(year, j)),
		}
	}
	return terms, nil
}

// SupportedRange returns the first and last civil minutes the calculator accepts.
func SupportedRange() (from, to time.Time) {
	return time.Date(MinYear, 1, 1, 0, 0, 0, 0, ChinaStandardTime),
		time.Date(MaxYear, 12, 31, 23, 59, 0, 0, ChinaStandardTime)
}

// julianToTime converts a UTC+8 Julian Date to a time in ChinaStandardTime.
func julianToTime(jd float64) time.Time {
	const unixEpoch = 2440587.5
	sec := math.Round((jd - beijingOffset - unixEpoch) * 86400)
	return time.Unix(int64(sec), 0).In(ChinaStandardTime)
}
