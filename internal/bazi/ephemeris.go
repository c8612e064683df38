package bazi

import (
	"math"
	"sort"
	"sync"
)

// Supported civil years. The table extends one year on each side so that
// January 1900 and December 2100 can see their neighbouring solstices and
// solar terms.
const (
	MinYear = 1900
	MaxYear = 2100

	firstTableYear = MinYear - 1
	lastTableYear  = MaxYear + 1
)

// Indexes into a year's 24 solar terms (j=0 is 小寒).
const (
	termXiaoHan   = 0
	termLiChun    = 2
	termDongZhi   = 23
	termsPerYear  = 24
	monthsPerYear = 12
)

// lunarMonth is one month of the lunisolar calendar.
type lunarMonth struct {
	start int // JDN of day 1 (UTC+8)
	year  int
	month int
	leap  bool
}

// ephemeris is the read-only lookup data every conversion reads from.
type ephemeris struct {
	terms  [][termsPerYear]float64 // by year-firstTableYear, UTC+8 Julian Date
	moons  []int                   // new-moon days (JDN, UTC+8), ascending
	months []lunarMonth            // ascending by start
	limit  int                     // first day after the last month
}

var (
	ephOnce sync.Once
	eph     *ephemeris
)

// table returns the process-wide ephemeris, building it on first use.
func table() *ephemeris {
	ephOnce.Do(func() {
		eph = buildEphemeris()
	})
	return eph
}

func buildEphemeris() *ephemeris {
	e := &ephemeris{
		terms: make([][termsPerYear]float64, lastTableYear-firstTableYear+1),
	}
	for y := firstTableYear; y <= lastTableYear; y++ {
		for j := 0; j < termsPerYear; j++ {
			e.terms[y-firstTableYear][j] = solarTermTime(y, j)
		}
	}

	first := lunationBefore(civilDay(e.term(firstTableYear, termDongZhi))) - 1
	last := lunationBefore(civilDay(e.term(lastTableYear, termDongZhi))) + 2
	for k := first; k <= last; k++ {
		e.moons = append(e.moons, civilDay(newMoon(k)))
	}

	for sy := firstTableYear; sy < lastTableYear; sy++ {
		e.months = append(e.months, e.sui(sy)...)
	}
	e.limit = e.monthEleven(lastTableYear)
	return e
}

// lunationBefore estimates the lunation number k of the new moon on or
// before day d. The estimate may be off by one; callers pad the range.
func lunationBefore(d int) int {
	return int(math.Floor((float64(d) - 2451550.1) / synodicMonth))
}

func (e *ephemeris) term(y, j int) float64 {
	return e.terms[y-firstTableYear][j]
}

// moonOnOrBefore returns the first day of the lunar month containing day d.
func (e *ephemeris) moonOnOrBefore(d int) int {
	i := sort.SearchInts(e.moons, d+1) - 1
	return e.moons[i]
}

// monthEleven is the first day of the month containing the winter solstice
// of Gregorian year y.
func (e *ephemeris) monthEleven(y int) int {
	return e.moonOnOrBefore(civilDay(e.term(y, termDongZhi)))
}

// sui labels the months from month 11 of year sy up to (not including)
// month 11 of year sy+1. A sui of 13 months carries one leap month: the
// first month that contains no principal term.
func (e *ephemeris) sui(sy int) []lunarMonth {
	start, end := e.monthEleven(sy), e.monthEleven(sy+1)

	i := sort.SearchInts(e.moons, start)
	var starts []int
	for ; e.moons[i] < end; i++ {
		starts = append(starts, e.moons[i])
	}
	starts = append(starts, end)
	n := len(starts) - 1

	leap := -1
	if n == monthsPerYear+1 {
		for m := 0; m < n; m++ {
			if !e.hasPrincipalTerm(sy, starts[m], starts[m+1]) {
				leap = m
				break
			}
		}
	}

	months := make([]lunarMonth, 0, n)
	year, num := sy, 11
	for m := 0; m < n; m++ {
		isLeap := m == leap
		if m > 0 && !isLeap {
			num = num%12 + 1
			if num == 1 {
				year = sy + 1
			}
		}
		months = append(months, lunarMonth{start: starts[m], year: year, month: num, leap: isLeap})
	}
	return months
}

// hasPrincipalTerm reports whether a principal term (odd term index) of
// year sy or sy+1 falls on a day in [from, to).
func (e *ephemeris) hasPrincipalTerm(sy, from, to int) bool {
	for _, y := range [2]int{sy, sy + 1} {
		for j := 1; j < termsPerYear; j += 2 {
			if d := civilDay(e.term(y, j)); d >= from && d < to {
				return true
			}
		}
	}
	return false
}

// monthAt returns the lunar month containing day d.
func (e *ephemeris) monthAt(d int) (lunarMonth, bool) {
	if len(e.months) == 0 || d < e.months[0].start || d >= e.limit {
		return lunarMonth{}, false
	}
	i := sort.Search(len(e.months), func(i int) bool { return e.months[i].start > d }) - 1
	return e.months[i], true
}

// solarMonth returns the solar year (switching at 立春) and the solar month
// index (0 = 寅 month opened by 立春 .. 11 = 丑 month opened by 小寒) of the
// instant jd falling in Gregorian year y.
func (e *ephemeris) solarMonth(y int, jd float64) (solarYear, index int) {
	solarYear = y
	if jd < e.term(y, termLiChun) {
		solarYear = y - 1
	}
	for i := 1; i < monthsPerYear; i++ {
		var t float64
		if i < monthsPerYear-1 {
			t = e.term(solarYear, termLiChun+2*i)
		} else {
			t = e.term(solarYear+1, termXiaoHan)
		}
		if jd < t {
			break
		}
		index = i
	}
	return solarYear, index
}
