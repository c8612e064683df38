package bazi

import (
	"strconv"
	"strings"
)

// LunisolarDate is a date of the Chinese lunisolar calendar. Leap marks an
// intercalary month, which repeats the number of the month before it.
type LunisolarDate struct {
	Year  int
	Month int
	Day   int
	Leap  bool
}

// YearPillar returns the sexagenary name of the lunar year.
func (l LunisolarDate) YearPillar() Pillar {
	return yearPillar(l.Year)
}

var (
	chineseDigits = [10]string{"〇", "一", "二", "三", "四", "五", "六", "七", "八", "九"}
	monthNames    = [13]string{"", "正", "二", "三", "四", "五", "六", "七", "八", "九", "十", "冬", "腊"}
	dayTens       = [4]string{"初", "十", "廿", "三"}
	dayUnits      = [10]string{"十", "一", "二", "三", "四", "五", "六", "七", "八", "九"}
)

// String formats the date the way Chinese almanacs do, e.g. 二〇二三年闰二月初一.
func (l LunisolarDate) String() string {
	var b strings.Builder
	for _, r := range strconv.Itoa(l.Year) {
		b.WriteString(chineseDigits[r-'0'])
	}
	b.WriteString("年")
	if l.Leap {
		b.WriteString("闰")
	}
	if l.Month >= 1 && l.Month <= 12 {
		b.WriteString(monthNames[l.Month])
	}
	b.WriteString("月")
	b.WriteString(dayName(l.Day))
	return b.String()
}

func dayName(d int) string {
	switch d {
	case 10:
		return "初十"
	case 20:
		return "二十"
	case 30:
		return "三十"
	}
	if d < 1 || d > 30 {
		return "?"
	}
	return dayTens[d/10] + dayUnits[d%10]
}

// ToLunisolar converts a Gregorian date to the lunisolar calendar.
func ToLunisolar(year, month, day int) (LunisolarDate, error) {
	c := CivilDateTime{Year: year, Month: month, Day: day}
	if err := c.Validate(); err != nil {
		return LunisolarDate{}, err
	}
	if err := c.checkRange(); err != nil {
		return LunisolarDate{}, err
	}
	return lunisolarOf(c.dayNumber())
}

func lunisolarOf(d int) (LunisolarDate, error) {
	m, ok := table().monthAt(d)
	if !ok {
		y, mo, dd := fromJulianDayNumber(d)
		return LunisolarDate{}, &UnsupportedRangeError{Year: y, Month: mo, Day: dd}
	}
	return LunisolarDate{
		Year:  m.year,
		Month: m.month,
		Day:   d - m.start + 1,
		Leap:  m.leap,
	}, nil
}
