package bazi

import (
	"fmt"
	"strings"
)

// YearBoundary selects the instant at which the Year pillar changes.
type YearBoundary int

const (
	// LunarNewYear switches at the first day of the first lunar month.
	LunarNewYear YearBoundary = iota
	// LiChun switches at the exact instant of 立春, as most Bazi schools do.
	LiChun
)

func (b YearBoundary) String() string {
	switch b {
	case LunarNewYear:
		return "lunar_new_year"
	case LiChun:
		return "lichun"
	default:
		return fmt.Sprintf("YearBoundary(%d)", int(b))
	}
}

// ParseYearBoundary accepts "lunar_new_year" (or "lny") and "lichun".
func ParseYearBoundary(s string) (YearBoundary, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "lunar_new_year", "lny", "":
		return LunarNewYear, nil
	case "lichun", "li_chun":
		return LiChun, nil
	}
	return 0, fmt.Errorf("unknown year boundary %q", s)
}

// Sect selects how the late 子 hour (23:00-23:59) is treated.
type Sect int

const (
	// LateZiNextDay moves the Day pillar to the next day at 23:00.
	LateZiNextDay Sect = 1
	// LateZiSameDay keeps the current civil day's Day pillar; the hour stem
	// continues that day's cycle past 亥.
	LateZiSameDay Sect = 2
)

func (s Sect) String() string {
	switch s {
	case LateZiNextDay:
		return "next_day"
	case LateZiSameDay:
		return "same_day"
	default:
		return fmt.Sprintf("Sect(%d)", int(s))
	}
}

// ParseSect accepts "1"/"next_day" and "2"/"same_day".
func ParseSect(s string) (Sect, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "2", "same_day", "":
		return LateZiSameDay, nil
	case "1", "next_day":
		return LateZiNextDay, nil
	}
	return 0, fmt.Errorf("unknown sect %q", s)
}

// Chart is the Eight Characters of a birth moment, plus the lunisolar date
// it was derived from.
type Chart struct {
	Year  Pillar
	Month Pillar
	Day   Pillar
	Hour  Pillar
	Lunar LunisolarDate
}

// Pillars returns the pillars in Year, Month, Day, Hour order.
func (c Chart) Pillars() [4]Pillar {
	return [4]Pillar{c.Year, c.Month, c.Day, c.Hour}
}

// DayMaster is the stem of the Day pillar.
func (c Chart) DayMaster() Stem {
	return c.Day.Stem
}

// String renders the chart as four space separated stem-branch pairs,
// e.g. "己巳 丙子 丙寅 戊子".
func (c Chart) String() string {
	return c.Year.String() + " " + c.Month.String() + " " + c.Day.String() + " " + c.Hour.String()
}

// Calculator converts civil moments to charts. It holds no mutable state
// and is safe for concurrent use.
type Calculator struct {
	boundary YearBoundary
	sect     Sect
}

// Option configures a Calculator.
type Option func(*Calculator)

// WithYearBoundary sets the Year pillar switch rule.
func WithYearBoundary(b YearBoundary) Option {
	return func(c *Calculator) { c.boundary = b }
}

// WithSect sets the late 子 hour rule.
func WithSect(s Sect) Option {
	return func(c *Calculator) { c.sect = s }
}

// NewCalculator returns a calculator switching years at Lunar New Year and
// keeping the late 子 hour on the current day unless configured otherwise.
func NewCalculator(opts ...Option) *Calculator {
	c := &Calculator{boundary: LunarNewYear, sect: LateZiSameDay}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// YearBoundary returns the configured Year pillar rule.
func (c *Calculator) YearBoundary() YearBoundary { return c.boundary }

// Sect returns the configured late 子 hour rule.
func (c *Calculator) Sect() Sect { return c.sect }

var defaultCalculator = NewCalculator()

// Compute converts t with the default calculator.
func Compute(t CivilDateTime) (Chart, error) {
	return defaultCalculator.Compute(t)
}

// Compute converts a civil moment into its Four Pillars. It fails with an
// *InvalidDateError for dates or times that do not exist and with an
// *UnsupportedRangeError outside MinYear..MaxYear.
func (c *Calculator) Compute(t CivilDateTime) (Chart, error) {
	if err := t.Validate(); err != nil {
		return Chart{}, err
	}
	if err := t.checkRange(); err != nil {
		return Chart{}, err
	}

	day := t.dayNumber()
	lunar, err := lunisolarOf(day)
	if err != nil {
		return Chart{}, err
	}

	e := table()
	solarYear, solarMonth := e.solarMonth(t.Year, t.julianDate())

	var year Pillar
	switch c.boundary {
	case LiChun:
		year = yearPillar(solarYear)
	default:
		year = lunar.YearPillar()
	}

	// The month cycle runs continuously across solar years, so the Five
	// Tigers lookup is keyed on the solar year's stem.
	month := Pillar{
		Stem:   Stem(mod(int(firstMonthStem(yearPillar(solarYear).Stem))+solarMonth, 10)),
		Branch: Branch(mod(solarMonth+int(BranchYin), 12)),
	}

	// 2000-01-01 (JDN 2451545) is 戊午, index 54.
	civil := NewPillar(day + 49)

	// Hour slot 0 is the early 子 hour (00:00-00:59), 12 the late one.
	slot := (t.Hour + 1) / 2
	hour := Pillar{
		Stem:   Stem(mod(int(firstHourStem(civil.Stem))+slot, 10)),
		Branch: Branch(slot % 12),
	}

	dayPillar := civil
	if c.sect == LateZiNextDay && t.Hour == 23 {
		dayPillar = civil.Next(1)
	}

	return Chart{
		Year:  year,
		Month: month,
		Day:   dayPillar,
		Hour:  hour,
		Lunar: lunar,
	}, nil
}
