package bazi

import "fmt"

// CivilDateTime is a Gregorian wall-clock moment in China Standard Time
// (UTC+8), the reference meridian of the Chinese calendar. No zone
// conversion is applied to it.
type CivilDateTime struct {
	Year   int
	Month  int
	Day    int
	Hour   int
	Minute int
}

// Validate checks that the date exists in the proleptic Gregorian calendar
// and that the time is a valid 24-hour clock reading.
func (c CivilDateTime) Validate() error {
	if c.Year < 1 {
		return &InvalidDateError{Field: "year", Value: c.Year, Reason: "must be a positive Gregorian year"}
	}
	if c.Month < 1 || c.Month > 12 {
		return &InvalidDateError{Field: "month", Value: c.Month, Reason: "must be between 1 and 12"}
	}
	if n := daysInMonth(c.Year, c.Month); c.Day < 1 || c.Day > n {
		return &InvalidDateError{
			Field:  "day",
			Value:  c.Day,
			Reason: fmt.Sprintf("must be between 1 and %d for %04d-%02d", n, c.Year, c.Month),
		}
	}
	if c.Hour < 0 || c.Hour > 23 {
		return &InvalidDateError{Field: "hour", Value: c.Hour, Reason: "must be between 0 and 23"}
	}
	if c.Minute < 0 || c.Minute > 59 {
		return &InvalidDateError{Field: "minute", Value: c.Minute, Reason: "must be between 0 and 59"}
	}
	return nil
}

func (c CivilDateTime) String() string {
	return fmt.Sprintf("%04d-%02d-%02d %02d:%02d", c.Year, c.Month, c.Day, c.Hour, c.Minute)
}

// checkRange rejects valid dates the ephemeris table does not cover.
func (c CivilDateTime) checkRange() error {
	if c.Year < MinYear || c.Year > MaxYear {
		return &UnsupportedRangeError{Year: c.Year, Month: c.Month, Day: c.Day}
	}
	return nil
}

// dayNumber is the Julian Day Number of the civil date.
func (c CivilDateTime) dayNumber() int {
	return julianDayNumber(c.Year, c.Month, c.Day)
}

// julianDate is the continuous day count of the instant on the same
// UTC+8 time scale as the ephemeris table.
func (c CivilDateTime) julianDate() float64 {
	return float64(c.dayNumber()) - 0.5 + float64(c.Hour*60+c.Minute)/1440
}

func isLeapYear(y int) bool {
	return y%4 == 0 && (y%100 != 0 || y%400 == 0)
}

func daysInMonth(y, m int) int {
	switch m {
	case 2:
		if isLeapYear(y) {
			return 29
		}
		return 28
	case 4, 6, 9, 11:
		return 30
	default:
		return 31
	}
}

// julianDayNumber converts a proleptic Gregorian date to its JDN.
func julianDayNumber(y, m, d int) int {
	a := (14 - m) / 12
	yy := y + 4800 - a
	mm := m + 12*a - 3
	return d + (153*mm+2)/5 + 365*yy + yy/4 - yy/100 + yy/400 - 32045
}

// fromJulianDayNumber is the inverse of julianDayNumber.
func fromJulianDayNumber(j int) (y, m, d int) {
	a := j + 32044
	b := (4*a + 3) / 146097
	c := a - 146097*b/4
	dd := (4*c + 3) / 1461
	e := c - 1461*dd/4
	mm := (5*e + 2) / 153
	d = e - (153*mm+2)/5 + 1
	m = mm + 3 - 12*(mm/10)
	y = 100*b + dd - 4800 + mm/10
	return y, m, d
}
