package bazi

import "math"

const (
	j2000         = 2451545.0
	synodicMonth  = 29.530588861
	tropicalYear  = 365.2422
	beijingOffset = 8.0 / 24
	arcsec        = 1.0 / 3600
)

// vsopSum evaluates one VSOP87 series at tau.
func vsopSum(series [][3]float64, tau float64) float64 {
	var s float64
	for _, t := range series {
		s += t[0] * math.Cos(t[1]+t[2]*tau)
	}
	return s
}

// apparentSolarLongitude returns the apparent geocentric ecliptic longitude
// of the Sun in degrees [0, 360) for a Julian Ephemeris Day.
func apparentSolarLongitude(jde float64) float64 {
	tau := (jde - j2000) / 365250
	t := tau * 10

	l := vsopSum(earthL0, tau)
	l += vsopSum(earthL1, tau) * tau
	l += vsopSum(earthL2, tau) * tau * tau
	l += vsopSum(earthL3, tau) * tau * tau * tau
	l += vsopSum(earthL4, tau) * tau * tau * tau * tau
	l += vsopSum(earthL5, tau) * tau * tau * tau * tau * tau
	r := (vsopSum(earthR0, tau) + vsopSum(earthR1, tau)*tau) / 1e8

	lon := rad2deg(l/1e8) + 180
	lon -= 0.09033 * arcsec // FK5
	lon += nutationInLongitude(t) * arcsec
	lon -= 20.4898 * arcsec / r // aberration
	return normDeg(lon)
}

// nutationInLongitude is the 4-term approximation of delta-psi in arcseconds
// (accurate to about 0.5"), t in Julian centuries from J2000.0.
func nutationInLongitude(t float64) float64 {
	omega := deg2rad(125.04452 - 1934.136261*t)
	sun := deg2rad(280.4665 + 36000.7698*t)
	moon := deg2rad(218.3165 + 481267.8813*t)
	return -17.20*math.Sin(omega) - 1.32*math.Sin(2*sun) - 0.23*math.Sin(2*moon) + 0.21*math.Sin(2*omega)
}

// deltaT returns TT-UT in seconds using the Espenak-Meeus polynomials.
func deltaT(y float64) float64 {
	switch {
	case y < 1860:
		t := y - 1800
		return 13.72 - 0.332447*t + 0.0068612*t*t + 0.0041116*t*t*t - 0.00037436*math.Pow(t, 4) +
			0.0000121272*math.Pow(t, 5) - 0.0000001699*math.Pow(t, 6) + 0.000000000875*math.Pow(t, 7)
	case y < 1900:
		t := y - 1860
		return 7.62 + 0.5737*t - 0.251754*t*t + 0.01680668*t*t*t - 0.0004473624*math.Pow(t, 4) + math.Pow(t, 5)/233174
	case y < 1920:
		t := y - 1900
		return -2.79 + 1.494119*t - 0.0598939*t*t + 0.0061966*t*t*t - 0.000197*math.Pow(t, 4)
	case y < 1941:
		t := y - 1920
		return 21.20 + 0.84493*t - 0.076100*t*t + 0.0020936*t*t*t
	case y < 1961:
		t := y - 1950
		return 29.07 + 0.407*t - t*t/233 + t*t*t/2547
	case y < 1986:
		t := y - 1975
		return 45.45 + 1.067*t - t*t/260 - t*t*t/718
	case y < 2005:
		t := y - 2000
		return 63.86 + 0.3345*t - 0.060374*t*t + 0.0017275*t*t*t + 0.000651814*math.Pow(t, 4) + 0.00002373599*math.Pow(t, 5)
	case y < 2050:
		t := y - 2000
		return 62.92 + 0.32217*t + 0.005589*t*t
	case y < 2150:
		u := (y - 1820) / 100
		return -20 + 32*u*u - 0.5628*(2150-y)
	default:
		u := (y - 1820) / 100
		return -20 + 32*u*u
	}
}

// toBeijing converts a Julian Ephemeris Day to a Julian Date on the UTC+8
// civil time scale.
func toBeijing(jde float64) float64 {
	year := 2000 + (jde-j2000)/365.25
	return jde - deltaT(year)/86400 + beijingOffset
}

// solarTermTime returns the instant (UTC+8 Julian Date) of term index j of
// Gregorian year y, where j=0 is 小寒 (285°) and j=23 is 冬至 (270°).
func solarTermTime(y, j int) float64 {
	target := math.Mod(285+15*float64(j), 360)
	jde := float64(julianDayNumber(y, 1, 6)) - 0.5 + 15.2184*float64(j)
	for i := 0; i < 10; i++ {
		d := normDeg(target-apparentSolarLongitude(jde)+180) - 180
		jde += d * tropicalYear / 360
		if math.Abs(d) < 1e-7 {
			break
		}
	}
	return toBeijing(jde)
}

// newMoon returns the instant (UTC+8 Julian Date) of lunation k, counted
// from the new moon of 2000-01-06 (Meeus ch. 49).
func newMoon(k int) float64 {
	kf := float64(k)
	t := kf / 1236.85
	t2, t3, t4 := t*t, t*t*t, t*t*t*t

	jde := 2451550.09766 + synodicMonth*kf + 0.00015437*t2 - 0.000000150*t3 + 0.00000000073*t4
	e := 1 - 0.002516*t - 0.0000074*t2
	m := deg2rad(2.5534 + 29.10535670*kf - 0.0000014*t2 - 0.00000011*t3)
	mp := deg2rad(201.5643 + 385.81693528*kf + 0.0107582*t2 + 0.00001238*t3 - 0.000000058*t4)
	f := deg2rad(160.7108 + 390.67050284*kf - 0.0016118*t2 - 0.00000227*t3 + 0.000000011*t4)
	om := deg2rad(124.7746 - 1.56375588*kf + 0.0020672*t2 + 0.00000215*t3)

	sin := math.Sin
	c := -0.40720*sin(mp) +
		0.17241*e*sin(m) +
		0.01608*sin(2*mp) +
		0.01039*sin(2*f) +
		0.00739*e*sin(mp-m) -
		0.00514*e*sin(mp+m) +
		0.00208*e*e*sin(2*m) -
		0.00111*sin(mp-2*f) -
		0.00057*sin(mp+2*f) +
		0.00056*e*sin(2*mp+m) -
		0.00042*sin(3*mp) +
		0.00042*e*sin(m+2*f) +
		0.00038*e*sin(m-2*f) -
		0.00024*e*sin(2*mp-m) -
		0.00017*sin(om) -
		0.00007*sin(mp+2*m) +
		0.00004*sin(2*mp-2*f) +
		0.00004*sin(3*m) +
		0.00003*sin(mp+m-2*f) +
		0.00003*sin(2*mp+2*f) -
		0.00003*sin(mp+m+2*f) +
		0.00003*sin(mp-m+2*f) -
		0.00002*sin(mp-m-2*f) -
		0.00002*sin(3*mp+m) +
		0.00002*sin(4*mp)

	var planetary float64
	for i, a := range planetaryArguments {
		arg := a[0] + a[1]*kf
		if i == 0 {
			arg -= 0.009173 * t2
		}
		planetary += a[2] * sin(deg2rad(arg))
	}

	return toBeijing(jde + c + planetary)
}

// planetaryArguments holds A1..A14 of Meeus ch. 49: base, rate per
// lunation, coefficient in days.
var planetaryArguments = [14][3]float64{
	{299.77, 0.107408, 0.000325},
	{251.88, 0.016321, 0.000165},
	{251.83, 26.651886, 0.000164},
	{349.42, 36.412478, 0.000126},
	{84.66, 18.206239, 0.000110},
	{141.74, 53.303771, 0.000062},
	{207.14, 2.453732, 0.000060},
	{154.84, 7.306860, 0.000056},
	{34.52, 27.261239, 0.000047},
	{207.19, 0.121824, 0.000042},
	{291.34, 1.844379, 0.000040},
	{161.72, 24.198154, 0.000037},
	{239.56, 25.513099, 0.000035},
	{331.55, 3.592518, 0.000023},
}

// civilDay returns the JDN of the UTC+8 calendar day containing jd.
func civilDay(jd float64) int {
	return int(math.Floor(jd + 0.5))
}

func deg2rad(d float64) float64 { return d * math.Pi / 180 }

func rad2deg(r float64) float64 { return r * 180 / math.Pi }

func normDeg(d float64) float64 {
	d = math.Mod(d, 360)
	if d < 0 {
		d += 360
	}
	return d
}
