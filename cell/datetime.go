package cell

import "time"

// msecPerDay-scale packed time. A wire Time/DateTime payload stores the
// number of milliseconds since midnight in the low 28 bits; the historical
// maximum value (23:59:59.999 -> 86,399,999ms) fits comfortably below
// 0x0FFFFFFF, leaving the top bits free. DateTime additionally steals bit 31
// of that same word as a UTC flag.
const utcFlag uint32 = 0x80000000
const packedTimeMask uint32 = 0x0FFFFFFF

// packTime encodes a wall-clock time of day as milliseconds since midnight.
func packTime(t time.Time) uint32 {
	h, m, s := t.Clock()
	ms := t.Nanosecond() / int(time.Millisecond)

	return uint32(((h*3600+m*60+s)*1000 + ms))
}

// unpackTime decodes a packed time-of-day word into hour/min/sec/msec. The
// UTC flag bit is masked off first; callers that care about it inspect the
// raw word themselves before calling unpackTime.
func unpackTime(v uint32) (h, m, s, ms int) {
	v &= packedTimeMask
	ms = int(v % 1000)
	v /= 1000
	s = int(v % 60)
	v /= 60
	m = int(v % 60)
	v /= 60
	h = int(v)

	return
}

// Julian day conventions below follow Howard Hinnant's well-known
// days-from-civil algorithm (proleptic Gregorian, valid far outside the
// int32 range tml actually needs). julianDayOffset shifts a Unix epoch day count
// (1970-01-01 = 0) to a classical Julian Day Number (1970-01-01 = 2440588),
// matching the convention the format's predecessor persisted on disk.
const julianDayOffset = 2440588

func daysFromCivil(y int, m, d int) int64 {
	y -= boolToInt(m <= 2)
	era := div(y, 400)
	yoe := int64(y) - int64(era)*400
	var mp int64
	if m > 2 {
		mp = int64(m) - 3
	} else {
		mp = int64(m) + 9
	}
	doy := (153*mp+2)/5 + int64(d) - 1
	doe := yoe*365 + yoe/4 - yoe/100 + doy

	return int64(era)*146097 + doe - 719468
}

func civilFromDays(z int64) (y int, m int, d int) {
	z += 719468
	era := div64(z, 146097)
	doe := z - era*146097
	yoe := (doe - doe/1460 + doe/36524 - doe/146096) / 365
	yr := yoe + era*400
	doy := doe - (365*yoe + yoe/4 - yoe/100)
	mp := (5*doy + 2) / 153
	dd := doy - (153*mp+2)/5 + 1
	var mm int64
	if mp < 10 {
		mm = mp + 3
	} else {
		mm = mp - 9
	}
	yr += boolToInt64(mm <= 2)

	return int(yr), int(mm), int(dd)
}

func boolToInt(b bool) int {
	if b {
		return 1
	}

	return 0
}

func boolToInt64(b bool) int64 {
	if b {
		return 1
	}

	return 0
}

func div(a, b int) int {
	if a >= 0 {
		return a / b
	}

	return -((-a + b - 1) / b)
}

func div64(a, b int64) int64 {
	if a >= 0 {
		return a / b
	}

	return -((-a + b - 1) / b)
}

// julianDay returns t's classical Julian Day Number.
func julianDay(t time.Time) int32 {
	y, m, d := t.Date()

	return int32(daysFromCivil(y, int(m), d) + julianDayOffset)
}

// dateFromJulian converts a Julian Day Number back to a calendar date (UTC
// midnight, since a bare Date kind carries no time-of-day component).
func dateFromJulian(jdn int32) time.Time {
	y, m, d := civilFromDays(int64(jdn) - julianDayOffset)

	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}
