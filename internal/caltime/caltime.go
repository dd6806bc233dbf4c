// Package caltime provides the calendar arithmetic, iCalendar date parsing
// and text unescaping shared by the record parser and the recurrence engine.
package caltime

import (
	"strconv"
	"strings"
	"time"
)

// StartOfDay returns midnight of t's local day.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// EndOfDay returns 23:59:59 of t's local day.
func EndOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 0, t.Location())
}

// AddDays shifts t by n calendar days; n may be negative.
func AddDays(t time.Time, n int) time.Time {
	return t.AddDate(0, 0, n)
}

// SameDay reports whether a and b fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

// ISOWeekday returns the day of week with Monday = 1 .. Sunday = 7.
// Recurrence rules (BYDAY) and week navigation use Monday-start weeks,
// so Go's Sunday = 0 convention is remapped here.
func ISOWeekday(t time.Time) int {
	wd := int(t.Weekday())
	if wd == 0 {
		return 7
	}
	return wd
}

var weekdayNums = map[string]int{
	"MO": 1, "TU": 2, "WE": 3, "TH": 4, "FR": 5, "SA": 6, "SU": 7,
}

var weekdayAbbrs = [...]string{1: "MO", "TU", "WE", "TH", "FR", "SA", "SU"}

// WeekdayNum maps an iCalendar weekday abbreviation (MO..SU) to 1..7.
func WeekdayNum(abbr string) (int, bool) {
	n, ok := weekdayNums[strings.ToUpper(strings.TrimSpace(abbr))]
	return n, ok
}

// WeekdayAbbr maps 1..7 back to MO..SU. Out-of-range input returns "".
func WeekdayAbbr(n int) string {
	if n < 1 || n > 7 {
		return ""
	}
	return weekdayAbbrs[n]
}

// ParseCalDate parses an iCalendar date or date-time value. Supported forms:
//
//	YYYYMMDD            date only
//	YYYYMMDDTHHMMSS     local date-time
//	YYYYMMDDTHHMMSSZ    UTC date-time
//
// A UTC value is corrected to local wall time by adding the local UTC offset
// at the current moment; historical offsets and DST transitions are not
// modeled. Input with an unparsable year/month/day yields the current time
// and ok=false so callers can tolerate degraded data instead of failing.
func ParseCalDate(v string) (t time.Time, dateOnly bool, ok bool) {
	v = strings.TrimSpace(v)
	if len(v) < 8 {
		return time.Now(), false, false
	}

	year, err1 := strconv.Atoi(v[0:4])
	month, err2 := strconv.Atoi(v[4:6])
	day, err3 := strconv.Atoi(v[6:8])
	if err1 != nil || err2 != nil || err3 != nil || month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Now(), false, false
	}

	if len(v) == 8 {
		return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.Local), true, true
	}

	if v[8] != 'T' || len(v) < 15 {
		return time.Now(), false, false
	}

	hour, err1 := strconv.Atoi(v[9:11])
	min, err2 := strconv.Atoi(v[11:13])
	sec, err3 := strconv.Atoi(v[13:15])
	if err1 != nil || err2 != nil || err3 != nil {
		// Valid date with a broken time part: keep the date, default the clock.
		hour, min, sec = 0, 0, 0
	}

	t = time.Date(year, time.Month(month), day, hour, min, sec, 0, time.Local)

	if strings.HasSuffix(v, "Z") {
		_, offset := time.Now().Zone()
		t = t.Add(time.Duration(offset) * time.Second)
	}

	return t, false, true
}

// Unescape reverses iCalendar backslash escaping: \n (or \N) becomes a
// newline, \, \; and \\ become the bare character. A single pass keeps
// sequences like `\\n` from being unescaped twice.
func Unescape(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' || i+1 >= len(s) {
			b.WriteByte(c)
			continue
		}
		switch s[i+1] {
		case 'n', 'N':
			b.WriteByte('\n')
			i++
		case ',', ';', '\\':
			b.WriteByte(s[i+1])
			i++
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}
