// Package recur parses iCalendar recurrence rules and expands recurring
// events into concrete occurrences bounded by a query window.
package recur

import (
	"strconv"
	"strings"
	"time"

	"icsagenda/internal/caltime"
)

// Frequency is the recurrence period unit. Parsing maps anything outside the
// four supported units, including an absent FREQ, to FreqUnsupported, and
// expansion degrades those rules to non-recurring behavior.
type Frequency int

const (
	FreqUnsupported Frequency = iota
	FreqDaily
	FreqWeekly
	FreqMonthly
	FreqYearly
)

func (f Frequency) String() string {
	switch f {
	case FreqDaily:
		return "DAILY"
	case FreqWeekly:
		return "WEEKLY"
	case FreqMonthly:
		return "MONTHLY"
	case FreqYearly:
		return "YEARLY"
	default:
		return "UNSUPPORTED"
	}
}

// ByDay is one BYDAY entry. Ordinal carries a leading signed prefix such as
// 2MO or -1FR when present. Expansion uses only the weekday; ordinal-
// qualified "Nth weekday of period" semantics are not supported and such
// entries behave as their bare weekday.
type ByDay struct {
	Weekday int // 1 = Monday .. 7 = Sunday
	Ordinal int // 0 when absent
}

// Rule is a parsed recurrence rule.
type Rule struct {
	Freq       Frequency
	Interval   int        // >= 1
	Count      int        // 0 = no occurrence limit
	Until      *time.Time // nil = no until bound
	ByDay      []ByDay
	ByMonthDay []int
	ByMonth    []int
	WeekStart  int // 1 = Monday (default)
}

// ParseRule parses a semicolon-separated RRULE value such as
// "FREQ=WEEKLY;INTERVAL=2;BYDAY=MO,WE,FR". Keys are matched
// case-insensitively; unknown keys and unparsable values are ignored.
func ParseRule(s string) Rule {
	rule := Rule{Interval: 1, WeekStart: 1}

	for _, part := range strings.Split(s, ";") {
		key, val, found := strings.Cut(part, "=")
		if !found {
			continue
		}
		key = strings.ToUpper(strings.TrimSpace(key))
		val = strings.TrimSpace(val)

		switch key {
		case "FREQ":
			rule.Freq = parseFrequency(val)
		case "INTERVAL":
			if n, err := strconv.Atoi(val); err == nil && n >= 1 {
				rule.Interval = n
			}
		case "COUNT":
			if n, err := strconv.Atoi(val); err == nil && n > 0 {
				rule.Count = n
			}
		case "UNTIL":
			if t, _, ok := caltime.ParseCalDate(val); ok {
				rule.Until = &t
			}
		case "BYDAY":
			rule.ByDay = parseByDay(val)
		case "BYMONTHDAY":
			rule.ByMonthDay = parseIntList(val)
		case "BYMONTH":
			rule.ByMonth = parseIntList(val)
		case "WKST":
			if n, ok := caltime.WeekdayNum(val); ok {
				rule.WeekStart = n
			}
		}
	}
	return rule
}

func parseFrequency(v string) Frequency {
	switch strings.ToUpper(v) {
	case "DAILY":
		return FreqDaily
	case "WEEKLY":
		return FreqWeekly
	case "MONTHLY":
		return FreqMonthly
	case "YEARLY":
		return FreqYearly
	default:
		return FreqUnsupported
	}
}

func parseByDay(v string) []ByDay {
	var out []ByDay
	for _, entry := range strings.Split(v, ",") {
		entry = strings.ToUpper(strings.TrimSpace(entry))
		if entry == "" {
			continue
		}

		i := 0
		for i < len(entry) && (entry[i] == '+' || entry[i] == '-' || (entry[i] >= '0' && entry[i] <= '9')) {
			i++
		}
		ord := 0
		if i > 0 {
			if n, err := strconv.Atoi(entry[:i]); err == nil {
				ord = n
			}
		}

		wd, ok := caltime.WeekdayNum(entry[i:])
		if !ok {
			continue
		}
		out = append(out, ByDay{Weekday: wd, Ordinal: ord})
	}
	return out
}

func parseIntList(v string) []int {
	var out []int
	for _, entry := range strings.Split(v, ",") {
		if n, err := strconv.Atoi(strings.TrimSpace(entry)); err == nil {
			out = append(out, n)
		}
	}
	return out
}
