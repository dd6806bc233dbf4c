package recur

import (
	"sort"
	"time"

	"icsagenda/internal/caltime"
	appLog "icsagenda/internal/log"
	"icsagenda/internal/model"
)

// Iteration safety caps, one per frequency. COUNT and UNTIL terminate most
// rules earlier; the caps guarantee termination for pathological or
// unbounded rules regardless.
const (
	maxDailySteps   = 730
	maxWeeklyIters  = 208 // four years of weeks
	maxMonthlyIters = 48  // four years
	maxYearlyIters  = 10
)

// Expand turns one recurring event template into its concrete occurrences
// inside [rangeStart, rangeEnd]. The template itself is never returned. An
// event whose rule has an unsupported or missing frequency degrades to a
// single occurrence when its own start falls inside the range.
//
// Each occurrence keeps the template's full field set with only start/end
// replaced; the end preserves the template's duration.
func Expand(ev model.Event, rangeStart, rangeEnd time.Time) []model.Occurrence {
	x := &expander{
		ev:         ev,
		rule:       ParseRule(ev.RRule),
		rangeStart: rangeStart,
		rangeEnd:   rangeEnd,
	}

	switch x.rule.Freq {
	case FreqDaily:
		x.daily()
	case FreqWeekly:
		x.weekly()
	case FreqMonthly:
		x.monthly()
	case FreqYearly:
		x.yearly()
	default:
		appLog.Warn("unsupported recurrence frequency, treating event as non-recurring",
			"uid", ev.UID, "rrule", ev.RRule)
		x.single()
	}
	return x.out
}

type expander struct {
	ev         model.Event
	rule       Rule
	rangeStart time.Time
	rangeEnd   time.Time

	produced int // rule occurrences counted against COUNT
	out      []model.Occurrence
}

// candidate applies the termination ladder to one rule occurrence, tightest
// bound first: past UNTIL, COUNT exhausted and past the range end stop the
// expansion entirely (later candidates are chronologically later); before
// the range start or on an exception day skips just this candidate. Every
// rule occurrence consumes COUNT whether or not it lands inside the range.
// The return value reports whether expansion may continue.
func (x *expander) candidate(start time.Time) bool {
	if x.rule.Until != nil && start.After(*x.rule.Until) {
		return false
	}
	if x.rule.Count > 0 && x.produced >= x.rule.Count {
		return false
	}
	x.produced++

	if start.After(x.rangeEnd) {
		return false
	}
	if start.Before(x.rangeStart) {
		return true
	}
	if x.ev.ExcludesDay(start) {
		return true
	}

	x.out = append(x.out, x.occurrenceAt(start))
	return true
}

func (x *expander) occurrenceAt(start time.Time) model.Occurrence {
	occ := model.Occurrence{Event: x.ev, TemplateStart: x.ev.Start}
	occ.Start = start
	occ.End = start.Add(x.ev.Duration())
	return occ
}

// single is the degraded path for unsupported rules: the template occurs
// once, if its own start is inside the window.
func (x *expander) single() {
	if x.ev.Start.Before(x.rangeStart) || x.ev.Start.After(x.rangeEnd) {
		return
	}
	x.out = append(x.out, x.occurrenceAt(x.ev.Start))
}

func (x *expander) daily() {
	cand := x.ev.Start
	for step := 0; step < maxDailySteps; step++ {
		if !x.candidate(cand) {
			return
		}
		cand = caltime.AddDays(cand, x.rule.Interval)
	}
}

func (x *expander) weekly() {
	active := make(map[int]bool, len(x.rule.ByDay))
	for _, bd := range x.rule.ByDay {
		active[bd.Weekday] = true
	}
	if len(active) == 0 {
		active[caltime.ISOWeekday(x.ev.Start)] = true
	}

	// Anchor at the Monday of the template's start week. AddDays keeps the
	// template's own clock time on every candidate: the date moves, the
	// time of day does not.
	anchor := caltime.AddDays(x.ev.Start, 1-caltime.ISOWeekday(x.ev.Start))

	for iter := 0; iter < maxWeeklyIters; iter++ {
		for wd := 1; wd <= 7; wd++ {
			if !active[wd] {
				continue
			}
			cand := caltime.AddDays(anchor, wd-1)
			if cand.Before(x.ev.Start) {
				// A rule must not generate occurrences earlier than the
				// defining event.
				continue
			}
			if !x.candidate(cand) {
				return
			}
		}
		anchor = caltime.AddDays(anchor, 7*x.rule.Interval)
	}
}

func (x *expander) monthly() {
	days := x.rule.ByMonthDay
	if len(days) == 0 {
		days = []int{x.ev.Start.Day()}
	} else {
		days = append([]int(nil), days...)
		sort.Ints(days)
	}

	year, month := x.ev.Start.Year(), int(x.ev.Start.Month())
	for iter := 0; iter < maxMonthlyIters; iter++ {
		last := daysInMonth(year, month)
		prev := 0
		for _, d := range days {
			if d < 1 {
				continue
			}
			if d > last {
				// Day 31 in a 30-day month lands on the month's last day.
				d = last
			}
			if d == prev {
				continue
			}
			prev = d

			cand := x.atClockTime(year, month, d)
			if cand.Before(x.ev.Start) {
				continue
			}
			if !x.candidate(cand) {
				return
			}
		}

		month += x.rule.Interval
		for month > 12 {
			month -= 12
			year++
		}
	}
}

func (x *expander) yearly() {
	year := x.ev.Start.Year()
	for iter := 0; iter < maxYearlyIters; iter++ {
		cand := x.atClockTime(year, int(x.ev.Start.Month()), x.ev.Start.Day())
		if !cand.Before(x.ev.Start) {
			if !x.candidate(cand) {
				return
			}
		}
		year += x.rule.Interval
	}
}

// atClockTime builds a candidate on the given date carrying the template's
// original time of day. time.Date normalizes out-of-range dates, so a
// Feb 29 anchor lands on Mar 1 in non-leap years.
func (x *expander) atClockTime(year, month, day int) time.Time {
	s := x.ev.Start
	return time.Date(year, time.Month(month), day, s.Hour(), s.Minute(), s.Second(), 0, s.Location())
}

func daysInMonth(year, month int) int {
	// Day zero of the following month.
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.Local).Day()
}
