// Package agenda merges records from all configured calendar sources and
// produces the ordered, range-bounded output the presentation layer
// consumes: an occurrence list and a task list.
package agenda

import (
	"sort"
	"time"

	"icsagenda/internal/ics"
	appLog "icsagenda/internal/log"
	"icsagenda/internal/model"
	"icsagenda/internal/recur"
)

// Collect parses every configured source and concatenates the results.
// Records arrive already stamped with their source name and color. A failing
// source contributes warnings instead of aborting the query.
func Collect(sources []model.Source) ([]model.Event, []model.Task, []ics.Warning) {
	var (
		events   []model.Event
		tasks    []model.Task
		warnings []ics.Warning
	)
	for _, src := range sources {
		evs, ts, warns := ics.ParseSource(src)
		events = append(events, evs...)
		tasks = append(tasks, ts...)
		warnings = append(warnings, warns...)
	}
	appLog.Info("sources collected",
		"sources", len(sources), "events", len(events),
		"tasks", len(tasks), "warnings", len(warnings))
	return events, tasks, warnings
}

// ExpandForRange produces the ordered occurrence list for one query window.
// Recurring events go through the recurrence engine; the rest are included
// when their span overlaps the window, inclusive on both ends. The sort is
// stable, so occurrences sharing a start keep their input order.
func ExpandForRange(events []model.Event, rangeStart, rangeEnd time.Time) []model.Occurrence {
	var out []model.Occurrence
	for _, ev := range events {
		if ev.Recurring {
			out = append(out, recur.Expand(ev, rangeStart, rangeEnd)...)
			continue
		}
		if overlaps(ev, rangeStart, rangeEnd) {
			out = append(out, model.Occurrence{Event: ev, TemplateStart: ev.Start})
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Start.Before(out[j].Start)
	})
	return out
}

func overlaps(ev model.Event, rangeStart, rangeEnd time.Time) bool {
	return !ev.Start.After(rangeEnd) && !ev.End.Before(rangeStart)
}

// FilterTasks drops completed tasks unless requested and orders the rest for
// presentation: open tasks before completed ones, then earlier due dates
// (tasks without one after all dated tasks), then priority (1 highest, 0
// meaning none sorts last), then summary as the final deterministic tiebreak.
func FilterTasks(tasks []model.Task, showCompleted bool) []model.Task {
	out := make([]model.Task, 0, len(tasks))
	for _, task := range tasks {
		if task.Done() && !showCompleted {
			continue
		}
		out = append(out, task)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return taskLess(out[i], out[j])
	})
	return out
}

func taskLess(a, b model.Task) bool {
	if a.Done() != b.Done() {
		return !a.Done()
	}
	switch {
	case a.Due != nil && b.Due == nil:
		return true
	case a.Due == nil && b.Due != nil:
		return false
	case a.Due != nil && b.Due != nil && !a.Due.Equal(*b.Due):
		return a.Due.Before(*b.Due)
	}
	if pa, pb := priorityRank(a.Priority), priorityRank(b.Priority); pa != pb {
		return pa < pb
	}
	return a.Summary < b.Summary
}

// priorityRank orders 1..9 ascending with 0 (no priority) after all of them.
func priorityRank(p int) int {
	if p == 0 {
		return 10
	}
	return p
}
