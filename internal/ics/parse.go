package ics

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"icsagenda/internal/caltime"
	appLog "icsagenda/internal/log"
	"icsagenda/internal/model"
)

// Warning records a tolerated parse problem: a defaulted field, a discarded
// record, a skipped file. The pipeline never fails a query over bad input,
// but tests and the check command want to see what was dropped.
type Warning struct {
	Path    string
	Message string
}

// Calendar is the result of parsing a single calendar file.
type Calendar struct {
	// Name is the calendar-level X-WR-CALNAME, if the file carried one.
	// It is used as the display name when the source config provides none.
	Name     string
	Events   []model.Event
	Tasks    []model.Task
	Warnings []Warning
}

// ParseCalendar parses one ICS payload into events and tasks.
//
//   - Logical lines are unfolded before tokenizing.
//   - Records between BEGIN:VEVENT/END:VEVENT and BEGIN:VTODO/END:VTODO are
//     mapped to Event/Task; nested components (VALARM etc.) are skipped.
//   - A malformed line or field never aborts the file: the field is skipped
//     or defaulted and a Warning is recorded.
//   - Records with an empty SUMMARY are discarded as incomplete.
func ParseCalendar(path string, body []byte) Calendar {
	p := &fileParser{path: path}
	for _, line := range unfold(body) {
		p.consume(line)
	}
	return p.cal
}

// ParseSource parses every calendar file behind one configured source and
// stamps each record with the source's name, color and origin file. A path
// that cannot be resolved or a file that cannot be read contributes nothing
// beyond a warning; the rest of the source is unaffected.
func ParseSource(src model.Source) ([]model.Event, []model.Task, []Warning) {
	files, err := CollectFiles(src.Path, src.Recursive)
	if err != nil {
		appLog.Warn("calendar source unavailable", "source", src.Name, "path", src.Path, "err", err)
		return nil, nil, []Warning{{Path: src.Path, Message: "source unavailable: " + err.Error()}}
	}

	var (
		events   []model.Event
		tasks    []model.Task
		warnings []Warning
	)

	for _, file := range files {
		body, rerr := os.ReadFile(file)
		if rerr != nil {
			appLog.Warn("calendar file unreadable", "source", src.Name, "path", file, "err", rerr)
			warnings = append(warnings, Warning{Path: file, Message: "unreadable: " + rerr.Error()})
			continue
		}

		cal := ParseCalendar(file, body)
		warnings = append(warnings, cal.Warnings...)

		name := src.Name
		if name == "" {
			name = cal.Name
		}
		for _, ev := range cal.Events {
			ev.Calendar = name
			ev.Color = src.Color
			events = append(events, ev)
		}
		for _, task := range cal.Tasks {
			task.Calendar = name
			task.Color = src.Color
			tasks = append(tasks, task)
		}
	}

	appLog.Debug("calendar source parsed",
		"source", src.Name, "files", len(files),
		"events", len(events), "tasks", len(tasks), "warnings", len(warnings))
	return events, tasks, warnings
}

type fileParser struct {
	path   string
	cal    Calendar
	block  []contentLine // buffered properties of the open VEVENT/VTODO
	kind   string        // "VEVENT" or "VTODO" while inside a block
	nested int           // depth of components nested inside the open block
}

func (p *fileParser) consume(line string) {
	cl, ok := parseContentLine(line)
	if !ok {
		p.warnf("skipping malformed line (no value separator): %.40s", line)
		return
	}

	switch cl.Name {
	case "BEGIN":
		v := strings.ToUpper(cl.Value)
		if p.kind != "" {
			// VALARM or similar inside an open block: its properties are
			// not ours to map.
			p.nested++
			return
		}
		if v == "VEVENT" || v == "VTODO" {
			p.kind = v
			p.block = p.block[:0]
		}
		return
	case "END":
		v := strings.ToUpper(cl.Value)
		if p.nested > 0 {
			p.nested--
			return
		}
		if p.kind != "" && v == p.kind {
			p.closeBlock()
			p.kind = ""
		}
		return
	}

	if p.nested > 0 {
		return
	}
	if p.kind != "" {
		p.block = append(p.block, cl)
		return
	}
	if cl.Name == "X-WR-CALNAME" {
		p.cal.Name = caltime.Unescape(cl.Value)
	}
}

func (p *fileParser) closeBlock() {
	switch p.kind {
	case "VEVENT":
		if ev, ok := p.mapEvent(p.block); ok {
			p.cal.Events = append(p.cal.Events, ev)
		}
	case "VTODO":
		if task, ok := p.mapTask(p.block); ok {
			p.cal.Tasks = append(p.cal.Tasks, task)
		}
	}
}

func (p *fileParser) mapEvent(props []contentLine) (model.Event, bool) {
	ev := model.Event{FilePath: p.path}

	var haveEnd bool
	for _, cl := range props {
		switch cl.Name {
		case "UID":
			ev.UID = cl.Value
		case "SUMMARY":
			ev.Summary = caltime.Unescape(cl.Value)
		case "DESCRIPTION":
			ev.Description = caltime.Unescape(cl.Value)
		case "LOCATION":
			ev.Location = caltime.Unescape(cl.Value)
		case "DTSTART":
			t, dateOnly, ok := caltime.ParseCalDate(cl.Value)
			if !ok {
				p.warnf("DTSTART %q unparsable, defaulted to now", cl.Value)
			}
			ev.Start = t
			if dateOnly || strings.EqualFold(cl.Param("VALUE"), "DATE") {
				ev.AllDay = true
			}
		case "DTEND":
			t, _, ok := caltime.ParseCalDate(cl.Value)
			if !ok {
				p.warnf("DTEND %q unparsable, defaulted to now", cl.Value)
			}
			ev.End = t
			haveEnd = true
		case "RRULE":
			ev.RRule = cl.Value
			ev.Recurring = true
		case "EXDATE":
			for _, part := range strings.Split(cl.Value, ",") {
				part = strings.TrimSpace(part)
				if part == "" {
					continue
				}
				t, _, ok := caltime.ParseCalDate(part)
				if !ok {
					p.warnf("EXDATE entry %q unparsable, ignored", part)
					continue
				}
				ev.ExDays = append(ev.ExDays, caltime.StartOfDay(t))
			}
		case "CATEGORIES":
			ev.Categories = append(ev.Categories, splitCategories(cl.Value)...)
		case "STATUS":
			ev.Status = cl.Value
		}
	}

	if ev.Summary == "" {
		p.warnf("discarding VEVENT without summary (uid=%s)", ev.UID)
		return ev, false
	}

	if !haveEnd {
		if ev.AllDay {
			ev.End = caltime.AddDays(ev.Start, 1)
		} else {
			ev.End = ev.Start
		}
	}
	if ev.End.Before(ev.Start) {
		ev.End = ev.Start
	}
	return ev, true
}

func (p *fileParser) mapTask(props []contentLine) (model.Task, bool) {
	task := model.Task{
		Status:   model.TaskNeedsAction,
		FilePath: p.path,
	}

	for _, cl := range props {
		switch cl.Name {
		case "UID":
			task.UID = cl.Value
		case "SUMMARY":
			task.Summary = caltime.Unescape(cl.Value)
		case "DESCRIPTION":
			task.Description = caltime.Unescape(cl.Value)
		case "DUE":
			t, _, ok := caltime.ParseCalDate(cl.Value)
			if !ok {
				p.warnf("DUE %q unparsable, ignored", cl.Value)
				continue
			}
			task.Due = &t
		case "PRIORITY":
			if n, err := strconv.Atoi(strings.TrimSpace(cl.Value)); err == nil {
				task.Priority = n
			}
		case "STATUS":
			task.Status = parseTaskStatus(cl.Value)
		case "PERCENT-COMPLETE":
			if n, err := strconv.Atoi(strings.TrimSpace(cl.Value)); err == nil {
				task.PercentComplete = n
			}
		case "COMPLETED":
			if t, _, ok := caltime.ParseCalDate(cl.Value); ok {
				task.CompletedAt = &t
			}
		case "CATEGORIES":
			task.Categories = append(task.Categories, splitCategories(cl.Value)...)
		}
	}

	if task.Summary == "" {
		p.warnf("discarding VTODO without summary (uid=%s)", task.UID)
		return task, false
	}
	return task, true
}

func parseTaskStatus(v string) model.TaskStatus {
	switch strings.ToUpper(strings.TrimSpace(v)) {
	case "COMPLETED":
		return model.TaskCompleted
	case "IN-PROCESS":
		return model.TaskInProcess
	default:
		return model.TaskNeedsAction
	}
}

func splitCategories(v string) []string {
	var out []string
	for _, c := range strings.Split(v, ",") {
		c = strings.TrimSpace(caltime.Unescape(c))
		if c != "" {
			out = append(out, c)
		}
	}
	return out
}

func (p *fileParser) warnf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	p.cal.Warnings = append(p.cal.Warnings, Warning{Path: p.path, Message: msg})
	appLog.Warn("ics parse", "path", p.path, "detail", msg)
}
