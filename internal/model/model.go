package model

import "time"

// Source describes one configured calendar source: a single .ics/.ical file,
// a directory of calendar files, or a directory scanned recursively. Sources
// come from configuration and are read-only inputs to the pipeline.
type Source struct {
	Name      string
	Path      string
	Color     string
	Recursive bool
}

// TaskStatus is the VTODO status. Anything the parser does not recognize
// maps to TaskNeedsAction.
type TaskStatus string

const (
	TaskNeedsAction TaskStatus = "NEEDS-ACTION"
	TaskInProcess   TaskStatus = "IN-PROCESS"
	TaskCompleted   TaskStatus = "COMPLETED"
)

// Event is one parsed VEVENT record. An event that carries a recurrence rule
// is a template: it is never handed to a consumer directly, only its expanded
// occurrences are.
type Event struct {
	UID         string
	Summary     string
	Description string
	Location    string

	Start  time.Time
	End    time.Time // always >= Start after parsing
	AllDay bool

	// RRule holds the raw recurrence rule text; empty for non-recurring events.
	RRule     string
	Recurring bool
	// ExDays holds EXDATE values normalized to start of day; exclusion
	// matching is day-granular.
	ExDays []time.Time

	Categories []string
	Status     string

	FilePath string
	Calendar string
	Color    string
}

// Duration returns the event's span.
func (e Event) Duration() time.Duration {
	return e.End.Sub(e.Start)
}

// ExcludesDay reports whether t falls on one of the event's exception days.
func (e Event) ExcludesDay(t time.Time) bool {
	for _, ex := range e.ExDays {
		if ex.Year() == t.Year() && ex.Month() == t.Month() && ex.Day() == t.Day() {
			return true
		}
	}
	return false
}

// Occurrence is one concrete dated instance of an event. For recurring
// events it is produced by the recurrence engine with Start/End replaced;
// TemplateStart keeps the defining event's own DTSTART so a consumer can
// identify the source record of an instance without re-parsing.
//
// Occurrences are computed fresh per query and never persisted.
type Occurrence struct {
	Event
	TemplateStart time.Time
}

// Task is one parsed VTODO record.
type Task struct {
	UID         string
	Summary     string
	Description string

	Due      *time.Time // nil when the task has no due date
	Priority int        // 0 = none, 1 = highest .. 9 = lowest

	Status          TaskStatus
	PercentComplete int
	CompletedAt     *time.Time

	Categories []string

	FilePath string
	Calendar string
	Color    string
}

// Done reports whether the task is completed.
func (t Task) Done() bool {
	return t.Status == TaskCompleted
}
