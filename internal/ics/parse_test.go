package ics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"icsagenda/internal/model"
)

func calendarText(lines ...string) []byte {
	return []byte(strings.Join(lines, "\r\n") + "\r\n")
}

func TestParseCalendarEvent(t *testing.T) {
	body := calendarText(
		"BEGIN:VCALENDAR",
		"X-WR-CALNAME:Home",
		"BEGIN:VEVENT",
		"UID:ev1",
		`SUMMARY:Team\, sync`,
		"DESCRIPTION:Weekly catch-up",
		"LOCATION:Room 1",
		"DTSTART:20250110T090000",
		"DTEND:20250110T100000",
		"CATEGORIES:work,meetings",
		"STATUS:CONFIRMED",
		"BEGIN:VALARM",
		"TRIGGER:-PT15M",
		"SUMMARY:alarm noise that must not leak",
		"END:VALARM",
		"END:VEVENT",
		"END:VCALENDAR",
	)

	cal := ParseCalendar("test.ics", body)
	require.Len(t, cal.Events, 1)
	require.Empty(t, cal.Warnings)

	ev := cal.Events[0]
	assert.Equal(t, "ev1", ev.UID)
	assert.Equal(t, "Team, sync", ev.Summary)
	assert.Equal(t, "Weekly catch-up", ev.Description)
	assert.Equal(t, "Room 1", ev.Location)
	assert.Equal(t, time.Date(2025, 1, 10, 9, 0, 0, 0, time.Local), ev.Start)
	assert.Equal(t, time.Date(2025, 1, 10, 10, 0, 0, 0, time.Local), ev.End)
	assert.False(t, ev.AllDay)
	assert.False(t, ev.Recurring)
	assert.Equal(t, []string{"work", "meetings"}, ev.Categories)
	assert.Equal(t, "CONFIRMED", ev.Status)
	assert.Equal(t, "test.ics", ev.FilePath)
	assert.Equal(t, "Home", cal.Name)
}

func TestParseCalendarAllDayDefaults(t *testing.T) {
	body := calendarText(
		"BEGIN:VCALENDAR",
		"BEGIN:VEVENT",
		"UID:allday",
		"SUMMARY:Holiday",
		"DTSTART;VALUE=DATE:20250315",
		"END:VEVENT",
		"BEGIN:VEVENT",
		"UID:timed",
		"SUMMARY:Ping",
		"DTSTART:20250315T120000",
		"END:VEVENT",
		"END:VCALENDAR",
	)

	cal := ParseCalendar("test.ics", body)
	require.Len(t, cal.Events, 2)

	allday := cal.Events[0]
	assert.True(t, allday.AllDay)
	assert.Equal(t, time.Date(2025, 3, 15, 0, 0, 0, 0, time.Local), allday.Start)
	// No DTEND on an all-day event: end defaults to start + 1 day.
	assert.Equal(t, time.Date(2025, 3, 16, 0, 0, 0, 0, time.Local), allday.End)

	timed := cal.Events[1]
	assert.False(t, timed.AllDay)
	// No DTEND on a timed event: end defaults to start.
	assert.True(t, timed.End.Equal(timed.Start))
}

func TestParseCalendarRecurrence(t *testing.T) {
	body := calendarText(
		"BEGIN:VCALENDAR",
		"BEGIN:VEVENT",
		"UID:rec",
		"SUMMARY:Standup",
		"DTSTART:20250110T090000",
		"DTEND:20250110T091500",
		"RRULE:FREQ=WEEKLY;BYDAY=MO,WE,FR",
		"EXDATE:20250117T090000,20250124T090000",
		"END:VEVENT",
		"END:VCALENDAR",
	)

	cal := ParseCalendar("test.ics", body)
	require.Len(t, cal.Events, 1)

	ev := cal.Events[0]
	assert.True(t, ev.Recurring)
	assert.Equal(t, "FREQ=WEEKLY;BYDAY=MO,WE,FR", ev.RRule)
	require.Len(t, ev.ExDays, 2)
	// Exception days are normalized to start of day.
	assert.Equal(t, time.Date(2025, 1, 17, 0, 0, 0, 0, time.Local), ev.ExDays[0])
	assert.Equal(t, time.Date(2025, 1, 24, 0, 0, 0, 0, time.Local), ev.ExDays[1])
}

func TestParseCalendarTask(t *testing.T) {
	body := calendarText(
		"BEGIN:VCALENDAR",
		"BEGIN:VTODO",
		"UID:td1",
		"SUMMARY:File taxes",
		"DESCRIPTION:Before the deadline",
		"DUE:20250415T235900",
		"PRIORITY:2",
		"STATUS:IN-PROCESS",
		"PERCENT-COMPLETE:40",
		"CATEGORIES:finance",
		"END:VTODO",
		"BEGIN:VTODO",
		"UID:td2",
		"SUMMARY:Water plants",
		"END:VTODO",
		"END:VCALENDAR",
	)

	cal := ParseCalendar("test.ics", body)
	require.Len(t, cal.Tasks, 2)

	taxes := cal.Tasks[0]
	assert.Equal(t, "File taxes", taxes.Summary)
	require.NotNil(t, taxes.Due)
	assert.Equal(t, time.Date(2025, 4, 15, 23, 59, 0, 0, time.Local), *taxes.Due)
	assert.Equal(t, 2, taxes.Priority)
	assert.Equal(t, model.TaskInProcess, taxes.Status)
	assert.Equal(t, 40, taxes.PercentComplete)
	assert.Equal(t, []string{"finance"}, taxes.Categories)

	plants := cal.Tasks[1]
	assert.Nil(t, plants.Due)
	assert.Equal(t, 0, plants.Priority)
	assert.Equal(t, model.TaskNeedsAction, plants.Status)
}

func TestParseCalendarTolerance(t *testing.T) {
	body := calendarText(
		"BEGIN:VCALENDAR",
		"GARBAGE-WITHOUT-SEPARATOR",
		"BEGIN:VEVENT",
		"UID:no-summary",
		"DTSTART:20250110T090000",
		"END:VEVENT",
		"BEGIN:VEVENT",
		"UID:bad-date",
		"SUMMARY:Survives",
		"DTSTART:garbage",
		"END:VEVENT",
		"END:VCALENDAR",
	)

	cal := ParseCalendar("test.ics", body)

	// The summary-less record is discarded, the bad-date record survives
	// with a defaulted start. Nothing aborts the file.
	require.Len(t, cal.Events, 1)
	assert.Equal(t, "Survives", cal.Events[0].Summary)
	assert.False(t, cal.Events[0].End.Before(cal.Events[0].Start))

	// One warning per tolerated problem: the garbage line, the discarded
	// record and the defaulted DTSTART.
	assert.Len(t, cal.Warnings, 3)
}

func TestParseCalendarIdempotent(t *testing.T) {
	body := calendarText(
		"BEGIN:VCALENDAR",
		"BEGIN:VEVENT",
		"UID:ev1",
		"SUMMARY:Stable",
		"DTSTART:20250110T090000",
		"DTEND:20250110T100000",
		"RRULE:FREQ=DAILY;COUNT=3",
		"END:VEVENT",
		"BEGIN:VTODO",
		"UID:td1",
		"SUMMARY:Stable task",
		"DUE:20250401",
		"END:VTODO",
		"END:VCALENDAR",
	)

	first := ParseCalendar("test.ics", body)
	second := ParseCalendar("test.ics", body)
	assert.Equal(t, first.Events, second.Events)
	assert.Equal(t, first.Tasks, second.Tasks)
}

func TestParseSource(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "named.ics"), calendarText(
		"BEGIN:VCALENDAR",
		"X-WR-CALNAME:From File",
		"BEGIN:VEVENT",
		"UID:a",
		"SUMMARY:One",
		"DTSTART:20250110T090000",
		"END:VEVENT",
		"END:VCALENDAR",
	), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tasks.ics"), calendarText(
		"BEGIN:VCALENDAR",
		"BEGIN:VTODO",
		"UID:b",
		"SUMMARY:Todo",
		"END:VTODO",
		"END:VCALENDAR",
	), 0o644))

	events, tasks, warnings := ParseSource(model.Source{Name: "Work", Path: dir, Color: "blue"})
	require.Len(t, events, 1)
	require.Len(t, tasks, 1)
	assert.Empty(t, warnings)

	// The configured name wins over X-WR-CALNAME, and the color is stamped.
	assert.Equal(t, "Work", events[0].Calendar)
	assert.Equal(t, "blue", events[0].Color)
	assert.Equal(t, "Work", tasks[0].Calendar)

	// Without a configured name the calendar's own name is used.
	events, _, _ = ParseSource(model.Source{Path: filepath.Join(dir, "named.ics")})
	require.Len(t, events, 1)
	assert.Equal(t, "From File", events[0].Calendar)
}

func TestParseSourceUnresolvable(t *testing.T) {
	events, tasks, warnings := ParseSource(model.Source{Name: "gone", Path: filepath.Join(t.TempDir(), "missing")})
	assert.Empty(t, events)
	assert.Empty(t, tasks)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0].Message, "source unavailable")
}
