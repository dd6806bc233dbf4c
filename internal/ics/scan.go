package ics

import "strings"

// contentLine is one unfolded property line of the form
// NAME[;PARAM=VALUE...]:VALUE.
type contentLine struct {
	Name   string
	Params map[string]string
	Value  string
}

// Param returns the named parameter's value, or "" when absent.
func (c contentLine) Param(key string) string {
	return c.Params[strings.ToUpper(key)]
}

// unfold splits raw calendar text into logical lines. iCalendar folds long
// lines by continuing them on the next physical line prefixed with a single
// space or tab; exactly one leading whitespace character is stripped and the
// remainder appended to the previous logical line. CRLF and LF terminators
// are both accepted.
func unfold(data []byte) []string {
	raw := strings.Split(strings.ReplaceAll(string(data), "\r\n", "\n"), "\n")

	lines := make([]string, 0, len(raw))
	for _, ln := range raw {
		ln = strings.TrimRight(ln, "\r")
		if ln == "" {
			continue
		}
		if (ln[0] == ' ' || ln[0] == '\t') && len(lines) > 0 {
			lines[len(lines)-1] += ln[1:]
			continue
		}
		lines = append(lines, ln)
	}
	return lines
}

// parseContentLine tokenizes one logical line. The name is matched
// case-insensitively and normalized to uppercase; the parameter/value split
// honors quoted parameter values, so a ':' inside quotes does not end the
// parameter section. The value is returned verbatim: unescaping is deferred
// to field-specific handling.
func parseContentLine(line string) (contentLine, bool) {
	var cl contentLine

	nameEnd := -1
	colon := -1
	inQuotes := false
scan:
	for i := 0; i < len(line); i++ {
		switch line[i] {
		case '"':
			inQuotes = !inQuotes
		case ';':
			if !inQuotes && nameEnd == -1 {
				nameEnd = i
			}
		case ':':
			if !inQuotes {
				colon = i
				break scan
			}
		}
	}
	if colon == -1 {
		return cl, false
	}
	if nameEnd == -1 {
		nameEnd = colon
	}

	cl.Name = strings.ToUpper(strings.TrimSpace(line[:nameEnd]))
	cl.Params = parseParams(line[nameEnd:colon])
	cl.Value = line[colon+1:]
	return cl, true
}

// parseParams parses the ;KEY=VALUE;KEY2=VALUE2 section between name and
// value. Quotes around a parameter value are stripped.
func parseParams(s string) map[string]string {
	params := make(map[string]string)
	for _, part := range splitOutsideQuotes(s, ';') {
		if part == "" {
			continue
		}
		key, val, found := strings.Cut(part, "=")
		if !found {
			continue
		}
		params[strings.ToUpper(strings.TrimSpace(key))] = strings.Trim(val, `"`)
	}
	return params
}

func splitOutsideQuotes(s string, sep byte) []string {
	var out []string
	start := 0
	inQuotes := false
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '"':
			inQuotes = !inQuotes
		case sep:
			if !inQuotes {
				out = append(out, s[start:i])
				start = i + 1
			}
		}
	}
	return append(out, s[start:])
}
