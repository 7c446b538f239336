package parse

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// lineRe matches "[HH:MM:SS] author: text". The author runs up to the first
// colon after the timestamp.
var lineRe = regexp.MustCompile(`^\[(\d{2}):(\d{2}):(\d{2})\]\s+([^:]+?):\s?(.*)$`)

// ParseLine extracts the clock, author and text from one raw log line.
// Lines that do not follow the format report false; that is expected for
// comments, system notices and garbage, so it is not an error.
func ParseLine(raw string) (Line, bool) {
	raw = strings.TrimRight(raw, "\r\n")
	m := lineRe.FindStringSubmatch(raw)
	if m == nil {
		return Line{}, false
	}
	author := strings.TrimSpace(m[4])
	if author == "" {
		return Line{}, false
	}
	return Line{
		Clock:  [3]string{m[1], m[2], m[3]},
		Author: author,
		Text:   m[5],
	}, true
}

// IsComment reports whether a raw line is a "#" comment written by the client.
func IsComment(raw string) bool {
	return strings.HasPrefix(raw, "#")
}

// Time combines the line clock with the calendar day of date in loc.
func (l Line) Time(date time.Time, loc *time.Location) (time.Time, error) {
	var hms [3]int
	limits := [3]int{23, 59, 59}
	for i, s := range l.Clock {
		n, err := strconv.Atoi(s)
		if err != nil {
			return time.Time{}, fmt.Errorf("clock %q: %w", strings.Join(l.Clock[:], ":"), err)
		}
		if n < 0 || n > limits[i] {
			return time.Time{}, fmt.Errorf("clock %q out of range", strings.Join(l.Clock[:], ":"))
		}
		hms[i] = n
	}
	y, mo, d := date.Date()
	return time.Date(y, mo, d, hms[0], hms[1], hms[2], 0, loc), nil
}
