package parse

import (
	"path/filepath"
	"regexp"
	"time"
)

// nameRe matches "{channel}-{yyyy}-{mm}-{dd}.{ext}". The channel is greedy so
// names like "some-channel-2023-05-01.log" keep their dashes.
var nameRe = regexp.MustCompile(`^(.+)-(\d{4}-\d{2}-\d{2})\.[^.]+$`)

// ParseFileName resolves the channel and log day of a file. The date is
// interpreted in loc. It reports false for names that do not follow the
// client's naming scheme or carry an impossible date.
func ParseFileName(path string, loc *time.Location) (LogFile, bool) {
	name := filepath.Base(path)
	m := nameRe.FindStringSubmatch(name)
	if m == nil {
		return LogFile{}, false
	}
	date, err := time.ParseInLocation("2006-01-02", m[2], loc)
	if err != nil {
		return LogFile{}, false
	}
	return LogFile{
		Path:    path,
		Name:    name,
		Channel: m[1],
		Date:    date,
	}, true
}

// SameDay reports whether t falls on the file's log day, compared in the
// location of the file date.
func (f LogFile) SameDay(t time.Time) bool {
	y1, m1, d1 := f.Date.Date()
	y2, m2, d2 := t.In(f.Date.Location()).Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}
