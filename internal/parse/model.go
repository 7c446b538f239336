package parse

import "time"

// LogFile is one chat-log file resolved from its name.
type LogFile struct {
	Path    string
	Name    string // base name, the done-tracking key
	Channel string
	Date    time.Time // midnight of the log day in the configured location
}

// Line is one parsed "[HH:MM:SS] author: text" line.
type Line struct {
	Clock  [3]string // "HH", "MM", "SS"
	Author string
	Text   string
}

// Message is a single chat message ready to be stored.
type Message struct {
	File      string
	Channel   string
	Author    string
	Text      string
	Timestamp time.Time
}
