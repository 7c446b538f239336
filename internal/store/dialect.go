package store

import (
	"strconv"
	"strings"
)

// Dialect names accepted by Open.
const (
	DriverSQLite   = "sqlite"
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
)

// Drivers lists the supported dialects.
var Drivers = []string{DriverSQLite, DriverMySQL, DriverPostgres}

type dialect struct {
	name       string
	sqlDriver  string // name registered with database/sql
	port       int    // default TCP port, 0 for file databases
	schema     []string
	dollarArgs bool
}

var dialects = map[string]dialect{
	DriverSQLite: {
		name:      DriverSQLite,
		sqlDriver: "sqlite",
		schema: []string{
			`PRAGMA journal_mode = WAL`,
			`PRAGMA synchronous = NORMAL`,
			`PRAGMA busy_timeout = 5000`,
			`CREATE TABLE IF NOT EXISTS message (
    id        INTEGER PRIMARY KEY AUTOINCREMENT,
    file      TEXT NOT NULL,
    author    TEXT NOT NULL,
    message   TEXT NOT NULL,
    channel   TEXT NOT NULL,
    timestamp DATETIME NOT NULL
)`,
			`CREATE INDEX IF NOT EXISTS message_file ON message(file)`,
			`CREATE TABLE IF NOT EXISTS done_file (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    channel     TEXT NOT NULL,
    file        TEXT NOT NULL UNIQUE,
    exported_at DATETIME NOT NULL
)`,
		},
	},
	DriverMySQL: {
		name:      DriverMySQL,
		sqlDriver: "mysql",
		port:      3306,
		schema: []string{
			`CREATE TABLE IF NOT EXISTS message (
    id        BIGINT NOT NULL AUTO_INCREMENT PRIMARY KEY,
    file      VARCHAR(255) NOT NULL,
    author    VARCHAR(255) NOT NULL,
    message   TEXT NOT NULL,
    channel   VARCHAR(255) NOT NULL,
    timestamp DATETIME NOT NULL,
    INDEX message_file (file)
) DEFAULT CHARSET = utf8mb4`,
			`CREATE TABLE IF NOT EXISTS done_file (
    id          BIGINT NOT NULL AUTO_INCREMENT PRIMARY KEY,
    channel     VARCHAR(255) NOT NULL,
    file        VARCHAR(255) NOT NULL,
    exported_at DATETIME NOT NULL,
    UNIQUE KEY done_file_file (file)
) DEFAULT CHARSET = utf8mb4`,
		},
	},
	DriverPostgres: {
		name:       DriverPostgres,
		sqlDriver:  "pgx",
		port:       5432,
		dollarArgs: true,
		schema: []string{
			`CREATE TABLE IF NOT EXISTS message (
    id        BIGSERIAL PRIMARY KEY,
    file      TEXT NOT NULL,
    author    TEXT NOT NULL,
    message   TEXT NOT NULL,
    channel   TEXT NOT NULL,
    timestamp TIMESTAMPTZ NOT NULL
)`,
			`CREATE INDEX IF NOT EXISTS message_file ON message(file)`,
			`CREATE TABLE IF NOT EXISTS done_file (
    id          BIGSERIAL PRIMARY KEY,
    channel     TEXT NOT NULL,
    file        TEXT NOT NULL UNIQUE,
    exported_at TIMESTAMPTZ NOT NULL
)`,
		},
	},
}

// DefaultPort returns the usual server port for driver, or 0 when the
// driver has no network endpoint or is unknown.
func DefaultPort(driver string) int {
	return dialects[driver].port
}

// rebind rewrites "?" placeholders as "$1", "$2", ... for dialects that
// need them. Queries here never contain literal question marks.
func (d dialect) rebind(query string) string {
	if !d.dollarArgs {
		return query
	}
	var sb strings.Builder
	sb.Grow(len(query) + 16)
	n := 0
	for i := 0; i < len(query); i++ {
		if query[i] == '?' {
			n++
			sb.WriteByte('$')
			sb.WriteString(strconv.Itoa(n))
			continue
		}
		sb.WriteByte(query[i])
	}
	return sb.String()
}
