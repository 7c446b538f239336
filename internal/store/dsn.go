package store

import (
	"fmt"
	"net"
	"net/url"
	"strconv"
	"time"

	"github.com/go-sql-driver/mysql"
)

// Options describes how to reach the database. Path is used by sqlite only;
// the network fields by mysql and postgres.
type Options struct {
	Driver   string
	Path     string
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	// Location is the zone DATETIME columns are written in for dialects
	// without zone-aware timestamps (mysql).
	Location *time.Location
}

// DSN builds the data source name handed to database/sql.
func (o Options) DSN() (string, error) {
	switch o.Driver {
	case DriverSQLite, "":
		if o.Path == "" {
			return "", fmt.Errorf("sqlite: database path is empty")
		}
		// store times as "2006-01-02 15:04:05.999999999-07:00" so they
		// read back as time.Time
		return o.Path + "?_time_format=sqlite", nil
	case DriverMySQL:
		cfg := mysql.NewConfig()
		cfg.User = o.User
		cfg.Passwd = o.Password
		cfg.Net = "tcp"
		cfg.Addr = net.JoinHostPort(o.Host, strconv.Itoa(o.Port))
		cfg.DBName = o.Name
		cfg.ParseTime = true
		if o.Location != nil {
			cfg.Loc = o.Location
		}
		return cfg.FormatDSN(), nil
	case DriverPostgres:
		u := url.URL{
			Scheme: "postgres",
			Host:   net.JoinHostPort(o.Host, strconv.Itoa(o.Port)),
			Path:   "/" + o.Name,
		}
		if o.User != "" {
			u.User = url.UserPassword(o.User, o.Password)
		}
		return u.String(), nil
	default:
		return "", fmt.Errorf("unknown database driver %q", o.Driver)
	}
}

// Redacted returns the DSN with the password masked, for logs.
func (o Options) Redacted() string {
	o.Password = "xxxxx"
	if o.User == "" {
		o.Password = ""
	}
	dsn, err := o.DSN()
	if err != nil {
		return o.Driver
	}
	return dsn
}
