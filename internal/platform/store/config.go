package store

import "time"

// Config selects and configures the backends Open should bring up
type Config struct {
	// AppName is reported to both servers to identify the connection
	AppName string

	PG PGConfig
	CH CHConfig
}

// PGConfig configures the postgres pool
type PGConfig struct {
	Enabled  bool
	URL      string
	Password string // fills a URL without one
	MaxConns int32

	LogSQL      bool
	SlowQueryMs int // statements at or over this log at warn; 0 disables

	PingTimeout time.Duration
}

// CHConfig configures the clickhouse connection
type CHConfig struct {
	Enabled  bool
	URL      string
	Password string // fills a URL without one

	// Role and Tag go out as client info
	Role string
	Tag  string

	PingTimeout time.Duration
}

const defaultPingTimeout = 5 * time.Second

func pingTimeout(d time.Duration) time.Duration {
	if d > 0 {
		return d
	}
	return defaultPingTimeout
}
