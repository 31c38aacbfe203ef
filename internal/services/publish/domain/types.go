// Package domain holds the publish request, results and ports
package domain

// Sink names accepted by Request.Sink
const (
	SinkHub        = "hub"
	SinkClickhouse = "clickhouse"
	SinkPostgres   = "postgres"
	SinkFile       = "file"
)

// Request is one publish invocation, usually built from flags
type Request struct {
	Input  string `name:"input" validate:"required"`
	Repo   string `name:"repo" validate:"required,repo_id"`
	Config string `name:"config" validate:"required,max=64,config_name"`
	Token  string `name:"token"`
	Sink   string `name:"sink" validate:"required,oneof=hub clickhouse postgres file"`
}

// Target is what a sink publishes to. Token is the resolved credential
type Target struct {
	Repo   string
	Config string
	Token  string
	RunID  string
}

// Result describes a finished publish
type Result struct {
	Sink     string
	Location string
	Rows     int
	Commit   string
}

// SinkLabel is the human name of a sink used in prompts
func SinkLabel(name string) string {
	switch name {
	case SinkHub:
		return "Hugging Face"
	case SinkClickhouse:
		return "ClickHouse"
	case SinkPostgres:
		return "Postgres"
	}
	return name
}
