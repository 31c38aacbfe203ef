// Package sinks holds the places a projected dataset can be published to
package sinks

import (
	"regexp"

	perr "qabundle/internal/platform/errors"
)

// tableName accepts "table" or "schema.table"
var tableName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

// checkTable rejects names that cannot be spliced into DDL as is
func checkTable(name string) error {
	if !tableName.MatchString(name) {
		return perr.WithField(perr.InvalidArgf("invalid table name %q", name), "table")
	}
	return nil
}

// commitSummary is the message recorded with a hub commit
func commitSummary(config string) string {
	return "Upload " + config + " config as parquet"
}
