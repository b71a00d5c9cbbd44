package sqlbind

import (
	_ "modernc.org/sqlite" // sqlite driver
)

func init() {
	Register(Driver{
		Name:      "sqlite",
		SQLDriver: "sqlite",
		DSN:       buildSQLiteDSN,
	})
}

// buildSQLiteDSN returns the SQLite data source name.
// An empty path selects an in-memory database.
func buildSQLiteDSN(cfg Config) string {
	path := cfg.Path
	if path == "" {
		path = ":memory:"
	}
	if mode, ok := cfg.Options["mode"]; ok {
		return path + "?mode=" + mode
	}
	return path
}
