package sqlbind

import (
	_ "github.com/marcboeker/go-duckdb" // duckdb driver
)

func init() {
	Register(Driver{
		Name:      "duckdb",
		SQLDriver: "duckdb",
		DSN:       buildDuckDBDSN,
	})
}

// buildDuckDBDSN returns the DuckDB data source name.
// An empty path selects an in-memory database.
func buildDuckDBDSN(cfg Config) string {
	if cfg.Path == "" {
		return ":memory:"
	}
	return cfg.Path
}
