package sqlbind

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry(t *testing.T) {
	t.Run("builtin drivers are registered", func(t *testing.T) {
		for _, name := range []string{"duckdb", "postgres", "sqlite"} {
			assert.True(t, IsRegistered(name), "driver %s should be registered", name)
		}
	})

	t.Run("list is sorted", func(t *testing.T) {
		names := List()
		require.NotEmpty(t, names)
		assert.IsType(t, []string{}, names)
		for i := 1; i < len(names); i++ {
			assert.LessOrEqual(t, names[i-1], names[i])
		}
	})

	t.Run("unknown driver", func(t *testing.T) {
		_, ok := Get("oracle")
		assert.False(t, ok)
	})
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), Config{Driver: "mysql"}, nil)
	require.Error(t, err)

	var unknownErr *UnknownDriverError
	require.ErrorAs(t, err, &unknownErr)
	assert.Equal(t, "mysql", unknownErr.Name)
	assert.Contains(t, unknownErr.Available, "sqlite")
}

func TestBuildPostgresDSN(t *testing.T) {
	tests := []struct {
		name     string
		config   Config
		expected string
	}{
		{
			name: "basic connection",
			config: Config{
				Host:     "localhost",
				Port:     5432,
				Database: "testdb",
				Username: "user",
				Password: "pass",
			},
			expected: "host=localhost port=5432 dbname=testdb sslmode=disable user=user password=pass",
		},
		{
			name: "with custom sslmode",
			config: Config{
				Host:     "prod.example.com",
				Port:     5432,
				Database: "proddb",
				Username: "admin",
				Options:  map[string]string{"sslmode": "require"},
			},
			expected: "host=prod.example.com port=5432 dbname=proddb sslmode=require user=admin",
		},
		{
			name: "defaults",
			config: Config{
				Database: "mydb",
			},
			expected: "host=localhost port=5432 dbname=mydb sslmode=disable",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, buildPostgresDSN(tt.config))
		})
	}
}

func TestBuildFileDSNs(t *testing.T) {
	assert.Equal(t, ":memory:", buildDuckDBDSN(Config{}))
	assert.Equal(t, "analytics.duckdb", buildDuckDBDSN(Config{Path: "analytics.duckdb"}))

	assert.Equal(t, ":memory:", buildSQLiteDSN(Config{}))
	assert.Equal(t, "state.db?mode=ro", buildSQLiteDSN(Config{Path: "state.db", Options: map[string]string{"mode": "ro"}}))
}
