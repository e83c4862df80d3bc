package db

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchemaStatements(t *testing.T) {
	for _, dialect := range []Dialect{DialectPostgres, DialectSQLite} {
		t.Run(string(dialect), func(t *testing.T) {
			statements, err := Schema(dialect)
			require.NoError(t, err)
			require.NotEmpty(t, statements)

			var sawRequests bool
			for _, stmt := range statements {
				assert.NotContains(t, stmt, "--")
				assert.NotEmpty(t, strings.TrimSpace(stmt))
				if strings.Contains(stmt, "TABLE IF NOT EXISTS") && strings.Contains(stmt, "document_requests (") {
					sawRequests = true
				}
			}
			assert.True(t, sawRequests)
		})
	}
}

func TestSchemaUnknownDialect(t *testing.T) {
	_, err := Schema(Dialect("mysql"))
	assert.Error(t, err)
}
