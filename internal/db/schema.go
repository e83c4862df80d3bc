package db

import (
	"embed"
	"fmt"
	"strings"
)

//go:embed schema/*.sql
var schemaFS embed.FS

type Dialect string

const (
	DialectPostgres Dialect = "postgres"
	DialectSQLite   Dialect = "sqlite"
)

// Schema returns the DDL statements for the dialect in execution order.
// Every statement is idempotent.
func Schema(dialect Dialect) ([]string, error) {
	data, err := schemaFS.ReadFile(fmt.Sprintf("schema/%s.sql", dialect))
	if err != nil {
		return nil, fmt.Errorf("read %s schema: %w", dialect, err)
	}

	var statements []string
	for _, stmt := range strings.Split(string(data), ";") {
		stmt = strings.TrimSpace(stripComments(stmt))
		if stmt == "" {
			continue
		}
		statements = append(statements, stmt)
	}

	return statements, nil
}

func stripComments(stmt string) string {
	lines := strings.Split(stmt, "\n")
	out := lines[:0]
	for _, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "--") {
			continue
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}
