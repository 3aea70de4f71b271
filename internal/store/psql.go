package store

import (
	"fmt"
	"sort"
	"strings"

	sq "github.com/Masterminds/squirrel"
)

func psql() sq.StatementBuilderType {
	return sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
}

// buildUpdateClause renders "col = EXCLUDED.col" for an upsert, in column order so the
// generated SQL is stable.
func buildUpdateClause(fields map[string]any) string {
	cols := make([]string, 0, len(fields))
	for field := range fields {
		cols = append(cols, field)
	}
	sort.Strings(cols)

	parts := make([]string, len(cols))
	for i, field := range cols {
		parts[i] = fmt.Sprintf("%s = EXCLUDED.%s", field, field)
	}
	return strings.Join(parts, ", ")
}
