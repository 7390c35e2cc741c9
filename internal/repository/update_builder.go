package repository

import (
	"fmt"
	"strings"
)

// UpdateBuilder assembles a parameterised UPDATE statement from a whitelist of columns.
type UpdateBuilder struct {
	table   string
	allowed map[string]struct{}
	columns []string
	args    []interface{}
	err     error
}

// NewUpdateBuilder returns a builder that only accepts the given columns.
func NewUpdateBuilder(table string, columns ...string) *UpdateBuilder {
	allowed := make(map[string]struct{}, len(columns))
	for _, col := range columns {
		allowed[col] = struct{}{}
	}
	return &UpdateBuilder{table: table, allowed: allowed}
}

// Set queues column = value. Unknown or repeated columns poison the builder.
func (b *UpdateBuilder) Set(column string, value interface{}) *UpdateBuilder {
	if b.err != nil {
		return b
	}
	if _, ok := b.allowed[column]; !ok {
		b.err = fmt.Errorf("update %s: column %q is not updatable", b.table, column)
		return b
	}
	for _, existing := range b.columns {
		if existing == column {
			b.err = fmt.Errorf("update %s: column %q set twice", b.table, column)
			return b
		}
	}
	b.columns = append(b.columns, column)
	b.args = append(b.args, value)
	return b
}

// SetIf queues the column only when the patch field is present.
func SetIf[T any](b *UpdateBuilder, column string, value *T) *UpdateBuilder {
	if value == nil {
		return b
	}
	return b.Set(column, *value)
}

// Empty reports whether no column has been queued.
func (b *UpdateBuilder) Empty() bool {
	return len(b.columns) == 0
}

// Build renders the statement, appending the key predicate and the given RETURNING list.
func (b *UpdateBuilder) Build(keyColumn string, key interface{}, returning string) (string, []interface{}, error) {
	if b.err != nil {
		return "", nil, b.err
	}
	if b.Empty() {
		return "", nil, fmt.Errorf("update %s: nothing to update", b.table)
	}

	assignments := make([]string, len(b.columns))
	for i, col := range b.columns {
		assignments[i] = fmt.Sprintf("%s = $%d", col, i+1)
	}
	args := append(append([]interface{}{}, b.args...), key)
	query := fmt.Sprintf("UPDATE %s SET %s WHERE %s = $%d", b.table, strings.Join(assignments, ", "), keyColumn, len(args))
	if returning != "" {
		query += " RETURNING " + returning
	}
	return query, args, nil
}
