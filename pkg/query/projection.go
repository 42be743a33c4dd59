// Package query provides SQL query construction utilities with projection
// mapping between struct fields and database columns.
package query

import "fmt"

// ProjectionMap maps struct field names to aliased database columns for a table.
// The first projected field is treated as the table's key column.
type ProjectionMap struct {
	schema  string
	table   string
	alias   string
	order   []string
	columns map[string]string
}

// NewProjectionMap creates a projection for the given schema-qualified table and alias.
func NewProjectionMap(schema, table, alias string) *ProjectionMap {
	return &ProjectionMap{
		schema:  schema,
		table:   table,
		alias:   alias,
		columns: make(map[string]string),
	}
}

// Project registers a column-to-field mapping and returns the map for chaining.
func (p *ProjectionMap) Project(column, field string) *ProjectionMap {
	if _, ok := p.columns[field]; !ok {
		p.order = append(p.order, field)
	}
	p.columns[field] = column
	return p
}

// Table returns the aliased FROM clause target.
func (p *ProjectionMap) Table() string {
	return fmt.Sprintf("%s.%s %s", p.schema, p.table, p.alias)
}

// Columns returns the full aliased column list in projection order.
func (p *ProjectionMap) Columns() string {
	cols := ""
	for i, field := range p.order {
		if i > 0 {
			cols += ", "
		}
		cols += p.Column(field)
	}
	return cols
}

// Column returns the aliased column for a field. Unknown fields panic:
// a bad field name is a programming error, not a runtime condition.
func (p *ProjectionMap) Column(field string) string {
	col, ok := p.columns[field]
	if !ok {
		panic(fmt.Sprintf("query: field %q not projected for %s", field, p.table))
	}
	return fmt.Sprintf("%s.%s", p.alias, col)
}

// KeyColumn returns the aliased column of the first projected field.
func (p *ProjectionMap) KeyColumn() string {
	if len(p.order) == 0 {
		panic(fmt.Sprintf("query: no fields projected for %s", p.table))
	}
	return p.Column(p.order[0])
}
