package querybuilder

import (
	"fmt"
	"strconv"
	"strings"
)

// sqlWriter accumulates SQL text and its positional ($n) arguments.
type sqlWriter struct {
	buf  strings.Builder
	args []any
}

func (w *sqlWriter) raw(parts ...string) {
	for _, p := range parts {
		w.buf.WriteString(p)
	}
}

func (w *sqlWriter) bind(value any) {
	w.args = append(w.args, value)
	w.buf.WriteString("$")
	w.buf.WriteString(strconv.Itoa(len(w.args)))
}

// expr writes a fragment whose ? markers are bound to exprArgs in order.
// Surplus markers are kept verbatim.
func (w *sqlWriter) expr(fragment string, exprArgs []any) {
	next := 0
	for i := 0; i < len(fragment); i++ {
		if fragment[i] == '?' && next < len(exprArgs) {
			w.bind(exprArgs[next])
			next++
			continue
		}
		w.buf.WriteByte(fragment[i])
	}
}

func (w *sqlWriter) where(conditions []Condition) {
	for i, c := range conditions {
		if i == 0 {
			w.raw(" WHERE ")
		} else {
			w.raw(" AND ")
		}
		c.appendSQL(w)
	}
}

func (w *sqlWriter) list(keyword string, parts []string) {
	if len(parts) == 0 {
		return
	}
	w.raw(" ", keyword, " ", strings.Join(parts, ", "))
}

func (w *sqlWriter) finish() (string, []any, error) {
	return w.buf.String(), w.args, nil
}

type Condition interface {
	appendSQL(w *sqlWriter)
}

type eqCondition struct {
	column string
	value  any
}

func Eq(column string, value any) Condition {
	return eqCondition{column: column, value: value}
}

func (c eqCondition) appendSQL(w *sqlWriter) {
	w.raw(c.column, " = ")
	w.bind(c.value)
}

type isNullCondition struct {
	column string
}

func IsNull(column string) Condition {
	return isNullCondition{column: column}
}

func (c isNullCondition) appendSQL(w *sqlWriter) {
	w.raw(c.column, " IS NULL")
}

type exprCondition struct {
	expr string
	args []any
}

// Expr is a raw condition using ? as argument markers.
func Expr(expr string, args ...any) Condition {
	return exprCondition{expr: expr, args: args}
}

func (c exprCondition) appendSQL(w *sqlWriter) {
	w.expr(c.expr, c.args)
}

type SelectBuilder struct {
	columns []string
	table   string
	where   []Condition
	orderBy []string
	limit   int
}

func Select(columns ...string) *SelectBuilder {
	return &SelectBuilder{columns: append([]string(nil), columns...)}
}

func (b *SelectBuilder) From(table string) *SelectBuilder {
	b.table = table
	return b
}

func (b *SelectBuilder) Where(conditions ...Condition) *SelectBuilder {
	b.where = append(b.where, conditions...)
	return b
}

func (b *SelectBuilder) OrderBy(parts ...string) *SelectBuilder {
	b.orderBy = append(b.orderBy, parts...)
	return b
}

func (b *SelectBuilder) Limit(limit int) *SelectBuilder {
	b.limit = limit
	return b
}

func (b *SelectBuilder) ToSQL() (string, []any, error) {
	if len(b.columns) == 0 {
		return "", nil, fmt.Errorf("select columns are required")
	}
	if strings.TrimSpace(b.table) == "" {
		return "", nil, fmt.Errorf("select table is required")
	}

	var w sqlWriter
	w.raw("SELECT ", strings.Join(b.columns, ", "), " FROM ", b.table)
	w.where(b.where)
	w.list("ORDER BY", b.orderBy)
	if b.limit > 0 {
		w.raw(" LIMIT ", strconv.Itoa(b.limit))
	}
	return w.finish()
}

type InsertBuilder struct {
	table     string
	columns   []string
	rows      [][]any
	suffix    string
	returning []string
}

func InsertInto(table string) *InsertBuilder {
	return &InsertBuilder{table: table}
}

func (b *InsertBuilder) Columns(columns ...string) *InsertBuilder {
	b.columns = append([]string(nil), columns...)
	return b
}

func (b *InsertBuilder) Values(values ...any) *InsertBuilder {
	b.rows = append(b.rows, append([]any(nil), values...))
	return b
}

// Suffix is appended after VALUES, typically an ON CONFLICT clause.
func (b *InsertBuilder) Suffix(sql string) *InsertBuilder {
	b.suffix = strings.TrimSpace(sql)
	return b
}

func (b *InsertBuilder) Returning(columns ...string) *InsertBuilder {
	b.returning = append(b.returning, columns...)
	return b
}

func (b *InsertBuilder) ToSQL() (string, []any, error) {
	if strings.TrimSpace(b.table) == "" {
		return "", nil, fmt.Errorf("insert table is required")
	}
	if len(b.columns) == 0 {
		return "", nil, fmt.Errorf("insert columns are required")
	}
	if len(b.rows) == 0 {
		return "", nil, fmt.Errorf("insert values are required")
	}

	var w sqlWriter
	w.raw("INSERT INTO ", b.table, " (", strings.Join(b.columns, ", "), ") VALUES ")
	for rowIdx, row := range b.rows {
		if len(row) != len(b.columns) {
			return "", nil, fmt.Errorf("insert row %d has %d values, expected %d", rowIdx, len(row), len(b.columns))
		}
		if rowIdx > 0 {
			w.raw(", ")
		}
		w.raw("(")
		for colIdx, value := range row {
			if colIdx > 0 {
				w.raw(", ")
			}
			w.bind(value)
		}
		w.raw(")")
	}

	if b.suffix != "" {
		w.raw(" ", b.suffix)
	}
	w.list("RETURNING", b.returning)
	return w.finish()
}

type setClause struct {
	column string
	value  any
	expr   *exprCondition
}

type UpdateBuilder struct {
	table     string
	sets      []setClause
	where     []Condition
	returning []string
}

func Update(table string) *UpdateBuilder {
	return &UpdateBuilder{table: table}
}

func (b *UpdateBuilder) Set(column string, value any) *UpdateBuilder {
	b.sets = append(b.sets, setClause{column: column, value: value})
	return b
}

// SetExpr assigns a raw expression using ? as argument markers.
func (b *UpdateBuilder) SetExpr(column, expr string, args ...any) *UpdateBuilder {
	b.sets = append(b.sets, setClause{column: column, expr: &exprCondition{expr: expr, args: args}})
	return b
}

func (b *UpdateBuilder) Where(conditions ...Condition) *UpdateBuilder {
	b.where = append(b.where, conditions...)
	return b
}

func (b *UpdateBuilder) Returning(columns ...string) *UpdateBuilder {
	b.returning = append(b.returning, columns...)
	return b
}

func (b *UpdateBuilder) ToSQL() (string, []any, error) {
	if strings.TrimSpace(b.table) == "" {
		return "", nil, fmt.Errorf("update table is required")
	}
	if len(b.sets) == 0 {
		return "", nil, fmt.Errorf("update sets are required")
	}

	var w sqlWriter
	w.raw("UPDATE ", b.table, " SET ")
	for i, s := range b.sets {
		if i > 0 {
			w.raw(", ")
		}
		w.raw(s.column, " = ")
		if s.expr != nil {
			s.expr.appendSQL(&w)
			continue
		}
		w.bind(s.value)
	}

	w.where(b.where)
	w.list("RETURNING", b.returning)
	return w.finish()
}

type DeleteBuilder struct {
	table     string
	where     []Condition
	returning []string
}

func DeleteFrom(table string) *DeleteBuilder {
	return &DeleteBuilder{table: table}
}

func (b *DeleteBuilder) Where(conditions ...Condition) *DeleteBuilder {
	b.where = append(b.where, conditions...)
	return b
}

func (b *DeleteBuilder) Returning(columns ...string) *DeleteBuilder {
	b.returning = append(b.returning, columns...)
	return b
}

// ToSQL refuses to build an unfiltered delete.
func (b *DeleteBuilder) ToSQL() (string, []any, error) {
	if strings.TrimSpace(b.table) == "" {
		return "", nil, fmt.Errorf("delete table is required")
	}
	if len(b.where) == 0 {
		return "", nil, fmt.Errorf("delete without conditions is not allowed")
	}

	var w sqlWriter
	w.raw("DELETE FROM ", b.table)
	w.where(b.where)
	w.list("RETURNING", b.returning)
	return w.finish()
}
