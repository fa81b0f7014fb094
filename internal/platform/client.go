// Package platform is the thin client for the managed data platform: generic
// row queries, named remote-procedure calls, and storage URL derivation. All
// persistence, access control, and the atomic registration routine live on the
// platform side; nothing here mutates data except through Call.
package platform

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// identRe constrains table, column, and routine names. Values always travel
// through placeholders; identifiers cannot, so they are validated instead.
var identRe = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// Filter is a single equality/comparison predicate. Op is one of "eq", "gte",
// "lt".
type Filter struct {
	Column string
	Op     string
	Value  any
}

// Order is a single-column ordering.
type Order struct {
	Column string
	Desc   bool
}

// Arg is one named argument to a remote routine. Order is preserved so the
// generated SQL is deterministic.
type Arg struct {
	Name  string
	Value any
}

// NamedArgs is an ordered list of routine arguments.
type NamedArgs []Arg

// Client executes read queries and routine calls against the platform.
type Client struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// NewClient creates a platform client.
func NewClient(pool *pgxpool.Pool, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{pool: pool, logger: logger}
}

// Select runs a read-only row retrieval with optional filters, ordering, and a
// row cap. The caller owns the returned rows and must Close them.
func (c *Client) Select(ctx context.Context, table string, columns []string, filters []Filter, order *Order, limit int) (pgx.Rows, error) {
	query, args, err := buildSelect(table, columns, filters, order, limit)
	if err != nil {
		return nil, err
	}
	rows, err := c.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select %s: %w", table, err)
	}
	return rows, nil
}

// SelectOne runs a single-row lookup. The returned row reports
// pgx.ErrNoRows on scan when nothing matched, never an empty result set.
func (c *Client) SelectOne(ctx context.Context, table string, columns []string, filters []Filter) (pgx.Row, error) {
	query, args, err := buildSelect(table, columns, filters, nil, 1)
	if err != nil {
		return nil, err
	}
	return c.pool.QueryRow(ctx, query, args...), nil
}

// Call invokes a named server-side routine with named arguments and scans its
// single result into dest. This is the only write path in the whole service:
// the routine performs its checks and inserts as one indivisible operation on
// the platform.
func (c *Client) Call(ctx context.Context, routine string, args NamedArgs, dest ...any) error {
	query, values, err := buildCall(routine, args)
	if err != nil {
		return err
	}
	if err := c.pool.QueryRow(ctx, query, values...).Scan(dest...); err != nil {
		return fmt.Errorf("call %s: %w", routine, err)
	}
	return nil
}

func buildSelect(table string, columns []string, filters []Filter, order *Order, limit int) (string, []any, error) {
	if !identRe.MatchString(table) {
		return "", nil, fmt.Errorf("invalid table name %q", table)
	}
	if len(columns) == 0 {
		return "", nil, fmt.Errorf("no columns for select on %s", table)
	}
	for _, col := range columns {
		if !identRe.MatchString(col) {
			return "", nil, fmt.Errorf("invalid column name %q", col)
		}
	}

	var b strings.Builder
	b.WriteString("SELECT ")
	b.WriteString(strings.Join(columns, ", "))
	b.WriteString(" FROM ")
	b.WriteString(table)

	var args []any
	for i, f := range filters {
		if !identRe.MatchString(f.Column) {
			return "", nil, fmt.Errorf("invalid filter column %q", f.Column)
		}
		var op string
		switch f.Op {
		case "eq":
			op = "="
		case "gte":
			op = ">="
		case "lt":
			op = "<"
		default:
			return "", nil, fmt.Errorf("unsupported filter op %q", f.Op)
		}
		if i == 0 {
			b.WriteString(" WHERE ")
		} else {
			b.WriteString(" AND ")
		}
		args = append(args, f.Value)
		fmt.Fprintf(&b, "%s %s $%d", f.Column, op, len(args))
	}

	if order != nil {
		if !identRe.MatchString(order.Column) {
			return "", nil, fmt.Errorf("invalid order column %q", order.Column)
		}
		b.WriteString(" ORDER BY ")
		b.WriteString(order.Column)
		if order.Desc {
			b.WriteString(" DESC")
		} else {
			b.WriteString(" ASC")
		}
	}

	if limit > 0 {
		args = append(args, limit)
		fmt.Fprintf(&b, " LIMIT $%d", len(args))
	}
	return b.String(), args, nil
}

func buildCall(routine string, args NamedArgs) (string, []any, error) {
	if !identRe.MatchString(routine) {
		return "", nil, fmt.Errorf("invalid routine name %q", routine)
	}
	var b strings.Builder
	b.WriteString("SELECT ")
	b.WriteString(routine)
	b.WriteString("(")
	values := make([]any, 0, len(args))
	for i, a := range args {
		if !identRe.MatchString(a.Name) {
			return "", nil, fmt.Errorf("invalid argument name %q", a.Name)
		}
		if i > 0 {
			b.WriteString(", ")
		}
		values = append(values, a.Value)
		fmt.Fprintf(&b, "%s => $%d", a.Name, len(values))
	}
	b.WriteString(")")
	return b.String(), values, nil
}
