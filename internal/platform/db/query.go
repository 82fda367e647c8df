package db

import (
	"errors"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// Where accumulates AND-ed conditions with positional arguments.
type Where struct {
	clauses []string
	args    []any
}

// Add appends a condition. Every "$?" in expr is bound to arg.
func (w *Where) Add(expr string, arg any) {
	w.args = append(w.args, arg)
	w.clauses = append(w.clauses, strings.ReplaceAll(expr, "$?", "$"+strconv.Itoa(len(w.args))))
}

// AddRaw appends a condition without arguments.
func (w *Where) AddRaw(expr string) {
	w.clauses = append(w.clauses, expr)
}

// SQL renders the WHERE clause, or "" when empty.
func (w *Where) SQL() string {
	if len(w.clauses) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.clauses, " AND ")
}

// Args returns the bound arguments.
func (w *Where) Args() []any {
	return append([]any(nil), w.args...)
}

// Next returns the placeholder index for an argument appended after the conditions.
func (w *Where) Next(offset int) string {
	return "$" + strconv.Itoa(len(w.args)+offset)
}

// Like wraps a search term for ILIKE matching.
func Like(term string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + replacer.Replace(term) + "%"
}

// IsUniqueViolation reports whether err is a unique constraint failure.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
