package db

import (
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"
)

func TestWhereBuildsPositionalArgs(t *testing.T) {
	var w Where
	require.Equal(t, "", w.SQL())

	w.AddRaw("b.is_deleted = FALSE")
	w.Add("b.user_id = $?", int64(7))
	w.Add("(b.bill_no ILIKE $? OR c.name ILIKE $?)", Like("50%"))

	require.Equal(t, " WHERE b.is_deleted = FALSE AND b.user_id = $1 AND (b.bill_no ILIKE $2 OR c.name ILIKE $2)", w.SQL())
	require.Equal(t, []any{int64(7), `%50\%%`}, w.Args())
	require.Equal(t, "$3", w.Next(1))
}

func TestIsUniqueViolation(t *testing.T) {
	require.True(t, IsUniqueViolation(&pgconn.PgError{Code: "23505"}))
	require.False(t, IsUniqueViolation(&pgconn.PgError{Code: "23503"}))
	require.False(t, IsUniqueViolation(nil))
}
