package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// placeholder appends a positional argument placeholder to a query
// fragment, e.g. placeholder(" LIMIT", 2) -> " LIMIT $2".
func placeholder(keyword string, n int) string {
	return fmt.Sprintf("%s $%d", keyword, n)
}
