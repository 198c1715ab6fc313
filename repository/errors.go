package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrAdminNotFound   = errors.New("admin not found")
	ErrAdminExists     = errors.New("admin already exists")
	ErrIkanNotFound    = errors.New("product not found")
	ErrSettingNotFound = errors.New("setting not found")
	ErrEmptySearchTerm = errors.New("search term is empty")
)

// isUniqueViolation reports whether err is a postgres unique_violation (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
