package helper

import (
	"errors"
	"net/http"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

const (
	sqlStateUniqueViolation     = "23505"
	sqlStateForeignKeyViolation = "23503"
	sqlStateCheckViolation      = "23514"
)

func sqlState(err error) string {
	var pgxErr *pgconn.PgError
	if errors.As(err, &pgxErr) {
		return pgxErr.Code
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code)
	}
	return ""
}

// IsUniqueViolation recognizes duplicate-key errors from pgx, lib/pq, gorm's
// translated error and, as a last resort, the driver message (sqlite).
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) || sqlState(err) == sqlStateUniqueViolation {
		return true
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "duplicate key") ||
		strings.Contains(s, "unique constraint") ||
		strings.Contains(s, "sqlstate 23505")
}

// MapPGError maps constraint violations to an HTTP status and a safe message.
// Unknown errors map to 500 and the caller is expected to log them.
func MapPGError(err error) (int, string) {
	if IsUniqueViolation(err) {
		return http.StatusConflict, "duplicate data (unique violation)"
	}
	switch sqlState(err) {
	case sqlStateForeignKeyViolation:
		return http.StatusBadRequest, "referenced record not found"
	case sqlStateCheckViolation:
		return http.StatusBadRequest, "value rejected by constraint"
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return http.StatusNotFound, "record not found"
	}
	return http.StatusInternalServerError, ""
}
