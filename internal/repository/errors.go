package repository

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// ErrConflict marks a write rejected by a unique index: a ledger entry,
// snapshot or user that another writer created first.
var ErrConflict = errors.New("repository: unique constraint conflict")

const (
	pgUniqueViolation   = "23505"
	mysqlDuplicateEntry = 1062
	sqliteUniqueFailure = "UNIQUE constraint failed"
)

// conflictOn wraps err with ErrConflict and the entity name when the driver
// reports a unique violation. Other errors pass through unchanged.
func conflictOn(entity string, err error) error {
	if err == nil || !isUniqueViolation(err) {
		return err
	}
	return fmt.Errorf("%w: %s: %v", ErrConflict, entity, err)
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == mysqlDuplicateEntry
	}
	// The pure-Go sqlite driver only exposes the condition in its message.
	return strings.Contains(err.Error(), sqliteUniqueFailure)
}
