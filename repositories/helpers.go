package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
)

type SQLExecutor interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

var (
	ErrDuplicate        = errors.New("duplicate record")
	ErrReferenceInvalid = errors.New("referenced record does not exist")
	ErrConcurrentUpdate = errors.New("concurrent update, retry the operation")
)

// Коды ошибок PostgreSQL, которые переводятся в ошибки репозиториев.
const (
	pqUniqueViolation      = "23505"
	pqForeignKeyViolation  = "23503"
	pqSerializationFailure = "40001"
	pqDeadlockDetected     = "40P01"
)

// translatePQError переводит ошибки драйвера в ошибки репозиториев.
// Ошибки других типов возвращаются без изменений.
func translatePQError(err error) error {
	if err == nil {
		return nil
	}
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return err
	}
	switch pqErr.Code {
	case pqUniqueViolation:
		return fmt.Errorf("%w: %s", ErrDuplicate, pqErr.Constraint)
	case pqForeignKeyViolation:
		return fmt.Errorf("%w: %s", ErrReferenceInvalid, pqErr.Constraint)
	case pqSerializationFailure, pqDeadlockDetected:
		return fmt.Errorf("%w: %s", ErrConcurrentUpdate, pqErr.Message)
	}
	return err
}

func checkAffectedRows(result sql.Result, notFoundError error) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows: %w", err)
	}
	if rowsAffected == 0 {
		return notFoundError
	}
	return nil
}

func nullIntPtr(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	i := int(v.Int64)
	return &i
}

func nullTimePtr(v sql.NullTime) *time.Time {
	if !v.Valid {
		return nil
	}
	t := v.Time
	return &t
}

func nullStringPtr(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}
