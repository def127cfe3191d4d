package database

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// pgDialector переводит нарушения ограничений в sentinel-ошибки gorm,
// не теряя исходный *pgconn.PgError: из его Detail берётся имя поля для 409.
type pgDialector struct {
	*postgres.Dialector
}

func newPGDialector(dsn string) gorm.Dialector {
	return pgDialector{Dialector: postgres.Open(dsn).(*postgres.Dialector)}
}

func (d pgDialector) Translate(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return &constraintError{sentinel: gorm.ErrDuplicatedKey, cause: err}
		case pgForeignKeyViolation:
			return &constraintError{sentinel: gorm.ErrForeignKeyViolated, cause: err}
		}
	}
	return d.Dialector.Translate(err)
}

type constraintError struct {
	sentinel error
	cause    error
}

func (e *constraintError) Error() string { return e.cause.Error() }

func (e *constraintError) Is(target error) bool { return target == e.sentinel }

func (e *constraintError) Unwrap() error { return e.cause }
