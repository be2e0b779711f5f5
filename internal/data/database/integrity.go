package database

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"

	"bannercms/app/internal/domain/integrity"
)

// PostgreSQL SQLSTATE codes for constraint violations.
const (
	pgNotNullViolation    = "23502"
	pgForeignKeyViolation = "23503"
	pgUniqueViolation     = "23505"
)

// TranslateError maps driver constraint errors onto *integrity.Error. Errors
// that are not constraint violations are returned unchanged.
func TranslateError(err error) error {
	if err == nil {
		return nil
	}

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrConstraint {
		return translateSQLite(sqliteErr)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if translated := translatePostgres(pgErr); translated != nil {
			return translated
		}
	}

	return err
}

// translateSQLite parses messages such as
// "NOT NULL constraint failed: large_banner_plugins.title".
func translateSQLite(err sqlite3.Error) error {
	violation := &integrity.Error{Cause: err}

	switch err.ExtendedCode {
	case sqlite3.ErrConstraintNotNull:
		violation.Constraint = integrity.NotNull
	case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey:
		violation.Constraint = integrity.Unique
	case sqlite3.ErrConstraintForeignKey:
		violation.Constraint = integrity.ForeignKey
	default:
		return err
	}

	message := err.Error()
	if _, target, ok := strings.Cut(message, "constraint failed: "); ok {
		first, _, _ := strings.Cut(target, ",")
		table, column, found := strings.Cut(strings.TrimSpace(first), ".")
		if found {
			violation.Table = table
			violation.Column = column
		}
	}

	return violation
}

func translatePostgres(err *pgconn.PgError) error {
	violation := &integrity.Error{
		Table:  err.TableName,
		Column: err.ColumnName,
		Cause:  err,
	}

	switch err.Code {
	case pgNotNullViolation:
		violation.Constraint = integrity.NotNull
	case pgForeignKeyViolation:
		violation.Constraint = integrity.ForeignKey
	case pgUniqueViolation:
		violation.Constraint = integrity.Unique
	default:
		return nil
	}

	return violation
}

// Violation reports whether err is a constraint violation and returns it.
func Violation(err error) (*integrity.Error, bool) {
	return integrity.As(TranslateError(err))
}
