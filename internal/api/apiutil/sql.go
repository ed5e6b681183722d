package apiutil

import (
	"database/sql"
	"errors"
	"strings"

	"github.com/mattn/go-sqlite3"
)

func ToNullString(value string) sql.NullString {
	value = strings.TrimSpace(value)
	if value == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: value, Valid: true}
}

func IsSQLiteUniqueViolation(err error) bool {
	return hasExtendedCode(err, sqlite3.ErrConstraintUnique) ||
		hasExtendedCode(err, sqlite3.ErrConstraintPrimaryKey)
}

func IsSQLiteForeignKeyViolation(err error) bool {
	return hasExtendedCode(err, sqlite3.ErrConstraintForeignKey)
}

func IsSQLiteCheckViolation(err error) bool {
	return hasExtendedCode(err, sqlite3.ErrConstraintCheck)
}

func hasExtendedCode(err error, code sqlite3.ErrNoExtended) bool {
	var sqliteErr sqlite3.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	return sqliteErr.ExtendedCode == code
}
