package errors

import (
	stderrs "errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

const sqlStateUniqueViolation = "23505"

// sqlStates maps exact SQLSTATE codes; sqlClasses covers the rest by the
// two character class prefix
var (
	sqlStates = map[string]ErrorCode{
		sqlStateUniqueViolation: ErrorCodeDuplicateKey,
		"22001":                 ErrorCodeInvalidArgument, // value too long for column
		"22021":                 ErrorCodeInvalidArgument, // invalid byte sequence for encoding
		"42501":                 ErrorCodeUnauthorized,    // insufficient privilege
		"25006":                 ErrorCodeUnavailable,     // read only transaction
	}
	sqlClasses = map[string]ErrorCode{
		"08": ErrorCodeUnavailable,  // connection exception
		"23": ErrorCodeValidation,   // integrity constraint
		"28": ErrorCodeUnauthorized, // invalid authorization
		"53": ErrorCodeUnavailable,  // insufficient resources
		"57": ErrorCodeUnavailable,  // operator intervention
	}
)

func pgError(err error) (*pgconn.PgError, bool) {
	var pe *pgconn.PgError
	ok := stderrs.As(err, &pe)
	return pe, ok
}

// IsDuplicateKey reports a unique constraint violation anywhere in err's chain
func IsDuplicateKey(err error) bool {
	pe, ok := pgError(err)
	return ok && pe.Code == sqlStateUniqueViolation
}

// DBErrorCode classifies a postgres server error. ok is false when err
// carries no *pgconn.PgError
func DBErrorCode(err error) (code ErrorCode, ok bool) {
	pe, ok := pgError(err)
	if !ok {
		return ErrorCodeUnknown, false
	}
	if c, hit := sqlStates[pe.Code]; hit {
		return c, true
	}
	if len(pe.Code) == 5 {
		if c, hit := sqlClasses[pe.Code[:2]]; hit {
			return c, true
		}
	}
	return ErrorCodeDB, true
}

// FromPostgres wraps err with its mapped code, naming the column when the
// server reported one. Non-postgres errors get ErrorCodeDB
func FromPostgres(err error, msg string) error {
	if err == nil {
		return nil
	}
	code, ok := DBErrorCode(err)
	if !ok {
		code = ErrorCodeDB
	}
	out := Wrap(err, code, msg)
	if pe, ok := pgError(err); ok {
		if col := strings.TrimSpace(pe.ColumnName); col != "" {
			out = WithField(out, col)
		}
	}
	return out
}

func FromPostgresf(err error, format string, a ...any) error {
	return FromPostgres(err, fmt.Sprintf(format, a...))
}
