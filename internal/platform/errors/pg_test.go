package errors

import (
	stderrs "errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func pg(code, col string) *pgconn.PgError {
	return &pgconn.PgError{Code: code, ColumnName: col, Message: "pg says no"}
}

func TestDBErrorCode(t *testing.T) {
	cases := []struct {
		state string
		want  ErrorCode
	}{
		{"23505", ErrorCodeDuplicateKey},
		{"23502", ErrorCodeValidation},
		{"23514", ErrorCodeValidation},
		{"22001", ErrorCodeInvalidArgument},
		{"22021", ErrorCodeInvalidArgument},
		{"28P01", ErrorCodeUnauthorized},
		{"28000", ErrorCodeUnauthorized},
		{"42501", ErrorCodeUnauthorized},
		{"57P03", ErrorCodeUnavailable},
		{"08006", ErrorCodeUnavailable},
		{"25006", ErrorCodeUnavailable},
		{"42P01", ErrorCodeDB},
		{"XX000", ErrorCodeDB},
		{"", ErrorCodeDB},
	}
	for _, c := range cases {
		got, ok := DBErrorCode(pg(c.state, ""))
		if !ok || got != c.want {
			t.Fatalf("DBErrorCode(%q) = %v,%v want %v", c.state, got, ok, c.want)
		}
	}
	if _, ok := DBErrorCode(stderrs.New("plain")); ok {
		t.Fatalf("DBErrorCode matched a foreign error")
	}
}

func TestFromPostgres(t *testing.T) {
	if FromPostgres(nil, "x") != nil {
		t.Fatalf("FromPostgres(nil) should be nil")
	}

	src := pg("23502", " question ")
	err := FromPostgres(src, "insert rows")
	if CodeOf(err) != ErrorCodeValidation {
		t.Fatalf("code = %v", CodeOf(err))
	}
	e, _ := As(err)
	if e.Field() != "question" {
		t.Fatalf("field = %q, want question", e.Field())
	}
	var pe *pgconn.PgError
	if !stderrs.As(err, &pe) || pe != src {
		t.Fatalf("cause not kept")
	}

	plain := FromPostgresf(stderrs.New("conn reset"), "insert %d rows", 3)
	if CodeOf(plain) != ErrorCodeDB || plain.Error() != "insert 3 rows: conn reset" {
		t.Fatalf("FromPostgresf = %v (%v)", plain, CodeOf(plain))
	}
	if e, _ := As(plain); e.Field() != "" {
		t.Fatalf("field set without a pg error: %q", e.Field())
	}
}

func TestIsDuplicateKey(t *testing.T) {
	if !IsDuplicateKey(Wrap(pg("23505", ""), ErrorCodeDB, "x")) {
		t.Fatalf("IsDuplicateKey false through a wrap")
	}
	if IsDuplicateKey(pg("23502", "")) || IsDuplicateKey(stderrs.New("nope")) {
		t.Fatalf("IsDuplicateKey true for a non-unique error")
	}
}
