package errors

import (
	stderrs "errors"
	"testing"
)

func TestErrorTypeAndMethods(t *testing.T) {
	var e *Error
	if e.Error() != "<nil>" {
		t.Fatalf("nil *Error render = %q, want <nil>", e.Error())
	}

	e1 := New(ErrorCodeValidation, "bad stuff")
	if CodeOf(e1) != ErrorCodeValidation {
		t.Fatalf("CodeOf(New) = %v", CodeOf(e1))
	}
	e2 := Newf(ErrorCodeJSON, "bad json at %d", 12)
	if got := e2.Error(); got != "bad json at 12" {
		t.Fatalf("Newf().Error = %q", got)
	}

	src := stderrs.New("root")
	e3 := Wrap(src, ErrorCodeIO, "read failed")
	if u := stderrs.Unwrap(e3); u == nil || u.Error() != "root" {
		t.Fatalf("Wrap did not keep orig")
	}
	e4 := Wrapf(src, ErrorCodeRepair, "fix %s", "book1.json")
	if want := "fix book1.json: root"; e4.Error() != want {
		t.Fatalf("Wrapf().Error = %q, want %q", e4.Error(), want)
	}
	if got, ok := As(e4); !ok || got.Code() != ErrorCodeRepair {
		t.Fatalf("As() failed for our error")
	}
	if _, ok := As(src); ok {
		t.Fatalf("As() true for foreign error")
	}

	e5 := WithOp(WithField(e3, "answers"), "extract")
	got, _ := As(e5)
	if got.Field() != "answers" || got.Op() != "extract" {
		t.Fatalf("field/op = %q/%q", got.Field(), got.Op())
	}
	if orig, _ := As(e3); orig.Field() != "" || orig.Op() != "" {
		t.Fatalf("mutators must copy, original changed")
	}
	if WithField(src, "x") != src || WithOp(src, "y") != src {
		t.Fatalf("mutators should pass foreign errors through")
	}

	if u := stderrs.Unwrap(e5); u != src {
		t.Fatalf("mutated copy lost the cause: %v", u)
	}
}

func TestSugarCodes(t *testing.T) {
	cases := []struct {
		err  error
		want ErrorCode
	}{
		{NotFoundf("x"), ErrorCodeNotFound},
		{InvalidArgf("x"), ErrorCodeInvalidArgument},
		{JSONErrf("x"), ErrorCodeJSON},
		{Unauthorizedf("x"), ErrorCodeUnauthorized},
		{Remotef("x"), ErrorCodeRemote},
		{Unavailablef("x"), ErrorCodeUnavailable},
	}
	for _, c := range cases {
		if CodeOf(c.err) != c.want {
			t.Fatalf("CodeOf(%v) = %v, want %v", c.err, CodeOf(c.err), c.want)
		}
	}
}

func TestLabelAndExitCode(t *testing.T) {
	if Label(ErrorCodeRepair) != "repair" || ErrorCodeJSON.String() != "json" {
		t.Fatalf("labels mismatch")
	}
	if Label(9999) != "unknown" {
		t.Fatalf("unknown code label = %q", Label(9999))
	}

	cases := []struct {
		err  error
		want int
	}{
		{nil, 0},
		{InvalidArgf("bad flag"), 2},
		{New(ErrorCodeValidation, "bad repo"), 2},
		{Unauthorizedf("no token"), 3},
		{Remotef("rejected"), 1},
		{Wrap(Unauthorizedf("401"), ErrorCodeUnavailable, "outer"), 1},
		{stderrs.New("foreign"), 1},
	}
	for _, c := range cases {
		if got := ExitCode(c.err); got != c.want {
			t.Fatalf("ExitCode(%v) = %d, want %d", c.err, got, c.want)
		}
	}
}
