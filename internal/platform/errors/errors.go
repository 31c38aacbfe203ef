// Package errors is the project error type. Import it as perr.
//
// Every failure the tools report carries an ErrorCode; the commands turn the
// code into a log label and a process exit status
package errors

import (
	stderrs "errors"
	"fmt"
)

// ErrorCode classifies a failure. Values are stable
type ErrorCode uint16

const (
	ErrorCodeUnknown         ErrorCode = iota
	ErrorCodeInvalidArgument           // bad flags or parameters
	ErrorCodeValidation                // input data failed validation
	ErrorCodeJSON                      // undecodable JSON
	ErrorCodeIO                        // local filesystem
	ErrorCodeRepair                    // a known-malformed source that could not be repaired
	ErrorCodeNotFound
	ErrorCodeUnauthorized // missing or rejected credentials
	ErrorCodeConflict
	ErrorCodeUnavailable // transient network or dependency failure
	ErrorCodeRemote      // a sink rejected the request
	ErrorCodeDB
	ErrorCodeDuplicateKey
)

// exit statuses: 2 is a usage problem, 3 a credential problem
var codes = map[ErrorCode]struct {
	label string
	exit  int
}{
	ErrorCodeUnknown:         {"unknown", 1},
	ErrorCodeInvalidArgument: {"invalid_argument", 2},
	ErrorCodeValidation:      {"validation", 2},
	ErrorCodeJSON:            {"json", 1},
	ErrorCodeIO:              {"io", 1},
	ErrorCodeRepair:          {"repair", 1},
	ErrorCodeNotFound:        {"not_found", 1},
	ErrorCodeUnauthorized:    {"unauthorized", 3},
	ErrorCodeConflict:        {"conflict", 1},
	ErrorCodeUnavailable:     {"unavailable", 1},
	ErrorCodeRemote:          {"remote", 1},
	ErrorCodeDB:              {"db", 1},
	ErrorCodeDuplicateKey:    {"duplicate_key", 1},
}

// Label returns the short log label for c
func Label(c ErrorCode) string {
	if m, ok := codes[c]; ok {
		return m.label
	}
	return codes[ErrorCodeUnknown].label
}

func (c ErrorCode) String() string { return Label(c) }

// ExitCode is the process status for err; 0 when err is nil
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	if m, ok := codes[CodeOf(err)]; ok {
		return m.exit
	}
	return 1
}

// Error carries a code, a message and an optional cause. Field names the
// offending input (a flag, a column); Op names the step or file involved
type Error struct {
	code  ErrorCode
	msg   string
	cause error
	field string
	op    string
}

func (e *Error) Error() string {
	switch {
	case e == nil:
		return "<nil>"
	case e.cause == nil:
		return e.msg
	default:
		return e.msg + ": " + e.cause.Error()
	}
}

func (e *Error) Unwrap() error   { return e.cause }
func (e *Error) Code() ErrorCode { return e.code }
func (e *Error) Field() string   { return e.field }
func (e *Error) Op() string      { return e.op }

// As returns the outermost *Error in err's chain
func As(err error) (*Error, bool) {
	var e *Error
	ok := stderrs.As(err, &e)
	return e, ok
}

// CodeOf returns err's code, or Unknown for foreign errors
func CodeOf(err error) ErrorCode {
	if e, ok := As(err); ok {
		return e.code
	}
	return ErrorCodeUnknown
}

// IsCode reports whether err carries code
func IsCode(err error, code ErrorCode) bool { return CodeOf(err) == code }

// WithField returns a copy of err naming field. Foreign errors pass through
func WithField(err error, field string) error {
	e, ok := As(err)
	if !ok {
		return err
	}
	c := *e
	c.field = field
	return &c
}

// WithOp returns a copy of err tagged with op. Foreign errors pass through
func WithOp(err error, op string) error {
	e, ok := As(err)
	if !ok {
		return err
	}
	c := *e
	c.op = op
	return &c
}

func New(code ErrorCode, msg string) error { return &Error{code: code, msg: msg} }

func Newf(code ErrorCode, format string, a ...any) error {
	return New(code, fmt.Sprintf(format, a...))
}

// Wrap attaches cause to a new error with code and msg
func Wrap(cause error, code ErrorCode, msg string) error {
	return &Error{code: code, msg: msg, cause: cause}
}

func Wrapf(cause error, code ErrorCode, format string, a ...any) error {
	return Wrap(cause, code, fmt.Sprintf(format, a...))
}

func NotFoundf(format string, a ...any) error { return Newf(ErrorCodeNotFound, format, a...) }

func InvalidArgf(format string, a ...any) error {
	return Newf(ErrorCodeInvalidArgument, format, a...)
}

func JSONErrf(format string, a ...any) error { return Newf(ErrorCodeJSON, format, a...) }

func Unauthorizedf(format string, a ...any) error {
	return Newf(ErrorCodeUnauthorized, format, a...)
}

func Remotef(format string, a ...any) error { return Newf(ErrorCodeRemote, format, a...) }

func Unavailablef(format string, a ...any) error {
	return Newf(ErrorCodeUnavailable, format, a...)
}
