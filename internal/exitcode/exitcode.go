// Package exitcode maps command errors to process exit statuses.
package exitcode

import (
	"errors"
	"strconv"
	"strings"
)

// Exit codes. Usage follows sysexits.h; every other failure is a plain 1.
const (
	// OK indicates successful completion, including skipped files and
	// informational not-found conditions.
	OK = 0

	// Failure indicates a user or environment error: an unknown rule-set,
	// a missing template, a target that exists without --force, or an I/O error.
	Failure = 1

	// Usage indicates a command line usage error: an unknown flag, a wrong
	// argument count, or an argument such as a rule name that cannot be used.
	Usage = 64
)

// Error attaches an explicit exit status to an error.
type Error struct {
	Code int
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return "exit status " + strconv.Itoa(e.Code)
	}
	return e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New wraps err with the given exit status.
func New(code int, err error) error {
	return &Error{Code: code, Err: err}
}

// Code returns the process exit status for err.
func Code(err error) int {
	if err == nil {
		return OK
	}

	var coded *Error
	if errors.As(err, &coded) {
		return coded.Code
	}

	if isUsageError(err) {
		return Usage
	}

	return Failure
}

// Cobra does not expose typed usage errors, so match on its message prefixes.
// See: https://github.com/spf13/cobra/pull/2266
func isUsageError(err error) bool {
	s := err.Error()
	for _, prefix := range []string{
		"flag needs an argument:",
		"unknown flag:",
		"unknown shorthand flag:",
		"unknown command",
		"invalid argument",
		"accepts ",
		"requires at least",
		"if any flags in the group",
	} {
		if strings.HasPrefix(s, prefix) {
			return true
		}
	}

	return false
}
