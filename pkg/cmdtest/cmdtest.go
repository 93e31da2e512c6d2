// Package cmdtest provides testify-style assertions on command exit statuses.
//
//	status := run(ctx, args)
//	cmdtest.Failed(t, status)
//	cmdtest.IsInvalid(t, status, "missing flag must be rejected")
//
// A failed assertion reads like
//
//	Failed asserting that the command failed.
//	Command succeeded.
package cmdtest

import (
	"fmt"

	"github.com/stretchr/testify/assert"
)

// Exit statuses understood by the assertions.
const (
	Success = 0
	Failure = 1
	Invalid = 2
)

// Succeeded asserts that status is Success.
func Succeeded(t assert.TestingT, status int, msgAndArgs ...any) bool {
	if h, ok := t.(interface{ Helper() }); ok {
		h.Helper()
	}
	return check(t, status, Success, "succeeded", map[int]string{
		Failure: "Command failed.",
		Invalid: "Command was invalid.",
	}, msgAndArgs...)
}

// Failed asserts that status is Failure.
func Failed(t assert.TestingT, status int, msgAndArgs ...any) bool {
	if h, ok := t.(interface{ Helper() }); ok {
		h.Helper()
	}
	return check(t, status, Failure, "failed", map[int]string{
		Success: "Command succeeded.",
		Invalid: "Command was invalid.",
	}, msgAndArgs...)
}

// IsInvalid asserts that status is Invalid.
func IsInvalid(t assert.TestingT, status int, msgAndArgs ...any) bool {
	if h, ok := t.(interface{ Helper() }); ok {
		h.Helper()
	}
	return check(t, status, Invalid, "is invalid", map[int]string{
		Success: "Command succeeded.",
		Failure: "Command failed.",
	}, msgAndArgs...)
}

func check(t assert.TestingT, status, want int, expectation string, known map[int]string, msgAndArgs ...any) bool {
	if status == want {
		return true
	}
	return assert.Fail(t, Describe(expectation, status, known), msgAndArgs...)
}

// Describe builds the failure text for an expectation ("failed",
// "is invalid") that status did not meet. known maps statuses to
// their explanation; others are reported by number.
func Describe(expectation string, status int, known map[int]string) string {
	detail, ok := known[status]
	if !ok {
		detail = fmt.Sprintf("Command returned exit status %d.", status)
	}
	return "Failed asserting that the command " + expectation + ".\n" + detail
}
