package cmdtest_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/acsmail/pkg/cmdtest"
)

// recorder captures assertion failures instead of failing the test.
type recorder struct {
	messages []string
}

func (r *recorder) Errorf(format string, args ...any) {
	r.messages = append(r.messages, fmt.Sprintf(format, args...))
}

func TestFailed(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		status int
		ok     bool
		detail string
	}{
		{name: "failure", status: cmdtest.Failure, ok: true},
		{name: "success", status: cmdtest.Success, detail: "Command succeeded."},
		{name: "invalid", status: cmdtest.Invalid, detail: "Command was invalid."},
		{name: "other", status: 127, detail: "Command returned exit status 127."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rec := &recorder{}
			ok := cmdtest.Failed(rec, tt.status)

			require.Equal(t, tt.ok, ok)
			if tt.ok {
				require.Empty(t, rec.messages)
				return
			}
			require.Len(t, rec.messages, 1)
			require.Contains(t, rec.messages[0], "Failed asserting that the command failed.")
			require.Contains(t, rec.messages[0], tt.detail)
		})
	}
}

func TestIsInvalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		status int
		ok     bool
		detail string
	}{
		{name: "invalid", status: cmdtest.Invalid, ok: true},
		{name: "success", status: cmdtest.Success, detail: "Command succeeded."},
		{name: "failure", status: cmdtest.Failure, detail: "Command failed."},
		{name: "other", status: 3, detail: "Command returned exit status 3."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rec := &recorder{}
			ok := cmdtest.IsInvalid(rec, tt.status)

			require.Equal(t, tt.ok, ok)
			if tt.ok {
				require.Empty(t, rec.messages)
				return
			}
			require.Len(t, rec.messages, 1)
			require.Contains(t, rec.messages[0], "Failed asserting that the command is invalid.")
			require.Contains(t, rec.messages[0], tt.detail)
		})
	}
}

func TestSucceeded(t *testing.T) {
	t.Parallel()

	rec := &recorder{}
	require.True(t, cmdtest.Succeeded(rec, cmdtest.Success))
	require.Empty(t, rec.messages)

	require.False(t, cmdtest.Succeeded(rec, cmdtest.Failure))
	require.False(t, cmdtest.Succeeded(rec, cmdtest.Invalid))
	require.False(t, cmdtest.Succeeded(rec, -1))
	require.Len(t, rec.messages, 3)
	require.Contains(t, rec.messages[0], "Command failed.")
	require.Contains(t, rec.messages[1], "Command was invalid.")
	require.Contains(t, rec.messages[2], "Command returned exit status -1.")
}

func TestFailed_CustomMessage(t *testing.T) {
	t.Parallel()

	rec := &recorder{}
	cmdtest.Failed(rec, cmdtest.Success, "sending to %s", "alice@example.com")

	require.Len(t, rec.messages, 1)
	require.Contains(t, rec.messages[0], "sending to alice@example.com")
}

func TestDescribe(t *testing.T) {
	t.Parallel()

	require.Equal(t,
		"Failed asserting that the command failed.\nCommand returned exit status 9.",
		cmdtest.Describe("failed", 9, nil))
}
