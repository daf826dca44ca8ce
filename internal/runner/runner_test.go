// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package runner

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os/exec"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pathOnly implements Executor with a fixed set of installed binaries.
type pathOnly map[string]bool

func (p pathOnly) LookPath(file string) (string, error) {
	if p[file] {
		return "/usr/bin/" + file, nil
	}
	return "", errors.New("not found: " + file)
}

func (p pathOnly) Output(context.Context, string, string, ...string) ([]byte, error) {
	return nil, nil
}

func (p pathOnly) Run(context.Context, string, string, []string, io.Writer) error {
	return nil
}

func TestRequire(t *testing.T) {
	tests := []struct {
		name      string
		installed pathOnly
		wantErr   string
	}{
		{
			name:      "all present",
			installed: pathOnly{"zk": true, "pandoc": true},
		},
		{
			name:      "pandoc missing",
			installed: pathOnly{"zk": true},
			wantErr:   "required tools not found on PATH: pandoc",
		},
		{
			name:      "both missing",
			installed: pathOnly{},
			wantErr:   "required tools not found on PATH: zk, pandoc",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Require(tt.installed, "zk", "pandoc")
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.EqualError(t, err, tt.wantErr)
		})
	}
}

func TestCommandLine(t *testing.T) {
	got := CommandLine("zk", []string{"list", "-t", "NOT tag", "--format", `{"a": 1}`, ""})
	assert.Equal(t, `zk list -t "NOT tag" --format "{\"a\": 1}" ""`, got)
}

func TestOSExecutor(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	e := New(zerolog.Nop())
	ctx := context.Background()

	t.Run("captures stdout", func(t *testing.T) {
		out, err := e.Output(ctx, t.TempDir(), "sh", "-c", "echo hello")
		require.NoError(t, err)
		assert.Equal(t, "hello\n", string(out))
	})

	t.Run("runs in the given directory", func(t *testing.T) {
		dir := t.TempDir()
		var buf bytes.Buffer
		require.NoError(t, e.Run(ctx, dir, "sh", []string{"-c", "pwd -P"}, &buf))
		assert.Contains(t, buf.String(), "/")
	})

	t.Run("non-zero exit becomes ExitError", func(t *testing.T) {
		_, err := e.Output(ctx, t.TempDir(), "sh", "-c", "echo boom >&2; exit 3")
		require.Error(t, err)

		var exitErr *ExitError
		require.True(t, errors.As(err, &exitErr))
		assert.Equal(t, 3, exitErr.Code)
		assert.Equal(t, "boom", exitErr.Stderr)
		assert.Contains(t, err.Error(), "exited with code 3: boom")
	})

	t.Run("missing binary becomes ExitError", func(t *testing.T) {
		_, err := e.Output(ctx, t.TempDir(), "zkdocs-definitely-not-installed")
		var exitErr *ExitError
		require.True(t, errors.As(err, &exitErr))
		assert.Equal(t, 0, exitErr.Code)
	})
}
