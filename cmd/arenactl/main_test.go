// Copyright 2025 Mulga Defense Corporation (MDC). All rights reserved.
// Use of this source code is governed by an Apache 2.0 license
// that can be found in the LICENSE file.

package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fileConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "arenawire.toml")
	body := fmt.Sprintf("[store]\nbackend = \"file\"\nnamespace = \"cli\"\n\n[store.file]\nbase_dir = %q\n", dir)
	require.NoError(t, os.WriteFile(path, []byte(body), 0600))
	return path
}

func runCmd(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	err := run(context.Background(), args, strings.NewReader(stdin), &stdout, &stderr)
	return stdout.String(), err
}

func TestEncodeDecode(t *testing.T) {
	cfg := fileConfig(t)
	msg := `{"fie":1337,"hund":"gamer","enumeration":"EYEPATCH"}`

	out, err := runCmd(t, msg, "-config", cfg, "encode", "-type", "simple", "-in", "-")
	require.NoError(t, err)
	assert.Equal(t, "1\n", out)

	out, err = runCmd(t, msg, "-config", cfg, "encode", "-type", "simple", "-in", "-")
	require.NoError(t, err)
	assert.Equal(t, "2\n", out)

	out, err = runCmd(t, "", "-config", cfg, "decode", "-type", "simple", "-id", "1")
	require.NoError(t, err)
	assert.JSONEq(t, msg, out)

	out, err = runCmd(t, "", "-config", cfg, "decode", "-id", "2", "-pretty")
	require.NoError(t, err)
	assert.Contains(t, out, "\n  \"hund\": \"gamer\"")

	_, err = runCmd(t, "", "-config", cfg, "decode", "-type", "avatar", "-id", "1")
	assert.Error(t, err)

	_, err = runCmd(t, "", "-config", cfg, "decode", "-id", "9")
	assert.Error(t, err)
}

func TestSnapshotRestore(t *testing.T) {
	cfg := fileConfig(t)
	msg := `{"fie":1,"hund":"kept","enumeration":"HAT"}`

	_, err := runCmd(t, msg, "-config", cfg, "encode", "-type", "simple", "-in", "-")
	require.NoError(t, err)

	out, err := runCmd(t, "", "-config", cfg, "snapshot")
	require.NoError(t, err)
	assert.Equal(t, "1\n", out)

	_, err = runCmd(t, `{"fie":2,"hund":"dropped","enumeration":"HAT"}`, "-config", cfg, "encode", "-type", "simple", "-in", "-")
	require.NoError(t, err)

	_, err = runCmd(t, "", "-config", cfg, "restore", "-snapshot", "1")
	require.NoError(t, err)

	_, err = runCmd(t, "", "-config", cfg, "decode", "-id", "1")
	require.NoError(t, err)
	_, err = runCmd(t, "", "-config", cfg, "decode", "-id", "2")
	assert.Error(t, err)
}

func TestEncodeFromFile(t *testing.T) {
	cfg := fileConfig(t)
	in := filepath.Join(t.TempDir(), "req.json")
	require.NoError(t, os.WriteFile(in, []byte(`{"usernames":["a","b"],"page":2}`), 0600))

	out, err := runCmd(t, "", "-config", cfg, "encode", "-type", "find_bulk_request", "-in", in)
	require.NoError(t, err)
	assert.Equal(t, "1\n", out)
}

func TestDump(t *testing.T) {
	out, err := runCmd(t, `{"fie":1,"hund":"x","enumeration":"HAT"}`, "dump", "-type", "simple", "-in", "-")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "type=simple tag=1 root=9 len=19 "), out)
	assert.Contains(t, out, "00000000  09 00 00 00 01 00 00 00  78 01 00 00 00 04 00 00")
}

func TestErrors(t *testing.T) {
	tests := []struct {
		name  string
		stdin string
		args  []string
	}{
		{"no command", "", nil},
		{"unknown command", "", []string{"frobnicate"}},
		{"missing type", "{}", []string{"encode", "-in", "-"}},
		{"unknown type", "{}", []string{"encode", "-type", "nope", "-in", "-"}},
		{"missing input", "", []string{"encode", "-type", "simple"}},
		{"bad json", `{"fie":`, []string{"dump", "-type", "simple", "-in", "-"}},
		{"missing id", "", []string{"decode"}},
		{"bad config", "", []string{"-config", "/nonexistent/arenawire.toml", "dump"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runCmd(t, tt.stdin, tt.args...)
			assert.Error(t, err)
		})
	}
}
