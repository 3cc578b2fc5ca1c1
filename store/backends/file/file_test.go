// Copyright 2025 Mulga Defense Corporation (MDC). All rights reserved.
// Use of this source code is governed by an Apache 2.0 license
// that can be found in the LICENSE file.

package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/mulgadc/arenawire/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileBackend(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	b := New(FileConfig{BaseDir: dir, Namespace: "ns"})
	require.NoError(t, b.Init())

	headers := []byte("HDR")
	data := []byte("payload")
	require.NoError(t, b.Write(ctx, types.FileTypeMessage, 1, &headers, &data))

	_, err := os.Stat(filepath.Join(dir, "ns", "messages", "msg.0000000000000001.bin"))
	require.NoError(t, err)

	got, err := b.Read(ctx, types.FileTypeMessage, 1, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, []byte("HDRpayload"), got)

	got, err = b.Read(ctx, types.FileTypeMessage, 1, 3, 7)
	require.NoError(t, err)
	assert.Equal(t, []byte("payload"), got)

	// Overwrite replaces the object
	data = []byte("v2")
	require.NoError(t, b.Write(ctx, types.FileTypeMessage, 1, nil, &data))
	got, err = b.Read(ctx, types.FileTypeMessage, 1, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, []byte("v2"), got)

	require.NoError(t, b.Delete(ctx, types.FileTypeMessage, 1))

	_, err = b.Read(ctx, types.FileTypeMessage, 1, 0, 0)
	assert.ErrorIs(t, err, types.ErrObjectNotFound)
	_, err = b.Read(ctx, types.FileTypeMessage, 1, 0, 4)
	assert.ErrorIs(t, err, types.ErrObjectNotFound)
	assert.ErrorIs(t, b.Delete(ctx, types.FileTypeMessage, 1), types.ErrObjectNotFound)
}

func TestFileBackendMissingDir(t *testing.T) {
	b := New(FileConfig{BaseDir: filepath.Join(t.TempDir(), "missing"), Namespace: "ns"})
	assert.Error(t, b.Init())
}
