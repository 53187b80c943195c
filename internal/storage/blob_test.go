// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func exerciseBlob(t *testing.T, blob Blob) {
	t.Helper()

	_, err := blob.Get(ChatsKey)
	require.ErrorIs(t, err, ErrKeyNotFound)

	require.NoError(t, blob.Set(ChatsKey, []byte(`[]`)))
	got, err := blob.Get(ChatsKey)
	require.NoError(t, err)
	require.Equal(t, `[]`, string(got))

	require.NoError(t, blob.Set(ChatsKey, []byte(`[{"id":"x"}]`)))
	got, err = blob.Get(ChatsKey)
	require.NoError(t, err)
	require.Equal(t, `[{"id":"x"}]`, string(got))

	require.Error(t, blob.Set("../escape", []byte("x")))
}

func TestFileBlob(t *testing.T) {
	blob, err := NewFileBlob(filepath.Join(t.TempDir(), "data"))
	require.NoError(t, err)
	exerciseBlob(t, blob)

	info, err := os.Stat(blob.Path(ChatsKey))
	require.NoError(t, err)
	if info.Mode().Perm() != 0600 {
		t.Errorf("file mode = %o, want 0600", info.Mode().Perm())
	}
}

func TestSQLiteBlob(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nexus.db")
	blob, err := NewSQLiteBlob(path)
	require.NoError(t, err)
	exerciseBlob(t, blob)
	require.NoError(t, blob.Close())

	reopened, err := NewSQLiteBlob(path)
	require.NoError(t, err)
	defer reopened.Close()
	got, err := reopened.Get(ChatsKey)
	require.NoError(t, err)
	require.Equal(t, `[{"id":"x"}]`, string(got))
}

func TestMemoryBlob(t *testing.T) {
	blob := NewMemoryBlob()
	exerciseBlob(t, blob)
	require.Equal(t, 2, blob.Writes())

	blob.FailWrites = true
	if err := blob.Set(ChatsKey, nil); !errors.Is(err, ErrWriteFailed) {
		t.Errorf("expected ErrWriteFailed, got %v", err)
	}
}

func TestOpenBlob(t *testing.T) {
	dir := t.TempDir()

	fileBlob, err := OpenBlob("", filepath.Join(dir, "chats"))
	require.NoError(t, err)
	require.IsType(t, &FileBlob{}, fileBlob)

	sqliteBlob, err := OpenBlob("sqlite", filepath.Join(dir, "nexus.db"))
	require.NoError(t, err)
	require.IsType(t, &SQLiteBlob{}, sqliteBlob)
	require.NoError(t, sqliteBlob.Close())

	_, err = OpenBlob("redis", dir)
	require.Error(t, err)
}
