// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage provides the local chat session store for the nexus client.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // pure-Go driver, registers "sqlite"
)

const localStorageSchema = `
CREATE TABLE IF NOT EXISTS local_storage (
	key        TEXT PRIMARY KEY,
	value      BLOB NOT NULL,
	updated_at INTEGER NOT NULL
)`

// SQLiteBlob stores keys in a single-table SQLite database. Each Set is one
// statement, so SQLite's journal gives the all-or-nothing write the file
// backend gets from rename.
type SQLiteBlob struct {
	db   *sql.DB
	path string
}

// NewSQLiteBlob opens (creating if needed) the database at path.
func NewSQLiteBlob(path string) (*SQLiteBlob, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// One writer; avoids SQLITE_BUSY between pooled connections.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(localStorageSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create local_storage table: %w", err)
	}

	return &SQLiteBlob{db: db, path: path}, nil
}

// Get reads the value stored under key.
func (b *SQLiteBlob) Get(key string) ([]byte, error) {
	if err := checkKey(key); err != nil {
		return nil, err
	}
	var value []byte
	err := b.db.QueryRow(`SELECT value FROM local_storage WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrKeyNotFound
	}
	if err != nil {
		return nil, err
	}
	return value, nil
}

// Set upserts the value stored under key.
func (b *SQLiteBlob) Set(key string, value []byte) error {
	if err := checkKey(key); err != nil {
		return err
	}
	_, err := b.db.Exec(`
		INSERT INTO local_storage (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, time.Now().UnixMilli())
	return err
}

// Close closes the database.
func (b *SQLiteBlob) Close() error {
	return b.db.Close()
}

// Path returns the database file path.
func (b *SQLiteBlob) Path() string {
	return b.path
}
