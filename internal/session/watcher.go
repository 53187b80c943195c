// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session holds the authenticated user's session for nexus.
package session

import (
	"context"
	"errors"
	"log"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// =============================================================================
// SESSION FILE WATCHER
// =============================================================================

// Watcher reloads a Session when its file changes on disk, so `nexus logout`
// in another terminal returns a running TUI to the login page.
//
// The parent directory is watched rather than the file itself: atomic
// writes replace the file by rename, which drops a watch on the old inode.
type Watcher struct {
	sess     *Session
	watcher  *fsnotify.Watcher
	debounce time.Duration

	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.Mutex
	pending *time.Timer
	started bool
	done    chan struct{}
}

// NewWatcher creates a watcher for sess. The session must be file-backed.
func NewWatcher(sess *Session, debounce time.Duration) (*Watcher, error) {
	if sess.Path() == "" {
		return nil, errors.New("session is not file-backed")
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Watcher{
		sess:     sess,
		watcher:  fw,
		debounce: debounce,
		ctx:      ctx,
		cancel:   cancel,
		done:     make(chan struct{}),
	}, nil
}

// Watch starts watching. Events are processed on a background goroutine
// until Close.
func (w *Watcher) Watch() error {
	if err := w.watcher.Add(filepath.Dir(w.sess.Path())); err != nil {
		return err
	}
	w.mu.Lock()
	w.started = true
	w.mu.Unlock()
	go w.processEvents()
	return nil
}

func (w *Watcher) processEvents() {
	defer close(w.done)
	name := filepath.Clean(w.sess.Path())

	for {
		select {
		case <-w.ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != name {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0 {
				w.schedule()
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("session watcher: %v", err)
		}
	}
}

// schedule coalesces bursts of events (temp write, chmod, rename) into one reload.
func (w *Watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.pending != nil {
		w.pending.Stop()
	}
	w.pending = time.AfterFunc(w.debounce, func() {
		if w.ctx.Err() != nil {
			return
		}
		if err := w.sess.Reload(); err != nil {
			log.Printf("session watcher: reload failed: %v", err)
		}
	})
}

// Close stops watching and releases resources.
func (w *Watcher) Close() error {
	w.cancel()
	w.mu.Lock()
	if w.pending != nil {
		w.pending.Stop()
	}
	started := w.started
	w.mu.Unlock()
	err := w.watcher.Close()
	if started {
		<-w.done
	}
	return err
}
