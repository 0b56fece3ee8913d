// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// watcher.go - Downloads directory watcher.
//
// New files dropped into the downloads directory are indexed
// automatically. Editors and download managers produce event bursts for a
// single file, so indexing is throttled with a rate limiter instead of
// being triggered per event.
package library

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/time/rate"
)

// Watcher indexes files as they appear in the downloads directory.
type Watcher struct {
	lib     *Library
	dir     string
	watcher *fsnotify.Watcher
	limiter *rate.Limiter
	cancel  context.CancelFunc
}

// NewWatcher creates a watcher over dir feeding lib. The directory is
// created if missing.
func NewWatcher(lib *Library, dir string) (*Watcher, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		lib:     lib,
		dir:     dir,
		watcher: fsw,
		// At most two index passes per second, with a small burst for
		// multi-file drops.
		limiter: rate.NewLimiter(rate.Every(500*time.Millisecond), 4),
	}, nil
}

// Start begins watching. Events are processed until Close or ctx ends.
func (w *Watcher) Start(ctx context.Context) error {
	if err := w.watcher.Add(w.dir); err != nil {
		return err
	}
	ctx, w.cancel = context.WithCancel(ctx)
	go w.processEvents(ctx)
	return nil
}

// Close stops the watcher and releases resources.
func (w *Watcher) Close() error {
	if w.cancel != nil {
		w.cancel()
	}
	return w.watcher.Close()
}

// processEvents consumes fsnotify events, throttled by the limiter.
func (w *Watcher) processEvents(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				continue
			}
			if !indexableExtensions[strings.ToLower(filepath.Ext(event.Name))] {
				continue
			}
			if err := w.limiter.Wait(ctx); err != nil {
				return
			}
			if err := w.lib.AddFile(event.Name); err != nil {
				log.Printf("library: failed to index %s: %v", event.Name, err)
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("library: watch error: %v", err)
		}
	}
}
