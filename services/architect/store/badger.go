// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"time"

	"github.com/AleutianAI/Atelier/services/architect/datatypes"
	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
)

// sessionKeyPrefix namespaces session documents inside the database.
const sessionKeyPrefix = "session/"

// Config holds configuration for the badger-backed session store.
type Config struct {
	// Path is the directory for database files. Ignored when InMemory is true.
	Path string

	// InMemory enables in-memory mode (no disk persistence). For tests.
	InMemory bool

	// SyncWrites enables synchronous writes for durability.
	SyncWrites bool

	// GCInterval is how often to run value log garbage collection.
	// Zero disables GC.
	GCInterval time.Duration

	// GCDiscardRatio is the minimum ratio of discardable data before GC runs.
	GCDiscardRatio float64
}

// DefaultConfig returns production defaults for a persistent store.
func DefaultConfig(path string) Config {
	return Config{
		Path:           path,
		SyncWrites:     true,
		GCInterval:     5 * time.Minute,
		GCDiscardRatio: 0.5,
	}
}

// InMemoryConfig returns a configuration for tests: no disk I/O, no GC.
func InMemoryConfig() Config {
	return Config{InMemory: true}
}

// BadgerStore implements SessionStore on an embedded BadgerDB.
type BadgerStore struct {
	db  *badger.DB
	cfg Config
}

// Open creates and opens the session store.
func Open(cfg Config) (*BadgerStore, error) {
	if !cfg.InMemory && cfg.Path == "" {
		return nil, errors.New("path is required for a persistent session store")
	}

	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(cfg.Path, 0o750); err != nil {
			return nil, fmt.Errorf("create session store directory %s: %w", cfg.Path, err)
		}
		opts = badger.DefaultOptions(cfg.Path)
	}
	opts = opts.WithSyncWrites(cfg.SyncWrites)
	opts = opts.WithLogger(nil) // badger's own logging is too chatty for a session store

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open session store: %w", err)
	}
	return &BadgerStore{db: db, cfg: cfg}, nil
}

// Close releases the underlying database.
func (b *BadgerStore) Close() error {
	return b.db.Close()
}

// RunGC runs periodic value log garbage collection until stop is closed.
// No-op when GC is disabled in the config.
func (b *BadgerStore) RunGC(stop <-chan struct{}) {
	if b.cfg.GCInterval <= 0 {
		return
	}
	ratio := b.cfg.GCDiscardRatio
	if ratio <= 0 {
		ratio = 0.5
	}
	ticker := time.NewTicker(b.cfg.GCInterval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			// ErrNoRewrite just means there was nothing worth collecting.
			if err := b.db.RunValueLogGC(ratio); err != nil && !errors.Is(err, badger.ErrNoRewrite) {
				slog.Warn("Session store GC failed", "error", err)
			}
		}
	}
}

// Create makes a fresh empty session.
func (b *BadgerStore) Create() (*datatypes.Session, error) {
	session := datatypes.NewSession(uuid.New().String())
	if err := b.Save(session); err != nil {
		return nil, err
	}
	slog.Info("Created session", "session_id", session.SessionID)
	return session, nil
}

// Get returns the session or ErrSessionNotFound.
func (b *BadgerStore) Get(id string) (*datatypes.Session, error) {
	var session datatypes.Session
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(sessionKeyPrefix + id))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &session)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load session %s: %w", id, err)
	}
	return &session, nil
}

// GetOrCreate returns the existing session, or a new one when the id is
// empty or unknown.
func (b *BadgerStore) GetOrCreate(id string) (*datatypes.Session, error) {
	if id != "" {
		session, err := b.Get(id)
		if err == nil {
			return session, nil
		}
		if !errors.Is(err, ErrSessionNotFound) {
			return nil, err
		}
	}
	return b.Create()
}

// Save writes the session document back to the store.
func (b *BadgerStore) Save(s *datatypes.Session) error {
	if s.SessionID == "" {
		return errors.New("session id must not be empty")
	}
	payload, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode session %s: %w", s.SessionID, err)
	}
	err = b.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(sessionKeyPrefix+s.SessionID), payload)
	})
	if err != nil {
		return fmt.Errorf("save session %s: %w", s.SessionID, err)
	}
	return nil
}

// Reset deletes the session (missing ids are fine) and returns a fresh id.
func (b *BadgerStore) Reset(id string) (string, error) {
	if id != "" {
		err := b.db.Update(func(txn *badger.Txn) error {
			return txn.Delete([]byte(sessionKeyPrefix + id))
		})
		if err != nil {
			return "", fmt.Errorf("delete session %s: %w", id, err)
		}
	}
	session, err := b.Create()
	if err != nil {
		return "", err
	}
	return session.SessionID, nil
}

// List returns summary rows for all sessions, most recently updated first.
func (b *BadgerStore) List() ([]datatypes.SessionInfo, error) {
	var infos []datatypes.SessionInfo
	err := b.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(sessionKeyPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				var session datatypes.Session
				if err := json.Unmarshal(val, &session); err != nil {
					return err
				}
				infos = append(infos, datatypes.SessionInfo{
					SessionID: session.SessionID,
					Turns:     len(session.ChatLog),
					UpdatedAt: session.UpdatedAt,
				})
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	sort.Slice(infos, func(i, j int) bool {
		return infos[i].UpdatedAt.After(infos[j].UpdatedAt)
	})
	return infos, nil
}
