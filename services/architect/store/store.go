// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package store persists chat sessions for the architect service.
//
// Sessions are small JSON documents keyed by id in an embedded BadgerDB, so
// multi-turn memory survives process restarts. Tests use the in-memory mode.
package store

import (
	"errors"

	"github.com/AleutianAI/Atelier/services/architect/datatypes"
)

// ErrSessionNotFound is returned when a session id is unknown.
var ErrSessionNotFound = errors.New("session not found")

// SessionStore is the session/memory collaborator consumed by the handlers.
type SessionStore interface {
	// Create makes a fresh empty session and returns it.
	Create() (*datatypes.Session, error)

	// Get returns the session or ErrSessionNotFound.
	Get(id string) (*datatypes.Session, error)

	// GetOrCreate returns the existing session, or a new one when id is
	// empty or unknown.
	GetOrCreate(id string) (*datatypes.Session, error)

	// Save writes the session back. Callers mutate a loaded copy and save;
	// the store holds no live references.
	Save(s *datatypes.Session) error

	// Reset deletes the session (if any) and returns a fresh session id.
	Reset(id string) (string, error)

	// List returns summary rows for all sessions, most recent first.
	List() ([]datatypes.SessionInfo, error)

	// Close releases the underlying database.
	Close() error
}
