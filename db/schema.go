// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"fmt"

	"github.com/jmoiron/sqlx"
)

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(db *sqlx.DB) error {
	schema := sqliteSchema
	if db.DriverName() == driverPostgres {
		schema = postgresSchema
	}

	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// Foreign keys have no ON DELETE CASCADE. Votes must be deleted before
// options, and options before their poll.
const postgresSchema = `
-- Polls
CREATE TABLE IF NOT EXISTS polls (
    id TEXT PRIMARY KEY,
    poll_id INTEGER NOT NULL UNIQUE CHECK (poll_id BETWEEN 100000 AND 999999),
    author TEXT NOT NULL,
    title TEXT NOT NULL CHECK (title <> ''),
    description TEXT NOT NULL DEFAULT '',
    type TEXT NOT NULL CHECK (type IN ('multi', 'yes/no', 'rank')),
    created_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_polls_author ON polls(author);
CREATE INDEX IF NOT EXISTS idx_polls_created_at ON polls(created_at);

-- Options
CREATE TABLE IF NOT EXISTS poll_options (
    id TEXT PRIMARY KEY,
    poll_id INTEGER NOT NULL REFERENCES polls(poll_id),
    position INTEGER NOT NULL,
    title TEXT NOT NULL CHECK (title <> ''),
    description TEXT NOT NULL DEFAULT '',
    image_url TEXT NOT NULL DEFAULT '',
    image_key TEXT NOT NULL DEFAULT '',
    vote_count BIGINT CHECK (vote_count >= 0),
    yes_votes BIGINT CHECK (yes_votes >= 0),
    no_votes BIGINT CHECK (no_votes >= 0),
    maybe_votes BIGINT CHECK (maybe_votes >= 0)
);

CREATE INDEX IF NOT EXISTS idx_poll_options_poll_id ON poll_options(poll_id);

-- Votes (audit)
CREATE TABLE IF NOT EXISTS votes (
    id TEXT PRIMARY KEY,
    poll_id INTEGER NOT NULL REFERENCES polls(poll_id),
    option_id TEXT NOT NULL REFERENCES poll_options(id),
    voter_id TEXT NOT NULL DEFAULT '',
    vote_type TEXT NOT NULL CHECK (vote_type IN ('yes', 'no', 'maybe', 'multi')),
    created_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_votes_poll_voter ON votes(poll_id, voter_id);
`

const sqliteSchema = `
-- Polls
CREATE TABLE IF NOT EXISTS polls (
    id TEXT PRIMARY KEY,
    poll_id INTEGER NOT NULL UNIQUE CHECK (poll_id BETWEEN 100000 AND 999999),
    author TEXT NOT NULL,
    title TEXT NOT NULL CHECK (title <> ''),
    description TEXT NOT NULL DEFAULT '',
    type TEXT NOT NULL CHECK (type IN ('multi', 'yes/no', 'rank')),
    created_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_polls_author ON polls(author);
CREATE INDEX IF NOT EXISTS idx_polls_created_at ON polls(created_at);

-- Options
CREATE TABLE IF NOT EXISTS poll_options (
    id TEXT PRIMARY KEY,
    poll_id INTEGER NOT NULL REFERENCES polls(poll_id),
    position INTEGER NOT NULL,
    title TEXT NOT NULL CHECK (title <> ''),
    description TEXT NOT NULL DEFAULT '',
    image_url TEXT NOT NULL DEFAULT '',
    image_key TEXT NOT NULL DEFAULT '',
    vote_count INTEGER CHECK (vote_count >= 0),
    yes_votes INTEGER CHECK (yes_votes >= 0),
    no_votes INTEGER CHECK (no_votes >= 0),
    maybe_votes INTEGER CHECK (maybe_votes >= 0)
);

CREATE INDEX IF NOT EXISTS idx_poll_options_poll_id ON poll_options(poll_id);

-- Votes (audit)
CREATE TABLE IF NOT EXISTS votes (
    id TEXT PRIMARY KEY,
    poll_id INTEGER NOT NULL REFERENCES polls(poll_id),
    option_id TEXT NOT NULL REFERENCES poll_options(id),
    voter_id TEXT NOT NULL DEFAULT '',
    vote_type TEXT NOT NULL CHECK (vote_type IN ('yes', 'no', 'maybe', 'multi')),
    created_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_votes_poll_voter ON votes(poll_id, voter_id);
`
