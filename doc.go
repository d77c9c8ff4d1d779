// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the Pollify API server.

Pollify hosts simple polls: single-choice (multi), ranked (rank) and
tri-state yes/no/maybe polls. Options may carry an image, stored on disk
and served under /images/. Results are computed from per-option counters
on every read.

# Starting the Server

SQLite needs no setup:

	DATABASE_URL=pollify.db go run .

PostgreSQL:

	go run . -t postgres -d "postgres://..."

Variables in a .env file in the working directory are loaded first and
never override the real environment.

# Configuration

Required settings:

  - DATABASE_URL (-d): SQLite path or PostgreSQL connection string

Optional settings:

  - PORT (-p): Server port (default: 3318)
  - DATABASE_TYPE (-t): sqlite (default) or postgres
  - JWT_SECRET (--jwt-secret): HS256 secret; bearer tokens are ignored without it
  - REQUIRE_AUTH (--require-auth): Require a token to create and delete polls
  - ENFORCE_SINGLE_VOTE (--single-vote): One vote per voter per poll
  - BLOB_DIR (--blob-dir): Image directory (default: ./uploads)
  - PUBLIC_URL (--public-url): Base URL for image links
  - MAX_UPLOAD_BYTES (--max-upload): Multipart size cap
  - VOTE_RATE_LIMIT (--vote-rate): Votes per second per client IP
  - LOG_LEVEL (--log-level), LOG_FILE (--log-file)

# Architecture

  - polls: Poll service (creation, voting, tallies, deletion)
  - handlers: HTTP request handlers
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, gzip, logging, metrics, auth, rate limiting
  - db: Connection, schema and sqlx-backed store
  - blob: Image storage
  - models: Request/response and domain types
  - auth: ID generation and JWT handling
  - logging, metrics, cliparse: ambient setup

See package documentation for each component.
*/
package main
