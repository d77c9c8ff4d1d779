// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	_ = cliparse.LoadDotEnv(".env")
	cfg, err := cliparse.ParseFlags(os.Args[1:])

# CLI Flags and Environment Variables

	-p             PORT                 Server port (default 3318)
	-d             DATABASE_URL         Database URL (required)
	-t             DATABASE_TYPE        sqlite (default) or postgres
	-jwt-secret    JWT_SECRET           HS256 secret for author tokens
	-require-auth  REQUIRE_AUTH         Require tokens to create/delete polls
	-blob-dir      BLOB_DIR             Image directory (default ./uploads)
	-public-url    PUBLIC_URL           Base URL for image links
	-max-upload    MAX_UPLOAD_BYTES     Multipart limit (default 10 MiB)
	-single-vote   ENFORCE_SINGLE_VOTE  One vote per voter per poll
	-vote-rate     VOTE_RATE_LIMIT      Votes/second per IP (default 5, 0 disables)
	-log-level     LOG_LEVEL            debug, info, warn, error
	-log-file      LOG_FILE             Rotated log file (default stderr)

CLI flags take precedence over environment variables. LoadDotEnv fills
the environment from a .env file but never overrides variables that are
already set.

# Validation

ParseFlags returns an error if DATABASE_URL is missing, DATABASE_TYPE is
not recognized, or REQUIRE_AUTH is set without JWT_SECRET.
*/
package cliparse
