// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db opens the database, creates the schema and implements the
relational store for polls.

# Drivers

Open accepts "postgres" (lib/pq) or "sqlite" (modernc.org/sqlite, pure Go).
Queries are written with "?" placeholders and rebound per driver, so the
same Store code runs against both:

	conn, err := db.Open("sqlite", "pollify.db")
	if err != nil {
		log.Fatal(err)
	}
	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}
	store := db.NewStore(conn)

# Tables

  - polls: one row per poll, keyed by a UUID with a unique 6-digit poll_id
  - poll_options: ordered options with per-type vote counters
  - votes: append-only audit of recorded votes

	polls 1──* poll_options
	polls 1──* votes
	poll_options 1──* votes

Foreign keys do not cascade. Deleting a poll means deleting its votes,
then its options, then the poll row.

# Counters

Multi and rank options carry vote_count; yes/no options carry yes_votes,
no_votes and maybe_votes. The counters that do not apply are NULL.
IncrementOption updates a counter with a single UPDATE ... RETURNING so
concurrent votes are never lost.
*/
package db
