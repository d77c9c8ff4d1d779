// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package polls implements the poll lifecycle: creation with shareable
// six-digit ids and option images, retrieval, vote recording for multi,
// rank and yes/no polls, tallying, and author-scoped deletion.
//
// Vote counts live on the option rows and are only changed through atomic
// increments in the Store. Vote rows are an audit trail and are never read
// back into counts.
package polls
