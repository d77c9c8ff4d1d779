// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides identity and identifier generation.

# Shareable Poll IDs

GeneratePollNumber returns a random 6-digit number in [100000, 999999]
drawn from crypto/rand:

	n, err := auth.GeneratePollNumber()

Uniqueness is not guaranteed here; the poll service checks the store and
the store enforces a UNIQUE constraint.

# Author Identity

Authors are identified by the subject of an HS256 JWT:

	token, _ := auth.IssueToken("user-123", secret, 24*time.Hour)
	author, err := auth.ParseToken(token, secret)

ParseToken rejects non-HMAC algorithms, expired tokens and tokens without
a subject. BearerToken strips the "Bearer " prefix from an Authorization
header.
*/
package auth
