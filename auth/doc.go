// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides identifiers, admin keys and share slugs.

# Admin Keys

Admin keys use HMAC-SHA256 to create deterministic, verifiable keys:

	adminKey := auth.GenerateAdminKey(electionID, salt)
	err := auth.ValidateAdminKey(electionID, adminKey, salt)

The key is URL-safe base64 encoded without padding. Since it's deterministic,
the same election ID and salt always produce the same key, so the key is never
stored in the database.

# Share Slugs

Share slugs are the public handle of an open election:

	slug := auth.GenerateShareSlug(electionID, salt)

Slugs are base62 encoded (alphanumeric only). Admin keys and slugs are
derived with different prefixes, so a slug never validates as an admin key
even when both salts are equal.

# ID Generation

Row identifiers are random UUIDs:

	id := auth.NewID()

# IP Hashing

Ballots record a salted hash of the submitting address for auditing:

	hash := auth.HashIP(ipAddress, salt)

Returns first 8 bytes (16 hex chars) of HMAC-SHA256.
*/
package auth
