// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package ballotfile reads elections from the plain-text ballot format.

# Format

One directive per line; blank lines and lines starting with # are ignored.
Fields are separated by colons, and surrounding whitespace is dropped:

	ELECTION: PYB name vote: New name for PYB
	CANDIDATE: Bush
	CANDIDATE: Gore: Democratic ticket
	VOTE: alice: gore, bush
	VOTE: bob:

Directive keywords are case-insensitive. A VOTE with nothing after the voter
name is an empty ballot and counts as exhausted from the start.

# Usage

	f, err := ballotfile.Parse(r)
	e, err := f.Build(irv.WithTieBreak(irv.LaterFirst))
	res, err := e.Run()

Errors carry the offending line number (*LineError).
*/
package ballotfile
