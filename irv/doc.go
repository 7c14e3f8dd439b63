// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package irv tabulates instant-runoff (ranked-choice) elections.

# Building an Election

An Election owns its candidates and ballots for its whole lifetime:

	e := irv.New("Board seat", "2025 annual meeting")
	e.AddCandidate("Bush", "R")
	e.AddCandidate("Gore", "D")
	e.AddBallot("voter1", []string{"gore", "bush"})

Candidate names are matched case-insensitively after trimming whitespace.
Each ballot is assigned to its first preference as soon as it is added;
a ballot with no preferences goes straight to the exhausted pile.

# Tabulation

Run repeats rounds until one candidate holds at least half of the countable
(non-exhausted) ballots:

	res, err := e.Run()
	if errors.Is(err, irv.ErrNoWinner) {
		// every ballot was exhausted; res.Rounds is still populated
	}

Each round ranks the active candidates by held ballots, checks for a
majority, and otherwise eliminates the bottom candidate. Ballots held by an
eliminated candidate move to their next preference that is still active, or
to the exhausted pile when none is left. Candidates holding zero ballots are
eliminated back to back within a single round.

# Tie-breaking

Candidates with equal counts are ordered by a TieBreak. EarlierFirst (the
default) ranks the earlier-registered candidate higher, so the latest
registered candidate among the weakest is eliminated first:

	e := irv.New("name", "", irv.WithTieBreak(irv.LaterFirst))

# Errors

Validation failures wrap ErrDuplicateCandidate, ErrUnknownCandidate,
ErrDuplicatePreference and ErrEmptyName. An *InvariantError means the
tabulation state is corrupt and always indicates a bug.
*/
package irv
