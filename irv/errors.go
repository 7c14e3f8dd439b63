// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package irv

import (
	"errors"
	"fmt"
)

var (
	ErrDuplicateCandidate  = errors.New("duplicate candidate")
	ErrUnknownCandidate    = errors.New("unknown candidate")
	ErrDuplicatePreference = errors.New("duplicate preference")
	ErrEmptyName           = errors.New("candidate name is required")
	ErrNoWinner            = errors.New("no candidate reached a majority")
	ErrTabulated           = errors.New("election already tabulated")
	ErrAlreadyExhausted    = errors.New("ballot already exhausted")
)

// InvariantError reports corrupted tabulation state, such as a ballot being
// reassigned after it ran out of preferences.
type InvariantError struct {
	BallotID int
	Voter    string
	Err      error
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("invariant violated for ballot %d (%s): %v", e.BallotID, e.Voter, e.Err)
}

func (e *InvariantError) Unwrap() error {
	return e.Err
}
