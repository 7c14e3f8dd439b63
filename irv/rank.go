// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package irv

import (
	"fmt"
	"sort"
	"strings"
)

// TieBreak reports whether a ranks ahead of b when both hold the same number
// of ballots. It must be a strict order over candidate ids.
type TieBreak func(a, b *Candidate) bool

// EarlierFirst ranks the earlier-registered candidate higher
func EarlierFirst(a, b *Candidate) bool {
	return a.ID < b.ID
}

// LaterFirst ranks the later-registered candidate higher
func LaterFirst(a, b *Candidate) bool {
	return a.ID > b.ID
}

// ParseTieBreak maps "earlier" and "later" to a TieBreak.
// An empty string selects EarlierFirst.
func ParseTieBreak(s string) (TieBreak, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "earlier":
		return EarlierFirst, nil
	case "later":
		return LaterFirst, nil
	default:
		return nil, fmt.Errorf("unknown tie-break rule %q (want earlier or later)", s)
	}
}

// Rank orders candidates by held ballots, most first, using tie for equal
// counts. The input slice is left untouched.
func Rank(candidates []*Candidate, tie TieBreak) []*Candidate {
	if tie == nil {
		tie = EarlierFirst
	}

	ranked := make([]*Candidate, len(candidates))
	copy(ranked, candidates)

	sort.Slice(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.Votes() != b.Votes() {
			return a.Votes() > b.Votes()
		}
		return tie(a, b)
	})

	return ranked
}
