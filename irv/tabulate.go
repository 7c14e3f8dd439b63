// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package irv

import "fmt"

type Outcome string

const (
	OutcomeWinner   Outcome = "winner"
	OutcomeNoWinner Outcome = "no_winner"
)

// Transfer counts ballots moved from an eliminated candidate to one
// destination. Exhausted is set when the destination is the exhausted pile.
type Transfer struct {
	To        string
	Exhausted bool
	Ballots   int
}

type Elimination struct {
	CandidateID int
	Name        string
	Votes       int // ballots held when eliminated
	Transfers   []Transfer
}

// Round is the state observed at one majority check and the eliminations
// that followed it. The deciding round has no eliminations.
type Round struct {
	Number     int
	Standings  []Standing // ranked active candidates
	Countable  int
	Exhausted  int
	Eliminated []Elimination
}

type Result struct {
	Outcome     Outcome
	Winner      *Candidate // nil unless Outcome is OutcomeWinner
	WinnerVotes int
	Total       int
	Exhausted   int
	Rounds      []Round
	Final       []Standing
}

// Run tabulates the election. When every ballot is exhausted before anyone
// reaches a majority, Run returns the result so far together with an error
// wrapping ErrNoWinner. The election accepts no further input afterwards.
func (e *Election) Run() (*Result, error) {
	if e.tabulated {
		return nil, ErrTabulated
	}
	e.tabulated = true

	res := &Result{Total: e.TotalBallots()}
	for number := 1; ; number++ {
		ranked := Rank(e.active, e.tie)
		round := Round{
			Number:    number,
			Standings: e.standings(ranked),
			Countable: e.Countable(),
			Exhausted: e.Exhausted(),
		}

		if winner := e.leader(ranked); winner != nil {
			res.Rounds = append(res.Rounds, round)
			e.log.Info("winner declared",
				"election", e.Name,
				"round", number,
				"candidate", winner.Name,
				"votes", winner.Votes(),
				"countable", e.Countable(),
			)
			return e.finish(res, winner), nil
		}
		if e.Countable() == 0 || len(ranked) == 0 {
			res.Rounds = append(res.Rounds, round)
			e.log.Info("no winner", "election", e.Name, "round", number, "exhausted", e.Exhausted())
			return e.finish(res, nil), fmt.Errorf("%s: %w", e.Name, ErrNoWinner)
		}

		// Zero-vote candidates fall together; stop after the first one that held ballots.
		for len(ranked) > 0 {
			bottom := ranked[len(ranked)-1]
			elim, err := e.eliminate(bottom)
			if err != nil {
				return nil, err
			}
			round.Eliminated = append(round.Eliminated, elim)
			if elim.Votes != 0 {
				break
			}
			ranked = Rank(e.active, e.tie)
		}
		res.Rounds = append(res.Rounds, round)
	}
}

// leader returns the top candidate if it holds at least half of the
// countable ballots
func (e *Election) leader(ranked []*Candidate) *Candidate {
	countable := e.Countable()
	if countable == 0 || len(ranked) == 0 {
		return nil
	}
	top := ranked[0]
	if 2*top.Votes() >= countable {
		return top
	}
	return nil
}

func (e *Election) finish(res *Result, winner *Candidate) *Result {
	if winner != nil {
		res.Outcome = OutcomeWinner
		res.Winner = winner
		res.WinnerVotes = winner.Votes()
	} else {
		res.Outcome = OutcomeNoWinner
	}
	res.Exhausted = e.Exhausted()
	res.Final = e.Snapshot()
	return res
}

// eliminate removes c from the active roster and moves every ballot it holds
// to the next usable preference
func (e *Election) eliminate(c *Candidate) (Elimination, error) {
	elim := Elimination{
		CandidateID: c.ID,
		Name:        c.Name,
		Votes:       c.Votes(),
	}

	c.eliminated = true
	for i, a := range e.active {
		if a.ID == c.ID {
			e.active = append(e.active[:i:i], e.active[i+1:]...)
			break
		}
	}
	e.eliminated = append(e.eliminated, c)

	e.log.Info("eliminating candidate", "election", e.Name, "candidate", c.Name, "votes", elim.Votes)

	index := make(map[int]int) // destination id -> position in elim.Transfers
	for _, id := range c.held {
		dest, err := e.reassign(e.ballots[id])
		if err != nil {
			return Elimination{}, err
		}

		key := ExhaustedID
		if dest != nil {
			key = dest.ID
		}
		i, ok := index[key]
		if !ok {
			t := Transfer{Exhausted: dest == nil}
			if dest != nil {
				t.To = dest.Name
			}
			i = len(elim.Transfers)
			index[key] = i
			elim.Transfers = append(elim.Transfers, t)
		}
		elim.Transfers[i].Ballots++
	}
	c.held = nil

	return elim, nil
}

// reassign advances the ballot past eliminated candidates and assigns it to
// the first one still competing. A nil candidate means the ballot is now
// exhausted.
func (e *Election) reassign(b *Ballot) (*Candidate, error) {
	if b.Exhausted() {
		return nil, &InvariantError{BallotID: b.ID, Voter: b.Voter, Err: ErrAlreadyExhausted}
	}

	b.pos++
	for b.pos < len(b.prefs) && e.candidates[b.prefs[b.pos]].eliminated {
		b.pos++
	}
	return e.assign(b), nil
}
