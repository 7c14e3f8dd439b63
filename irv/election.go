// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package irv

import (
	"fmt"
	"log/slog"
	"strings"
)

// Status of a row in a snapshot
type Status string

const (
	StatusActive     Status = "active"
	StatusEliminated Status = "eliminated"
	StatusExhausted  Status = "exhausted"
)

// ExhaustedID is the id reserved for the pile of exhausted ballots.
// Candidates are numbered from 1.
const ExhaustedID = 0

// ExhaustedName labels the exhausted pile in snapshots
const ExhaustedName = "NONE"

type Candidate struct {
	ID          int
	Name        string
	Description string

	eliminated bool
	held       []int // ballot ids, in assignment order
}

// Votes returns the number of ballots the candidate currently holds
func (c *Candidate) Votes() int {
	return len(c.held)
}

// Eliminated reports whether the candidate may no longer receive ballots
func (c *Candidate) Eliminated() bool {
	return c.eliminated
}

func (c *Candidate) String() string {
	return fmt.Sprintf("%s(%d votes)", c.Name, len(c.held))
}

type Ballot struct {
	ID    int
	Voter string

	prefs []int // candidate ids, no repeats
	pos   int   // never decreases
}

// Position returns the index of the preference currently holding the ballot.
// It equals the number of preferences once the ballot is exhausted.
func (b *Ballot) Position() int {
	return b.pos
}

// Exhausted reports whether every preference on the ballot has been used up
func (b *Ballot) Exhausted() bool {
	return b.pos >= len(b.prefs)
}

// Preferences returns the ranked candidate ids
func (b *Ballot) Preferences() []int {
	out := make([]int, len(b.prefs))
	copy(out, b.prefs)
	return out
}

// Standing is one row of a snapshot
type Standing struct {
	CandidateID int
	Name        string
	Votes       int
	Status      Status
}

// Election is the tabulation context. It owns every candidate and ballot;
// candidates and ballots refer to each other only by id.
type Election struct {
	Name        string
	Description string

	nextID     int
	candidates map[int]*Candidate
	ballots    map[int]*Ballot
	byName     map[string]*Candidate

	registered []*Candidate // registration order
	active     []*Candidate // registration order
	eliminated []*Candidate // elimination order
	ballotIDs  []int        // creation order
	exhausted  []int

	tie       TieBreak
	log       *slog.Logger
	tabulated bool
}

type Option func(*Election)

// WithTieBreak sets the rule ordering candidates with equal counts
func WithTieBreak(tie TieBreak) Option {
	return func(e *Election) {
		if tie != nil {
			e.tie = tie
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(e *Election) {
		if l != nil {
			e.log = l
		}
	}
}

// New creates an empty election
func New(name, description string, opts ...Option) *Election {
	e := &Election{
		Name:        name,
		Description: description,
		nextID:      ExhaustedID + 1,
		candidates:  make(map[int]*Candidate),
		ballots:     make(map[int]*Ballot),
		byName:      make(map[string]*Candidate),
		tie:         EarlierFirst,
		log:         slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// NormalizeName returns the key candidate names are matched by
func NormalizeName(name string) string {
	return strings.ToUpper(strings.TrimSpace(name))
}

// AddCandidate registers a new active candidate
func (e *Election) AddCandidate(name, description string) (*Candidate, error) {
	if e.tabulated {
		return nil, ErrTabulated
	}

	key := NormalizeName(name)
	if key == "" {
		return nil, ErrEmptyName
	}
	if _, exists := e.byName[key]; exists {
		return nil, fmt.Errorf("%w: %q", ErrDuplicateCandidate, strings.TrimSpace(name))
	}

	c := &Candidate{
		ID:          e.next(),
		Name:        strings.TrimSpace(name),
		Description: description,
	}
	e.candidates[c.ID] = c
	e.byName[key] = c
	e.registered = append(e.registered, c)
	e.active = append(e.active, c)

	e.log.Debug("candidate added", "candidate", c.Name, "id", c.ID)
	return c, nil
}

// Lookup finds a candidate by name
func (e *Election) Lookup(name string) (*Candidate, error) {
	c, ok := e.byName[NormalizeName(name)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCandidate, strings.TrimSpace(name))
	}
	return c, nil
}

// AddBallot records a ballot and assigns it to its first preference.
// An empty preference list is exhausted from the start.
func (e *Election) AddBallot(voter string, names []string) (*Ballot, error) {
	if e.tabulated {
		return nil, ErrTabulated
	}

	prefs := make([]int, 0, len(names))
	seen := make(map[int]bool, len(names))
	for _, name := range names {
		c, err := e.Lookup(name)
		if err != nil {
			return nil, fmt.Errorf("ballot by %s: %w", voter, err)
		}
		if seen[c.ID] {
			return nil, fmt.Errorf("ballot by %s: %w: %s", voter, ErrDuplicatePreference, c.Name)
		}
		seen[c.ID] = true
		prefs = append(prefs, c.ID)
	}

	b := &Ballot{
		ID:    e.next(),
		Voter: voter,
		prefs: prefs,
	}
	e.ballots[b.ID] = b
	e.ballotIDs = append(e.ballotIDs, b.ID)
	e.assign(b)

	return b, nil
}

func (e *Election) next() int {
	id := e.nextID
	e.nextID++
	return id
}

// holder returns the candidate the ballot currently resolves to,
// or nil when it is exhausted
func (e *Election) holder(b *Ballot) *Candidate {
	if b.Exhausted() {
		return nil
	}
	return e.candidates[b.prefs[b.pos]]
}

// assign adds the ballot to the held set its pointer resolves to
func (e *Election) assign(b *Ballot) *Candidate {
	c := e.holder(b)
	if c == nil {
		e.exhausted = append(e.exhausted, b.ID)
		e.log.Debug("ballot exhausted", "voter", b.Voter, "ballot", b.ID)
		return nil
	}
	c.held = append(c.held, b.ID)
	e.log.Debug("ballot assigned", "voter", b.Voter, "choice", b.pos+1, "candidate", c.Name)
	return c
}

// Candidates returns every candidate in registration order
func (e *Election) Candidates() []*Candidate {
	out := make([]*Candidate, len(e.registered))
	copy(out, e.registered)
	return out
}

// Active returns the candidates still competing, in registration order
func (e *Election) Active() []*Candidate {
	out := make([]*Candidate, len(e.active))
	copy(out, e.active)
	return out
}

// Ballots returns every ballot in creation order
func (e *Election) Ballots() []*Ballot {
	out := make([]*Ballot, 0, len(e.ballotIDs))
	for _, id := range e.ballotIDs {
		out = append(out, e.ballots[id])
	}
	return out
}

// TotalBallots returns the number of ballots cast
func (e *Election) TotalBallots() int {
	return len(e.ballotIDs)
}

// Exhausted returns the number of ballots with no remaining preference
func (e *Election) Exhausted() int {
	return len(e.exhausted)
}

// Countable returns the number of ballots still held by a candidate
func (e *Election) Countable() int {
	return len(e.ballotIDs) - len(e.exhausted)
}

// Holder returns the candidate currently holding the ballot, or nil when the
// ballot is exhausted
func (e *Election) Holder(b *Ballot) *Candidate {
	return e.holder(b)
}

// Snapshot lists the ranked active candidates, then eliminated candidates in
// the order they fell, then the exhausted pile.
func (e *Election) Snapshot() []Standing {
	rows := e.standings(Rank(e.active, e.tie))
	for _, c := range e.eliminated {
		rows = append(rows, Standing{
			CandidateID: c.ID,
			Name:        c.Name,
			Votes:       c.Votes(),
			Status:      StatusEliminated,
		})
	}
	return append(rows, e.exhaustedRow())
}

func (e *Election) standings(ranked []*Candidate) []Standing {
	rows := make([]Standing, 0, len(ranked)+1)
	for _, c := range ranked {
		rows = append(rows, Standing{
			CandidateID: c.ID,
			Name:        c.Name,
			Votes:       c.Votes(),
			Status:      StatusActive,
		})
	}
	return rows
}

func (e *Election) exhaustedRow() Standing {
	return Standing{
		CandidateID: ExhaustedID,
		Name:        ExhaustedName,
		Votes:       len(e.exhausted),
		Status:      StatusExhausted,
	}
}
