// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ballotfile

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/danielhkuo/runoff/irv"
)

var (
	ErrUnparsedLine   = errors.New("unparsed line")
	ErrMissingField   = errors.New("missing field")
	ErrLateDirective  = errors.New("ELECTION must come before candidates and votes")
	ErrRepeatedHeader = errors.New("ELECTION given more than once")
)

var fieldSep = regexp.MustCompile(`\s*:\s*`)

// LineError ties an error to a line of input
type LineError struct {
	Line int
	Text string
	Err  error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("line %d: %v (%q)", e.Line, e.Err, e.Text)
}

func (e *LineError) Unwrap() error {
	return e.Err
}

type Candidate struct {
	Line        int
	Name        string
	Description string
}

type Vote struct {
	Line        int
	Voter       string
	Preferences []string
}

// File is a parsed ballot file. Candidates and votes keep their input order.
type File struct {
	Name        string
	Description string
	Candidates  []Candidate
	Votes       []Vote
}

// Parse reads a ballot file. It checks syntax only; names are resolved by Build.
func Parse(r io.Reader) (*File, error) {
	f := &File{}
	sawHeader := false

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fail := func(err error) (*File, error) {
			return nil, &LineError{Line: lineNo, Text: line, Err: err}
		}

		bits := fieldSep.Split(line, 3)
		switch strings.ToUpper(strings.TrimSpace(bits[0])) {
		case "ELECTION":
			if sawHeader {
				return fail(ErrRepeatedHeader)
			}
			if len(f.Candidates) > 0 || len(f.Votes) > 0 {
				return fail(ErrLateDirective)
			}
			sawHeader = true
			if len(bits) > 1 {
				f.Name = bits[1]
			}
			if len(bits) > 2 {
				f.Description = bits[2]
			}

		case "CANDIDATE":
			if len(bits) < 2 || bits[1] == "" {
				return fail(fmt.Errorf("%w: candidate name", ErrMissingField))
			}
			c := Candidate{Line: lineNo, Name: bits[1]}
			if len(bits) > 2 {
				c.Description = bits[2]
			}
			f.Candidates = append(f.Candidates, c)

		case "VOTE":
			if len(bits) < 2 || bits[1] == "" {
				return fail(fmt.Errorf("%w: voter name", ErrMissingField))
			}
			v := Vote{Line: lineNo, Voter: bits[1], Preferences: []string{}}
			if len(bits) > 2 && bits[2] != "" {
				for _, name := range strings.Split(bits[2], ",") {
					v.Preferences = append(v.Preferences, strings.TrimSpace(name))
				}
			}
			f.Votes = append(f.Votes, v)

		default:
			return fail(ErrUnparsedLine)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read ballot file: %w", err)
	}

	return f, nil
}

// Build replays the file into a new election
func (f *File) Build(opts ...irv.Option) (*irv.Election, error) {
	e := irv.New(f.Name, f.Description, opts...)

	for _, c := range f.Candidates {
		if _, err := e.AddCandidate(c.Name, c.Description); err != nil {
			return nil, &LineError{Line: c.Line, Text: "CANDIDATE: " + c.Name, Err: err}
		}
	}
	for _, v := range f.Votes {
		if _, err := e.AddBallot(v.Voter, v.Preferences); err != nil {
			return nil, &LineError{
				Line: v.Line,
				Text: "VOTE: " + v.Voter + ": " + strings.Join(v.Preferences, ","),
				Err:  err,
			}
		}
	}

	return e, nil
}

// Load parses r and builds the election in one step
func Load(r io.Reader, opts ...irv.Option) (*irv.Election, error) {
	f, err := Parse(r)
	if err != nil {
		return nil, err
	}
	return f.Build(opts...)
}
