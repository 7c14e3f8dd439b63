// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package report

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/dustin/go-humanize/english"

	"github.com/danielhkuo/runoff/irv"
)

// Result writes every round, the final table and the summary lines
func Result(w io.Writer, res *irv.Result) error {
	for _, round := range res.Rounds {
		if err := Round(w, round); err != nil {
			return err
		}
	}

	if res.Outcome == irv.OutcomeWinner {
		fmt.Fprintln(w, "*** WINNER ***")
	} else {
		fmt.Fprintln(w, "*** NO WINNER ***")
	}
	if err := Table(w, res.Final, res.Total-res.Exhausted); err != nil {
		return err
	}

	if res.Winner != nil {
		fmt.Fprintf(w, "WINNER: %s (%s, %s)\n",
			res.Winner.Name,
			votes(res.WinnerVotes),
			share(res.WinnerVotes, res.Total-res.Exhausted),
		)
	} else {
		fmt.Fprintln(w, "WINNER: none, every ballot was exhausted")
	}
	_, err := fmt.Fprintf(w, "%s total, %s dropped.\n", votes(res.Total), votes(res.Exhausted))
	return err
}

// Round writes one round's standings and eliminations
func Round(w io.Writer, r irv.Round) error {
	fmt.Fprintf(w, "** Round %d\n", r.Number)
	if err := Table(w, r.Standings, r.Countable); err != nil {
		return err
	}

	for _, el := range r.Eliminated {
		line := fmt.Sprintf("-- Eliminating %s (%s)", el.Name, votes(el.Votes))
		if len(el.Transfers) > 0 {
			moves := make([]string, 0, len(el.Transfers))
			for _, t := range el.Transfers {
				to := t.To
				if t.Exhausted {
					to = "exhausted"
				}
				moves = append(moves, fmt.Sprintf("%s +%s", to, humanize.Comma(int64(t.Ballots))))
			}
			line += ": " + strings.Join(moves, ", ")
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// Table writes standings as aligned columns. Shares are taken of countable;
// eliminated and exhausted rows show no share.
func Table(w io.Writer, rows []irv.Standing, countable int) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "  CANDIDATE\tVOTES\tSHARE\tSTATUS")
	for _, row := range rows {
		pct := ""
		if row.Status == irv.StatusActive {
			pct = share(row.Votes, countable)
		}
		fmt.Fprintf(tw, "  %s\t%s\t%s\t%s\n", row.Name, humanize.Comma(int64(row.Votes)), pct, row.Status)
	}
	return tw.Flush()
}

func votes(n int) string {
	return english.Plural(n, "vote", "")
}

func share(n, of int) string {
	if of == 0 {
		return "-"
	}
	return humanize.FormatFloat("#,###.#", 100*float64(n)/float64(of)) + "%"
}
