// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package report prints tabulation results as plain text.

	res, err := e.Run()
	report.Result(os.Stdout, res)

Each round shows the ranked standings with vote shares of the countable
ballots, followed by the eliminations and where their ballots went. The
summary ends with the winner and the number of dropped (exhausted) ballots.
*/
package report
