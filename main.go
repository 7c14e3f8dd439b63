// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package main

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/danielhkuo/runoff/ballotfile"
	"github.com/danielhkuo/runoff/cliparse"
	"github.com/danielhkuo/runoff/db"
	"github.com/danielhkuo/runoff/irv"
	"github.com/danielhkuo/runoff/middleware"
	"github.com/danielhkuo/runoff/report"
	"github.com/danielhkuo/runoff/router"
)

// Exit status when every ballot exhausted before anyone reached a majority
const exitNoWinner = 2

func main() {
	var err error

	// Parse configuration
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		slog.Error("Error parsing flags", "error", err)
		os.Exit(1)
	}

	level := slog.LevelInfo
	if cfg.Verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	if !cfg.ServeMode() {
		os.Exit(tabulateFile(cfg, os.Stdout))
	}

	dbConn, err := db.Open(cfg)
	if err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	defer dbConn.Close()

	if err := db.CreateSchema(dbConn); err != nil {
		slog.Error("schema creation failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Database schema ready", "type", cfg.DatabaseType)

	mux := router.NewRouter(dbConn, cfg)

	server := http.Server{
		Handler: middleware.CORS(mux),
		Addr:    ":" + strconv.Itoa(cfg.Port),
	}

	// signal.Notify requires the channel to be buffered
	ctrlc := make(chan os.Signal, 1)
	signal.Notify(ctrlc, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-ctrlc
		server.Close()
	}()

	slog.Info("Listening", "port", cfg.Port, "base_url", cfg.BaseURL)
	err = server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		slog.Error("Server closed", "error", err)
	} else {
		slog.Info("Server closed", "error", err)
	}
}

// tabulateFile runs the ballot file named in cfg and writes the report to w.
// It returns the process exit status.
func tabulateFile(cfg cliparse.Config, w io.Writer) int {
	tie, err := irv.ParseTieBreak(cfg.TieBreak)
	if err != nil {
		slog.Error("invalid tie-break rule", "error", err)
		return 1
	}

	f, err := os.Open(cfg.BallotFile)
	if err != nil {
		slog.Error("failed to open ballot file", "error", err)
		return 1
	}
	defer f.Close()

	e, err := ballotfile.Load(f, irv.WithTieBreak(tie), irv.WithLogger(slog.Default()))
	if err != nil {
		slog.Error("failed to load ballot file", "file", cfg.BallotFile, "error", err)
		return 1
	}

	slog.Info("ballot file loaded",
		"election", e.Name,
		"candidates", len(e.Candidates()),
		"ballots", e.TotalBallots(),
	)

	res, runErr := e.Run()
	if runErr != nil && !errors.Is(runErr, irv.ErrNoWinner) {
		slog.Error("tabulation failed", "error", runErr)
		return 1
	}

	if err := report.Result(w, res); err != nil {
		slog.Error("failed to write report", "error", err)
		return 1
	}

	if runErr != nil {
		slog.Warn("no winner", "error", runErr)
		return exitNoWinner
	}
	return 0
}
