// Command sociomatch ranks candidate social media profiles against a known person.
//
// Usage:
//
//	sociomatch serve                                 # HTTP API, configured via SOCIOMATCH_* env vars
//	sociomatch match -request req.json               # rank locally, print JSON
//	sociomatch match -request - -format text < req.json
//	sociomatch match -request req.json -remote http://localhost:8080
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/codeGROOVE-dev/sociomatch/pkg/client"
	"github.com/codeGROOVE-dev/sociomatch/pkg/config"
	"github.com/codeGROOVE-dev/sociomatch/pkg/match"
	"github.com/codeGROOVE-dev/sociomatch/pkg/profile"
	"github.com/codeGROOVE-dev/sociomatch/pkg/report"
	"github.com/codeGROOVE-dev/sociomatch/pkg/request"
	"github.com/codeGROOVE-dev/sociomatch/pkg/resultcache"
	"github.com/codeGROOVE-dev/sociomatch/pkg/server"
	"github.com/codeGROOVE-dev/sociomatch/pkg/tables"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if len(args) < 1 {
		usage(stderr)
		return 2
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(stderr, "Error: failed to load config: %v\n", err)
		return 1
	}

	switch args[0] {
	case "serve":
		return runServe(args[1:], cfg, stderr)
	case "match":
		return runMatch(args[1:], cfg, stdin, stdout, stderr)
	case "-h", "-help", "--help", "help":
		usage(stdout)
		return 0
	default:
		fmt.Fprintf(stderr, "Error: unknown command %q\n\n", args[0])
		usage(stderr)
		return 2
	}
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "Usage: sociomatch <command> [options]")
	fmt.Fprintln(w, "\nCommands:")
	fmt.Fprintln(w, "  serve   run the HTTP API (POST /v1/match, POST /v1/score, GET /healthz)")
	fmt.Fprintln(w, "  match   rank the profiles in a request file against its person")
	fmt.Fprintln(w, "\nRun 'sociomatch <command> -h' for command options.")
}

func runServe(args []string, cfg config.Config, stderr io.Writer) int {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	fs.SetOutput(stderr)
	host := fs.String("host", cfg.HTTP.Host, "listen host")
	port := fs.Int("port", cfg.HTTP.Port, "listen port")
	tablesFile := fs.String("tables", cfg.TablesFile, "YAML file extending the nickname and location tables")
	debug := fs.Bool("debug", false, "enable debug logging")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	cfg.HTTP.Host = *host
	cfg.HTTP.Port = *port
	if *debug {
		cfg.Logging.Level = "debug"
	}

	logger := config.NewLogger(cfg.Logging)

	scorer, err := newScorer(*tablesFile, cfg.Workers, logger)
	if err != nil {
		logger.Error("failed to build scorer", "error", err)
		return 1
	}

	cache, err := resultcache.New(cfg.CacheTTL, logger)
	if err != nil {
		logger.Warn("failed to initialize cache, continuing without cache", "error", err)
	}

	api := server.NewAPI(logger, scorer, cache, cfg.Limits)
	srv := server.New(logger, cfg.HTTP, server.NewRouter(logger, api))

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case sig := <-sigCh:
		logger.Info("received shutdown signal", "signal", sig.String())
	case err := <-errCh:
		if err != nil {
			logger.Error("server stopped unexpectedly", "error", err)
			return 1
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
		return 1
	}
	return 0
}

func runMatch(args []string, cfg config.Config, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("match", flag.ContinueOnError)
	fs.SetOutput(stderr)
	requestFile := fs.String("request", "", "match request JSON file, or - for stdin (required)")
	remote := fs.String("remote", "", "score on a running server at this base URL instead of locally")
	format := fs.String("format", "json", "output format: json or text")
	tablesFile := fs.String("tables", cfg.TablesFile, "YAML file extending the nickname and location tables")
	noColor := fs.Bool("no-color", false, "disable colored text output")
	debug := fs.Bool("debug", false, "enable debug logging")
	verbose := fs.Bool("v", false, "verbose logging (same as -debug)")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *requestFile == "" {
		fmt.Fprintln(stderr, "Error: -request is required")
		fs.Usage()
		return 2
	}
	if *format != "json" && *format != "text" {
		fmt.Fprintf(stderr, "Error: unknown format %q (want json or text)\n", *format)
		return 2
	}

	logLevel := slog.LevelWarn
	if *debug || *verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: logLevel}))

	req, err := readRequest(*requestFile, stdin, cfg.Limits)
	if err != nil {
		var verr *request.ValidationError
		if errors.As(err, &verr) {
			fmt.Fprintln(stderr, "Error: invalid request:")
			for _, p := range verr.Problems {
				fmt.Fprintf(stderr, "  - %s\n", p)
			}
			return 1
		}
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	var results []profile.MatchResult
	if *remote != "" {
		c := client.New(*remote, client.WithLogger(logger))
		results, err = c.Match(context.Background(), req)
		if err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
	} else {
		scorer, err := newScorer(*tablesFile, cfg.Workers, logger)
		if err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
		results = scorer.Rank(req.Person, req.Profiles)
	}

	if *format == "text" {
		useColor := !*noColor
		if f, ok := stdout.(*os.File); !ok || !report.IsTerminal(f) {
			useColor = false
		}
		if err := report.New(stdout, useColor).Write(results); err != nil {
			fmt.Fprintf(stderr, "Output error: %v\n", err)
			return 1
		}
		return 0
	}

	if err := outputJSON(stdout, server.MatchResponse{Results: results}); err != nil {
		fmt.Fprintf(stderr, "Output error: %v\n", err)
		return 1
	}
	return 0
}

func readRequest(path string, stdin io.Reader, lim request.Limits) (*request.Match, error) {
	if path == "-" {
		return request.DecodeMatch(stdin, lim)
	}
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("open request file: %w", err)
	}
	defer f.Close() //nolint:errcheck // read-only
	return request.DecodeMatch(f, lim)
}

func newScorer(tablesFile string, workers int, logger *slog.Logger) (*match.Scorer, error) {
	opts := []match.Option{match.WithLogger(logger), match.WithWorkers(workers)}
	if tablesFile != "" {
		t, err := tables.Load(tablesFile)
		if err != nil {
			return nil, err
		}
		opts = append(opts, t.Options()...)
		logger.Debug("loaded table extensions", "file", tablesFile,
			"nicknames", len(t.Nicknames), "locations", len(t.Locations))
	}
	return match.New(opts...), nil
}

func outputJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
