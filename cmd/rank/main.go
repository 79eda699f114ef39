// Shelfwise - Book Recommendation Ranking Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

// Command rank ranks the catalog for one request document and prints the
// result as a JSON array.
//
//	rank --artifacts-dir /data/model '{"books":["The Hobbit"],"genres":["Fantasy"]}'
//	echo '{"authors":["Ursula K. Le Guin"]}' | rank --profile survey
//	rank --duckdb artifacts.duckdb --input request.json
//
// The process always exits 0. A missing artifact set, an unreadable request
// or any failure while ranking yields the popular fallback list, which is
// empty only when no catalog could be loaded. Logs go to stderr.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/goccy/go-json"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"

	"github.com/tomtom215/shelfwise/internal/artifacts"
	"github.com/tomtom215/shelfwise/internal/breaker"
	"github.com/tomtom215/shelfwise/internal/config"
	"github.com/tomtom215/shelfwise/internal/logging"
	"github.com/tomtom215/shelfwise/internal/recommend"
	"github.com/tomtom215/shelfwise/internal/recommend/reranking"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// options are the parsed command line.
type options struct {
	artifactsDir string
	duckdbPath   string
	profile      string
	input        string
	seed         int64
	seedSet      bool
	logLevel     string
	args         []string
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	flags := pflag.NewFlagSet("rank", pflag.ContinueOnError)
	flags.SetOutput(stderr)

	o := &options{}
	flags.StringVar(&o.artifactsDir, "artifacts-dir", "", "directory with book_index.json and cosine_sim.json")
	flags.StringVar(&o.duckdbPath, "duckdb", "", "DuckDB database with book_index and cosine_sim tables")
	flags.StringVar(&o.profile, "profile", "", "ranking profile (default from config)")
	flags.StringVarP(&o.input, "input", "i", "", "request file, - for stdin (default: first argument, else stdin)")
	flags.Int64Var(&o.seed, "seed", 0, "seed for the fallback sample (0 draws a random seed)")
	flags.StringVar(&o.logLevel, "log-level", "", "log level (default from config)")

	if err := flags.Parse(args); err != nil {
		return nil, err
	}
	o.seedSet = flags.Changed("seed")
	o.args = flags.Args()
	return o, nil
}

// run ranks one request and returns the exit status, which is always 0.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	opts, err := parseFlags(args, stderr)
	if errors.Is(err, pflag.ErrHelp) {
		return 0
	}
	if err != nil {
		// Flags are unusable; rank with an empty request and default sources.
		opts = &options{}
	}

	if envErr := godotenv.Load(); envErr != nil && !errors.Is(envErr, fs.ErrNotExist) {
		fmt.Fprintf(stderr, "rank: .env: %v\n", envErr)
	}

	cfg, cfgErr := config.LoadRanking()
	level := opts.logLevel
	if level == "" && cfg != nil {
		level = cfg.Logging.Level
	}
	logger := newLogger(stderr, level)
	if err != nil {
		logger.Warn().Err(err).Msg("Invalid flags, ranking an empty request")
	}
	if cfgErr != nil {
		logger.Warn().Err(cfgErr).Msg("Configuration unusable, using built-in defaults")
		cfg = nil
	}

	req, err := readRequest(opts, stdin)
	if err != nil {
		logger.Warn().Err(err).Msg("Unreadable request, serving fallback")
		req = recommend.Request{}
	}

	items := rank(context.Background(), opts, cfg, req, logger)
	if err := writeItems(stdout, items); err != nil {
		logger.Error().Err(err).Msg("Failed to write output")
	}
	return 0
}

func newLogger(w io.Writer, level string) zerolog.Logger {
	return logging.New(logging.Config{Level: level, Timestamp: true, Output: w}).
		With().Str("cmd", "rank").Logger()
}

// readRequest decodes the request document named by --input, the first
// positional argument, or stdin, in that order.
func readRequest(opts *options, stdin io.Reader) (recommend.Request, error) {
	var (
		data []byte
		err  error
	)
	switch {
	case opts.input == "-":
		data, err = io.ReadAll(stdin)
	case opts.input != "":
		data, err = os.ReadFile(opts.input)
	case len(opts.args) > 0:
		data = []byte(opts.args[0])
	default:
		data, err = io.ReadAll(stdin)
	}
	if err != nil {
		return recommend.Request{}, err
	}

	var req recommend.Request
	if strings.TrimSpace(string(data)) == "" {
		return req, nil
	}
	if err := json.Unmarshal(data, &req); err != nil {
		return recommend.Request{}, fmt.Errorf("decode request: %w", err)
	}
	// Stored user data is not available offline.
	req.UserID = 0
	return req, nil
}

// source picks the artifact source: --duckdb, then --artifacts-dir, then
// configuration.
func source(opts *options, cfg *config.Config) (artifacts.Source, error) {
	switch {
	case opts.duckdbPath != "":
		return artifacts.NewDuckDBSource(opts.duckdbPath), nil
	case opts.artifactsDir != "":
		return artifacts.NewFileSource(opts.artifactsDir), nil
	case cfg != nil:
		return artifacts.NewSource(cfg.Artifacts.Source, cfg.Artifacts.Location())
	default:
		return nil, errors.New("no artifact location: set --artifacts-dir, --duckdb or ARTIFACTS_DIR")
	}
}

// buildEngine resolves the profile, applying --seed, and returns its engine.
// Configuration problems fall back to the built-in default profile.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func buildEngine(opts *options, cfg *config.Config, logger zerolog.Logger) (*recommend.Engine, error) {
	profiles := recommend.BuiltinProfiles()
	name := recommend.ProfileDefault
	if cfg != nil {
		resolved, err := cfg.Recommend.ResolveProfiles()
		if err != nil {
			logger.Warn().Err(err).Msg("Profile overrides rejected, using built-in profiles")
		} else {
			profiles = resolved
		}
		if cfg.Recommend.DefaultProfile != "" {
			name = cfg.Recommend.DefaultProfile
		}
	}
	if opts.profile != "" {
		name = opts.profile
	}
	p, ok := profiles[name]
	if !ok {
		logger.Warn().Str("profile", name).Strs("available", recommend.ProfileNames(profiles)).Msg("Unknown profile, using default")
		name = recommend.ProfileDefault
		p = recommend.DefaultProfile()
	}
	p = p.Clone()
	if opts.seedSet {
		p.Seed = opts.seed
	}

	engines, err := recommend.NewEngines(map[string]*recommend.Profile{name: p}, name, logger)
	if err != nil {
		logger.Warn().Err(err).Msg("Profile invalid, using built-in default")
		engines, err = recommend.NewEngines(recommend.BuiltinProfiles(), recommend.ProfileDefault, logger)
		if err != nil {
			return nil, err
		}
	}
	reranking.Register(engines)
	return engines.Default(), nil
}

//nolint:gocritic // logger passed by value is acceptable for zerolog
func rank(ctx context.Context, opts *options, cfg *config.Config, req recommend.Request, logger zerolog.Logger) []recommend.Record {
	eng, err := buildEngine(opts, cfg, logger)
	if err != nil {
		logger.Error().Err(err).Msg("No usable ranking profile")
		return nil
	}

	holder := artifacts.NewHolder(nil, logger)
	if src, err := source(opts, cfg); err != nil {
		logger.Warn().Err(err).Msg("Artifacts unavailable")
	} else {
		ix, err := artifacts.NewLoader(src, breaker.DefaultConfig(), logger).Load(ctx)
		if err != nil {
			logger.Warn().Err(err).Str("source", src.Name()).Msg("Artifacts unavailable")
		} else {
			holder.Set(ix)
		}
	}
	eng.SetIndexProvider(holder)

	resp := eng.Recommend(ctx, req)
	logger.Info().
		Str("profile", resp.Metadata.Profile).
		Int("items", len(resp.Items)).
		Bool("fallback", resp.Metadata.Fallback).
		Str("fallback_cause", resp.Metadata.FallbackCause).
		Msg("Ranked")
	return resp.Items
}

// writeItems prints items as one JSON array. A list that cannot be encoded
// is replaced by an empty array so stdout always holds valid JSON.
func writeItems(w io.Writer, items []recommend.Record) error {
	data, encErr := json.Marshal(items)
	if items == nil || encErr != nil {
		data = []byte("[]")
	}
	data = append(data, '\n')
	if _, err := w.Write(data); err != nil {
		return err
	}
	if encErr != nil {
		return fmt.Errorf("encode items: %w", encErr)
	}
	return nil
}
