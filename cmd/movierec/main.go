// Package main is the movierec CLI entry point.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/hyperjump/movierec/internal/catalog"
	"github.com/hyperjump/movierec/internal/cli"
	"github.com/hyperjump/movierec/internal/config"
	"github.com/hyperjump/movierec/internal/features"
	"github.com/hyperjump/movierec/internal/models"
	"github.com/hyperjump/movierec/internal/recommend"
	"github.com/hyperjump/movierec/internal/reload"
	"github.com/hyperjump/movierec/internal/server"
	"github.com/hyperjump/movierec/pkg/utils"
	"go.uber.org/zap"
)

var version = "dev"

const (
	defaultConfigPath = "/usr/local/etc/movierec/config.yaml"
	defaultServerURL  = "http://localhost:5000"
)

// loadConfig loads config from path. When path is the default, config.yaml in the current
// directory wins if present, and a missing default file falls back to built-in defaults.
// Returns the config and the path that was actually loaded ("" for defaults).
func loadConfig(path string) (*config.Config, string, error) {
	if path == defaultConfigPath {
		if cwd, cwdErr := os.Getwd(); cwdErr == nil {
			fallback := filepath.Join(cwd, "config.yaml")
			if _, statErr := os.Stat(fallback); statErr == nil {
				cfg, loadErr := config.Load(fallback)
				if loadErr != nil {
					return nil, "", loadErr
				}
				return cfg, fallback, nil
			}
		}
		if _, statErr := os.Stat(path); errors.Is(statErr, os.ErrNotExist) {
			cfg, err := config.Default()
			return cfg, "", err
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	command := os.Args[1]
	switch command {
	case "server":
		runServer()
	case "genres":
		runGenres()
	case "random":
		runRandom()
	case "search":
		runSearch()
	case "recommend":
		runRecommend()
	case "status":
		runStatus()
	case "config":
		runConfig()
	case "version", "--version", "-v":
		fmt.Printf("movierec version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func runServer() {
	fs := flag.NewFlagSet("server", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging")
	_ = fs.Parse(os.Args[2:])

	cfg, resolvedConfigPath, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	debugMode := cfg.Debug || *debug
	logger, err := utils.NewLogger(debugMode)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("config loaded",
		zap.String("config_path", resolvedConfigPath),
		zap.String("catalog_path", cfg.Catalog.Path),
		zap.Bool("debug", debugMode),
	)

	// A catalog that fails to load leaves the server up with data routes answering 503.
	engine, err := buildEngine(context.Background(), cfg, logger)
	if err != nil {
		logger.Error("Failed to build recommendation engine", zap.Error(err))
	}
	srv := server.NewServer(engine, &cfg.Server, &cfg.Recommend, logger)

	rootCtx, rootCancel := context.WithCancel(context.Background())
	defer rootCancel()
	reloader := reload.New(cfg.Catalog.Path, func(ctx context.Context) (*recommend.Engine, error) {
		return buildEngine(ctx, cfg, logger)
	}, srv, reload.WithLogger(logger))
	if cfg.Catalog.Watch {
		if err := reloader.Start(rootCtx); err != nil {
			logger.Warn("catalog watch disabled", zap.Error(err))
		}
	}

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	for sig := range sigChan {
		if sig == syscall.SIGHUP {
			logger.Info("SIGHUP received, reloading catalog")
			_ = reloader.Reload(rootCtx)
			continue
		}
		break
	}

	logger.Info("Shutting down...")
	reloader.Stop()
	rootCancel()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Stop(ctx)
}

// buildEngine loads the catalog and builds the feature index from cfg.
func buildEngine(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*recommend.Engine, error) {
	start := time.Now()
	cat, err := catalog.Load(cfg.Catalog.Path, &catalog.LoadOptions{
		Table: cfg.Catalog.Table,
		Sheet: cfg.Catalog.Sheet,
	})
	if err != nil {
		return nil, err
	}
	engine, err := recommend.Build(ctx, cat, recommend.BuildOptions{
		Features: features.Options{
			MaxFeatures:   cfg.Features.MaxFeatures,
			MinTermLength: cfg.Features.MinTermLength,
		},
		GenreNamesOnly: cfg.Features.GenreNamesOnly,
	},
		recommend.WithLogger(logger),
		recommend.WithCandidateMultiplier(cfg.Recommend.CandidateMultiplier),
	)
	if err != nil {
		return nil, err
	}
	logger.Info("recommendation engine ready",
		zap.Int("movies", engine.Size()),
		zap.Int("vocabulary", engine.VocabularySize()),
		zap.Duration("duration", time.Since(start)),
	)
	return engine, nil
}

// commonFlags are shared by every query subcommand.
type commonFlags struct {
	configPath *string
	serverURL  *string
	output     *string
}

func addCommonFlags(fs *flag.FlagSet) commonFlags {
	return commonFlags{
		configPath: fs.String("config", defaultConfigPath, "config file path (for direct mode)"),
		serverURL:  fs.String("server", defaultServerURL, "server URL (empty = load the catalog directly)"),
		output:     fs.String("output", "text", "output format: text, compact, or json"),
	}
}

// openSource returns an HTTP client for --server, or an in-process engine when it is empty.
func openSource(f commonFlags) (cli.Source, cli.OutputFormat, func()) {
	format, err := cli.ParseOutputFormat(*f.output)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if *f.serverURL != "" {
		return cli.NewClient(*f.serverURL), format, func() {}
	}
	cfg, _, err := loadConfig(*f.configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger, err := utils.NewLogger(cfg.Debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	engine, err := buildEngine(context.Background(), cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load catalog: %v\n", err)
		os.Exit(1)
	}
	return cli.NewLocal(engine, cfg.Recommend), format, func() { _ = logger.Sync() }
}

func exitOnError(what string, err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s failed: %v\n", what, err)
		os.Exit(1)
	}
}

func runGenres() {
	fs := flag.NewFlagSet("genres", flag.ExitOnError)
	common := addCommonFlags(fs)
	_ = fs.Parse(os.Args[2:])

	src, format, closeFn := openSource(common)
	defer closeFn()
	genres, err := src.Genres(context.Background())
	exitOnError("Genres", err)
	exitOnError("Output", cli.WriteGenres(os.Stdout, genres, format))
}

func runRandom() {
	fs := flag.NewFlagSet("random", flag.ExitOnError)
	common := addCommonFlags(fs)
	count := fs.Int("count", 0, "number of movies (default from config, 12)")
	_ = fs.Parse(os.Args[2:])

	src, format, closeFn := openSource(common)
	defer closeFn()
	movies, err := src.Random(context.Background(), *count)
	exitOnError("Random", err)
	exitOnError("Output", cli.WriteMovies(os.Stdout, movies, format))
}

func runSearch() {
	fs := flag.NewFlagSet("search", flag.ExitOnError)
	common := addCommonFlags(fs)
	limit := fs.Int("limit", 0, "maximum results (default from config, 20)")
	fs.Usage = func() { printSearchUsage(fs) }
	_ = fs.Parse(argsReorder(os.Args[2:]))

	query := joinArgs(fs.Args())
	if query == "" {
		printSearchUsage(fs)
		os.Exit(1)
	}
	src, format, closeFn := openSource(common)
	defer closeFn()
	movies, err := src.Search(context.Background(), query, *limit)
	exitOnError("Search", err)
	exitOnError("Output", cli.WriteMovies(os.Stdout, movies, format))
}

func printSearchUsage(fs *flag.FlagSet) {
	fmt.Fprintf(fs.Output(), "Usage: movierec search [flags] <title>\n\n")
	fmt.Fprintf(fs.Output(), "Title is all remaining arguments joined by spaces; matching is a case-insensitive substring.\n\n")
	fs.PrintDefaults()
}

func runRecommend() {
	if len(os.Args) < 3 {
		printUsage()
		os.Exit(1)
	}
	fs := flag.NewFlagSet("recommend "+os.Args[2], flag.ExitOnError)
	common := addCommonFlags(fs)
	count := fs.Int("count", 0, "number of movies (default from config, 12)")

	switch os.Args[2] {
	case "genre":
		genres := fs.String("genres", "", "comma-separated genre names")
		_ = fs.Parse(argsReorder(os.Args[3:]))
		names := cli.SplitList(*genres)
		names = append(names, fs.Args()...)
		src, format, closeFn := openSource(common)
		defer closeFn()
		movies, err := src.ByGenre(context.Background(), models.GenreRequest{Genres: names, Count: *count})
		exitOnError("Recommend", err)
		exitOnError("Output", cli.WriteMovies(os.Stdout, movies, format))
	case "feedback":
		liked := fs.String("liked", "", "comma-separated titles you liked")
		disliked := fs.String("disliked", "", "comma-separated titles you disliked")
		_ = fs.Parse(os.Args[3:])
		src, format, closeFn := openSource(common)
		defer closeFn()
		movies, err := src.ByFeedback(context.Background(), models.FeedbackRequest{
			Liked:    cli.SplitList(*liked),
			Disliked: cli.SplitList(*disliked),
			Count:    *count,
		})
		exitOnError("Recommend", err)
		exitOnError("Output", cli.WriteMovies(os.Stdout, movies, format))
	default:
		fmt.Printf("Unknown recommend mode: %s (use genre or feedback)\n", os.Args[2])
		os.Exit(1)
	}
}

func runStatus() {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	common := addCommonFlags(fs)
	_ = fs.Parse(os.Args[2:])

	src, format, closeFn := openSource(common)
	defer closeFn()
	status, err := src.Status(context.Background())
	exitOnError("Status", err)
	exitOnError("Output", cli.WriteStatus(os.Stdout, status, format))
}

func runConfig() {
	if len(os.Args) < 3 || os.Args[2] != "init" {
		fmt.Println("Usage: movierec config init [--path string] [--force]")
		os.Exit(1)
	}
	fs := flag.NewFlagSet("config init", flag.ExitOnError)
	path := fs.String("path", "config.yaml", "where to write the config file")
	force := fs.Bool("force", false, "overwrite an existing file")
	_ = fs.Parse(os.Args[3:])

	exitOnError("Config", writeDefaultConfig(*path, *force))
	fmt.Printf("Wrote default config to %s\n", *path)
}

// writeDefaultConfig saves the built-in defaults, with environment overrides applied, to path.
func writeDefaultConfig(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		}
	}
	cfg, err := config.Default()
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}
	return config.Save(path, cfg)
}

// joinArgs joins positional args into one query, trimming blanks.
func joinArgs(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}

// argsReorder moves flags (and their values) ahead of positional args so that
// "movierec search star wars --limit 5" parses like "movierec search --limit 5 star wars".
func argsReorder(args []string) []string {
	var flags, positional []string
	for i := 0; i < len(args); i++ {
		a := args[i]
		if strings.HasPrefix(a, "-") && len(a) > 1 {
			flags = append(flags, a)
			if !strings.Contains(a, "=") && i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
				flags = append(flags, args[i+1])
				i++
			}
			continue
		}
		positional = append(positional, a)
	}
	if len(flags) == 0 {
		return args
	}
	return append(flags, positional...)
}

func printUsage() {
	fmt.Println(`movierec - Content-based movie recommendations

Usage:
  movierec server [flags]                      Start the HTTP server
  movierec genres [flags]                      List catalog genres
  movierec random [flags]                      Sample random movies
  movierec search [flags] <title>              Search movies by title
  movierec recommend genre [flags] <genre>...  Recommend movies by genre
  movierec recommend feedback [flags]          Recommend from liked/disliked titles
  movierec status [flags]                      Show catalog and engine status
  movierec config init [--path p] [--force]    Write a default config file
  movierec version                             Show version
  movierec help                                Show this help

Server Flags:
  --config string    Config file path (default: /usr/local/etc/movierec/config.yaml)
  --debug            Enable debug logging

Query Flags (genres, random, search, recommend, status):
  --config string    Config file path (for direct mode)
  --server string    Server URL (default: http://localhost:5000). Use empty (--server "") to load the catalog directly.
  --output string    Output format: text, compact, or json (default: text)
  --count int        Number of movies (random, recommend)
  --limit int        Maximum results (search)

Recommend Flags:
  --genres string    Comma-separated genres (recommend genre)
  --liked string     Comma-separated liked titles (recommend feedback)
  --disliked string  Comma-separated disliked titles (recommend feedback)

Examples:
  movierec server
  movierec genres --output json
  movierec random --count 5
  movierec search "star wars"
  movierec recommend genre Action "Science Fiction" --count 6
  movierec recommend feedback --liked "Heat,Die Hard" --disliked "Notting Hill"
  movierec status --server ""
  movierec config init --path /usr/local/etc/movierec/config.yaml`)
}
