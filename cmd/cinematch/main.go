// Package main is the cinematch CLI entry point.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"github.com/goccy/go-json"
	"github.com/hyperjump/cinematch/internal/catalog"
	"github.com/hyperjump/cinematch/internal/cli"
	"github.com/hyperjump/cinematch/internal/config"
	"github.com/hyperjump/cinematch/internal/metrics"
	"github.com/hyperjump/cinematch/internal/models"
	"github.com/hyperjump/cinematch/internal/recommend"
	"github.com/hyperjump/cinematch/internal/server"
	"github.com/hyperjump/cinematch/pkg/utils"
	"go.uber.org/zap"
)

var version = "dev"

const defaultConfigPath = "/usr/local/etc/cinematch/config.yaml"

// loadConfig loads config from path. When path is the default, it first looks for
// config.yaml in the current directory (for development). When neither exists the
// built-in defaults are used. Returns the config and the path that was actually loaded.
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
			cfg := &config.Config{}
			config.ApplyDefaults(cfg)
			return cfg, "", nil
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
	case "serve", "server":
		runServe()
	case "recommend":
		runRecommend()
	case "titles":
		runTitles()
	case "status":
		runStatus()
	case "version", "--version", "-v":
		fmt.Printf("cinematch version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

// commonFlags are shared by every command that builds an index.
type commonFlags struct {
	configPath *string
	movies     *string
	debug      *bool
}

func addCommonFlags(fs *flag.FlagSet) *commonFlags {
	return &commonFlags{
		configPath: fs.String("config", defaultConfigPath, "config file path"),
		movies:     fs.String("movies", "", "movies catalog path (overrides config)"),
		debug:      fs.Bool("debug", false, "enable debug logging"),
	}
}

// setup loads config and creates the logger. Failures exit the process.
func (f *commonFlags) setup() (*config.Config, *zap.Logger) {
	cfg, resolved, err := loadConfig(*f.configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if *f.movies != "" {
		cfg.Catalog.MoviesPath = *f.movies
	}
	debugMode := cfg.Debug || *f.debug
	logger, err := utils.NewLogger(debugMode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	logger.Debug("config loaded",
		zap.String("config_path", resolved),
		zap.String("movies_path", cfg.Catalog.MoviesPath),
		zap.Bool("debug", debugMode))
	return cfg, logger
}

// buildIndex loads the catalog and builds the recommendation index. The ratings shape is
// reported when a ratings path is configured.
func buildIndex(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*recommend.Index, *models.Shape, error) {
	src, err := catalog.NewSource(&cfg.Catalog)
	if err != nil {
		return nil, nil, err
	}
	idx, err := recommend.Load(ctx, src,
		recommend.WithLogger(logger),
		recommend.WithWorkers(cfg.Recommend.Workers))
	if err != nil {
		return nil, nil, err
	}
	st := idx.Stats()
	metrics.RecordIndexBuild(st.Movies, st.Vocabulary, st.BuildTime)

	var ratings *models.Shape
	if cfg.Catalog.RatingsPath != "" {
		shape, err := catalog.RatingsShape(cfg.Catalog.RatingsPath)
		if err != nil {
			logger.Warn("ratings shape unavailable", zap.String("path", cfg.Catalog.RatingsPath), zap.Error(err))
		} else {
			ratings = &shape
			logger.Info("ratings loaded", zap.Int("rows", shape.Rows), zap.Int("columns", shape.Columns))
		}
	}
	return idx, ratings, nil
}

func mustBuildIndex(cfg *config.Config, logger *zap.Logger) (*recommend.Index, *models.Shape) {
	idx, ratings, err := buildIndex(context.Background(), cfg, logger)
	if err != nil {
		var loadErr *catalog.LoadError
		if errors.As(err, &loadErr) {
			logger.Fatal("Failed to load catalog", zap.String("source", loadErr.Source), zap.Error(loadErr.Err))
		}
		logger.Fatal("Failed to build index", zap.Error(err))
	}
	return idx, ratings
}

func runServe() {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	common := addCommonFlags(fs)
	_ = fs.Parse(os.Args[2:])

	cfg, logger := common.setup()
	defer logger.Sync()

	idx, ratings := mustBuildIndex(cfg, logger)
	defer idx.Close()

	var opts []server.ServerOption
	if ratings != nil {
		opts = append(opts, server.WithRatingsShape(*ratings))
	}
	srv := server.NewServer(idx, cfg, logger, opts...)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Stop(ctx)
}

// argsReorder moves any flags (and their values) that appear after the title
// to the front of the slice so that flag.Parse() sees them.
func argsReorder(args []string) []string {
	for i, a := range args {
		if len(a) > 0 && a[0] == '-' {
			if i == 0 {
				return args
			}
			reordered := make([]string, 0, len(args))
			reordered = append(reordered, args[i:]...)
			reordered = append(reordered, args[:i]...)
			return reordered
		}
	}
	return args
}

func printRecommendUsage(fs *flag.FlagSet) {
	fmt.Fprintf(fs.Output(), "Usage: cinematch recommend [flags] [title]\n\n")
	fmt.Fprintf(fs.Output(), "Title is all remaining arguments joined by spaces. Without a title, sample titles\nare listed and the title is read from standard input.\n\n")
	fs.PrintDefaults()
}

func runRecommend() {
	fs := flag.NewFlagSet("recommend", flag.ExitOnError)
	common := addCommonFlags(fs)
	n := fs.Int("n", 0, "number of recommendations (default from config, 5)")
	serverURL := fs.String("server", "", "query a running server instead of building the index locally")
	outputFormat := fs.String("output", "text", "output format: text or json")
	fs.Usage = func() { printRecommendUsage(fs) }
	_ = fs.Parse(argsReorder(os.Args[2:]))

	format, err := cli.ParseOutputFormat(*outputFormat)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if *n < 0 {
		fmt.Fprintln(os.Stderr, "n must be a positive integer")
		os.Exit(1)
	}
	title := cli.JoinArgs(fs.Args())

	if *serverURL != "" {
		if title == "" {
			printRecommendUsage(fs)
			os.Exit(1)
		}
		resp, notFound, err := recommendViaHTTP(*serverURL, title, *n)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Recommend failed: %v\n", err)
			os.Exit(1)
		}
		if notFound != nil {
			_ = cli.WriteNotFound(os.Stdout, notFound, format)
			os.Exit(1)
		}
		if err := cli.WriteRecommendations(os.Stdout, resp, format); err != nil {
			fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
			os.Exit(1)
		}
		return
	}

	cfg, logger := common.setup()
	defer logger.Sync()
	idx, _ := mustBuildIndex(cfg, logger)
	defer idx.Close()

	if title == "" {
		fmt.Println("Sample titles:")
		_ = cli.WriteTitles(os.Stdout, idx.ListTitles(), cli.SampleTitleCount, cli.OutputText)
		title, err = cli.PromptTitle(os.Stdin, os.Stdout, "\nEnter a movie title: ")
		if err != nil {
			fmt.Fprintf(os.Stderr, "No title: %v\n", err)
			os.Exit(1)
		}
	}

	if code := recommendLocal(context.Background(), os.Stdout, idx, cfg, title, *n, format); code != 0 {
		os.Exit(code)
	}
}

// recommendLocal runs a query against idx and writes the result. It returns the process
// exit code: 0 on success, 1 when the title is not found or the query is invalid.
func recommendLocal(ctx context.Context, w io.Writer, idx *recommend.Index, cfg *config.Config, title string, n int, format cli.OutputFormat) int {
	resp, err := idx.Query(&models.RecommendQuery{Title: title, N: n}, cfg.Recommend.DefaultN, cfg.Recommend.MaxN)
	switch {
	case errors.Is(err, recommend.ErrNotFound):
		_ = cli.WriteNotFound(w, &models.NotFoundResponse{
			Error:       "Movie not found",
			Title:       title,
			Suggestions: idx.Suggest(ctx, title, cfg.Recommend.SuggestionLimit),
		}, format)
		return 1
	case err != nil:
		fmt.Fprintf(w, "Recommend failed: %v\n", err)
		return 1
	}
	if err := cli.WriteRecommendations(w, resp, format); err != nil {
		fmt.Fprintf(w, "Output failed: %v\n", err)
		return 1
	}
	return 0
}

// recommendViaHTTP queries a running server. A 404 is returned as a NotFoundResponse.
func recommendViaHTTP(serverURL, title string, n int) (*models.RecommendResponse, *models.NotFoundResponse, error) {
	params := url.Values{"title": {title}}
	if n > 0 {
		params.Set("n", strconv.Itoa(n))
	}
	resp, err := http.Get(serverURL + "/recommend?" + params.Encode())
	if err != nil {
		return nil, nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	switch resp.StatusCode {
	case http.StatusOK:
		var out models.RecommendResponse
		if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
			return nil, nil, fmt.Errorf("decode response: %w", err)
		}
		return &out, nil, nil
	case http.StatusNotFound:
		var nf models.NotFoundResponse
		if err := json.NewDecoder(resp.Body).Decode(&nf); err != nil {
			return nil, nil, fmt.Errorf("decode response: %w", err)
		}
		return nil, &nf, nil
	default:
		b, _ := io.ReadAll(resp.Body)
		return nil, nil, fmt.Errorf("server returned %d: %s", resp.StatusCode, string(b))
	}
}

func runTitles() {
	fs := flag.NewFlagSet("titles", flag.ExitOnError)
	common := addCommonFlags(fs)
	limit := fs.Int("limit", 0, "maximum number of titles (0 = all)")
	query := fs.String("q", "", "only titles matching this search")
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(os.Args[2:])

	format, err := cli.ParseOutputFormat(*outputFormat)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	cfg, logger := common.setup()
	defer logger.Sync()
	idx, _ := mustBuildIndex(cfg, logger)
	defer idx.Close()

	titles := idx.ListTitles()
	if *query != "" {
		searchLimit := *limit
		if searchLimit <= 0 {
			searchLimit = len(titles)
		}
		titles, err = idx.SearchTitles(context.Background(), *query, searchLimit)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Title search failed: %v\n", err)
			os.Exit(1)
		}
	}
	if err := cli.WriteTitles(os.Stdout, titles, *limit, format); err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
}

// statusReport is the output of the status command.
type statusReport struct {
	Source  string          `json:"source"`
	Catalog models.Shape    `json:"catalog"`
	Ratings *models.Shape   `json:"ratings,omitempty"`
	Index   recommend.Stats `json:"index"`
}

func runStatus() {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	common := addCommonFlags(fs)
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(os.Args[2:])

	format, err := cli.ParseOutputFormat(*outputFormat)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	cfg, logger := common.setup()
	defer logger.Sync()
	idx, ratings := mustBuildIndex(cfg, logger)
	defer idx.Close()

	st := idx.Stats()
	report := &statusReport{
		Source:  cfg.Catalog.MoviesPath,
		Catalog: models.Shape{Rows: st.Movies, Columns: st.Columns},
		Ratings: ratings,
		Index:   st,
	}
	if err := writeStatus(os.Stdout, report, format); err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
}

func writeStatus(w io.Writer, report *statusReport, format cli.OutputFormat) error {
	if format == cli.OutputJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}
	fmt.Fprintf(w, "source:        %s\n", report.Source)
	fmt.Fprintf(w, "movies:        (%d, %d)   # rows, columns\n", report.Catalog.Rows, report.Catalog.Columns)
	if report.Ratings != nil {
		fmt.Fprintf(w, "ratings:       (%d, %d)   # rows, columns\n", report.Ratings.Rows, report.Ratings.Columns)
	}
	fmt.Fprintf(w, "vocabulary:    %d\n", report.Index.Vocabulary)
	fmt.Fprintf(w, "build_time:    %s\n", report.Index.BuildTime)
	fmt.Fprintf(w, "build_id:      %s\n", report.Index.BuildID)
	return nil
}

func printUsage() {
	fmt.Println(usageText)
}

const usageText = `cinematch - Content-based movie recommendations

Usage:
  cinematch serve [flags]              Start the HTTP API and browser UI
  cinematch recommend [flags] [title]  Recommend movies similar to a title
  cinematch titles [flags]             List catalog titles
  cinematch status [flags]             Show catalog and index status
  cinematch version                    Show version
  cinematch help                       Show this help

Common Flags:
  --config string    Config file path (default: /usr/local/etc/cinematch/config.yaml, or ./config.yaml)
  --movies string    Movies catalog path, .csv, .xlsx or .db (overrides config)
  --debug            Enable debug logging

Recommend Flags:
  --n int            Number of recommendations (default from config, 5)
  --server string    Query a running server (e.g. http://localhost:8080) instead of building locally
  --output string    Output format: text or json (default: text)

Titles Flags:
  --limit int        Maximum number of titles (default: all)
  --q string         Only titles matching this search
  --output string    Output format: text or json (default: text)

Status Flags:
  --output string    Output format: text or json (default: text)

Examples:
  cinematch serve --movies data/movies.csv
  cinematch recommend "Toy Story (1995)"
  cinematch recommend --n 10 --output json "toy story (1995)"
  cinematch recommend --server http://localhost:8080 "Heat (1995)"
  cinematch titles --q jumanji
  cinematch status --output json`
