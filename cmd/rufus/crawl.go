package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Risho92/rufus/internal/config"
	"github.com/Risho92/rufus/internal/crawler"
	"github.com/Risho92/rufus/internal/database"
	"github.com/Risho92/rufus/internal/embedding"
	"github.com/Risho92/rufus/internal/extractor"
	"github.com/Risho92/rufus/internal/genai"
	"github.com/Risho92/rufus/internal/log"
	"github.com/Risho92/rufus/internal/model"
	"github.com/Risho92/rufus/internal/pipeline"
	"github.com/Risho92/rufus/internal/planner"
	"github.com/Risho92/rufus/internal/report"
	"github.com/Risho92/rufus/internal/synthesizer"
	"github.com/spf13/cobra"
)

// apiKeyEnvVar is consulted when --api-key is not given.
const apiKeyEnvVar = "OPENAI_API_KEY"

// NewCrawlCmd creates the crawl command.
func NewCrawlCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "crawl [url...]",
		Short: "Crawl websites guided by plain-English instructions",
		Long: `Crawl visits a website starting from the given URL, guided by your
instructions. It plans which keywords and content types matter, follows the
most promising links, scores each page for relevance, and synthesizes the
accepted pages into documents grouped by content category.

Multiple start URLs run as separate sessions in one batch.

Examples:
  # Crawl a site for pricing and FAQ information
  rufus crawl https://example.com --instructions "Find pricing and FAQ info"

  # Crawl several sites with the same instructions
  rufus crawl https://a.example.com https://b.example.com -i "Product features"

  # Shallow, strict crawl written as plain text
  rufus crawl https://example.com -i "Support contacts" -d 1 -r 0.6 -f text

  # Use local word vectors for keyword scoring
  rufus crawl https://example.com -i "API documentation" --embeddings vectors.txt

Profile file (.rufus) example:
  defaults:
    crawlDelayMillis: 1000
  sites:
    docs.example.com:
      maxPages: 50
      headers:
        Authorization: "Bearer token"`,
		Args: cobra.ArbitraryArgs,
		RunE: runCrawlCmd,
	}

	// Crawl behavior flags
	cmd.Flags().StringP("instructions", "i", "",
		"Plain-English description of what to extract")
	cmd.Flags().IntP("max-pages", "p", config.DefaultMaxPages,
		"Maximum number of unique pages to visit per crawl")
	cmd.Flags().IntP("depth", "d", config.DefaultMaxDepth,
		"Maximum link-expansion depth (start URL is depth 0)")
	cmd.Flags().IntP("concurrency", "b", config.DefaultConcurrency,
		"Number of pages fetched in parallel")
	cmd.Flags().Float64P("min-relevance", "r", config.DefaultMinRelevance,
		"Relevance threshold a page must exceed to be kept")
	cmd.Flags().Bool("same-domain", false,
		"Restrict the crawl to the start URL's registered domain")

	// Politeness flags
	cmd.Flags().Duration("crawl-delay", config.DefaultCrawlDelay,
		"Delay between page fetches (0 disables)")
	cmd.Flags().Bool("ignore-robots", false,
		"Skip robots.txt checks (only for sites you operate)")
	cmd.Flags().DurationP("timeout", "t", config.DefaultFetchTimeout,
		"Timeout for each page fetch")

	// Text generation flags
	cmd.Flags().String("api-key", "",
		"API key for the text-generation endpoint (default: $"+apiKeyEnvVar+")")
	cmd.Flags().String("base-url", config.DefaultGenBaseURL,
		"OpenAI-compatible API base URL")
	cmd.Flags().StringP("model", "m", config.DefaultGenModel,
		"Model name for text-generation requests")
	cmd.Flags().String("embeddings", "",
		"Path to a word2vec-format text file of word vectors")

	// Output flags
	cmd.Flags().StringP("format", "f", config.DefaultOutputFormat,
		`Output format: "json" or "text"`)
	cmd.Flags().StringP("output", "o", config.DefaultOutputFile,
		"Base name for the output file (session tag and extension appended)")
	cmd.Flags().BoolP("summary", "s", false,
		"Print a Markdown session summary after the crawl")
	cmd.Flags().Bool("no-db", false,
		"Do not record the session in the history database")

	// Profile file
	cmd.Flags().StringP("config", "c", "",
		"Profile file path (default: .rufus in current or home directory)")

	return cmd
}

// runCrawlCmd executes the crawl command.
func runCrawlCmd(cmd *cobra.Command, args []string) error {
	// Build config from flags
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	// Set up structured logging
	cfg.Verbose = getVerboseFlag(cmd)
	logger := log.NewLogger(os.Stderr, cfg.Verbose)
	slog.SetDefault(logger)

	// Set up context with signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle interrupt signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, cancelling...")
		cancel()
	}()

	return runCrawl(ctx, cfg, logger)
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// buildConfig creates a Config from cobra command flags.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()

	// Get flag values
	var err error

	cfg.Instructions, err = cmd.Flags().GetString("instructions")
	if err != nil {
		return nil, err
	}

	cfg.MaxPages, err = cmd.Flags().GetInt("max-pages")
	if err != nil {
		return nil, err
	}

	cfg.MaxDepth, err = cmd.Flags().GetInt("depth")
	if err != nil {
		return nil, err
	}

	cfg.Concurrency, err = cmd.Flags().GetInt("concurrency")
	if err != nil {
		return nil, err
	}

	cfg.MinRelevance, err = cmd.Flags().GetFloat64("min-relevance")
	if err != nil {
		return nil, err
	}

	cfg.SameDomainOnly, err = cmd.Flags().GetBool("same-domain")
	if err != nil {
		return nil, err
	}

	cfg.CrawlDelay, err = cmd.Flags().GetDuration("crawl-delay")
	if err != nil {
		return nil, err
	}

	cfg.IgnoreRobots, err = cmd.Flags().GetBool("ignore-robots")
	if err != nil {
		return nil, err
	}

	cfg.FetchTimeout, err = cmd.Flags().GetDuration("timeout")
	if err != nil {
		return nil, err
	}

	cfg.APIKey, err = cmd.Flags().GetString("api-key")
	if err != nil {
		return nil, err
	}
	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv(apiKeyEnvVar)
	}

	cfg.GenBaseURL, err = cmd.Flags().GetString("base-url")
	if err != nil {
		return nil, err
	}

	cfg.GenModel, err = cmd.Flags().GetString("model")
	if err != nil {
		return nil, err
	}

	cfg.EmbeddingsPath, err = cmd.Flags().GetString("embeddings")
	if err != nil {
		return nil, err
	}

	cfg.OutputFormat, err = cmd.Flags().GetString("format")
	if err != nil {
		return nil, err
	}

	cfg.OutputFile, err = cmd.Flags().GetString("output")
	if err != nil {
		return nil, err
	}

	cfg.SummaryReport, err = cmd.Flags().GetBool("summary")
	if err != nil {
		return nil, err
	}

	noDB, err := cmd.Flags().GetBool("no-db")
	if err != nil {
		return nil, err
	}
	cfg.SaveToDB = !noDB
	cfg.DBDir = config.XDGDataDir()

	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	// Load site profiles from the profile file.
	// If the user explicitly specified a path, a missing file is an error.
	// Otherwise a missing file just means no per-site overrides.
	explicitProfilePath := cfg.ConfigFilePath != ""
	profilePath := config.FindProfileFile(cfg.ConfigFilePath)

	switch {
	case profilePath != "":
		cfg.Profiles, err = config.LoadProfileFile(profilePath)
		if err != nil {
			return nil, fmt.Errorf("failed to load profile file %s: %w", profilePath, err)
		}
	case explicitProfilePath:
		return nil, fmt.Errorf("profile file not found: %s", cfg.ConfigFilePath)
	default:
		cfg.Profiles = &config.File{
			Sites: make(map[string]config.SiteProfile),
		}
	}

	// Get positional arguments (start URLs)
	cfg.StartURLs = args

	return cfg, nil
}

// runCrawl executes the crawl for every start URL.
func runCrawl(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	logger.Info("starting crawl",
		"startURLs", cfg.StartURLs,
		"maxPages", cfg.MaxPages,
		"maxDepth", cfg.MaxDepth,
		"minRelevance", cfg.MinRelevance,
	)

	if cfg.APIKey == "" {
		logger.Warn("no API key configured; strategy planning, link filtering, and relevance judgment degrade to local fallbacks")
	}

	// Load word vectors if requested. The path was given explicitly, so a
	// broken file is an error rather than a silent downgrade.
	var vectors *embedding.Vectors
	if cfg.EmbeddingsPath != "" {
		var err error
		vectors, err = embedding.LoadVectors(cfg.EmbeddingsPath)
		if err != nil {
			return fmt.Errorf("failed to load embeddings from %s: %w", cfg.EmbeddingsPath, err)
		}
		logger.Info("word vectors loaded",
			"path", cfg.EmbeddingsPath,
			"words", vectors.Size(),
			"dimensions", vectors.Dim(),
		)
	}

	generator := genai.NewChatClient(cfg.APIKey,
		genai.WithBaseURL(cfg.GenBaseURL),
		genai.WithModel(cfg.GenModel),
		genai.WithTimeout(cfg.GenTimeout),
		genai.WithClientLogger(logger),
	)

	// Open database connection if session history is enabled
	var db *database.SessionDB
	if cfg.SaveToDB {
		var err error
		db, err = database.Open(cfg.DBDir, database.DefaultOptions())
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer db.Close()
		logger.Info("database opened", "dir", cfg.DBDir)
	}

	// Use the batch processor for parallel sessions if multiple start URLs
	if len(cfg.StartURLs) > 1 && cfg.Concurrency > 1 {
		return runBatchCrawl(ctx, cfg, generator, vectors, db, logger)
	}

	// Single start URL or sequential crawling
	return runSequentialCrawl(ctx, cfg, generator, vectors, db, logger)
}

// runSequentialCrawl crawls start URLs one at a time, applying per-site
// profile overrides.
func runSequentialCrawl(ctx context.Context, cfg *config.Config, generator genai.TextGenerator, vectors *embedding.Vectors, db *database.SessionDB, logger *slog.Logger) error {
	for _, startURL := range cfg.StartURLs {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		profile := profileFor(cfg, startURL)
		p := createPipelineForSite(cfg, profile, generator, vectors, logger)

		session := model.NewCrawlSession(startURL, cfg.Instructions)

		fmt.Printf("Crawling %s...\n", startURL)
		startTime := time.Now()

		// Execute the pipeline; a failure is recorded on the session
		if err := p.Execute(ctx, session); err != nil {
			logger.Error("crawl failed", "startURL", startURL, "error", err)
			fmt.Fprintf(os.Stderr, "Crawl error for %s: %v\n", startURL, err)
		}
		session.FinishedAt = time.Now().UTC()

		if session.ErrorMessage == "" {
			fmt.Printf("Crawl completed in %s: %d pages visited, %d kept, %d documents\n",
				time.Since(startTime).Round(time.Millisecond),
				session.VisitedCount, len(session.Results), len(session.Documents))
			if session.OutputPath != "" {
				fmt.Printf("Documents saved to %s\n", session.OutputPath)
			}
			fmt.Println()
		}

		outputSummary(cfg, session, logger)
		saveSession(ctx, db, session, logger)
	}

	return nil
}

// runBatchCrawl crawls multiple start URLs concurrently using BatchProcessor.
func runBatchCrawl(ctx context.Context, cfg *config.Config, generator genai.TextGenerator, vectors *embedding.Vectors, db *database.SessionDB, logger *slog.Logger) error {
	fmt.Printf("Starting batch crawl of %d sites (concurrency: %d)...\n\n",
		len(cfg.StartURLs), cfg.Concurrency)

	startTime := time.Now()

	// Warn user about batch processing limitation
	if cfg.Profiles != nil && len(cfg.Profiles.Sites) > 0 {
		logger.Warn("batch processing uses default profile only; site-specific overrides are ignored",
			"siteCount", len(cfg.Profiles.Sites))
		fmt.Fprintf(os.Stderr, "Warning: Site-specific profiles are ignored in batch mode. Crawl one URL at a time to apply per-site settings.\n\n")
	}

	// Create batch processor with pipeline factory
	bp := pipeline.NewBatchProcessor(
		func() *pipeline.Pipeline {
			var profile config.SiteProfile
			if cfg.Profiles != nil {
				profile = cfg.Profiles.Defaults
			}
			return createPipelineForSite(cfg, profile, generator, vectors, logger)
		},
		pipeline.WithBatchConcurrency(cfg.Concurrency),
		pipeline.WithBatchLogger(logger),
	)

	sessions, err := bp.ProcessBatch(ctx, cfg.StartURLs, cfg.Instructions)

	for i, session := range sessions {
		if session == nil {
			continue
		}
		if session.ErrorMessage != "" {
			fmt.Fprintf(os.Stderr, "[%d/%d] Crawl error for %s: %s\n",
				i+1, len(sessions), session.StartURL, session.ErrorMessage)
		} else {
			fmt.Printf("[%d/%d] Crawl completed: %s (%d pages visited, %d documents)\n",
				i+1, len(sessions), session.StartURL, session.VisitedCount, len(session.Documents))
		}
		outputSummary(cfg, session, logger)
		saveSession(ctx, db, session, logger)
	}

	fmt.Printf("\nBatch crawl completed in %s\n", time.Since(startTime).Round(time.Millisecond))

	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("batch crawl failed: %w", err)
	}
	return err
}

// createPipelineForSite wires the full plan/crawl/synthesize/save pipeline,
// with per-site profile overrides applied on top of the global config.
func createPipelineForSite(cfg *config.Config, profile config.SiteProfile, generator genai.TextGenerator, vectors *embedding.Vectors, logger *slog.Logger) *pipeline.Pipeline {
	maxPages := cfg.MaxPages
	if profile.MaxPages > 0 {
		maxPages = profile.MaxPages
	}
	maxDepth := cfg.MaxDepth
	if profile.MaxDepth > 0 {
		maxDepth = profile.MaxDepth
	}
	minRelevance := cfg.MinRelevance
	if profile.MinRelevance > 0 {
		minRelevance = profile.MinRelevance
	}
	crawlDelay := cfg.CrawlDelay
	if profile.CrawlDelayMillis > 0 {
		crawlDelay = time.Duration(profile.CrawlDelayMillis) * time.Millisecond
	}

	fetcher := crawler.NewFetcher(
		&http.Client{Timeout: cfg.FetchTimeout},
		crawler.WithUserAgent(cfg.UserAgent),
		crawler.WithHeaders(profile.Headers),
		crawler.WithMaxBodySize(cfg.MaxBodySize),
		crawler.WithCrawlDelay(crawlDelay),
		crawler.WithIgnoreRobots(cfg.IgnoreRobots),
		crawler.WithFetcherLogger(logger),
	)

	scorerOpts := []extractor.ScorerOption{extractor.WithScorerLogger(logger)}
	if vectors != nil {
		scorerOpts = append(scorerOpts, extractor.WithVectors(vectors))
	}
	scorer := extractor.NewScorer(generator, scorerOpts...)

	controller := crawler.NewController(fetcher, generator, scorer,
		crawler.WithMaxPages(maxPages),
		crawler.WithConcurrency(cfg.Concurrency),
		crawler.WithMaxDepth(maxDepth),
		crawler.WithMinRelevance(minRelevance),
		crawler.WithSameDomainOnly(cfg.SameDomainOnly),
		crawler.WithLogger(logger),
	)

	p := pipeline.New(pipeline.WithLogger(logger))
	p.AddSteps(
		pipeline.NewPlanStep(planner.NewBuilder(generator, planner.WithBuilderLogger(logger))),
		pipeline.NewCrawlStep(controller),
		pipeline.NewSynthesizeStep(synthesizer.New(generator, synthesizer.WithSynthesizerLogger(logger))),
		pipeline.NewSaveStep(cfg.OutputFormat, cfg.OutputFile),
	)
	return p
}

// profileFor returns the merged site profile for a start URL's hostname.
func profileFor(cfg *config.Config, startURL string) config.SiteProfile {
	if cfg.Profiles == nil {
		return config.SiteProfile{}
	}
	u, err := url.Parse(startURL)
	if err != nil {
		return cfg.Profiles.Defaults
	}
	return cfg.Profiles.ProfileFor(u.Hostname())
}

// outputSummary prints the Markdown session summary when enabled.
func outputSummary(cfg *config.Config, session *model.CrawlSession, logger *slog.Logger) {
	if !cfg.SummaryReport {
		return
	}
	if err := report.NewSummaryWriter(os.Stdout).WriteSession(session); err != nil {
		logger.Error("failed to write session summary", "sessionID", session.ID, "error", err)
	}
}

// saveSession records the session in the history database, if enabled.
func saveSession(ctx context.Context, db *database.SessionDB, session *model.CrawlSession, logger *slog.Logger) {
	if db == nil {
		return
	}
	if err := db.SaveSession(ctx, session); err != nil {
		logger.Error("failed to save session", "sessionID", session.ID, "error", err)
		return
	}
	logger.Info("session saved", "sessionID", session.ID)
}
