package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/crowdwisdom/marketscan/internal/chat"
	"github.com/crowdwisdom/marketscan/internal/collector"
	"github.com/crowdwisdom/marketscan/internal/config"
	"github.com/crowdwisdom/marketscan/internal/knowledge"
	"github.com/crowdwisdom/marketscan/internal/llm"
	"github.com/crowdwisdom/marketscan/internal/matcher"
	"github.com/crowdwisdom/marketscan/internal/model"
	"github.com/crowdwisdom/marketscan/internal/pipeline"
	"github.com/crowdwisdom/marketscan/internal/platform"
	"github.com/crowdwisdom/marketscan/internal/report"
	"github.com/crowdwisdom/marketscan/internal/store"
	"github.com/crowdwisdom/marketscan/internal/version"
)

func main() {
	configPath := flag.String("config", "configs/marketscan.yaml", "path to config file")
	mode := flag.String("mode", "", "pipeline | chat | both (empty = interactive menu)")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String())
		return
	}

	// Local .env files are optional.
	_ = godotenv.Load()

	cfg, err := config.LoadAndValidate(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel(cfg.Logging.Level),
	}))
	slog.SetDefault(logger)

	logger.Info("starting marketscan",
		"version", version.Version,
		"commit", version.Commit,
		"config", *configPath,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	app := &app{cfg: cfg, logger: logger}
	defer app.close()

	if err := app.run(ctx, *mode); err != nil {
		if ctx.Err() != nil {
			logger.Info("interrupted")
			return
		}
		logger.Error("run failed", "error", err)
		os.Exit(1)
	}
}

type app struct {
	cfg    *config.Config
	logger *slog.Logger
	gemini *llm.Gemini
	db     *store.Store
}

func (a *app) run(ctx context.Context, mode string) error {
	switch mode {
	case "pipeline":
		return a.runPipeline(ctx)
	case "chat":
		return a.runChat(ctx)
	case "both":
		if err := a.runPipeline(ctx); err != nil {
			return err
		}
		return a.runChat(ctx)
	case "":
		return a.runMenu(ctx)
	default:
		return fmt.Errorf("unknown mode %q", mode)
	}
}

// runMenu drives the interactive mode selection on stdin.
func (a *app) runMenu(ctx context.Context) error {
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Println("\n1. Run data pipeline (collect, unify, report)")
		fmt.Println("2. Chat with market data")
		fmt.Println("3. Run pipeline, then chat")
		fmt.Println("4. Exit")
		fmt.Print("Choice: ")

		if !scanner.Scan() {
			return scanner.Err()
		}

		var err error
		switch strings.TrimSpace(scanner.Text()) {
		case "1":
			err = a.runPipeline(ctx)
		case "2":
			err = a.runChat(ctx)
		case "3":
			if err = a.runPipeline(ctx); err == nil {
				err = a.runChat(ctx)
			}
		case "4":
			return nil
		default:
			fmt.Println("Enter 1, 2, 3, or 4.")
			continue
		}

		if err != nil {
			if ctx.Err() != nil {
				return err
			}
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
	}
}

func (a *app) runPipeline(ctx context.Context) error {
	registry := platform.NewRegistry()
	a.registerPlatforms(registry)

	c := collector.New(collector.Config{
		Timeout:     a.cfg.Collector.Timeout,
		Delay:       a.cfg.Collector.Delay,
		Concurrency: a.cfg.Collector.Concurrency,
	}, registry, a.logger.With("component", "collector"))

	var judge matcher.Judge
	if gemini, err := a.geminiClient(ctx); err == nil {
		judge = gemini
	} else {
		a.logger.Warn("gemini unavailable, matching falls back to rules", "error", err)
	}

	m := matcher.New(matcher.Config{
		MatchThreshold: a.cfg.Matcher.MatchThreshold,
		AutoMerge:      a.cfg.Matcher.AutoMerge,
		MaxLLMPairs:    *a.cfg.Matcher.MaxLLMPairs,
	}, judge, a.logger.With("component", "matcher"))

	w := report.NewWriter(a.cfg.Outputs.Dir, a.logger.With("component", "report"))

	var persister pipeline.Persister
	if db, err := a.database(ctx); err != nil {
		return err
	} else if db != nil {
		persister = db
	}

	p := pipeline.New(c, m, w, persister, a.logger.With("component", "pipeline"))
	summary, err := p.Run(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("\nRun %s: %d markets into %d groups (%d high confidence, %d arbitrage) in %s\n",
		summary.RunID, summary.TotalMarkets, summary.UnifiedGroups,
		summary.HighConfidence, summary.Arbitrage, summary.Duration.Round(time.Millisecond))
	for _, e := range summary.Errors {
		fmt.Printf("  collection warning: %s\n", e)
	}
	return nil
}

func (a *app) runChat(ctx context.Context) error {
	if err := a.cfg.RequireGemini(); err != nil {
		return err
	}
	gemini, err := a.geminiClient(ctx)
	if err != nil {
		return err
	}

	unified, err := report.ReadUnified(a.cfg.Outputs.Dir)
	if err != nil {
		return fmt.Errorf("no unified data, run the pipeline first: %w", err)
	}

	index := knowledge.NewIndex(gemini, a.logger.With("component", "knowledge"))
	if err := index.Load(ctx, knowledge.BuildDocuments(unified)); err != nil {
		return err
	}

	botConfig := chat.Config{TopK: a.cfg.Chat.TopK, History: a.cfg.Chat.History}
	newBot := func() *chat.Bot {
		return chat.NewBot(botConfig, gemini, index, a.logger.With("component", "chat"))
	}

	if addr := a.cfg.Chat.ListenAddr; addr != "" {
		server := chat.NewServer(addr, newBot, a.logger.With("component", "chat-server"))
		// Bind before serving so a bad address or occupied port fails
		// the run instead of vanishing into a goroutine.
		if err := server.Listen(); err != nil {
			return fmt.Errorf("chat server: %w", err)
		}
		go func() {
			if err := server.Serve(); err != nil {
				a.logger.Error("chat server stopped", "error", err)
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = server.Shutdown(shutdownCtx)
		}()
	}

	return chat.RunREPL(ctx, newBot(), os.Stdin, os.Stdout)
}

func (a *app) registerPlatforms(registry *platform.Registry) {
	clientOpts := func(logger *slog.Logger) []platform.ClientOption {
		return []platform.ClientOption{
			platform.WithLogger(logger),
			platform.WithTimeout(a.cfg.Collector.Timeout),
			platform.WithRetries(*a.cfg.Collector.MaxRetries, time.Second),
		}
	}

	if p := a.cfg.Platforms.Polymarket; !p.Disabled {
		logger := a.logger.With("platform", model.PlatformPolymarket)
		registry.Register(platform.NewPolymarket(
			platform.NewClient(p.BaseURL, clientOpts(logger)...), p.Limit, logger))
	}
	if p := a.cfg.Platforms.Kalshi; !p.Disabled {
		logger := a.logger.With("platform", model.PlatformKalshi)
		registry.Register(platform.NewKalshi(
			platform.NewClient(p.BaseURL, clientOpts(logger)...), p.Limit, logger))
	}
	if p := a.cfg.Platforms.PredictionMarket; !p.Disabled {
		logger := a.logger.With("platform", model.PlatformPredictionMarket)
		registry.Register(platform.NewPredictionMarket(
			platform.NewClient(p.BaseURL, clientOpts(logger)...), p.Limit, logger))
	}
	if p := a.cfg.Platforms.Manifold; !p.Disabled {
		logger := a.logger.With("platform", model.PlatformManifold)
		registry.Register(platform.NewManifold(
			platform.NewClient(p.BaseURL, clientOpts(logger)...), p.Limit, logger))
	}
}

// geminiClient lazily creates the shared Gemini client.
func (a *app) geminiClient(ctx context.Context) (*llm.Gemini, error) {
	if a.gemini != nil {
		return a.gemini, nil
	}
	gemini, err := llm.NewGemini(ctx, llm.Config{
		APIKey:     a.cfg.Gemini.APIKey,
		Model:      a.cfg.Gemini.Model,
		EmbedModel: a.cfg.Gemini.EmbedModel,
	}, a.logger.With("component", "llm"))
	if err != nil {
		return nil, err
	}
	a.gemini = gemini
	return gemini, nil
}

// database lazily connects when persistence is configured; returns
// (nil, nil) when it is not.
func (a *app) database(ctx context.Context) (*store.Store, error) {
	if !a.cfg.Database.Enabled() {
		return nil, nil
	}
	if a.db != nil {
		return a.db, nil
	}

	db, err := store.Connect(ctx, store.Config{
		Host:     a.cfg.Database.Host,
		Port:     a.cfg.Database.Port,
		Name:     a.cfg.Database.Name,
		User:     a.cfg.Database.User,
		Password: a.cfg.Database.Password,
		SSLMode:  a.cfg.Database.SSLMode,
		MinConns: a.cfg.Database.MinConns,
		MaxConns: a.cfg.Database.MaxConns,
	}, a.logger.With("component", "store"))
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	a.db = db
	return db, nil
}

func (a *app) close() {
	if a.gemini != nil {
		_ = a.gemini.Close()
	}
	if a.db != nil {
		a.db.Close()
	}
}

func logLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
