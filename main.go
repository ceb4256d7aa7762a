package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bazaar-flipper/internal/api"
	"bazaar-flipper/internal/bazaar"
	"bazaar-flipper/internal/config"
	"bazaar-flipper/internal/engine"
	"bazaar-flipper/internal/logger"
	"bazaar-flipper/internal/recipes"
	"bazaar-flipper/internal/report"
)

var version = "dev"

func main() {
	defaults := config.DefaultRankOptions()
	cost := flag.String("cost", defaults.CostBasis, "recipe cost basis: instant or standing")
	revenue := flag.String("revenue", defaults.RevenueBasis, "product revenue basis: instant or standing")
	minVolume := flag.Int64("min-volume", defaults.MinBuyVolume, "minimum product buy volume (0 disables)")
	top := flag.Int("top", defaults.TopN, "number of entries to print (0 = all)")
	workers := flag.Int("workers", defaults.Workers, "products evaluated concurrently")
	recipesSource := flag.String("recipes", "", "recipe catalog file or URL (overrides RECIPES_SOURCE)")
	skipMalformed := flag.Bool("skip-malformed", true, "drop malformed recipes at load instead of failing every pass")
	showRecipe := flag.Bool("show-recipe", false, "add a recipe column to the table")
	watch := flag.Duration("watch", 0, "repeat the scan at this interval until interrupted (0 = once)")
	serve := flag.Bool("serve", false, "serve the HTTP API instead of printing")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version)
		return
	}

	logger.Banner(version)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("CONFIG", err.Error())
		os.Exit(1)
	}
	if *recipesSource != "" {
		cfg.RecipesSource = *recipesSource
	}

	opts := config.RankOptions{
		CostBasis:    *cost,
		RevenueBasis: *revenue,
		MinBuyVolume: *minVolume,
		TopN:         *top,
		Workers:      *workers,
	}
	params, err := engine.ParamsFromOptions(opts)
	if err != nil {
		logger.Error("CONFIG", err.Error())
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := bazaar.NewClient(bazaar.Options{
		URL:           cfg.BazaarURL,
		APIKey:        cfg.APIKey,
		Timeout:       cfg.HTTPTimeout,
		RatePerMinute: cfg.RateLimitPerMinute,
		MaxConcurrent: cfg.MaxConcurrentRequests,
	})

	catalog, err := loadCatalog(ctx, cfg, *skipMalformed)
	if err != nil {
		logger.Error("RECIPES", err.Error())
		os.Exit(1)
	}

	scanner := engine.NewScanner(bazaar.NewSnapshotCache(client, cfg.SnapshotTTL), catalog)

	if *serve {
		if err := serveAPI(ctx, cfg, scanner, client, opts); err != nil {
			logger.Error("HTTP", err.Error())
			os.Exit(1)
		}
		return
	}

	ropts := report.Options{
		CostBasis:    params.CostBasis,
		RevenueBasis: params.RevenueBasis,
		TopN:         opts.TopN,
		MinBuyVolume: opts.MinBuyVolume,
		ShowRecipe:   *showRecipe,
	}
	report.Banner(os.Stdout, ropts)

	if *watch <= 0 {
		if err := scanOnce(ctx, scanner, params, ropts); err != nil {
			os.Exit(1)
		}
		return
	}
	watchLoop(ctx, scanner, params, ropts, *watch)
}

func loadCatalog(ctx context.Context, cfg *config.Config, skipMalformed bool) (*engine.Catalog, error) {
	items, err := recipes.Load(ctx, cfg.RecipesSource, &http.Client{Timeout: cfg.HTTPTimeout})
	if err != nil {
		return nil, err
	}
	catalog := engine.NewCatalog(items)
	if !skipMalformed {
		return catalog, nil
	}
	pruned, faults := catalog.WithoutMalformed()
	if faults != nil {
		dropped := catalog.Len() - pruned.Len()
		logger.Warn("RECIPES", fmt.Sprintf("Skipping %d malformed recipes", dropped))
		for _, e := range unwrapJoined(faults) {
			logger.Warn("RECIPES", e.Error())
		}
	}
	logger.Success("RECIPES", fmt.Sprintf("%d craftable products ready", pruned.Len()))
	return pruned, nil
}

func unwrapJoined(err error) []error {
	if j, ok := err.(interface{ Unwrap() []error }); ok {
		return j.Unwrap()
	}
	return []error{err}
}

func scanOnce(ctx context.Context, scanner *engine.Scanner, params engine.RankParams, ropts report.Options) error {
	res, err := scanner.Scan(ctx, params)
	if err != nil {
		return err
	}
	report.Render(os.Stdout, res.Entries, ropts)
	return nil
}

// watchLoop keeps scanning until ctx is cancelled. A failed cycle is logged
// and the next one starts fresh.
func watchLoop(ctx context.Context, scanner *engine.Scanner, params engine.RankParams, ropts report.Options, every time.Duration) {
	logger.Info("WATCH", fmt.Sprintf("Scanning every %s, Ctrl+C to stop", every))
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		_ = scanOnce(ctx, scanner, params, ropts)
		select {
		case <-ctx.Done():
			logger.Info("WATCH", "Stopped")
			return
		case <-ticker.C:
		}
	}
}

func serveAPI(ctx context.Context, cfg *config.Config, scanner *engine.Scanner, client *bazaar.Client, defaults config.RankOptions) error {
	srv := api.NewServer(cfg, scanner, client, defaults)
	httpServer := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Server(cfg.ListenAddr)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	logger.Info("HTTP", "Shutting down")
	return httpServer.Shutdown(shutdownCtx)
}
