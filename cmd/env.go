package main

import (
	"context"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/leadscope-jp/shop-resolver/internal/model"
	"github.com/leadscope-jp/shop-resolver/internal/pipeline"
	"github.com/leadscope-jp/shop-resolver/internal/registry"
	"github.com/leadscope-jp/shop-resolver/internal/store"
	"github.com/leadscope-jp/shop-resolver/pkg/fetch"
	"github.com/leadscope-jp/shop-resolver/pkg/oracle"
	"github.com/leadscope-jp/shop-resolver/pkg/search"
)

// initStore opens the configured run-log backend, or nil when run
// recording is disabled.
func initStore(ctx context.Context) (store.Store, error) {
	switch cfg.Store.Driver {
	case "postgres":
		return store.NewPostgres(ctx, cfg.Store.DatabaseURL)
	case "sqlite":
		return store.NewSQLite(cfg.Store.SQLitePath)
	case "", "none":
		return nil, nil
	default:
		return nil, eris.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}

func timeoutClient(secs int, fallback time.Duration) *http.Client {
	d := fallback
	if secs > 0 {
		d = time.Duration(secs) * time.Second
	}
	return &http.Client{Timeout: d}
}

// newOracle builds the configured extraction oracle. A caller-supplied
// key or model (service requests carry their own) overrides config.
func newOracle(apiKey, model string) (oracle.Client, error) {
	key := apiKey
	if key == "" {
		key = cfg.Oracle.Key
	}
	if key == "" {
		return nil, eris.New("oracle API key not configured")
	}
	mdl := model
	if mdl == "" {
		mdl = cfg.Oracle.Model
	}

	switch cfg.Oracle.Provider {
	case "anthropic":
		return oracle.NewAnthropic(key, mdl), nil
	case "", "openrouter":
		return oracle.NewOpenRouter(key, mdl,
			oracle.WithOpenRouterBaseURL(cfg.Oracle.BaseURL),
			oracle.WithOpenRouterHTTPClient(timeoutClient(cfg.Oracle.TimeoutSecs, 120*time.Second)),
		), nil
	default:
		return nil, eris.Errorf("unknown oracle provider %q", cfg.Oracle.Provider)
	}
}

// buildResolver wires the pipeline from config, with optional per-call
// oracle overrides.
func buildResolver(apiKey, model string) (*pipeline.Resolver, error) {
	oracleClient, err := newOracle(apiKey, model)
	if err != nil {
		return nil, err
	}

	searchOpts := []search.Option{
		search.WithHTTPClient(timeoutClient(cfg.Search.TimeoutSecs, 30*time.Second)),
	}
	if cfg.Search.RatePerSecond > 0 {
		searchOpts = append(searchOpts, search.WithRateLimit(cfg.Search.RatePerSecond))
	}
	searchClient := search.NewClient(cfg.Search.BaseURL, searchOpts...)

	fetchClient := fetch.NewClient(
		fetch.WithHTTPClient(timeoutClient(cfg.Fetch.TimeoutSecs, 10*time.Second)),
		fetch.WithMaxTextRunes(cfg.Fetch.MaxTextRunes),
	)

	registryClient := registry.NewClient(
		registry.WithBaseURL(cfg.Registry.BaseURL),
		registry.WithHTTPClient(timeoutClient(cfg.Registry.TimeoutSecs, 10*time.Second)),
	)

	return pipeline.New(cfg.Pipeline, searchClient, fetchClient, oracleClient, registryClient), nil
}

// resolveAndRecord runs one resolution and, when a store is
// configured, records it as an audit run. Store write failures are
// logged and never affect the resolution outcome.
func resolveAndRecord(ctx context.Context, st store.Store, r *pipeline.Resolver, query model.ShopQuery) (*model.ResolutionResult, error) {
	if st == nil {
		return r.Resolve(ctx, query)
	}

	run, err := st.CreateRun(ctx, query)
	if err != nil {
		zap.L().Warn("run record create failed", zap.Error(err))
		return r.Resolve(ctx, query)
	}

	result, err := r.Resolve(ctx, query)
	if err != nil {
		if failErr := st.FailRun(ctx, run.ID, err); failErr != nil {
			zap.L().Warn("run record fail-mark failed", zap.Error(failErr))
		}
		return nil, err
	}

	if completeErr := st.CompleteRun(ctx, run.ID, result); completeErr != nil {
		zap.L().Warn("run record complete failed", zap.Error(completeErr))
	}
	return result, nil
}

func closeStore(st store.Store) {
	if st == nil {
		return
	}
	if err := st.Close(); err != nil {
		zap.L().Warn("store close failed", zap.Error(err))
	}
}
