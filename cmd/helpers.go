package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ziadkadry99/clil-studio/internal/api"
	"github.com/ziadkadry99/clil-studio/internal/audit"
	"github.com/ziadkadry99/clil-studio/internal/auth"
	"github.com/ziadkadry99/clil-studio/internal/client"
	"github.com/ziadkadry99/clil-studio/internal/config"
	"github.com/ziadkadry99/clil-studio/internal/db"
	"github.com/ziadkadry99/clil-studio/internal/editor"
	"github.com/ziadkadry99/clil-studio/internal/embeddings"
	"github.com/ziadkadry99/clil-studio/internal/generation"
	"github.com/ziadkadry99/clil-studio/internal/library"
	"github.com/ziadkadry99/clil-studio/internal/llm"
	"github.com/ziadkadry99/clil-studio/internal/vectordb"
)

// loadConfig loads and validates the config, providing a user-friendly error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `clilstudio init` to create a config file", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", cfgFile, err)
	}
	return cfg, nil
}

// createLLMProviderFromConfig creates the rate limited LLM provider.
func createLLMProviderFromConfig(cfg *config.Config) (llm.Provider, error) {
	p, err := llm.NewProvider(string(cfg.Provider), cfg.Model)
	if err != nil {
		return nil, err
	}
	return llm.NewRateLimitedProvider(p, cfg.RequestsPerMinute), nil
}

// createServiceFromConfig creates the generation service with the cost
// budget applied.
func createServiceFromConfig(cfg *config.Config) (*generation.Service, error) {
	p, err := createLLMProviderFromConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("creating LLM provider: %w", err)
	}
	svc := generation.NewService(p, cfg.Model, appLog)
	svc.SetBudget(cfg.MaxCostUSD)
	return svc, nil
}

// openLibrary opens the lesson database and, when an embedding provider is
// configured, its semantic index. The returned close function persists the
// index and closes the database.
func openLibrary(ctx context.Context, cfg *config.Config) (*library.Store, func() error, error) {
	database, err := db.Open(cfg.DatabasePath())
	if err != nil {
		return nil, nil, err
	}

	embedder, err := embeddings.New(cfg.EmbeddingProvider, cfg.EmbeddingModel)
	if err != nil {
		database.Close()
		return nil, nil, fmt.Errorf("creating embedder: %w", err)
	}

	history := audit.NewStore(database)
	if days := cfg.HistoryRetentionDays; days > 0 {
		n, err := history.DeleteBefore(ctx, time.Now().AddDate(0, 0, -days))
		if err != nil {
			appLog.Warn("pruning lesson history failed", "error", err)
		} else if n > 0 {
			appLog.Debug("pruned lesson history", "entries", n)
		}
	}

	opts := []library.Option{library.WithLogger(appLog), library.WithAudit(history)}
	if embedder == nil {
		store := library.NewStore(database, opts...)
		return store, database.Close, nil
	}

	idx, err := vectordb.NewChromemStore(embedder)
	if err != nil {
		database.Close()
		return nil, nil, fmt.Errorf("creating vector store: %w", err)
	}
	store := library.NewStore(database, append(opts, library.WithIndex(idx))...)
	if err := store.LoadIndex(ctx, cfg.IndexDir()); err != nil {
		appLog.Warn("search index unavailable, using term search", "dir", cfg.IndexDir(), "error", err)
	}

	closeFn := func() error {
		return errors.Join(store.PersistIndex(context.Background(), cfg.IndexDir()), database.Close())
	}
	return store, closeFn, nil
}

// workspace is what the lesson commands work against: a remote server when
// backend_url is set, the local library otherwise.
type workspace struct {
	backend editor.Backend
	search  func(ctx context.Context, query string, limit int) ([]api.SearchResult, error)
	history func(ctx context.Context, id string, limit int) ([]audit.Entry, error)
	close   func() error
}

func openWorkspace(ctx context.Context, cfg *config.Config) (*workspace, error) {
	if cfg.BackendURL != "" {
		c, err := remoteClient(cfg)
		if err != nil {
			return nil, err
		}
		return &workspace{backend: c, search: c.SearchLessons, history: c.History, close: func() error { return nil }}, nil
	}

	store, closeFn, err := openLibrary(ctx, cfg)
	if err != nil {
		return nil, err
	}
	ws := &workspace{
		search: func(ctx context.Context, query string, limit int) ([]api.SearchResult, error) {
			return store.Search(ctx, cfg.Owner, query, limit)
		},
		history: func(ctx context.Context, id string, limit int) ([]audit.Entry, error) {
			return store.History(ctx, cfg.Owner, id, limit)
		},
		close: closeFn,
	}

	// Library-only commands work without LLM credentials.
	svc, err := createServiceFromConfig(cfg)
	if err != nil {
		appLog.Debug("generation unavailable", "error", err)
		ws.backend = generation.NewLocal(nil, store, cfg.Owner)
		return ws, nil
	}
	ws.backend = generation.NewLocal(svc, store, cfg.Owner)
	return ws, nil
}

// remoteClient builds a server client that sends the stored sign-in token.
func remoteClient(cfg *config.Config) (*client.Client, error) {
	creds, err := auth.Load()
	if err != nil {
		return nil, fmt.Errorf("loading credentials: %w", err)
	}
	var opts []client.Option
	if ts, err := creds.TokenSource(); err == nil {
		opts = append(opts, client.WithTokenSource(ts))
	} else {
		appLog.Debug("no stored token; lesson routes will be rejected", "server", cfg.BackendURL)
	}
	return client.New(cfg.BackendURL, opts...), nil
}
