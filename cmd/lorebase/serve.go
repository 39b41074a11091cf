package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"github.com/solstice-fi/lorebase/brand"
	"github.com/solstice-fi/lorebase/fetchlog"
	"github.com/solstice-fi/lorebase/glossary"
	"github.com/solstice-fi/lorebase/kit"
	"github.com/solstice-fi/lorebase/notion"
	"github.com/solstice-fi/lorebase/stats"
)

func newServeCmd(configPath *string) *cobra.Command {
	var transport, addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the knowledge base MCP server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := LoadConfig(*configPath)
			if err != nil {
				return err
			}
			if transport != "" {
				cfg.Server.Transport = transport
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			return runServe(cmd.Context(), cfg)
		},
	}

	cmd.Flags().StringVar(&transport, "transport", "", "MCP transport: stdio or http (overrides config)")
	cmd.Flags().StringVar(&addr, "addr", "", "listen address for http transport (overrides config)")
	return cmd
}

func runServe(parent context.Context, cfg *Config) error {
	logger := newLogger(cfg.LogLevel)
	slog.SetDefault(logger)

	ctx, cancel := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Refresh history. Stdio mode logs to the MCP client's stderr, so the
	// SQLite log is the only durable record of refresh outcomes there.
	if err := os.MkdirAll(filepath.Dir(cfg.FetchLog.Path), 0o755); err != nil {
		return err
	}
	history, err := fetchlog.Open(cfg.FetchLog.Path)
	if err != nil {
		return err
	}
	defer history.Close()

	go func() {
		ticker := time.NewTicker(6 * time.Hour)
		defer ticker.Stop()
		for {
			if n, err := history.Cleanup(ctx, cfg.Retention()); err != nil {
				logger.Warn("fetchlog cleanup failed", "error", err)
			} else if n > 0 {
				logger.Info("fetchlog cleanup", "removed", n)
			}
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
	}()

	client := notion.New(notion.Config{
		BaseURL: cfg.Notion.BaseURL,
		Token:   cfg.Notion.Token,
		Logger:  logger,
	})
	backend := stats.NewClient(stats.Config{
		BaseURL: cfg.Backend.BaseURL,
		Logger:  logger,
	})

	brandSvc := brand.New(client, brand.Config{
		PageID:   cfg.Notion.BrandPageID,
		TTL:      cfg.TTL(),
		Logger:   logger,
		Recorder: history,
	})
	glossarySvc := glossary.New(client, glossary.Config{
		ConceptsDB:   cfg.Notion.ConceptsDB,
		ComponentsDB: cfg.Notion.ComponentsDB,
		TTL:          cfg.TTL(),
		Logger:       logger,
		Recorder:     history,
	})
	statsSvc := stats.NewService(backend, stats.ServiceConfig{
		TTL:      cfg.TTL(),
		Logger:   logger,
		Recorder: history,
	})

	srv := mcp.NewServer(&mcp.Implementation{
		Name:    "lorebase",
		Version: version,
	}, nil)
	brandSvc.RegisterMCP(srv)
	glossarySvc.RegisterMCP(srv)
	statsSvc.RegisterMCP(srv)

	if cfg.Server.Transport == "stdio" {
		logger.Info("serving MCP over stdio")
		return srv.Run(ctx, &mcp.StdioTransport{})
	}
	return serveHTTP(ctx, cfg, srv, logger)
}

func serveHTTP(ctx context.Context, cfg *Config, srv *mcp.Server, logger *slog.Logger) error {
	streamable := mcp.NewStreamableHTTPHandler(func(_ *http.Request) *mcp.Server {
		return srv
	}, nil)

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			reqCtx := kit.WithTransport(req.Context(), "http")
			reqCtx = kit.WithRequestID(reqCtx, middleware.GetReqID(req.Context()))
			next.ServeHTTP(w, req.WithContext(reqCtx))
		})
	})
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})
	r.Handle("/mcp", streamable)

	httpSrv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("serving MCP over http", "addr", cfg.Server.Addr)
		errCh <- httpSrv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpSrv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	}
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	// Stdout carries the MCP stdio protocol; logs go to stderr.
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}
