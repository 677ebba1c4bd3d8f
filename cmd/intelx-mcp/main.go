// Command intelx-mcp serves the Intelligence X search API as an MCP tool
// server over stdio (default), HTTP or SSE.
package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"go.uber.org/zap"

	"github.com/osintforge/intelx-mcp/config"
	"github.com/osintforge/intelx-mcp/intelx"
	"github.com/osintforge/intelx-mcp/metrics"
	"github.com/osintforge/intelx-mcp/pseudonym"
	"github.com/osintforge/intelx-mcp/rategate"
	"github.com/osintforge/intelx-mcp/search"
	"github.com/osintforge/intelx-mcp/tools"
)

const serverVersion = "1.0.0"

func main() {
	configPath := flag.String("config", "", "path to YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal("config: ", err)
	}

	zl := newZap(cfg.Logging.Level)
	defer func() { _ = zl.Sync() }()

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New()
		go func() {
			if err := m.Serve(cfg.Metrics.Addr); err != nil {
				zl.Error("metrics server stopped", zap.Error(err))
			}
		}()
	}

	gate := rategate.New(cfg.IntelX.CallInterval)
	client := intelx.NewClient(intelx.Config{
		SearchRoot:   cfg.IntelX.SearchRoot,
		IdentityRoot: cfg.IntelX.IdentityRoot,
		APIKey:       cfg.IntelX.APIKey,
		Timeout:      cfg.IntelX.RequestTimeout,
		Gate:         gate,
		Logger:       zl.Named("intelx"),
		Metrics:      m,
	})

	svc := search.New(search.Options{
		Client:       client,
		IDs:          pseudonym.NewRegistry(),
		Logger:       zl.Named("search"),
		Metrics:      m,
		PollInterval: cfg.IntelX.PollInterval,
	})

	reg := tools.New(tools.Config{
		ServerInfo: tools.ServerInfo{Name: "intelx-mcp", Version: serverVersion},
		Logger:     zl.Named("tools"),
	})
	if err := tools.RegisterSearchTools(reg, svc); err != nil {
		zl.Fatal("tool registration failed", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	zl.Info("server starting",
		zap.String("transport", cfg.Server.Transport),
		zap.String("searchRoot", cfg.IntelX.SearchRoot),
		zap.String("identityRoot", cfg.IntelX.IdentityRoot),
		zap.Bool("metrics", cfg.Metrics.Enabled),
	)

	switch cfg.Server.Transport {
	case "stdio":
		err = tools.ServeStdio(ctx, reg)
	case "http":
		err = serveHTTP(ctx, cfg.Server.Addr, tools.ServeHTTP(reg))
	case "sse":
		err = serveHTTP(ctx, cfg.Server.Addr, tools.ServeSSE(reg))
	}
	if err != nil && ctx.Err() == nil {
		zl.Fatal("server failed", zap.Error(err))
	}
	zl.Info("server stopped")
}

func serveHTTP(ctx context.Context, addr string, handler http.Handler) error {
	mux := http.NewServeMux()
	mux.Handle("/mcp", handler)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		<-ctx.Done()
		_ = srv.Shutdown(context.Background())
	}()

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func newZap(level string) *zap.Logger {
	cfg := zap.NewProductionConfig()
	switch strings.ToLower(level) {
	case "debug":
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	case "info":
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	case "warn":
		cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	case "error":
		cfg.Level = zap.NewAtomicLevelAt(zap.ErrorLevel)
	default:
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	// MCP stdio owns stdout; logs go to stderr only
	cfg.OutputPaths = []string{"stderr"}
	logger, err := cfg.Build()
	if err != nil {
		log.Fatal("logger: ", err)
	}
	return logger
}
