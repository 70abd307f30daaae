package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/iranzi17/ibc-15kv-reporting/internal/api"
	"github.com/iranzi17/ibc-15kv-reporting/internal/cache"
	"github.com/iranzi17/ibc-15kv-reporting/internal/config"
	"github.com/iranzi17/ibc-15kv-reporting/internal/model"
	"github.com/iranzi17/ibc-15kv-reporting/internal/render"
	"github.com/iranzi17/ibc-15kv-reporting/internal/server"
	"github.com/iranzi17/ibc-15kv-reporting/internal/sheets"
	"github.com/iranzi17/ibc-15kv-reporting/internal/summarizer"
	"github.com/iranzi17/ibc-15kv-reporting/internal/util"
)

var (
	port    = flag.Int("port", 0, "server port (config file / PORT env win when set there)")
	devMode = flag.Bool("dev", false, "development mode: no browser auto-open, verbose gin")
	dataDir = flag.String("dataDir", "", "data directory (overrides config)")
)

func main() {
	flag.Parse()

	fmt.Println("==========================================")
	fmt.Println("  WorkWatch - site daily report generator")
	fmt.Println("==========================================")

	cfg, info, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}
	creds, err := config.LoadCredentials()
	if err != nil {
		log.Fatalf("failed to load credentials: %v", err)
	}

	// Flags only fill keys the file and environment left alone.
	if *port > 0 && !info.Explicit["PORT"] {
		cfg.Port = *port
	}
	if *devMode {
		cfg.DevMode = true
	}
	if *dataDir != "" && !info.Explicit["DATA_DIR"] {
		cfg.DataDir = *dataDir
	}

	zl, err := newLogger(cfg.DevMode)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer zl.Sync()
	logger := zl.Sugar()

	if _, err := config.EnsureDataDir(cfg); err != nil {
		logger.Warnw("could not create data directory", "error", err)
	}

	ctx := context.Background()
	schema := model.SchemaByName(cfg.SchemaVersion)

	var fetcher sheets.Fetcher
	if creds.HasGoogle() {
		client, err := sheets.NewClient(ctx, creds, cfg.SheetID)
		if err != nil {
			log.Fatalf("failed to build sheets client: %v", err)
		}
		fetcher = client
	} else {
		logger.Infow("GOOGLE_CREDENTIALS not set, running from the offline cache")
	}

	source := sheets.NewSource(fetcher, cache.New(cfg.CachePath()), schema, cfg.SheetName, logger)
	renderer := render.NewRenderer(cfg.TemplatePath, cfg.DisciplineCol, cfg.DefaultDiscipline)

	provider, err := summarizer.NewProvider(ctx, cfg, creds, schema)
	if err != nil {
		log.Fatalf("failed to configure summarizer: %v", err)
	}
	if provider == nil {
		logger.Infow("no hosted model configured, structuring runs locally and summaries are unavailable")
	}

	handler := api.NewHandler(cfg, schema, source, renderer, provider, logger)
	srv := server.New(cfg, handler, logger)

	addr := fmt.Sprintf(":%d", cfg.Port)
	url := fmt.Sprintf("http://localhost:%d", cfg.Port)

	go func() {
		logger.Infow("starting server", "addr", addr, "schema", schema.Name)
		if err := srv.Run(addr); err != nil {
			logger.Fatalw("server failed", "error", err)
		}
	}()

	if !cfg.DevMode {
		if err := util.OpenBrowserWithFallback(url); err != nil {
			fmt.Printf("open %s in your browser\n", url)
		}
	} else {
		fmt.Printf("dev mode: visit %s\n", url)
	}

	fmt.Println("\npress Ctrl+C to stop...")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	fmt.Println("\nshutting down")
}

func newLogger(dev bool) (*zap.Logger, error) {
	if dev {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
