package main

//	@title			Themestudio Theme API
//	@version		0.1.0
//	@description	Persisted themes, presets and export/import for the runtime theme engine.
//	@BasePath		/api/v1

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"go.uber.org/zap"

	_ "github.com/funaging/themestudio/api/swagger"
	"github.com/funaging/themestudio/internal/backup"
	"github.com/funaging/themestudio/internal/config"
	"github.com/funaging/themestudio/internal/event"
	"github.com/funaging/themestudio/internal/server"
	"github.com/funaging/themestudio/internal/store"
	"github.com/funaging/themestudio/internal/themes"
	"github.com/funaging/themestudio/internal/version"
	"github.com/funaging/themestudio/internal/webhook"
	"github.com/funaging/themestudio/internal/ws"
)

func main() {
	// Subcommand dispatch (before flag.Parse).
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "backup":
			runBackup(os.Args[2:])
			return
		case "restore":
			runRestore(os.Args[2:])
			return
		case "version":
			fmt.Println(version.Info())
			return
		}
	}

	configPath := flag.String("config", "", "path to configuration file")
	showVersion := flag.Bool("version", false, "print version information and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.Info())
		os.Exit(0)
	}

	// Load configuration (before logger, so log level/format can be configured).
	viperCfg, err := server.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	cfg := config.New(viperCfg)

	logger, err := config.NewLogger(viperCfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("themestudio server starting", zap.String("version", version.Short()))

	if f := viperCfg.ConfigFileUsed(); f != "" {
		logger.Info("configuration loaded", zap.String("component", "config"), zap.String("source", f))
	} else {
		logger.Warn("no configuration file found, using defaults", zap.String("component", "config"))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	dbPath := cfg.GetString("database.path")
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		logger.Fatal("failed to create data directory", zap.Error(err))
	}
	db, err := store.New(dbPath)
	if err != nil {
		logger.Fatal("failed to open database", zap.Error(err))
	}
	defer db.Close()

	if err := db.CheckVersion(ctx, version.Short()); err != nil {
		logger.Fatal("database version check failed", zap.Error(err))
	}
	logger.Info("database initialized", zap.String("component", "database"), zap.String("path", dbPath))

	bus := event.NewBus(logger.Named("event"))

	themeCfg := themes.DefaultConfig()
	if err := cfg.Section("themes", &themeCfg); err != nil {
		logger.Fatal("invalid themes configuration", zap.Error(err))
	}
	themeStore, err := themes.NewStore(ctx, db, logger.Named("themes"))
	if err != nil {
		logger.Fatal("failed to initialize theme store", zap.Error(err))
	}
	themeSvc := themes.NewService(themeStore, bus, logger.Named("themes"))
	if themeCfg.SeedPresets {
		if err := themeSvc.Seed(ctx); err != nil {
			logger.Fatal("failed to seed preset themes", zap.Error(err))
		}
	}
	themeHandler := themes.NewHandler(themeSvc, logger.Named("themes"))
	logger.Info("theme service initialized", zap.String("component", "themes"))

	var wsCfg ws.Config
	if err := cfg.Section("ws", &wsCfg); err != nil {
		logger.Fatal("invalid ws configuration", zap.Error(err))
	}
	wsHandler := ws.NewHandler(bus, themeSvc, wsCfg, logger.Named("ws"))
	defer wsHandler.Close()

	hookCfg := webhook.DefaultConfig()
	if err := cfg.Section("webhook", &hookCfg); err != nil {
		logger.Fatal("invalid webhook configuration", zap.Error(err))
	}
	notifier := webhook.New(hookCfg, bus, logger.Named("webhook"))
	defer notifier.Close()

	srvCfg := server.DefaultConfig()
	if err := cfg.Section("server", &srvCfg); err != nil {
		logger.Fatal("invalid server configuration", zap.Error(err))
	}
	readyCheck := server.ReadinessChecker(func(ctx context.Context) error {
		return db.DB().PingContext(ctx)
	})
	devMode := cfg.GetBool("editor.dev_mode")
	srv := server.New(srvCfg, logger.Named("server"), readyCheck, devMode, themeHandler, wsHandler)

	go func() {
		if err := srv.Start(); err != nil {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	logger.Info("themestudio server ready", zap.String("addr", srvCfg.Addr()))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh

	logger.Info("received shutdown signal", zap.String("signal", sig.String()))

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", zap.Error(err))
	}

	logger.Info("themestudio server stopped")
}

func runBackup(args []string) {
	fs := flag.NewFlagSet("backup", flag.ExitOnError)
	configPath := fs.String("config", "", "path to configuration file")
	out := fs.String("out", "", "archive path (default themestudio-backup-<timestamp>.tar.gz)")
	_ = fs.Parse(args)

	v, err := server.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if *out == "" {
		*out = fmt.Sprintf("themestudio-backup-%s.tar.gz", time.Now().UTC().Format("20060102-150405"))
	}

	db, err := store.New(v.GetString("database.path"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := backup.Create(context.Background(), db, v.ConfigFileUsed(), *out); err != nil {
		fmt.Fprintf(os.Stderr, "backup failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("backup written to %s\n", *out)
}

func runRestore(args []string) {
	fs := flag.NewFlagSet("restore", flag.ExitOnError)
	target := fs.String("dir", "./data", "directory to restore into")
	force := fs.Bool("force", false, "overwrite existing files")
	_ = fs.Parse(args)

	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: themestudio restore [--dir DIR] [--force] ARCHIVE")
		os.Exit(2)
	}
	if err := backup.Restore(context.Background(), fs.Arg(0), *target, *force); err != nil {
		fmt.Fprintf(os.Stderr, "restore failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("restored %s into %s\n", fs.Arg(0), *target)
}
