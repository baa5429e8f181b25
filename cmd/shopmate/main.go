package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"ShopMate/internal/catalog"
	"ShopMate/internal/chatbot"
	"ShopMate/internal/config"
	"ShopMate/internal/host"
	"ShopMate/internal/server"
	"ShopMate/internal/telemetry"
)

func main() {
	// .env is optional
	_ = godotenv.Load()

	var (
		configPath    string
		mode          string
		debug         bool
		listen        string
		catalogDriver string
		catalogDSN    string
		logDir        string
	)

	flag.StringVar(&configPath, "config", "", "Path to a YAML config file")
	flag.StringVar(&mode, "mode", config.ModeREPL, "Run mode (repl|serve)")
	flag.BoolVar(&debug, "debug", false, "Enable debug logging")
	flag.StringVar(&listen, "listen", ":8080", "Widget server listen address")
	flag.StringVar(&catalogDriver, "catalog-driver", catalog.DriverSQLite, "Catalog database driver (sqlite3|postgres|mysql)")
	flag.StringVar(&catalogDSN, "catalog-dsn", "shopmate.db", "Catalog database DSN")
	flag.StringVar(&logDir, "log-dir", "logs", "Directory for log, trace and metric files")
	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// explicit flags win over file and environment
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "mode":
			cfg.Mode = mode
		case "debug":
			cfg.Debug = debug
		case "listen":
			cfg.Listen = listen
		case "catalog-driver":
			cfg.Catalog.Driver = catalogDriver
		case "catalog-dsn":
			cfg.Catalog.DSN = catalogDSN
		case "log-dir":
			cfg.LogDir = logDir
		}
	})

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid config: %v\n", err)
		os.Exit(1)
	}

	if err := run(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(cfg config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger, closeLog, err := telemetry.InitLogger(cfg.LogDir, cfg.Debug)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer closeLog()

	tracer, meter, shutdown, err := telemetry.InitTelemetry(ctx, cfg.LogDir)
	if err != nil {
		return fmt.Errorf("failed to initialize telemetry: %w", err)
	}
	defer shutdown()

	store, err := openCatalog(ctx, cfg.Catalog, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	deps := chatbot.Deps{
		Logger:    logger,
		Tracer:    tracer,
		Meter:     meter,
		Catalog:   store,
		Scheduler: host.TimerScheduler{},
	}

	switch cfg.Mode {
	case config.ModeServe:
		return serve(ctx, cfg, deps, logger)
	default:
		return repl(ctx, cfg, deps)
	}
}

func openCatalog(ctx context.Context, cfg config.Catalog, logger *slog.Logger) (*catalog.Store, error) {
	store, err := catalog.Open(ctx, cfg.Driver, cfg.DSN)
	if err != nil {
		return nil, err
	}

	if err := store.Migrate(ctx); err != nil {
		store.Close()
		return nil, err
	}

	if cfg.Seed {
		n, err := store.Seed(ctx, catalog.DefaultProducts())
		if err != nil {
			store.Close()
			return nil, err
		}
		if n > 0 {
			logger.Info("seeded catalog", "products", n)
		}
	}

	logger.Info("catalog ready", "driver", cfg.Driver)
	return store, nil
}

func repl(ctx context.Context, cfg config.Config, deps chatbot.Deps) error {
	out := host.NewSyncWriter(os.Stdout)
	terminal := host.NewTerminal(out)
	deps.Navigator = terminal
	deps.Owner = terminal

	bot, err := chatbot.New(cfg, deps)
	if err != nil {
		return fmt.Errorf("failed to initialize chatbot: %w", err)
	}
	return bot.Run(ctx, os.Stdin, out)
}

func serve(ctx context.Context, cfg config.Config, deps chatbot.Deps, logger *slog.Logger) error {
	var bot *chatbot.ChatBot
	hub := server.NewHub(logger, func() chatbot.View { return bot.Snapshot() })
	defer hub.Close()

	deps.Navigator = hub
	deps.Owner = hub

	bot, err := chatbot.New(cfg, deps)
	if err != nil {
		return fmt.Errorf("failed to initialize chatbot: %w", err)
	}
	bot.Subscribe(hub.Listen)

	handler := server.NewRouter(server.NewHandler(bot, hub, logger), cfg.AllowedOrigins)
	return server.Serve(ctx, cfg.Listen, handler, logger)
}
