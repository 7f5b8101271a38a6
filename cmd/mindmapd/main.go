package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/bluesky-social/mindmap/mindmap"
	"github.com/bluesky-social/mindmap/mindmap/store"

	"github.com/carlmjohnson/versioninfo"
	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v2"
	_ "go.uber.org/automaxprocs"
)

func main() {
	if err := run(os.Args); err != nil {
		slog.Error("exiting", "err", err)
		os.Exit(-1)
	}
}

func run(args []string) error {

	app := cli.App{
		Name:    "mindmapd",
		Usage:   "mind map tree service and client",
		Version: versioninfo.Short(),
	}

	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "log-level",
			Usage:   "log verbosity level (eg: warn, info, debug)",
			EnvVars: []string{"MINDMAP_LOG_LEVEL", "GO_LOG_LEVEL", "LOG_LEVEL"},
		},
		&cli.StringFlag{
			Name:    "log-format",
			Usage:   "log output format: json or text",
			Value:   "json",
			EnvVars: []string{"MINDMAP_LOG_FORMAT"},
		},
		&cli.StringFlag{
			Name:    "host",
			Usage:   "method, hostname, and port of mindmapd service (for client commands)",
			Value:   "http://localhost:8000",
			EnvVars: []string{"MINDMAP_HOST"},
		},
	}

	app.Commands = []*cli.Command{
		serveCmd,
		cmdCreateMap,
		cmdAddLeaf,
		cmdGetLeaf,
		cmdPrettyPrint,
		cmdShow,
		cmdSeed,
		cmdVersion,
	}

	return app.Run(args)
}

func configLogger(cctx *cli.Context, writer io.Writer) (*slog.Logger, error) {
	var level slog.Level
	switch strings.ToLower(cctx.String("log-level")) {
	case "error":
		level = slog.LevelError
	case "warn":
		level = slog.LevelWarn
	case "info":
		level = slog.LevelInfo
	case "debug":
		level = slog.LevelDebug
	default:
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	switch strings.ToLower(cctx.String("log-format")) {
	case "json", "":
		handler = slog.NewJSONHandler(writer, opts)
	case "text":
		handler = slog.NewTextHandler(writer, opts)
	default:
		return nil, fmt.Errorf("invalid log format: %#v", cctx.String("log-format"))
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger, nil
}

// store flags shared by commands which open the backing store directly
var storeFlags = []cli.Flag{
	&cli.StringFlag{
		Name:    "store-url",
		Usage:   "mind map store: memory://, sqlite://<path>, postgres://..., pebble://<dir>, redis://...",
		Value:   "sqlite://data/mindmapd/mindmaps.sqlite",
		EnvVars: []string{"MINDMAP_STORE_URL", "DATABASE_URL"},
	},
	&cli.IntFlag{
		Name:    "max-db-connections",
		Usage:   "maximum open connections to a postgres store",
		Value:   10,
		EnvVars: []string{"MINDMAP_MAX_DB_CONNECTIONS"},
	},
	&cli.BoolFlag{
		Name:    "db-tracing",
		Usage:   "emit OpenTelemetry spans for SQL queries",
		EnvVars: []string{"MINDMAP_DB_TRACING"},
	},
	&cli.IntFlag{
		Name:    "cache-size",
		Usage:   "number of map documents to cache in process (0 disables)",
		Value:   0,
		EnvVars: []string{"MINDMAP_CACHE_SIZE"},
	},
	&cli.DurationFlag{
		Name:    "cache-ttl",
		Usage:   "how long cached map documents stay valid",
		EnvVars: []string{"MINDMAP_CACHE_TTL"},
	},
	&cli.StringFlag{
		Name:    "redis-cache-url",
		Usage:   "redis connection URL for a shared document cache: redis://<user>:<pass>@<hostname>:6379/<db>",
		EnvVars: []string{"MINDMAP_REDIS_CACHE_URL"},
	},
}

func openStore(cctx *cli.Context, logger *slog.Logger) (mindmap.Store, func() error, error) {
	return store.Open(cctx.Context, cctx.String("store-url"), store.Options{
		Logger:         logger,
		MaxConnections: cctx.Int("max-db-connections"),
		DBTracing:      cctx.Bool("db-tracing"),
		CacheSize:      cctx.Int("cache-size"),
		CacheTTL:       cctx.Duration("cache-ttl"),
		RedisCacheURL:  cctx.String("redis-cache-url"),
	})
}

var serveCmd = &cli.Command{
	Name:  "serve",
	Usage: "run the mindmapd API daemon",
	Flags: append([]cli.Flag{
		&cli.StringFlag{
			Name:    "bind",
			Usage:   "Specify the local IP/port to bind to",
			Value:   ":8000",
			EnvVars: []string{"MINDMAP_BIND"},
		},
		&cli.StringFlag{
			Name:    "metrics-listen",
			Usage:   "IP or address, and port, to listen on for metrics APIs (empty disables)",
			Value:   ":3989",
			EnvVars: []string{"MINDMAP_METRICS_LISTEN"},
		},
		&cli.StringFlag{
			Name:    "env",
			Usage:   "operating environment (eg, 'prod', 'test')",
			Value:   "dev",
			EnvVars: []string{"ENVIRONMENT"},
		},
		&cli.BoolFlag{
			Name:    "jaeger",
			Usage:   "export traces to a local jaeger collector",
			EnvVars: []string{"MINDMAP_JAEGER"},
		},
		&cli.StringFlag{
			Name:    "otel-exporter-otlp-endpoint",
			EnvVars: []string{"OTEL_EXPORTER_OTLP_ENDPOINT"},
		},
	}, storeFlags...),
	Action: runServe,
}

func runServe(cctx *cli.Context) error {
	logger, err := configLogger(cctx, os.Stdout)
	if err != nil {
		return err
	}

	stopTracing, err := setupOTEL(cctx, logger)
	if err != nil {
		return fmt.Errorf("failed to setup tracing: %w", err)
	}
	defer stopTracing()

	st, closeStore, err := openStore(cctx, logger)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer func() {
		if err := closeStore(); err != nil {
			logger.Error("failed to close store", "err", err)
		}
	}()

	srv := NewServer(mindmap.NewService(st, logger), Config{
		Logger:        logger,
		Bind:          cctx.String("bind"),
		MetricsListen: cctx.String("metrics-listen"),
	})

	ctx, stop := signal.NotifyContext(cctx.Context, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return srv.Run(ctx)
}

var cmdVersion = &cli.Command{
	Name:  "version",
	Usage: "print version and exit",
	Action: func(cctx *cli.Context) error {
		fmt.Println(versioninfo.Short())
		return nil
	},
}
