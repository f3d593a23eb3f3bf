package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/wippyai/hostfs/host"
	"github.com/wippyai/hostfs/hostfs"
	"github.com/wippyai/hostfs/memory"
	"github.com/wippyai/hostfs/metrics"
	"github.com/wippyai/hostfs/vfs"
)

func main() {
	var (
		configFile  = flag.String("config", "", "YAML configuration file")
		root        = flag.String("root", "", "Host directory to mount")
		platform    = flag.String("platform", "", "Host platform quirks: auto, posix or windows")
		allocator   = flag.String("allocator", "", "mmap allocator: heap or linear")
		metricsAddr = flag.String("metrics-addr", "", "Serve Prometheus metrics on this address")
		verbose     = flag.Bool("v", false, "Verbose (debug) logging")
		interactive = flag.Bool("i", false, "Interactive shell with TUI")
	)
	flag.Parse()

	cfg, err := loadConfig(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if *root != "" {
		cfg.Root = *root
	}
	if *platform != "" {
		cfg.Platform = *platform
	}
	if *allocator != "" {
		cfg.Allocator = *allocator
	}
	if *metricsAddr != "" {
		cfg.Metrics.Addr = *metricsAddr
	}

	if err := cfg.validate(); err != nil || (!*interactive && flag.NArg() == 0) {
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		fmt.Fprintln(os.Stderr, "Usage: hostfs -root <dir> [-config file] [-platform auto|posix|windows] [-v] <command> [args...]")
		fmt.Fprintln(os.Stderr, "       hostfs -root <dir> -i  (interactive mode)")
		fmt.Fprintln(os.Stderr, "       hostfs -root <dir> help")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, cfg, *verbose, *interactive, flag.Args()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config, verbose, interactive bool, args []string) error {
	log, err := newLogger(cfg.LogLevel, verbose)
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	root, cleanup, err := mount(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer cleanup()

	sh := newShell(root, os.Stdout)
	if interactive {
		if !term.IsTerminal(int(os.Stdin.Fd())) {
			return fmt.Errorf("interactive mode needs a terminal")
		}
		return runInteractive(sh, cfg)
	}
	return sh.exec(args)
}

// mount builds the adapter described by cfg and mounts its root.
func mount(ctx context.Context, cfg config, log *zap.Logger) (*vfs.Node, func(), error) {
	platform, _ := host.ParsePlatform(cfg.Platform)
	opts := []hostfs.Option{hostfs.WithLogger(log)}
	cleanup := func() {}

	if cfg.Allocator == "linear" {
		mem, err := memory.NewStandalone(ctx)
		if err != nil {
			return nil, nil, fmt.Errorf("linear memory: %w", err)
		}
		opts = append(opts, hostfs.WithAllocator(mem))
		cleanup = func() { _ = mem.Close(context.Background()) }
	}

	if cfg.Metrics.Addr != "" {
		collector, err := metrics.NewCollector(&metrics.Config{
			Namespace: cfg.Metrics.Namespace,
			Path:      cfg.Metrics.Path,
		}, log)
		if err != nil {
			cleanup()
			return nil, nil, err
		}
		opts = append(opts, hostfs.WithObserver(collector))
		go func() {
			if err := collector.Serve(ctx, cfg.Metrics.Addr); err != nil {
				log.Error("metrics server stopped", zap.Error(err))
			}
		}()
	}

	fsys := hostfs.New(host.NewOS(host.WithPlatform(platform)), opts...)
	root, err := fsys.Mount(&vfs.Mount{Root: cfg.Root, Mountpoint: cfg.Mountpoint})
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("mount %s: %w", cfg.Root, err)
	}
	return root, cleanup, nil
}

func newLogger(level string, verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, err
	}
	zcfg := zap.NewProductionConfig()
	zcfg.Level = lvl
	return zcfg.Build()
}
