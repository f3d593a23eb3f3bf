package hostfs

import (
	"time"

	"go.uber.org/zap"

	"github.com/wippyai/hostfs/host"
	"github.com/wippyai/hostfs/memory"
	"github.com/wippyai/hostfs/vfs"
)

// Observer is notified after every node and stream operation.
type Observer interface {
	ObserveOperation(op string, elapsed time.Duration, err error)
}

// Config is fixed when the adapter is created and shared by every node and
// stream it produces.
type Config struct {
	Logger    *zap.Logger
	Observer  Observer
	Allocator vfs.Allocator
	Platform  host.Platform
}

// Option configures an adapter.
type Option func(*Config)

// WithLogger sets the logger used by this adapter instead of the package logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Config) {
		c.Logger = l
	}
}

// WithObserver registers an operation observer.
func WithObserver(o Observer) Option {
	return func(c *Config) {
		c.Observer = o
	}
}

// WithAllocator sets where mmap regions are allocated.
func WithAllocator(a vfs.Allocator) Option {
	return func(c *Config) {
		c.Allocator = a
	}
}

// WithPlatform overrides the platform reported by the host.
func WithPlatform(p host.Platform) Option {
	return func(c *Config) {
		c.Platform = p
	}
}

// FS is the adapter. It implements vfs.NodeOps and vfs.StreamOps once and is
// bound to every node it creates.
type FS struct {
	host host.FS
	log  *zap.Logger
	cfg  Config
}

var (
	_ vfs.NodeOps   = (*FS)(nil)
	_ vfs.StreamOps = (*FS)(nil)
)

// New creates an adapter over h.
func New(h host.FS, opts ...Option) *FS {
	cfg := Config{
		Platform: h.Platform(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.Logger == nil {
		cfg.Logger = Logger()
	}
	if cfg.Allocator == nil {
		cfg.Allocator = memory.NewHeap()
	}
	return &FS{
		host: h,
		cfg:  cfg,
		log:  cfg.Logger.Named("hostfs"),
	}
}

// Config returns the adapter configuration.
func (fs *FS) Config() Config {
	return fs.cfg
}

func (fs *FS) observe(op string, start time.Time, errp *error) {
	var err error
	if errp != nil {
		err = *errp
	}
	elapsed := time.Since(start)
	fs.log.Debug("operation", zap.String("op", op), zap.Duration("elapsed", elapsed), zap.Error(err))
	if fs.cfg.Observer != nil {
		fs.cfg.Observer.ObserveOperation(op, elapsed, err)
	}
}
