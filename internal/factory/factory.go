package factory

import (
	"errors"
	"io"
	"log/slog"

	"github.com/mcoot/openplay-go/internal/api/sse"
	"github.com/mcoot/openplay-go/internal/dependencies/clock"
	"github.com/mcoot/openplay-go/internal/dependencies/random"
	"github.com/mcoot/openplay-go/internal/metrics"
	"github.com/mcoot/openplay-go/internal/services/auth"
	"github.com/mcoot/openplay-go/internal/services/session"
	"github.com/mcoot/openplay-go/internal/storage"
	filestorage "github.com/mcoot/openplay-go/internal/storage/file"
	"github.com/mcoot/openplay-go/internal/storage/memory"
	redisstorage "github.com/mcoot/openplay-go/internal/storage/redis"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
	StorageTypeFile   = "file"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Services
	SessionController *session.Controller
	AuthService       *auth.Service
	HubManager        *sse.HubManager
	Broadcaster       *sse.Broadcaster
	Metrics           *metrics.Recorder
}

// Config holds configuration for the application factory
type Config struct {
	// AuthConfig holds configuration for the auth service (optional)
	// If zero value, defaults to auth.DefaultConfig()
	AuthConfig auth.Config
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory", "redis" or "file")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// DataDir is the directory session files are written to (required if StorageType is "file")
	DataDir string
	// DisableMetrics leaves the app without a metrics recorder
	DisableMetrics bool
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	// Create storage based on type
	var store storage.Storage
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		store = memory.New()
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		store = redisStore
	case StorageTypeFile:
		if cfg.DataDir == "" {
			return nil, errors.New("DataDir required when StorageType is file")
		}
		fileStore, err := filestorage.New(cfg.DataDir)
		if err != nil {
			return nil, err
		}
		store = fileStore
	default:
		return nil, errors.New("invalid StorageType: must be 'memory', 'redis' or 'file'")
	}

	var recorder *metrics.Recorder
	if !cfg.DisableMetrics {
		recorder = metrics.NewRecorder()
	}

	// Create external dependencies
	clk := clock.New()
	rnd := random.New()

	return newWithDependencies(store, clk, rnd, cfg.AuthConfig, logger, recorder), nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(
	store storage.Storage,
	clk clock.Clock,
	rnd random.Random,
	authCfg auth.Config,
	logger *slog.Logger,
	recorder *metrics.Recorder,
) *App {
	hubManager := sse.NewHubManager(logger, recorder)
	broadcaster := sse.NewBroadcaster(hubManager, logger)
	sessionController := session.NewController(store, clk, rnd, logger, recorder, broadcaster)
	authService := auth.New(store, clk, authCfg)

	return &App{
		Storage:           store,
		Clock:             clk,
		Random:            rnd,
		SessionController: sessionController,
		AuthService:       authService,
		HubManager:        hubManager,
		Broadcaster:       broadcaster,
		Metrics:           recorder,
	}
}
