// Package config loads framewright settings from a TOML file.
//
// Every field has a default, so an empty or missing file yields a usable
// [Config]. Durations are stored as integer milliseconds.
//
//	[snap]
//	threshold = 5
//	release = 5
//
//	[drag]
//	threshold = 4
//	frame_interval_ms = 33
//
//	[autoscroll]
//	edge_x = 80
//	edge_y = 50
//	min_speed = 0.5
//	max_speed = 4
//
//	[history]
//	depth = 50
//	coalesce_ms = 50
//
//	[store]
//	backend = "file"
//	path = "./documents"
//
//	[http]
//	addr = ":8080"
//	document = "default"
package config

import (
	"os"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/framewright/framewright/pkg/docstore"
	"github.com/framewright/framewright/pkg/drag"
	"github.com/framewright/framewright/pkg/errors"
	"github.com/framewright/framewright/pkg/history"
	"github.com/framewright/framewright/pkg/snap"
)

// Defaults.
const (
	DefaultDragThreshold   = 4.0
	DefaultFrameIntervalMS = 33
	DefaultEdgeX           = 80.0
	DefaultEdgeY           = 50.0
	DefaultMinSpeed        = 0.5
	DefaultMaxSpeed        = 4.0
	DefaultHistoryDepth    = history.DefaultDepth
	DefaultCoalesceMS      = 50
	DefaultBackend         = BackendMemory
	DefaultPath            = "documents"
	DefaultPrefix          = "framewright:"
	DefaultDatabase        = "framewright"
	DefaultCollection      = "documents"
	DefaultTimeoutMS       = 5000
	DefaultAddr            = ":8080"
	DefaultDocument        = "default"
)

// Document store backends.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendMongo  = "mongo"
)

// Config is the root of the configuration file.
type Config struct {
	Snap       SnapConfig       `toml:"snap"`
	Drag       DragConfig       `toml:"drag"`
	AutoScroll AutoScrollConfig `toml:"autoscroll"`
	History    HistoryConfig    `toml:"history"`
	Store      StoreConfig      `toml:"store"`
	HTTP       HTTPConfig       `toml:"http"`
}

// SnapConfig tunes the snap engine.
type SnapConfig struct {
	Threshold         float64 `toml:"threshold"`
	Release           float64 `toml:"release"`
	DisableDistribute bool    `toml:"disable_distribute"`
}

// DragConfig tunes the drag controller.
type DragConfig struct {
	Threshold       float64 `toml:"threshold"`
	FrameIntervalMS int     `toml:"frame_interval_ms"`
}

// AutoScrollConfig sizes the auto-scroll bands.
type AutoScrollConfig struct {
	EdgeX    float64 `toml:"edge_x"`
	EdgeY    float64 `toml:"edge_y"`
	MinSpeed float64 `toml:"min_speed"`
	MaxSpeed float64 `toml:"max_speed"`
}

// HistoryConfig tunes undo/redo.
type HistoryConfig struct {
	Depth      int `toml:"depth"`
	CoalesceMS int `toml:"coalesce_ms"`
}

// StoreConfig selects the document store.
type StoreConfig struct {
	Backend    string `toml:"backend"`
	Path       string `toml:"path"`       // file backend directory
	URL        string `toml:"url"`        // redis or mongo connection string
	Prefix     string `toml:"prefix"`     // redis key prefix
	Database   string `toml:"database"`   // mongo database
	Collection string `toml:"collection"` // mongo collection
	TimeoutMS  int    `toml:"timeout_ms"`

	ConnectAttempts int `toml:"connect_attempts"` // redis and mongo only
}

// HTTPConfig configures the serve command.
type HTTPConfig struct {
	Addr           string `toml:"addr"`
	Document       string `toml:"document"`
	ReadTimeoutMS  int    `toml:"read_timeout_ms"`
	WriteTimeoutMS int    `toml:"write_timeout_ms"`
}

// Default returns a Config with every default applied.
func Default() Config {
	var c Config
	c.SetDefaults()
	return c
}

// Load reads path and applies defaults. Unknown keys are an error so that
// typos do not silently fall back to defaults.
func Load(path string) (Config, error) {
	if err := errors.ValidatePath(path); err != nil {
		return Config{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Config{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "config file %s", path)
		}
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config %s", path)
	}
	return Parse(data)
}

// Parse decodes TOML data, applies defaults and validates the result.
func Parse(data []byte) (Config, error) {
	var c Config
	md, err := toml.Decode(string(data), &c)
	if err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "decode config")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Config{}, errors.New(errors.ErrCodeInvalidConfig, "unknown config key %q", undecoded[0].String())
	}
	c.SetDefaults()
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// SetDefaults fills zero fields.
func (c *Config) SetDefaults() {
	if c.Snap.Threshold == 0 {
		c.Snap.Threshold = snap.DefaultThreshold
	}
	if c.Snap.Release == 0 {
		c.Snap.Release = snap.ReleaseTolerance
	}
	if c.Drag.Threshold == 0 {
		c.Drag.Threshold = DefaultDragThreshold
	}
	if c.Drag.FrameIntervalMS == 0 {
		c.Drag.FrameIntervalMS = DefaultFrameIntervalMS
	}
	if c.AutoScroll.EdgeX == 0 {
		c.AutoScroll.EdgeX = DefaultEdgeX
	}
	if c.AutoScroll.EdgeY == 0 {
		c.AutoScroll.EdgeY = DefaultEdgeY
	}
	if c.AutoScroll.MinSpeed == 0 {
		c.AutoScroll.MinSpeed = DefaultMinSpeed
	}
	if c.AutoScroll.MaxSpeed == 0 {
		c.AutoScroll.MaxSpeed = DefaultMaxSpeed
	}
	if c.History.Depth == 0 {
		c.History.Depth = DefaultHistoryDepth
	}
	if c.History.CoalesceMS == 0 {
		c.History.CoalesceMS = DefaultCoalesceMS
	}
	if c.Store.Backend == "" {
		c.Store.Backend = DefaultBackend
	}
	if c.Store.Path == "" {
		c.Store.Path = DefaultPath
	}
	if c.Store.Prefix == "" {
		c.Store.Prefix = DefaultPrefix
	}
	if c.Store.Database == "" {
		c.Store.Database = DefaultDatabase
	}
	if c.Store.Collection == "" {
		c.Store.Collection = DefaultCollection
	}
	if c.Store.TimeoutMS == 0 {
		c.Store.TimeoutMS = DefaultTimeoutMS
	}
	if c.Store.ConnectAttempts == 0 {
		c.Store.ConnectAttempts = docstore.DefaultConnectAttempts
	}
	if c.HTTP.Addr == "" {
		c.HTTP.Addr = DefaultAddr
	}
	if c.HTTP.Document == "" {
		c.HTTP.Document = DefaultDocument
	}
}

// Validate checks ranges and backend settings.
func (c *Config) Validate() error {
	switch {
	case c.Snap.Threshold < 0 || c.Snap.Release < 0:
		return errors.New(errors.ErrCodeInvalidConfig, "snap distances must not be negative")
	case c.Drag.Threshold < 0:
		return errors.New(errors.ErrCodeInvalidConfig, "drag threshold must not be negative")
	case c.Drag.FrameIntervalMS < 0:
		return errors.New(errors.ErrCodeInvalidConfig, "drag frame interval must not be negative")
	case c.AutoScroll.EdgeX < 0 || c.AutoScroll.EdgeY < 0:
		return errors.New(errors.ErrCodeInvalidConfig, "autoscroll edges must not be negative")
	case c.AutoScroll.MinSpeed < 0 || c.AutoScroll.MaxSpeed < c.AutoScroll.MinSpeed:
		return errors.New(errors.ErrCodeInvalidConfig, "autoscroll speeds must satisfy 0 <= min_speed <= max_speed")
	case c.History.Depth < 0:
		return errors.New(errors.ErrCodeInvalidConfig, "history depth must not be negative")
	case c.History.CoalesceMS < 0:
		return errors.New(errors.ErrCodeInvalidConfig, "history coalesce window must not be negative")
	case c.Store.TimeoutMS < 0:
		return errors.New(errors.ErrCodeInvalidConfig, "store timeout must not be negative")
	case c.Store.ConnectAttempts < 0:
		return errors.New(errors.ErrCodeInvalidConfig, "store connect attempts must not be negative")
	}

	switch c.Store.Backend {
	case BackendMemory:
	case BackendFile:
		if err := errors.ValidatePath(c.Store.Path); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "store path")
		}
	case BackendRedis:
		if err := errors.ValidateURL(c.Store.URL, "redis", "rediss"); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "store url")
		}
	case BackendMongo:
		if err := errors.ValidateURL(c.Store.URL, "mongodb", "mongodb+srv"); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "store url")
		}
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown store backend %q", c.Store.Backend)
	}

	if err := errors.ValidateDocumentID(c.HTTP.Document); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "http document")
	}
	return nil
}

// DragOptions returns the drag controller configuration.
func (c Config) DragOptions() drag.Config {
	return drag.Config{
		Threshold:     c.Drag.Threshold,
		FrameInterval: ms(c.Drag.FrameIntervalMS),
		SnapThreshold: c.Snap.Threshold,
		SnapRelease:   c.Snap.Release,
		AutoScroll: drag.AutoScrollConfig{
			EdgeX:    c.AutoScroll.EdgeX,
			EdgeY:    c.AutoScroll.EdgeY,
			MinSpeed: c.AutoScroll.MinSpeed,
			MaxSpeed: c.AutoScroll.MaxSpeed,
		},
	}
}

// SnapEngine returns the configured snap engine.
func (c Config) SnapEngine() snap.Engine {
	return snap.Engine{NoDistribute: c.Snap.DisableDistribute}
}

// HistoryOptions returns the history configuration.
func (c Config) HistoryOptions() history.Options {
	return history.Options{
		Depth:          c.History.Depth,
		CoalesceWindow: ms(c.History.CoalesceMS),
	}
}

// StoreOptions returns the document store selection.
func (c Config) StoreOptions() docstore.Options {
	return docstore.Options{
		Backend:    c.Store.Backend,
		Path:       c.Store.Path,
		URL:        c.Store.URL,
		Prefix:     c.Store.Prefix,
		Database:   c.Store.Database,
		Collection: c.Store.Collection,
		Timeout:    c.StoreTimeout(),

		ConnectAttempts: c.Store.ConnectAttempts,
	}
}

// StoreTimeout returns the per-operation document store timeout.
func (c Config) StoreTimeout() time.Duration { return ms(c.Store.TimeoutMS) }

// ReadTimeout returns the HTTP read timeout; zero means none.
func (c Config) ReadTimeout() time.Duration { return ms(c.HTTP.ReadTimeoutMS) }

// WriteTimeout returns the HTTP write timeout; zero means none.
func (c Config) WriteTimeout() time.Duration { return ms(c.HTTP.WriteTimeoutMS) }

func ms(v int) time.Duration { return time.Duration(v) * time.Millisecond }
