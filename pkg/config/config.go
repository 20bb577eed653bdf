// Package config loads and saves the flashtrack TOML configuration.
//
// The file lives at $XDG_CONFIG_HOME/flashtrack/config.toml (or
// ~/.config/flashtrack/config.toml). A missing file yields [Default].
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/flashtrack/pkg/course"
	errs "github.com/matzehuels/flashtrack/pkg/errors"
	"github.com/matzehuels/flashtrack/pkg/geom"
)

// Storage backend names.
const (
	BackendFile   = "file"
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendMongo  = "mongo"
)

// Config holds flashtrack configuration.
type Config struct {
	Editor EditorConfig `toml:"editor"`
	Course CourseConfig `toml:"course"`
	Store  StoreConfig  `toml:"store"`
	Server ServerConfig `toml:"server"`
	Render RenderConfig `toml:"render"`
}

// EditorConfig controls hit testing.
type EditorConfig struct {
	NodeSize     float64 `toml:"node_size"`
	LandmarkSize float64 `toml:"landmark_size"`
	TieBreak     string  `toml:"tie_break"` // "nearest", "last"
}

// Point is a position in course coordinates.
type Point struct {
	X float64 `toml:"x"`
	Y float64 `toml:"y"`
}

// CourseConfig sets up new courses.
type CourseConfig struct {
	Width  int    `toml:"width"`
	Height int    `toml:"height"`
	Color  string `toml:"color"`
	Start  Point  `toml:"start"`
	Finish Point  `toml:"finish"`
}

// StoreConfig selects and configures the course store.
type StoreConfig struct {
	Backend string      `toml:"backend"` // "file", "memory", "redis", "mongo"
	Dir     string      `toml:"dir"`
	Redis   RedisConfig `toml:"redis"`
	Mongo   MongoConfig `toml:"mongo"`
}

// RedisConfig configures the Redis backend.
type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
	Prefix   string `toml:"prefix"`
}

// MongoConfig configures the MongoDB backend.
type MongoConfig struct {
	URI        string `toml:"uri"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
}

// ServerConfig controls the HTTP API.
type ServerConfig struct {
	Addr       string `toml:"addr"`
	SessionTTL string `toml:"session_ttl"`
}

// RenderConfig controls Graphviz rendering.
type RenderConfig struct {
	Cache    bool    `toml:"cache"`
	CacheDir string  `toml:"cache_dir"`
	Scale    float64 `toml:"scale"` // course pixels per inch
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Editor: EditorConfig{
			NodeSize:     course.DefaultNodeSize,
			LandmarkSize: course.DefaultLandmarkSize,
			TieBreak:     course.TieBreakNearest.String(),
		},
		Course: CourseConfig{
			Width:  1024,
			Height: 768,
			Color:  "blue",
			Start:  Point{X: course.DefaultStart.X, Y: course.DefaultStart.Y},
			Finish: Point{X: course.DefaultFinish.X, Y: course.DefaultFinish.Y},
		},
		Store: StoreConfig{
			Backend: BackendFile,
			Dir:     filepath.Join(DataDir(), "courses"),
			Redis:   RedisConfig{Addr: "localhost:6379", Prefix: "flashtrack:"},
			Mongo: MongoConfig{
				URI:        "mongodb://localhost:27017",
				Database:   "flashtrack",
				Collection: "courses",
			},
		},
		Server: ServerConfig{Addr: ":8080", SessionTTL: "30m"},
		Render: RenderConfig{Cache: true, CacheDir: filepath.Join(CacheDir(), "render"), Scale: 72},
	}
}

// Dir returns the flashtrack config directory path.
func Dir() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "flashtrack")
}

// DataDir returns the flashtrack data directory path.
func DataDir() string {
	dir := os.Getenv("XDG_DATA_HOME")
	if dir == "" {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dir, "flashtrack")
}

// CacheDir returns the flashtrack cache directory path.
func CacheDir() string {
	dir := os.Getenv("XDG_CACHE_HOME")
	if dir == "" {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".cache")
	}
	return filepath.Join(dir, "flashtrack")
}

// Path returns the default config file path.
func Path() string {
	return filepath.Join(Dir(), "config.toml")
}

// Load reads the config file at path (or [Path] when empty). Values missing
// from the file keep their defaults; a missing file yields [Default].
func Load(path string) (*Config, error) {
	if path == "" {
		path = Path()
	}
	cfg := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidFormat, err, "parse %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes cfg to path (or [Path] when empty).
func Save(path string, cfg *Config) error {
	if path == "" {
		path = Path()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(cfg)
}

// Validate checks values that cannot be caught by decoding.
func (c *Config) Validate() error {
	if c.Editor.NodeSize <= 0 || c.Editor.LandmarkSize <= 0 {
		return errs.New(errs.ErrCodeInvalidInput, "editor sizes must be positive")
	}
	if _, err := course.ParseTieBreak(c.Editor.TieBreak); err != nil {
		return errs.Wrap(errs.ErrCodeInvalidInput, err, "editor.tie_break")
	}
	if err := errs.ValidateColor(c.Course.Color); err != nil {
		return err
	}
	switch c.Store.Backend {
	case BackendFile, BackendMemory, BackendRedis, BackendMongo:
	default:
		return errs.New(errs.ErrCodeInvalidInput, "unknown store backend %q", c.Store.Backend)
	}
	if _, err := c.SessionTTL(); err != nil {
		return err
	}
	return nil
}

// CourseOptions returns the hit testing options for new courses.
func (c *Config) CourseOptions() course.Options {
	tb, _ := course.ParseTieBreak(c.Editor.TieBreak)
	return course.Options{
		NodeSize:     c.Editor.NodeSize,
		LandmarkSize: c.Editor.LandmarkSize,
		TieBreak:     tb,
	}
}

// NewCourse returns an empty course with the configured landmarks.
func (c *Config) NewCourse() *course.Course {
	crs := course.New(c.CourseOptions())
	crs.SetStart(geom.Pt(c.Course.Start.X, c.Course.Start.Y))
	crs.SetFinish(geom.Pt(c.Course.Finish.X, c.Course.Finish.Y))
	return crs
}

// SessionTTL parses server.session_ttl.
func (c *Config) SessionTTL() (time.Duration, error) {
	d, err := time.ParseDuration(c.Server.SessionTTL)
	if err != nil {
		return 0, errs.Wrap(errs.ErrCodeInvalidInput, err, "server.session_ttl")
	}
	return d, nil
}
