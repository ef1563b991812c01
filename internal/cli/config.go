package cli

import (
	"errors"
	"io/fs"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/chanroute/pkg/channel"
	errs "github.com/matzehuels/chanroute/pkg/errors"
	"github.com/matzehuels/chanroute/pkg/server"
)

// Backend names accepted in the config file.
const (
	backendFile  = "file"
	backendRedis = "redis"
	backendMongo = "mongo"
	backendNone  = "none"
)

// Config is the optional TOML config file. Flags override its values.
//
//	[router]
//	min_jog_length = 2
//	max_tries = 20
//
//	[cache]
//	backend = "redis"
//	redis_url = "redis://localhost:6379/0"
//
//	[store]
//	backend = "mongo"
//	mongo_uri = "mongodb://localhost:27017"
//
//	[server]
//	addr = ":9090"
//	request_timeout = "30s"
//	max_tries = 50
type Config struct {
	Router channel.Config `toml:"router"`
	Cache  CacheConfig    `toml:"cache"`
	Store  StoreConfig    `toml:"store"`
	Server server.Config  `toml:"server"`
}

// CacheConfig selects the result cache.
type CacheConfig struct {
	Backend  string `toml:"backend"` // file (default), redis or none
	Dir      string `toml:"dir"`
	RedisURL string `toml:"redis_url"`
	Prefix   string `toml:"prefix"`
}

// StoreConfig selects where routing runs are recorded.
type StoreConfig struct {
	Backend  string `toml:"backend"` // file (default), mongo or none
	Dir      string `toml:"dir"`
	MongoURI string `toml:"mongo_uri"`
	Database string `toml:"database"`
}

// DefaultConfig returns the configuration used without a config file.
func DefaultConfig() Config {
	return Config{
		Cache: CacheConfig{Backend: backendFile, Prefix: appName + ":"},
		Store: StoreConfig{Backend: backendFile, Database: appName},
	}
}

// LoadConfig reads the config file at path. With an empty path the default
// location is tried and a missing file is not an error.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	explicit := path != ""
	if !explicit {
		dir, err := configDir()
		if err != nil {
			return cfg, nil
		}
		path = filepath.Join(dir, "config.toml")
	}

	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return DefaultConfig(), nil
		}
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, errs.Wrap(errs.ErrCodeFileNotFound, err, "config file %s", path)
		}
		return cfg, errs.Wrap(errs.ErrCodeInvalidConfig, err, "parse config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return cfg, errs.New(errs.ErrCodeInvalidConfig, "unknown keys in %s: %s", path, strings.Join(keys, ", "))
	}
	return cfg, cfg.Validate()
}

// Validate checks backend names, their required settings and the router
// defaults.
func (c Config) Validate() error {
	if !slices.Contains([]string{backendFile, backendRedis, backendNone}, c.Cache.Backend) {
		return errs.New(errs.ErrCodeInvalidConfig, "cache backend must be file, redis or none, got %q", c.Cache.Backend)
	}
	if c.Cache.Backend == backendRedis && c.Cache.RedisURL == "" {
		return errs.New(errs.ErrCodeInvalidConfig, "cache backend redis needs redis_url")
	}
	if !slices.Contains([]string{backendFile, backendMongo, backendNone}, c.Store.Backend) {
		return errs.New(errs.ErrCodeInvalidConfig, "store backend must be file, mongo or none, got %q", c.Store.Backend)
	}
	if c.Store.Backend == backendMongo && c.Store.MongoURI == "" {
		return errs.New(errs.ErrCodeInvalidConfig, "store backend mongo needs mongo_uri")
	}
	return c.Router.Validate()
}
