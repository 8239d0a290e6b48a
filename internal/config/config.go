// Package config loads and stores CLI configuration in the XDG config dir.
// Only non-secret settings are kept here; tokens go to the OS keychain and
// drives name the environment variable their token is read from.
//
// Precedence, highest first: GISTHUB_* environment variables, config.yaml,
// built-in defaults.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gisthub/cli/internal/xdg"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"
)

// FileName is the config file inside the config dir.
const FileName = "config.yaml"

// EnvPrefix marks environment variables that override the file.
const EnvPrefix = "GISTHUB_"

const maxConfigFileSize = 1 << 20

// Config holds non-sensitive CLI settings.
type Config struct {
	LogLevel    string           `koanf:"log_level" yaml:"log_level"`
	LogFile     string           `koanf:"log_file" yaml:"log_file,omitempty"`
	APIURL      string           `koanf:"api_url" yaml:"api_url"`
	ClientID    string           `koanf:"client_id" yaml:"client_id"`
	CacheTTL    time.Duration    `koanf:"cache_ttl" yaml:"cache_ttl"`
	CacheOwners int              `koanf:"cache_owners" yaml:"cache_owners"`
	RateLimit   float64          `koanf:"rate_limit" yaml:"rate_limit"`
	RateBurst   int              `koanf:"rate_burst" yaml:"rate_burst"`
	ReadCount   int              `koanf:"read_count" yaml:"read_count"`
	Drives      map[string]Drive `koanf:"drives" yaml:"drives,omitempty"`
}

// Drive is a named mount configured by the user.
type Drive struct {
	// Root scopes the drive to one owner.
	Root string `koanf:"root" yaml:"root"`
	// TokenEnv names the environment variable holding the drive's token.
	TokenEnv string `koanf:"token_env" yaml:"token_env,omitempty"`
	// Description is shown by the drive command.
	Description string `koanf:"description" yaml:"description,omitempty"`
}

// Token resolves the drive's token from its environment variable.
func (d Drive) Token() string {
	if d.TokenEnv == "" {
		return ""
	}
	return os.Getenv(d.TokenEnv)
}

// Defaults returns the built-in settings.
func Defaults() Config {
	return Config{
		LogLevel:    "info",
		APIURL:      "https://api.github.com/",
		ClientID:    "Iv23liqX6f3ynRFszwKd",
		CacheTTL:    30 * time.Second,
		CacheOwners: 64,
		RateLimit:   10,
		RateBurst:   5,
		ReadCount:   0,
	}
}

// Path returns the path to the default config file.
func Path() (string, error) {
	dir, err := xdg.ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, FileName), nil
}

// Load reads configuration from file, or from the default path when file is
// empty; a missing file yields the defaults plus environment overrides.
func Load(file string) (Config, error) {
	if file == "" {
		p, err := Path()
		if err != nil {
			return Defaults(), err
		}
		file = p
	}

	k := koanf.New(".")
	data, err := readFile(file)
	if err != nil {
		return Defaults(), err
	}
	if data != nil {
		if err := k.Load(rawbytes.Provider(data), yaml.Parser()); err != nil {
			return Defaults(), fmt.Errorf("failed to load config file %s: %w", file, err)
		}
	}

	// GISTHUB_CACHE_TTL -> cache_ttl
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil); err != nil {
		return Defaults(), fmt.Errorf("failed to load environment variables: %w", err)
	}

	c := Defaults()
	if err := k.Unmarshal("", &c); err != nil {
		return Defaults(), fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return c, err
	}
	return c, nil
}

// Validate rejects settings the client cannot run with.
func (c Config) Validate() error {
	var errs []error
	if c.CacheTTL < 0 {
		errs = append(errs, fmt.Errorf("cache_ttl must not be negative"))
	}
	if c.CacheOwners < 0 {
		errs = append(errs, fmt.Errorf("cache_owners must not be negative"))
	}
	if c.RateLimit < 0 || c.RateBurst < 0 {
		errs = append(errs, fmt.Errorf("rate_limit and rate_burst must not be negative"))
	}
	if c.ReadCount < 0 {
		errs = append(errs, fmt.Errorf("read_count must not be negative"))
	}
	for name, d := range c.Drives {
		if strings.ContainsAny(name, ":/\\") || name == "" {
			errs = append(errs, fmt.Errorf("drive name %q must not be empty or contain ':', '/' or '\\'", name))
		}
		if strings.Contains(d.Root, "/") {
			errs = append(errs, fmt.Errorf("drive %q: root must be a single owner", name))
		}
	}
	return errors.Join(errs...)
}

// Save writes configuration with 0600 permissions to file, or to the default
// path when file is empty.
func Save(file string, c Config) error {
	if file == "" {
		p, err := Path()
		if err != nil {
			return err
		}
		file = p
	}
	b, err := yamlv3.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(file, b, 0o600)
}

func readFile(file string) ([]byte, error) {
	f, err := os.Open(file)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxConfigFileSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if len(data) > maxConfigFileSize {
		return nil, fmt.Errorf("config file %s is larger than %d bytes", file, maxConfigFileSize)
	}
	return data, nil
}
