// Package config provides configuration management for hwinv.
//
// Configuration is layered with koanf v2, later layers overriding earlier
// ones:
//
//  1. built-in defaults
//  2. a YAML file: the --config path, or /etc/hwinv/config.yaml if it exists
//  3. environment variables with the HWINV_ prefix (HWINV_LOG_LEVEL,
//     HWINV_PUBLISH_NATS_SERVERS, ...)
//  4. command-line flags that were set explicitly
//
// The file may contain the NATS seed and the HTTP API key, so it should be
// readable by root only (0600).
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// DefaultConfigPath is read when no --config is given and the file exists.
const DefaultConfigPath = "/etc/hwinv/config.yaml"

// EnvPrefix prefixes every environment override.
const EnvPrefix = "HWINV_"

// Config holds the hwinv configuration.
type Config struct {
	// LogLevel controls the verbosity of logging.
	// Valid values: "debug", "info", "warn", "error". Default: "warn".
	LogLevel string `koanf:"log_level" yaml:"log_level"`

	// Root is the filesystem root the Linux and FreeBSD layers read from.
	// Default: "/".
	Root string `koanf:"root" yaml:"root"`

	GHW     GHWConfig     `koanf:"ghw" yaml:"ghw"`
	CPU     CPUConfig     `koanf:"cpu" yaml:"cpu"`
	Network NetworkConfig `koanf:"network" yaml:"network"`
	USB     USBConfig     `koanf:"usb" yaml:"usb"`
	Output  OutputConfig  `koanf:"output" yaml:"output"`
	Publish PublishConfig `koanf:"publish" yaml:"publish"`
}

type GHWConfig struct {
	// Enabled turns on the ghw overlays on Linux. Default: true.
	Enabled bool `koanf:"enabled" yaml:"enabled"`
}

type CPUConfig struct {
	// LoadSample is the window CPU load is measured over in reports.
	// Zero skips the measurement.
	LoadSample time.Duration `koanf:"load_sample" yaml:"load_sample"`
}

type NetworkConfig struct {
	// IncludeLocal keeps loopback and virtual interfaces.
	IncludeLocal bool `koanf:"include_local" yaml:"include_local"`
}

type USBConfig struct {
	// Tree nests devices under their hubs.
	Tree bool `koanf:"tree" yaml:"tree"`
}

type OutputConfig struct {
	// Format is one of table, json, yaml, cbor. Default: "table".
	Format string `koanf:"format" yaml:"format"`
	// File receives the report instead of stdout when set.
	File string `koanf:"file" yaml:"file"`
}

type PublishConfig struct {
	NATS NATSConfig `koanf:"nats" yaml:"nats"`
	HTTP HTTPConfig `koanf:"http" yaml:"http"`
}

type NATSConfig struct {
	// Servers is a comma-separated list of NATS server URLs.
	Servers string `koanf:"servers" yaml:"servers"`
	// NKeySeed is the user NKey seed used to authenticate.
	NKeySeed string `koanf:"nkey_seed" yaml:"nkey_seed"`
	// TenantID routes the report subject.
	TenantID string `koanf:"tenant_id" yaml:"tenant_id"`
	// JetStream waits for a stream acknowledgement.
	JetStream bool `koanf:"jetstream" yaml:"jetstream"`
}

type HTTPConfig struct {
	// ServerURL is the base URL of the collection server.
	ServerURL string `koanf:"server_url" yaml:"server_url"`
	// APIKey is sent as a bearer token.
	APIKey string `koanf:"api_key" yaml:"api_key"`
}

// Validation errors returned by Load and Validate.
var (
	ErrInvalidLogLevel = errors.New("log_level must be one of debug, info, warn, error")
	ErrInvalidFormat   = errors.New("output.format must be one of table, json, yaml, cbor")
	ErrIncompleteNATS  = errors.New("publish.nats needs servers, nkey_seed and tenant_id together")
	ErrIncompleteHTTP  = errors.New("publish.http.api_key needs publish.http.server_url")
	ErrInvalidSample   = errors.New("cpu.load_sample must not be negative")
)

// Formats accepted by output.format.
var Formats = []string{"table", "json", "yaml", "cbor"}

var logLevels = []string{"debug", "info", "warn", "warning", "error"}

// Keys lists every configuration key.
var Keys = []string{
	"log_level",
	"root",
	"ghw.enabled",
	"cpu.load_sample",
	"network.include_local",
	"usb.tree",
	"output.format",
	"output.file",
	"publish.nats.servers",
	"publish.nats.nkey_seed",
	"publish.nats.tenant_id",
	"publish.nats.jetstream",
	"publish.http.server_url",
	"publish.http.api_key",
}

var defaults = map[string]any{
	"log_level":     "warn",
	"root":          "/",
	"ghw.enabled":   true,
	"output.format": "table",
}

// Flags maps command-line flag names to configuration keys. Flags not
// listed are ignored by Load.
var Flags = map[string]string{
	"log-level":   "log_level",
	"root":        "root",
	"ghw":         "ghw.enabled",
	"load-sample": "cpu.load_sample",
	"local":       "network.include_local",
	"tree":        "usb.tree",
	"format":      "output.format",
	"output":      "output.file",
}

// Load builds the configuration. path is the --config value; when empty,
// DefaultConfigPath is used if it exists. flags may be nil.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	for key, value := range defaults {
		if err := k.Set(key, value); err != nil {
			return nil, fmt.Errorf("failed to set default %s: %w", key, err)
		}
	}

	if path == "" {
		if _, err := os.Stat(DefaultConfigPath); err == nil {
			path = DefaultConfigPath
		} else if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to stat %s: %w", DefaultConfigPath, err)
		}
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment: %w", err)
	}

	if flags != nil {
		provider := posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, any) {
			key, ok := Flags[f.Name]
			if !ok {
				return "", nil
			}
			return key, posflag.FlagVal(flags, f)
		})
		if err := k.Load(provider, nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// envKeys maps the underscore form of every key back to the key, so that
// HWINV_PUBLISH_NATS_TENANT_ID finds publish.nats.tenant_id.
var envKeys = func() map[string]string {
	m := make(map[string]string, len(Keys))
	for _, key := range Keys {
		m[strings.ReplaceAll(key, ".", "_")] = key
	}
	return m
}()

func envKey(s string) string {
	name := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	if key, ok := envKeys[name]; ok {
		return key
	}
	return strings.ReplaceAll(name, "_", ".")
}

// Validate checks enumerations and that publish settings are complete.
func (c *Config) Validate() error {
	if !slices.Contains(logLevels, strings.ToLower(strings.TrimSpace(c.LogLevel))) {
		return fmt.Errorf("%w: %q", ErrInvalidLogLevel, c.LogLevel)
	}
	if !slices.Contains(Formats, strings.ToLower(c.Output.Format)) {
		return fmt.Errorf("%w: %q", ErrInvalidFormat, c.Output.Format)
	}
	if c.CPU.LoadSample < 0 {
		return ErrInvalidSample
	}
	n := c.Publish.NATS
	set := 0
	for _, v := range []string{n.Servers, n.NKeySeed, n.TenantID} {
		if v != "" {
			set++
		}
	}
	if set != 0 && set != 3 {
		return ErrIncompleteNATS
	}
	if c.Publish.HTTP.APIKey != "" && c.Publish.HTTP.ServerURL == "" {
		return ErrIncompleteHTTP
	}
	return nil
}

// NATSEnabled returns true if NATS configuration is present.
func (c *Config) NATSEnabled() bool {
	return c.Publish.NATS.Servers != "" && c.Publish.NATS.NKeySeed != "" && c.Publish.NATS.TenantID != ""
}

// HTTPEnabled returns true if an HTTP server URL is configured.
func (c *Config) HTTPEnabled() bool {
	return c.Publish.HTTP.ServerURL != ""
}
