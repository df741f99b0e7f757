// Package config loads rdfkit configuration.
//
// Sources are applied in order, later wins: built-in defaults, a YAML file
// checked against the embedded CUE schema, then RDFKIT_* environment
// variables.
package config

import (
	_ "embed"
	"fmt"
	"os"
	"strconv"
	"time"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"gopkg.in/yaml.v3"
)

//go:embed schema.cue
var schemaSource string

// Default timeout values in milliseconds.
const (
	DefaultConnectTimeoutMS = 5000
	DefaultReadTimeoutMS    = 30000
)

// Environment variables read by ApplyEnv.
const (
	EnvRoot           = "RDFKIT_ROOT"
	EnvConnectTimeout = "RDFKIT_CONNECT_TIMEOUT_MS"
	EnvReadTimeout    = "RDFKIT_READ_TIMEOUT_MS"
	EnvMaxSolutions   = "RDFKIT_MAX_SOLUTIONS"
	EnvS3Endpoint     = "RDFKIT_S3_ENDPOINT"
	EnvS3AccessKey    = "RDFKIT_S3_ACCESS_KEY"
	EnvS3SecretKey    = "RDFKIT_S3_SECRET_KEY"
	EnvS3Region       = "RDFKIT_S3_REGION"
	EnvS3SSL          = "RDFKIT_S3_SSL"
)

// Config is the rdfkit configuration.
type Config struct {
	// Root is the directory relative import paths resolve against.
	Root string `yaml:"root"`

	Timeouts    Timeouts    `yaml:"timeouts"`
	Query       Query       `yaml:"query"`
	ObjectStore ObjectStore `yaml:"object_store"`

	// Prefixes are declared on every store the manager creates.
	Prefixes map[string]string `yaml:"prefixes"`
}

// Timeouts bounds network calls, in milliseconds.
type Timeouts struct {
	ConnectMS int `yaml:"connect_ms"`
	ReadMS    int `yaml:"read_ms"`
}

// Connect returns the connect timeout.
func (t Timeouts) Connect() time.Duration {
	return time.Duration(t.ConnectMS) * time.Millisecond
}

// Read returns the read timeout.
func (t Timeouts) Read() time.Duration {
	return time.Duration(t.ReadMS) * time.Millisecond
}

// Query configures local query execution.
type Query struct {
	// MaxSolutions caps the rows of one query. Zero is unbounded.
	MaxSolutions int `yaml:"max_solutions"`
}

// ObjectStore holds S3-compatible object store settings.
type ObjectStore struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	Region    string `yaml:"region"`
	UseSSL    bool   `yaml:"use_ssl"`
}

// Enabled reports whether an endpoint is configured.
func (o ObjectStore) Enabled() bool {
	return o.Endpoint != ""
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Root: ".",
		Timeouts: Timeouts{
			ConnectMS: DefaultConnectTimeoutMS,
			ReadMS:    DefaultReadTimeoutMS,
		},
		Prefixes: map[string]string{},
	}
}

// Load builds the configuration from defaults, the YAML file at path (if
// path is not empty) and the process environment.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := cfg.decodeYAML(data); err != nil {
			return nil, fmt.Errorf("config %s: %w", path, err)
		}
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse decodes YAML over the defaults without consulting the environment.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := cfg.decodeYAML(data); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) decodeYAML(data []byte) error {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("parse yaml: %w", err)
	}
	if raw == nil {
		return nil
	}
	if err := checkSchema(raw); err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("decode yaml: %w", err)
	}
	if c.Prefixes == nil {
		c.Prefixes = map[string]string{}
	}
	return nil
}

// checkSchema unifies raw with the #Config definition.
func checkSchema(raw map[string]any) error {
	ctx := cuecontext.New()
	schema := ctx.CompileString(schemaSource, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return fmt.Errorf("compile config schema: %w", err)
	}
	def := schema.LookupPath(cue.ParsePath("#Config"))
	v := def.Unify(ctx.Encode(raw))
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return fmt.Errorf("schema: %w", err)
	}
	return nil
}

// LookupFunc reads one environment variable.
type LookupFunc func(key string) (string, bool)

// ApplyEnv overrides fields from RDFKIT_* variables.
func (c *Config) ApplyEnv(lookup LookupFunc) error {
	if v, ok := lookup(EnvRoot); ok && v != "" {
		c.Root = v
	}
	ints := []struct {
		key string
		dst *int
	}{
		{EnvConnectTimeout, &c.Timeouts.ConnectMS},
		{EnvReadTimeout, &c.Timeouts.ReadMS},
		{EnvMaxSolutions, &c.Query.MaxSolutions},
	}
	for _, f := range ints {
		v, ok := lookup(f.key)
		if !ok || v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %q is not an integer", f.key, v)
		}
		*f.dst = n
	}
	strs := []struct {
		key string
		dst *string
	}{
		{EnvS3Endpoint, &c.ObjectStore.Endpoint},
		{EnvS3AccessKey, &c.ObjectStore.AccessKey},
		{EnvS3SecretKey, &c.ObjectStore.SecretKey},
		{EnvS3Region, &c.ObjectStore.Region},
	}
	for _, f := range strs {
		if v, ok := lookup(f.key); ok && v != "" {
			*f.dst = v
		}
	}
	if v, ok := lookup(EnvS3SSL); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s: %q is not a boolean", EnvS3SSL, v)
		}
		c.ObjectStore.UseSSL = b
	}
	return nil
}

// Validate checks the merged configuration.
func (c *Config) Validate() error {
	if c.Timeouts.ConnectMS <= 0 {
		return fmt.Errorf("connect timeout must be positive, got %d", c.Timeouts.ConnectMS)
	}
	if c.Timeouts.ReadMS <= 0 {
		return fmt.Errorf("read timeout must be positive, got %d", c.Timeouts.ReadMS)
	}
	if c.Query.MaxSolutions < 0 {
		return fmt.Errorf("max solutions must not be negative, got %d", c.Query.MaxSolutions)
	}
	return nil
}
