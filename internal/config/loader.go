package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type loadOptions struct {
	dotenv   string
	validate bool
}

// LoadOption customizes Load.
type LoadOption func(*loadOptions)

// WithDotEnv reads environment variables from path instead of ./.env.
// An empty path disables .env loading.
func WithDotEnv(path string) LoadOption {
	return func(o *loadOptions) {
		o.dotenv = path
	}
}

// WithoutValidation skips Validate. cmd/migrate uses it since it only
// needs the history section.
func WithoutValidation() LoadOption {
	return func(o *loadOptions) {
		o.validate = false
	}
}

// Load reads the YAML config at path, applies defaults and validates it.
// Variables from the .env file are loaded first, without overriding ones
// already set, so ${VAR} placeholders can refer to them.
func Load(path string, opts ...LoadOption) (*Config, error) {
	o := loadOptions{dotenv: ".env", validate: true}
	for _, opt := range opts {
		opt(&o)
	}

	if o.dotenv != "" {
		if err := godotenv.Load(o.dotenv); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", o.dotenv, err)
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	if o.validate {
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("validate config: %w", err)
		}
	}
	return cfg, nil
}

// Parse expands ${VAR} placeholders in data, decodes it and applies
// defaults. Unknown keys are rejected so a misspelled section does not
// silently fall back to its defaults. An empty document yields the defaults.
func Parse(data []byte) (*Config, error) {
	expanded := os.ExpandEnv(string(data))

	dec := yaml.NewDecoder(bytes.NewReader([]byte(expanded)))
	dec.KnownFields(true)

	var cfg Config
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse config yaml: %w", err)
	}

	cfg.applyDefaults()
	return &cfg, nil
}
