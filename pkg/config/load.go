package config

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Load reads, parses, applies environment overrides, normalizes, and
// validates a config file. An empty path starts from defaults.
func Load(path string) (Config, error) {
	var cfg Config
	if strings.TrimSpace(path) != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		cfg, err = Parse(data)
		if err != nil {
			return Config{}, err
		}
	}
	if err := ApplyEnv(&cfg, os.LookupEnv); err != nil {
		return Config{}, err
	}
	Normalize(&cfg)
	if err := Validate(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Parse decodes a single YAML document, rejecting unknown fields.
func Parse(data []byte) (Config, error) {
	var cfg Config
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		if err == io.EOF {
			return Config{}, nil
		}
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := decoder.Decode(&struct{}{}); err != io.EOF {
		if err == nil {
			return Config{}, fmt.Errorf("parse config: multiple YAML documents are not supported")
		}
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// ApplyEnv overlays environment variables on cfg. Set variables win over the file.
func ApplyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	get := func(key string) (string, bool) {
		v, ok := lookup(key)
		v = strings.TrimSpace(v)
		return v, ok && v != ""
	}

	if v, ok := get("OLLAMA_HOST"); ok {
		cfg.Model.Host = v
	}
	if v, ok := get("CURLING_PROVIDER"); ok {
		cfg.Model.Provider = v
	}
	if v, ok := get("CURLING_MODEL"); ok {
		cfg.Model.Name = v
	}
	if v, ok := get("CURLING_TEMPERATURE"); ok {
		temp, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("CURLING_TEMPERATURE: %w", err)
		}
		cfg.Model.Temperature = &temp
	}
	if v, ok := get("CURLING_SEARCH_PROVIDER"); ok {
		cfg.Search.Provider = v
	}
	if v, ok := get("CURLING_MAX_ITERATIONS"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("CURLING_MAX_ITERATIONS: %w", err)
		}
		cfg.Agent.MaxIterations = n
	}
	return nil
}
