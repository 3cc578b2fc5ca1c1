// Copyright 2025 Mulga Defense Corporation (MDC). All rights reserved.
// Use of this source code is governed by an Apache 2.0 license
// that can be found in the LICENSE file.

// Package config loads arenawire settings from a TOML file.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/mulgadc/arenawire/arena"
	"github.com/mulgadc/arenawire/store"
	"github.com/mulgadc/arenawire/store/backends/file"
	"github.com/mulgadc/arenawire/store/backends/memory"
	"github.com/mulgadc/arenawire/store/backends/s3"
	"github.com/pelletier/go-toml/v2"
)

const (
	DefaultArenaCapacity = 64 * 1024
	DefaultNamespace     = "default"
	DefaultBackend       = "memory"
)

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	Arena ArenaConfig `toml:"arena"`
	Store StoreConfig `toml:"store"`
}

type ArenaConfig struct {
	Capacity    int `toml:"capacity"`
	StringCache int `toml:"string_cache"`
}

type StoreConfig struct {
	Backend   string `toml:"backend"`
	Namespace string `toml:"namespace"`
	CacheSize int    `toml:"cache_size"`

	File FileConfig `toml:"file"`
	S3   S3Config   `toml:"s3"`
}

type FileConfig struct {
	BaseDir string `toml:"base_dir"`
}

type S3Config struct {
	Host      string `toml:"host"`
	Region    string `toml:"region"`
	Bucket    string `toml:"bucket"`
	AccessKey string `toml:"access_key"`
	SecretKey string `toml:"secret_key"`
}

func Default() Config {
	return Config{
		Arena: ArenaConfig{
			Capacity:    DefaultArenaCapacity,
			StringCache: arena.DefaultStringCacheSize,
		},
		Store: StoreConfig{
			Backend:   DefaultBackend,
			Namespace: DefaultNamespace,
			CacheSize: store.DefaultCacheSize,
		},
	}
}

// Load reads path over the defaults. Keys missing from the file keep their
// default value; unknown keys are rejected.
func Load(path string) (Config, error) {
	cfg := Default()

	f, err := os.Open(path)
	if err != nil {
		return cfg, err
	}
	defer f.Close()

	dec := toml.NewDecoder(f)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			row, col := derr.Position()
			return cfg, fmt.Errorf("%s:%d:%d: %w", path, row, col, err)
		}
		return cfg, fmt.Errorf("%s: %w", path, err)
	}

	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	if c.Arena.Capacity <= arena.RootSize {
		return fmt.Errorf("arena.capacity %d must exceed %d: %w", c.Arena.Capacity, arena.RootSize, ErrInvalidConfig)
	}
	if c.Arena.StringCache < 0 {
		return fmt.Errorf("arena.string_cache %d is negative: %w", c.Arena.StringCache, ErrInvalidConfig)
	}
	if c.Store.CacheSize <= 0 {
		return fmt.Errorf("store.cache_size %d must be positive: %w", c.Store.CacheSize, ErrInvalidConfig)
	}
	if c.Store.Namespace == "" {
		return fmt.Errorf("store.namespace is empty: %w", ErrInvalidConfig)
	}

	switch c.Store.Backend {
	case "memory":
	case "file":
		if c.Store.File.BaseDir == "" {
			return fmt.Errorf("store.file.base_dir is required for the file backend: %w", ErrInvalidConfig)
		}
	case "s3":
		if c.Store.S3.Host == "" || c.Store.S3.Bucket == "" {
			return fmt.Errorf("store.s3.host and store.s3.bucket are required for the s3 backend: %w", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("store.backend %q: %w", c.Store.Backend, ErrInvalidConfig)
	}

	return nil
}

// BackendConfig returns the config struct of the selected backend package,
// ready for backends.New.
func (c Config) BackendConfig() any {
	switch c.Store.Backend {
	case "file":
		return file.FileConfig{BaseDir: c.Store.File.BaseDir, Namespace: c.Store.Namespace}
	case "s3":
		return s3.S3Config{
			Namespace: c.Store.Namespace,
			Host:      c.Store.S3.Host,
			Region:    c.Store.S3.Region,
			Bucket:    c.Store.S3.Bucket,
			AccessKey: c.Store.S3.AccessKey,
			SecretKey: c.Store.S3.SecretKey,
		}
	default:
		return memory.MemoryConfig{Namespace: c.Store.Namespace}
	}
}

// Encode renders c as TOML.
func (c Config) Encode() ([]byte, error) {
	return toml.Marshal(c)
}
