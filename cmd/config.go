/*
 * Copyright 2025 QSPy contributors
 * SPDX-License-Identifier: MPL-2.0
 */

// Package cmd implements the qspy CLI commands.
package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

const defaultConfigPath = "~/.config/qspy/config.toml"

// Config carries service credentials the CLI falls back to when a flag
// or environment variable is unset.
type Config struct {
	LoTW struct {
		Username string `toml:"username"`
		Password string `toml:"password"`
	} `toml:"lotw"`
	EQSL struct {
		Username    string `toml:"username"`
		Password    string `toml:"password"`
		QTHNickname string `toml:"qth_nickname"`
	} `toml:"eqsl"`
	QRZ struct {
		APIKey   string `toml:"api_key"`
		Username string `toml:"username"`
		Password string `toml:"password"`
	} `toml:"qrz"`
	ClubLog struct {
		Email    string `toml:"email"`
		Callsign string `toml:"callsign"`
		Password string `toml:"password"`
	} `toml:"clublog"`
}

// loadConfig parses the credentials file, returning an empty config
// when the file does not exist.
func loadConfig(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Config{}, nil
		}

		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	raw, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	return cfg, nil
}

func resolvePath(path string) (string, error) {
	if path == "" {
		path = defaultConfigPath
	}

	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}

		return filepath.Join(home, path[2:]), nil
	}

	return path, nil
}

// firstNonEmpty returns the first value that is not blank.
func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			return value
		}
	}

	return ""
}
