package config

import (
	"errors"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
)

// ConfigPath loads an optional .env file into the environment and returns
// CONFIG_PATH, falling back to config.yaml.
func ConfigPath() (string, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return "", err
	}
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		return p, nil
	}
	return "config.yaml", nil
}
