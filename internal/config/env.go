package config

import (
	"errors"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
)

// Environment variables that override the config file.
const (
	EnvDBPath   = "STUDYPLAN_DB"
	EnvLogLevel = "STUDYPLAN_LOG_LEVEL"
	EnvLogPath  = "STUDYPLAN_LOG"
)

// LoadDotEnv loads variables from a .env file without overriding ones already
// set. A missing file is not an error.
func LoadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}
	return nil
}

// ApplyEnv overlays environment variables onto cfg.
func ApplyEnv(cfg *FileConfig) {
	if v := os.Getenv(EnvDBPath); v != "" {
		cfg.Store.Path = &v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.Log.Level = &v
	}
	if v := os.Getenv(EnvLogPath); v != "" {
		cfg.Log.Path = &v
	}
}
