package utils

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"github.com/kelsos/junction/internal/logger"
)

// LoadEnvironment loads JUNCTION_* variables from .env files in the working
// directory and next to the executable. Variables already set win.
func LoadEnvironment() []string {
	var loaded []string

	candidates := []string{".env"}
	if execPath, err := os.Executable(); err == nil {
		candidates = append(candidates, filepath.Join(filepath.Dir(execPath), ".env"))
	} else {
		logger.Info("Could not determine executable path: %v", err)
	}

	for _, path := range candidates {
		if err := godotenv.Load(path); err != nil {
			logger.Debug("No .env file loaded from %s: %v", path, err)
			continue
		}
		logger.Info("Loaded .env file: %s", path)
		loaded = append(loaded, path)
	}
	return loaded
}
