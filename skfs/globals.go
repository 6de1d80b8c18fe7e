package internal

import (
	"log"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

var (
	// DefaultAppName is the canonical application name used for paths and config lookup
	DefaultAppName        = "sheetkeeper"
	DefaultConfigPath     = filepath.Join(getHomeDir(), ".config", DefaultAppName)
	DefaultBaseDir        = filepath.Join(getHomeDir(), DefaultAppName)
	DefaultGlobalConfig   = filepath.Join(DefaultConfigPath, "config.yaml")
	DefaultIgnoreFileName = "." + DefaultAppName + "-ignore"

	// Default backup settings
	DefaultBackupDirName = "backups"

	// Spreadsheet extensions recognized by the organize operation.
	// Matching is case-sensitive; both lists are consulted independently.
	SpreadsheetExtensions = []string{".xlsx", ".xls"}
)

func getHomeDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current working directory if home directory is unavailable
		cwd, cwdErr := os.Getwd()
		if cwdErr != nil {
			// Last resort - use tmp directory
			log.Printf("Unable to get home or working directory, using /tmp: %v", err)
			return "/tmp"
		}
		log.Printf("Unable to get home directory, using current working directory: %v", err)
		return cwd
	}
	return homeDir
}

// GetLogger returns a properly configured zerolog logger instance
func GetLogger() zerolog.Logger {
	return zerolog.New(os.Stderr).With().Timestamp().Logger()
}
