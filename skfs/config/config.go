package config

import (
	"fmt"
	"path/filepath"
	"strings"

	internal "github.com/spreadkit/sheetkeeper/skfs"

	"github.com/spf13/viper"
)

// Config stores all configuration of the application.
// The values are read by viper from a config file or environment variables.
type Config struct {
	SheetKeeper SheetKeeperConfig `mapstructure:"sheetkeeper"`
}

// SheetKeeperConfig stores sheetkeeper specific configurations.
type SheetKeeperConfig struct {
	BaseDir                string `mapstructure:"baseDir"`
	BackupDirName          string `mapstructure:"backupDirName"`
	DefaultCriterion       string `mapstructure:"defaultCriterion"`
	OrganizeTimeoutMinutes int    `mapstructure:"organizeTimeoutMinutes"`
	LogLevel               string `mapstructure:"logLevel"`
}

var AppConfig Config

// LoadConfig reads configuration from file or environment variables.
func LoadConfig(configPath string) (*Config, error) {
	if configPath != "" {
		viper.SetConfigFile(configPath)
	} else {
		viper.AddConfigPath(".")
		viper.AddConfigPath(filepath.Join("etc", internal.DefaultAppName))
		viper.AddConfigPath(internal.DefaultConfigPath)
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	// Set default values
	viper.SetDefault("sheetkeeper.baseDir", internal.DefaultBaseDir)
	viper.SetDefault("sheetkeeper.backupDirName", internal.DefaultBackupDirName)
	viper.SetDefault("sheetkeeper.defaultCriterion", "name")
	viper.SetDefault("sheetkeeper.organizeTimeoutMinutes", 10)
	viper.SetDefault("sheetkeeper.logLevel", "info")

	viper.AutomaticEnv()                                   // Read in environment variables that match
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_")) // e.g. sheetkeeper.baseDir becomes SHEETKEEPER_BASEDIR

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// Config file not found; defaults will be used. Not an error worth halting on.
		} else {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	err := viper.Unmarshal(&AppConfig)
	if err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}

	return &AppConfig, nil
}
