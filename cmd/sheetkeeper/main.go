// Command sheetkeeper demonstrates the file manager: it builds a sample
// project structure under the base folder and, when asked, backs up or
// organizes a folder of spreadsheet files.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	internal "github.com/spreadkit/sheetkeeper/skfs"
	"github.com/spreadkit/sheetkeeper/skfs/config"
	"github.com/spreadkit/sheetkeeper/skfs/filesystem"
	"github.com/spreadkit/sheetkeeper/skfs/filesystem/options"
)

var (
	configPath string
	baseDir    string
	backupPath string
	organize   string
	criterion  string
	listDir    string
	listExt    string
)

func init() {
	flag.StringVar(&configPath, "config", "", "Path to config file")
	flag.StringVar(&baseDir, "base", "", "Base folder (overrides config)")
	flag.StringVar(&backupPath, "backup", "", "File to back up into <base>/backups")
	flag.StringVar(&organize, "organize", "", "Folder whose spreadsheet files should be organized")
	flag.StringVar(&criterion, "by", "", "Organize criterion: date, size or name")
	flag.StringVar(&listDir, "list", "", "Folder to list files in")
	flag.StringVar(&listExt, "ext", "", "Extension filter for -list (e.g. .xlsx)")
}

var projectFolders = []string{
	"data/raw",
	"data/processed",
	"data/backup",
	"reports",
	"templates",
	"logs",
}

func main() {
	flag.Parse()

	zlog := internal.GetLogger()

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		zlog.Fatal().Err(err).Msg("failed to load config")
	}

	base := cfg.SheetKeeper.BaseDir
	if baseDir != "" {
		base = baseDir
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.SheetKeeper.LogLevel),
	}))

	mgr, err := filesystem.New(base, logger)
	if err != nil {
		zlog.Fatal().Err(err).Str("base", base).Msg("failed to initialize file manager")
	}

	ctx := context.Background()

	if res := mgr.CreateProjectStructure(ctx, projectFolders); !res.OK {
		zlog.Error().Str("kind", string(res.Kind)).Str("path", res.Path).Msg("project structure incomplete")
	}

	if listDir != "" {
		files := mgr.ListFiles(ctx, listDir, listExt)
		for _, f := range files {
			fmt.Println(f)
		}
	}

	if backupPath != "" {
		dst, res := mgr.BackupFile(ctx, backupPath, "")
		if !res.OK {
			zlog.Error().Str("kind", string(res.Kind)).Str("path", backupPath).Msg("backup failed")
			os.Exit(1)
		}
		fmt.Printf("Backup created at: %s\n", dst)
	}

	if organize != "" {
		by := criterion
		if by == "" {
			by = cfg.SheetKeeper.DefaultCriterion
		}
		organizeCtx := ctx
		if cfg.SheetKeeper.OrganizeTimeoutMinutes > 0 {
			var cancel context.CancelFunc
			organizeCtx, cancel = context.WithTimeout(ctx, time.Duration(cfg.SheetKeeper.OrganizeTimeoutMinutes)*time.Minute)
			defer cancel()
		}
		result, err := mgr.OrganizeDetailed(organizeCtx, organize, options.ParseCriterion(by))
		if err != nil {
			zlog.Fatal().Err(err).Str("folder", organize).Msg("organize failed")
		}
		fmt.Printf("Organized %d files (%d failed, %d skipped) in %s\n",
			len(result.ProcessedFiles), result.FailedFiles, result.SkippedFiles, result.Duration)
		if !result.Success {
			os.Exit(1)
		}
	}
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
