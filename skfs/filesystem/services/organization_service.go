package services

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
	ignore "github.com/sabhiram/go-gitignore"

	internal "github.com/spreadkit/sheetkeeper/skfs"
	"github.com/spreadkit/sheetkeeper/skfs/filesystem/common"
	"github.com/spreadkit/sheetkeeper/skfs/filesystem/interfaces"
	"github.com/spreadkit/sheetkeeper/skfs/filesystem/options"
	"github.com/spreadkit/sheetkeeper/skfs/filesystem/types"
)

// Size bucket thresholds. Comparisons are strict less-than, so a file of
// exactly 1 MiB is medium and exactly 10 MiB is large.
const (
	sizeSmallLimit  = 1 << 20  // 1 MiB
	sizeMediumLimit = 10 << 20 // 10 MiB
)

// Destination folder names per criterion, nested under the source folder.
const (
	dateFolderPrefix = "organized_by_date"
	sizeFolderPrefix = "organized_by_size"
	nameFolderPrefix = "organized_by_name"
)

// IgnoreChecker reports whether a file should be excluded from organization.
type IgnoreChecker interface {
	MatchesPath(path string) bool
}

// OrganizationService buckets a folder's spreadsheet files into subfolders
// by date, size or name. Processing is a single linear pass over the files
// enumerated once at the start; there are no retries and no resumption
// state, so re-running after a partial failure is safe (already-moved files
// are no longer at the source folder's top level).
type OrganizationService struct {
	fileOps interfaces.FileOperations
	logger  *slog.Logger
}

// NewOrganizationService creates a new organization service
func NewOrganizationService(fileOps interfaces.FileOperations, logger *slog.Logger) *OrganizationService {
	if logger == nil {
		logger = slog.Default()
	}
	return &OrganizationService{fileOps: fileOps, logger: logger}
}

// OrganizeFiles buckets the spreadsheet files directly inside sourceDir.
// A failure to move one file is logged and counted but does not abort the
// pass; the result reports Success=false when any file failed.
func (ors *OrganizationService) OrganizeFiles(ctx context.Context, sourceDir string, opts options.OrganizeOptions) (*types.OrganizeResult, error) {
	start := time.Now()

	ors.logger.Info("Starting organization",
		"source", sourceDir,
		"criterion", string(opts.Criterion),
		"dryRun", opts.DryRun)

	result := &types.OrganizeResult{
		RunID:          uuid.NewString(),
		SourcePath:     sourceDir,
		Criterion:      string(opts.Criterion),
		StartTime:      start,
		DryRun:         opts.DryRun,
		ProcessedFiles: make([]types.FileOperation, 0),
	}

	if err := common.ValidateDirectoryExists(sourceDir); err != nil {
		return nil, err
	}

	entries, err := ors.enumerateSpreadsheets(ctx, sourceDir)
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate spreadsheet files in %s: %w", sourceDir, err)
	}

	checker := ors.loadIgnoreFile(sourceDir, opts.IgnoreFileName)

	var moveErrs *multierror.Error
	for _, entry := range entries {
		if err := common.ValidateContextCancellation(ctx); err != nil {
			return nil, err
		}

		if checker != nil && checker.MatchesPath(entry.Name) {
			ors.logger.Debug("Skipping ignored file", "path", entry.Path)
			result.SkippedFiles++
			result.ProcessedFiles = append(result.ProcessedFiles, types.FileOperation{
				Type:       types.FileOpSkip,
				SourcePath: entry.Path,
				Timestamp:  time.Now(),
				Success:    true,
				DryRun:     opts.DryRun,
			})
			continue
		}

		bucket := ors.DetermineBucket(entry, opts.Criterion)
		targetDir := filepath.Join(sourceDir, bucket)
		targetPath := filepath.Join(targetDir, entry.Name)

		operation := types.FileOperation{
			Type:       types.FileOpMove,
			SourcePath: entry.Path,
			TargetPath: targetPath,
			Bucket:     bucket,
			Timestamp:  time.Now(),
			DryRun:     opts.DryRun,
		}

		if err := ors.moveIntoBucket(ctx, entry.Path, targetDir, targetPath, opts); err != nil {
			ors.logger.Error("Failed to organize file", "path", entry.Path, "target", targetPath, "error", err)
			operation.Success = false
			operation.Error = err.Error()
			result.FailedFiles++
			moveErrs = multierror.Append(moveErrs, fmt.Errorf("%s: %w", entry.Path, err))
		} else {
			operation.Success = true
		}

		result.ProcessedFiles = append(result.ProcessedFiles, operation)
	}

	result.EndTime = time.Now()
	result.Duration = result.EndTime.Sub(result.StartTime)
	result.Success = result.FailedFiles == 0
	if err := moveErrs.ErrorOrNil(); err != nil {
		result.Error = err.Error()
		// multierror's Unwrap chain lets errors.Is see every wrapped cause,
		// so the kind reflects the most specific classification present.
		result.FailureKind = types.ClassifyError(err)
	}

	ors.logger.Info("Organization completed",
		"duration", result.Duration,
		"processed", len(result.ProcessedFiles),
		"failed", result.FailedFiles,
		"skipped", result.SkippedFiles)

	return result, nil
}

// DetermineBucket maps a file's metadata onto its destination subfolder,
// relative to the source folder.
func (ors *OrganizationService) DetermineBucket(entry types.FileEntry, criterion options.Criterion) string {
	switch criterion {
	case options.ByDate:
		return filepath.Join(dateFolderPrefix, entry.ModifiedAt.Local().Format("2006-01"))
	case options.BySize:
		var bucket string
		switch {
		case entry.Size < sizeSmallLimit:
			bucket = "small"
		case entry.Size < sizeMediumLimit:
			bucket = "medium"
		default:
			bucket = "large"
		}
		return filepath.Join(sizeFolderPrefix, bucket)
	default:
		// Name bucketing is the default for any other criterion value. The
		// first character of the stem is uppercased as-is: a leading digit
		// stays a digit, there is no letter special-casing.
		_, stem, _ := common.SplitPath(entry.Name)
		letter := ""
		if runes := []rune(stem); len(runes) > 0 {
			letter = strings.ToUpper(string(runes[0]))
		}
		return filepath.Join(nameFolderPrefix, letter)
	}
}

// enumerateSpreadsheets lists the recognized spreadsheet files directly
// under sourceDir, one pass per extension, concatenated in order. The two
// result sets are not deduplicated: on a case-insensitive filesystem a file
// matching both filters can appear twice, a known edge carried over from
// the listing contract.
func (ors *OrganizationService) enumerateSpreadsheets(ctx context.Context, sourceDir string) ([]types.FileEntry, error) {
	var entries []types.FileEntry
	for _, ext := range internal.SpreadsheetExtensions {
		found, err := ors.fileOps.ListFiles(ctx, sourceDir, options.ListOptions{Extension: ext})
		if err != nil {
			return nil, err
		}
		entries = append(entries, found...)
	}
	return entries, nil
}

// loadIgnoreFile compiles the ignore file in sourceDir when present.
func (ors *OrganizationService) loadIgnoreFile(sourceDir, ignoreFileName string) IgnoreChecker {
	if ignoreFileName == "" {
		ignoreFileName = internal.DefaultIgnoreFileName
	}
	ignorePath := filepath.Join(sourceDir, ignoreFileName)

	if _, err := os.Stat(ignorePath); err != nil {
		if !os.IsNotExist(err) {
			ors.logger.Warn("Failed to check ignore file", "path", ignorePath, "error", err)
		}
		return nil
	}

	checker, err := ignore.CompileIgnoreFile(ignorePath)
	if err != nil {
		ors.logger.Warn("Failed to compile ignore file", "path", ignorePath, "error", err)
		return nil
	}
	return checker
}

func (ors *OrganizationService) moveIntoBucket(ctx context.Context, srcPath, targetDir, targetPath string, opts options.OrganizeOptions) error {
	if opts.DryRun {
		ors.logger.Info("Dry run: would move file", "src", srcPath, "dst", targetPath)
		return nil
	}

	if err := ors.fileOps.CreateDirectory(ctx, targetDir); err != nil {
		return fmt.Errorf("failed to create bucket directory %s: %w", targetDir, err)
	}

	moveOpts := options.DefaultMoveOptions()
	if err := ors.fileOps.MoveFile(ctx, srcPath, targetPath, moveOpts); err != nil {
		return err
	}

	return nil
}

// Ensure OrganizationService implements the interface
var _ interfaces.OrganizationService = (*OrganizationService)(nil)
