package types

import (
	"errors"
	"io/fs"
	"time"
)

// ErrKind classifies a failed operation so callers can distinguish failure
// modes without unwinding control flow.
type ErrKind string

const (
	KindNone       ErrKind = ""
	KindNotFound   ErrKind = "not_found"
	KindPermission ErrKind = "permission_denied"
	KindInvalid    ErrKind = "invalid"
	KindIO         ErrKind = "io_error"
)

// ClassifyError maps an error onto an ErrKind. Unrecognized errors are
// reported as io_error, the catch-all for disk and device failures.
func ClassifyError(err error) ErrKind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, fs.ErrNotExist):
		return KindNotFound
	case errors.Is(err, fs.ErrPermission):
		return KindPermission
	case errors.Is(err, fs.ErrInvalid):
		return KindInvalid
	default:
		return KindIO
	}
}

// OpResult is the fail-soft result of a single manager operation. Failures
// never propagate as errors past the manager boundary; they are captured
// here with their classification and the offending path.
type OpResult struct {
	OK   bool    `json:"ok"`
	Kind ErrKind `json:"kind,omitempty"`
	Path string  `json:"path,omitempty"`
	Err  string  `json:"error,omitempty"`
}

// OpOK returns a successful result for path.
func OpOK(path string) OpResult {
	return OpResult{OK: true, Path: path}
}

// OpFailed converts err into a failed result for path.
func OpFailed(path string, err error) OpResult {
	res := OpResult{OK: false, Kind: ClassifyError(err), Path: path}
	if err != nil {
		res.Err = err.Error()
	}
	return res
}

// FileEntry is a point-in-time snapshot of a file's path and stat metadata.
// Entries are recomputed per call and never cached.
type FileEntry struct {
	Path       string    `json:"path"`
	Name       string    `json:"name"`
	Extension  string    `json:"extension"`
	Size       int64     `json:"size"`
	ModifiedAt time.Time `json:"modified_at"`
}

// FileOpType defines the types of file operations
type FileOpType string

const (
	FileOpCopy   FileOpType = "copy"
	FileOpMove   FileOpType = "move"
	FileOpDelete FileOpType = "delete"
	FileOpSkip   FileOpType = "skip"
)

// FileOperation records a single file operation performed during organization
type FileOperation struct {
	Type       FileOpType `json:"type"`
	SourcePath string     `json:"source_path"`
	TargetPath string     `json:"target_path"`
	Bucket     string     `json:"bucket"`
	Success    bool       `json:"success"`
	Error      string     `json:"error,omitempty"`
	Timestamp  time.Time  `json:"timestamp"`
	DryRun     bool       `json:"dry_run"`
}

// OrganizeResult contains the complete result of an organize run. Success is
// false when any individual file failed, even though processing continued
// past the failure.
type OrganizeResult struct {
	RunID          string          `json:"run_id"`
	SourcePath     string          `json:"source_path"`
	Criterion      string          `json:"criterion"`
	StartTime      time.Time       `json:"start_time"`
	EndTime        time.Time       `json:"end_time"`
	Duration       time.Duration   `json:"duration"`
	Success        bool            `json:"success"`
	DryRun         bool            `json:"dry_run"`
	ProcessedFiles []FileOperation `json:"processed_files"`
	SkippedFiles   int             `json:"skipped_files"`
	FailedFiles    int             `json:"failed_files"`
	Error          string          `json:"error,omitempty"`
	FailureKind    ErrKind         `json:"failure_kind,omitempty"`
}

// BackupInfo contains information about a completed backup. No index of
// backups is kept anywhere; the record exists only in the returned value
// and as the file itself.
type BackupInfo struct {
	ID         string    `json:"id"`
	SourcePath string    `json:"source_path"`
	BackupPath string    `json:"backup_path"`
	CreatedAt  time.Time `json:"created_at"`
	Size       int64     `json:"size"`
}
