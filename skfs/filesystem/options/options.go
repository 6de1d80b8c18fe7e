package options

// Criterion selects how the organize operation buckets files into subfolders
type Criterion string

const (
	ByDate Criterion = "date"
	BySize Criterion = "size"
	ByName Criterion = "name"
)

// ParseCriterion maps a raw string onto a Criterion. Anything that is not
// "date" or "size" falls through to ByName, matching the organize defaults.
func ParseCriterion(raw string) Criterion {
	switch Criterion(raw) {
	case ByDate:
		return ByDate
	case BySize:
		return BySize
	default:
		return ByName
	}
}

// CopyOptions configures file and directory copy operations
type CopyOptions struct {
	PreservePerms bool // Preserve file permissions
	PreserveTimes bool // Preserve modification times
	DryRun        bool // Preview operations without executing
}

// MoveOptions configures file and directory move operations
type MoveOptions struct {
	FallbackToCopy bool // Use copy+delete for cross-device moves
	PreservePerms  bool // Preserve permissions on cross-device fallback
	DryRun         bool // Preview operations without executing
}

// DeleteOptions configures file and directory deletion operations
type DeleteOptions struct {
	Recursive bool // Delete directories recursively
	DryRun    bool // Preview operations without executing
}

// ListOptions configures directory listing operations
type ListOptions struct {
	Extension     string // Glob-filter file names against "*<Extension>" when non-empty
	ExcludeHidden bool   // Skip dotfiles; by default they are listed like any other file
}

// BackupOptions configures backup operations
type BackupOptions struct {
	BackupDir string // Destination directory; empty means <base>/backups
	DryRun    bool   // Preview operations without executing
}

// OrganizeOptions configures spreadsheet organization operations
type OrganizeOptions struct {
	Criterion      Criterion // Bucketing policy
	IgnoreFileName string    // Name of the ignore file consulted in the source folder
	DryRun         bool      // Preview operations without executing
}

// DefaultCopyOptions returns sensible defaults for copy operations
func DefaultCopyOptions() CopyOptions {
	return CopyOptions{
		PreservePerms: true,
		PreserveTimes: true,
		DryRun:        false,
	}
}

// DefaultDeleteOptions returns sensible defaults for delete operations
func DefaultDeleteOptions() DeleteOptions {
	return DeleteOptions{
		Recursive: false,
		DryRun:    false,
	}
}

// DefaultMoveOptions returns sensible defaults for move operations
func DefaultMoveOptions() MoveOptions {
	return MoveOptions{
		FallbackToCopy: true,
		PreservePerms:  true,
		DryRun:         false,
	}
}

// DefaultOrganizeOptions returns sensible defaults for organize operations
func DefaultOrganizeOptions() OrganizeOptions {
	return OrganizeOptions{
		Criterion: ByName,
		DryRun:    false,
	}
}
