package services

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spreadkit/sheetkeeper/skfs/filesystem/fileops"
	"github.com/spreadkit/sheetkeeper/skfs/filesystem/options"
)

func writeTestFile(t *testing.T, path string, content []byte) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, content, 0o644))
}

func newBackupServiceAt(t *testing.T, instant time.Time, defaultDir string) *BackupService {
	t.Helper()
	bs := NewBackupService(fileops.NewFileOps(nil), defaultDir, nil)
	bs.now = func() time.Time { return instant }
	return bs
}

func TestBackupFileNaming(t *testing.T) {
	dir := t.TempDir()
	backupDir := filepath.Join(dir, "backups")
	src := filepath.Join(dir, "report.xlsx")
	content := []byte("q3 figures")
	writeTestFile(t, src, content)

	instant := time.Date(2024, 3, 15, 10, 0, 0, 0, time.Local)
	bs := newBackupServiceAt(t, instant, backupDir)

	info, err := bs.BackupFile(context.Background(), src, options.BackupOptions{})
	require.NoError(t, err)

	expected := filepath.Join(backupDir, "report_backup_20240315_100000.xlsx")
	assert.Equal(t, expected, info.BackupPath)
	assert.Equal(t, src, info.SourcePath)
	assert.NotEmpty(t, info.ID)
	assert.Equal(t, int64(len(content)), info.Size)

	got, err := os.ReadFile(info.BackupPath)
	require.NoError(t, err)
	assert.Equal(t, content, got, "backup content must equal the source")

	srcContent, err := os.ReadFile(src)
	require.NoError(t, err)
	assert.Equal(t, content, srcContent, "source is left in place")
}

func TestBackupFileExplicitFolder(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "ledger.xls")
	writeTestFile(t, src, []byte("rows"))

	custom := filepath.Join(dir, "archive", "deep")
	bs := newBackupServiceAt(t, time.Date(2023, 1, 2, 3, 4, 5, 0, time.Local), filepath.Join(dir, "unused"))

	info, err := bs.BackupFile(context.Background(), src, options.BackupOptions{BackupDir: custom})
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(custom, "ledger_backup_20230102_030405.xls"), info.BackupPath)
	assert.FileExists(t, info.BackupPath, "backup folder is created on demand")
}

func TestBackupFileMissingSource(t *testing.T) {
	dir := t.TempDir()
	bs := NewBackupService(fileops.NewFileOps(nil), filepath.Join(dir, "backups"), nil)

	info, err := bs.BackupFile(context.Background(), filepath.Join(dir, "missing.xlsx"), options.BackupOptions{})
	assert.Error(t, err)
	assert.Nil(t, info)
	assert.NoDirExists(t, filepath.Join(dir, "backups"), "no backup folder is created for a missing source")
}

func TestBackupFileSameSecondOverwrites(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "report.xlsx")
	writeTestFile(t, src, []byte("v1"))

	bs := newBackupServiceAt(t, time.Date(2024, 6, 1, 12, 0, 0, 0, time.Local), filepath.Join(dir, "backups"))

	first, err := bs.BackupFile(context.Background(), src, options.BackupOptions{})
	require.NoError(t, err)

	writeTestFile(t, src, []byte("v2"))
	second, err := bs.BackupFile(context.Background(), src, options.BackupOptions{})
	require.NoError(t, err)

	// Second resolution: same instant means the same name, last write wins.
	assert.Equal(t, first.BackupPath, second.BackupPath)
	got, err := os.ReadFile(second.BackupPath)
	require.NoError(t, err)
	assert.Equal(t, []byte("v2"), got)
}

func TestBackupFileDryRun(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "report.xlsx")
	writeTestFile(t, src, []byte("x"))

	backupDir := filepath.Join(dir, "backups")
	bs := newBackupServiceAt(t, time.Date(2024, 6, 1, 12, 0, 0, 0, time.Local), backupDir)

	info, err := bs.BackupFile(context.Background(), src, options.BackupOptions{DryRun: true})
	require.NoError(t, err)
	assert.NoFileExists(t, info.BackupPath)
}
