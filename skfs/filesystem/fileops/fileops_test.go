package fileops

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spreadkit/sheetkeeper/skfs/filesystem/options"
)

func writeFile(t *testing.T, path string, content []byte) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, content, 0o644))
}

func TestCreateDirectoryIdempotent(t *testing.T) {
	fo := NewFileOps(nil)
	ctx := context.Background()

	path := filepath.Join(t.TempDir(), "a", "b", "c")

	require.NoError(t, fo.CreateDirectory(ctx, path))
	require.NoError(t, fo.CreateDirectory(ctx, path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestCreateDirectoryRejectsEmptyPath(t *testing.T) {
	fo := NewFileOps(nil)

	err := fo.CreateDirectory(context.Background(), "")
	assert.Error(t, err)
}

func TestCopyFilePreservesSource(t *testing.T) {
	fo := NewFileOps(nil)
	ctx := context.Background()
	dir := t.TempDir()

	src := filepath.Join(dir, "report.xlsx")
	dst := filepath.Join(dir, "nested", "copy", "report.xlsx")
	content := []byte("quarterly numbers")
	writeFile(t, src, content)

	require.NoError(t, fo.CopyFile(ctx, src, dst, options.DefaultCopyOptions()))

	srcContent, err := os.ReadFile(src)
	require.NoError(t, err)
	assert.Equal(t, content, srcContent, "source must be unchanged")

	dstContent, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, content, dstContent, "destination must be byte-identical")
}

func TestCopyFileOverwritesDestination(t *testing.T) {
	fo := NewFileOps(nil)
	ctx := context.Background()
	dir := t.TempDir()

	src := filepath.Join(dir, "src.xlsx")
	dst := filepath.Join(dir, "dst.xlsx")
	writeFile(t, src, []byte("new"))
	writeFile(t, dst, []byte("old content that is longer"))

	require.NoError(t, fo.CopyFile(ctx, src, dst, options.DefaultCopyOptions()))

	dstContent, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, []byte("new"), dstContent)
}

func TestCopyFileMissingSource(t *testing.T) {
	fo := NewFileOps(nil)
	ctx := context.Background()
	dir := t.TempDir()

	err := fo.CopyFile(ctx, filepath.Join(dir, "missing.xlsx"), filepath.Join(dir, "out.xlsx"), options.DefaultCopyOptions())
	assert.Error(t, err)
	assert.NoFileExists(t, filepath.Join(dir, "out.xlsx"))
}

func TestMoveFileNoDuplicationNoLoss(t *testing.T) {
	fo := NewFileOps(nil)
	ctx := context.Background()
	dir := t.TempDir()

	src := filepath.Join(dir, "ledger.xls")
	dst := filepath.Join(dir, "moved", "ledger.xls")
	content := []byte("balances")
	writeFile(t, src, content)

	require.NoError(t, fo.MoveFile(ctx, src, dst, options.DefaultMoveOptions()))

	assert.NoFileExists(t, src)
	dstContent, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, content, dstContent)
}

func TestMoveFileMissingSourceKeepsDestinationAbsent(t *testing.T) {
	fo := NewFileOps(nil)
	ctx := context.Background()
	dir := t.TempDir()

	dst := filepath.Join(dir, "out", "ledger.xls")
	err := fo.MoveFile(ctx, filepath.Join(dir, "missing.xls"), dst, options.DefaultMoveOptions())
	assert.Error(t, err)
	assert.NoFileExists(t, dst)
}

func TestCopyDirectoryMergeSemantics(t *testing.T) {
	fo := NewFileOps(nil)
	ctx := context.Background()
	dir := t.TempDir()

	src := filepath.Join(dir, "src")
	dst := filepath.Join(dir, "dst")
	writeFile(t, filepath.Join(src, "a.xlsx"), []byte("a-new"))
	writeFile(t, filepath.Join(src, "sub", "b.xls"), []byte("b"))
	writeFile(t, filepath.Join(dst, "a.xlsx"), []byte("a-old"))
	writeFile(t, filepath.Join(dst, "keep.txt"), []byte("keep"))

	require.NoError(t, fo.CopyDirectory(ctx, src, dst, options.DefaultCopyOptions()))

	aContent, err := os.ReadFile(filepath.Join(dst, "a.xlsx"))
	require.NoError(t, err)
	assert.Equal(t, []byte("a-new"), aContent, "same relative path must be overwritten")

	assert.FileExists(t, filepath.Join(dst, "sub", "b.xls"))
	assert.FileExists(t, filepath.Join(dst, "keep.txt"), "files only in dst are left untouched")
}

func TestMoveDirectory(t *testing.T) {
	fo := NewFileOps(nil)
	ctx := context.Background()
	dir := t.TempDir()

	src := filepath.Join(dir, "project")
	dst := filepath.Join(dir, "archive", "project")
	writeFile(t, filepath.Join(src, "sub", "data.xlsx"), []byte("rows"))

	require.NoError(t, fo.MoveDirectory(ctx, src, dst, options.DefaultMoveOptions()))

	assert.NoDirExists(t, src)
	assert.FileExists(t, filepath.Join(dst, "sub", "data.xlsx"))
}

func TestMoveDirectoryIntoOwnSubtreeFails(t *testing.T) {
	fo := NewFileOps(nil)
	ctx := context.Background()
	dir := t.TempDir()

	src := filepath.Join(dir, "project")
	require.NoError(t, os.MkdirAll(src, 0o755))

	err := fo.MoveDirectory(ctx, src, filepath.Join(src, "inner"), options.DefaultMoveOptions())
	assert.Error(t, err)
	assert.DirExists(t, src)
}

func TestListFilesExtensionFilter(t *testing.T) {
	fo := NewFileOps(nil)
	ctx := context.Background()
	dir := t.TempDir()

	for _, name := range []string{"a.xlsx", "b.xlsx", "c.xlsx", "d.txt", "e.txt"} {
		writeFile(t, filepath.Join(dir, name), []byte("x"))
	}
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "subdir.xlsx"), 0o755))

	entries, err := fo.ListFiles(ctx, dir, options.ListOptions{Extension: ".xlsx"})
	require.NoError(t, err)
	require.Len(t, entries, 3, "directories and non-matching files are excluded")

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name)
	}
	assert.Equal(t, []string{"a.xlsx", "b.xlsx", "c.xlsx"}, names)
}

func TestListFilesCaseSensitiveMatch(t *testing.T) {
	fo := NewFileOps(nil)
	ctx := context.Background()
	dir := t.TempDir()

	writeFile(t, filepath.Join(dir, "lower.xlsx"), []byte("x"))
	writeFile(t, filepath.Join(dir, "upper.XLSX"), []byte("x"))

	entries, err := fo.ListFiles(ctx, dir, options.ListOptions{Extension: ".xlsx"})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "lower.xlsx", entries[0].Name)
}

func TestListFilesNoFilterIncludesEverything(t *testing.T) {
	fo := NewFileOps(nil)
	ctx := context.Background()
	dir := t.TempDir()

	writeFile(t, filepath.Join(dir, "a.xlsx"), []byte("x"))
	writeFile(t, filepath.Join(dir, "notes.txt"), []byte("x"))
	writeFile(t, filepath.Join(dir, ".hidden"), []byte("x"))

	entries, err := fo.ListFiles(ctx, dir, options.ListOptions{})
	require.NoError(t, err)
	assert.Len(t, entries, 3)
}

func TestListFilesExtensionFilterIncludesDotfiles(t *testing.T) {
	fo := NewFileOps(nil)
	ctx := context.Background()
	dir := t.TempDir()

	writeFile(t, filepath.Join(dir, ".secret.xlsx"), []byte("x"))
	writeFile(t, filepath.Join(dir, "visible.xlsx"), []byte("x"))

	entries, err := fo.ListFiles(ctx, dir, options.ListOptions{Extension: ".xlsx"})
	require.NoError(t, err)
	require.Len(t, entries, 2, "a dotfile matching the glob is listed")
	assert.Equal(t, ".secret.xlsx", entries[0].Name)
	assert.Equal(t, "visible.xlsx", entries[1].Name)
}

func TestListFilesExcludeHidden(t *testing.T) {
	fo := NewFileOps(nil)
	ctx := context.Background()
	dir := t.TempDir()

	writeFile(t, filepath.Join(dir, ".secret.xlsx"), []byte("x"))
	writeFile(t, filepath.Join(dir, "visible.xlsx"), []byte("x"))

	entries, err := fo.ListFiles(ctx, dir, options.ListOptions{Extension: ".xlsx", ExcludeHidden: true})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "visible.xlsx", entries[0].Name)
}

func TestListFilesMissingFolder(t *testing.T) {
	fo := NewFileOps(nil)

	_, err := fo.ListFiles(context.Background(), filepath.Join(t.TempDir(), "nope"), options.ListOptions{})
	assert.Error(t, err)
}

func TestDeleteFile(t *testing.T) {
	fo := NewFileOps(nil)
	ctx := context.Background()
	dir := t.TempDir()

	path := filepath.Join(dir, "gone.xlsx")
	writeFile(t, path, []byte("x"))

	require.NoError(t, fo.DeleteFile(ctx, path, options.DefaultDeleteOptions()))
	assert.NoFileExists(t, path)

	assert.Error(t, fo.DeleteFile(ctx, path, options.DefaultDeleteOptions()), "deleting a missing file reports an error")
}

func TestDeleteFileRefusesDirectory(t *testing.T) {
	fo := NewFileOps(nil)
	dir := t.TempDir()

	assert.Error(t, fo.DeleteFile(context.Background(), dir, options.DefaultDeleteOptions()))
}

func TestDeleteFileDryRun(t *testing.T) {
	fo := NewFileOps(nil)
	ctx := context.Background()
	dir := t.TempDir()

	path := filepath.Join(dir, "kept.xlsx")
	writeFile(t, path, []byte("x"))

	require.NoError(t, fo.DeleteFile(ctx, path, options.DeleteOptions{DryRun: true}))
	assert.FileExists(t, path)
}

func TestDeleteDirectoryRecursive(t *testing.T) {
	fo := NewFileOps(nil)
	ctx := context.Background()
	dir := t.TempDir()

	target := filepath.Join(dir, "victim")
	writeFile(t, filepath.Join(target, "deep", "file.xls"), []byte("x"))

	require.NoError(t, fo.DeleteDirectory(ctx, target, options.DeleteOptions{Recursive: true}))
	assert.NoDirExists(t, target)
}

func TestDeleteDirectoryNonRecursiveRequiresEmpty(t *testing.T) {
	fo := NewFileOps(nil)
	ctx := context.Background()
	dir := t.TempDir()

	target := filepath.Join(dir, "full")
	writeFile(t, filepath.Join(target, "file.xls"), []byte("x"))

	assert.Error(t, fo.DeleteDirectory(ctx, target, options.DefaultDeleteOptions()))
	assert.DirExists(t, target)
}

func TestGetFileInfo(t *testing.T) {
	fo := NewFileOps(nil)
	dir := t.TempDir()

	path := filepath.Join(dir, "budget.xlsx")
	writeFile(t, path, []byte("12345"))

	entry, err := fo.GetFileInfo(path)
	require.NoError(t, err)
	assert.Equal(t, "budget.xlsx", entry.Name)
	assert.Equal(t, ".xlsx", entry.Extension)
	assert.Equal(t, int64(5), entry.Size)
	assert.False(t, entry.ModifiedAt.IsZero())
}

func TestOperationsHonorCancelledContext(t *testing.T) {
	fo := NewFileOps(nil)
	dir := t.TempDir()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, fo.CreateDirectory(ctx, filepath.Join(dir, "x")), context.Canceled)
	_, err := fo.ListFiles(ctx, dir, options.ListOptions{})
	assert.ErrorIs(t, err, context.Canceled)
}
