package files

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
}

func TestDiscover_SortedWithSequence(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "b.csv"))
	touch(t, filepath.Join(dir, "a.csv"))
	touch(t, filepath.Join(dir, "c.xlsx"))

	got, err := Discover([]string{dir})
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, filepath.Join(dir, "a.csv"), got[0].Path)
	assert.Equal(t, filepath.Join(dir, "b.csv"), got[1].Path)
	assert.Equal(t, filepath.Join(dir, "c.xlsx"), got[2].Path)
	for i, f := range got {
		assert.Equal(t, i, f.Seq)
	}
}

func TestDiscover_FiltersExtensions(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "keep.csv"))
	touch(t, filepath.Join(dir, "keep.xls"))
	touch(t, filepath.Join(dir, "keep.XLSX"))
	touch(t, filepath.Join(dir, "skip.txt"))
	touch(t, filepath.Join(dir, "skip.pdf"))
	touch(t, filepath.Join(dir, "noext"))

	got, err := Discover([]string{dir})
	require.NoError(t, err)
	assert.Len(t, got, 3)
}

func TestDiscover_Recursive(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "top.csv"))
	touch(t, filepath.Join(dir, "2023", "q1", "deep.csv"))

	got, err := Discover([]string{dir})
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

// Files across directories sort into one global lexicographic order, so
// paths from a later-sorting directory take higher sequence numbers.
func TestDiscover_MultipleDirs(t *testing.T) {
	base := t.TempDir()
	dirA := filepath.Join(base, "a")
	dirB := filepath.Join(base, "b")
	touch(t, filepath.Join(dirB, "early.csv"))
	touch(t, filepath.Join(dirA, "late.csv"))

	got, err := Discover([]string{dirB, dirA})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, filepath.Join(dirA, "late.csv"), got[0].Path)
	assert.Equal(t, filepath.Join(dirB, "early.csv"), got[1].Path)
}

func TestDiscover_MissingDir(t *testing.T) {
	_, err := Discover([]string{filepath.Join(t.TempDir(), "absent")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to walk input directory")
}

func TestDiscover_Empty(t *testing.T) {
	got, err := Discover([]string{t.TempDir()})
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = Discover(nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}
