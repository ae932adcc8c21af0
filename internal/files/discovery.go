package files

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
)

// SourceFile is one candidate input file in discovery order.
type SourceFile struct {
	Path string
	// Seq is the position of the file in the stable discovery order. The
	// aggregator uses it as the deduplication tie-break: higher Seq wins.
	Seq int
}

// allowedExtensions is the fixed extension allow-list for price exports.
var allowedExtensions = map[string]bool{
	".csv":  true,
	".xls":  true,
	".xlsx": true,
}

// Discover recursively lists regular files under each input directory,
// filtered to the extension allow-list and sorted lexicographically by
// full path. The returned order is deterministic for identical inputs.
func Discover(dirs []string) ([]SourceFile, error) {
	var paths []string

	for _, dir := range dirs {
		err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}
			if !d.Type().IsRegular() {
				return nil
			}
			if allowedExtensions[strings.ToLower(filepath.Ext(path))] {
				paths = append(paths, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to walk input directory %s: %w", dir, err)
		}
	}

	sort.Strings(paths)

	files := make([]SourceFile, len(paths))
	for i, p := range paths {
		files[i] = SourceFile{Path: p, Seq: i}
	}
	return files, nil
}
