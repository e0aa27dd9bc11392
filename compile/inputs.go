package compile

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"
	"go.uber.org/zap"
)

const globMeta = "*?[{"

// expandInputs resolves command line arguments into a deduplicated list of
// source files, preserving order. Arguments without glob metacharacters must
// name existing regular files with the source extension. Patterns are matched
// against slash paths while walking from the pattern's static prefix; only
// files with the configured source extension are considered. A pattern that
// matches nothing is not an error, just a warning.
func expandInputs(args []string, srcExt string, log *zap.Logger) ([]string, error) {
	var files []string
	seen := make(map[string]bool)
	add := func(path string) {
		if !seen[path] {
			seen[path] = true
			files = append(files, path)
		}
	}

	for _, arg := range args {
		if !strings.ContainsAny(arg, globMeta) {
			fi, err := os.Stat(arg)
			if err != nil {
				return nil, fmt.Errorf("unable to access input '%s': %w", arg, err)
			}
			if !fi.Mode().IsRegular() {
				return nil, fmt.Errorf("input is not a regular file: %s", arg)
			}
			if !strings.EqualFold(filepath.Ext(arg), srcExt) {
				return nil, fmt.Errorf("input '%s' does not have expected extension '%s'", arg, srcExt)
			}
			add(arg)
			continue
		}

		g, err := glob.Compile(filepath.ToSlash(arg), '/')
		if err != nil {
			return nil, fmt.Errorf("bad input pattern '%s': %w", arg, err)
		}

		count := 0
		walkErr := filepath.WalkDir(staticPrefix(arg), func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				log.Warn("Skipping path", zap.String("path", path), zap.Error(err))
				return nil
			}
			if d.IsDir() {
				return nil
			}
			if !strings.EqualFold(filepath.Ext(path), srcExt) {
				return nil
			}
			if g.Match(filepath.ToSlash(path)) {
				count++
				add(path)
			}
			return nil
		})
		if walkErr != nil {
			return nil, fmt.Errorf("unable to expand pattern '%s': %w", arg, walkErr)
		}
		if count == 0 {
			log.Warn("No files matched pattern", zap.String("pattern", arg))
		}
	}
	return files, nil
}

// staticPrefix returns the longest directory prefix of the pattern free of
// glob metacharacters - the directory the walk starts from.
func staticPrefix(pattern string) string {
	dir := filepath.Dir(pattern)
	for strings.ContainsAny(dir, globMeta) {
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	if strings.ContainsAny(dir, globMeta) {
		return "."
	}
	return dir
}
