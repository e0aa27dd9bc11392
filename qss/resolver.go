package qss

import (
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"go.uber.org/zap"
)

var (
	declRe   = regexp.MustCompile(`^\s*\$([A-Za-z_]\w*)\s*:\s*(.+?);\s*$`)
	importRe = regexp.MustCompile(`^\s*@import\s+"([^"]+)"\s*;`)
)

// expand reads the file at path and returns its statement sequence with all
// imports recursively inlined, depth first. stack holds the paths currently
// being expanded; membership there means a cycle. Imported paths are resolved
// relative to the importing file and canonicalized, so cycle detection is
// path-identity based. The same file imported from two non-overlapping
// branches is expanded independently each time - declaration side effects of
// duplicate expansion are part of the ordering semantics and must not be
// memoized away.
func (c *Compiler) expand(path, from string, stack []string) ([]Statement, error) {
	if slices.Contains(stack, path) {
		return nil, &ImportCycleError{Chain: append(slices.Clone(stack), path)}
	}

	data, err := c.read(path)
	if err != nil {
		return nil, &ImportNotFoundError{Path: path, ReferencedFrom: from, Err: err}
	}
	stack = append(stack, path)

	lines := strings.Split(string(data), "\n")
	if n := len(lines); n > 0 && lines[n-1] == "" {
		// file ended with a newline
		lines = lines[:n-1]
	}

	seq := make([]Statement, 0, len(lines))
	for i, line := range lines {
		line = strings.TrimSuffix(line, "\r")

		if m := importRe.FindStringSubmatch(line); m != nil {
			child := filepath.Clean(filepath.Join(filepath.Dir(path), filepath.FromSlash(m[1])))
			c.log.Debug("Expanding import", zap.String("from", path), zap.Int("line", i+1), zap.String("import", child))
			sub, err := c.expand(child, path, stack)
			if err != nil {
				return nil, err
			}
			// the import statement itself leaves no visible line
			seq = append(seq, sub...)
			continue
		}

		if m := declRe.FindStringSubmatch(line); m != nil {
			seq = append(seq, Statement{
				Kind:  StatementDeclaration,
				Text:  line,
				Name:  m[1],
				Value: m[2],
				File:  path,
				Line:  i + 1,
			})
			continue
		}

		seq = append(seq, Statement{Kind: StatementRaw, Text: line, File: path, Line: i + 1})
	}
	return seq, nil
}
