package compile

import (
	"path/filepath"
	"strings"

	"qssc/config"
)

// outputPath derives the destination for a compiled source. Without --out
// the result is placed alongside the source with the output extension. When
// --out carries the output extension (single input only) it names the file
// directly, otherwise --out is treated as a directory.
func outputPath(src, out, outExt string, multiple bool) string {
	base := config.CleanFileName(strings.TrimSuffix(filepath.Base(src), filepath.Ext(src))) + outExt
	if len(out) == 0 {
		return filepath.Join(filepath.Dir(src), base)
	}
	if !multiple && strings.EqualFold(filepath.Ext(out), outExt) {
		return out
	}
	return filepath.Join(out, base)
}
