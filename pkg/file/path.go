package file

import (
	"path/filepath"
	"strings"
)

// OutputPath names the file a tool writes into dir for src: the base name of
// src with its last extension swapped for ext. Tools such as whisper follow
// this convention for their output files.
func OutputPath(dir, src, ext string) string {
	base := filepath.Base(src)
	if i := strings.LastIndexByte(base, '.'); i > 0 {
		base = base[:i]
	}
	if ext != "" && ext[0] != '.' {
		ext = "." + ext
	}
	return filepath.Join(dir, base+ext)
}
