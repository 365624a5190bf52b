package review

import (
	"path/filepath"
	"strings"
)

// binaryExtensions are file types the model cannot meaningfully review.
// Diffs for these usually arrive hunkless, but generated text assets
// (e.g. .svg) can still carry hunks and waste model calls.
var binaryExtensions = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true, ".bmp": true,
	".ico": true, ".tif": true, ".tiff": true, ".webp": true, ".svg": true,
	".exe": true, ".dll": true, ".so": true, ".dylib": true, ".a": true,
	".zip": true, ".tar": true, ".gz": true, ".bz2": true, ".xz": true,
	".7z": true, ".rar": true, ".jar": true, ".class": true,
	".pdf": true, ".bin": true, ".dat": true, ".o": true,
	".mp3": true, ".mp4": true, ".avi": true, ".mov": true, ".webm": true,
	".ttf": true, ".woff": true, ".woff2": true, ".eot": true,
	".pyc": true, ".pyo": true,
}

// Skippable reports whether the path points at a non-reviewable file type.
func Skippable(path string) bool {
	return binaryExtensions[strings.ToLower(filepath.Ext(path))]
}
