package utils

import (
	"os"
	"path/filepath"
)

// ModuleRoot walks up from dir to the first directory holding a go.mod.
func ModuleRoot(dir string) (string, bool) {
	for d := filepath.Clean(dir); ; d = filepath.Dir(d) {
		if fi, err := os.Stat(filepath.Join(d, "go.mod")); err == nil && !fi.IsDir() {
			return d, true
		}
		if filepath.Dir(d) == d {
			return "", false
		}
	}
}

// ResolvePath anchors a relative path at the module root when running from a checkout,
// and leaves it relative to the working directory otherwise (installed binaries).
func ResolvePath(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	wd, err := os.Getwd()
	if err != nil {
		return p
	}
	if root, ok := ModuleRoot(wd); ok {
		return filepath.Join(root, p)
	}
	return filepath.Join(wd, p)
}
