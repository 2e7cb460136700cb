package cachefile

import (
	"io/fs"
	"path/filepath"
	"strings"
)

// ScanFunc receives the result of parsing one file during a Scan. info
// is nil when err is non-nil. Returning a non-nil error stops the walk.
type ScanFunc func(path string, info *Info, err error) error

// Scan walks the cache directory tree rooted at root and attempts to
// parse every regular file in it. One file failing to parse does not
// stop the walk; the error is handed to fn along with the path so the
// caller decides how to report it.
//
// Files still being written by nginx (".tmp" suffix) are skipped.
func Scan(root string, fn ScanFunc) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}
		if strings.HasSuffix(d.Name(), ".tmp") {
			return nil
		}

		info, perr := Parse(path)
		return fn(path, info, perr)
	})
}
