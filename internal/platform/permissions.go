package platform

import (
	"os"
	"runtime"

	"github.com/go-git/go-billy/v5"
)

// Chmod sets permissions on name when fsys supports it. On Windows, and on
// filesystems without permission support, this is a no-op.
func Chmod(fsys billy.Filesystem, name string, mode os.FileMode) error {
	if runtime.GOOS == "windows" {
		return nil
	}
	c, ok := fsys.(billy.Change)
	if !ok {
		return nil
	}
	return c.Chmod(name, mode)
}

// SupportsChmod reports whether Chmod has an effect on fsys.
func SupportsChmod(fsys billy.Filesystem) bool {
	if runtime.GOOS == "windows" {
		return false
	}
	_, ok := fsys.(billy.Change)
	return ok
}
