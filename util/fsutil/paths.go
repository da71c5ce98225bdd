package fsutil

import (
	"fmt"
	"os"
	"path/filepath"
)

// Exists reports whether path exists.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// EnsureDir creates dir and any missing parents. It reports whether the
// directory was created.
func EnsureDir(dir string) (bool, error) {
	fi, err := os.Stat(dir)
	if err == nil {
		if !fi.IsDir() {
			return false, fmt.Errorf("%s exists and is not a directory", dir)
		}
		return false, nil
	}
	if !os.IsNotExist(err) {
		return false, err
	}
	if err := os.MkdirAll(dir, 0775); err != nil {
		return false, err
	}
	return true, nil
}

// EnsurePath ensures the parent directory of path exists.
func EnsurePath(path string) (bool, error) {
	return EnsureDir(filepath.Dir(path))
}

// MakeExecutable adds the execute bit wherever the file is readable.
func MakeExecutable(path string) error {
	fi, err := os.Stat(path)
	if err != nil {
		return err
	}
	mode := fi.Mode().Perm()
	mode |= (mode & 0444) >> 2
	return os.Chmod(path, mode)
}
