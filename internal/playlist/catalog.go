package playlist

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Info describes one stored playlist as derived from a directory entry.
// It is never cached; every Enumerate call re-stats the directory.
type Info struct {
	Path         string
	Name         string
	LastModified time.Time
}

// ErrNotFound is returned by FromPath when no playlist with the given
// name exists in dir.
var ErrNotFound = fmt.Errorf("playlist not found")

// ErrInvalidName is returned when a playlist name fails the portable
// filename check: letters, digits, `_`, `-`, `.`, no leading dot, no
// path separators.
var ErrInvalidName = fmt.Errorf("invalid playlist name")

// ValidName reports whether name is a portable filename: it contains
// only letters, digits, `_`, `-`, `.`, does not start with a dot, and
// contains no path separator.
func ValidName(name string) bool {
	if name == "" || strings.HasPrefix(name, ".") {
		return false
	}
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '_', r == '-', r == '.':
		default:
			return false
		}
	}
	return true
}

func m3uPath(dir, name string) string {
	return filepath.Join(dir, name+".m3u")
}

// Enumerate calls f for every `.m3u` file directly inside dir. Hidden
// entries, directories and non-`.m3u` files are skipped; there is no
// recursion.
func Enumerate(dir string, f func(Info)) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}
		if filepath.Ext(name) != ".m3u" {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		f(Info{
			Path:         filepath.Join(dir, name),
			Name:         strings.TrimSuffix(name, ".m3u"),
			LastModified: info.ModTime(),
		})
	}
	return nil
}

// FromPath resolves name to a stored playlist's Info, or ErrNotFound if
// dir/name.m3u does not exist. It does not validate name's shape — use
// ValidName before accepting a name from an untrusted source such as a
// client command argument.
func FromPath(dir, name string) (Info, error) {
	path := m3uPath(dir, name)
	stat, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Info{}, ErrNotFound
		}
		return Info{}, err
	}
	return Info{Path: path, Name: name, LastModified: stat.ModTime()}, nil
}

// EnsureDir creates dir (and its parents) if it does not already exist.
// Callers at startup treat failure here as fatal.
func EnsureDir(dir string) error {
	return os.MkdirAll(dir, 0o755)
}
