package ics

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

func hasCalendarExt(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".ics", ".ical":
		return true
	}
	return false
}

// CollectFiles resolves a configured source path into the calendar files to
// parse. The path may be a single file, a directory (direct children only)
// or a directory scanned recursively; in every case only .ics/.ical files
// are collected, de-duplicated by resolved path.
func CollectFiles(path string, recursive bool) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	var files []string
	switch {
	case !info.IsDir():
		if hasCalendarExt(path) {
			files = append(files, path)
		}
	case recursive:
		err = filepath.WalkDir(path, func(p string, d fs.DirEntry, werr error) error {
			if werr != nil {
				// Unreadable subtree: skip it, keep walking the rest.
				return nil
			}
			if !d.IsDir() && hasCalendarExt(p) {
				files = append(files, p)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	default:
		entries, rerr := os.ReadDir(path)
		if rerr != nil {
			return nil, rerr
		}
		for _, ent := range entries {
			if ent.IsDir() || !hasCalendarExt(ent.Name()) {
				continue
			}
			files = append(files, filepath.Join(path, ent.Name()))
		}
	}

	return dedupeFiles(files), nil
}

// dedupeFiles drops entries that resolve to a path already seen, so a file
// reachable twice (symlink, doubled config entry) parses once.
func dedupeFiles(files []string) []string {
	seen := make(map[string]struct{}, len(files))
	out := files[:0]
	for _, f := range files {
		key := f
		if abs, err := filepath.Abs(f); err == nil {
			key = filepath.Clean(abs)
		}
		if resolved, err := filepath.EvalSymlinks(key); err == nil {
			key = resolved
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, f)
	}
	return out
}
