package loader

import (
	"os"
	"path/filepath"
	"sort"
)

// Entry is one node of a folder listing.
type Entry struct {
	Name     string  `json:"name"`
	Path     string  `json:"path"`
	IsDir    bool    `json:"isDir"`
	Children []Entry `json:"children,omitempty"`
}

func shouldSkipDir(name string) bool {
	switch name {
	case ".git", "node_modules", "vendor":
		return true
	default:
		return false
	}
}

// ReadDir lists root recursively. Within each directory, subdirectories come
// before files and names sort lexicographically. Unreadable subdirectories
// are listed without children.
func ReadDir(root string) ([]Entry, error) {
	entries, err := os.ReadDir(filepath.Clean(root))
	if err != nil {
		return nil, err
	}
	return readEntries(filepath.Clean(root), entries), nil
}

func readEntries(dir string, entries []os.DirEntry) []Entry {
	out := make([]Entry, 0, len(entries))
	for _, d := range entries {
		path := filepath.Join(dir, d.Name())
		isDir := d.IsDir()
		if d.Type()&os.ModeSymlink != 0 {
			if info, err := os.Stat(path); err == nil {
				isDir = info.IsDir()
			}
		}
		e := Entry{Name: d.Name(), Path: path, IsDir: isDir}
		if isDir {
			if shouldSkipDir(d.Name()) {
				continue
			}
			// Symlinked directories are listed but not followed.
			if d.Type()&os.ModeSymlink == 0 {
				if children, err := os.ReadDir(path); err == nil {
					e.Children = readEntries(path, children)
				}
			}
		}
		out = append(out, e)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].IsDir != out[j].IsDir {
			return out[i].IsDir
		}
		return out[i].Name < out[j].Name
	})
	return out
}
