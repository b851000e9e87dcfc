package knmap

import (
	"os"
	"path/filepath"

	"github.com/mogaika/knmap_packer/vfs"
)

// Resolver converts between persisted path strings and live resource
// references. Unresolvable paths yield nil refs, never errors: a map whose
// scene moved stays in the registry with the reference unset.
type Resolver interface {
	PathToRef(path string) vfs.File
	RefToPath(ref vfs.File) string
}

// FileResolver resolves resources against a project directory. Paths inside
// the project are persisted relative with forward slashes so the cache file
// survives a project move between machines.
type FileResolver struct {
	root string
}

func NewFileResolver(root string) *FileResolver {
	return &FileResolver{root: root}
}

func (fr *FileResolver) PathToRef(path string) vfs.File {
	if path == "" {
		return nil
	}
	full := filepath.FromSlash(path)
	if !filepath.IsAbs(full) {
		full = filepath.Join(fr.root, full)
	}
	if s, err := os.Stat(full); err != nil || s.IsDir() {
		return nil
	}
	return vfs.NewDirectoryDriverFile(full)
}

func (fr *FileResolver) RefToPath(ref vfs.File) string {
	if ref == nil {
		return ""
	}
	if rel, err := filepath.Rel(fr.root, ref.Path()); err == nil && !filepath.IsAbs(rel) && !isUpwardPath(rel) {
		return filepath.ToSlash(rel)
	}
	return filepath.ToSlash(ref.Path())
}

func isUpwardPath(rel string) bool {
	return rel == ".." || len(rel) >= 3 && rel[:3] == ".."+string(filepath.Separator)
}
