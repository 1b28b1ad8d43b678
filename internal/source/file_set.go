package source

import (
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"fortio.org/safecast"
)

// FileSet manages the collection of template files known to one compilation
// and resolves spans back to paths and line/column positions.
type FileSet struct {
	files   []File
	index   map[string]FileID
	baseDir string
}

// NewFileSet creates an empty FileSet.
func NewFileSet() *FileSet {
	return &FileSet{index: make(map[string]FileID)}
}

// NewFileSetWithBase creates a FileSet whose relative paths resolve against baseDir.
func NewFileSetWithBase(baseDir string) *FileSet {
	return &FileSet{index: make(map[string]FileID), baseDir: baseDir}
}

// Add stores a file from already-normalized bytes, computes its line index
// and content hash, and returns a fresh FileID. Adding the same path twice
// creates a new ID; the index always points at the latest version.
func (fs *FileSet) Add(path string, content []byte, flags FileFlags) FileID {
	lenFiles, err := safecast.Conv[uint32](len(fs.files))
	if err != nil {
		panic(fmt.Errorf("file count overflow: %w", err))
	}
	id := FileID(lenFiles)
	normalized := normalizePath(path)
	fs.files = append(fs.files, File{
		ID:      id,
		Path:    normalized,
		Content: content,
		LineIdx: buildLineIndex(content),
		Hash:    sha256.Sum256(content),
		Flags:   flags,
	})
	fs.index[normalized] = id
	return id
}

// Load reads a file from disk, normalizes BOM/CRLF, and calls Add.
func (fs *FileSet) Load(path string) (FileID, error) {
	// #nosec G304 -- path is provided by the caller
	content, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	content, hadBOM := removeBOM(content)
	content, hadCRLF := normalizeCRLF(content)

	flags := FileFlags(0)
	if hadBOM {
		flags |= FileHadBOM
	}
	if hadCRLF {
		flags |= FileNormalizedCRLF
	}
	return fs.Add(path, content, flags), nil
}

// AddVirtual adds an in-memory file (tests, stdin) with the FileVirtual flag.
func (fs *FileSet) AddVirtual(name string, content []byte) FileID {
	content, _ = removeBOM(content)
	content, _ = normalizeCRLF(content)
	return fs.Add(name, content, FileVirtual)
}

// Get returns the file for id, or nil when the id is unknown.
func (fs *FileSet) Get(id FileID) *File {
	if int(id) >= len(fs.files) {
		return nil
	}
	return &fs.files[id]
}

// Lookup returns the latest FileID registered for path.
func (fs *FileSet) Lookup(path string) (FileID, bool) {
	id, ok := fs.index[normalizePath(path)]
	return id, ok
}

// Len returns the number of files in the set.
func (fs *FileSet) Len() int { return len(fs.files) }

// Position resolves a span's start offset to a display path and line/column.
// Files under the base directory render relative to it.
func (fs *FileSet) Position(sp Span) (path string, lc LineCol, ok bool) {
	f := fs.Get(sp.File)
	if f == nil {
		return "", LineCol{}, false
	}
	return fs.displayPath(f.Path), toLineCol(f.LineIdx, sp.Start), true
}

// displayPath strips the base directory prefix for readability. Paths
// outside the base stay as stored.
func (fs *FileSet) displayPath(path string) string {
	if fs.baseDir == "" {
		return path
	}
	rel, err := filepath.Rel(fs.baseDir, filepath.FromSlash(path))
	if err != nil || strings.HasPrefix(rel, "..") {
		return path
	}
	return filepath.ToSlash(rel)
}

func normalizePath(path string) string {
	return filepath.ToSlash(filepath.Clean(path))
}
