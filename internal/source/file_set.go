package source

import (
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"fortio.org/safecast"
)

// FileSet owns every source read during a run. Safe for concurrent use.
type FileSet struct {
	base string // relative display paths are computed against it
	nfc  bool

	mu     sync.RWMutex
	files  []*File
	byPath map[string]FileID
}

// NewFileSet returns a FileSet based at the working directory.
func NewFileSet() *FileSet {
	return NewFileSetWithBase("")
}

// NewFileSetWithBase returns a FileSet whose relative paths start at base.
func NewFileSetWithBase(base string) *FileSet {
	return &FileSet{base: base, byPath: map[string]FileID{}}
}

// ComposeNFC makes Load and AddVirtual compose text to NFC. Off by default:
// the engine then sees the characters exactly as stored.
func (fs *FileSet) ComposeNFC(on bool) {
	fs.nfc = on
}

// BaseDir returns the base directory, or the working directory when none was set.
func (fs *FileSet) BaseDir() string {
	if fs.base != "" {
		return fs.base
	}
	wd, err := os.Getwd()
	if err != nil {
		return ""
	}
	return wd
}

// Add stores content under path. Adding the same path twice yields two ids;
// Lookup returns the newer one.
func (fs *FileSet) Add(path string, content []byte, flags FileFlags) FileID {
	path = normalizePath(path)
	sum := sha256.Sum256(content)

	fs.mu.Lock()
	defer fs.mu.Unlock()
	n, err := safecast.Conv[uint32](len(fs.files))
	if err != nil {
		panic(fmt.Errorf("file set overflow: %w", err))
	}
	id := FileID(n)
	fs.files = append(fs.files, &File{ID: id, Path: path, Content: content, Hash: sum, Flags: flags})
	fs.byPath[path] = id
	return id
}

// Load reads path from disk and adds its normalized content.
func (fs *FileSet) Load(path string) (FileID, error) {
	// #nosec G304 -- path is provided by the caller
	raw, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	content, flags := fs.normalize(raw)
	return fs.Add(path, content, flags), nil
}

// AddVirtual adds in-memory text such as stdin or --text, normalized like Load.
func (fs *FileSet) AddVirtual(name string, content []byte) FileID {
	content, flags := fs.normalize(content)
	return fs.Add(name, content, flags|FileVirtual)
}

func (fs *FileSet) normalize(content []byte) ([]byte, FileFlags) {
	content, flags := Normalize(content)
	if fs.nfc {
		var changed bool
		if content, changed = NormalizeNFC(content); changed {
			flags |= FileNormalizedNFC
		}
	}
	return content, flags
}

// Get returns the file for id, or nil.
func (fs *FileSet) Get(id FileID) *File {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	if int(id) < len(fs.files) {
		return fs.files[id]
	}
	return nil
}

// Lookup returns the newest id stored under path.
func (fs *FileSet) Lookup(path string) (FileID, bool) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	id, ok := fs.byPath[normalizePath(path)]
	return id, ok
}

// autoPathLimit is the length from which "auto" shortens absolute paths.
const autoPathLimit = 40

// FormatPath renders the path for display in mode: absolute, relative,
// basename or auto. Virtual names are returned untouched.
func (f *File) FormatPath(mode, baseDir string) string {
	if f.Virtual() {
		return f.Path
	}
	var (
		out string
		err error
	)
	switch mode {
	case "absolute":
		out, err = AbsolutePath(f.Path)
	case "relative":
		if baseDir == "" {
			baseDir, err = os.Getwd()
		}
		if err == nil {
			out, err = RelativePath(f.Path, baseDir)
		}
	case "basename":
		out = BaseName(f.Path)
	case "auto":
		// короткие и относительные пути оставляем как есть
		out = f.Path
		if len(f.Path) >= autoPathLimit && filepath.IsAbs(f.Path) {
			out = BaseName(f.Path)
		}
	default:
		out = f.Path
	}
	if err != nil {
		return f.Path
	}
	return out
}
