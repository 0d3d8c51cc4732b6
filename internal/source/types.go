package source

type (
	// FileID uniquely identifies a source file within a FileSet.
	FileID uint32
	// FileFlags records how the content was normalised on load.
	FileFlags uint8
)

const (
	// FileVirtual indicates the file was added from memory (--text, stdin, tests).
	FileVirtual FileFlags = 1 << iota
	FileHadBOM
	FileNormalizedCRLF
	FileNormalizedNFC
)

// File captures metadata and content for a single source file.
type File struct {
	ID      FileID
	Path    string
	Content []byte
	Hash    [32]byte
	Flags   FileFlags
}

// Virtual reports whether the file did not come from disk.
func (f *File) Virtual() bool {
	return f.Flags&FileVirtual != 0
}
