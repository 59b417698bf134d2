package arscrub

import (
	"fmt"
	"io"
	"os"
)

// ArchiveFile is the positioned read/write handle a scrub pass runs over.
// The caller owns it exclusively for the duration of the pass.
type ArchiveFile interface {
	io.ReaderAt
	io.WriterAt
	Size() (int64, error)
}

// osFile adapts *os.File to ArchiveFile
type osFile struct {
	file *os.File
}

// NewOSFile wraps an open, read-write *os.File
func NewOSFile(file *os.File) ArchiveFile {
	return &osFile{file: file}
}

func (f *osFile) ReadAt(p []byte, off int64) (int, error) {
	return f.file.ReadAt(p, off)
}

func (f *osFile) WriteAt(p []byte, off int64) (int, error) {
	return f.file.WriteAt(p, off)
}

func (f *osFile) Size() (int64, error) {
	stat, err := f.file.Stat()
	if err != nil {
		return 0, fmt.Errorf("failed to stat %s: %w", f.file.Name(), err)
	}
	return stat.Size(), nil
}

// MemFile is an in-memory ArchiveFile of fixed length
type MemFile struct {
	data []byte
}

// NewMemFile returns a MemFile over data; writes modify data directly
func NewMemFile(data []byte) *MemFile {
	return &MemFile{data: data}
}

// Bytes returns the underlying buffer
func (m *MemFile) Bytes() []byte {
	return m.data
}

func (m *MemFile) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 {
		return 0, fmt.Errorf("read at %d: negative offset", off)
	}
	if off >= int64(len(m.data)) {
		return 0, io.EOF
	}
	n := copy(p, m.data[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

// WriteAt never grows the buffer; writes past the end are short
func (m *MemFile) WriteAt(p []byte, off int64) (int, error) {
	if off < 0 {
		return 0, fmt.Errorf("write at %d: negative offset", off)
	}
	if off >= int64(len(m.data)) {
		return 0, io.ErrShortWrite
	}
	n := copy(m.data[off:], p)
	if n < len(p) {
		return n, io.ErrShortWrite
	}
	return n, nil
}

func (m *MemFile) Size() (int64, error) {
	return int64(len(m.data)), nil
}
