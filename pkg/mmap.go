package arscrub

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/sys/unix"
)

// MmapFile is an ArchiveFile backed by a shared, writable memory mapping.
// Writes land in the page cache directly; Close syncs and unmaps.
type MmapFile struct {
	file *os.File
	data []byte
	path string
}

// OpenMmapFile maps the whole archive at path read-write
func OpenMmapFile(path string) (*MmapFile, error) {
	file, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, err
	}

	stat, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	mf := &MmapFile{file: file, path: path}
	if stat.Size() == 0 {
		// mmap of zero length is EINVAL; an empty archive has nothing to map
		return mf, nil
	}

	data, err := unix.Mmap(int(file.Fd()), 0, int(stat.Size()), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to mmap %s: %w", path, err)
	}
	mf.data = data

	VerboseLog(3, "Mapped %s (%d bytes)", path, len(data))
	return mf, nil
}

func (mf *MmapFile) ReadAt(p []byte, off int64) (int, error) {
	return NewMemFile(mf.data).ReadAt(p, off)
}

func (mf *MmapFile) WriteAt(p []byte, off int64) (int, error) {
	return NewMemFile(mf.data).WriteAt(p, off)
}

func (mf *MmapFile) Size() (int64, error) {
	return int64(len(mf.data)), nil
}

// Sync flushes the mapping to the file
func (mf *MmapFile) Sync() error {
	if mf.data == nil {
		return nil
	}
	if err := unix.Msync(mf.data, unix.MS_SYNC); err != nil {
		return fmt.Errorf("failed to sync mmap: %w", err)
	}
	return nil
}

// Close syncs, unmaps and closes the file
func (mf *MmapFile) Close() error {
	var firstErr error
	if mf.data != nil {
		if err := mf.Sync(); err != nil {
			firstErr = err
		}
		if err := unix.Munmap(mf.data); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("failed to unmap %s: %w", mf.path, err)
		}
		mf.data = nil
	}
	if mf.file != nil {
		if err := mf.file.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("failed to close %s: %w", mf.path, err)
		}
		mf.file = nil
	}
	return firstErr
}

var _ io.Closer = (*MmapFile)(nil)
