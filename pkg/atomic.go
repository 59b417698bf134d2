package arscrub

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"syscall"

	"github.com/google/vectorio"
)

const (
	copyChunkSize = 64 << 10 // bytes per iovec when copying an archive
	copyBatchSize = 4 << 20  // bytes per writev; the backing buffer is reused across batches
	maxIovecs     = 1024     // Linux IOV_MAX
)

// copyArchive writes the contents of src to out and syncs it. The caller owns out.
func copyArchive(src string, out *os.File) error {
	defer VerboseEnter()()

	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", src, err)
	}
	defer in.Close()

	stat, err := in.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", src, err)
	}

	batch := int64(copyBatchSize)
	if stat.Size() < batch {
		batch = stat.Size()
	}
	if batch == 0 {
		return out.Sync()
	}

	backing := make([]byte, batch)
	iovecs := make([]syscall.Iovec, 0, maxIovecs)
	for {
		n, err := io.ReadFull(in, backing)
		if n > 0 {
			iovecs = iovecs[:0]
			for start := 0; start < n; start += copyChunkSize {
				iov := syscall.Iovec{Base: &backing[start]}
				iov.SetLen(min(copyChunkSize, n-start))
				iovecs = append(iovecs, iov)
			}

			nw, werr := vectorio.WritevRaw(uintptr(out.Fd()), iovecs)
			if werr != nil {
				return fmt.Errorf("failed to write %s with vectorio: %w", out.Name(), werr)
			}
			if nw != n {
				return fmt.Errorf("copy write incomplete: wrote %d bytes, expected %d", nw, n)
			}
			DebugLog(DebugIO, "writev %d iovecs, %d bytes", len(iovecs), nw)
		}
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", src, err)
		}
	}

	if err := out.Sync(); err != nil {
		return fmt.Errorf("failed to sync %s: %w", out.Name(), err)
	}
	return nil
}

// scrubAtomic scrubs a copy of path and renames it over the original only on
// success, so a failure leaves the original bytes untouched.
func scrubAtomic(path string, opts Options) (*ScrubReport, error) {
	defer VerboseEnter()()

	stat, err := os.Stat(path)
	if err != nil {
		return nil, newScrubError(KindIO, err, "failed to stat %s", path)
	}

	temp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".scrub-*")
	if err != nil {
		return nil, newScrubError(KindIO, err, "failed to create copy of %s", path)
	}
	tempPath := temp.Name()

	err = temp.Chmod(stat.Mode().Perm())
	if err == nil {
		err = copyArchive(path, temp)
	}
	if closeErr := temp.Close(); closeErr != nil && err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(tempPath)
		return nil, newScrubError(KindIO, err, "failed to copy %s", path)
	}

	inPlace := opts
	inPlace.Atomic = false
	report, err := ScrubPath(tempPath, inPlace)
	if err != nil {
		os.Remove(tempPath)
		return report, err
	}

	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return report, newScrubError(KindIO, err, "failed to rename scrubbed copy over %s", path)
	}
	VerboseLog(2, "Replaced %s with scrubbed copy", path)
	return report, nil
}
