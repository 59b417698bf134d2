package arscrub

import (
	"io"
	"os"

	"github.com/opencontainers/go-digest"
)

// DigestArchive returns the canonical digest of the whole archive. Two
// scrubbed builds of identical inputs produce equal digests.
func DigestArchive(f ArchiveFile) (digest.Digest, error) {
	size, err := f.Size()
	if err != nil {
		return "", newScrubError(KindIO, err, "failed to determine archive size")
	}
	dgst, err := digest.FromReader(io.NewSectionReader(f, 0, size))
	if err != nil {
		return "", newScrubError(KindIO, err, "failed to digest archive")
	}
	return dgst, nil
}

// DigestPath opens path read-only and digests it
func DigestPath(path string) (digest.Digest, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", newScrubError(KindIO, err, "failed to open %s", path)
	}
	defer file.Close()
	return DigestArchive(NewOSFile(file))
}
