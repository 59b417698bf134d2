package arscrub

import (
	"bytes"
	"errors"
	"io"
)

// ValidateGlobalHeader checks that the archive starts with expected.
// A file shorter than the signature is a mismatch, not a truncation.
func ValidateGlobalHeader(f ArchiveFile, expected []byte) error {
	defer VerboseEnter()()

	if len(expected) == 0 {
		return newScrubError(KindFormat, nil, "empty global header signature")
	}

	header := make([]byte, len(expected))
	n, err := f.ReadAt(header, 0)
	if err != nil && !errors.Is(err, io.EOF) {
		return newScrubError(KindIO, err, "failed to read global header")
	}
	DebugLog(DebugIO, "read %d/%d global header bytes", n, len(expected))

	return checkArchive(n == len(expected) && bytes.Equal(header, expected), KindFormat, "invalid global header")
}
