package arscrub

import (
	"bytes"
	"errors"
	"fmt"
	"io"
)

// FileScrubber removes non-deterministic data from an open file in place
type FileScrubber interface {
	ScrubFile(f ArchiveFile) error
}

// scrubState is a position of the entry scrub loop
type scrubState int

const (
	stateAtEntry scrubState = iota
	stateValidated
	stateScrubbed
	stateDone
)

func (s scrubState) String() string {
	switch s {
	case stateAtEntry:
		return "at-entry"
	case stateValidated:
		return "validated"
	case stateScrubbed:
		return "scrubbed"
	case stateDone:
		return "done"
	default:
		return "unknown"
	}
}

// DateUIDGIDScrubber zeroes modification times, owner IDs and group IDs and
// normalises the file mode of every entry in an ar archive.
type DateUIDGIDScrubber struct {
	expectedGlobalHeader []byte
	fileMode             int64
}

// ScrubberOption configures a DateUIDGIDScrubber
type ScrubberOption func(*DateUIDGIDScrubber)

// WithFileMode replaces the canonical mode written to every entry
func WithFileMode(mode int64) ScrubberOption {
	return func(s *DateUIDGIDScrubber) {
		s.fileMode = mode
	}
}

// NewDateUIDGIDScrubber returns a scrubber for archives starting with expectedGlobalHeader
func NewDateUIDGIDScrubber(expectedGlobalHeader []byte, opts ...ScrubberOption) *DateUIDGIDScrubber {
	header := make([]byte, len(expectedGlobalHeader))
	copy(header, expectedGlobalHeader)

	s := &DateUIDGIDScrubber{
		expectedGlobalHeader: header,
		fileMode:             CanonicalFileMode,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ScrubFile implements FileScrubber
func (s *DateUIDGIDScrubber) ScrubFile(f ArchiveFile) error {
	_, err := s.Scrub(f)
	return err
}

// Scrub runs one pass over f and reports what it visited. On failure the
// report covers the entries rewritten before the failing one; the pass is
// not transactional.
func (s *DateUIDGIDScrubber) Scrub(f ArchiveFile) (*ScrubReport, error) {
	defer VerboseEnter()()

	report := newScrubReport()

	if err := ValidateGlobalHeader(f, s.expectedGlobalHeader); err != nil {
		return report, err
	}

	fileSize, err := f.Size()
	if err != nil {
		return report, newScrubError(KindIO, err, "failed to determine archive size")
	}
	VerboseLog(1, "Scrubbing archive (%d bytes)", fileSize)

	buffer := make([]byte, EntrySize)
	original := make([]byte, EntrySize)
	offset := int64(len(s.expectedGlobalHeader))
	state := stateAtEntry
	if offset >= fileSize {
		state = stateDone
	}

	for state != stateDone {
		next, member, err := s.scrubEntry(f, fileSize, offset, buffer, original)
		if err != nil {
			report.FinalOffset = offset
			return report, fmt.Errorf("entry %d at offset %d: %w", report.Entries, offset, err)
		}
		report.record(member)

		offset = next
		state = stateAtEntry
		if offset >= fileSize {
			state = stateDone
		}
		DebugLog(DebugEntries, "-> %s (offset %d)", state, offset)
	}

	report.FinalOffset = offset
	VerboseLog(1, "Scrubbed %d entries (%d changed)", report.Entries, report.Changed)
	return report, nil
}

// scrubEntry takes one entry from stateAtEntry to stateScrubbed and returns
// the offset of the next record.
func (s *DateUIDGIDScrubber) scrubEntry(f ArchiveFile, fileSize, offset int64, buffer, original []byte) (int64, Member, error) {
	if err := checkArchive(fileSize-offset >= EntrySize, KindTruncation, "invalid entry metadata format"); err != nil {
		return offset, Member{}, err
	}

	read, err := f.ReadAt(buffer, offset)
	if err != nil && !errors.Is(err, io.EOF) {
		return offset, Member{}, newScrubError(KindIO, err, "failed to read entry metadata")
	}
	if err := checkArchive(read == EntrySize, KindTruncation, "not all bytes have been read"); err != nil {
		return offset, Member{}, err
	}
	DebugLog(DebugIO, "read %d bytes at %d", read, offset)
	copy(original, buffer)

	meta, err := decodeEntryMetadata(buffer)
	if err != nil {
		return offset, Member{}, err
	}
	if err := checkArchive(meta.hasValidMagic(), KindFormat, "invalid file magic"); err != nil {
		return offset, Member{}, err
	}
	if meta.FileSize < 0 || meta.FileSize > fileSize-offset-EntrySize {
		return offset, Member{}, newScrubError(KindTruncation, nil,
			"entry data of %d bytes exceeds archive bounds", meta.FileSize)
	}
	DebugLog(DebugEntries, "-> %s %q size %d", stateValidated, meta.MemberName(), meta.FileSize)

	if err := encodeScrubbedFields(buffer, s.fileMode); err != nil {
		return offset, Member{}, err
	}

	written, err := f.WriteAt(buffer, offset)
	if written != EntrySize {
		return offset, Member{}, newScrubError(KindIO, err, "not all bytes have been written")
	}
	if err != nil {
		return offset, Member{}, newScrubError(KindIO, err, "failed to write entry metadata")
	}
	DebugLog(DebugEntries, "-> %s %q", stateScrubbed, meta.MemberName())

	member := Member{
		Name:     meta.MemberName(),
		Offset:   offset,
		DataSize: meta.FileSize,
		Changed:  !bytes.Equal(original, buffer),
	}
	VerboseLog(2, "Entry %q at %d: %d data bytes (changed: %t)", member.Name, offset, member.DataSize, member.Changed)

	return offset + EntrySize + meta.dataSpan(), member, nil
}

var _ FileScrubber = (*DateUIDGIDScrubber)(nil)
