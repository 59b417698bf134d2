package arscrub

import (
	"sort"
	"strings"
)

// Entry metadata record layout (all fields are ASCII text)
const (
	EntrySize = 60 // name(16) + mtime(12) + uid(6) + gid(6) + mode(8) + size(10) + magic(2)

	FileNameWidth  = 16
	ModTimeWidth   = 12
	OwnerIDWidth   = 6
	GroupIDWidth   = 6
	FileModeWidth  = 8
	FileSizeWidth  = 10
	FileMagicWidth = 2
)

// Field offsets within an entry metadata record
const (
	offsetFileName  = 0
	offsetModTime   = offsetFileName + FileNameWidth
	offsetOwnerID   = offsetModTime + ModTimeWidth
	offsetGroupID   = offsetOwnerID + OwnerIDWidth
	offsetFileMode  = offsetGroupID + GroupIDWidth
	offsetFileSize  = offsetFileMode + FileModeWidth
	offsetFileMagic = offsetFileSize + FileSizeWidth
)

// EndOfFileHeaderMarker terminates every entry metadata record ("`\n")
var EndOfFileHeaderMarker = [FileMagicWidth]byte{0x60, 0x0A}

// CanonicalFileMode is the mode written to every entry: regular file, rw-r--r--
const CanonicalFileMode int64 = 0100644

// Global header signatures
const (
	GlobalHeaderArch = "!<arch>\n" // GNU and BSD ar
	GlobalHeaderThin = "!<thin>\n" // GNU thin archives
)

// Archive variant names
const (
	VariantGNU    = "gnu"
	VariantBSD    = "bsd"
	VariantThin   = "thin"
	VariantCustom = "custom"
)

var variantHeaders = map[string]string{
	VariantGNU:  GlobalHeaderArch,
	VariantBSD:  GlobalHeaderArch,
	VariantThin: GlobalHeaderThin,
}

// VariantHeader returns the global header signature for a variant name (case-insensitive)
func VariantHeader(name string) ([]byte, bool) {
	header, ok := variantHeaders[strings.ToLower(name)]
	if !ok {
		return nil, false
	}
	return []byte(header), true
}

// VariantNames returns the known variant names in sorted order
func VariantNames() []string {
	names := make([]string, 0, len(variantHeaders))
	for name := range variantHeaders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Report contexts for the member table
const (
	ChangedContext   = "changed"
	UnchangedContext = "unchanged"
)
