package arscrub

import (
	"strings"
)

// entryMetadata is one decoded 60-byte record. Only the size is parsed;
// the other fields keep their raw bytes.
type entryMetadata struct {
	Name     []byte
	ModTime  []byte
	OwnerID  []byte
	GroupID  []byte
	FileMode []byte
	FileSize int64
	Magic    []byte
}

// decodeEntryMetadata decodes the fields of buf left to right
func decodeEntryMetadata(buf []byte) (*entryMetadata, error) {
	var (
		meta entryMetadata
		off  int
		err  error
	)

	if meta.Name, off, err = DecodeFixedBytes(buf, off, FileNameWidth); err != nil {
		return nil, err
	}
	if meta.ModTime, off, err = DecodeFixedBytes(buf, off, ModTimeWidth); err != nil {
		return nil, err
	}
	if meta.OwnerID, off, err = DecodeFixedBytes(buf, off, OwnerIDWidth); err != nil {
		return nil, err
	}
	if meta.GroupID, off, err = DecodeFixedBytes(buf, off, GroupIDWidth); err != nil {
		return nil, err
	}
	if meta.FileMode, off, err = DecodeFixedBytes(buf, off, FileModeWidth); err != nil {
		return nil, err
	}
	if meta.FileSize, off, err = DecodeDecimal(buf, off, FileSizeWidth); err != nil {
		return nil, err
	}
	if meta.Magic, _, err = DecodeFixedBytes(buf, off, FileMagicWidth); err != nil {
		return nil, err
	}

	return &meta, nil
}

// hasValidMagic reports whether the record ends with the end-of-header marker
func (m *entryMetadata) hasValidMagic() bool {
	return len(m.Magic) == FileMagicWidth &&
		m.Magic[0] == EndOfFileHeaderMarker[0] && m.Magic[1] == EndOfFileHeaderMarker[1]
}

// MemberName returns the name with padding and a GNU-style trailing slash removed
func (m *entryMetadata) MemberName() string {
	name := strings.TrimRight(string(m.Name), " ")
	if name != "/" && name != "//" {
		name = strings.TrimSuffix(name, "/")
	}
	return name
}

// dataSpan returns the bytes between this record and the next one
func (m *entryMetadata) dataSpan() int64 {
	return m.FileSize + m.FileSize%2
}

// encodeScrubbedFields overwrites mtime, uid, gid and mode in buf. The name,
// size and magic bytes are left as they are.
func encodeScrubbedFields(buf []byte, fileMode int64) error {
	if _, err := EncodeDecimal(buf, offsetModTime, 0, ModTimeWidth); err != nil {
		return err
	}
	if _, err := EncodeDecimal(buf, offsetOwnerID, 0, OwnerIDWidth); err != nil {
		return err
	}
	if _, err := EncodeDecimal(buf, offsetGroupID, 0, GroupIDWidth); err != nil {
		return err
	}
	if _, err := EncodeOctal(buf, offsetFileMode, fileMode, FileModeWidth); err != nil {
		return err
	}
	return nil
}
