package arscrub

import (
	"encoding/binary"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Binary field codec. Every function takes the buffer and an explicit offset
// and returns the offset just past the field, so decode and encode over the
// same record never share a cursor.

// checkSpan validates that n bytes are available at off
func checkSpan(buf []byte, off, n int, what string) error {
	if off < 0 || n < 0 || off > len(buf) || len(buf)-off < n {
		return newScrubError(KindTruncation, nil,
			"%s: need %d bytes at offset %d, buffer has %d", what, n, off, len(buf))
	}
	return nil
}

// DecodeFixedBytes returns a copy of exactly n bytes at off
func DecodeFixedBytes(buf []byte, off, n int) ([]byte, int, error) {
	if err := checkSpan(buf, off, n, "fixed bytes"); err != nil {
		return nil, off, err
	}
	out := make([]byte, n)
	copy(out, buf[off:off+n])
	return out, off + n, nil
}

func decodeInteger(buf []byte, off, n, base int, what string) (int64, int, error) {
	raw, next, err := DecodeFixedBytes(buf, off, n)
	if err != nil {
		return 0, off, err
	}
	text := strings.TrimSpace(string(raw))
	value, err := strconv.ParseInt(text, base, 64)
	if err != nil {
		return 0, off, newScrubError(KindEncoding, err, "invalid %s field %q at offset %d", what, text, off)
	}
	return value, next, nil
}

// DecodeDecimal parses an n-byte, space-padded ASCII decimal field
func DecodeDecimal(buf []byte, off, n int) (int64, int, error) {
	return decodeInteger(buf, off, n, 10, "decimal")
}

// DecodeOctal parses an n-byte, space-padded ASCII octal field
func DecodeOctal(buf []byte, off, n int) (int64, int, error) {
	return decodeInteger(buf, off, n, 8, "octal")
}

// EncodePaddedASCII writes text left-padded with spaces to exactly n bytes.
// Text longer than the field is rejected, never truncated.
func EncodePaddedASCII(buf []byte, off int, text string, n int) (int, error) {
	if len(text) > n {
		return off, newScrubError(KindEncoding, nil,
			"value %q does not fit in %d byte field", text, n)
	}
	for i := 0; i < len(text); i++ {
		if text[i] > 0x7F {
			return off, newScrubError(KindEncoding, nil, "value %q is not ASCII", text)
		}
	}
	if err := checkSpan(buf, off, n, "padded field"); err != nil {
		return off, err
	}

	pad := n - len(text)
	for i := 0; i < pad; i++ {
		buf[off+i] = ' '
	}
	copy(buf[off+pad:off+n], text)
	return off + n, nil
}

// EncodeDecimal renders value in base 10 into an n-byte field
func EncodeDecimal(buf []byte, off int, value int64, n int) (int, error) {
	return EncodePaddedASCII(buf, off, strconv.FormatInt(value, 10), n)
}

// EncodeOctal renders value in base 8 with a leading zero digit into an n-byte field
func EncodeOctal(buf []byte, off int, value int64, n int) (int, error) {
	if value < 0 {
		return off, newScrubError(KindEncoding, nil, "negative octal value %d", value)
	}
	return EncodePaddedASCII(buf, off, fmt.Sprintf("0%o", value), n)
}

func checkWidth(width int) error {
	switch width {
	case 2, 4, 8:
		return nil
	}
	return newScrubError(KindEncoding, nil, "unsupported little-endian width %d", width)
}

// DecodeLittleEndian reads a signed two's-complement integer of width 2, 4 or 8
func DecodeLittleEndian(buf []byte, off, width int) (int64, int, error) {
	if err := checkWidth(width); err != nil {
		return 0, off, err
	}
	if err := checkSpan(buf, off, width, "little-endian field"); err != nil {
		return 0, off, err
	}

	span := buf[off : off+width]
	var value int64
	switch width {
	case 2:
		value = int64(int16(binary.LittleEndian.Uint16(span)))
	case 4:
		value = int64(int32(binary.LittleEndian.Uint32(span)))
	case 8:
		value = int64(binary.LittleEndian.Uint64(span))
	}
	return value, off + width, nil
}

// EncodeLittleEndian writes value as a signed integer of width 2, 4 or 8.
// Values outside the signed range of width are rejected.
func EncodeLittleEndian(buf []byte, off int, value int64, width int) (int, error) {
	if err := checkWidth(width); err != nil {
		return off, err
	}
	var lo, hi int64
	switch width {
	case 2:
		lo, hi = math.MinInt16, math.MaxInt16
	case 4:
		lo, hi = math.MinInt32, math.MaxInt32
	case 8:
		lo, hi = math.MinInt64, math.MaxInt64
	}
	if value < lo || value > hi {
		return off, newScrubError(KindEncoding, nil, "value %d does not fit in %d bytes", value, width)
	}
	if err := checkSpan(buf, off, width, "little-endian field"); err != nil {
		return off, err
	}

	span := buf[off : off+width]
	switch width {
	case 2:
		binary.LittleEndian.PutUint16(span, uint16(value))
	case 4:
		binary.LittleEndian.PutUint32(span, uint32(value))
	case 8:
		binary.LittleEndian.PutUint64(span, uint64(value))
	}
	return off + width, nil
}

// DecodeNullTerminatedASCII returns the text before the next zero byte at or
// after off, and the offset just past that terminator.
func DecodeNullTerminatedASCII(buf []byte, off int) (string, int, error) {
	if err := checkSpan(buf, off, 0, "null-terminated string"); err != nil {
		return "", off, err
	}
	for i := off; i < len(buf); i++ {
		if buf[i] == 0 {
			return string(buf[off:i]), i + 1, nil
		}
	}
	return "", off, newScrubError(KindTruncation, nil,
		"no terminator after offset %d (buffer has %d bytes)", off, len(buf))
}

// EncodeNullTerminatedASCII writes text followed by a single zero byte
func EncodeNullTerminatedASCII(buf []byte, off int, text string) (int, error) {
	for i := 0; i < len(text); i++ {
		if text[i] == 0 || text[i] > 0x7F {
			return off, newScrubError(KindEncoding, nil, "value %q is not a NUL-free ASCII string", text)
		}
	}
	if err := checkSpan(buf, off, len(text)+1, "null-terminated string"); err != nil {
		return off, err
	}
	copy(buf[off:], text)
	buf[off+len(text)] = 0
	return off + len(text) + 1, nil
}
