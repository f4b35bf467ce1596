package pe

import (
	"fmt"
	"unicode/utf8"
)

// decodeCompressedUnsigned reads one ECMA-335 §II.23.2 compressed unsigned
// integer from the front of data and returns its value together with the
// number of bytes it occupied (1, 2, or 4). It is grounded on the
// uncompress_unsigned routine and its test vectors in the original
// schema's signature decoder.
func decodeCompressedUnsigned(data []byte) (value uint32, size int, err error) {
	if len(data) == 0 {
		return 0, 0, fmt.Errorf("%w: empty input", ErrInvalidCompressedInteger)
	}
	b0 := data[0]
	switch {
	case b0&0x80 == 0:
		return uint32(b0), 1, nil
	case b0&0xc0 == 0x80:
		if len(data) < 2 {
			return 0, 0, fmt.Errorf("%w: truncated 2-byte form", ErrInvalidCompressedInteger)
		}
		return uint32(b0&0x3f)<<8 | uint32(data[1]), 2, nil
	case b0&0xe0 == 0xc0:
		if len(data) < 4 {
			return 0, 0, fmt.Errorf("%w: truncated 4-byte form", ErrInvalidCompressedInteger)
		}
		return uint32(b0&0x1f)<<24 | uint32(data[1])<<16 | uint32(data[2])<<8 | uint32(data[3]), 4, nil
	default:
		return 0, 0, fmt.Errorf("%w: leading byte 0x%02x", ErrInvalidCompressedInteger, b0)
	}
}

// string looks up a NUL-terminated UTF-8 entry in the #Strings heap.
// Index 0 always denotes the empty string (ECMA-335 §II.24.2.3).
func (db *Database) string(index uint32) (string, error) {
	if index == 0 {
		return "", nil
	}
	if int(index) >= len(db.strings) {
		return "", fmt.Errorf("%w: string heap index %d out of range", ErrInvalidRowIndex, index)
	}
	view := db.strings[index:]
	end := 0
	for end < len(view) && view[end] != 0 {
		end++
	}
	if end == len(view) {
		return "", fmt.Errorf("%w: unterminated string heap entry at %d", ErrInvalidUTF8String, index)
	}
	s := view[:end]
	if !utf8.Valid(s) {
		return "", fmt.Errorf("%w: at heap index %d", ErrInvalidUTF8String, index)
	}
	return string(s), nil
}

// blob looks up a length-prefixed entry in the #Blob heap. Index 0 always
// denotes a zero-length blob.
func (db *Database) blob(index uint32) ([]byte, error) {
	if index == 0 {
		return nil, nil
	}
	if int(index) >= len(db.blobs) {
		return nil, fmt.Errorf("%w: blob heap index %d out of range", ErrInvalidRowIndex, index)
	}
	view := db.blobs[index:]
	size, n, err := decodeCompressedUnsigned(view)
	if err != nil {
		return nil, err
	}
	start := n
	end := start + int(size)
	if end > len(view) {
		return nil, fmt.Errorf("%w: blob heap entry at %d runs past end of heap", ErrInvalidRowIndex, index)
	}
	return view[start:end], nil
}

// guid looks up a 16-byte entry in the #GUID heap. The heap is indexed
// 1-based; index 0 denotes "no GUID".
func (db *Database) guid(index uint32) ([16]byte, bool) {
	var out [16]byte
	if index == 0 {
		return out, false
	}
	off := (index - 1) * 16
	if int(off+16) > len(db.guids) {
		return out, false
	}
	copy(out[:], db.guids[off:off+16])
	return out, true
}
