package pe

import (
	"errors"
	"testing"
)

func TestDecodeCompressedUnsigned(t *testing.T) {
	cases := []struct {
		name     string
		data     []byte
		wantVal  uint32
		wantSize int
	}{
		{"1-byte min", []byte{0x03}, 3, 1},
		{"1-byte max", []byte{0x7F}, 127, 1},
		{"2-byte min", []byte{0x80, 0x80}, 128, 2},
		{"2-byte mid", []byte{0xAE, 0x57}, 0x2E57, 2},
		{"2-byte max", []byte{0xBF, 0xFF}, 0x3FFF, 2},
		{"4-byte min", []byte{0xC0, 0x00, 0x40, 0x00}, 0x4000, 4},
		{"4-byte max", []byte{0xDF, 0xFF, 0xFF, 0xFF}, 0x1FFFFFFF, 4},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			val, size, err := decodeCompressedUnsigned(c.data)
			if err != nil {
				t.Fatalf("decodeCompressedUnsigned(%x) failed, reason: %v", c.data, err)
			}
			if val != c.wantVal || size != c.wantSize {
				t.Errorf("decodeCompressedUnsigned(%x) = %#x, %d, want %#x, %d", c.data, val, size, c.wantVal, c.wantSize)
			}
		})
	}
}

func TestDecodeCompressedUnsignedEmpty(t *testing.T) {
	_, _, err := decodeCompressedUnsigned(nil)
	if !errors.Is(err, ErrInvalidCompressedInteger) {
		t.Errorf("decodeCompressedUnsigned(nil) err = %v, want %v", err, ErrInvalidCompressedInteger)
	}
}

func TestDatabaseString(t *testing.T) {
	// "\0Foo\0Bar\0": index 0 is the empty string every heap starts with,
	// 1 reaches the "Foo" entry, 5 reaches "Bar".
	db := &Database{strings: []byte("\x00Foo\x00Bar\x00")}

	cases := []struct {
		index uint32
		want  string
	}{
		{0, ""},
		{1, "Foo"},
		{5, "Bar"},
	}
	for _, c := range cases {
		got, err := db.string(c.index)
		if err != nil {
			t.Fatalf("db.string(%d) failed, reason: %v", c.index, err)
		}
		if got != c.want {
			t.Errorf("db.string(%d) = %q, want %q", c.index, got, c.want)
		}
	}
}

func TestDatabaseStringInvalidUTF8(t *testing.T) {
	db := &Database{strings: []byte("\x00\xff\xfe\x00")}
	if _, err := db.string(1); !errors.Is(err, ErrInvalidUTF8String) {
		t.Errorf("db.string(1) err = %v, want %v", err, ErrInvalidUTF8String)
	}
}
