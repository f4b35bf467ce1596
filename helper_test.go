// Copyright 2021 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package pe

import "testing"

func TestMax(t *testing.T) {
	if got := Max(3, 7); got != 7 {
		t.Errorf("Max(3, 7) = %d, want 7", got)
	}
	if got := Max(7, 3); got != 7 {
		t.Errorf("Max(7, 3) = %d, want 7", got)
	}
}

func TestMin(t *testing.T) {
	if got := Min([]uint32{5, 1, 9, 3}); got != 1 {
		t.Errorf("Min() = %d, want 1", got)
	}
}

func TestIsBitSet(t *testing.T) {
	cases := []struct {
		n    uint64
		pos  int
		want bool
	}{
		{0b0001, 0, true},
		{0b0001, 1, false},
		{0b0100, 2, true},
		{0b0100, 0, false},
	}
	for _, c := range cases {
		if got := IsBitSet(c.n, c.pos); got != c.want {
			t.Errorf("IsBitSet(%b, %d) = %v, want %v", c.n, c.pos, got, c.want)
		}
	}
}

func TestDecodeUTF16String(t *testing.T) {
	// "Hi" encoded as UTF-16LE, null-terminated.
	b := []byte{'H', 0, 'i', 0, 0, 0}
	got, err := DecodeUTF16String(b)
	if err != nil {
		t.Fatalf("DecodeUTF16String() failed, reason: %v", err)
	}
	if got != "Hi" {
		t.Errorf("DecodeUTF16String() = %q, want %q", got, "Hi")
	}
}

func TestDecodeUTF16StringEmpty(t *testing.T) {
	got, err := DecodeUTF16String([]byte{0, 0})
	if err != nil {
		t.Fatalf("DecodeUTF16String() failed, reason: %v", err)
	}
	if got != "" {
		t.Errorf("DecodeUTF16String() = %q, want empty string", got)
	}
}

func TestReadUintAccessors(t *testing.T) {
	data := []byte{
		0x11, 0x22, 0x33, 0x44,
		0x55, 0x66, 0x77, 0x88,
	}
	file, err := NewBytes(data, nil)
	if err != nil {
		t.Fatalf("NewBytes() failed, reason: %v", err)
	}

	if got, err := file.ReadUint8(0); err != nil || got != 0x11 {
		t.Errorf("ReadUint8(0) = %#x, %v, want 0x11, nil", got, err)
	}
	if got, err := file.ReadUint16(0); err != nil || got != 0x2211 {
		t.Errorf("ReadUint16(0) = %#x, %v, want 0x2211, nil", got, err)
	}
	if got, err := file.ReadUint32(0); err != nil || got != 0x44332211 {
		t.Errorf("ReadUint32(0) = %#x, %v, want 0x44332211, nil", got, err)
	}
	if got, err := file.ReadUint64(0); err != nil || got != 0x8877665544332211 {
		t.Errorf("ReadUint64(0) = %#x, %v, want 0x8877665544332211, nil", got, err)
	}

	if _, err := file.ReadUint32(6); err != ErrOutsideBoundary {
		t.Errorf("ReadUint32(6) got %v, want %v", err, ErrOutsideBoundary)
	}
}

func TestReadBytesAtOffset(t *testing.T) {
	data := []byte{1, 2, 3, 4, 5}
	file, err := NewBytes(data, nil)
	if err != nil {
		t.Fatalf("NewBytes() failed, reason: %v", err)
	}

	got, err := file.ReadBytesAtOffset(1, 3)
	if err != nil {
		t.Fatalf("ReadBytesAtOffset() failed, reason: %v", err)
	}
	want := []byte{2, 3, 4}
	if len(got) != len(want) {
		t.Fatalf("ReadBytesAtOffset() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("ReadBytesAtOffset()[%d] = %d, want %d", i, got[i], want[i])
		}
	}

	if _, err := file.ReadBytesAtOffset(3, 10); err != ErrOutsideBoundary {
		t.Errorf("ReadBytesAtOffset() out of range got %v, want %v", err, ErrOutsideBoundary)
	}
}
