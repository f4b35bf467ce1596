// Copyright 2021 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package pe

import "testing"

func TestNewBytesTooSmall(t *testing.T) {
	file, err := NewBytes([]byte{0x4d, 0x5a}, nil)
	if err != nil {
		t.Fatalf("NewBytes() failed, reason: %v", err)
	}

	err = file.Parse()
	if err != ErrInvalidPESize {
		t.Errorf("Parse() got %v, want %v", err, ErrInvalidPESize)
	}
}

func TestParseFastSkipsDataDirectories(t *testing.T) {
	data := buildMinimalCLRImage(t)

	file, err := NewBytes(data, &Options{Fast: true})
	if err != nil {
		t.Fatalf("NewBytes() failed, reason: %v", err)
	}

	if err := file.Parse(); err != nil {
		t.Fatalf("Parse() failed, reason: %v", err)
	}

	if file.HasCLR {
		t.Errorf("Parse() with Fast set should not have located the CLR header")
	}
	if file.Metadata != nil {
		t.Errorf("Parse() with Fast set should leave Metadata nil")
	}
}

func TestParseLocatesMetadata(t *testing.T) {
	data := buildMinimalCLRImage(t)

	file, err := NewBytes(data, nil)
	if err != nil {
		t.Fatalf("NewBytes() failed, reason: %v", err)
	}

	if err := file.Parse(); err != nil {
		t.Fatalf("Parse() failed, reason: %v", err)
	}

	if !file.HasCLR {
		t.Fatalf("Parse() did not locate the CLR header")
	}
	if file.Metadata == nil {
		t.Fatalf("Parse() did not populate Metadata")
	}
}
