// Copyright 2021 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package pe

import (
	"bytes"
	"encoding/binary"
	"testing"
)

// buildMinimalCLRImage constructs, byte for byte, the smallest PE image this
// reader considers to carry a CLI metadata root: one section holding a
// COR20 header, a BSJB metadata root with #~/#Strings/#GUID/#Blob streams,
// and a tables stream with a single Module row. There is no real-world
// .dll/.exe fixture in this tree to load instead, so the locator and
// database-loading paths are exercised against a synthetic buffer built
// to match the struct layouts in dosheader.go/ntheader.go/section.go/
// dotnet.go exactly.
func buildMinimalCLRImage(t *testing.T) []byte {
	t.Helper()

	const (
		sectionVA      = 0x2000
		sectionPointer = 0x200
		sectionAlign   = 0x1000
		fileAlign      = 0x200
	)

	// #~ stream: 24-byte fixed header, a row-count prepass entry for the
	// Module table (id 0), and the Module table's single row (Generation,
	// Name, Mvid, EncId, EncBaseId; all 2-byte indices since Heaps == 0).
	tildeHdr := MetadataTableStreamHeader{
		Reserved:     0,
		MajorVersion: 2,
		MinorVersion: 0,
		Heaps:        0,
		RID:          0,
		MaskValid:    1 << tblModule,
		Sorted:       0,
	}
	var tilde bytes.Buffer
	if err := binary.Write(&tilde, binary.LittleEndian, tildeHdr); err != nil {
		t.Fatalf("building #~ stream header: %v", err)
	}
	binary.Write(&tilde, binary.LittleEndian, uint32(1)) // Module row count
	tilde.Write(make([]byte, 10))                         // one all-zero Module row
	tildeBytes := tilde.Bytes()

	stringsHeap := make([]byte, 4)
	guidHeap := make([]byte, 16)
	blobHeap := make([]byte, 4)

	// Metadata root: BSJB signature, version info, then one stream header
	// per heap/table stream, then the stream payloads themselves.
	var root bytes.Buffer
	root.WriteString("BSJB")
	binary.Write(&root, binary.LittleEndian, uint16(1)) // MajorVersion
	binary.Write(&root, binary.LittleEndian, uint16(1)) // MinorVersion
	binary.Write(&root, binary.LittleEndian, uint32(0)) // ExtraData
	version := []byte("v4.0.30319\x00\x00")              // 12 bytes, 4-byte aligned
	binary.Write(&root, binary.LittleEndian, uint32(len(version)))
	root.Write(version)
	root.WriteByte(0) // Flags
	root.WriteByte(0) // padding
	binary.Write(&root, binary.LittleEndian, uint16(4)) // Streams

	type streamHeader struct {
		name string
		data []byte
	}
	streams := []streamHeader{
		{"#~", tildeBytes},
		{"#Strings", stringsHeap},
		{"#GUID", guidHeap},
		{"#Blob", blobHeap},
	}

	// Stream headers reference their payload by an offset relative to the
	// metadata root; payloads are laid out contiguously right after all
	// the stream headers, so compute header sizes first.
	headerSize := 0
	for _, s := range streams {
		nameLen := len(s.name) + 1
		for nameLen%4 != 0 {
			nameLen++
		}
		headerSize += 8 + nameLen
	}

	payloadOff := root.Len() + headerSize
	for _, s := range streams {
		binary.Write(&root, binary.LittleEndian, uint32(payloadOff))
		binary.Write(&root, binary.LittleEndian, uint32(len(s.data)))
		name := []byte(s.name)
		nameLen := len(name) + 1
		for nameLen%4 != 0 {
			nameLen++
		}
		padded := make([]byte, nameLen)
		copy(padded, name)
		root.Write(padded)
		payloadOff += len(s.data)
	}
	for _, s := range streams {
		root.Write(s.data)
	}

	cor20Size := uint32(binary.Size(ImageCOR20Header{}))
	cor20 := ImageCOR20Header{
		Cb:                   cor20Size,
		MajorRuntimeVersion:  2,
		MinorRuntimeVersion:  5,
		MetaData:             ImageDataDirectory{VirtualAddress: sectionVA + cor20Size, Size: uint32(root.Len())},
		Flags:                0,
		EntryPointRVAorToken: 0,
	}

	var section bytes.Buffer
	if err := binary.Write(&section, binary.LittleEndian, cor20); err != nil {
		t.Fatalf("building COR20 header: %v", err)
	}
	section.Write(root.Bytes())
	sectionData := section.Bytes()

	dos := ImageDOSHeader{
		Magic:                 ImageDOSSignature,
		AddressOfNewEXEHeader: 64,
	}

	fileHdr := ImageFileHeader{
		Machine:              ImageFileHeaderMachineType(ImageFileMachineI386),
		NumberOfSections:     1,
		SizeOfOptionalHeader: uint16(binary.Size(ImageOptionalHeader32{})),
		Characteristics:      ImageFileExecutableImage,
	}

	optHdr := ImageOptionalHeader32{
		Magic:               ImageNtOptionalHeader32Magic,
		SectionAlignment:    sectionAlign,
		FileAlignment:       fileAlign,
		ImageBase:           0x400000,
		SizeOfImage:         sectionVA + uint32(len(sectionData)),
		SizeOfHeaders:       sectionPointer,
		NumberOfRvaAndSizes: 16,
	}
	optHdr.DataDirectory[ImageDirectoryEntryCLR] = DataDirectory{
		VirtualAddress: sectionVA,
		Size:           cor20.Cb,
	}

	secHdr := ImageSectionHeader{
		VirtualSize:      uint32(len(sectionData)),
		VirtualAddress:   sectionVA,
		SizeOfRawData:    uint32(len(sectionData)),
		PointerToRawData: sectionPointer,
	}
	copy(secHdr.Name[:], ".text0")

	var buf bytes.Buffer
	if err := binary.Write(&buf, binary.LittleEndian, dos); err != nil {
		t.Fatalf("building DOS header: %v", err)
	}

	binary.Write(&buf, binary.LittleEndian, uint32(ImageNTSignature))
	if err := binary.Write(&buf, binary.LittleEndian, fileHdr); err != nil {
		t.Fatalf("building file header: %v", err)
	}
	if err := binary.Write(&buf, binary.LittleEndian, optHdr); err != nil {
		t.Fatalf("building optional header: %v", err)
	}
	if err := binary.Write(&buf, binary.LittleEndian, secHdr); err != nil {
		t.Fatalf("building section header: %v", err)
	}

	for buf.Len() < sectionPointer {
		buf.WriteByte(0)
	}
	buf.Write(sectionData)

	return buf.Bytes()
}
