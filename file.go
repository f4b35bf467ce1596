// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package pe

import (
	"os"

	mmap "github.com/edsrzf/mmap-go"

	"github.com/clrmeta/clrmeta/internal/log"
)

// A File represents a PE image that has been located and validated as far
// as its CLI metadata root, plus the metadata database parsed from it.
// Everything about the general PE loader beyond that locator role (import
// and export tables, relocations, resources, rich header, TLS, load
// config, bound/delay imports, debug and exception directories,
// Authenticode certificates, overlay, version info, icons, COFF symbols)
// is out of scope for this reader and has been removed, not merely left
// unused.
type File struct {
	DOSHeader ImageDOSHeader `json:"dos_header,omitempty"`
	NtHeader  ImageNtHeader  `json:"nt_header,omitempty"`
	Sections  []Section      `json:"sections,omitempty"`
	CLR       CLRData        `json:"clr,omitempty"`
	Anomalies []string       `json:"anomalies,omitempty"`
	FileInfo

	// Metadata is the parsed CLI metadata database, populated once
	// ParseDataDirectories (via Parse) has located the metadata root.
	// It is nil until then.
	Metadata *Database

	Header []byte
	data   mmap.MMap
	size   uint32
	f      *os.File
	opts   *Options
	logger *log.Helper
}

// Options controls parsing.
type Options struct {
	// Fast skips data directory parsing (and therefore CLI metadata
	// loading); only the DOS/NT/section headers are parsed.
	Fast bool

	// SectionEntropy includes per-section entropy, by default (false).
	SectionEntropy bool

	// Logger is a custom logger; if nil, a logger writing to os.Stdout at
	// LevelError and above is used.
	Logger log.Logger
}

// New instantiates a file instance with options given a file name. The
// file is memory-mapped read-only for the lifetime of the returned File;
// call Close to release it.
func New(name string, opts *Options) (*File, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}

	data, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		f.Close()
		return nil, err
	}

	file := File{}
	if opts != nil {
		file.opts = opts
	} else {
		file.opts = &Options{}
	}
	file.logger = newLogger(file.opts)

	file.data = data
	file.size = uint32(len(file.data))
	file.f = f
	return &file, nil
}

// NewBytes instantiates a file instance with options given a memory
// buffer the caller retains ownership of. Unlike New, Close does not
// unmap or release data.
func NewBytes(data []byte, opts *Options) (*File, error) {
	file := File{}
	if opts != nil {
		file.opts = opts
	} else {
		file.opts = &Options{}
	}
	file.logger = newLogger(file.opts)

	file.data = data
	file.size = uint32(len(file.data))
	return &file, nil
}

func newLogger(opts *Options) *log.Helper {
	if opts.Logger == nil {
		base := log.NewStdLogger(os.Stdout)
		return log.NewHelper(log.NewFilter(base, log.FilterLevel(log.LevelError)))
	}
	return log.NewHelper(opts.Logger)
}

// Close closes the File, unmapping it if it owns its backing mmap.
func (pe *File) Close() error {
	if pe.data != nil {
		_ = pe.data.Unmap()
	}
	if pe.f != nil {
		return pe.f.Close()
	}
	return nil
}

// Parse performs the file parsing: DOS header, NT header, section table,
// then (unless Options.Fast is set) the CLI metadata database.
func (pe *File) Parse() error {
	if len(pe.data) < TinyPESize {
		return ErrInvalidPESize
	}

	if err := pe.ParseDOSHeader(); err != nil {
		return err
	}

	if err := pe.ParseNTHeader(); err != nil {
		return err
	}

	if err := pe.ParseSectionHeader(); err != nil {
		return err
	}

	if pe.opts.Fast {
		return nil
	}

	return pe.ParseDataDirectories()
}

// String stringifies a data directory entry.
func (entry ImageDirectoryEntry) String() string {
	if entry == ImageDirectoryEntryCLR {
		return "CLR"
	}
	if entry == ImageDirectoryEntryReserved {
		return "Reserved"
	}
	return "Unused"
}

// ParseDataDirectories walks the data directory array and parses the one
// directory this reader understands: the CLI/COM+ runtime header. Every
// other directory is part of the general PE loader and is skipped.
func (pe *File) ParseDataDirectories() error {
	oh32 := ImageOptionalHeader32{}
	oh64 := ImageOptionalHeader64{}

	switch pe.Is64 {
	case true:
		oh64 = pe.NtHeader.OptionalHeader.(ImageOptionalHeader64)
	case false:
		oh32 = pe.NtHeader.OptionalHeader.(ImageOptionalHeader32)
	}

	var va, size uint32
	switch pe.Is64 {
	case true:
		dirEntry := oh64.DataDirectory[ImageDirectoryEntryCLR]
		va, size = dirEntry.VirtualAddress, dirEntry.Size
	case false:
		dirEntry := oh32.DataDirectory[ImageDirectoryEntryCLR]
		va, size = dirEntry.VirtualAddress, dirEntry.Size
	}

	if va == 0 {
		return nil
	}

	if err := pe.parseCLRHeaderDirectory(va, size); err != nil {
		pe.logger.Warnf("failed to parse CLR directory: %v", err)
		return err
	}
	return nil
}
