package pe

import (
	"encoding/binary"
	"fmt"
)

// Database is the parsed CLI metadata database of a PE image: the 38
// metadata tables plus the three backing heaps (#Strings, #Blob, #GUID).
// It is read-only and holds no more than slices into the image's backing
// bytes; no table row is copied out until an accessor method does so.
//
// The load algorithm (row-count prepass over MaskValid, then column-width
// resolution, then row-slicing in table load order) is grounded directly
// on Database::load in the original schema's core/db.rs.
type Database struct {
	strings []byte
	blobs   []byte
	guids   []byte
	tables  map[tableID]*rawTable
}

// IsDatabase reports whether name is a PE image carrying a CLI metadata
// root. It parses the PE headers and the CLI header and loads the full
// metadata database before reporting; it does not stop at a check of the
// signatures alone, so a malformed tables stream makes it return an error.
func IsDatabase(name string) (bool, error) {
	f, err := New(name, &Options{Fast: true})
	if err != nil {
		return false, err
	}
	defer f.Close()
	if err := f.Parse(); err != nil {
		return false, err
	}
	if err := f.ParseDataDirectories(); err != nil {
		return false, err
	}
	return f.HasCLR, nil
}

// LoadFile opens name, memory-maps it, and parses its CLI metadata
// database. The returned Database remains valid only as long as the
// caller also keeps the returned *File open; call Close on it when done.
func LoadFile(name string) (*Database, *File, error) {
	f, err := New(name, nil)
	if err != nil {
		return nil, nil, err
	}
	if err := f.Parse(); err != nil {
		f.Close()
		return nil, nil, err
	}
	if !f.HasCLR || f.Metadata == nil {
		f.Close()
		return nil, nil, ErrMissingMetadataRoot
	}
	return f.Metadata, f, nil
}

// Load parses the CLI metadata database out of an in-memory PE image. The
// returned Database retains slices into data; the caller must keep data
// alive for as long as the Database is in use.
func Load(data []byte) (*Database, error) {
	f, err := NewBytes(data, nil)
	if err != nil {
		return nil, err
	}
	if err := f.Parse(); err != nil {
		return nil, err
	}
	if !f.HasCLR || f.Metadata == nil {
		return nil, ErrMissingMetadataRoot
	}
	return f.Metadata, nil
}

// needs4ByteIndex reports whether a table of rowCount rows needs a 4-byte
// index when tagBits bits of a coded index (0 for a plain simple index)
// are spent on a tag, per ECMA-335's compressed-index rule.
func needs4ByteIndex(rowCount uint32, tagBits uint) bool {
	return rowCount >= uint32(1)<<(16-tagBits)
}

// loadDatabase runs the three-pass load: row-count prepass over
// MaskValid, then column-width resolution (every dynamic column's width
// depends on the row counts just read), then row-slicing in the fixed
// physical table order. body is the tables stream with its 24-byte fixed
// header already consumed.
func loadDatabase(body []byte, hdr MetadataTableStreamHeader, strIdx, guidIdx, blobIdx int, strings, blobs, guids []byte) (*Database, error) {
	if strings == nil || blobs == nil || guids == nil {
		return nil, ErrMissingRequiredStream
	}

	rowCounts := make(map[tableID]uint32, tblCount)
	off := 0
	for i := uint(0); i < 64; i++ {
		if hdr.MaskValid>>i&1 == 0 {
			continue
		}
		id := tableID(i)
		if _, known := tableDefs[id]; !known {
			return nil, fmt.Errorf("%w: id 0x%02x", ErrUnknownTableID, i)
		}
		if off+4 > len(body) {
			return nil, ErrInvalidRowIndex
		}
		rowCounts[id] = binary.LittleEndian.Uint32(body[off:])
		off += 4
	}

	colWidth := func(c colDef) uint32 {
		switch c.kind {
		case colFixed2:
			return 2
		case colFixed4:
			return 4
		case colFixed8:
			return 8
		case colString:
			return uint32(strIdx)
		case colGUID:
			return uint32(guidIdx)
		case colBlob:
			return uint32(blobIdx)
		case colSimple:
			if needs4ByteIndex(rowCounts[c.target], 0) {
				return 4
			}
			return 2
		case colCoded:
			for _, target := range c.coded.tags {
				if needs4ByteIndex(rowCounts[target], c.coded.tagBits) {
					return 4
				}
			}
			return 2
		default:
			panic("pe: unreachable column kind")
		}
	}

	tables := make(map[tableID]*rawTable, len(tableLoadOrder))
	for _, id := range tableLoadOrder {
		def := tableDefs[id]
		rt := &rawTable{def: def, rowCount: rowCounts[id]}
		rt.colOffset = make([]uint32, len(def.cols))
		rt.colWidth = make([]uint32, len(def.cols))
		var rowSize uint32
		for i, c := range def.cols {
			rt.colOffset[i] = rowSize
			w := colWidth(c)
			rt.colWidth[i] = w
			rowSize += w
		}
		rt.rowSize = rowSize

		size := uint64(rt.rowCount) * uint64(rowSize)
		if off+int(size) > len(body) {
			return nil, fmt.Errorf("%w: table %s row data runs past end of stream", ErrInvalidRowIndex, tableName(id))
		}
		rt.data = body[off : off+int(size)]
		off += int(size)

		tables[id] = rt
	}

	return &Database{strings: strings, blobs: blobs, guids: guids, tables: tables}, nil
}

// table returns the rawTable for id. All 38 tables are always present in
// the map (with rowCount 0 if absent from MaskValid), so this never
// returns nil for an id tableDefs recognizes.
func (db *Database) table(id tableID) *rawTable {
	return db.tables[id]
}

// RowCount returns how many rows a table identified by its ECMA-335 name
// has, or 0 if the name is not recognized.
func (db *Database) RowCount(name string) uint32 {
	for id, n := range tableNames {
		if n == name {
			return db.table(id).rowCountOrZero()
		}
	}
	return 0
}
