package pe

import (
	"encoding/binary"
	"fmt"
	"sort"
)

// rawTable holds one metadata table's resolved column layout and its
// slice of the #~ stream, after the three-pass load in database.go has
// run. It has no notion of what its columns mean; rows.go layers named
// accessors (TypeName, Flags, FieldList, ...) on top of it.
type rawTable struct {
	def       *tableDef
	rowCount  uint32
	rowSize   uint32
	colOffset []uint32
	colWidth  []uint32
	data      []byte
}

func (t *rawTable) checkRow(row uint32) error {
	if t == nil || row >= t.rowCount {
		return fmt.Errorf("%w: table %s row %d (have %d rows)", ErrInvalidRowIndex, tableName(t.idOrZero()), row, t.rowCountOrZero())
	}
	return nil
}

func (t *rawTable) idOrZero() tableID {
	if t == nil {
		return 0
	}
	return t.def.id
}

func (t *rawTable) rowCountOrZero() uint32 {
	if t == nil {
		return 0
	}
	return t.rowCount
}

// raw reads the column's full value, zero-extended to uint64. Column
// widths are always 2, 4, or 8 bytes by construction (see schema.go).
func (t *rawTable) raw(row uint32, col int) uint64 {
	off := row*t.rowSize + t.colOffset[col]
	w := t.colWidth[col]
	b := t.data[off : off+w]
	switch w {
	case 2:
		return uint64(binary.LittleEndian.Uint16(b))
	case 4:
		return uint64(binary.LittleEndian.Uint32(b))
	case 8:
		return binary.LittleEndian.Uint64(b)
	default:
		panic(fmt.Sprintf("pe: unreachable column width %d", w))
	}
}

func (t *rawTable) raw32(row uint32, col int) uint32 { return uint32(t.raw(row, col)) }
func (t *rawTable) raw16(row uint32, col int) uint16 { return uint16(t.raw(row, col)) }

// bytes returns the column's raw backing bytes, used for columns that are
// decoded further by the caller (the packed Assembly/AssemblyRef version
// column, which is four little-endian uint16 fields back to back).
func (t *rawTable) bytes(row uint32, col int) []byte {
	off := row*t.rowSize + t.colOffset[col]
	w := t.colWidth[col]
	return t.data[off : off+w]
}

// listRange resolves a TypeDef.FieldList/MethodList, MethodDef.ParamList,
// EventMap.EventList, or PropertyMap.PropertyList style column into the
// half-open [start, end) row range of the target table it points into.
// The column stores a 1-based RID into target; the range for the last row
// of the owning table runs to the end of target.
func (t *rawTable) listRange(target *rawTable, col int, row uint32) (start, end uint32) {
	startRID := t.raw32(row, col)
	if startRID == 0 {
		start = 0
	} else {
		start = startRID - 1
	}
	if row+1 < t.rowCount {
		nextRID := t.raw32(row+1, col)
		if nextRID == 0 {
			end = start
		} else {
			end = nextRID - 1
		}
	} else {
		end = target.rowCount
	}
	if end < start {
		end = start
	}
	return start, end
}

// encode computes the coded-index value that would point at row (0-based)
// of table target, or ok=false if target is not one of this kind's tags.
func (k codedIndexKind) encode(target tableID, row uint32) (value uint32, ok bool) {
	for tag, t := range k.tags {
		if t == target {
			return (row+1)<<k.tagBits | tag, true
		}
	}
	return 0, false
}

// findByKey performs the binary search used by every sorted-key secondary
// table: locate the contiguous run of rows in t whose sortedKey column
// equals keyValue. The tables stream guarantees these columns are sorted
// by key (ECMA-335 §II.22.1), so a stdlib sort.Search is sufficient.
func (t *rawTable) findByKey(col int, keyValue uint32) (start, count uint32) {
	n := int(t.rowCount)
	lo := sort.Search(n, func(i int) bool { return t.raw32(uint32(i), col) >= keyValue })
	if lo == n || t.raw32(uint32(lo), col) != keyValue {
		return 0, 0
	}
	hi := sort.Search(n, func(i int) bool { return t.raw32(uint32(i), col) > keyValue })
	return uint32(lo), uint32(hi - lo)
}
