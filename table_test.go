package pe

import "testing"

// newKeyTable builds a one-column rawTable whose sole column holds vals,
// for exercising findByKey's binary search in isolation from any real
// metadata schema.
func newKeyTable(vals []uint32) *rawTable {
	data := make([]byte, len(vals)*4)
	for i, v := range vals {
		data[i*4+0] = byte(v)
		data[i*4+1] = byte(v >> 8)
		data[i*4+2] = byte(v >> 16)
		data[i*4+3] = byte(v >> 24)
	}
	return &rawTable{
		rowCount:  uint32(len(vals)),
		rowSize:   4,
		colOffset: []uint32{0},
		colWidth:  []uint32{4},
		data:      data,
	}
}

func TestRawTableFindByKey(t *testing.T) {
	vals := []uint32{0, 0, 1, 2, 4, 4, 4, 8, 16, 16}
	tbl := newKeyTable(vals)

	start, count := tbl.findByKey(0, 4)
	if start != 4 || count != 3 {
		t.Errorf("findByKey(4) = (%d, %d), want (4, 3)", start, count)
	}

	start, count = tbl.findByKey(0, 3)
	if start != 0 || count != 0 {
		t.Errorf("findByKey(3) = (%d, %d), want (0, 0) since 3 is absent", start, count)
	}

	start, count = tbl.findByKey(0, 0)
	if start != 0 || count != 2 {
		t.Errorf("findByKey(0) = (%d, %d), want (0, 2)", start, count)
	}

	start, count = tbl.findByKey(0, 16)
	if start != 8 || count != 2 {
		t.Errorf("findByKey(16) = (%d, %d), want (8, 2)", start, count)
	}
}
