package pe

import "testing"

// buildSingleTypeDefDB builds a Database whose only populated table is a
// one-row TypeDef table naming (namespace, name), tagged with flags so
// callers can tell which synthetic database a resolved TypeDef came from.
func buildSingleTypeDefDB(namespace, name string, flags uint32) *Database {
	var strings []byte
	strings = append(strings, 0) // index 0: the empty string every heap starts with

	nsIdx := uint32(len(strings))
	strings = append(strings, []byte(namespace)...)
	strings = append(strings, 0)

	nameIdx := uint32(len(strings))
	strings = append(strings, []byte(name)...)
	strings = append(strings, 0)

	row := make([]byte, 14)
	row[0] = byte(flags)
	row[1] = byte(flags >> 8)
	row[2] = byte(flags >> 16)
	row[3] = byte(flags >> 24)
	row[4] = byte(nameIdx)
	row[5] = byte(nameIdx >> 8)
	row[6] = byte(nsIdx)
	row[7] = byte(nsIdx >> 8)
	// Extends, FieldList, MethodList all left at 0/null.

	typeDef := &rawTable{
		def:       tableDefs[tblTypeDef],
		rowCount:  1,
		rowSize:   14,
		colOffset: []uint32{0, 4, 6, 8, 10, 12},
		colWidth:  []uint32{4, 2, 2, 2, 2, 2},
		data:      row,
	}

	return &Database{
		strings: strings,
		tables:  map[tableID]*rawTable{tblTypeDef: typeDef},
	}
}

func TestCacheFindAcrossDatabases(t *testing.T) {
	db1 := buildSingleTypeDefDB("Windows.Foundation", "Point", 1)
	db2 := buildSingleTypeDefDB("Windows.Foundation", "Point", 2)

	cache := NewCache()
	cache.Insert(db1)
	cache.Insert(db2)

	td, ok := cache.Find("Windows.Foundation", "Point")
	if !ok {
		t.Fatal("cache.Find(\"Windows.Foundation\", \"Point\") ok = false, want true")
	}
	name, err := td.Name()
	if err != nil {
		t.Fatalf("td.Name() failed, reason: %v", err)
	}
	if name != "Point" {
		t.Errorf("td.Name() = %q, want %q", name, "Point")
	}
	if got := td.Flags(); got != 1 {
		t.Errorf("cache.Find resolved to flags %d, want 1 (the first-inserted database should win)", got)
	}

	if _, ok := cache.Find("Windows.Foundation", "Size"); ok {
		t.Error("cache.Find(\"Windows.Foundation\", \"Size\") ok = true, want false")
	}
}

func TestCacheResolveTypeName(t *testing.T) {
	db := buildSingleTypeDefDB("Windows.Foundation", "Point", 0)
	cache := NewCache()
	cache.Insert(db)

	if _, ok := cache.ResolveTypeName("Point"); ok {
		t.Error("ResolveTypeName(\"Point\") ok = true, want false: Point is not in the global namespace")
	}

	td, ok := cache.ResolveTypeName("Windows.Foundation.Point")
	if !ok {
		t.Fatal("ResolveTypeName(\"Windows.Foundation.Point\") ok = false, want true")
	}
	if name, err := td.Name(); err != nil || name != "Point" {
		t.Errorf("ResolveTypeName resolved to %q, %v, want \"Point\", nil", name, err)
	}
}
