package pe

import "testing"

// u16le/u32le append a little-endian column value to a row buffer being
// built up a column at a time.
func u16le(row []byte, v uint16) []byte { return append(row, byte(v), byte(v>>8)) }
func u32le(row []byte, v uint32) []byte {
	return append(row, byte(v), byte(v>>8), byte(v>>16), byte(v>>24))
}

// buildMultiTableDB assembles a synthetic Database spanning TypeDef,
// TypeRef, MethodDef, and InterfaceImpl: one type ("App.MyType") that
// extends a TypeRef ("System.Object"), implements a second TypeRef
// ("App.IFoo") via InterfaceImpl, and owns one method ("DoWork") with a
// decodable signature. It exercises a coded index (TypeDef.Extends), the
// sorted-key binary search behind InterfaceImpl lookups, and a method
// signature decode together, the way a real assembly's metadata would.
func buildMultiTableDB(t *testing.T) *Database {
	t.Helper()

	var strings []byte
	strings = append(strings, 0)
	str := func(s string) uint32 {
		idx := uint32(len(strings))
		strings = append(strings, []byte(s)...)
		strings = append(strings, 0)
		return idx
	}

	myTypeName := str("MyType")
	appNS := str("App")
	objectName := str("Object")
	systemNS := str("System")
	ifooName := str("IFoo")
	appNS2 := str("App")
	doWorkName := str("DoWork")

	// A method signature taking no arguments and returning int32: default
	// calling convention, 0 params, ELEMENT_TYPE_I4 return, §II.23.2.1.
	sigBlob := []byte{0x00, 0x00, elemI4}
	blobs := []byte{0x00, byte(len(sigBlob))}
	blobs = append(blobs, sigBlob...)
	const sigBlobIndex = 1

	// TypeRef row 0: System.Object. TypeRef row 1: App.IFoo.
	var typeRefRows []byte
	var row []byte
	row = u16le(nil, 0) // ResolutionScope, left null
	row = u16le(row, uint16(objectName))
	row = u16le(row, uint16(systemNS))
	typeRefRows = append(typeRefRows, row...)
	row = u16le(nil, 0)
	row = u16le(row, uint16(ifooName))
	row = u16le(row, uint16(appNS2))
	typeRefRows = append(typeRefRows, row...)

	typeRef := &rawTable{
		def:       tableDefs[tblTypeRef],
		rowCount:  2,
		rowSize:   6,
		colOffset: []uint32{0, 2, 4},
		colWidth:  []uint32{2, 2, 2},
		data:      typeRefRows,
	}

	// TypeDef row 0: App.MyType, extending TypeRef row 0 (System.Object),
	// owning MethodDef row 0.
	extends, ok := codedTypeDefOrRef.encode(tblTypeRef, 0)
	if !ok {
		t.Fatal("codedTypeDefOrRef.encode(tblTypeRef, 0) ok = false")
	}
	row = u32le(nil, 0) // Flags
	row = u16le(row, uint16(myTypeName))
	row = u16le(row, uint16(appNS))
	row = u16le(row, uint16(extends))
	row = u16le(row, 0) // FieldList: no fields
	row = u16le(row, 1) // MethodList: RID 1 (0-based MethodDef row 0)
	typeDef := &rawTable{
		def:       tableDefs[tblTypeDef],
		rowCount:  1,
		rowSize:   14,
		colOffset: []uint32{0, 4, 6, 8, 10, 12},
		colWidth:  []uint32{4, 2, 2, 2, 2, 2},
		data:      row,
	}

	// MethodDef row 0: DoWork, with the signature built above.
	row = u32le(nil, 0) // RVA
	row = u16le(row, 0) // ImplFlags
	row = u16le(row, 0) // Flags
	row = u16le(row, uint16(doWorkName))
	row = u16le(row, sigBlobIndex)
	row = u16le(row, 0) // ParamList: no params
	methodDef := &rawTable{
		def:       tableDefs[tblMethodDef],
		rowCount:  1,
		rowSize:   14,
		colOffset: []uint32{0, 4, 6, 8, 10, 12},
		colWidth:  []uint32{4, 2, 2, 2, 2, 2},
		data:      row,
	}

	// InterfaceImpl row 0: TypeDef row 0 implements TypeRef row 1 (App.IFoo).
	iface, ok := codedTypeDefOrRef.encode(tblTypeRef, 1)
	if !ok {
		t.Fatal("codedTypeDefOrRef.encode(tblTypeRef, 1) ok = false")
	}
	row = u16le(nil, 1) // Class: RID 1 (0-based TypeDef row 0)
	row = u16le(row, uint16(iface))
	interfaceImpl := &rawTable{
		def:       tableDefs[tblInterfaceImpl],
		rowCount:  1,
		rowSize:   4,
		colOffset: []uint32{0, 2},
		colWidth:  []uint32{2, 2},
		data:      row,
	}

	return &Database{
		strings: strings,
		blobs:   blobs,
		tables: map[tableID]*rawTable{
			tblTypeDef:       typeDef,
			tblTypeRef:       typeRef,
			tblMethodDef:     methodDef,
			tblInterfaceImpl: interfaceImpl,
		},
	}
}

func TestMultiTableDatabase(t *testing.T) {
	db := buildMultiTableDB(t)

	td, err := db.TypeDef(0)
	if err != nil {
		t.Fatalf("db.TypeDef(0) failed, reason: %v", err)
	}
	if name, err := td.Name(); err != nil || name != "MyType" {
		t.Errorf("td.Name() = %q, %v, want \"MyType\", nil", name, err)
	}

	// Coded index: TypeDef.Extends must resolve to TypeRef row 0.
	extends := td.Extends()
	tr, ok := extends.AsTypeRef()
	if !ok {
		t.Fatal("td.Extends().AsTypeRef() ok = false, want true")
	}
	if name, err := tr.Name(); err != nil || name != "Object" {
		t.Errorf("extends base Name() = %q, %v, want \"Object\", nil", name, err)
	}

	// Sorted-key binary search: TypeDef.InterfaceImpls finds the row
	// keyed by this type's RID in the InterfaceImpl table.
	impls := td.InterfaceImpls()
	if len(impls) != 1 {
		t.Fatalf("len(td.InterfaceImpls()) = %d, want 1", len(impls))
	}
	ifaceRef := impls[0].Interface()
	ifaceType, ok := ifaceRef.AsTypeRef()
	if !ok {
		t.Fatal("impls[0].Interface().AsTypeRef() ok = false, want true")
	}
	if name, err := ifaceType.Name(); err != nil || name != "IFoo" {
		t.Errorf("implemented interface Name() = %q, %v, want \"IFoo\", nil", name, err)
	}

	// Signature decode: the one method this type owns takes no
	// arguments and returns a plain int32.
	methods := td.Methods()
	if methods.Len() != 1 {
		t.Fatalf("td.Methods().Len() = %d, want 1", methods.Len())
	}
	m, err := methods.At(0)
	if err != nil {
		t.Fatalf("methods.At(0) failed, reason: %v", err)
	}
	if name, err := m.Name(); err != nil || name != "DoWork" {
		t.Errorf("m.Name() = %q, %v, want \"DoWork\", nil", name, err)
	}
	sig, err := m.Signature()
	if err != nil {
		t.Fatalf("m.Signature() failed, reason: %v", err)
	}
	if sig.HasThis || sig.Generic || len(sig.Params) != 0 {
		t.Errorf("m.Signature() = %+v, want a static 0-arg, non-generic signature", sig)
	}
	if sig.RetType.Kind != RetTypeValue || sig.RetType.Type.Kind != TypeKindPrimitive || sig.RetType.Type.Primitive != PrimitiveI4 {
		t.Errorf("m.Signature().RetType = %+v, want a plain int32 return", sig.RetType)
	}
}
