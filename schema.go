package pe

// colKind classifies one column of a metadata table row, as needed to
// resolve its on-disk width and to slice the tables stream into rows.
// Semantic decoding (turning a raw string-heap index into a Go string,
// resolving a coded index into a target row, ...) is the job of the
// per-table accessor methods in rows.go, not of this layer.
type colKind int

const (
	colFixed2 colKind = iota // a plain 2-byte value (flags, counters, ...)
	colFixed4                // a plain 4-byte value
	colFixed8                // a plain 8-byte value (packed assembly version)
	colString                // index into #Strings, width decided by HeapSizes bit 0
	colGUID                  // index into #GUID, width decided by HeapSizes bit 1
	colBlob                  // index into #Blob, width decided by HeapSizes bit 2
	colSimple                // index into another table's rows, width depends on that table's row count
	colCoded                 // coded index, width depends on the tag bits and every target table's row count
)

type colDef struct {
	kind   colKind
	target tableID        // valid when kind == colSimple
	coded  codedIndexKind // valid when kind == colCoded
}

func fixed2() colDef { return colDef{kind: colFixed2} }
func fixed4() colDef { return colDef{kind: colFixed4} }
func fixed8() colDef { return colDef{kind: colFixed8} }
func strCol() colDef { return colDef{kind: colString} }
func guidCol() colDef { return colDef{kind: colGUID} }
func blobCol() colDef { return colDef{kind: colBlob} }
func simple(t tableID) colDef { return colDef{kind: colSimple, target: t} }
func coded(k codedIndexKind) colDef { return colDef{kind: colCoded, coded: k} }

// tableDef is the static column layout of one metadata table, transcribed
// column-for-column from the original schema's set_columns calls.
type tableDef struct {
	id        tableID
	cols      []colDef
	sortedKey int // 0-based column index used for binary search, or -1
}

// tableDefs lists the column layout of all 38 tables this reader
// understands, in the order ECMA-335 assigns their table IDs. Column
// order within each row matches the wire format exactly.
var tableDefs = map[tableID]*tableDef{
	tblModule: {
		id: tblModule, sortedKey: -1,
		cols: []colDef{fixed2(), strCol(), guidCol(), guidCol(), guidCol()},
		// Generation, Name, Mvid, EncId, EncBaseId
	},
	tblTypeRef: {
		id: tblTypeRef, sortedKey: -1,
		cols: []colDef{coded(codedResolutionScope), strCol(), strCol()},
		// ResolutionScope, TypeName, TypeNamespace
	},
	tblTypeDef: {
		id: tblTypeDef, sortedKey: -1,
		cols: []colDef{fixed4(), strCol(), strCol(), coded(codedTypeDefOrRef), simple(tblField), simple(tblMethodDef)},
		// Flags, TypeName, TypeNamespace, Extends, FieldList, MethodList
	},
	tblField: {
		id: tblField, sortedKey: -1,
		cols: []colDef{fixed2(), strCol(), blobCol()},
		// Flags, Name, Signature
	},
	tblMethodDef: {
		id: tblMethodDef, sortedKey: -1,
		cols: []colDef{fixed4(), fixed2(), fixed2(), strCol(), blobCol(), simple(tblParam)},
		// RVA, ImplFlags, Flags, Name, Signature, ParamList
	},
	tblParam: {
		id: tblParam, sortedKey: -1,
		cols: []colDef{fixed2(), fixed2(), strCol()},
		// Flags, Sequence, Name
	},
	tblInterfaceImpl: {
		id: tblInterfaceImpl, sortedKey: 0,
		cols: []colDef{simple(tblTypeDef), coded(codedTypeDefOrRef)},
		// Class, Interface
	},
	tblMemberRef: {
		id: tblMemberRef, sortedKey: -1,
		cols: []colDef{coded(codedMemberRefParent), strCol(), blobCol()},
		// Class, Name, Signature
	},
	tblConstant: {
		id: tblConstant, sortedKey: 1,
		cols: []colDef{fixed2(), coded(codedHasConstant), blobCol()},
		// Type, Parent, Value
	},
	tblCustomAttribute: {
		id: tblCustomAttribute, sortedKey: 0,
		cols: []colDef{coded(codedHasCustomAttribute), coded(codedCustomAttributeType), blobCol()},
		// Parent, Type, Value
	},
	tblFieldMarshal: {
		id: tblFieldMarshal, sortedKey: 0,
		cols: []colDef{coded(codedHasFieldMarshal), blobCol()},
		// Parent, NativeType
	},
	tblDeclSecurity: {
		id: tblDeclSecurity, sortedKey: 1,
		cols: []colDef{fixed2(), coded(codedHasDeclSecurity), blobCol()},
		// Action, Parent, PermissionSet
	},
	tblClassLayout: {
		id: tblClassLayout, sortedKey: 2,
		cols: []colDef{fixed2(), fixed4(), simple(tblTypeDef)},
		// PackingSize, ClassSize, Parent
	},
	tblFieldLayout: {
		id: tblFieldLayout, sortedKey: 1,
		cols: []colDef{fixed4(), simple(tblField)},
		// Offset, Field
	},
	tblStandAloneSig: {
		id: tblStandAloneSig, sortedKey: -1,
		cols: []colDef{blobCol()},
		// Signature
	},
	tblEventMap: {
		id: tblEventMap, sortedKey: -1,
		cols: []colDef{simple(tblTypeDef), simple(tblEvent)},
		// Parent, EventList
	},
	tblEvent: {
		id: tblEvent, sortedKey: -1,
		cols: []colDef{fixed2(), strCol(), coded(codedTypeDefOrRef)},
		// EventFlags, Name, EventType
	},
	tblPropertyMap: {
		id: tblPropertyMap, sortedKey: -1,
		cols: []colDef{simple(tblTypeDef), simple(tblProperty)},
		// Parent, PropertyList
	},
	tblProperty: {
		id: tblProperty, sortedKey: -1,
		cols: []colDef{fixed2(), strCol(), blobCol()},
		// PropFlags, Name, Type
	},
	tblMethodSemantics: {
		id: tblMethodSemantics, sortedKey: 2,
		cols: []colDef{fixed2(), simple(tblMethodDef), coded(codedHasSemantics)},
		// Semantics, Method, Association
	},
	tblMethodImpl: {
		id: tblMethodImpl, sortedKey: 0,
		cols: []colDef{simple(tblTypeDef), coded(codedMethodDefOrRef), coded(codedMethodDefOrRef)},
		// Class, MethodBody, MethodDeclaration
	},
	tblModuleRef: {
		id: tblModuleRef, sortedKey: -1,
		cols: []colDef{strCol()},
		// Name
	},
	tblTypeSpec: {
		id: tblTypeSpec, sortedKey: -1,
		cols: []colDef{blobCol()},
		// Signature
	},
	tblImplMap: {
		id: tblImplMap, sortedKey: 1,
		cols: []colDef{fixed2(), coded(codedMemberForwarded), strCol(), simple(tblModuleRef)},
		// MappingFlags, MemberForwarded, ImportName, ImportScope
	},
	tblFieldRVA: {
		id: tblFieldRVA, sortedKey: 1,
		cols: []colDef{fixed4(), simple(tblField)},
		// RVA, Field
	},
	tblAssembly: {
		id: tblAssembly, sortedKey: -1,
		cols: []colDef{fixed4(), fixed8(), fixed4(), blobCol(), strCol(), strCol()},
		// HashAlgId, MajorMinorBuildRevision, Flags, PublicKey, Name, Culture
	},
	tblAssemblyProcessor: {
		id: tblAssemblyProcessor, sortedKey: -1,
		cols: []colDef{fixed4()},
		// Processor
	},
	tblAssemblyOS: {
		id: tblAssemblyOS, sortedKey: -1,
		cols: []colDef{fixed4(), fixed4(), fixed4()},
		// OSPlatformID, OSMajorVersion, OSMinorVersion
	},
	tblAssemblyRef: {
		id: tblAssemblyRef, sortedKey: -1,
		cols: []colDef{fixed8(), fixed4(), blobCol(), strCol(), strCol(), blobCol()},
		// MajorMinorBuildRevision, Flags, PublicKeyOrToken, Name, Culture, HashValue
	},
	tblAssemblyRefProcessor: {
		id: tblAssemblyRefProcessor, sortedKey: -1,
		cols: []colDef{fixed4(), simple(tblAssemblyRef)},
		// Processor, AssemblyRef
	},
	tblAssemblyRefOS: {
		id: tblAssemblyRefOS, sortedKey: -1,
		cols: []colDef{fixed4(), fixed4(), fixed4(), simple(tblAssemblyRef)},
		// OSPlatformID, OSMajorVersion, OSMinorVersion, AssemblyRef
	},
	tblFile: {
		id: tblFile, sortedKey: -1,
		cols: []colDef{fixed4(), strCol(), blobCol()},
		// Flags, Name, HashValue
	},
	tblExportedType: {
		id: tblExportedType, sortedKey: -1,
		cols: []colDef{fixed4(), fixed4(), strCol(), strCol(), coded(codedImplementation)},
		// Flags, TypeDefId, TypeName, TypeNamespace, Implementation
	},
	tblManifestResource: {
		id: tblManifestResource, sortedKey: -1,
		cols: []colDef{fixed4(), fixed4(), strCol(), coded(codedImplementation)},
		// Offset, Flags, Name, Implementation
	},
	tblNestedClass: {
		id: tblNestedClass, sortedKey: 0,
		cols: []colDef{simple(tblTypeDef), simple(tblTypeDef)},
		// NestedClass, EnclosingClass
	},
	tblGenericParam: {
		id: tblGenericParam, sortedKey: 2,
		cols: []colDef{fixed2(), fixed2(), coded(codedTypeOrMethodDef), strCol()},
		// Number, Flags, Owner, Name
	},
	tblMethodSpec: {
		id: tblMethodSpec, sortedKey: -1,
		cols: []colDef{coded(codedMethodDefOrRef), blobCol()},
		// Method, Instantiation
	},
	tblGenericParamConstraint: {
		id: tblGenericParamConstraint, sortedKey: 0,
		cols: []colDef{simple(tblGenericParam), coded(codedTypeDefOrRef)},
		// Owner, Constraint
	},
}

// tableLoadOrder is the order rows are laid out in the #~ stream: the
// order the CLR file format fixes for every table present, regardless of
// MaskValid bit order.
var tableLoadOrder = []tableID{
	tblModule, tblTypeRef, tblTypeDef, tblField, tblMethodDef, tblParam,
	tblInterfaceImpl, tblMemberRef, tblConstant, tblCustomAttribute,
	tblFieldMarshal, tblDeclSecurity, tblClassLayout, tblFieldLayout,
	tblStandAloneSig, tblEventMap, tblEvent, tblPropertyMap, tblProperty,
	tblMethodSemantics, tblMethodImpl, tblModuleRef, tblTypeSpec,
	tblImplMap, tblFieldRVA, tblAssembly, tblAssemblyProcessor,
	tblAssemblyOS, tblAssemblyRef, tblAssemblyRefProcessor,
	tblAssemblyRefOS, tblFile, tblExportedType, tblManifestResource,
	tblNestedClass, tblGenericParam, tblMethodSpec, tblGenericParamConstraint,
}
