package pe

// tableID identifies one of the metadata table kinds defined by ECMA-335
// §II.22. The numeric values match the table's position in the MaskValid
// bitmask of the #~ stream header.
//
// These constants are unexported: the exported row types (TypeDef,
// MethodDef, Field, Param, File, ...) use the canonical ECMA-335 names,
// so the table-ID constants carry a tbl prefix to keep the two namespaces
// apart.
type tableID uint32

const (
	tblModule                 tableID = 0x00
	tblTypeRef                tableID = 0x01
	tblTypeDef                tableID = 0x02
	tblField                  tableID = 0x04
	tblMethodDef              tableID = 0x06
	tblParam                  tableID = 0x08
	tblInterfaceImpl          tableID = 0x09
	tblMemberRef              tableID = 0x0a
	tblConstant               tableID = 0x0b
	tblCustomAttribute        tableID = 0x0c
	tblFieldMarshal           tableID = 0x0d
	tblDeclSecurity           tableID = 0x0e
	tblClassLayout            tableID = 0x0f
	tblFieldLayout            tableID = 0x10
	tblStandAloneSig          tableID = 0x11
	tblEventMap               tableID = 0x12
	tblEvent                  tableID = 0x14
	tblPropertyMap            tableID = 0x15
	tblProperty               tableID = 0x17
	tblMethodSemantics        tableID = 0x18
	tblMethodImpl             tableID = 0x19
	tblModuleRef              tableID = 0x1a
	tblTypeSpec               tableID = 0x1b
	tblImplMap                tableID = 0x1c
	tblFieldRVA               tableID = 0x1d
	tblAssembly               tableID = 0x20
	tblAssemblyProcessor      tableID = 0x21
	tblAssemblyOS             tableID = 0x22
	tblAssemblyRef            tableID = 0x23
	tblAssemblyRefProcessor   tableID = 0x24
	tblAssemblyRefOS          tableID = 0x25
	tblFile                   tableID = 0x26
	tblExportedType           tableID = 0x27
	tblManifestResource       tableID = 0x28
	tblNestedClass            tableID = 0x29
	tblGenericParam           tableID = 0x2a
	tblMethodSpec             tableID = 0x2b
	tblGenericParamConstraint tableID = 0x2c

	tblCount = 0x2d // one past the highest assigned table ID
)

// tableName returns the ECMA-335 name of a table ID, used in error messages.
func tableName(id tableID) string {
	if n, ok := tableNames[id]; ok {
		return n
	}
	return "<unknown table>"
}

var tableNames = map[tableID]string{
	tblModule:                 "Module",
	tblTypeRef:                "TypeRef",
	tblTypeDef:                "TypeDef",
	tblField:                  "Field",
	tblMethodDef:              "MethodDef",
	tblParam:                  "Param",
	tblInterfaceImpl:          "InterfaceImpl",
	tblMemberRef:              "MemberRef",
	tblConstant:               "Constant",
	tblCustomAttribute:        "CustomAttribute",
	tblFieldMarshal:           "FieldMarshal",
	tblDeclSecurity:           "DeclSecurity",
	tblClassLayout:            "ClassLayout",
	tblFieldLayout:            "FieldLayout",
	tblStandAloneSig:          "StandAloneSig",
	tblEventMap:               "EventMap",
	tblEvent:                  "Event",
	tblPropertyMap:            "PropertyMap",
	tblProperty:               "Property",
	tblMethodSemantics:        "MethodSemantics",
	tblMethodImpl:             "MethodImpl",
	tblModuleRef:              "ModuleRef",
	tblTypeSpec:               "TypeSpec",
	tblImplMap:                "ImplMap",
	tblFieldRVA:               "FieldRVA",
	tblAssembly:               "Assembly",
	tblAssemblyProcessor:      "AssemblyProcessor",
	tblAssemblyOS:             "AssemblyOS",
	tblAssemblyRef:            "AssemblyRef",
	tblAssemblyRefProcessor:   "AssemblyRefProcessor",
	tblAssemblyRefOS:          "AssemblyRefOS",
	tblFile:                   "File",
	tblExportedType:           "ExportedType",
	tblManifestResource:       "ManifestResource",
	tblNestedClass:            "NestedClass",
	tblGenericParam:           "GenericParam",
	tblMethodSpec:             "MethodSpec",
	tblGenericParamConstraint: "GenericParamConstraint",
}
