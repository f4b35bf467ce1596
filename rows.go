package pe

import (
	"encoding/binary"
	"fmt"
)

// row is the common state every table row type embeds: the database it
// was read from, the rawTable backing it, and its 0-based row index.
// Exported row types (TypeDef, MethodDef, Field, ...) embed row and add
// named column accessors on top of table.go's raw/bytes/listRange.
type row struct {
	db  *Database
	tbl *rawTable
	idx uint32
}

func newRow(db *Database, id tableID, idx uint32) (row, error) {
	t := db.table(id)
	if err := t.checkRow(idx); err != nil {
		return row{}, err
	}
	return row{db: db, tbl: t, idx: idx}, nil
}

// RID returns the row's 1-based metadata token index within its table.
func (r row) RID() uint32 { return r.idx + 1 }

func (r row) str(col int) (string, error)    { return r.db.string(r.tbl.raw32(r.idx, col)) }
func (r row) blob(col int) ([]byte, error)   { return r.db.blob(r.tbl.raw32(r.idx, col)) }
func (r row) guid(col int) ([16]byte, bool)  { return r.db.guid(r.tbl.raw32(r.idx, col)) }

// simpleRef reads a plain (non-coded) table-index column: a 1-based RID,
// with 0 meaning null.
func (r row) simpleRef(col int) (idx uint32, null bool) {
	v := r.tbl.raw32(r.idx, col)
	if v == 0 {
		return 0, true
	}
	return v - 1, false
}

// coded reads a coded-index column and wraps its decoded target as an
// ElementRef.
func (r row) coded(col int, kind codedIndexKind) ElementRef {
	v := r.tbl.raw32(r.idx, col)
	target, idx, null, ok := kind.decode(v)
	if !ok {
		return ElementRef{null: true}
	}
	return ElementRef{db: r.db, target: target, row: idx, null: null}
}

// findBySimpleKey performs the sorted-key lookup for a secondary table
// whose key column stores a plain 1-based RID into target, e.g.
// InterfaceImpl.Class or ClassLayout.Parent.
func findBySimpleKey(t *rawTable, col int, target0based uint32) (start, count uint32) {
	return t.findByKey(col, target0based+1)
}

// findByCodedKey performs the sorted-key lookup for a secondary table
// whose key column is a coded index, e.g. Constant.Parent or
// CustomAttribute.Parent.
func findByCodedKey(t *rawTable, col int, kind codedIndexKind, target tableID, row0based uint32) (start, count uint32, ok bool) {
	v, ok := kind.encode(target, row0based)
	if !ok {
		return 0, 0, false
	}
	s, c := t.findByKey(col, v)
	return s, c, true
}

// ElementRef is the result of decoding any coded or simple index column:
// a reference to one row of one of the 38 tables, or null. Because the
// targets of a coded index vary by column (HasCustomAttribute alone spans
// 21 tables), ElementRef exposes one AsX accessor per table it can ever
// target rather than a generic interface{} payload; callers narrow it the
// same way a type switch would.
type ElementRef struct {
	db     *Database
	target tableID
	row    uint32
	null   bool
}

// IsNull reports whether the index was the null/0 encoding.
func (e ElementRef) IsNull() bool { return e.null }

// TableName returns the ECMA-335 name of the referenced table, or "" if
// the reference is null.
func (e ElementRef) TableName() string {
	if e.null {
		return ""
	}
	return tableName(e.target)
}

func (e ElementRef) as(id tableID) (uint32, bool) {
	if e.null || e.target != id {
		return 0, false
	}
	return e.row, true
}

func (e ElementRef) AsTypeDef() (TypeDef, bool) {
	idx, ok := e.as(tblTypeDef)
	if !ok {
		return TypeDef{}, false
	}
	v, err := e.db.TypeDef(idx)
	return v, err == nil
}

func (e ElementRef) AsTypeRef() (TypeRef, bool) {
	idx, ok := e.as(tblTypeRef)
	if !ok {
		return TypeRef{}, false
	}
	v, err := e.db.TypeRef(idx)
	return v, err == nil
}

func (e ElementRef) AsTypeSpec() (TypeSpec, bool) {
	idx, ok := e.as(tblTypeSpec)
	if !ok {
		return TypeSpec{}, false
	}
	v, err := e.db.TypeSpec(idx)
	return v, err == nil
}

func (e ElementRef) AsField() (Field, bool) {
	idx, ok := e.as(tblField)
	if !ok {
		return Field{}, false
	}
	v, err := e.db.Field(idx)
	return v, err == nil
}

func (e ElementRef) AsParam() (Param, bool) {
	idx, ok := e.as(tblParam)
	if !ok {
		return Param{}, false
	}
	v, err := e.db.Param(idx)
	return v, err == nil
}

func (e ElementRef) AsProperty() (Property, bool) {
	idx, ok := e.as(tblProperty)
	if !ok {
		return Property{}, false
	}
	v, err := e.db.Property(idx)
	return v, err == nil
}

func (e ElementRef) AsMethodDef() (MethodDef, bool) {
	idx, ok := e.as(tblMethodDef)
	if !ok {
		return MethodDef{}, false
	}
	v, err := e.db.MethodDef(idx)
	return v, err == nil
}

func (e ElementRef) AsMemberRef() (MemberRef, bool) {
	idx, ok := e.as(tblMemberRef)
	if !ok {
		return MemberRef{}, false
	}
	v, err := e.db.MemberRef(idx)
	return v, err == nil
}

func (e ElementRef) AsModule() (Module, bool) {
	idx, ok := e.as(tblModule)
	if !ok {
		return Module{}, false
	}
	v, err := e.db.Module(idx)
	return v, err == nil
}

func (e ElementRef) AsModuleRef() (ModuleRef, bool) {
	idx, ok := e.as(tblModuleRef)
	if !ok {
		return ModuleRef{}, false
	}
	v, err := e.db.ModuleRef(idx)
	return v, err == nil
}

func (e ElementRef) AsInterfaceImpl() (InterfaceImpl, bool) {
	idx, ok := e.as(tblInterfaceImpl)
	if !ok {
		return InterfaceImpl{}, false
	}
	v, err := e.db.InterfaceImpl(idx)
	return v, err == nil
}

func (e ElementRef) AsStandAloneSig() (StandAloneSig, bool) {
	idx, ok := e.as(tblStandAloneSig)
	if !ok {
		return StandAloneSig{}, false
	}
	v, err := e.db.StandAloneSig(idx)
	return v, err == nil
}

func (e ElementRef) AsAssembly() (Assembly, bool) {
	idx, ok := e.as(tblAssembly)
	if !ok {
		return Assembly{}, false
	}
	v, err := e.db.Assembly(idx)
	return v, err == nil
}

func (e ElementRef) AsAssemblyRef() (AssemblyRef, bool) {
	idx, ok := e.as(tblAssemblyRef)
	if !ok {
		return AssemblyRef{}, false
	}
	v, err := e.db.AssemblyRef(idx)
	return v, err == nil
}

func (e ElementRef) AsFile() (FileRow, bool) {
	idx, ok := e.as(tblFile)
	if !ok {
		return FileRow{}, false
	}
	v, err := e.db.File(idx)
	return v, err == nil
}

func (e ElementRef) AsExportedType() (ExportedType, bool) {
	idx, ok := e.as(tblExportedType)
	if !ok {
		return ExportedType{}, false
	}
	v, err := e.db.ExportedType(idx)
	return v, err == nil
}

func (e ElementRef) AsManifestResource() (ManifestResource, bool) {
	idx, ok := e.as(tblManifestResource)
	if !ok {
		return ManifestResource{}, false
	}
	v, err := e.db.ManifestResource(idx)
	return v, err == nil
}

func (e ElementRef) AsGenericParam() (GenericParam, bool) {
	idx, ok := e.as(tblGenericParam)
	if !ok {
		return GenericParam{}, false
	}
	v, err := e.db.GenericParam(idx)
	return v, err == nil
}

func (e ElementRef) AsGenericParamConstraint() (GenericParamConstraint, bool) {
	idx, ok := e.as(tblGenericParamConstraint)
	if !ok {
		return GenericParamConstraint{}, false
	}
	v, err := e.db.GenericParamConstraint(idx)
	return v, err == nil
}

func (e ElementRef) AsMethodSpec() (MethodSpec, bool) {
	idx, ok := e.as(tblMethodSpec)
	if !ok {
		return MethodSpec{}, false
	}
	v, err := e.db.MethodSpec(idx)
	return v, err == nil
}

func (e ElementRef) AsEvent() (Event, bool) {
	idx, ok := e.as(tblEvent)
	if !ok {
		return Event{}, false
	}
	v, err := e.db.Event(idx)
	return v, err == nil
}

// namespaceName returns the (namespace, name) pair of a TypeDefOrRef
// target, or ok=false for a TypeSpec (which has neither).
func (e ElementRef) namespaceName() (namespace, name string, ok bool) {
	if td, isTD := e.AsTypeDef(); isTD {
		n, err1 := td.Name()
		ns, err2 := td.Namespace()
		if err1 != nil || err2 != nil {
			return "", "", false
		}
		return ns, n, true
	}
	if tr, isTR := e.AsTypeRef(); isTR {
		n, err1 := tr.Name()
		ns, err2 := tr.Namespace()
		if err1 != nil || err2 != nil {
			return "", "", false
		}
		return ns, n, true
	}
	return "", "", false
}

// customAttributesFor looks up every CustomAttribute row whose Parent
// names (target, row0based), via the CustomAttribute table's sorted
// Parent column.
func (db *Database) customAttributesFor(target tableID, row0based uint32) []CustomAttribute {
	t := db.table(tblCustomAttribute)
	start, count, ok := findByCodedKey(t, 0, codedHasCustomAttribute, target, row0based)
	if !ok {
		return nil
	}
	out := make([]CustomAttribute, 0, count)
	for i := uint32(0); i < count; i++ {
		out = append(out, CustomAttribute{row{db: db, tbl: t, idx: start + i}})
	}
	return out
}

// constantFor looks up the single Constant row (if any) whose Parent
// names (target, row0based), via Constant's sorted Parent column.
func (db *Database) constantFor(target tableID, row0based uint32) (Constant, bool) {
	t := db.table(tblConstant)
	start, count, ok := findByCodedKey(t, 1, codedHasConstant, target, row0based)
	if !ok || count == 0 {
		return Constant{}, false
	}
	return Constant{row{db: db, tbl: t, idx: start}}, true
}

// --- Module, II.22.30 ---

type Module struct{ row }

func (db *Database) Module(idx uint32) (Module, error) {
	r, err := newRow(db, tblModule, idx)
	return Module{r}, err
}
func (db *Database) ModuleCount() uint32 { return db.table(tblModule).rowCountOrZero() }

func (m Module) Generation() uint16           { return m.tbl.raw16(m.idx, 0) }
func (m Module) Name() (string, error)        { return m.str(1) }
func (m Module) Mvid() ([16]byte, bool)       { return m.guid(2) }
func (m Module) EncId() ([16]byte, bool)      { return m.guid(3) }
func (m Module) EncBaseId() ([16]byte, bool)  { return m.guid(4) }
func (m Module) CustomAttributes() []CustomAttribute {
	return m.db.customAttributesFor(tblModule, m.idx)
}

// --- TypeRef, II.22.38 ---

type TypeRef struct{ row }

func (db *Database) TypeRef(idx uint32) (TypeRef, error) {
	r, err := newRow(db, tblTypeRef, idx)
	return TypeRef{r}, err
}
func (db *Database) TypeRefCount() uint32 { return db.table(tblTypeRef).rowCountOrZero() }

func (t TypeRef) ResolutionScope() ElementRef { return t.coded(0, codedResolutionScope) }
func (t TypeRef) Name() (string, error)       { return t.str(1) }
func (t TypeRef) Namespace() (string, error)  { return t.str(2) }
func (t TypeRef) CustomAttributes() []CustomAttribute {
	return t.db.customAttributesFor(tblTypeRef, t.idx)
}

// --- TypeDef, II.22.37 ---

type TypeDef struct{ row }

func (db *Database) TypeDef(idx uint32) (TypeDef, error) {
	r, err := newRow(db, tblTypeDef, idx)
	return TypeDef{r}, err
}
func (db *Database) TypeDefCount() uint32 { return db.table(tblTypeDef).rowCountOrZero() }

func (t TypeDef) Flags() TypeAttributes      { return TypeAttributes(t.tbl.raw32(t.idx, 0)) }
func (t TypeDef) Name() (string, error)      { return t.str(1) }
func (t TypeDef) Namespace() (string, error) { return t.str(2) }
func (t TypeDef) Extends() ElementRef        { return t.coded(3, codedTypeDefOrRef) }

func (t TypeDef) Fields() FieldRange {
	target := t.db.table(tblField)
	start, end := t.tbl.listRange(target, 4, t.idx)
	return FieldRange{db: t.db, start: start, end: end}
}

func (t TypeDef) Methods() MethodRange {
	target := t.db.table(tblMethodDef)
	start, end := t.tbl.listRange(target, 5, t.idx)
	return MethodRange{db: t.db, start: start, end: end}
}

func (t TypeDef) CustomAttributes() []CustomAttribute {
	return t.db.customAttributesFor(tblTypeDef, t.idx)
}

// InterfaceImpls returns every InterfaceImpl row naming this type as its
// implementing Class, via InterfaceImpl's sorted Class column.
func (t TypeDef) InterfaceImpls() []InterfaceImpl {
	it := t.db.table(tblInterfaceImpl)
	start, count := findBySimpleKey(it, 0, t.idx)
	out := make([]InterfaceImpl, 0, count)
	for i := uint32(0); i < count; i++ {
		out = append(out, InterfaceImpl{row{db: t.db, tbl: it, idx: start + i}})
	}
	return out
}

// IsInterface reports whether this type's Semantics flag marks it as an
// interface, §I.8.9.1.
func (t TypeDef) IsInterface() bool {
	return t.Flags().Semantics() == TypeSemanticsInterface
}

// TypeCategory classifies this type by what it derives from, §I.8.9.
// A class with no base (System.Object itself, or a TypeSpec base this
// reader cannot name) is reported as TypeCategoryClass.
func (t TypeDef) TypeCategory() TypeCategory {
	if t.IsInterface() {
		return TypeCategoryInterface
	}
	ext := t.Extends()
	if ext.IsNull() {
		return TypeCategoryClass
	}
	ns, name, ok := ext.namespaceName()
	if !ok {
		return TypeCategoryClass
	}
	switch {
	case ns == "System" && name == "Enum":
		return TypeCategoryEnum
	case ns == "System" && name == "ValueType":
		return TypeCategoryStruct
	case ns == "System" && name == "MulticastDelegate":
		return TypeCategoryDelegate
	default:
		return TypeCategoryClass
	}
}

func (t TypeDef) IsEnum() bool { return t.TypeCategory() == TypeCategoryEnum }

// EnumUnderlyingType scans this enum's instance field (every other field
// must be a literal member of the enum itself) and returns its primitive
// type, §I.8.5.2. Returns ErrInvalidConstantType if this type is not an
// enum with exactly one instance field.
func (t TypeDef) EnumUnderlyingType() (PrimitiveType, error) {
	if !t.IsEnum() {
		return 0, fmt.Errorf("%w: type is not an enum", ErrInvalidConstantType)
	}
	fields := t.Fields()
	found := false
	var result PrimitiveType
	for i := 0; i < fields.Len(); i++ {
		f, err := fields.At(i)
		if err != nil {
			return 0, err
		}
		flags := f.Flags()
		if flags.Static() || flags.Literal() {
			continue
		}
		if found {
			return 0, fmt.Errorf("%w: enum has more than one instance field", ErrInvalidConstantType)
		}
		sig, err := f.Signature()
		if err != nil {
			return 0, err
		}
		if sig.Type.Kind != TypeKindPrimitive {
			return 0, fmt.Errorf("%w: enum underlying field is not primitive", ErrUnsupportedSignatureShape)
		}
		result = sig.Type.Primitive
		found = true
	}
	if !found {
		return 0, fmt.Errorf("%w: enum has no instance field", ErrInvalidConstantType)
	}
	return result, nil
}

// --- Field, II.22.15 ---

type Field struct{ row }

func (db *Database) Field(idx uint32) (Field, error) {
	r, err := newRow(db, tblField, idx)
	return Field{r}, err
}
func (db *Database) FieldCount() uint32 { return db.table(tblField).rowCountOrZero() }

func (f Field) Flags() FieldAttributes { return FieldAttributes(f.tbl.raw16(f.idx, 0)) }
func (f Field) Name() (string, error)  { return f.str(1) }
func (f Field) Signature() (FieldSig, error) {
	b, err := f.blob(2)
	if err != nil {
		return FieldSig{}, err
	}
	return DecodeFieldSig(f.db, b)
}
func (f Field) Constant() (Constant, bool)         { return f.db.constantFor(tblField, f.idx) }
func (f Field) CustomAttributes() []CustomAttribute { return f.db.customAttributesFor(tblField, f.idx) }

// FieldRange is a contiguous, half-open range of Field rows, as produced
// by TypeDef.Fields.
type FieldRange struct {
	db         *Database
	start, end uint32
}

func (r FieldRange) Len() int { return int(r.end - r.start) }
func (r FieldRange) At(i int) (Field, error) {
	idx := r.start + uint32(i)
	if i < 0 || idx >= r.end {
		return Field{}, ErrInvalidRowIndex
	}
	return r.db.Field(idx)
}

// --- MethodDef, II.22.26 ---

type MethodDef struct{ row }

func (db *Database) MethodDef(idx uint32) (MethodDef, error) {
	r, err := newRow(db, tblMethodDef, idx)
	return MethodDef{r}, err
}
func (db *Database) MethodDefCount() uint32 { return db.table(tblMethodDef).rowCountOrZero() }

func (m MethodDef) RVA() uint32                   { return m.tbl.raw32(m.idx, 0) }
func (m MethodDef) ImplFlags() MethodImplAttributes { return MethodImplAttributes(m.tbl.raw16(m.idx, 1)) }
func (m MethodDef) Flags() MethodAttributes       { return MethodAttributes(m.tbl.raw16(m.idx, 2)) }
func (m MethodDef) Name() (string, error)         { return m.str(3) }
func (m MethodDef) Signature() (MethodDefSig, error) {
	b, err := m.blob(4)
	if err != nil {
		return MethodDefSig{}, err
	}
	return DecodeMethodDefSig(m.db, b)
}

func (m MethodDef) Params() ParamRange {
	target := m.db.table(tblParam)
	start, end := m.tbl.listRange(target, 5, m.idx)
	return ParamRange{db: m.db, start: start, end: end}
}

func (m MethodDef) CustomAttributes() []CustomAttribute {
	return m.db.customAttributesFor(tblMethodDef, m.idx)
}

// MethodRange is a contiguous, half-open range of MethodDef rows, as
// produced by TypeDef.Methods.
type MethodRange struct {
	db         *Database
	start, end uint32
}

func (r MethodRange) Len() int { return int(r.end - r.start) }
func (r MethodRange) At(i int) (MethodDef, error) {
	idx := r.start + uint32(i)
	if i < 0 || idx >= r.end {
		return MethodDef{}, ErrInvalidRowIndex
	}
	return r.db.MethodDef(idx)
}

// --- Param, II.22.33 ---

type Param struct{ row }

func (db *Database) Param(idx uint32) (Param, error) {
	r, err := newRow(db, tblParam, idx)
	return Param{r}, err
}
func (db *Database) ParamCount() uint32 { return db.table(tblParam).rowCountOrZero() }

// Flags returns the parameter's ParamAttributes.
func (p Param) Flags() ParamAttributes { return ParamAttributes(p.tbl.raw16(p.idx, 0)) }

// Sequence is the 1-based parameter position; 0 denotes the method's own
// return value, §II.22.33.
func (p Param) Sequence() uint16                 { return p.tbl.raw16(p.idx, 1) }
func (p Param) Name() (string, error)            { return p.str(2) }
func (p Param) Constant() (Constant, bool)       { return p.db.constantFor(tblParam, p.idx) }
func (p Param) CustomAttributes() []CustomAttribute {
	return p.db.customAttributesFor(tblParam, p.idx)
}

// ParamRange is a contiguous, half-open range of Param rows, as produced
// by MethodDef.Params.
type ParamRange struct {
	db         *Database
	start, end uint32
}

func (r ParamRange) Len() int { return int(r.end - r.start) }
func (r ParamRange) At(i int) (Param, error) {
	idx := r.start + uint32(i)
	if i < 0 || idx >= r.end {
		return Param{}, ErrInvalidRowIndex
	}
	return r.db.Param(idx)
}

// --- InterfaceImpl, II.22.23 ---

type InterfaceImpl struct{ row }

func (db *Database) InterfaceImpl(idx uint32) (InterfaceImpl, error) {
	r, err := newRow(db, tblInterfaceImpl, idx)
	return InterfaceImpl{r}, err
}
func (db *Database) InterfaceImplCount() uint32 { return db.table(tblInterfaceImpl).rowCountOrZero() }

func (i InterfaceImpl) Class() (TypeDef, error) {
	idx, null := i.simpleRef(0)
	if null {
		return TypeDef{}, ErrInvalidRowIndex
	}
	return i.db.TypeDef(idx)
}
func (i InterfaceImpl) Interface() ElementRef { return i.coded(1, codedTypeDefOrRef) }
func (i InterfaceImpl) CustomAttributes() []CustomAttribute {
	return i.db.customAttributesFor(tblInterfaceImpl, i.idx)
}

// --- MemberRef, II.22.25 ---

type MemberRef struct{ row }

func (db *Database) MemberRef(idx uint32) (MemberRef, error) {
	r, err := newRow(db, tblMemberRef, idx)
	return MemberRef{r}, err
}
func (db *Database) MemberRefCount() uint32 { return db.table(tblMemberRef).rowCountOrZero() }

func (m MemberRef) Class() ElementRef   { return m.coded(0, codedMemberRefParent) }
func (m MemberRef) Name() (string, error) { return m.str(1) }

// Signature decodes this MemberRef's signature blob as either a method or
// a field signature, dispatching on its leading byte (see
// DecodeMemberRefSig).
func (m MemberRef) Signature() (method *MethodDefSig, field *FieldSig, err error) {
	b, err := m.blob(2)
	if err != nil {
		return nil, nil, err
	}
	return DecodeMemberRefSig(m.db, b)
}
func (m MemberRef) CustomAttributes() []CustomAttribute {
	return m.db.customAttributesFor(tblMemberRef, m.idx)
}

// --- Constant, II.22.9 ---

type Constant struct{ row }

func (db *Database) Constant(idx uint32) (Constant, error) {
	r, err := newRow(db, tblConstant, idx)
	return Constant{r}, err
}
func (db *Database) ConstantCount() uint32 { return db.table(tblConstant).rowCountOrZero() }

func (c Constant) Type() ConstantType { return ConstantType(c.tbl.raw16(c.idx, 0)) }
func (c Constant) Parent() ElementRef { return c.coded(1, codedHasConstant) }
func (c Constant) Value() (FieldInit, error) {
	b, err := c.blob(2)
	if err != nil {
		return FieldInit{}, err
	}
	return decodeFieldInit(c.Type(), b)
}

// --- CustomAttribute, II.22.10 ---

type CustomAttribute struct{ row }

func (db *Database) CustomAttribute(idx uint32) (CustomAttribute, error) {
	r, err := newRow(db, tblCustomAttribute, idx)
	return CustomAttribute{r}, err
}
func (db *Database) CustomAttributeCount() uint32 {
	return db.table(tblCustomAttribute).rowCountOrZero()
}

func (c CustomAttribute) Parent() ElementRef { return c.coded(0, codedHasCustomAttribute) }
func (c CustomAttribute) Type() ElementRef   { return c.coded(1, codedCustomAttributeType) }
func (c CustomAttribute) ValueBlob() ([]byte, error) { return c.blob(2) }

// --- FieldMarshal, II.22.17 ---

type FieldMarshal struct{ row }

func (db *Database) FieldMarshal(idx uint32) (FieldMarshal, error) {
	r, err := newRow(db, tblFieldMarshal, idx)
	return FieldMarshal{r}, err
}
func (db *Database) FieldMarshalCount() uint32 { return db.table(tblFieldMarshal).rowCountOrZero() }

func (f FieldMarshal) Parent() ElementRef         { return f.coded(0, codedHasFieldMarshal) }
func (f FieldMarshal) NativeType() ([]byte, error) { return f.blob(1) }

// --- DeclSecurity, II.22.11 ---

type DeclSecurity struct{ row }

func (db *Database) DeclSecurity(idx uint32) (DeclSecurity, error) {
	r, err := newRow(db, tblDeclSecurity, idx)
	return DeclSecurity{r}, err
}
func (db *Database) DeclSecurityCount() uint32 { return db.table(tblDeclSecurity).rowCountOrZero() }

func (d DeclSecurity) Action() uint16               { return d.tbl.raw16(d.idx, 0) }
func (d DeclSecurity) Parent() ElementRef           { return d.coded(1, codedHasDeclSecurity) }
func (d DeclSecurity) PermissionSet() ([]byte, error) { return d.blob(2) }
func (d DeclSecurity) CustomAttributes() []CustomAttribute {
	return d.db.customAttributesFor(tblDeclSecurity, d.idx)
}

// --- ClassLayout, II.22.8 ---

type ClassLayout struct{ row }

func (db *Database) ClassLayout(idx uint32) (ClassLayout, error) {
	r, err := newRow(db, tblClassLayout, idx)
	return ClassLayout{r}, err
}
func (db *Database) ClassLayoutCount() uint32 { return db.table(tblClassLayout).rowCountOrZero() }

func (c ClassLayout) PackingSize() uint16 { return c.tbl.raw16(c.idx, 0) }
func (c ClassLayout) ClassSize() uint32   { return c.tbl.raw32(c.idx, 1) }
func (c ClassLayout) Parent() (TypeDef, error) {
	idx, null := c.simpleRef(2)
	if null {
		return TypeDef{}, ErrInvalidRowIndex
	}
	return c.db.TypeDef(idx)
}

// --- FieldLayout, II.22.16 ---

type FieldLayout struct{ row }

func (db *Database) FieldLayout(idx uint32) (FieldLayout, error) {
	r, err := newRow(db, tblFieldLayout, idx)
	return FieldLayout{r}, err
}
func (db *Database) FieldLayoutCount() uint32 { return db.table(tblFieldLayout).rowCountOrZero() }

func (f FieldLayout) Offset() uint32 { return f.tbl.raw32(f.idx, 0) }
func (f FieldLayout) Field() (Field, error) {
	idx, null := f.simpleRef(1)
	if null {
		return Field{}, ErrInvalidRowIndex
	}
	return f.db.Field(idx)
}

// --- StandAloneSig, II.22.36 ---

type StandAloneSig struct{ row }

func (db *Database) StandAloneSig(idx uint32) (StandAloneSig, error) {
	r, err := newRow(db, tblStandAloneSig, idx)
	return StandAloneSig{r}, err
}
func (db *Database) StandAloneSigCount() uint32 { return db.table(tblStandAloneSig).rowCountOrZero() }

func (s StandAloneSig) Signature() (MethodDefSig, error) {
	b, err := s.blob(0)
	if err != nil {
		return MethodDefSig{}, err
	}
	return DecodeMethodDefSig(s.db, b)
}
func (s StandAloneSig) CustomAttributes() []CustomAttribute {
	return s.db.customAttributesFor(tblStandAloneSig, s.idx)
}

// --- EventMap, II.22.12 ---

type EventMap struct{ row }

func (db *Database) EventMap(idx uint32) (EventMap, error) {
	r, err := newRow(db, tblEventMap, idx)
	return EventMap{r}, err
}
func (db *Database) EventMapCount() uint32 { return db.table(tblEventMap).rowCountOrZero() }

func (e EventMap) Parent() (TypeDef, error) {
	idx, null := e.simpleRef(0)
	if null {
		return TypeDef{}, ErrInvalidRowIndex
	}
	return e.db.TypeDef(idx)
}
func (e EventMap) Events() EventRange {
	target := e.db.table(tblEvent)
	start, end := e.tbl.listRange(target, 1, e.idx)
	return EventRange{db: e.db, start: start, end: end}
}

// --- Event, II.22.13 ---

type Event struct{ row }

func (db *Database) Event(idx uint32) (Event, error) {
	r, err := newRow(db, tblEvent, idx)
	return Event{r}, err
}
func (db *Database) EventCount() uint32 { return db.table(tblEvent).rowCountOrZero() }

func (e Event) Flags() EventAttributes { return EventAttributes(e.tbl.raw16(e.idx, 0)) }
func (e Event) Name() (string, error)  { return e.str(1) }
func (e Event) EventType() ElementRef  { return e.coded(2, codedTypeDefOrRef) }
func (e Event) CustomAttributes() []CustomAttribute {
	return e.db.customAttributesFor(tblEvent, e.idx)
}

// EventRange is a contiguous, half-open range of Event rows, as produced
// by EventMap.Events.
type EventRange struct {
	db         *Database
	start, end uint32
}

func (r EventRange) Len() int { return int(r.end - r.start) }
func (r EventRange) At(i int) (Event, error) {
	idx := r.start + uint32(i)
	if i < 0 || idx >= r.end {
		return Event{}, ErrInvalidRowIndex
	}
	return r.db.Event(idx)
}

// --- PropertyMap, II.22.35 ---

type PropertyMap struct{ row }

func (db *Database) PropertyMap(idx uint32) (PropertyMap, error) {
	r, err := newRow(db, tblPropertyMap, idx)
	return PropertyMap{r}, err
}
func (db *Database) PropertyMapCount() uint32 { return db.table(tblPropertyMap).rowCountOrZero() }

func (p PropertyMap) Parent() (TypeDef, error) {
	idx, null := p.simpleRef(0)
	if null {
		return TypeDef{}, ErrInvalidRowIndex
	}
	return p.db.TypeDef(idx)
}
func (p PropertyMap) Properties() PropertyRange {
	target := p.db.table(tblProperty)
	start, end := p.tbl.listRange(target, 1, p.idx)
	return PropertyRange{db: p.db, start: start, end: end}
}

// --- Property, II.22.34 ---

type Property struct{ row }

func (db *Database) Property(idx uint32) (Property, error) {
	r, err := newRow(db, tblProperty, idx)
	return Property{r}, err
}
func (db *Database) PropertyCount() uint32 { return db.table(tblProperty).rowCountOrZero() }

func (p Property) Flags() PropertyAttributes { return PropertyAttributes(p.tbl.raw16(p.idx, 0)) }
func (p Property) Name() (string, error)     { return p.str(1) }
func (p Property) Signature() (FieldSig, error) {
	b, err := p.blob(2)
	if err != nil {
		return FieldSig{}, err
	}
	return DecodeFieldSig(p.db, b)
}
func (p Property) Constant() (Constant, bool) { return p.db.constantFor(tblProperty, p.idx) }
func (p Property) CustomAttributes() []CustomAttribute {
	return p.db.customAttributesFor(tblProperty, p.idx)
}

// PropertyRange is a contiguous, half-open range of Property rows, as
// produced by PropertyMap.Properties.
type PropertyRange struct {
	db         *Database
	start, end uint32
}

func (r PropertyRange) Len() int { return int(r.end - r.start) }
func (r PropertyRange) At(i int) (Property, error) {
	idx := r.start + uint32(i)
	if i < 0 || idx >= r.end {
		return Property{}, ErrInvalidRowIndex
	}
	return r.db.Property(idx)
}

// --- MethodSemantics, II.22.28 ---

type MethodSemantics struct{ row }

func (db *Database) MethodSemantics(idx uint32) (MethodSemantics, error) {
	r, err := newRow(db, tblMethodSemantics, idx)
	return MethodSemantics{r}, err
}
func (db *Database) MethodSemanticsCount() uint32 {
	return db.table(tblMethodSemantics).rowCountOrZero()
}

func (m MethodSemantics) Semantics() MethodSemanticsAttributes {
	return MethodSemanticsAttributes(m.tbl.raw16(m.idx, 0))
}
func (m MethodSemantics) Method() (MethodDef, error) {
	idx, null := m.simpleRef(1)
	if null {
		return MethodDef{}, ErrInvalidRowIndex
	}
	return m.db.MethodDef(idx)
}
func (m MethodSemantics) Association() ElementRef { return m.coded(2, codedHasSemantics) }

// --- MethodImpl, II.22.27 ---

type MethodImpl struct{ row }

func (db *Database) MethodImpl(idx uint32) (MethodImpl, error) {
	r, err := newRow(db, tblMethodImpl, idx)
	return MethodImpl{r}, err
}
func (db *Database) MethodImplCount() uint32 { return db.table(tblMethodImpl).rowCountOrZero() }

func (m MethodImpl) Class() (TypeDef, error) {
	idx, null := m.simpleRef(0)
	if null {
		return TypeDef{}, ErrInvalidRowIndex
	}
	return m.db.TypeDef(idx)
}
func (m MethodImpl) MethodBody() ElementRef        { return m.coded(1, codedMethodDefOrRef) }
func (m MethodImpl) MethodDeclaration() ElementRef { return m.coded(2, codedMethodDefOrRef) }
func (m MethodImpl) CustomAttributes() []CustomAttribute {
	return m.db.customAttributesFor(tblMethodImpl, m.idx)
}

// --- ModuleRef, II.22.31 ---

type ModuleRef struct{ row }

func (db *Database) ModuleRef(idx uint32) (ModuleRef, error) {
	r, err := newRow(db, tblModuleRef, idx)
	return ModuleRef{r}, err
}
func (db *Database) ModuleRefCount() uint32 { return db.table(tblModuleRef).rowCountOrZero() }

func (m ModuleRef) Name() (string, error) { return m.str(0) }
func (m ModuleRef) CustomAttributes() []CustomAttribute {
	return m.db.customAttributesFor(tblModuleRef, m.idx)
}

// --- TypeSpec, II.22.39 ---

type TypeSpec struct{ row }

func (db *Database) TypeSpec(idx uint32) (TypeSpec, error) {
	r, err := newRow(db, tblTypeSpec, idx)
	return TypeSpec{r}, err
}
func (db *Database) TypeSpecCount() uint32 { return db.table(tblTypeSpec).rowCountOrZero() }

func (t TypeSpec) Signature() (TypeSpecSig, error) {
	b, err := t.blob(0)
	if err != nil {
		return TypeSpecSig{}, err
	}
	return DecodeTypeSpecSig(t.db, b)
}
func (t TypeSpec) CustomAttributes() []CustomAttribute {
	return t.db.customAttributesFor(tblTypeSpec, t.idx)
}

// --- ImplMap, II.22.22 ---

type ImplMap struct{ row }

func (db *Database) ImplMap(idx uint32) (ImplMap, error) {
	r, err := newRow(db, tblImplMap, idx)
	return ImplMap{r}, err
}
func (db *Database) ImplMapCount() uint32 { return db.table(tblImplMap).rowCountOrZero() }

func (i ImplMap) MappingFlags() uint16          { return i.tbl.raw16(i.idx, 0) }
func (i ImplMap) MemberForwarded() ElementRef   { return i.coded(1, codedMemberForwarded) }
func (i ImplMap) ImportName() (string, error)   { return i.str(2) }
func (i ImplMap) ImportScope() (ModuleRef, error) {
	idx, null := i.simpleRef(3)
	if null {
		return ModuleRef{}, ErrInvalidRowIndex
	}
	return i.db.ModuleRef(idx)
}

// --- FieldRVA, II.22.18 ---

type FieldRVA struct{ row }

func (db *Database) FieldRVA(idx uint32) (FieldRVA, error) {
	r, err := newRow(db, tblFieldRVA, idx)
	return FieldRVA{r}, err
}
func (db *Database) FieldRVACount() uint32 { return db.table(tblFieldRVA).rowCountOrZero() }

func (f FieldRVA) RVA() uint32 { return f.tbl.raw32(f.idx, 0) }
func (f FieldRVA) Field() (Field, error) {
	idx, null := f.simpleRef(1)
	if null {
		return Field{}, ErrInvalidRowIndex
	}
	return f.db.Field(idx)
}

// AssemblyVersion is the packed four-field version number carried by
// Assembly and AssemblyRef rows, §II.22.2 / §II.22.5.
type AssemblyVersion struct {
	Major, Minor, Build, Revision uint16
}

func decodeAssemblyVersion(b []byte) AssemblyVersion {
	return AssemblyVersion{
		Major:    binary.LittleEndian.Uint16(b[0:2]),
		Minor:    binary.LittleEndian.Uint16(b[2:4]),
		Build:    binary.LittleEndian.Uint16(b[4:6]),
		Revision: binary.LittleEndian.Uint16(b[6:8]),
	}
}

// --- Assembly, II.22.2 ---

type Assembly struct{ row }

func (db *Database) Assembly(idx uint32) (Assembly, error) {
	r, err := newRow(db, tblAssembly, idx)
	return Assembly{r}, err
}
func (db *Database) AssemblyCount() uint32 { return db.table(tblAssembly).rowCountOrZero() }

func (a Assembly) HashAlgId() uint32          { return a.tbl.raw32(a.idx, 0) }
func (a Assembly) Version() AssemblyVersion   { return decodeAssemblyVersion(a.tbl.bytes(a.idx, 1)) }
func (a Assembly) Flags() AssemblyFlags       { return AssemblyFlags(a.tbl.raw32(a.idx, 2)) }
func (a Assembly) PublicKey() ([]byte, error) { return a.blob(3) }
func (a Assembly) Name() (string, error)      { return a.str(4) }
func (a Assembly) Culture() (string, error)   { return a.str(5) }
func (a Assembly) CustomAttributes() []CustomAttribute {
	return a.db.customAttributesFor(tblAssembly, a.idx)
}

// --- AssemblyProcessor, II.22.3 ---

type AssemblyProcessor struct{ row }

func (db *Database) AssemblyProcessor(idx uint32) (AssemblyProcessor, error) {
	r, err := newRow(db, tblAssemblyProcessor, idx)
	return AssemblyProcessor{r}, err
}
func (db *Database) AssemblyProcessorCount() uint32 {
	return db.table(tblAssemblyProcessor).rowCountOrZero()
}

func (a AssemblyProcessor) Processor() uint32 { return a.tbl.raw32(a.idx, 0) }

// --- AssemblyOS, II.22.4 ---

type AssemblyOS struct{ row }

func (db *Database) AssemblyOS(idx uint32) (AssemblyOS, error) {
	r, err := newRow(db, tblAssemblyOS, idx)
	return AssemblyOS{r}, err
}
func (db *Database) AssemblyOSCount() uint32 { return db.table(tblAssemblyOS).rowCountOrZero() }

func (a AssemblyOS) OSPlatformID() uint32    { return a.tbl.raw32(a.idx, 0) }
func (a AssemblyOS) OSMajorVersion() uint32  { return a.tbl.raw32(a.idx, 1) }
func (a AssemblyOS) OSMinorVersion() uint32  { return a.tbl.raw32(a.idx, 2) }

// --- AssemblyRef, II.22.5 ---

type AssemblyRef struct{ row }

func (db *Database) AssemblyRef(idx uint32) (AssemblyRef, error) {
	r, err := newRow(db, tblAssemblyRef, idx)
	return AssemblyRef{r}, err
}
func (db *Database) AssemblyRefCount() uint32 { return db.table(tblAssemblyRef).rowCountOrZero() }

func (a AssemblyRef) Version() AssemblyVersion      { return decodeAssemblyVersion(a.tbl.bytes(a.idx, 0)) }
func (a AssemblyRef) Flags() AssemblyFlags          { return AssemblyFlags(a.tbl.raw32(a.idx, 1)) }
func (a AssemblyRef) PublicKeyOrToken() ([]byte, error) { return a.blob(2) }
func (a AssemblyRef) Name() (string, error)         { return a.str(3) }
func (a AssemblyRef) Culture() (string, error)      { return a.str(4) }
func (a AssemblyRef) HashValue() ([]byte, error)    { return a.blob(5) }
func (a AssemblyRef) CustomAttributes() []CustomAttribute {
	return a.db.customAttributesFor(tblAssemblyRef, a.idx)
}

// --- AssemblyRefProcessor, II.22.7 ---

type AssemblyRefProcessor struct{ row }

func (db *Database) AssemblyRefProcessor(idx uint32) (AssemblyRefProcessor, error) {
	r, err := newRow(db, tblAssemblyRefProcessor, idx)
	return AssemblyRefProcessor{r}, err
}
func (db *Database) AssemblyRefProcessorCount() uint32 {
	return db.table(tblAssemblyRefProcessor).rowCountOrZero()
}

func (a AssemblyRefProcessor) Processor() uint32 { return a.tbl.raw32(a.idx, 0) }
func (a AssemblyRefProcessor) AssemblyRef() (AssemblyRef, error) {
	idx, null := a.simpleRef(1)
	if null {
		return AssemblyRef{}, ErrInvalidRowIndex
	}
	return a.db.AssemblyRef(idx)
}

// --- AssemblyRefOS, II.22.6 ---

type AssemblyRefOS struct{ row }

func (db *Database) AssemblyRefOS(idx uint32) (AssemblyRefOS, error) {
	r, err := newRow(db, tblAssemblyRefOS, idx)
	return AssemblyRefOS{r}, err
}
func (db *Database) AssemblyRefOSCount() uint32 { return db.table(tblAssemblyRefOS).rowCountOrZero() }

func (a AssemblyRefOS) OSPlatformID() uint32   { return a.tbl.raw32(a.idx, 0) }
func (a AssemblyRefOS) OSMajorVersion() uint32 { return a.tbl.raw32(a.idx, 1) }
func (a AssemblyRefOS) OSMinorVersion() uint32 { return a.tbl.raw32(a.idx, 2) }
func (a AssemblyRefOS) AssemblyRef() (AssemblyRef, error) {
	idx, null := a.simpleRef(3)
	if null {
		return AssemblyRef{}, ErrInvalidRowIndex
	}
	return a.db.AssemblyRef(idx)
}

// --- File, II.22.19 ---

type FileRow struct{ row }

func (db *Database) File(idx uint32) (FileRow, error) {
	r, err := newRow(db, tblFile, idx)
	return FileRow{r}, err
}
func (db *Database) FileCount() uint32 { return db.table(tblFile).rowCountOrZero() }

func (f FileRow) Flags() uint32               { return f.tbl.raw32(f.idx, 0) }
func (f FileRow) Name() (string, error)       { return f.str(1) }
func (f FileRow) HashValue() ([]byte, error)  { return f.blob(2) }
func (f FileRow) CustomAttributes() []CustomAttribute {
	return f.db.customAttributesFor(tblFile, f.idx)
}

// --- ExportedType, II.22.14 ---

type ExportedType struct{ row }

func (db *Database) ExportedType(idx uint32) (ExportedType, error) {
	r, err := newRow(db, tblExportedType, idx)
	return ExportedType{r}, err
}
func (db *Database) ExportedTypeCount() uint32 { return db.table(tblExportedType).rowCountOrZero() }

func (e ExportedType) Flags() uint32          { return e.tbl.raw32(e.idx, 0) }
func (e ExportedType) TypeDefId() uint32      { return e.tbl.raw32(e.idx, 1) }
func (e ExportedType) Name() (string, error)  { return e.str(2) }
func (e ExportedType) Namespace() (string, error) { return e.str(3) }
func (e ExportedType) Implementation() ElementRef { return e.coded(4, codedImplementation) }
func (e ExportedType) CustomAttributes() []CustomAttribute {
	return e.db.customAttributesFor(tblExportedType, e.idx)
}

// --- ManifestResource, II.22.24 ---

type ManifestResource struct{ row }

func (db *Database) ManifestResource(idx uint32) (ManifestResource, error) {
	r, err := newRow(db, tblManifestResource, idx)
	return ManifestResource{r}, err
}
func (db *Database) ManifestResourceCount() uint32 {
	return db.table(tblManifestResource).rowCountOrZero()
}

func (m ManifestResource) Offset() uint32         { return m.tbl.raw32(m.idx, 0) }
func (m ManifestResource) Flags() uint32          { return m.tbl.raw32(m.idx, 1) }
func (m ManifestResource) Name() (string, error)  { return m.str(2) }
func (m ManifestResource) Implementation() ElementRef { return m.coded(3, codedImplementation) }
func (m ManifestResource) CustomAttributes() []CustomAttribute {
	return m.db.customAttributesFor(tblManifestResource, m.idx)
}

// --- NestedClass, II.22.32 ---

type NestedClass struct{ row }

func (db *Database) NestedClass(idx uint32) (NestedClass, error) {
	r, err := newRow(db, tblNestedClass, idx)
	return NestedClass{r}, err
}
func (db *Database) NestedClassCount() uint32 { return db.table(tblNestedClass).rowCountOrZero() }

func (n NestedClass) NestedType() (TypeDef, error) {
	idx, null := n.simpleRef(0)
	if null {
		return TypeDef{}, ErrInvalidRowIndex
	}
	return n.db.TypeDef(idx)
}
func (n NestedClass) EnclosingType() (TypeDef, error) {
	idx, null := n.simpleRef(1)
	if null {
		return TypeDef{}, ErrInvalidRowIndex
	}
	return n.db.TypeDef(idx)
}

// NestedClassesOf returns every NestedClass row whose NestedClass column
// names td, via NestedClass's sorted key column.
func (db *Database) NestedClassesOf(td TypeDef) []NestedClass {
	nc := db.table(tblNestedClass)
	start, count := findBySimpleKey(nc, 0, td.idx)
	out := make([]NestedClass, 0, count)
	for i := uint32(0); i < count; i++ {
		out = append(out, NestedClass{row{db: db, tbl: nc, idx: start + i}})
	}
	return out
}

// --- GenericParam, II.22.20 ---

type GenericParam struct{ row }

func (db *Database) GenericParam(idx uint32) (GenericParam, error) {
	r, err := newRow(db, tblGenericParam, idx)
	return GenericParam{r}, err
}
func (db *Database) GenericParamCount() uint32 { return db.table(tblGenericParam).rowCountOrZero() }

func (g GenericParam) Number() uint16 { return g.tbl.raw16(g.idx, 0) }
func (g GenericParam) Flags() GenericParamAttributes {
	return GenericParamAttributes(g.tbl.raw16(g.idx, 1))
}
func (g GenericParam) Owner() ElementRef  { return g.coded(2, codedTypeOrMethodDef) }
func (g GenericParam) Name() (string, error) { return g.str(3) }
func (g GenericParam) CustomAttributes() []CustomAttribute {
	return g.db.customAttributesFor(tblGenericParam, g.idx)
}

// --- MethodSpec, II.22.29 ---

type MethodSpec struct{ row }

func (db *Database) MethodSpec(idx uint32) (MethodSpec, error) {
	r, err := newRow(db, tblMethodSpec, idx)
	return MethodSpec{r}, err
}
func (db *Database) MethodSpecCount() uint32 { return db.table(tblMethodSpec).rowCountOrZero() }

func (m MethodSpec) Method() ElementRef { return m.coded(0, codedMethodDefOrRef) }
func (m MethodSpec) Instantiation() ([]byte, error) { return m.blob(1) }
func (m MethodSpec) CustomAttributes() []CustomAttribute {
	return m.db.customAttributesFor(tblMethodSpec, m.idx)
}

// --- GenericParamConstraint, II.22.21 ---

type GenericParamConstraint struct{ row }

func (db *Database) GenericParamConstraint(idx uint32) (GenericParamConstraint, error) {
	r, err := newRow(db, tblGenericParamConstraint, idx)
	return GenericParamConstraint{r}, err
}
func (db *Database) GenericParamConstraintCount() uint32 {
	return db.table(tblGenericParamConstraint).rowCountOrZero()
}

func (g GenericParamConstraint) Owner() (GenericParam, error) {
	idx, null := g.simpleRef(0)
	if null {
		return GenericParam{}, ErrInvalidRowIndex
	}
	return g.db.GenericParam(idx)
}
func (g GenericParamConstraint) Constraint() ElementRef { return g.coded(1, codedTypeDefOrRef) }
func (g GenericParamConstraint) CustomAttributes() []CustomAttribute {
	return g.db.customAttributesFor(tblGenericParamConstraint, g.idx)
}
