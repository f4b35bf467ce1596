package pe

import (
	"encoding/binary"
	"fmt"
)

// CustomAttribute blob decoding, ECMA-335 §II.23.3. A CustomAttribute's
// Value blob cannot be decoded on its own: its shape depends on the
// constructor it invokes, which in turn is only known by resolving the
// CustomAttribute row's Type coded index (to a MethodDef or MemberRef)
// and decoding that constructor's own signature. DecodeCustomAttributeSig
// takes the already-decoded constructor signature as a parameter so the
// two concerns stay separate; CustomAttribute.Value ties them together.

// readU32 reads a plain little-endian uint32, used for the FixedArg Array
// element count (§II.23.3), which is not compressed like most of the rest
// of a signature blob.
func (c *sigCursor) readU32() (uint32, error) {
	if c.pos+4 > len(c.data) {
		return 0, fmt.Errorf("%w: signature blob truncated", ErrUnsupportedSignatureShape)
	}
	v := binary.LittleEndian.Uint32(c.data[c.pos:])
	c.pos += 4
	return v, nil
}

// readSerString reads a SerString: a compressed-uint length followed by
// that many UTF-8 bytes, with length 0xFF meaning "absent" rather than
// "empty", §II.23.3.
func (c *sigCursor) readSerString() (s string, present bool, err error) {
	if c.pos >= len(c.data) {
		return "", false, fmt.Errorf("%w: SerString truncated", ErrUnsupportedSignatureShape)
	}
	if c.data[c.pos] == 0xff {
		c.pos++
		return "", false, nil
	}
	length, err := c.readCompressed()
	if err != nil {
		return "", false, err
	}
	if c.pos+int(length) > len(c.data) {
		return "", false, fmt.Errorf("%w: SerString runs past end of blob", ErrUnsupportedSignatureShape)
	}
	b := c.data[c.pos : c.pos+int(length)]
	c.pos += int(length)
	return string(b), true, nil
}

func primitiveWidth(p PrimitiveType) int {
	switch p {
	case PrimitiveBoolean, PrimitiveI1, PrimitiveU1:
		return 1
	case PrimitiveChar, PrimitiveI2, PrimitiveU2:
		return 2
	case PrimitiveI4, PrimitiveU4, PrimitiveR4:
		return 4
	case PrimitiveI8, PrimitiveU8, PrimitiveR8:
		return 8
	default:
		return 0
	}
}

func constantTypeForPrimitive(p PrimitiveType) ConstantType {
	switch p {
	case PrimitiveBoolean:
		return ConstantTypeBoolean
	case PrimitiveChar:
		return ConstantTypeChar
	case PrimitiveI1:
		return ConstantTypeInt8
	case PrimitiveU1:
		return ConstantTypeUInt8
	case PrimitiveI2:
		return ConstantTypeInt16
	case PrimitiveU2:
		return ConstantTypeUInt16
	case PrimitiveI4:
		return ConstantTypeInt32
	case PrimitiveU4:
		return ConstantTypeUInt32
	case PrimitiveI8:
		return ConstantTypeInt64
	case PrimitiveU8:
		return ConstantTypeUInt64
	case PrimitiveR4:
		return ConstantTypeFloat32
	case PrimitiveR8:
		return ConstantTypeFloat64
	default:
		return 0
	}
}

// readPrimitive reads one fixed-width primitive value directly out of a
// signature cursor (not a #Blob compressed-length entry), as used by
// CustomAttribute Elem values and enum underlying values.
func readPrimitive(c *sigCursor, p PrimitiveType) (PrimitiveValue, error) {
	w := primitiveWidth(p)
	if w == 0 {
		return PrimitiveValue{}, fmt.Errorf("%w: %s cannot appear in a CustomAttribute value", ErrUnsupportedSignatureShape, p)
	}
	if c.pos+w > len(c.data) {
		return PrimitiveValue{}, fmt.Errorf("%w: signature blob truncated", ErrUnsupportedSignatureShape)
	}
	b := c.data[c.pos : c.pos+w]
	c.pos += w
	return decodePrimitiveValue(constantTypeForPrimitive(p), b)
}

// fieldOrPropKind discriminates the shape of a CustomAttribute fixed or
// named argument's declared type, §II.23.3 "FieldOrPropType".
type fieldOrPropKind int

const (
	fieldOrPropPrimitive fieldOrPropKind = iota
	fieldOrPropString
	fieldOrPropSystemType
	fieldOrPropEnum
)

type fieldOrPropType struct {
	kind      fieldOrPropKind
	primitive PrimitiveType
	enumType  TypeDef
}

// fieldOrPropTypeFromType derives a FixedArg's declared element type from
// the constructor's static parameter type, resolving a TypeDefOrRef
// reference against cache when it names an enum.
func fieldOrPropTypeFromType(cache *Cache, t Type) (fieldOrPropType, error) {
	switch t.Kind {
	case TypeKindPrimitive:
		if t.Primitive == PrimitiveI || t.Primitive == PrimitiveU {
			return fieldOrPropType{}, fmt.Errorf("%w: CustomAttribute param cannot be native int/uint", ErrUnsupportedSignatureShape)
		}
		return fieldOrPropType{kind: fieldOrPropPrimitive, primitive: t.Primitive}, nil
	case TypeKindString:
		return fieldOrPropType{kind: fieldOrPropString}, nil
	case TypeKindRef:
		if ns, name, ok := t.Ref.namespaceName(); ok && ns == "System" && name == "Type" {
			return fieldOrPropType{kind: fieldOrPropSystemType}, nil
		}
		if t.Tag != TypeTagValueType {
			return fieldOrPropType{}, fmt.Errorf("%w: CustomAttribute param class type must be System.Type", ErrUnsupportedSignatureShape)
		}
		td, ok := cache.Resolve(t.Ref)
		if !ok {
			return fieldOrPropType{}, fmt.Errorf("%w: unresolvable CustomAttribute param TypeDefOrRef", ErrUnresolvedEnumType)
		}
		if !td.IsEnum() {
			return fieldOrPropType{}, fmt.Errorf("%w: CustomAttribute params that are TypeDefOrRef must be an enum or System.Type", ErrUnsupportedSignatureShape)
		}
		return fieldOrPropType{kind: fieldOrPropEnum, enumType: td}, nil
	default:
		// System.Object (a boxed value type) is also legal here per
		// §II.23.3 Elem; the signature decoder yields TypeKindObject for
		// it, but this reader does not decode boxed arguments, so it is
		// unsupported.
		return fieldOrPropType{}, fmt.Errorf("%w: unsupported CustomAttribute param shape", ErrUnsupportedSignatureShape)
	}
}

// parseFieldOrPropType reads a FieldOrPropType discriminator byte from a
// NamedArg, resolving an ARG_ENUM's trailing type name against cache.
func parseFieldOrPropType(c *sigCursor, cache *Cache) (fieldOrPropType, error) {
	b, err := c.readByte()
	if err != nil {
		return fieldOrPropType{}, err
	}
	if prim, ok := primitiveFromElem(b); ok {
		if prim == PrimitiveI || prim == PrimitiveU {
			return fieldOrPropType{}, fmt.Errorf("%w: CustomAttribute param cannot be native int/uint", ErrUnsupportedSignatureShape)
		}
		return fieldOrPropType{kind: fieldOrPropPrimitive, primitive: prim}, nil
	}
	switch b {
	case elemString:
		return fieldOrPropType{kind: fieldOrPropString}, nil
	case argSystemType:
		return fieldOrPropType{kind: fieldOrPropSystemType}, nil
	case argEnum:
		name, present, err := c.readSerString()
		if err != nil {
			return fieldOrPropType{}, err
		}
		if !present {
			return fieldOrPropType{}, fmt.Errorf("%w: NamedArg enum type name must not be null", ErrUnresolvedEnumType)
		}
		td, ok := cache.ResolveTypeName(name)
		if !ok {
			return fieldOrPropType{}, fmt.Errorf("%w: %s", ErrUnresolvedEnumType, name)
		}
		if !td.IsEnum() {
			return fieldOrPropType{}, fmt.Errorf("%w: NamedArg enum type name %s did not resolve to an enum", ErrUnresolvedEnumType, name)
		}
		return fieldOrPropType{kind: fieldOrPropEnum, enumType: td}, nil
	default:
		return fieldOrPropType{}, fmt.Errorf("%w: unexpected FieldOrPropType tag 0x%02x", ErrUnsupportedSignatureShape, b)
	}
}

// ElemValueKind discriminates the Elem sum type, §II.23.3.
type ElemValueKind int

const (
	ElemPrimitive ElemValueKind = iota
	ElemString
	ElemSystemType
	ElemEnumValue
)

// Elem is one decoded CustomAttribute value: a primitive, a string (which
// may be the null marker rather than ""), a System.Type name, or an enum
// literal value.
type Elem struct {
	Kind        ElemValueKind
	Primitive   PrimitiveValue // ElemPrimitive, ElemEnumValue
	StringValue string         // ElemString, ElemSystemType
	HasString   bool           // false for a null ElemString
	EnumType    TypeDef        // ElemEnumValue
}

func parseElemValue(fo fieldOrPropType, c *sigCursor) (Elem, error) {
	switch fo.kind {
	case fieldOrPropPrimitive:
		v, err := readPrimitive(c, fo.primitive)
		if err != nil {
			return Elem{}, err
		}
		return Elem{Kind: ElemPrimitive, Primitive: v}, nil
	case fieldOrPropString:
		s, present, err := c.readSerString()
		if err != nil {
			return Elem{}, err
		}
		return Elem{Kind: ElemString, StringValue: s, HasString: present}, nil
	case fieldOrPropSystemType:
		s, present, err := c.readSerString()
		if err != nil {
			return Elem{}, err
		}
		if !present {
			return Elem{}, fmt.Errorf("%w: System.Type value must not be null", ErrUnsupportedSignatureShape)
		}
		return Elem{Kind: ElemSystemType, StringValue: s, HasString: true}, nil
	case fieldOrPropEnum:
		underlying, err := fo.enumType.EnumUnderlyingType()
		if err != nil {
			return Elem{}, err
		}
		v, err := readPrimitive(c, underlying)
		if err != nil {
			return Elem{}, err
		}
		return Elem{Kind: ElemEnumValue, Primitive: v, EnumType: fo.enumType}, nil
	default:
		return Elem{}, fmt.Errorf("%w: unreachable FieldOrPropType kind", ErrUnsupportedSignatureShape)
	}
}

// FixedArg is one decoded constructor argument or NamedArg value,
// §II.23.3. A non-array argument has exactly one element in Elems.
type FixedArg struct {
	IsArray bool
	Elems   []Elem // nil when IsArray and the array itself is the null marker
}

// fixedArgShapeFromParamType derives whether a ctor parameter's FixedArg
// is an Array (its static type is SZARRAY) purely from the signature,
// with no cursor read — unlike a NamedArg's shape, which is read off the
// wire because named arguments carry no declared parameter list.
func fixedArgShapeFromParamType(t Type) (isArray bool, elemType Type, err error) {
	if t.Kind == TypeKindArray {
		if t.Elem == nil {
			return false, Type{}, fmt.Errorf("%w: array FixedArg with no element type", ErrUnsupportedSignatureShape)
		}
		return true, *t.Elem, nil
	}
	return false, t, nil
}

// parseElemShape reads a NamedArg's ElemKind: an optional leading SZARRAY
// byte, rewound if absent, followed by the FieldOrPropType, §II.23.3.
func parseElemShape(c *sigCursor, cache *Cache) (isArray bool, fo fieldOrPropType, err error) {
	mark := c.mark()
	b, err := c.readByte()
	if err != nil {
		return false, fieldOrPropType{}, err
	}
	if b == elemSZArray {
		fo, err = parseFieldOrPropType(c, cache)
		return true, fo, err
	}
	c.rewind(mark)
	fo, err = parseFieldOrPropType(c, cache)
	return false, fo, err
}

func parseFixedArg(c *sigCursor, isArray bool, fo fieldOrPropType) (FixedArg, error) {
	if !isArray {
		e, err := parseElemValue(fo, c)
		if err != nil {
			return FixedArg{}, err
		}
		return FixedArg{Elems: []Elem{e}}, nil
	}
	n, err := c.readU32()
	if err != nil {
		return FixedArg{}, err
	}
	if n == 0xffffffff {
		return FixedArg{IsArray: true}, nil
	}
	elems := make([]Elem, n)
	for i := range elems {
		e, err := parseElemValue(fo, c)
		if err != nil {
			return FixedArg{}, err
		}
		elems[i] = e
	}
	return FixedArg{IsArray: true, Elems: elems}, nil
}

// NamedArgKind distinguishes a named argument binding a field from one
// binding a property, §II.23.3.
type NamedArgKind int

const (
	NamedArgField NamedArgKind = iota
	NamedArgProperty
)

// NamedArg is one decoded CustomAttribute named argument, §II.23.3.
type NamedArg struct {
	Kind  NamedArgKind
	Name  string
	Value FixedArg
}

func parseNamedArg(c *sigCursor, cache *Cache) (NamedArg, error) {
	b, err := c.readByte()
	if err != nil {
		return NamedArg{}, err
	}
	var kind NamedArgKind
	switch b {
	case argField:
		kind = NamedArgField
	case argProperty:
		kind = NamedArgProperty
	default:
		return NamedArg{}, fmt.Errorf("%w: NamedArg must be FIELD (0x%02x) or PROPERTY (0x%02x), got 0x%02x", ErrUnsupportedSignatureShape, argField, argProperty, b)
	}
	isArray, fo, err := parseElemShape(c, cache)
	if err != nil {
		return NamedArg{}, err
	}
	name, present, err := c.readSerString()
	if err != nil {
		return NamedArg{}, err
	}
	if !present {
		return NamedArg{}, fmt.Errorf("%w: NamedArg name must not be null", ErrUnsupportedSignatureShape)
	}
	value, err := parseFixedArg(c, isArray, fo)
	if err != nil {
		return NamedArg{}, err
	}
	return NamedArg{Kind: kind, Name: name, Value: value}, nil
}

// CustomAttributeSig is a fully decoded CustomAttribute Value blob,
// §II.23.3.
type CustomAttributeSig struct {
	FixedArgs []FixedArg
	NamedArgs []NamedArg
}

// DecodeCustomAttributeSig decodes blob as a CustomAttribute value,
// against the already-resolved constructor signature ctor. Use
// CustomAttribute.Value to decode a row without resolving its
// constructor by hand.
func DecodeCustomAttributeSig(cache *Cache, ctor MethodDefSig, blob []byte) (CustomAttributeSig, error) {
	c := newSigCursor(blob)
	prolog, err := c.readU16()
	if err != nil {
		return CustomAttributeSig{}, err
	}
	if prolog != 0x0001 {
		return CustomAttributeSig{}, ErrInvalidCustomAttributeProlog
	}

	fixedArgs := make([]FixedArg, len(ctor.Params))
	for i, p := range ctor.Params {
		isArray, elemType, err := fixedArgShapeFromParamType(p.Type)
		if err != nil {
			return CustomAttributeSig{}, err
		}
		fo, err := fieldOrPropTypeFromType(cache, elemType)
		if err != nil {
			return CustomAttributeSig{}, err
		}
		fa, err := parseFixedArg(c, isArray, fo)
		if err != nil {
			return CustomAttributeSig{}, err
		}
		fixedArgs[i] = fa
	}

	namedCount, err := c.readU16()
	if err != nil {
		return CustomAttributeSig{}, err
	}
	namedArgs := make([]NamedArg, namedCount)
	for i := range namedArgs {
		na, err := parseNamedArg(c, cache)
		if err != nil {
			return CustomAttributeSig{}, err
		}
		namedArgs[i] = na
	}

	return CustomAttributeSig{FixedArgs: fixedArgs, NamedArgs: namedArgs}, nil
}

// ctorSignature resolves this CustomAttribute's Type coded index (a
// MethodDef or a MemberRef naming a .ctor) to a method signature.
func (c CustomAttribute) ctorSignature() (MethodDefSig, error) {
	ref := c.Type()
	if md, ok := ref.AsMethodDef(); ok {
		return md.Signature()
	}
	if mr, ok := ref.AsMemberRef(); ok {
		method, field, err := mr.Signature()
		if err != nil {
			return MethodDefSig{}, err
		}
		if field != nil {
			return MethodDefSig{}, fmt.Errorf("%w: CustomAttribute constructor MemberRef resolved to a field", ErrUnsupportedSignatureShape)
		}
		return *method, nil
	}
	return MethodDefSig{}, fmt.Errorf("%w: CustomAttribute Type coded index did not resolve to a constructor", ErrInvalidCodedIndexTag)
}

// Value resolves this row's constructor and decodes its Value blob
// against cache (needed to resolve any enum-typed argument).
func (c CustomAttribute) Value(cache *Cache) (CustomAttributeSig, error) {
	ctor, err := c.ctorSignature()
	if err != nil {
		return CustomAttributeSig{}, err
	}
	blob, err := c.ValueBlob()
	if err != nil {
		return CustomAttributeSig{}, err
	}
	return DecodeCustomAttributeSig(cache, ctor, blob)
}

// typeDefOwning finds the TypeDef whose MethodList range contains
// methodIdx. There is no direct "declaring type" column on MethodDef, so
// this is a linear scan of every TypeDef; acceptable for a read-only
// metadata facade that is not on any hot path.
func (db *Database) typeDefOwning(methodIdx uint32) (TypeDef, bool) {
	n := db.TypeDefCount()
	for i := uint32(0); i < n; i++ {
		td, err := db.TypeDef(i)
		if err != nil {
			continue
		}
		m := td.Methods()
		if methodIdx >= m.start && methodIdx < m.end {
			return td, true
		}
	}
	return TypeDef{}, false
}

// ctorOwner resolves a CustomAttribute's constructor back to the TypeDef
// it constructs: directly, via typeDefOwning, for a MethodDef-typed
// constructor, or via the MemberRef's Class coded index otherwise.
func (cache *Cache) ctorOwner(ca CustomAttribute) (TypeDef, bool) {
	ref := ca.Type()
	if md, ok := ref.AsMethodDef(); ok {
		return ca.db.typeDefOwning(md.idx)
	}
	if mr, ok := ref.AsMemberRef(); ok {
		return cache.Resolve(mr.Class())
	}
	return TypeDef{}, false
}

// GetAttribute finds the first CustomAttribute attached to t whose
// constructor belongs to the type named (namespace, name).
func (t TypeDef) GetAttribute(cache *Cache, namespace, name string) (CustomAttribute, bool) {
	for _, ca := range t.CustomAttributes() {
		owner, ok := cache.ctorOwner(ca)
		if !ok {
			continue
		}
		ownerName, err1 := owner.Name()
		ownerNS, err2 := owner.Namespace()
		if err1 != nil || err2 != nil {
			continue
		}
		if ownerNS == namespace && ownerName == name {
			return ca, true
		}
	}
	return CustomAttribute{}, false
}
