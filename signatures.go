package pe

import (
	"encoding/binary"
	"fmt"
)

// Signature blobs (II.23.2) use their own cursor over a #Blob entry,
// separate from the compressed-integer heap reader in heap.go because a
// signature also needs to peek-and-rewind at several points (RetType,
// ParamSig, and CustomMod all have an optional leading element that must
// be un-read if absent).
type sigCursor struct {
	data []byte
	pos  int
}

func newSigCursor(b []byte) *sigCursor { return &sigCursor{data: b} }

func (c *sigCursor) readByte() (byte, error) {
	if c.pos >= len(c.data) {
		return 0, fmt.Errorf("%w: signature blob truncated", ErrUnsupportedSignatureShape)
	}
	b := c.data[c.pos]
	c.pos++
	return b, nil
}

func (c *sigCursor) readU16() (uint16, error) {
	if c.pos+2 > len(c.data) {
		return 0, fmt.Errorf("%w: signature blob truncated", ErrUnsupportedSignatureShape)
	}
	v := binary.LittleEndian.Uint16(c.data[c.pos:])
	c.pos += 2
	return v, nil
}

func (c *sigCursor) readCompressed() (uint32, error) {
	v, n, err := decodeCompressedUnsigned(c.data[c.pos:])
	if err != nil {
		return 0, err
	}
	c.pos += n
	return v, nil
}

func (c *sigCursor) mark() int     { return c.pos }
func (c *sigCursor) rewind(p int)  { c.pos = p }

// Calling-convention and element-type tags, ECMA-335 §II.23.1.16 / §II.23.2.12.
const (
	sigDefault      = 0x00
	sigVarArg       = 0x05
	sigField        = 0x06
	sigGeneric      = 0x10
	sigHasThis      = 0x20
	sigExplicitThis = 0x40

	elemEnd         = 0x00
	elemVoid        = 0x01
	elemBoolean     = 0x02
	elemChar        = 0x03
	elemI1          = 0x04
	elemU1          = 0x05
	elemI2          = 0x06
	elemU2          = 0x07
	elemI4          = 0x08
	elemU4          = 0x09
	elemI8          = 0x0a
	elemU8          = 0x0b
	elemR4          = 0x0c
	elemR8          = 0x0d
	elemString      = 0x0e
	elemPtr         = 0x0f
	elemByRef       = 0x10
	elemValueType   = 0x11
	elemClass       = 0x12
	elemVar         = 0x13
	elemArray       = 0x14
	elemGenericInst = 0x15
	elemTypedByRef  = 0x16
	elemI           = 0x18
	elemU           = 0x19
	elemFnPtr       = 0x1b
	elemObject      = 0x1c
	elemSZArray     = 0x1d
	elemMVar        = 0x1e
	elemCmodReqd    = 0x1f
	elemCmodOpt     = 0x20
	elemSentinel    = 0x41

	// Custom-attribute-only discriminators, ECMA-335 §II.23.3.
	argSystemType = 0x50
	argField      = 0x53
	argProperty   = 0x54
	argEnum       = 0x55
)

// PrimitiveType is one of the element types §II.23.1.16 calls "primitive",
// i.e. everything Type/RetType/ParamSig can carry that is not a class,
// value type, generic variable, array, object, or string reference.
type PrimitiveType int

const (
	PrimitiveBoolean PrimitiveType = iota
	PrimitiveChar
	PrimitiveI1
	PrimitiveU1
	PrimitiveI2
	PrimitiveU2
	PrimitiveI4
	PrimitiveU4
	PrimitiveI8
	PrimitiveU8
	PrimitiveR4
	PrimitiveR8
	PrimitiveI
	PrimitiveU
)

func (p PrimitiveType) String() string {
	switch p {
	case PrimitiveBoolean:
		return "bool"
	case PrimitiveChar:
		return "char"
	case PrimitiveI1:
		return "int8"
	case PrimitiveU1:
		return "unsigned int8"
	case PrimitiveI2:
		return "int16"
	case PrimitiveU2:
		return "unsigned int16"
	case PrimitiveI4:
		return "int32"
	case PrimitiveU4:
		return "unsigned int32"
	case PrimitiveI8:
		return "int64"
	case PrimitiveU8:
		return "unsigned int64"
	case PrimitiveR4:
		return "float32"
	case PrimitiveR8:
		return "float64"
	case PrimitiveI:
		return "native int"
	case PrimitiveU:
		return "native unsigned int"
	default:
		return "?"
	}
}

func primitiveFromElem(b byte) (PrimitiveType, bool) {
	switch b {
	case elemBoolean:
		return PrimitiveBoolean, true
	case elemChar:
		return PrimitiveChar, true
	case elemI1:
		return PrimitiveI1, true
	case elemU1:
		return PrimitiveU1, true
	case elemI2:
		return PrimitiveI2, true
	case elemU2:
		return PrimitiveU2, true
	case elemI4:
		return PrimitiveI4, true
	case elemU4:
		return PrimitiveU4, true
	case elemI8:
		return PrimitiveI8, true
	case elemU8:
		return PrimitiveU8, true
	case elemR4:
		return PrimitiveR4, true
	case elemR8:
		return PrimitiveR8, true
	case elemI:
		return PrimitiveI, true
	case elemU:
		return PrimitiveU, true
	default:
		return 0, false
	}
}

// TypeTag distinguishes a CLASS from a VALUETYPE reference, §II.23.2.12.
type TypeTag int

const (
	TypeTagClass TypeTag = iota
	TypeTagValueType
)

// TypeKind discriminates the Type sum type, §II.23.2.12.
type TypeKind int

const (
	TypeKindPrimitive TypeKind = iota
	TypeKindArray              // SZARRAY; ArrayShape-carrying ARRAY is unsupported
	TypeKindRef                // CLASS or VALUETYPE, possibly GENERICINST
	TypeKindVar                // MVAR or VAR
	TypeKindObject
	TypeKindString
)

// Type is a decoded signature type, §II.23.2.12. ARRAY (with an explicit
// shape), PTR, and FNPTR are not modeled: this reader's domain is metadata
// introspection, not full type-system reconstruction, and none of those
// three shapes appear in practice in the signatures the Schema facade
// exposes (field types, parameter/return types, generic arguments).
type Type struct {
	Kind        TypeKind
	Primitive   PrimitiveType
	Elem        *Type   // TypeKindArray: the SZARRAY element type
	Tag         TypeTag // TypeKindRef
	Ref         ElementRef
	GenericArgs []Type // TypeKindRef, GENERICINST only; nil otherwise
	VarScope    GenericVarScope
	VarIndex    uint32
}

// GenericVarScope says whether a GenericVar Type names a type-level (VAR)
// or method-level (MVAR) generic parameter.
type GenericVarScope int

const (
	GenericVarType GenericVarScope = iota
	GenericVarMethod
)

func decodeTypeDefOrRef(db *Database, value uint32) (ElementRef, error) {
	target, idx, null, ok := codedTypeDefOrRef.decode(value)
	if !ok {
		return ElementRef{}, fmt.Errorf("%w: TypeDefOrRef tag in signature", ErrInvalidCodedIndexTag)
	}
	if null {
		return ElementRef{}, fmt.Errorf("%w: null TypeDefOrRef in signature", ErrUnsupportedSignatureShape)
	}
	return ElementRef{db: db, target: target, row: idx}, nil
}

func parseType(c *sigCursor, db *Database) (Type, error) {
	b, err := c.readByte()
	if err != nil {
		return Type{}, err
	}
	if prim, ok := primitiveFromElem(b); ok {
		return Type{Kind: TypeKindPrimitive, Primitive: prim}, nil
	}
	switch b {
	case elemClass, elemValueType:
		v, err := c.readCompressed()
		if err != nil {
			return Type{}, err
		}
		ref, err := decodeTypeDefOrRef(db, v)
		if err != nil {
			return Type{}, err
		}
		tag := TypeTagClass
		if b == elemValueType {
			tag = TypeTagValueType
		}
		return Type{Kind: TypeKindRef, Tag: tag, Ref: ref}, nil
	case elemGenericInst:
		tag, ref, args, err := parseGenericInst(c, db)
		if err != nil {
			return Type{}, err
		}
		return Type{Kind: TypeKindRef, Tag: tag, Ref: ref, GenericArgs: args}, nil
	case elemMVar:
		n, err := c.readCompressed()
		if err != nil {
			return Type{}, err
		}
		return Type{Kind: TypeKindVar, VarScope: GenericVarMethod, VarIndex: n}, nil
	case elemVar:
		n, err := c.readCompressed()
		if err != nil {
			return Type{}, err
		}
		return Type{Kind: TypeKindVar, VarScope: GenericVarType, VarIndex: n}, nil
	case elemObject:
		return Type{Kind: TypeKindObject}, nil
	case elemString:
		return Type{Kind: TypeKindString}, nil
	case elemSZArray:
		mods, err := parseCustomMods(c, db)
		if err != nil {
			return Type{}, err
		}
		elem, err := parseType(c, db)
		if err != nil {
			return Type{}, err
		}
		_ = mods // SZARRAY's own custom mods are not carried on Type today
		return Type{Kind: TypeKindArray, Elem: &elem}, nil
	case elemArray, elemPtr, elemFnPtr:
		return Type{}, fmt.Errorf("%w: element type 0x%02x", ErrUnsupportedSignatureShape, b)
	default:
		return Type{}, fmt.Errorf("%w: unexpected element type 0x%02x for Type", ErrUnsupportedSignatureShape, b)
	}
}

func parseGenericInst(c *sigCursor, db *Database) (TypeTag, ElementRef, []Type, error) {
	b, err := c.readByte()
	if err != nil {
		return 0, ElementRef{}, nil, err
	}
	var tag TypeTag
	switch b {
	case elemClass:
		tag = TypeTagClass
	case elemValueType:
		tag = TypeTagValueType
	default:
		return 0, ElementRef{}, nil, fmt.Errorf("%w: GENERICINST must begin with CLASS or VALUETYPE", ErrUnsupportedSignatureShape)
	}
	v, err := c.readCompressed()
	if err != nil {
		return 0, ElementRef{}, nil, err
	}
	ref, err := decodeTypeDefOrRef(db, v)
	if err != nil {
		return 0, ElementRef{}, nil, err
	}
	argCount, err := c.readCompressed()
	if err != nil {
		return 0, ElementRef{}, nil, err
	}
	args := make([]Type, argCount)
	for i := range args {
		t, err := parseType(c, db)
		if err != nil {
			return 0, ElementRef{}, nil, err
		}
		args[i] = t
	}
	return tag, ref, args, nil
}

// CustomModTag distinguishes CMOD_OPT from CMOD_REQD, §II.23.2.7.
type CustomModTag int

const (
	CustomModOptional CustomModTag = iota
	CustomModRequired
)

// CustomMod is one custom modifier attached to a Type, RetType, or
// ParamSig, §II.23.2.7.
type CustomMod struct {
	Tag  CustomModTag
	Type ElementRef
}

func parseCustomMods(c *sigCursor, db *Database) ([]CustomMod, error) {
	var mods []CustomMod
	for {
		mark := c.mark()
		b, err := c.readByte()
		if err != nil {
			return mods, nil
		}
		var tag CustomModTag
		switch b {
		case elemCmodOpt:
			tag = CustomModOptional
		case elemCmodReqd:
			tag = CustomModRequired
		default:
			c.rewind(mark)
			return mods, nil
		}
		v, err := c.readCompressed()
		if err != nil {
			return nil, err
		}
		ref, err := decodeTypeDefOrRef(db, v)
		if err != nil {
			return nil, err
		}
		mods = append(mods, CustomMod{Tag: tag, Type: ref})
	}
}

// RetTypeKind discriminates the RetType sum type, §II.23.2.11.
type RetTypeKind int

const (
	RetTypeVoid RetTypeKind = iota
	RetTypeValue
	RetTypeByRef
	RetTypeTypedReference
)

// RetType is a decoded method return type, §II.23.2.11.
type RetType struct {
	CustomMods []CustomMod
	Kind       RetTypeKind
	Type       Type // valid when Kind is RetTypeValue or RetTypeByRef
}

func parseRetType(c *sigCursor, db *Database) (RetType, error) {
	mods, err := parseCustomMods(c, db)
	if err != nil {
		return RetType{}, err
	}
	mark := c.mark()
	b, err := c.readByte()
	if err != nil {
		return RetType{}, err
	}
	switch b {
	case elemVoid:
		return RetType{CustomMods: mods, Kind: RetTypeVoid}, nil
	case elemTypedByRef:
		return RetType{CustomMods: mods, Kind: RetTypeTypedReference}, nil
	case elemByRef:
		t, err := parseType(c, db)
		if err != nil {
			return RetType{}, err
		}
		return RetType{CustomMods: mods, Kind: RetTypeByRef, Type: t}, nil
	default:
		c.rewind(mark)
		t, err := parseType(c, db)
		if err != nil {
			return RetType{}, err
		}
		return RetType{CustomMods: mods, Kind: RetTypeValue, Type: t}, nil
	}
}

// ParamKind discriminates the ParamSig sum type, §II.23.2.10.
type ParamKind int

const (
	ParamValue ParamKind = iota
	ParamByRef
	ParamTypedReference
)

// ParamSig is one decoded parameter type from a MethodDefSig. Renamed from
// ECMA-335's "Param" to avoid clashing with the Param table row type.
type ParamSig struct {
	CustomMods []CustomMod
	Kind       ParamKind
	Type       Type // valid when Kind is ParamValue or ParamByRef
}

func parseParamSig(c *sigCursor, db *Database) (ParamSig, error) {
	mods, err := parseCustomMods(c, db)
	if err != nil {
		return ParamSig{}, err
	}
	mark := c.mark()
	b, err := c.readByte()
	if err != nil {
		return ParamSig{}, err
	}
	switch b {
	case elemTypedByRef:
		return ParamSig{CustomMods: mods, Kind: ParamTypedReference}, nil
	case elemByRef:
		t, err := parseType(c, db)
		if err != nil {
			return ParamSig{}, err
		}
		return ParamSig{CustomMods: mods, Kind: ParamByRef, Type: t}, nil
	default:
		c.rewind(mark)
		t, err := parseType(c, db)
		if err != nil {
			return ParamSig{}, err
		}
		return ParamSig{CustomMods: mods, Kind: ParamValue, Type: t}, nil
	}
}

// MethodDefSig is a decoded method signature, §II.23.2.1.
type MethodDefSig struct {
	HasThis           bool
	ExplicitThis      bool
	Vararg            bool
	Generic           bool
	GenericParamCount uint32
	RetType           RetType
	Params            []ParamSig
}

// DecodeMethodDefSig decodes a MethodDef.Signature or StandAloneSig blob
// as a method signature, §II.23.2.1.
func DecodeMethodDefSig(db *Database, blob []byte) (MethodDefSig, error) {
	c := newSigCursor(blob)
	initial, err := c.readByte()
	if err != nil {
		return MethodDefSig{}, err
	}

	var genericCount uint32
	if initial&sigGeneric != 0 {
		genericCount, err = c.readCompressed()
		if err != nil {
			return MethodDefSig{}, err
		}
	}

	paramCount, err := c.readCompressed()
	if err != nil {
		return MethodDefSig{}, err
	}

	ret, err := parseRetType(c, db)
	if err != nil {
		return MethodDefSig{}, err
	}

	params := make([]ParamSig, paramCount)
	for i := range params {
		p, err := parseParamSig(c, db)
		if err != nil {
			return MethodDefSig{}, err
		}
		params[i] = p
	}

	return MethodDefSig{
		HasThis:           initial&sigHasThis != 0,
		ExplicitThis:      initial&sigExplicitThis != 0,
		Vararg:            initial&sigVarArg != 0,
		Generic:           initial&sigGeneric != 0,
		GenericParamCount: genericCount,
		RetType:           ret,
		Params:            params,
	}, nil
}

// FieldSig is a decoded field signature, §II.23.2.4.
type FieldSig struct {
	CustomMods []CustomMod
	Type       Type
}

// DecodeFieldSig decodes a Field.Signature blob, §II.23.2.4.
func DecodeFieldSig(db *Database, blob []byte) (FieldSig, error) {
	c := newSigCursor(blob)
	b, err := c.readByte()
	if err != nil {
		return FieldSig{}, err
	}
	if b != sigField {
		return FieldSig{}, fmt.Errorf("%w: field signature must begin with FIELD (0x06), got 0x%02x", ErrUnsupportedSignatureShape, b)
	}
	mods, err := parseCustomMods(c, db)
	if err != nil {
		return FieldSig{}, err
	}
	t, err := parseType(c, db)
	if err != nil {
		return FieldSig{}, err
	}
	return FieldSig{CustomMods: mods, Type: t}, nil
}

// DecodeMemberRefSig decodes a MemberRef.Signature blob. A MemberRef can
// reference either a field or a method, distinguished by the leading
// calling-convention byte: FIELD (0x06) is never a method calling
// convention (DEFAULT/VARARG/GENERIC/HASTHIS/EXPLICITTHIS all leave that
// bit pattern unused), so peeking it is sufficient to dispatch without
// ambiguity. Exactly one of the two return values is non-nil.
func DecodeMemberRefSig(db *Database, blob []byte) (method *MethodDefSig, field *FieldSig, err error) {
	if len(blob) == 0 {
		return nil, nil, fmt.Errorf("%w: empty MemberRef signature", ErrUnsupportedSignatureShape)
	}
	if blob[0] == sigField {
		f, err := DecodeFieldSig(db, blob)
		if err != nil {
			return nil, nil, err
		}
		return nil, &f, nil
	}
	m, err := DecodeMethodDefSig(db, blob)
	if err != nil {
		return nil, nil, err
	}
	return &m, nil, nil
}

// TypeSpecSig is a decoded TypeSpec signature, §II.23.2.14. Only
// GENERICINST is modeled: ARRAY, SZARRAY, FNPTR, and PTR TypeSpecs are
// rare in practice and unsupported here, matching MethodDefSig/FieldSig's
// scope.
type TypeSpecSig struct {
	Tag         TypeTag
	Type        ElementRef
	GenericArgs []Type
}

// DecodeTypeSpecSig decodes a TypeSpec.Signature blob, §II.23.2.14.
func DecodeTypeSpecSig(db *Database, blob []byte) (TypeSpecSig, error) {
	c := newSigCursor(blob)
	b, err := c.readByte()
	if err != nil {
		return TypeSpecSig{}, err
	}
	switch b {
	case elemGenericInst:
		tag, ref, args, err := parseGenericInst(c, db)
		if err != nil {
			return TypeSpecSig{}, err
		}
		return TypeSpecSig{Tag: tag, Type: ref, GenericArgs: args}, nil
	default:
		return TypeSpecSig{}, fmt.Errorf("%w: TypeSpec element type 0x%02x", ErrUnsupportedSignatureShape, b)
	}
}
