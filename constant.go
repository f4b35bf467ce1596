package pe

import (
	"encoding/binary"
	"fmt"
	"math"
)

// ConstantType is the Type column of a Constant row, §II.22.9 / §II.23.1.16.
type ConstantType uint16

const (
	ConstantTypeBoolean ConstantType = 0x02
	ConstantTypeChar    ConstantType = 0x03
	ConstantTypeInt8    ConstantType = 0x04
	ConstantTypeUInt8   ConstantType = 0x05
	ConstantTypeInt16   ConstantType = 0x06
	ConstantTypeUInt16  ConstantType = 0x07
	ConstantTypeInt32   ConstantType = 0x08
	ConstantTypeUInt32  ConstantType = 0x09
	ConstantTypeInt64   ConstantType = 0x0a
	ConstantTypeUInt64  ConstantType = 0x0b
	ConstantTypeFloat32 ConstantType = 0x0c
	ConstantTypeFloat64 ConstantType = 0x0d
	ConstantTypeString  ConstantType = 0x0e
	ConstantTypeClass   ConstantType = 0x12
)

// PrimitiveValue holds one decoded scalar from a Constant blob, §II.23.1.16.
// Kind says which field is live; the others are zero.
type PrimitiveValue struct {
	Kind    ConstantType
	Bool    bool
	Char    uint16
	Int8    int8
	UInt8   uint8
	Int16   int16
	UInt16  uint16
	Int32   int32
	UInt32  uint32
	Int64   int64
	UInt64  uint64
	Float32 float32
	Float64 float64
}

func decodePrimitiveValue(kind ConstantType, b []byte) (PrimitiveValue, error) {
	v := PrimitiveValue{Kind: kind}
	switch kind {
	case ConstantTypeBoolean:
		if len(b) < 1 {
			return v, fmt.Errorf("%w: Boolean constant blob too short", ErrInvalidConstantType)
		}
		v.Bool = b[0] != 0
	case ConstantTypeChar:
		if len(b) < 2 {
			return v, fmt.Errorf("%w: Char constant blob too short", ErrInvalidConstantType)
		}
		v.Char = binary.LittleEndian.Uint16(b)
	case ConstantTypeInt8:
		if len(b) < 1 {
			return v, fmt.Errorf("%w: Int8 constant blob too short", ErrInvalidConstantType)
		}
		v.Int8 = int8(b[0])
	case ConstantTypeUInt8:
		if len(b) < 1 {
			return v, fmt.Errorf("%w: UInt8 constant blob too short", ErrInvalidConstantType)
		}
		v.UInt8 = b[0]
	case ConstantTypeInt16:
		if len(b) < 2 {
			return v, fmt.Errorf("%w: Int16 constant blob too short", ErrInvalidConstantType)
		}
		v.Int16 = int16(binary.LittleEndian.Uint16(b))
	case ConstantTypeUInt16:
		if len(b) < 2 {
			return v, fmt.Errorf("%w: UInt16 constant blob too short", ErrInvalidConstantType)
		}
		v.UInt16 = binary.LittleEndian.Uint16(b)
	case ConstantTypeInt32:
		if len(b) < 4 {
			return v, fmt.Errorf("%w: Int32 constant blob too short", ErrInvalidConstantType)
		}
		v.Int32 = int32(binary.LittleEndian.Uint32(b))
	case ConstantTypeUInt32:
		if len(b) < 4 {
			return v, fmt.Errorf("%w: UInt32 constant blob too short", ErrInvalidConstantType)
		}
		v.UInt32 = binary.LittleEndian.Uint32(b)
	case ConstantTypeInt64:
		if len(b) < 8 {
			return v, fmt.Errorf("%w: Int64 constant blob too short", ErrInvalidConstantType)
		}
		v.Int64 = int64(binary.LittleEndian.Uint64(b))
	case ConstantTypeUInt64:
		if len(b) < 8 {
			return v, fmt.Errorf("%w: UInt64 constant blob too short", ErrInvalidConstantType)
		}
		v.UInt64 = binary.LittleEndian.Uint64(b)
	case ConstantTypeFloat32:
		if len(b) < 4 {
			return v, fmt.Errorf("%w: Float32 constant blob too short", ErrInvalidConstantType)
		}
		v.Float32 = math.Float32frombits(binary.LittleEndian.Uint32(b))
	case ConstantTypeFloat64:
		if len(b) < 8 {
			return v, fmt.Errorf("%w: Float64 constant blob too short", ErrInvalidConstantType)
		}
		v.Float64 = math.Float64frombits(binary.LittleEndian.Uint64(b))
	default:
		return v, fmt.Errorf("%w: 0x%02x is not a primitive ConstantType", ErrInvalidConstantType, kind)
	}
	return v, nil
}

// FieldInitKind discriminates the FieldInit sum type, §II.16.2.
type FieldInitKind int

const (
	FieldInitPrimitive FieldInitKind = iota
	FieldInitString
	FieldInitNullRef
)

// FieldInit is a decoded Constant.Value, §II.16.2. A String constant whose
// Value is blob index 0 (a null reference rather than an empty string)
// decodes to Kind == FieldInitString with StringValue == "" and
// HasString == false.
type FieldInit struct {
	Kind        FieldInitKind
	Primitive   PrimitiveValue
	StringValue string
	HasString   bool
}

// decodeFieldInit decodes a Constant row's Value blob per its Type column.
func decodeFieldInit(typ ConstantType, blob []byte) (FieldInit, error) {
	switch typ {
	case ConstantTypeString:
		if blob == nil {
			return FieldInit{Kind: FieldInitString}, nil
		}
		s, err := DecodeUTF16String(blob)
		if err != nil {
			return FieldInit{}, err
		}
		return FieldInit{Kind: FieldInitString, StringValue: s, HasString: true}, nil
	case ConstantTypeClass:
		if len(blob) != 4 || binary.LittleEndian.Uint32(blob) != 0 {
			return FieldInit{}, fmt.Errorf("%w: Class constant must be 4 zero bytes", ErrInvalidConstantType)
		}
		return FieldInit{Kind: FieldInitNullRef}, nil
	default:
		p, err := decodePrimitiveValue(typ, blob)
		if err != nil {
			return FieldInit{}, err
		}
		return FieldInit{Kind: FieldInitPrimitive, Primitive: p}, nil
	}
}

// TypeCategory classifies a TypeDef by what it ultimately derives from,
// §I.8.9.
type TypeCategory int

const (
	TypeCategoryClass TypeCategory = iota
	TypeCategoryInterface
	TypeCategoryEnum
	TypeCategoryStruct
	TypeCategoryDelegate
)

func (c TypeCategory) String() string {
	switch c {
	case TypeCategoryClass:
		return "class"
	case TypeCategoryInterface:
		return "interface"
	case TypeCategoryEnum:
		return "enum"
	case TypeCategoryStruct:
		return "struct"
	case TypeCategoryDelegate:
		return "delegate"
	default:
		return "?"
	}
}
