package pe

// The flag wrapper types below mask the raw attribute integers
// stored in various table columns (TypeDef.Flags, MethodDef.Flags, ...)
// into named bit/enum accessors. Bit and mask assignments are transcribed
// from ECMA-335 §II.23.1: one type per flag column, one method per named
// bit or sub-field.

func getBit(v uint32, pos uint) bool {
	return v&(1<<pos) != 0
}

func getMasked(v uint32, mask uint32) uint32 {
	// The masked value keeps its bit position, so it compares directly
	// against the enum constants below, which ECMA-335 defines in place.
	return v & mask
}

// MemberAccess is the shared 3-bit access-control enumeration used by
// FieldAttributes and MethodAttributes.
type MemberAccess uint32

const (
	MemberAccessCompilerControlled MemberAccess = 0x0
	MemberAccessPrivate            MemberAccess = 0x1
	MemberAccessFamAndAssem        MemberAccess = 0x2
	MemberAccessAssembly           MemberAccess = 0x3
	MemberAccessFamily             MemberAccess = 0x4
	MemberAccessFamOrAssem         MemberAccess = 0x5
	MemberAccessPublic             MemberAccess = 0x6
)

func (a MemberAccess) String() string {
	switch a {
	case MemberAccessCompilerControlled:
		return "CompilerControlled"
	case MemberAccessPrivate:
		return "Private"
	case MemberAccessFamAndAssem:
		return "FamAndAssem"
	case MemberAccessAssembly:
		return "Assembly"
	case MemberAccessFamily:
		return "Family"
	case MemberAccessFamOrAssem:
		return "FamOrAssem"
	case MemberAccessPublic:
		return "Public"
	default:
		return "?"
	}
}

// TypeAttributes wraps TypeDef.Flags.
type TypeAttributes uint32

const (
	typeVisibilityMask  = 0x00000007
	typeLayoutMask      = 0x00000018
	typeSemanticsMask   = 0x00000020
	typeAbstractBit     = 7
	typeSealedBit       = 8
	typeSpecialNameBit  = 10
	typeImportBit       = 12
	typeSerializableBit = 13
	typeWinRTBit        = 14
	typeStringFmtMask   = 0x00030000
	typeBeforeFldInit   = 20
	typeRTSpecialName   = 11
	typeHasSecurityBit  = 18
	typeIsFwderBit      = 21
)

type TypeVisibility uint32

const (
	TypeNotPublic       TypeVisibility = 0x0
	TypePublic          TypeVisibility = 0x1
	TypeNestedPublic    TypeVisibility = 0x2
	TypeNestedPrivate   TypeVisibility = 0x3
	TypeNestedFamily    TypeVisibility = 0x4
	TypeNestedAssembly  TypeVisibility = 0x5
	TypeNestedFamANDAssem TypeVisibility = 0x6
	TypeNestedFamORAssem  TypeVisibility = 0x7
)

type TypeLayout uint32

const (
	TypeAutoLayout       TypeLayout = 0x00
	TypeSequentialLayout TypeLayout = 0x08
	TypeExplicitLayout   TypeLayout = 0x10
)

type TypeSemantics uint32

const (
	TypeSemanticsClass     TypeSemantics = 0x00
	TypeSemanticsInterface TypeSemantics = 0x20
)

type StringFormat uint32

const (
	StringFormatAnsiClass         StringFormat = 0x00000
	StringFormatUnicodeClass      StringFormat = 0x10000
	StringFormatAutoClass         StringFormat = 0x20000
	StringFormatCustomFormatClass StringFormat = 0x30000
)

func (t TypeAttributes) Visibility() TypeVisibility { return TypeVisibility(getMasked(uint32(t), typeVisibilityMask)) }
func (t TypeAttributes) Layout() TypeLayout         { return TypeLayout(getMasked(uint32(t), typeLayoutMask)) }
func (t TypeAttributes) Semantics() TypeSemantics   { return TypeSemantics(getMasked(uint32(t), typeSemanticsMask)) }
func (t TypeAttributes) Abstract() bool             { return getBit(uint32(t), typeAbstractBit) }
func (t TypeAttributes) Sealed() bool               { return getBit(uint32(t), typeSealedBit) }
func (t TypeAttributes) SpecialName() bool          { return getBit(uint32(t), typeSpecialNameBit) }
func (t TypeAttributes) Import() bool               { return getBit(uint32(t), typeImportBit) }
func (t TypeAttributes) Serializable() bool         { return getBit(uint32(t), typeSerializableBit) }
func (t TypeAttributes) WindowsRuntime() bool       { return getBit(uint32(t), typeWinRTBit) }
func (t TypeAttributes) StringFormat() StringFormat { return StringFormat(getMasked(uint32(t), typeStringFmtMask)) }
func (t TypeAttributes) BeforeFieldInit() bool      { return getBit(uint32(t), typeBeforeFldInit) }
func (t TypeAttributes) RTSpecialName() bool        { return getBit(uint32(t), typeRTSpecialName) }
func (t TypeAttributes) HasSecurity() bool          { return getBit(uint32(t), typeHasSecurityBit) }
func (t TypeAttributes) IsTypeForwarder() bool      { return getBit(uint32(t), typeIsFwderBit) }

// MethodAttributes wraps MethodDef.Flags.
type MethodAttributes uint32

const (
	methodAccessMask       = 0x0007
	methodStaticBit        = 4
	methodFinalBit         = 5
	methodVirtualBit       = 6
	methodHideBySigBit     = 7
	methodVtableLayoutMask = 0x0100
	methodStrictBit        = 9
	methodAbstractBit      = 10
	methodSpecialNameBit   = 11
	methodPInvokeImplBit   = 13
	methodUnmanagedExpBit  = 3
	methodRTSpecialNameBit = 12
	methodHasSecurityBit   = 14
	methodReqSecObjBit     = 15
)

type VtableLayout uint32

const (
	VtableLayoutReuseSlot VtableLayout = 0x0000
	VtableLayoutNewSlot   VtableLayout = 0x0100
)

func (m MethodAttributes) Access() MemberAccess    { return MemberAccess(getMasked(uint32(m), methodAccessMask)) }
func (m MethodAttributes) Static() bool            { return getBit(uint32(m), methodStaticBit) }
func (m MethodAttributes) Final() bool             { return getBit(uint32(m), methodFinalBit) }
func (m MethodAttributes) Virtual() bool           { return getBit(uint32(m), methodVirtualBit) }
func (m MethodAttributes) HideBySig() bool         { return getBit(uint32(m), methodHideBySigBit) }
func (m MethodAttributes) VtableLayout() VtableLayout { return VtableLayout(getMasked(uint32(m), methodVtableLayoutMask)) }
func (m MethodAttributes) Strict() bool            { return getBit(uint32(m), methodStrictBit) }
func (m MethodAttributes) Abstract() bool          { return getBit(uint32(m), methodAbstractBit) }
func (m MethodAttributes) SpecialName() bool       { return getBit(uint32(m), methodSpecialNameBit) }
func (m MethodAttributes) PInvokeImpl() bool       { return getBit(uint32(m), methodPInvokeImplBit) }
func (m MethodAttributes) UnmanagedExport() bool   { return getBit(uint32(m), methodUnmanagedExpBit) }
func (m MethodAttributes) RTSpecialName() bool     { return getBit(uint32(m), methodRTSpecialNameBit) }
func (m MethodAttributes) HasSecurity() bool       { return getBit(uint32(m), methodHasSecurityBit) }
func (m MethodAttributes) RequireSecObject() bool  { return getBit(uint32(m), methodReqSecObjBit) }

// FieldAttributes wraps Field.Flags.
type FieldAttributes uint32

const (
	fieldAccessMask        = 0x0007
	fieldStaticBit         = 4
	fieldInitOnlyBit       = 5
	fieldLiteralBit        = 6
	fieldNotSerializedBit  = 7
	fieldSpecialNameBit    = 9
	fieldPInvokeImplBit    = 13
	fieldRTSpecialNameBit  = 10
	fieldHasFieldMarshal   = 12
	fieldHasDefaultBit     = 15
	fieldHasFieldRVABit    = 8
)

func (f FieldAttributes) Access() MemberAccess   { return MemberAccess(getMasked(uint32(f), fieldAccessMask)) }
func (f FieldAttributes) Static() bool           { return getBit(uint32(f), fieldStaticBit) }
func (f FieldAttributes) InitOnly() bool         { return getBit(uint32(f), fieldInitOnlyBit) }
func (f FieldAttributes) Literal() bool          { return getBit(uint32(f), fieldLiteralBit) }
func (f FieldAttributes) NotSerialized() bool    { return getBit(uint32(f), fieldNotSerializedBit) }
func (f FieldAttributes) SpecialName() bool      { return getBit(uint32(f), fieldSpecialNameBit) }
func (f FieldAttributes) PInvokeImpl() bool      { return getBit(uint32(f), fieldPInvokeImplBit) }
func (f FieldAttributes) RTSpecialName() bool    { return getBit(uint32(f), fieldRTSpecialNameBit) }
func (f FieldAttributes) HasFieldMarshal() bool  { return getBit(uint32(f), fieldHasFieldMarshal) }
func (f FieldAttributes) HasDefault() bool       { return getBit(uint32(f), fieldHasDefaultBit) }
func (f FieldAttributes) HasFieldRVA() bool      { return getBit(uint32(f), fieldHasFieldRVABit) }

// ParamAttributes wraps Param.Flags.
type ParamAttributes uint32

const (
	paramInBit            = 0
	paramOutBit           = 1
	paramOptionalBit       = 4
	paramHasDefaultBit     = 12
	paramHasFieldMarshal   = 13
)

func (p ParamAttributes) In() bool              { return getBit(uint32(p), paramInBit) }
func (p ParamAttributes) Out() bool             { return getBit(uint32(p), paramOutBit) }
func (p ParamAttributes) Optional() bool        { return getBit(uint32(p), paramOptionalBit) }
func (p ParamAttributes) HasDefault() bool      { return getBit(uint32(p), paramHasDefaultBit) }
func (p ParamAttributes) HasFieldMarshal() bool { return getBit(uint32(p), paramHasFieldMarshal) }

// PropertyAttributes wraps Property.Flags.
type PropertyAttributes uint32

const (
	propSpecialNameBit   = 9
	propRTSpecialNameBit = 10
	propHasDefaultBit    = 12
)

func (p PropertyAttributes) SpecialName() bool   { return getBit(uint32(p), propSpecialNameBit) }
func (p PropertyAttributes) RTSpecialName() bool { return getBit(uint32(p), propRTSpecialNameBit) }
func (p PropertyAttributes) HasDefault() bool    { return getBit(uint32(p), propHasDefaultBit) }

// EventAttributes wraps Event.EventFlags.
type EventAttributes uint32

const (
	eventSpecialNameBit   = 9
	eventRTSpecialNameBit = 10
)

func (e EventAttributes) SpecialName() bool   { return getBit(uint32(e), eventSpecialNameBit) }
func (e EventAttributes) RTSpecialName() bool { return getBit(uint32(e), eventRTSpecialNameBit) }

// MethodImplAttributes wraps MethodDef.ImplFlags.
type MethodImplAttributes uint32

const (
	implCodeTypeMask     = 0x0003
	implManagedMask      = 0x0004
	implForwardRefBit    = 4
	implPreserveSigBit   = 7
	implInternalCallBit  = 12
	implSynchronizedBit  = 5
	implNoInliningBit    = 3
	implNoOptimizationBit = 6
)

type CodeType uint32

const (
	CodeTypeIL      CodeType = 0x0
	CodeTypeNative  CodeType = 0x1
	CodeTypeOPTIL   CodeType = 0x2
	CodeTypeRuntime CodeType = 0x3
)

type Managed uint32

const (
	ManagedManaged   Managed = 0x0
	ManagedUnmanaged Managed = 0x4
)

func (m MethodImplAttributes) CodeType() CodeType { return CodeType(getMasked(uint32(m), implCodeTypeMask)) }
func (m MethodImplAttributes) Managed() Managed   { return Managed(getMasked(uint32(m), implManagedMask)) }
func (m MethodImplAttributes) ForwardRef() bool      { return getBit(uint32(m), implForwardRefBit) }
func (m MethodImplAttributes) PreserveSig() bool     { return getBit(uint32(m), implPreserveSigBit) }
func (m MethodImplAttributes) InternalCall() bool    { return getBit(uint32(m), implInternalCallBit) }
func (m MethodImplAttributes) Synchronized() bool    { return getBit(uint32(m), implSynchronizedBit) }
func (m MethodImplAttributes) NoInlining() bool      { return getBit(uint32(m), implNoInliningBit) }
func (m MethodImplAttributes) NoOptimization() bool  { return getBit(uint32(m), implNoOptimizationBit) }

// MethodSemanticsAttributes wraps MethodSemantics.Semantics.
type MethodSemanticsAttributes uint32

const (
	semSetterBit    = 0
	semGetterBit    = 1
	semOtherBit     = 2
	semAddOnBit     = 3
	semRemoveOnBit  = 4
	semFireBit      = 5
)

func (s MethodSemanticsAttributes) Setter() bool   { return getBit(uint32(s), semSetterBit) }
func (s MethodSemanticsAttributes) Getter() bool   { return getBit(uint32(s), semGetterBit) }
func (s MethodSemanticsAttributes) Other() bool    { return getBit(uint32(s), semOtherBit) }
func (s MethodSemanticsAttributes) AddOn() bool    { return getBit(uint32(s), semAddOnBit) }
func (s MethodSemanticsAttributes) RemoveOn() bool { return getBit(uint32(s), semRemoveOnBit) }
func (s MethodSemanticsAttributes) Fire() bool     { return getBit(uint32(s), semFireBit) }

// GenericParamAttributes wraps GenericParam.Flags.
type GenericParamAttributes uint32

const (
	genParamVarianceMask = 0x0003
	genParamSpecialMask  = 0x001c
)

type GenericParamVariance uint32

const (
	VarianceNone          GenericParamVariance = 0x0
	VarianceCovariant     GenericParamVariance = 0x1
	VarianceContravariant GenericParamVariance = 0x2
)

type GenericParamSpecialConstraint uint32

const (
	SpecialConstraintReferenceType          GenericParamSpecialConstraint = 0x4
	SpecialConstraintNotNullableValueType   GenericParamSpecialConstraint = 0x8
	SpecialConstraintDefaultConstructor     GenericParamSpecialConstraint = 0x10
)

func (g GenericParamAttributes) Variance() GenericParamVariance {
	return GenericParamVariance(getMasked(uint32(g), genParamVarianceMask))
}
func (g GenericParamAttributes) SpecialConstraint() GenericParamSpecialConstraint {
	return GenericParamSpecialConstraint(getMasked(uint32(g), genParamSpecialMask))
}

// AssemblyFlags wraps Assembly.Flags and AssemblyRef.Flags.
type AssemblyFlags uint32

const assemblyWinRTBit = 9

func (a AssemblyFlags) WindowsRuntime() bool { return getBit(uint32(a), assemblyWinRTBit) }
