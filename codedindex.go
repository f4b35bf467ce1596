package pe

// codedIndexKind describes one of the coded-index shapes used by the
// tables stream: a column whose low tagBits bits select a target table
// from a fixed, ordered list and whose remaining bits hold (rowIndex+1)
// into that table.
//
// A plain ordered slice of targets only works when every tag from
// 0..len(targets) is assigned to some table. HasCustomAttribute leaves tag
// 8 unused (the CLR reserved it for a table that was dropped before
// ECMA-335 was finalized), so an ordered slice would misdecode a coded
// index whose tag lands on or past that gap. tags is therefore an
// explicit tag->table map.
type codedIndexKind struct {
	name    string
	tagBits uint
	tags    map[uint32]tableID
}

func (k codedIndexKind) targets() []tableID {
	out := make([]tableID, 0, len(k.tags))
	for _, t := range k.tags {
		out = append(out, t)
	}
	return out
}

// decode splits a raw coded-index value into its target table and
// 0-based row index. It reports ok=false only if the tag is not one this
// index kind defines. A value whose row part is 0 (a null reference)
// reports null=true with ok=true.
func (k codedIndexKind) decode(value uint32) (target tableID, row uint32, null bool, ok bool) {
	mask := uint32(1)<<k.tagBits - 1
	tag := value & mask
	idx := value >> k.tagBits
	target, ok = k.tags[tag]
	if !ok {
		return 0, 0, false, false
	}
	if idx == 0 {
		return target, 0, true, true
	}
	return target, idx - 1, false, true
}

var (
	codedTypeDefOrRef = codedIndexKind{
		name: "TypeDefOrRef", tagBits: 2,
		tags: map[uint32]tableID{0: tblTypeDef, 1: tblTypeRef, 2: tblTypeSpec},
	}
	codedHasConstant = codedIndexKind{
		name: "HasConstant", tagBits: 2,
		tags: map[uint32]tableID{0: tblField, 1: tblParam, 2: tblProperty},
	}
	codedHasCustomAttribute = codedIndexKind{
		name: "HasCustomAttribute", tagBits: 5,
		tags: map[uint32]tableID{
			0: tblMethodDef, 1: tblField, 2: tblTypeRef, 3: tblTypeDef, 4: tblParam,
			5: tblInterfaceImpl, 6: tblMemberRef, 7: tblModule, 9: tblProperty,
			10: tblEvent, 11: tblStandAloneSig, 12: tblModuleRef, 13: tblTypeSpec,
			14: tblAssembly, 15: tblAssemblyRef, 16: tblFile, 17: tblExportedType,
			18: tblManifestResource, 19: tblGenericParam, 20: tblGenericParamConstraint,
			21: tblMethodSpec,
			// tag 8 intentionally unassigned: reserved, never emitted by the CLR.
		},
	}
	codedHasFieldMarshal = codedIndexKind{
		name: "HasFieldMarshal", tagBits: 1,
		tags: map[uint32]tableID{0: tblField, 1: tblParam},
	}
	codedHasDeclSecurity = codedIndexKind{
		name: "HasDeclSecurity", tagBits: 2,
		tags: map[uint32]tableID{0: tblTypeDef, 1: tblMethodDef, 2: tblAssembly},
	}
	codedMemberRefParent = codedIndexKind{
		name: "MemberRefParent", tagBits: 3,
		tags: map[uint32]tableID{0: tblTypeDef, 1: tblTypeRef, 2: tblModuleRef, 3: tblMethodDef, 4: tblTypeSpec},
	}
	codedHasSemantics = codedIndexKind{
		name: "HasSemantics", tagBits: 1,
		tags: map[uint32]tableID{0: tblEvent, 1: tblProperty},
	}
	codedMethodDefOrRef = codedIndexKind{
		name: "MethodDefOrRef", tagBits: 1,
		tags: map[uint32]tableID{0: tblMethodDef, 1: tblMemberRef},
	}
	codedMemberForwarded = codedIndexKind{
		name: "MemberForwarded", tagBits: 1,
		tags: map[uint32]tableID{0: tblField, 1: tblMethodDef},
	}
	codedImplementation = codedIndexKind{
		name: "Implementation", tagBits: 2,
		tags: map[uint32]tableID{0: tblFile, 1: tblAssemblyRef, 2: tblExportedType},
	}
	codedCustomAttributeType = codedIndexKind{
		name: "CustomAttributeType", tagBits: 3,
		tags: map[uint32]tableID{2: tblMethodDef, 3: tblMemberRef},
	}
	codedResolutionScope = codedIndexKind{
		name: "ResolutionScope", tagBits: 2,
		tags: map[uint32]tableID{0: tblModule, 1: tblModuleRef, 2: tblAssemblyRef, 3: tblTypeRef},
	}
	codedTypeOrMethodDef = codedIndexKind{
		name: "TypeOrMethodDef", tagBits: 1,
		tags: map[uint32]tableID{0: tblTypeDef, 1: tblMethodDef},
	}
)
