package pe

import "testing"

func TestCodedTypeDefOrRefDecode(t *testing.T) {
	cases := []struct {
		name       string
		value      uint32
		wantTarget tableID
		wantRow    uint32
		wantNull   bool
	}{
		{"absent", 0, tblTypeDef, 0, true},
		{"TypeRef row 0", (1 << 2) | 1, tblTypeRef, 0, false},
		{"TypeSpec row 1", (2 << 2) | 2, tblTypeSpec, 1, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			target, row, null, ok := codedTypeDefOrRef.decode(c.value)
			if !ok {
				t.Fatalf("decode(%#x) ok = false, want true", c.value)
			}
			if target != c.wantTarget || row != c.wantRow || null != c.wantNull {
				t.Errorf("decode(%#x) = (%v, %d, %v), want (%v, %d, %v)",
					c.value, target, row, null, c.wantTarget, c.wantRow, c.wantNull)
			}
		})
	}
}

func TestCodedTypeDefOrRefEncode(t *testing.T) {
	value, ok := codedTypeDefOrRef.encode(tblTypeRef, 0)
	if !ok || value != (1<<2)|1 {
		t.Errorf("encode(tblTypeRef, 0) = %#x, %v, want %#x, true", value, ok, (1<<2)|1)
	}

	if _, ok := codedTypeDefOrRef.encode(tblModule, 0); ok {
		t.Errorf("encode(tblModule, 0) ok = true, want false: Module is not a TypeDefOrRef target")
	}
}

func TestCodedHasCustomAttributeTagGap(t *testing.T) {
	// Tag 8 is reserved and must not decode to any table.
	if _, _, _, ok := codedHasCustomAttribute.decode(8); ok {
		t.Errorf("decode(8) ok = true, want false: tag 8 is the reserved HasCustomAttribute gap")
	}
}
