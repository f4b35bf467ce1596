package pe

// Fuzz feeds data through the two most byte-adversarial surfaces of this
// reader: the schema engine's row-count/column-width resolution
// (Load, which parses data as a full PE image and locates its CLI
// metadata root) and, for every row it manages to load, the method and
// field signature decoder.
func Fuzz(data []byte) int {
	db, err := Load(data)
	if err != nil {
		return 0
	}

	ret := 0
	for i := uint32(0); i < db.MethodDefCount(); i++ {
		m, err := db.MethodDef(i)
		if err != nil {
			continue
		}
		if _, err := m.Signature(); err == nil {
			ret = 1
		}
	}
	for i := uint32(0); i < db.FieldCount(); i++ {
		f, err := db.Field(i)
		if err != nil {
			continue
		}
		if _, err := f.Signature(); err == nil {
			ret = 1
		}
	}
	return ret
}
