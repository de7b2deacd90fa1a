package typeref

// nominalMarker returns the nominal-kind letter of a mangled type name: the
// leading letter in the old mangling ("V4main3Foo") or the trailing letter in
// the new one ("4main3FooV"). Anything else yields 0.
func nominalMarker(mangledName string) byte {
	if mangledName == "" {
		return 0
	}
	c := mangledName[0]
	if c >= '0' && c <= '9' {
		c = mangledName[len(mangledName)-1]
	}
	switch c {
	case 'V', 'O', 'C':
		return c
	}
	return 0
}
