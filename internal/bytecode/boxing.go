package bytecode

var boxTypes = map[string]string{
	"java/lang/Boolean":   "Z",
	"java/lang/Character": "C",
	"java/lang/Byte":      "B",
	"java/lang/Short":     "S",
	"java/lang/Integer":   "I",
	"java/lang/Long":      "J",
	"java/lang/Float":     "F",
	"java/lang/Double":    "D",
}

var unboxMethods = map[string]string{
	"booleanValue": "Z",
	"charValue":    "C",
	"byteValue":    "B",
	"shortValue":   "S",
	"intValue":     "I",
	"longValue":    "J",
	"floatValue":   "F",
	"doubleValue":  "D",
}

// IsBoxCall reports whether the instruction is a primitive boxing call such as Integer.valueOf(I)
func IsBoxCall(in *Insn) bool {
	if in.Op != INVOKESTATIC || in.Name != "valueOf" {
		return false
	}
	prim, ok := boxTypes[in.Owner]
	return ok && in.Desc == "("+prim+")L"+in.Owner+";"
}

// IsUnboxCall reports whether the instruction is a primitive unboxing call such as Integer.intValue()
func IsUnboxCall(in *Insn) bool {
	if in.Op != INVOKEVIRTUAL {
		return false
	}
	prim, ok := unboxMethods[in.Name]
	if !ok || in.Desc != "()"+prim {
		return false
	}
	_, boxed := boxTypes[in.Owner]
	return boxed || in.Owner == "java/lang/Number"
}

// BoxOf returns the wrapper type of a primitive type
func BoxOf(t Type) (Type, bool) {
	for owner, prim := range boxTypes {
		if prim == t.Desc {
			return ObjectType(owner), true
		}
	}
	return Type{}, false
}
