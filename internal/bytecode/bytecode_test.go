package bytecode

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"name-recon/internal/model"
)

func TestParseMethodDesc(t *testing.T) {
	mt, err := ParseMethodDesc("(IJ[Ljava/lang/String;D)Z")
	require.NoError(t, err)
	assert.Equal(t, []Type{TypeInt, TypeLong, {Desc: "[Ljava/lang/String;"}, TypeDouble}, mt.Args)
	assert.Equal(t, TypeBoolean, mt.Return)
	assert.Equal(t, "(IJ[Ljava/lang/String;D)Z", mt.Desc())

	// wide arguments take two slots
	assert.Equal(t, []int{1, 2, 4, 5}, mt.ArgumentSlots(false))
	assert.Equal(t, []int{0, 1, 3, 4}, mt.ArgumentSlots(true))
	assert.Equal(t, 7, mt.ArgumentsSize(false))
	assert.Equal(t, 2, mt.ArgumentIndex(false, 4))
	assert.Equal(t, -1, mt.ArgumentIndex(false, 3))

	for _, bad := range []string{"I", "(I", "(Q)V", "(Ljava/lang/String)V", "()VV", "()"} {
		_, err := ParseMethodDesc(bad)
		assert.Error(t, err, bad)
	}
}

func TestTypes(t *testing.T) {
	tests := []struct {
		desc     string
		sort     Sort
		size     int
		ref      bool
		internal string
		load     Opcode
		ret      Opcode
	}{
		{"I", SortInt, 1, false, "I", ILOAD, IRETURN},
		{"Z", SortBoolean, 1, false, "Z", ILOAD, IRETURN},
		{"J", SortLong, 2, false, "J", LLOAD, LRETURN},
		{"D", SortDouble, 2, false, "D", DLOAD, DRETURN},
		{"F", SortFloat, 1, false, "F", FLOAD, FRETURN},
		{"Ljava/util/UUID;", SortObject, 1, true, "java/util/UUID", ALOAD, ARETURN},
		{"[[I", SortArray, 1, true, "[[I", ALOAD, ARETURN},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			typ, err := ParseType(tt.desc)
			require.NoError(t, err)
			assert.Equal(t, tt.sort, typ.Sort())
			assert.Equal(t, tt.size, typ.Size())
			assert.Equal(t, tt.ref, typ.IsReference())
			assert.Equal(t, !tt.ref, typ.IsPrimitive())
			assert.Equal(t, tt.internal, typ.InternalName())
			assert.Equal(t, tt.load, typ.LoadOpcode())
			assert.Equal(t, tt.ret, typ.ReturnOpcode())
		})
	}

	assert.Equal(t, TypeString, ObjectType("java/lang/String"))
	assert.Equal(t, Type{Desc: "[I"}, ObjectType("[I"))
	assert.Equal(t, TypeInt, Type{Desc: "[[I"}.ElementType())
	assert.Equal(t, RETURN, TypeVoid.ReturnOpcode())

	_, err := ParseType("II")
	assert.Error(t, err)
}

func TestBoxing(t *testing.T) {
	box := Insn{Op: INVOKESTATIC, Owner: "java/lang/Integer", Name: "valueOf", Desc: "(I)Ljava/lang/Integer;"}
	assert.True(t, IsBoxCall(&box))
	parse := Insn{Op: INVOKESTATIC, Owner: "java/lang/Integer", Name: "valueOf", Desc: "(Ljava/lang/String;)Ljava/lang/Integer;"}
	assert.False(t, IsBoxCall(&parse))

	unbox := Insn{Op: INVOKEVIRTUAL, Owner: "java/lang/Number", Name: "longValue", Desc: "()J"}
	assert.True(t, IsUnboxCall(&unbox))
	other := Insn{Op: INVOKEVIRTUAL, Owner: "a/B", Name: "intValue", Desc: "()I"}
	assert.False(t, IsUnboxCall(&other))

	boxed, ok := BoxOf(TypeDouble)
	require.True(t, ok)
	assert.Equal(t, ObjectType("java/lang/Double"), boxed)
	_, ok = BoxOf(TypeString)
	assert.False(t, ok)
}

func TestAsmResolvesLabels(t *testing.T) {
	m, err := NewAsm().
		Label("top").
		Var(ILOAD, 0).
		Jump(IFEQ, "done").
		Iinc(0, -1).
		Jump(GOTO, "top").
		Label("done").
		Var(ILOAD, 0).
		Switch(TABLESWITCH, []int{0}, "done", "top").
		TryCatch("top", "done", "done", "java/lang/Exception").
		Method(AccStatic, "loop", "(I)I")
	require.NoError(t, err)

	assert.Equal(t, LABEL, m.Insns[0].Op)
	assert.Equal(t, 5, m.Insns[2].Target)
	assert.Equal(t, 0, m.Insns[4].Target)
	assert.Equal(t, 5, m.Insns[7].Default)
	assert.Equal(t, []int{0}, m.Insns[7].Targets)
	assert.Equal(t, []TryCatchBlock{{Start: 0, End: 5, Handler: 5, Type: "java/lang/Exception"}}, m.TryCatch)
	assert.Equal(t, 1, m.MaxLocals)

	assert.Equal(t, []int{1, 2, 3, 4, 6, 7}, m.Real())
	assert.Equal(t, 4, m.PrevReal(5))
	assert.Equal(t, 6, m.NextReal(5))
	assert.Equal(t, -1, m.NextReal(7))

	_, err = NewAsm().Jump(GOTO, "nowhere").Method(0, "m", "()V")
	assert.Error(t, err)
}

func TestAsmMaxLocals(t *testing.T) {
	m := NewAsm().Var(ALOAD, 0).Var(DSTORE, 3).Op(RETURN).MustMethod(AccPublic, "m", "(J)V")
	assert.Equal(t, 5, m.MaxLocals)

	params, err := ParameterEntries(m.Entry("a/A"), false)
	require.NoError(t, err)
	assert.Equal(t, []model.LocalVariableEntry{m.Entry("a/A").Local(1)}, params)
}

func TestClassSetAncestors(t *testing.T) {
	set, err := NewClassSet(
		&ClassNode{Name: "a/C", Super: "a/B", Interfaces: []string{"a/I"}},
		&ClassNode{Name: "a/B", Super: "java/lang/Object", Interfaces: []string{"a/I", "a/J"}},
		&ClassNode{Name: "a/I", Super: "java/lang/Object", Access: AccInterface},
	)
	require.NoError(t, err)
	assert.Equal(t, 3, set.Len())

	assert.Equal(t, []string{"a/B", "a/I", "java/lang/Object", "a/J"}, Ancestors(set, "a/C"))
	assert.True(t, IsSubtype(set, "a/C", "a/J"))
	assert.False(t, IsSubtype(set, "a/B", "a/C"))
	assert.Empty(t, Ancestors(set, "x/Unknown"))

	assert.Error(t, set.Add(&ClassNode{Name: "a/B"}))
	assert.Error(t, set.Add(&ClassNode{}))
}

func TestOpcodeNames(t *testing.T) {
	op, ok := ParseOpcode("INVOKEVIRTUAL")
	require.True(t, ok)
	assert.Equal(t, INVOKEVIRTUAL, op)
	assert.Equal(t, "INVOKEVIRTUAL", op.String())

	_, ok = ParseOpcode("FROB")
	assert.False(t, ok)
}
