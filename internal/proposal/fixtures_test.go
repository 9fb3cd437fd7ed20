package proposal

import (
	"testing"

	"github.com/stretchr/testify/require"

	bc "name-recon/internal/bytecode"
	"name-recon/internal/index"
	"name-recon/internal/model"
	"name-recon/internal/registry"
)

const (
	pub       = bc.AccPublic
	static    = bc.AccPublic | bc.AccStatic
	constant  = bc.AccPublic | bc.AccStatic | bc.AccFinal
	synthetic = bc.AccPrivate | bc.AccStatic | bc.AccSynthetic
)

func class(name string, fields []*bc.FieldNode, methods ...*bc.MethodNode) *bc.ClassNode {
	return &bc.ClassNode{Access: pub, Name: name, Super: "java/lang/Object", Fields: fields, Methods: methods}
}

func field(access int, name, desc string) *bc.FieldNode {
	return &bc.FieldNode{Access: access, Name: name, Desc: desc}
}

func newEngine(t *testing.T, reg *registry.Registry, toggles Toggles, classes ...*bc.ClassNode) *Engine {
	t.Helper()
	set, err := bc.NewClassSet(classes...)
	require.NoError(t, err)
	ix, err := index.NewJarIndexer(index.Options{Workers: 2, Registry: reg}).Index(set)
	require.NoError(t, err)
	return NewEngine(ix, toggles)
}

func loadRegistry(t *testing.T, doc string) *registry.Registry {
	t.Helper()
	r := registry.New()
	require.NoError(t, r.Parse("inline.yaml", []byte(doc)))
	return r
}

// accessorClass is a/A with field b, getter m1 and setter m2
func accessorClass() *bc.ClassNode {
	getter := bc.NewAsm().Var(bc.ALOAD, 0).Field(bc.GETFIELD, "a/A", "b", "I").Op(bc.IRETURN).MustMethod(pub, "m1", "()I")
	setter := bc.NewAsm().Var(bc.ALOAD, 0).Var(bc.ILOAD, 1).Field(bc.PUTFIELD, "a/A", "b", "I").Op(bc.RETURN).MustMethod(pub, "m2", "(I)V")
	return class("a/A", []*bc.FieldNode{field(bc.AccPrivate, "b", "I")}, getter, setter)
}

// delegateClass is a/D where d4 forwards to d1, which forwards to r
func delegateClass() *bc.ClassNode {
	root := bc.NewAsm().Var(bc.ILOAD, 0).Var(bc.ILOAD, 1).Op(bc.IADD).Op(bc.IRETURN).MustMethod(static, "r", "(II)I")
	forward := bc.NewAsm().Var(bc.ILOAD, 0).Op(bc.ICONST_1).Invoke(bc.INVOKESTATIC, "a/D", "r", "(II)I").Op(bc.IRETURN).MustMethod(static, "d1", "(I)I")
	chained := bc.NewAsm().Var(bc.ILOAD, 0).Invoke(bc.INVOKESTATIC, "a/D", "d1", "(I)I").Op(bc.IRETURN).MustMethod(static, "d4", "(I)I")
	return class("a/D", nil, root, forward, chained)
}

// codecClass is a/T bound by Codec.INT.fieldOf("value").forGetter(T::c)
func codecClass() *bc.ClassNode {
	const (
		codec    = "com/mojang/serialization/Codec"
		mapCodec = "com/mojang/serialization/MapCodec"
	)
	getter := bc.NewAsm().Var(bc.ALOAD, 0).Field(bc.GETFIELD, "a/T", "a", "I").Op(bc.IRETURN).MustMethod(pub, "c", "()I")
	clinit := bc.NewAsm().
		Field(bc.GETSTATIC, codec, "INT", "L"+codec+";").
		Ldc("value").
		Invoke(bc.INVOKEINTERFACE, codec, "fieldOf", "(Ljava/lang/String;)L"+mapCodec+";").
		Lambda("apply", "()Ljava/util/function/Function;", "(Ljava/lang/Object;)Ljava/lang/Object;",
			bc.Handle{Tag: bc.H_INVOKEVIRTUAL, Owner: "a/T", Name: "c", Desc: "()I"}, "(La/T;)Ljava/lang/Integer;").
		Invoke(bc.INVOKEVIRTUAL, mapCodec, "forGetter", "(Ljava/util/function/Function;)Lcom/mojang/serialization/codecs/RecordCodecBuilder;").
		Op(bc.POP).
		Op(bc.RETURN).
		MustMethod(bc.AccStatic, "<clinit>", "()V")
	return class("a/T", []*bc.FieldNode{field(bc.AccPrivate, "a", "I")}, getter, clinit)
}

func mapping(t *testing.T, m *model.Mappings, e model.Entry) model.EntryMapping {
	t.Helper()
	em, ok := m.Get(e)
	require.True(t, ok, "no mapping for %v", e)
	return em
}

// ctorClass is a/P with field c stored from the constructor and read by getter g
func ctorClass() *bc.ClassNode {
	ctor := bc.NewAsm().
		Var(bc.ALOAD, 0).Invoke(bc.INVOKESPECIAL, "java/lang/Object", "<init>", "()V").
		Var(bc.ALOAD, 0).Var(bc.ILOAD, 1).Field(bc.PUTFIELD, "a/P", "c", "I").
		Op(bc.RETURN).
		MustMethod(pub, "<init>", "(I)V")
	getter := bc.NewAsm().Var(bc.ALOAD, 0).Field(bc.GETFIELD, "a/P", "c", "I").Op(bc.IRETURN).MustMethod(pub, "g", "()I")
	return class("a/P", []*bc.FieldNode{field(bc.AccPrivate, "c", "I")}, ctor, getter)
}
