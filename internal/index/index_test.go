package index

import (
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"name-recon/internal/analyzer"
	bc "name-recon/internal/bytecode"
	"name-recon/internal/model"
	"name-recon/internal/registry"
)

func TestGetterSetterIndex(t *testing.T) {
	getter := bc.NewAsm().Var(bc.ALOAD, 0).Field(bc.GETFIELD, "a/A", "b", "I").Op(bc.IRETURN).MustMethod(pub, "m1", "()I")
	setter := bc.NewAsm().Label("start").Var(bc.ALOAD, 0).Var(bc.ILOAD, 1).Field(bc.PUTFIELD, "a/A", "b", "I").Op(bc.RETURN).MustMethod(pub, "m2", "(I)V")
	boolGetter := bc.NewAsm().Var(bc.ALOAD, 0).Field(bc.GETFIELD, "a/A", "c", "Z").Op(bc.IRETURN).MustMethod(pub, "m3", "()Z")
	notGetter := bc.NewAsm().Var(bc.ALOAD, 0).Field(bc.GETFIELD, "a/A", "b", "I").Op(bc.ICONST_1).Op(bc.IADD).Op(bc.IRETURN).MustMethod(pub, "m4", "()I")
	foreign := bc.NewAsm().Var(bc.ALOAD, 0).Field(bc.GETFIELD, "a/Other", "b", "I").Op(bc.IRETURN).MustMethod(pub, "m5", "()I")

	ix := index(t, Options{}, class("a/A", fields(field(0, "b", "I"), field(0, "c", "Z")), getter, setter, boolGetter, notGetter, foreign))
	gs := ix.GetterSetter

	b := model.FieldEntry{Owner: "a/A", Name: "b", Desc: "I"}
	m1 := model.MethodEntry{Owner: "a/A", Name: "m1", Desc: "()I"}
	m2 := model.MethodEntry{Owner: "a/A", Name: "m2", Desc: "(I)V"}

	assert.Equal(t, []model.MethodEntry{m1}, gs.Getters(b))
	assert.Equal(t, []model.MethodEntry{m2}, gs.Setters(b))
	assert.Equal(t, []model.LocalVariableEntry{m2.Local(1)}, gs.SetterParams(b))
	assert.True(t, gs.indexedGetter(m1))
	assert.False(t, gs.indexedGetter(m2))

	f, ok := gs.FieldOf(m2.Local(1))
	require.True(t, ok)
	assert.Equal(t, b, f)

	_, ok = gs.FieldOf(model.MethodEntry{Owner: "a/A", Name: "m3", Desc: "()Z"})
	assert.False(t, ok, "boolean getters are excluded")
	assert.Equal(t, []model.FieldEntry{b}, gs.Fields())
}

func TestConstructorIndex(t *testing.T) {
	ctor := bc.NewAsm().
		Var(bc.ALOAD, 0).Invoke(bc.INVOKESPECIAL, "java/lang/Object", "<init>", "()V").
		Var(bc.ALOAD, 0).Var(bc.ILOAD, 1).Field(bc.PUTFIELD, "a/A", "b", "I").
		Var(bc.ALOAD, 0).Var(bc.ALOAD, 2).Field(bc.PUTFIELD, "a/A", "s", "Ljava/lang/String;").
		Var(bc.ALOAD, 0).Op(bc.ICONST_0).Field(bc.PUTFIELD, "a/A", "n", "I").
		Op(bc.RETURN).
		MustMethod(pub, "<init>", "(ILjava/lang/String;)V")

	ix := index(t, Options{}, class("a/A", fields(field(0, "b", "I"), field(0, "s", "Ljava/lang/String;"), field(0, "n", "I")), ctor))
	ci := ix.Constructor

	me := model.MethodEntry{Owner: "a/A", Name: "<init>", Desc: "(ILjava/lang/String;)V"}
	b := model.FieldEntry{Owner: "a/A", Name: "b", Desc: "I"}
	s := model.FieldEntry{Owner: "a/A", Name: "s", Desc: "Ljava/lang/String;"}

	assert.Equal(t, []model.LocalVariableEntry{me.Local(1)}, ci.Params(b))
	assert.Equal(t, []model.LocalVariableEntry{me.Local(2)}, ci.Params(s))
	assert.Empty(t, ci.Params(model.FieldEntry{Owner: "a/A", Name: "n", Desc: "I"}))

	f, ok := ci.FieldOf(me.Local(2))
	require.True(t, ok)
	assert.Equal(t, s, f)
}

func TestDelegateIndex(t *testing.T) {
	root := bc.NewAsm().Var(bc.ILOAD, 0).Var(bc.ILOAD, 1).Op(bc.IADD).Op(bc.IRETURN).MustMethod(static, "r", "(II)I")
	forward := bc.NewAsm().Var(bc.ILOAD, 0).Op(bc.ICONST_1).Invoke(bc.INVOKESTATIC, "a/D", "r", "(II)I").Op(bc.IRETURN).MustMethod(static, "d1", "(I)I")
	swapped := bc.NewAsm().Var(bc.ILOAD, 1).Var(bc.ILOAD, 0).Invoke(bc.INVOKESTATIC, "a/D", "r", "(II)I").Op(bc.IRETURN).MustMethod(static, "d2", "(II)I")
	computes := bc.NewAsm().Var(bc.ILOAD, 0).Op(bc.ICONST_1).Op(bc.IADD).Op(bc.ICONST_1).Invoke(bc.INVOKESTATIC, "a/D", "r", "(II)I").Op(bc.IRETURN).MustMethod(static, "d3", "(I)I")
	chained := bc.NewAsm().Var(bc.ILOAD, 0).Invoke(bc.INVOKESTATIC, "a/D", "d1", "(I)I").Op(bc.IRETURN).MustMethod(static, "d4", "(I)I")

	instance := bc.NewAsm().Var(bc.ALOAD, 0).Var(bc.ALOAD, 1).Op(bc.ICONST_0).Invoke(bc.INVOKEVIRTUAL, "a/D", "n", "(Ljava/lang/Object;I)V").Op(bc.RETURN).MustMethod(pub, "m", "(Ljava/lang/String;)V")
	target := bc.NewAsm().Op(bc.RETURN).MustMethod(pub, "n", "(Ljava/lang/Object;I)V")

	ix := index(t, Options{}, class("a/D", nil, root, forward, swapped, computes, chained, instance, target))
	di := ix.Delegate

	r := model.MethodEntry{Owner: "a/D", Name: "r", Desc: "(II)I"}
	d1 := model.MethodEntry{Owner: "a/D", Name: "d1", Desc: "(I)I"}
	d4 := model.MethodEntry{Owner: "a/D", Name: "d4", Desc: "(I)I"}
	m := model.MethodEntry{Owner: "a/D", Name: "m", Desc: "(Ljava/lang/String;)V"}
	n := model.MethodEntry{Owner: "a/D", Name: "n", Desc: "(Ljava/lang/Object;I)V"}

	got, ok := di.forwardsTo(d1)
	require.True(t, ok)
	assert.Equal(t, r, got)
	assert.Equal(t, []model.MethodEntry{d1}, di.Delegaters(r))

	p, ok := di.paramTarget(d1.Local(0))
	require.True(t, ok)
	assert.Equal(t, r.Local(0), p)
	assert.Equal(t, []model.LocalVariableEntry{d1.Local(0)}, di.ParamSources(r.Local(0)))

	_, ok = di.forwardsTo(model.MethodEntry{Owner: "a/D", Name: "d2", Desc: "(II)I"})
	assert.False(t, ok, "parameters must be forwarded in order")
	_, ok = di.forwardsTo(model.MethodEntry{Owner: "a/D", Name: "d3", Desc: "(I)I"})
	assert.False(t, ok, "arithmetic is not allowed before the call")

	got, ok = di.forwardsTo(d4)
	require.True(t, ok)
	assert.Equal(t, d1, got)

	got, ok = di.forwardsTo(m)
	require.True(t, ok)
	assert.Equal(t, n, got)
	p, ok = di.paramTarget(m.Local(1))
	require.True(t, ok)
	assert.Equal(t, n.Local(1), p)

	assert.Equal(t, []model.MethodEntry{n, r}, di.Roots())
}

func TestDelegateConflictingLayouts(t *testing.T) {
	root := bc.NewAsm().Var(bc.ILOAD, 0).Op(bc.IRETURN).MustMethod(static, "r", "(II)I")
	first := bc.NewAsm().Var(bc.ILOAD, 0).Op(bc.ICONST_1).Invoke(bc.INVOKESTATIC, "a/G", "r", "(II)I").Op(bc.IRETURN).MustMethod(static, "p", "(I)I")
	second := bc.NewAsm().Op(bc.ICONST_1).Var(bc.ILOAD, 0).Invoke(bc.INVOKESTATIC, "a/G", "r", "(II)I").Op(bc.IRETURN).MustMethod(static, "q", "(I)I")

	ix := index(t, Options{}, class("a/G", nil, root, first, second))

	assert.Empty(t, ix.Delegate.Delegaters(model.MethodEntry{Owner: "a/G", Name: "r", Desc: "(II)I"}))
	_, ok := ix.Delegate.forwardsTo(model.MethodEntry{Owner: "a/G", Name: "p", Desc: "(I)I"})
	assert.False(t, ok)
}

func TestLambdaIndex(t *testing.T) {
	impl := bc.Handle{Tag: bc.H_INVOKESTATIC, Owner: "a/L", Name: "lambda$0", Desc: "(ILjava/lang/String;)V"}
	body := bc.NewAsm().Op(bc.RETURN).MustMethod(synthetic, "lambda$0", "(ILjava/lang/String;)V")
	enclosing := bc.NewAsm().
		Var(bc.ILOAD, 0).
		Lambda("accept", "(I)La/Consumer;", "(Ljava/lang/Object;)V", impl, "(Ljava/lang/String;)V").
		Op(bc.POP).Op(bc.RETURN).
		MustMethod(static, "run", "(I)V")

	consumer := &bc.ClassNode{
		Access:  bc.AccPublic | bc.AccInterface | bc.AccAbstract,
		Name:    "a/Consumer",
		Super:   "java/lang/Object",
		Methods: []*bc.MethodNode{abstract("accept", "(Ljava/lang/Object;)V")},
	}

	ix := index(t, Options{}, class("a/L", nil, body, enclosing), consumer)

	run := model.MethodEntry{Owner: "a/L", Name: "run", Desc: "(I)V"}
	lambda := model.MethodEntry{Owner: "a/L", Name: "lambda$0", Desc: "(ILjava/lang/String;)V"}
	accept := model.MethodEntry{Owner: "a/Consumer", Name: "accept", Desc: "(Ljava/lang/Object;)V"}

	assert.Equal(t, []model.LocalVariableEntry{lambda.Local(0)}, ix.Lambda.Linked(run.Local(0)))
	assert.Equal(t, []model.LocalVariableEntry{run.Local(0)}, ix.Lambda.Linked(lambda.Local(0)))
	assert.Equal(t, []model.LocalVariableEntry{accept.Local(1)}, ix.Lambda.Linked(lambda.Local(1)))
	assert.Equal(t, []model.LocalVariableEntry{lambda.Local(1)}, ix.Lambda.Linked(accept.Local(1)))
}

func TestRecordIndex(t *testing.T) {
	toString := bc.NewAsm().
		Var(bc.ALOAD, 0).
		Indy("toString", "(La/R;)Ljava/lang/String;", bc.ObjectMethodsHandle,
			bc.Type{Desc: "La/R;"}, "x;name",
			bc.Handle{Tag: bc.H_GETFIELD, Owner: "a/R", Name: "a", Desc: "I"},
			bc.Handle{Tag: bc.H_GETFIELD, Owner: "a/R", Name: "b", Desc: "Ljava/lang/String;"}).
		Op(bc.ARETURN).
		MustMethod(pub|bc.AccFinal, "toString", "()Ljava/lang/String;")
	accessor := bc.NewAsm().Var(bc.ALOAD, 0).Field(bc.GETFIELD, "a/R", "a", "I").Op(bc.IRETURN).MustMethod(pub, "c", "()I")
	ctor := bc.NewAsm().Op(bc.RETURN).MustMethod(pub, "<init>", "(ILjava/lang/String;)V")

	rec := class("a/R", fields(field(bc.AccPrivate|bc.AccFinal, "a", "I"), field(bc.AccPrivate|bc.AccFinal, "b", "Ljava/lang/String;")), toString, accessor, ctor)
	rec.Super = "java/lang/Record"

	ix := index(t, Options{}, rec)

	comps := ix.Record.Components("a/R")
	require.Len(t, comps, 2)
	canonical := model.MethodEntry{Owner: "a/R", Name: "<init>", Desc: "(ILjava/lang/String;)V"}

	assert.Equal(t, "x", comps[0].Name)
	assert.Equal(t, []model.MethodEntry{{Owner: "a/R", Name: "c", Desc: "()I"}}, comps[0].Accessors)
	assert.Equal(t, []model.LocalVariableEntry{canonical.Local(1)}, comps[0].Params)
	assert.Equal(t, "name", comps[1].Name)
	assert.Equal(t, []model.LocalVariableEntry{canonical.Local(2)}, comps[1].Params)

	comp, ok := ix.Record.Component(canonical.Local(2))
	require.True(t, ok)
	assert.Equal(t, "name", comp.Name)
	assert.Equal(t, []string{"a/R"}, ix.Record.Classes())
}

func TestConstantIndex(t *testing.T) {
	clinit := bc.NewAsm().
		Ldc("example:foo/another_id").
		Invoke(bc.INVOKESTATIC, "a/Keys", "create", "(Ljava/lang/String;)La/Key;").
		Field(bc.PUTSTATIC, "a/K", "a", "La/Key;").
		Type(bc.NEW, "a/Key").Op(bc.DUP).Ldc("blocks/stone").
		Invoke(bc.INVOKESPECIAL, "a/Key", "<init>", "(Ljava/lang/String;)V").
		Field(bc.PUTSTATIC, "a/K", "b", "La/Key;").
		Ldc("dup").Field(bc.PUTSTATIC, "a/K", "c", "Ljava/lang/String;").
		Ldc("dup").Field(bc.PUTSTATIC, "a/K", "d", "Ljava/lang/String;").
		Ldc("first").Ldc("second").
		Invoke(bc.INVOKESTATIC, "a/Keys", "pair", "(Ljava/lang/String;Ljava/lang/String;)La/Key;").
		Field(bc.PUTSTATIC, "a/K", "e", "La/Key;").
		Ldc("mutable").Field(bc.PUTSTATIC, "a/K", "f", "Ljava/lang/String;").
		Op(bc.RETURN).
		MustMethod(bc.AccStatic, "<clinit>", "()V")

	k := class("a/K", fields(
		field(constant, "a", "La/Key;"),
		field(constant, "b", "La/Key;"),
		field(constant, "c", "Ljava/lang/String;"),
		field(constant, "d", "Ljava/lang/String;"),
		field(constant, "e", "La/Key;"),
		field(static, "f", "Ljava/lang/String;"),
	), clinit)

	ix := index(t, Options{}, k)
	ci := ix.Constant

	name, ok := ci.ConstantName(model.FieldEntry{Owner: "a/K", Name: "a", Desc: "La/Key;"})
	require.True(t, ok)
	assert.Equal(t, "ANOTHER_ID_FOO", name)

	name, ok = ci.ConstantName(model.FieldEntry{Owner: "a/K", Name: "b", Desc: "La/Key;"})
	require.True(t, ok)
	assert.Equal(t, "STONE_BLOCK", name)

	for _, f := range []string{"c", "d"} {
		_, ok = ci.ConstantName(model.FieldEntry{Owner: "a/K", Name: f, Desc: "Ljava/lang/String;"})
		assert.False(t, ok, "duplicate name on %s must be dropped", f)
	}
	_, ok = ci.ConstantName(model.FieldEntry{Owner: "a/K", Name: "e", Desc: "La/Key;"})
	assert.False(t, ok, "two literals are ambiguous")
	_, ok = ci.ConstantName(model.FieldEntry{Owner: "a/K", Name: "f", Desc: "Ljava/lang/String;"})
	assert.False(t, ok, "non-final fields are skipped")
}

func TestLoggerFieldIndex(t *testing.T) {
	one := class("a/One", fields(field(constant, "a", "Lorg/slf4j/Logger;"), field(0, "b", "I")))
	two := class("a/Two", fields(field(constant, "a", "Lorg/slf4j/Logger;"), field(constant, "b", "Ljava/util/logging/Logger;")))

	ix := index(t, Options{}, one, two)

	assert.Equal(t, []model.FieldEntry{{Owner: "a/One", Name: "a", Desc: "Lorg/slf4j/Logger;"}}, ix.LoggerField.Fields())
	assert.False(t, ix.LoggerField.isLogger(model.FieldEntry{Owner: "a/Two", Name: "a", Desc: "Lorg/slf4j/Logger;"}))
}

func TestSimpleTypeIndex(t *testing.T) {
	reg := loadRegistry(t, `
java/util/Random: {local_name: random, static_name: RANDOM}
java/lang/String: {local_name: string, static_name: STRING}
java/util/Collection: {local_name: collection, static_name: COLLECTION, inherit: true}
java/util/UUID: {local_name: id, static_name: ID, exclusive: true}
a/Id: {local_name: id, static_name: ID}
`)

	method := bc.NewAsm().Op(bc.RETURN).MustMethod(pub, "m", "(Ljava/util/Random;La/MyList;I)V")
	exclusive := bc.NewAsm().Op(bc.RETURN).MustMethod(pub, "x", "(Ljava/util/UUID;La/Id;)V")
	s := class("a/S", fields(
		field(0, "r", "Ljava/util/Random;"),
		field(0, "s1", "Ljava/lang/String;"),
		field(0, "s2", "Ljava/lang/String;"),
		field(constant, "k", "Ljava/lang/String;"),
	), method, exclusive)
	list := class("a/MyList", nil)
	list.Interfaces = []string{"java/util/Collection"}

	ix := index(t, Options{Registry: reg}, s, list)
	st := ix.SimpleType

	tm, ok := st.Match(model.FieldEntry{Owner: "a/S", Name: "r", Desc: "Ljava/util/Random;"})
	require.True(t, ok)
	assert.Equal(t, registry.Direct, tm.Match)
	assert.Equal(t, "random", tm.Name())

	_, ok = st.Match(model.FieldEntry{Owner: "a/S", Name: "s1", Desc: "Ljava/lang/String;"})
	assert.False(t, ok, "type is not unique among instance fields")

	tm, ok = st.Match(model.FieldEntry{Owner: "a/S", Name: "k", Desc: "Ljava/lang/String;"})
	require.True(t, ok, "static fields are a separate scope")
	assert.Equal(t, "STRING", tm.Name())

	m := model.MethodEntry{Owner: "a/S", Name: "m", Desc: "(Ljava/util/Random;La/MyList;I)V"}
	tm, ok = st.Match(m.Local(2))
	require.True(t, ok)
	assert.Equal(t, registry.Inherited, tm.Match)
	assert.Equal(t, "collection", tm.Name())
	_, ok = st.Match(m.Local(3))
	assert.False(t, ok)

	x := model.MethodEntry{Owner: "a/S", Name: "x", Desc: "(Ljava/util/UUID;La/Id;)V"}
	_, ok = st.Match(x.Local(1))
	assert.False(t, ok, "exclusive rule shares its name with another parameter")
	_, ok = st.Match(x.Local(2))
	assert.True(t, ok)

	assert.Equal(t, []model.Entry{m.Local(2)}, st.Entries(registry.Inherited))
}

func TestCodecIndex(t *testing.T) {
	getter := bc.NewAsm().Var(bc.ALOAD, 0).Field(bc.GETFIELD, "a/T", "a", "I").Op(bc.IRETURN).MustMethod(pub, "c", "()I")
	lambda := bc.NewAsm().
		Var(bc.ALOAD, 0).Field(bc.GETFIELD, "a/T", "b", "I").
		Invoke(bc.INVOKESTATIC, "java/lang/Integer", "valueOf", "(I)Ljava/lang/Integer;").
		Op(bc.ARETURN).
		MustMethod(synthetic, "lambda$0", "(La/T;)Ljava/lang/Integer;")

	const (
		codec    = "com/mojang/serialization/Codec"
		mapCodec = "com/mojang/serialization/MapCodec"
		fnSAM    = "(Ljava/lang/Object;)Ljava/lang/Object;"
	)
	clinit := bc.NewAsm().
		// Codec.INT.fieldOf("value").forGetter(T::c)
		Field(bc.GETSTATIC, codec, "INT", "L"+codec+";").
		Ldc("value").
		Invoke(bc.INVOKEINTERFACE, codec, "fieldOf", "(Ljava/lang/String;)L"+mapCodec+";").
		Lambda("apply", "()Ljava/util/function/Function;", fnSAM,
			bc.Handle{Tag: bc.H_INVOKEVIRTUAL, Owner: "a/T", Name: "c", Desc: "()I"}, "(La/T;)Ljava/lang/Integer;").
		Invoke(bc.INVOKEVIRTUAL, mapCodec, "forGetter", "(Ljava/util/function/Function;)Lcom/mojang/serialization/codecs/RecordCodecBuilder;").
		Op(bc.POP).
		// Codec.INT.optionalFieldOf("max_count").orElse(1).forGetter(t -> t.b)
		Field(bc.GETSTATIC, codec, "INT", "L"+codec+";").
		Ldc("max_count").
		Invoke(bc.INVOKEINTERFACE, codec, "optionalFieldOf", "(Ljava/lang/String;)L"+mapCodec+";").
		Op(bc.ICONST_1).
		Invoke(bc.INVOKESTATIC, "java/lang/Integer", "valueOf", "(I)Ljava/lang/Integer;").
		Invoke(bc.INVOKEVIRTUAL, mapCodec, "orElse", "(Ljava/lang/Object;)L"+mapCodec+";").
		Lambda("apply", "()Ljava/util/function/Function;", fnSAM,
			bc.Handle{Tag: bc.H_INVOKESTATIC, Owner: "a/T", Name: "lambda$0", Desc: "(La/T;)Ljava/lang/Integer;"}, "(La/T;)Ljava/lang/Integer;").
		Invoke(bc.INVOKEVIRTUAL, mapCodec, "forGetter", "(Ljava/util/function/Function;)Lcom/mojang/serialization/codecs/RecordCodecBuilder;").
		Op(bc.POP).
		Op(bc.RETURN).
		MustMethod(bc.AccStatic, "<clinit>", "()V")

	ix := index(t, Options{}, class("a/T", fields(field(0, "a", "I"), field(0, "b", "I")), getter, lambda, clinit))
	ci := ix.Codec

	name, ok := ci.FieldName(model.FieldEntry{Owner: "a/T", Name: "a", Desc: "I"})
	require.True(t, ok)
	assert.Equal(t, "value", name)

	name, ok = ci.MethodName(model.MethodEntry{Owner: "a/T", Name: "c", Desc: "()I"})
	require.True(t, ok)
	assert.Equal(t, "value", name)

	name, ok = ci.FieldName(model.FieldEntry{Owner: "a/T", Name: "b", Desc: "I"})
	require.True(t, ok)
	assert.Equal(t, "maxCount", name)
}

func TestCodecIndexDropsAmbiguousFields(t *testing.T) {
	getter := bc.NewAsm().Var(bc.ALOAD, 0).Field(bc.GETFIELD, "a/T", "a", "I").Op(bc.IRETURN).MustMethod(pub, "c", "()I")
	chain := func(a *bc.Asm, lit string) *bc.Asm {
		return a.
			Field(bc.GETSTATIC, "com/mojang/serialization/Codec", "INT", "Lcom/mojang/serialization/Codec;").
			Ldc(lit).
			Invoke(bc.INVOKEINTERFACE, "com/mojang/serialization/Codec", "fieldOf", "(Ljava/lang/String;)Lcom/mojang/serialization/MapCodec;").
			Lambda("apply", "()Ljava/util/function/Function;", "(Ljava/lang/Object;)Ljava/lang/Object;",
				bc.Handle{Tag: bc.H_INVOKEVIRTUAL, Owner: "a/T", Name: "c", Desc: "()I"}, "(La/T;)Ljava/lang/Integer;").
			Invoke(bc.INVOKEVIRTUAL, "com/mojang/serialization/MapCodec", "forGetter", "(Ljava/util/function/Function;)Lcom/mojang/serialization/codecs/RecordCodecBuilder;").
			Op(bc.POP)
	}
	clinit := chain(chain(bc.NewAsm(), "value"), "amount").Op(bc.RETURN).MustMethod(bc.AccStatic, "<clinit>", "()V")

	ix := index(t, Options{}, class("a/T", fields(field(0, "a", "I")), getter, clinit))

	_, ok := ix.Codec.FieldName(model.FieldEntry{Owner: "a/T", Name: "a", Desc: "I"})
	assert.False(t, ok)
	_, ok = ix.Codec.MethodName(model.MethodEntry{Owner: "a/T", Name: "c", Desc: "()I"})
	assert.False(t, ok)
}

func TestIndexerTogglesAndProgress(t *testing.T) {
	var calls atomic.Int32
	opts := Options{
		Workers:  2,
		Toggles:  Toggles{NameDelegate: false, NameLambda: false},
		Progress: func(done, total int, class string) {
			calls.Add(1)
			assert.Equal(t, 3, total)
			assert.Contains(t, []string{"a/A", "a/B", "a/C"}, class)
		},
	}
	ix := index(t, opts, class("a/A", nil), class("a/B", nil), class("a/C", nil))

	assert.Nil(t, ix.Delegate)
	assert.Nil(t, ix.Lambda)
	assert.Nil(t, ix.SimpleType, "no registry")
	assert.NotNil(t, ix.GetterSetter)
	assert.Equal(t, int32(3), calls.Load())
	assert.Equal(t, []string{NameRecord, NameCodec, NameConstant, NameLoggerField, NameGetterSetter, NameConstructor}, ix.Enabled())
}

func TestIndexerFailsOnMalformedMethod(t *testing.T) {
	clinit := bc.NewAsm().Op(bc.POP).Op(bc.ICONST_0).Field(bc.PUTSTATIC, "a/Bad", "x", "I").Op(bc.RETURN).MustMethod(bc.AccStatic, "<clinit>", "()V")
	set, err := bc.NewClassSet(class("a/Bad", fields(field(constant, "x", "I")), clinit))
	require.NoError(t, err)

	_, err = NewJarIndexer(Options{}).Index(set)
	require.Error(t, err)

	var ae *analyzer.AnalysisError
	require.True(t, errors.As(err, &ae))
	assert.Equal(t, "a/Bad", ae.Owner)
	assert.Equal(t, "<clinit>", ae.Method)
}
