package classdump

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	bc "name-recon/internal/bytecode"
)

func TestScanDirectory(t *testing.T) {
	files, err := ScanDirectory("testdata/dumps", []string{"**/generated/**"})
	require.NoError(t, err)

	var rel []string
	for _, f := range files {
		r, err := filepath.Rel("testdata/dumps", f)
		require.NoError(t, err)
		rel = append(rel, filepath.ToSlash(r))
	}
	assert.Equal(t, []string{"accessors.yaml", "nested/codec.json"}, rel)
}

func TestLoad(t *testing.T) {
	set, err := Load([]string{"testdata/dumps"}, []string{"**/generated/**"})
	require.NoError(t, err)
	require.Equal(t, 2, set.Len())

	a := set.Class("a/A")
	require.NotNil(t, a)
	assert.Equal(t, bc.AccPublic, a.Access)
	assert.Equal(t, "java/lang/Object", a.Super)
	require.Len(t, a.Fields, 1)
	assert.Equal(t, bc.AccPrivate, a.Fields[0].Access)

	getter := a.Method("m1", "()I")
	require.NotNil(t, getter)
	require.Len(t, getter.Insns, 3)
	assert.Equal(t, bc.Insn{Op: bc.GETFIELD, Owner: "a/A", Name: "b", Desc: "I"}, getter.Insns[1])

	loop := a.Method("loop", "(I)I")
	require.NotNil(t, loop)
	assert.Equal(t, bc.AccPublic|bc.AccStatic, loop.Access)
	assert.Equal(t, bc.IFEQ, loop.Insns[2].Op)
	assert.Equal(t, 5, loop.Insns[2].Target, "jumps resolve to the label index")
	assert.Equal(t, -1, loop.Insns[3].Int)
	assert.Equal(t, "done", loop.Insns[6].Const)
	sw := loop.Insns[len(loop.Insns)-1]
	assert.Equal(t, []int{0}, sw.Keys)
	assert.Equal(t, []int{0}, sw.Targets)
	assert.Equal(t, 5, sw.Default)
	require.Len(t, loop.TryCatch, 1)
	assert.Equal(t, "java/lang/Exception", loop.TryCatch[0].Type)

	clinit := set.Class("a/T").Method("<clinit>", "()V")
	require.NotNil(t, clinit)
	indy := clinit.Insns[3]
	impl, ok := indy.LambdaImpl()
	require.True(t, ok)
	assert.Equal(t, bc.Handle{Tag: bc.H_INVOKEVIRTUAL, Owner: "a/T", Name: "c", Desc: "()I"}, impl)
	sam, ok := indy.LambdaSAM()
	require.True(t, ok)
	assert.Equal(t, "(Ljava/lang/Object;)Ljava/lang/Object;", sam.Desc)
	assert.True(t, clinit.Insns[2].Itf)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name  string
		paths []string
		want  string
	}{
		{"missing path", []string{"testdata/missing"}, "class dump input"},
		{"unknown opcode", []string{"testdata/bad_opcode.yaml"}, `unknown opcode "FROB"`},
		{"duplicate class", []string{"testdata/dumps/accessors.yaml", "testdata/duplicate.yaml"}, "duplicate class a/A"},
		{"no dump files", []string{"testdata/notes"}, "no class dump files"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(tt.paths, []string{"generated"})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestDecodeLdcForms(t *testing.T) {
	doc := `
classes:
  - name: a/C
    methods:
      - name: m
        desc: ()V
        access: [public, static]
        code:
          - LDC 7
          - LDC 7L
          - LDC 1.5F
          - LDC 2.5D
          - LDC class La/C;
          - LDC "a b"
          - RETURN
`
	classes, err := Decode(strings.NewReader(doc))
	require.NoError(t, err)
	require.Len(t, classes, 1)

	insns := classes[0].Methods[0].Insns
	assert.Equal(t, int32(7), insns[0].Const)
	assert.Equal(t, int64(7), insns[1].Const)
	assert.Equal(t, float32(1.5), insns[2].Const)
	assert.Equal(t, 2.5, insns[3].Const)
	assert.Equal(t, bc.Type{Desc: "La/C;"}, insns[4].Const)
	assert.Equal(t, "a b", insns[5].Const)
}

func TestDecodeRejectsMalformedLines(t *testing.T) {
	for _, line := range []string{
		"ALOAD",
		"GETFIELD a/A I",
		"INVOKESTATIC a/A.m notadesc",
		"INVOKEDYNAMIC x ()V",
		"TABLESWITCH 0:L0",
		"LDC 1.5",
		"RETURN 1",
	} {
		doc := "classes:\n  - name: a/C\n    methods:\n      - {name: m, desc: ()V, code: [\"" + line + "\"]}\n"
		_, err := Decode(strings.NewReader(doc))
		assert.Error(t, err, line)
	}
}
