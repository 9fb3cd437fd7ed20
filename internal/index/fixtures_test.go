package index

import (
	"testing"

	"github.com/stretchr/testify/require"

	bc "name-recon/internal/bytecode"
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

func fields(fs ...*bc.FieldNode) []*bc.FieldNode { return fs }

func field(access int, name, desc string) *bc.FieldNode {
	return &bc.FieldNode{Access: access, Name: name, Desc: desc}
}

func abstract(name, desc string) *bc.MethodNode {
	return bc.NewAsm().MustMethod(bc.AccPublic|bc.AccAbstract, name, desc)
}

func index(t *testing.T, opts Options, classes ...*bc.ClassNode) *Indices {
	t.Helper()
	set, err := bc.NewClassSet(classes...)
	require.NoError(t, err)
	ix, err := NewJarIndexer(opts).Index(set)
	require.NoError(t, err)
	return ix
}

func loadRegistry(t *testing.T, doc string) *registry.Registry {
	t.Helper()
	r := registry.New()
	require.NoError(t, r.Parse("inline.yaml", []byte(doc)))
	return r
}
