package exporter

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"name-recon/internal/config"
	"name-recon/internal/model"
)

func TestMappingFileRoundTrip(t *testing.T) {
	m := sampleMappings()

	var buf bytes.Buffer
	require.NoError(t, WriteMappings(&buf, m))
	assert.Contains(t, buf.String(), "entry: local a/A.m1(I)V#1")
	assert.Contains(t, buf.String(), "proposer: constant_field")

	got, err := ReadMappings(&buf)
	require.NoError(t, err)
	assert.True(t, m.Equal(got))
}

func TestReadMappingsErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{"bad entry", "mappings:\n  - {entry: field a/B, name: x, source: user}\n", "mapping 1"},
		{"bad source", "mappings:\n  - {entry: class a/B, name: X, source: magic}\n", `unknown source "magic"`},
		{"duplicate", "mappings:\n  - {entry: class a/B, name: X, source: user}\n  - {entry: class a/B, name: Y, source: jar}\n", "duplicate entry"},
		{"unknown field", "mappings:\n  - {entry: class a/B, name: X, source: user, note: hi}\n", "note"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadMappings(strings.NewReader(tt.doc))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestMappingFileOnDisk(t *testing.T) {
	dir := t.TempDir()

	m, err := LoadMappingFile(filepath.Join(dir, "missing.yaml"))
	require.NoError(t, err)
	assert.Zero(t, m.Len())

	cfg := &config.Config{Output: config.OutputConfig{Dir: dir, MappingFile: "names.yaml"}}
	require.NoError(t, NewMappingExporter().Export(model.NewSummary(), sampleMappings(), cfg))

	m, err = LoadMappingFile(filepath.Join(dir, "names.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 5, m.Len())
}

func TestDiff(t *testing.T) {
	before := sampleMappings()
	after := before.Clone()
	f := model.FieldEntry{Owner: "a/A", Name: "b", Desc: "I"}
	after.Put(f, model.EntryMapping{Name: "total", Source: model.SourceUserSet})

	text, err := Diff(before, after)
	require.NoError(t, err)
	assert.Contains(t, text, "-field a/A.b:I -> balance [user]")
	assert.Contains(t, text, "+field a/A.b:I -> total [user]")

	text, err = Diff(before, before.Clone())
	require.NoError(t, err)
	assert.Empty(t, text)
}
