package exporter

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"name-recon/internal/config"
	"name-recon/internal/model"
)

// mappingDoc is the on-disk layout of a mapping file
type mappingDoc struct {
	Mappings []mappingRow `yaml:"mappings"`
}

type mappingRow struct {
	Entry    string `yaml:"entry"`
	Name     string `yaml:"name"`
	Source   string `yaml:"source"`
	Proposer string `yaml:"proposer,omitempty"`
}

// WriteMappings encodes mappings in entry order
func WriteMappings(w io.Writer, m *model.Mappings) error {
	doc := mappingDoc{Mappings: make([]mappingRow, 0, m.Len())}
	for _, e := range m.Entries() {
		em, _ := m.Get(e)
		doc.Mappings = append(doc.Mappings, mappingRow{
			Entry:    model.FormatEntry(e),
			Name:     em.Name,
			Source:   em.Source.String(),
			Proposer: em.Proposer,
		})
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode mappings: %w", err)
	}
	return enc.Close()
}

// ReadMappings decodes a mapping file. Rows for the same entry are an error.
func ReadMappings(r io.Reader) (*model.Mappings, error) {
	var doc mappingDoc
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to decode mappings: %w", err)
	}

	m := model.NewMappings()
	for i, row := range doc.Mappings {
		e, err := model.ParseEntry(row.Entry)
		if err != nil {
			return nil, fmt.Errorf("mapping %d: %w", i+1, err)
		}
		src, ok := model.ParseSource(row.Source)
		if !ok {
			return nil, fmt.Errorf("mapping %d: unknown source %q", i+1, row.Source)
		}
		if _, dup := m.Get(e); dup {
			return nil, fmt.Errorf("mapping %d: duplicate entry %s", i+1, row.Entry)
		}
		m.Put(e, model.EntryMapping{Name: row.Name, Source: src, Proposer: row.Proposer})
	}
	return m, nil
}

// LoadMappingFile reads a mapping file; a missing file is an empty mapping
func LoadMappingFile(path string) (*model.Mappings, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return model.NewMappings(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read mapping file: %w", err)
	}
	m, err := ReadMappings(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// SaveMappingFile writes mappings to path
func SaveMappingFile(path string, m *model.Mappings) error {
	var buf bytes.Buffer
	if err := WriteMappings(&buf, m); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write mapping file: %w", err)
	}
	return nil
}

// MappingExporter writes the mapping file
type MappingExporter struct{}

// NewMappingExporter creates a new MappingExporter
func NewMappingExporter() *MappingExporter {
	return &MappingExporter{}
}

// Export saves the mappings to the configured mapping file
func (e *MappingExporter) Export(_ *model.Summary, mappings *model.Mappings, cfg *config.Config) error {
	return SaveMappingFile(cfg.GetMappingPath(), mappings)
}
