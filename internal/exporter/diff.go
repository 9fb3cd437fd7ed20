package exporter

import (
	"fmt"

	"github.com/pmezard/go-difflib/difflib"

	"name-recon/internal/model"
)

// mappingLines renders one line per mapping, in entry order
func mappingLines(m *model.Mappings) []string {
	lines := make([]string, 0, m.Len())
	for _, e := range m.Entries() {
		em, _ := m.Get(e)
		line := fmt.Sprintf("%s -> %s [%s", model.FormatEntry(e), em.Name, em.Source)
		if em.Proposer != "" {
			line += " " + em.Proposer
		}
		lines = append(lines, line+"]\n")
	}
	return lines
}

// Diff returns a unified diff between two mapping tables, or "" when they are equal
func Diff(before, after *model.Mappings) (string, error) {
	diff := difflib.UnifiedDiff{
		A:        mappingLines(before),
		B:        mappingLines(after),
		FromFile: "before",
		ToFile:   "after",
		Context:  1,
	}
	text, err := difflib.GetUnifiedDiffString(diff)
	if err != nil {
		return "", fmt.Errorf("failed to diff mappings: %w", err)
	}
	return text, nil
}
