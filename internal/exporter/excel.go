package exporter

import (
	"fmt"
	"sort"

	"github.com/xuri/excelize/v2"

	"name-recon/internal/config"
	"name-recon/internal/model"
)

// Sheet names of the Excel report
const (
	OverviewSheet = "Overview"
	MappingsSheet = "Mappings"
)

// ExcelExporter handles the Excel generation
type ExcelExporter struct {
	// Stateless
}

// NewExcelExporter creates a new ExcelExporter
func NewExcelExporter() *ExcelExporter {
	return &ExcelExporter{}
}

// Export generates the Excel report
func (e *ExcelExporter) Export(summary *model.Summary, mappings *model.Mappings, cfg *config.Config) error {
	outputFile := cfg.GetOutputPath("xlsx")
	f := excelize.NewFile()
	defer f.Close()

	styler, err := NewStyler(f)
	if err != nil {
		return err
	}

	if err := e.writeOverview(f, styler, summary); err != nil {
		return err
	}
	if err := e.writeMappings(f, styler, mappings); err != nil {
		return err
	}

	// Remove default "Sheet1"
	if idx, err := f.GetSheetIndex("Sheet1"); err == nil && idx != -1 {
		f.DeleteSheet("Sheet1")
	}

	if err := f.SaveAs(outputFile); err != nil {
		return fmt.Errorf("failed to save report: %w", err)
	}
	return nil
}

// --- Overview Sheet Logic ---

func (e *ExcelExporter) writeOverview(f *excelize.File, s *Styler, summary *model.Summary) error {
	sheet := OverviewSheet
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	// Section A: Run Summary
	row := 1
	e.writeRow(f, sheet, row, []string{"Metric", "Count"}, s.HeaderStyle)
	row++

	metrics := []struct {
		Key string
		Val any
	}{
		{"Total Classes", summary.TotalClasses},
		{"Total Fields", summary.TotalFields},
		{"Total Methods", summary.TotalMethods},
		{"Mapped Entries", summary.TotalMapped},
		{"Analysis Date", summary.AnalysisDate},
	}
	for _, m := range metrics {
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), m.Key)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), m.Val)
		row++
	}

	row += 2 // Spacer

	// Section B: Names per proposer, in pipeline order
	e.writeRow(f, sheet, row, []string{"No", "Proposer", "Enabled", "Fields", "Methods", "Locals", "Total"}, s.HeaderStyle)
	row++
	for i, stat := range summary.ProposerStats {
		enabled := "yes"
		style := s.DefaultStyle
		if !stat.Enabled {
			enabled = "no"
			style = s.DynamicStyle
		}
		values := []any{i + 1, stat.ID, enabled, stat.Fields, stat.Methods, stat.Locals, stat.Total()}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			f.SetCellValue(sheet, cell, v)
		}
		f.SetCellStyle(sheet, fmt.Sprintf("A%d", row), fmt.Sprintf("G%d", row), style)
		row++
	}

	f.SetColWidth(sheet, "A", "B", 24)
	return nil
}

// --- Mappings Sheet Logic ---

// mappingRowData is one member row of the Mappings sheet
type mappingRowData struct {
	kind    string
	member  string
	desc    string
	slot    string
	mapping model.EntryMapping
}

func (e *ExcelExporter) writeMappings(f *excelize.File, s *Styler, mappings *model.Mappings) error {
	sheet := MappingsSheet
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	headers := []string{"Kind", "Member", "Descriptor", "Slot", "Name", "Source", "Proposer"}
	e.writeRow(f, sheet, 1, headers, s.HeaderStyle)
	f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})

	byClass := make(map[string][]mappingRowData)
	classNames := make(map[string]model.EntryMapping)
	for _, entry := range mappings.Entries() {
		em, _ := mappings.Get(entry)
		switch v := entry.(type) {
		case model.ClassEntry:
			classNames[v.Name] = em
			if _, ok := byClass[v.Name]; !ok {
				byClass[v.Name] = nil
			}
		case model.FieldEntry:
			byClass[v.Owner] = append(byClass[v.Owner], mappingRowData{kind: "field", member: v.Name, desc: v.Desc, mapping: em})
		case model.MethodEntry:
			byClass[v.Owner] = append(byClass[v.Owner], mappingRowData{kind: "method", member: v.Name, desc: v.Desc, mapping: em})
		case model.LocalVariableEntry:
			byClass[v.Method.Owner] = append(byClass[v.Method.Owner], mappingRowData{
				kind:    "local",
				member:  v.Method.Name,
				desc:    v.Method.Desc,
				slot:    fmt.Sprint(v.Index),
				mapping: em,
			})
		}
	}

	owners := make([]string, 0, len(byClass))
	for owner := range byClass {
		owners = append(owners, owner)
	}
	sort.Strings(owners)

	row := 2
	for _, owner := range owners {
		// 1. Class header row
		cm := classNames[owner]
		e.writeRow(f, sheet, row, []string{"[class]", owner, "", "", cm.Name, sourceLabel(cm), cm.Proposer}, s.ClassStyle)
		row++

		// 2. Member rows
		for _, r := range byClass[owner] {
			values := []string{r.kind, r.member, r.desc, r.slot, r.mapping.Name, r.mapping.Source.String(), r.mapping.Proposer}
			e.writeRow(f, sheet, row, values, s.ForSource(r.mapping.Source))
			row++
		}
	}

	f.SetColWidth(sheet, "B", "B", 40)
	f.SetColWidth(sheet, "C", "C", 40)
	f.SetColWidth(sheet, "E", "E", 30)
	f.SetColWidth(sheet, "G", "G", 20)
	return nil
}

func sourceLabel(em model.EntryMapping) string {
	if em.Name == "" {
		return ""
	}
	return em.Source.String()
}

func (e *ExcelExporter) writeRow(f *excelize.File, sheet string, row int, values []string, style int) {
	for i, val := range values {
		cell, _ := excelize.CoordinatesToCellName(i+1, row)
		f.SetCellValue(sheet, cell, val)
		f.SetCellStyle(sheet, cell, cell, style)
	}
}
