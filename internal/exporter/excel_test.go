package exporter

import (
	"os"
	"testing"

	"github.com/xuri/excelize/v2"

	"name-recon/internal/config"
	"name-recon/internal/model"
)

func sampleMappings() *model.Mappings {
	m := model.NewMappings()
	method := model.MethodEntry{Owner: "a/A", Name: "m1", Desc: "(I)V"}
	m.Put(model.ClassEntry{Name: "a/A"}, model.EntryMapping{Name: "Account", Source: model.SourceUserSet})
	m.Put(model.FieldEntry{Owner: "a/A", Name: "b", Desc: "I"}, model.EntryMapping{Name: "balance", Source: model.SourceUserSet})
	m.Put(method, model.EntryMapping{Name: "setBalance", Source: model.SourceDynamicProposed, Proposer: "getter_setter"})
	m.Put(method.Local(1), model.EntryMapping{Name: "balance", Source: model.SourceDynamicProposed, Proposer: "getter_setter"})
	m.Put(model.FieldEntry{Owner: "a/K", Name: "a", Desc: "La/Key;"}, model.EntryMapping{Name: "STONE_BLOCK", Source: model.SourceJarProposed, Proposer: "constant_field"})
	return m
}

func TestExcelExport(t *testing.T) {
	cfg := &config.Config{
		Output: config.OutputConfig{
			Dir:      t.TempDir(),
			FileName: "test_report",
		},
	}

	summary := model.NewSummary()
	summary.TotalClasses = 2
	summary.AnalysisDate = "2026-10-17"
	summary.AddProposerStat(model.ProposerStat{ID: "getter_setter", Enabled: true})
	summary.AddProposerStat(model.ProposerStat{ID: "delegate", Enabled: false})
	mappings := sampleMappings()
	summary.Count(mappings)

	if err := NewExcelExporter().Export(summary, mappings, cfg); err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	outputFile := cfg.GetOutputPath("xlsx")
	if _, err := os.Stat(outputFile); os.IsNotExist(err) {
		t.Fatal("Output file was not created")
	}

	f, err := excelize.OpenFile(outputFile)
	if err != nil {
		t.Fatalf("Failed to open generated Excel: %v", err)
	}
	defer f.Close()

	if idx, _ := f.GetSheetIndex("Sheet1"); idx != -1 {
		t.Error("Default sheet should be removed")
	}

	rows, err := f.GetRows(MappingsSheet)
	if err != nil {
		t.Fatalf("Failed to read rows: %v", err)
	}

	// header, a/A header + 3 members, a/K header + 1 member
	if len(rows) != 7 {
		t.Fatalf("Expected 7 rows, got %d: %v", len(rows), rows)
	}
	if rows[1][0] != "[class]" || rows[1][1] != "a/A" || rows[1][4] != "Account" {
		t.Errorf("Unexpected class row: %v", rows[1])
	}
	if rows[5][1] != "a/K" {
		t.Errorf("Expected a/K block after a/A members, got %v", rows[5])
	}

	// Members follow their class header and stay in entry order
	wantKinds := []string{"field", "method", "local"}
	for i, kind := range wantKinds {
		if rows[2+i][0] != kind {
			t.Errorf("Row %d: kind = %s, expected %s", 3+i, rows[2+i][0], kind)
		}
	}
	if rows[4][3] != "1" || rows[4][4] != "balance" || rows[4][6] != "getter_setter" {
		t.Errorf("Unexpected local row: %v", rows[4])
	}

	overview, err := f.GetRows(OverviewSheet)
	if err != nil {
		t.Fatalf("Failed to read overview: %v", err)
	}
	found := false
	for _, r := range overview {
		if len(r) >= 7 && r[1] == "getter_setter" {
			found = true
			if r[6] != "2" {
				t.Errorf("getter_setter total = %s, expected 2", r[6])
			}
		}
	}
	if !found {
		t.Error("Proposer table is missing getter_setter")
	}
}

func TestGetExporters(t *testing.T) {
	exporters := GetExporters([]string{"yaml", "YML", " xlsx", "excel", "docx"})
	if len(exporters) != 2 {
		t.Fatalf("Expected 2 exporters, got %d", len(exporters))
	}
	if _, ok := exporters[0].(*MappingExporter); !ok {
		t.Errorf("Expected MappingExporter first, got %T", exporters[0])
	}
	if _, ok := exporters[1].(*ExcelExporter); !ok {
		t.Errorf("Expected ExcelExporter second, got %T", exporters[1])
	}
}
