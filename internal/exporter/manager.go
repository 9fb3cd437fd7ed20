package exporter

import (
	"strings"
)

// GetExporters returns a list of Exporters based on requested formats
func GetExporters(formats []string) []Exporter {
	exporters := []Exporter{}
	seen := make(map[string]bool)

	for _, fmtStr := range formats {
		fmtStr = strings.ToLower(strings.TrimSpace(fmtStr))
		switch fmtStr {
		case "yml":
			fmtStr = "yaml"
		case "excel":
			fmtStr = "xlsx"
		}
		if seen[fmtStr] {
			continue
		}
		seen[fmtStr] = true

		switch fmtStr {
		case "xlsx":
			exporters = append(exporters, NewExcelExporter())
		case "yaml":
			exporters = append(exporters, NewMappingExporter())
		}
	}

	return exporters
}
