package exporter

import (
	"name-recon/internal/config"
	"name-recon/internal/model"
)

// Exporter is the unified interface for all reporting strategies
type Exporter interface {
	Export(summary *model.Summary, mappings *model.Mappings, cfg *config.Config) error
}
