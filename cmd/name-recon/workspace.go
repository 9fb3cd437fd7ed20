package main

import (
	"fmt"
	"slices"
	"time"

	"name-recon/internal/classdump"
	"name-recon/internal/config"
	"name-recon/internal/exporter"
	"name-recon/internal/index"
	"name-recon/internal/logger"
	"name-recon/internal/model"
	"name-recon/internal/proposal"
	"name-recon/internal/registry"
	"name-recon/internal/ui"
)

// workspace is an indexed class set with an engine holding the saved mappings
type workspace struct {
	cfg      *config.Config
	pipeline *ui.Pipeline
	indices  *index.Indices
	engine   *proposal.Engine
	previous *model.Mappings
}

func openWorkspace(o *options) (*workspace, error) {
	cfg := o.cfg
	pipeline := ui.NewPipeline([]ui.Phase{
		ui.PhaseLoading,
		ui.PhaseIndexing,
		ui.PhaseProposing,
		ui.PhaseExporting,
	}, o.out)
	if o.noProgress {
		pipeline.Disable()
	}

	// --- Phase 1: Loading ---
	logger.Info("Phase 1: Loading registries and class dumps...")
	endLoading := logger.StartPhase(string(ui.PhaseLoading))
	loadBar := pipeline.NextPhase(3)

	loadBar.Describe("registries")
	reg, err := registry.Load(cfg.Registry.Paths...)
	if err != nil {
		return nil, err
	}
	logger.Debug("Registry types: %v", reg.Types())

	loadBar.Step("class dumps")
	classes, err := classdump.Load(cfg.Input.Paths, cfg.Input.ExcludeDirs)
	if err != nil {
		return nil, err
	}

	loadBar.Step("saved mappings")
	previous, err := exporter.LoadMappingFile(cfg.GetMappingPath())
	if err != nil {
		return nil, err
	}
	loadBar.Increment()
	loadBar.Finish()
	endLoading()
	logger.Info("Loaded %d classes, %d registry types, %d saved mappings", classes.Len(), reg.Len(), previous.Len())

	// --- Phase 2: Indexing ---
	logger.Info("Phase 2: Indexing...")
	defer logger.StartPhase(string(ui.PhaseIndexing))()
	indexBar := pipeline.NextPhase(classes.Len())

	opts := cfg.IndexOptions()
	opts.Registry = reg
	opts.Progress = indexBar.Callback()
	indices, err := index.NewJarIndexer(opts).Index(classes)
	if err != nil {
		return nil, fmt.Errorf("indexing failed: %w", err)
	}
	indexBar.Finish()
	logger.Debug("Enabled indices: %v", indices.Enabled())

	engine := proposal.NewEngine(indices, cfg.ProposerToggles())
	engine.Load(previous)
	logger.Debug("Enabled proposers: %v", engine.Proposers())

	return &workspace{
		cfg:      cfg,
		pipeline: pipeline,
		indices:  indices,
		engine:   engine,
		previous: previous,
	}, nil
}

// propose runs fn as the proposing phase
func (w *workspace) propose(fn func() (*model.Mappings, error)) (*model.Mappings, error) {
	logger.Info("Phase 3: Proposing names...")
	defer logger.StartPhase(string(ui.PhaseProposing))()
	bar := w.pipeline.NextPhase(1)
	mappings, err := fn()
	if err != nil {
		return nil, err
	}
	bar.Increment()
	bar.Finish()
	return mappings, nil
}

// export saves the mapping file and writes the configured reports
func (w *workspace) export(mappings *model.Mappings) error {
	logger.Info("Phase 4: Exporting...")
	defer logger.StartPhase(string(ui.PhaseExporting))()
	formats := append([]string{"yaml"}, w.cfg.Output.Formats...)
	exporters := exporter.GetExporters(formats)
	bar := w.pipeline.NextPhase(len(exporters))

	summary := w.summary(mappings)

	var exportErrors []error
	for _, exp := range exporters {
		if err := exp.Export(summary, mappings, w.cfg); err != nil {
			logger.Error("Export failed: %v", err)
			exportErrors = append(exportErrors, err)
		}
		bar.Increment()
	}
	bar.Finish()
	w.pipeline.Finish()

	if len(exportErrors) > 0 {
		return fmt.Errorf("one or more exports failed: %d errors", len(exportErrors))
	}

	w.pipeline.PrintSummary(fmt.Sprintf("%d names mapped across %d classes", summary.TotalMapped, summary.TotalClasses))
	return nil
}

func (w *workspace) summary(mappings *model.Mappings) *model.Summary {
	s := model.NewSummary()
	s.AnalysisDate = time.Now().Format("2006-01-02")
	s.TotalClasses, s.TotalFields, s.TotalMethods = w.indices.Entries.Counts()

	enabled := w.engine.Proposers()
	for _, id := range proposal.Order {
		s.AddProposerStat(model.ProposerStat{ID: id, Enabled: slices.Contains(enabled, id)})
	}
	s.Count(mappings)
	return s
}
