package model

// Summary represents run-level statistics for reports
type Summary struct {
	// Class set scale
	TotalClasses int
	TotalFields  int
	TotalMethods int

	// Results
	TotalMapped  int
	AnalysisDate string

	// Per proposer statistics, in pipeline order
	ProposerStats []ProposerStat
}

// ProposerStat counts the names a proposer currently owns in the mapping
type ProposerStat struct {
	ID      string
	Enabled bool
	Fields  int
	Methods int
	Locals  int
}

// Total returns the number of names owned by the proposer
func (s ProposerStat) Total() int {
	return s.Fields + s.Methods + s.Locals
}

// NewSummary creates a new Summary instance
func NewSummary() *Summary {
	return &Summary{
		ProposerStats: make([]ProposerStat, 0),
	}
}

// AddProposerStat adds a proposer statistic to the summary
func (s *Summary) AddProposerStat(stat ProposerStat) {
	s.ProposerStats = append(s.ProposerStats, stat)
}

// Count fills the per-proposer counters from the mapping table
func (s *Summary) Count(m *Mappings) {
	s.TotalMapped = m.Len()
	byID := make(map[string]*ProposerStat, len(s.ProposerStats))
	for i := range s.ProposerStats {
		byID[s.ProposerStats[i].ID] = &s.ProposerStats[i]
	}
	for _, e := range m.Entries() {
		em, _ := m.Get(e)
		stat := byID[em.Proposer]
		if stat == nil {
			continue
		}
		switch e.Kind() {
		case KindField:
			stat.Fields++
		case KindMethod:
			stat.Methods++
		case KindLocalVariable:
			stat.Locals++
		}
	}
}
