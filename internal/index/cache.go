package index

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"name-recon/internal/analyzer"
	"name-recon/internal/bytecode"
	"name-recon/internal/model"
)

type (
	sourceFrame = analyzer.Frame[*analyzer.SourceValue]
	originFrame = analyzer.Frame[*analyzer.OriginValue]
)

// DefaultCacheSize is the number of methods whose analysis results are kept per kind
const DefaultCacheSize = 4096

// Cache memoizes per-method analysis for one indexing run. It is owned by the
// run and dropped with it.
type Cache struct {
	sources   *lru.Cache[model.MethodEntry, []*sourceFrame]
	origins   *lru.Cache[model.MethodEntry, []*originFrame]
	accessors *lru.Cache[model.MethodEntry, accessorTarget]
}

// NewCache creates a session cache holding up to size entries per kind
func NewCache(size int) (*Cache, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	sources, err := lru.New[model.MethodEntry, []*sourceFrame](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create source cache: %w", err)
	}
	origins, err := lru.New[model.MethodEntry, []*originFrame](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create origin cache: %w", err)
	}
	accessors, err := lru.New[model.MethodEntry, accessorTarget](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create accessor cache: %w", err)
	}
	return &Cache{sources: sources, origins: origins, accessors: accessors}, nil
}

// Sources returns the source-value frames of a method
func (c *Cache) Sources(owner string, m *bytecode.MethodNode) ([]*sourceFrame, error) {
	key := m.Entry(owner)
	if frames, ok := c.sources.Get(key); ok {
		return frames, nil
	}
	frames, err := analyzer.NewSourceAnalyzer().Analyze(owner, m)
	if err != nil {
		return nil, err
	}
	c.sources.Add(key, frames)
	return frames, nil
}

// Origins returns the origin-slot frames of a method
func (c *Cache) Origins(owner string, m *bytecode.MethodNode) ([]*originFrame, error) {
	key := m.Entry(owner)
	if frames, ok := c.origins.Get(key); ok {
		return frames, nil
	}
	frames, err := analyzer.NewOriginAnalyzer().Analyze(owner, m)
	if err != nil {
		return nil, err
	}
	c.origins.Add(key, frames)
	return frames, nil
}

// Purge drops every cached result
func (c *Cache) Purge() {
	c.sources.Purge()
	c.origins.Purge()
	c.accessors.Purge()
}

// Len returns the number of cached analyses
func (c *Cache) Len() int {
	return c.sources.Len() + c.origins.Len() + c.accessors.Len()
}
