package index

import (
	"errors"
	"fmt"
	"runtime"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"name-recon/internal/analyzer"
	"name-recon/internal/bytecode"
	"name-recon/internal/logger"
	"name-recon/internal/registry"
)

// Toggles enables pattern indices by name. Missing names are enabled.
type Toggles map[string]bool

// Enabled reports whether the named index runs
func (t Toggles) Enabled(name string) bool {
	on, ok := t[name]
	return !ok || on
}

// Options configures one indexing run
type Options struct {
	Workers     int
	CacheSize   int
	Toggles     Toggles
	Codec       CodecConfig
	LoggerTypes []string
	// Registry is required by the simple-type index, which is skipped without it
	Registry *registry.Registry
	// Progress is called after each visited class with the class name
	Progress func(done, total int, class string)
}

// Indices is the result of an indexing run. Disabled indices are nil.
type Indices struct {
	Entries      *EntryIndex
	Record       *RecordIndex
	Codec        *CodecIndex
	Constant     *ConstantIndex
	LoggerField  *LoggerFieldIndex
	GetterSetter *GetterSetterIndex
	Constructor  *ConstructorIndex
	Delegate     *DelegateIndex
	Lambda       *LambdaIndex
	SimpleType   *SimpleTypeIndex
	// Types resolves registry rules over the indexed hierarchy
	Types *registry.Resolver
}

// Enabled returns the names of the indices that ran
func (ix *Indices) Enabled() []string {
	var out []string
	for _, idx := range ix.all() {
		out = append(out, idx.Name())
	}
	return out
}

func (ix *Indices) all() []Index {
	var out []Index
	add := func(idx Index, enabled bool) {
		if enabled {
			out = append(out, idx)
		}
	}
	add(ix.Record, ix.Record != nil)
	add(ix.Codec, ix.Codec != nil)
	add(ix.Constant, ix.Constant != nil)
	add(ix.LoggerField, ix.LoggerField != nil)
	add(ix.GetterSetter, ix.GetterSetter != nil)
	add(ix.Constructor, ix.Constructor != nil)
	add(ix.Delegate, ix.Delegate != nil)
	add(ix.Lambda, ix.Lambda != nil)
	add(ix.SimpleType, ix.SimpleType != nil)
	return out
}

// JarIndexer visits every class once with every enabled index
type JarIndexer struct {
	opts Options
}

// NewJarIndexer creates an indexer
func NewJarIndexer(opts Options) *JarIndexer {
	if opts.Workers <= 0 {
		opts.Workers = runtime.NumCPU()
	}
	if opts.CacheSize <= 0 {
		opts.CacheSize = DefaultCacheSize
	}
	if opts.Codec.FieldBuilders == nil && opts.Codec.GetterBinders == nil && opts.Codec.BuilderTypes == nil {
		opts.Codec = DefaultCodecConfig()
	}
	return &JarIndexer{opts: opts}
}

func (j *JarIndexer) newIndices(entries *EntryIndex) *Indices {
	t := j.opts.Toggles
	ix := &Indices{Entries: entries, Types: registry.NewResolver(j.opts.Registry, entries.Ancestors)}
	if t.Enabled(NameRecord) {
		ix.Record = NewRecordIndex()
	}
	if t.Enabled(NameCodec) {
		ix.Codec = NewCodecIndex(j.opts.Codec)
	}
	if t.Enabled(NameConstant) {
		ix.Constant = NewConstantIndex()
	}
	if t.Enabled(NameLoggerField) {
		ix.LoggerField = NewLoggerFieldIndex(j.opts.LoggerTypes)
	}
	if t.Enabled(NameGetterSetter) {
		ix.GetterSetter = NewGetterSetterIndex()
	}
	if t.Enabled(NameConstructor) {
		ix.Constructor = NewConstructorIndex()
	}
	if t.Enabled(NameDelegate) {
		ix.Delegate = NewDelegateIndex()
	}
	if t.Enabled(NameLambda) {
		ix.Lambda = NewLambdaIndex()
	}
	if t.Enabled(NameSimpleType) {
		if j.opts.Registry != nil {
			ix.SimpleType = NewSimpleTypeIndex(ix.Types)
		} else {
			logger.Warn("Simple-type index skipped: no registry loaded")
		}
	}
	return ix
}

// Index runs the single indexing pass. The first analysis failure aborts the run.
func (j *JarIndexer) Index(classes *bytecode.ClassSet) (*Indices, error) {
	entries, err := NewEntryIndex(classes)
	if err != nil {
		return nil, err
	}
	ix := j.newIndices(entries)
	indices := ix.all()

	cache, err := NewCache(j.opts.CacheSize)
	if err != nil {
		return nil, err
	}
	defer cache.Purge()

	ctx := &VisitContext{Classes: classes, Entries: entries, Cache: cache}
	all := classes.Classes()
	total := len(all)
	var done atomic.Int64

	var g errgroup.Group
	g.SetLimit(j.opts.Workers)
	for _, c := range all {
		c := c
		g.Go(func() error {
			for _, idx := range indices {
				if err := idx.Visit(ctx, c); err != nil {
					return visitError(idx.Name(), c.Name, err)
				}
			}
			if j.opts.Progress != nil {
				j.opts.Progress(int(done.Add(1)), total, c.Name)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, idx := range indices {
		if err := idx.Finish(); err != nil {
			return nil, fmt.Errorf("%s index: %w", idx.Name(), err)
		}
	}
	logger.Debug("Indexed %d classes with %v (cache held %d analyses)", total, ix.Enabled(), cache.Len())
	return ix, nil
}

func visitError(index, class string, err error) error {
	var ae *analyzer.AnalysisError
	if errors.As(err, &ae) {
		logger.LogAnalysisError(ae.Owner, ae.Method, ae.Desc, ae.Err)
	}
	return fmt.Errorf("%s index failed on %s: %w", index, class, err)
}
