package index

import (
	"sync"

	"name-recon/internal/bytecode"
	"name-recon/internal/model"
)

// DefaultLoggerTypes are the logger classes recognized when none are configured
var DefaultLoggerTypes = []string{
	"org/slf4j/Logger",
	"org/apache/logging/log4j/Logger",
	"java/util/logging/Logger",
}

// LoggerFieldIndex finds the single static final logger field of each class
type LoggerFieldIndex struct {
	mu sync.Mutex

	types  map[string]bool
	fields map[model.FieldEntry]bool
}

// NewLoggerFieldIndex creates a logger-field index for the given logger internal names
func NewLoggerFieldIndex(loggerTypes []string) *LoggerFieldIndex {
	if len(loggerTypes) == 0 {
		loggerTypes = DefaultLoggerTypes
	}
	types := make(map[string]bool, len(loggerTypes))
	for _, t := range loggerTypes {
		types[bytecode.ObjectType(t).Desc] = true
	}
	return &LoggerFieldIndex{types: types, fields: make(map[model.FieldEntry]bool)}
}

func (x *LoggerFieldIndex) Name() string { return NameLoggerField }

func (x *LoggerFieldIndex) Visit(_ *VisitContext, c *bytecode.ClassNode) error {
	var match *bytecode.FieldNode
	for _, f := range c.Fields {
		if !f.IsStatic() || !f.IsFinal() || !x.types[f.Desc] {
			continue
		}
		if match != nil {
			return nil // more than one logger
		}
		match = f
	}
	if match == nil {
		return nil
	}

	x.mu.Lock()
	x.fields[match.Entry(c.Name)] = true
	x.mu.Unlock()
	return nil
}

func (x *LoggerFieldIndex) Finish() error { return nil }

// isLogger reports whether the field is the logger of its class
func (x *LoggerFieldIndex) isLogger(f model.FieldEntry) bool {
	return x.fields[f]
}

// Fields returns every logger field, sorted
func (x *LoggerFieldIndex) Fields() []model.FieldEntry {
	out := make([]model.FieldEntry, 0, len(x.fields))
	for f := range x.fields {
		out = append(out, f)
	}
	sortByString(out)
	return out
}
