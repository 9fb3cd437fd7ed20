package analyzer

import (
	"sort"

	"name-recon/internal/bytecode"
)

// SourceValue is a value tagged with the set of instructions that may have produced it
type SourceValue struct {
	Size  int
	Insns []int // sorted, unique instruction indices
}

// Single returns the only producing instruction, if there is exactly one
func (v *SourceValue) Single() (int, bool) {
	if v == nil || len(v.Insns) != 1 {
		return 0, false
	}
	return v.Insns[0], true
}

// Contains reports whether idx is one of the producers
func (v *SourceValue) Contains(idx int) bool {
	if v == nil {
		return false
	}
	i := sort.SearchInts(v.Insns, idx)
	return i < len(v.Insns) && v.Insns[i] == idx
}

// SourceInterpreter tracks which instruction produced each stack value.
// Loads and stores are producers themselves; DUP-family copies keep the original value.
type SourceInterpreter struct{}

var _ Interpreter[*SourceValue] = SourceInterpreter{}

// NewSourceAnalyzer returns an analyzer computing source-value provenance
func NewSourceAnalyzer() *Analyzer[*SourceValue] {
	return New[*SourceValue](SourceInterpreter{})
}

func produced(idx, size int) *SourceValue {
	return &SourceValue{Size: size, Insns: []int{idx}}
}

func (SourceInterpreter) NewEmptyValue() *SourceValue {
	return &SourceValue{Size: 1}
}

func (SourceInterpreter) NewParameterValue(_ int, t bytecode.Type) *SourceValue {
	return &SourceValue{Size: t.Size()}
}

func (SourceInterpreter) NewExceptionValue(_ int, _ string) *SourceValue {
	return &SourceValue{Size: 1}
}

func (SourceInterpreter) NewOperation(idx int, in *bytecode.Insn) (*SourceValue, error) {
	return produced(idx, ResultSize(in)), nil
}

func (SourceInterpreter) CopyOperation(idx int, in *bytecode.Insn, v *SourceValue) (*SourceValue, error) {
	return produced(idx, v.Size), nil
}

func (SourceInterpreter) UnaryOperation(idx int, in *bytecode.Insn, _ *SourceValue) (*SourceValue, error) {
	return produced(idx, ResultSize(in)), nil
}

func (SourceInterpreter) BinaryOperation(idx int, in *bytecode.Insn, _, _ *SourceValue) (*SourceValue, error) {
	return produced(idx, ResultSize(in)), nil
}

func (SourceInterpreter) TernaryOperation(idx int, _ *bytecode.Insn, _, _, _ *SourceValue) (*SourceValue, error) {
	return produced(idx, 1), nil
}

func (SourceInterpreter) NaryOperation(idx int, in *bytecode.Insn, _ []*SourceValue) (*SourceValue, error) {
	size := ResultSize(in)
	if size == 0 {
		size = 1
	}
	return produced(idx, size), nil
}

func (SourceInterpreter) ReturnOperation(int, *bytecode.Insn, *SourceValue) error {
	return nil
}

func (SourceInterpreter) Merge(a, b *SourceValue) (*SourceValue, bool) {
	if a.Size != b.Size {
		if a.Size == 1 && len(a.Insns) == 0 {
			return a, false
		}
		return &SourceValue{Size: 1}, true
	}
	union, changed := unionInts(a.Insns, b.Insns)
	if !changed {
		return a, false
	}
	return &SourceValue{Size: a.Size, Insns: union}, true
}

func (SourceInterpreter) Size(v *SourceValue) int {
	if v == nil {
		return 1
	}
	return v.Size
}

// unionInts merges two sorted sets and reports whether b added elements to a
func unionInts(a, b []int) ([]int, bool) {
	out := make([]int, 0, len(a)+len(b))
	i, j := 0, 0
	added := false
	for i < len(a) || j < len(b) {
		switch {
		case j >= len(b) || (i < len(a) && a[i] < b[j]):
			out = append(out, a[i])
			i++
		case i >= len(a) || b[j] < a[i]:
			out = append(out, b[j])
			j++
			added = true
		default:
			out = append(out, a[i])
			i++
			j++
		}
	}
	return out, added
}
