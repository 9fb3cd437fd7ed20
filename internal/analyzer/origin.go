package analyzer

import (
	"name-recon/internal/bytecode"
)

// OriginValue is a value tagged with the incoming parameter slots it may derive from.
// Origins flow through loads, stores, casts and primitive boxing only.
type OriginValue struct {
	Size  int
	Slots []int // sorted, unique parameter slots
}

// Slot returns the only origin slot, if the value derives from exactly one parameter
func (v *OriginValue) Slot() (int, bool) {
	if v == nil || len(v.Slots) != 1 {
		return 0, false
	}
	return v.Slots[0], true
}

// OriginInterpreter tracks which parameter slot a value ultimately derives from
type OriginInterpreter struct{}

var _ Interpreter[*OriginValue] = OriginInterpreter{}

// NewOriginAnalyzer returns an analyzer computing origin-slot provenance
func NewOriginAnalyzer() *Analyzer[*OriginValue] {
	return New[*OriginValue](OriginInterpreter{})
}

func opaque(size int) *OriginValue {
	if size == 0 {
		size = 1
	}
	return &OriginValue{Size: size}
}

func (OriginInterpreter) NewEmptyValue() *OriginValue {
	return &OriginValue{Size: 1}
}

func (OriginInterpreter) NewParameterValue(slot int, t bytecode.Type) *OriginValue {
	return &OriginValue{Size: t.Size(), Slots: []int{slot}}
}

func (OriginInterpreter) NewExceptionValue(int, string) *OriginValue {
	return &OriginValue{Size: 1}
}

func (OriginInterpreter) NewOperation(_ int, in *bytecode.Insn) (*OriginValue, error) {
	return opaque(ResultSize(in)), nil
}

func (OriginInterpreter) CopyOperation(_ int, _ *bytecode.Insn, v *OriginValue) (*OriginValue, error) {
	return v, nil
}

func (OriginInterpreter) UnaryOperation(_ int, in *bytecode.Insn, v *OriginValue) (*OriginValue, error) {
	if in.Op == bytecode.CHECKCAST || (in.Op >= bytecode.I2L && in.Op <= bytecode.I2S) {
		return &OriginValue{Size: ResultSize(in), Slots: v.Slots}, nil
	}
	return opaque(ResultSize(in)), nil
}

func (OriginInterpreter) BinaryOperation(_ int, in *bytecode.Insn, _, _ *OriginValue) (*OriginValue, error) {
	return opaque(ResultSize(in)), nil
}

func (OriginInterpreter) TernaryOperation(int, *bytecode.Insn, *OriginValue, *OriginValue, *OriginValue) (*OriginValue, error) {
	return opaque(1), nil
}

func (OriginInterpreter) NaryOperation(_ int, in *bytecode.Insn, args []*OriginValue) (*OriginValue, error) {
	size := ResultSize(in)
	if (bytecode.IsBoxCall(in) || bytecode.IsUnboxCall(in)) && len(args) == 1 {
		return &OriginValue{Size: size, Slots: args[0].Slots}, nil
	}
	return opaque(size), nil
}

func (OriginInterpreter) ReturnOperation(int, *bytecode.Insn, *OriginValue) error {
	return nil
}

func (OriginInterpreter) Merge(a, b *OriginValue) (*OriginValue, bool) {
	if a.Size != b.Size {
		if a.Size == 1 && len(a.Slots) == 0 {
			return a, false
		}
		return &OriginValue{Size: 1}, true
	}
	union, changed := unionInts(a.Slots, b.Slots)
	if !changed {
		return a, false
	}
	return &OriginValue{Size: a.Size, Slots: union}, true
}

func (OriginInterpreter) Size(v *OriginValue) int {
	if v == nil {
		return 1
	}
	return v.Size
}
