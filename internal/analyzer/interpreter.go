package analyzer

import (
	"name-recon/internal/bytecode"
)

// Interpreter computes abstract values for the Analyzer. Each operation receives the
// index of the instruction being simulated so values can record their provenance.
type Interpreter[V any] interface {
	// NewEmptyValue returns the value of an uninitialized local (or the unused half of a long/double)
	NewEmptyValue() V
	// NewParameterValue returns the value of an incoming parameter (slot 0 is "this" for instance methods)
	NewParameterValue(slot int, t bytecode.Type) V
	// NewExceptionValue returns the value pushed on entry of an exception handler
	NewExceptionValue(handler int, catchType string) V

	// NewOperation handles constants, GETSTATIC and NEW
	NewOperation(idx int, in *bytecode.Insn) (V, error)
	// CopyOperation handles loads and stores
	CopyOperation(idx int, in *bytecode.Insn, v V) (V, error)
	// UnaryOperation handles single-operand instructions
	UnaryOperation(idx int, in *bytecode.Insn, v V) (V, error)
	// BinaryOperation handles two-operand instructions
	BinaryOperation(idx int, in *bytecode.Insn, v1, v2 V) (V, error)
	// TernaryOperation handles array stores
	TernaryOperation(idx int, in *bytecode.Insn, v1, v2, v3 V) (V, error)
	// NaryOperation handles method calls, invokedynamic and MULTIANEWARRAY
	NaryOperation(idx int, in *bytecode.Insn, args []V) (V, error)
	// ReturnOperation handles value returns
	ReturnOperation(idx int, in *bytecode.Insn, v V) error

	// Merge joins two values at a control-flow join and reports whether the result differs from a
	Merge(a, b V) (V, bool)
	// Size returns the size class (1 or 2) of a value
	Size(v V) int
}
