package classdump

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	bc "name-recon/internal/bytecode"
)

// assemble turns the code lines of a method into an instruction list.
// Scalar lines use an assembler syntax:
//
//	LABEL L0
//	LINE 12                    line number
//	ALOAD 0                    local variable
//	IINC 1 -1
//	BIPUSH 10
//	LDC "text" | LDC 5 | LDC 5L | LDC 1.5F | LDC 1.5D | LDC class La/B;
//	GETFIELD a/A.b I
//	INVOKESTATIC a/B.c (I)V
//	NEW a/B
//	MULTIANEWARRAY [[I 2
//	IFEQ L0
//	TABLESWITCH default:L0 1:L1 2:L2
//
// INVOKEDYNAMIC takes the mapping form {invokedynamic: {name, desc, bsm, args}}.
func assemble(code []yaml.Node, tryCatch []tryCatchDoc) (*bc.Asm, error) {
	a := bc.NewAsm()
	for i := range code {
		node := &code[i]
		var err error
		switch node.Kind {
		case yaml.ScalarNode:
			err = assembleLine(a, strings.TrimSpace(node.Value))
		case yaml.MappingNode:
			err = assembleIndy(a, node)
		default:
			err = fmt.Errorf("code entry must be a string or an invokedynamic mapping")
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", node.Line, err)
		}
	}
	for _, tc := range tryCatch {
		a.TryCatch(tc.Start, tc.End, tc.Handler, tc.Type)
	}
	return a, nil
}

func assembleLine(a *bc.Asm, line string) error {
	mnemonic, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)
	switch mnemonic {
	case "LABEL":
		if rest == "" || strings.ContainsAny(rest, " \t") {
			return fmt.Errorf("LABEL takes one name")
		}
		a.Label(rest)
		return nil
	case "LINE":
		n, err := strconv.Atoi(rest)
		if err != nil {
			return fmt.Errorf("LINE: %w", err)
		}
		a.Line(n)
		return nil
	}

	op, ok := bc.ParseOpcode(mnemonic)
	if !ok || op.IsPseudo() {
		return fmt.Errorf("unknown opcode %q", mnemonic)
	}
	if op == bc.LDC {
		v, err := parseLdc(rest)
		if err != nil {
			return err
		}
		a.Ldc(v)
		return nil
	}

	args := strings.Fields(rest)
	want := func(n int) error {
		if len(args) != n {
			return fmt.Errorf("%s takes %d operand(s), got %d", mnemonic, n, len(args))
		}
		return nil
	}
	ints := func() ([]int, error) {
		out := make([]int, len(args))
		for i, s := range args {
			n, err := strconv.Atoi(s)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", mnemonic, err)
			}
			out[i] = n
		}
		return out, nil
	}

	switch {
	case op.IsLoad(), op.IsStore(), op == bc.RET:
		if err := want(1); err != nil {
			return err
		}
		n, err := ints()
		if err != nil {
			return err
		}
		a.Var(op, n[0])
	case op == bc.IINC:
		if err := want(2); err != nil {
			return err
		}
		n, err := ints()
		if err != nil {
			return err
		}
		a.Iinc(n[0], n[1])
	case op == bc.BIPUSH, op == bc.SIPUSH, op == bc.NEWARRAY:
		if err := want(1); err != nil {
			return err
		}
		n, err := ints()
		if err != nil {
			return err
		}
		a.Int(op, n[0])
	case op >= bc.GETSTATIC && op <= bc.PUTFIELD, op.IsInvoke():
		if err := want(2); err != nil {
			return err
		}
		owner, name, err := splitMember(args[0])
		if err != nil {
			return err
		}
		if op.IsInvoke() {
			if _, err := bc.ParseMethodDesc(args[1]); err != nil {
				return err
			}
			a.Invoke(op, owner, name, args[1])
		} else {
			if _, err := bc.ParseType(args[1]); err != nil {
				return err
			}
			a.Field(op, owner, name, args[1])
		}
	case op == bc.NEW, op == bc.ANEWARRAY, op == bc.CHECKCAST, op == bc.INSTANCEOF:
		if err := want(1); err != nil {
			return err
		}
		a.Type(op, args[0])
	case op == bc.MULTIANEWARRAY:
		if err := want(2); err != nil {
			return err
		}
		dims, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("%s: %w", mnemonic, err)
		}
		a.MultiANewArray(args[0], dims)
	case op.IsJump():
		if err := want(1); err != nil {
			return err
		}
		a.Jump(op, args[0])
	case op.IsSwitch():
		return assembleSwitch(a, op, args)
	case op == bc.INVOKEDYNAMIC:
		return fmt.Errorf("INVOKEDYNAMIC needs the mapping form")
	default:
		if err := want(0); err != nil {
			return err
		}
		a.Op(op)
	}
	return nil
}

// assembleSwitch reads "default:L0 key:label..."
func assembleSwitch(a *bc.Asm, op bc.Opcode, args []string) error {
	var dflt string
	var keys []int
	var labels []string
	for _, arg := range args {
		k, label, ok := strings.Cut(arg, ":")
		if !ok {
			return fmt.Errorf("switch case %q: want key:label", arg)
		}
		if k == "default" {
			dflt = label
			continue
		}
		n, err := strconv.Atoi(k)
		if err != nil {
			return fmt.Errorf("switch key %q: %w", k, err)
		}
		keys = append(keys, n)
		labels = append(labels, label)
	}
	if dflt == "" {
		return fmt.Errorf("switch without default label")
	}
	a.Switch(op, keys, dflt, labels...)
	return nil
}

// parseLdc reads an LDC operand
func parseLdc(s string) (any, error) {
	switch {
	case s == "":
		return nil, fmt.Errorf("LDC without operand")
	case strings.HasPrefix(s, `"`):
		return strconv.Unquote(s)
	case strings.HasPrefix(s, "class "):
		desc := strings.TrimSpace(strings.TrimPrefix(s, "class "))
		if _, err := bc.ParseType(desc); err != nil {
			return nil, err
		}
		return bc.Type{Desc: desc}, nil
	}

	num := strings.ToUpper(s)
	switch {
	case strings.HasSuffix(num, "L"):
		return strconv.ParseInt(num[:len(num)-1], 10, 64)
	case strings.HasSuffix(num, "F"):
		f, err := strconv.ParseFloat(num[:len(num)-1], 32)
		return float32(f), err
	case strings.HasSuffix(num, "D"):
		return strconv.ParseFloat(num[:len(num)-1], 64)
	}
	n, err := strconv.ParseInt(num, 10, 32)
	if err != nil {
		return nil, fmt.Errorf("LDC operand %q: %w", s, err)
	}
	return int32(n), nil
}

func assembleIndy(a *bc.Asm, node *yaml.Node) error {
	var wrapper struct {
		Indy *indyDoc `yaml:"invokedynamic"`
	}
	if err := node.Decode(&wrapper); err != nil {
		return err
	}
	if wrapper.Indy == nil {
		return fmt.Errorf("mapping code entries must be invokedynamic")
	}
	indy := wrapper.Indy
	if _, err := bc.ParseMethodDesc(indy.Desc); err != nil {
		return err
	}
	bsm, err := bootstrap(indy.Bsm)
	if err != nil {
		return err
	}

	args := make([]any, 0, len(indy.Args))
	for i := range indy.Args {
		arg := &indy.Args[i]
		if arg.Kind == yaml.ScalarNode {
			args = append(args, arg.Value)
			continue
		}
		var c constDoc
		if err := arg.Decode(&c); err != nil {
			return err
		}
		v, err := c.value()
		if err != nil {
			return fmt.Errorf("line %d: %w", arg.Line, err)
		}
		args = append(args, v)
	}
	a.Indy(indy.Name, indy.Desc, bsm, args...)
	return nil
}
