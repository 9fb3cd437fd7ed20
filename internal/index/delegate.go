package index

import (
	"fmt"
	"sync"

	"name-recon/internal/bytecode"
	"name-recon/internal/model"
)

// DelegateIndex links methods that only forward their parameters to another
// method of the same class.
type DelegateIndex struct {
	mu sync.Mutex

	delegateOf map[model.MethodEntry]model.MethodEntry
	delegaters links[model.MethodEntry, model.MethodEntry]
	paramLink  map[model.LocalVariableEntry]model.LocalVariableEntry
	paramBack  links[model.LocalVariableEntry, model.LocalVariableEntry]
}

// NewDelegateIndex creates an empty delegating-method index
func NewDelegateIndex() *DelegateIndex {
	return &DelegateIndex{
		delegateOf: make(map[model.MethodEntry]model.MethodEntry),
		delegaters: make(links[model.MethodEntry, model.MethodEntry]),
		paramLink:  make(map[model.LocalVariableEntry]model.LocalVariableEntry),
		paramBack:  make(links[model.LocalVariableEntry, model.LocalVariableEntry]),
	}
}

func (x *DelegateIndex) Name() string { return NameDelegate }

type delegation struct {
	delegater model.MethodEntry
	delegate  model.MethodEntry
	// params[i] is the delegate argument position forwarded from delegater parameter i
	params []int
}

func (d delegation) layout() string {
	return fmt.Sprint(d.params)
}

func (x *DelegateIndex) Visit(ctx *VisitContext, c *bytecode.ClassNode) error {
	var found []delegation
	for _, m := range c.Methods {
		d, ok, err := matchDelegation(ctx, c, m)
		if err != nil {
			return err
		}
		if ok {
			found = append(found, d)
		}
	}
	if len(found) == 0 {
		return nil
	}

	// Same-descriptor delegaters of one delegate must agree on the layout,
	// otherwise none of them is kept.
	type key struct {
		delegate model.MethodEntry
		desc     string
	}
	layouts := make(map[key]string)
	blocked := make(map[key]bool)
	for _, d := range found {
		k := key{d.delegate, d.delegater.Desc}
		if l, ok := layouts[k]; ok && l != d.layout() {
			blocked[k] = true
		}
		layouts[k] = d.layout()
	}

	x.mu.Lock()
	defer x.mu.Unlock()
	for _, d := range found {
		if blocked[key{d.delegate, d.delegater.Desc}] {
			continue
		}
		x.delegateOf[d.delegater] = d.delegate
		x.delegaters.add(d.delegate, d.delegater)

		from := ctx.Entries.Parameters(d.delegater)
		to := ctx.Entries.Parameters(d.delegate)
		for i, j := range d.params {
			x.paramLink[from[i]] = to[j]
			x.paramBack.add(to[j], from[i])
		}
	}
	return nil
}

// matchDelegation checks whether m forwards to another method of c
func matchDelegation(ctx *VisitContext, c *bytecode.ClassNode, m *bytecode.MethodNode) (delegation, bool, error) {
	if m.IsAbstract() || m.Name == "<clinit>" {
		return delegation{}, false, nil
	}
	real := m.Real()
	if len(real) < 2 {
		return delegation{}, false, nil
	}
	ret := &m.Insns[real[len(real)-1]]
	callIdx := real[len(real)-2]
	call := &m.Insns[callIdx]
	if !ret.Op.IsReturn() || !call.Op.IsInvoke() || call.Owner != c.Name {
		return delegation{}, false, nil
	}
	if call.Name == m.Name && call.Desc == m.Desc {
		return delegation{}, false, nil
	}
	// Constructors only chain to constructors
	if (m.Name == "<init>") != (call.Name == "<init>") {
		return delegation{}, false, nil
	}
	target := c.Method(call.Name, call.Desc)
	if target == nil || (target.IsStatic() != (call.Op == bytecode.INVOKESTATIC)) {
		return delegation{}, false, nil
	}

	mt, err := m.Type()
	if err != nil {
		return delegation{}, false, err
	}
	tt, err := target.Type()
	if err != nil {
		return delegation{}, false, err
	}
	if mt.Return != tt.Return || len(mt.Args) > len(tt.Args) {
		return delegation{}, false, nil
	}

	for _, idx := range real[:len(real)-2] {
		if !allowedBeforeDelegate(&m.Insns[idx]) {
			return delegation{}, false, nil
		}
	}

	frames, err := ctx.Cache.Origins(c.Name, m)
	if err != nil {
		return delegation{}, false, err
	}
	frame := frames[callIdx]
	if frame == nil {
		return delegation{}, false, nil
	}
	args, err := frame.CallArguments(call)
	if err != nil {
		return delegation{}, false, err
	}

	if !target.IsStatic() {
		// Instance delegates must be called on this
		if m.IsStatic() {
			return delegation{}, false, nil
		}
		if slot, ok := args[0].Slot(); !ok || slot != 0 {
			return delegation{}, false, nil
		}
		args = args[1:]
	}

	static := m.IsStatic()
	params := make([]int, len(mt.Args))
	for i := range params {
		params[i] = -1
	}
	last := -1
	for j, v := range args {
		slot, ok := v.Slot()
		if !ok {
			continue
		}
		i := mt.ArgumentIndex(static, slot)
		if i < 0 {
			continue
		}
		// Each parameter is forwarded once, in increasing position, with a compatible type
		if params[i] >= 0 || i <= last || !compatibleTypes(mt.Args[i], tt.Args[j]) {
			return delegation{}, false, nil
		}
		params[i] = j
		last = i
	}
	for _, j := range params {
		if j < 0 {
			return delegation{}, false, nil
		}
	}

	return delegation{
		delegater: m.Entry(c.Name),
		delegate:  target.Entry(c.Name),
		params:    params,
	}, true, nil
}

// allowedBeforeDelegate is the whitelist of instructions that may prepare delegate arguments
func allowedBeforeDelegate(in *bytecode.Insn) bool {
	switch {
	case in.Op.IsLoad(), in.Op.IsStore(), in.Op.IsConstant():
		return true
	case in.Op == bytecode.GETSTATIC, in.Op == bytecode.CHECKCAST:
		return true
	case bytecode.IsBoxCall(in), bytecode.IsUnboxCall(in):
		return true
	}
	return false
}

// compatibleTypes accepts equal types, two reference types (a cast) or a primitive and its wrapper
func compatibleTypes(a, b bytecode.Type) bool {
	if a == b || (a.IsReference() && b.IsReference()) {
		return true
	}
	if box, ok := bytecode.BoxOf(a); ok && box == b {
		return true
	}
	if box, ok := bytecode.BoxOf(b); ok && box == a {
		return true
	}
	return false
}

func (x *DelegateIndex) Finish() error {
	x.delegaters.sort()
	x.paramBack.sort()
	return nil
}

// forwardsTo returns the method m forwards to
func (x *DelegateIndex) forwardsTo(m model.MethodEntry) (model.MethodEntry, bool) {
	d, ok := x.delegateOf[m]
	return d, ok
}

// Delegaters returns the methods forwarding to m
func (x *DelegateIndex) Delegaters(m model.MethodEntry) []model.MethodEntry {
	return x.delegaters.get(m)
}

// paramTarget returns the delegate parameter a delegater parameter is forwarded to
func (x *DelegateIndex) paramTarget(p model.LocalVariableEntry) (model.LocalVariableEntry, bool) {
	t, ok := x.paramLink[p]
	return t, ok
}

// ParamSources returns the delegater parameters forwarded to a delegate parameter
func (x *DelegateIndex) ParamSources(p model.LocalVariableEntry) []model.LocalVariableEntry {
	return x.paramBack.get(p)
}

// Roots returns delegates that do not delegate themselves, sorted
func (x *DelegateIndex) Roots() []model.MethodEntry {
	var out []model.MethodEntry
	for d := range x.delegaters {
		if _, ok := x.forwardsTo(d); !ok {
			out = append(out, d)
		}
	}
	sortByString(out)
	return out
}

// Delegates returns every method with at least one delegater, sorted
func (x *DelegateIndex) Delegates() []model.MethodEntry {
	out := make([]model.MethodEntry, 0, len(x.delegaters))
	for d := range x.delegaters {
		out = append(out, d)
	}
	sortByString(out)
	return out
}
