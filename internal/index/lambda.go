package index

import (
	"sync"

	"name-recon/internal/bytecode"
	"name-recon/internal/model"
)

// objectMethods are the java/lang/Object methods an interface may redeclare
var objectMethods = map[string]bool{
	"equals(Ljava/lang/Object;)Z":  true,
	"hashCode()I":                  true,
	"toString()Ljava/lang/String;": true,
}

// LambdaIndex links synthetic lambda body parameters to the enclosing method
// parameters they capture and to the functional interface method parameters.
type LambdaIndex struct {
	mu sync.Mutex

	links links[model.LocalVariableEntry, model.LocalVariableEntry]
}

// NewLambdaIndex creates an empty lambda-parameter index
func NewLambdaIndex() *LambdaIndex {
	return &LambdaIndex{links: make(links[model.LocalVariableEntry, model.LocalVariableEntry])}
}

func (x *LambdaIndex) Name() string { return NameLambda }

func (x *LambdaIndex) Visit(ctx *VisitContext, c *bytecode.ClassNode) error {
	type pair struct{ a, b model.LocalVariableEntry }
	var found []pair

	for _, m := range c.Methods {
		if m.IsAbstract() {
			continue
		}
		var frames []*originFrame
		me := m.Entry(c.Name)

		for idx := range m.Insns {
			in := &m.Insns[idx]
			impl, ok := in.LambdaImpl()
			if !ok || impl.IsField() || impl.Tag == bytecode.H_NEWINVOKESPECIAL {
				continue
			}
			implEntry := model.MethodEntry{Owner: impl.Owner, Name: impl.Name, Desc: impl.Desc}
			implNode := ctx.Entries.Method(implEntry)
			if implNode == nil || !implNode.IsSynthetic() {
				continue
			}
			indyType, err := in.MethodType()
			if err != nil {
				return err
			}
			implParams := ctx.Entries.Parameters(implEntry)

			captured := len(indyType.Args)
			offset := 0
			if !implNode.IsStatic() {
				offset = 1 // first captured value is the receiver
			}
			capturedParams := captured - offset
			if capturedParams < 0 || capturedParams > len(implParams) {
				continue
			}

			// Captured enclosing parameters
			if capturedParams > 0 {
				if frames == nil {
					frames, err = ctx.Cache.Origins(c.Name, m)
					if err != nil {
						return err
					}
				}
				if frame := frames[idx]; frame != nil {
					args, ok := frame.Arguments(captured)
					if ok {
						mt, err := m.Type()
						if err != nil {
							return err
						}
						enclosing := ctx.Entries.Parameters(me)
						for k := offset; k < captured; k++ {
							slot, ok := args[k].Slot()
							if !ok {
								continue
							}
							if i := mt.ArgumentIndex(m.IsStatic(), slot); i >= 0 {
								found = append(found, pair{enclosing[i], implParams[k-offset]})
							}
						}
					}
				}
			}

			// Functional interface parameters
			sam, ok := in.LambdaSAM()
			if !ok {
				continue
			}
			ifMethod, ok := findInterfaceMethod(ctx, indyType.Return.InternalName(), in.Name, sam.Desc)
			if !ok {
				continue
			}
			ifParams := ctx.Entries.Parameters(ifMethod)
			body := implParams[capturedParams:]
			if len(body) != len(ifParams) {
				continue
			}
			for i := range body {
				found = append(found, pair{body[i], ifParams[i]})
			}
		}
	}
	if len(found) == 0 {
		return nil
	}

	x.mu.Lock()
	defer x.mu.Unlock()
	for _, p := range found {
		x.links.add(p.a, p.b)
		x.links.add(p.b, p.a)
	}
	return nil
}

// findInterfaceMethod looks up the abstract method of a functional interface in the class set
func findInterfaceMethod(ctx *VisitContext, iface, name, desc string) (model.MethodEntry, bool) {
	if objectMethods[name+desc] {
		return model.MethodEntry{}, false
	}
	candidates := append([]string{iface}, ctx.Entries.Ancestors(iface)...)
	for _, owner := range candidates {
		c := ctx.Classes.Class(owner)
		if c == nil || !c.IsInterface() {
			continue
		}
		if m := c.Method(name, desc); m != nil && m.IsAbstract() && !m.IsStatic() {
			return m.Entry(owner), true
		}
	}
	return model.MethodEntry{}, false
}

func (x *LambdaIndex) Finish() error {
	x.links.sort()
	return nil
}

// Linked returns the parameters directly linked to p
func (x *LambdaIndex) Linked(p model.LocalVariableEntry) []model.LocalVariableEntry {
	return x.links.get(p)
}

// Params returns every linked parameter, sorted
func (x *LambdaIndex) Params() []model.LocalVariableEntry {
	out := make([]model.LocalVariableEntry, 0, len(x.links))
	for p := range x.links {
		out = append(out, p)
	}
	sortByString(out)
	return out
}
