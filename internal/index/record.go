package index

import (
	"slices"
	"strings"
	"sync"

	"name-recon/internal/bytecode"
	"name-recon/internal/model"
)

// RecordComponent is one component of a record class
type RecordComponent struct {
	Name      string
	Field     model.FieldEntry
	Accessors []model.MethodEntry
	Params    []model.LocalVariableEntry
}

// RecordIndex recovers component names from the ObjectMethods bootstrap of record classes
type RecordIndex struct {
	mu sync.Mutex

	components map[string][]RecordComponent
	byEntry    map[model.Entry]RecordComponent
}

// NewRecordIndex creates an empty record index
func NewRecordIndex() *RecordIndex {
	return &RecordIndex{
		components: make(map[string][]RecordComponent),
		byEntry:    make(map[model.Entry]RecordComponent),
	}
}

func (x *RecordIndex) Name() string { return NameRecord }

func (x *RecordIndex) Visit(_ *VisitContext, c *bytecode.ClassNode) error {
	if !c.IsRecord() {
		return nil
	}
	comps := recordComponents(c)
	if len(comps) == 0 {
		return nil
	}

	// Accessors: trivial getters of a component field
	fieldIdx := make(map[model.FieldEntry]int, len(comps))
	for i, comp := range comps {
		fieldIdx[comp.Field] = i
	}
	for _, m := range c.Methods {
		if f, ok := isGetter(c, m); ok {
			if i, ok := fieldIdx[f]; ok {
				comps[i].Accessors = append(comps[i].Accessors, m.Entry(c.Name))
			}
		}
	}

	// Canonical constructor: parameter types are the component types in order
	var b strings.Builder
	b.WriteByte('(')
	for _, comp := range comps {
		b.WriteString(comp.Field.Desc)
	}
	b.WriteString(")V")
	if ctor := c.Method("<init>", b.String()); ctor != nil {
		params, err := bytecode.ParameterEntries(ctor.Entry(c.Name), false)
		if err != nil {
			return err
		}
		for i := range comps {
			comps[i].Params = []model.LocalVariableEntry{params[i]}
		}
	}

	x.mu.Lock()
	defer x.mu.Unlock()
	x.components[c.Name] = comps
	for _, comp := range comps {
		x.byEntry[comp.Field] = comp
		for _, a := range comp.Accessors {
			x.byEntry[a] = comp
		}
		for _, p := range comp.Params {
			x.byEntry[p] = comp
		}
	}
	return nil
}

// recordComponents reads the first ObjectMethods.bootstrap call site of the class.
// Its arguments are the record class, the ';'-joined names and one getter handle per component.
func recordComponents(c *bytecode.ClassNode) []RecordComponent {
	for _, m := range c.Methods {
		for i := range m.Insns {
			in := &m.Insns[i]
			if in.Op != bytecode.INVOKEDYNAMIC || in.Bsm == nil ||
				in.Bsm.Owner != bytecode.ObjectMethodsBootstrap || in.Bsm.Name != "bootstrap" {
				continue
			}
			if len(in.BsmArgs) < 2 {
				continue
			}
			joined, ok := in.BsmArgs[1].(string)
			if !ok {
				continue
			}
			var names []string
			if joined != "" {
				names = strings.Split(joined, ";")
			}
			handles := in.BsmArgs[2:]
			if len(names) != len(handles) {
				continue
			}

			comps := make([]RecordComponent, 0, len(names))
			for k, name := range names {
				h, ok := handles[k].(bytecode.Handle)
				if !ok || h.Tag != bytecode.H_GETFIELD || h.Owner != c.Name {
					return nil
				}
				comps = append(comps, RecordComponent{
					Name:  name,
					Field: model.FieldEntry{Owner: c.Name, Name: h.Name, Desc: h.Desc},
				})
			}
			return comps
		}
	}
	return nil
}

func (x *RecordIndex) Finish() error { return nil }

// Components returns the components of a record class in declaration order
func (x *RecordIndex) Components(class string) []RecordComponent {
	return x.components[class]
}

// Component returns the component a field, accessor or canonical constructor parameter belongs to
func (x *RecordIndex) Component(e model.Entry) (RecordComponent, bool) {
	comp, ok := x.byEntry[e]
	return comp, ok
}

// Classes returns every indexed record class, sorted
func (x *RecordIndex) Classes() []string {
	out := make([]string, 0, len(x.components))
	for c := range x.components {
		out = append(out, c)
	}
	slices.Sort(out)
	return out
}
