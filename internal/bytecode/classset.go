package bytecode

import (
	"fmt"
)

// ClassProvider resolves classes by internal name
type ClassProvider interface {
	Class(name string) *ClassNode
}

// ClassSet is an ordered, name-indexed set of decoded classes
type ClassSet struct {
	classes []*ClassNode
	byName  map[string]*ClassNode
}

// NewClassSet builds a class set; duplicate class names are rejected
func NewClassSet(classes ...*ClassNode) (*ClassSet, error) {
	cs := &ClassSet{byName: make(map[string]*ClassNode, len(classes))}
	for _, c := range classes {
		if err := cs.Add(c); err != nil {
			return nil, err
		}
	}
	return cs, nil
}

// Add appends a class to the set
func (cs *ClassSet) Add(c *ClassNode) error {
	if c == nil || c.Name == "" {
		return fmt.Errorf("class without a name")
	}
	if _, dup := cs.byName[c.Name]; dup {
		return fmt.Errorf("duplicate class %s", c.Name)
	}
	cs.classes = append(cs.classes, c)
	cs.byName[c.Name] = c
	return nil
}

// Classes returns the classes in insertion order
func (cs *ClassSet) Classes() []*ClassNode {
	return cs.classes
}

// Len returns the number of classes
func (cs *ClassSet) Len() int {
	return len(cs.classes)
}

// Class returns the class with the given internal name, or nil
func (cs *ClassSet) Class(name string) *ClassNode {
	return cs.byName[name]
}

// Ancestors returns every known and unknown supertype name of a class, breadth-first:
// direct superclass, then direct interfaces, then their supertypes. Each name appears once.
func Ancestors(p ClassProvider, name string) []string {
	var out []string
	visited := map[string]bool{name: true}
	queue := []string{name}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		c := p.Class(cur)
		if c == nil {
			continue
		}
		parents := make([]string, 0, len(c.Interfaces)+1)
		if c.Super != "" {
			parents = append(parents, c.Super)
		}
		parents = append(parents, c.Interfaces...)

		for _, parent := range parents {
			if visited[parent] {
				continue
			}
			visited[parent] = true
			out = append(out, parent)
			queue = append(queue, parent)
		}
	}
	return out
}

// IsSubtype reports whether class name extends or implements ancestor
func IsSubtype(p ClassProvider, name, ancestor string) bool {
	if name == ancestor {
		return true
	}
	for _, a := range Ancestors(p, name) {
		if a == ancestor {
			return true
		}
	}
	return false
}
