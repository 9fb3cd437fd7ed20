package registry

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"name-recon/internal/naming"
)

// Name is a pair of local (camelCase) and static (UPPER_SNAKE) names
type Name struct {
	Local  string
	Static string
}

// Rule is the naming rule of one declared type
type Rule struct {
	Type      string
	Name      Name
	Exclusive bool
	Inherit   bool
	Fallback  []Name
	Path      string
	Line      int
}

// Match describes how a type resolved to a rule
type Match int

const (
	NoMatch Match = iota
	Direct
	Inherited
)

func (m Match) String() string {
	switch m {
	case Direct:
		return "direct"
	case Inherited:
		return "inherited"
	default:
		return "none"
	}
}

// Registry is an ordered, read-only table of type -> naming rule
type Registry struct {
	rules map[string]*Rule
	order []string
}

// New creates an empty registry
func New() *Registry {
	return &Registry{rules: make(map[string]*Rule)}
}

// Load reads registry files in order into one registry.
// Any invalid entry aborts loading and nothing is returned.
func Load(paths ...string) (*Registry, error) {
	r := New()
	for _, path := range paths {
		if err := r.LoadFile(path); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// LoadFile adds the rules of one YAML or JSON file
func (r *Registry) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read registry %s: %w", path, err)
	}
	return r.Parse(path, data)
}

// Parse adds the rules of a YAML or JSON document. path is used for error context only.
// The registry is left unchanged when an error is returned.
func (r *Registry) Parse(path string, data []byte) error {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return &LoadError{Path: path, Msg: err.Error()}
	}
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return nil // empty file
	}

	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return &LoadError{Path: path, Line: root.Line, Msg: "top level must be a mapping of type -> rule"}
	}

	var parsed []*Rule
	seen := make(map[string]bool)
	for i := 0; i+1 < len(root.Content); i += 2 {
		keyNode, valueNode := root.Content[i], root.Content[i+1]
		typ := normalizeType(keyNode.Value)
		if typ == "" {
			return &LoadError{Path: path, Line: keyNode.Line, Msg: "empty type key"}
		}
		if seen[typ] {
			return &LoadError{Path: path, Line: keyNode.Line, Key: typ, Msg: "duplicate key"}
		}
		if prev, ok := r.rules[typ]; ok {
			return &LoadError{Path: path, Line: keyNode.Line, Key: typ,
				Msg: fmt.Sprintf("duplicate key, already defined in %s:%d", prev.Path, prev.Line)}
		}
		seen[typ] = true

		rule, err := parseRule(path, typ, valueNode)
		if err != nil {
			return err
		}
		rule.Line = keyNode.Line
		parsed = append(parsed, rule)
	}

	for _, rule := range parsed {
		r.rules[rule.Type] = rule
		r.order = append(r.order, rule.Type)
	}
	return nil
}

func parseRule(path, typ string, node *yaml.Node) (*Rule, error) {
	fail := func(n *yaml.Node, format string, args ...any) error {
		return &LoadError{Path: path, Line: n.Line, Key: typ, Msg: fmt.Sprintf(format, args...)}
	}

	if node.Kind != yaml.MappingNode {
		return nil, fail(node, "rule must be a mapping")
	}

	rule := &Rule{Type: typ, Path: path}
	for i := 0; i+1 < len(node.Content); i += 2 {
		k, v := node.Content[i], node.Content[i+1]
		switch k.Value {
		case "local_name":
			rule.Name.Local = v.Value
		case "static_name":
			rule.Name.Static = v.Value
		case "exclusive":
			if err := v.Decode(&rule.Exclusive); err != nil {
				return nil, fail(v, "exclusive: %v", err)
			}
		case "inherit":
			if err := v.Decode(&rule.Inherit); err != nil {
				return nil, fail(v, "inherit: %v", err)
			}
		case "fallback":
			if v.Kind != yaml.SequenceNode {
				return nil, fail(v, "fallback must be a list")
			}
			for _, item := range v.Content {
				name, err := parseFallback(item)
				if err != nil {
					return nil, fail(item, "fallback: %v", err)
				}
				rule.Fallback = append(rule.Fallback, name)
			}
		default:
			return nil, fail(k, "unknown field %q", k.Value)
		}
	}

	if rule.Name.Local == "" {
		return nil, fail(node, "missing local_name")
	}
	if rule.Name.Static == "" {
		return nil, fail(node, "missing static_name")
	}
	if err := validateName(rule.Name); err != nil {
		return nil, fail(node, "%v", err)
	}
	for _, fb := range rule.Fallback {
		if err := validateName(fb); err != nil {
			return nil, fail(node, "fallback: %v", err)
		}
	}
	return rule, nil
}

// parseFallback accepts either a bare local name or a {local_name, static_name} mapping
func parseFallback(node *yaml.Node) (Name, error) {
	switch node.Kind {
	case yaml.ScalarNode:
		return Name{Local: node.Value, Static: naming.UpperSnakeCase(node.Value)}, nil
	case yaml.MappingNode:
		var raw struct {
			Local  string `yaml:"local_name"`
			Static string `yaml:"static_name"`
		}
		if err := node.Decode(&raw); err != nil {
			return Name{}, err
		}
		if raw.Local == "" {
			return Name{}, fmt.Errorf("missing local_name")
		}
		if raw.Static == "" {
			raw.Static = naming.UpperSnakeCase(raw.Local)
		}
		return Name{Local: raw.Local, Static: raw.Static}, nil
	default:
		return Name{}, fmt.Errorf("expected a name or a mapping")
	}
}

func validateName(n Name) error {
	if !naming.IsValidIdentifier(n.Local) {
		return fmt.Errorf("invalid identifier %q", n.Local)
	}
	if !naming.IsValidIdentifier(n.Static) {
		return fmt.Errorf("invalid identifier %q", n.Static)
	}
	return nil
}

// normalizeType accepts binary (java.lang.String) and internal (java/lang/String) names
func normalizeType(key string) string {
	return strings.ReplaceAll(strings.TrimSpace(key), ".", "/")
}

// Len returns the number of rules
func (r *Registry) Len() int {
	return len(r.order)
}

// Types returns the rule keys in load order
func (r *Registry) Types() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Resolve finds the rule for a type: its own rule first, then the first
// ancestor (in the given order) whose rule is inheritable.
func (r *Registry) Resolve(typ string, ancestors []string) (*Rule, Match) {
	if rule, ok := r.rules[typ]; ok {
		return rule, Direct
	}
	for _, a := range ancestors {
		if rule, ok := r.rules[a]; ok && rule.Inherit {
			return rule, Inherited
		}
	}
	return nil, NoMatch
}
