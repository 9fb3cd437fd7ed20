package model

import (
	"fmt"
	"strings"
)

// EntryKind identifies the kind of program element an Entry refers to
type EntryKind int

const (
	KindClass EntryKind = iota
	KindField
	KindMethod
	KindLocalVariable
)

// String returns the string representation of the entry kind
func (k EntryKind) String() string {
	switch k {
	case KindClass:
		return "class"
	case KindField:
		return "field"
	case KindMethod:
		return "method"
	case KindLocalVariable:
		return "local"
	default:
		return "unknown"
	}
}

// Entry is the obfuscation-stable identity of a class, field, method or local variable.
// Entries are comparable values and are used directly as map keys.
type Entry interface {
	Kind() EntryKind
	// Parent returns the enclosing entry, or nil for classes
	Parent() Entry
	String() string
}

// ClassEntry identifies a class by its internal name (e.g., "a/b/C")
type ClassEntry struct {
	Name string
}

// FieldEntry identifies a field by owner, name and descriptor
type FieldEntry struct {
	Owner string
	Name  string
	Desc  string
}

// MethodEntry identifies a method by owner, name and descriptor
type MethodEntry struct {
	Owner string
	Name  string
	Desc  string
}

// LocalVariableEntry identifies a local variable slot of a method
type LocalVariableEntry struct {
	Method MethodEntry
	Index  int
}

func (ClassEntry) Kind() EntryKind         { return KindClass }
func (FieldEntry) Kind() EntryKind         { return KindField }
func (MethodEntry) Kind() EntryKind        { return KindMethod }
func (LocalVariableEntry) Kind() EntryKind { return KindLocalVariable }

func (ClassEntry) Parent() Entry           { return nil }
func (e FieldEntry) Parent() Entry         { return ClassEntry{Name: e.Owner} }
func (e MethodEntry) Parent() Entry        { return ClassEntry{Name: e.Owner} }
func (e LocalVariableEntry) Parent() Entry { return e.Method }

func (e ClassEntry) String() string { return e.Name }

func (e FieldEntry) String() string { return e.Owner + "." + e.Name + ":" + e.Desc }

func (e MethodEntry) String() string { return e.Owner + "." + e.Name + e.Desc }

func (e LocalVariableEntry) String() string {
	return fmt.Sprintf("%s#%d", e.Method.String(), e.Index)
}

// IsConstructor reports whether the method is an instance initializer
func (e MethodEntry) IsConstructor() bool {
	return e.Name == "<init>"
}

// Local returns the local variable entry for the given slot of this method
func (e MethodEntry) Local(index int) LocalVariableEntry {
	return LocalVariableEntry{Method: e, Index: index}
}

// FormatEntry renders an entry in the form accepted by ParseEntry
func FormatEntry(e Entry) string {
	return e.Kind().String() + " " + e.String()
}

// ParseEntry parses the textual form produced by String, prefixed with the kind:
//
//	class a/B
//	field a/B.c:I
//	method a/B.d(I)V
//	local a/B.d(I)V#1
func ParseEntry(s string) (Entry, error) {
	kind, rest, ok := strings.Cut(strings.TrimSpace(s), " ")
	if !ok {
		return nil, fmt.Errorf("malformed entry %q: missing kind", s)
	}
	rest = strings.TrimSpace(rest)

	switch kind {
	case "class":
		if rest == "" {
			return nil, fmt.Errorf("malformed class entry %q", s)
		}
		return ClassEntry{Name: rest}, nil
	case "field":
		owner, member, ok := cutMember(rest)
		if !ok {
			return nil, fmt.Errorf("malformed field entry %q", s)
		}
		name, desc, ok := strings.Cut(member, ":")
		if !ok || name == "" || desc == "" {
			return nil, fmt.Errorf("malformed field entry %q", s)
		}
		return FieldEntry{Owner: owner, Name: name, Desc: desc}, nil
	case "method":
		m, err := parseMethod(rest)
		if err != nil {
			return nil, fmt.Errorf("malformed method entry %q: %w", s, err)
		}
		return m, nil
	case "local":
		idx := strings.LastIndex(rest, "#")
		if idx == -1 {
			return nil, fmt.Errorf("malformed local entry %q: missing slot", s)
		}
		var slot int
		if _, err := fmt.Sscanf(rest[idx+1:], "%d", &slot); err != nil || slot < 0 {
			return nil, fmt.Errorf("malformed local entry %q: bad slot", s)
		}
		m, err := parseMethod(rest[:idx])
		if err != nil {
			return nil, fmt.Errorf("malformed local entry %q: %w", s, err)
		}
		return LocalVariableEntry{Method: m, Index: slot}, nil
	default:
		return nil, fmt.Errorf("unknown entry kind %q", kind)
	}
}

func parseMethod(s string) (MethodEntry, error) {
	owner, member, ok := cutMember(s)
	if !ok {
		return MethodEntry{}, fmt.Errorf("missing owner")
	}
	paren := strings.Index(member, "(")
	if paren <= 0 {
		return MethodEntry{}, fmt.Errorf("missing descriptor")
	}
	return MethodEntry{Owner: owner, Name: member[:paren], Desc: member[paren:]}, nil
}

// cutMember splits "owner.member", where the owner never contains '.' (internal names use '/')
func cutMember(s string) (string, string, bool) {
	limit := len(s)
	if paren := strings.Index(s, "("); paren != -1 {
		limit = paren
	}
	dot := strings.LastIndex(s[:limit], ".")
	if dot <= 0 || dot == len(s)-1 {
		return "", "", false
	}
	return s[:dot], s[dot+1:], true
}
