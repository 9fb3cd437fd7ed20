package classdump

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	bc "name-recon/internal/bytecode"
)

// document is the on-disk layout of a class dump file
type document struct {
	Classes []classDoc `yaml:"classes"`
}

type classDoc struct {
	Name       string      `yaml:"name"`
	Access     accessFlags `yaml:"access"`
	Super      string      `yaml:"super"`
	Interfaces []string    `yaml:"interfaces"`
	Fields     []fieldDoc  `yaml:"fields"`
	Methods    []methodDoc `yaml:"methods"`
}

type fieldDoc struct {
	Name   string      `yaml:"name"`
	Desc   string      `yaml:"desc"`
	Access accessFlags `yaml:"access"`
}

type methodDoc struct {
	Name     string        `yaml:"name"`
	Desc     string        `yaml:"desc"`
	Access   accessFlags   `yaml:"access"`
	Code     []yaml.Node   `yaml:"code"`
	TryCatch []tryCatchDoc `yaml:"try_catch"`
}

type tryCatchDoc struct {
	Start   string `yaml:"start"`
	End     string `yaml:"end"`
	Handler string `yaml:"handler"`
	Type    string `yaml:"type"`
}

// indyDoc is the mapping form of an INVOKEDYNAMIC line
type indyDoc struct {
	Name string      `yaml:"name"`
	Desc string      `yaml:"desc"`
	Bsm  string      `yaml:"bsm"`
	Args []yaml.Node `yaml:"args"`
}

// constDoc is one bootstrap argument; exactly one field is set
type constDoc struct {
	String *string `yaml:"string"`
	Int    *int    `yaml:"int"`
	Type   *string `yaml:"type"`
	Handle *string `yaml:"handle"`
}

var accessNames = map[string]int{
	"public":       bc.AccPublic,
	"private":      bc.AccPrivate,
	"protected":    bc.AccProtected,
	"static":       bc.AccStatic,
	"final":        bc.AccFinal,
	"super":        bc.AccSuper,
	"synchronized": bc.AccSuper,
	"volatile":     bc.AccVolatile,
	"bridge":       bc.AccBridge,
	"varargs":      bc.AccVarargs,
	"transient":    bc.AccTransient,
	"native":       bc.AccNative,
	"interface":    bc.AccInterface,
	"abstract":     bc.AccAbstract,
	"strict":       bc.AccStrict,
	"synthetic":    bc.AccSynthetic,
	"annotation":   bc.AccAnnotation,
	"enum":         bc.AccEnum,
	"record":       bc.AccRecord,
}

// accessFlags decodes either a raw integer or a list of modifier keywords
type accessFlags int

func (a *accessFlags) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		var n int
		if err := value.Decode(&n); err != nil {
			return fmt.Errorf("line %d: access must be an integer or a list: %w", value.Line, err)
		}
		*a = accessFlags(n)
		return nil
	}

	var names []string
	if err := value.Decode(&names); err != nil {
		return fmt.Errorf("line %d: %w", value.Line, err)
	}
	flags := 0
	for _, name := range names {
		bit, ok := accessNames[strings.ToLower(name)]
		if !ok {
			return fmt.Errorf("line %d: unknown access flag %q", value.Line, name)
		}
		flags |= bit
	}
	*a = accessFlags(flags)
	return nil
}

var handleTags = map[string]int{
	"getfield":         bc.H_GETFIELD,
	"getstatic":        bc.H_GETSTATIC,
	"putfield":         bc.H_PUTFIELD,
	"putstatic":        bc.H_PUTSTATIC,
	"invokevirtual":    bc.H_INVOKEVIRTUAL,
	"invokestatic":     bc.H_INVOKESTATIC,
	"invokespecial":    bc.H_INVOKESPECIAL,
	"newinvokespecial": bc.H_NEWINVOKESPECIAL,
	"invokeinterface":  bc.H_INVOKEINTERFACE,
}

// parseHandle reads "<kind> owner.name desc", e.g. "invokevirtual a/T.c ()I"
func parseHandle(s string) (bc.Handle, error) {
	parts := strings.Fields(s)
	if len(parts) != 3 {
		return bc.Handle{}, fmt.Errorf("handle %q: want \"<kind> owner.name desc\"", s)
	}
	tag, ok := handleTags[strings.ToLower(parts[0])]
	if !ok {
		return bc.Handle{}, fmt.Errorf("handle %q: unknown kind %q", s, parts[0])
	}
	owner, name, err := splitMember(parts[1])
	if err != nil {
		return bc.Handle{}, err
	}
	return bc.Handle{Tag: tag, Owner: owner, Name: name, Desc: parts[2], Itf: tag == bc.H_INVOKEINTERFACE}, nil
}

// splitMember splits "owner.name" at the last dot
func splitMember(s string) (string, string, error) {
	i := strings.LastIndex(s, ".")
	if i <= 0 || i == len(s)-1 {
		return "", "", fmt.Errorf("member %q: want owner.name", s)
	}
	return s[:i], s[i+1:], nil
}

func (c constDoc) value() (any, error) {
	switch {
	case c.String != nil:
		return *c.String, nil
	case c.Int != nil:
		return int32(*c.Int), nil
	case c.Type != nil:
		return bc.Type{Desc: *c.Type}, nil
	case c.Handle != nil:
		return parseHandle(*c.Handle)
	}
	return nil, fmt.Errorf("bootstrap argument needs one of string, int, type or handle")
}

// bootstrap resolves the bsm of an indy line: a well-known name or a handle
func bootstrap(s string) (bc.Handle, error) {
	switch strings.ToLower(s) {
	case "metafactory", "lambda":
		return bc.MetafactoryHandle, nil
	case "altmetafactory":
		h := bc.MetafactoryHandle
		h.Name = "altMetafactory"
		return h, nil
	case "objectmethods", "record":
		return bc.ObjectMethodsHandle, nil
	}
	return parseHandle(s)
}
