package proposal

import (
	"fmt"

	"name-recon/internal/index"
	"name-recon/internal/model"
)

// Proposer IDs in priority order. Conflict-fix always runs last.
const (
	IDRecord        = "record"
	IDCodec         = "codec"
	IDConstant      = "constant_field"
	IDLogger        = "logger_field"
	IDEquals        = "equals"
	IDGetterSetter  = "getter_setter"
	IDConstructor   = "constructor_params"
	IDDelegate      = "delegate"
	IDLambda        = "lambda"
	IDSimpleType    = "simple_type"
	IDSimpleSubtype = "simple_subtype"
	IDConflictFix   = "conflict_fix"
)

// Order lists every proposer ID in priority order
var Order = []string{
	IDRecord,
	IDCodec,
	IDConstant,
	IDLogger,
	IDEquals,
	IDGetterSetter,
	IDConstructor,
	IDDelegate,
	IDLambda,
	IDSimpleType,
	IDSimpleSubtype,
	IDConflictFix,
}

// Proposal suggests a name for an entry. An empty name withdraws the proposer's
// earlier dynamic proposal for the entry.
type Proposal struct {
	Entry model.Entry
	Name  string
}

// Proposer turns index facts into names
type Proposer interface {
	ID() string
	ProposeStatic(ctx *StaticContext) ([]Proposal, error)
	ProposeDynamic(ctx *DynamicContext) ([]Proposal, error)
}

// StaticContext gives proposers the indices and the mapping view of the running pass
type StaticContext struct {
	Indices *index.Indices
	Session *Session

	view     *model.Mappings
	priority map[string]int
}

// Name returns the current name of an entry, or "" when it has none
func (c *StaticContext) Name(e model.Entry) string {
	return c.view.Name(e)
}

// Mapping returns the current mapping of an entry
func (c *StaticContext) Mapping(e model.Entry) (model.EntryMapping, bool) {
	return c.view.Get(e)
}

// Mapped returns every mapped entry, sorted
func (c *StaticContext) Mapped() []model.Entry {
	return c.view.Entries()
}

// Priority returns the rank of a proposer ID; user-set names rank first
func (c *StaticContext) Priority(id string) int {
	if p, ok := c.priority[id]; ok {
		return p
	}
	return -1
}

// Event is one rename. Replay events have no entry.
type Event struct {
	Entry   model.Entry
	OldName string
	NewName string
	Replay  bool
}

// DynamicContext adds the rename event and the entries changed so far in the pass
type DynamicContext struct {
	StaticContext
	Event Event

	changed *[]model.Entry
}

// Changed returns the entries changed so far in the pass, in order
func (c *DynamicContext) Changed() []model.Entry {
	return *c.changed
}

// Triggers returns the entries a proposer reacts to: the changed entries, or
// every mapped entry when replaying.
func (c *DynamicContext) Triggers() []model.Entry {
	if c.Event.Replay {
		return c.Mapped()
	}
	return c.Changed()
}

// ProposerError reports a failing proposer. The pass it ran in is discarded.
type ProposerError struct {
	Proposer string
	Phase    string
	Err      error
}

func (e *ProposerError) Error() string {
	return fmt.Sprintf("%s proposer failed in %s pass: %v", e.Proposer, e.Phase, e.Err)
}

func (e *ProposerError) Unwrap() error {
	return e.Err
}
