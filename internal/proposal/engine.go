package proposal

import (
	"errors"
	"fmt"
	"sync"

	"name-recon/internal/index"
	"name-recon/internal/logger"
	"name-recon/internal/model"
	"name-recon/internal/naming"
	"name-recon/internal/registry"
)

// Toggles enables proposers by ID. Missing IDs are enabled; conflict-fix cannot be disabled.
type Toggles map[string]bool

// Enabled reports whether the proposer runs
func (t Toggles) Enabled(id string) bool {
	if id == IDConflictFix {
		return true
	}
	on, ok := t[id]
	return !ok || on
}

// ErrInvalidName rejects a user name that is not a Java identifier
var ErrInvalidName = errors.New("not a valid identifier")

// maxSweeps bounds the hook sweeps of one dynamic pass
const maxSweeps = 4

// Engine runs the static round and propagates rename events. One event is
// processed at a time; a failing pass leaves the committed mappings untouched.
type Engine struct {
	mu sync.Mutex

	indices   *index.Indices
	session   *Session
	proposers []Proposer
	priority  map[string]int
	committed *model.Mappings
}

// NewEngine builds the enabled proposers in priority order. Registry rules
// resolve through the indices' resolver.
func NewEngine(ix *index.Indices, toggles Toggles) *Engine {
	e := &Engine{
		indices:   ix,
		session:   NewSession(ix.Types, ix.Entries),
		priority:  make(map[string]int),
		committed: model.NewMappings(),
	}

	all := map[string]Proposer{
		IDRecord:        recordProposer{},
		IDCodec:         codecProposer{},
		IDConstant:      constantProposer{},
		IDLogger:        loggerProposer{},
		IDEquals:        equalsProposer{},
		IDGetterSetter:  getterSetterProposer{},
		IDConstructor:   constructorProposer{},
		IDDelegate:      delegateProposer{},
		IDLambda:        lambdaProposer{},
		IDSimpleType:    simpleTypeProposer{match: registry.Direct, id: IDSimpleType},
		IDSimpleSubtype: simpleTypeProposer{match: registry.Inherited, id: IDSimpleSubtype},
		IDConflictFix:   conflictFixProposer{},
	}
	for i, id := range Order {
		e.priority[id] = i
		if toggles.Enabled(id) {
			e.proposers = append(e.proposers, all[id])
		}
	}
	return e
}

// Proposers returns the IDs of the enabled proposers in run order
func (e *Engine) Proposers() []string {
	out := make([]string, len(e.proposers))
	for i, p := range e.proposers {
		out[i] = p.ID()
	}
	return out
}

// Mappings returns a copy of the committed mappings
func (e *Engine) Mappings() *model.Mappings {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.committed.Clone()
}

// Load replaces the committed mappings, e.g. with a saved mapping file
func (e *Engine) Load(prev *model.Mappings) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.committed = prev.Clone()
}

// RunStatic recomputes every jar-proposed name from the committed mappings.
// Running it twice on the same input gives the same result.
func (e *Engine) RunStatic() (*model.Mappings, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	base := e.committed.Clone()
	for _, entry := range base.Entries() {
		if base.Source(entry) == model.SourceJarProposed {
			base.Remove(entry)
		}
	}

	p := e.newPass(base, model.SourceJarProposed)
	ctx := &StaticContext{Indices: e.indices, Session: e.session, view: p.cur, priority: e.priority}
	for _, prop := range e.proposers {
		proposals, err := prop.ProposeStatic(ctx)
		if err != nil {
			logger.LogDiscardedPass(prop.ID(), "static", "static round", err)
			return e.committed.Clone(), &ProposerError{Proposer: prop.ID(), Phase: "static", Err: err}
		}
		p.apply(prop.ID(), proposals)
	}

	e.committed = p.cur
	logger.Debug("Static round: %d mappings, %d changed", p.cur.Len(), len(p.changed))
	return e.committed.Clone(), nil
}

// OnRename records a rename (an empty newName clears the entry) and propagates
// it through every proposer. A nil entry replays all relations against the current map.
func (e *Engine) OnRename(entry model.Entry, oldName, newName string) (*model.Mappings, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if entry != nil && newName != "" && !naming.IsValidIdentifier(newName) {
		return e.committed.Clone(), fmt.Errorf("rename %s to %q: %w", model.FormatEntry(entry), newName, ErrInvalidName)
	}

	p := e.newPass(e.committed.Clone(), model.SourceDynamicProposed)
	event := Event{Entry: entry, OldName: oldName, NewName: newName, Replay: entry == nil}
	p.fillOnly = event.Replay
	if entry != nil {
		if newName == "" {
			p.cur.Remove(entry)
		} else {
			p.cur.Put(entry, model.EntryMapping{Name: newName, Source: model.SourceUserSet})
		}
		p.changed = append(p.changed, entry)
	}

	ctx := &DynamicContext{
		StaticContext: StaticContext{Indices: e.indices, Session: e.session, view: p.cur, priority: e.priority},
		Event:         event,
		changed:       &p.changed,
	}
	// A sweep runs every hook in priority order. Names derived late in a sweep
	// (a field named from a constructor parameter) reach earlier proposers in
	// the next one; sweeps stop once a sweep changes nothing.
	for sweep := 0; sweep < maxSweeps; sweep++ {
		before := len(p.changed)
		for _, prop := range e.proposers {
			proposals, err := prop.ProposeDynamic(ctx)
			if err != nil {
				logger.LogDiscardedPass(prop.ID(), "dynamic", trigger(entry), err)
				return e.committed.Clone(), &ProposerError{Proposer: prop.ID(), Phase: "dynamic", Err: err}
			}
			p.apply(prop.ID(), proposals)
		}
		if len(p.changed) == before {
			break
		}
	}

	e.committed = p.cur
	if entry != nil {
		logger.LogRename(model.FormatEntry(entry), oldName, newName, len(p.changed))
	}
	return e.committed.Clone(), nil
}

func trigger(entry model.Entry) string {
	if entry == nil {
		return "replay"
	}
	return model.FormatEntry(entry)
}

// Replay re-applies every relation against the committed mappings
func (e *Engine) Replay() (*model.Mappings, error) {
	return e.OnRename(nil, "", "")
}

// pass is the working overlay of one static round or rename event
type pass struct {
	cur     *model.Mappings
	tag     model.Source
	entries *index.EntryIndex
	written map[model.Entry]bool
	changed []model.Entry
	// fixed holds entries conflict-fix moved or cleared; later sweeps leave them alone
	fixed map[model.Entry]bool
	// fillOnly passes (replay) only name entries that had no mapping
	fillOnly bool
}

func (e *Engine) newPass(base *model.Mappings, tag model.Source) *pass {
	return &pass{cur: base, tag: tag, entries: e.indices.Entries, written: make(map[model.Entry]bool), fixed: make(map[model.Entry]bool)}
}

// apply merges proposals under the precedence rules: higher tags are never
// overwritten, the first writer of the pass wins among equal tags, and
// proposed names of earlier passes are replaceable, except on replay.
func (p *pass) apply(id string, proposals []Proposal) {
	if id == IDConflictFix {
		p.applyFixes(proposals)
		return
	}

	for _, prop := range proposals {
		if p.fixed[prop.Entry] || !p.accepts(prop) {
			continue
		}
		existing, ok := p.cur.Get(prop.Entry)

		if prop.Name == "" {
			if ok && existing.Source == p.tag && p.tag == model.SourceDynamicProposed && existing.Proposer == id {
				p.cur.Remove(prop.Entry)
				p.changed = append(p.changed, prop.Entry)
			}
			continue
		}

		if ok && (existing.Source > p.tag || (existing.Source == p.tag && p.written[prop.Entry])) {
			continue
		}
		if ok && p.fillOnly {
			continue
		}
		p.written[prop.Entry] = true
		if ok && existing.Name == prop.Name && existing.Source == p.tag {
			continue
		}
		p.cur.Put(prop.Entry, model.EntryMapping{Name: prop.Name, Source: p.tag, Proposer: id})
		p.changed = append(p.changed, prop.Entry)
	}
}

// applyFixes lets conflict-fix move or clear any proposed name. User-set names stay.
func (p *pass) applyFixes(proposals []Proposal) {
	for _, prop := range proposals {
		existing, ok := p.cur.Get(prop.Entry)
		if !ok || existing.Source == model.SourceUserSet {
			continue
		}
		if prop.Name == "" {
			p.cur.Remove(prop.Entry)
		} else {
			if !naming.IsValidIdentifier(prop.Name) {
				continue
			}
			p.cur.Put(prop.Entry, model.EntryMapping{Name: prop.Name, Source: existing.Source, Proposer: IDConflictFix})
		}
		p.fixed[prop.Entry] = true
		p.changed = append(p.changed, prop.Entry)
	}
}

// accepts filters proposals for entries outside the class set, special methods
// and names that are not identifiers
func (p *pass) accepts(prop Proposal) bool {
	if prop.Entry == nil || !p.entries.Contains(prop.Entry) {
		return false
	}
	if m, ok := prop.Entry.(model.MethodEntry); ok && (m.Name == "<init>" || m.Name == "<clinit>") {
		return false
	}
	if prop.Name != "" && !naming.IsValidIdentifier(prop.Name) {
		logger.Debug("Dropped invalid name %q for %v", prop.Name, prop.Entry)
		return false
	}
	return true
}
