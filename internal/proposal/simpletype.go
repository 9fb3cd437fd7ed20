package proposal

import (
	"cmp"
	"slices"

	"name-recon/internal/model"
	"name-recon/internal/registry"
)

// simpleTypeProposer names fields and parameters after the registry rule of
// their declared type. One instance serves direct matches, another inherited ones.
type simpleTypeProposer struct {
	match registry.Match
	id    string
}

func (p simpleTypeProposer) ID() string { return p.id }

func (p simpleTypeProposer) ProposeStatic(ctx *StaticContext) ([]Proposal, error) {
	return p.propose(ctx, false), nil
}

// ProposeDynamic only acts on replay, where it restores names for matched
// entries that lost theirs
func (p simpleTypeProposer) ProposeDynamic(ctx *DynamicContext) ([]Proposal, error) {
	if !ctx.Event.Replay {
		return nil, nil
	}
	return p.propose(&ctx.StaticContext, true), nil
}

func (p simpleTypeProposer) propose(ctx *StaticContext, unmappedOnly bool) []Proposal {
	st := ctx.Indices.SimpleType
	if st == nil {
		return nil
	}
	var out []Proposal
	for _, e := range st.Entries(p.match) {
		if unmappedOnly && ctx.Name(e) != "" {
			continue
		}
		tm, ok := st.Match(e)
		if !ok || tm.Match != p.match {
			continue
		}
		out = append(out, Proposal{e, tm.Name()})
	}
	return out
}

// conflictFixProposer resolves parameters of one method that ended up with
// the same name. It runs last in every pass.
type conflictFixProposer struct{}

func (conflictFixProposer) ID() string { return IDConflictFix }

func (conflictFixProposer) ProposeStatic(ctx *StaticContext) ([]Proposal, error) {
	return fixConflicts(ctx, ctx.Indices.Entries.Methods()), nil
}

func (conflictFixProposer) ProposeDynamic(ctx *DynamicContext) ([]Proposal, error) {
	if ctx.Event.Replay {
		return fixConflicts(&ctx.StaticContext, ctx.Indices.Entries.Methods()), nil
	}
	var methods []model.MethodEntry
	seen := make(map[model.MethodEntry]bool)
	for _, e := range ctx.Changed() {
		var m model.MethodEntry
		switch v := e.(type) {
		case model.MethodEntry:
			m = v
		case model.LocalVariableEntry:
			m = v.Method
		default:
			continue
		}
		if !seen[m] {
			seen[m] = true
			methods = append(methods, m)
		}
	}
	return fixConflicts(&ctx.StaticContext, methods), nil
}

// fixConflicts ranks same-named parameters by source, then proposer priority,
// then slot. Losers take the first unused registry fallback of their type or
// are cleared; user-set names are never moved.
func fixConflicts(ctx *StaticContext, methods []model.MethodEntry) []Proposal {
	var out []Proposal
	for _, m := range methods {
		params := ctx.Indices.Entries.Parameters(m)
		if len(params) < 2 {
			continue
		}

		used := make(map[string]bool)
		groups := make(map[string][]model.LocalVariableEntry)
		var names []string
		for _, p := range params {
			name := ctx.Name(p)
			if name == "" {
				continue
			}
			if !used[name] {
				names = append(names, name)
			}
			used[name] = true
			groups[name] = append(groups[name], p)
		}

		for _, name := range names {
			group := groups[name]
			if len(group) < 2 {
				continue
			}
			rankParams(ctx, group)
			for _, loser := range group[1:] {
				if mp, _ := ctx.Mapping(loser); mp.Source == model.SourceUserSet {
					continue
				}
				out = append(out, Proposal{loser, pickFallback(ctx, loser, used)})
			}
		}
	}
	return out
}

func rankParams(ctx *StaticContext, group []model.LocalVariableEntry) {
	rank := func(p model.LocalVariableEntry) (model.Source, int) {
		mp, _ := ctx.Mapping(p)
		if mp.Source == model.SourceUserSet {
			return mp.Source, -1
		}
		return mp.Source, ctx.Priority(mp.Proposer)
	}
	slices.SortStableFunc(group, func(a, b model.LocalVariableEntry) int {
		sa, pa := rank(a)
		sb, pb := rank(b)
		if c := cmp.Compare(sb, sa); c != 0 {
			return c
		}
		if c := cmp.Compare(pa, pb); c != 0 {
			return c
		}
		return cmp.Compare(a.Index, b.Index)
	})
}

func pickFallback(ctx *StaticContext, p model.LocalVariableEntry, used map[string]bool) string {
	for _, fb := range ctx.Session.Fallbacks(p) {
		if !used[fb] {
			used[fb] = true
			return fb
		}
	}
	return ""
}
