package proposal

import (
	"name-recon/internal/index"
	"name-recon/internal/model"
)

// delegateProposer gives delegating methods and their parameters the names of
// the method they forward to, transitively down each delegation chain
type delegateProposer struct{}

func (delegateProposer) ID() string { return IDDelegate }

func (delegateProposer) ProposeStatic(ctx *StaticContext) ([]Proposal, error) {
	di := ctx.Indices.Delegate
	if di == nil {
		return nil, nil
	}
	// delegates left unvisited after the roots sit on a cycle
	seeds := append(di.Roots(), di.Delegates()...)
	return propagateDelegates(ctx, di, seeds, false), nil
}

func (delegateProposer) ProposeDynamic(ctx *DynamicContext) ([]Proposal, error) {
	di := ctx.Indices.Delegate
	if di == nil {
		return nil, nil
	}
	var seeds []model.MethodEntry
	seen := make(map[model.MethodEntry]bool)
	for _, e := range ctx.Triggers() {
		var m model.MethodEntry
		switch v := e.(type) {
		case model.MethodEntry:
			m = v
		case model.LocalVariableEntry:
			m = v.Method
		default:
			continue
		}
		if !seen[m] && len(di.Delegaters(m)) > 0 {
			seen[m] = true
			seeds = append(seeds, m)
		}
	}
	return propagateDelegates(&ctx.StaticContext, di, seeds, true), nil
}

// propagateDelegates walks each delegation tree breadth first from the seeds,
// visiting every method once.
// Names derived in the walk feed the next level before they are applied.
// With clear set, unnamed delegates withdraw earlier derived names.
func propagateDelegates(ctx *StaticContext, di *index.DelegateIndex, seeds []model.MethodEntry, clear bool) []Proposal {
	var out []Proposal
	derived := make(map[model.Entry]string)
	nameOf := func(e model.Entry) string {
		if n, ok := derived[e]; ok {
			return n
		}
		return ctx.Name(e)
	}
	propose := func(e model.Entry, name string) {
		if name == "" && !clear {
			return
		}
		derived[e] = name
		out = append(out, Proposal{e, name})
	}

	visited := make(map[model.MethodEntry]bool)
	for _, seed := range seeds {
		if visited[seed] {
			continue
		}
		visited[seed] = true
		queue := []model.MethodEntry{seed}
		for len(queue) > 0 {
			m := queue[0]
			queue = queue[1:]

			for _, p := range ctx.Indices.Entries.Parameters(m) {
				name := nameOf(p)
				for _, src := range di.ParamSources(p) {
					propose(src, name)
				}
			}
			for _, d := range di.Delegaters(m) {
				if visited[d] {
					continue
				}
				visited[d] = true
				if !d.IsConstructor() {
					propose(d, nameOf(m))
				}
				queue = append(queue, d)
			}
		}
	}
	return out
}

// lambdaProposer keeps captured variables, lambda parameters and functional
// interface parameters named alike
type lambdaProposer struct{}

func (lambdaProposer) ID() string { return IDLambda }

func (lambdaProposer) ProposeStatic(ctx *StaticContext) ([]Proposal, error) {
	li := ctx.Indices.Lambda
	if li == nil {
		return nil, nil
	}
	var out []Proposal
	visited := make(map[model.LocalVariableEntry]bool)
	for _, p := range li.Params() {
		name := ctx.Name(p)
		if name == "" || visited[p] {
			continue
		}
		out = append(out, spreadLinked(li, p, name, visited)...)
	}
	return out, nil
}

func (lambdaProposer) ProposeDynamic(ctx *DynamicContext) ([]Proposal, error) {
	li := ctx.Indices.Lambda
	if li == nil {
		return nil, nil
	}
	var out []Proposal
	visited := make(map[model.LocalVariableEntry]bool)
	for _, e := range ctx.Triggers() {
		p, ok := e.(model.LocalVariableEntry)
		if !ok || visited[p] || len(li.Linked(p)) == 0 {
			continue
		}
		out = append(out, spreadLinked(li, p, ctx.Name(p), visited)...)
	}
	return out, nil
}

// spreadLinked proposes name for every parameter reachable from start
func spreadLinked(li *index.LambdaIndex, start model.LocalVariableEntry, name string, visited map[model.LocalVariableEntry]bool) []Proposal {
	var out []Proposal
	visited[start] = true
	queue := []model.LocalVariableEntry{start}
	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]
		for _, q := range li.Linked(p) {
			if visited[q] {
				continue
			}
			visited[q] = true
			out = append(out, Proposal{q, name})
			queue = append(queue, q)
		}
	}
	return out
}
