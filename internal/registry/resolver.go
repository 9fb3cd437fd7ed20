package registry

import "sync"

// Resolver memoizes Resolve over one class hierarchy and is safe for
// concurrent use. A resolver without a registry resolves nothing.
type Resolver struct {
	registry  *Registry
	ancestors func(typ string) []string

	mu   sync.Mutex
	memo map[string]resolved
}

type resolved struct {
	rule  *Rule
	match Match
}

// NewResolver creates a resolver; ancestors lists the supertypes of a type, nearest first
func NewResolver(reg *Registry, ancestors func(typ string) []string) *Resolver {
	return &Resolver{registry: reg, ancestors: ancestors, memo: make(map[string]resolved)}
}

// Resolve returns the rule of a type, directly or through an inheritable ancestor
func (r *Resolver) Resolve(typ string) (*Rule, Match) {
	if r == nil || r.registry == nil {
		return nil, NoMatch
	}

	r.mu.Lock()
	res, ok := r.memo[typ]
	r.mu.Unlock()
	if ok {
		return res.rule, res.match
	}

	rule, match := r.registry.Resolve(typ, nil)
	if rule == nil && r.ancestors != nil {
		rule, match = r.registry.Resolve(typ, r.ancestors(typ))
	}

	r.mu.Lock()
	r.memo[typ] = resolved{rule: rule, match: match}
	r.mu.Unlock()
	return rule, match
}

// Fallbacks returns the local fallback names of the rule a type resolves to
func (r *Resolver) Fallbacks(typ string) []string {
	rule, _ := r.Resolve(typ)
	if rule == nil {
		return nil
	}
	out := make([]string, len(rule.Fallback))
	for i, fb := range rule.Fallback {
		out[i] = fb.Local
	}
	return out
}
