package committer

import "cloud.google.com/go/spanner"

// Plan collects the mutations of one logical write so they commit together.
type Plan struct {
	mutations []*spanner.Mutation
}

func NewPlan(muts ...*spanner.Mutation) *Plan {
	p := &Plan{mutations: make([]*spanner.Mutation, 0, len(muts))}
	for _, m := range muts {
		p.Add(m)
	}
	return p
}

// Add ignores nil so repos can return nil for "nothing to write".
func (p *Plan) Add(m *spanner.Mutation) {
	if m == nil {
		return
	}
	p.mutations = append(p.mutations, m)
}

func (p *Plan) IsEmpty() bool {
	return p == nil || len(p.mutations) == 0
}

func (p *Plan) Len() int {
	if p == nil {
		return 0
	}
	return len(p.mutations)
}

func (p *Plan) Mutations() []*spanner.Mutation {
	return p.mutations
}
