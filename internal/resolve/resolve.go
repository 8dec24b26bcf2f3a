// Package resolve walks an ingredient's derivation graph to the most severe
// ancestor ruling, collecting citations, alternatives, and explanatory
// notes along the way.
package resolve

import (
	"fmt"

	"hkb/internal/kb"
	"hkb/internal/policy"
)

// Resolution is the outcome of resolving one ingredient through its
// derivation chain.
type Resolution struct {
	// ID is the canonical id the resolution started from (the normalized
	// input when the ingredient is unknown).
	ID string
	// Known is false when neither a canonical id nor an alias matched.
	Known bool
	// Status is the chain's final ruling: the most severe ruling seen
	// across the ingredient and its ancestors, each taken after the policy
	// overlay.
	Status kb.Status
	// DisplayName is the label of the ingredient itself.
	DisplayName string
	// Trace holds ordered human-readable resolution steps.
	Trace []string
	// InheritedFrom is the first haram ancestor encountered, if any.
	InheritedFrom string
	// Enforced is true when the user's policy changed the ingredient's own
	// ruling relative to its unmodified default.
	Enforced bool
	// Alternatives, References, and Tags accumulate across the chain in
	// visit order, deduplicated.
	Alternatives []string
	References   []string
	Tags         []string
	// Notes and ELI5 carry the most specific non-empty explanation seen:
	// the most recently visited level wins.
	Notes string
	ELI5  string
	// ConfidenceImpact is the chain value of greatest magnitude.
	ConfidenceImpact int
}

// HasInheritance reports whether the ruling was inferred from a prohibited
// ancestor rather than stated on the record itself.
func (r *Resolution) HasInheritance() bool {
	return r.InheritedFrom != ""
}

// Resolver resolves ingredients against a read-only store.
type Resolver struct {
	store *kb.Store
}

// NewResolver creates a resolver over the given store.
func NewResolver(store *kb.Store) *Resolver {
	return &Resolver{store: store}
}

// Resolve walks the derivation graph starting at id. The walk uses an
// explicit stack with a per-call visited set, so accidental cycles and
// pathological chain depths terminate in bounded time. An id that matches
// neither a canonical id nor an alias yields an explicit unknown resolution
// with neutral confidence impact rather than an error.
func (rv *Resolver) Resolve(id string, strictness policy.Strictness, madhab string) *Resolution {
	normalized := kb.NormalizeID(id)

	root, ok := rv.store.Lookup(normalized)
	if !ok {
		return &Resolution{
			ID:          normalized,
			Known:       false,
			Status:      kb.StatusUnknown,
			DisplayName: normalized,
			Trace:       []string{fmt.Sprintf("%s is unknown (not in knowledge base)", normalized)},
		}
	}

	res := &Resolution{
		ID:          root.ID,
		Known:       true,
		DisplayName: root.DisplayName,
	}

	seenAlt := map[string]bool{}
	seenRef := map[string]bool{}
	seenTag := map[string]bool{}

	visited := map[string]bool{}
	stack := []string{root.ID}

	for len(stack) > 0 {
		// Pop for preorder: the node, then its parents left to right.
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if visited[current] {
			continue
		}
		visited[current] = true

		rec, ok := rv.store.Lookup(current)
		if !ok {
			res.Trace = append(res.Trace, fmt.Sprintf("%s is unknown (not in knowledge base)", current))
			continue
		}

		decision := policy.Apply(rec, strictness, madhab)
		res.Trace = append(res.Trace, fmt.Sprintf("%s is %s", rec.ID, decision.Status))

		if rec.ID == root.ID {
			// The root's own ruling seeds the chain status; ancestors can
			// only escalate it.
			res.Status = decision.Status
			res.Enforced = decision.Enforced
		} else {
			res.Status = kb.MoreSevere(res.Status, decision.Status)
		}

		if rec.ID != root.ID && decision.Status == kb.StatusHaram && res.InheritedFrom == "" {
			res.InheritedFrom = rec.ID
		}

		for _, alt := range rec.Alternatives {
			if !seenAlt[alt] {
				seenAlt[alt] = true
				res.Alternatives = append(res.Alternatives, alt)
			}
		}
		for _, ref := range rec.References {
			if !seenRef[ref] {
				seenRef[ref] = true
				res.References = append(res.References, ref)
			}
		}
		if rec.Category != "" && !seenTag[rec.Category] {
			seenTag[rec.Category] = true
			res.Tags = append(res.Tags, rec.Category)
		}

		if rec.Notes != "" {
			res.Notes = rec.Notes
		}
		if rec.ELI5 != "" {
			res.ELI5 = rec.ELI5
		}

		if abs(rec.ConfidenceImpact) > abs(res.ConfidenceImpact) {
			res.ConfidenceImpact = rec.ConfidenceImpact
		}

		// Push parents in reverse so the first listed parent is visited
		// first.
		for i := len(rec.DerivedFrom) - 1; i >= 0; i-- {
			parent := rec.DerivedFrom[i]
			if !visited[parent] {
				stack = append(stack, parent)
			}
		}
	}

	return res
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
