// Package region resolves every lifetime occurrence in a crate's HIR to a
// concrete binding and classifies each function's lifetime parameters as
// early- or late-bound, the way a borrow checker's input needs them.
package region

import "github.com/orizon-lang/orizon-regions/internal/hir"

// Kind discriminates the closed set of ways a lifetime occurrence can be
// bound. Never add a sixth: Free is reserved for the call-site viewpoint a
// function body sees its own late-bound parameters from, not a general
// escape hatch.
type Kind int

const (
	KindStatic Kind = iota
	KindEarlyBound
	KindLateBound
	KindLateBoundAnon
	KindFree
)

// Region is the resolved binding of a single lifetime occurrence: which
// kind it is, and the data that kind carries.
type Region struct {
	Kind Kind

	// EarlyBound: position in the declaring item's early-bound list.
	EarlyIndex uint32
	// EarlyBound / LateBound / Free: the lifetime declaration's node ID.
	DeclID hir.NodeID

	// LateBound / LateBoundAnon: de Bruijn depth, counted from 1 at the
	// binder that introduces it, shifted by 1 for every Binder frame
	// crossed between the declaration and the use site.
	Depth uint32
	// LateBoundAnon: position among the anonymous lifetimes introduced
	// by the same FreshLateAnon counter.
	AnonIndex uint32

	// Free: the viewpoint a function body resolves its own late-bound
	// parameters from.
	CallSite hir.CallSiteScope
}

func StaticRegion() Region { return Region{Kind: KindStatic} }

func EarlyBoundRegion(index uint32, decl hir.NodeID) Region {
	return Region{Kind: KindEarlyBound, EarlyIndex: index, DeclID: decl}
}

func LateBoundRegion(decl hir.NodeID) Region {
	return Region{Kind: KindLateBound, Depth: 1, DeclID: decl}
}

// LateAnonCounter hands out sequential anonymous late-bound indices for one
// FreshLateAnon elision frame.
type LateAnonCounter struct{ next uint32 }

func (c *LateAnonCounter) Next() Region {
	i := c.next
	c.next++

	return Region{Kind: KindLateBoundAnon, Depth: 1, AnonIndex: i}
}

func FreeRegion(site hir.CallSiteScope, decl hir.NodeID) Region {
	return Region{Kind: KindFree, CallSite: site, DeclID: decl}
}

// DeclNodeID returns the declaration a region points back to, when it has
// one (every kind but LateBoundAnon, which names no declaration, and
// Static, which names the implicit one).
func (r Region) DeclNodeID() (hir.NodeID, bool) {
	switch r.Kind {
	case KindEarlyBound, KindLateBound, KindFree:
		return r.DeclID, true
	default:
		return hir.Dummy, false
	}
}

// Shifted adjusts a late-bound region's depth by crossing amount more
// Binder frames on the way from its declaration to a use site; every other
// kind passes through unchanged.
func (r Region) Shifted(amount uint32) Region {
	switch r.Kind {
	case KindLateBound, KindLateBoundAnon:
		r.Depth += amount
	}

	return r
}

// FromDepth re-expresses a region observed while a local binder-depth
// counter stood at depth, as if that counter had started at 1 right where
// the region was found. Used by the elision engine's lifetime-gathering
// walk to normalize lifetimes found under nested bare-fn/higher-ranked
// binders local to the argument being scanned.
func (r Region) FromDepth(depth uint32) Region {
	switch r.Kind {
	case KindLateBound, KindLateBoundAnon:
		r.Depth = r.Depth - (depth - 1)
	}

	return r
}
