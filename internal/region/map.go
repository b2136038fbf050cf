package region

import "github.com/orizon-lang/orizon-regions/internal/hir"

// IssueState flags whether a late-bound lifetime param that is not
// constrained by its function's inputs, but does appear in its output, is
// only late-bound for historical reasons and will eventually need to
// become early-bound (the long-deprecated implicit-output-lifetime wart).
type IssueState int

const (
	IssueWontChange IssueState = iota
	IssueWillChange
)

// NamedRegionMap is the completed result of a resolution pass: every
// lifetime occurrence's binding, and which of each function's lifetime
// parameters were classified late-bound (with the will-change flag for
// those resolution couldn't otherwise disambiguate).
type NamedRegionMap struct {
	Defs      map[hir.NodeID]Region
	LateBound map[hir.NodeID]IssueState
}

func newNamedRegionMap() *NamedRegionMap {
	return &NamedRegionMap{
		Defs:      make(map[hir.NodeID]Region),
		LateBound: make(map[hir.NodeID]IssueState),
	}
}

// IsLateBound reports whether decl was classified late-bound, regardless
// of its will-change state.
func (m *NamedRegionMap) IsLateBound(decl hir.NodeID) bool {
	_, ok := m.LateBound[decl]
	return ok
}
