package hir

import (
	"sort"

	"github.com/orizon-lang/orizon-regions/internal/position"
)

// CallSiteScope is the viewpoint from which a Free region is
// expressed: which function's late-bound lifetime it names, and which body
// it is being viewed from. Constructed once per function-with-a-body by
// the walker.
type CallSiteScope struct {
	Fn   NodeID
	Body BodyID
}

// NewCallSiteScope builds the call-site scope for a Free region.
func NewCallSiteScope(fn NodeID, body BodyID) CallSiteScope {
	return CallSiteScope{Fn: fn, Body: body}
}

// Map is the HIR map collaborator: node lookup, parent-of-node
// lookup, a body iterator, span-of-node, a best-effort pattern
// pretty-printer, and local-def-id lookup. It is built once per crate by
// Build and handed to the resolver read-only.
type Map struct {
	nodes   map[NodeID]Node
	parents map[NodeID]NodeID
	bodies  map[BodyID]*Body
	names   map[NodeID]string
}

// NewMap returns an empty Map; Build is the usual entry point.
func NewMap() *Map {
	return &Map{
		nodes:   make(map[NodeID]Node),
		parents: make(map[NodeID]NodeID),
		bodies:  make(map[BodyID]*Body),
		names:   make(map[NodeID]string),
	}
}

// Node looks up a node by ID.
func (m *Map) Node(id NodeID) (Node, bool) {
	n, ok := m.nodes[id]
	return n, ok
}

// Parent returns the immediately enclosing node's ID, if any.
func (m *Map) Parent(id NodeID) (NodeID, bool) {
	p, ok := m.parents[id]
	return p, ok
}

// Span returns the source span of a node, or the zero span if unknown.
func (m *Map) Span(id NodeID) position.Span {
	if n, ok := m.nodes[id]; ok {
		return n.GetSpan()
	}
	return position.Span{}
}

// Bodies iterates every body in the crate, in a deterministic order.
func (m *Map) Bodies() []BodyID {
	ids := make([]BodyID, 0, len(m.bodies))
	for id := range m.bodies {
		ids = append(ids, id)
	}

	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	return ids
}

// Body looks up a body by its ID.
func (m *Map) Body(id BodyID) (*Body, bool) {
	b, ok := m.bodies[id]
	return b, ok
}

// LocalDefID maps a node ID to its def-id. In real HIR maps a node's HirId
// and its DefId are distinct (only definitions get a DefId); every node in
// this simplified model already carries a stable ID, so the mapping is the
// identity. Kept as its own method so callers depend on the capability, not
// the coincidence.
func (m *Map) LocalDefID(id NodeID) NodeID { return id }

// PrettyPattern renders a best-effort source-like name for a binding,
// used only to build elision-failure help text. Returns "" when
// no name was registered (e.g. a tuple-pattern argument).
func (m *Map) PrettyPattern(id NodeID) string { return m.names[id] }

// Build walks a crate once, registering every item, generic parameter,
// lifetime occurrence and function/closure body with its parent, and
// returns the resulting Map. Type, statement and expression nodes are
// walked through but not registered themselves.
func Build(crate *Crate) *Map {
	m := NewMap()
	for _, it := range crate.Items {
		m.buildItem(it, Dummy)
	}

	return m
}

func (m *Map) register(id NodeID, n Node, parent NodeID) {
	if id == Dummy {
		return
	}

	m.nodes[id] = n
	if parent != Dummy {
		m.parents[id] = parent
	}
}

func (m *Map) buildItem(it Item, parent NodeID) {
	m.register(it.GetID(), it, parent)
	self := it.GetID()

	switch v := it.(type) {
	case *FunctionDecl:
		for i := range v.Generics {
			m.buildGenericParam(&v.Generics[i], self)
		}
		for _, w := range v.Where {
			m.buildWhere(&w, self)
		}
		for _, p := range v.Params {
			m.buildType(p.Type, self)
		}
		if v.Return != nil {
			m.buildType(v.Return, self)
		}
		if v.Body != nil {
			m.buildBody(v.Body, self)
		}
	case *StructDecl:
		for i := range v.Generics {
			m.buildGenericParam(&v.Generics[i], self)
		}
		for _, f := range v.Fields {
			m.buildType(f.Type, self)
		}
	case *EnumDecl:
		for i := range v.Generics {
			m.buildGenericParam(&v.Generics[i], self)
		}
		for _, variant := range v.Variants {
			for _, f := range variant.Fields {
				m.buildType(f.Type, self)
			}
		}
	case *UnionDecl:
		for i := range v.Generics {
			m.buildGenericParam(&v.Generics[i], self)
		}
		for _, f := range v.Fields {
			m.buildType(f.Type, self)
		}
	case *TraitDecl:
		for i := range v.Generics {
			m.buildGenericParam(&v.Generics[i], self)
		}
		for _, w := range v.Where {
			m.buildWhere(&w, self)
		}
		for _, sub := range v.Items {
			m.buildItem(sub, self)
		}
	case *ImplDecl:
		for i := range v.Generics {
			m.buildGenericParam(&v.Generics[i], self)
		}
		for _, w := range v.Where {
			m.buildWhere(&w, self)
		}
		m.buildType(v.SelfType, self)
		if v.Trait != nil {
			m.buildTraitRef(v.Trait, self)
		}
		for _, sub := range v.Items {
			m.buildItem(sub, self)
		}
	case *StaticDecl:
		m.buildType(v.Type, self)
		if v.Value != nil {
			m.buildBody(v.Value, self)
		}
	case *ConstDecl:
		m.buildType(v.Type, self)
		if v.Value != nil {
			m.buildBody(v.Value, self)
		}
	case *TypeAliasDecl:
		for i := range v.Generics {
			m.buildGenericParam(&v.Generics[i], self)
		}
		m.buildType(v.Underlying, self)
	case *ModDecl:
		for _, sub := range v.Items {
			m.buildItem(sub, self)
		}
	case *ForeignModDecl:
		for _, sub := range v.Items {
			m.buildItem(sub, self)
		}
	case *DefaultImplDecl:
		m.buildTraitRef(&v.Trait, self)
	case *ExternCrateDecl, *UseDecl:
		// no children.
	}
}

func (m *Map) buildGenericParam(g *GenericParam, parent NodeID) {
	if g.Kind == GPLifetime {
		m.register(g.ID, lifetimeDeclNode{g}, parent)
	} else {
		m.register(g.ID, genericParamNode{g}, parent)
	}
}

// lifetimeDeclNode / genericParamNode adapt *GenericParam (which has no
// GetSpan of its own) to the Node interface for map storage.
type lifetimeDeclNode struct{ g *GenericParam }

func (n lifetimeDeclNode) GetSpan() position.Span { return n.g.Span }

type genericParamNode struct{ g *GenericParam }

func (n genericParamNode) GetSpan() position.Span { return n.g.Span }

func (m *Map) buildWhere(w *WherePredicate, parent NodeID) {
	for i := range w.BoundLifetimes {
		m.buildGenericParam(&w.BoundLifetimes[i], parent)
	}

	m.buildType(w.Target, parent)

	for i := range w.Bounds {
		m.buildTraitRef(&w.Bounds[i], parent)
	}
}

func (m *Map) buildTraitRef(t *TraitRef, parent NodeID) {
	for i := range t.BoundLifetimes {
		m.buildGenericParam(&t.BoundLifetimes[i], parent)
	}

	m.buildPathType(&t.Path, parent)
}

func (m *Map) buildPathType(p *PathType, parent NodeID) {
	if p.QSelf != nil {
		m.buildType(p.QSelf.Self, parent)
		if p.QSelf.Trait != nil {
			m.buildPathType(p.QSelf.Trait, parent)
		}
	}

	for _, seg := range p.Segments {
		for _, arg := range seg.Args {
			switch arg.Kind {
			case ArgLifetime:
				if arg.Lifetime != nil {
					m.register(arg.Lifetime.ID, arg.Lifetime, parent)
				}
			case ArgType:
				m.buildType(arg.Type, parent)
			case ArgConst:
				// constants carry no lifetimes.
			}
		}
	}
}

func (m *Map) buildType(t Type, parent NodeID) {
	if t == nil {
		return
	}

	switch v := t.(type) {
	case *PathType:
		m.buildPathType(v, parent)
	case *ReferenceType:
		if v.Lifetime != nil {
			m.register(v.Lifetime.ID, v.Lifetime, parent)
		}

		m.buildType(v.Inner, parent)
	case *BareFnType:
		for i := range v.LifetimeParams {
			m.buildGenericParam(&v.LifetimeParams[i], parent)
		}

		for _, p := range v.Params {
			m.buildType(p, parent)
		}

		if v.Return != nil {
			m.buildType(v.Return, parent)
		}
	case *TraitObjectType:
		for i := range v.Bounds {
			m.buildTraitRef(&v.Bounds[i], parent)
		}

		if v.Region != nil {
			m.register(v.Region.ID, v.Region, parent)
		}
	case *ImplTraitType:
		for i := range v.Bounds {
			m.buildTraitRef(&v.Bounds[i], parent)
		}
	case *TupleType:
		for _, e := range v.Elems {
			m.buildType(e, parent)
		}
	case *SliceType:
		m.buildType(v.Elem, parent)
	case *InferredType, *UnitType:
		// leaves.
	}
}

func (m *Map) buildBody(b *Body, parent NodeID) {
	m.register(b.ID, bodyNode{b}, parent)
	m.bodies[b.ID] = b

	if b.Block != nil {
		m.buildBlock(b.Block, b.ID)
	}
}

type bodyNode struct{ b *Body }

func (n bodyNode) GetSpan() position.Span { return n.b.Span }

func (m *Map) buildBlock(b *Block, parent NodeID) {
	for _, s := range b.Stmts {
		m.buildStmt(s, parent)
	}
}

func (m *Map) buildStmt(s Stmt, parent NodeID) {
	switch v := s.(type) {
	case *LetStmt:
		if v.Type != nil {
			m.buildType(v.Type, parent)
		}

		m.buildExpr(v.Init, parent)
	case *ExprStmt:
		m.buildExpr(v.Expr, parent)
	case *LoopStmt:
		if v.Body != nil {
			m.buildBlock(v.Body, parent)
		}
	}
}

func (m *Map) buildExpr(e Expr, parent NodeID) {
	if e == nil {
		return
	}

	switch v := e.(type) {
	case *PathExpr:
		m.buildPathType(&v.Path, parent)
	case *CastExpr:
		m.buildExpr(v.Value, parent)
		m.buildType(v.Type, parent)
	case *BlockExpr:
		if v.Block != nil {
			m.buildBlock(v.Block, parent)
		}
	case *LoopExpr:
		if v.Body != nil {
			m.buildBlock(v.Body, parent)
		}
	case *CallExpr:
		m.buildExpr(v.Callee, parent)
		for _, a := range v.Args {
			m.buildExpr(a, parent)
		}
	case *ClosureExpr:
		for _, p := range v.Params {
			m.buildType(p.Type, parent)
		}

		if v.Return != nil {
			m.buildType(v.Return, parent)
		}

		if v.Body != nil {
			m.buildBody(v.Body, parent)
		}
	case *LeafExpr:
		// no substructure.
	}
}
