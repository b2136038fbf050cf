package hir

import "github.com/orizon-lang/orizon-regions/internal/position"

// Item is implemented by every top-level (or impl/trait-nested) item node.
type Item interface {
	Node
	GetID() NodeID
	isItem()
}

// GenericParamKind distinguishes type, const, and lifetime parameters on a
// generics list.
type GenericParamKind int

const (
	GPType GenericParamKind = iota
	GPConst
	GPLifetime
)

// GenericParam is one parameter in an item's or function's generics list.
// Name is used for Type/Const; LifetimeName (including the leading ') is
// used for Lifetime. ID is the declaration's node ID — the decl-id stored
// in EarlyBound/LateBound regions and the key into NamedRegionMap.late_bound.
type GenericParam struct {
	Span         position.Span
	Name         string
	LifetimeName string
	ID           NodeID
	Kind         GenericParamKind
}

// WherePredicate is one `T: Bound1 + Bound2` (or `'a: 'b`) clause. A
// `for<'a> T: Trait<'a>` predicate stores its binder in BoundLifetimes.
type WherePredicate struct {
	Span           position.Span
	BoundLifetimes []GenericParam
	Target         Type
	Bounds         []TraitRef
}

// Param is a function parameter (or a struct/union/variant field — the
// Name is the field name in that case).
type Param struct {
	Span position.Span
	Name string // may be empty for fields/params with no simple identifier
	Type Type
}

// SelfParam is the receiver of a method. Lifetime is only meaningful when
// ByRef is true; nil means no elision obligation (see ReferenceType's
// Lifetime for the convention governing an explicit elided `&self`).
type SelfParam struct {
	Span     position.Span
	Lifetime *LifetimeRef
	ByRef    bool
	Mutable  bool
}

// Body is a function (or closure) body: the statements the resolver must
// walk under a Scope-chain Body marker.
type Body struct {
	ID    BodyID
	Span  position.Span
	Block *Block
}

// FunctionDecl covers free functions, trait/impl methods, and foreign
// functions (IsForeign true, Body nil). EarlyOffset starts at its zero
// value (correct for a free function) and is overwritten by the resolver
// when it descends into an enclosing Trait/Impl's Items, to the parent's
// lifetime+type count, plus 1 for trait Self, before that method is
// classified.
type FunctionDecl struct {
	ID          NodeID
	Span        position.Span
	Name        string
	Generics    []GenericParam
	Where       []WherePredicate
	Self        *SelfParam // nil for free/foreign functions
	Params      []Param
	Return      Type // nil means an implicit `-> ()`
	Body        *Body
	IsForeign   bool
	EarlyOffset int
}

func (f *FunctionDecl) GetID() NodeID          { return f.ID }
func (f *FunctionDecl) GetSpan() position.Span { return f.Span }
func (*FunctionDecl) isItem()                  {}

// StructDecl, EnumDecl, UnionDecl: all lifetime parameters on these are
// early-bound, numbered from 0.
type StructDecl struct {
	ID       NodeID
	Span     position.Span
	Name     string
	Generics []GenericParam
	Fields   []Param
}

func (s *StructDecl) GetID() NodeID          { return s.ID }
func (s *StructDecl) GetSpan() position.Span { return s.Span }
func (*StructDecl) isItem()                  {}

type EnumVariant struct {
	Span   position.Span
	Name   string
	Fields []Param
}

type EnumDecl struct {
	ID       NodeID
	Span     position.Span
	Name     string
	Generics []GenericParam
	Variants []EnumVariant
}

func (e *EnumDecl) GetID() NodeID          { return e.ID }
func (e *EnumDecl) GetSpan() position.Span { return e.Span }
func (*EnumDecl) isItem()                  {}

type UnionDecl struct {
	ID       NodeID
	Span     position.Span
	Name     string
	Generics []GenericParam
	Fields   []Param
}

func (u *UnionDecl) GetID() NodeID          { return u.ID }
func (u *UnionDecl) GetSpan() position.Span { return u.Span }
func (*UnionDecl) isItem()                  {}

// TraitDecl: lifetime/type parameter numbering starts at 1, index 0 being
// reserved for the implicit Self type parameter.
type TraitDecl struct {
	ID       NodeID
	Span     position.Span
	Name     string
	Generics []GenericParam
	Where    []WherePredicate
	Items    []Item // associated FunctionDecls (methods, possibly bodiless)
}

func (t *TraitDecl) GetID() NodeID          { return t.ID }
func (t *TraitDecl) GetSpan() position.Span { return t.Span }
func (*TraitDecl) isItem()                  {}

// ImplDecl. Trait is nil for an inherent impl. SelfType is walked for its
// lifetime references only; neither the elision engine's "method with
// &self" rule nor EarlyOffset computation for its methods reads it.
type ImplDecl struct {
	ID       NodeID
	Span     position.Span
	Generics []GenericParam
	Where    []WherePredicate
	SelfType Type
	Trait    *TraitRef
	Items    []Item
}

func (i *ImplDecl) GetID() NodeID          { return i.ID }
func (i *ImplDecl) GetSpan() position.Span { return i.Span }
func (*ImplDecl) isItem()                  {}

// StaticDecl / ConstDecl: the initializer is walked under an
// Elision{Static} scope gated by the static_in_const feature.
type StaticDecl struct {
	ID      NodeID
	Span    position.Span
	Name    string
	Type    Type
	Value   *Body
	Mutable bool
}

func (s *StaticDecl) GetID() NodeID          { return s.ID }
func (s *StaticDecl) GetSpan() position.Span { return s.Span }
func (*StaticDecl) isItem()                  {}

type ConstDecl struct {
	ID    NodeID
	Span  position.Span
	Name  string
	Type  Type
	Value *Body
}

func (c *ConstDecl) GetID() NodeID          { return c.ID }
func (c *ConstDecl) GetSpan() position.Span { return c.Span }
func (*ConstDecl) isItem()                  {}

type TypeAliasDecl struct {
	ID         NodeID
	Span       position.Span
	Name       string
	Generics   []GenericParam
	Underlying Type
}

func (t *TypeAliasDecl) GetID() NodeID          { return t.ID }
func (t *TypeAliasDecl) GetSpan() position.Span { return t.Span }
func (*TypeAliasDecl) isItem()                  {}

// ExternCrateDecl, UseDecl, ModDecl, ForeignModDecl, DefaultImplDecl carry
// no lifetime parameters of their own; the walker descends into their
// children (if any) without pushing a binder.
type ExternCrateDecl struct {
	ID   NodeID
	Span position.Span
	Name string
}

func (e *ExternCrateDecl) GetID() NodeID          { return e.ID }
func (e *ExternCrateDecl) GetSpan() position.Span { return e.Span }
func (*ExternCrateDecl) isItem()                  {}

type UseDecl struct {
	ID   NodeID
	Span position.Span
	Path string
}

func (u *UseDecl) GetID() NodeID          { return u.ID }
func (u *UseDecl) GetSpan() position.Span { return u.Span }
func (*UseDecl) isItem()                  {}

type ModDecl struct {
	ID    NodeID
	Span  position.Span
	Name  string
	Items []Item
}

func (m *ModDecl) GetID() NodeID          { return m.ID }
func (m *ModDecl) GetSpan() position.Span { return m.Span }
func (*ModDecl) isItem()                  {}

// ForeignModDecl holds `extern "C" { ... }` blocks; its Items are
// FunctionDecl with IsForeign set.
type ForeignModDecl struct {
	ID    NodeID
	Span  position.Span
	Items []Item
}

func (f *ForeignModDecl) GetID() NodeID          { return f.ID }
func (f *ForeignModDecl) GetSpan() position.Span { return f.Span }
func (*ForeignModDecl) isItem()                  {}

type DefaultImplDecl struct {
	ID    NodeID
	Span  position.Span
	Trait TraitRef
}

func (d *DefaultImplDecl) GetID() NodeID          { return d.ID }
func (d *DefaultImplDecl) GetSpan() position.Span { return d.Span }
func (*DefaultImplDecl) isItem()                  {}
