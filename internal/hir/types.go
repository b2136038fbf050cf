package hir

import "github.com/orizon-lang/orizon-regions/internal/position"

// Type is implemented by every HIR type node.
type Type interface {
	Node
	isType()
}

// LifetimeRefKind classifies a lifetime occurrence at a use site.
type LifetimeRefKind int

const (
	// LifetimeNamed is a reference to a named lifetime, e.g. 'a.
	LifetimeNamed LifetimeRefKind = iota
	// LifetimeStaticRef is a reference to the reserved 'static name.
	LifetimeStaticRef
	// LifetimeElided is an omitted lifetime, e.g. `&i32` or `Foo<'_>`.
	LifetimeElided
)

// LifetimeRef is a single lifetime occurrence: a use-site node the
// resolver must place an entry for in NamedRegionMap.defs.
type LifetimeRef struct {
	Span position.Span
	Name string // set when Kind == LifetimeNamed, includes the leading '.
	ID   NodeID
	Kind LifetimeRefKind
}

func (l *LifetimeRef) GetSpan() position.Span { return l.Span }

// GenericArgKind classifies one argument in a path segment's angle brackets.
type GenericArgKind int

const (
	ArgLifetime GenericArgKind = iota
	ArgType
	ArgConst
)

// GenericArg is one `<...>` argument of a path segment.
type GenericArg struct {
	Lifetime *LifetimeRef
	Type     Type
	Kind     GenericArgKind
}

// PathSegment is one `::`-separated component of a path, with its own
// generic argument list (e.g. `Vec<'a, T>`).
type PathSegment struct {
	Name string
	Args []GenericArg
}

// QualifiedSelf models the `<T as Trait<...>>::` prefix of a qualified
// path. lifetimes appearing only inside Self (the `T` and
// the `Trait<...>` here) do not count as "constrained by an input type";
// only the final segment's own arguments do.
type QualifiedSelf struct {
	Self  Type
	Trait *PathType // nil for an inherent-associated-type path (`T::Item`)
}

// PathType is a (possibly qualified) type path, e.g. `Foo<'a>`,
// `<T as Trait<'b>>::Item`.
type PathType struct {
	Span     position.Span
	QSelf    *QualifiedSelf
	Segments []PathSegment
}

func (*PathType) isType()                   {}
func (p *PathType) GetSpan() position.Span { return p.Span }

// ReferenceType is `&'a T` / `&'a mut T`. Lifetime is nil only when this
// occurrence carries no elision obligation at all (a fixture not
// exercising elision); an explicit elision site must still be represented
// as a LifetimeRef with Kind LifetimeElided and a real ID, the same as a
// parser would synthesize for `&T`.
type ReferenceType struct {
	Span     position.Span
	Lifetime *LifetimeRef
	Inner    Type
	Mutable  bool
}

func (*ReferenceType) isType()                   {}
func (r *ReferenceType) GetSpan() position.Span { return r.Span }

// BareFnType is a bare function-pointer type, `fn(...) -> ...`, optionally
// carrying its own (always late-bound) lifetime parameters, e.g.
// `for<'a> fn(&'a i32)` is parsed as a BareFnType whose LifetimeParams
// holds 'a.
type BareFnType struct {
	Span           position.Span
	LifetimeParams []GenericParam
	Params         []Type
	Return         Type // nil means an implicit `-> ()`
}

func (*BareFnType) isType()                   {}
func (f *BareFnType) GetSpan() position.Span { return f.Span }

// TraitRef is a trait reference as it appears in a bound, optionally
// carrying its own `for<...>` binder (a higher-ranked trait bound).
type TraitRef struct {
	Span           position.Span
	BoundLifetimes []GenericParam // the for<'a, ...> prefix; nil if absent
	Path           PathType
}

func (t *TraitRef) GetSpan() position.Span { return t.Span }

// TraitObjectType is `dyn Trait + 'a` (the `dyn` keyword itself carries no
// semantic weight here). Region is nil only when this occurrence carries
// no elision obligation; see ReferenceType's Lifetime for the convention.
type TraitObjectType struct {
	Span   position.Span
	Bounds []TraitRef
	Region *LifetimeRef
}

func (*TraitObjectType) isType()                   {}
func (t *TraitObjectType) GetSpan() position.Span { return t.Span }

// ImplTraitType is `impl Trait` in argument or return position. Its
// presence in a *return* type disables late-binding for the function's
// lifetime parameters.
type ImplTraitType struct {
	Span   position.Span
	Bounds []TraitRef
}

func (*ImplTraitType) isType()                   {}
func (t *ImplTraitType) GetSpan() position.Span { return t.Span }

// TupleType is `(A, B, ...)`.
type TupleType struct {
	Span  position.Span
	Elems []Type
}

func (*TupleType) isType()                   {}
func (t *TupleType) GetSpan() position.Span { return t.Span }

// SliceType is `[T]` or `[T; N]` (the length is not modeled; it carries no
// lifetimes).
type SliceType struct {
	Span position.Span
	Elem Type
}

func (*SliceType) isType()                   {}
func (s *SliceType) GetSpan() position.Span { return s.Span }

// InferredType is `_` in type position.
type InferredType struct{ Span position.Span }

func (*InferredType) isType()                   {}
func (i *InferredType) GetSpan() position.Span { return i.Span }

// UnitType is the implicit/explicit `()` type.
type UnitType struct{ Span position.Span }

func (*UnitType) isType()                   {}
func (u *UnitType) GetSpan() position.Span { return u.Span }
