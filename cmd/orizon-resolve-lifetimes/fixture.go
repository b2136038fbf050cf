package main

import (
	"github.com/orizon-lang/orizon-regions/internal/hir"
	"github.com/orizon-lang/orizon-regions/internal/position"
)

// fixtureCrate is the on-disk JSON shape this tool loads: a flat list of
// function declarations, the only item kind worth hand-authoring a fixture
// file for (it is the one that exercises early/late classification and
// elision; struct/trait/impl generics reuse the same lifetime-declaration
// machinery without anything new to demonstrate).
type fixtureCrate struct {
	Functions []fixtureFunction `json:"functions"`
}

type fixtureFunction struct {
	Name      string          `json:"name"`
	Lifetimes []string        `json:"lifetimes,omitempty"`
	Self      *fixtureSelf    `json:"self,omitempty"`
	Params    []fixtureParam  `json:"params,omitempty"`
	Return    *fixtureType    `json:"return,omitempty"`
	Where     []fixtureWhere  `json:"where,omitempty"`
	Foreign   bool            `json:"foreign,omitempty"`
}

// fixtureSelf.Lifetime follows the same convention as a "ref"
// fixtureType.Lifetime: "" or "elided" (an elided `&self`), "static", or a
// declared name including its leading quote ("'a"). It is ignored when
// ByRef is false (by-value self).
type fixtureSelf struct {
	ByRef    bool   `json:"by_ref"`
	Mutable  bool   `json:"mutable,omitempty"`
	Lifetime string `json:"lifetime,omitempty"`
}

type fixtureParam struct {
	Name string       `json:"name"`
	Type *fixtureType `json:"type"`
}

// fixtureWhere models a `for<'a> T: Bound` clause; Bound names a trait with
// no generic arguments and no `for<...>` of its own. That exercises the
// where-clause-level binder (trait_ref_hack), but a fixture cannot
// produce the nested-HRTB diagnostic.
type fixtureWhere struct {
	Lifetimes []string `json:"lifetimes,omitempty"`
	Target    string   `json:"target"`
	Bound     string   `json:"bound,omitempty"`
}

// fixtureType.Kind selects which fields apply: "path" (Name, optionally
// Lifetime for a single `<'a>` argument), "ref" (Lifetime, Mutable, Inner),
// "tuple" (Elems), "slice" (Inner), "infer", or "unit".
type fixtureType struct {
	Kind     string         `json:"kind"`
	Name     string         `json:"name,omitempty"`
	Lifetime string         `json:"lifetime,omitempty"`
	Mutable  bool           `json:"mutable,omitempty"`
	Inner    *fixtureType   `json:"inner,omitempty"`
	Elems    []*fixtureType `json:"elems,omitempty"`
}

// builder assigns a fresh NodeID to every declaration and lifetime
// occurrence as it converts a fixture into HIR; a fixture never names IDs
// itself; only lifetime *names*, resolved later by the pass via scope
// lookup, the same as a real parser's output would be.
type builder struct {
	next hir.NodeID
}

func (b *builder) id() hir.NodeID {
	b.next++
	return b.next
}

func zeroSpan(file string) position.Span {
	p := position.Position{Filename: file, Line: 1, Column: 1, Offset: 0}
	return position.Span{Start: p, End: p}
}

func (b *builder) buildCrate(fc *fixtureCrate, file string) *hir.Crate {
	items := make([]hir.Item, 0, len(fc.Functions))

	for _, ff := range fc.Functions {
		items = append(items, b.buildFunction(&ff, file))
	}

	return &hir.Crate{Items: items}
}

func (b *builder) buildFunction(ff *fixtureFunction, file string) *hir.FunctionDecl {
	span := zeroSpan(file)

	generics := make([]hir.GenericParam, 0, len(ff.Lifetimes))
	for _, name := range ff.Lifetimes {
		generics = append(generics, hir.GenericParam{Span: span, LifetimeName: name, ID: b.id(), Kind: hir.GPLifetime})
	}

	var self *hir.SelfParam

	if ff.Self != nil {
		self = &hir.SelfParam{Span: span, ByRef: ff.Self.ByRef, Mutable: ff.Self.Mutable}
		if ff.Self.ByRef {
			self.Lifetime = b.buildLifetime(ff.Self.Lifetime, span)
		}
	}

	params := make([]hir.Param, 0, len(ff.Params))

	for _, p := range ff.Params {
		params = append(params, hir.Param{Span: span, Name: p.Name, Type: b.buildType(p.Type, file)})
	}

	var ret hir.Type
	if ff.Return != nil {
		ret = b.buildType(ff.Return, file)
	}

	where := make([]hir.WherePredicate, 0, len(ff.Where))

	for _, w := range ff.Where {
		lifetimes := make([]hir.GenericParam, 0, len(w.Lifetimes))
		for _, name := range w.Lifetimes {
			lifetimes = append(lifetimes, hir.GenericParam{Span: span, LifetimeName: name, ID: b.id(), Kind: hir.GPLifetime})
		}

		var traitBounds []hir.TraitRef
		if w.Bound != "" {
			traitBounds = []hir.TraitRef{{Span: span, Path: *b.buildPath(w.Bound, "", span)}}
		}

		where = append(where, hir.WherePredicate{
			Span:           span,
			BoundLifetimes: lifetimes,
			Target:         b.buildPath(w.Target, "", span),
			Bounds:         traitBounds,
		})
	}

	return &hir.FunctionDecl{
		ID:        b.id(),
		Span:      span,
		Name:      ff.Name,
		Generics:  generics,
		Where:     where,
		Self:      self,
		Params:    params,
		Return:    ret,
		IsForeign: ff.Foreign,
	}
}

// buildLifetime converts the "", "elided", "static", "'name" convention
// into a LifetimeRef; "" and "elided" both yield an elided reference.
// Callers for which "" means no lifetime at all (buildPath) check for it
// before calling.
func (b *builder) buildLifetime(s string, span position.Span) *hir.LifetimeRef {
	switch s {
	case "", "elided":
		return &hir.LifetimeRef{Span: span, ID: b.id(), Kind: hir.LifetimeElided}
	case "static", "'static":
		return &hir.LifetimeRef{Span: span, ID: b.id(), Kind: hir.LifetimeStaticRef}
	default:
		return &hir.LifetimeRef{Span: span, ID: b.id(), Name: s, Kind: hir.LifetimeNamed}
	}
}

func (b *builder) buildType(t *fixtureType, file string) hir.Type {
	if t == nil {
		return &hir.UnitType{Span: zeroSpan(file)}
	}

	span := zeroSpan(file)

	switch t.Kind {
	case "ref":
		return &hir.ReferenceType{
			Span:     span,
			Lifetime: b.buildLifetime(t.Lifetime, span),
			Inner:    b.buildType(t.Inner, file),
			Mutable:  t.Mutable,
		}
	case "path":
		return b.buildPath(t.Name, t.Lifetime, span)
	case "tuple":
		elems := make([]hir.Type, 0, len(t.Elems))
		for _, e := range t.Elems {
			elems = append(elems, b.buildType(e, file))
		}

		return &hir.TupleType{Span: span, Elems: elems}
	case "slice":
		return &hir.SliceType{Span: span, Elem: b.buildType(t.Inner, file)}
	case "infer":
		return &hir.InferredType{Span: span}
	default:
		return &hir.UnitType{Span: span}
	}
}

// buildPath builds a single-segment path type, optionally carrying one
// lifetime argument (the common case a fixture needs: `Foo<'a>`).
func (b *builder) buildPath(name, lifetime string, span position.Span) *hir.PathType {
	var args []hir.GenericArg

	if lifetime != "" {
		args = []hir.GenericArg{{Kind: hir.ArgLifetime, Lifetime: b.buildLifetime(lifetime, span)}}
	}

	return &hir.PathType{Span: span, Segments: []hir.PathSegment{{Name: name, Args: args}}}
}

