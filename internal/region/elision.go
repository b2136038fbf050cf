package region

import "github.com/orizon-lang/orizon-regions/internal/hir"

// resolveFnElision resolves every input's lifetimes under a fresh
// anonymous-late-bound scope (self counts as inputs[0], visited first, so
// an elided `&self` picks up a region here rather than hitting Root with
// no Elision frame in sight), then picks the policy an omitted output
// lifetime resolves through: the self parameter's region when this is a
// method taking `&self`/`&'a self`, the one lifetime appearing across all
// inputs when exactly one does, or an elision-failure scope otherwise. A
// foreign function reuses the same FreshLateAnon counter its inputs
// consumed for its output instead - a long-standing historical allowance,
// kept rather than silently tightened.
func (r *resolver) resolveFnElision(scope *Scope, fn *hir.FunctionDecl) {
	argScope := PushElision(scope, NewFreshLateAnon())

	if fn.Self != nil && fn.Self.ByRef && fn.Self.Lifetime != nil {
		r.visitLifetimeRef(argScope, fn.Self.Lifetime)
	}

	for _, p := range fn.Params {
		r.visitType(argScope, p.Type)
	}

	if fn.Return == nil {
		return
	}

	if fn.IsForeign {
		r.visitType(argScope, fn.Return)
		return
	}

	if fn.Self != nil && fn.Self.ByRef && fn.Self.Lifetime != nil {
		if selfRegion, ok := r.out.Defs[fn.Self.Lifetime.ID]; ok {
			s := PushElision(scope, NewExactElide(selfRegion))
			r.visitType(s, fn.Return)

			return
		}
	}

	inputLifetimes := map[Region]struct{}{}
	failures := make([]ElisionFailureInfo, 0, len(fn.Params))

	for i, p := range fn.Params {
		lifetimes, haveBound := r.gatherLifetimes(p.Type)
		for reg := range lifetimes {
			inputLifetimes[reg] = struct{}{}
		}

		failures = append(failures, ElisionFailureInfo{
			ArgName:          p.Name,
			Index:            i,
			LifetimeCount:    len(lifetimes),
			HaveBoundRegions: haveBound,
		})
	}

	var elide Elide
	if len(inputLifetimes) == 1 {
		for reg := range inputLifetimes {
			elide = NewExactElide(reg)
		}
	} else {
		elide = NewErrorElide(failures)
	}

	s := PushElision(scope, elide)
	r.visitType(s, fn.Return)
}

// gatherLifetimes collects the distinct (already-resolved) lifetimes
// appearing anywhere in t at its own top level, normalized as if viewed
// from immediately outside t, and flags whether any lifetime bound by a
// binder local to t (a nested `for<...>` or bare-fn) was skipped as a
// result.
func (r *resolver) gatherLifetimes(t hir.Type) (map[Region]struct{}, bool) {
	g := &lifetimeGatherer{defs: r.out.Defs, depth: 1, lifetimes: map[Region]struct{}{}}
	g.visitType(t)

	return g.lifetimes, g.haveBound
}

type lifetimeGatherer struct {
	defs      map[hir.NodeID]Region
	depth     uint32
	lifetimes map[Region]struct{}
	haveBound bool
}

func (g *lifetimeGatherer) visitLifetimeRef(ref *hir.LifetimeRef) {
	def, ok := g.defs[ref.ID]
	if !ok {
		return
	}

	if (def.Kind == KindLateBound || def.Kind == KindLateBoundAnon) && def.Depth < g.depth {
		g.haveBound = true
		return
	}

	g.lifetimes[def.FromDepth(g.depth)] = struct{}{}
}

func (g *lifetimeGatherer) visitType(t hir.Type) {
	if t == nil {
		return
	}

	switch v := t.(type) {
	case *hir.PathType:
		g.visitPathType(v)
	case *hir.ReferenceType:
		if v.Lifetime != nil {
			g.visitLifetimeRef(v.Lifetime)
		}

		g.visitType(v.Inner)
	case *hir.BareFnType:
		g.depth++

		for _, p := range v.Params {
			g.visitType(p)
		}

		g.visitType(v.Return)
		g.depth--
	case *hir.TraitObjectType:
		for i := range v.Bounds {
			g.visitTraitRef(&v.Bounds[i])
		}

		if v.Region != nil {
			g.visitLifetimeRef(v.Region)
		}
	case *hir.ImplTraitType:
		for i := range v.Bounds {
			g.visitTraitRef(&v.Bounds[i])
		}
	case *hir.TupleType:
		for _, e := range v.Elems {
			g.visitType(e)
		}
	case *hir.SliceType:
		g.visitType(v.Elem)
	}
}

func (g *lifetimeGatherer) visitPathType(p *hir.PathType) {
	if p.QSelf != nil {
		g.visitType(p.QSelf.Self)

		if p.QSelf.Trait != nil {
			g.visitPathType(p.QSelf.Trait)
		}
	}

	for _, seg := range p.Segments {
		for _, a := range seg.Args {
			switch a.Kind {
			case hir.ArgLifetime:
				if a.Lifetime != nil {
					g.visitLifetimeRef(a.Lifetime)
				}
			case hir.ArgType:
				g.visitType(a.Type)
			}
		}
	}
}

func (g *lifetimeGatherer) visitTraitRef(t *hir.TraitRef) {
	g.depth++
	g.visitPathType(&t.Path)
	g.depth--
}
