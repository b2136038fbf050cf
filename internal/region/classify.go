package region

import "github.com/orizon-lang/orizon-regions/internal/hir"

// classifyLateBound decides which of fn's own lifetime parameters are
// late-bound: every lifetime parameter not mentioned in a where-clause and
// not disqualified by an `impl Trait` return. Anything not late-bound is
// early-bound. Populates m.LateBound for every late-bound declaration;
// whether the lifetime is constrained by an input type only decides its
// state (IssueWillChange when it is not constrained by the inputs but does
// appear in the output - the historical implicit-output-lifetime
// allowance; IssueWontChange otherwise).
func classifyLateBound(m *NamedRegionMap, fn *hir.FunctionDecl) {
	constrained := map[string]bool{}

	for _, p := range fn.Params {
		collectConstrainedByInput(p.Type, constrained)
	}

	if fn.Self != nil && fn.Self.ByRef && fn.Self.Lifetime != nil && fn.Self.Lifetime.Kind == hir.LifetimeNamed {
		constrained[fn.Self.Lifetime.Name] = true
	}

	output := map[string]bool{}
	implTraitOutput := false

	if fn.Return != nil {
		collectAll(fn.Return, output)
		implTraitOutput = containsImplTrait(fn.Return)
	}

	whereNames := map[string]bool{}

	for _, w := range fn.Where {
		collectAll(w.Target, whereNames)

		for _, b := range w.Bounds {
			collectAllPath(&b.Path, whereNames)
		}
	}

	for _, g := range fn.Generics {
		if g.Kind != hir.GPLifetime {
			continue
		}

		if whereNames[g.LifetimeName] {
			continue
		}

		if implTraitOutput {
			continue
		}

		state := IssueWontChange
		if !constrained[g.LifetimeName] && output[g.LifetimeName] {
			state = IssueWillChange
		}

		m.LateBound[g.ID] = state
	}
}

// collectConstrainedByInput gathers lifetime names that genuinely
// constrain an input type: every lifetime reachable through ordinary
// structural position, except ones appearing only inside an associated
// type projection's qualified self or non-final path segments, which do
// not pin down which concrete type is meant.
func collectConstrainedByInput(t hir.Type, out map[string]bool) {
	if t == nil {
		return
	}

	switch v := t.(type) {
	case *hir.PathType:
		// A qualified self (`<T as Trait<...>>::`) is never visited: only
		// the final segment's own arguments constrain.
		if len(v.Segments) == 0 {
			return
		}

		collectArgsConstrained(v.Segments[len(v.Segments)-1].Args, out)
	case *hir.ReferenceType:
		if v.Lifetime != nil && v.Lifetime.Kind == hir.LifetimeNamed {
			out[v.Lifetime.Name] = true
		}

		collectConstrainedByInput(v.Inner, out)
	case *hir.TupleType:
		for _, e := range v.Elems {
			collectConstrainedByInput(e, out)
		}
	case *hir.SliceType:
		collectConstrainedByInput(v.Elem, out)
	case *hir.BareFnType:
		for _, p := range v.Params {
			collectConstrainedByInput(p, out)
		}

		collectConstrainedByInput(v.Return, out)
	case *hir.TraitObjectType:
		for i := range v.Bounds {
			collectArgsConstrained(lastSegmentArgs(&v.Bounds[i].Path), out)
		}

		if v.Region != nil && v.Region.Kind == hir.LifetimeNamed {
			out[v.Region.Name] = true
		}
	case *hir.ImplTraitType:
		// impl Trait in argument position behaves like an anonymous
		// type parameter bound by its trait's lifetimes.
		for i := range v.Bounds {
			collectArgsConstrained(lastSegmentArgs(&v.Bounds[i].Path), out)
		}
	}
}

func collectArgsConstrained(args []hir.GenericArg, out map[string]bool) {
	for _, a := range args {
		switch a.Kind {
		case hir.ArgLifetime:
			if a.Lifetime != nil && a.Lifetime.Kind == hir.LifetimeNamed {
				out[a.Lifetime.Name] = true
			}
		case hir.ArgType:
			collectConstrainedByInput(a.Type, out)
		}
	}
}

func lastSegmentArgs(p *hir.PathType) []hir.GenericArg {
	if len(p.Segments) == 0 {
		return nil
	}

	return p.Segments[len(p.Segments)-1].Args
}

// collectAll gathers every named lifetime appearing anywhere in t,
// ignoring binder/projection subtleties - used for the output and
// where-clause sets, which only need membership, not constraint
// strength.
func collectAll(t hir.Type, out map[string]bool) {
	if t == nil {
		return
	}

	switch v := t.(type) {
	case *hir.PathType:
		collectAllPath(v, out)
	case *hir.ReferenceType:
		if v.Lifetime != nil && v.Lifetime.Kind == hir.LifetimeNamed {
			out[v.Lifetime.Name] = true
		}

		collectAll(v.Inner, out)
	case *hir.TupleType:
		for _, e := range v.Elems {
			collectAll(e, out)
		}
	case *hir.SliceType:
		collectAll(v.Elem, out)
	case *hir.BareFnType:
		for _, p := range v.Params {
			collectAll(p, out)
		}

		collectAll(v.Return, out)
	case *hir.TraitObjectType:
		for i := range v.Bounds {
			collectAllPath(&v.Bounds[i].Path, out)
		}

		if v.Region != nil && v.Region.Kind == hir.LifetimeNamed {
			out[v.Region.Name] = true
		}
	case *hir.ImplTraitType:
		for i := range v.Bounds {
			collectAllPath(&v.Bounds[i].Path, out)
		}
	}
}

func collectAllPath(p *hir.PathType, out map[string]bool) {
	if p.QSelf != nil {
		collectAll(p.QSelf.Self, out)

		if p.QSelf.Trait != nil {
			collectAllPath(p.QSelf.Trait, out)
		}
	}

	for _, seg := range p.Segments {
		for _, a := range seg.Args {
			switch a.Kind {
			case hir.ArgLifetime:
				if a.Lifetime != nil && a.Lifetime.Kind == hir.LifetimeNamed {
					out[a.Lifetime.Name] = true
				}
			case hir.ArgType:
				collectAll(a.Type, out)
			}
		}
	}
}

func containsImplTrait(t hir.Type) bool {
	switch v := t.(type) {
	case *hir.ImplTraitType:
		return true
	case *hir.ReferenceType:
		return containsImplTrait(v.Inner)
	case *hir.TupleType:
		for _, e := range v.Elems {
			if containsImplTrait(e) {
				return true
			}
		}

		return false
	case *hir.SliceType:
		return containsImplTrait(v.Elem)
	default:
		return false
	}
}
