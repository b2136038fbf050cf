package region

import (
	"github.com/orizon-lang/orizon-regions/internal/errors"
	"github.com/orizon-lang/orizon-regions/internal/hir"
)

// insertLifetime records the binding for one use site. A dummy node ID
// reaching here means a lifetime reference was constructed without ever
// being assigned a real ID upstream - a bug in whatever built the HIR, not
// a condition user source can trigger.
func (r *resolver) insertLifetime(ref *hir.LifetimeRef, def Region) {
	if ref.ID == hir.Dummy {
		panic(errors.ICE("region", "lifetime reference has no node ID"))
	}

	r.out.Defs[ref.ID] = def
}

// visitLifetimeRef dispatches one occurrence: an elided lifetime goes
// through the current Elision frame, 'static always resolves to the
// static region, and anything else is looked up by name.
func (r *resolver) visitLifetimeRef(scope *Scope, ref *hir.LifetimeRef) {
	switch ref.Kind {
	case hir.LifetimeElided:
		r.resolveElided(scope, []*hir.LifetimeRef{ref})
	case hir.LifetimeStaticRef:
		r.insertLifetime(ref, StaticRegion())
	default:
		r.resolveNamed(scope, ref)
	}
}

// resolveNamed looks a named lifetime up the scope chain; inside a Body
// frame a late-bound parameter resolves to Free (the body sees its own
// function's late-bound lifetimes from the call site, not as a binder
// level it could nest further instances under). An unresolved name is
// E0261.
func (r *resolver) resolveNamed(scope *Scope, ref *hir.LifetimeRef) {
	def, found, body, hasBody, _ := LookupLifetime(scope, ref.Name)
	if !found {
		reportUndeclaredLifetime(r.sess, ref)
		return
	}

	if hasBody && def.Kind == KindLateBound {
		if fnID, ok := r.bodyOwner[body]; ok {
			def = FreeRegion(hir.NewCallSiteScope(fnID, body), def.DeclID)
		}
	}

	r.insertLifetime(ref, def)
}

// resolveElided resolves a whole group of omitted lifetime references
// (e.g. every elided lifetime on one `Foo<'_, '_>`) against the nearest
// enclosing scope frame: a Body halts resolution (inference fills it in),
// reaching Root without finding an Elision frame is E0106, a Binder
// frame is crossed with one more unit of late-bound depth and otherwise
// skipped, and an Elision frame resolves the whole group per its policy.
func (r *resolver) resolveElided(scope *Scope, refs []*hir.LifetimeRef) {
	if len(refs) == 0 {
		return
	}

	lateDepth := uint32(0)
	s := scope

	for {
		switch s.Kind {
		case ScopeBody:
			return
		case ScopeRoot:
			reportMissingLifetime(r.sess, refs[0].Span, len(refs), nil)
			return
		case ScopeBinder:
			lateDepth++
			s = s.Parent
		case ScopeElision:
			switch s.Elide.Kind {
			case ElideFreshLateAnon:
				for _, ref := range refs {
					r.insertLifetime(ref, s.Elide.Counter.Next().Shifted(lateDepth))
				}

				return
			case ElideExact:
				def := s.Elide.Exact.Shifted(lateDepth)
				for _, ref := range refs {
					r.insertLifetime(ref, def)
				}

				return
			case ElideStatic:
				if !r.sess.FeatureEnabled("static_in_const") {
					reportStaticInConst(r.sess, refs[0].Span)
				}

				for _, ref := range refs {
					r.insertLifetime(ref, StaticRegion())
				}

				return
			case ElideError:
				if len(refs) == 1 {
					reportMissingLifetime(r.sess, refs[0].Span, len(refs), s.Elide.Failure)
				} else {
					reportMissingLifetime(r.sess, refs[0].Span, len(refs), nil)
				}

				return
			}
		}
	}
}
