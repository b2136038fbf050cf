package region

import (
	"github.com/orizon-lang/orizon-regions/internal/hir"
	"github.com/orizon-lang/orizon-regions/internal/session"
)

// resolver holds the state threaded through one crate's worth of
// traversal: the session diagnostics/features are reported through, the
// HIR map (for anything the walk itself doesn't already carry), the
// output map being built, which function owns each body (for Free-region
// promotion), the loop labels seen so far in the body currently being
// walked (reset and restored around each nested body, mirroring how far a
// label's shadow-checking reach extends), and the trait_ref_hack flag
// governing how many levels of `for<...>` quantification a single
// higher-ranked trait bound may absorb into one Binder frame.
type resolver struct {
	sess         *session.Session
	hirMap       *hir.Map
	out          *NamedRegionMap
	bodyOwner    map[hir.BodyID]hir.NodeID
	labelsInFn   []labelEntry
	traitRefHack bool
}

// Resolve walks every item in crate and returns the completed named
// region map. Diagnostics (including every failure) are reported to sess;
// sess.ErrorCount() tells the caller whether the result can be trusted.
func Resolve(crate *hir.Crate, hirMap *hir.Map, sess *session.Session) *NamedRegionMap {
	tracker := session.NewTracker()
	defer tracker.Enter("resolve-lifetimes")()

	r := &resolver{
		sess:      sess,
		hirMap:    hirMap,
		out:       newNamedRegionMap(),
		bodyOwner: map[hir.BodyID]hir.NodeID{},
	}

	for _, it := range crate.Items {
		r.visitItem(RootScope, it)
	}

	return r.out
}

func (r *resolver) visitItem(scope *Scope, it hir.Item) {
	switch v := it.(type) {
	case *hir.FunctionDecl:
		r.visitEarlyLate(scope, v)
	case *hir.StructDecl:
		r.withEarlyBoundBinder(scope, v.Generics, 0, func(s *Scope) {
			for _, f := range v.Fields {
				r.visitType(s, f.Type)
			}
		})
	case *hir.EnumDecl:
		r.withEarlyBoundBinder(scope, v.Generics, 0, func(s *Scope) {
			for _, variant := range v.Variants {
				for _, f := range variant.Fields {
					r.visitType(s, f.Type)
				}
			}
		})
	case *hir.UnionDecl:
		r.withEarlyBoundBinder(scope, v.Generics, 0, func(s *Scope) {
			for _, f := range v.Fields {
				r.visitType(s, f.Type)
			}
		})
	case *hir.TraitDecl:
		offset := earlyBoundOffset(v.Generics, true)

		r.withEarlyBoundBinder(scope, v.Generics, 1, func(s *Scope) {
			r.visitWhere(s, v.Where)

			for _, sub := range v.Items {
				setMethodEarlyOffset(sub, offset)
				r.visitItem(s, sub)
			}
		})
	case *hir.ImplDecl:
		offset := earlyBoundOffset(v.Generics, false)

		r.withEarlyBoundBinder(scope, v.Generics, 0, func(s *Scope) {
			r.visitWhere(s, v.Where)
			r.visitType(s, v.SelfType)

			if v.Trait != nil {
				r.visitTraitRefPlain(s, v.Trait)
			}

			for _, sub := range v.Items {
				setMethodEarlyOffset(sub, offset)
				r.visitItem(s, sub)
			}
		})
	case *hir.StaticDecl:
		s := PushElision(RootScope, NewStaticElide())
		r.visitType(s, v.Type)

		if v.Value != nil {
			r.visitBody(s, v.Value)
		}
	case *hir.ConstDecl:
		s := PushElision(RootScope, NewStaticElide())
		r.visitType(s, v.Type)

		if v.Value != nil {
			r.visitBody(s, v.Value)
		}
	case *hir.TypeAliasDecl:
		r.withEarlyBoundBinder(scope, v.Generics, 0, func(s *Scope) {
			r.visitType(s, v.Underlying)
		})
	case *hir.ModDecl:
		for _, sub := range v.Items {
			r.visitItem(scope, sub)
		}
	case *hir.ForeignModDecl:
		for _, sub := range v.Items {
			r.visitItem(scope, sub)
		}
	case *hir.DefaultImplDecl:
		r.visitTraitRefPlain(scope, &v.Trait)
	case *hir.ExternCrateDecl, *hir.UseDecl:
		// no lifetime-relevant children.
	}
}

// earlyBoundOffset counts how many of a trait/impl's own generics occupy
// an early-bound slot (lifetime and type params; const params are never
// part of a lifetime-substitution list) - a trait also reserves one more
// slot ahead of them for its implicit Self type parameter.
func earlyBoundOffset(generics []hir.GenericParam, isTrait bool) int {
	n := 0

	for i := range generics {
		if generics[i].Kind == hir.GPLifetime || generics[i].Kind == hir.GPType {
			n++
		}
	}

	if isTrait {
		n++
	}

	return n
}

// setMethodEarlyOffset fills in a method's EarlyOffset from its enclosing
// trait/impl before visitEarlyLate classifies and numbers its own
// generics; non-function items (associated consts/types) are untouched.
func setMethodEarlyOffset(it hir.Item, offset int) {
	if fn, ok := it.(*hir.FunctionDecl); ok {
		fn.EarlyOffset = offset
	}
}

// withEarlyBoundBinder pushes a Binder holding every lifetime param of
// generics, indexed from startIndex (1 on a trait, to leave room for its
// implicit Self slot; 0 everywhere else), runs body, and validates the
// declarations for reserved names, in-binder duplicates, and shadowing
// against the enclosing scope before doing so.
func (r *resolver) withEarlyBoundBinder(scope *Scope, generics []hir.GenericParam, startIndex uint32, body func(*Scope)) {
	lifetimes := map[string]boundLifetime{}
	index := startIndex

	for i := range generics {
		g := &generics[i]
		if g.Kind != hir.GPLifetime {
			continue
		}

		lifetimes[g.LifetimeName] = boundLifetime{Region: EarlyBoundRegion(index, g.ID), Span: g.Span}
		index++
	}

	r.checkLifetimeDefs(scope, generics)

	body(PushBinder(scope, lifetimes))
}

// visitEarlyLate handles a function/method/foreign-fn's own generics:
// classifyLateBound decides which of its lifetime params are late-bound
// (depth 1, keyed by name) vs. early-bound (numbered starting at
// fn.EarlyOffset, which setMethodEarlyOffset already set, from the
// enclosing impl/trait generics plus an implicit Self slot, before
// visitItem descended into this method; 0 for a free function).
func (r *resolver) visitEarlyLate(scope *Scope, fn *hir.FunctionDecl) {
	classifyLateBound(r.out, fn)

	lifetimes := map[string]boundLifetime{}
	index := uint32(fn.EarlyOffset)

	for i := range fn.Generics {
		g := &fn.Generics[i]
		if g.Kind != hir.GPLifetime {
			continue
		}

		if r.out.IsLateBound(g.ID) {
			lifetimes[g.LifetimeName] = boundLifetime{Region: LateBoundRegion(g.ID), Span: g.Span}
		} else {
			lifetimes[g.LifetimeName] = boundLifetime{Region: EarlyBoundRegion(index, g.ID), Span: g.Span}
			index++
		}
	}

	r.checkLifetimeDefs(scope, fn.Generics)

	s := PushBinder(scope, lifetimes)

	r.visitWhere(s, fn.Where)

	r.resolveFnElision(s, fn)

	if fn.Body != nil {
		r.bodyOwner[fn.Body.ID] = fn.ID
		r.visitBody(s, fn.Body)
	}
}

func (r *resolver) visitWhere(scope *Scope, preds []hir.WherePredicate) {
	for i := range preds {
		w := &preds[i]

		if len(w.BoundLifetimes) == 0 {
			r.visitType(scope, w.Target)

			for i := range w.Bounds {
				r.visitTraitRefPlain(scope, &w.Bounds[i])
			}

			continue
		}

		saved := r.traitRefHack
		r.traitRefHack = true

		lifetimes := map[string]boundLifetime{}

		for i := range w.BoundLifetimes {
			g := &w.BoundLifetimes[i]
			lifetimes[g.LifetimeName] = boundLifetime{Region: LateBoundRegion(g.ID), Span: g.Span}
		}

		r.checkLifetimeDefs(scope, w.BoundLifetimes)

		s := PushBinder(scope, lifetimes)
		r.visitType(s, w.Target)

		for i := range w.Bounds {
			r.visitTraitRefPlain(s, &w.Bounds[i])
		}

		r.traitRefHack = saved
	}
}

// visitTraitRefPlain handles a trait reference in an impl header, a
// default impl, or a where-clause bound by deferring to visitPolyTraitRef:
// inside a where-clause whose `for<...>` binder is already pushed, a
// further `for<...>` prefix on the bound is reported as E0316 and still
// gets its own Binder.
func (r *resolver) visitTraitRefPlain(scope *Scope, t *hir.TraitRef) {
	r.visitPolyTraitRef(scope, t)
}

// visitPolyTraitRef is `T: for<'a> Trait<'a>` / `for<'a> T: Trait<'a>`
// (the latter folded together with the former into one Binder by
// visitWhere's trait_ref_hack, to avoid introducing a de Bruijn level for
// a quantifier written in either position). A `for<...>` nested inside
// one already absorbed this way is E0316.
func (r *resolver) visitPolyTraitRef(scope *Scope, t *hir.TraitRef) {
	if r.traitRefHack && len(t.BoundLifetimes) == 0 {
		r.visitPathType(scope, &t.Path)
		return
	}

	if r.traitRefHack {
		reportNestedHRTB(r.sess, t.Span)
	}

	lifetimes := map[string]boundLifetime{}

	for i := range t.BoundLifetimes {
		g := &t.BoundLifetimes[i]
		lifetimes[g.LifetimeName] = boundLifetime{Region: LateBoundRegion(g.ID), Span: g.Span}
	}

	r.checkLifetimeDefs(scope, t.BoundLifetimes)

	s := PushBinder(scope, lifetimes)
	r.visitPathType(s, &t.Path)
}

func (r *resolver) visitType(scope *Scope, t hir.Type) {
	if t == nil {
		return
	}

	switch v := t.(type) {
	case *hir.PathType:
		r.visitPathType(scope, v)
	case *hir.ReferenceType:
		if v.Lifetime != nil {
			r.visitLifetimeRef(scope, v.Lifetime)
		}

		r.visitType(scope, v.Inner)
	case *hir.BareFnType:
		lifetimes := map[string]boundLifetime{}

		for i := range v.LifetimeParams {
			g := &v.LifetimeParams[i]
			lifetimes[g.LifetimeName] = boundLifetime{Region: LateBoundRegion(g.ID), Span: g.Span}
		}

		r.checkLifetimeDefs(scope, v.LifetimeParams)

		s := PushBinder(scope, lifetimes)

		for _, p := range v.Params {
			r.visitType(s, p)
		}

		r.visitType(s, v.Return)
	case *hir.TraitObjectType:
		for i := range v.Bounds {
			r.visitPolyTraitRef(scope, &v.Bounds[i])
		}

		if v.Region != nil {
			r.visitLifetimeRef(scope, v.Region)
		}
	case *hir.ImplTraitType:
		for i := range v.Bounds {
			r.visitPolyTraitRef(scope, &v.Bounds[i])
		}
	case *hir.TupleType:
		for _, e := range v.Elems {
			r.visitType(scope, e)
		}
	case *hir.SliceType:
		r.visitType(scope, v.Elem)
	case *hir.InferredType, *hir.UnitType:
		// leaves.
	}
}

func (r *resolver) visitPathType(scope *Scope, p *hir.PathType) {
	if p.QSelf != nil {
		r.visitType(scope, p.QSelf.Self)

		if p.QSelf.Trait != nil {
			r.visitPathType(scope, p.QSelf.Trait)
		}
	}

	for _, seg := range p.Segments {
		var elided []*hir.LifetimeRef

		allElided := len(seg.Args) > 0

		for _, a := range seg.Args {
			if a.Kind == hir.ArgLifetime && a.Lifetime != nil && a.Lifetime.Kind == hir.LifetimeElided {
				elided = append(elided, a.Lifetime)
			} else if a.Kind == hir.ArgLifetime {
				allElided = false
			}
		}

		if allElided && len(elided) > 0 {
			r.resolveElided(scope, elided)
		} else {
			for _, a := range seg.Args {
				if a.Kind == hir.ArgLifetime && a.Lifetime != nil {
					r.visitLifetimeRef(scope, a.Lifetime)
				}
			}
		}

		for _, a := range seg.Args {
			if a.Kind == hir.ArgType {
				r.visitType(scope, a.Type)
			}
		}
	}
}

// visitBody enters a function/closure body: its own set of loop labels
// starts empty (a label's shadow-checking reach never crosses into an
// enclosing or nested body) and the call-site Body frame makes named
// late-bound lifetimes resolve to Free and halts elision.
func (r *resolver) visitBody(scope *Scope, b *hir.Body) {
	saved := r.labelsInFn
	r.labelsInFn = nil

	s := PushBody(scope, b.ID)

	if b.Block != nil {
		r.visitBlock(s, b.Block)
	}

	r.labelsInFn = saved
}

func (r *resolver) visitBlock(scope *Scope, b *hir.Block) {
	for _, st := range b.Stmts {
		r.visitStmt(scope, st)
	}
}

func (r *resolver) visitStmt(scope *Scope, st hir.Stmt) {
	switch v := st.(type) {
	case *hir.LetStmt:
		if v.Type != nil {
			r.visitType(scope, v.Type)
		}

		r.visitExpr(scope, v.Init)
	case *hir.ExprStmt:
		r.visitExpr(scope, v.Expr)
	case *hir.LoopStmt:
		r.recordLabel(scope, v.Label)

		if v.Body != nil {
			r.visitBlock(scope, v.Body)
		}
	}
}

func (r *resolver) visitExpr(scope *Scope, e hir.Expr) {
	if e == nil {
		return
	}

	switch v := e.(type) {
	case *hir.PathExpr:
		r.visitPathType(scope, &v.Path)
	case *hir.CastExpr:
		r.visitExpr(scope, v.Value)
		r.visitType(scope, v.Type)
	case *hir.BlockExpr:
		if v.Block != nil {
			r.visitBlock(scope, v.Block)
		}
	case *hir.LoopExpr:
		r.recordLabel(scope, v.Label)

		if v.Body != nil {
			r.visitBlock(scope, v.Body)
		}
	case *hir.CallExpr:
		r.visitExpr(scope, v.Callee)

		for _, a := range v.Args {
			r.visitExpr(scope, a)
		}
	case *hir.ClosureExpr:
		r.visitClosure(scope, v)
	case *hir.LeafExpr:
		// no substructure.
	}
}

// visitClosure: a closure's return type enjoys no lifetime elision at all
// (unlike a fn item/method), so its inputs and return are both just
// ordinary type visits under the ambient scope, with no Elision frame.
func (r *resolver) visitClosure(scope *Scope, c *hir.ClosureExpr) {
	for _, p := range c.Params {
		r.visitType(scope, p.Type)
	}

	r.visitType(scope, c.Return)

	if c.Body != nil {
		r.bodyOwner[c.Body.ID] = hir.Dummy
		r.visitBody(scope, c.Body)
	}
}
