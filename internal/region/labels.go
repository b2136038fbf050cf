package region

import (
	"github.com/orizon-lang/orizon-regions/internal/hir"
	"github.com/orizon-lang/orizon-regions/internal/position"
)

// labelEntry is one loop label seen so far while walking the body
// currently under the resolver, in declaration order.
type labelEntry struct {
	Name string
	Span position.Span
}

// recordLabel is called the moment a labelled loop is encountered during
// a body's traversal: it reports a label shadowing an earlier label in
// the same body, or a lifetime already in scope at this point, then adds
// itself to r.labelsInFn so later declarations in the same body can be
// checked against it in turn.
func (r *resolver) recordLabel(scope *Scope, l *hir.Label) {
	if l == nil {
		return
	}

	for _, prior := range r.labelsInFn {
		if prior.Name == l.Name {
			reportShadowing(r.sess, l.Name, false, false, prior.Span, l.Span)
		}
	}

	if declSpan, found := WalkShadow(scope, l.Name); found {
		reportShadowing(r.sess, l.Name, true, false, declSpan, l.Span)
	}

	r.labelsInFn = append(r.labelsInFn, labelEntry{Name: l.Name, Span: l.Span})
}

// checkLifetimeDefs validates one Binder's worth of lifetime declarations
// against each other and against the scope (and labels) they are about to
// be pushed onto: 'static is reserved (E0262), duplicate names in the
// same binder are an error (E0263), and a name shadowing an enclosing
// binder or an in-scope label is reported (error between two lifetimes,
// warning otherwise).
func (r *resolver) checkLifetimeDefs(parent *Scope, lifetimes []hir.GenericParam) {
	for i, li := range lifetimes {
		if li.Kind != hir.GPLifetime {
			continue
		}

		if li.LifetimeName == "'static" {
			reportReservedLifetimeName(r.sess, li.Span, li.LifetimeName)
		}

		for j := i + 1; j < len(lifetimes); j++ {
			lj := lifetimes[j]
			if lj.Kind != hir.GPLifetime {
				continue
			}

			if li.LifetimeName == lj.LifetimeName {
				reportDuplicateLifetimeDecl(r.sess, lj.Span, lj.LifetimeName)
			}
		}

		for _, l := range r.labelsInFn {
			if l.Name == li.LifetimeName {
				reportShadowing(r.sess, li.LifetimeName, false, true, l.Span, li.Span)
			}
		}

		if declSpan, found := WalkShadow(parent, li.LifetimeName); found {
			reportShadowing(r.sess, li.LifetimeName, true, true, declSpan, li.Span)
		}
	}
}
