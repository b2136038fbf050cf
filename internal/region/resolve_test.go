package region

import (
	"testing"

	"github.com/orizon-lang/orizon-regions/internal/hir"
	"github.com/orizon-lang/orizon-regions/internal/position"
	"github.com/orizon-lang/orizon-regions/internal/session"
)

var nextTestID hir.NodeID = 1

func id() hir.NodeID {
	nextTestID++
	return nextTestID
}

func sp() position.Span {
	p := position.Position{Filename: "test.oriz", Line: 1, Column: 1, Offset: 0}
	return position.Span{Start: p, End: p}
}

func named(name string) *hir.LifetimeRef {
	return &hir.LifetimeRef{Span: sp(), Name: name, ID: id(), Kind: hir.LifetimeNamed}
}

func elided() *hir.LifetimeRef {
	return &hir.LifetimeRef{Span: sp(), ID: id(), Kind: hir.LifetimeElided}
}

func staticRef() *hir.LifetimeRef {
	return &hir.LifetimeRef{Span: sp(), ID: id(), Kind: hir.LifetimeStaticRef}
}

func lifetimeParam(name string) hir.GenericParam {
	return hir.GenericParam{Span: sp(), LifetimeName: name, ID: id(), Kind: hir.GPLifetime}
}

func refType(lt *hir.LifetimeRef, inner hir.Type) *hir.ReferenceType {
	return &hir.ReferenceType{Span: sp(), Lifetime: lt, Inner: inner}
}

func pathType(name string, args ...hir.GenericArg) *hir.PathType {
	return &hir.PathType{Span: sp(), Segments: []hir.PathSegment{{Name: name, Args: args}}}
}

func run(t *testing.T, fn *hir.FunctionDecl) (*NamedRegionMap, *session.Session) {
	t.Helper()

	sess := session.New("2024")
	crate := &hir.Crate{Items: []hir.Item{fn}}
	hirMap := hir.Build(crate)
	m := Resolve(crate, hirMap, sess)

	return m, sess
}

// fn foo<'a>(x: &'a i32) -> &'a i32
func TestNamedLifetimeRoundTrip(t *testing.T) {
	aParam := lifetimeParam("'a")
	aUseIn := named("'a")
	aUseOut := named("'a")

	fn := &hir.FunctionDecl{
		ID:       id(),
		Span:     sp(),
		Name:     "foo",
		Generics: []hir.GenericParam{aParam},
		Params:   []hir.Param{{Name: "x", Type: refType(aUseIn, pathType("i32"))}},
		Return:   refType(aUseOut, pathType("i32")),
	}

	m, sess := run(t, fn)

	if sess.ErrorCount() != 0 {
		t.Fatalf("unexpected errors: %v", sess.Diagnostics())
	}

	in, ok := m.Defs[aUseIn.ID]
	if !ok || in.Kind != KindLateBound {
		t.Fatalf("expected 'a used in input to resolve late-bound, got %+v (ok=%v)", in, ok)
	}

	out, ok := m.Defs[aUseOut.ID]
	if !ok || out.Kind != KindLateBound || out.DeclID != in.DeclID {
		t.Fatalf("expected 'a used in output to resolve to the same late-bound decl, got %+v", out)
	}

	if !m.IsLateBound(aParam.ID) {
		t.Fatalf("'a is constrained by an input type; it must be late-bound")
	}
}

// fn bar<'a>(f: fn(&'a i32)) -> i32   — 'a appears only inside a bare-fn
// argument, not directly in an input reference, but still constrains it,
// so it is still late-bound; this exercises collectConstrainedByInput's
// BareFnType case.
func TestLateBoundWhenConstrainedThroughBareFnInput(t *testing.T) {
	aParam := lifetimeParam("'a")
	aUse := named("'a")

	fn := &hir.FunctionDecl{
		ID:       id(),
		Span:     sp(),
		Name:     "bar",
		Generics: []hir.GenericParam{aParam},
		Params: []hir.Param{{Name: "f", Type: &hir.BareFnType{
			Span:   sp(),
			Params: []hir.Type{refType(aUse, pathType("i32"))},
		}}},
		Return: pathType("i32"),
	}

	m, sess := run(t, fn)

	if sess.ErrorCount() != 0 {
		t.Fatalf("unexpected errors: %v", sess.Diagnostics())
	}

	if !m.IsLateBound(aParam.ID) {
		t.Fatalf("'a is constrained through the bare-fn input; expected late-bound")
	}
}

// fn baz<'a>() -> &'a i32  — 'a appears only in the output, never
// constrained by any input: late-bound, flagged IssueWillChange.
func TestUnconstrainedOutputOnlyLifetimeIsLateBoundWillChange(t *testing.T) {
	aParam := lifetimeParam("'a")
	aUse := named("'a")

	fn := &hir.FunctionDecl{
		ID:       id(),
		Span:     sp(),
		Name:     "baz",
		Generics: []hir.GenericParam{aParam},
		Return:   refType(aUse, pathType("i32")),
	}

	m, sess := run(t, fn)

	if sess.ErrorCount() != 0 {
		t.Fatalf("unexpected errors: %v", sess.Diagnostics())
	}

	if !m.IsLateBound(aParam.ID) {
		t.Fatalf("expected 'a to be classified late-bound")
	}

	if m.LateBound[aParam.ID] != IssueWillChange {
		t.Fatalf("expected IssueWillChange, got %v", m.LateBound[aParam.ID])
	}

	out := m.Defs[aUse.ID]
	if out.Kind != KindLateBound || out.Depth != 1 {
		t.Fatalf("expected late-bound region at depth 1, got %+v", out)
	}
}

// fn single(x: &i32) -> &i32  — exactly one elided input lifetime lets
// output elision resolve to it.
func TestSingleInputElisionResolvesOutput(t *testing.T) {
	inElided := elided()
	outElided := elided()

	fn := &hir.FunctionDecl{
		ID:     id(),
		Span:   sp(),
		Name:   "single",
		Params: []hir.Param{{Name: "x", Type: refType(inElided, pathType("i32"))}},
		Return: refType(outElided, pathType("i32")),
	}

	m, sess := run(t, fn)

	if sess.ErrorCount() != 0 {
		t.Fatalf("unexpected errors: %v", sess.Diagnostics())
	}

	in, ok := m.Defs[inElided.ID]
	if !ok || in.Kind != KindLateBoundAnon {
		t.Fatalf("expected input elision to resolve to a fresh anon late-bound region, got %+v", in)
	}

	out, ok := m.Defs[outElided.ID]
	if !ok || out != in {
		t.Fatalf("expected output elision to resolve to the same region as the single input, in=%+v out=%+v", in, out)
	}
}

// fn multi(x: &i32, y: &i32) -> &i32  — two candidate input lifetimes, no
// way to disambiguate: E0106 with two-argument help text.
func TestAmbiguousElisionIsE0106(t *testing.T) {
	xElided := elided()
	yElided := elided()
	outElided := elided()

	fn := &hir.FunctionDecl{
		ID:   id(),
		Span: sp(),
		Name: "multi",
		Params: []hir.Param{
			{Name: "x", Type: refType(xElided, pathType("i32"))},
			{Name: "y", Type: refType(yElided, pathType("i32"))},
		},
		Return: refType(outElided, pathType("i32")),
	}

	_, sess := run(t, fn)

	if sess.ErrorCount() != 1 {
		t.Fatalf("expected exactly one error, got %d: %v", sess.ErrorCount(), sess.Diagnostics())
	}

	errs := sess.Diagnostics()
	if errs[0].Code != "E0106" {
		t.Fatalf("expected E0106, got %s", errs[0].Code)
	}
}

// fn noInputs() -> &i32  — no input lifetimes to borrow from at all.
func TestNoInputLifetimesIsE0106(t *testing.T) {
	outElided := elided()

	fn := &hir.FunctionDecl{
		ID:     id(),
		Span:   sp(),
		Name:   "noInputs",
		Return: refType(outElided, pathType("i32")),
	}

	_, sess := run(t, fn)

	if sess.ErrorCount() != 1 || sess.Diagnostics()[0].Code != "E0106" {
		t.Fatalf("expected a single E0106, got %v", sess.Diagnostics())
	}
}

// &self method elision: fn borrow(&self, other: &i32) -> &i32 resolves
// the output to self's region, ignoring the second (also elided) input.
func TestSelfMethodElision(t *testing.T) {
	selfLT := elided()
	otherLT := elided()
	outLT := elided()

	fn := &hir.FunctionDecl{
		ID:   id(),
		Span: sp(),
		Name: "borrow",
		Self: &hir.SelfParam{Span: sp(), ByRef: true, Lifetime: selfLT},
		Params: []hir.Param{
			{Name: "other", Type: refType(otherLT, pathType("i32"))},
		},
		Return: refType(outLT, pathType("i32")),
	}

	m, sess := run(t, fn)

	if sess.ErrorCount() != 0 {
		t.Fatalf("unexpected errors: %v", sess.Diagnostics())
	}

	selfRegion := m.Defs[selfLT.ID]
	out := m.Defs[outLT.ID]

	if out != selfRegion {
		t.Fatalf("expected output to borrow from self, self=%+v out=%+v", selfRegion, out)
	}
}

// A foreign function reuses the input elision counter for its output
// instead of opening a fresh error/exact policy - the preserved wart.
func TestForeignFunctionReusesInputCounterForOutput(t *testing.T) {
	xElided := elided()
	outElided := elided()

	fn := &hir.FunctionDecl{
		ID:        id(),
		Span:      sp(),
		Name:      "extern_fn",
		IsForeign: true,
		Params:    []hir.Param{{Name: "x", Type: refType(xElided, pathType("i32"))}},
		Return:    refType(outElided, pathType("i32")),
	}

	m, sess := run(t, fn)

	if sess.ErrorCount() != 0 {
		t.Fatalf("unexpected errors: %v", sess.Diagnostics())
	}

	in := m.Defs[xElided.ID]
	out := m.Defs[outElided.ID]

	if in.Kind != KindLateBoundAnon || out.Kind != KindLateBoundAnon {
		t.Fatalf("expected both to be anon late-bound, got in=%+v out=%+v", in, out)
	}

	if in.AnonIndex == out.AnonIndex {
		t.Fatalf("input and output should have drawn distinct anon indices from the shared counter, both got %d", in.AnonIndex)
	}
}

// Duplicate lifetime names in the same binder: E0263.
func TestDuplicateLifetimeDeclIsE0263(t *testing.T) {
	a1 := lifetimeParam("'a")
	a2 := lifetimeParam("'a")

	fn := &hir.FunctionDecl{
		ID:       id(),
		Span:     sp(),
		Name:     "dup",
		Generics: []hir.GenericParam{a1, a2},
	}

	_, sess := run(t, fn)

	found := false

	for _, d := range sess.Diagnostics() {
		if d.Code == "E0263" {
			found = true
		}
	}

	if !found {
		t.Fatalf("expected E0263 among diagnostics: %v", sess.Diagnostics())
	}
}

// 'static as a declared parameter name: E0262.
func TestReservedStaticNameIsE0262(t *testing.T) {
	fn := &hir.FunctionDecl{
		ID:       id(),
		Span:     sp(),
		Name:     "bad",
		Generics: []hir.GenericParam{lifetimeParam("'static")},
	}

	_, sess := run(t, fn)

	found := false

	for _, d := range sess.Diagnostics() {
		if d.Code == "E0262" {
			found = true
		}
	}

	if !found {
		t.Fatalf("expected E0262 among diagnostics: %v", sess.Diagnostics())
	}
}

// An undeclared lifetime name used in a type: E0261.
func TestUndeclaredLifetimeIsE0261(t *testing.T) {
	fn := &hir.FunctionDecl{
		ID:     id(),
		Span:   sp(),
		Name:   "undeclared",
		Params: []hir.Param{{Name: "x", Type: refType(named("'b"), pathType("i32"))}},
	}

	_, sess := run(t, fn)

	if sess.ErrorCount() != 1 || sess.Diagnostics()[0].Code != "E0261" {
		t.Fatalf("expected a single E0261, got %v", sess.Diagnostics())
	}
}

// 'static always resolves, it never needs a declaration.
func TestStaticAlwaysResolves(t *testing.T) {
	ref := staticRef()

	fn := &hir.FunctionDecl{
		ID:     id(),
		Span:   sp(),
		Name:   "forever",
		Params: []hir.Param{{Name: "x", Type: refType(ref, pathType("i32"))}},
	}

	m, sess := run(t, fn)

	if sess.ErrorCount() != 0 {
		t.Fatalf("unexpected errors: %v", sess.Diagnostics())
	}

	if m.Defs[ref.ID].Kind != KindStatic {
		t.Fatalf("expected 'static to resolve to the static region")
	}
}

// Nested de Bruijn depth: fn(f: for<'b> fn(&'a i32, &'b i32)) where 'a is
// declared on the outer fn - each Binder frame crossed on the way from a
// bare-fn's own parameter out to the enclosing fn's 'a adds one to depth.
func TestNestedBinderShiftsDepth(t *testing.T) {
	aParam := lifetimeParam("'a")
	bParam := lifetimeParam("'b")
	aUse := named("'a")
	bUse := named("'b")

	bareFn := &hir.BareFnType{
		Span:           sp(),
		LifetimeParams: []hir.GenericParam{bParam},
		Params: []hir.Type{
			refType(aUse, pathType("i32")),
			refType(bUse, pathType("i32")),
		},
	}

	fn := &hir.FunctionDecl{
		ID:       id(),
		Span:     sp(),
		Name:     "nested",
		Generics: []hir.GenericParam{aParam},
		Params:   []hir.Param{{Name: "f", Type: bareFn}},
	}

	m, sess := run(t, fn)

	if sess.ErrorCount() != 0 {
		t.Fatalf("unexpected errors: %v", sess.Diagnostics())
	}

	// 'a is late-bound (constrained by input via the bare-fn param);
	// crossing the bare-fn's own Binder frame on the way out to the fn's
	// Binder shifts it from depth 1 to depth 2.
	a := m.Defs[aUse.ID]
	if a.Kind != KindLateBound || a.Depth != 2 {
		t.Fatalf("expected 'a late-bound at depth 2, got %+v", a)
	}

	b := m.Defs[bUse.ID]
	if b.Kind != KindLateBound || b.Depth != 1 {
		t.Fatalf("expected 'b late-bound at depth 1 from its own binder, got %+v", b)
	}
}

// Two nested `for<...>` quantifications sharing one trait_ref_hack slot:
// `where for<'a> T: for<'b> Trait<'a, 'b>` - the inner for<'b> is E0316.
func TestNestedHRTBIsE0316(t *testing.T) {
	aParam := lifetimeParam("'a")
	bParam := lifetimeParam("'b")

	inner := hir.TraitRef{
		Span:           sp(),
		BoundLifetimes: []hir.GenericParam{bParam},
		Path:           *pathType("Trait"),
	}

	where := hir.WherePredicate{
		Span:           sp(),
		BoundLifetimes: []hir.GenericParam{aParam},
		Target:         pathType("T"),
		Bounds:         []hir.TraitRef{inner},
	}

	fn := &hir.FunctionDecl{
		ID:    id(),
		Span:  sp(),
		Name:  "hrtb",
		Where: []hir.WherePredicate{where},
	}

	_, sess := run(t, fn)

	found := false

	for _, d := range sess.Diagnostics() {
		if d.Code == "E0316" {
			found = true
		}
	}

	if !found {
		t.Fatalf("expected E0316 among diagnostics: %v", sess.Diagnostics())
	}
}

// A lifetime declaration shadowing an already-declared label is a warning,
// not an error (only lifetime-shadows-lifetime is E0496).
func TestLabelShadowedByLifetimeIsWarningNotError(t *testing.T) {
	label := &hir.Label{Span: sp(), Name: "'a"}
	loop := &hir.LoopStmt{Span: sp(), Label: label, Body: &hir.Block{
		Stmts: []hir.Stmt{&hir.ExprStmt{Span: sp(), Expr: &hir.LeafExpr{Span: sp()}}},
	}}

	aParam := lifetimeParam("'a")
	nested := &hir.BareFnType{Span: sp(), LifetimeParams: []hir.GenericParam{aParam}}

	body := &hir.Body{ID: id(), Span: sp(), Block: &hir.Block{
		Stmts: []hir.Stmt{
			loop,
			&hir.LetStmt{Span: sp(), Type: nested, Init: &hir.LeafExpr{Span: sp()}},
		},
	}}

	fn := &hir.FunctionDecl{ID: id(), Span: sp(), Name: "labelled", Body: body}

	_, sess := run(t, fn)

	if sess.ErrorCount() != 0 {
		t.Fatalf("label/lifetime shadowing should warn, not error: %v", sess.Diagnostics())
	}

	if len(sess.Diagnostics()) == 0 {
		t.Fatalf("expected a shadowing warning to be recorded")
	}
}

// impl<T, 'a> Foo<T, 'a> { fn m<'b>(x: &'b i32) where &'b i32: ... }
// 'b is forced early-bound by appearing in a where-clause target; its
// early-bound index must start after the impl's own two generics (T, 'a),
// not from zero as if it were a free function.
func TestMethodEarlyBoundIndexAccountsForImplGenerics(t *testing.T) {
	tParam := hir.GenericParam{Span: sp(), Name: "T", ID: id(), Kind: hir.GPType}
	implLT := lifetimeParam("'a")
	bParam := lifetimeParam("'b")
	bUse := named("'b")

	method := &hir.FunctionDecl{
		ID:       id(),
		Span:     sp(),
		Name:     "m",
		Generics: []hir.GenericParam{bParam},
		Where: []hir.WherePredicate{
			{Span: sp(), Target: refType(named("'b"), pathType("i32"))},
		},
		Params: []hir.Param{{Name: "x", Type: refType(bUse, pathType("i32"))}},
	}

	impl := &hir.ImplDecl{
		ID:       id(),
		Span:     sp(),
		Generics: []hir.GenericParam{tParam, implLT},
		SelfType: pathType("Foo"),
		Items:    []hir.Item{method},
	}

	sess := session.New("2024")
	crate := &hir.Crate{Items: []hir.Item{impl}}
	hirMap := hir.Build(crate)
	m := Resolve(crate, hirMap, sess)

	if sess.ErrorCount() != 0 {
		t.Fatalf("unexpected errors: %v", sess.Diagnostics())
	}

	if m.IsLateBound(bParam.ID) {
		t.Fatalf("'b appears in a where-clause target; expected early-bound")
	}

	def, ok := m.Defs[bUse.ID]
	if !ok || def.Kind != KindEarlyBound {
		t.Fatalf("expected 'b's use to resolve early-bound, got %+v (ok=%v)", def, ok)
	}

	if def.EarlyIndex != 2 {
		t.Fatalf("expected 'b's early-bound index to start at 2 (after T, 'a), got %d", def.EarlyIndex)
	}
}

// trait T<'x> { fn m<'a>(x: &'a i32) where &'a i32: ...; } — a trait
// method's early-bound index must reserve one slot for the implicit Self
// type parameter ahead of the trait's own generics.
func TestTraitMethodEarlyBoundIndexReservesSelfSlot(t *testing.T) {
	xParam := lifetimeParam("'x")
	aParam := lifetimeParam("'a")
	aUse := named("'a")

	method := &hir.FunctionDecl{
		ID:       id(),
		Span:     sp(),
		Name:     "m",
		Generics: []hir.GenericParam{aParam},
		Where: []hir.WherePredicate{
			{Span: sp(), Target: refType(named("'a"), pathType("i32"))},
		},
		Params: []hir.Param{{Name: "x", Type: refType(aUse, pathType("i32"))}},
	}

	trait := &hir.TraitDecl{
		ID:       id(),
		Span:     sp(),
		Name:     "T",
		Generics: []hir.GenericParam{xParam},
		Items:    []hir.Item{method},
	}

	sess := session.New("2024")
	crate := &hir.Crate{Items: []hir.Item{trait}}
	hirMap := hir.Build(crate)
	m := Resolve(crate, hirMap, sess)

	if sess.ErrorCount() != 0 {
		t.Fatalf("unexpected errors: %v", sess.Diagnostics())
	}

	def, ok := m.Defs[aUse.ID]
	if !ok || def.Kind != KindEarlyBound {
		t.Fatalf("expected 'a's use to resolve early-bound, got %+v (ok=%v)", def, ok)
	}

	if def.EarlyIndex != 2 {
		t.Fatalf("expected 'a's early-bound index to be 2 (1 for the implicit Self slot, 1 for 'x), got %d", def.EarlyIndex)
	}
}
