package region

import (
	"fmt"
	"strings"

	"github.com/orizon-lang/orizon-regions/internal/diagnostic"
	"github.com/orizon-lang/orizon-regions/internal/hir"
	"github.com/orizon-lang/orizon-regions/internal/position"
	"github.com/orizon-lang/orizon-regions/internal/session"
)

const (
	codeMissingLifetime       = diagnostic.CodeMissingLifetime
	codeUndeclaredLifetime    = diagnostic.CodeUndeclaredLifetime
	codeReservedLifetimeName  = diagnostic.CodeReservedLifetimeName
	codeDuplicateLifetimeDecl = diagnostic.CodeDuplicateLifetimeDecl
	codeNestedHRTB            = diagnostic.CodeNestedHRTB
	codeLifetimeShadows       = diagnostic.CodeLifetimeShadowsSibling
)

func reportUndeclaredLifetime(sess *session.Session, ref *hir.LifetimeRef) {
	sess.ErrorCode(ref.Span, codeUndeclaredLifetime,
		fmt.Sprintf("use of undeclared lifetime name `%s`", ref.Name),
		"undeclared lifetime")
}

func reportReservedLifetimeName(sess *session.Session, span position.Span, name string) {
	sess.ErrorCode(span, codeReservedLifetimeName,
		fmt.Sprintf("invalid lifetime parameter name: `%s`", name),
		fmt.Sprintf("%s is a reserved lifetime name", name))
}

func reportDuplicateLifetimeDecl(sess *session.Session, span position.Span, name string) {
	sess.ErrorCode(span, codeDuplicateLifetimeDecl,
		fmt.Sprintf("lifetime name `%s` declared twice in the same scope", name),
		"declared twice")
}

func reportNestedHRTB(sess *session.Session, span position.Span) {
	sess.ErrorCode(span, codeNestedHRTB, "nested quantification of lifetimes",
		"nested quantification of lifetimes")
}

func reportShadowing(sess *session.Session, name string, origLifetime bool, shadowerLifetime bool, origSpan, shadowerSpan position.Span) {
	origKind, shadowKind := "label", "label"
	if origLifetime {
		origKind = "lifetime"
	}

	if shadowerLifetime {
		shadowKind = "lifetime"
	}

	msg := fmt.Sprintf("%s name `%s` shadows a %s name that is already in scope", shadowKind, name, origKind)
	help := fmt.Sprintf("lifetime %s already in scope", name)

	if origLifetime && shadowerLifetime {
		sess.ErrorCodeHelp(shadowerSpan, codeLifetimeShadows, msg, msg, help)
	} else {
		sess.Warn(shadowerSpan, msg, help)
	}

	_ = origSpan // not attached: the diagnostic carries only the shadower's span.
}

// reportStaticInConst fires when an elided lifetime in a static/const
// item resolves through the implicit-'static elision policy while the
// static_in_const feature is off.
func reportStaticInConst(sess *session.Session, span position.Span) {
	sess.ErrorCode(span, "",
		"this needs a 'static lifetime or the static_in_const feature",
		"this needs a 'static lifetime or the static_in_const feature, see the edition guide")
}

// reportMissingLifetime builds E0106, with the four-template help text the
// elision engine selects by how many of the inputs actually failed to
// narrow down a single lifetime.
func reportMissingLifetime(sess *session.Session, span position.Span, count int, failure []ElisionFailureInfo) {
	title := "missing lifetime specifier"
	if count > 1 {
		title += "s"
	}

	msg := "expected lifetime parameter"
	if count > 1 {
		msg = fmt.Sprintf("expected %d lifetime parameters", count)
	}

	if count != 1 || failure == nil {
		sess.ErrorCodeHelp(span, codeMissingLifetime, title, msg, genericMissingLifetimeHelp())
		return
	}

	sess.ErrorCodeHelp(span, codeMissingLifetime, title, msg, elisionFailureHelp(failure))
}

func genericMissingLifetimeHelp() string {
	return "this function's return type contains a borrowed value, but there is no value for it to be " +
		"borrowed from; consider giving it a 'static lifetime"
}

// elisionFailureHelp builds the four-branch help text: no
// elided-lifetime-bearing argument at all, one such argument, or more
// than one, each naming the contributing argument(s) by name when one is
// known.
func elisionFailureHelp(params []ElisionFailureInfo) string {
	type named struct {
		name string
		n    int
		free bool
	}

	elided := make([]named, 0, len(params))

	for _, p := range params {
		if p.LifetimeCount == 0 {
			continue
		}

		name := fmt.Sprintf("argument %d", p.Index+1)
		if p.ArgName != "" {
			name = fmt.Sprintf("`%s`", p.ArgName)
		}

		elided = append(elided, named{name: name, n: p.LifetimeCount, free: p.HaveBoundRegions})
	}

	var parts []string

	for _, e := range elided {
		if e.n == 1 {
			parts = append(parts, e.name)
			continue
		}

		free := ""
		if e.free {
			free = "free "
		}

		parts = append(parts, fmt.Sprintf("one of %s's %d elided %slifetimes", e.name, e.n, free))
	}

	m := joinWithOr(parts)

	switch {
	case len(params) == 0:
		return genericMissingLifetimeHelp()
	case len(elided) == 0:
		return "this function's return type contains a borrowed value with an elided lifetime, but the " +
			"lifetime cannot be derived from the arguments; consider giving it an explicit bounded or " +
			"'static lifetime"
	case len(elided) == 1:
		return fmt.Sprintf("this function's return type contains a borrowed value, but the signature "+
			"does not say which %s it is borrowed from", m)
	default:
		return fmt.Sprintf("this function's return type contains a borrowed value, but the signature "+
			"does not say whether it is borrowed from %s", m)
	}
}

// joinWithOr: "a", "a or b", "a, b, or c".
func joinWithOr(parts []string) string {
	switch len(parts) {
	case 0:
		return ""
	case 1:
		return parts[0]
	case 2:
		return parts[0] + " or " + parts[1]
	default:
		return strings.Join(parts[:len(parts)-1], ", ") + ", or " + parts[len(parts)-1]
	}
}

