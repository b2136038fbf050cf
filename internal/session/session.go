// Package session bundles the collaborators a lifetime-resolution pass
// needs from its host: error/warning emission by span with error codes, a
// feature-flag query, and a lightweight enter/exit task tracker. Modeled
// on this project's internal/diagnostic collector and
// internal/packagemanager's semver-constrained version resolution.
package session

import (
	"fmt"

	"github.com/Masterminds/semver/v3"

	"github.com/orizon-lang/orizon-regions/internal/diagnostic"
	"github.com/orizon-lang/orizon-regions/internal/position"
)

// Session is the host the resolver reports diagnostics to and queries
// feature flags through.
type Session struct {
	engine  *diagnostic.DiagnosticEngine
	edition *semver.Version
	flags   map[string]bool
}

// New creates a Session for the given language edition (e.g. "2024"),
// encoded as the major component of a semver so gates can be expressed as
// ordinary version constraints. Unrecognized editions parse as 0.0.0,
// gating every edition-conditional feature off rather than failing the
// pass.
func New(edition string) *Session {
	v, err := semver.NewVersion(fmt.Sprintf("%s.0.0", edition))
	if err != nil {
		v = semver.MustParse("0.0.0")
	}

	return &Session{
		engine: diagnostic.NewDiagnosticEngine(diagnostic.DiagnosticConfig{
			MaxErrors: 1 << 20,
		}),
		edition: v,
		flags:   map[string]bool{},
	}
}

// SetFeature force-enables or force-disables a feature flag regardless of
// the edition gate below, mirroring an explicit `#![feature(...)]` opt-in.
func (s *Session) SetFeature(name string, on bool) { s.flags[name] = on }

// editionGates maps a feature name to the semver constraint on Edition
// that enables it by default. static_in_const is the one flag; it governs
// whether an elided lifetime in a static/const item, which resolves to
// 'static either way, is also reported as an error.
var editionGates = map[string]string{
	"static_in_const": ">= 2024.0.0", // stabilized starting with the 2024 edition
}

// FeatureEnabled reports whether a feature gate is active: an explicit
// SetFeature call wins, otherwise the edition constraint table decides.
func (s *Session) FeatureEnabled(name string) bool {
	if v, ok := s.flags[name]; ok {
		return v
	}

	constraint, ok := editionGates[name]
	if !ok {
		return false
	}

	c, err := semver.NewConstraint(constraint)
	if err != nil {
		return false
	}

	return c.Check(s.edition)
}

// ErrorCode emits an error diagnostic tagged with one of the six
// lifetime-resolution error codes.
func (s *Session) ErrorCode(span position.Span, code, title, message string) {
	s.engine.AddDiagnostic(diagnostic.NewDiagnostic().
		Error().Semantic().Code(code).Title(title).Message(message).Span(span).Build())
}

// ErrorCodeHelp is ErrorCode plus a help/suggestion line, used by the
// elision-failure templates which enumerate argument names.
func (s *Session) ErrorCodeHelp(span position.Span, code, title, message, help string) {
	s.engine.AddDiagnostic(diagnostic.NewDiagnostic().
		Error().Semantic().Code(code).Title(title).Message(message).Span(span).
		Suggest("help", help).Build())
}

// Warn emits a warning diagnostic (shadowing involving a label).
func (s *Session) Warn(span position.Span, title, message string) {
	s.engine.AddDiagnostic(diagnostic.NewDiagnostic().
		Warning().Semantic().Title(title).Message(message).Span(span).Build())
}

// ErrorCount is the failure-result protocol: zero means the
// pass's output map can be trusted as complete.
func (s *Session) ErrorCount() int { return len(s.engine.GetErrors()) }

// Diagnostics exposes everything recorded, for tests and the CLI driver.
func (s *Session) Diagnostics() []diagnostic.Diagnostic { return s.engine.GetDiagnostics() }
