// Package diagnostic collects diagnostic messages by severity and category,
// built with a fluent DiagnosticBuilder and gathered in a DiagnosticEngine.
package diagnostic

import (
	"fmt"

	"github.com/orizon-lang/orizon-regions/internal/position"
)

// DiagnosticLevel represents the severity level of a diagnostic message.
type DiagnosticLevel int

const (
	DiagnosticError DiagnosticLevel = iota
	DiagnosticWarning
	DiagnosticInfo
	DiagnosticHint
)

func (dl DiagnosticLevel) String() string {
	switch dl {
	case DiagnosticError:
		return "error"
	case DiagnosticWarning:
		return "warning"
	case DiagnosticInfo:
		return "info"
	case DiagnosticHint:
		return "hint"
	default:
		return "unknown"
	}
}

// DiagnosticCategory represents the category of diagnostic.
type DiagnosticCategory int

const (
	DiagnosticSyntax DiagnosticCategory = iota
	DiagnosticType
	DiagnosticSemantic
	DiagnosticPerformance
	DiagnosticStyle
	DiagnosticSecurity
)

func (dc DiagnosticCategory) String() string {
	switch dc {
	case DiagnosticSyntax:
		return "syntax"
	case DiagnosticType:
		return "type"
	case DiagnosticSemantic:
		return "semantic"
	case DiagnosticPerformance:
		return "performance"
	case DiagnosticStyle:
		return "style"
	case DiagnosticSecurity:
		return "security"
	default:
		return "unknown"
	}
}

// Diagnostic represents a single diagnostic message.
type Diagnostic struct {
	Code        string
	Title       string
	Message     string
	Suggestions []Suggestion
	Span        position.Span
	Level       DiagnosticLevel
	Category    DiagnosticCategory
}

// Suggestion represents a suggested fix for a diagnostic.
type Suggestion struct {
	Title       string
	Description string
	Edits       []TextEdit
}

// TextEdit represents a text replacement.
type TextEdit struct {
	NewText     string
	Description string
	Span        position.Span
}

// DiagnosticBuilder helps construct diagnostic messages with fluent API.
type DiagnosticBuilder struct {
	diagnostic *Diagnostic
}

// NewDiagnostic creates a new diagnostic builder.
func NewDiagnostic() *DiagnosticBuilder {
	return &DiagnosticBuilder{
		diagnostic: &Diagnostic{
			Suggestions: make([]Suggestion, 0),
		},
	}
}

func (db *DiagnosticBuilder) Error() *DiagnosticBuilder {
	db.diagnostic.Level = DiagnosticError

	return db
}

func (db *DiagnosticBuilder) Warning() *DiagnosticBuilder {
	db.diagnostic.Level = DiagnosticWarning

	return db
}

func (db *DiagnosticBuilder) Info() *DiagnosticBuilder {
	db.diagnostic.Level = DiagnosticInfo

	return db
}

func (db *DiagnosticBuilder) Hint() *DiagnosticBuilder {
	db.diagnostic.Level = DiagnosticHint

	return db
}

func (db *DiagnosticBuilder) Syntax() *DiagnosticBuilder {
	db.diagnostic.Category = DiagnosticSyntax

	return db
}

func (db *DiagnosticBuilder) Type() *DiagnosticBuilder {
	db.diagnostic.Category = DiagnosticType

	return db
}

func (db *DiagnosticBuilder) Semantic() *DiagnosticBuilder {
	db.diagnostic.Category = DiagnosticSemantic

	return db
}

func (db *DiagnosticBuilder) Performance() *DiagnosticBuilder {
	db.diagnostic.Category = DiagnosticPerformance

	return db
}

func (db *DiagnosticBuilder) Style() *DiagnosticBuilder {
	db.diagnostic.Category = DiagnosticStyle

	return db
}

func (db *DiagnosticBuilder) Security() *DiagnosticBuilder {
	db.diagnostic.Category = DiagnosticSecurity

	return db
}

func (db *DiagnosticBuilder) Code(code string) *DiagnosticBuilder {
	db.diagnostic.Code = code

	return db
}

func (db *DiagnosticBuilder) Title(title string) *DiagnosticBuilder {
	db.diagnostic.Title = title

	return db
}

func (db *DiagnosticBuilder) Message(message string) *DiagnosticBuilder {
	db.diagnostic.Message = message

	return db
}

func (db *DiagnosticBuilder) Span(span position.Span) *DiagnosticBuilder {
	db.diagnostic.Span = span

	return db
}

func (db *DiagnosticBuilder) Suggest(title, description string, edits ...TextEdit) *DiagnosticBuilder {
	suggestion := Suggestion{
		Title:       title,
		Description: description,
		Edits:       edits,
	}
	db.diagnostic.Suggestions = append(db.diagnostic.Suggestions, suggestion)

	return db
}

func (db *DiagnosticBuilder) Build() *Diagnostic {
	return db.diagnostic
}

// DiagnosticEngine manages the collection and processing of diagnostics.
type DiagnosticEngine struct {
	diagnostics []Diagnostic
	config      DiagnosticConfig
}

// DiagnosticConfig controls diagnostic behavior.
type DiagnosticConfig struct {
	IgnoreCategories  []DiagnosticCategory
	IgnoreCodes       []string
	MaxErrors         int
	WarningsAsErrors  bool
	EnablePerformance bool
	EnableStyle       bool
	EnableSecurity    bool
}

// NewDiagnosticEngine creates a new diagnostic engine.
func NewDiagnosticEngine(config DiagnosticConfig) *DiagnosticEngine {
	return &DiagnosticEngine{
		diagnostics: make([]Diagnostic, 0),
		config:      config,
	}
}

// AddDiagnostic adds a diagnostic to the engine.
func (de *DiagnosticEngine) AddDiagnostic(diagnostic *Diagnostic) {
	// Once the truncation diagnostic below has been added, drop the rest.
	if len(de.GetErrors()) > de.config.MaxErrors {
		return
	}

	// Check if diagnostic should be ignored.
	if de.shouldIgnore(diagnostic) {
		return
	}

	// Convert warnings to errors if configured.
	if de.config.WarningsAsErrors && diagnostic.Level == DiagnosticWarning {
		diagnostic.Level = DiagnosticError
	}

	de.diagnostics = append(de.diagnostics, *diagnostic)

	// Stop adding diagnostics if max errors reached.
	if len(de.GetErrors()) >= de.config.MaxErrors {
		// Add a special diagnostic indicating truncation.
		truncationDiag := NewDiagnostic().
			Error().
			Code("E0001").
			Title("Too many errors").
			Message(fmt.Sprintf("Stopping after %d errors", de.config.MaxErrors)).
			Build()
		de.diagnostics = append(de.diagnostics, *truncationDiag)
	}
}

// shouldIgnore checks if a diagnostic should be ignored based on config.
func (de *DiagnosticEngine) shouldIgnore(diagnostic *Diagnostic) bool {
	// Check ignored categories.
	for _, cat := range de.config.IgnoreCategories {
		if diagnostic.Category == cat {
			return true
		}
	}

	// Check ignored codes.
	for _, code := range de.config.IgnoreCodes {
		if diagnostic.Code == code {
			return true
		}
	}

	// Check if category is disabled.
	switch diagnostic.Category {
	case DiagnosticPerformance:
		return !de.config.EnablePerformance
	case DiagnosticStyle:
		return !de.config.EnableStyle
	case DiagnosticSecurity:
		return !de.config.EnableSecurity
	}

	return false
}

// GetDiagnostics returns all diagnostics.
func (de *DiagnosticEngine) GetDiagnostics() []Diagnostic {
	return de.diagnostics
}

// GetErrors returns only error-level diagnostics.
func (de *DiagnosticEngine) GetErrors() []Diagnostic {
	errors := make([]Diagnostic, 0)

	for _, diag := range de.diagnostics {
		if diag.Level == DiagnosticError {
			errors = append(errors, diag)
		}
	}

	return errors
}

// GetWarnings returns only warning-level diagnostics.
func (de *DiagnosticEngine) GetWarnings() []Diagnostic {
	warnings := make([]Diagnostic, 0)

	for _, diag := range de.diagnostics {
		if diag.Level == DiagnosticWarning {
			warnings = append(warnings, diag)
		}
	}

	return warnings
}

// Lifetime-resolution error codes. Exactly the six below; no other
// user-visible error categories. Declared here, not in internal/region,
// so that any future pass sharing this diagnostic collector uses the
// same constants.
const (
	CodeUndeclaredLifetime     = "E0261" // use of undeclared lifetime name
	CodeMissingLifetime        = "E0106" // missing lifetime specifier(s)
	CodeReservedLifetimeName   = "E0262" // 'static used as a declaration
	CodeNestedHRTB             = "E0316" // nested higher-ranked quantification
	CodeDuplicateLifetimeDecl  = "E0263" // duplicate declaration in one binder
	CodeLifetimeShadowsSibling = "E0496" // lifetime shadowing a lifetime in scope
)
