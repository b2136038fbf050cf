// Package errors provides a standardized internal-compiler-error format:
// a category, a code, a message, and the caller that raised it.
package errors

import (
	"fmt"
	"runtime"
)

// ErrorCategory represents different categories of errors
type ErrorCategory string

const CategoryInternal ErrorCategory = "INTERNAL"

// ICE (internal compiler error) reports an invariant the caller believes can
// never fail in a correctly-functioning compiler, e.g. a lifetime reference
// carrying a dummy node ID reaching the resolver.
func ICE(component, detail string) *StandardError {
	return NewStandardError(CategoryInternal, "ICE",
		fmt.Sprintf("internal compiler error in %s: %s", component, detail),
		map[string]interface{}{"component": component})
}

// StandardError provides a consistent error format
type StandardError struct {
	Category ErrorCategory
	Code     string
	Message  string
	Context  map[string]interface{}
	Caller   string
}

// Error implements the error interface
func (e *StandardError) Error() string {
	return fmt.Sprintf("[%s:%s] %s (caller: %s)", e.Category, e.Code, e.Message, e.Caller)
}

// NewStandardError creates a new standardized error
func NewStandardError(category ErrorCategory, code, message string, context map[string]interface{}) *StandardError {
	pc, _, _, ok := runtime.Caller(1)
	caller := "unknown"
	if ok {
		if fn := runtime.FuncForPC(pc); fn != nil {
			caller = fn.Name()
		}
	}

	return &StandardError{
		Category: category,
		Code:     code,
		Message:  message,
		Context:  context,
		Caller:   caller,
	}
}
