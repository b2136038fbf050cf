// Package hir defines the High-level Intermediate Representation consumed
// by the Orizon compiler's lifetime-resolution pass (internal/region).
//
// This is a deliberately small slice of a real HIR: just enough surface
// (named lifetime parameters on functions/types/impls/traits, bare-fn
// types, trait-object types, higher-ranked trait bounds, and loop labels)
// for that pass to walk. General item/name resolution, type checking, and
// lowering to a typed IR are assumed to have already produced this tree;
// they are treated as external collaborators and not modeled here.
package hir

import "github.com/orizon-lang/orizon-regions/internal/position"

// NodeID uniquely identifies a node within a crate's HIR. Every lifetime
// occurrence carries one of these; a zero NodeID is the "dummy" ID a
// well-formed tree never hands to the resolver.
type NodeID uint64

// Dummy is the sentinel NodeID that must never reach the resolver.
const Dummy NodeID = 0

// BodyID identifies a function (or closure) body.
type BodyID = NodeID

// Node is implemented by every HIR node that carries a span.
type Node interface {
	GetSpan() position.Span
}

// Crate is a single compilation unit: a flat list of top-level items.
type Crate struct {
	Items []Item
}
