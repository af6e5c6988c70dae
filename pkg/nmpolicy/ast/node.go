// Package ast defines the tree produced by the parser: a single tagged
// Node type carrying only the fields its Kind actually uses, in the
// style of an interpreter's Expr node rather than a class hierarchy.
package ast

import (
	"fmt"
	"strings"
)

// Kind identifies which fields of a Node are meaningful.
type Kind int

const (
	// Str is a quoted string literal.
	Str Kind = iota
	// Identity is a bare identifier, either a path step or the
	// synthesized "currentState" root.
	Identity
	// Number is an unsigned integer literal used as a path step.
	Number
	// Path is an ordered sequence of Identity/Number child nodes.
	Path
	// EqFilter is the `==` ternary: (input source, target path, value).
	EqFilter
	// Replace is the `:=` ternary: (input source, target path, value).
	Replace
)

// Node is one AST node. Pos is the byte offset of the token that
// produced it, used later to decorate errors.
type Node struct {
	Pos  int
	Kind Kind

	// Str / Identity literal text.
	Text string
	// Number literal value.
	Num int32

	// Path children (Kind == Path).
	Steps []Node

	// Ternary operands (Kind == EqFilter || Kind == Replace).
	Input  *Node
	Target *Node
	Value  *Node
}

// CurrentStateName is the identifier the parser synthesizes for a
// ternary's left-hand side when no pipe fed it an explicit input source.
const CurrentStateName = "currentState"

// NewStr builds a string literal node.
func NewStr(pos int, text string) Node { return Node{Pos: pos, Kind: Str, Text: text} }

// NewIdentity builds an identifier node.
func NewIdentity(pos int, text string) Node { return Node{Pos: pos, Kind: Identity, Text: text} }

// NewNumber builds a numeric literal node.
func NewNumber(pos int, n int32) Node { return Node{Pos: pos, Kind: Number, Num: n} }

// NewPath builds a path node out of Identity/Number child steps.
func NewPath(pos int, steps []Node) Node { return Node{Pos: pos, Kind: Path, Steps: steps} }

// CurrentState builds the synthetic `currentState` identifier node the
// parser substitutes for a ternary's left-hand side when no pipe
// preceded it.
func CurrentState(pos int) Node {
	return NewIdentity(pos, CurrentStateName)
}

// IsCurrentState reports whether n is the synthesized currentState identity.
func IsCurrentState(n Node) bool {
	return n.Kind == Identity && n.Text == CurrentStateName
}

// NewEqFilter builds an `==` ternary node.
func NewEqFilter(pos int, input, target, value Node) Node {
	return Node{Pos: pos, Kind: EqFilter, Input: &input, Target: &target, Value: &value}
}

// NewReplace builds a `:=` ternary node.
func NewReplace(pos int, input, target, value Node) Node {
	return Node{Pos: pos, Kind: Replace, Input: &input, Target: &target, Value: &value}
}

// String renders a debug form of the node tree, used in error messages
// that quote the offending root node.
func (n Node) String() string {
	switch n.Kind {
	case Str:
		return fmt.Sprintf("String=%s", n.Text)
	case Identity:
		return fmt.Sprintf("Identity=%s", n.Text)
	case Number:
		return fmt.Sprintf("Number=%d", n.Num)
	case EqFilter:
		return fmt.Sprintf("EqFilter([%s %s %s])", n.Input, n.Target, n.Value)
	case Replace:
		return fmt.Sprintf("Replace([%s %s %s])", n.Input, n.Target, n.Value)
	case Path:
		parts := make([]string, len(n.Steps))
		for i, s := range n.Steps {
			parts[i] = s.String()
		}
		return fmt.Sprintf("Path=[%s]", strings.Join(parts, " "))
	default:
		return "Unknown"
	}
}
