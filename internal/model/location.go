package model

import "fmt"

// NodeKind is the category of syntax node a location points at. It decides
// which operators are legal replacements.
type NodeKind string

const (
	// NodeArithmetic is a binary arithmetic operator (+, -, *, /, %).
	NodeArithmetic NodeKind = "arithmetic"
	// NodeComparison is a binary comparison operator (<, >, <=, >=, ==, !=).
	NodeComparison NodeKind = "comparison"
	// NodeLogical is a binary logical operator (&&, ||).
	NodeLogical NodeKind = "logical"
	// NodeBitwise is a binary bitwise operator (&, |, ^, &^, <<, >>).
	NodeBitwise NodeKind = "bitwise"
	// NodeBoolean is a boolean literal (true, false).
	NodeBoolean NodeKind = "boolean"
	// NodeAssign is an augmented assignment operator (+=, -=, ...).
	NodeAssign NodeKind = "assign"
	// NodeIncDec is an increment or decrement statement (++, --).
	NodeIncDec NodeKind = "incdec"
)

// LocIndex identifies one mutable syntax node inside a file. It is a plain
// comparable value: two indexes are equal when every field is equal.
type LocIndex struct {
	Kind      NodeKind
	Original  string
	Line      int
	Column    int
	EndLine   int
	EndColumn int
	Offset    int
	EndOffset int
}

func (l LocIndex) String() string {
	return fmt.Sprintf("%s %q (%d, %d)", l.Kind, l.Original, l.Line, l.Column)
}

// Operator is a replacement for the original text at a location.
type Operator string
