package mutagens

import (
	"go/token"

	m "gooze.dev/pkg/mutest/internal/model"
)

var (
	arithmeticOps    = []token.Token{token.ADD, token.SUB, token.MUL, token.QUO, token.REM}
	comparisonOps    = []token.Token{token.LSS, token.GTR, token.LEQ, token.GEQ, token.EQL, token.NEQ}
	logicalOps       = []token.Token{token.LAND, token.LOR}
	bitwiseOps       = []token.Token{token.AND, token.OR, token.XOR, token.AND_NOT, token.SHL, token.SHR}
	arithmeticAssign = []token.Token{token.ADD_ASSIGN, token.SUB_ASSIGN, token.MUL_ASSIGN, token.QUO_ASSIGN, token.REM_ASSIGN}
	bitwiseAssign    = []token.Token{token.AND_ASSIGN, token.OR_ASSIGN, token.XOR_ASSIGN, token.AND_NOT_ASSIGN, token.SHL_ASSIGN, token.SHR_ASSIGN}
	incDecOps        = []token.Token{token.INC, token.DEC}
	booleanLiterals  = []string{"true", "false"}
)

// Operators returns the replacement operators legal at loc, in a fixed order.
// The original text is never part of the result.
func Operators(loc m.LocIndex) []m.Operator {
	switch loc.Kind {
	case m.NodeArithmetic:
		return alternatives(arithmeticOps, loc.Original)
	case m.NodeComparison:
		return alternatives(comparisonOps, loc.Original)
	case m.NodeLogical:
		return alternatives(logicalOps, loc.Original)
	case m.NodeBitwise:
		return alternatives(bitwiseOps, loc.Original)
	case m.NodeAssign:
		if contains(bitwiseAssign, loc.Original) {
			return alternatives(bitwiseAssign, loc.Original)
		}

		return alternatives(arithmeticAssign, loc.Original)
	case m.NodeIncDec:
		return alternatives(incDecOps, loc.Original)
	case m.NodeBoolean:
		var ops []m.Operator

		for _, literal := range booleanLiterals {
			if literal != loc.Original {
				ops = append(ops, m.Operator(literal))
			}
		}

		return ops
	}

	return nil
}

func alternatives(set []token.Token, original string) []m.Operator {
	if !contains(set, original) {
		return nil
	}

	ops := make([]m.Operator, 0, len(set)-1)

	for _, tok := range set {
		if tok.String() != original {
			ops = append(ops, m.Operator(tok.String()))
		}
	}

	return ops
}

func contains(set []token.Token, text string) bool {
	for _, tok := range set {
		if tok.String() == text {
			return true
		}
	}

	return false
}

func binaryKind(op token.Token) (m.NodeKind, bool) {
	switch {
	case contains(arithmeticOps, op.String()):
		return m.NodeArithmetic, true
	case contains(comparisonOps, op.String()):
		return m.NodeComparison, true
	case contains(logicalOps, op.String()):
		return m.NodeLogical, true
	case contains(bitwiseOps, op.String()):
		return m.NodeBitwise, true
	}

	return "", false
}

func isAssignOp(op token.Token) bool {
	return contains(arithmeticAssign, op.String()) || contains(bitwiseAssign, op.String())
}
