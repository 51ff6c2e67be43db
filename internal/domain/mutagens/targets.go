package mutagens

import (
	"go/ast"
	"go/token"
	"strings"

	m "gooze.dev/pkg/mutest/internal/model"
)

// IgnoreDirective disables mutation of the line it trails or precedes. Placed
// in a function's doc comment it disables the whole function.
const IgnoreDirective = "mutest:ignore"

// Targets returns every mutable location in file, in source order.
func Targets(fset *token.FileSet, file *ast.File) []m.LocIndex {
	ignored := ignoredLines(fset, file)

	var targets []m.LocIndex

	add := func(kind m.NodeKind, pos token.Pos, original string) {
		loc, ok := locationAt(fset, kind, pos, original)
		if !ok {
			return
		}

		if _, skip := ignored[loc.Line]; skip {
			return
		}

		targets = append(targets, loc)
	}

	ast.Inspect(file, func(n ast.Node) bool {
		switch node := n.(type) {
		case *ast.FuncDecl:
			if hasDirective(node.Doc) {
				return false
			}
		case *ast.GenDecl:
			// import paths and type declarations hold nothing worth mutating
			if node.Tok == token.IMPORT || node.Tok == token.TYPE {
				return false
			}
		case *ast.BinaryExpr:
			if kind, ok := binaryKind(node.Op); ok {
				add(kind, node.OpPos, node.Op.String())
			}
		case *ast.AssignStmt:
			if isAssignOp(node.Tok) {
				add(m.NodeAssign, node.TokPos, node.Tok.String())
			}
		case *ast.IncDecStmt:
			add(m.NodeIncDec, node.TokPos, node.Tok.String())
		case *ast.Ident:
			if node.Name == "true" || node.Name == "false" {
				add(m.NodeBoolean, node.NamePos, node.Name)
			}
		}

		return true
	})

	return targets
}

func ignoredLines(fset *token.FileSet, file *ast.File) map[int]struct{} {
	lines := make(map[int]struct{})

	for _, group := range file.Comments {
		for _, comment := range group.List {
			if !strings.Contains(comment.Text, IgnoreDirective) {
				continue
			}

			line := fset.Position(comment.Slash).Line
			lines[line] = struct{}{}
			lines[line+1] = struct{}{}
		}
	}

	return lines
}

func hasDirective(doc *ast.CommentGroup) bool {
	if doc == nil {
		return false
	}

	for _, comment := range doc.List {
		if strings.Contains(comment.Text, IgnoreDirective) {
			return true
		}
	}

	return false
}
