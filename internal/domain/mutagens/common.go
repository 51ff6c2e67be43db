// Package mutagens finds mutable locations in Go syntax trees and rewrites
// them with replacement operators.
package mutagens

import (
	"errors"
	"fmt"
	"go/token"

	m "gooze.dev/pkg/mutest/internal/model"
)

// ErrNotApplicable is returned when a location no longer matches the source
// it is applied to.
var ErrNotApplicable = errors.New("mutation not applicable")

// Apply returns a copy of content with loc replaced by op. content is never
// modified.
func Apply(content []byte, loc m.LocIndex, op m.Operator) ([]byte, error) {
	if loc.Offset < 0 || loc.EndOffset > len(content) || loc.Offset >= loc.EndOffset {
		return nil, fmt.Errorf("%w: offsets %d..%d outside source of %d bytes", ErrNotApplicable, loc.Offset, loc.EndOffset, len(content))
	}

	if got := string(content[loc.Offset:loc.EndOffset]); got != loc.Original {
		return nil, fmt.Errorf("%w: expected %q at %d:%d, found %q", ErrNotApplicable, loc.Original, loc.Line, loc.Column, got)
	}

	if string(op) == loc.Original {
		return nil, fmt.Errorf("%w: operator %q equals the original", ErrNotApplicable, op)
	}

	return replaceRange(content, loc.Offset, loc.EndOffset, string(op)), nil
}

func replaceRange(content []byte, start, end int, replacement string) []byte {
	mutated := make([]byte, 0, len(content)-(end-start)+len(replacement))
	mutated = append(mutated, content[:start]...)
	mutated = append(mutated, replacement...)
	mutated = append(mutated, content[end:]...)

	return mutated
}

func locationAt(fset *token.FileSet, kind m.NodeKind, pos token.Pos, original string) (m.LocIndex, bool) {
	if !pos.IsValid() {
		return m.LocIndex{}, false
	}

	start := fset.Position(pos)
	end := fset.Position(pos + token.Pos(len(original)))

	return m.LocIndex{
		Kind:      kind,
		Original:  original,
		Line:      start.Line,
		Column:    start.Column,
		EndLine:   end.Line,
		EndColumn: end.Column,
		Offset:    start.Offset,
		EndOffset: start.Offset + len(original),
	}, true
}
