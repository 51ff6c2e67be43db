package domain_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	m "gooze.dev/pkg/mutest/internal/model"
)

const calcModule = "example.com/calc"

// calcSource has one arithmetic target on line 4 and one comparison target
// on line 8.
const calcSource = `package calc

func Add(a, b int) int {
	return a + b
}

func Positive(x int) bool {
	return x > 0
}
`

const nameSource = `package calc

func Name() string { return "calc" }
`

func writeFile(t *testing.T, path, content string) {
	t.Helper()

	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

// newCalcProject lays out a small module and returns its root and the path
// of calc.go.
func newCalcProject(t *testing.T) (m.Path, m.Path) {
	t.Helper()

	root := t.TempDir()
	writeFile(t, filepath.Join(root, "go.mod"), "module "+calcModule+"\n\ngo 1.22\n")
	writeFile(t, filepath.Join(root, "calc.go"), calcSource)
	writeFile(t, filepath.Join(root, "name.go"), nameSource)
	writeFile(t, filepath.Join(root, "calc_test.go"), "package calc\n")

	return m.Path(root), m.Path(filepath.Join(root, "calc.go"))
}

func intPtr(n int) *int {
	return &n
}
