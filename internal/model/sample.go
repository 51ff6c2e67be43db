package model

// SamplePair is one (file, location) entry of a sample space.
type SamplePair struct {
	File FileID
	Path Path
	Loc  LocIndex
}

// SampleSpace is an ordered sequence of sample pairs.
type SampleSpace []SamplePair

// CoverageMapping maps a file path to the set of lines executed by at least
// one test.
type CoverageMapping map[Path]map[int]struct{}

// Add marks a line of path as covered.
func (c CoverageMapping) Add(path Path, line int) {
	lines, ok := c[path]
	if !ok {
		lines = make(map[int]struct{})
		c[path] = lines
	}

	lines[line] = struct{}{}
}

// Covers reports whether line of path is covered.
func (c CoverageMapping) Covers(path Path, line int) bool {
	lines, ok := c[path]
	if !ok {
		return false
	}

	_, ok = lines[line]

	return ok
}

// Lines returns the number of covered lines across all files.
func (c CoverageMapping) Lines() int {
	total := 0
	for _, lines := range c {
		total += len(lines)
	}

	return total
}
