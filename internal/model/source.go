// Package model defines the data structures for mutation trials.
package model

// Path represents a file system path.
type Path string

// FileID identifies a scanned source file within one run. IDs are dense and
// follow scan order.
type FileID int

