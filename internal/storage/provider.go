// Package storage defines the corpus directory abstraction used by the
// boundary readers and writers.
package storage

// Provider is the interface for corpus file operations. Paths are relative
// to the provider's root.
type Provider interface {
	// List returns the relative path of every .md file under the root.
	List() ([]string, error)
	// Read returns the raw bytes of the file at path.
	Read(path string) ([]byte, error)
	// Write atomically writes content to path.
	Write(path string, content []byte) error
	// Clean removes every .md file directly under the root so a run can
	// regenerate the corpus from scratch.
	Clean() error
}
