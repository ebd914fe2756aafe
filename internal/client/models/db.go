// Package models defines client-side data models used by the oibkeeper CLI.
package models

// Entry is one generated identifier in the persisted history.
type Entry struct {
	// Value is the generated identifier. The store records any string it is
	// given; generator output is always 11 digits.
	Value string `json:"value"`

	// CreatedAt is the generation time in Unix milliseconds. Never mutated.
	CreatedAt int64 `json:"createdAt"`

	// Pinned protects the entry from ClearUnpinned. Missing in stored data
	// means false.
	Pinned bool `json:"pinned"`
}
