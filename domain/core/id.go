package core

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ID represents a domain identifier
type ID string

// NewID creates a new unique identifier using UUID v7 for time-ordered generation
func NewID() ID {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return ID(id.String())
}

// String returns the string representation
func (id ID) String() string {
	return string(id)
}

// IsEmpty checks if the ID is empty
func (id ID) IsEmpty() bool {
	return id == ""
}

// SampleID identifies one sample record. It is opaque: imported and legacy
// identifiers need not be UUIDs.
type SampleID ID

// NewSampleID generates a fresh sample identifier
func NewSampleID() SampleID { return SampleID(NewID()) }

func (id SampleID) String() string { return ID(id).String() }
func (id SampleID) IsEmpty() bool  { return ID(id).IsEmpty() }

// ParseSampleID parses a string into SampleID
func ParseSampleID(s string) (SampleID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", fmt.Errorf("sample ID cannot be empty")
	}
	return SampleID(s), nil
}
