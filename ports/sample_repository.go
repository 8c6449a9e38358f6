package ports

import (
	"context"

	"samplewms/domain/core"
	"samplewms/domain/sample"
)

// SampleRepository defines the record store the exchange subsystem reads
// from and appends to
type SampleRepository interface {
	// Core CRUD operations
	List(ctx context.Context, filter sample.Filter) ([]sample.Sample, error)
	Get(ctx context.Context, id core.SampleID) (*sample.Sample, error)
	Create(ctx context.Context, s *sample.Sample) error
	Update(ctx context.Context, s *sample.Sample) error
	Delete(ctx context.Context, id core.SampleID) error

	// Prepend inserts records ahead of the existing ones, keeping their order
	Prepend(ctx context.Context, samples []sample.Sample) error
}
