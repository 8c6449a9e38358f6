package store

import (
	"context"
	"sync"
	"time"

	"samplewms/domain/core"
	"samplewms/domain/sample"
	"samplewms/internal/errors"
)

// MemoryStore keeps samples in memory, newest first. Callers always receive
// copies.
type MemoryStore struct {
	mu      sync.RWMutex
	samples []sample.Sample
	now     func() time.Time
}

// NewMemoryStore creates an empty store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{now: time.Now}
}

// WithClock replaces the clock used for date-range filters
func (s *MemoryStore) WithClock(now func() time.Time) *MemoryStore {
	s.now = now
	return s
}

func (s *MemoryStore) List(ctx context.Context, filter sample.Filter) ([]sample.Sample, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	now := s.now()
	results := make([]sample.Sample, 0, len(s.samples))
	for i := range s.samples {
		if filter.Matches(&s.samples[i], now) {
			results = append(results, s.samples[i].Clone())
		}
	}
	return results, nil
}

func (s *MemoryStore) Get(ctx context.Context, id core.SampleID) (*sample.Sample, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return nil, errors.NotFound("sample " + id.String())
	}
	out := s.samples[idx].Clone()
	return &out, nil
}

// Create assigns an identifier when missing and inserts the sample first
func (s *MemoryStore) Create(ctx context.Context, in *sample.Sample) error {
	if in == nil {
		return errors.InvalidInput("sample is required")
	}
	if err := in.Validate(); err != nil {
		return errors.WithCode(errors.CodeInvalidInput, err, "invalid sample")
	}
	in.Normalize()

	s.mu.Lock()
	defer s.mu.Unlock()

	if in.ID.IsEmpty() {
		in.ID = core.NewSampleID()
	} else if s.indexOf(in.ID) >= 0 {
		return errors.InvalidInput("sample " + in.ID.String() + " already exists")
	}
	s.samples = append([]sample.Sample{in.Clone()}, s.samples...)
	return nil
}

// Update replaces the sample with the same identifier
func (s *MemoryStore) Update(ctx context.Context, in *sample.Sample) error {
	if in == nil {
		return errors.InvalidInput("sample is required")
	}
	if err := in.Validate(); err != nil {
		return errors.WithCode(errors.CodeInvalidInput, err, "invalid sample")
	}
	in.Normalize()

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(in.ID)
	if idx < 0 {
		return errors.NotFound("sample " + in.ID.String())
	}
	s.samples[idx] = in.Clone()
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, id core.SampleID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return errors.NotFound("sample " + id.String())
	}
	s.samples = append(s.samples[:idx], s.samples[idx+1:]...)
	return nil
}

// Prepend inserts imported samples ahead of existing ones in their given
// order. Samples without an identifier get one.
func (s *MemoryStore) Prepend(ctx context.Context, samples []sample.Sample) error {
	if len(samples) == 0 {
		return nil
	}
	fresh := make([]sample.Sample, 0, len(samples))
	for i := range samples {
		c := samples[i].Clone()
		if c.ID.IsEmpty() {
			c.ID = core.NewSampleID()
		}
		fresh = append(fresh, c)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.samples = append(fresh, s.samples...)
	return nil
}

// Len returns the number of stored samples
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.samples)
}

func (s *MemoryStore) indexOf(id core.SampleID) int {
	for i := range s.samples {
		if s.samples[i].ID == id {
			return i
		}
	}
	return -1
}
