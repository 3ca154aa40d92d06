package service

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"typhoon-cone/model"
)

// MemorySource is a TrackSource serving tracks held in memory.
type MemorySource struct {
	mu     sync.Mutex
	storms map[string][]*model.Track
}

func NewMemorySource() *MemorySource {
	return &MemorySource{storms: make(map[string][]*model.Track)}
}

// Put replaces the tracks of a storm.
func (s *MemorySource) Put(stormID string, tracks ...*model.Track) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.storms[stormID] = slices.Clone(tracks)
}

func (s *MemorySource) Tracks(ctx context.Context, stormID string) ([]*model.Track, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	tracks, ok := s.storms[stormID]
	if !ok {
		return nil, fmt.Errorf("%s: unknown storm", stormID)
	}
	return slices.Clone(tracks), nil
}
