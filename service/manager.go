package service

import (
	"context"
	"log/slog"
	"typhoon-cone/log"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/errgroup"
)

// Manager keeps a bounded set of active storm displays. When the limit is
// reached the least recently used storm is deactivated.
type Manager struct {
	source      TrackSource
	newRenderer func(stormID string) Renderer
	opts        Options
	parallelism int
	lg          *log.Logger

	storms *lru.Cache[string, *StormDisplay]
}

func NewManager(source TrackSource, newRenderer func(stormID string) Renderer, maxStorms, parallelism int,
	opts Options) (*Manager, error) {
	m := &Manager{
		source:      source,
		newRenderer: newRenderer,
		opts:        opts,
		parallelism: parallelism,
		lg:          opts.Logger,
	}

	var err error
	m.storms, err = lru.NewWithEvict(maxStorms, func(id string, sd *StormDisplay) {
		m.lg.Info("deactivating storm", slog.String("storm", id))
		sd.Deactivate()
	})
	if err != nil {
		return nil, err
	}
	return m, nil
}

// Activate returns the display of the storm, creating and activating it
// if needed.
func (m *Manager) Activate(ctx context.Context, stormID string) *StormDisplay {
	if sd, ok := m.storms.Get(stormID); ok {
		return sd
	}

	sd := NewStormDisplay(stormID, m.source, m.newRenderer(stormID), m.opts)
	sd.Activate(ctx)
	if prev, ok, _ := m.storms.PeekOrAdd(stormID, sd); ok {
		// Lost a race with another Activate.
		sd.Deactivate()
		return prev
	}
	return sd
}

func (m *Manager) Get(stormID string) (*StormDisplay, bool) {
	return m.storms.Get(stormID)
}

// Deactivate deactivates and forgets the storm's display.
func (m *Manager) Deactivate(stormID string) bool {
	return m.storms.Remove(stormID)
}

func (m *Manager) StormIDs() []string {
	return m.storms.Keys()
}

// UpdateAll requests an update of every active storm and waits for all of
// them to complete.
func (m *Manager) UpdateAll(ctx context.Context) error {
	eg, ctx := errgroup.WithContext(ctx)
	if m.parallelism > 0 {
		eg.SetLimit(m.parallelism)
	}
	for _, sd := range m.storms.Values() {
		eg.Go(func() error {
			if err := sd.RequestUpdate(); err != nil {
				return err
			}
			return sd.Sync(ctx)
		})
	}
	return eg.Wait()
}

// Close deactivates every storm.
func (m *Manager) Close() {
	m.storms.Purge()
}
