package service

import (
	"context"
	"slices"
	"testing"
	"typhoon-cone/model"
)

func newTestManager(t *testing.T, maxStorms int, ids ...string) (*Manager, map[string]*recordingRenderer) {
	t.Helper()
	source := NewMemorySource()
	for _, id := range ids {
		source.Put(id, testTracks(t)...)
	}
	opts := DefaultOptions()
	opts.RingAttribute = r34
	opts.ConeAttributes = []model.AttributeID{r34}

	renderers := make(map[string]*recordingRenderer)
	m, err := NewManager(source, func(id string) Renderer {
		r := newRecordingRenderer()
		renderers[id] = r
		return r
	}, maxStorms, 2, opts)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(m.Close)
	return m, renderers
}

func TestManagerEviction(t *testing.T) {
	m, renderers := newTestManager(t, 2, "A", "B", "C")
	ctx := context.Background()

	a := m.Activate(ctx, "A")
	if again := m.Activate(ctx, "A"); again != a {
		t.Errorf("second Activate created a new display")
	}
	m.Activate(ctx, "B")
	m.Get("A") // A is now most recently used
	m.Activate(ctx, "C")

	if _, ok := m.Get("B"); ok {
		t.Errorf("least recently used storm not evicted")
	}
	ids := m.StormIDs()
	slices.Sort(ids)
	if !slices.Equal(ids, []string{"A", "C"}) {
		t.Errorf("got storms %v", ids)
	}
	if len(renderers) != 3 {
		t.Errorf("got %d renderers, expected 3", len(renderers))
	}

	if !m.Deactivate("A") {
		t.Errorf("Deactivate of active storm returned false")
	}
	if a.Active() {
		t.Errorf("removed storm still active")
	}
	if m.Deactivate("A") {
		t.Errorf("Deactivate of inactive storm returned true")
	}
}

func TestManagerUpdateAll(t *testing.T) {
	m, renderers := newTestManager(t, 4, "A", "B", "C")
	ctx := context.Background()

	var displays []*StormDisplay
	for _, id := range []string{"A", "B", "C"} {
		displays = append(displays, m.Activate(ctx, id))
	}
	if err := m.UpdateAll(ctx); err != nil {
		t.Fatal(err)
	}

	for id, r := range renderers {
		if n := r.showing(jma, PartCone); n != 1 {
			t.Errorf("%s: showing %d cones, expected 1", id, n)
		}
	}

	m.Close()
	for _, sd := range displays {
		if sd.Active() {
			t.Errorf("%s still active after Close", sd.ID)
		}
	}
}
