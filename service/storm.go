package service

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sort"
	"sync"
	"time"
	"typhoon-cone/log"
	"typhoon-cone/model"
	"typhoon-cone/usecase"
)

// TrackSource supplies the tracks of a storm, already in memory.
type TrackSource interface {
	Tracks(ctx context.Context, stormID string) ([]*model.Track, error)
}

// Renderer draws the geometry of a storm. SetActive(false) is called
// before a rebuild starts and SetActive(true) once it has finished; a
// renderer should not draw geometry received in between until then.
// ShowRings with an empty slice clears any rings previously shown.
type Renderer interface {
	SetActive(active bool)
	ShowTracks(way model.Way, lines []model.TrackLine)
	ShowCones(way model.Way, cones []model.Cone)
	ShowRings(way model.Way, rings []model.Ring, swath [][]model.Point)
	Hide(way model.Way, p Part)
}

type GeometryBuilder interface {
	BuildTrackLine(track *model.Track, id model.AttributeID) (model.TrackLine, error)
	BuildRings(track *model.Track, id model.AttributeID) ([]model.Ring, error)
	BuildCone(track *model.Track, id model.AttributeID) (*model.ConePolygon, error)
}

type Options struct {
	Builder GeometryBuilder
	Logger  *log.Logger

	TrackAttribute model.AttributeID
	RingAttribute  model.AttributeID
	ConeAttributes []model.AttributeID
	// RingSwath adds the outline of the union of a way's rings.
	RingSwath bool

	// Flags given to ways when they are created and restored on
	// deactivation.
	WayDefaults   WayVisibility
	GroupDefaults GroupVisibility
}

func DefaultOptions() Options {
	return Options{
		Builder:       usecase.Builder{},
		WayDefaults:   WayVisibility{Way: true, Track: true, Cone: true, Rings: true},
		GroupDefaults: GroupVisibility{Track: true, Cone: true, Rings: true},
	}
}

// StormDisplay holds the display state of every way of one storm.
//
// All state changes and geometry rebuilds run on a per-storm worker
// goroutine, one at a time and in the order they were requested, while
// holding mu. Readers take mu too and so never observe a partial rebuild.
type StormDisplay struct {
	ID string

	source   TrackSource
	renderer Renderer
	builder  GeometryBuilder
	opts     Options
	lg       *log.Logger

	mu        sync.Mutex
	queue     *jobQueue
	group     GroupVisibility
	ways      map[model.Way]*WayDisplay
	trackAttr model.AttributeID
	ringAttr  model.AttributeID
	coneAttrs []model.AttributeID
	gen       uint64
}

func NewStormDisplay(id string, source TrackSource, renderer Renderer, opts Options) *StormDisplay {
	if opts.Builder == nil {
		opts.Builder = usecase.Builder{}
	}
	sd := &StormDisplay{
		ID:       id,
		source:   source,
		renderer: renderer,
		builder:  opts.Builder,
		opts:     opts,
		lg:       opts.Logger.With(slog.String("storm", id)),
	}
	sd.reset()
	return sd
}

func (sd *StormDisplay) reset() {
	sd.group = sd.opts.GroupDefaults
	sd.ways = make(map[model.Way]*WayDisplay)
	sd.trackAttr = sd.opts.TrackAttribute
	sd.ringAttr = sd.opts.RingAttribute
	sd.coneAttrs = slices.Clone(sd.opts.ConeAttributes)
}

func (sd *StormDisplay) lock() {
	start := time.Now()
	sd.mu.Lock()
	if w := time.Since(start); w > time.Second {
		sd.lg.Warn("long wait for storm lock", slog.Duration("wait", w))
	}
}

///////////////////////////////////////////////////////////////////////////
// Lifecycle

// Activate starts the worker and queues the initial load of the storm's
// tracks. Calling it on an active display does nothing.
func (sd *StormDisplay) Activate(ctx context.Context) {
	sd.mu.Lock()
	if sd.queue != nil {
		sd.mu.Unlock()
		return
	}
	sd.queue = newJobQueue()
	sd.mu.Unlock()

	sd.lg.Info("activating storm display")
	sd.enqueue(func() { sd.loadLocked(ctx) })
}

// Deactivate waits for queued work to finish, then discards all geometry
// and resets every flag and selection.
func (sd *StormDisplay) Deactivate() {
	sd.mu.Lock()
	q := sd.queue
	sd.queue = nil
	sd.mu.Unlock()
	if q == nil {
		return
	}
	q.close()

	sd.lock()
	defer sd.mu.Unlock()

	for way := range sd.ways {
		for _, p := range parts {
			sd.renderer.Hide(way, p)
		}
	}
	sd.reset()
	sd.lg.Info("deactivated storm display")
}

func (sd *StormDisplay) Active() bool {
	sd.mu.Lock()
	defer sd.mu.Unlock()
	return sd.queue != nil
}

// enqueue queues apply followed by a display update.
func (sd *StormDisplay) enqueue(apply func()) error {
	sd.mu.Lock()
	q := sd.queue
	sd.mu.Unlock()
	if q == nil {
		return ErrNotActive
	}

	if !q.push(func() {
		sd.lock()
		defer sd.mu.Unlock()
		defer func() {
			if r := recover(); r != nil {
				sd.lg.Error("storm display job panicked", slog.Any("panic", r))
			}
		}()

		apply()
		sd.updateDisplayLocked()
	}) {
		return ErrNotActive
	}
	return nil
}

// RequestUpdate queues a display update.
func (sd *StormDisplay) RequestUpdate() error {
	return sd.enqueue(func() {})
}

// Sync waits until everything queued before the call has been applied.
func (sd *StormDisplay) Sync(ctx context.Context) error {
	sd.mu.Lock()
	q := sd.queue
	sd.mu.Unlock()
	if q == nil {
		return ErrNotActive
	}

	done := make(chan struct{})
	if !q.push(func() { close(done) }) {
		return ErrNotActive
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

///////////////////////////////////////////////////////////////////////////
// Tracks

// Reload queues a re-read of the storm's tracks from the source.
func (sd *StormDisplay) Reload(ctx context.Context) error {
	return sd.enqueue(func() { sd.loadLocked(ctx) })
}

func (sd *StormDisplay) loadLocked(ctx context.Context) {
	tracks, err := sd.source.Tracks(ctx, sd.ID)
	if err != nil {
		sd.lg.Error("unable to load tracks", slog.Any("error", err))
		return
	}
	sd.setTracksLocked(tracks)
}

func (sd *StormDisplay) setTracksLocked(tracks []*model.Track) {
	byWay := make(map[model.Way][]trackEntry)
	for _, t := range tracks {
		if t == nil {
			continue
		}
		sd.gen++
		byWay[t.Way] = append(byWay[t.Way], trackEntry{track: t, gen: sd.gen})
	}

	for way, wd := range sd.ways {
		if _, ok := byWay[way]; !ok {
			wd.tracks = nil
		}
	}
	for way, entries := range byWay {
		sort.SliceStable(entries, func(i, j int) bool {
			return entries[i].track.IssueTime.Before(entries[j].track.IssueTime)
		})
		sd.wayLocked(way).tracks = entries
	}
	sd.lg.Info("loaded tracks", slog.Int("tracks", len(tracks)), slog.Int("ways", len(byWay)))
}

// EditAttribute queues an edit of one attribute of one track point. The
// track identified by way and issue time is replaced by an edited copy;
// geometry built from the attribute is rebuilt on the next update.
func (sd *StormDisplay) EditAttribute(way model.Way, issue time.Time, point int, id model.AttributeID, v model.Value) error {
	return sd.enqueue(func() {
		wd := sd.wayLocked(way)
		i := slices.IndexFunc(wd.tracks, func(e trackEntry) bool { return e.track.IssueTime.Equal(issue) })
		if i == -1 {
			sd.lg.Warn("edit of unknown track", slog.String("way", string(way)),
				slog.Time("issue", issue), slog.Any("error", ErrNoSuchTrack))
			return
		}
		edited, err := wd.tracks[i].track.WithAttribute(point, id, v)
		if err != nil {
			sd.lg.Warn("unable to edit track", slog.String("way", string(way)), slog.Any("error", err))
			return
		}
		wd.tracks = slices.Clone(wd.tracks)
		wd.tracks[i].track = edited
	})
}

///////////////////////////////////////////////////////////////////////////
// Flags and selections

func (sd *StormDisplay) wayLocked(way model.Way) *WayDisplay {
	wd, ok := sd.ways[way]
	if !ok {
		wd = newWayDisplay(way, sd.opts.WayDefaults, &sd.group)
		sd.ways[way] = wd
	}
	return wd
}

func (sd *StormDisplay) SetWayVisible(way model.Way, v bool) error {
	return sd.enqueue(func() { sd.wayLocked(way).visibility.Way = v })
}

func (sd *StormDisplay) SetTrackVisible(way model.Way, v bool) error {
	return sd.setPartVisible(way, PartTrack, v)
}

func (sd *StormDisplay) SetConeVisible(way model.Way, v bool) error {
	return sd.setPartVisible(way, PartCone, v)
}

func (sd *StormDisplay) SetRingsVisible(way model.Way, v bool) error {
	return sd.setPartVisible(way, PartRings, v)
}

func (sd *StormDisplay) setPartVisible(way model.Way, p Part, v bool) error {
	return sd.enqueue(func() { sd.wayLocked(way).visibility.setFlag(p, v) })
}

// SetGroupVisible sets a flag of the forecast group, which gates part p of
// every forecast way.
func (sd *StormDisplay) SetGroupVisible(p Part, v bool) error {
	return sd.enqueue(func() { sd.group.setFlag(p, v) })
}

func (sd *StormDisplay) SelectTrackAttribute(id model.AttributeID) error {
	return sd.enqueue(func() { sd.trackAttr = id })
}

func (sd *StormDisplay) SelectRingAttribute(id model.AttributeID) error {
	return sd.enqueue(func() { sd.ringAttr = id })
}

func (sd *StormDisplay) SelectConeAttributes(ids []model.AttributeID) error {
	ids = slices.Clone(ids)
	return sd.enqueue(func() { sd.coneAttrs = ids })
}

// Visibility returns the flags of the way; the returned Group is a copy.
func (sd *StormDisplay) Visibility(way model.Way) WayVisibility {
	sd.lock()
	defer sd.mu.Unlock()

	v := sd.wayLocked(way).visibility
	g := sd.group
	v.Group = &g
	return v
}

func (sd *StormDisplay) GroupVisibility() GroupVisibility {
	sd.lock()
	defer sd.mu.Unlock()
	return sd.group
}

func (sd *StormDisplay) ShouldShowTrack(way model.Way) bool {
	return sd.shouldShow(way, PartTrack)
}

func (sd *StormDisplay) ShouldShowCone(way model.Way) bool {
	return sd.shouldShow(way, PartCone)
}

func (sd *StormDisplay) ShouldShowRings(way model.Way) bool {
	return sd.shouldShow(way, PartRings)
}

func (sd *StormDisplay) shouldShow(way model.Way, p Part) bool {
	sd.lock()
	defer sd.mu.Unlock()
	return sd.wayLocked(way).shouldShow(p)
}

// Ways returns the ways referenced so far, sorted with the observation
// first.
func (sd *StormDisplay) Ways() []model.Way {
	sd.lock()
	defer sd.mu.Unlock()
	return sd.waysLocked()
}

func (sd *StormDisplay) waysLocked() []model.Way {
	ways := make([]model.Way, 0, len(sd.ways))
	for w := range sd.ways {
		ways = append(ways, w)
	}
	sort.Slice(ways, func(i, j int) bool {
		if ways[i].IsObservation() != ways[j].IsObservation() {
			return ways[i].IsObservation()
		}
		return ways[i] < ways[j]
	})
	return ways
}

// Geometry returns the cached geometry of every way.
func (sd *StormDisplay) Geometry() map[model.Way]CachedGeometry {
	sd.lock()
	defer sd.mu.Unlock()

	g := make(map[model.Way]CachedGeometry, len(sd.ways))
	for way, wd := range sd.ways {
		g[way] = wd.cache
	}
	return g
}

///////////////////////////////////////////////////////////////////////////
// Updating

// UpdateDisplay brings every way's displayed geometry in line with the
// current flags and selections, rebuilding a part only if the attribute
// ids or track data it depends on changed since it was last built.
func (sd *StormDisplay) UpdateDisplay() {
	sd.lock()
	defer sd.mu.Unlock()
	sd.updateDisplayLocked()
}

func (sd *StormDisplay) updateDisplayLocked() {
	sd.renderer.SetActive(false)
	defer sd.renderer.SetActive(true)

	for _, way := range sd.waysLocked() {
		wd := sd.ways[way]
		for _, p := range parts {
			sd.updatePartLocked(wd, p)
		}
	}
}

func (sd *StormDisplay) attributesLocked(p Part) []model.AttributeID {
	switch p {
	case PartTrack:
		return []model.AttributeID{sd.trackAttr}
	case PartRings:
		return []model.AttributeID{sd.ringAttr}
	default:
		return sd.coneAttrs
	}
}

func (sd *StormDisplay) updatePartLocked(wd *WayDisplay, p Part) {
	if !wd.shouldShow(p) {
		sd.renderer.Hide(wd.way, p)
		return
	}

	key := wd.key(sd.attributesLocked(p))
	if !wd.cache.keys[p].equal(key) {
		if wd.failed[p].equal(key) {
			// Already failed with these inputs.
			sd.renderer.Hide(wd.way, p)
			return
		}

		cache, err := sd.rebuild(wd, p)
		if err != nil {
			sd.lg.Error("unable to rebuild geometry", slog.String("way", string(wd.way)),
				slog.String("part", p.String()), slog.Any("error", err))
			wd.failed[p] = key
			sd.renderer.Hide(wd.way, p)
			return
		}
		cache.keys[p] = key
		wd.cache = cache
		wd.failed[p] = buildKey{}
	}

	switch p {
	case PartTrack:
		sd.renderer.ShowTracks(wd.way, wd.cache.Lines)
	case PartCone:
		sd.renderer.ShowCones(wd.way, wd.cache.Cones)
	case PartRings:
		sd.renderer.ShowRings(wd.way, wd.cache.Rings, wd.cache.Swath)
	}
}

// rebuild returns a copy of the way's cache with part p rebuilt. Errors
// and panics are reported as ErrRebuildFailure and leave the cache alone.
func (sd *StormDisplay) rebuild(wd *WayDisplay, p Part) (cache CachedGeometry, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %s %s: panic: %v", ErrRebuildFailure, wd.way, p, r)
		}
	}()

	cache = wd.cache
	start := time.Now()

	switch p {
	case PartTrack:
		var lines []model.TrackLine
		for _, e := range wd.tracks {
			line, err := sd.builder.BuildTrackLine(e.track, sd.trackAttr)
			if err != nil {
				return wd.cache, fmt.Errorf("%w: %s track: %w", ErrRebuildFailure, e.track, err)
			}
			lines = append(lines, line)
		}
		cache.LineAttribute, cache.Lines = sd.trackAttr, lines

	case PartRings:
		var rings []model.Ring
		if sd.ringAttr != "" {
			for _, e := range wd.tracks {
				r, err := sd.builder.BuildRings(e.track, sd.ringAttr)
				if err != nil {
					return wd.cache, fmt.Errorf("%w: %s rings: %w", ErrRebuildFailure, e.track, err)
				}
				rings = append(rings, r...)
			}
		}
		if len(rings) == 0 {
			sd.lg.Debug("no rings", slog.String("way", string(wd.way)),
				slog.String("attribute", string(sd.ringAttr)))
		}

		var swath [][]model.Point
		if sd.opts.RingSwath && len(rings) > 0 {
			var serr error
			if swath, serr = RingSwath(rings); serr != nil {
				sd.lg.Warn("unable to compute ring swath", slog.String("way", string(wd.way)),
					slog.Any("error", serr))
				swath = nil
			}
		}
		cache.RingAttribute, cache.Rings, cache.Swath = sd.ringAttr, rings, swath

	case PartCone:
		var cones []model.Cone
		for _, e := range wd.tracks {
			for _, id := range sd.coneAttrs {
				poly, err := sd.builder.BuildCone(e.track, id)
				if err != nil {
					return wd.cache, fmt.Errorf("%w: %s cone %s: %w", ErrRebuildFailure, e.track, id, err)
				}
				if poly != nil {
					cones = append(cones, model.Cone{Track: e.track, Attribute: id, Polygon: *poly})
				}
			}
		}
		cache.ConeAttributes, cache.Cones = slices.Clone(sd.coneAttrs), cones
	}

	sd.lg.Debug("rebuilt geometry", slog.String("way", string(wd.way)),
		slog.String("part", p.String()), slog.Duration("elapsed", time.Since(start)))
	return cache, nil
}
