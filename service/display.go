package service

import (
	"slices"
	"typhoon-cone/model"
)

// CachedGeometry is the geometry most recently built for a way, together
// with the attribute ids it was built from. It is replaced as a whole on
// every rebuild and is never modified in place.
type CachedGeometry struct {
	LineAttribute model.AttributeID
	Lines         []model.TrackLine

	RingAttribute model.AttributeID
	Rings         []model.Ring
	Swath         [][]model.Point

	ConeAttributes []model.AttributeID
	Cones          []model.Cone

	keys [numParts]buildKey
}

// buildKey identifies the inputs of a build: the attribute ids and, for
// every track, its load generation and the edit revisions of those ids.
type buildKey struct {
	valid      bool
	attributes []model.AttributeID
	stamps     []uint64
}

func (k buildKey) equal(o buildKey) bool {
	return k.valid && o.valid && slices.Equal(k.attributes, o.attributes) && slices.Equal(k.stamps, o.stamps)
}

type trackEntry struct {
	track *model.Track
	// gen is assigned when the track is loaded and survives edits.
	gen uint64
}

// WayDisplay is the display state of a single way of a storm.
type WayDisplay struct {
	way        model.Way
	visibility WayVisibility
	tracks     []trackEntry
	cache      CachedGeometry
	failed     [numParts]buildKey
}

func newWayDisplay(way model.Way, defaults WayVisibility, group *GroupVisibility) *WayDisplay {
	v := defaults
	v.Observation = way.IsObservation()
	v.Group = group
	return &WayDisplay{way: way, visibility: v}
}

func (wd *WayDisplay) hasTracks() bool {
	return len(wd.tracks) > 0
}

func (wd *WayDisplay) shouldShow(p Part) bool {
	return wd.visibility.ShouldShow(p, wd.hasTracks())
}

func (wd *WayDisplay) key(attrs []model.AttributeID) buildKey {
	k := buildKey{valid: true, attributes: slices.Clone(attrs)}
	for _, e := range wd.tracks {
		k.stamps = append(k.stamps, e.gen)
		for _, id := range attrs {
			k.stamps = append(k.stamps, e.track.AttributeRevision(id))
		}
	}
	return k
}
