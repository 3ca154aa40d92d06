package service

// Part is one of the independently displayed pieces of a way.
type Part int

const (
	PartTrack Part = iota
	PartCone
	PartRings
	numParts
)

var parts = [numParts]Part{PartTrack, PartCone, PartRings}

func (p Part) String() string {
	switch p {
	case PartTrack:
		return "track"
	case PartCone:
		return "cone"
	case PartRings:
		return "rings"
	default:
		return "unknown"
	}
}

// GroupVisibility holds the flags shared by all forecast ways of a storm.
type GroupVisibility struct {
	Track bool
	Cone  bool
	Rings bool
}

func (g GroupVisibility) Flag(p Part) bool {
	switch p {
	case PartTrack:
		return g.Track
	case PartCone:
		return g.Cone
	case PartRings:
		return g.Rings
	}
	return false
}

func (g *GroupVisibility) setFlag(p Part, v bool) {
	switch p {
	case PartTrack:
		g.Track = v
	case PartCone:
		g.Cone = v
	case PartRings:
		g.Rings = v
	}
}

// WayVisibility holds the flags of one way. Forecast ways reference the
// storm's forecast group; observation ways ignore it.
type WayVisibility struct {
	Way   bool
	Track bool
	Cone  bool
	Rings bool

	Observation bool
	Group       *GroupVisibility
}

func (v WayVisibility) Flag(p Part) bool {
	switch p {
	case PartTrack:
		return v.Track
	case PartCone:
		return v.Cone
	case PartRings:
		return v.Rings
	}
	return false
}

func (v *WayVisibility) setFlag(p Part, b bool) {
	switch p {
	case PartTrack:
		v.Track = b
	case PartCone:
		v.Cone = b
	case PartRings:
		v.Rings = b
	}
}

// ShouldShow reports whether part p is drawn: the way must be visible and
// have tracks, the forecast group flag for p must be set (forecast ways
// only), and the way's own flag for p must be set.
func (v WayVisibility) ShouldShow(p Part, hasTracks bool) bool {
	if !v.Way || !hasTracks {
		return false
	}
	if !v.Observation && v.Group != nil && !v.Group.Flag(p) {
		return false
	}
	return v.Flag(p)
}
