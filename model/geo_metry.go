package model

import (
	"fmt"
	"math"
)

type Point struct {
	Latitude  float64
	Longitude float64
}

func (p Point) String() string {
	return fmt.Sprintf("(%f, %f)", p.Latitude, p.Longitude)
}

// IsFinite reports whether both coordinates are neither NaN nor infinite.
func (p Point) IsFinite() bool {
	return !math.IsNaN(p.Latitude) && !math.IsInf(p.Latitude, 0) &&
		!math.IsNaN(p.Longitude) && !math.IsInf(p.Longitude, 0)
}

type LinearRing struct {
	Coordinates []Point
}

// Closed returns the coordinates with the first point repeated at the end,
// unless the ring is already closed.
func (r LinearRing) Closed() []Point {
	n := len(r.Coordinates)
	if n == 0 || r.Coordinates[0] == r.Coordinates[n-1] {
		return r.Coordinates
	}
	pts := make([]Point, 0, n+1)
	pts = append(pts, r.Coordinates...)
	return append(pts, r.Coordinates[0])
}

// RingPolygon is a discretized circle around a track point. It holds
// RingVertices points and is not explicitly closed.
type RingPolygon struct {
	LinearRing
}

const RingVertices = 73

// Ring is a range ring together with the track point that generated it.
type Ring struct {
	Point   TrackPoint
	Radius  Value
	Polygon RingPolygon
}

// ConePolygon is the closed uncertainty cone of a single track; the first
// and last vertices are both the track's first point.
type ConePolygon struct {
	LinearRing
	Attribute AttributeID
}

// Cone is the cone built for one track and one attribute.
type Cone struct {
	Track     *Track
	Attribute AttributeID
	Polygon   ConePolygon
}

// TrackLine is the drawn path of a track, optionally coloured by an
// attribute. Values holds NaN where a point lacks the attribute.
type TrackLine struct {
	Track     *Track
	Attribute AttributeID
	Path      []Point
	Values    []float64
}

// WayGeometry is the geometry currently shown for one way.
type WayGeometry struct {
	Way   Way
	Lines []TrackLine
	Rings []Ring
	Cones []Cone
	// Swath is the outline of the union of Rings, if computed.
	Swath [][]Point
}
