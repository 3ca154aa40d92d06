package usecase

import (
	"errors"
	"fmt"
	"math"
	"typhoon-cone/model"

	"github.com/golang/geo/r2"
)

const (
	capPoints = 11
	capStep   = 15. // degrees
)

// ConeVertices returns the number of vertices of the cone built from k
// selected points (apex included).
func ConeVertices(k int) int {
	return 2*k + capPoints
}

type coneNode struct {
	location model.Point
	radius   model.Value
	km       float64
}

// BuildCone returns the uncertainty cone of the track for the radius
// attribute id, or nil when fewer than two points are available.
//
// The first track point is the apex with radius 0. At each following point
// that carries the attribute, offset points are placed perpendicular to the
// direction from the previous point at that point's radius; the previous
// point is treated as a zero-radius anchor. The last point gets a rounded
// cap.
func BuildCone(track *model.Track, id model.AttributeID) (*model.ConePolygon, error) {
	if track == nil || len(track.Points) == 0 {
		return nil, nil
	}

	nodes := []coneNode{{location: track.Points[0].Location}}
	for i, tp := range track.Points[1:] {
		radius, err := tp.Radius(id)
		if errors.Is(err, model.ErrMissingAttribute) || errors.Is(err, model.ErrNegativeRadius) {
			continue
		} else if err != nil {
			return nil, fmt.Errorf("%s point %d: %w", track, i+1, err)
		}
		km, err := radius.Unit.ToKilometers(radius.Value)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, coneNode{location: tp.Location, radius: radius, km: km})
	}

	k := len(nodes)
	if k < 2 {
		return nil, nil
	}

	right := make([]model.Point, k)
	left := make([]model.Point, k)
	var capStart float64
	for i := 1; i < k; i++ {
		plane := NewLocalPlane(nodes[i-1].location)
		prev := plane.Project(nodes[i-1].location)
		cur := plane.Project(nodes[i].location)

		d := cur.Sub(prev)
		dist := d.Norm()
		if dist == 0 || math.IsNaN(dist) || math.IsInf(dist, 0) {
			return nil, fmt.Errorf("%s: points %s and %s coincide: %w", track,
				nodes[i-1].location, nodes[i].location, model.ErrInvalidGeometry)
		}

		offset := r2.Point{X: d.Y, Y: -d.X}.Mul(nodes[i].km / dist)
		r := cur.Add(offset)

		var err error
		if right[i], err = plane.Unproject(r); err != nil {
			return nil, err
		}
		if left[i], err = plane.Unproject(cur.Sub(offset)); err != nil {
			return nil, err
		}

		if i == k-1 {
			v := r.Sub(prev)
			capStart = radToDeg(math.Atan2(v.Y, v.X))
		}
	}

	last := nodes[k-1]
	capPts := make([]model.Point, 0, capPoints)
	for j := 0; j < capPoints; j++ {
		az := planarToAzimuth(capStart + float64(j)*capStep)
		p, err := ForwardPoint(last.location, az, last.radius.Value, last.radius.Unit)
		if err != nil {
			return nil, err
		}
		capPts = append(capPts, p)
	}

	poly := make([]model.Point, 0, ConeVertices(k))
	poly = append(poly, nodes[0].location)
	poly = append(poly, right[1:]...)
	poly = append(poly, capPts...)
	for i := k - 1; i >= 1; i-- {
		poly = append(poly, left[i])
	}
	poly = append(poly, nodes[0].location)

	return &model.ConePolygon{
		LinearRing: model.LinearRing{Coordinates: poly},
		Attribute:  id,
	}, nil
}

// planarToAzimuth converts an angle measured counter-clockwise from +x
// (east) into a compass azimuth.
func planarToAzimuth(a float64) float64 {
	for a > 360 {
		a -= 360
	}
	for a < -180 {
		a += 360
	}

	switch {
	case a >= 0 && a <= 90:
		return 90 - a
	case a > 90 && a <= 180:
		return 360 + (90 - a)
	case a < 0:
		return 90 - a
	default: // 180 < a <= 360
		return 450 - a
	}
}
