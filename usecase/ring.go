package usecase

import (
	"errors"
	"fmt"
	"typhoon-cone/model"
)

// Vertices are spaced 360/73 degrees apart so none falls exactly on a
// cardinal direction.
const ringStep = 360. / model.RingVertices

// BuildRing returns the range ring of the given radius around center.
func BuildRing(center model.Point, radius model.Value) (model.RingPolygon, error) {
	if radius.Value < 0 {
		return model.RingPolygon{}, fmt.Errorf("ring at %s: %w", center, model.ErrNegativeRadius)
	}

	points := make([]model.Point, 0, model.RingVertices)
	for i := 0; i < model.RingVertices; i++ {
		p, err := ForwardPoint(center, float64(i)*ringStep, radius.Value, radius.Unit)
		if err != nil {
			return model.RingPolygon{}, err
		}
		points = append(points, p)
	}
	return model.RingPolygon{LinearRing: model.LinearRing{Coordinates: points}}, nil
}

// BuildRings builds one ring for every point of the track that carries
// the attribute with a non-negative value; other points are skipped. A
// track without the attribute yields an empty result.
func BuildRings(track *model.Track, id model.AttributeID) ([]model.Ring, error) {
	if track == nil {
		return nil, nil
	}

	var rings []model.Ring
	for i, tp := range track.Points {
		radius, err := tp.Radius(id)
		if errors.Is(err, model.ErrMissingAttribute) || errors.Is(err, model.ErrNegativeRadius) {
			continue
		} else if err != nil {
			return nil, fmt.Errorf("%s point %d: %w", track, i, err)
		}

		poly, err := BuildRing(tp.Location, radius)
		if err != nil {
			return nil, fmt.Errorf("%s point %d: %w", track, i, err)
		}
		rings = append(rings, model.Ring{Point: tp, Radius: radius, Polygon: poly})
	}
	return rings, nil
}
