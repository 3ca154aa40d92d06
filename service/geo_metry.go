package service

import (
	"fmt"
	"typhoon-cone/model"
	"typhoon-cone/usecase"

	"github.com/twpayne/go-geos"
)

// RingSwath returns the outline of the union of the rings, one exterior
// ring per disjoint piece. Zero-radius rings are ignored.
func RingSwath(rings []model.Ring) ([][]model.Point, error) {
	circles := [][]model.Point{}
	for _, r := range rings {
		if r.Radius.Value > 0 {
			circles = append(circles, r.Polygon.Coordinates)
		}
	}
	if len(circles) == 0 {
		return nil, nil
	}

	wkt := usecase.MultiPolygonToWKT(circles)
	geom, err := geos.NewGeomFromWKT(wkt)
	if err != nil {
		return nil, fmt.Errorf("ring swath: %w", err)
	}
	buffered := geom.Buffer(0, 32)
	if buffered == nil || buffered.IsEmpty() {
		return nil, nil
	}

	var outlines [][]model.Point
	for i := 0; i < buffered.NumGeometries(); i++ {
		coords := buffered.Geometry(i).ExteriorRing().CoordSeq().ToCoords()
		outline := make([]model.Point, 0, len(coords))
		for _, c := range coords {
			outline = append(outline, model.Point{Latitude: c[1], Longitude: c[0]})
		}
		outlines = append(outlines, outline)
	}
	return outlines, nil
}
