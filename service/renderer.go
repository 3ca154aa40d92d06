package service

import (
	"io"
	"sort"
	"sync"
	"typhoon-cone/model"
	"typhoon-cone/usecase"

	geojson "github.com/paulmach/go.geojson"
)

// GeoJSONRenderer is a Renderer that keeps the shown geometry in memory
// for export. Changes made while it is inactive are staged and only
// become visible through Scene once it is activated again.
type GeoJSONRenderer struct {
	mu        sync.Mutex
	active    bool
	staged    map[model.Way]model.WayGeometry
	committed map[model.Way]model.WayGeometry
}

func NewGeoJSONRenderer() *GeoJSONRenderer {
	return &GeoJSONRenderer{
		active:    true,
		staged:    make(map[model.Way]model.WayGeometry),
		committed: make(map[model.Way]model.WayGeometry),
	}
}

func (r *GeoJSONRenderer) SetActive(active bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.active = active
	if active {
		r.commit()
	}
}

func (r *GeoJSONRenderer) commit() {
	r.committed = make(map[model.Way]model.WayGeometry, len(r.staged))
	for way, wg := range r.staged {
		r.committed[way] = wg
	}
}

func (r *GeoJSONRenderer) update(way model.Way, f func(*model.WayGeometry)) {
	r.mu.Lock()
	defer r.mu.Unlock()

	wg := r.staged[way]
	wg.Way = way
	f(&wg)
	r.staged[way] = wg
	if r.active {
		r.commit()
	}
}

func (r *GeoJSONRenderer) ShowTracks(way model.Way, lines []model.TrackLine) {
	r.update(way, func(wg *model.WayGeometry) { wg.Lines = lines })
}

func (r *GeoJSONRenderer) ShowCones(way model.Way, cones []model.Cone) {
	r.update(way, func(wg *model.WayGeometry) { wg.Cones = cones })
}

func (r *GeoJSONRenderer) ShowRings(way model.Way, rings []model.Ring, swath [][]model.Point) {
	r.update(way, func(wg *model.WayGeometry) { wg.Rings, wg.Swath = rings, swath })
}

func (r *GeoJSONRenderer) Hide(way model.Way, p Part) {
	r.update(way, func(wg *model.WayGeometry) {
		switch p {
		case PartTrack:
			wg.Lines = nil
		case PartCone:
			wg.Cones = nil
		case PartRings:
			wg.Rings, wg.Swath = nil, nil
		}
	})
}

// Scene returns the committed geometry, observation first.
func (r *GeoJSONRenderer) Scene() []model.WayGeometry {
	r.mu.Lock()
	defer r.mu.Unlock()

	scene := make([]model.WayGeometry, 0, len(r.committed))
	for _, wg := range r.committed {
		if len(wg.Lines) > 0 || len(wg.Cones) > 0 || len(wg.Rings) > 0 || len(wg.Swath) > 0 {
			scene = append(scene, wg)
		}
	}
	sort.Slice(scene, func(i, j int) bool {
		if scene[i].Way.IsObservation() != scene[j].Way.IsObservation() {
			return scene[i].Way.IsObservation()
		}
		return scene[i].Way < scene[j].Way
	})
	return scene
}

func (r *GeoJSONRenderer) FeatureCollection() *geojson.FeatureCollection {
	return usecase.MakeFeatureCollection(r.Scene())
}

func (r *GeoJSONRenderer) WriteKML(w io.Writer, name string) error {
	return usecase.WriteKML(w, name, r.Scene())
}
