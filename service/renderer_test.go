package service

import (
	"bytes"
	"strings"
	"testing"
	"typhoon-cone/model"
)

func TestGeoJSONRendererStaging(t *testing.T) {
	r := NewGeoJSONRenderer()
	rings := []model.Ring{ring(t, 20, 135, 100)}

	r.ShowRings(jma, rings, nil)
	if scene := r.Scene(); len(scene) != 1 || len(scene[0].Rings) != 1 {
		t.Fatalf("active renderer did not show rings: %+v", scene)
	}

	r.SetActive(false)
	r.Hide(jma, PartRings)
	r.ShowRings(model.Observation, rings, nil)
	if scene := r.Scene(); len(scene) != 1 || scene[0].Way != jma {
		t.Errorf("changes visible while inactive: %+v", scene)
	}

	r.SetActive(true)
	scene := r.Scene()
	if len(scene) != 1 || scene[0].Way != model.Observation {
		t.Errorf("staged changes not committed: %+v", scene)
	}
}

func TestGeoJSONRendererExport(t *testing.T) {
	b := &countingBuilder{}
	source := NewMemorySource()
	source.Put("WP01", testTracks(t)...)
	opts := DefaultOptions()
	opts.Builder = b
	opts.RingAttribute = r34
	opts.ConeAttributes = []model.AttributeID{r34}

	r := NewGeoJSONRenderer()
	sd := NewStormDisplay("WP01", source, r, opts)
	sd.Activate(t.Context())
	defer sd.Deactivate()
	syncStorm(t, sd)

	scene := r.Scene()
	if len(scene) != 2 || scene[0].Way != model.Observation || scene[1].Way != jma {
		t.Fatalf("unexpected scene order")
	}

	fc := r.FeatureCollection()
	// 2 track lines, 7 rings, 2 cones.
	if len(fc.Features) != 11 {
		t.Errorf("got %d features, expected 11", len(fc.Features))
	}
	kinds := make(map[string]int)
	for _, f := range fc.Features {
		kinds[f.Properties["kind"].(string)]++
	}
	if kinds["track"] != 2 || kinds["ring"] != 7 || kinds["cone"] != 2 {
		t.Errorf("unexpected feature kinds %v", kinds)
	}

	var buf bytes.Buffer
	if err := r.WriteKML(&buf, "WP01"); err != nil {
		t.Fatal(err)
	}
	if s := buf.String(); !strings.Contains(s, "<kml") || strings.Count(s, "<Polygon>") != 9 {
		t.Errorf("unexpected KML output:\n%s", s)
	}
}
