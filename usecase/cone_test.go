package usecase

import (
	"errors"
	"math"
	"testing"
	"typhoon-cone/model"
)

func TestBuildConeEquatorial(t *testing.T) {
	track := makeTrack(t, "JTWC",
		pt(0, 0, radius, 0.),
		pt(0, 1, radius, 50.),
		pt(0, 2, radius, 100.))

	cone, err := BuildCone(track, radius)
	if err != nil {
		t.Fatal(err)
	}
	if cone == nil {
		t.Fatal("no cone built")
	}
	poly := cone.Coordinates
	if len(poly) != 17 {
		t.Fatalf("got %d vertices, expected 17", len(poly))
	}
	if poly[0] != track.Points[0].Location || poly[16] != poly[0] {
		t.Errorf("cone not closed at the apex: first %s last %s", poly[0], poly[16])
	}

	p1 := track.Points[1].Location
	// right[1] is due south of P1 since P0->P1 heads east.
	az, d, err := BearingAndDistance(p1, poly[1], model.Kilometers)
	if err != nil {
		t.Fatal(err)
	}
	if !near(d, 50, 1e-6) || !angleNear(az, 180, 1e-6) {
		t.Errorf("right[1]: got az %g d %g, expected 180/50", az, d)
	}
	// and left[1] due north.
	az, d, err = BearingAndDistance(p1, poly[15], model.Kilometers)
	if err != nil {
		t.Fatal(err)
	}
	if !near(d, 50, 1e-6) || !angleNear(az, 0, 1e-6) {
		t.Errorf("left[1]: got az %g d %g, expected 0/50", az, d)
	}

	// The cap sits on the last point's circle.
	p2 := track.Points[2].Location
	for i := 3; i < 14; i++ {
		if _, d, err := BearingAndDistance(p2, poly[i], model.Kilometers); err != nil {
			t.Fatal(err)
		} else if !near(d, 100, 1e-6) {
			t.Errorf("cap vertex %d at distance %g, expected 100", i, d)
		}
	}

	start := 90 - radToDeg(math.Atan2(-100, kmPerDegree))
	if az, _, _ := BearingAndDistance(p2, poly[3], model.Kilometers); !angleNear(az, start, 1e-6) {
		t.Errorf("first cap vertex at azimuth %g, expected %g", az, start)
	}
	if az, _, _ := BearingAndDistance(p2, poly[13], model.Kilometers); !angleNear(az, start-150, 1e-6) {
		t.Errorf("last cap vertex at azimuth %g, expected %g", az, start-150)
	}
}

func TestBuildConeVertexCount(t *testing.T) {
	for k := 2; k <= 9; k++ {
		var pts []model.TrackPoint
		for i := 0; i < k; i++ {
			lat, lon := 15+1.3*float64(i), 140-0.8*float64(i)+0.05*float64(i*i)
			pts = append(pts, pt(lat, lon, radius, 40*float64(i)))
		}
		cone, err := BuildCone(makeTrack(t, "JMA", pts...), radius)
		if err != nil {
			t.Fatalf("k=%d: %v", k, err)
		}
		if n := len(cone.Coordinates); n != 2*k+11 || n != ConeVertices(k) {
			t.Errorf("k=%d: got %d vertices, expected %d", k, n, 2*k+11)
		}
		if first, last := cone.Coordinates[0], cone.Coordinates[len(cone.Coordinates)-1]; first != last {
			t.Errorf("k=%d: cone not closed", k)
		}
		if cone.Attribute != radius {
			t.Errorf("k=%d: cone tagged with %q", k, cone.Attribute)
		}
	}
}

func TestBuildConeSelection(t *testing.T) {
	// The apex is kept without the attribute; missing and negative radii
	// are skipped.
	track := makeTrack(t, "JMA",
		pt(20, 130),
		pt(21, 130, radius, -5.),
		pt(22, 130, radius, 60.),
		pt(23, 130),
		pt(24, 130, radius, 90.))

	cone, err := BuildCone(track, radius)
	if err != nil {
		t.Fatal(err)
	}
	if len(cone.Coordinates) != ConeVertices(3) {
		t.Errorf("got %d vertices, expected %d", len(cone.Coordinates), ConeVertices(3))
	}
	if cone.Coordinates[0] != track.Points[0].Location {
		t.Errorf("apex is %s, expected %s", cone.Coordinates[0], track.Points[0].Location)
	}
}

func TestBuildConeNothingToDraw(t *testing.T) {
	for _, track := range []*model.Track{
		nil,
		makeTrack(t, "JMA"),
		makeTrack(t, "JMA", pt(20, 130, radius, 10.)),
		makeTrack(t, "JMA", pt(20, 130, radius, 10.), pt(21, 131)),
	} {
		cone, err := BuildCone(track, radius)
		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		if cone != nil {
			t.Errorf("expected no cone, got %d vertices", len(cone.Coordinates))
		}
	}
}

func TestBuildConeCoincidentPoints(t *testing.T) {
	track := makeTrack(t, "JMA",
		pt(20, 130),
		pt(20, 130, radius, 50.),
		pt(21, 130, radius, 80.))

	if _, err := BuildCone(track, radius); !errors.Is(err, model.ErrInvalidGeometry) {
		t.Errorf("expected ErrInvalidGeometry, got %v", err)
	}
}

func TestBuildConeAntimeridian(t *testing.T) {
	track := makeTrack(t, "JTWC",
		pt(15, 179.2),
		pt(16, 179.9, radius, 70.),
		pt(17, -179.4, radius, 110.))

	cone, err := BuildCone(track, radius)
	if err != nil {
		t.Fatal(err)
	}
	for i, p := range cone.Coordinates {
		if p.Longitude < -180 || p.Longitude >= 180 {
			t.Errorf("vertex %d longitude %g not wrapped", i, p.Longitude)
		}
		if math.Abs(p.Longitude) < 170 {
			t.Errorf("vertex %d at %s wandered off across the map", i, p)
		}
	}
}

func TestPlanarToAzimuth(t *testing.T) {
	for _, tc := range [][2]float64{
		{0, 90}, {45, 45}, {90, 0}, {91, 359}, {180, 270},
		{-1, 91}, {-90, 180}, {-180, 270},
		{181, 269}, {270, 180}, {360, 90}, {400, 50},
	} {
		if got := planarToAzimuth(tc[0]); !near(got, tc[1], 1e-12) {
			t.Errorf("planar %g: got azimuth %g, expected %g", tc[0], got, tc[1])
		}
	}
}
