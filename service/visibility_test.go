package service

import "testing"

func TestShouldShow(t *testing.T) {
	group := &GroupVisibility{Track: true, Cone: true, Rings: true}
	all := WayVisibility{Way: true, Track: true, Cone: true, Rings: true, Group: group}

	for _, tc := range []struct {
		name      string
		mutate    func(v *WayVisibility, g *GroupVisibility)
		hasTracks bool
		expected  [numParts]bool
	}{
		{"all on", func(*WayVisibility, *GroupVisibility) {}, true, [numParts]bool{true, true, true}},
		{"no tracks", func(*WayVisibility, *GroupVisibility) {}, false, [numParts]bool{}},
		{"way off", func(v *WayVisibility, _ *GroupVisibility) { v.Way = false }, true, [numParts]bool{}},
		{"own cone off", func(v *WayVisibility, _ *GroupVisibility) { v.Cone = false }, true, [numParts]bool{true, false, true}},
		{"group rings off", func(_ *WayVisibility, g *GroupVisibility) { g.Rings = false }, true, [numParts]bool{true, true, false}},
		{"group off for observation", func(v *WayVisibility, g *GroupVisibility) {
			v.Observation = true
			*g = GroupVisibility{}
		}, true, [numParts]bool{true, true, true}},
		{"no group", func(v *WayVisibility, _ *GroupVisibility) { v.Group = nil }, true, [numParts]bool{true, true, true}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			g := *group
			v := all
			v.Group = &g
			tc.mutate(&v, &g)

			for _, p := range parts {
				if got := v.ShouldShow(p, tc.hasTracks); got != tc.expected[p] {
					t.Errorf("%s: got %v, expected %v", p, got, tc.expected[p])
				}
			}
		})
	}
}

func TestGroupSharedByWays(t *testing.T) {
	group := GroupVisibility{Track: true, Cone: true, Rings: true}
	a := newWayDisplay("JMA", WayVisibility{Way: true, Track: true, Cone: true, Rings: true}, &group)
	b := newWayDisplay("JTWC", WayVisibility{Way: true, Track: true, Cone: true, Rings: true}, &group)
	obs := newWayDisplay("observation", WayVisibility{Way: true, Track: true, Cone: true, Rings: true}, &group)
	for _, wd := range []*WayDisplay{a, b, obs} {
		wd.tracks = []trackEntry{{}}
	}

	group.setFlag(PartTrack, false)
	if a.shouldShow(PartTrack) || b.shouldShow(PartTrack) {
		t.Errorf("group track flag not applied to every forecast way")
	}
	if !obs.shouldShow(PartTrack) {
		t.Errorf("group track flag applied to the observation")
	}
	if !a.shouldShow(PartCone) {
		t.Errorf("group track flag gated the cone")
	}
}

func TestPartString(t *testing.T) {
	for p, s := range map[Part]string{PartTrack: "track", PartCone: "cone", PartRings: "rings", Part(7): "unknown"} {
		if p.String() != s {
			t.Errorf("got %q, expected %q", p.String(), s)
		}
	}
}
