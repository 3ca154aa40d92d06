package model

import (
	"fmt"
	"math"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/brunoga/deep"
)

///////////////////////////////////////////////////////////////////////////
// Units

type Unit string

const (
	Kilometers    Unit = "km"
	NauticalMiles Unit = "nm"
	Miles         Unit = "mi"
	Meters        Unit = "m"
)

var kmPerUnit = map[Unit]float64{
	"":            1,
	Kilometers:    1,
	NauticalMiles: 1.852,
	Miles:         1.609344,
	Meters:        0.001,
}

func ParseUnit(s string) (Unit, error) {
	u := Unit(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := kmPerUnit[u]; !ok {
		return "", fmt.Errorf("%s: %w", s, ErrUnknownUnit)
	}
	if u == "" {
		return Kilometers, nil
	}
	return u, nil
}

func (u Unit) ToKilometers(v float64) (float64, error) {
	f, ok := kmPerUnit[u]
	if !ok {
		return 0, fmt.Errorf("%s: %w", u, ErrUnknownUnit)
	}
	return v * f, nil
}

func (u Unit) FromKilometers(km float64) (float64, error) {
	f, ok := kmPerUnit[u]
	if !ok {
		return 0, fmt.Errorf("%s: %w", u, ErrUnknownUnit)
	}
	return km / f, nil
}

///////////////////////////////////////////////////////////////////////////
// Track points

// AttributeID names a scalar attribute carried by track points, e.g. the
// radius of 34kt winds.
type AttributeID string

type Value struct {
	Value float64
	Unit  Unit
}

type TrackPoint struct {
	Location Point
	Time     time.Time
	// ForecastHour is the offset from the issuance time; nil for
	// observations.
	ForecastHour *int
	Attributes   map[AttributeID]Value
}

func (tp TrackPoint) Attribute(id AttributeID) (Value, bool) {
	v, ok := tp.Attributes[id]
	return v, ok
}

// Radius returns the attribute as a radius usable for geometry: it must
// be present, finite and non-negative.
func (tp TrackPoint) Radius(id AttributeID) (Value, error) {
	v, ok := tp.Attributes[id]
	if !ok {
		return Value{}, fmt.Errorf("%s: %w", id, ErrMissingAttribute)
	}
	if math.IsNaN(v.Value) || math.IsInf(v.Value, 0) {
		return Value{}, fmt.Errorf("%s=%v: %w", id, v.Value, ErrInvalidGeometry)
	}
	if v.Value < 0 {
		return Value{}, fmt.Errorf("%s=%v: %w", id, v.Value, ErrNegativeRadius)
	}
	return v, nil
}

// WithAttribute returns a copy of the point with the given attribute set;
// the receiver's attribute map is left untouched.
func (tp TrackPoint) WithAttribute(id AttributeID, v Value) TrackPoint {
	attrs := make(map[AttributeID]Value, len(tp.Attributes)+1)
	for k, a := range tp.Attributes {
		attrs[k] = a
	}
	attrs[id] = v
	tp.Attributes = attrs
	return tp
}

///////////////////////////////////////////////////////////////////////////
// Ways and tracks

// Way distinguishes the observed track from the forecast tracks of each
// issuing agency.
type Way string

const Observation Way = "observation"

func (w Way) IsObservation() bool {
	return w == Observation
}

type Track struct {
	Way Way
	// IssueTime keys forecast tracks; it is zero for observations.
	IssueTime time.Time
	Points    []TrackPoint
	// Version is bumped every time an edited copy is made so that cached
	// geometry built from an older copy can be recognized.
	Version uint64
	// Revisions counts edits per attribute.
	Revisions map[AttributeID]uint64
}

// NewTrack validates the points and returns them as a time-ordered track.
func NewTrack(way Way, issue time.Time, points []TrackPoint) (*Track, error) {
	for i, p := range points {
		if !p.Location.IsFinite() {
			return nil, fmt.Errorf("point %d %s: %w", i, p.Location, ErrInvalidGeometry)
		}
		if p.ForecastHour != nil {
			if way.IsObservation() {
				return nil, fmt.Errorf("point %d: observation with forecast hour", i)
			}
			if *p.ForecastHour < 0 {
				return nil, fmt.Errorf("point %d: negative forecast hour %d", i, *p.ForecastHour)
			}
		}
	}

	pts := slices.Clone(points)
	sort.SliceStable(pts, func(i, j int) bool { return pts[i].Time.Before(pts[j].Time) })

	return &Track{Way: way, IssueTime: issue, Points: pts}, nil
}

// AttributeIDs returns the sorted set of attribute ids present on any
// point of the track.
func (t *Track) AttributeIDs() []AttributeID {
	seen := make(map[AttributeID]bool)
	var ids []AttributeID
	for _, p := range t.Points {
		for id := range p.Attributes {
			if !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
	}
	slices.Sort(ids)
	return ids
}

func (t *Track) HasAttribute(id AttributeID) bool {
	for _, p := range t.Points {
		if _, ok := p.Attributes[id]; ok {
			return true
		}
	}
	return false
}

// WithAttribute returns an edited deep copy of the track with the
// attribute of point i replaced. Readers of the original are never
// exposed to the edit.
func (t *Track) WithAttribute(i int, id AttributeID, v Value) (*Track, error) {
	if i < 0 || i >= len(t.Points) {
		return nil, fmt.Errorf("point index %d out of range [0,%d)", i, len(t.Points))
	}
	cp, err := deep.Copy(*t)
	if err != nil {
		return nil, err
	}
	cp.Points[i] = cp.Points[i].WithAttribute(id, v)
	cp.Version = t.Version + 1
	if cp.Revisions == nil {
		cp.Revisions = make(map[AttributeID]uint64)
	}
	cp.Revisions[id]++
	return &cp, nil
}

func (t *Track) String() string {
	if t.Way.IsObservation() {
		return fmt.Sprintf("%s[%d points]", t.Way, len(t.Points))
	}
	return fmt.Sprintf("%s@%s[%d points]", t.Way, t.IssueTime.UTC().Format(time.RFC3339), len(t.Points))
}

// AttributeRevision counts the edits made to attribute id through
// WithAttribute.
func (t *Track) AttributeRevision(id AttributeID) uint64 {
	return t.Revisions[id]
}
