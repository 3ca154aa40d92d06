package usecase

import (
	"fmt"
	"math"
	"typhoon-cone/model"

	"github.com/golang/geo/r2"
	"github.com/golang/geo/s2"
)

// 定数: 地球の半径 (キロメートル)
const EarthRadius = 6378.137

const kmPerDegree = EarthRadius * math.Pi / 180

func degToRad(deg float64) float64 {
	return deg * math.Pi / 180.0
}

func radToDeg(rad float64) float64 {
	return rad * 180.0 / math.Pi
}

// wrapLongitude maps lon into [-180, 180).
func wrapLongitude(lon float64) float64 {
	lon = math.Mod(lon+180, 360)
	if lon < 0 {
		lon += 360
	}
	return lon - 180
}

func clamp1(v float64) float64 {
	return math.Max(-1, math.Min(1, v))
}

func checkPoint(p model.Point, what string) error {
	if !p.IsFinite() {
		return fmt.Errorf("%s %s: %w", what, p, model.ErrInvalidGeometry)
	}
	return nil
}

// ForwardPoint returns the point reached by travelling distance (in unit)
// along the great circle leaving origin at the given compass azimuth
// (0 = north, clockwise).
func ForwardPoint(origin model.Point, azimuth, distance float64, unit model.Unit) (model.Point, error) {
	if err := checkPoint(origin, "origin"); err != nil {
		return model.Point{}, err
	}
	km, err := unit.ToKilometers(distance)
	if err != nil {
		return model.Point{}, err
	}

	// 緯度・経度・方位角をラジアンに変換
	centerLatRad := degToRad(origin.Latitude)
	centerLonRad := degToRad(origin.Longitude)
	bearingRad := degToRad(azimuth)
	angular := km / EarthRadius

	// 新しい緯度を計算
	latRad := math.Asin(clamp1(math.Sin(centerLatRad)*math.Cos(angular) +
		math.Cos(centerLatRad)*math.Sin(angular)*math.Cos(bearingRad)))

	// 新しい経度を計算
	lonRad := centerLonRad + math.Atan2(math.Sin(bearingRad)*math.Sin(angular)*math.Cos(centerLatRad),
		math.Cos(angular)-math.Sin(centerLatRad)*math.Sin(latRad))

	// ラジアンから度に戻す
	p := model.Point{
		Latitude:  radToDeg(latRad),
		Longitude: wrapLongitude(radToDeg(lonRad)),
	}
	if err := checkPoint(p, "forward point"); err != nil {
		return model.Point{}, err
	}
	return p, nil
}

// BearingAndDistance returns the initial compass azimuth from a to b and
// the great-circle distance between them in unit. Identical points give
// an azimuth of 0.
func BearingAndDistance(a, b model.Point, unit model.Unit) (float64, float64, error) {
	if err := checkPoint(a, "from"); err != nil {
		return 0, 0, err
	}
	if err := checkPoint(b, "to"); err != nil {
		return 0, 0, err
	}

	angle := s2.LatLngFromDegrees(a.Latitude, a.Longitude).Distance(s2.LatLngFromDegrees(b.Latitude, b.Longitude))
	distance, err := unit.FromKilometers(angle.Radians() * EarthRadius)
	if err != nil {
		return 0, 0, err
	}
	if distance == 0 {
		return 0, 0, nil
	}

	lat1Rad := degToRad(a.Latitude)
	lat2Rad := degToRad(b.Latitude)
	dlon := degToRad(b.Longitude - a.Longitude)

	x := math.Sin(dlon) * math.Cos(lat2Rad)
	y := math.Cos(lat1Rad)*math.Sin(lat2Rad) - math.Sin(lat1Rad)*math.Cos(lat2Rad)*math.Cos(dlon)

	bearing := math.Mod(radToDeg(math.Atan2(x, y))+360, 360) // 方位角を0〜360の範囲に正規化
	if math.IsNaN(bearing) || math.IsNaN(distance) || math.IsInf(distance, 0) {
		return 0, 0, fmt.Errorf("%s -> %s: %w", a, b, model.ErrInvalidGeometry)
	}
	return bearing, distance, nil
}

///////////////////////////////////////////////////////////////////////////
// LocalPlane

// LocalPlane is an equirectangular projection anchored at Origin, measured
// in kilometres with +x east and +y north. It is only accurate over the
// extent of a single storm.
type LocalPlane struct {
	Origin      model.Point
	kmPerDegLon float64
}

func NewLocalPlane(origin model.Point) LocalPlane {
	return LocalPlane{
		Origin:      origin,
		kmPerDegLon: kmPerDegree * math.Cos(degToRad(origin.Latitude)),
	}
}

func (lp LocalPlane) Project(p model.Point) r2.Point {
	return r2.Point{
		X: wrapLongitude(p.Longitude-lp.Origin.Longitude) * lp.kmPerDegLon,
		Y: (p.Latitude - lp.Origin.Latitude) * kmPerDegree,
	}
}

func (lp LocalPlane) Unproject(v r2.Point) (model.Point, error) {
	p := model.Point{
		Latitude:  lp.Origin.Latitude + v.Y/kmPerDegree,
		Longitude: wrapLongitude(lp.Origin.Longitude + v.X/lp.kmPerDegLon),
	}
	if !p.IsFinite() || math.Abs(p.Latitude) > 90 {
		return model.Point{}, fmt.Errorf("unproject (%g, %g) from %s: %w", v.X, v.Y, lp.Origin, model.ErrInvalidGeometry)
	}
	return p, nil
}
