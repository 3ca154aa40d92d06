package usecase

import (
	"fmt"
	"io"
	"os"
	"time"
	"typhoon-cone/model"

	geojson "github.com/paulmach/go.geojson"
	kml "github.com/twpayne/go-kml"
)

func SaveGeoJSONToFile(filename string, data []byte) error {
	return os.WriteFile(filename, data, 0644)
}

func MakeGeojsonPolygon(points []model.Point) *geojson.Feature {
	points = model.LinearRing{Coordinates: points}.Closed()
	geoJsonPoints := make([][]float64, 0, len(points))
	for _, coordinate := range points {
		geoJsonPoints = append(
			geoJsonPoints,
			[]float64{coordinate.Longitude, coordinate.Latitude},
		)
	}
	coordinates := [][][]float64{geoJsonPoints}
	polygon := geojson.NewPolygonFeature(coordinates)
	return polygon
}

func MakeGeojsonLineString(points []model.Point) *geojson.Feature {
	geojsonPoints := make([][]float64, 0, len(points))
	for _, coordinate := range points {
		geojsonPoints = append(
			geojsonPoints,
			[]float64{coordinate.Longitude, coordinate.Latitude},
		)
	}
	lineString := geojson.NewLineStringFeature(geojsonPoints)
	return lineString
}

// MakeFeatureCollection converts the shown geometry of every way into
// GeoJSON features tagged with "way" and "kind" properties.
func MakeFeatureCollection(ways []model.WayGeometry) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, wg := range ways {
		for _, line := range wg.Lines {
			f := MakeGeojsonLineString(line.Path)
			setTrackProperties(f, wg.Way, line.Track)
			f.SetProperty("kind", "track")
			if line.Attribute != "" {
				f.SetProperty("attribute", string(line.Attribute))
			}
			fc.AddFeature(f)
		}
		for _, cone := range wg.Cones {
			f := MakeGeojsonPolygon(cone.Polygon.Coordinates)
			setTrackProperties(f, wg.Way, cone.Track)
			f.SetProperty("kind", "cone")
			f.SetProperty("attribute", string(cone.Attribute))
			fc.AddFeature(f)
		}
		for _, ring := range wg.Rings {
			f := MakeGeojsonPolygon(ring.Polygon.Coordinates)
			f.SetProperty("way", string(wg.Way))
			f.SetProperty("kind", "ring")
			f.SetProperty("radius", ring.Radius.Value)
			f.SetProperty("unit", string(ring.Radius.Unit))
			f.SetProperty("time", ring.Point.Time.UTC().Format(time.RFC3339))
			if ring.Point.ForecastHour != nil {
				f.SetProperty("forecast_hour", *ring.Point.ForecastHour)
			}
			fc.AddFeature(f)
		}
		for _, outline := range wg.Swath {
			f := MakeGeojsonPolygon(outline)
			f.SetProperty("way", string(wg.Way))
			f.SetProperty("kind", "swath")
			fc.AddFeature(f)
		}
	}
	return fc
}

func setTrackProperties(f *geojson.Feature, way model.Way, track *model.Track) {
	f.SetProperty("way", string(way))
	if track != nil && !track.IssueTime.IsZero() {
		f.SetProperty("issue_time", track.IssueTime.UTC().Format(time.RFC3339))
	}
}

func kmlCoordinates(points []model.Point) kml.Element {
	coords := make([]kml.Coordinate, 0, len(points))
	for _, p := range points {
		coords = append(coords, kml.Coordinate{Lon: p.Longitude, Lat: p.Latitude})
	}
	return kml.Coordinates(coords...)
}

func kmlPolygon(name string, points []model.Point) kml.Element {
	return kml.Placemark(
		kml.Name(name),
		kml.Polygon(
			kml.Tessellate(true),
			kml.OuterBoundaryIs(
				kml.LinearRing(
					kmlCoordinates(model.LinearRing{Coordinates: points}.Closed()),
				),
			),
		),
	)
}

// MakeKML returns a KML document with one folder per way.
func MakeKML(name string, ways []model.WayGeometry) *kml.CompoundElement {
	doc := kml.Document(kml.Name(name))
	for _, wg := range ways {
		folder := kml.Folder(kml.Name(string(wg.Way)), kml.Visibility(true))
		for _, line := range wg.Lines {
			folder.Add(kml.Placemark(
				kml.Name(fmt.Sprintf("%s track", wg.Way)),
				kml.LineString(kml.Tessellate(true), kmlCoordinates(line.Path)),
			))
		}
		for _, cone := range wg.Cones {
			folder.Add(kmlPolygon(fmt.Sprintf("%s cone (%s)", wg.Way, cone.Attribute), cone.Polygon.Coordinates))
		}
		for _, ring := range wg.Rings {
			label := fmt.Sprintf("%s ring %g%s %s", wg.Way, ring.Radius.Value, ring.Radius.Unit,
				ring.Point.Time.UTC().Format("2006-01-02 15:04Z"))
			folder.Add(kmlPolygon(label, ring.Polygon.Coordinates))
		}
		for i, outline := range wg.Swath {
			folder.Add(kmlPolygon(fmt.Sprintf("%s swath %d", wg.Way, i), outline))
		}
		doc.Add(folder)
	}
	return kml.KML(doc)
}

func WriteKML(w io.Writer, name string, ways []model.WayGeometry) error {
	return MakeKML(name, ways).WriteIndent(w, "", "  ")
}
