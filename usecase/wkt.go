package usecase

import (
	"fmt"
	"strings"
	"typhoon-cone/model"
)

func PointsToPolygonWKT(points []model.Point) string {
	// ポリゴンが閉じているかチェックし、閉じていない場合は閉じる
	points = model.LinearRing{Coordinates: points}.Closed()

	var coords []string
	for _, point := range points {
		coords = append(coords, fmt.Sprintf("%f %f", point.Longitude, point.Latitude))
	}

	return fmt.Sprintf("((%s))", strings.Join(coords, ", "))
}

// [][]PointからWKT形式のMULTIPOLYGONを作成する関数
func MultiPolygonToWKT(multiPolygon [][]model.Point) string {
	var polygons []string
	for _, polygon := range multiPolygon {
		polygons = append(polygons, PointsToPolygonWKT(polygon))
	}

	return fmt.Sprintf("MULTIPOLYGON(%s)", strings.Join(polygons, ", "))
}
