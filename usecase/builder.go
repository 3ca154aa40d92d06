package usecase

import (
	"math"
	"typhoon-cone/model"
)

// Builder is the geometry builder used by the display state; it forwards
// to the package-level functions.
type Builder struct{}

func (Builder) BuildRings(track *model.Track, id model.AttributeID) ([]model.Ring, error) {
	return BuildRings(track, id)
}

func (Builder) BuildCone(track *model.Track, id model.AttributeID) (*model.ConePolygon, error) {
	return BuildCone(track, id)
}

func (Builder) BuildTrackLine(track *model.Track, id model.AttributeID) (model.TrackLine, error) {
	return BuildTrackLine(track, id), nil
}

// BuildTrackLine returns the path of the track and, when id is not empty,
// the per-point values of that attribute for colouring.
func BuildTrackLine(track *model.Track, id model.AttributeID) model.TrackLine {
	line := model.TrackLine{Track: track, Attribute: id}
	if track == nil {
		return line
	}
	line.Path = make([]model.Point, 0, len(track.Points))
	for _, tp := range track.Points {
		line.Path = append(line.Path, tp.Location)
	}
	if id != "" {
		line.Values = make([]float64, 0, len(track.Points))
		for _, tp := range track.Points {
			if v, ok := tp.Attribute(id); ok {
				line.Values = append(line.Values, v.Value)
			} else {
				line.Values = append(line.Values, math.NaN())
			}
		}
	}
	return line
}
