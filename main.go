package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"
	"typhoon-cone/config"
	"typhoon-cone/log"
	"typhoon-cone/model"
	"typhoon-cone/service"
	"typhoon-cone/usecase"
)

const sampleStorm = "WP212024"

// sampleTracks returns an observed track and one forecast of a storm
// recurving south of Japan.
func sampleTracks() ([]*model.Track, error) {
	issue := time.Date(2024, 10, 1, 0, 0, 0, 0, time.UTC)
	r34 := func(km float64) map[model.AttributeID]model.Value {
		return map[model.AttributeID]model.Value{"r34": {Value: km, Unit: model.Kilometers}}
	}

	obs, err := model.NewTrack(model.Observation, time.Time{}, []model.TrackPoint{
		{Location: model.Point{Latitude: 18.2, Longitude: 136.5}, Time: issue.Add(-24 * time.Hour), Attributes: r34(150)},
		{Location: model.Point{Latitude: 19.6, Longitude: 134.9}, Time: issue.Add(-12 * time.Hour), Attributes: r34(220)},
		{Location: model.Point{Latitude: 21.0, Longitude: 133.8}, Time: issue, Attributes: r34(280)},
	})
	if err != nil {
		return nil, err
	}

	var fcst []model.TrackPoint
	for i, p := range []struct {
		lat, lon, r float64
	}{{21.0, 133.8, 0}, {23.1, 132.9, 120}, {25.6, 132.8, 180}, {28.4, 134.0, 260}, {31.0, 136.5, 350}} {
		h := 24 * i
		fcst = append(fcst, model.TrackPoint{
			Location:     model.Point{Latitude: p.lat, Longitude: p.lon},
			Time:         issue.Add(time.Duration(h) * time.Hour),
			ForecastHour: &h,
			Attributes:   r34(p.r),
		})
	}
	forecast, err := model.NewTrack("JMA", issue, fcst)
	if err != nil {
		return nil, err
	}

	return []*model.Track{obs, forecast}, nil
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("設定の読み込みに失敗しました:", err)
		os.Exit(1)
	}
	lg := log.New(cfg.LogLevel, cfg.LogDir)

	tracks, err := sampleTracks()
	if err != nil {
		lg.Errorf("sample tracks: %v", err)
		os.Exit(1)
	}
	source := service.NewMemorySource()
	source.Put(sampleStorm, tracks...)

	opts := service.DefaultOptions()
	opts.Logger = lg
	opts.RingAttribute = cfg.RingAttribute
	opts.ConeAttributes = cfg.ConeAttributes
	opts.RingSwath = cfg.RingSwath
	opts.WayDefaults = service.WayVisibility{Way: true, Track: cfg.ShowTrack, Cone: cfg.ShowCone, Rings: cfg.ShowRings}

	renderers := make(map[string]*service.GeoJSONRenderer)
	mgr, err := service.NewManager(source, func(id string) service.Renderer {
		r := service.NewGeoJSONRenderer()
		renderers[id] = r
		return r
	}, cfg.MaxStorms, cfg.UpdateParallelism, opts)
	if err != nil {
		lg.Errorf("manager: %v", err)
		os.Exit(1)
	}
	defer mgr.Close()

	ctx := context.Background()
	mgr.Activate(ctx, sampleStorm)
	if err := mgr.UpdateAll(ctx); err != nil {
		lg.Errorf("update: %v", err)
		os.Exit(1)
	}

	r := renderers[sampleStorm]
	data, err := r.FeatureCollection().MarshalJSON()
	if err != nil {
		fmt.Println("GeoJSONの書き出しに失敗しました:", err)
		os.Exit(1)
	}
	geojsonFile := filepath.Join(cfg.OutputDir, "storm.geojson")
	if err := usecase.SaveGeoJSONToFile(geojsonFile, data); err != nil {
		fmt.Println("ファイル作成に失敗しました:", err)
		os.Exit(1)
	}

	kmlFile := filepath.Join(cfg.OutputDir, "storm.kml")
	f, err := os.Create(kmlFile)
	if err != nil {
		fmt.Println("ファイル作成に失敗しました:", err)
		os.Exit(1)
	}
	defer f.Close()
	if err := r.WriteKML(f, sampleStorm); err != nil {
		fmt.Println("KMLの書き出しに失敗しました:", err)
		os.Exit(1)
	}

	fmt.Printf("GeoJSONファイル '%s' とKMLファイル '%s' を作成しました\n", geojsonFile, kmlFile)
}
