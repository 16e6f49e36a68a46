/*
Copyright © 2024 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"log"
	"log/slog"
	"strings"
	"time"

	"github.com/paulmach/orb"
	"github.com/rotblauer/drifters/api"
	"github.com/rotblauer/drifters/erddap"
	"github.com/rotblauer/drifters/geo/poly"
	"github.com/rotblauer/drifters/params"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// tracksCmd represents the tracks command
var tracksCmd = &cobra.Command{
	Use:   "tracks",
	Short: "Map drifter tracks entering a region of interest",
	Long: `Fetch drifter tracks from ERDDAP and map them on Google Maps.

Every drifter with a fix inside the region's bounding box during the time window
is fetched in full. Each track is scanned from its first fix for the first fix that is

  - less than --days after the track's first fix,
  - in a month within --months (inclusive, UTC), and
  - inside the region.

In source mode the track from that fix on is drawn; in sink mode the track up to it.
Tracks that never qualify are not drawn. Colors follow the sorted drifter ids.

The region is a built-in --region, a box given by --maxlon --minlon --maxlat --minlat,
or the first polygon in a GeoJSON --region-file.

Publishing:

The map page defines initMap but does not load the Google Maps API. Before publishing,
insert the keyed script tag before </body>, eg.

  sed '/<\/body>/i <script async defer src="https:\/\/maps.googleapis.com\/maps\/api\/js?v=3\&key=KEY\&callback=initMap"><\/script>' \
    drifter_tracks.html > public/drifter_tracks.html

Examples:

  drifters tracks
  drifters tracks --region stellwagen --mode sink --months 6,9 --days 30
  drifters tracks --mode both --geojson tracks.geojson.gz --start 2000-01-01 --end 2010-01-01
`,
	Run: func(cmd *cobra.Command, args []string) {
		setDefaultSlog(cmd, args)

		cfg, region, err := tracksConfig(viper.GetViper())
		if err != nil {
			log.Fatalln(err)
		}
		ctx, cancel := interruptContext()
		defer cancel()

		client := erddap.NewClient(cfg.Erddap, nil)
		res, err := api.SourceSink(ctx, cfg, region, client)
		if err != nil {
			log.Fatalln(err)
		}
		for _, m := range res.Maps {
			fmt.Println(m.Path)
		}
		if res.GeoJSON != "" {
			fmt.Println(res.GeoJSON)
		}
	},
}

func init() {
	rootCmd.AddCommand(tracksCmd)

	defaults := params.DefaultTracksConfig()

	pFlags := tracksCmd.PersistentFlags()
	pFlags.String("start", defaults.Window.Start.Format(time.DateOnly), "Window start, UTC (2006-01-02 or RFC3339)")
	pFlags.String("end", defaults.Window.End.Format(time.DateOnly), "Window end, UTC (2006-01-02 or RFC3339)")
	pFlags.String("region", params.DefaultRegion, fmt.Sprintf("Region preset (%s)", strings.Join(params.RegionNames(), ", ")))
	pFlags.Float64("maxlon", 0, "Region box max longitude (overrides --region)")
	pFlags.Float64("minlon", 0, "Region box min longitude (overrides --region)")
	pFlags.Float64("maxlat", 0, "Region box max latitude (overrides --region)")
	pFlags.Float64("minlat", 0, "Region box min latitude (overrides --region)")
	pFlags.String("region-file", "", "GeoJSON file with the region polygon (overrides --region and the box)")
	pFlags.IntSlice("months", defaults.Filter.Months[:], "Month range lo,hi, inclusive, 1-12")
	pFlags.Float64("days", defaults.Filter.Days.Hours()/24, "Max days from a track's first fix to its region entry")
	pFlags.String("mode", string(defaults.Filter.Mode), "source, sink, or both")
	pFlags.String("containment", string(defaults.Filter.Containment), "Point-in-polygon test: crossing, or planar (boundary inside)")
	pFlags.StringP("output", "o", defaults.Output, "Map HTML file (with --mode both, _source and _sink are added)")
	pFlags.String("geojson", "", "Also write the drawn tracks as GeoJSON (.gz to gzip)")
	pFlags.Int("zoom", defaults.MapZoom, "Initial map zoom")
	pFlags.Float64("edge-width", defaults.EdgeWidth, "Track line width")

	pFlags.String("erddap-url", defaults.Erddap.BaseURL, "ERDDAP tabledap dataset URL, without extension")
	pFlags.String("format", string(defaults.Erddap.Format), "ERDDAP response format (csv, json)")
	pFlags.Duration("timeout", defaults.Erddap.Timeout, "ERDDAP request timeout")
	pFlags.Bool("id-lon-filter", defaults.Erddap.IDLonFilter, "Drop per-drifter fixes east of --id-max-lon")
	pFlags.Float64("id-max-lon", defaults.Erddap.IDMaxLon, "Easternmost longitude kept in per-drifter tracks")

	pFlags.VisitAll(func(f *pflag.Flag) {
		_ = viper.BindPFlag("tracks."+f.Name, f)
	})
}

// tracksConfig builds the run config from v, falling back to defaults for unset keys.
func tracksConfig(v *viper.Viper) (*params.TracksConfig, *poly.Polygon, error) {
	cfg := params.DefaultTracksConfig()
	k := func(name string) string { return "tracks." + name }

	var err error
	if v.IsSet(k("start")) {
		if cfg.Window.Start, err = parseTime(v.GetString(k("start"))); err != nil {
			return nil, nil, fmt.Errorf("start: %w", err)
		}
	}
	if v.IsSet(k("end")) {
		if cfg.Window.End, err = parseTime(v.GetString(k("end"))); err != nil {
			return nil, nil, fmt.Errorf("end: %w", err)
		}
	}

	if v.IsSet(k("region")) {
		name := v.GetString(k("region"))
		g, ok := params.RegionPresets[name]
		if !ok {
			return nil, nil, fmt.Errorf("unknown region %q (have %s)", name, strings.Join(params.RegionNames(), ", "))
		}
		cfg.GBox = g
	}
	// Box flags override single edges of the preset box.
	for key, edge := range map[string]*float64{
		"maxlon": &cfg.GBox.MaxLon,
		"minlon": &cfg.GBox.MinLon,
		"maxlat": &cfg.GBox.MaxLat,
		"minlat": &cfg.GBox.MinLat,
	} {
		if v.IsSet(k(key)) {
			*edge = v.GetFloat64(k(key))
		}
	}

	if v.IsSet(k("months")) {
		ms := v.GetIntSlice(k("months"))
		if len(ms) != 2 {
			return nil, nil, fmt.Errorf("months: want lo,hi, got %v", ms)
		}
		cfg.Filter.Months = [2]int{ms[0], ms[1]}
	}
	if v.IsSet(k("days")) {
		cfg.Filter.Days = params.Days(v.GetFloat64(k("days")))
	}
	if v.IsSet(k("mode")) {
		cfg.Filter.Mode = params.Mode(v.GetString(k("mode")))
	}
	if v.IsSet(k("containment")) {
		cfg.Filter.Containment = params.Containment(v.GetString(k("containment")))
	}
	if v.IsSet(k("output")) {
		cfg.Output = v.GetString(k("output"))
	}
	cfg.GeoJSONOutput = v.GetString(k("geojson"))
	if v.IsSet(k("zoom")) {
		cfg.MapZoom = v.GetInt(k("zoom"))
	}
	if v.IsSet(k("edge-width")) {
		cfg.EdgeWidth = v.GetFloat64(k("edge-width"))
	}

	if v.IsSet(k("erddap-url")) {
		cfg.Erddap.BaseURL = v.GetString(k("erddap-url"))
	}
	if v.IsSet(k("format")) {
		cfg.Erddap.Format = params.ErddapFormat(v.GetString(k("format")))
	}
	if v.IsSet(k("timeout")) {
		cfg.Erddap.Timeout = v.GetDuration(k("timeout"))
	}
	if v.IsSet(k("id-lon-filter")) {
		cfg.Erddap.IDLonFilter = v.GetBool(k("id-lon-filter"))
	}
	if v.IsSet(k("id-max-lon")) {
		cfg.Erddap.IDMaxLon = v.GetFloat64(k("id-max-lon"))
	}

	var region *poly.Polygon
	if path := v.GetString(k("region-file")); path != "" {
		region, err = poly.FromGeoJSONFile(path, cfg.Filter.Containment)
		if err != nil {
			return nil, nil, err
		}
		cfg.GBox = gboxOf(region.Bound())
		slog.Info("Region from file", "path", path, "vertices", len(region.Vertices))
	}

	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	return cfg, region, nil
}

func gboxOf(b orb.Bound) params.GBox {
	return params.GBox{MaxLon: b.Max.Lon(), MinLon: b.Min.Lon(), MaxLat: b.Max.Lat(), MinLat: b.Min.Lat()}
}

func parseTime(s string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", time.DateOnly} {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse %q as a UTC time", s)
}
