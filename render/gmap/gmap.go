// Package gmap writes drifter tracks as polylines on a Google Maps page.
//
// The page defines initMap but does not load the Maps JavaScript API.
// Deployments add the keyed script tag before </body>, eg.
//
//	sed '/<\/body>/i <script async defer src="https:\/\/maps.googleapis.com\/maps\/api\/js?v=3\&key=KEY\&callback=initMap"><\/script>' drifter_tracks.html > public.html
package gmap

import (
	"bufio"
	"fmt"
	"html/template"
	"io"
	"log/slog"
	"os"

	"github.com/paulmach/orb"
)

const (
	DefaultZoom         = 9
	DefaultEdgeWidth    = 2.5
	DefaultOutlineColor = "#000000"
)

// Polyline is a path of (lon, lat) points.
type Polyline struct {
	Label string
	Path  []orb.Point
	Color string
	Width float64
}

type Map struct {
	Title  string
	Center orb.Point
	Zoom   int
	Lines  []Polyline

	// Outline is drawn last, over the tracks.
	Outline *Polyline
}

type latLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type jsLine struct {
	Label string   `json:"label"`
	Path  []latLng `json:"path"`
	Color string   `json:"color"`
	Width float64  `json:"width"`
}

func toJS(p Polyline) jsLine {
	path := make([]latLng, len(p.Path))
	for i, pt := range p.Path {
		path[i] = latLng{Lat: pt.Lat(), Lng: pt.Lon()}
	}
	return jsLine{Label: p.Label, Path: path, Color: p.Color, Width: p.Width}
}

var page = template.Must(template.New("gmap").Parse(`<html>
<head>
<meta name="viewport" content="initial-scale=1.0, user-scalable=no" />
<meta http-equiv="content-type" content="text/html; charset=UTF-8" />
<title>{{.Title}}</title>
<script type="text/javascript">
	function initMap() {
		var map = new google.maps.Map(document.getElementById("map_canvas"), {
			zoom: {{.Zoom}},
			center: {{.Center}},
			mapTypeId: "roadmap"
		});
		var lines = {{.Lines}};
		lines.forEach(function (l) {
			new google.maps.Polyline({
				clickable: false,
				geodesic: true,
				path: l.path,
				strokeColor: l.color,
				strokeOpacity: 1.0,
				strokeWeight: l.width,
				map: map
			});
		});
	}
</script>
</head>
<body style="margin:0px; padding:0px;">
	<div id="map_canvas" style="width: 100%; height: 100%;"></div>
</body>
</html>
`))

// Render writes the map page. Polylines with fewer than two points are skipped.
func Render(w io.Writer, m *Map) error {
	if m.Zoom == 0 {
		m.Zoom = DefaultZoom
	}
	lines := make([]jsLine, 0, len(m.Lines)+1)
	for _, l := range m.Lines {
		if len(l.Path) < 2 {
			slog.Debug("Skipping short polyline", "label", l.Label, "points", len(l.Path))
			continue
		}
		if l.Width == 0 {
			l.Width = DefaultEdgeWidth
		}
		lines = append(lines, toJS(l))
	}
	if m.Outline != nil && len(m.Outline.Path) >= 2 {
		o := *m.Outline
		if o.Color == "" {
			o.Color = DefaultOutlineColor
		}
		if o.Width == 0 {
			o.Width = DefaultEdgeWidth
		}
		lines = append(lines, toJS(o))
	}
	data := struct {
		Title  string
		Zoom   int
		Center latLng
		Lines  []jsLine
	}{
		Title:  m.Title,
		Zoom:   m.Zoom,
		Center: latLng{Lat: m.Center.Lat(), Lng: m.Center.Lon()},
		Lines:  lines,
	}
	return page.Execute(w, data)
}

// WriteFile renders the map to path, replacing any existing file.
func WriteFile(path string, m *Map) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	bw := bufio.NewWriter(f)
	if err := Render(bw, m); err != nil {
		f.Close()
		return fmt.Errorf("render %s: %w", path, err)
	}
	if err := bw.Flush(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
