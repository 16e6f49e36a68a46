package poly

import (
	"errors"
	"fmt"
	"os"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/planar"
	"github.com/rotblauer/drifters/params"
)

// ErrDegeneratePolygon is returned for fewer than 3 vertices.
var ErrDegeneratePolygon = errors.New("polygon needs at least 3 vertices")

// PointInPolygon is the crossing-number (ray casting) test.
// The polygon need not be closed; the last vertex wraps to the first.
//
// Edges are visited n+1 times starting from the (v0, v0) pseudo-edge.
// A horizontal edge never passes the y test (min < y <= max), so the
// carried-over intercept is never read for one.
// Points exactly on an edge or vertex land wherever the arithmetic puts them.
func PointInPolygon(x, y float64, poly []orb.Point) bool {
	n := len(poly)
	if n == 0 {
		return false
	}
	inside := false
	var xints float64
	p1x, p1y := poly[0][0], poly[0][1]
	for i := 0; i <= n; i++ {
		p2x, p2y := poly[i%n][0], poly[i%n][1]
		if y > min(p1y, p2y) && y <= max(p1y, p2y) && x <= max(p1x, p2x) {
			if p1y != p2y {
				xints = (y-p1y)*(p2x-p1x)/(p2y-p1y) + p1x
			}
			if p1x == p2x || x <= xints {
				inside = !inside
			}
		}
		p1x, p1y = p2x, p2y
	}
	return inside
}

// Polygon is a region of interest. Vertices are (lon, lat).
type Polygon struct {
	Vertices    []orb.Point
	Containment params.Containment
	ring        orb.Ring
}

func NewPolygon(vertices []orb.Point, containment params.Containment) (*Polygon, error) {
	if len(vertices) < 3 {
		return nil, fmt.Errorf("%w: got %d", ErrDegeneratePolygon, len(vertices))
	}
	if containment == "" {
		containment = params.ContainmentCrossing
	}
	vs := make([]orb.Point, len(vertices))
	copy(vs, vertices)
	ring := append(orb.Ring{}, vs...)
	if !ring.Closed() {
		ring = append(ring, ring[0])
	}
	return &Polygon{Vertices: vs, Containment: containment, ring: ring}, nil
}

// FromGBox builds the region polygon from a bounding box, with vertices
// (maxlon,maxlat), (maxlon,minlat), (minlon,minlat), (minlon,maxlat).
func FromGBox(g params.GBox, containment params.Containment) (*Polygon, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}
	return NewPolygon([]orb.Point{
		{g.MaxLon, g.MaxLat},
		{g.MaxLon, g.MinLat},
		{g.MinLon, g.MinLat},
		{g.MinLon, g.MaxLat},
	}, containment)
}

// FromGeoJSONFile reads the first Polygon feature's outer ring from a
// GeoJSON file (a FeatureCollection, Feature, or bare geometry).
func FromGeoJSONFile(path string, containment params.Containment) (*Polygon, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var geom orb.Geometry
	if fc, err := geojson.UnmarshalFeatureCollection(data); err == nil && len(fc.Features) > 0 {
		for _, f := range fc.Features {
			if _, ok := f.Geometry.(orb.Polygon); ok {
				geom = f.Geometry
				break
			}
		}
	}
	if geom == nil {
		if f, err := geojson.UnmarshalFeature(data); err == nil && f.Geometry != nil {
			geom = f.Geometry
		}
	}
	if geom == nil {
		g, err := geojson.UnmarshalGeometry(data)
		if err != nil {
			return nil, fmt.Errorf("read region %s: %w", path, err)
		}
		geom = g.Geometry()
	}
	p, ok := geom.(orb.Polygon)
	if !ok || len(p) == 0 {
		return nil, fmt.Errorf("read region %s: no polygon geometry (got %T)", path, geom)
	}
	outer := p[0]
	if outer.Closed() && len(outer) > 1 {
		outer = outer[:len(outer)-1]
	}
	return NewPolygon(outer, containment)
}

// Contains tests a (lon, lat) point with the configured formulation.
func (p *Polygon) Contains(pt orb.Point) bool {
	if p.Containment == params.ContainmentPlanar {
		return planar.RingContains(p.ring, pt)
	}
	return PointInPolygon(pt[0], pt[1], p.Vertices)
}

// Ring is the closed outline, suitable for drawing.
func (p *Polygon) Ring() orb.Ring {
	return append(orb.Ring{}, p.ring...)
}

func (p *Polygon) Bound() orb.Bound {
	return p.ring.Bound()
}

// Center is the bound's center.
func (p *Polygon) Center() orb.Point {
	return p.Bound().Center()
}
