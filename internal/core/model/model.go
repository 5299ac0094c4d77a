// Package model defines the shapes the coverage mapper works on.
package model

import "fmt"

const SRIDWGS84 = "EPSG:4326"

// BBox is a longitude/latitude box. X is longitude and Y latitude, both in
// decimal degrees; X1,Y1 is the south-west corner.
type BBox struct {
	X1, Y1 float64
	X2, Y2 float64
	SRID   string
}

// String representation matching wfs/wms bbox format
func (b BBox) String() string {
	srid := b.SRID
	if srid == "" {
		srid = SRIDWGS84
	}
	return fmt.Sprintf("%.6f,%.6f,%.6f,%.6f,%s", b.X1, b.Y1, b.X2, b.Y2, srid)
}

// Valid reports whether the corners are ordered and inside the globe.
func (b BBox) Valid() bool {
	return b.X1 <= b.X2 && b.Y1 <= b.Y2 &&
		b.X1 >= -180 && b.X2 <= 180 && b.Y1 >= -90 && b.Y2 <= 90
}

// Polygon holds a GeoJSON Polygon or MultiPolygon geometry.
type Polygon struct {
	GeoJSON string
}

// LineString holds a GeoJSON LineString or MultiLineString geometry.
type LineString struct {
	GeoJSON string
}

// Cells is a sorted, duplicate-free list of grid codes.
type Cells []string
