// Package geo estimates real-world distances between named regions and
// resolves region geometry through a remote geocoder.
package geo

import "math"

// RegionGeometry is a region's center point plus the width and height of its
// bounding envelope, all in degrees.
type RegionGeometry struct {
	Lon    float64
	Lat    float64
	Width  float64
	Height float64
}

const (
	degreeMeters = 111 * 1000

	// Fractions of the combined envelope extent subtracted from the raw
	// center separation. Raw center-to-center distance overstates how far
	// apart large countries are; this approximates the distance between
	// their nearest plausible points.
	lonDiscount = 0.37
	latDiscount = 0.20

	// MinDistanceMeters is the reported floor: overlapping huge regions
	// never come out as implausibly close.
	MinDistanceMeters = 1000.0
)

// Distance estimates the distance between two regions in meters.
func Distance(a, b RegionGeometry) float64 {
	dLon := math.Abs(a.Lon-b.Lon) - (a.Width+b.Width)*lonDiscount
	if dLon < 0 {
		dLon = 0
	}
	dLat := math.Abs(a.Lat-b.Lat) - (a.Height+b.Height)*latDiscount
	if dLat < 0 {
		dLat = 0
	}

	meanLat := (a.Lat + b.Lat) / 2
	dx := dLon * degreeMeters * math.Cos(meanLat*math.Pi/180)
	dy := dLat * degreeMeters

	dist := math.Sqrt(dx*dx + dy*dy)
	if dist < MinDistanceMeters {
		return MinDistanceMeters
	}
	return dist
}
