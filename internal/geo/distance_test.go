package geo

import (
	"math"
	"testing"
)

func TestDistance_Floor(t *testing.T) {
	tests := []struct {
		name string
		a    RegionGeometry
		b    RegionGeometry
	}{
		{
			name: "Identical points with zero envelopes",
			a:    RegionGeometry{Lon: 10, Lat: 50},
			b:    RegionGeometry{Lon: 10, Lat: 50},
		},
		{
			name: "Overlapping large regions",
			a:    RegionGeometry{Lon: 100, Lat: 60, Width: 70, Height: 30},
			b:    RegionGeometry{Lon: 105, Lat: 55, Width: 40, Height: 25},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Distance(tt.a, tt.b); got != MinDistanceMeters {
				t.Errorf("Distance() = %v, want floor %v", got, MinDistanceMeters)
			}
		})
	}
}

func TestDistance_NeverBelowFloor(t *testing.T) {
	geometries := []RegionGeometry{
		{Lon: 0, Lat: 0},
		{Lon: 2.3, Lat: 48.8, Width: 11, Height: 9},
		{Lon: 37.6, Lat: 55.7, Width: 170, Height: 40},
		{Lon: -77, Lat: 38.9, Width: 57, Height: 24},
	}

	for _, a := range geometries {
		for _, b := range geometries {
			if got := Distance(a, b); got < MinDistanceMeters {
				t.Errorf("Distance(%+v, %+v) = %v, below floor", a, b, got)
			}
		}
	}
}

func TestDistance_PointSeparation(t *testing.T) {
	// Two zero-size regions one degree of latitude apart: no envelope
	// discount applies, so the distance is a flat degree of meridian.
	a := RegionGeometry{Lon: 30, Lat: 10}
	b := RegionGeometry{Lon: 30, Lat: 11}

	got := Distance(a, b)
	want := 111000.0
	if math.Abs(got-want) > 1 {
		t.Errorf("Distance() = %v, want %v", got, want)
	}
}

func TestDistance_LongitudeScaling(t *testing.T) {
	// At 60 degrees latitude a degree of longitude is half a degree of
	// meridian (cos 60 = 0.5).
	a := RegionGeometry{Lon: 10, Lat: 60}
	b := RegionGeometry{Lon: 11, Lat: 60}

	got := Distance(a, b)
	want := 111000.0 * 0.5
	if math.Abs(got-want) > 1 {
		t.Errorf("Distance() = %v, want %v", got, want)
	}
}

func TestDistance_EnvelopeDiscount(t *testing.T) {
	// Five degrees of latitude apart, combined envelope height 10:
	// effective separation is 5 - 10*0.2 = 3 degrees.
	a := RegionGeometry{Lon: 0, Lat: 0, Height: 6}
	b := RegionGeometry{Lon: 0, Lat: 5, Height: 4}

	got := Distance(a, b)
	want := 3 * 111000.0
	if math.Abs(got-want) > 1 {
		t.Errorf("Distance() = %v, want %v", got, want)
	}
}

func TestDistance_Symmetric(t *testing.T) {
	a := RegionGeometry{Lon: 2.3, Lat: 48.8, Width: 11, Height: 9}
	b := RegionGeometry{Lon: 37.6, Lat: 55.7, Width: 40, Height: 30}

	if d1, d2 := Distance(a, b), Distance(b, a); d1 != d2 {
		t.Errorf("Distance not symmetric: %v vs %v", d1, d2)
	}
}
