package utils

import (
	"math"
	"testing"
)

func TestDistanceMeters_ZeroForSamePoint(t *testing.T) {
	if d := DistanceMeters(31.7754, 76.9861, 31.7754, 76.9861); d != 0 {
		t.Fatalf("expected 0, got %g", d)
	}
}

func TestDistanceMeters_KnownDistances(t *testing.T) {
	cases := []struct {
		name                   string
		lat1, lng1, lat2, lng2 float64
		want                   float64 // meters
		tolerance              float64
	}{
		// one degree of latitude is ~111.2 km everywhere
		{"one degree latitude", 0, 0, 1, 0, 111195, 200},
		// one degree of longitude at the equator
		{"one degree longitude at equator", 0, 0, 0, 1, 111195, 200},
		// small campus-scale offset (~11m)
		{"campus offset", 31.7754, 76.9861, 31.7755, 76.9861, 11.1, 0.5},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := DistanceMeters(tc.lat1, tc.lng1, tc.lat2, tc.lng2)
			if math.Abs(got-tc.want) > tc.tolerance {
				t.Fatalf("expected ~%g m, got %g m", tc.want, got)
			}
		})
	}
}

func TestDistanceMeters_Symmetric(t *testing.T) {
	a := DistanceMeters(31.7754, 76.9861, 31.78, 76.99)
	b := DistanceMeters(31.78, 76.99, 31.7754, 76.9861)
	if math.Abs(a-b) > 1e-9 {
		t.Fatalf("distance must be symmetric: %g vs %g", a, b)
	}
}
