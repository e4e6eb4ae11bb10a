package geo

import (
	"math"
	"testing"
)

func TestDistance(t *testing.T) {
	tests := []struct {
		name string
		a, b Point
		want float64 // метры
		tol  float64
	}{
		{
			name: "same point",
			a:    Point{Lat: 55.7558, Lon: 37.6173},
			b:    Point{Lat: 55.7558, Lon: 37.6173},
			want: 0,
			tol:  0.001,
		},
		{
			name: "one degree latitude",
			a:    Point{Lat: 0, Lon: 0},
			b:    Point{Lat: 1, Lon: 0},
			want: 111195,
			tol:  100,
		},
		{
			name: "moscow to spb",
			a:    Point{Lat: 55.7558, Lon: 37.6173},
			b:    Point{Lat: 59.9343, Lon: 30.3351},
			want: 634000,
			tol:  5000,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Distance(tt.a, tt.b)
			if math.Abs(got-tt.want) > tt.tol {
				t.Errorf("Distance() = %f, expected %f ± %f", got, tt.want, tt.tol)
			}
		})
	}
}

func TestDistance_Symmetric(t *testing.T) {
	a := Point{Lat: 55.7558, Lon: 37.6173}
	b := Point{Lat: 59.9343, Lon: 30.3351}

	if d1, d2 := Distance(a, b), Distance(b, a); math.Abs(d1-d2) > 1e-9 {
		t.Errorf("distance not symmetric: %f != %f", d1, d2)
	}
}

func TestRandomize(t *testing.T) {
	p := Point{Lat: 55.7558, Lon: 37.6173}
	const amount = 0.00003

	for i := 0; i < 1000; i++ {
		got := Randomize(p, amount)
		if math.Abs(got.Lat-p.Lat) > amount {
			t.Fatalf("lat offset %g exceeds %g", math.Abs(got.Lat-p.Lat), amount)
		}
		if math.Abs(got.Lon-p.Lon) > amount {
			t.Fatalf("lon offset %g exceeds %g", math.Abs(got.Lon-p.Lon), amount)
		}
	}
}

func TestBounds_Contains(t *testing.T) {
	b := Bounds{North: 56, South: 55, East: 38, West: 37}

	tests := []struct {
		name string
		p    Point
		want bool
	}{
		{"inside", Point{Lat: 55.5, Lon: 37.5}, true},
		{"on edge", Point{Lat: 56, Lon: 38}, true},
		{"north of bounds", Point{Lat: 56.1, Lon: 37.5}, false},
		{"west of bounds", Point{Lat: 55.5, Lon: 36.9}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := b.Contains(tt.p); got != tt.want {
				t.Errorf("Contains(%v) = %v, expected %v", tt.p, got, tt.want)
			}
		})
	}
}

func TestBounds_Center(t *testing.T) {
	b := Bounds{North: 56, South: 55, East: 38, West: 37}
	c := b.Center()
	if c.Lat != 55.5 || c.Lon != 37.5 {
		t.Errorf("Center() = %v, expected {55.5 37.5}", c)
	}
}

func TestBounds_Validate(t *testing.T) {
	tests := []struct {
		name    string
		b       Bounds
		wantErr bool
	}{
		{"valid", Bounds{North: 56, South: 55, East: 38, West: 37}, false},
		{"inverted latitude", Bounds{North: 55, South: 56, East: 38, West: 37}, true},
		{"inverted longitude", Bounds{North: 56, South: 55, East: 37, West: 38}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.b.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
