package geo

import (
	"fmt"
	"math"
	"math/rand"
)

// earthRadius — средний радиус Земли в метрах.
const earthRadius = 6371000.0

// DegreesPerMeter — приблизительное число градусов широты на один метр.
// Используется для перевода радиуса jitter из метров в градусы.
const DegreesPerMeter = 1.0 / 111319.9

// Point — географическая точка (широта/долгота в градусах).
type Point struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Distance возвращает расстояние между точками в метрах (haversine).
func Distance(a, b Point) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLon := (b.Lon - a.Lon) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)

	return 2 * earthRadius * math.Asin(math.Sqrt(h))
}

// Randomize возвращает точку, случайно смещённую от p не более чем
// на amount градусов по каждой оси.
//
// Контракт: результат лежит в пределах amount от входа; распределение
// внутри этого квадрата не специфицировано.
func Randomize(p Point, amount float64) Point {
	return Point{
		Lat: p.Lat + (rand.Float64()*2-1)*amount,
		Lon: p.Lon + (rand.Float64()*2-1)*amount,
	}
}

// Bounds — прямоугольная географическая граница области сканирования.
type Bounds struct {
	North float64
	South float64
	East  float64
	West  float64
}

// Contains проверяет, лежит ли точка внутри границы.
func (b Bounds) Contains(p Point) bool {
	return p.Lat >= b.South && p.Lat <= b.North &&
		p.Lon >= b.West && p.Lon <= b.East
}

// Center возвращает центр границы.
func (b Bounds) Center() Point {
	return Point{
		Lat: (b.North + b.South) / 2,
		Lon: (b.East + b.West) / 2,
	}
}

// Validate проверяет согласованность границы.
func (b Bounds) Validate() error {
	if b.North < b.South {
		return fmt.Errorf("bounds: north (%f) < south (%f)", b.North, b.South)
	}
	if b.East < b.West {
		return fmt.Errorf("bounds: east (%f) < west (%f)", b.East, b.West)
	}
	return nil
}
