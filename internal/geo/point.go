// AngelaMos | 2026
// point.go

// Package geo holds the single geographic point type shared by users and
// service listings, together with the radius filter used by list queries.
package geo

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
)

const (
	MinLongitude = -180.0
	MaxLongitude = 180.0
	MinLatitude  = -90.0
	MaxLatitude  = 90.0

	pointType = "Point"
)

var (
	ErrTooFewCoordinates = errors.New("location requires longitude and latitude")
	ErrInvalidShape      = errors.New("location must have exactly two coordinates")
	ErrLongitudeRange    = errors.New("longitude must be between -180 and 180")
	ErrLatitudeRange     = errors.New("latitude must be between -90 and 90")
	ErrInvalidRadius     = errors.New("radius must be a positive number of kilometers")
)

// Point is a WGS84 longitude/latitude pair.
type Point struct {
	Lon float64
	Lat float64
}

func NewPoint(lon, lat float64) (Point, error) {
	if math.IsNaN(lon) || lon < MinLongitude || lon > MaxLongitude {
		return Point{}, ErrLongitudeRange
	}
	if math.IsNaN(lat) || lat < MinLatitude || lat > MaxLatitude {
		return Point{}, ErrLatitudeRange
	}
	return Point{Lon: lon, Lat: lat}, nil
}

type geoJSON struct {
	Type        string     `json:"type"`
	Coordinates [2]float64 `json:"coordinates"`
}

func (p Point) MarshalJSON() ([]byte, error) {
	return json.Marshal(geoJSON{
		Type:        pointType,
		Coordinates: [2]float64{p.Lon, p.Lat},
	})
}

func (p *Point) UnmarshalJSON(data []byte) error {
	var g geoJSON
	if err := json.Unmarshal(data, &g); err != nil {
		return fmt.Errorf("decode point: %w", err)
	}
	pt, err := NewPoint(g.Coordinates[0], g.Coordinates[1])
	if err != nil {
		return err
	}
	*p = pt
	return nil
}

// Input is the client-supplied location shape. Coordinates are pointers so
// that explicit nulls can be told apart from zeros.
type Input struct {
	Type        string     `json:"type,omitempty"`
	Coordinates []*float64 `json:"coordinates"`
}

// Point normalizes the input. A nil input, an empty coordinate list or an
// all-null pair yields no point. Exactly two non-null, in-range coordinates
// yield a point. Any other shape is an error.
func (in *Input) Point() (*Point, error) {
	if in == nil || len(in.Coordinates) == 0 {
		return nil, nil
	}

	if len(in.Coordinates) != 2 {
		return nil, ErrInvalidShape
	}

	lon, lat := in.Coordinates[0], in.Coordinates[1]
	if lon == nil && lat == nil {
		return nil, nil
	}
	if lon == nil || lat == nil {
		return nil, ErrInvalidShape
	}

	p, err := NewPoint(*lon, *lat)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// PointForCreate applies the stricter creation rule: a supplied location
// must carry at least two coordinates.
func (in *Input) PointForCreate() (*Point, error) {
	if in == nil {
		return nil, nil
	}
	if len(in.Coordinates) < 2 {
		return nil, ErrTooFewCoordinates
	}
	return in.Point()
}

// Field records whether a location key was present in a partial update.
type Field struct {
	Set   bool
	Input *Input
}

func (f *Field) UnmarshalJSON(data []byte) error {
	f.Set = true
	if string(data) == "null" {
		f.Input = nil
		return nil
	}

	var in Input
	if err := json.Unmarshal(data, &in); err != nil {
		return fmt.Errorf("decode location: %w", err)
	}
	f.Input = &in
	return nil
}

// Message returns the client-facing text for a location error.
func Message(err error) string {
	switch {
	case errors.Is(err, ErrTooFewCoordinates):
		return "La ubicación debe incluir longitud y latitud"
	case errors.Is(err, ErrInvalidShape):
		return "La ubicación debe tener exactamente dos coordenadas [longitud, latitud]"
	case errors.Is(err, ErrLongitudeRange):
		return "La longitud debe estar entre -180 y 180"
	case errors.Is(err, ErrLatitudeRange):
		return "La latitud debe estar entre -90 y 90"
	case errors.Is(err, ErrInvalidRadius):
		return "El radio debe ser un número positivo de kilómetros"
	default:
		return "Ubicación inválida"
	}
}
