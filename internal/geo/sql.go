// AngelaMos | 2026
// sql.go

package geo

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

const (
	DefaultRadiusKm = 10.0
	metersPerKm     = 1000.0
)

// Column renders a geography column as GeoJSON text for scanning into *Point.
func Column(column, alias string) string {
	return fmt.Sprintf("ST_AsGeoJSON(%s) AS %s", column, alias)
}

// Placeholder renders the SQL expression that turns a GeoJSON parameter
// into a geography value. A NULL parameter stays NULL.
func Placeholder(argIdx int) string {
	return fmt.Sprintf(
		"ST_SetSRID(ST_GeomFromGeoJSON($%d::text), 4326)::geography",
		argIdx,
	)
}

// SQLValue converts an optional point into a query argument.
func SQLValue(p *Point) any {
	if p == nil {
		return nil
	}
	//nolint:errcheck // marshaling two floats cannot fail
	b, _ := json.Marshal(p)
	return string(b)
}

// Scan reads the GeoJSON produced by Column.
func (p *Point) Scan(src any) error {
	var raw []byte
	switch v := src.(type) {
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		return fmt.Errorf("scan point: unsupported type %T", src)
	}
	return p.UnmarshalJSON(raw)
}

// Near is a radius predicate around a reference point.
type Near struct {
	Point    Point
	RadiusKm float64
}

func (n *Near) RadiusMeters() float64 {
	return n.RadiusKm * metersPerKm
}

// Clause renders the ST_DWithin predicate with three positional arguments
// starting at argIdx.
func (n *Near) Clause(column string, argIdx int) (string, []any) {
	clause := fmt.Sprintf(
		"ST_DWithin(%s, ST_SetSRID(ST_MakePoint($%d, $%d), 4326)::geography, $%d)",
		column, argIdx, argIdx+1, argIdx+2,
	)
	return clause, []any{n.Point.Lon, n.Point.Lat, n.RadiusMeters()}
}

// ParseNear reads the "lon,lat" and radius-in-km query parameters. An empty
// location means no geographic filter; the radius is then ignored.
func ParseNear(location, radius string) (*Near, error) {
	location = strings.TrimSpace(location)
	if location == "" {
		return nil, nil
	}

	parts := strings.Split(location, ",")
	if len(parts) != 2 {
		return nil, ErrInvalidShape
	}

	lon, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return nil, ErrInvalidShape
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return nil, ErrInvalidShape
	}

	p, err := NewPoint(lon, lat)
	if err != nil {
		return nil, err
	}

	radiusKm := DefaultRadiusKm
	if radius = strings.TrimSpace(radius); radius != "" {
		radiusKm, err = strconv.ParseFloat(radius, 64)
		if err != nil || math.IsNaN(radiusKm) || math.IsInf(radiusKm, 0) || radiusKm <= 0 {
			return nil, ErrInvalidRadius
		}
	}

	return &Near{Point: p, RadiusKm: radiusKm}, nil
}
