package postgis

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/beetlebugorg/openlr/maps"
)

// parseLineStringWKT turns a PostGIS ST_AsText LINESTRING(...) result into
// an ordered coordinate list, in place of pulling in a full WKB/WKT
// geometry library for a single, narrow shape.
func parseLineStringWKT(wkt string) ([]maps.Coordinates, error) {
	wkt = strings.TrimSpace(wkt)
	open := strings.IndexByte(wkt, '(')
	shut := strings.LastIndexByte(wkt, ')')
	if !strings.HasPrefix(strings.ToUpper(wkt), "LINESTRING") || open < 0 || shut <= open {
		return nil, fmt.Errorf("postgis: not a LINESTRING: %q", wkt)
	}

	body := wkt[open+1 : shut]
	pairs := strings.Split(body, ",")
	coords := make([]maps.Coordinates, 0, len(pairs))
	for _, pair := range pairs {
		fields := strings.Fields(strings.TrimSpace(pair))
		if len(fields) < 2 {
			return nil, fmt.Errorf("postgis: malformed coordinate pair %q in %q", pair, wkt)
		}
		lon, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			return nil, fmt.Errorf("postgis: parsing longitude %q: %w", fields[0], err)
		}
		lat, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return nil, fmt.Errorf("postgis: parsing latitude %q: %w", fields[1], err)
		}
		coords = append(coords, maps.Coordinates{Lon: lon, Lat: lat})
	}
	return coords, nil
}
