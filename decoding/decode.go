package decoding

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/beetlebugorg/openlr"
	"github.com/beetlebugorg/openlr/maps"
	"github.com/beetlebugorg/openlr/maps/geodesic"
	"github.com/beetlebugorg/openlr/maps/planar"
	"github.com/beetlebugorg/openlr/observer"
)

// Decode translates an OpenLR location reference into a location on
// reader's target map.
//
// The returned value's concrete type depends on the reference variant:
//
//	openlr.GeoCoordinateLocationReference      -> maps.Coordinates
//	openlr.LineLocationReference               -> *LineLocation
//	openlr.PointAlongLineLocationReference     -> *PointAlongLine
//	openlr.PoiWithAccessPointLocationReference -> *PoiWithAccessPoint
//
// obs may be nil. cfg.Timeout (seconds) bounds the call in addition to any
// deadline already set on ctx; whichever is sooner applies. basemapFilter
// may be nil; when non-nil, it excludes lines from candidate consideration
// entirely regardless of score (SPEC_FULL.md §6's basemap_filter).
func Decode(ctx context.Context, ref openlr.LocationReference, reader maps.MapReader, cfg Config, obs observer.DecoderObserver, basemapFilter func(maps.Line) bool) (any, error) {
	return DecodeWithLogger(ctx, ref, reader, cfg, obs, basemapFilter, zap.NewNop())
}

// DecodeWithLogger is Decode with an explicit structured logger for
// candidate/route/backtrack tracing at debug level, instead of the silent
// no-op logger Decode uses.
func DecodeWithLogger(ctx context.Context, ref openlr.LocationReference, reader maps.MapReader, cfg Config, obs observer.DecoderObserver, basemapFilter func(maps.Line) bool, log *zap.Logger) (any, error) {
	if log == nil {
		log = zap.NewNop()
	}

	if coord, ok := ref.(openlr.GeoCoordinateLocationReference); ok {
		return maps.Coordinates{Lon: coord.Lon, Lat: coord.Lat}, nil
	}

	var deadline time.Time
	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(cfg.Timeout*float64(time.Second)))
		defer cancel()
		deadline = time.Now().Add(time.Duration(cfg.Timeout * float64(time.Second)))
	} else {
		// A zero timeout means the budget is already exhausted: any
		// non-trivial decode must fail immediately.
		deadline = time.Now()
	}

	kernel := selectKernel(cfg)
	mc := &matchContext{
		ctx: ctx, deadline: deadline, cfg: cfg, kernel: kernel, reader: reader,
		cache: newNodeValidityCache(defaultNodeValidityCacheSize), log: log, obs: obs,
		basemapFilter: basemapFilter,
	}

	switch r := ref.(type) {
	case openlr.LineLocationReference:
		segments, err := dereferencePath(mc, r.Points)
		if err != nil {
			return nil, err
		}
		return buildLineLocation(kernel, segments, r)
	case *openlr.LineLocationReference:
		segments, err := dereferencePath(mc, r.Points)
		if err != nil {
			return nil, err
		}
		return buildLineLocation(kernel, segments, *r)

	case openlr.PointAlongLineLocationReference:
		segments, err := dereferencePath(mc, r.Points[:])
		if err != nil {
			return nil, err
		}
		return decodePointAlongLine(kernel, segments, r)
	case *openlr.PointAlongLineLocationReference:
		segments, err := dereferencePath(mc, r.Points[:])
		if err != nil {
			return nil, err
		}
		return decodePointAlongLine(kernel, segments, *r)

	case openlr.PoiWithAccessPointLocationReference:
		segments, err := dereferencePath(mc, r.Points[:])
		if err != nil {
			return nil, err
		}
		return decodePOIWithAccessPoint(kernel, segments, r)
	case *openlr.PoiWithAccessPointLocationReference:
		segments, err := dereferencePath(mc, r.Points[:])
		if err != nil {
			return nil, err
		}
		return decodePOIWithAccessPoint(kernel, segments, *r)

	case *openlr.GeoCoordinateLocationReference:
		return maps.Coordinates{Lon: r.Lon, Lat: r.Lat}, nil

	default:
		return nil, &ErrUnsupportedReferenceKind{Reference: ref}
	}
}

func selectKernel(cfg Config) maps.Kernel {
	if cfg.EqualArea {
		return planar.New()
	}
	return geodesic.New()
}
