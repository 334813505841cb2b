// Package openlr dereferences OpenLR location references against a
// concrete target road map.
//
// An OpenLR location reference is a compact, map-agnostic encoding of a
// position or path on a road network: a short list of anchor coordinates
// (location reference points, or LRPs) carrying the expected road class,
// road shape, and bearing at each anchor. This package takes an already
// decoded reference — produced by a separate OpenLR binary codec, which is
// not part of this module — and a maps.MapReader over the target map, and
// reconstructs the matching sub-network: the set of map edges (and
// start/end offsets into them) that best correspond to the encoded route.
//
// # Basic usage
//
//	ref := openlr.LineLocationReference{
//	    Points: []openlr.LocationReferencePoint{lrp0, lrp1, lrp2},
//	}
//	loc, err := decoding.Decode(ctx, ref, reader, decoding.DefaultConfig(), nil, nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	lineLoc := loc.(*decoding.LineLocation)
//	fmt.Println(lineLoc.Coordinates())
//
// # Package layout
//
// Package maps defines the map contract (Node, Line, MapReader) and two
// interchangeable geo kernels (geodesic, planar). Package maps/astar
// implements the A* search used to connect candidate points. Package
// decoding holds the actual matching logic: candidate generation, scoring,
// the recursive tail matcher, and the line/point-along-line/POI assemblers.
// Package observer is an optional side-channel for tracing decode
// decisions. Package examplemap contains reference MapReader
// implementations used by this module's own tests and suitable as a
// starting point for a real adapter.
//
// This package itself only holds the location reference data model: the
// LRP type and the four reference variants a caller may decode.
package openlr
