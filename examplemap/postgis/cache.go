package postgis

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/beetlebugorg/openlr/maps"
)

// cachedLine and cachedNode are the JSON wire shapes stored in Redis; a
// Line/Node's reader backreference is reattached on load, since it can't
// round-trip through JSON.
type cachedLine struct {
	ID       int64              `json:"id"`
	Start    int64              `json:"start"`
	End      int64              `json:"end"`
	FRC      maps.FRCLevel      `json:"frc"`
	FOW      maps.FOWCategory   `json:"fow"`
	Geometry []maps.Coordinates `json:"geometry"`
	Length   float64            `json:"length"`
}

type cachedNode struct {
	ID    int64            `json:"id"`
	Coord maps.Coordinates `json:"coord"`
}

// Cache wraps a Reader with a go-redis read-through cache in front of
// single-id GetLine/GetNode lookups, the two calls the tail matcher
// repeats heavily while backtracking over the same few candidates.
// Proximity queries (FindNodesCloseTo/FindLinesCloseTo) and bulk listing
// are passed straight through, since their result sets vary with the
// query coordinate and are a poor fit for a plain key/value cache.
type Cache struct {
	reader *Reader
	rdb    *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewCache wraps reader with a redis-backed cache. A zero ttl means
// entries never expire.
func NewCache(reader *Reader, rdb *redis.Client, ttl time.Duration, logger *zap.Logger) *Cache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Cache{reader: reader, rdb: rdb, ttl: ttl, logger: logger}
}

func lineCacheKey(id int64) string { return fmt.Sprintf("openlr:line:%d", id) }
func nodeCacheKey(id int64) string { return fmt.Sprintf("openlr:node:%d", id) }

func (c *Cache) GetLine(id maps.LineID) (maps.Line, bool) {
	lineID, ok := id.(int64)
	if !ok {
		return nil, false
	}

	ctx := c.reader.ctx
	if raw, err := c.rdb.Get(ctx, lineCacheKey(lineID)).Bytes(); err == nil {
		var cl cachedLine
		if jsonErr := json.Unmarshal(raw, &cl); jsonErr == nil {
			return &Line{
				id: cl.ID, start: cl.Start, end: cl.End,
				frc: cl.FRC, fow: cl.FOW, geometry: cl.Geometry, length: cl.Length,
				reader: c.reader,
			}, true
		}
	} else if err != redis.Nil {
		c.logger.Warn("cache read failed, falling back to database", zap.Error(err))
	}

	line, ok := c.reader.GetLine(id)
	if !ok {
		return nil, false
	}

	l := line.(*Line)
	payload, err := json.Marshal(cachedLine{
		ID: l.id, Start: l.start, End: l.end,
		FRC: l.frc, FOW: l.fow, Geometry: l.geometry, Length: l.length,
	})
	if err == nil {
		if err := c.rdb.Set(ctx, lineCacheKey(lineID), payload, c.ttl).Err(); err != nil {
			c.logger.Warn("cache write failed", zap.Error(err))
		}
	}
	return line, true
}

func (c *Cache) GetNode(id maps.NodeID) (maps.Node, bool) {
	nodeID, ok := id.(int64)
	if !ok {
		return nil, false
	}

	ctx := c.reader.ctx
	if raw, err := c.rdb.Get(ctx, nodeCacheKey(nodeID)).Bytes(); err == nil {
		var cn cachedNode
		if jsonErr := json.Unmarshal(raw, &cn); jsonErr == nil {
			return &Node{id: cn.ID, coord: cn.Coord, reader: c.reader}, true
		}
	} else if err != redis.Nil {
		c.logger.Warn("cache read failed, falling back to database", zap.Error(err))
	}

	node, ok := c.reader.GetNode(id)
	if !ok {
		return nil, false
	}

	n := node.(*Node)
	payload, err := json.Marshal(cachedNode{ID: n.id, Coord: n.coord})
	if err == nil {
		if err := c.rdb.Set(ctx, nodeCacheKey(nodeID), payload, c.ttl).Err(); err != nil {
			c.logger.Warn("cache write failed", zap.Error(err))
		}
	}
	return node, true
}

func (c *Cache) GetLines() []maps.Line { return c.reader.GetLines() }
func (c *Cache) GetNodes() []maps.Node { return c.reader.GetNodes() }
func (c *Cache) LineCount() int        { return c.reader.LineCount() }
func (c *Cache) NodeCount() int        { return c.reader.NodeCount() }

func (c *Cache) FindNodesCloseTo(coord maps.Coordinates, distMeters float64) []maps.Node {
	return c.reader.FindNodesCloseTo(coord, distMeters)
}

func (c *Cache) FindLinesCloseTo(coord maps.Coordinates, distMeters float64, filter func(maps.Line) bool) []maps.Line {
	return c.reader.FindLinesCloseTo(coord, distMeters, filter)
}

var _ maps.MapReader = (*Cache)(nil)
var _ maps.MapReader = (*Reader)(nil)
