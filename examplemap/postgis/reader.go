package postgis

import (
	"context"
	"fmt"

	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/beetlebugorg/openlr/maps"
)

// schema names the lines/nodes tables the way example_postgres_map's SQL
// does: lines(line_id, startnode, endnode, frc, fow, geom, length) and
// nodes(node_id, geom).
const (
	selectLineColumns = `line_id, startnode, endnode, frc, fow,
		ST_AsText(geom) AS geometry_wkt, ST_Length(geom::geography) AS length_m`
	selectNodeColumns = `node_id, ST_X(geom) AS lon, ST_Y(geom) AS lat`
)

// Reader implements maps.MapReader against a PostGIS lines/nodes schema.
// It queries eagerly: every GetLine/GetNode call issues one round trip
// (or is served from an optional Cache in front of it) rather than
// building lazy proxy objects the way the Python original's Line/Node
// classes do.
type Reader struct {
	db  *DB
	ctx context.Context
}

// NewReader wraps db for use as a maps.MapReader. ctx is used for every
// query issued by the reader; callers needing per-call cancellation
// should wrap methods themselves or pass context.Background() and rely
// on statement_timeout.
func NewReader(db *DB, ctx context.Context) *Reader {
	if ctx == nil {
		ctx = context.Background()
	}
	return &Reader{db: db, ctx: ctx}
}

func (r *Reader) GetLine(id maps.LineID) (maps.Line, bool) {
	lineID, ok := id.(int64)
	if !ok {
		return nil, false
	}
	var row lineRow
	query := fmt.Sprintf(`SELECT %s FROM lines WHERE line_id = $1`, selectLineColumns)
	if err := r.db.GetContext(r.ctx, &row, query, lineID); err != nil {
		r.db.logger.Error("failed to get line", zap.Int64("line_id", lineID), zap.Error(err))
		return nil, false
	}
	return r.lineFromRow(row), true
}

func (r *Reader) GetNode(id maps.NodeID) (maps.Node, bool) {
	nodeID, ok := id.(int64)
	if !ok {
		return nil, false
	}
	var row nodeRow
	query := fmt.Sprintf(`SELECT %s FROM nodes WHERE node_id = $1`, selectNodeColumns)
	if err := r.db.GetContext(r.ctx, &row, query, nodeID); err != nil {
		r.db.logger.Error("failed to get node", zap.Int64("node_id", nodeID), zap.Error(err))
		return nil, false
	}
	return r.nodeFromRow(row), true
}

func (r *Reader) GetLines() []maps.Line {
	var rows []lineRow
	query := fmt.Sprintf(`SELECT %s FROM lines`, selectLineColumns)
	if err := r.db.SelectContext(r.ctx, &rows, query); err != nil {
		r.db.logger.Error("failed to list lines", zap.Error(err))
		return nil
	}
	lines := make([]maps.Line, 0, len(rows))
	for _, row := range rows {
		lines = append(lines, r.lineFromRow(row))
	}
	return lines
}

func (r *Reader) GetNodes() []maps.Node {
	var rows []nodeRow
	query := fmt.Sprintf(`SELECT %s FROM nodes`, selectNodeColumns)
	if err := r.db.SelectContext(r.ctx, &rows, query); err != nil {
		r.db.logger.Error("failed to list nodes", zap.Error(err))
		return nil
	}
	nodes := make([]maps.Node, 0, len(rows))
	for _, row := range rows {
		nodes = append(nodes, r.nodeFromRow(row))
	}
	return nodes
}

func (r *Reader) LineCount() int {
	var count int
	if err := r.db.GetContext(r.ctx, &count, `SELECT count(*) FROM lines`); err != nil {
		r.db.logger.Error("failed to count lines", zap.Error(err))
		return 0
	}
	return count
}

func (r *Reader) NodeCount() int {
	var count int
	if err := r.db.GetContext(r.ctx, &count, `SELECT count(*) FROM nodes`); err != nil {
		r.db.logger.Error("failed to count nodes", zap.Error(err))
		return 0
	}
	return count
}

// FindNodesCloseTo returns every node within distMeters of coord, using
// ST_DWithin against the geography cast the way example_postgres_map's
// find_nodes_close_to does.
func (r *Reader) FindNodesCloseTo(coord maps.Coordinates, distMeters float64) []maps.Node {
	var rows []nodeRow
	query := fmt.Sprintf(`
		SELECT %s FROM nodes
		WHERE ST_DWithin(
			geom::geography,
			ST_SetSRID(ST_MakePoint($1, $2), 4326)::geography,
			$3
		)`, selectNodeColumns)
	if err := r.db.SelectContext(r.ctx, &rows, query, coord.Lon, coord.Lat, distMeters); err != nil {
		r.db.logger.Error("failed to find nodes close to point",
			zap.Float64("lon", coord.Lon), zap.Float64("lat", coord.Lat), zap.Error(err))
		return nil
	}
	nodes := make([]maps.Node, 0, len(rows))
	for _, row := range rows {
		nodes = append(nodes, r.nodeFromRow(row))
	}
	return nodes
}

// FindLinesCloseTo mirrors FindNodesCloseTo, comparing distance against
// the line geometry rather than a single point. filter, when non-nil, is
// applied in-process after the spatial query — the schema carries no FRC/
// FOW-aware predicate to push into SQL, so this does not save a round
// trip, but it keeps every line returned satisfying maps.MapReader's
// filter contract.
func (r *Reader) FindLinesCloseTo(coord maps.Coordinates, distMeters float64, filter func(maps.Line) bool) []maps.Line {
	var rows []lineRow
	query := fmt.Sprintf(`
		SELECT %s FROM lines
		WHERE ST_DWithin(
			geom::geography,
			ST_SetSRID(ST_MakePoint($1, $2), 4326)::geography,
			$3
		)`, selectLineColumns)
	if err := r.db.SelectContext(r.ctx, &rows, query, coord.Lon, coord.Lat, distMeters); err != nil {
		r.db.logger.Error("failed to find lines close to point",
			zap.Float64("lon", coord.Lon), zap.Float64("lat", coord.Lat), zap.Error(err))
		return nil
	}
	lines := make([]maps.Line, 0, len(rows))
	for _, row := range rows {
		line := r.lineFromRow(row)
		if filter != nil && !filter(line) {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

// GetLinesByIDs batches a set of line lookups into a single query, binding
// the id list as a Postgres array literal via pq.Array rather than
// expanding it into $1,$2,... placeholders — useful for the candidate/tail
// matcher's repeated small-batch line fetches.
func (r *Reader) GetLinesByIDs(ids []int64) ([]maps.Line, error) {
	var rows []lineRow
	query := fmt.Sprintf(`SELECT %s FROM lines WHERE line_id = ANY($1)`, selectLineColumns)
	if err := r.db.SelectContext(r.ctx, &rows, query, pq.Array(ids)); err != nil {
		r.db.logger.Error("failed to batch-get lines", zap.Int("count", len(ids)), zap.Error(err))
		return nil, fmt.Errorf("batch line lookup: %w", err)
	}

	found := make(map[int64]bool, len(rows))
	lines := make([]maps.Line, 0, len(rows))
	for _, row := range rows {
		found[row.LineID] = true
		lines = append(lines, r.lineFromRow(row))
	}

	var missing []int64
	for _, id := range ids {
		if !found[id] {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		return lines, &ErrLineNotFound{LineIDs: missing}
	}
	return lines, nil
}

// linesWhere is the shared implementation behind Node.OutgoingLines and
// Node.IncomingLines: fetch every line row whose given endpoint column
// equals nodeID.
func (r *Reader) linesWhere(endpointColumn string, nodeID int64) ([]maps.Line, error) {
	var rows []lineRow
	query := fmt.Sprintf(`SELECT %s FROM lines WHERE %s = $1`, selectLineColumns, endpointColumn)
	if err := r.db.SelectContext(r.ctx, &rows, query, nodeID); err != nil {
		r.db.logger.Error("failed to list connected lines",
			zap.String("endpoint", endpointColumn), zap.Int64("node_id", nodeID), zap.Error(err))
		return nil, err
	}
	lines := make([]maps.Line, 0, len(rows))
	for _, row := range rows {
		lines = append(lines, r.lineFromRow(row))
	}
	return lines, nil
}

func (r *Reader) lineFromRow(row lineRow) *Line {
	geom, err := parseLineStringWKT(row.GeometryWKT)
	if err != nil {
		r.db.logger.Warn("failed to parse line geometry",
			zap.Int64("line_id", row.LineID), zap.Error(err))
	}
	return &Line{
		id:       row.LineID,
		start:    row.StartNode,
		end:      row.EndNode,
		frc:      maps.FRCLevel(row.FRC),
		fow:      maps.FOWCategory(row.FOW),
		geometry: geom,
		length:   row.Length,
		reader:   r,
	}
}

func (r *Reader) nodeFromRow(row nodeRow) *Node {
	return &Node{
		id:     row.NodeID,
		coord:  maps.Coordinates{Lon: row.Lon, Lat: row.Lat},
		reader: r,
	}
}
