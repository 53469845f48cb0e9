package distance

import (
	"log"
	"math"
	"sync"

	"resource-center-placer/internal/models"
)

// EarthRadiusMeters is the mean Earth radius used for the great-circle
// fallback.
const EarthRadiusMeters = 6371000.0

// Oracle resolves the travel distance in meters between two point
// identifiers. Implementations never fail for identifiers of loaded points;
// callers must not pass identifiers outside the loaded point set.
type Oracle interface {
	Distance(fromID, toID int) float64
}

// Entry is one precomputed pairwise distance. Entries are directional:
// (from, to) and (to, from) are distinct keys.
type Entry struct {
	FromID int     `json:"from_id"`
	ToID   int     `json:"to_id"`
	Meters float64 `json:"meters"`
}

type pairKey struct {
	from, to int
}

// TableOracle answers distance queries from a sparse pairwise table and
// falls back to great-circle distance on the point coordinates when a pair
// is absent. Fallback results are recorded so callers can persist them.
type TableOracle struct {
	table  map[pairKey]float64
	coords map[int]models.Coordinates

	mu        sync.Mutex
	fallbacks map[pairKey]float64
}

// NewTableOracle builds an oracle over the given points with an empty table
func NewTableOracle(points []models.Point) *TableOracle {
	coords := make(map[int]models.Coordinates, len(points))
	for i := range points {
		coords[points[i].ID] = points[i].Coords()
	}
	return &TableOracle{
		table:     make(map[pairKey]float64),
		coords:    coords,
		fallbacks: make(map[pairKey]float64),
	}
}

// SetEntry records a precomputed distance for the ordered pair (from, to)
func (o *TableOracle) SetEntry(fromID, toID int, meters float64) {
	o.table[pairKey{fromID, toID}] = meters
}

// Load bulk-inserts precomputed entries into the table
func (o *TableOracle) Load(entries []Entry) {
	for _, e := range entries {
		o.table[pairKey{e.FromID, e.ToID}] = e.Meters
	}
}

// TableSize returns the number of precomputed entries
func (o *TableOracle) TableSize() int {
	return len(o.table)
}

// Distance returns the table entry for (fromID, toID) when present,
// otherwise the great-circle distance between the two points.
func (o *TableOracle) Distance(fromID, toID int) float64 {
	if meters, ok := o.table[pairKey{fromID, toID}]; ok {
		return meters
	}
	if fromID == toID {
		return 0
	}

	from, fromOK := o.coords[fromID]
	to, toOK := o.coords[toID]
	if !fromOK || !toOK {
		log.Printf("[ORACLE] Unknown point id in distance query: from=%d to=%d", fromID, toID)
		return 0
	}

	meters := Haversine(from, to)

	o.mu.Lock()
	o.fallbacks[pairKey{fromID, toID}] = meters
	o.mu.Unlock()

	return meters
}

// FallbackCount returns how many distinct pairs were answered by the
// great-circle fallback so far.
func (o *TableOracle) FallbackCount() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.fallbacks)
}

// DrainFallbacks returns all recorded fallback results and clears the
// record. Callers use this to persist computed distances between runs.
func (o *TableOracle) DrainFallbacks() []Entry {
	o.mu.Lock()
	defer o.mu.Unlock()

	entries := make([]Entry, 0, len(o.fallbacks))
	for key, meters := range o.fallbacks {
		entries = append(entries, Entry{FromID: key.from, ToID: key.to, Meters: meters})
	}
	o.fallbacks = make(map[pairKey]float64)
	return entries
}

// Haversine returns the great-circle distance in meters between two
// coordinates on a sphere of radius EarthRadiusMeters.
func Haversine(a, b models.Coordinates) float64 {
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLon := (b.Lon - a.Lon) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(a.Lat*math.Pi/180)*math.Cos(b.Lat*math.Pi/180)*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return EarthRadiusMeters * c
}
