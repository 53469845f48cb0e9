// Package loader reads the tabular inputs of an optimization run: resource
// points, optional per-point zone features, and an optional road-network
// distance matrix.
package loader

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"resource-center-placer/internal/distance"
	"resource-center-placer/internal/models"
)

// LoadPoints reads resource points from a CSV file with the columns
// id,latitude,longitude,resource_quantity. The first line is a header.
func LoadPoints(path string) ([]models.Point, error) {
	records, err := readCSV(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load resource points: %w", err)
	}

	points := make([]models.Point, 0, len(records))
	for i, record := range records {
		if len(record) < 4 {
			return nil, fmt.Errorf("resource points row %d: expected 4 columns, got %d", i+2, len(record))
		}

		var p models.Point
		if p.ID, err = strconv.Atoi(strings.TrimSpace(record[0])); err != nil {
			return nil, fmt.Errorf("resource points row %d: bad id: %w", i+2, err)
		}
		if p.Lat, err = strconv.ParseFloat(strings.TrimSpace(record[1]), 64); err != nil {
			return nil, fmt.Errorf("resource points row %d: bad latitude: %w", i+2, err)
		}
		if p.Lon, err = strconv.ParseFloat(strings.TrimSpace(record[2]), 64); err != nil {
			return nil, fmt.Errorf("resource points row %d: bad longitude: %w", i+2, err)
		}
		if p.ResourceQuantity, err = strconv.ParseFloat(strings.TrimSpace(record[3]), 64); err != nil {
			return nil, fmt.Errorf("resource points row %d: bad resource quantity: %w", i+2, err)
		}

		points = append(points, p)
	}

	log.Printf("[LOAD] Loaded resource points: count=%d path=%s", len(points), path)
	return points, nil
}

// MergeZoneFeatures reads zone records (id,slope,elevation,land_type) and
// merges them into the matching points in place. Zone records without a
// matching point, and points without a zone record, are counted but not
// treated as errors; unmerged points keep zero slope and an empty land type.
func MergeZoneFeatures(path string, points []models.Point) (zones, unmatched int, err error) {
	records, err := readCSV(path)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to load zone features: %w", err)
	}

	type zone struct {
		slope, elevation float64
		landType         string
	}

	zoneByID := make(map[int]zone, len(records))
	for i, record := range records {
		if len(record) < 4 {
			return 0, 0, fmt.Errorf("zone features row %d: expected 4 columns, got %d", i+2, len(record))
		}

		id, err := strconv.Atoi(strings.TrimSpace(record[0]))
		if err != nil {
			return 0, 0, fmt.Errorf("zone features row %d: bad id: %w", i+2, err)
		}
		slope, err := strconv.ParseFloat(strings.TrimSpace(record[1]), 64)
		if err != nil {
			return 0, 0, fmt.Errorf("zone features row %d: bad slope: %w", i+2, err)
		}
		elevation, err := strconv.ParseFloat(strings.TrimSpace(record[2]), 64)
		if err != nil {
			return 0, 0, fmt.Errorf("zone features row %d: bad elevation: %w", i+2, err)
		}

		zoneByID[id] = zone{slope: slope, elevation: elevation, landType: strings.TrimSpace(record[3])}
	}

	matched := make(map[int]bool, len(points))
	for i := range points {
		z, ok := zoneByID[points[i].ID]
		if !ok {
			continue
		}
		points[i].Slope = z.slope
		points[i].Elevation = z.elevation
		points[i].LandType = z.landType
		matched[points[i].ID] = true
	}

	unmatched = len(zoneByID) - len(matched)
	log.Printf("[LOAD] Merged zone features: zones=%d matched=%d unmatched=%d path=%s",
		len(zoneByID), len(matched), unmatched, path)
	return len(zoneByID), unmatched, nil
}

// LoadDistanceMatrix reads a square road-network matrix in kilometers. The
// header row and the first column (row labels) are skipped; each remaining
// cell is keyed by the load order of the points, so row r / column c becomes
// the (points[r].ID, points[c].ID) entry, converted to meters. Cells beyond
// the loaded point count are ignored.
func LoadDistanceMatrix(path string, points []models.Point) ([]distance.Entry, error) {
	records, err := readCSV(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load distance matrix: %w", err)
	}

	entries := make([]distance.Entry, 0, len(points)*len(points))
	for row, record := range records {
		if row >= len(points) {
			break
		}
		if len(record) < 2 {
			continue
		}
		for col, cell := range record[1:] {
			if col >= len(points) {
				break
			}
			km, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
			if err != nil {
				return nil, fmt.Errorf("distance matrix row %d col %d: %w", row+2, col+2, err)
			}
			entries = append(entries, distance.Entry{
				FromID: points[row].ID,
				ToID:   points[col].ID,
				Meters: km * 1000,
			})
		}
	}

	log.Printf("[LOAD] Loaded distance matrix: entries=%d path=%s", len(entries), path)
	return entries, nil
}

// Load reads all inputs for a run. The zone and distance paths may be empty:
// without zones every point keeps default attributes, and without a matrix
// every distance comes from the great-circle fallback.
func Load(pointsPath, zonesPath, distancesPath string) ([]models.Point, []distance.Entry, models.LoadStats, error) {
	var stats models.LoadStats

	points, err := LoadPoints(pointsPath)
	if err != nil {
		return nil, nil, stats, err
	}
	stats.Points = len(points)

	if zonesPath != "" {
		zones, unmatched, err := MergeZoneFeatures(zonesPath, points)
		if err != nil {
			return nil, nil, stats, err
		}
		stats.ZoneRecords = zones
		stats.UnmatchedZones = unmatched
		for i := range points {
			if points[i].LandType == "" {
				stats.PointsWithoutZone++
			}
		}
	}

	var entries []distance.Entry
	if distancesPath != "" {
		entries, err = LoadDistanceMatrix(distancesPath, points)
		if err != nil {
			return nil, nil, stats, err
		}
		stats.DistanceEntries = len(entries)
	}

	return points, entries, stats, nil
}

// readCSV reads every record after the header line, skipping blank rows.
// Rows may have varying field counts.
func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	if _, err := reader.Read(); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	var records [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if len(record) == 1 && strings.TrimSpace(record[0]) == "" {
			continue
		}
		records = append(records, record)
	}

	return records, nil
}
