package main

import (
	"context"
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"resource-center-placer/internal/config"
	"resource-center-placer/internal/database"
	"resource-center-placer/internal/distance"
	"resource-center-placer/internal/loader"
	"resource-center-placer/internal/models"
	"resource-center-placer/internal/optimizer"
)

// dataFlags points at the CSV datasets and the constraints file
type dataFlags struct {
	points      string
	zones       string
	distances   string
	constraints string
}

func (f *dataFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.points, "points", "resource_points.csv", "Resource points CSV file")
	cmd.Flags().StringVar(&f.zones, "zones", "", "Zone features CSV file")
	cmd.Flags().StringVar(&f.distances, "distances", "", "Road network distance matrix CSV file")
	cmd.Flags().StringVar(&f.constraints, "constraints", "", "Constraints YAML file")
}

// paramFlags override constraints-file values when set explicitly
type paramFlags struct {
	k         int
	minSepKm  float64
	exclude   []string
	maxSlope  float64
	maxRounds int
	seed      int64
}

func (f *paramFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVarP(&f.k, "centers", "k", 3, "Number of centers to place")
	cmd.Flags().Float64Var(&f.minSepKm, "min-separation-km", 2.0, "Minimum pairwise center separation in kilometers")
	cmd.Flags().StringSliceVar(&f.exclude, "exclude", []string{"wetland"}, "Land types excluded from hosting a center")
	cmd.Flags().Float64Var(&f.maxSlope, "max-slope", 30.0, "Maximum slope a center site may have")
	cmd.Flags().IntVar(&f.maxRounds, "max-rounds", 50, "Local search round cap")
	cmd.Flags().Int64Var(&f.seed, "seed", 0, "Random seed; 0 draws one from the clock")
}

// resolve layers explicit flags over the constraints file over the defaults
func (f *paramFlags) resolve(cmd *cobra.Command, constraintsPath string) (models.OptimizeParams, error) {
	params, err := config.Load(constraintsPath)
	if err != nil {
		return params, err
	}

	if cmd.Flags().Changed("centers") {
		params.K = f.k
	}
	if cmd.Flags().Changed("min-separation-km") {
		params.MinSeparationKm = f.minSepKm
	}
	if cmd.Flags().Changed("exclude") {
		params.ExcludeLandTypes = f.exclude
	}
	if cmd.Flags().Changed("max-slope") {
		params.MaxSlope = f.maxSlope
	}
	if cmd.Flags().Changed("max-rounds") {
		params.MaxRounds = f.maxRounds
	}
	if cmd.Flags().Changed("seed") {
		params.Seed = f.seed
	}

	return params, config.Validate(params)
}

func newOptimizeCommand() *cobra.Command {
	var (
		data   dataFlags
		pflags paramFlags
		dbPath string
	)

	cmd := &cobra.Command{
		Use:   "optimize",
		Short: "Run the center placement optimization and print the result",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOptimize(cmd, data, pflags, dbPath)
		},
	}

	data.register(cmd)
	pflags.register(cmd)
	cmd.Flags().StringVar(&dbPath, "db", "", "SQLite database for run history and the distance cache")

	return cmd
}

func runOptimize(cmd *cobra.Command, data dataFlags, pflags paramFlags, dbPath string) error {
	params, err := pflags.resolve(cmd, data.constraints)
	if err != nil {
		return err
	}

	points, entries, _, err := loader.Load(data.points, data.zones, data.distances)
	if err != nil {
		return err
	}

	oracle := distance.NewTableOracle(points)
	oracle.Load(entries)

	var db *database.DB
	if dbPath != "" {
		db, err = database.New(dbPath)
		if err != nil {
			return err
		}
		defer db.Close()

		cached, err := db.DistanceCache().GetAll(cmd.Context())
		if err != nil {
			return err
		}
		oracle.Load(cached)
	}

	solution, err := optimizer.New(points, oracle, params).Solve(cmd.Context())
	if err != nil {
		return err
	}

	printSolution(cmd, solution)

	if db != nil {
		run, err := db.Runs().Create(cmd.Context(), params, solution)
		if err != nil {
			return fmt.Errorf("failed to persist run: %w", err)
		}
		log.Printf("[CLI] Run persisted: id=%d", run.ID)

		if err := flushFallbacks(cmd.Context(), db, oracle); err != nil {
			return err
		}
	}

	if !solution.Feasible {
		return fmt.Errorf("no valid solution found")
	}
	return nil
}

// printSolution writes the historical report format
func printSolution(cmd *cobra.Command, solution *models.Solution) {
	if !solution.Feasible {
		cmd.Println("No valid solution found")
		return
	}

	cmd.Println("\nBest Centers:")
	for _, c := range solution.Centers {
		cmd.Printf("%d,%g,%g,%s,%g,%g\n", c.ID, c.Lat, c.Lon, c.LandType, c.Slope, c.Elevation)
	}

	cmd.Println("\nAssignments:")
	for _, a := range solution.Assignments {
		cmd.Printf("Point: %d -> Center: %d\n", a.PointID, a.CenterID)
	}

	cmd.Printf("\nTotal Cost: %g\n", solution.TotalCost)
}

// flushFallbacks persists great-circle fallback distances into the cache
func flushFallbacks(ctx context.Context, db *database.DB, oracle *distance.TableOracle) error {
	entries := oracle.DrainFallbacks()
	if len(entries) == 0 {
		return nil
	}
	if err := db.DistanceCache().SetBatch(ctx, entries); err != nil {
		return fmt.Errorf("failed to persist fallback distances: %w", err)
	}
	log.Printf("[CLI] Cached fallback distances: entries=%d", len(entries))
	return nil
}
