// Package render draws a solution as a PNG map: resource points sized by
// their resource quantity, chosen centers highlighted and labeled.
package render

import (
	"fmt"
	"log"
	"math"

	"github.com/fogleman/gg"

	"resource-center-placer/internal/models"
)

// Options controls the rendered map
type Options struct {
	Width   int
	Height  int
	Padding float64
}

// DefaultOptions returns the standard map size
func DefaultOptions() Options {
	return Options{Width: 1200, Height: 900, Padding: 60}
}

// SolutionMap renders points and centers to a PNG file
func SolutionMap(path string, points []models.Point, solution *models.Solution, opts Options) error {
	if opts.Width <= 0 || opts.Height <= 0 {
		opts = DefaultOptions()
	}
	if len(points) == 0 {
		return fmt.Errorf("no points to render")
	}

	minLat, maxLat := points[0].Lat, points[0].Lat
	minLon, maxLon := points[0].Lon, points[0].Lon
	for i := range points {
		minLat = math.Min(minLat, points[i].Lat)
		maxLat = math.Max(maxLat, points[i].Lat)
		minLon = math.Min(minLon, points[i].Lon)
		maxLon = math.Max(maxLon, points[i].Lon)
	}
	latSpan := maxLat - minLat
	lonSpan := maxLon - minLon
	if latSpan == 0 {
		latSpan = 1e-6
	}
	if lonSpan == 0 {
		lonSpan = 1e-6
	}

	project := func(lat, lon float64) (float64, float64) {
		x := opts.Padding + (lon-minLon)/lonSpan*(float64(opts.Width)-2*opts.Padding)
		// latitude grows upward, image y grows downward
		y := float64(opts.Height) - opts.Padding - (lat-minLat)/latSpan*(float64(opts.Height)-2*opts.Padding)
		return x, y
	}

	ctx := gg.NewContext(opts.Width, opts.Height)
	ctx.SetRGB(1, 1, 1)
	ctx.Clear()

	maxQuantity := 1.0
	for i := range points {
		maxQuantity = math.Max(maxQuantity, points[i].ResourceQuantity)
	}

	for i := range points {
		x, y := project(points[i].Lat, points[i].Lon)
		radius := 3 + 9*math.Sqrt(points[i].ResourceQuantity/maxQuantity)

		ctx.SetRGBA(0.42, 0.68, 0.84, 0.6)
		ctx.DrawCircle(x, y, radius)
		ctx.Fill()
		ctx.SetRGB(0.1, 0.2, 0.5)
		ctx.SetLineWidth(1)
		ctx.DrawCircle(x, y, radius)
		ctx.Stroke()
	}

	for _, c := range solution.Centers {
		x, y := project(c.Lat, c.Lon)

		ctx.SetRGB(0.85, 0.12, 0.12)
		ctx.DrawCircle(x, y, 11)
		ctx.Fill()
		ctx.SetRGB(0, 0, 0)
		ctx.SetLineWidth(2)
		ctx.DrawCircle(x, y, 11)
		ctx.Stroke()

		ctx.SetRGB(0, 0, 0)
		ctx.DrawStringAnchored(fmt.Sprintf("C%d", c.ID), x, y-18, 0.5, 0.5)
	}

	caption := fmt.Sprintf("Optimal collection centers: k=%d total cost=%.0f", len(solution.Centers), solution.TotalCost)
	if !solution.Feasible {
		caption = "No feasible solution"
	}
	ctx.SetRGB(0, 0, 0)
	ctx.DrawStringAnchored(caption, float64(opts.Width)/2, opts.Padding/2, 0.5, 0.5)

	if err := ctx.SavePNG(path); err != nil {
		return fmt.Errorf("failed to save map: %w", err)
	}

	log.Printf("[RENDER] Saved solution map: path=%s points=%d centers=%d", path, len(points), len(solution.Centers))
	return nil
}
