package pipeline

import (
	"bytes"
	"fmt"
	"time"

	"github.com/achilleasa/strokedensity/density"
	"github.com/achilleasa/strokedensity/types"
	"github.com/olekukonko/tablewriter"
)

type StageStat struct {
	// The stage name.
	Name string

	// Time spent in the stage.
	Time time.Duration
}

type Stats struct {
	// Input size.
	Width, Height  int
	DistinctColors int

	// Hull geometry.
	HullVertices int
	HullFaces    int
	HullArea     float64
	Centroid     types.Vec3

	// Intersection bookkeeping.
	Crossings      int
	MissingRays    int
	DegenerateRays int
	CacheHit       bool

	// Statistics over the valid pixels of the output field.
	Density density.Summary

	// Per stage timings and total run time.
	Stages    []StageStat
	TotalTime time.Duration
}

// Build a tabular representation of the run statistics.
func (s *Stats) Table() string {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Stage", "Metric", "Value"})
	table.Append([]string{"Input", "Pixels", fmt.Sprintf("%d (%dx%d)", s.Width*s.Height, s.Width, s.Height)})
	table.Append([]string{"", "Distinct colors", fmt.Sprintf("%d", s.DistinctColors)})
	table.Append([]string{" ", " ", " "})
	table.Append([]string{"Hull", "Vertices", fmt.Sprintf("%d", s.HullVertices)})
	table.Append([]string{"", "Faces", fmt.Sprintf("%d", s.HullFaces)})
	table.Append([]string{"", "Area", fmt.Sprintf("%.2f", s.HullArea)})
	table.Append([]string{"", "Centroid", fmt.Sprintf("(%.3f, %.3f, %.3f)", s.Centroid[0], s.Centroid[1], s.Centroid[2])})
	table.Append([]string{" ", " ", " "})
	table.Append([]string{"Intersection", "Crossings", fmt.Sprintf("%d", s.Crossings)})
	table.Append([]string{"", "Missing rays", fmt.Sprintf("%d", s.MissingRays)})
	table.Append([]string{"", "Degenerate rays", fmt.Sprintf("%d", s.DegenerateRays)})
	table.Append([]string{"", "Cache hit", fmt.Sprintf("%t", s.CacheHit)})
	table.Append([]string{" ", " ", " "})
	table.Append([]string{"Density", "Valid pixels", fmt.Sprintf("%d", s.Density.Valid)})
	table.Append([]string{"", "Mean / stddev", fmt.Sprintf("%.4f / %.4f", s.Density.Mean, s.Density.StdDev)})
	table.Append([]string{"", "Min / max", fmt.Sprintf("%.4f / %.4f", s.Density.Min, s.Density.Max)})
	table.Append([]string{" ", " ", " "})
	for _, stage := range s.Stages {
		table.Append([]string{"Timing", stage.Name, stage.Time.String()})
	}
	table.SetFooter([]string{"Total", " ", s.TotalTime.String()})

	table.Render()
	return buf.String()
}
