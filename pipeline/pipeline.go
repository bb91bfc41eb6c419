// Package pipeline wires the sampler, hull, ray, intersection and density
// stages into a single run.
package pipeline

import (
	"errors"
	"image"
	"time"

	"github.com/achilleasa/strokedensity/density"
	"github.com/achilleasa/strokedensity/hull"
	"github.com/achilleasa/strokedensity/intersect"
	"github.com/achilleasa/strokedensity/log"
	"github.com/achilleasa/strokedensity/ray"
	"github.com/achilleasa/strokedensity/sampler"
	"github.com/achilleasa/strokedensity/types"
)

var logger = log.New("pipeline")

// Result is the output of a pipeline run.
type Result struct {
	Field    *density.Field
	Hull     *hull.Hull
	Centroid types.Vec3
	Stats    Stats
}

// Run computes the density field of an image.
func Run(img image.Image, opts Options) (*Result, error) {
	if img == nil {
		return nil, ErrNilImage
	}

	start := time.Now()
	cloud, err := sampler.FromImage(img, opts.ChannelOrder)
	if err != nil {
		return nil, err
	}

	res, err := RunCloud(cloud, opts)
	if err != nil {
		return nil, err
	}

	res.Stats.Stages = append([]StageStat{{"sample", time.Since(start) - res.Stats.TotalTime}}, res.Stats.Stages...)
	res.Stats.TotalTime = time.Since(start)
	return res, nil
}

// RunCloud computes the density field of an already sampled color cloud.
func RunCloud(cloud *sampler.Cloud, opts Options) (*Result, error) {
	if cloud == nil || cloud.Len() == 0 {
		return nil, ErrEmptyCloud
	}

	start := time.Now()
	stats := Stats{
		Width:          cloud.Width,
		Height:         cloud.Height,
		DistinctColors: cloud.Distinct(),
	}
	stageStart := start
	endStage := func(name string) {
		now := time.Now()
		stats.Stages = append(stats.Stages, StageStat{Name: name, Time: now.Sub(stageStart)})
		stageStart = now
	}

	h, err := hull.Build(cloud.Points, opts.Hull)
	if err != nil {
		return nil, err
	}
	stats.HullVertices = len(h.Vertices())
	stats.HullFaces = len(h.Faces)
	stats.HullArea = h.Area
	endStage("hull")

	centroid, err := hull.Centroid(h)
	if err != nil {
		return nil, err
	}
	stats.Centroid = centroid
	endStage("centroid")

	rays, err := ray.Generate(centroid, cloud.Points)
	var degenerate []int
	if err != nil {
		var rayErr *ray.DegenerateRayError
		if !opts.SkipDegenerateRays || !errors.As(err, &rayErr) {
			return nil, err
		}
		degenerate = rayErr.Indices
		logger.Warningf("skipping %d pixels whose color coincides with the hull centroid", len(degenerate))
	}
	stats.DegenerateRays = len(degenerate)
	endStage("rays")

	engine := intersect.NewEngine(opts.Store, opts.Workers, opts.Policy)
	ires, err := engine.Intersect(opts.CacheKey, h, rays, cloud.Points)
	if err != nil {
		return nil, err
	}
	stats.Crossings = ires.Raw.Len()
	stats.CacheHit = ires.CacheHit
	endStage("intersect")

	field, err := density.Map(centroid, ires.Resolved, cloud.Points, cloud.Width, cloud.Height)
	if err != nil {
		return nil, err
	}
	field.Invalidate(degenerate)
	stats.MissingRays = field.InvalidCount() - len(degenerate)
	stats.Density = field.Summary()
	endStage("density")

	stats.TotalTime = time.Since(start)
	logger.Infof("computed %dx%d density field in %d ms", cloud.Width, cloud.Height, stats.TotalTime.Nanoseconds()/1e6)

	return &Result{
		Field:    field,
		Hull:     h,
		Centroid: centroid,
		Stats:    stats,
	}, nil
}
