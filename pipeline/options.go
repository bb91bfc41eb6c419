package pipeline

import (
	"github.com/achilleasa/strokedensity/hull"
	"github.com/achilleasa/strokedensity/intersect"
	"github.com/achilleasa/strokedensity/sampler"
)

type Options struct {
	// Channel layout of the input pixels.
	ChannelOrder sampler.ChannelOrder

	// Hull construction tolerances.
	Hull hull.Options

	// Optional store for memoizing raw intersection results. Memoization
	// is only used when both Store and CacheKey are set.
	Store    intersect.Store
	CacheKey string

	// Number of intersection workers; 0 uses all CPUs.
	Workers int

	// Selection policy for rays with more than one boundary crossing.
	Policy intersect.Policy

	// If set, pixels whose color coincides with the hull centroid are
	// marked invalid instead of failing the run.
	SkipDegenerateRays bool
}

// Get the default pipeline options.
func DefaultOptions() Options {
	return Options{
		ChannelOrder: sampler.RGB,
		Hull:         hull.DefaultOptions(),
		Policy:       intersect.LastWins,
	}
}
