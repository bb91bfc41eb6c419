package intersect

import (
	"time"

	"github.com/achilleasa/strokedensity/hull"
	"github.com/achilleasa/strokedensity/log"
	"github.com/achilleasa/strokedensity/ray"
	"github.com/achilleasa/strokedensity/types"
)

// Store persists raw intersection results between runs.
//
// Implementations decide how keys map to storage; no validation against the
// hull that produced a result is performed.
type Store interface {
	// Get returns the result stored under key. The boolean is false if no
	// result exists.
	Get(key string) (*Raw, bool, error)

	// Put stores a result under key, replacing any previous value.
	Put(key string, raw *Raw) error
}

// Result is the outcome of an Engine run.
type Result struct {
	Resolved *Resolved
	Raw      *Raw

	// True if Raw was loaded from the store.
	CacheHit bool
}

// Engine intersects rays with a hull boundary, optionally memoizing the raw
// batch result in a Store.
type Engine struct {
	logger log.Logger

	store   Store
	workers int
	policy  Policy
}

// Create a new engine. The store may be nil to disable memoization.
func NewEngine(store Store, workers int, policy Policy) *Engine {
	return &Engine{
		logger:  log.New("intersection engine"),
		store:   store,
		workers: workers,
		policy:  policy,
	}
}

// Intersect every ray with the hull boundary and resolve one location per
// ray. If key is not empty and the store holds a result for it, that result
// is reused verbatim; otherwise the batch is computed and stored.
func (e *Engine) Intersect(key string, h *hull.Hull, rays []ray.Ray, points []types.Vec3) (*Result, error) {
	start := time.Now()
	useStore := e.store != nil && key != ""

	var (
		raw      *Raw
		cacheHit bool
		err      error
	)
	if useStore {
		raw, cacheHit, err = e.store.Get(key)
		if err != nil {
			return nil, err
		}
	}

	if cacheHit {
		e.logger.Infof("loaded %d cached crossings from %q", raw.Len(), key)
		if err = raw.Validate(len(rays)); err != nil {
			if mismatch, ok := err.(*CacheMismatchError); ok {
				mismatch.Key = key
			}
			return nil, err
		}
	} else {
		e.logger.Infof("intersecting %d rays with %d hull faces", len(rays), len(h.Faces))
		raw = NewMesh(h.Points, h.Faces).IntersectLocations(rays, e.workers)
		if useStore {
			if err = e.store.Put(key, raw); err != nil {
				return nil, err
			}
		}
	}

	resolved, err := Resolve(raw, len(rays), e.policy, points)
	if err != nil {
		return nil, err
	}

	if missing := len(resolved.Missing()); missing != 0 {
		e.logger.Warningf("%d of %d rays did not cross the hull boundary", missing, len(rays))
	}
	e.logger.Debugf("resolved intersections in %d ms", time.Since(start).Nanoseconds()/1e6)

	return &Result{
		Resolved: resolved,
		Raw:      raw,
		CacheHit: cacheHit,
	}, nil
}
