package hull

import (
	"math"

	"github.com/achilleasa/strokedensity/types"
	"gonum.org/v1/gonum/mat"
)

// Reject point clouds that are too thin to enclose a well conditioned solid.
//
// The points are projected onto the principal axes of their covariance
// matrix. The extent along the thinnest axis (and, for the collinear case,
// the middle axis) is compared against the extent along the widest axis.
func checkSpread(points []types.Vec3, tolerance float64) error {
	var mean types.Vec3
	for _, p := range points {
		mean = mean.Add(p)
	}
	mean = mean.Mul(1 / float64(len(points)))

	cov := mat.NewSymDense(3, nil)
	for _, p := range points {
		d := p.Sub(mean)
		for i := 0; i < 3; i++ {
			for j := i; j < 3; j++ {
				cov.SetSym(i, j, cov.At(i, j)+d[i]*d[j])
			}
		}
	}

	var eig mat.EigenSym
	if !eig.Factorize(cov, true) {
		return degenerate("could not factorize point covariance")
	}
	var axes mat.Dense
	eig.VectorsTo(&axes)

	// Eigenvalues are sorted in ascending order so column 0 is the
	// thinnest axis and column 2 the widest one.
	var extent [3]float64
	for col := 0; col < 3; col++ {
		axis := types.Vec3{axes.At(0, col), axes.At(1, col), axes.At(2, col)}
		lo, hi := math.Inf(1), math.Inf(-1)
		for _, p := range points {
			proj := axis.Dot(p.Sub(mean))
			lo = math.Min(lo, proj)
			hi = math.Max(hi, proj)
		}
		extent[col] = hi - lo
	}

	switch {
	case extent[2] == 0:
		return degenerate("all points coincide")
	case extent[1] <= tolerance*extent[2]:
		return degenerate("points are collinear (spread ratio %g)", extent[1]/extent[2])
	case extent[0] <= tolerance*extent[2]:
		return degenerate("points are coplanar (thickness ratio %g)", extent[0]/extent[2])
	}
	return nil
}
