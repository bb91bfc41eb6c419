package asset

import (
	"bufio"
	"fmt"
	"io"

	"github.com/achilleasa/strokedensity/hull"
)

// Write the hull boundary as a Wavefront OBJ mesh. Only hull vertices are
// emitted; each vertex also carries its own color (the vertex position
// scaled to [0, 1]) using the widely supported "v x y z r g b" extension.
func WriteWavefront(w io.Writer, h *hull.Hull) error {
	bw := bufio.NewWriter(w)

	vertices := h.Vertices()
	fmt.Fprintf(bw, "# color hull: %d vertices, %d faces, area %.4f\n", len(vertices), len(h.Faces), h.Area)
	fmt.Fprintln(bw, "o hull")

	// OBJ indices are 1-based
	remap := make(map[int]int, len(vertices))
	for i, pIndex := range vertices {
		p := h.Points[pIndex]
		remap[pIndex] = i + 1
		fmt.Fprintf(bw, "v %g %g %g %.6f %.6f %.6f\n", p[0], p[1], p[2], p[0]/255, p[1]/255, p[2]/255)
	}

	for _, f := range h.Faces {
		fmt.Fprintf(bw, "f %d %d %d\n", remap[f[0]], remap[f[1]], remap[f[2]])
	}

	return bw.Flush()
}
