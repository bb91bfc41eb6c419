package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/achilleasa/strokedensity/asset"
	"github.com/achilleasa/strokedensity/hull"
	"github.com/achilleasa/strokedensity/sampler"
	"github.com/achilleasa/strokedensity/types"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"
)

// Build the color hull of an image, display its geometry and optionally
// export it as a Wavefront OBJ file.
func Hull(ctx *cli.Context) error {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}

	if ctx.NArg() != 1 {
		return errors.New("missing input image argument")
	}

	opts, err := cfg.Options()
	if err != nil {
		return err
	}

	img, err := readInput(ctx.Args().First())
	if err != nil {
		return err
	}

	cloud, err := sampler.FromImage(img, opts.ChannelOrder)
	if err != nil {
		return err
	}

	h, err := hull.Build(cloud.Points, opts.Hull)
	if err != nil {
		return err
	}
	centroid, err := hull.Centroid(h)
	if err != nil {
		return err
	}

	if objFile := ctx.String("obj"); objFile != "" {
		f, err := os.Create(objFile)
		if err != nil {
			return err
		}
		err = asset.WriteWavefront(f, h)
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return err
		}
		logger.Noticef(`exported hull to "%s"`, objFile)
	}

	displayHullStats(cloud, h, centroid)
	return nil
}

func displayHullStats(cloud *sampler.Cloud, h *hull.Hull, centroid types.Vec3) {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Metric", "Value"})
	table.Append([]string{"Pixels", fmt.Sprintf("%d", cloud.Len())})
	table.Append([]string{"Distinct colors", fmt.Sprintf("%d", cloud.Distinct())})
	table.Append([]string{"Hull vertices", fmt.Sprintf("%d", len(h.Vertices()))})
	table.Append([]string{"Hull faces", fmt.Sprintf("%d", len(h.Faces))})
	table.Append([]string{"Surface area", fmt.Sprintf("%.2f", h.Area)})
	table.Append([]string{"Volume", fmt.Sprintf("%.2f", h.Volume())})
	table.Append([]string{"Centroid", fmt.Sprintf("(%.3f, %.3f, %.3f)", centroid[0], centroid[1], centroid[2])})

	table.Render()
	logger.Noticef("hull statistics\n%s", buf.String())
}
