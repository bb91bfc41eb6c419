package main

import (
	"os"

	"github.com/achilleasa/strokedensity/cmd"
	"github.com/urfave/cli"
)

func main() {
	cli.VersionFlag = cli.BoolFlag{
		Name:  "version",
		Usage: "print only the version",
	}

	pipelineFlags := []cli.Flag{
		cli.StringFlag{
			Name:   "order",
			Usage:  "channel order of the input pixels (rgb or bgr)",
			EnvVar: "STROKEDENSITY_ORDER",
		},
		cli.StringFlag{
			Name:   "cache-dir",
			Usage:  "directory for intersection cache archives",
			EnvVar: "STROKEDENSITY_CACHE_DIR",
		},
	}

	app := cli.NewApp()
	app.Name = "strokedensity"
	app.Usage = "compute per-pixel stroke density maps from the color hull of an image"
	app.Version = "0.0.1"
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "v",
			Usage: "enable verbose logging",
		},
		cli.BoolFlag{
			Name:  "vv",
			Usage: "enable even more verbose logging",
		},
		cli.StringFlag{
			Name:   "log-level",
			Value:  "notice",
			Usage:  "logger verbosity (debug, info, notice, warning, error)",
			EnvVar: "STROKEDENSITY_LOG_LEVEL",
		},
		cli.StringFlag{
			Name:   "config, c",
			Usage:  "load settings from a YAML file",
			EnvVar: "STROKEDENSITY_CONFIG",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:  "density",
			Usage: "compute the density map of an image",
			Description: `
Build the convex hull of all pixel colors in RGB space, cast a ray from the
area weighted hull surface centroid through every pixel color and map the
relative distance of each color to the hull boundary into a gray scale image.

The raw ray/hull crossings can be memoized in a zip archive with --cache so
that repeated runs over the same image skip the intersection step.`,
			ArgsUsage: "input_image output_image",
			Flags: append([]cli.Flag{
				cli.StringFlag{
					Name:  "cache",
					Usage: "memoize raw intersections in this archive file",
				},
				cli.StringFlag{
					Name:   "policy",
					Usage:  "selection policy for rays crossing the boundary more than once (last or nearest)",
					EnvVar: "STROKEDENSITY_POLICY",
				},
				cli.IntFlag{
					Name:   "workers",
					Usage:  "number of intersection workers (0 uses all CPUs)",
					EnvVar: "STROKEDENSITY_WORKERS",
				},
				cli.BoolFlag{
					Name:  "skip-degenerate",
					Usage: "mark pixels matching the hull centroid as invalid instead of failing",
				},
				cli.BoolFlag{
					Name:  "stats",
					Usage: "display run statistics",
				},
			}, pipelineFlags...),
			Action: cmd.Density,
		},
		{
			Name:      "hull",
			Usage:     "display the color hull of an image",
			ArgsUsage: "input_image",
			Flags: append([]cli.Flag{
				cli.StringFlag{
					Name:  "obj",
					Usage: "export the hull as a wavefront obj file",
				},
			}, pipelineFlags...),
			Action: cmd.Hull,
		},
		{
			Name:      "cache-info",
			Usage:     "display the contents of an intersection cache archive",
			ArgsUsage: "cache_file",
			Flags:     pipelineFlags,
			Action:    cmd.CacheInfo,
		},
	}

	if err := app.Run(os.Args); err != nil {
		cmd.LogError(err)
		os.Exit(1)
	}
}
