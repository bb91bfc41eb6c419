package cmd

import (
	"errors"

	"github.com/achilleasa/strokedensity/asset"
	"github.com/achilleasa/strokedensity/intersect/cache"
	"github.com/achilleasa/strokedensity/pipeline"
	"github.com/urfave/cli"
)

// Compute the density map of an image.
func Density(ctx *cli.Context) error {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}

	if ctx.NArg() != 2 {
		return errors.New("expected input and output image arguments")
	}

	opts, err := cfg.Options()
	if err != nil {
		return err
	}
	if cacheFile := ctx.String("cache"); cacheFile != "" {
		opts.Store = cache.NewArchiveStore(cfg.CacheDir)
		opts.CacheKey = cacheFile
	}

	img, err := readInput(ctx.Args().Get(0))
	if err != nil {
		return err
	}

	res, err := pipeline.Run(img, opts)
	if err != nil {
		return err
	}

	if err = asset.WriteImage(ctx.Args().Get(1), res.Field.Image()); err != nil {
		return err
	}

	if ctx.Bool("stats") {
		logger.Noticef("run statistics\n%s", res.Stats.Table())
	}
	return nil
}
