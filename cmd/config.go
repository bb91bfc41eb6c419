package cmd

import (
	"image"

	"github.com/achilleasa/strokedensity/asset"
	"github.com/achilleasa/strokedensity/config"
	"github.com/urfave/cli"
)

// Load the optional config file, apply command flag overrides and set up
// logging.
func loadConfig(ctx *cli.Context) (config.Config, error) {
	cfg := config.Default()
	if path := ctx.GlobalString("config"); path != "" {
		var err error
		if cfg, err = config.Load(path); err != nil {
			return cfg, err
		}
	}

	cfg.Resolve(config.Flags{
		ChannelOrder:       ctx.String("order"),
		Policy:             ctx.String("policy"),
		Workers:            ctx.Int("workers"),
		CacheDir:           ctx.String("cache-dir"),
		SkipDegenerateRays: ctx.Bool("skip-degenerate"),
	})

	if err := setupLogging(ctx, cfg.LogLevel); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Open and decode an input image.
func readInput(path string) (image.Image, error) {
	res, err := asset.NewResource(path)
	if err != nil {
		return nil, err
	}
	defer res.Close()

	return asset.ReadImage(res)
}
